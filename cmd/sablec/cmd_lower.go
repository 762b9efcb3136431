package main

import (
	"fmt"
	"os"

	"github.com/sablelang/sablec/internal/lower"
	"github.com/spf13/cobra"
)

var lowerOut string

var lowerCmd = &cobra.Command{
	Use:   "lower <file.sab>",
	Short: "Lower a checked binary AST file to the low-level register IR",
	Args:  cobra.ExactArgs(1),
	RunE:  runLower,
}

func init() {
	lowerCmd.Flags().StringVarP(&lowerOut, "out", "o", "", "write the IR dump here instead of stdout")
	rootCmd.AddCommand(lowerCmd)
}

func runLower(cmd *cobra.Command, args []string) error {
	res, err := runFrontend(args[0], moduleRoot)
	if err != nil {
		exitWithError("%v", err)
		return nil
	}

	mod, err := lower.Lower(res.prog, res.checked, res.plan)
	if err != nil {
		exitWithError("lower: %v", err)
		return nil
	}

	dump := mod.String()
	if lowerOut == "" {
		fmt.Println(dump)
		return nil
	}
	return os.WriteFile(lowerOut, []byte(dump), 0o644)
}
