package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <file.sab>",
	Short: "Type-check and analyze a binary AST file without lowering it",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	res, err := runFrontend(args[0], moduleRoot)
	if err != nil {
		exitWithError("%v", err)
		return nil
	}
	locked := 0
	for _, s := range res.checked.SynchronizedSingletons {
		if s {
			locked++
		}
	}
	fmt.Printf("%s %s: %d functions, %d classes, %d synchronized singletons\n",
		color.GreenString("ok"), args[0], len(res.checked.Funcs), len(res.checked.Classes), locked)
	return nil
}
