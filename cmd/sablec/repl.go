package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/sablelang/sablec/internal/ident"
	"github.com/spf13/cobra"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	dim   = color.New(color.Faint).SprintFunc()
)

// replCmd is a stub for interactive exploration of a compiled binary AST
// file (`:find <name>`, `:uuid <id>`), kept for the external tooling
// collaborators spec.md 1 hands the lexer/parser/LSP work to — they get
// readline-style history for free rather than reimplementing it.
var replCmd = &cobra.Command{
	Use:   "repl <file.sab>",
	Short: "Interactive query shell over a compiled binary AST file",
	Args:  cobra.ExactArgs(1),
	RunE:  runREPL,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runREPL(cmd *cobra.Command, args []string) error {
	res, err := runFrontend(args[0], moduleRoot)
	if err != nil {
		exitWithError("%v", err)
		return nil
	}
	idx := buildSDKIndex(res)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Printf("%s %s loaded. Type %s for commands, %s to exit.\n",
		green("sablec"), args[0], dim(":help"), dim(":quit"))

	for {
		input, err := line.Prompt("sablec> ")
		if err != nil {
			if err == io.EOF || err == liner.ErrPromptAborted {
				fmt.Println()
				return nil
			}
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch {
		case input == ":quit" || input == ":q":
			return nil
		case input == ":help" || input == ":h":
			fmt.Println(":find <name>   look up a declaration by name")
			fmt.Println(":uuid <id>     look up a declaration by UUID")
			fmt.Println(":quit          exit")
		case strings.HasPrefix(input, ":find "):
			if !printByName(idx, strings.TrimSpace(strings.TrimPrefix(input, ":find "))) {
				fmt.Println("not found")
			}
		case strings.HasPrefix(input, ":uuid "):
			id, err := ident.Parse(strings.TrimSpace(strings.TrimPrefix(input, ":uuid ")))
			if err != nil {
				fmt.Println(err)
				continue
			}
			if v, ok := idx.ByID(id); ok {
				fmt.Printf("%+v\n", v)
			} else {
				fmt.Println("not found")
			}
		default:
			fmt.Println("unknown command, try :help")
		}
	}
}
