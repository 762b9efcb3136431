package main

import (
	"fmt"

	"github.com/sablelang/sablec/internal/ident"
	"github.com/sablelang/sablec/internal/sdk"
	"github.com/spf13/cobra"
)

func parseID(s string) (ident.ID, error) {
	return ident.Parse(s)
}

var (
	sdkByName       string
	sdkByUUID       string
	sdkImplementors string
	sdkDIOrder      bool
)

var sdkCmd = &cobra.Command{
	Use:   "sdk",
	Short: "Read-only query commands over a compiled binary AST file",
}

var sdkQueryCmd = &cobra.Command{
	Use:   "query <file.sab>",
	Short: "Look up declarations by name, UUID, trait implementor, or DI order",
	Args:  cobra.ExactArgs(1),
	RunE:  runSDKQuery,
}

func init() {
	sdkQueryCmd.Flags().StringVar(&sdkByName, "by-name", "", "find a function/class/trait/enum/error/stage by name")
	sdkQueryCmd.Flags().StringVar(&sdkByUUID, "by-uuid", "", "find a declaration by its UUID")
	sdkQueryCmd.Flags().StringVar(&sdkImplementors, "implementors", "", "list classes implementing a trait")
	sdkQueryCmd.Flags().BoolVar(&sdkDIOrder, "di-order", false, "print the singleton DI creation order")
	sdkCmd.AddCommand(sdkQueryCmd)
	rootCmd.AddCommand(sdkCmd)
}

// buildSDKIndex indexes the derived snapshot of an already-run frontend
// result, shared by `sdk query` and the repl command.
func buildSDKIndex(res *pipelineResult) *sdk.Index {
	return sdk.Build(res.snapshot())
}

func runSDKQuery(cmd *cobra.Command, args []string) error {
	res, err := runFrontend(args[0], moduleRoot)
	if err != nil {
		exitWithError("%v", err)
		return nil
	}
	idx := buildSDKIndex(res)

	switch {
	case sdkByName != "":
		if !printByName(idx, sdkByName) {
			exitWithError("no declaration named %q", sdkByName)
		}
	case sdkByUUID != "":
		id, err := parseID(sdkByUUID)
		if err != nil {
			exitWithError("%v", err)
			return nil
		}
		v, ok := idx.ByID(id)
		if !ok {
			exitWithError("no declaration with UUID %s", sdkByUUID)
			return nil
		}
		fmt.Printf("%+v\n", v)
	case sdkImplementors != "":
		impls, ok := idx.Implementors(sdkImplementors)
		if !ok {
			exitWithError("no such trait %q", sdkImplementors)
			return nil
		}
		for _, c := range impls {
			fmt.Println(c.Name)
		}
	case sdkDIOrder:
		for _, c := range idx.DIOrder() {
			fmt.Println(c.Name)
		}
	default:
		exitWithError("one of --by-name, --by-uuid, --implementors, --di-order is required")
	}
	return nil
}

// printByName checks every declaration kind in turn and prints the first
// match; it reports whether anything was found.
func printByName(idx *sdk.Index, name string) bool {
	if f, ok := idx.FuncByName(name); ok {
		fmt.Printf("func %s: %+v\n", name, f)
		return true
	}
	if c, ok := idx.ClassByName(name); ok {
		fmt.Printf("class %s: %+v\n", name, c)
		return true
	}
	if tr, ok := idx.TraitByName(name); ok {
		fmt.Printf("trait %s: %+v\n", name, tr)
		return true
	}
	if e, ok := idx.EnumByName(name); ok {
		fmt.Printf("enum %s: %+v\n", name, e)
		return true
	}
	if e, ok := idx.ErrorByName(name); ok {
		fmt.Printf("error %s: %+v\n", name, e)
		return true
	}
	if s, ok := idx.StageByName(name); ok {
		fmt.Printf("stage %s: %+v\n", name, s)
		return true
	}
	return false
}
