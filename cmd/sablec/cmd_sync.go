package main

import (
	"fmt"
	"os"

	"github.com/sablelang/sablec/internal/check"
	"github.com/sablelang/sablec/internal/codec"
	"github.com/sablelang/sablec/internal/derived"
	"github.com/sablelang/sablec/internal/textsync"
	"github.com/spf13/cobra"
)

var syncOut string

var syncCmd = &cobra.Command{
	Use:   "sync <old.sab> <new.sab>",
	Short: "Fold a freshly re-parsed draft AST into a prior binary, preserving UUIDs",
	Args:  cobra.ExactArgs(2),
	RunE:  runSync,
}

func init() {
	syncCmd.Flags().StringVarP(&syncOut, "out", "o", "", "output path (defaults to overwriting <old.sab>)")
	rootCmd.AddCommand(syncCmd)
}

func decodeFile(path string) (*codec.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return codec.Decode(f)
}

func runSync(cmd *cobra.Command, args []string) error {
	oldPath, newPath := args[0], args[1]

	oldFile, err := decodeFile(oldPath)
	if err != nil {
		exitWithError("%v", err)
		return nil
	}
	newFile, err := decodeFile(newPath)
	if err != nil {
		exitWithError("%v", err)
		return nil
	}

	report, err := textsync.Sync(newFile.Program, oldFile.Program)
	if err != nil {
		exitWithError("sync: %v", err)
		return nil
	}

	out := syncOut
	if out == "" {
		out = oldPath
	}

	// Derived's sidecar needs resolved shapes; a synced-but-not-yet-
	// checked program still gets a best-effort snapshot (no plan, and
	// checker failures simply mean an empty ClassInfo/FuncSig per
	// declaration, same as the zero value check.Check builds for names
	// it never reaches).
	checked, err := check.Check(newFile.Program)
	if err != nil {
		checked = &check.Program{
			Funcs: map[string]*check.FuncSig{}, Classes: map[string]*check.ClassInfo{},
			Traits: map[string]*check.TraitInfo{}, Enums: map[string]*check.EnumInfo{},
			Errors: map[string]*check.ErrorTypeInfo{}, Stages: map[string]*check.StageInfo{},
		}
	}

	merged := &codec.File{
		Program: newFile.Program,
		Source:  newFile.Source,
		Derived: derived.Build(newFile.Program, checked, nil, []byte(newFile.Source)),
	}
	w, err := os.Create(out)
	if err != nil {
		exitWithError("%v", err)
		return nil
	}
	defer w.Close()
	if err := codec.Encode(w, merged); err != nil {
		exitWithError("encode: %v", err)
		return nil
	}

	fmt.Printf("synced: %d added, %d removed, %d modified, %d unchanged\n",
		len(report.Added), len(report.Removed), len(report.Modified), len(report.Unchanged))
	return nil
}
