package main

import (
	"fmt"
	"os"

	"github.com/sablelang/sablec/internal/ast"
	"github.com/sablelang/sablec/internal/check"
	"github.com/sablelang/sablec/internal/codec"
	"github.com/sablelang/sablec/internal/concur"
	"github.com/sablelang/sablec/internal/derived"
	"github.com/sablelang/sablec/internal/desugar"
	"github.com/sablelang/sablec/internal/di"
	"github.com/sablelang/sablec/internal/modres"
	"github.com/sablelang/sablec/internal/xlog"
)

// pipelineResult is every artifact a compiled program produces, from the
// flattened AST through the checker, concurrency analysis, and DI plan.
// check/lower/sdk all share this single front-half so a flag like
// --module-root behaves identically across subcommands.
type pipelineResult struct {
	prog    *ast.Program
	checked *check.Program
	plan    *di.Plan
	source  string
}

// runFrontend loads path as a binary AST file, flattens its imports
// relative to moduleRoot, desugars ambient `uses` into explicit fields,
// type-checks, runs concurrency analysis (populating
// checked.SynchronizedSingletons), and wires the DI plan. Every stage
// after Flatten mirrors spec.md 4.4-4.8 in pipeline order.
func runFrontend(path, moduleRoot string) (*pipelineResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	file, err := codec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	xlog.Debugf("decoded %s (%d bytes source)", path, len(file.Source))

	flat, err := modres.Flatten(path, file.Program, newFileLoader(moduleRoot))
	if err != nil {
		return nil, fmt.Errorf("flatten: %w", err)
	}

	desugared, err := desugar.Desugar(flat)
	if err != nil {
		return nil, fmt.Errorf("desugar: %w", err)
	}

	checked, err := check.Check(desugared)
	if err != nil {
		return nil, fmt.Errorf("check: %w", err)
	}
	xlog.Infof("checked %d functions, %d classes", len(checked.Funcs), len(checked.Classes))

	if _, err := concur.Analyze(desugared, checked); err != nil {
		return nil, fmt.Errorf("concurrency analysis: %w", err)
	}

	plan, err := di.Wire(desugared, checked)
	if err != nil {
		return nil, fmt.Errorf("di: %w", err)
	}

	return &pipelineResult{prog: desugared, checked: checked, plan: plan, source: file.Source}, nil
}

// snapshot builds the derived-info sidecar for r, for callers (sdk query,
// a re-encode after sync) that need the binary file's query layer rather
// than just the checked program.
func (r *pipelineResult) snapshot() *derived.Snapshot {
	return derived.Build(r.prog, r.checked, r.plan, []byte(r.source))
}
