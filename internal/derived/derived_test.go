package derived

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sablelang/sablec/internal/ast"
	"github.com/sablelang/sablec/internal/check"
	"github.com/sablelang/sablec/internal/di"
	"github.com/sablelang/sablec/internal/ident"
	"github.com/sablelang/sablec/internal/rtypes"
	"github.com/stretchr/testify/require"
)

func TestBuildCapturesFuncSignatureAndErrorRefs(t *testing.T) {
	errID := ident.New()
	fnID := ident.New()
	prog := &ast.Program{
		Funcs:  []*ast.FuncDecl{{ID: fnID, Name: "lookup"}},
		Errors: []*ast.ErrorDecl{{ID: errID, Name: "NotFound"}},
	}
	checked := &check.Program{
		Funcs: map[string]*check.FuncSig{
			"lookup": {Params: []rtypes.Type{{Kind: rtypes.KInt}}, Return: rtypes.Type{Kind: rtypes.KString}, IsFallible: true},
		},
		CanRaise: map[string][]string{"lookup": {"NotFound"}},
	}

	snap := Build(prog, checked, nil, []byte("source"))
	require.Len(t, snap.Funcs, 1)
	fn := snap.Funcs[0]
	require.Equal(t, fnID, fn.ID)
	require.True(t, fn.IsFallible)
	require.Len(t, fn.ErrorRefs, 1)
	require.Equal(t, "NotFound", fn.ErrorRefs[0].Name)
	require.Equal(t, errID, fn.ErrorRefs[0].ID)
}

func TestBuildSortsClassMethodsByUUID(t *testing.T) {
	m1 := &ast.FuncDecl{ID: ident.New(), Name: "b"}
	m2 := &ast.FuncDecl{ID: ident.New(), Name: "a"}
	cl := &ast.Class{ID: ident.New(), Name: "Widget", Methods: []*ast.FuncDecl{m1, m2}}
	prog := &ast.Program{Classes: []*ast.Class{cl}}
	checked := &check.Program{Classes: map[string]*check.ClassInfo{"Widget": {Methods: map[string]*check.FuncSig{}}}}

	snap := Build(prog, checked, nil, []byte("x"))
	require.Len(t, snap.Classes, 1)
	require.Len(t, snap.Classes[0].Methods, 2)
	// sorted lexicographically by UUID string, not declaration order
	ids := snap.Classes[0].Methods
	require.True(t, ids[0].String() < ids[1].String() || ids[0] == ids[1])
}

func TestBuildCapturesSingletonOrder(t *testing.T) {
	dbID := ident.New()
	svcID := ident.New()
	db := &ast.Class{ID: dbID, Name: "DB", Lifecycle: ast.Singleton}
	svc := &ast.Class{ID: svcID, Name: "Service", Lifecycle: ast.Singleton}
	prog := &ast.Program{Classes: []*ast.Class{db, svc}}
	checked := &check.Program{Classes: map[string]*check.ClassInfo{}}
	plan := &di.Plan{Singletons: &di.SingletonPlan{Order: []string{"DB", "Service"}}}

	snap := Build(prog, checked, plan, []byte("x"))
	require.Equal(t, []ident.ID{dbID, svcID}, snap.DIOrder)
}

func TestIsStaleDetectsSourceChange(t *testing.T) {
	snap := Build(&ast.Program{}, &check.Program{}, nil, []byte("original"))
	require.False(t, snap.IsStale([]byte("original")))
	require.True(t, snap.IsStale([]byte("changed")))
}

// TestBuildIsDeterministicAcrossRuns guards the ordering supplement in
// SPEC_FULL 4: two builds from the same input must produce byte-for-byte
// identical derived info, not just equal-ignoring-order slices, since the
// codec's round-trip property depends on map iteration never leaking in.
func TestBuildIsDeterministicAcrossRuns(t *testing.T) {
	dbID, svcID := ident.New(), ident.New()
	db := &ast.Class{ID: dbID, Name: "DB", Lifecycle: ast.Singleton}
	svc := &ast.Class{ID: svcID, Name: "Service", Lifecycle: ast.Singleton, Methods: []*ast.FuncDecl{
		{ID: ident.New(), Name: "z"}, {ID: ident.New(), Name: "a"},
	}}
	prog := &ast.Program{Classes: []*ast.Class{svc, db}}
	checked := &check.Program{Classes: map[string]*check.ClassInfo{
		"DB":      {Methods: map[string]*check.FuncSig{}},
		"Service": {Methods: map[string]*check.FuncSig{}},
	}}
	plan := &di.Plan{Singletons: &di.SingletonPlan{Order: []string{"DB", "Service"}}}

	first := Build(prog, checked, plan, []byte("x"))
	second := Build(prog, checked, plan, []byte("x"))

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("derived snapshot is not deterministic across runs (-first +second):\n%s", diff)
	}
}

func TestBuildFlagsStageWithRPCCall(t *testing.T) {
	st := &ast.Stage{
		ID:   ident.New(),
		Name: "Worker",
		Methods: []*ast.FuncDecl{{
			Name: "run",
			Body: &ast.MethodCall{Method: "submit", Resolution: ast.MethodResolution{Kind: ast.ResRPC, StageName: "Queue"}},
		}},
	}
	prog := &ast.Program{Stages: []*ast.Stage{st}}
	snap := Build(prog, &check.Program{}, nil, []byte("x"))
	require.Len(t, snap.Stages, 1)
	require.Contains(t, snap.Stages[0].RequiredCapabilities, "net.rpc")
}
