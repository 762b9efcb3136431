package textsync

import (
	"testing"

	"github.com/sablelang/sablec/internal/ast"
	"github.com/sablelang/sablec/internal/ident"
	"github.com/stretchr/testify/require"
)

func intParam(name string) *ast.Param {
	return &ast.Param{Name: name, Type: &ast.Named{Name: ast.PrimInt}}
}

func TestSyncNoPriorBinaryMintsFreshIDsAndReportsAllAdded(t *testing.T) {
	newProg := &ast.Program{
		Funcs: []*ast.FuncDecl{{Name: "add", Params: []*ast.Param{intParam("x")}}},
	}
	r, err := Sync(newProg, nil)
	require.NoError(t, err)
	require.False(t, newProg.Funcs[0].ID.IsNil())
	require.Equal(t, []string{"add"}, r.Added)
	require.Empty(t, r.Unchanged)
}

func TestSyncDirectNameMatchPreservesUUID(t *testing.T) {
	oldID := ident.New()
	oldProg := &ast.Program{
		Funcs: []*ast.FuncDecl{{ID: oldID, Name: "add", Params: []*ast.Param{intParam("x")}}},
	}
	newProg := &ast.Program{
		Funcs: []*ast.FuncDecl{{Name: "add", Params: []*ast.Param{intParam("x"), intParam("y")}}},
	}
	r, err := Sync(newProg, oldProg)
	require.NoError(t, err)
	require.Equal(t, oldID, newProg.Funcs[0].ID)
	require.Contains(t, r.Unchanged, "add")
}

func TestSyncRenameMatchByStructuralSimilarity(t *testing.T) {
	oldID := ident.New()
	oldProg := &ast.Program{
		Classes: []*ast.Class{{
			ID:   oldID,
			Name: "Widget",
			Fields: []*ast.Field{
				{Name: "width", Type: &ast.Named{Name: ast.PrimInt}},
				{Name: "height", Type: &ast.Named{Name: ast.PrimInt}},
				{Name: "label", Type: &ast.Named{Name: ast.PrimString}},
			},
		}},
	}
	newProg := &ast.Program{
		Classes: []*ast.Class{{
			Name: "Gadget", // renamed
			Fields: []*ast.Field{
				{Name: "width", Type: &ast.Named{Name: ast.PrimInt}},
				{Name: "height", Type: &ast.Named{Name: ast.PrimInt}},
				{Name: "label", Type: &ast.Named{Name: ast.PrimString}},
			},
		}},
	}
	r, err := Sync(newProg, oldProg)
	require.NoError(t, err)
	require.Equal(t, oldID, newProg.Classes[0].ID)
	require.Contains(t, r.Modified, "Gadget")
	// nested fields, unchanged by name, keep their match too (the old
	// fields' unset IDs are carried over, with no Added/Removed noise)
	require.Contains(t, r.Unchanged, "width")
	require.Contains(t, r.Unchanged, "height")
	require.Contains(t, r.Unchanged, "label")
}

func TestSyncNestedFieldUUIDPreservedAcrossClassRename(t *testing.T) {
	fieldID := ident.New()
	oldProg := &ast.Program{
		Classes: []*ast.Class{{
			ID:   ident.New(),
			Name: "Widget",
			Fields: []*ast.Field{
				{ID: fieldID, Name: "width", Type: &ast.Named{Name: ast.PrimInt}},
				{Name: "height", Type: &ast.Named{Name: ast.PrimInt}},
			},
		}},
	}
	newProg := &ast.Program{
		Classes: []*ast.Class{{
			Name: "Gadget",
			Fields: []*ast.Field{
				{Name: "width", Type: &ast.Named{Name: ast.PrimInt}},
				{Name: "height", Type: &ast.Named{Name: ast.PrimInt}},
			},
		}},
	}
	_, err := Sync(newProg, oldProg)
	require.NoError(t, err)
	require.Equal(t, fieldID, newProg.Classes[0].Fields[0].ID)
}

func TestSyncGenuinelyNewDeclarationIsAdded(t *testing.T) {
	oldProg := &ast.Program{Funcs: []*ast.FuncDecl{{ID: ident.New(), Name: "add"}}}
	newProg := &ast.Program{Funcs: []*ast.FuncDecl{
		{Name: "add"},
		{Name: "subtract", Params: []*ast.Param{intParam("a"), intParam("b"), intParam("c")}},
	}}
	r, err := Sync(newProg, oldProg)
	require.NoError(t, err)
	require.Contains(t, r.Added, "subtract")
	require.False(t, newProg.Funcs[1].ID.IsNil())
}

func TestSyncGenuinelyRemovedDeclarationIsRemoved(t *testing.T) {
	oldProg := &ast.Program{Funcs: []*ast.FuncDecl{
		{ID: ident.New(), Name: "add"},
		{ID: ident.New(), Name: "legacy", Params: []*ast.Param{intParam("a"), intParam("b"), intParam("c"), intParam("d")}},
	}}
	newProg := &ast.Program{Funcs: []*ast.FuncDecl{{Name: "add"}}}
	r, err := Sync(newProg, oldProg)
	require.NoError(t, err)
	require.Contains(t, r.Removed, "legacy")
}

func TestSyncDeleteThenReAddMintsFreshUUID(t *testing.T) {
	oldID := ident.New()
	oldProg := &ast.Program{Funcs: []*ast.FuncDecl{{ID: oldID, Name: "helper", Params: []*ast.Param{intParam("a"), intParam("b"), intParam("c"), intParam("d"), intParam("e")}}}}
	// "helper" is deleted and a differently-named "unrelated" function
	// with a different shape is introduced: their structural similarity
	// is far below the rename threshold, so the new function must NOT
	// reuse the old UUID and is reported Added while "helper" is Removed.
	newProg := &ast.Program{Funcs: []*ast.FuncDecl{{Name: "unrelated", Params: []*ast.Param{intParam("x")}}}}
	r, err := Sync(newProg, oldProg)
	require.NoError(t, err)
	require.NotEqual(t, oldID, newProg.Funcs[0].ID)
	require.False(t, newProg.Funcs[0].ID.IsNil())
	require.Contains(t, r.Added, "unrelated")
	require.Contains(t, r.Removed, "helper")
}

func TestJaccardEmptySetsAreDissimilar(t *testing.T) {
	require.Equal(t, 0.0, jaccard(map[string]bool{}, map[string]bool{}))
}

func TestJaccardIdenticalSetsAreSimilarityOne(t *testing.T) {
	a := featureSet("x", "y")
	require.Equal(t, 1.0, jaccard(a, a))
}
