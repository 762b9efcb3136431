package sdk

import (
	"testing"

	"github.com/sablelang/sablec/internal/ast"
	"github.com/sablelang/sablec/internal/check"
	"github.com/sablelang/sablec/internal/derived"
	"github.com/sablelang/sablec/internal/di"
	"github.com/sablelang/sablec/internal/ident"
	"github.com/stretchr/testify/require"
)

func TestFuncByNameAndRaisedErrors(t *testing.T) {
	errID := ident.New()
	fnID := ident.New()
	prog := &ast.Program{
		Funcs:  []*ast.FuncDecl{{ID: fnID, Name: "lookup"}},
		Errors: []*ast.ErrorDecl{{ID: errID, Name: "NotFound"}},
	}
	checked := &check.Program{
		Funcs:    map[string]*check.FuncSig{"lookup": {IsFallible: true}},
		CanRaise: map[string][]string{"lookup": {"NotFound"}},
	}
	snap := derived.Build(prog, checked, nil, []byte("x"))
	idx := Build(snap)

	fn, ok := idx.FuncByName("lookup")
	require.True(t, ok)
	require.Equal(t, fnID, fn.ID)

	errs := idx.RaisedErrors(fn)
	require.Len(t, errs, 1)
	require.Equal(t, "NotFound", errs[0].Name)

	_, ok = idx.FuncByName("missing")
	require.False(t, ok)
}

func TestByIDResolvesClassAndMethod(t *testing.T) {
	methodID := ident.New()
	classID := ident.New()
	cl := &ast.Class{
		ID:      classID,
		Name:    "Widget",
		Methods: []*ast.FuncDecl{{ID: methodID, Name: "spin"}},
	}
	prog := &ast.Program{Classes: []*ast.Class{cl}}
	checked := &check.Program{Classes: map[string]*check.ClassInfo{"Widget": {Methods: map[string]*check.FuncSig{}}}}
	snap := derived.Build(prog, checked, nil, []byte("x"))
	idx := Build(snap)

	cls, ok := idx.ClassByName("Widget")
	require.True(t, ok)
	require.Equal(t, classID, cls.ID)

	v, ok := idx.ByID(classID)
	require.True(t, ok)
	require.Same(t, cls, v.(*derived.ClassInfo))

	methods := idx.ClassMethods(cls)
	require.Len(t, methods, 1)
	require.Equal(t, "spin", methods[0].Name)
}

func TestImplementorsResolvesTraitToClasses(t *testing.T) {
	classID := ident.New()
	cl := &ast.Class{ID: classID, Name: "Disk"}
	tr := &ast.Trait{Name: "Storage"}
	prog := &ast.Program{Classes: []*ast.Class{cl}, Traits: []*ast.Trait{tr}}
	checked := &check.Program{
		Classes: map[string]*check.ClassInfo{"Disk": {Methods: map[string]*check.FuncSig{}, ImplTraits: []string{"Storage"}}},
		Traits:  map[string]*check.TraitInfo{"Storage": {Implementors: []string{"Disk"}}},
	}
	snap := derived.Build(prog, checked, nil, []byte("x"))
	idx := Build(snap)

	impls, ok := idx.Implementors("Storage")
	require.True(t, ok)
	require.Len(t, impls, 1)
	require.Equal(t, classID, impls[0].ID)

	_, ok = idx.Implementors("NoSuchTrait")
	require.False(t, ok)
}

func TestDIOrderResolvesSingletonsInDependencyOrder(t *testing.T) {
	dbID := ident.New()
	svcID := ident.New()
	db := &ast.Class{ID: dbID, Name: "DB", Lifecycle: ast.Singleton}
	svc := &ast.Class{ID: svcID, Name: "Service", Lifecycle: ast.Singleton}
	prog := &ast.Program{Classes: []*ast.Class{db, svc}}
	checked := &check.Program{Classes: map[string]*check.ClassInfo{}}
	plan := &di.Plan{Singletons: &di.SingletonPlan{Order: []string{"DB", "Service"}}}
	snap := derived.Build(prog, checked, plan, []byte("x"))
	idx := Build(snap)

	order := idx.DIOrder()
	require.Len(t, order, 2)
	require.Equal(t, "DB", order[0].Name)
	require.Equal(t, "Service", order[1].Name)
}
