package lowir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilderEmitsBinOpAndReturn(t *testing.T) {
	b := NewBuilder("add", []FuncParam{
		{Reg: Reg{ID: 0, Kind: I64}, Name: "x"},
		{Reg: Reg{ID: 1, Kind: I64}, Name: "y"},
	}, I64, true)

	dst := b.NewReg(I64)
	b.Emit(BinOp{Dst: dst, Op: "+", Lhs: b.fn.Params[0].Reg, Rhs: b.fn.Params[1].Reg})
	b.Terminate(Ret{Val: dst})

	fn := b.Func()
	require.Len(t, fn.Blocks, 1)
	require.Equal(t, "entry", fn.Blocks[0].Label)
	require.Len(t, fn.Blocks[0].Instrs, 1)
	require.IsType(t, Ret{}, fn.Blocks[0].Term)
}

func TestBuilderNewBlockUniquifiesLabels(t *testing.T) {
	b := NewBuilder("f", nil, I64, true)
	b1 := b.NewBlock("loop")
	b2 := b.NewBlock("loop")
	require.NotEqual(t, b1.Label, b2.Label)
}

func TestEmitCallReturnsNilForVoid(t *testing.T) {
	b := NewBuilder("f", nil, I64, false)
	got := b.EmitCall("print_int", []Operand{ConstInt{Val: 1}}, nil)
	require.Nil(t, got)
	require.Len(t, b.Current().Instrs, 1)
}

func TestEmitCallReturnsRegisterForNonVoid(t *testing.T) {
	b := NewBuilder("f", nil, I64, true)
	ret := I64
	got := b.EmitCall("array_len", []Operand{ConstInt{Val: 0}}, &ret)
	require.NotNil(t, got)
	r, ok := got.(Reg)
	require.True(t, ok)
	require.Equal(t, I64, r.Kind)
}

func TestIntrinsicsRegistryHasRuntimeContractEntries(t *testing.T) {
	for _, name := range []string{
		"chan_send", "chan_recv", "task_spawn", "string_concat",
		"array_get", "raise_error", "has_error", "rwlock_rdlock",
		"rpc_extract_int", "invariant_violation",
	} {
		_, ok := Intrinsics[name]
		require.True(t, ok, "missing intrinsic %s", name)
	}
}

func TestKeyTypeTagMatchesSpecOrdering(t *testing.T) {
	require.Equal(t, int64(0), KeyTypeTag("int"))
	require.Equal(t, int64(3), KeyTypeTag("string"))
	require.Equal(t, int64(4), KeyTypeTag("enum"))
}

func TestValueKindToSlotRoundTrips(t *testing.T) {
	b := NewBuilder("f", nil, I64, true)
	boolReg := b.NewReg(I8)
	slot := b.NewReg(I64)
	b.Emit(ToSlot{Dst: slot, Src: boolReg, From: I8})
	back := b.NewReg(I8)
	b.Emit(FromSlot{Dst: back, Src: slot, To: I8})
	require.Len(t, b.Current().Instrs, 2)
}
