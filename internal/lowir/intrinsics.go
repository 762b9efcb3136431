package lowir

// IntrinsicMeta describes one runtime entry point the lowerer may call
// (spec.md 6.3). NumArgs is the fixed argument count the lowerer emits
// (a negative value marks a variable-arity call, e.g. print's dispatch
// table); Return is the IR-level value kind the call produces; IsVoid
// marks a call that produces no value.
type IntrinsicMeta struct {
	Name    string
	NumArgs int
	Return  ValueKind
	IsVoid  bool
}

// Intrinsics is the stable-name runtime contract lowering emits against,
// keyed by name. Lowering also emits some calls not registered here
// (chan_close, chan_recv_result, rpc_encode_args, expect_equal, lowerFor's
// per-kind iterator drivers, and the bare collection/channel method names
// of lowerIntrinsicMethodCall); for those it assumes an I64 result. This mirrors the teacher's
// internal/builtins.Registry map[string]*BuiltinMeta shape, generalized
// from AILANG's interpreter-dispatched builtins to sablec's
// lowerer-emitted runtime calls.
var Intrinsics = make(map[string]*IntrinsicMeta)

func reg(name string, numArgs int, ret ValueKind, isVoid bool) {
	Intrinsics[name] = &IntrinsicMeta{Name: name, NumArgs: numArgs, Return: ret, IsVoid: isVoid}
}

func init() {
	registerMemoryIntrinsics()
	registerStringIntrinsics()
	registerCollectionIntrinsics()
	registerNumericIntrinsics()
	registerConcurrencyIntrinsics()
	registerErrorStateIntrinsics()
	registerDiagnosticIntrinsics()
	registerRPCIntrinsics()
}

func registerMemoryIntrinsics() {
	reg("alloc", 1, I64, false)
	reg("gc_init", 0, I64, true)
	reg("gc_heap_size", 0, I64, false)
	reg("safepoint", 0, I64, true)
	reg("deep_copy", 1, I64, false)
}

func registerStringIntrinsics() {
	reg("string_new", 2, I64, false)
	reg("string_concat", 2, I64, false)
	reg("string_len", 1, I64, false)
	reg("string_eq", 2, I8, false)
	reg("string_contains", 2, I8, false)
	reg("string_starts_with", 2, I8, false)
	reg("string_ends_with", 2, I8, false)
	reg("string_index_of", 2, I64, false)
	reg("string_last_index_of", 2, I64, false)
	reg("string_substring", 3, I64, false)
	reg("string_trim", 1, I64, false)
	reg("string_trim_start", 1, I64, false)
	reg("string_trim_end", 1, I64, false)
	reg("string_to_upper", 1, I64, false)
	reg("string_to_lower", 1, I64, false)
	reg("string_replace", 3, I64, false)
	reg("string_split", 2, I64, false)
	reg("string_char_at", 2, I8, false)
	reg("string_byte_at", 2, I8, false)
	reg("string_to_bytes", 1, I64, false)
	reg("string_to_int", 1, I64, false)
	reg("string_to_float", 1, F64, false)
	reg("string_repeat", 2, I64, false)
	reg("string_count", 2, I64, false)
	reg("string_is_empty", 1, I8, false)
	reg("string_is_whitespace", 1, I8, false)
}

func registerCollectionIntrinsics() {
	reg("array_new", 0, I64, false)
	reg("array_push", 2, I64, true)
	reg("array_pop", 1, I64, false)
	reg("array_first", 1, I64, false)
	reg("array_last", 1, I64, false)
	reg("array_get", 2, I64, false)
	reg("array_set", 3, I64, true)
	reg("array_len", 1, I64, false)
	reg("array_clear", 1, I64, true)
	reg("array_remove_at", 2, I64, false)
	reg("array_insert_at", 3, I64, true)
	reg("array_slice", 3, I64, false)
	reg("array_reverse", 1, I64, false)
	reg("array_contains", 2, I8, false)
	reg("array_index_of", 2, I64, false)
	reg("map_new", 1, I64, false)
	reg("map_insert", 3, I64, true)
	reg("map_remove", 2, I64, true)
	reg("map_get", 2, I64, false)
	reg("map_contains", 2, I8, false)
	reg("map_len", 1, I64, false)
	reg("map_keys", 1, I64, false)
	reg("map_values", 1, I64, false)
	reg("set_new", 1, I64, false)
	reg("set_insert", 2, I64, true)
	reg("set_remove", 2, I64, true)
	reg("set_contains", 2, I8, false)
	reg("set_len", 1, I64, false)
	reg("set_to_array", 1, I64, false)
	reg("bytes_new", 1, I64, false)
	reg("bytes_push", 2, I64, true)
	reg("bytes_get", 2, I8, false)
	reg("bytes_set", 3, I64, true)
	reg("bytes_len", 1, I64, false)
	reg("bytes_to_string", 1, I64, false)
}

func registerNumericIntrinsics() {
	reg("abs_int", 1, I64, false)
	reg("abs_float", 1, F64, false)
	reg("min_int", 2, I64, false)
	reg("min_float", 2, F64, false)
	reg("max_int", 2, I64, false)
	reg("max_float", 2, F64, false)
	reg("pow_int", 2, I64, false)
	reg("pow_float", 2, F64, false)
	reg("sqrt", 1, F64, false)
	reg("floor", 1, F64, false)
	reg("ceil", 1, F64, false)
	reg("round", 1, F64, false)
	reg("sin", 1, F64, false)
	reg("cos", 1, F64, false)
	reg("tan", 1, F64, false)
	reg("log", 1, F64, false)
	reg("int_to_string", 1, I64, false)
	reg("float_to_string", 1, I64, false)
	reg("bool_to_string", 1, I64, false)
}

func registerConcurrencyIntrinsics() {
	reg("task_spawn", 1, I64, false)
	reg("task_get", 1, I64, false)
	reg("task_detach", 1, I64, true)
	reg("task_cancel", 1, I64, true)
	reg("chan_create", 1, I64, false)
	reg("chan_send", 2, I64, true)
	reg("chan_try_send", 2, I8, false)
	reg("chan_recv", 1, I64, false)
	reg("chan_try_recv", 1, I64, false)
	reg("chan_sender_inc", 1, I64, true)
	reg("chan_sender_dec", 1, I64, true)
	reg("select", 3, I64, false)
	reg("rwlock_rdlock", 1, I64, true)
	reg("rwlock_wrlock", 1, I64, true)
	reg("rwlock_unlock", 1, I64, true)
}

func registerErrorStateIntrinsics() {
	reg("raise_error", 1, I64, true)
	reg("get_error", 0, I64, false)
	reg("has_error", 0, I8, false)
	reg("clear_error", 0, I64, true)
}

func registerDiagnosticIntrinsics() {
	reg("invariant_violation", 2, I64, true)
	reg("requires_violation", 2, I64, true)
	reg("ensures_violation", 2, I64, true)
	reg("print_int", 1, I64, true)
	reg("print_float", 1, I64, true)
	reg("print_string", 1, I64, true)
	reg("print_bool", 1, I64, true)
	reg("expect_equal_int", 3, I64, true)
	reg("expect_equal_float", 3, I64, true)
	reg("expect_equal_string", 3, I64, true)
	reg("expect_equal_bool", 3, I64, true)
	reg("expect_true", 2, I64, true)
	reg("expect_false", 2, I64, true)
}

func registerRPCIntrinsics() {
	reg("http_post", 2, I64, false)
	reg("rpc_extract_int", 1, I64, false)
	reg("rpc_extract_float", 1, F64, false)
	reg("rpc_extract_string", 1, I64, false)
	reg("rpc_extract_bool", 1, I8, false)
	reg("rpc_extract_void", 1, I64, true)
}

// KeyTypeTag is the hashed-container key-type tag spec.md 6.3 fixes for
// map_new/set_new's first argument.
func KeyTypeTag(name string) int64 {
	switch name {
	case "int":
		return 0
	case "float":
		return 1
	case "bool":
		return 2
	case "string":
		return 3
	case "enum":
		return 4
	default:
		return -1
	}
}
