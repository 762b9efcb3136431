// Package errors provides centralized error code definitions for sablec.
// All error codes follow a consistent taxonomy for structured reporting:
// each phase of the pipeline owns a letter band, and every diagnostic
// carries a stable code from this registry.
package errors

// Error code constants organized by phase.
const (
	// ========================================================================
	// AST & Stable Identity (AST###)
	// ========================================================================

	// AST001 indicates a UUID collision was detected while indexing the program
	AST001 = "AST001"

	// AST002 indicates a lookup was requested for an unknown UUID
	AST002 = "AST002"

	// ========================================================================
	// Binary AST Codec (BIN###)
	// ========================================================================

	// BIN001 indicates the file's magic number does not match
	BIN001 = "BIN001"

	// BIN002 indicates the file's format version is unsupported
	BIN002 = "BIN002"

	// BIN003 indicates the payload failed to decode
	BIN003 = "BIN003"

	// ========================================================================
	// Text<->Binary Sync (SYN###)
	// ========================================================================

	// SYN001 indicates a structural-similarity rename match was ambiguous
	SYN001 = "SYN001"

	// ========================================================================
	// Module Resolution (MOD###, LDR###)
	// ========================================================================

	MOD001 = "MOD001" // duplicate declaration name within a scope
	MOD002 = "MOD002" // qualified name collision after flattening
	LDR001 = "LDR001" // module file not found
	LDR002 = "LDR002" // circular module dependency detected

	// ========================================================================
	// Type Checking (TC###)
	// ========================================================================

	TC001 = "TC001" // type mismatch
	TC002 = "TC002" // unbound variable / unresolved cross-reference
	TC003 = "TC003" // invalid self parameter position
	TC004 = "TC004" // nullable assignment without coercion
	TC005 = "TC005" // bare send/recv without ! or catch

	// ========================================================================
	// Ambient Desugaring (DSG###)
	// ========================================================================

	DSG001 = "DSG001" // duplicate-ambient
	DSG002 = "DSG002" // conflicts-with-field
	DSG003 = "DSG003" // ambient used on a generic class

	// ========================================================================
	// DI Wiring Engine (DI###)
	// ========================================================================

	DI001 = "DI001" // singleton dependency cycle
	DI002 = "DI002" // seed-not-scoped
	DI003 = "DI003" // non-injected-fields-not-seed
	DI004 = "DI004" // binding-not-class
	DI005 = "DI005" // scope-cycle
	DI006 = "DI006" // scope-escape

	// ========================================================================
	// Concurrency Analysis (CONC###)
	// ========================================================================

	CONC001 = "CONC001" // spawn target could not be resolved

	// ========================================================================
	// Lowering / Codegen (IR###)
	// ========================================================================

	IR001 = "IR001" // unresolved QualifiedAccess reached codegen
	IR002 = "IR002" // unresolved generic TypeExpr reached codegen
	IR003 = "IR003" // TypeParam reached codegen
	IR004 = "IR004" // spawn whose inner expression is not a ClosureCreate
	IR005 = "IR005" // yield outside a generator next-function
	IR006 = "IR006" // unsupported RPC argument/result type
)

// ErrorInfo provides structured information about an error code.
type ErrorInfo struct {
	Code        string
	Phase       string
	Category    string
	Description string
}

// ErrorRegistry maps error codes to their information.
var ErrorRegistry = map[string]ErrorInfo{
	AST001: {AST001, "ast", "identity", "UUID collision"},
	AST002: {AST002, "ast", "identity", "Unknown UUID"},

	BIN001: {BIN001, "codec", "format", "Bad magic number"},
	BIN002: {BIN002, "codec", "format", "Unsupported format version"},
	BIN003: {BIN003, "codec", "decode", "Payload decode failure"},

	SYN001: {SYN001, "sync", "rename", "Ambiguous structural rename match"},

	MOD001: {MOD001, "module", "namespace", "Duplicate declaration name"},
	MOD002: {MOD002, "module", "namespace", "Qualified name collision"},
	LDR001: {LDR001, "module", "resolution", "Module not found"},
	LDR002: {LDR002, "module", "dependency", "Circular module dependency"},

	TC001: {TC001, "typecheck", "type", "Type mismatch"},
	TC002: {TC002, "typecheck", "scope", "Unresolved reference"},
	TC003: {TC003, "typecheck", "signature", "Invalid self parameter"},
	TC004: {TC004, "typecheck", "nullable", "Missing nullable coercion"},
	TC005: {TC005, "typecheck", "channel", "Bare channel op without ! or catch"},

	DSG001: {DSG001, "desugar", "ambient", "Duplicate ambient type"},
	DSG002: {DSG002, "desugar", "ambient", "Ambient variable conflicts with field"},
	DSG003: {DSG003, "desugar", "ambient", "Ambient used on generic class"},

	DI001: {DI001, "di", "cycle", "Singleton dependency cycle"},
	DI002: {DI002, "di", "scope", "Seed not scoped"},
	DI003: {DI003, "di", "scope", "Non-injected fields require a seed"},
	DI004: {DI004, "di", "scope", "Binding does not name a class"},
	DI005: {DI005, "di", "scope", "Scope-local dependency cycle"},
	DI006: {DI006, "di", "scope", "scope-local binding cannot escape scope block"},

	CONC001: {CONC001, "concurrency", "spawn", "Unresolved spawn target"},

	IR001: {IR001, "codegen", "invariant", "Unresolved qualified access"},
	IR002: {IR002, "codegen", "invariant", "Unresolved generic type expression"},
	IR003: {IR003, "codegen", "invariant", "Type parameter reached codegen"},
	IR004: {IR004, "codegen", "invariant", "Spawn body is not a closure"},
	IR005: {IR005, "codegen", "invariant", "Yield outside generator"},
	IR006: {IR006, "codegen", "rpc", "Unsupported RPC type"},
}

// GetErrorInfo returns information about an error code.
func GetErrorInfo(code string) (ErrorInfo, bool) {
	info, exists := ErrorRegistry[code]
	return info, exists
}

// IsPhase reports whether code belongs to the given phase.
func IsPhase(code, phase string) bool {
	info, exists := GetErrorInfo(code)
	return exists && info.Phase == phase
}
