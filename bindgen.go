// Package bindgen generates target-language bindings for native components
// described by a language-neutral interface model.
//
// # Architecture
//
// The package uses a two-layer design:
//  1. Language-agnostic contracts (this file) define what a backend must
//     provide: an Oracle resolving every type to a code-generation strategy,
//     the CodeType strategy surface, and per-declaration wrappers.
//  2. Language-specific backends (kotlin/, ...) implement the contracts and
//     assemble final source text.
//
// This separation allows adding new target languages without duplicating
// model traversal logic.
//
// # Design Decisions
//
//   - The type union in model/ is closed; an Oracle dispatches over it with an
//     explicit per-variant match. Adding a variant means adding one case and
//     one strategy, never editing existing strategies.
//   - The four marshaling operations (lower/write/lift/read) plus literal
//     rendering are pure functions of (oracle, name-or-value) to text, so they
//     stay unit-testable without any template machinery.
//   - Generation is a pure function of (model, config): no I/O, no shared
//     mutable state, deterministic output.
//
// # Implementing a New Backend
//
// To add support for a new language (e.g., Swift):
//
//  1. Create package: swift/
//  2. Implement Oracle with a strategy per type variant (a shared fallback
//     for primitives and collections is fine; enums, objects and callback
//     interfaces need dedicated strategies)
//  3. Implement MemberDeclaration wrappers for declared types
//  4. Expose a filter layer delegating to the Oracle
//  5. Add package-level tests in the backend package
package bindgen

import "github.com/pagr/bindgen/model"

// CodeType is the per-type-variant strategy. Implementations are stateless;
// every method is a pure function of its inputs.
//
// Lower and Lift move a single value across the FFI boundary. Write and Read
// serialize through a growable byte buffer, used for compound and
// variable-length types. The four must stay positionally consistent: what
// Lower produces, Lift undoes; what Write produces, Read undoes.
type CodeType interface {
	// TypeLabel is the user-facing name of the type in the target language.
	TypeLabel(oracle Oracle) string

	// CanonicalName is the internal name used to derive helper identifiers.
	CanonicalName(oracle Oracle) string

	// Literal renders a compile-time constant of this type. Calling it on a
	// variant with no literal syntax (objects, callback interfaces,
	// collections) is a programming error and panics; callers must exclude
	// such variants by construction.
	Literal(oracle Oracle, literal model.Literal) string

	// Lower converts a host value into its boundary-ready representation.
	Lower(oracle Oracle, nm string) string

	// Write serializes a value into a buffer at the target cursor.
	Write(oracle Oracle, nm string, target string) string

	// Lift reconstructs a host value from a boundary representation.
	Lift(oracle Oracle, nm string) string

	// Read deserializes a value from a buffer cursor, advancing it.
	Read(oracle Oracle, nm string) string

	// HelperCode is optional one-time supporting declaration text, emitted
	// once per distinct type no matter how often the type is referenced.
	// Empty means no helper is needed.
	HelperCode(oracle Oracle) string

	// ImportCode lists import statements required wherever this type is
	// referenced. Nil means none.
	ImportCode(oracle Oracle) []string
}

// Oracle is the capability provider for one target language: it resolves
// type identifiers to strategies and exposes the language-wide naming
// conventions. Implementations are stateless and safe for reuse across
// generation passes.
type Oracle interface {
	// Find returns the single strategy for t. It is total over the closed
	// type union; an error is a hard generation failure, never a partial
	// result.
	Find(t model.Type) (CodeType, error)

	// ClassName renders a type name (enums, records, errors, objects).
	ClassName(nm string) string

	// FnName renders a function or method name.
	FnName(nm string) string

	// VarName renders a variable or argument name.
	VarName(nm string) string

	// EnumVariantName renders an individual enum variant.
	EnumVariantName(nm string) string

	// ExceptionName renders the name of a throwable type. Source interfaces
	// name failure types with an "Error" suffix; target conventions may
	// differ.
	ExceptionName(nm string) string

	// FFITypeLabel names the target-language scalar for a wire type.
	FFITypeLabel(t model.FFIType) string
}

// MemberDeclaration binds a strategy to one declared type from the
// interface model and drives one render pass for it. Wrappers are built
// once per declared type per pass and not reused across passes.
type MemberDeclaration interface {
	// TypeIdentifier is the model type this declaration defines.
	TypeIdentifier() model.Type

	// DefinitionCode is the full definition block for the declared type.
	DefinitionCode(oracle Oracle) string

	// InitializationCode is an optional statement run once during component
	// initialization (e.g. registering a callback dispatch table). Empty
	// means none.
	InitializationCode(oracle Oracle) string

	// ImportCode lists extra imports the definition needs. Nil means none.
	ImportCode(oracle Oracle) []string
}
