// Package kotlin renders Kotlin bindings for a component interface. The
// generated code talks to the native library over JNA and moves compound
// values through RustBuffer, matching the runtime shipped with the native
// scaffolding.
package kotlin

import (
	"strings"

	"github.com/pagr/bindgen"
	"github.com/pagr/bindgen/errors"
	"github.com/pagr/bindgen/model"
	"github.com/pagr/bindgen/util"
)

// Oracle resolves type identifiers to Kotlin code-generation strategies and
// carries the Kotlin naming conventions. It is stateless; the zero value is
// ready to use.
type Oracle struct{}

var _ bindgen.Oracle = Oracle{}

// Find returns the single strategy for t. Enums, objects and callback
// interfaces get dedicated strategies; primitives, collections, records and
// external types share the fallback strategy.
func (o Oracle) Find(t model.Type) (bindgen.CodeType, error) {
	if t == nil {
		return nil, errors.NewNoStrategyError("nil type identifier")
	}
	switch t := t.(type) {
	case model.EnumType:
		return EnumCodeType{id: t.Name}, nil
	case model.ObjectType:
		return ObjectCodeType{id: t.Name}, nil
	case model.CallbackInterfaceType:
		return CallbackInterfaceCodeType{id: t.Name}, nil
	default:
		return FallbackCodeType{typ: t}, nil
	}
}

// ClassName is the idiomatic Kotlin rendering of a class name (for enums,
// records, errors, etc).
func (Oracle) ClassName(nm string) string {
	return util.ToPascalCase(nm)
}

// FnName is the idiomatic Kotlin rendering of a function name.
func (Oracle) FnName(nm string) string {
	return util.ToCamelCase(nm)
}

// VarName is the idiomatic Kotlin rendering of a variable name.
func (Oracle) VarName(nm string) string {
	return util.ToCamelCase(nm)
}

// EnumVariantName is the idiomatic Kotlin rendering of an individual enum
// variant.
func (Oracle) EnumVariantName(nm string) string {
	return util.ToScreamingSnakeCase(nm)
}

// ExceptionName replaces "Error" at the end of the name with "Exception".
// The interface language typically uses "Error" for any failure type, but
// in the Java world "Error" means a non-recoverable error and is
// distinguished from an "Exception".
func (Oracle) ExceptionName(nm string) string {
	stripped, ok := strings.CutSuffix(nm, "Error")
	if !ok {
		return nm
	}
	return stripped + "Exception"
}

// FFITypeLabel names the Kotlin scalar for a wire type.
func (Oracle) FFITypeLabel(t model.FFIType) string {
	switch t {
	// Unsigned integers in Kotlin are still experimental and
	// java.nio.ByteBuffer does not support them, so the signed variants
	// represent both signed and unsigned types from the component API.
	case model.FFIInt8, model.FFIUInt8:
		return "Byte"
	case model.FFIInt16, model.FFIUInt16:
		return "Short"
	case model.FFIInt32, model.FFIUInt32:
		return "Int"
	case model.FFIInt64, model.FFIUInt64:
		return "Long"
	case model.FFIFloat32:
		return "Float"
	case model.FFIFloat64:
		return "Double"
	case model.FFIRustArcPtr:
		return "Pointer"
	case model.FFIRustBuffer:
		return "RustBuffer.ByValue"
	case model.FFIForeignBytes:
		return "ForeignBytes.ByValue"
	case model.FFIForeignCallback:
		return "ForeignCallback"
	default:
		panic(errors.AssertionFailedf("unknown FFI type %d", t))
	}
}
