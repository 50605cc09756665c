package kotlin

import (
	"fmt"
	"text/template"

	"github.com/pagr/bindgen"
	"github.com/pagr/bindgen/errors"
	"github.com/pagr/bindgen/model"
)

// Filter functions are the only seam between the template-expansion
// mechanism and the strategy system: each one looks up the oracle's
// strategy for a type and delegates, carrying no logic beyond dispatch.

// TypeKt renders the Kotlin type label for a model type.
func TypeKt(oracle bindgen.Oracle, t model.Type) (string, error) {
	ct, err := oracle.Find(t)
	if err != nil {
		return "", err
	}
	return ct.TypeLabel(oracle), nil
}

// LowerKt renders the expression converting a Kotlin value into its
// boundary representation.
func LowerKt(oracle bindgen.Oracle, nm string, t model.Type) (string, error) {
	ct, err := oracle.Find(t)
	if err != nil {
		return "", err
	}
	return ct.Lower(oracle, nm), nil
}

// WriteKt renders the statement serializing a value into a buffer.
func WriteKt(oracle bindgen.Oracle, nm string, target string, t model.Type) (string, error) {
	ct, err := oracle.Find(t)
	if err != nil {
		return "", err
	}
	return ct.Write(oracle, nm, target), nil
}

// LiftKt renders the expression reconstructing a Kotlin value from its
// boundary representation.
func LiftKt(oracle bindgen.Oracle, nm string, t model.Type) (string, error) {
	ct, err := oracle.Find(t)
	if err != nil {
		return "", err
	}
	return ct.Lift(oracle, nm), nil
}

// ReadKt renders the expression deserializing a value from a buffer cursor.
func ReadKt(oracle bindgen.Oracle, nm string, t model.Type) (string, error) {
	ct, err := oracle.Find(t)
	if err != nil {
		return "", err
	}
	return ct.Read(oracle, nm), nil
}

// LiteralKt renders a compile-time constant. Literals tagged with a
// literal-bearing type dispatch through the oracle; the remaining kinds
// (booleans, strings, empty collections, null) have fixed renderings that
// no strategy needs to override. Non-literal-bearing variants never reach a
// strategy from here, which is what keeps the strategies' panic path
// unreachable.
func LiteralKt(oracle bindgen.Oracle, literal model.Literal) (string, error) {
	switch literal.Kind {
	case model.LitEnum, model.LitInt, model.LitUInt, model.LitFloat:
		ct, err := oracle.Find(literal.Type)
		if err != nil {
			return "", err
		}
		return ct.Literal(oracle, literal), nil
	case model.LitBoolean:
		if literal.BoolValue {
			return "true", nil
		}
		return "false", nil
	case model.LitString:
		return fmt.Sprintf("%q", literal.StringValue), nil
	case model.LitEmptySequence:
		return "listOf()", nil
	case model.LitEmptyMap:
		return "mapOf()", nil
	case model.LitNull:
		return "null", nil
	default:
		return "", errors.Newf("literal kind %d has no rendering", literal.Kind)
	}
}

// DefinitionCode renders the helper block of a type's strategy, if any.
func DefinitionCode(oracle bindgen.Oracle, t model.Type) (string, error) {
	ct, err := oracle.Find(t)
	if err != nil {
		return "", err
	}
	return ct.HelperCode(oracle), nil
}

// TypeFFI renders the Kotlin syntax for a low-level FFI type.
func TypeFFI(oracle bindgen.Oracle, t model.FFIType) (string, error) {
	return oracle.FFITypeLabel(t), nil
}

// ClassNameKt renders the idiomatic Kotlin class name.
func ClassNameKt(oracle bindgen.Oracle, nm string) (string, error) {
	return oracle.ClassName(nm), nil
}

// FnNameKt renders the idiomatic Kotlin function name.
func FnNameKt(oracle bindgen.Oracle, nm string) (string, error) {
	return oracle.FnName(nm), nil
}

// VarNameKt renders the idiomatic Kotlin variable name.
func VarNameKt(oracle bindgen.Oracle, nm string) (string, error) {
	return oracle.VarName(nm), nil
}

// EnumVariantKt renders the idiomatic Kotlin enum variant name.
func EnumVariantKt(oracle bindgen.Oracle, nm string) (string, error) {
	return oracle.EnumVariantName(nm), nil
}

// ExceptionNameKt renders the idiomatic Kotlin exception name.
func ExceptionNameKt(oracle bindgen.Oracle, nm string) (string, error) {
	return oracle.ExceptionName(nm), nil
}

// FuncMap packages the filters for a text/template host, binding them to
// one oracle so templates call them as single-argument functions.
func FuncMap(oracle bindgen.Oracle) template.FuncMap {
	return template.FuncMap{
		"typeKt":          func(t model.Type) (string, error) { return TypeKt(oracle, t) },
		"lowerKt":         func(nm string, t model.Type) (string, error) { return LowerKt(oracle, nm, t) },
		"writeKt":         func(nm, target string, t model.Type) (string, error) { return WriteKt(oracle, nm, target, t) },
		"liftKt":          func(nm string, t model.Type) (string, error) { return LiftKt(oracle, nm, t) },
		"readKt":          func(nm string, t model.Type) (string, error) { return ReadKt(oracle, nm, t) },
		"literalKt":       func(l model.Literal) (string, error) { return LiteralKt(oracle, l) },
		"definitionCode":  func(t model.Type) (string, error) { return DefinitionCode(oracle, t) },
		"typeFFI":         func(t model.FFIType) (string, error) { return TypeFFI(oracle, t) },
		"classNameKt":     func(nm string) (string, error) { return ClassNameKt(oracle, nm) },
		"fnNameKt":        func(nm string) (string, error) { return FnNameKt(oracle, nm) },
		"varNameKt":       func(nm string) (string, error) { return VarNameKt(oracle, nm) },
		"enumVariantKt":   func(nm string) (string, error) { return EnumVariantKt(oracle, nm) },
		"exceptionNameKt": func(nm string) (string, error) { return ExceptionNameKt(oracle, nm) },
	}
}
