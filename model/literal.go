package model

// LiteralKind tags the value held by a Literal.
type LiteralKind int

const (
	LitEnum LiteralKind = iota
	LitInt
	LitUInt
	LitFloat
	LitBoolean
	LitString
	LitEmptySequence
	LitEmptyMap
	LitNull
)

// Radix records how an integer literal was spelled in the source interface,
// so generated code can preserve hex constants as hex.
type Radix int

const (
	Decimal Radix = iota
	Hexadecimal
	Octal
)

// Literal is a compile-time constant tagged with the type it is declared
// against. The caller, not the oracle, is responsible for only building
// literals against variants that actually support literal syntax.
type Literal struct {
	Kind LiteralKind

	// StringValue holds the enum variant name, the string value, or the
	// textual form of a float, depending on Kind.
	StringValue string
	IntValue    int64
	UIntValue   uint64
	BoolValue   bool
	Radix       Radix

	// Type is the declared type of the literal.
	Type Type
}

// EnumLiteral builds a literal naming one variant of an enum type.
func EnumLiteral(variant string, t EnumType) Literal {
	return Literal{Kind: LitEnum, StringValue: variant, Type: t}
}

// IntLiteral builds a signed integer literal.
func IntLiteral(v int64, radix Radix, t Type) Literal {
	return Literal{Kind: LitInt, IntValue: v, Radix: radix, Type: t}
}

// UIntLiteral builds an unsigned integer literal.
func UIntLiteral(v uint64, radix Radix, t Type) Literal {
	return Literal{Kind: LitUInt, UIntValue: v, Radix: radix, Type: t}
}

// FloatLiteral builds a float literal from its textual form.
func FloatLiteral(repr string, t Type) Literal {
	return Literal{Kind: LitFloat, StringValue: repr, Type: t}
}

// BoolLiteral builds a boolean literal.
func BoolLiteral(v bool) Literal {
	return Literal{Kind: LitBoolean, BoolValue: v, Type: Primitive{Kind: Boolean}}
}

// StringLiteral builds a string literal.
func StringLiteral(v string) Literal {
	return Literal{Kind: LitString, StringValue: v, Type: Primitive{Kind: String}}
}
