package kotlin

import (
	"fmt"
	"math"
	"strings"

	"github.com/pagr/bindgen"
	"github.com/pagr/bindgen/errors"
	"github.com/pagr/bindgen/model"
)

// FallbackCodeType handles every variant that needs no dedicated strategy:
// primitives, optionals, sequences, maps, records and external types. Its
// four marshaling operations all route through per-type helper functions
// named after the type's canonical name (lowerU32, readOptionalString, ...).
// Primitive helpers ship with the runtime support code in the native
// scaffolding; everything else is per-component and emitted by HelperCode.
type FallbackCodeType struct {
	typ model.Type
}

var _ bindgen.CodeType = FallbackCodeType{}

// Kotlin API-surface labels for primitives. Unsigned scalars surface as
// Kotlin's experimental unsigned types; only the FFI layer collapses them
// onto signed scalars.
var primitiveLabels = map[model.PrimitiveKind]string{
	model.UInt8:   "UByte",
	model.Int8:    "Byte",
	model.UInt16:  "UShort",
	model.Int16:   "Short",
	model.UInt32:  "UInt",
	model.Int32:   "Int",
	model.UInt64:  "ULong",
	model.Int64:   "Long",
	model.Float32: "Float",
	model.Float64: "Double",
	model.Boolean: "Boolean",
	model.String:  "String",
}

func (f FallbackCodeType) TypeLabel(oracle bindgen.Oracle) string {
	return typeLabel(oracle, f.typ)
}

func typeLabel(oracle bindgen.Oracle, t model.Type) string {
	switch t := t.(type) {
	case model.Primitive:
		return primitiveLabels[t.Kind]
	case model.OptionalType:
		return typeLabel(oracle, t.Inner) + "?"
	case model.SequenceType:
		return fmt.Sprintf("List<%s>", typeLabel(oracle, t.Inner))
	case model.MapType:
		return fmt.Sprintf("Map<%s, %s>", typeLabel(oracle, t.Key), typeLabel(oracle, t.Value))
	case model.RecordType:
		return oracle.ClassName(t.Name)
	case model.EnumType:
		return oracle.ClassName(t.Name)
	case model.ObjectType:
		return oracle.ClassName(t.Name)
	case model.CallbackInterfaceType:
		return oracle.ClassName(t.Name)
	case model.ExternalType:
		return oracle.ClassName(t.Name)
	default:
		panic(errors.AssertionFailedf("no type label for %T", t))
	}
}

func (f FallbackCodeType) CanonicalName(bindgen.Oracle) string {
	return model.CanonicalName(f.typ)
}

func (f FallbackCodeType) Lower(oracle bindgen.Oracle, nm string) string {
	return fmt.Sprintf("lower%s(%s)", f.CanonicalName(oracle), oracle.VarName(nm))
}

func (f FallbackCodeType) Write(oracle bindgen.Oracle, nm string, target string) string {
	return fmt.Sprintf("write%s(%s, %s)", f.CanonicalName(oracle), oracle.VarName(nm), target)
}

func (f FallbackCodeType) Lift(oracle bindgen.Oracle, nm string) string {
	return fmt.Sprintf("lift%s(%s)", f.CanonicalName(oracle), nm)
}

func (f FallbackCodeType) Read(oracle bindgen.Oracle, nm string) string {
	return fmt.Sprintf("read%s(%s)", f.CanonicalName(oracle), nm)
}

// Literal renders primitive and empty-collection literals. Anything else
// reaching this strategy is a traversal defect, not bad input.
func (f FallbackCodeType) Literal(oracle bindgen.Oracle, literal model.Literal) string {
	switch literal.Kind {
	case model.LitInt:
		return intLiteral(literal.IntValue, literal.Radix, f.typ)
	case model.LitUInt:
		return uintLiteral(literal.UIntValue, literal.Radix, f.typ)
	case model.LitFloat:
		if prim, ok := f.typ.(model.Primitive); ok && prim.Kind == model.Float32 {
			return literal.StringValue + "f"
		}
		return literal.StringValue
	case model.LitBoolean:
		if literal.BoolValue {
			return "true"
		}
		return "false"
	case model.LitString:
		return fmt.Sprintf("%q", literal.StringValue)
	case model.LitEmptySequence:
		return "listOf()"
	case model.LitEmptyMap:
		return "mapOf()"
	case model.LitNull:
		return "null"
	default:
		panic(errors.AssertionFailedf("literal kind %d has no rendering for %s", literal.Kind, f.CanonicalName(oracle)))
	}
}

func intLiteral(v int64, radix model.Radix, t model.Type) string {
	if v == math.MinInt64 {
		// The positive magnitude overflows Long, so there is no literal
		// spelling for this value in Kotlin.
		return "Long.MIN_VALUE"
	}
	suffix := ""
	if prim, ok := t.(model.Primitive); ok && prim.Kind == model.Int64 {
		suffix = "L"
	}
	magnitude := uint64(v)
	if v < 0 {
		magnitude = uint64(-v)
	}
	return formatInt(magnitude, v < 0, radix) + suffix
}

func uintLiteral(v uint64, radix model.Radix, t model.Type) string {
	suffix := "u"
	if prim, ok := t.(model.Primitive); ok && prim.Kind == model.UInt64 {
		suffix = "uL"
	}
	return formatInt(v, false, radix) + suffix
}

func formatInt(magnitude uint64, negative bool, radix model.Radix) string {
	var body string
	switch radix {
	case model.Hexadecimal:
		body = fmt.Sprintf("0x%x", magnitude)
	case model.Octal:
		// Kotlin has no octal literal syntax; fall back to decimal.
		body = fmt.Sprintf("%d", magnitude)
	default:
		body = fmt.Sprintf("%d", magnitude)
	}
	if negative {
		return "-" + body
	}
	return body
}

// HelperCode defines the four marshaling helpers the call sites reference.
// Primitive helpers (lowerI32, readString, ...) ship with the runtime
// support code; compound, record and external helpers are per-component and
// must be emitted with the file, once per canonical name.
func (f FallbackCodeType) HelperCode(oracle bindgen.Oracle) string {
	canonical := f.CanonicalName(oracle)
	label := f.TypeLabel(oracle)

	var b strings.Builder
	switch t := f.typ.(type) {
	case model.RecordType, model.ExternalType:
		// Generated classes carry their own lower/write members and
		// lift/read companions; the helpers adapt the calling convention.
		fmt.Fprintf(&b, "internal fun lower%s(v: %s): RustBuffer.ByValue = v.lower()\n", canonical, label)
		fmt.Fprintf(&b, "internal fun write%s(v: %s, buf: RustBufferBuilder) = v.write(buf)\n", canonical, label)
		fmt.Fprintf(&b, "internal fun lift%s(rbuf: RustBuffer.ByValue): %s = %s.lift(rbuf)\n", canonical, label, label)
		fmt.Fprintf(&b, "internal fun read%s(buf: ByteBuffer): %s = %s.read(buf)\n", canonical, label, label)

	case model.OptionalType:
		inner := mustFind(oracle, t.Inner)
		fmt.Fprintf(&b, "internal fun lower%s(v: %s): RustBuffer.ByValue =\n", canonical, label)
		fmt.Fprintf(&b, "    lowerIntoRustBuffer(v) { v, buf -> write%s(v, buf) }\n", canonical)
		fmt.Fprintf(&b, "internal fun write%s(v: %s, buf: RustBufferBuilder) {\n", canonical, label)
		b.WriteString("    if (v == null) {\n")
		b.WriteString("        buf.putByte(0)\n")
		b.WriteString("    } else {\n")
		b.WriteString("        buf.putByte(1)\n")
		fmt.Fprintf(&b, "        %s\n", inner.Write(oracle, "v", "buf"))
		b.WriteString("    }\n")
		b.WriteString("}\n")
		fmt.Fprintf(&b, "internal fun lift%s(rbuf: RustBuffer.ByValue): %s =\n", canonical, label)
		fmt.Fprintf(&b, "    liftFromRustBuffer(rbuf) { buf -> read%s(buf) }\n", canonical)
		fmt.Fprintf(&b, "internal fun read%s(buf: ByteBuffer): %s {\n", canonical, label)
		b.WriteString("    if (buf.get().toInt() == 0) {\n")
		b.WriteString("        return null\n")
		b.WriteString("    }\n")
		fmt.Fprintf(&b, "    return %s\n", inner.Read(oracle, "buf"))
		b.WriteString("}\n")

	case model.SequenceType:
		inner := mustFind(oracle, t.Inner)
		fmt.Fprintf(&b, "internal fun lower%s(v: %s): RustBuffer.ByValue =\n", canonical, label)
		fmt.Fprintf(&b, "    lowerIntoRustBuffer(v) { v, buf -> write%s(v, buf) }\n", canonical)
		fmt.Fprintf(&b, "internal fun write%s(v: %s, buf: RustBufferBuilder) {\n", canonical, label)
		b.WriteString("    buf.putInt(v.size)\n")
		fmt.Fprintf(&b, "    v.forEach { %s }\n", inner.Write(oracle, "it", "buf"))
		b.WriteString("}\n")
		fmt.Fprintf(&b, "internal fun lift%s(rbuf: RustBuffer.ByValue): %s =\n", canonical, label)
		fmt.Fprintf(&b, "    liftFromRustBuffer(rbuf) { buf -> read%s(buf) }\n", canonical)
		fmt.Fprintf(&b, "internal fun read%s(buf: ByteBuffer): %s {\n", canonical, label)
		b.WriteString("    val len = buf.getInt()\n")
		fmt.Fprintf(&b, "    return List(len) { %s }\n", inner.Read(oracle, "buf"))
		b.WriteString("}\n")

	case model.MapType:
		key := mustFind(oracle, t.Key)
		value := mustFind(oracle, t.Value)
		fmt.Fprintf(&b, "internal fun lower%s(v: %s): RustBuffer.ByValue =\n", canonical, label)
		fmt.Fprintf(&b, "    lowerIntoRustBuffer(v) { v, buf -> write%s(v, buf) }\n", canonical)
		fmt.Fprintf(&b, "internal fun write%s(v: %s, buf: RustBufferBuilder) {\n", canonical, label)
		b.WriteString("    buf.putInt(v.size)\n")
		b.WriteString("    v.forEach { (k, value) ->\n")
		fmt.Fprintf(&b, "        %s\n", key.Write(oracle, "k", "buf"))
		fmt.Fprintf(&b, "        %s\n", value.Write(oracle, "value", "buf"))
		b.WriteString("    }\n")
		b.WriteString("}\n")
		fmt.Fprintf(&b, "internal fun lift%s(rbuf: RustBuffer.ByValue): %s =\n", canonical, label)
		fmt.Fprintf(&b, "    liftFromRustBuffer(rbuf) { buf -> read%s(buf) }\n", canonical)
		fmt.Fprintf(&b, "internal fun read%s(buf: ByteBuffer): %s {\n", canonical, label)
		fmt.Fprintf(&b, "    val map = mutableMapOf<%s, %s>()\n", key.TypeLabel(oracle), value.TypeLabel(oracle))
		b.WriteString("    repeat(buf.getInt()) {\n")
		fmt.Fprintf(&b, "        val k = %s\n", key.Read(oracle, "buf"))
		fmt.Fprintf(&b, "        map[k] = %s\n", value.Read(oracle, "buf"))
		b.WriteString("    }\n")
		b.WriteString("    return map\n")
		b.WriteString("}\n")

	default:
		return ""
	}
	return b.String()
}

func (f FallbackCodeType) ImportCode(bindgen.Oracle) []string {
	switch f.typ.(type) {
	case model.RecordType, model.ExternalType, model.OptionalType, model.SequenceType, model.MapType:
		// The read helper takes a ByteBuffer cursor.
		return []string{"java.nio.ByteBuffer"}
	default:
		return nil
	}
}
