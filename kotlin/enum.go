package kotlin

import (
	"fmt"
	"strings"

	"github.com/pagr/bindgen"
	"github.com/pagr/bindgen/errors"
	"github.com/pagr/bindgen/model"
)

// EnumCodeType is the strategy for declared enumerations. Enums cross the
// boundary as their 1-based ordinal inside a buffer; the generated enum
// class carries its own lower/write methods and a lift/read companion.
type EnumCodeType struct {
	id string
}

var _ bindgen.CodeType = EnumCodeType{}

func (e EnumCodeType) TypeLabel(oracle bindgen.Oracle) string {
	return oracle.ClassName(e.id)
}

func (e EnumCodeType) CanonicalName(oracle bindgen.Oracle) string {
	return "Enum" + e.TypeLabel(oracle)
}

// Literal renders an enum-variant constant like Color.RED.
func (e EnumCodeType) Literal(oracle bindgen.Oracle, literal model.Literal) string {
	if literal.Kind != model.LitEnum {
		panic(errors.AssertionFailedf("enum %s given a non-enum literal (kind %d)", e.id, literal.Kind))
	}
	return fmt.Sprintf("%s.%s", e.TypeLabel(oracle), oracle.EnumVariantName(literal.StringValue))
}

func (e EnumCodeType) Lower(oracle bindgen.Oracle, nm string) string {
	return fmt.Sprintf("%s.lower()", oracle.VarName(nm))
}

func (e EnumCodeType) Write(oracle bindgen.Oracle, nm string, target string) string {
	return fmt.Sprintf("%s.write(%s)", oracle.VarName(nm), target)
}

func (e EnumCodeType) Lift(oracle bindgen.Oracle, nm string) string {
	return fmt.Sprintf("%s.lift(%s)", e.TypeLabel(oracle), nm)
}

func (e EnumCodeType) Read(oracle bindgen.Oracle, nm string) string {
	return fmt.Sprintf("%s.read(%s)", e.TypeLabel(oracle), nm)
}

func (EnumCodeType) HelperCode(bindgen.Oracle) string {
	return ""
}

func (EnumCodeType) ImportCode(bindgen.Oracle) []string {
	return nil
}

// KotlinEnum drives one render pass for a declared enum. No lifecycle or
// concurrency concerns apply; this is a purely structural transform.
type KotlinEnum struct {
	inner model.Enum
}

var _ bindgen.MemberDeclaration = (*KotlinEnum)(nil)

func NewKotlinEnum(inner model.Enum) *KotlinEnum {
	return &KotlinEnum{inner: inner}
}

func (e *KotlinEnum) TypeIdentifier() model.Type {
	return model.EnumType{Name: e.inner.Name}
}

func (e *KotlinEnum) DefinitionCode(oracle bindgen.Oracle) string {
	class := oracle.ClassName(e.inner.Name)

	variants := make([]string, 0, len(e.inner.Variants))
	for _, v := range e.inner.Variants {
		variants = append(variants, oracle.EnumVariantName(v))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "enum class %s {\n", class)
	fmt.Fprintf(&b, "    %s;\n", strings.Join(variants, ", "))
	b.WriteString("\n")
	b.WriteString("    companion object {\n")
	fmt.Fprintf(&b, "        internal fun lift(rbuf: RustBuffer.ByValue): %s =\n", class)
	b.WriteString("            liftFromRustBuffer(rbuf) { buf -> read(buf) }\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "        internal fun read(buf: ByteBuffer): %s =\n", class)
	b.WriteString("            try {\n")
	b.WriteString("                values()[buf.getInt() - 1]\n")
	b.WriteString("            } catch (e: IndexOutOfBoundsException) {\n")
	b.WriteString("                throw RuntimeException(\"invalid enum value, something is very wrong!!\", e)\n")
	b.WriteString("            }\n")
	b.WriteString("    }\n")
	b.WriteString("\n")
	b.WriteString("    internal fun lower(): RustBuffer.ByValue =\n")
	b.WriteString("        lowerIntoRustBuffer(this) { v, buf -> v.write(buf) }\n")
	b.WriteString("\n")
	b.WriteString("    internal fun write(buf: RustBufferBuilder) =\n")
	b.WriteString("        buf.putInt(this.ordinal + 1)\n")
	b.WriteString("}\n")
	return b.String()
}

func (e *KotlinEnum) InitializationCode(bindgen.Oracle) string {
	return ""
}

func (e *KotlinEnum) ImportCode(bindgen.Oracle) []string {
	return []string{"java.nio.ByteBuffer"}
}
