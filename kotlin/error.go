package kotlin

import (
	"fmt"
	"strings"

	"github.com/pagr/bindgen"
	"github.com/pagr/bindgen/model"
)

// KotlinError drives one render pass for an error enum: an enum referenced
// by a Throws clause surfaces as a sealed exception hierarchy, not as a
// plain enum class. The base class name goes through the exception
// transform, so todo_error becomes TodoException; each variant becomes a
// subclass carrying the message the native side serialized. The native side
// writes the 1-based variant ordinal followed by the message string.
type KotlinError struct {
	inner model.Enum
}

var _ bindgen.MemberDeclaration = (*KotlinError)(nil)

func NewKotlinError(inner model.Enum) *KotlinError {
	return &KotlinError{inner: inner}
}

func (e *KotlinError) TypeIdentifier() model.Type {
	return model.EnumType{Name: e.inner.Name}
}

func (e *KotlinError) className(oracle bindgen.Oracle) string {
	return oracle.ExceptionName(oracle.ClassName(e.inner.Name))
}

func (e *KotlinError) DefinitionCode(oracle bindgen.Oracle) string {
	class := e.className(oracle)

	var b strings.Builder
	fmt.Fprintf(&b, "sealed class %s(message: String) : Exception(message) {\n", class)
	for _, v := range e.inner.Variants {
		fmt.Fprintf(&b, "    class %s(message: String) : %s(message)\n", oracle.ClassName(v), class)
	}
	b.WriteString("\n")
	b.WriteString("    companion object {\n")
	fmt.Fprintf(&b, "        internal fun lift(rbuf: RustBuffer.ByValue): %s =\n", class)
	b.WriteString("            liftFromRustBuffer(rbuf) { buf -> read(buf) }\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "        internal fun read(buf: ByteBuffer): %s =\n", class)
	b.WriteString("            when (buf.getInt()) {\n")
	for i, v := range e.inner.Variants {
		fmt.Fprintf(&b, "                %d -> %s(readString(buf))\n", i+1, oracle.ClassName(v))
	}
	b.WriteString("                else -> throw RuntimeException(\"invalid error enum value, something is very wrong!!\")\n")
	b.WriteString("            }\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")
	return b.String()
}

func (e *KotlinError) InitializationCode(bindgen.Oracle) string {
	return ""
}

func (e *KotlinError) ImportCode(bindgen.Oracle) []string {
	return []string{"java.nio.ByteBuffer"}
}
