package kotlin

import (
	"fmt"
	"strings"

	"github.com/pagr/bindgen"
	"github.com/pagr/bindgen/model"
)

// KotlinRecord drives one render pass for a declared record: a data class
// whose fields are written to and read from a buffer in declaration order.
// Records route through the fallback strategy; the declaration only
// contributes the definition block.
type KotlinRecord struct {
	inner                 model.Record
	containsUnsignedTypes bool
}

var _ bindgen.MemberDeclaration = (*KotlinRecord)(nil)

func NewKotlinRecord(inner model.Record, ci *model.ComponentInterface) *KotlinRecord {
	return &KotlinRecord{
		inner:                 inner,
		containsUnsignedTypes: ci.ContainsUnsignedTypes(model.RecordType{Name: inner.Name}),
	}
}

func (r *KotlinRecord) TypeIdentifier() model.Type {
	return model.RecordType{Name: r.inner.Name}
}

func (r *KotlinRecord) ContainsUnsignedTypes() bool {
	return r.containsUnsignedTypes
}

func (r *KotlinRecord) DefinitionCode(oracle bindgen.Oracle) string {
	class := oracle.ClassName(r.inner.Name)

	var b strings.Builder
	if r.containsUnsignedTypes {
		b.WriteString("@ExperimentalUnsignedTypes\n")
	}
	fmt.Fprintf(&b, "data class %s(\n", class)
	for i, f := range r.inner.Fields {
		ct := mustFind(oracle, f.Type)
		fmt.Fprintf(&b, "    val %s: %s", oracle.VarName(f.Name), ct.TypeLabel(oracle))
		if f.Default != nil {
			fmt.Fprintf(&b, " = %s", ct.Literal(oracle, *f.Default))
		}
		if i < len(r.inner.Fields)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(") {\n")
	b.WriteString("    companion object {\n")
	fmt.Fprintf(&b, "        internal fun lift(rbuf: RustBuffer.ByValue): %s =\n", class)
	b.WriteString("            liftFromRustBuffer(rbuf) { buf -> read(buf) }\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "        internal fun read(buf: ByteBuffer): %s =\n", class)
	fmt.Fprintf(&b, "            %s(\n", class)
	for i, f := range r.inner.Fields {
		ct := mustFind(oracle, f.Type)
		fmt.Fprintf(&b, "                %s", ct.Read(oracle, "buf"))
		if i < len(r.inner.Fields)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("            )\n")
	b.WriteString("    }\n")
	b.WriteString("\n")
	b.WriteString("    internal fun lower(): RustBuffer.ByValue =\n")
	b.WriteString("        lowerIntoRustBuffer(this) { v, buf -> v.write(buf) }\n")
	b.WriteString("\n")
	b.WriteString("    internal fun write(buf: RustBufferBuilder) {\n")
	for _, f := range r.inner.Fields {
		ct := mustFind(oracle, f.Type)
		fmt.Fprintf(&b, "        %s\n", ct.Write(oracle, "this."+oracle.VarName(f.Name), "buf"))
	}
	b.WriteString("    }\n")
	b.WriteString("}\n")
	return b.String()
}

func (r *KotlinRecord) InitializationCode(bindgen.Oracle) string {
	return ""
}

func (r *KotlinRecord) ImportCode(bindgen.Oracle) []string {
	return []string{"java.nio.ByteBuffer"}
}
