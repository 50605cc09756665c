package kotlin

import (
	"fmt"
	"strings"

	"github.com/pagr/bindgen"
	"github.com/pagr/bindgen/errors"
	"github.com/pagr/bindgen/model"
	"github.com/pagr/bindgen/util"
)

// ObjectCodeType is the strategy for declared objects: handles to
// native-owned resources identified by an opaque pointer. Lowering passes
// the raw pointer; lifting wraps a raw pointer in a managed handle.
type ObjectCodeType struct {
	bindgen.NoLiteral
	id string
}

var _ bindgen.CodeType = ObjectCodeType{}

func (o ObjectCodeType) TypeLabel(oracle bindgen.Oracle) string {
	return oracle.ClassName(o.id)
}

func (o ObjectCodeType) CanonicalName(oracle bindgen.Oracle) string {
	return "Object" + o.TypeLabel(oracle)
}

func (o ObjectCodeType) Lower(oracle bindgen.Oracle, nm string) string {
	return fmt.Sprintf("%s.lower()", oracle.VarName(nm))
}

func (o ObjectCodeType) Write(oracle bindgen.Oracle, nm string, target string) string {
	return fmt.Sprintf("%s.write(%s)", oracle.VarName(nm), target)
}

func (o ObjectCodeType) Lift(oracle bindgen.Oracle, nm string) string {
	return fmt.Sprintf("%s.lift(%s)", o.TypeLabel(oracle), nm)
}

func (o ObjectCodeType) Read(oracle bindgen.Oracle, nm string) string {
	return fmt.Sprintf("%s.read(%s)", o.TypeLabel(oracle), nm)
}

func (o ObjectCodeType) HelperCode(oracle bindgen.Oracle) string {
	return fmt.Sprintf("// Helper code for the %s class is emitted with its definition.", o.TypeLabel(oracle))
}

func (o ObjectCodeType) ImportCode(bindgen.Oracle) []string {
	return []string{
		"java.util.concurrent.atomic.AtomicLong",
		"java.util.concurrent.atomic.AtomicBoolean",
	}
}

// KotlinObject drives one render pass for a declared object.
//
// The generated handle class must free the native resource exactly once,
// even when explicit disposal and finalization race on different threads:
// every disposal path funnels through an AtomicBoolean checked-and-set
// indivisibly, and only the winner performs the native free.
type KotlinObject struct {
	inner                 model.Object
	ci                    *model.ComponentInterface
	containsUnsignedTypes bool
}

var _ bindgen.MemberDeclaration = (*KotlinObject)(nil)

func NewKotlinObject(inner model.Object, ci *model.ComponentInterface) *KotlinObject {
	return &KotlinObject{
		inner:                 inner,
		ci:                    ci,
		containsUnsignedTypes: ci.ContainsUnsignedTypes(model.ObjectType{Name: inner.Name}),
	}
}

func (o *KotlinObject) TypeIdentifier() model.Type {
	return model.ObjectType{Name: o.inner.Name}
}

func (o *KotlinObject) ContainsUnsignedTypes() bool {
	return o.containsUnsignedTypes
}

// ffiSymbol names the native entry point for a callable on this object.
func (o *KotlinObject) ffiSymbol(name string) string {
	return fmt.Sprintf("%s_%s_%s", o.ci.Namespace, util.ToSnakeCase(o.inner.Name), util.ToSnakeCase(name))
}

func (o *KotlinObject) DefinitionCode(oracle bindgen.Oracle) string {
	class := oracle.ClassName(o.inner.Name)

	var b strings.Builder
	if o.containsUnsignedTypes {
		b.WriteString("@ExperimentalUnsignedTypes\n")
	}
	fmt.Fprintf(&b, "class %s internal constructor(\n", class)
	b.WriteString("    internal val pointer: Pointer\n")
	b.WriteString(") : AutoCloseable {\n")
	b.WriteString("    private val wasDestroyed = AtomicBoolean(false)\n")
	b.WriteString("    private val callCounter = AtomicLong(1)\n")

	for _, cons := range o.inner.Constructors {
		if cons.Name != "new" {
			continue
		}
		b.WriteString("\n")
		call := renderNativeCall(oracle, o.ffiSymbol(cons.Name), "", cons.Arguments, cons.Throws)
		fmt.Fprintf(&b, "    constructor(%s) :\n        this(%s)\n", renderParams(oracle, cons.Arguments), call)
	}

	b.WriteString("\n")
	b.WriteString("    // The native resource is freed exactly once: explicit destroy(),\n")
	b.WriteString("    // close() and the finalizer all race through the same atomic flag,\n")
	b.WriteString("    // and only the winner of compareAndSet performs the free.\n")
	b.WriteString("    fun destroy() {\n")
	b.WriteString("        if (this.wasDestroyed.compareAndSet(false, true)) {\n")
	b.WriteString("            if (this.callCounter.decrementAndGet() == 0L) {\n")
	b.WriteString("                freeRustArcPtr()\n")
	b.WriteString("            }\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n")
	b.WriteString("\n")
	b.WriteString("    @Synchronized\n")
	b.WriteString("    override fun close() = destroy()\n")
	b.WriteString("\n")
	b.WriteString("    protected fun finalize() = destroy()\n")
	b.WriteString("\n")
	b.WriteString("    private fun freeRustArcPtr() {\n")
	fmt.Fprintf(&b, "        rustCall { status -> _UniFFILib.INSTANCE.%s(this.pointer, status) }\n", o.ffiSymbol("object_free"))
	b.WriteString("    }\n")
	b.WriteString("\n")
	b.WriteString("    // Keeps the pointer alive for the duration of a native call; a call\n")
	b.WriteString("    // in flight holds a count so destroy() cannot free underneath it.\n")
	b.WriteString("    internal inline fun <R> callWithPointer(block: (ptr: Pointer) -> R): R {\n")
	b.WriteString("        do {\n")
	b.WriteString("            val c = this.callCounter.get()\n")
	b.WriteString("            if (c == 0L) throw IllegalStateException(\"" + class + " object has already been destroyed\")\n")
	b.WriteString("        } while (!this.callCounter.compareAndSet(c, c + 1L))\n")
	b.WriteString("        try {\n")
	b.WriteString("            return block(this.pointer)\n")
	b.WriteString("        } finally {\n")
	b.WriteString("            if (this.callCounter.decrementAndGet() == 0L) freeRustArcPtr()\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n")
	b.WriteString("\n")
	b.WriteString("    internal fun lower(): Pointer = callWithPointer { it }\n")
	b.WriteString("\n")
	b.WriteString("    internal fun write(buf: RustBufferBuilder) =\n")
	b.WriteString("        buf.putLong(Pointer.nativeValue(lower()))\n")

	for _, m := range o.inner.Methods {
		b.WriteString("\n")
		o.renderMethod(&b, oracle, m)
	}

	b.WriteString("\n")
	b.WriteString("    companion object {\n")
	fmt.Fprintf(&b, "        internal fun lift(pointer: Pointer): %s = %s(pointer)\n", class, class)
	b.WriteString("\n")
	fmt.Fprintf(&b, "        internal fun read(buf: ByteBuffer): %s =\n", class)
	b.WriteString("            lift(Pointer(buf.getLong()))\n")
	for _, cons := range o.inner.Constructors {
		if cons.Name == "new" {
			continue
		}
		// Named constructors surface as companion factory functions.
		b.WriteString("\n")
		call := renderNativeCall(oracle, o.ffiSymbol(cons.Name), "", cons.Arguments, cons.Throws)
		fmt.Fprintf(&b, "        fun %s(%s): %s =\n", oracle.FnName(cons.Name), renderParams(oracle, cons.Arguments), class)
		fmt.Fprintf(&b, "            %s(%s)\n", class, call)
	}
	b.WriteString("    }\n")
	b.WriteString("}\n")
	return b.String()
}

func (o *KotlinObject) renderMethod(b *strings.Builder, oracle bindgen.Oracle, m model.Method) {
	call := renderNativeCall(oracle, o.ffiSymbol(m.Name), "ptr", m.Arguments, m.Throws)
	if m.Return != nil {
		ret := mustFind(oracle, m.Return)
		fmt.Fprintf(b, "    fun %s(%s): %s =\n", oracle.FnName(m.Name), renderParams(oracle, m.Arguments), ret.TypeLabel(oracle))
		fmt.Fprintf(b, "        callWithPointer { ptr -> %s }\n", ret.Lift(oracle, call))
		return
	}
	fmt.Fprintf(b, "    fun %s(%s) =\n", oracle.FnName(m.Name), renderParams(oracle, m.Arguments))
	fmt.Fprintf(b, "        callWithPointer { ptr -> %s }\n", call)
}

func (o *KotlinObject) InitializationCode(bindgen.Oracle) string {
	return ""
}

func (o *KotlinObject) ImportCode(oracle bindgen.Oracle) []string {
	imports := []string{"java.nio.ByteBuffer"}
	return append(imports, ObjectCodeType{id: o.inner.Name}.ImportCode(oracle)...)
}

// mustFind resolves a strategy for a type from the validated model. Find is
// total over the closed union, so failure here is a generator defect.
func mustFind(oracle bindgen.Oracle, t model.Type) bindgen.CodeType {
	ct, err := oracle.Find(t)
	if err != nil {
		panic(errors.AssertionFailedf("dispatch failed for validated model type: %v", err))
	}
	return ct
}

// renderParams renders a Kotlin parameter list, applying default literals
// where the model declares them.
func renderParams(oracle bindgen.Oracle, args []model.Argument) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		ct := mustFind(oracle, a.Type)
		p := fmt.Sprintf("%s: %s", oracle.VarName(a.Name), ct.TypeLabel(oracle))
		if a.Default != nil {
			p += " = " + ct.Literal(oracle, *a.Default)
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, ", ")
}

// renderNativeCall renders the _UniFFILib invocation for one callable,
// lowering every argument and routing through rustCall or
// rustCallWithError depending on whether the callable throws.
func renderNativeCall(oracle bindgen.Oracle, symbol string, receiver string, args []model.Argument, throws string) string {
	lowered := make([]string, 0, len(args)+2)
	if receiver != "" {
		lowered = append(lowered, receiver)
	}
	for _, a := range args {
		lowered = append(lowered, mustFind(oracle, a.Type).Lower(oracle, a.Name))
	}
	lowered = append(lowered, "status")

	wrapper := "rustCall"
	if throws != "" {
		wrapper = fmt.Sprintf("rustCallWithError(%s::class)", oracle.ExceptionName(oracle.ClassName(throws)))
	}
	return fmt.Sprintf("%s { status -> _UniFFILib.INSTANCE.%s(%s) }", wrapper, symbol, strings.Join(lowered, ", "))
}
