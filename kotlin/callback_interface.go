package kotlin

import (
	"fmt"
	"strings"

	"github.com/pagr/bindgen"
	"github.com/pagr/bindgen/model"
	"github.com/pagr/bindgen/util"
)

// CallbackInterfaceCodeType is the strategy for callback interfaces:
// capabilities implemented in Kotlin and invoked from the native library.
// Values cross the boundary as opaque handles resolved through a
// per-interface dispatch table.
type CallbackInterfaceCodeType struct {
	bindgen.NoLiteral
	id string
}

var _ bindgen.CodeType = CallbackInterfaceCodeType{}

// internals names the generated dispatch-table object for this interface.
func (c CallbackInterfaceCodeType) internals(oracle bindgen.Oracle) string {
	return c.CanonicalName(oracle) + "Internals"
}

func (c CallbackInterfaceCodeType) TypeLabel(oracle bindgen.Oracle) string {
	return oracle.ClassName(c.id)
}

func (c CallbackInterfaceCodeType) CanonicalName(oracle bindgen.Oracle) string {
	return "CallbackInterface" + c.TypeLabel(oracle)
}

func (c CallbackInterfaceCodeType) Lower(oracle bindgen.Oracle, nm string) string {
	return fmt.Sprintf("%s.lower(%s)", c.internals(oracle), oracle.VarName(nm))
}

func (c CallbackInterfaceCodeType) Write(oracle bindgen.Oracle, nm string, target string) string {
	return fmt.Sprintf("%s.write(%s, %s)", c.internals(oracle), oracle.VarName(nm), target)
}

func (c CallbackInterfaceCodeType) Lift(oracle bindgen.Oracle, nm string) string {
	return fmt.Sprintf("%s.lift(%s)", c.internals(oracle), nm)
}

func (c CallbackInterfaceCodeType) Read(oracle bindgen.Oracle, nm string) string {
	return fmt.Sprintf("%s.read(%s)", c.internals(oracle), nm)
}

func (c CallbackInterfaceCodeType) HelperCode(oracle bindgen.Oracle) string {
	return fmt.Sprintf("// Helper code for the %s callback interface is emitted with its definition.", c.TypeLabel(oracle))
}

func (CallbackInterfaceCodeType) ImportCode(bindgen.Oracle) []string {
	return nil
}

// KotlinCallbackInterface drives one render pass for a declared callback
// interface. Generation produces the Kotlin interface, a dispatch-table
// object mapping opaque handles to implementations, and a one-time
// registration statement executed during component initialization.
//
// The dispatch table is lock-protected: lookups are triggered by
// native-side calls, potentially from a thread the native library owns,
// while registrations come from application code.
type KotlinCallbackInterface struct {
	inner                 model.CallbackInterface
	ci                    *model.ComponentInterface
	containsUnsignedTypes bool
}

var _ bindgen.MemberDeclaration = (*KotlinCallbackInterface)(nil)

func NewKotlinCallbackInterface(inner model.CallbackInterface, ci *model.ComponentInterface) *KotlinCallbackInterface {
	return &KotlinCallbackInterface{
		inner:                 inner,
		ci:                    ci,
		containsUnsignedTypes: ci.ContainsUnsignedTypes(model.CallbackInterfaceType{Name: inner.Name}),
	}
}

func (c *KotlinCallbackInterface) TypeIdentifier() model.Type {
	return model.CallbackInterfaceType{Name: c.inner.Name}
}

func (c *KotlinCallbackInterface) ContainsUnsignedTypes() bool {
	return c.containsUnsignedTypes
}

func (c *KotlinCallbackInterface) codeType() CallbackInterfaceCodeType {
	return CallbackInterfaceCodeType{id: c.inner.Name}
}

func (c *KotlinCallbackInterface) DefinitionCode(oracle bindgen.Oracle) string {
	class := oracle.ClassName(c.inner.Name)
	internals := c.codeType().internals(oracle)

	var b strings.Builder
	if c.containsUnsignedTypes {
		b.WriteString("@ExperimentalUnsignedTypes\n")
	}
	fmt.Fprintf(&b, "interface %s {\n", class)
	for _, m := range c.inner.Methods {
		if m.Return != nil {
			fmt.Fprintf(&b, "    fun %s(%s): %s\n", oracle.FnName(m.Name), renderParams(oracle, m.Arguments), mustFind(oracle, m.Return).TypeLabel(oracle))
		} else {
			fmt.Fprintf(&b, "    fun %s(%s)\n", oracle.FnName(m.Name), renderParams(oracle, m.Arguments))
		}
	}
	b.WriteString("}\n")
	b.WriteString("\n")

	fmt.Fprintf(&b, "internal object %s {\n", internals)
	fmt.Fprintf(&b, "    private val handleMap = ConcurrentHandleMap<%s>()\n", class)
	b.WriteString("\n")
	b.WriteString("    val foreignCallback = object : ForeignCallback {\n")
	b.WriteString("        override fun invoke(handle: Long, method: Int, args: RustBuffer.ByValue): RustBuffer.ByValue {\n")
	fmt.Fprintf(&b, "            val cb = handleMap.get(handle)\n")
	fmt.Fprintf(&b, "                ?: throw InternalException(\"no %s instance registered for handle\")\n", class)
	b.WriteString("            return when (method) {\n")
	b.WriteString("                IDX_CALLBACK_FREE -> {\n")
	b.WriteString("                    handleMap.remove(handle)\n")
	b.WriteString("                    emptyRustBuffer()\n")
	b.WriteString("                }\n")
	for i, m := range c.inner.Methods {
		fmt.Fprintf(&b, "                %d -> %s(cb, args)\n", i+1, invokeName(oracle, m))
	}
	fmt.Fprintf(&b, "                else -> throw InternalException(\"unknown method index $method for %s\")\n", class)
	b.WriteString("            }\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n")
	b.WriteString("\n")
	b.WriteString("    fun register(lib: _UniFFILib) {\n")
	fmt.Fprintf(&b, "        rustCall { status -> lib.%s(foreignCallback, status) }\n", c.ffiInitSymbol())
	b.WriteString("    }\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "    fun lower(cb: %s): Long = handleMap.insert(cb)\n", class)
	b.WriteString("\n")
	fmt.Fprintf(&b, "    fun write(cb: %s, buf: RustBufferBuilder) =\n", class)
	b.WriteString("        buf.putLong(lower(cb))\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "    fun lift(handle: Long): %s =\n", class)
	b.WriteString("        handleMap.get(handle)\n")
	fmt.Fprintf(&b, "            ?: throw InternalException(\"no %s instance registered for handle\")\n", class)
	b.WriteString("\n")
	fmt.Fprintf(&b, "    fun read(buf: ByteBuffer): %s = lift(buf.getLong())\n", class)

	for _, m := range c.inner.Methods {
		b.WriteString("\n")
		c.renderInvoke(&b, oracle, m)
	}
	b.WriteString("}\n")
	return b.String()
}

// renderInvoke renders the native-to-Kotlin trampoline for one method:
// read arguments out of the buffer, call the implementation, serialize the
// result back.
func (c *KotlinCallbackInterface) renderInvoke(b *strings.Builder, oracle bindgen.Oracle, m model.Method) {
	class := oracle.ClassName(c.inner.Name)
	fmt.Fprintf(b, "    private fun %s(cb: %s, args: RustBuffer.ByValue): RustBuffer.ByValue {\n", invokeName(oracle, m), class)
	if len(m.Arguments) > 0 {
		b.WriteString("        val buf = args.asByteBuffer()\n")
		fmt.Fprintf(b, "            ?: throw InternalException(\"args buffer is missing for %s.%s\")\n", class, oracle.FnName(m.Name))
	}
	callArgs := make([]string, 0, len(m.Arguments))
	for _, a := range m.Arguments {
		ct := mustFind(oracle, a.Type)
		fmt.Fprintf(b, "        val %s = %s\n", oracle.VarName(a.Name), ct.Read(oracle, "buf"))
		callArgs = append(callArgs, oracle.VarName(a.Name))
	}
	call := fmt.Sprintf("cb.%s(%s)", oracle.FnName(m.Name), strings.Join(callArgs, ", "))
	if m.Return != nil {
		ret := mustFind(oracle, m.Return)
		fmt.Fprintf(b, "        val result = %s\n", call)
		b.WriteString("        val rbuf = RustBufferBuilder()\n")
		fmt.Fprintf(b, "        %s\n", ret.Write(oracle, "result", "rbuf"))
		b.WriteString("        return rbuf.finalize()\n")
	} else {
		fmt.Fprintf(b, "        %s\n", call)
		b.WriteString("        return emptyRustBuffer()\n")
	}
	b.WriteString("    }\n")
}

func invokeName(oracle bindgen.Oracle, m model.Method) string {
	return "invoke" + oracle.ClassName(m.Name)
}

// ffiInitSymbol names the native entry point that receives the foreign
// callback pointer during initialization.
func (c *KotlinCallbackInterface) ffiInitSymbol() string {
	return fmt.Sprintf("ffi_%s_%s_init_callback", c.ci.Namespace, util.ToSnakeCase(c.inner.Name))
}

// InitializationCode registers the dispatch table with the native library
// exactly once, during component load.
func (c *KotlinCallbackInterface) InitializationCode(oracle bindgen.Oracle) string {
	return fmt.Sprintf("%s.register(lib)", c.codeType().internals(oracle))
}

func (c *KotlinCallbackInterface) ImportCode(bindgen.Oracle) []string {
	// AtomicLong backs the handle counter of the shared runtime below, which
	// is only emitted when a callback interface is declared.
	return []string{
		"java.nio.ByteBuffer",
		"java.util.concurrent.atomic.AtomicLong",
		"java.util.concurrent.locks.ReentrantLock",
		"kotlin.concurrent.withLock",
	}
}

// concurrentHandleMapRuntime is the shared dispatch-table runtime, emitted
// once per generated file when the component declares at least one callback
// interface. The lock covers every access: lookups race registrations
// because the native library may invoke callbacks from its own threads.
// Re-inserting an object replaces any prior mapping for its handle.
const concurrentHandleMapRuntime = `internal const val IDX_CALLBACK_FREE = 0

internal class ConcurrentHandleMap<T : Any>(
    private val leftMap: MutableMap<Long, T> = mutableMapOf(),
    private val rightMap: MutableMap<T, Long> = mutableMapOf()
) {
    private val lock = ReentrantLock()
    private val currentHandle = AtomicLong(0L)
    private val stride = 1L

    fun insert(obj: T): Long =
        lock.withLock {
            rightMap[obj]?.also { handle ->
                leftMap[handle] = obj
            } ?: currentHandle.getAndAdd(stride).also { handle ->
                leftMap[handle] = obj
                rightMap[obj] = handle
            }
        }

    fun get(handle: Long) = lock.withLock {
        leftMap[handle]
    }

    fun remove(handle: Long): T? =
        lock.withLock {
            leftMap.remove(handle)?.also { obj ->
                rightMap.remove(obj)
            }
        }
}
`
