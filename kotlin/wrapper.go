package kotlin

import (
	"fmt"
	"strings"

	"github.com/pagr/bindgen"
	"github.com/pagr/bindgen/model"
	"github.com/pagr/bindgen/util"
)

// Wrapper assembles one complete Kotlin source file for a component:
// package header, deduplicated imports, one-time helper code, the
// definition block of every declared type, the native library binding and
// its one-time initialization statements, and the top-level function
// bindings.
//
// A Wrapper is built once per generation pass. Rendering is a pure function
// of (config, interface model): rendering twice yields identical text.
type Wrapper struct {
	config Config
	ci     *model.ComponentInterface
	oracle Oracle
}

func NewWrapper(config Config, ci *model.ComponentInterface) *Wrapper {
	return &Wrapper{config: config, ci: ci}
}

// baseImports are required by the JNA plumbing present in every generated
// file, independent of the declared types.
var baseImports = []string{
	"com.sun.jna.Library",
	"com.sun.jna.Native",
	"com.sun.jna.Pointer",
}

// declarations builds the member declarations for one render pass, in
// declaration order: enums, records, objects, callback interfaces. An enum
// referenced by a Throws clause renders as an exception hierarchy instead of
// a plain enum class; a validated model never uses the same enum both ways.
func (w *Wrapper) declarations() []bindgen.MemberDeclaration {
	thrown := w.thrownEnums()

	var decls []bindgen.MemberDeclaration
	for _, e := range w.ci.Enums {
		if thrown[e.Name] {
			decls = append(decls, NewKotlinError(e))
			delete(thrown, e.Name)
			continue
		}
		decls = append(decls, NewKotlinEnum(e))
	}
	// A Throws clause may reference an error the component never declares
	// (it belongs to an imported module); the base exception class is still
	// needed for the call sites to resolve.
	for _, name := range util.SortedKeys(thrown) {
		decls = append(decls, NewKotlinError(model.Enum{Name: name}))
	}
	for _, r := range w.ci.Records {
		decls = append(decls, NewKotlinRecord(r, w.ci))
	}
	for _, o := range w.ci.Objects {
		decls = append(decls, NewKotlinObject(o, w.ci))
	}
	for _, c := range w.ci.CallbackInterfaces {
		decls = append(decls, NewKotlinCallbackInterface(c, w.ci))
	}
	return decls
}

// thrownEnums collects the names of every enum referenced by a Throws
// clause on an object callable or a top-level function.
func (w *Wrapper) thrownEnums() map[string]bool {
	thrown := make(map[string]bool)
	for _, o := range w.ci.Objects {
		for _, c := range o.Constructors {
			if c.Throws != "" {
				thrown[c.Throws] = true
			}
		}
		for _, m := range o.Methods {
			if m.Throws != "" {
				thrown[m.Throws] = true
			}
		}
	}
	for _, fn := range w.ci.Functions {
		if fn.Throws != "" {
			thrown[fn.Throws] = true
		}
	}
	return thrown
}

// Render produces the final Kotlin source text. Any dispatch failure aborts
// the pass; there is no partial output.
func (w *Wrapper) Render() (string, error) {
	decls := w.declarations()

	var b strings.Builder
	b.WriteString("// Code generated by bindgen. DO NOT EDIT.\n")
	fmt.Fprintf(&b, "// Component namespace: %s\n", w.ci.Namespace)
	b.WriteString("\n")
	fmt.Fprintf(&b, "package %s\n", w.config.PackageName)
	b.WriteString("\n")

	for _, imp := range w.collectImports(decls) {
		fmt.Fprintf(&b, "import %s\n", imp)
	}
	b.WriteString("\n")

	if err := w.renderHelperCode(&b); err != nil {
		return "", err
	}

	if len(w.ci.CallbackInterfaces) > 0 {
		b.WriteString(concurrentHandleMapRuntime)
		b.WriteString("\n")
	}

	for _, d := range decls {
		b.WriteString(d.DefinitionCode(w.oracle))
		b.WriteString("\n")
	}

	if err := w.renderLib(&b, decls); err != nil {
		return "", err
	}

	for _, fn := range w.ci.Functions {
		b.WriteString("\n")
		if err := w.renderFunction(&b, fn); err != nil {
			return "", err
		}
	}

	return b.String(), nil
}

// collectImports merges the base imports, each declaration's imports and
// the imports of every referenced type's strategy into one sorted,
// deduplicated list.
func (w *Wrapper) collectImports(decls []bindgen.MemberDeclaration) []string {
	imports := append([]string{}, baseImports...)
	for _, d := range decls {
		imports = append(imports, d.ImportCode(w.oracle)...)
	}
	for _, t := range w.ci.ReferencedTypes() {
		imports = append(imports, mustFind(w.oracle, t).ImportCode(w.oracle)...)
	}
	return util.SortedUnique(imports)
}

// renderHelperCode emits each referenced type's helper block exactly once,
// keyed by canonical name, no matter how many times the type is referenced.
// Emission order follows canonical names so the output is stable.
func (w *Wrapper) renderHelperCode(b *strings.Builder) error {
	helpers := make(map[string]string)
	for _, t := range w.ci.ReferencedTypes() {
		ct, err := w.oracle.Find(t)
		if err != nil {
			return err
		}
		helpers[ct.CanonicalName(w.oracle)] = ct.HelperCode(w.oracle)
	}
	for _, name := range util.SortedKeys(helpers) {
		if helpers[name] != "" {
			b.WriteString(helpers[name])
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	return nil
}

// renderLib emits the JNA interface binding every native entry point, plus
// the lazy loader that runs each declaration's one-time initialization
// statement after the library is loaded.
func (w *Wrapper) renderLib(b *strings.Builder, decls []bindgen.MemberDeclaration) error {
	var inits []string
	for _, d := range decls {
		if init := d.InitializationCode(w.oracle); init != "" {
			inits = append(inits, init)
		}
	}

	b.WriteString("internal interface _UniFFILib : Library {\n")
	b.WriteString("    companion object {\n")
	b.WriteString("        internal val INSTANCE: _UniFFILib by lazy {\n")
	fmt.Fprintf(b, "            Native.load(%q, _UniFFILib::class.java)\n", w.config.CdylibName)
	if len(inits) > 0 {
		b.WriteString("                .also { lib ->\n")
		for _, init := range inits {
			fmt.Fprintf(b, "                    %s\n", init)
		}
		b.WriteString("                }\n")
	}
	b.WriteString("        }\n")
	b.WriteString("    }\n")

	for _, o := range w.ci.Objects {
		b.WriteString("\n")
		objSnake := util.ToSnakeCase(o.Name)
		for _, c := range o.Constructors {
			if err := w.renderLibSignature(b, fmt.Sprintf("%s_%s_%s", w.ci.Namespace, objSnake, util.ToSnakeCase(c.Name)), c.Arguments, model.ObjectType{Name: o.Name}); err != nil {
				return err
			}
		}
		for _, m := range o.Methods {
			args := append([]model.Argument{{Name: "ptr", Type: model.ObjectType{Name: o.Name}}}, m.Arguments...)
			if err := w.renderLibSignature(b, fmt.Sprintf("%s_%s_%s", w.ci.Namespace, objSnake, util.ToSnakeCase(m.Name)), args, m.Return); err != nil {
				return err
			}
		}
		fmt.Fprintf(b, "    fun %s_%s_object_free(ptr: Pointer, status: RustCallStatus)\n", w.ci.Namespace, objSnake)
	}

	if len(w.ci.CallbackInterfaces) > 0 {
		b.WriteString("\n")
		for _, c := range w.ci.CallbackInterfaces {
			fmt.Fprintf(b, "    fun ffi_%s_%s_init_callback(callback: %s, status: RustCallStatus)\n",
				w.ci.Namespace, util.ToSnakeCase(c.Name), w.oracle.FFITypeLabel(model.FFIForeignCallback))
		}
	}

	if len(w.ci.Functions) > 0 {
		b.WriteString("\n")
		for _, fn := range w.ci.Functions {
			if err := w.renderLibSignature(b, fmt.Sprintf("%s_%s", w.ci.Namespace, util.ToSnakeCase(fn.Name)), fn.Arguments, fn.Return); err != nil {
				return err
			}
		}
	}

	b.WriteString("}\n")
	return nil
}

// renderLibSignature emits one native method signature using the FFI scalar
// labels of its argument and return types.
func (w *Wrapper) renderLibSignature(b *strings.Builder, symbol string, args []model.Argument, ret model.Type) error {
	params := make([]string, 0, len(args)+1)
	for _, a := range args {
		label, err := TypeFFI(w.oracle, model.FFITypeOf(a.Type))
		if err != nil {
			return err
		}
		params = append(params, fmt.Sprintf("%s: %s", w.oracle.VarName(a.Name), label))
	}
	params = append(params, "status: RustCallStatus")

	if ret == nil {
		fmt.Fprintf(b, "    fun %s(%s)\n", symbol, strings.Join(params, ", "))
		return nil
	}
	label, err := TypeFFI(w.oracle, model.FFITypeOf(ret))
	if err != nil {
		return err
	}
	fmt.Fprintf(b, "    fun %s(%s): %s\n", symbol, strings.Join(params, ", "), label)
	return nil
}

// renderFunction emits the public Kotlin binding for one top-level
// function: lower the arguments, call the native entry point, lift the
// result.
func (w *Wrapper) renderFunction(b *strings.Builder, fn model.Function) error {
	name, err := FnNameKt(w.oracle, fn.Name)
	if err != nil {
		return err
	}
	call := renderNativeCall(w.oracle, fmt.Sprintf("%s_%s", w.ci.Namespace, util.ToSnakeCase(fn.Name)), "", fn.Arguments, fn.Throws)

	if fn.Throws != "" {
		fmt.Fprintf(b, "@Throws(%s::class)\n", w.oracle.ExceptionName(w.oracle.ClassName(fn.Throws)))
	}
	if fn.Return != nil {
		label, err := TypeKt(w.oracle, fn.Return)
		if err != nil {
			return err
		}
		lifted, err := LiftKt(w.oracle, call, fn.Return)
		if err != nil {
			return err
		}
		fmt.Fprintf(b, "fun %s(%s): %s =\n    %s\n", name, renderParams(w.oracle, fn.Arguments), label, lifted)
		return nil
	}
	fmt.Fprintf(b, "fun %s(%s) {\n    %s\n}\n", name, renderParams(w.oracle, fn.Arguments), call)
	return nil
}
