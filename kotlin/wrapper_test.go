package kotlin

import (
	"strings"
	"testing"

	"github.com/pagr/bindgen/model"
)

func todoListComponent() *model.ComponentInterface {
	return &model.ComponentInterface{
		Namespace: "todolist",
		Enums: []model.Enum{
			{Name: "priority", Variants: []string{"low", "high"}},
			{Name: "todo_error", Variants: []string{"empty_text", "too_long"}},
		},
		Records: []model.Record{
			{Name: "todo_entry", Fields: []model.Field{
				{Name: "text", Type: model.Primitive{Kind: model.String}},
				{Name: "priority", Type: model.EnumType{Name: "priority"}},
			}},
		},
		Objects:            []model.Object{todoListObject()},
		CallbackInterfaces: []model.CallbackInterface{onChangeCallback()},
		Functions: []model.Function{
			{Name: "default_list", Return: model.ObjectType{Name: "todo_list"}},
			{Name: "validate_text", Arguments: []model.Argument{
				{Name: "text", Type: model.Primitive{Kind: model.String}},
			}, Throws: "todo_error"},
			{Name: "first_entry", Return: model.OptionalType{Inner: model.RecordType{Name: "todo_entry"}}},
		},
	}
}

func renderTodoList(t *testing.T) string {
	t.Helper()
	ci := todoListComponent()
	text, err := NewWrapper(ResolveConfig(ci, Config{}), ci).Render()
	if err != nil {
		t.Fatal(err)
	}
	return text
}

func TestRenderHeader(t *testing.T) {
	text := renderTodoList(t)
	lines := strings.SplitN(text, "\n", 4)
	if lines[0] != "// Code generated by bindgen. DO NOT EDIT." {
		t.Errorf("first line = %q", lines[0])
	}
	if lines[1] != "// Component namespace: todolist" {
		t.Errorf("second line = %q", lines[1])
	}
	if !strings.Contains(text, "\npackage uniffi.todolist\n") {
		t.Error("missing package declaration")
	}
}

// Rendering is a pure function of (config, model).
func TestRenderDeterministic(t *testing.T) {
	if renderTodoList(t) != renderTodoList(t) {
		t.Error("two renders of the same component differ")
	}
}

func TestRenderImports(t *testing.T) {
	text := renderTodoList(t)

	var imports []string
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "import ") {
			imports = append(imports, strings.TrimPrefix(line, "import "))
		}
	}
	for _, want := range []string{
		"com.sun.jna.Library",
		"com.sun.jna.Native",
		"com.sun.jna.Pointer",
		"java.nio.ByteBuffer",
		"java.util.concurrent.atomic.AtomicBoolean",
		"java.util.concurrent.atomic.AtomicLong",
		"java.util.concurrent.locks.ReentrantLock",
		"kotlin.concurrent.withLock",
	} {
		found := false
		for _, imp := range imports {
			if imp == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing import %q", want)
		}
	}

	// One import block, sorted, no duplicates.
	for i := 1; i < len(imports); i++ {
		if imports[i] <= imports[i-1] {
			t.Errorf("imports not sorted/unique at %q, %q", imports[i-1], imports[i])
		}
	}
}

func TestRenderDefinitions(t *testing.T) {
	text := renderTodoList(t)
	for _, want := range []string{
		"enum class Priority {",
		"data class TodoEntry(",
		"class TodoList internal constructor(",
		"interface OnChange {",
		"internal object CallbackInterfaceOnChangeInternals {",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("render missing %q", want)
		}
	}
}

// The handle-map runtime is shared plumbing: emitted once when the component
// declares a callback interface, absent otherwise.
func TestRenderRuntimeGating(t *testing.T) {
	withCallbacks := renderTodoList(t)
	if strings.Count(withCallbacks, "internal class ConcurrentHandleMap") != 1 {
		t.Error("handle-map runtime must appear exactly once")
	}

	ci := &model.ComponentInterface{Namespace: "plain", Objects: []model.Object{todoListObject()}}
	text, err := NewWrapper(ResolveConfig(ci, Config{}), ci).Render()
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(text, "ConcurrentHandleMap") {
		t.Error("handle-map runtime emitted without callback interfaces")
	}
}

func TestRenderLib(t *testing.T) {
	text := renderTodoList(t)
	for _, want := range []string{
		"internal interface _UniFFILib : Library {",
		`Native.load("uniffi_todolist", _UniFFILib::class.java)`,
		// Library load runs each declaration's init exactly once.
		"CallbackInterfaceOnChangeInternals.register(lib)",
		// Wire signatures use FFI scalar labels, not API labels.
		"fun todolist_todo_list_new(status: RustCallStatus): Pointer",
		"fun todolist_todo_list_new_with_capacity(capacity: Int, status: RustCallStatus): Pointer",
		"fun todolist_todo_list_add_entry(ptr: Pointer, text: RustBuffer.ByValue, status: RustCallStatus)",
		"fun todolist_todo_list_entry_count(ptr: Pointer, status: RustCallStatus): Int",
		"fun todolist_todo_list_object_free(ptr: Pointer, status: RustCallStatus)",
		"fun ffi_todolist_on_change_init_callback(callback: ForeignCallback, status: RustCallStatus)",
		"fun todolist_default_list(status: RustCallStatus): Pointer",
		"fun todolist_validate_text(text: RustBuffer.ByValue, status: RustCallStatus)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("render missing %q", want)
		}
	}
}

func TestRenderFunctions(t *testing.T) {
	text := renderTodoList(t)

	if !strings.Contains(text, "fun defaultList(): TodoList =\n    TodoList.lift(rustCall { status -> _UniFFILib.INSTANCE.todolist_default_list(status) })") {
		t.Error("missing top-level function binding with lifted result")
	}
	if !strings.Contains(text, "@Throws(TodoException::class)\nfun validateText(text: String) {") {
		t.Error("throwing function missing @Throws annotation")
	}
	if !strings.Contains(text, "rustCallWithError(TodoException::class) { status -> _UniFFILib.INSTANCE.todolist_validate_text(lowerString(text), status) }") {
		t.Error("throwing function does not route through rustCallWithError")
	}
}

// Every record or compound helper a call site references is defined in the
// same file; the generated source stands alone apart from the primitive
// helpers shipped with the native scaffolding.
func TestRenderHelperDefinitions(t *testing.T) {
	text := renderTodoList(t)

	if !strings.Contains(text, "liftOptionalRecordTodoEntry(rustCall { status -> _UniFFILib.INSTANCE.todolist_first_entry(status) })") {
		t.Error("missing helper call at the optional-record result site")
	}
	for _, want := range []string{
		"internal fun liftOptionalRecordTodoEntry(rbuf: RustBuffer.ByValue): TodoEntry? =",
		"internal fun readOptionalRecordTodoEntry(buf: ByteBuffer): TodoEntry? {",
		"internal fun lowerRecordTodoEntry(v: TodoEntry): RustBuffer.ByValue = v.lower()",
		"internal fun readRecordTodoEntry(buf: ByteBuffer): TodoEntry = TodoEntry.read(buf)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("render missing helper definition %q", want)
		}
	}
}

// An enum referenced by a Throws clause surfaces as an exception hierarchy,
// matching the @Throws and rustCallWithError call sites; it is not also
// emitted as a plain enum class.
func TestRenderErrorDefinition(t *testing.T) {
	text := renderTodoList(t)
	for _, want := range []string{
		"sealed class TodoException(message: String) : Exception(message) {",
		"class EmptyText(message: String) : TodoException(message)",
		"1 -> EmptyText(readString(buf))",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("render missing %q", want)
		}
	}
	if strings.Contains(text, "enum class TodoError") {
		t.Error("thrown enum also emitted as a plain enum class")
	}
	// Enums never thrown still render as enum classes.
	if !strings.Contains(text, "enum class Priority {") {
		t.Error("plain enum lost its enum class rendering")
	}
}

// The handle-map runtime needs its imports even when no object declaration
// contributes them.
func TestRenderCallbackOnlyImports(t *testing.T) {
	ci := &model.ComponentInterface{
		Namespace:          "events",
		CallbackInterfaces: []model.CallbackInterface{onChangeCallback()},
	}
	text, err := NewWrapper(ResolveConfig(ci, Config{}), ci).Render()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "AtomicLong(0L)") {
		t.Fatal("runtime does not use a handle counter")
	}
	if !strings.Contains(text, "import java.util.concurrent.atomic.AtomicLong\n") {
		t.Error("AtomicLong referenced but not imported")
	}
}

func TestRenderConfigOverrides(t *testing.T) {
	ci := todoListComponent()
	cfg := ResolveConfig(ci, Config{PackageName: "com.example.todo", CdylibName: "todo_native"})
	text, err := NewWrapper(cfg, ci).Render()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "package com.example.todo\n") {
		t.Error("package override not applied")
	}
	if !strings.Contains(text, `Native.load("todo_native", _UniFFILib::class.java)`) {
		t.Error("cdylib override not applied")
	}
}
