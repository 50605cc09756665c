package kotlin

import (
	"strings"
	"testing"

	"github.com/pagr/bindgen/model"
)

func todoListObject() model.Object {
	return model.Object{
		Name: "todo_list",
		Constructors: []model.Constructor{
			{Name: "new"},
			{Name: "new_with_capacity", Arguments: []model.Argument{
				{Name: "capacity", Type: model.Primitive{Kind: model.Int32}},
			}},
		},
		Methods: []model.Method{
			{Name: "add_entry", Arguments: []model.Argument{
				{Name: "text", Type: model.Primitive{Kind: model.String}},
			}, Throws: "todo_error"},
			{Name: "entry_count", Return: model.Primitive{Kind: model.Int32}},
		},
	}
}

func TestObjectCodeType(t *testing.T) {
	oracle := Oracle{}
	ct, err := oracle.Find(model.ObjectType{Name: "todo_list"})
	if err != nil {
		t.Fatal(err)
	}

	if got := ct.TypeLabel(oracle); got != "TodoList" {
		t.Errorf("TypeLabel = %q", got)
	}
	if got := ct.CanonicalName(oracle); got != "ObjectTodoList" {
		t.Errorf("CanonicalName = %q", got)
	}
	if got := ct.Lower(oracle, "list"); got != "list.lower()" {
		t.Errorf("Lower = %q", got)
	}
	if got := ct.Write(oracle, "list", "buf"); got != "list.write(buf)" {
		t.Errorf("Write = %q", got)
	}
	if got := ct.Lift(oracle, "ptr"); got != "TodoList.lift(ptr)" {
		t.Errorf("Lift = %q", got)
	}
	if got := ct.Read(oracle, "buf"); got != "TodoList.read(buf)" {
		t.Errorf("Read = %q", got)
	}
}

// Objects hold native resources, so they never have literal defaults.
func TestObjectLiteralPanics(t *testing.T) {
	oracle := Oracle{}
	ct, _ := oracle.Find(model.ObjectType{Name: "todo_list"})

	defer func() {
		if recover() == nil {
			t.Fatal("object literal did not panic")
		}
	}()
	ct.Literal(oracle, model.BoolLiteral(true))
}

func TestObjectDefinition(t *testing.T) {
	oracle := Oracle{}
	ci := &model.ComponentInterface{Namespace: "todolist", Objects: []model.Object{todoListObject()}}
	decl := NewKotlinObject(todoListObject(), ci)

	code := decl.DefinitionCode(oracle)
	for _, want := range []string{
		"class TodoList internal constructor(",
		"internal val pointer: Pointer",
		") : AutoCloseable {",
		"private val wasDestroyed = AtomicBoolean(false)",
		"private val callCounter = AtomicLong(1)",
		// Every disposal path goes through the same indivisible check-and-set.
		"if (this.wasDestroyed.compareAndSet(false, true)) {",
		"override fun close() = destroy()",
		"protected fun finalize() = destroy()",
		"rustCall { status -> _UniFFILib.INSTANCE.todolist_todo_list_object_free(this.pointer, status) }",
		// In-flight calls pin the pointer through the call counter.
		"} while (!this.callCounter.compareAndSet(c, c + 1L))",
		"internal fun lower(): Pointer = callWithPointer { it }",
		"internal fun lift(pointer: Pointer): TodoList = TodoList(pointer)",
	} {
		if !strings.Contains(code, want) {
			t.Errorf("definition missing %q", want)
		}
	}
}

func TestObjectConstructors(t *testing.T) {
	oracle := Oracle{}
	ci := &model.ComponentInterface{Namespace: "todolist", Objects: []model.Object{todoListObject()}}
	code := NewKotlinObject(todoListObject(), ci).DefinitionCode(oracle)

	// The primary "new" constructor becomes a Kotlin secondary constructor.
	if !strings.Contains(code, "constructor() :\n        this(rustCall { status -> _UniFFILib.INSTANCE.todolist_todo_list_new(status) })") {
		t.Error("missing secondary constructor for new")
	}
	// Named constructors become companion factory functions.
	if !strings.Contains(code, "fun newWithCapacity(capacity: Int): TodoList =") {
		t.Error("missing companion factory for named constructor")
	}
	if !strings.Contains(code, "TodoList(rustCall { status -> _UniFFILib.INSTANCE.todolist_todo_list_new_with_capacity(capacity, status) })") {
		t.Error("named constructor does not call its own symbol")
	}
}

func TestObjectMethods(t *testing.T) {
	oracle := Oracle{}
	ci := &model.ComponentInterface{Namespace: "todolist", Objects: []model.Object{todoListObject()}}
	code := NewKotlinObject(todoListObject(), ci).DefinitionCode(oracle)

	// A throwing method routes through rustCallWithError with the mapped
	// exception class.
	if !strings.Contains(code, "fun addEntry(text: String) =") {
		t.Error("missing addEntry signature")
	}
	if !strings.Contains(code, "rustCallWithError(TodoException::class)") {
		t.Error("throwing method does not use rustCallWithError")
	}
	// A returning method lifts the native result inside callWithPointer.
	if !strings.Contains(code, "fun entryCount(): Int =") {
		t.Error("missing entryCount signature")
	}
	if !strings.Contains(code, "callWithPointer { ptr -> liftI32(rustCall { status -> _UniFFILib.INSTANCE.todolist_todo_list_entry_count(ptr, status) }) }") {
		t.Error("returning method does not lift inside callWithPointer")
	}
}

func TestObjectUnsignedAnnotation(t *testing.T) {
	obj := model.Object{
		Name: "tally",
		Methods: []model.Method{
			{Name: "total", Return: model.Primitive{Kind: model.UInt64}},
		},
	}
	ci := &model.ComponentInterface{Namespace: "x", Objects: []model.Object{obj}}
	oracle := Oracle{}

	code := NewKotlinObject(obj, ci).DefinitionCode(oracle)
	if !strings.HasPrefix(code, "@ExperimentalUnsignedTypes\n") {
		t.Error("object touching unsigned types must carry the opt-in annotation")
	}

	plain := todoListObject()
	ciPlain := &model.ComponentInterface{Namespace: "x", Objects: []model.Object{plain}}
	if strings.Contains(NewKotlinObject(plain, ciPlain).DefinitionCode(oracle), "@ExperimentalUnsignedTypes") {
		t.Error("object without unsigned types must not carry the annotation")
	}
}

func TestObjectImports(t *testing.T) {
	oracle := Oracle{}
	ci := &model.ComponentInterface{Namespace: "todolist", Objects: []model.Object{todoListObject()}}
	decl := NewKotlinObject(todoListObject(), ci)

	imports := decl.ImportCode(oracle)
	want := map[string]bool{
		"java.nio.ByteBuffer":                       false,
		"java.util.concurrent.atomic.AtomicLong":    false,
		"java.util.concurrent.atomic.AtomicBoolean": false,
	}
	for _, imp := range imports {
		if _, ok := want[imp]; !ok {
			t.Errorf("unexpected import %q", imp)
			continue
		}
		want[imp] = true
	}
	for imp, seen := range want {
		if !seen {
			t.Errorf("missing import %q", imp)
		}
	}
}

func TestRenderParamsDefaults(t *testing.T) {
	oracle := Oracle{}
	def := model.IntLiteral(10, model.Decimal, model.Primitive{Kind: model.Int32})
	got := renderParams(oracle, []model.Argument{
		{Name: "text", Type: model.Primitive{Kind: model.String}},
		{Name: "max_entries", Type: model.Primitive{Kind: model.Int32}, Default: &def},
	})
	want := "text: String, maxEntries: Int = 10"
	if got != want {
		t.Errorf("renderParams = %q, want %q", got, want)
	}
}
