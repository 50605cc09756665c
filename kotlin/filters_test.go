package kotlin

import (
	"strings"
	"testing"
	"text/template"

	"github.com/pagr/bindgen/model"
)

// Filters carry no logic of their own: each must render exactly what the
// resolved strategy renders.
func TestFiltersDelegate(t *testing.T) {
	oracle := Oracle{}
	for _, typ := range allVariants() {
		ct, err := oracle.Find(typ)
		if err != nil {
			t.Fatal(err)
		}

		if got, _ := TypeKt(oracle, typ); got != ct.TypeLabel(oracle) {
			t.Errorf("TypeKt(%T) = %q, want %q", typ, got, ct.TypeLabel(oracle))
		}
		if got, _ := LowerKt(oracle, "v", typ); got != ct.Lower(oracle, "v") {
			t.Errorf("LowerKt(%T) diverges from strategy", typ)
		}
		if got, _ := WriteKt(oracle, "v", "buf", typ); got != ct.Write(oracle, "v", "buf") {
			t.Errorf("WriteKt(%T) diverges from strategy", typ)
		}
		if got, _ := LiftKt(oracle, "v", typ); got != ct.Lift(oracle, "v") {
			t.Errorf("LiftKt(%T) diverges from strategy", typ)
		}
		if got, _ := ReadKt(oracle, "buf", typ); got != ct.Read(oracle, "buf") {
			t.Errorf("ReadKt(%T) diverges from strategy", typ)
		}
	}
}

func TestFiltersPropagateDispatchFailure(t *testing.T) {
	oracle := Oracle{}
	if _, err := TypeKt(oracle, nil); err == nil {
		t.Error("TypeKt(nil) succeeded")
	}
	if _, err := LowerKt(oracle, "v", nil); err == nil {
		t.Error("LowerKt(nil) succeeded")
	}
}

func TestLiteralKtRouting(t *testing.T) {
	oracle := Oracle{}
	i64 := model.Primitive{Kind: model.Int64}

	tests := []struct {
		name     string
		literal  model.Literal
		expected string
	}{
		// Typed literals dispatch through the strategy.
		{"enum", model.EnumLiteral("high", model.EnumType{Name: "priority"}), "Priority.HIGH"},
		{"int", model.IntLiteral(9, model.Decimal, i64), "9L"},
		{"uint", model.UIntLiteral(9, model.Decimal, model.Primitive{Kind: model.UInt32}), "9u"},
		{"float", model.FloatLiteral("1.5", model.Primitive{Kind: model.Float64}), "1.5"},
		// Fixed renderings never reach a strategy, so the non-literal
		// strategies' panic path stays unreachable.
		{"bool", model.BoolLiteral(false), "false"},
		{"string", model.StringLiteral("hi"), `"hi"`},
		{"empty sequence", model.Literal{Kind: model.LitEmptySequence}, "listOf()"},
		{"empty map", model.Literal{Kind: model.LitEmptyMap}, "mapOf()"},
		{"null", model.Literal{Kind: model.LitNull}, "null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LiteralKt(oracle, tt.literal)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.expected {
				t.Errorf("LiteralKt = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestLiteralKtUnknownKind(t *testing.T) {
	if _, err := LiteralKt(Oracle{}, model.Literal{Kind: model.LiteralKind(99)}); err == nil {
		t.Error("unknown literal kind did not error")
	}
}

func TestNamingFilters(t *testing.T) {
	oracle := Oracle{}
	if got, _ := ClassNameKt(oracle, "todo_list"); got != "TodoList" {
		t.Errorf("ClassNameKt = %q", got)
	}
	if got, _ := FnNameKt(oracle, "add_entry"); got != "addEntry" {
		t.Errorf("FnNameKt = %q", got)
	}
	if got, _ := VarNameKt(oracle, "entry_count"); got != "entryCount" {
		t.Errorf("VarNameKt = %q", got)
	}
	if got, _ := EnumVariantKt(oracle, "too_high"); got != "TOO_HIGH" {
		t.Errorf("EnumVariantKt = %q", got)
	}
	if got, _ := ExceptionNameKt(oracle, "TodoError"); got != "TodoException" {
		t.Errorf("ExceptionNameKt = %q", got)
	}
	if got, _ := TypeFFI(oracle, model.FFIRustBuffer); got != "RustBuffer.ByValue" {
		t.Errorf("TypeFFI = %q", got)
	}
}

// FuncMap binds the filters to one oracle so a template host can call them
// without threading the oracle through every invocation.
func TestFuncMap(t *testing.T) {
	tmpl, err := template.New("decl").Funcs(FuncMap(Oracle{})).Parse(
		`val {{ varNameKt .Name }}: {{ typeKt .Type }} = {{ literalKt .Default }}`)
	if err != nil {
		t.Fatal(err)
	}

	var b strings.Builder
	err = tmpl.Execute(&b, struct {
		Name    string
		Type    model.Type
		Default model.Literal
	}{
		Name:    "max_entries",
		Type:    model.Primitive{Kind: model.Int32},
		Default: model.IntLiteral(10, model.Decimal, model.Primitive{Kind: model.Int32}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := b.String(), "val maxEntries: Int = 10"; got != want {
		t.Errorf("template rendered %q, want %q", got, want)
	}
}
