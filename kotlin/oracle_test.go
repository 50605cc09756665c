package kotlin

import (
	"testing"

	"github.com/pagr/bindgen/errors"
	"github.com/pagr/bindgen/model"
)

// allVariants covers every arm of the closed type union, with nesting.
func allVariants() []model.Type {
	return []model.Type{
		model.Primitive{Kind: model.UInt8},
		model.Primitive{Kind: model.Int64},
		model.Primitive{Kind: model.Float64},
		model.Primitive{Kind: model.Boolean},
		model.Primitive{Kind: model.String},
		model.RecordType{Name: "todo_entry"},
		model.EnumType{Name: "priority"},
		model.ObjectType{Name: "todo_list"},
		model.CallbackInterfaceType{Name: "on_change"},
		model.OptionalType{Inner: model.Primitive{Kind: model.String}},
		model.SequenceType{Inner: model.RecordType{Name: "todo_entry"}},
		model.MapType{Key: model.Primitive{Kind: model.String}, Value: model.Primitive{Kind: model.Int32}},
		model.ExternalType{Module: "geo", Name: "point"},
	}
}

// Find must return exactly one strategy for every variant of the union.
func TestFindTotality(t *testing.T) {
	oracle := Oracle{}
	for _, typ := range allVariants() {
		ct, err := oracle.Find(typ)
		if err != nil {
			t.Fatalf("Find(%T) returned error: %v", typ, err)
		}
		if ct == nil {
			t.Fatalf("Find(%T) returned nil strategy", typ)
		}
	}
}

// Enumerations, objects and callback interfaces get dedicated strategies;
// everything else shares the fallback.
func TestFindDispatch(t *testing.T) {
	oracle := Oracle{}

	ct, _ := oracle.Find(model.EnumType{Name: "priority"})
	if _, ok := ct.(EnumCodeType); !ok {
		t.Errorf("enum resolved to %T, want EnumCodeType", ct)
	}
	ct, _ = oracle.Find(model.ObjectType{Name: "todo_list"})
	if _, ok := ct.(ObjectCodeType); !ok {
		t.Errorf("object resolved to %T, want ObjectCodeType", ct)
	}
	ct, _ = oracle.Find(model.CallbackInterfaceType{Name: "on_change"})
	if _, ok := ct.(CallbackInterfaceCodeType); !ok {
		t.Errorf("callback interface resolved to %T, want CallbackInterfaceCodeType", ct)
	}
	ct, _ = oracle.Find(model.Primitive{Kind: model.UInt32})
	if _, ok := ct.(FallbackCodeType); !ok {
		t.Errorf("primitive resolved to %T, want FallbackCodeType", ct)
	}
}

func TestFindNilType(t *testing.T) {
	_, err := Oracle{}.Find(nil)
	if err == nil {
		t.Fatal("Find(nil) succeeded, want dispatch failure")
	}
	if !errors.IsNoStrategy(err) {
		t.Errorf("Find(nil) error = %v, want ErrNoStrategy", err)
	}
}

// Repeated lookups for an equal identifier must produce identical output.
func TestFindReferentialConsistency(t *testing.T) {
	oracle := Oracle{}
	for _, typ := range allVariants() {
		a, err := oracle.Find(typ)
		if err != nil {
			t.Fatal(err)
		}
		b, err := oracle.Find(typ)
		if err != nil {
			t.Fatal(err)
		}
		pairs := [][2]string{
			{a.TypeLabel(oracle), b.TypeLabel(oracle)},
			{a.CanonicalName(oracle), b.CanonicalName(oracle)},
			{a.Lower(oracle, "v"), b.Lower(oracle, "v")},
			{a.Write(oracle, "v", "buf"), b.Write(oracle, "v", "buf")},
			{a.Lift(oracle, "v"), b.Lift(oracle, "v")},
			{a.Read(oracle, "buf"), b.Read(oracle, "buf")},
		}
		for _, p := range pairs {
			if p[0] != p[1] {
				t.Errorf("%T: repeated lookup rendered %q then %q", typ, p[0], p[1])
			}
		}
	}
}

func TestExceptionName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"TodoError", "TodoException"},
		{"Todo", "Todo"},
		{"Error", "Exception"},
		{"ErrorProne", "ErrorProne"},
		{"", ""},
	}
	oracle := Oracle{}
	for _, tt := range tests {
		if got := oracle.ExceptionName(tt.input); got != tt.expected {
			t.Errorf("ExceptionName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

// Unsigned wire types collapse onto the signed scalar of the same width:
// the JVM buffer API has no unsigned support.
func TestFFITypeLabelCollapsesUnsigned(t *testing.T) {
	oracle := Oracle{}
	pairs := []struct {
		signed, unsigned model.FFIType
		label            string
	}{
		{model.FFIInt8, model.FFIUInt8, "Byte"},
		{model.FFIInt16, model.FFIUInt16, "Short"},
		{model.FFIInt32, model.FFIUInt32, "Int"},
		{model.FFIInt64, model.FFIUInt64, "Long"},
	}
	for _, p := range pairs {
		if got := oracle.FFITypeLabel(p.signed); got != p.label {
			t.Errorf("FFITypeLabel(signed) = %q, want %q", got, p.label)
		}
		if got := oracle.FFITypeLabel(p.unsigned); got != p.label {
			t.Errorf("FFITypeLabel(unsigned) = %q, want %q", got, p.label)
		}
	}
}

func TestFFITypeLabel(t *testing.T) {
	tests := []struct {
		typ      model.FFIType
		expected string
	}{
		{model.FFIFloat32, "Float"},
		{model.FFIFloat64, "Double"},
		{model.FFIRustArcPtr, "Pointer"},
		{model.FFIRustBuffer, "RustBuffer.ByValue"},
		{model.FFIForeignBytes, "ForeignBytes.ByValue"},
		{model.FFIForeignCallback, "ForeignCallback"},
	}
	oracle := Oracle{}
	for _, tt := range tests {
		if got := oracle.FFITypeLabel(tt.typ); got != tt.expected {
			t.Errorf("FFITypeLabel(%d) = %q, want %q", tt.typ, got, tt.expected)
		}
	}
}

func TestNamingTransforms(t *testing.T) {
	oracle := Oracle{}

	if got := oracle.ClassName("todo_list"); got != "TodoList" {
		t.Errorf("ClassName = %q", got)
	}
	if got := oracle.FnName("add_entry"); got != "addEntry" {
		t.Errorf("FnName = %q", got)
	}
	if got := oracle.VarName("entry_count"); got != "entryCount" {
		t.Errorf("VarName = %q", got)
	}
	if got := oracle.EnumVariantName("too_large"); got != "TOO_LARGE" {
		t.Errorf("EnumVariantName = %q", got)
	}

	// Idempotence on names already in the target convention.
	if got := oracle.ClassName("TodoList"); got != "TodoList" {
		t.Errorf("ClassName not idempotent: %q", got)
	}
	if got := oracle.FnName("addEntry"); got != "addEntry" {
		t.Errorf("FnName not idempotent: %q", got)
	}
	if got := oracle.EnumVariantName("TOO_LARGE"); got != "TOO_LARGE" {
		t.Errorf("EnumVariantName not idempotent: %q", got)
	}
}
