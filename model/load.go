package model

import (
	"io"

	"github.com/goccy/go-json"

	"github.com/pagr/bindgen/errors"
)

// The upstream parser hands the validated interface model to the generator
// as JSON. Type references use a small polymorphic encoding:
//
//	{"kind": "u32"}
//	{"kind": "record", "name": "Point"}
//	{"kind": "optional", "inner": {"kind": "string"}}
//	{"kind": "map", "key": {"kind": "string"}, "value": {"kind": "i64"}}
//
// Default literals carry their own kind plus a value field; their Type is
// filled in from the enclosing field or argument after decoding.

type typeRef struct {
	Kind   string   `json:"kind"`
	Name   string   `json:"name,omitempty"`
	Module string   `json:"module,omitempty"`
	Inner  *typeRef `json:"inner,omitempty"`
	Key    *typeRef `json:"key,omitempty"`
	Value  *typeRef `json:"value,omitempty"`
}

var primitiveKinds = map[string]PrimitiveKind{
	"u8":     UInt8,
	"i8":     Int8,
	"u16":    UInt16,
	"i16":    Int16,
	"u32":    UInt32,
	"i32":    Int32,
	"u64":    UInt64,
	"i64":    Int64,
	"f32":    Float32,
	"f64":    Float64,
	"bool":   Boolean,
	"string": String,
}

func (r *typeRef) resolve() (Type, error) {
	if r == nil {
		return nil, nil
	}
	if kind, ok := primitiveKinds[r.Kind]; ok {
		return Primitive{Kind: kind}, nil
	}
	switch r.Kind {
	case "record":
		return RecordType{Name: r.Name}, nil
	case "enum":
		return EnumType{Name: r.Name}, nil
	case "object":
		return ObjectType{Name: r.Name}, nil
	case "callback_interface":
		return CallbackInterfaceType{Name: r.Name}, nil
	case "external":
		return ExternalType{Module: r.Module, Name: r.Name}, nil
	case "optional":
		inner, err := r.Inner.resolve()
		if err != nil {
			return nil, err
		}
		return OptionalType{Inner: inner}, nil
	case "sequence":
		inner, err := r.Inner.resolve()
		if err != nil {
			return nil, err
		}
		return SequenceType{Inner: inner}, nil
	case "map":
		key, err := r.Key.resolve()
		if err != nil {
			return nil, err
		}
		value, err := r.Value.resolve()
		if err != nil {
			return nil, err
		}
		return MapType{Key: key, Value: value}, nil
	}
	return nil, errors.Wrapf(errors.ErrInvalidModel, "unknown type kind %q", r.Kind)
}

type literalRef struct {
	Kind    string `json:"kind"`
	Variant string `json:"variant,omitempty"`
	Int     int64  `json:"int,omitempty"`
	UInt    uint64 `json:"uint,omitempty"`
	Float   string `json:"float,omitempty"`
	Bool    bool   `json:"bool,omitempty"`
	String  string `json:"string,omitempty"`
	Radix   string `json:"radix,omitempty"`
}

func (r *literalRef) resolve(declared Type) (*Literal, error) {
	if r == nil {
		return nil, nil
	}
	radix := Decimal
	switch r.Radix {
	case "", "decimal":
	case "hex":
		radix = Hexadecimal
	case "octal":
		radix = Octal
	default:
		return nil, errors.Wrapf(errors.ErrInvalidModel, "unknown radix %q", r.Radix)
	}
	lit := Literal{Radix: radix, Type: declared}
	switch r.Kind {
	case "enum":
		lit.Kind = LitEnum
		lit.StringValue = r.Variant
	case "int":
		lit.Kind = LitInt
		lit.IntValue = r.Int
	case "uint":
		lit.Kind = LitUInt
		lit.UIntValue = r.UInt
	case "float":
		lit.Kind = LitFloat
		lit.StringValue = r.Float
	case "bool":
		lit.Kind = LitBoolean
		lit.BoolValue = r.Bool
	case "string":
		lit.Kind = LitString
		lit.StringValue = r.String
	case "empty_sequence":
		lit.Kind = LitEmptySequence
	case "empty_map":
		lit.Kind = LitEmptyMap
	case "null":
		lit.Kind = LitNull
	default:
		return nil, errors.Wrapf(errors.ErrInvalidModel, "unknown literal kind %q", r.Kind)
	}
	return &lit, nil
}

type fieldRef struct {
	Name    string      `json:"name"`
	Type    *typeRef    `json:"type"`
	Default *literalRef `json:"default,omitempty"`
}

func (r fieldRef) resolve() (Field, error) {
	t, err := r.Type.resolve()
	if err != nil {
		return Field{}, err
	}
	def, err := r.Default.resolve(t)
	if err != nil {
		return Field{}, err
	}
	return Field{Name: r.Name, Type: t, Default: def}, nil
}

type methodRef struct {
	Name      string     `json:"name"`
	Arguments []fieldRef `json:"arguments,omitempty"`
	Return    *typeRef   `json:"return,omitempty"`
	Throws    string     `json:"throws,omitempty"`
}

func (r methodRef) resolveArgs() ([]Argument, error) {
	if len(r.Arguments) == 0 {
		return nil, nil
	}
	args := make([]Argument, 0, len(r.Arguments))
	for _, a := range r.Arguments {
		f, err := a.resolve()
		if err != nil {
			return nil, err
		}
		args = append(args, Argument{Name: f.Name, Type: f.Type, Default: f.Default})
	}
	return args, nil
}

func (r methodRef) resolve() (Method, error) {
	args, err := r.resolveArgs()
	if err != nil {
		return Method{}, err
	}
	ret, err := r.Return.resolve()
	if err != nil {
		return Method{}, err
	}
	return Method{Name: r.Name, Arguments: args, Return: ret, Throws: r.Throws}, nil
}

type componentRef struct {
	Namespace string `json:"namespace"`
	Enums     []Enum `json:"enums,omitempty"`
	Records   []struct {
		Name   string     `json:"name"`
		Fields []fieldRef `json:"fields"`
	} `json:"records,omitempty"`
	Objects []struct {
		Name         string      `json:"name"`
		Constructors []methodRef `json:"constructors,omitempty"`
		Methods      []methodRef `json:"methods,omitempty"`
	} `json:"objects,omitempty"`
	CallbackInterfaces []struct {
		Name    string      `json:"name"`
		Methods []methodRef `json:"methods,omitempty"`
	} `json:"callback_interfaces,omitempty"`
	Functions []methodRef `json:"functions,omitempty"`
}

// Decode reads a component interface from JSON.
func Decode(r io.Reader) (*ComponentInterface, error) {
	var ref componentRef
	if err := json.NewDecoder(r).Decode(&ref); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidModel, err.Error())
	}
	if ref.Namespace == "" {
		return nil, errors.Wrap(errors.ErrInvalidModel, "missing namespace")
	}

	ci := &ComponentInterface{Namespace: ref.Namespace, Enums: ref.Enums}

	for _, rec := range ref.Records {
		fields := make([]Field, 0, len(rec.Fields))
		for _, f := range rec.Fields {
			field, err := f.resolve()
			if err != nil {
				return nil, errors.Wrapf(err, "record %s", rec.Name)
			}
			fields = append(fields, field)
		}
		ci.Records = append(ci.Records, Record{Name: rec.Name, Fields: fields})
	}

	for _, obj := range ref.Objects {
		o := Object{Name: obj.Name}
		for _, c := range obj.Constructors {
			args, err := c.resolveArgs()
			if err != nil {
				return nil, errors.Wrapf(err, "object %s", obj.Name)
			}
			o.Constructors = append(o.Constructors, Constructor{Name: c.Name, Arguments: args, Throws: c.Throws})
		}
		for _, m := range obj.Methods {
			method, err := m.resolve()
			if err != nil {
				return nil, errors.Wrapf(err, "object %s", obj.Name)
			}
			o.Methods = append(o.Methods, method)
		}
		ci.Objects = append(ci.Objects, o)
	}

	for _, cbi := range ref.CallbackInterfaces {
		c := CallbackInterface{Name: cbi.Name}
		for _, m := range cbi.Methods {
			method, err := m.resolve()
			if err != nil {
				return nil, errors.Wrapf(err, "callback interface %s", cbi.Name)
			}
			c.Methods = append(c.Methods, method)
		}
		ci.CallbackInterfaces = append(ci.CallbackInterfaces, c)
	}

	for _, fn := range ref.Functions {
		m, err := fn.resolve()
		if err != nil {
			return nil, errors.Wrapf(err, "function %s", fn.Name)
		}
		ci.Functions = append(ci.Functions, Function{Name: m.Name, Arguments: m.Arguments, Return: m.Return, Throws: m.Throws})
	}

	return ci, nil
}
