// Package model holds the interface model: a structured, already-validated
// description of a native component's public surface. Instances are built
// once by the upstream parser and borrowed immutably for the whole
// generation pass; nothing in this package mutates a loaded model.
package model

// ComponentInterface describes one component: its namespace and the
// ordered lists of declared types and functions.
type ComponentInterface struct {
	Namespace          string              `json:"namespace"`
	Enums              []Enum              `json:"enums,omitempty"`
	Records            []Record            `json:"records,omitempty"`
	Objects            []Object            `json:"objects,omitempty"`
	CallbackInterfaces []CallbackInterface `json:"callback_interfaces,omitempty"`
	Functions          []Function          `json:"functions,omitempty"`
}

// Enum is a declared enumeration with flat, value-less variants.
type Enum struct {
	Name     string   `json:"name"`
	Variants []string `json:"variants"`
}

// Field is one record field, optionally carrying a default literal.
type Field struct {
	Name    string   `json:"name"`
	Type    Type     `json:"-"`
	Default *Literal `json:"default,omitempty"`
}

// Record is a declared data aggregate passed by value across the boundary.
type Record struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// Argument is one function or method parameter.
type Argument struct {
	Name    string   `json:"name"`
	Type    Type     `json:"-"`
	Default *Literal `json:"default,omitempty"`
}

// Method is a callable on an object or callback interface. Return is nil for
// void methods. Throws names the declared error enum, or is empty.
type Method struct {
	Name      string     `json:"name"`
	Arguments []Argument `json:"arguments,omitempty"`
	Return    Type       `json:"-"`
	Throws    string     `json:"throws,omitempty"`
}

// Constructor creates an object instance on the native side.
type Constructor struct {
	Name      string     `json:"name"`
	Arguments []Argument `json:"arguments,omitempty"`
	Throws    string     `json:"throws,omitempty"`
}

// Object is a declared handle type backed by a native-owned resource.
type Object struct {
	Name         string        `json:"name"`
	Constructors []Constructor `json:"constructors,omitempty"`
	Methods      []Method      `json:"methods,omitempty"`
}

// CallbackInterface is a capability implemented in the target language and
// invoked from the native library through a registered dispatch table.
type CallbackInterface struct {
	Name    string   `json:"name"`
	Methods []Method `json:"methods,omitempty"`
}

// Function is a top-level function exported by the component.
type Function struct {
	Name      string     `json:"name"`
	Arguments []Argument `json:"arguments,omitempty"`
	Return    Type       `json:"-"`
	Throws    string     `json:"throws,omitempty"`
}

// ContainsUnsignedTypes reports whether the declared type named by t
// references an unsigned scalar anywhere in its surface. The walk covers
// record fields, method arguments and returns, and recurses through named
// references.
func (ci *ComponentInterface) ContainsUnsignedTypes(t Type) bool {
	return ci.containsUnsigned(t, make(map[string]bool))
}

func (ci *ComponentInterface) containsUnsigned(t Type, seen map[string]bool) bool {
	if IsUnsigned(t) {
		return true
	}
	switch t := t.(type) {
	case OptionalType:
		return ci.containsUnsigned(t.Inner, seen)
	case SequenceType:
		return ci.containsUnsigned(t.Inner, seen)
	case MapType:
		return ci.containsUnsigned(t.Key, seen) || ci.containsUnsigned(t.Value, seen)
	case RecordType:
		if seen["record:"+t.Name] {
			return false
		}
		seen["record:"+t.Name] = true
		for _, rec := range ci.Records {
			if rec.Name != t.Name {
				continue
			}
			for _, f := range rec.Fields {
				if ci.containsUnsigned(f.Type, seen) {
					return true
				}
			}
		}
	case ObjectType:
		if seen["object:"+t.Name] {
			return false
		}
		seen["object:"+t.Name] = true
		for _, obj := range ci.Objects {
			if obj.Name != t.Name {
				continue
			}
			for _, cons := range obj.Constructors {
				if ci.argsContainUnsigned(cons.Arguments, seen) {
					return true
				}
			}
			if ci.methodsContainUnsigned(obj.Methods, seen) {
				return true
			}
		}
	case CallbackInterfaceType:
		if seen["callback:"+t.Name] {
			return false
		}
		seen["callback:"+t.Name] = true
		for _, cbi := range ci.CallbackInterfaces {
			if cbi.Name == t.Name && ci.methodsContainUnsigned(cbi.Methods, seen) {
				return true
			}
		}
	}
	return false
}

func (ci *ComponentInterface) methodsContainUnsigned(methods []Method, seen map[string]bool) bool {
	for _, m := range methods {
		if ci.argsContainUnsigned(m.Arguments, seen) {
			return true
		}
		if m.Return != nil && ci.containsUnsigned(m.Return, seen) {
			return true
		}
	}
	return false
}

func (ci *ComponentInterface) argsContainUnsigned(args []Argument, seen map[string]bool) bool {
	for _, a := range args {
		if ci.containsUnsigned(a.Type, seen) {
			return true
		}
	}
	return false
}

// ReferencedTypes returns every type mentioned anywhere in the interface,
// including the declared types themselves and the components of compound
// types. Order follows declaration order; duplicates are preserved (callers
// dedupe by canonical name where it matters).
func (ci *ComponentInterface) ReferencedTypes() []Type {
	var out []Type
	add := func(t Type) {
		if t != nil {
			out = append(out, t)
			out = append(out, components(t)...)
		}
	}
	for _, e := range ci.Enums {
		add(EnumType{Name: e.Name})
	}
	for _, r := range ci.Records {
		add(RecordType{Name: r.Name})
		for _, f := range r.Fields {
			add(f.Type)
		}
	}
	for _, o := range ci.Objects {
		add(ObjectType{Name: o.Name})
		for _, c := range o.Constructors {
			for _, a := range c.Arguments {
				add(a.Type)
			}
		}
		for _, m := range o.Methods {
			for _, a := range m.Arguments {
				add(a.Type)
			}
			add(m.Return)
		}
	}
	for _, c := range ci.CallbackInterfaces {
		add(CallbackInterfaceType{Name: c.Name})
		for _, m := range c.Methods {
			for _, a := range m.Arguments {
				add(a.Type)
			}
			add(m.Return)
		}
	}
	for _, f := range ci.Functions {
		for _, a := range f.Arguments {
			add(a.Type)
		}
		add(f.Return)
	}
	return out
}

// components flattens the inner types of a compound type, one level deep
// per recursion step.
func components(t Type) []Type {
	switch t := t.(type) {
	case OptionalType:
		return append([]Type{t.Inner}, components(t.Inner)...)
	case SequenceType:
		return append([]Type{t.Inner}, components(t.Inner)...)
	case MapType:
		inner := []Type{t.Key, t.Value}
		inner = append(inner, components(t.Key)...)
		return append(inner, components(t.Value)...)
	default:
		return nil
	}
}
