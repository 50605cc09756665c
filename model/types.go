package model

import (
	"fmt"

	"github.com/pagr/bindgen/util"
)

// Type identifies a type in the component interface. The set of variants is
// closed: every value is one of Primitive, RecordType, EnumType, ObjectType,
// CallbackInterfaceType, OptionalType, SequenceType, MapType or ExternalType,
// and each must resolve to exactly one code-generation strategy.
type Type interface {
	isType()
}

// PrimitiveKind enumerates the scalar and string types of the interface language.
type PrimitiveKind int

const (
	UInt8 PrimitiveKind = iota
	Int8
	UInt16
	Int16
	UInt32
	Int32
	UInt64
	Int64
	Float32
	Float64
	Boolean
	String
)

// Primitive is a scalar or string type.
type Primitive struct {
	Kind PrimitiveKind
}

// RecordType references a declared record (a plain data aggregate).
type RecordType struct {
	Name string
}

// EnumType references a declared enumeration.
type EnumType struct {
	Name string
}

// ObjectType references a declared object: a handle to a native-owned
// resource identified by an opaque pointer.
type ObjectType struct {
	Name string
}

// CallbackInterfaceType references a declared callback interface: a
// capability implemented in the target language and invoked by the
// native library.
type CallbackInterfaceType struct {
	Name string
}

// OptionalType wraps an inner type that may be absent.
type OptionalType struct {
	Inner Type
}

// SequenceType is an ordered list of an inner type.
type SequenceType struct {
	Inner Type
}

// MapType is a dictionary from Key to Value.
type MapType struct {
	Key   Type
	Value Type
}

// ExternalType references a type declared by another component.
type ExternalType struct {
	Module string
	Name   string
}

func (Primitive) isType() {}
func (RecordType) isType() {}
func (EnumType) isType() {}
func (ObjectType) isType() {}
func (CallbackInterfaceType) isType() {}
func (OptionalType) isType() {}
func (SequenceType) isType() {}
func (MapType) isType() {}
func (ExternalType) isType() {}

// FFIType enumerates the scalar wire types that may actually cross the FFI
// boundary. The set is closed; no value crosses the boundary without an
// encoding in this set.
type FFIType int

const (
	FFIInt8 FFIType = iota
	FFIUInt8
	FFIInt16
	FFIUInt16
	FFIInt32
	FFIUInt32
	FFIInt64
	FFIUInt64
	FFIFloat32
	FFIFloat64
	// FFIRustArcPtr is an opaque pointer to a native-owned object.
	FFIRustArcPtr
	// FFIRustBuffer is a growable byte buffer owned by the native library,
	// used for compound and variable-length values.
	FFIRustBuffer
	// FFIForeignBytes is a byte span owned by the foreign (target-language) side.
	FFIForeignBytes
	// FFIForeignCallback is a function pointer into the foreign side.
	FFIForeignCallback
)

var primitiveFFI = map[PrimitiveKind]FFIType{
	UInt8:   FFIUInt8,
	Int8:    FFIInt8,
	UInt16:  FFIUInt16,
	Int16:   FFIInt16,
	UInt32:  FFIUInt32,
	Int32:   FFIInt32,
	UInt64:  FFIUInt64,
	Int64:   FFIInt64,
	Float32: FFIFloat32,
	Float64: FFIFloat64,
	// Booleans cross the boundary as a byte; strings travel in a buffer.
	Boolean: FFIInt8,
	String:  FFIRustBuffer,
}

// FFITypeOf returns the wire representation of t. Objects pass as opaque
// pointers, callback interfaces as foreign callbacks, and every compound or
// named data type is serialized into a buffer.
func FFITypeOf(t Type) FFIType {
	switch t := t.(type) {
	case Primitive:
		return primitiveFFI[t.Kind]
	case ObjectType:
		return FFIRustArcPtr
	case CallbackInterfaceType:
		return FFIForeignCallback
	default:
		return FFIRustBuffer
	}
}

var primitiveCanonical = map[PrimitiveKind]string{
	UInt8:   "U8",
	Int8:    "I8",
	UInt16:  "U16",
	Int16:   "I16",
	UInt32:  "U32",
	Int32:   "I32",
	UInt64:  "U64",
	Int64:   "I64",
	Float32: "F32",
	Float64: "F64",
	Boolean: "Boolean",
	String:  "String",
}

// CanonicalName returns the internal name of a type, used to derive the
// names of per-type helper functions in generated code. Distinct types have
// distinct canonical names; equal types always share one.
func CanonicalName(t Type) string {
	switch t := t.(type) {
	case Primitive:
		return primitiveCanonical[t.Kind]
	case RecordType:
		return "Record" + util.ToPascalCase(t.Name)
	case EnumType:
		return "Enum" + util.ToPascalCase(t.Name)
	case ObjectType:
		return "Object" + util.ToPascalCase(t.Name)
	case CallbackInterfaceType:
		return "CallbackInterface" + util.ToPascalCase(t.Name)
	case OptionalType:
		return "Optional" + CanonicalName(t.Inner)
	case SequenceType:
		return "Sequence" + CanonicalName(t.Inner)
	case MapType:
		return "Map" + CanonicalName(t.Key) + CanonicalName(t.Value)
	case ExternalType:
		return "External" + util.ToPascalCase(t.Name)
	default:
		return fmt.Sprintf("%T", t)
	}
}

// IsUnsigned reports whether t is, or transitively contains, an unsigned
// scalar type. Target languages without native unsigned scalars need
// compatibility annotations wherever such a type appears.
func IsUnsigned(t Type) bool {
	switch t := t.(type) {
	case Primitive:
		switch t.Kind {
		case UInt8, UInt16, UInt32, UInt64:
			return true
		}
		return false
	case OptionalType:
		return IsUnsigned(t.Inner)
	case SequenceType:
		return IsUnsigned(t.Inner)
	case MapType:
		return IsUnsigned(t.Key) || IsUnsigned(t.Value)
	default:
		return false
	}
}
