package lang

import (
	"math"
	"strconv"
)

// Value is a typed runtime datum held in a [SymbolTable] or returned by
// [Evaluator.Evaluate].
//
// The set of implementations is closed: [Int], [Double], [String], [Bool],
// [Reference], [FileDesc], [*Array], [*Map], and [*Struct]. Use a type switch
// to access the payload.
//
// Scalar variants are plain values. Container variants are pointers, so
// copying a Value aliases the container rather than duplicating it.
type Value interface {
	Type() Type
	value()
}

type (
	// Int is a 64-bit signed integer value.
	Int int64
	// Double is a 64-bit floating point value.
	Double float64
	// String is a text value.
	String string
	// Bool is a boolean value.
	Bool bool
)

// Reference is an opaque, nullable handle to a host entity selected by the
// user (geometry, feature, and so on).
type Reference struct {
	Handle any
}

// FileDesc is an opaque, nullable handle to a host file descriptor.
type FileDesc struct {
	Handle any
}

// Array is an ordered sequence of values. Elem records the declared element
// type; elements are homogeneous by convention, not enforced.
type Array struct {
	Elem  Type
	Elems []Value
}

// Map is a string-keyed mapping. Reinserting a key overwrites it.
type Map struct {
	Elem    Type
	Entries map[string]Value
}

// Struct maps member names to values.
type Struct struct {
	Members map[string]Value
}

func (Int) Type() Type       { return TypeInt }
func (Double) Type() Type    { return TypeDouble }
func (String) Type() Type    { return TypeString }
func (Bool) Type() Type      { return TypeBool }
func (Reference) Type() Type { return TypeReference }
func (FileDesc) Type() Type  { return TypeFile }
func (*Array) Type() Type    { return TypeArray }
func (*Map) Type() Type      { return TypeMap }
func (*Struct) Type() Type   { return TypeStruct }

func (Int) value()       {}
func (Double) value()    {}
func (String) value()    {}
func (Bool) value()      {}
func (Reference) value() {}
func (FileDesc) value()  {}
func (*Array) value()    {}
func (*Map) value()      {}
func (*Struct) value()   {}

// IsNull reports whether the reference has no handle.
func (r Reference) IsNull() bool { return r.Handle == nil }

// IsNull reports whether the descriptor has no handle.
func (f FileDesc) IsNull() bool { return f.Handle == nil }

// NewArray returns an empty array of the given element type.
func NewArray(elem Type) *Array { return &Array{Elem: elem} }

// NewMap returns an empty map of the given element type.
func NewMap(elem Type) *Map {
	return &Map{Elem: elem, Entries: make(map[string]Value)}
}

// NewStruct returns a structure with no members.
func NewStruct() *Struct {
	return &Struct{Members: make(map[string]Value)}
}

// Append adds v to the end of the array.
func (a *Array) Append(v Value) { a.Elems = append(a.Elems, v) }

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.Elems) }

// ElemType returns the type of the first element, falling back to the
// declared element type for an empty array.
func (a *Array) ElemType() Type {
	if len(a.Elems) > 0 {
		return a.Elems[0].Type()
	}

	return a.Elem
}

// Contains reports whether the array holds a String equal to s.
func (a *Array) Contains(s string) bool {
	for _, v := range a.Elems {
		if str, ok := v.(String); ok && string(str) == s {
			return true
		}
	}

	return false
}

// Set inserts or overwrites key.
func (m *Map) Set(key string, v Value) {
	if m.Entries == nil {
		m.Entries = make(map[string]Value)
	}

	m.Entries[key] = v
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Value, bool) {
	v, ok := m.Entries[key]

	return v, ok
}

// ElemType returns the type of an arbitrary stored entry, falling back to
// the declared element type for an empty map.
func (m *Map) ElemType() Type {
	if m.Elem != TypeInvalid {
		return m.Elem
	}

	for _, v := range m.Entries {
		return v.Type()
	}

	return TypeInvalid
}

// Member returns the value of the named member.
func (s *Struct) Member(name string) (Value, bool) {
	v, ok := s.Members[name]

	return v, ok
}

// ZeroValue returns the default value of a freshly declared variable of
// type t. Containers are created empty; elem is their element type.
func ZeroValue(t, elem Type) Value {
	switch t {
	case TypeInt:
		return Int(0)
	case TypeDouble:
		return Double(0)
	case TypeString:
		return String("")
	case TypeBool:
		return Bool(false)
	case TypeReference:
		return Reference{}
	case TypeFile:
		return FileDesc{}
	case TypeArray:
		return NewArray(elem)
	case TypeMap:
		return NewMap(elem)
	case TypeStruct:
		return NewStruct()
	default:
		return nil
	}
}

// copyValue returns v with scalar payloads duplicated. Containers are
// returned as-is, so the copy shares mutable state with the original.
func copyValue(v Value) Value {
	switch v := v.(type) {
	case String:
		// Go strings are immutable; the conversion documents intent only.
		return String(string(v))
	default:
		return v
	}
}

// truthy reports whether v counts as true in a condition.
func truthy(v Value) (bool, bool) {
	switch v := v.(type) {
	case Bool:
		return bool(v), true
	case Int:
		return v != 0, true
	case Double:
		return v != 0, true
	default:
		return false, false
	}
}

// asFloat widens a numeric or boolean value to float64.
func asFloat(v Value) (float64, bool) {
	switch v := v.(type) {
	case Int:
		return float64(v), true
	case Double:
		return float64(v), true
	case Bool:
		if v {
			return 1, true
		}

		return 0, true
	default:
		return 0, false
	}
}

// asInt narrows a numeric or boolean value to int64, truncating toward
// zero.
func asInt(v Value) (int64, bool) {
	switch v := v.(type) {
	case Int:
		return int64(v), true
	case Double:
		return int64(math.Trunc(float64(v))), true
	case Bool:
		if v {
			return 1, true
		}

		return 0, true
	default:
		return 0, false
	}
}

// FormatValue renders a scalar value as script text. Containers render as
// their type keyword.
func FormatValue(v Value) string {
	switch v := v.(type) {
	case nil:
		return ""
	case Int:
		return strconv.FormatInt(int64(v), 10)
	case Double:
		return strconv.FormatFloat(float64(v), 'g', -1, 64)
	case String:
		return string(v)
	case Bool:
		return strconv.FormatBool(bool(v))
	case Reference:
		if v.IsNull() {
			return "NULL"
		}

		return "REFERENCE"
	case FileDesc:
		if v.IsNull() {
			return "NULL"
		}

		return "FILE_DESCRIPTOR"
	default:
		return v.Type().String()
	}
}
