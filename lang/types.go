package lang

//go:generate go tool stringer --linecomment --type Type,Op,CommandKind,BlockKind,ListKind,Severity,ErrorKind --output kind_string.go

import "strings"

// Type identifies the variant of a [Value] and the static type of an
// [Expr].
type Type int

const (
	// TypeInvalid is the zero Type; no Value ever has it.
	TypeInvalid   Type = iota // INVALID
	TypeInt                   // INTEGER
	TypeDouble                // DOUBLE
	TypeString                // STRING
	TypeBool                  // BOOL
	TypeReference             // REFERENCE
	TypeFile                  // FILE_DESCRIPTOR
	TypeArray                 // ARRAY
	TypeMap                   // MAP
	TypeStruct                // STRUCTURE
)

// IsNumeric reports whether t is Int or Double.
func (t Type) IsNumeric() bool { return t == TypeInt || t == TypeDouble }

// IsScalar reports whether t is one of the four scalar kinds.
func (t Type) IsScalar() bool {
	switch t {
	case TypeInt, TypeDouble, TypeString, TypeBool:
		return true
	default:
		return false
	}
}

// IsContainer reports whether t is Array, Map, or Struct.
func (t Type) IsContainer() bool {
	return t == TypeArray || t == TypeMap || t == TypeStruct
}

// IsTruthy reports whether values of type t can be used as a condition.
func (t Type) IsTruthy() bool { return t == TypeBool || t.IsNumeric() }

// ParseType maps a script type keyword (case-insensitive) to a Type.
// A few common aliases are accepted.
func ParseType(s string) (Type, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INTEGER", "INT":
		return TypeInt, true
	case "DOUBLE", "FLOAT", "REAL":
		return TypeDouble, true
	case "STRING":
		return TypeString, true
	case "BOOL", "BOOLEAN":
		return TypeBool, true
	case "REFERENCE", "REF":
		return TypeReference, true
	case "FILE_DESCRIPTOR", "FILE":
		return TypeFile, true
	case "ARRAY":
		return TypeArray, true
	case "MAP":
		return TypeMap, true
	case "STRUCTURE", "STRUCT":
		return TypeStruct, true
	default:
		return TypeInvalid, false
	}
}

// promote returns the arithmetic result type of l and r.
func promote(l, r Type) Type {
	if l == TypeDouble || r == TypeDouble {
		return TypeDouble
	}

	return TypeInt
}

// comparableTypes reports whether l and r may appear on both sides of a
// comparison operator.
func comparableTypes(l, r Type) bool {
	if l.IsNumeric() && r.IsNumeric() {
		return true
	}

	return l == r
}
