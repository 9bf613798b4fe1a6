package lang

import (
	"strconv"
	"strings"
)

// Pos is a source position reported by the upstream parser. The zero Pos
// means the position is unknown.
type Pos struct {
	Line int
	Col  int
}

// Position returns p. Embedding Pos gives every node a Position method.
func (p Pos) Position() Pos { return p }

// IsValid reports whether the position is known.
func (p Pos) IsValid() bool { return p.Line > 0 }

// String renders the position as "line:col".
func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}

	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Col)
}

// Expr is an immutable expression node produced by the parser.
//
// The set of implementations is closed: [IntLit], [DoubleLit], [StringLit],
// [BoolLit], [NullLit], [ConstRef], [VarRef], [Unary], [Binary], [Call],
// [Index], [MapLookup], and [Member].
type Expr interface {
	Position() Pos
	exprNode()
}

type (
	// IntLit is an integer literal.
	IntLit struct {
		Pos
		Value int64
	}

	// DoubleLit is a floating point literal.
	DoubleLit struct {
		Pos
		Value float64
	}

	// StringLit is a string literal.
	StringLit struct {
		Pos
		Value string
	}

	// BoolLit is TRUE or FALSE.
	BoolLit struct {
		Pos
		Value bool
	}

	// NullLit is the NULL keyword.
	NullLit struct {
		Pos
	}

	// ConstRef names a built-in constant such as PI.
	ConstRef struct {
		Pos
		Name string
	}

	// VarRef refers to a declared name.
	VarRef struct {
		Pos
		Name string
	}

	// Unary applies a prefix operator.
	Unary struct {
		Pos
		Op Op
		X  Expr
	}

	// Binary applies an infix operator.
	Binary struct {
		Pos
		Op Op
		L  Expr
		R  Expr
	}

	// Call invokes a built-in function.
	Call struct {
		Pos
		Func string
		Args []Expr
	}

	// Index selects an array element: Base[At].
	Index struct {
		Pos
		Base Expr
		At   Expr
	}

	// MapLookup selects a map entry: Base[Key] on a map-typed base.
	MapLookup struct {
		Pos
		Base Expr
		Key  Expr
	}

	// Member selects a structure member: Base.Name.
	Member struct {
		Pos
		Base Expr
		Name string
	}
)

func (*IntLit) exprNode()    {}
func (*DoubleLit) exprNode() {}
func (*StringLit) exprNode() {}
func (*BoolLit) exprNode()   {}
func (*NullLit) exprNode()   {}
func (*ConstRef) exprNode()  {}
func (*VarRef) exprNode()    {}
func (*Unary) exprNode()     {}
func (*Binary) exprNode()    {}
func (*Call) exprNode()      {}
func (*Index) exprNode()     {}
func (*MapLookup) exprNode() {}
func (*Member) exprNode()    {}

// Op is a unary or binary operator.
type Op int

const (
	OpInvalid Op = iota // ?
	OpAdd               // +
	OpSub               // -
	OpMul               // *
	OpDiv               // /
	OpMod               // MOD
	OpEq                // ==
	OpNe                // <>
	OpLt                // <
	OpGt                // >
	OpLe                // <=
	OpGe                // >=
	OpAnd               // AND
	OpOr                // OR
	OpNeg               // -
	OpNot               // NOT
)

// IsArithmetic reports whether op is + - * / or MOD.
func (op Op) IsArithmetic() bool { return op >= OpAdd && op <= OpMod }

// IsComparison reports whether op is an equality or ordering operator.
func (op Op) IsComparison() bool { return op >= OpEq && op <= OpGe }

// IsOrdering reports whether op is < > <= or >=.
func (op Op) IsOrdering() bool { return op >= OpLt && op <= OpGe }

// IsLogical reports whether op is AND or OR.
func (op Op) IsLogical() bool { return op == OpAnd || op == OpOr }

// ParseBinaryOp maps an operator spelling to a binary Op.
func ParseBinaryOp(s string) (Op, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "+":
		return OpAdd, true
	case "-":
		return OpSub, true
	case "*":
		return OpMul, true
	case "/":
		return OpDiv, true
	case "MOD", "%":
		return OpMod, true
	case "==", "=":
		return OpEq, true
	case "<>", "!=":
		return OpNe, true
	case "<":
		return OpLt, true
	case ">":
		return OpGt, true
	case "<=":
		return OpLe, true
	case ">=":
		return OpGe, true
	case "AND", "&&":
		return OpAnd, true
	case "OR", "||":
		return OpOr, true
	default:
		return OpInvalid, false
	}
}

// ParseUnaryOp maps an operator spelling to a unary Op.
func ParseUnaryOp(s string) (Op, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "-":
		return OpNeg, true
	case "NOT", "!":
		return OpNot, true
	default:
		return OpInvalid, false
	}
}

// ExprString renders e as script text. It is used in diagnostics only.
func ExprString(e Expr) string {
	var b strings.Builder

	writeExpr(&b, e)

	return b.String()
}

func writeExpr(b *strings.Builder, e Expr) {
	switch e := e.(type) {
	case nil:
		b.WriteString("<nil>")
	case *IntLit:
		b.WriteString(strconv.FormatInt(e.Value, 10))
	case *DoubleLit:
		b.WriteString(strconv.FormatFloat(e.Value, 'g', -1, 64))
	case *StringLit:
		b.WriteString(strconv.Quote(e.Value))
	case *BoolLit:
		if e.Value {
			b.WriteString("TRUE")
		} else {
			b.WriteString("FALSE")
		}
	case *NullLit:
		b.WriteString("NULL")
	case *ConstRef:
		b.WriteString(e.Name)
	case *VarRef:
		b.WriteString(e.Name)
	case *Unary:
		b.WriteString(e.Op.String())

		if e.Op == OpNot {
			b.WriteByte(' ')
		}

		writeExpr(b, e.X)
	case *Binary:
		b.WriteByte('(')
		writeExpr(b, e.L)
		b.WriteString(" " + e.Op.String() + " ")
		writeExpr(b, e.R)
		b.WriteByte(')')
	case *Call:
		b.WriteString(e.Func)
		b.WriteByte('(')

		for i, arg := range e.Args {
			if i > 0 {
				b.WriteString(", ")
			}

			writeExpr(b, arg)
		}

		b.WriteByte(')')
	case *Index:
		writeExpr(b, e.Base)
		b.WriteByte('[')
		writeExpr(b, e.At)
		b.WriteByte(']')
	case *MapLookup:
		writeExpr(b, e.Base)
		b.WriteByte('[')
		writeExpr(b, e.Key)
		b.WriteByte(']')
	case *Member:
		writeExpr(b, e.Base)
		b.WriteByte('.')
		b.WriteString(e.Name)
	}
}
