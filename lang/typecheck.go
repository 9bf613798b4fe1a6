package lang

import "log/slog"

// StaticType infers the type of e without evaluating it, except that the
// element type of an indexed container is read from the container bound in
// the symbol table.
func (ev *Evaluator) StaticType(e Expr) (Type, error) {
	switch e := e.(type) {
	case nil:
		return TypeInvalid, ErrMalformedNode.Because("missing expression")
	case *IntLit:
		return TypeInt, nil
	case *DoubleLit:
		return TypeDouble, nil
	case *StringLit, *NullLit:
		return TypeString, nil
	case *BoolLit:
		return TypeBool, nil
	case *ConstRef:
		if _, ok := LookupConstant(e.Name); !ok {
			return TypeInvalid, ev.unknownConstant(e)
		}

		return TypeDouble, nil
	case *VarRef:
		if v, ok := ev.symbols.Lookup(e.Name); ok {
			return v.Type(), nil
		}

		if ev.pathLike(e) {
			return TypeString, nil
		}

		return TypeInvalid, ev.undeclared(e)
	case *Unary:
		return ev.unaryType(e)
	case *Binary:
		return ev.binaryType(e)
	case *Call:
		return ev.callType(e)
	case *Index:
		arr, err := ev.arrayOf(e.Base)
		if err != nil {
			return TypeInvalid, err
		}

		at, err := ev.StaticType(e.At)
		if err != nil {
			return TypeInvalid, err
		}

		if at != TypeInt {
			return TypeInvalid, ErrType.Because("array index must be " + TypeInt.String()).
				With(slog.String("got", at.String()))
		}

		return elemType(arr.ElemType())
	case *MapLookup:
		m, err := ev.mapOf(e.Base)
		if err != nil {
			return TypeInvalid, err
		}

		kt, err := ev.StaticType(e.Key)
		if err != nil {
			return TypeInvalid, err
		}

		if kt != TypeString {
			return TypeInvalid, ErrType.Because("map key must be " + TypeString.String()).
				With(slog.String("got", kt.String()))
		}

		return elemType(m.ElemType())
	case *Member:
		st, err := ev.structOf(e.Base)
		if err != nil {
			return TypeInvalid, err
		}

		v, ok := st.Member(e.Name)
		if !ok {
			return TypeInvalid, ev.unknownMember(st, e.Name)
		}

		return v.Type(), nil
	default:
		return TypeInvalid, ErrUnknownExpr.With(slog.String("node", ExprString(e)))
	}
}

func elemType(t Type) (Type, error) {
	if t == TypeInvalid {
		return TypeInvalid, ErrType.Because("cannot infer element type of empty container")
	}

	return t, nil
}

func (ev *Evaluator) unaryType(e *Unary) (Type, error) {
	t, err := ev.StaticType(e.X)
	if err != nil {
		return TypeInvalid, err
	}

	switch e.Op {
	case OpNeg:
		if !t.IsNumeric() {
			return TypeInvalid, ErrType.Because("negation of non-numeric operand").
				With(slog.String("operand", t.String()))
		}

		return t, nil
	case OpNot:
		if !t.IsTruthy() {
			return TypeInvalid, ErrType.Because("NOT of non-boolean operand").
				With(slog.String("operand", t.String()))
		}

		return TypeBool, nil
	default:
		return TypeInvalid, ErrMalformedNode.Because("invalid unary operator " + e.Op.String())
	}
}

func (ev *Evaluator) binaryType(e *Binary) (Type, error) {
	l, err := ev.StaticType(e.L)
	if err != nil {
		return TypeInvalid, err
	}

	r, err := ev.StaticType(e.R)
	if err != nil {
		return TypeInvalid, err
	}

	mismatch := func(reason string) (Type, error) {
		return TypeInvalid, ErrType.Because(reason).With(
			slog.String("op", e.Op.String()),
			slog.String("left", l.String()),
			slog.String("right", r.String()),
		)
	}

	switch {
	case e.Op.IsLogical():
		if !l.IsTruthy() || !r.IsTruthy() {
			return mismatch("logical operand is not boolean or numeric")
		}

		return TypeBool, nil
	case e.Op == OpAdd && (l == TypeString || r == TypeString):
		if !l.IsScalar() || !r.IsScalar() {
			return mismatch("cannot concatenate non-scalar operand")
		}

		return TypeString, nil
	case e.Op.IsArithmetic():
		if !l.IsNumeric() || !r.IsNumeric() {
			return mismatch("arithmetic on non-numeric operand")
		}

		if e.Op == OpDiv {
			return TypeDouble, nil
		}

		return promote(l, r), nil
	case e.Op.IsComparison():
		if isNullHandleComparison(e, l, r) {
			return TypeBool, nil
		}

		if !comparableTypes(l, r) {
			return mismatch("comparison of mismatched types")
		}

		if e.Op.IsOrdering() && !l.IsNumeric() {
			return mismatch("ordering comparison of non-numeric operands")
		}

		if !l.IsScalar() {
			return mismatch("equality comparison of non-scalar operands")
		}

		return TypeBool, nil
	default:
		return TypeInvalid, ErrMalformedNode.Because("invalid binary operator " + e.Op.String())
	}
}

// isNullHandleComparison reports whether e tests a Reference or FileDesc
// for equality with NULL.
func isNullHandleComparison(e *Binary, l, r Type) bool {
	if e.Op != OpEq && e.Op != OpNe {
		return false
	}

	handle := func(t Type) bool { return t == TypeReference || t == TypeFile }

	_, rNull := e.R.(*NullLit)
	_, lNull := e.L.(*NullLit)

	return (rNull && handle(l)) || (lNull && handle(r))
}

func (ev *Evaluator) callType(e *Call) (Type, error) {
	fn, err := ev.function(e)
	if err != nil {
		return TypeInvalid, err
	}

	for n, arg := range e.Args {
		t, err := ev.StaticType(arg)
		if err != nil {
			return TypeInvalid, err
		}

		if t != fn.Params[n] && (t != TypeInt || fn.Params[n] != TypeDouble) {
			return TypeInvalid, argumentError(fn, n, t)
		}
	}

	return fn.Result, nil
}
