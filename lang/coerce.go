package lang

import "log/slog"

// EvalInt evaluates e and coerces the result to an integer. Doubles are
// truncated toward zero and Bool is 0 or 1. A nil e yields 0 and no error.
func (ev *Evaluator) EvalInt(e Expr) (int64, error) {
	if e == nil {
		return 0, nil
	}

	v, err := ev.Evaluate(e)
	if err != nil {
		return 0, err
	}

	n, ok := asInt(v)
	if !ok {
		return 0, coerceError(TypeInt, v)
	}

	return n, nil
}

// EvalDouble evaluates e and coerces the result to a float. Integers are
// widened and Bool is 0 or 1. A nil e yields 0 and no error.
func (ev *Evaluator) EvalDouble(e Expr) (float64, error) {
	if e == nil {
		return 0, nil
	}

	v, err := ev.Evaluate(e)
	if err != nil {
		return 0, err
	}

	f, ok := asFloat(v)
	if !ok {
		return 0, coerceError(TypeDouble, v)
	}

	return f, nil
}

// EvalString evaluates e to a string. Only string literals, NULL (the empty
// string), String-valued references, and + of two string-evaluable operands
// qualify; numbers are never formatted implicitly. A nil e yields "" and no
// error.
func (ev *Evaluator) EvalString(e Expr) (string, error) {
	switch e := e.(type) {
	case nil:
		return "", nil
	case *StringLit:
		return e.Value, nil
	case *NullLit:
		return "", nil
	case *Binary:
		if e.Op != OpAdd {
			return "", ErrType.Because("operator " + e.Op.String() + " does not yield a string")
		}

		l, err := ev.EvalString(e.L)
		if err != nil {
			return "", err
		}

		r, err := ev.EvalString(e.R)
		if err != nil {
			return "", err
		}

		return l + r, nil
	case *VarRef, *ConstRef, *Call, *Index, *MapLookup, *Member:
		v, err := ev.Evaluate(e)
		if err != nil {
			return "", err
		}

		s, ok := v.(String)
		if !ok {
			return "", coerceError(TypeString, v)
		}

		return string(s), nil
	default:
		return "", ErrType.Because("expression is not a string").
			With(slog.String("expr", ExprString(e)))
	}
}

// EvalBool evaluates e and reports its truthiness. A nil e yields false and
// no error.
func (ev *Evaluator) EvalBool(e Expr) (bool, error) {
	if e == nil {
		return false, nil
	}

	v, err := ev.Evaluate(e)
	if err != nil {
		return false, err
	}

	b, ok := truthy(v)
	if !ok {
		return false, coerceError(TypeBool, v)
	}

	return b, nil
}

func coerceError(want Type, v Value) error {
	return ErrType.Because("cannot coerce to " + want.String()).
		With(slog.String("got", v.Type().String()))
}
