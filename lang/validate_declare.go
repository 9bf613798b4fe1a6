package lang

import "log/slog"

func (a *Analyzer) validateDeclare(c *DeclareVariable) error {
	kind := c.Kind()

	if err := checkIdentifier(kind, c.Name); err != nil {
		return err
	}

	t, elem, err := declaredType(kind, c.Type, c.Subtype)
	if err != nil {
		return err
	}

	exists, err := a.checkExisting(kind, c.Name, t)
	if err != nil {
		return err
	}

	if exists {
		a.declare(kind, c.Pos, c.Name, nil)

		return nil
	}

	var v Value

	switch t {
	case TypeStruct:
		v, err = a.structValue(kind, c.Members)
	case TypeArray, TypeMap:
		if c.Default != nil {
			a.diags.Warnf(kind, c.Pos, "default of %s %s ignored", t, c.Name)
		}

		v = ZeroValue(t, elem)
	default:
		v, err = a.evalAs(t, c.Default)
	}

	if err != nil {
		return err
	}

	a.declare(kind, c.Pos, c.Name, v)

	return nil
}

// declaredType resolves a variable type keyword and, for ARRAY and MAP, its
// element subtype.
func declaredType(kind CommandKind, typ, subtype string) (Type, Type, error) {
	if typ == "" {
		return TypeInvalid, TypeInvalid, ErrMalformedNode.Because(kind.String() + ": missing type")
	}

	t, ok := ParseType(typ)
	if !ok {
		return TypeInvalid, TypeInvalid, ErrType.Because(kind.String()+": unknown type").
			With(slog.String("type", typ))
	}

	switch {
	case t == TypeArray || t == TypeMap:
		if subtype == "" {
			return TypeInvalid, TypeInvalid, ErrMalformedNode.Because(
				kind.String() + ": " + t.String() + " requires an element subtype")
		}

		elem, ok := ParseType(subtype)
		if !ok || elem.IsContainer() {
			return TypeInvalid, TypeInvalid, ErrType.Because(kind.String()+": invalid element subtype").
				With(slog.String("subtype", subtype))
		}

		return t, elem, nil
	case subtype != "":
		return TypeInvalid, TypeInvalid, ErrType.Because(
			kind.String() + ": subtype only allowed for ARRAY or MAP").
			With(slog.String("type", t.String()), slog.String("subtype", subtype))
	default:
		return t, TypeInvalid, nil
	}
}

// structValue builds a structure with every member initialized.
func (a *Analyzer) structValue(kind CommandKind, members []*MemberDecl) (*Struct, error) {
	st := NewStruct()

	for _, m := range members {
		if m == nil {
			return nil, ErrMalformedNode.Because(kind.String() + ": missing member declaration")
		}

		if err := checkIdentifier(kind, m.Name); err != nil {
			return nil, err
		}

		if _, dup := st.Member(m.Name); dup {
			return nil, ErrDuplicate.Because(kind.String()+": duplicate structure member").
				With(slog.String("member", m.Name))
		}

		t, elem, err := declaredType(kind, m.Type, m.Subtype)
		if err != nil {
			return nil, err
		}

		var v Value

		switch t {
		case TypeStruct:
			v = NewStruct()
		case TypeArray, TypeMap:
			v = ZeroValue(t, elem)
		default:
			if v, err = a.evalAs(t, m.Default); err != nil {
				return nil, err
			}
		}

		st.Members[m.Name] = v
	}

	return st, nil
}
