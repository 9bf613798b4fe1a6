package lang

import (
	"log/slog"
	"strings"
)

func (a *Analyzer) validateSelect(c *SelectParam) error {
	kind := c.Kind()

	if err := checkIdentifier(kind, c.Name); err != nil {
		return err
	}

	if len(c.Types) == 0 {
		return ErrMalformedNode.Because(kind.String() + ": at least one reference type is required")
	}

	if _, err := a.checkExisting(kind, c.Name, TypeReference); err != nil {
		return err
	}

	names := NewArray(TypeString)
	codes := NewArray(TypeInt)

	for n, e := range c.Types {
		name, err := a.eval.EvalString(e)
		if err != nil {
			return err
		}

		name = strings.TrimSpace(name)
		if name == "" {
			return ErrConstraint.Because(kind.String()+": empty reference type").
				With(slog.Int("type", n+1))
		}

		code, ok := a.refTypes.Lookup(name)
		if !ok {
			// Only the multiple-select variant rejects unknown types; the
			// single-select variant records the unknown sentinel.
			if c.Multiple {
				err := ErrUnresolved.Because(kind.String()+": unknown reference type "+name).
					With(slog.String("type", name))
				if a.hints {
					err = withHint(err, strings.ToUpper(name), a.refTypes.Names())
				}

				return err
			}

			code = UnknownReferenceType
		}

		names.Append(String(name))
		codes.Append(Int(code))
	}

	opts, err := a.displayOptions(kind, &c.Display)
	if err != nil {
		return err
	}

	if c.MaxSel != nil {
		if !c.Multiple {
			return ErrConstraint.Because(kind.String() + ": MAX_SEL requires " +
				CmdSelectMultipleParam.String())
		}

		limit, err := a.eval.EvalInt(c.MaxSel)
		if err != nil {
			return err
		}

		if limit <= 0 {
			return ErrConstraint.Because(kind.String()+": MAX_SEL must be positive").
				With(slog.Int64("value", limit))
		}

		opts.Set(KeyMaxSel, Int(limit))
	}

	opts.Set(KeyTypes, names)
	opts.Set(KeyTypeCodes, codes)

	a.commitParam(kind, c.Pos, c.Name, Reference{}, opts, c.Required, ListRequiredSelects)

	return nil
}

func (a *Analyzer) validateInvalidate(c *InvalidateParam) error {
	kind := c.Kind()

	if err := checkIdentifier(kind, c.Name); err != nil {
		return err
	}

	if v, ok := a.symbols.Lookup(c.Name); ok {
		if !v.Type().IsScalar() {
			return ErrType.Because(kind.String()+": only scalar parameters can be invalidated").
				With(slog.String("name", c.Name), slog.String("type", v.Type().String()))
		}
	} else {
		a.diags.Warnf(kind, c.Pos, "%s is not declared; removal deferred to execution", c.Name)
	}

	a.symbols.Registry().Append(ListInvalidated, c.Name)
	a.diags.Infof(kind, c.Pos, "%s appended to %s", c.Name, ListInvalidated)

	return nil
}
