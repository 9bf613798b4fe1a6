package lang

import (
	"log/slog"
	"math"
	"strings"
)

func (a *Analyzer) validateShow(c *ShowParam) error {
	kind := c.Kind()

	if err := checkIdentifier(kind, c.Name); err != nil {
		return err
	}

	t, err := parseSubtype(kind, c.Subtype, TypeInt, TypeDouble, TypeString, TypeBool)
	if err != nil {
		return err
	}

	if _, err := a.checkExisting(kind, c.Name, t); err != nil {
		return err
	}

	v, err := a.evalAs(t, c.Value)
	if err != nil {
		return err
	}

	opts, err := a.displayOptions(kind, &c.Display)
	if err != nil {
		return err
	}

	opts.Set(KeySubtype, String(t.String()))

	a.declare(kind, c.Pos, c.Name, v)
	a.symbols.Registry().SetOptions(OptionsKey{Command: kind, Name: c.Name}, opts)

	return nil
}

func (a *Analyzer) validateCheckbox(c *CheckboxParam) error {
	kind := c.Kind()

	if err := checkIdentifier(kind, c.Name); err != nil {
		return err
	}

	t, err := parseSubtype(kind, c.Subtype, TypeInt, TypeBool)
	if err != nil {
		return err
	}

	if _, err := a.checkExisting(kind, c.Name, t); err != nil {
		return err
	}

	n, err := a.eval.EvalInt(c.Default)
	if err != nil {
		return err
	}

	opts, err := a.displayOptions(kind, &c.Display)
	if err != nil {
		return err
	}

	v := subtypeInt(t, n)
	opts.Set(KeySubtype, String(t.String()))
	opts.Set(KeyDefault, v)

	a.commitParam(kind, c.Pos, c.Name, v, opts, c.Required, ListRequiredCheckboxes)

	return nil
}

func (a *Analyzer) validateRadio(c *RadioParam) error {
	kind := c.Kind()

	if err := checkIdentifier(kind, c.Name); err != nil {
		return err
	}

	t, err := parseSubtype(kind, c.Subtype, TypeInt, TypeBool)
	if err != nil {
		return err
	}

	if len(c.Options) == 0 {
		return ErrMalformedNode.Because(kind.String() + ": at least one option is required")
	}

	if t == TypeBool && len(c.Options) > 2 {
		return ErrConstraint.Because(kind.String()+": BOOL subtype allows at most 2 options").
			With(slog.Int("options", len(c.Options)))
	}

	if _, err := a.checkExisting(kind, c.Name, t); err != nil {
		return err
	}

	labels, err := a.optionLabels(kind, c.Options)
	if err != nil {
		return err
	}

	def, err := a.eval.EvalInt(c.Default)
	if err != nil {
		return err
	}

	if def < 0 || def >= int64(labels.Len()) {
		return ErrConstraint.Because(kind.String()+": DEFAULT option index out of range").
			With(slog.Int64("default", def), slog.Int("options", labels.Len()))
	}

	opts, err := a.displayOptions(kind, &c.Display)
	if err != nil {
		return err
	}

	v := subtypeInt(t, def)
	opts.Set(KeySubtype, String(t.String()))
	opts.Set(KeyOptions, labels)
	opts.Set(KeyDefault, v)

	a.commitParam(kind, c.Pos, c.Name, v, opts, c.Required, ListRequiredRadios)

	return nil
}

func (a *Analyzer) validateInput(c *InputParam) error {
	kind := c.Kind()

	if err := checkIdentifier(kind, c.Name); err != nil {
		return err
	}

	t, err := parseSubtype(kind, c.Subtype, TypeInt, TypeDouble, TypeString)
	if err != nil {
		return err
	}

	if _, err := a.checkExisting(kind, c.Name, t); err != nil {
		return err
	}

	if t == TypeString && (c.Min != nil || c.Max != nil) {
		return ErrType.Because(kind.String() + ": MIN_VALUE and MAX_VALUE require a numeric subtype")
	}

	v, err := a.evalAs(t, c.Default)
	if err != nil {
		return err
	}

	lo, hi, err := a.inputRange(kind, t, c)
	if err != nil {
		return err
	}

	if c.Default != nil {
		f, _ := asFloat(v)

		if math.IsNaN(f) {
			return ErrConstraint.Because(kind.String() + ": DEFAULT is not a number")
		}

		if (lo != nil && CompareDouble(f, mustFloat(lo)) < 0) ||
			(hi != nil && CompareDouble(f, mustFloat(hi)) > 0) {
			return ErrConstraint.Because(kind.String()+": DEFAULT outside MIN_VALUE..MAX_VALUE").
				With(slog.String("default", FormatValue(v)))
		}
	}

	opts, err := a.displayOptions(kind, &c.Display)
	if err != nil {
		return err
	}

	opts.Set(KeySubtype, String(t.String()))

	if c.Default != nil {
		opts.Set(KeyDefault, v)
	}

	if lo != nil {
		opts.Set(KeyMinValue, lo)
	}

	if hi != nil {
		opts.Set(KeyMaxValue, hi)
	}

	a.commitParam(kind, c.Pos, c.Name, v, opts, c.Required, ListRequiredInputs)

	return nil
}

// inputRange evaluates the optional bounds of a numeric input. A nil bound
// is absent.
func (a *Analyzer) inputRange(kind CommandKind, t Type, c *InputParam) (lo, hi Value, err error) {
	if c.Min != nil {
		if lo, err = a.evalAs(t, c.Min); err != nil {
			return nil, nil, err
		}
	}

	if c.Max != nil {
		if hi, err = a.evalAs(t, c.Max); err != nil {
			return nil, nil, err
		}
	}

	if lo != nil && hi != nil && CompareDouble(mustFloat(hi), mustFloat(lo)) < 0 {
		return nil, nil, ErrConstraint.Because(kind.String()+": MAX_VALUE less than MIN_VALUE").
			With(slog.String("min", FormatValue(lo)), slog.String("max", FormatValue(hi)))
	}

	return lo, hi, nil
}

// optionLabels evaluates each option to a non-empty string.
func (a *Analyzer) optionLabels(kind CommandKind, options []Expr) (*Array, error) {
	labels := NewArray(TypeString)

	for n, o := range options {
		s, err := a.eval.EvalString(o)
		if err != nil {
			return nil, err
		}

		if strings.TrimSpace(s) == "" {
			return nil, ErrConstraint.Because(kind.String()+": empty option").
				With(slog.Int("option", n+1))
		}

		labels.Append(String(s))
	}

	return labels, nil
}

// subtypeInt represents n as t, which is Int or Bool.
func subtypeInt(t Type, n int64) Value {
	if t == TypeBool {
		return Bool(n != 0)
	}

	return Int(n)
}

func mustFloat(v Value) float64 {
	f, _ := asFloat(v)

	return f
}
