package lang

import (
	"log/slog"
	"math"
	"path"
	"slices"
	"strings"
)

// Keys of the options maps built by parameter commands.
const (
	KeyTooltip   = "TOOLTIP"
	KeyImage     = "IMAGE"
	KeyOnPicture = "ON_PICTURE"
	KeyPosX      = "POS_X"
	KeyPosY      = "POS_Y"
	KeyOrder     = "ORDER"
	KeyRequired  = "REQUIRED"
	KeyTag       = "TAG"
	KeyFile      = "FILE"
	KeyOptions   = "OPTIONS"
	KeyDefault   = "DEFAULT"
	KeyMinValue  = "MIN_VALUE"
	KeyMaxValue  = "MAX_VALUE"
	KeyTypes     = "TYPES"
	KeyTypeCodes = "TYPE_CODES"
	KeyMaxSel    = "MAX_SEL"
	KeySubtype   = "SUBTYPE"
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp"}

// IsIdentifier reports whether name is non-empty, does not start with a
// digit, and holds only ASCII letters, digits, and underscores.
func IsIdentifier(name string) bool {
	if name == "" || isDigit(name[0]) {
		return false
	}

	for n := range len(name) {
		c := name[n]
		if c != '_' && !isDigit(c) && !isLetter(c) {
			return false
		}
	}

	return true
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func checkIdentifier(kind CommandKind, name string) error {
	if name == "" {
		return ErrMalformedNode.Because(kind.String() + ": missing parameter name")
	}

	if !IsIdentifier(name) {
		return ErrMalformedNode.Because(kind.String()+": invalid identifier").
			With(slog.String("name", name))
	}

	return nil
}

// parseSubtype maps a subtype keyword to a Type restricted to allowed.
func parseSubtype(kind CommandKind, subtype string, allowed ...Type) (Type, error) {
	if subtype == "" {
		return TypeInvalid, ErrMalformedNode.Because(kind.String() + ": missing subtype")
	}

	t, ok := ParseType(subtype)
	if !ok || !slices.Contains(allowed, t) {
		names := make([]string, len(allowed))
		for n, a := range allowed {
			names[n] = a.String()
		}

		return TypeInvalid, ErrType.Because(kind.String()+": subtype "+subtype+" not allowed").
			With(slog.String("allowed", strings.Join(names, "|")))
	}

	return t, nil
}

// checkExisting reports whether name is already bound. A binding of a
// different type is a type error.
func (a *Analyzer) checkExisting(kind CommandKind, name string, t Type) (bool, error) {
	v, ok := a.symbols.Lookup(name)
	if !ok {
		return false, nil
	}

	if v.Type() != t {
		return true, ErrType.Because(kind.String()+": "+name+" redeclared with a different type").
			With(slog.String("existing", v.Type().String()), slog.String("declared", t.String()))
	}

	return true, nil
}

// declare binds name, or bumps its declaration counter with a warning when
// it is already bound.
func (a *Analyzer) declare(kind CommandKind, pos Pos, name string, v Value) {
	if a.symbols.Declare(name, v) {
		b, _ := a.symbols.Binding(name)
		a.diags.Warnf(kind, pos, "%s redeclared (declaration %d); value unchanged",
			name, b.Declarations)

		return
	}

	if v != nil {
		a.diags.Infof(kind, pos, "%s declared as %s", name, v.Type())
	}
}

// displayOptions evaluates the presentation metadata of a parameter into a
// new options map.
func (a *Analyzer) displayOptions(kind CommandKind, d *Display) (*Map, error) {
	m := NewMap(TypeInvalid)

	if d.Image != nil && d.Tooltip == nil {
		return nil, ErrConstraint.Because(kind.String() + ": IMAGE requires TOOLTIP")
	}

	if d.Tooltip != nil {
		tip, err := a.eval.EvalString(d.Tooltip)
		if err != nil {
			return nil, err
		}

		m.Set(KeyTooltip, String(tip))
	}

	if d.Image != nil {
		img, err := a.eval.EvalString(d.Image)
		if err != nil {
			return nil, err
		}

		img = a.qualifyPath(kind, d.Image.Position(), img)
		a.checkImageExt(kind, d.Image.Position(), img)
		m.Set(KeyImage, String(img))
	}

	if d.OnPicture && (d.PosX == nil || d.PosY == nil) {
		return nil, ErrConstraint.Because(kind.String() + ": ON_PICTURE requires POS_X and POS_Y")
	}

	for _, p := range []struct {
		key  string
		expr Expr
	}{{KeyPosX, d.PosX}, {KeyPosY, d.PosY}} {
		if p.expr == nil {
			continue
		}

		n, err := a.integral(kind, p.key, p.expr)
		if err != nil {
			return nil, err
		}

		if n < 0 {
			return nil, ErrConstraint.Because(kind.String()+": "+p.key+" must not be negative").
				With(slog.Int64("value", n))
		}

		m.Set(p.key, Int(n))
	}

	if d.Order != nil {
		n, err := a.eval.EvalInt(d.Order)
		if err != nil {
			return nil, err
		}

		m.Set(KeyOrder, Int(n))
	}

	if d.Tag != nil {
		tag, err := a.eval.EvalString(d.Tag)
		if err != nil {
			return nil, err
		}

		m.Set(KeyTag, String(tag))
	}

	m.Set(KeyOnPicture, Bool(d.OnPicture))
	m.Set(KeyRequired, Bool(d.Required))

	return m, nil
}

// integral checks that e is numeric and evaluates it to a whole number. A
// Double such as 3.0 is accepted; 3.5 is not.
func (a *Analyzer) integral(kind CommandKind, field string, e Expr) (int64, error) {
	t, err := a.eval.StaticType(e)
	if err != nil {
		return 0, err
	}

	if !t.IsNumeric() {
		return 0, ErrType.Because(kind.String()+": "+field+" must be numeric").
			With(slog.String("got", t.String()))
	}

	if t == TypeInt {
		return a.eval.EvalInt(e)
	}

	f, err := a.eval.EvalDouble(e)
	if err != nil {
		return 0, err
	}

	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, ErrConstraint.Because(kind.String()+": "+field+" must be a whole number").
			With(slog.Float64("value", f))
	}

	return int64(f), nil
}

// evalAs evaluates e into the representation of t. A nil e yields the zero
// value of t.
func (a *Analyzer) evalAs(t Type, e Expr) (Value, error) {
	switch t {
	case TypeInt:
		n, err := a.eval.EvalInt(e)

		return Int(n), err
	case TypeDouble:
		f, err := a.eval.EvalDouble(e)

		return Double(f), err
	case TypeString:
		s, err := a.eval.EvalString(e)

		return String(s), err
	case TypeBool:
		b, err := a.eval.EvalBool(e)

		return Bool(b), err
	case TypeReference, TypeFile:
		if e != nil {
			if _, isNull := e.(*NullLit); !isNull {
				return nil, ErrType.Because(t.String() + " default must be NULL")
			}
		}

		return ZeroValue(t, TypeInvalid), nil
	default:
		return nil, ErrType.Because("no scalar representation for " + t.String())
	}
}

// commitParam binds a parameter, installs its options map, and tracks it
// in list when required. Callers run every check first.
func (a *Analyzer) commitParam(
	kind CommandKind,
	pos Pos,
	name string,
	v Value,
	opts *Map,
	required bool,
	list ListKind,
) {
	a.declare(kind, pos, name, v)
	a.symbols.Registry().SetOptions(OptionsKey{Command: kind, Name: name}, opts)

	if required && a.symbols.Registry().Track(list, name) {
		a.diags.Infof(kind, pos, "%s registered in %s", name, list)
	}
}

// IsAbsolutePath reports whether p is rooted, a UNC path, or
// drive-qualified.
func IsAbsolutePath(p string) bool {
	switch {
	case strings.HasPrefix(p, `\\`), strings.HasPrefix(p, "/"), strings.HasPrefix(p, `\`):
		return true
	case len(p) >= 2 && p[1] == ':' && isLetter(p[0]):
		return true
	default:
		return false
	}
}

// qualifyPath prefixes a relative p with the base directory symbol.
func (a *Analyzer) qualifyPath(kind CommandKind, pos Pos, p string) string {
	if IsAbsolutePath(p) {
		return p
	}

	v, ok := a.symbols.Lookup(BaseDirSymbol)
	base, isString := v.(String)

	if !ok || !isString || base == "" {
		a.diags.Warnf(kind, pos, "%s not declared; %q left relative", BaseDirSymbol, p)

		return p
	}

	dir := string(base)

	sep := `\`
	if strings.Contains(dir, "/") && !strings.Contains(dir, `\`) {
		sep = "/"
	}

	q := dir + sep + p
	if strings.HasSuffix(dir, "/") || strings.HasSuffix(dir, `\`) {
		q = dir + p
	}

	a.diags.Infof(kind, pos, "%q qualified against %s as %q", p, BaseDirSymbol, q)

	return q
}

func (a *Analyzer) checkImageExt(kind CommandKind, pos Pos, p string) {
	ext := strings.ToLower(path.Ext(strings.ReplaceAll(p, `\`, "/")))
	if !slices.Contains(imageExtensions, ext) {
		a.diags.Warnf(kind, pos, "unsupported image extension %q in %s", ext, p)
	}
}
