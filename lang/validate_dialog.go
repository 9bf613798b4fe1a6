package lang

import (
	"log/slog"
	"slices"
	"strings"
)

// DialogOptionsName is the name half of the dialog configuration's options
// key, which renders as CONFIG_OPTIONS_DIALOG.
const DialogOptionsName = "DIALOG"

// Keys of the dialog configuration map.
const (
	KeyTitle          = "TITLE"
	KeyWidth          = "WIDTH"
	KeyHeight         = "HEIGHT"
	KeyWidthMode      = "WIDTH_MODE"
	KeyHeightMode     = "HEIGHT_MODE"
	KeyScreenLocation = "SCREEN_LOCATION"
)

// Size modes of WIDTH and HEIGHT.
const (
	SizeFraction = "FRACTION"
	SizeAbsolute = "ABSOLUTE"
)

// ScreenLocations lists the accepted SCREEN_LOCATION values.
var ScreenLocations = []string{
	"TOP_LEFT", "TOP_CENTER", "TOP_RIGHT",
	"CENTER_LEFT", "CENTER", "CENTER_RIGHT",
	"BOTTOM_LEFT", "BOTTOM_CENTER", "BOTTOM_RIGHT",
}

// DialogFlags lists the accepted CONFIG flags.
var DialogFlags = []string{
	"NO_TABLES",
	"NO_GUI",
	"SHOW_GUI_FOR_EXISTING",
	"NO_SHOW_GUI_FOR_NEW",
	"CONTINUE_ON_CANCEL",
	"NO_AUTOUPDATE",
	"RESIZABLE",
}

func (a *Analyzer) validateDialog(c *DialogConfig) error {
	kind := c.Kind()

	if a.dialogSeen {
		return ErrDuplicate.Because(kind.String() + ": dialog configuration already declared")
	}

	a.dialogSeen = true

	if c.Height != nil && c.Width == nil {
		return ErrConstraint.Because(kind.String() + ": HEIGHT requires WIDTH")
	}

	m := NewMap(TypeInvalid)

	for _, dim := range []struct {
		key, mode string
		expr      Expr
	}{{KeyWidth, KeyWidthMode, c.Width}, {KeyHeight, KeyHeightMode, c.Height}} {
		if dim.expr == nil {
			continue
		}

		f, err := a.eval.EvalDouble(dim.expr)
		if err != nil {
			return err
		}

		if f <= 0 {
			return ErrConstraint.Because(kind.String()+": "+dim.key+" must be positive").
				With(slog.Float64("value", f))
		}

		// Values below 1 are a fraction of the screen; others are pixels.
		mode := SizeAbsolute
		if f < 1 {
			mode = SizeFraction
		}

		a.diags.Infof(kind, c.Pos, "%s %g resolved as %s", dim.key, f, mode)

		m.Set(dim.key, Double(f))
		m.Set(dim.mode, String(mode))
	}

	if c.Title != nil {
		title, err := a.eval.EvalString(c.Title)
		if err != nil {
			return err
		}

		m.Set(KeyTitle, String(title))
	}

	if c.ScreenLocation != "" {
		loc := strings.ToUpper(strings.TrimSpace(c.ScreenLocation))
		if !slices.Contains(ScreenLocations, loc) {
			return ErrConstraint.Because(kind.String()+": invalid SCREEN_LOCATION").
				With(slog.String("value", c.ScreenLocation))
		}

		m.Set(KeyScreenLocation, String(loc))
	}

	set := make(map[string]bool, len(c.Flags))

	for _, f := range c.Flags {
		flag := strings.ToUpper(strings.TrimSpace(f))
		if !slices.Contains(DialogFlags, flag) {
			return ErrConstraint.Because(kind.String()+": unknown flag").
				With(slog.String("flag", f))
		}

		set[flag] = true
	}

	for _, flag := range DialogFlags {
		m.Set(flag, Bool(set[flag]))
	}

	a.symbols.Registry().SetOptions(OptionsKey{Command: kind, Name: DialogOptionsName}, m)

	return nil
}
