package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/ardnew/cadscript/log"
)

// Severity ranks a [Diagnostic].
type Severity int

const (
	SeverityInfo    Severity = iota // info
	SeverityWarning                 // warning
	SeverityError                   // error
)

// Diagnostic is one validation decision worth surfacing.
type Diagnostic struct {
	Severity Severity
	Command  CommandKind
	Pos      Pos
	Message  string
	Hint     string

	// Err is the failure behind an error diagnostic; nil otherwise.
	Err error
}

// String formats the diagnostic as "pos: severity: COMMAND: message".
func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s: %s: %s: %s", d.Pos, d.Severity, d.Command, d.Message)
	if d.Hint != "" {
		s += " (" + d.Hint + ")"
	}

	return s
}

// Diagnostics collects the diagnostics of one analysis and forwards each to
// a logger. The zero logger discards.
type Diagnostics struct {
	items  []Diagnostic
	logger log.Logger
}

// NewDiagnostics returns an empty sink forwarding to logger.
func NewDiagnostics(logger log.Logger) *Diagnostics {
	return &Diagnostics{logger: logger}
}

// Infof records an informational note.
func (d *Diagnostics) Infof(cmd CommandKind, pos Pos, format string, args ...any) {
	d.add(Diagnostic{
		Severity: SeverityInfo,
		Command:  cmd,
		Pos:      pos,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Warnf records a warning. Warnings never affect validity.
func (d *Diagnostics) Warnf(cmd CommandKind, pos Pos, format string, args ...any) {
	d.add(Diagnostic{
		Severity: SeverityWarning,
		Command:  cmd,
		Pos:      pos,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Error records a command failure.
func (d *Diagnostics) Error(cmd CommandKind, pos Pos, err error) {
	if err == nil {
		return
	}

	d.add(Diagnostic{
		Severity: SeverityError,
		Command:  cmd,
		Pos:      pos,
		Message:  err.Error(),
		Hint:     hintOf(err),
		Err:      err,
	})
}

// All returns every diagnostic in the order recorded.
func (d *Diagnostics) All() []Diagnostic { return slices.Clone(d.items) }

// Errors returns the error diagnostics.
func (d *Diagnostics) Errors() []Diagnostic { return d.filter(SeverityError) }

// Warnings returns the warning diagnostics.
func (d *Diagnostics) Warnings() []Diagnostic { return d.filter(SeverityWarning) }

// HasErrors reports whether any error was recorded.
func (d *Diagnostics) HasErrors() bool {
	return slices.ContainsFunc(d.items, func(it Diagnostic) bool {
		return it.Severity == SeverityError
	})
}

// Len returns the number of diagnostics.
func (d *Diagnostics) Len() int { return len(d.items) }

func (d *Diagnostics) filter(sev Severity) []Diagnostic {
	var out []Diagnostic

	for _, it := range d.items {
		if it.Severity == sev {
			out = append(out, it)
		}
	}

	return out
}

func (d *Diagnostics) add(it Diagnostic) {
	d.items = append(d.items, it)

	attrs := []slog.Attr{
		slog.String("command", it.Command.String()),
		slog.String("pos", it.Pos.String()),
	}
	if it.Hint != "" {
		attrs = append(attrs, slog.String("hint", it.Hint))
	}

	switch it.Severity {
	case SeverityInfo:
		d.logger.Debug(it.Message, attrs...)
	case SeverityWarning:
		d.logger.Warn(it.Message, attrs...)
	default:
		d.logger.Error(it.Message, attrs...)
	}
}

// hintOf extracts a "hint" attribute from the first [*Error] in the chain
// that carries one.
func hintOf(err error) string {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return ""
		}

		for _, a := range e.Attrs() {
			if a.Key == "hint" {
				return a.Value.String()
			}
		}

		err = e.Unwrap()
	}

	return ""
}
