package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/ardnew/cadscript/lang"
)

// Check analyzes scripts and prints a diagnostic report.
type Check struct {
	Analysis `embed:""`

	Where   string   `help:"Only report diagnostics matching an expr-lang predicate (fields: severity command line col message hint kind)." placeholder:"EXPR"`
	Info    bool     `help:"Include informational diagnostics."`
	NoColor bool     `help:"Disable colored output."                                                                                    name:"no-color"`
	Scripts []string `help:"Syntax-tree documents to analyze, or '-' for stdin."                                                        name:"script"   arg:""`
}

// Run executes the check command. It fails with [ErrScriptInvalid] if any
// script has an invalid command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	return c.run(ctx, stdout(ctx))
}

func (c *Check) run(ctx context.Context, w io.Writer) error {
	var filter *lang.Filter

	if c.Where != "" {
		f, err := lang.CompileFilter(c.Where)
		if err != nil {
			return err
		}

		filter = f
	}

	all, err := c.analyzeAll(ctx, c.Scripts, true)
	if err != nil {
		return err
	}

	rep := newReport(w, c.NoColor)
	failed := 0

	for _, an := range all {
		diags, err := c.visible(an.result.Diagnostics.All(), filter)
		if err != nil {
			return err
		}

		rep.script(an, diags)

		if !an.result.OK() {
			failed++
		}
	}

	if failed > 0 {
		return ErrScriptInvalid.With(
			slog.Int("failed", failed),
			slog.Int("scripts", len(all)),
		)
	}

	return nil
}

// visible returns the diagnostics to report.
func (c *Check) visible(diags []lang.Diagnostic, filter *lang.Filter) ([]lang.Diagnostic, error) {
	var out []lang.Diagnostic

	for _, d := range diags {
		if d.Severity == lang.SeverityInfo && !c.Info {
			continue
		}

		ok, err := filter.Match(d)
		if err != nil {
			return nil, err
		}

		if ok {
			out = append(out, d)
		}
	}

	return out, nil
}

// report renders diagnostics grouped by script.
type report struct {
	w io.Writer

	title, pos, hint, ok, bad lipgloss.Style
	severity                  map[lang.Severity]lipgloss.Style
	command                   lipgloss.Style
}

func newReport(w io.Writer, noColor bool) *report {
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}

	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return &report{
		w:     w,
		title: r.NewStyle().Bold(true).Underline(true),
		pos:   fg("8"),
		hint:  fg("6").Italic(true),
		ok:    fg("2").Bold(true),
		bad:   fg("1").Bold(true),
		severity: map[lang.Severity]lipgloss.Style{
			lang.SeverityInfo:    fg("4"),
			lang.SeverityWarning: fg("3"),
			lang.SeverityError:   fg("1").Bold(true),
		},
		command: fg("5"),
	}
}

func (r *report) script(an *analysis, diags []lang.Diagnostic) {
	fmt.Fprintln(r.w, r.title.Render(an.name))

	posWidth, cmdWidth := 0, 0
	for _, d := range diags {
		posWidth = max(posWidth, len(d.Pos.String()))
		cmdWidth = max(cmdWidth, len(d.Command.String()))
	}

	for _, d := range diags {
		var b strings.Builder

		b.WriteString("  ")
		b.WriteString(r.pos.Width(posWidth).Render(d.Pos.String()))
		b.WriteString("  ")
		b.WriteString(r.severity[d.Severity].Width(len("warning")).Render(d.Severity.String()))
		b.WriteString("  ")
		b.WriteString(r.command.Width(cmdWidth).Render(d.Command.String()))
		b.WriteString("  ")
		b.WriteString(d.Message)

		if d.Hint != "" {
			b.WriteString(" ")
			b.WriteString(r.hint.Render("(" + d.Hint + ")"))
		}

		fmt.Fprintln(r.w, b.String())
	}

	res := an.result
	summary := fmt.Sprintf("%d invalid, %d errors, %d warnings, %d symbols",
		len(res.Invalid),
		len(res.Diagnostics.Errors()),
		len(res.Diagnostics.Warnings()),
		res.Symbols.Len(),
	)

	if res.OK() {
		fmt.Fprintln(r.w, "  "+r.ok.Render("ok")+"  "+summary)
	} else {
		fmt.Fprintln(r.w, "  "+r.bad.Render("FAIL")+"  "+summary)
	}
}
