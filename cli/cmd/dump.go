package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/cadscript/log"
)

// Dump analyzes a script and writes the resulting symbol table.
type Dump struct {
	Analysis `embed:""`

	Format string `default:"yaml" enum:"yaml,json" help:"Output format (${enum})."                  short:"F"`
	Indent int    `default:"2"                     help:"Indent width; 0 selects flow or compact." short:"i"`
	Strict bool   `help:"Fail if any command is invalid."`

	Script string `arg:"" default:"-" help:"Syntax-tree document to analyze, or '-' for stdin." name:"script"`
}

// Run executes the dump command.
func (d *Dump) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	return d.run(ctx, stdout(ctx))
}

func (d *Dump) run(ctx context.Context, w io.Writer) error {
	an, err := d.analyzeOne(ctx, d.Script, false)
	if err != nil {
		return err
	}

	if invalid := an.invalid(); invalid != nil {
		if d.Strict {
			return invalid
		}

		log.WarnContext(ctx, "dumping partially valid script",
			slog.String("script", an.name),
			slog.Int("invalid", len(an.result.Invalid)),
		)
	}

	st := an.result.Symbols

	switch d.Format {
	case "json":
		if err := st.WriteJSON(ctx, w, d.Indent); err != nil {
			return ErrJSONMarshal.Wrap(err)
		}
	default:
		if err := st.WriteYAML(ctx, w, d.Indent); err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}
	}

	return nil
}
