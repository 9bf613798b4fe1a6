package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/cadscript/lang"
)

// Query evaluates an expr-lang expression against the symbol table of a
// script.
type Query struct {
	Analysis `embed:""`

	Format string `default:"text" enum:"text,yaml,json" help:"Output format (${enum})." short:"F"`

	Script string `arg:"" help:"Syntax-tree document to analyze, or '-' for stdin." name:"script"`
	Expr   string `arg:"" help:"expr-lang expression over the symbol table."        name:"expr"`
}

// Run executes the query command.
func (q *Query) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	return q.run(ctx, stdout(ctx))
}

func (q *Query) run(ctx context.Context, w io.Writer) error {
	an, err := q.analyzeOne(ctx, q.Script, false)
	if err != nil {
		return err
	}

	out, err := an.result.Symbols.Query(q.Expr)
	if err != nil {
		return err
	}

	return writeResult(ctx, w, q.Format, out)
}

// writeResult prints a query result. Text output prints scalars bare and
// composite values as YAML.
func writeResult(ctx context.Context, w io.Writer, format string, v any) error {
	switch format {
	case "json":
		data, err := json.MarshalIndentWithOption(v, "", "  ", json.DisableHTMLEscape())
		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		_, err = fmt.Fprintln(w, string(data))

		return err

	case "yaml":
		data, err := yaml.MarshalContext(ctx, v)
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		_, err = w.Write(data)

		return err

	default:
		_, err := fmt.Fprintln(w, lang.FormatNative(ctx, v))

		return err
	}
}
