package cmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/cadscript/cli/cmd/browse"
	"github.com/ardnew/cadscript/lang"
	"github.com/ardnew/cadscript/log"
)

// Browse explores the symbol table of a script interactively.
type Browse struct {
	Analysis `embed:""`

	Script string `arg:"" help:"Syntax-tree document to browse, or '-' for stdin." name:"script"`
}

// Run executes the browse command.
func (b *Browse) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	var opts []tea.ProgramOption

	// Keys come from the terminal when the script arrives on stdin.
	if b.Script == stdinSource {
		opts = append(opts, tea.WithInputTTY())
	}

	return browse.Run(ctx, b.Script, b.loader(), cacheDir, log.Default(), opts...)
}

// loader returns a [browse.Loader] that re-reads the script on every call.
// Standard input is read once and replayed.
func (b *Browse) loader() browse.Loader {
	stdin := sync.OnceValues(func() ([]byte, error) {
		return io.ReadAll(os.Stdin)
	})

	return func(ctx context.Context) (*lang.Result, error) {
		if b.Script != stdinSource {
			an, err := b.analyzeOne(ctx, b.Script, true)
			if err != nil {
				return nil, err
			}

			return an.result, nil
		}

		data, err := stdin()
		if err != nil {
			return nil, ErrOpenScript.Wrap(err).With(slog.String("path", stdinSource))
		}

		wd, err := os.Getwd()
		if err != nil {
			wd = "."
		}

		an, err := b.analyze(ctx, source{io.NopCloser(bytes.NewReader(data)), stdinSource, wd}, true)
		if err != nil {
			return nil, err
		}

		return an.result, nil
	}
}
