package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/ardnew/cadscript/cli"
	"github.com/ardnew/cadscript/cli/cmd"
	"github.com/ardnew/cadscript/log"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if err != nil {
		// The check report already shows why a script is invalid.
		if !errors.Is(err, cmd.ErrScriptInvalid) {
			log.Error("run failed", slog.Any("error", err))
		}

		os.Exit(1)
	}
}
