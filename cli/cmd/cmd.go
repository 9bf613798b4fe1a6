package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/cadscript/lang"
	"github.com/ardnew/cadscript/log"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the standard output of the kong application, or
// [os.Stdout] outside of one.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// source is one opened script.
type source struct {
	io.ReadCloser

	// name is the path as given, or "-" for stdin.
	name string
	// dir is the directory of the script, or the working directory for
	// stdin.
	dir string
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}

// openSources opens every path once. Paths naming the same file (through
// symlinks, relative paths, or "-" and /dev/stdin) are opened only for their
// first occurrence. The caller closes the returned sources.
func openSources(paths []string) ([]source, error) {
	if len(paths) == 0 {
		return nil, ErrNoScript
	}

	seen := make(map[fileKey]struct{})
	srcs := make([]source, 0, len(paths))

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, _ := makeFileKey(stdinInfo)

	fail := func(path string, err error) ([]source, error) {
		closeSources(srcs)

		return nil, ErrOpenScript.Wrap(err).With(slog.String("path", path))
	}

	for _, path := range paths {
		if path == stdinSource {
			if _, dup := seen[stdinKey]; dup {
				continue
			}

			seen[stdinKey] = struct{}{}

			wd, err := os.Getwd()
			if err != nil {
				wd = "."
			}

			srcs = append(srcs, source{io.NopCloser(os.Stdin), stdinSource, wd})

			continue
		}

		resolved, err := filepath.Abs(path)
		if err == nil {
			resolved, err = filepath.EvalSymlinks(resolved)
		}

		if err != nil {
			return fail(path, err)
		}

		info, err := os.Stat(resolved)
		if err != nil {
			return fail(path, err)
		}

		if key, ok := makeFileKey(info); ok {
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		}

		file, err := os.Open(resolved)
		if err != nil {
			return fail(path, err)
		}

		srcs = append(srcs, source{file, path, filepath.Dir(resolved)})
	}

	return srcs, nil
}

func closeSources(srcs []source) {
	for _, src := range srcs {
		_ = src.Close()
	}
}

// Analysis holds the flags shared by every command that analyzes scripts.
type Analysis struct {
	BaseDir  string `help:"Value of BASE_DIR (default: the directory of each script)." placeholder:"DIR"  type:"path"`
	RefTypes string `help:"YAML or JSON mapping of reference type names to codes."      placeholder:"FILE" type:"existingfile" name:"reftypes"`
	Hints    bool   `help:"Suggest near matches for unresolved names."                  default:"true"     negatable:""`
}

// analysis is the outcome of analyzing one source.
type analysis struct {
	name   string
	script *lang.Script
	result *lang.Result
}

// analyze decodes and analyzes src.
//
// Diagnostics are forwarded to the package-level logger. When quiet is set,
// they are only forwarded if the logger is at debug level or lower, for
// commands that render diagnostics themselves.
func (a *Analysis) analyze(ctx context.Context, src source, quiet bool) (*analysis, error) {
	script, err := lang.ReadScript(ctx, src)
	if err != nil {
		return nil, ErrOpenScript.Wrap(err).With(slog.String("path", src.name))
	}

	if script.Name == "" {
		script.Name = src.name
	}

	opts := []lang.Option{
		lang.WithLogger(a.logger(src, quiet)),
		lang.WithSuggestions(a.Hints),
		lang.WithBaseDir(src.dir),
	}

	if a.BaseDir != "" {
		opts = append(opts, lang.WithBaseDir(a.BaseDir))
	}

	if a.RefTypes != "" {
		rt, err := loadReferenceTypes(ctx, a.RefTypes)
		if err != nil {
			return nil, err
		}

		opts = append(opts, lang.WithReferenceTypes(rt))
	}

	res, err := lang.NewAnalyzer(opts...).Analyze(ctx, script)
	if err != nil {
		return nil, err
	}

	return &analysis{name: src.name, script: script, result: res}, nil
}

// analyzeAll opens and analyzes every path in order.
func (a *Analysis) analyzeAll(ctx context.Context, paths []string, quiet bool) ([]*analysis, error) {
	srcs, err := openSources(paths)
	if err != nil {
		return nil, err
	}
	defer closeSources(srcs)

	out := make([]*analysis, 0, len(srcs))

	for _, src := range srcs {
		an, err := a.analyze(ctx, src, quiet)
		if err != nil {
			return out, err
		}

		out = append(out, an)
	}

	return out, nil
}

// analyzeOne opens and analyzes a single path.
func (a *Analysis) analyzeOne(ctx context.Context, path string, quiet bool) (*analysis, error) {
	all, err := a.analyzeAll(ctx, []string{path}, quiet)
	if err != nil {
		return nil, err
	}

	if len(all) == 0 {
		return nil, ErrNoScript
	}

	return all[0], nil
}

func (a *Analysis) logger(src source, quiet bool) log.Logger {
	logger := log.Default()
	if quiet && logger.Level() > log.LevelDebug {
		return log.Logger{}
	}

	return logger.With(slog.String("script", src.name))
}

func loadReferenceTypes(ctx context.Context, path string) (*lang.ReferenceTypes, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, ErrReferenceTypes.Wrap(err).With(slog.String("path", path))
	}
	defer file.Close()

	rt, err := lang.LoadReferenceTypes(ctx, file)
	if err != nil {
		return nil, ErrReferenceTypes.Wrap(err).With(slog.String("path", path))
	}

	return rt, nil
}

// invalid wraps the failures of an analysis into [ErrScriptInvalid], or
// returns nil if every command passed.
func (an *analysis) invalid() error {
	if an.result.OK() {
		return nil
	}

	var errs []error

	for _, d := range an.result.Diagnostics.Errors() {
		errs = append(errs, d.Err)
	}

	return ErrScriptInvalid.Wrap(errors.Join(errs...)).With(
		slog.String("script", an.name),
		slog.Int("invalid", len(an.result.Invalid)),
	)
}
