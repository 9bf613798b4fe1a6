package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/cadscript/log"
)

// BaseDirSymbol names the String symbol used to qualify relative image
// paths.
const BaseDirSymbol = "BASE_DIR"

// Option configures an [Analyzer].
type Option func(*Analyzer)

// WithLogger sets the logger that receives diagnostics and trace output.
func WithLogger(logger log.Logger) Option {
	return func(a *Analyzer) { a.logger = logger }
}

// WithSymbols analyzes into st instead of a fresh table. Use it to supply
// entries prepared by script setup.
func WithSymbols(st *SymbolTable) Option {
	return func(a *Analyzer) { a.preset = st }
}

// WithBaseDir declares [BaseDirSymbol] as dir before analysis, unless the
// symbol table already binds it.
func WithBaseDir(dir string) Option {
	return func(a *Analyzer) { a.baseDir = &dir }
}

// WithReferenceTypes replaces the reference-type table used by select
// commands.
func WithReferenceTypes(rt *ReferenceTypes) Option {
	return func(a *Analyzer) {
		if rt != nil {
			a.refTypes = rt
		}
	}
}

// WithSuggestions enables or disables "did you mean" hints on unresolved
// names. Hints are enabled by default.
func WithSuggestions(enabled bool) Option {
	return func(a *Analyzer) { a.hints = enabled }
}

// Result is the outcome of one analysis pass.
type Result struct {
	Symbols     *SymbolTable
	Diagnostics *Diagnostics

	// Invalid lists every rejected command, nested ones included, in
	// analysis order.
	Invalid []Command
}

// OK reports whether every command passed validation.
func (r *Result) OK() bool { return len(r.Invalid) == 0 }

// Analyzer validates scripts and materializes their configuration into a
// symbol table. An Analyzer may be reused sequentially but not concurrently.
type Analyzer struct {
	logger   log.Logger
	preset   *SymbolTable
	baseDir  *string
	refTypes *ReferenceTypes
	hints    bool

	symbols *SymbolTable
	diags   *Diagnostics
	eval    *Evaluator

	dialogSeen  bool
	pictureSeen bool
	pictureOK   bool
}

// NewAnalyzer returns an analyzer configured by opts.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		refTypes: DefaultReferenceTypes(),
		hints:    true,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Analyze makes one pass over script: blocks in priority order, commands in
// source order. A failing command is marked invalid and reported; it never
// stops the pass. The returned error is non-nil only when ctx is done.
func (a *Analyzer) Analyze(ctx context.Context, script *Script) (*Result, error) {
	a.reset()

	a.logger.DebugContext(ctx, "analyze",
		slog.String("script", script.Name),
		slog.Int("blocks", len(script.Blocks)),
	)

	for _, block := range script.Ordered() {
		a.logger.TraceContext(ctx, "block",
			slog.String("kind", block.Kind.String()),
			slog.Int("commands", len(block.Commands)),
		)

		if p := a.analyzeCommands(ctx, block.Commands); p.aborted != nil {
			return nil, p.aborted
		}
	}

	res := &Result{Symbols: a.symbols, Diagnostics: a.diags}

	for c := range script.Commands() {
		if !c.SemanticValid() {
			res.Invalid = append(res.Invalid, c)
		}
	}

	a.logger.DebugContext(ctx, "analysis complete",
		slog.String("script", script.Name),
		slog.Int("invalid", len(res.Invalid)),
		slog.Int("diagnostics", a.diags.Len()),
	)

	return res, nil
}

// Evaluator returns the evaluator of the most recent pass.
func (a *Analyzer) Evaluator() *Evaluator { return a.eval }

func (a *Analyzer) reset() {
	a.symbols = a.preset
	if a.symbols == nil {
		a.symbols = NewSymbolTable()
	}

	if a.baseDir != nil && !a.symbols.Has(BaseDirSymbol) {
		a.symbols.Declare(BaseDirSymbol, String(*a.baseDir))
	}

	a.diags = NewDiagnostics(a.logger)
	a.eval = NewEvaluator(a.symbols, a.diags)
	a.eval.hints = a.hints

	a.dialogSeen = false
	a.pictureSeen = false
	a.pictureOK = false
}

// pass is the outcome of validating a run of commands.
type pass struct {
	// failed is the first semantic failure.
	failed error
	// aborted is the context error that stopped the run.
	aborted error
}

// analyzeCommands validates cmds in order. The first failure among them is
// reported after all of them were analyzed.
func (a *Analyzer) analyzeCommands(ctx context.Context, cmds []Command) pass {
	var out pass

	for _, c := range cmds {
		if err := ctx.Err(); err != nil {
			return pass{aborted: err}
		}

		a.logger.TraceContext(ctx, "validate",
			slog.String("command", c.Kind().String()),
			slog.String("pos", c.Position().String()),
		)

		p := a.validate(ctx, c)
		if p.aborted != nil {
			return p
		}

		if p.failed != nil {
			c.header().markInvalid()
			a.diags.Error(c.Kind(), c.Position(), p.failed)

			if out.failed == nil {
				out.failed = p.failed
			}
		}
	}

	return out
}

// validate dispatches c to its validator.
func (a *Analyzer) validate(ctx context.Context, c Command) pass {
	a.eval.cmd = c.Kind()

	switch c := c.(type) {
	case *DeclareVariable:
		return pass{failed: a.validateDeclare(c)}
	case *DialogConfig:
		return pass{failed: a.validateDialog(c)}
	case *GlobalPicture:
		return pass{failed: a.validateGlobalPicture(c)}
	case *SubPicture:
		return pass{failed: a.validateSubPicture(c)}
	case *ShowParam:
		return pass{failed: a.validateShow(c)}
	case *CheckboxParam:
		return pass{failed: a.validateCheckbox(c)}
	case *RadioParam:
		return pass{failed: a.validateRadio(c)}
	case *InputParam:
		return pass{failed: a.validateInput(c)}
	case *SelectParam:
		return pass{failed: a.validateSelect(c)}
	case *InvalidateParam:
		return pass{failed: a.validateInvalidate(c)}
	case *Assign:
		return pass{failed: a.validateAssign(c)}
	case *If:
		return a.validateIf(ctx, c)
	case *Opaque:
		a.diags.Warnf(CmdOpaque, c.Position(), "no validator for %s; skipped", c.Keyword)

		return pass{}
	default:
		a.diags.Warnf(c.Kind(), c.Position(), "no validator for %s; skipped", c.Kind())

		return pass{}
	}
}
