package lang

import (
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ErrQuery reports an expr-lang query or filter that failed to compile or
// run.
var ErrQuery = NewError("query")

// Query is an expr-lang expression compiled against one symbol table.
//
// The environment is the table's [SymbolTable.Native] export, so bindings
// are plain identifiers and registry entries are reached through $env:
//
//	LENGTH * 2
//	$env["USER_SELECT:EDGE"].TYPE_CODES
//	declarations("LENGTH") > 1
type Query struct {
	src     string
	program *vm.Program
	st      *SymbolTable
	env     map[string]any
}

// CompileQuery compiles src against st.
func (st *SymbolTable) CompileQuery(src string) (*Query, error) {
	env := st.Native()

	program, err := expr.Compile(src,
		expr.Env(env),
		expr.Function("declarations", func(params ...any) (any, error) {
			b, ok := st.Binding(params[0].(string))
			if !ok {
				return 0, nil
			}

			return b.Declarations, nil
		}, new(func(string) int)),
		expr.Function("typeof", func(params ...any) (any, error) {
			v, ok := st.Lookup(params[0].(string))
			if !ok || v == nil {
				return "", nil
			}

			return v.Type().String(), nil
		}, new(func(string) string)),
	)
	if err != nil {
		return nil, ErrQuery.Wrap(err).With(slog.String("query", src))
	}

	return &Query{src: src, program: program, st: st, env: env}, nil
}

// Query compiles and runs src against st.
func (st *SymbolTable) Query(src string) (any, error) {
	q, err := st.CompileQuery(src)
	if err != nil {
		return nil, err
	}

	return q.Run()
}

// String returns the query source.
func (q *Query) String() string { return q.src }

// Run evaluates the query.
func (q *Query) Run() (any, error) {
	out, err := expr.Run(q.program, q.env)
	if err != nil {
		return nil, ErrQuery.Wrap(err).With(slog.String("query", q.src))
	}

	return out, nil
}

// diagnosticEnv is the environment of a [Filter].
type diagnosticEnv struct {
	Severity string `expr:"severity"`
	Command  string `expr:"command"`
	Line     int    `expr:"line"`
	Col      int    `expr:"col"`
	Message  string `expr:"message"`
	Hint     string `expr:"hint"`
	Kind     string `expr:"kind"`
}

// Filter is a boolean expr-lang predicate over diagnostics, for example
//
//	severity == "error" && command startsWith "USER_"
//	kind == "unresolved" || line < 10
type Filter struct {
	src     string
	program *vm.Program
}

// CompileFilter compiles a diagnostic predicate.
func CompileFilter(src string) (*Filter, error) {
	program, err := expr.Compile(src, expr.Env(diagnosticEnv{}), expr.AsBool())
	if err != nil {
		return nil, ErrQuery.Wrap(err).With(slog.String("filter", src))
	}

	return &Filter{src: src, program: program}, nil
}

// String returns the filter source.
func (f *Filter) String() string { return f.src }

// Match reports whether d satisfies the filter. A nil Filter matches
// everything.
func (f *Filter) Match(d Diagnostic) (bool, error) {
	if f == nil {
		return true, nil
	}

	out, err := expr.Run(f.program, diagnosticEnv{
		Severity: d.Severity.String(),
		Command:  d.Command.String(),
		Line:     d.Pos.Line,
		Col:      d.Pos.Col,
		Message:  d.Message,
		Hint:     d.Hint,
		Kind:     KindOf(d.Err).String(),
	})
	if err != nil {
		return false, ErrQuery.Wrap(err).With(slog.String("filter", f.src))
	}

	ok, _ := out.(bool)

	return ok, nil
}
