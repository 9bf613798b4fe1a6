package lang

import (
	"testing"

	"github.com/ardnew/cadscript/log"
)

func ilit(v int64) Expr     { return &IntLit{Value: v} }
func dlit(v float64) Expr   { return &DoubleLit{Value: v} }
func slit(v string) Expr    { return &StringLit{Value: v} }
func blit(v bool) Expr      { return &BoolLit{Value: v} }
func vref(name string) Expr { return &VarRef{Name: name} }
func null() Expr            { return &NullLit{} }

func bin(op Op, l, r Expr) Expr { return &Binary{Op: op, L: l, R: r} }

func neg(x Expr) Expr { return &Unary{Op: OpNeg, X: x} }

func not(x Expr) Expr { return &Unary{Op: OpNot, X: x} }

func call(name string, args ...Expr) Expr { return &Call{Func: name, Args: args} }

// testEvaluator returns an evaluator over a table holding binds.
func testEvaluator(t *testing.T, binds map[string]Value) (*Evaluator, *Diagnostics) {
	t.Helper()

	st := NewSymbolTable()
	for name, v := range binds {
		st.Declare(name, v)
	}

	diags := NewDiagnostics(testLogger(t))

	return NewEvaluator(st, diags), diags
}

// analyzeBlocks runs a fresh analyzer over blocks.
func analyzeBlocks(t *testing.T, opts []Option, blocks ...*Block) *Result {
	t.Helper()

	res, err := NewAnalyzer(opts...).Analyze(t.Context(), &Script{Name: t.Name(), Blocks: blocks})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	return res
}

func block(kind BlockKind, cmds ...Command) *Block {
	return &Block{Kind: kind, Commands: cmds}
}

func declare(name, typ string, def Expr) *DeclareVariable {
	return &DeclareVariable{Name: name, Type: typ, Default: def}
}

// options returns the options map stored for key, failing the test when it
// is absent.
func options(t *testing.T, res *Result, key OptionsKey) *Map {
	t.Helper()

	m, ok := res.Symbols.Registry().Options(key)
	if !ok {
		t.Fatalf("options %s not registered", key)
	}

	return m
}

func mustLookup(t *testing.T, st *SymbolTable, name string) Value {
	t.Helper()

	v, ok := st.Lookup(name)
	if !ok {
		t.Fatalf("%s not declared", name)
	}

	return v
}

// testLogger routes analysis logs to the test output.
func testLogger(t *testing.T) log.Logger {
	t.Helper()

	return log.Make(t.Output(),
		log.WithLevel(log.LevelDebug),
		log.WithFormat(log.FormatText),
		log.WithPretty(false),
	)
}
