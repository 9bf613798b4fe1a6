package lang

import (
	"log/slog"
	"math"
	"strings"

	"github.com/ardnew/cadscript/log"
)

// Epsilon is the tolerance used when comparing Double values.
const Epsilon = 1e-9

// Evaluator computes static types and values of expressions against a
// symbol table. It never mutates the table.
type Evaluator struct {
	symbols *SymbolTable
	diags   *Diagnostics
	hints   bool

	// cmd attributes warnings to the command being validated.
	cmd    CommandKind
	warned map[*VarRef]bool
}

// NewEvaluator returns an evaluator reading symbols and reporting warnings
// to diags. A nil diags discards warnings.
func NewEvaluator(symbols *SymbolTable, diags *Diagnostics) *Evaluator {
	if symbols == nil {
		symbols = NewSymbolTable()
	}

	if diags == nil {
		diags = NewDiagnostics(log.Logger{})
	}

	return &Evaluator{
		symbols: symbols,
		diags:   diags,
		hints:   true,
		warned:  make(map[*VarRef]bool),
	}
}

// Evaluate computes the value of e. The result is owned by the caller:
// scalars are copies, containers alias the symbol table.
func (ev *Evaluator) Evaluate(e Expr) (Value, error) {
	switch e := e.(type) {
	case nil:
		return nil, ErrMalformedNode.Because("missing expression")
	case *IntLit:
		return Int(e.Value), nil
	case *DoubleLit:
		return Double(e.Value), nil
	case *StringLit:
		return String(e.Value), nil
	case *BoolLit:
		return Bool(e.Value), nil
	case *NullLit:
		return String(""), nil
	case *ConstRef:
		v, ok := LookupConstant(e.Name)
		if !ok {
			return nil, ev.unknownConstant(e)
		}

		return Double(v), nil
	case *VarRef:
		v, ok := ev.symbols.Lookup(e.Name)
		if ok {
			return copyValue(v), nil
		}

		if ev.pathLike(e) {
			return String(e.Name), nil
		}

		return nil, ev.undeclared(e)
	case *Unary:
		return ev.evalUnary(e)
	case *Binary:
		return ev.evalBinary(e)
	case *Call:
		return ev.evalCall(e)
	case *Index:
		arr, err := ev.arrayOf(e.Base)
		if err != nil {
			return nil, err
		}

		at, err := ev.Evaluate(e.At)
		if err != nil {
			return nil, err
		}

		n, ok := at.(Int)
		if !ok {
			return nil, ErrType.Because("array index must be " + TypeInt.String()).
				With(slog.String("got", at.Type().String()))
		}

		if n < 0 || int(n) >= arr.Len() {
			return nil, ErrConstraint.Because("array index out of range").
				With(slog.Int64("index", int64(n)), slog.Int("len", arr.Len()))
		}

		return copyValue(arr.Elems[n]), nil
	case *MapLookup:
		m, err := ev.mapOf(e.Base)
		if err != nil {
			return nil, err
		}

		key, err := ev.Evaluate(e.Key)
		if err != nil {
			return nil, err
		}

		k, ok := key.(String)
		if !ok {
			return nil, ErrType.Because("map key must be " + TypeString.String()).
				With(slog.String("got", key.Type().String()))
		}

		v, ok := m.Get(string(k))
		if !ok {
			return nil, ErrUnresolved.Because("no such map key").
				With(slog.String("key", string(k)))
		}

		return copyValue(v), nil
	case *Member:
		st, err := ev.structOf(e.Base)
		if err != nil {
			return nil, err
		}

		v, ok := st.Member(e.Name)
		if !ok {
			return nil, ev.unknownMember(st, e.Name)
		}

		return copyValue(v), nil
	default:
		return nil, ErrUnknownExpr.With(slog.String("node", ExprString(e)))
	}
}

func (ev *Evaluator) evalUnary(e *Unary) (Value, error) {
	x, err := ev.Evaluate(e.X)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case OpNeg:
		switch x := x.(type) {
		case Int:
			return -x, nil
		case Double:
			return -x, nil
		}

		return nil, ErrType.Because("negation of non-numeric operand").
			With(slog.String("operand", x.Type().String()))
	case OpNot:
		b, ok := truthy(x)
		if !ok {
			return nil, ErrType.Because("NOT of non-boolean operand").
				With(slog.String("operand", x.Type().String()))
		}

		return Bool(!b), nil
	default:
		return nil, ErrMalformedNode.Because("invalid unary operator " + e.Op.String())
	}
}

func (ev *Evaluator) evalBinary(e *Binary) (Value, error) {
	l, err := ev.Evaluate(e.L)
	if err != nil {
		return nil, err
	}

	if e.Op.IsLogical() {
		lb, ok := truthy(l)
		if !ok {
			return nil, logicalOperandError(e.Op, l)
		}

		// Short-circuit: the right operand is never evaluated when the left
		// decides the result.
		if (e.Op == OpAnd && !lb) || (e.Op == OpOr && lb) {
			return Bool(lb), nil
		}

		r, err := ev.Evaluate(e.R)
		if err != nil {
			return nil, err
		}

		rb, ok := truthy(r)
		if !ok {
			return nil, logicalOperandError(e.Op, r)
		}

		return Bool(rb), nil
	}

	r, err := ev.Evaluate(e.R)
	if err != nil {
		return nil, err
	}

	switch {
	case e.Op == OpAdd && (l.Type() == TypeString || r.Type() == TypeString):
		if !l.Type().IsScalar() || !r.Type().IsScalar() {
			return nil, operandError(e.Op, l, r)
		}

		return String(FormatValue(l) + FormatValue(r)), nil
	case e.Op.IsArithmetic():
		return arithmetic(e.Op, l, r)
	case e.Op.IsComparison():
		return ev.compare(e, l, r)
	default:
		return nil, ErrMalformedNode.Because("invalid binary operator " + e.Op.String())
	}
}

// arithmetic applies op to two numeric values. The result is Int only when
// both operands are Int and op is not division.
func arithmetic(op Op, l, r Value) (Value, error) {
	if !l.Type().IsNumeric() || !r.Type().IsNumeric() {
		return nil, operandError(op, l, r)
	}

	li, lInt := l.(Int)
	ri, rInt := r.(Int)

	if lInt && rInt && op != OpDiv {
		switch op {
		case OpAdd, OpSub, OpMul:
			n, ok := checkedInt(op, li, ri)
			if !ok {
				return nil, ErrConstraint.Because("integer overflow").With(
					slog.String("op", op.String()),
					slog.String("left", FormatValue(li)),
					slog.String("right", FormatValue(ri)),
				)
			}

			return n, nil
		case OpMod:
			if ri == 0 {
				return nil, ErrDivisionByZero.With(slog.String("op", op.String()))
			}

			return li % ri, nil
		}
	}

	lf, _ := asFloat(l)
	rf, _ := asFloat(r)

	switch op {
	case OpAdd:
		return Double(lf + rf), nil
	case OpSub:
		return Double(lf - rf), nil
	case OpMul:
		return Double(lf * rf), nil
	case OpDiv:
		if rf == 0 {
			return nil, ErrDivisionByZero.With(slog.String("op", op.String()))
		}

		return Double(lf / rf), nil
	case OpMod:
		if rf == 0 {
			return nil, ErrDivisionByZero.With(slog.String("op", op.String()))
		}

		return Double(math.Mod(lf, rf)), nil
	default:
		return nil, ErrMalformedNode.Because("invalid arithmetic operator " + op.String())
	}
}

// checkedInt applies +, - or * to two Ints, reporting false when the result
// does not fit in 64 bits.
func checkedInt(op Op, a, b Int) (Int, bool) {
	switch op {
	case OpAdd:
		n := a + b

		return n, (a >= 0) != (b >= 0) || (n >= 0) == (a >= 0)
	case OpSub:
		n := a - b

		return n, (a >= 0) == (b >= 0) || (n >= 0) == (a >= 0)
	case OpMul:
		if a == 0 || b == 0 {
			return 0, true
		}

		n := a * b
		if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) || n/b != a {
			return n, false
		}

		return n, true
	default:
		return 0, false
	}
}

func (ev *Evaluator) compare(e *Binary, l, r Value) (Value, error) {
	op := e.Op

	switch {
	case l.Type().IsNumeric() && r.Type().IsNumeric():
		li, lInt := l.(Int)
		ri, rInt := r.(Int)

		if lInt && rInt {
			return Bool(orderResult(op, cmpInt(li, ri))), nil
		}

		lf, _ := asFloat(l)
		rf, _ := asFloat(r)

		// NaN is unordered: only <> holds.
		if math.IsNaN(lf) || math.IsNaN(rf) {
			return Bool(op == OpNe), nil
		}

		return Bool(orderResult(op, CompareDouble(lf, rf))), nil
	case op.IsOrdering():
		return nil, ErrType.Because("ordering comparison of non-numeric operands").
			With(slog.String("left", l.Type().String()), slog.String("right", r.Type().String()))
	}

	if n, ok := nullComparison(e, l, r); ok {
		return Bool(n == (op == OpEq)), nil
	}

	var eq bool

	switch lv := l.(type) {
	case String:
		rv, ok := r.(String)
		if !ok {
			return nil, operandError(op, l, r)
		}

		eq = lv == rv
	case Bool:
		rv, ok := r.(Bool)
		if !ok {
			return nil, operandError(op, l, r)
		}

		eq = lv == rv
	default:
		return nil, operandError(op, l, r)
	}

	return Bool(eq == (op == OpEq)), nil
}

// nullComparison handles handle == NULL and NULL == handle, reporting whether
// the handle is null.
func nullComparison(e *Binary, l, r Value) (isNull, ok bool) {
	handle := func(v Value) (bool, bool) {
		switch v := v.(type) {
		case Reference:
			return v.IsNull(), true
		case FileDesc:
			return v.IsNull(), true
		}

		return false, false
	}

	if _, isNullLit := e.R.(*NullLit); isNullLit {
		return handle(l)
	}

	if _, isNullLit := e.L.(*NullLit); isNullLit {
		return handle(r)
	}

	return false, false
}

// CompareDouble compares a and b with tolerance [Epsilon]. It returns -1 when
// a < b-Epsilon, +1 when a > b+Epsilon, and 0 otherwise. Callers must
// handle NaN first; it compares as 0 against everything.
func CompareDouble(a, b float64) int {
	switch {
	case a < b-Epsilon:
		return -1
	case a > b+Epsilon:
		return 1
	default:
		return 0
	}
}

func cmpInt(a, b Int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func orderResult(op Op, c int) bool {
	switch op {
	case OpEq:
		return c == 0
	case OpNe:
		return c != 0
	case OpLt:
		return c < 0
	case OpGt:
		return c > 0
	case OpLe:
		return c <= 0
	case OpGe:
		return c >= 0
	default:
		return false
	}
}

func (ev *Evaluator) evalCall(e *Call) (Value, error) {
	fn, err := ev.function(e)
	if err != nil {
		return nil, err
	}

	args := make([]Value, len(e.Args))

	for n, arg := range e.Args {
		v, err := ev.Evaluate(arg)
		if err != nil {
			return nil, err
		}

		v, ok := coerceArg(v, fn.Params[n])
		if !ok {
			return nil, argumentError(fn, n, v.Type())
		}

		args[n] = v
	}

	return fn.Call(args)
}

// coerceArg converts v to want, allowing only Int to Double widening.
func coerceArg(v Value, want Type) (Value, bool) {
	if v.Type() == want {
		return v, true
	}

	if iv, ok := v.(Int); ok && want == TypeDouble {
		return Double(iv), true
	}

	return v, false
}

func (ev *Evaluator) function(e *Call) (*Function, error) {
	fn, ok := LookupFunction(e.Func)
	if !ok {
		err := ErrUnresolved.Because("unknown function " + e.Func).
			With(slog.String("function", e.Func))
		if ev.hints {
			err = withHint(err, strings.ToUpper(e.Func), functionNames())
		}

		return nil, err
	}

	if len(e.Args) != len(fn.Params) {
		return nil, ErrType.Because("wrong number of arguments to "+fn.Name).
			With(slog.Int("want", len(fn.Params)), slog.Int("got", len(e.Args)))
	}

	return fn, nil
}

func (ev *Evaluator) arrayOf(base Expr) (*Array, error) {
	v, err := ev.Evaluate(base)
	if err != nil {
		return nil, err
	}

	arr, ok := v.(*Array)
	if !ok {
		return nil, containerError(TypeArray, v)
	}

	return arr, nil
}

func (ev *Evaluator) mapOf(base Expr) (*Map, error) {
	v, err := ev.Evaluate(base)
	if err != nil {
		return nil, err
	}

	m, ok := v.(*Map)
	if !ok {
		return nil, containerError(TypeMap, v)
	}

	return m, nil
}

func (ev *Evaluator) structOf(base Expr) (*Struct, error) {
	v, err := ev.Evaluate(base)
	if err != nil {
		return nil, err
	}

	st, ok := v.(*Struct)
	if !ok {
		return nil, containerError(TypeStruct, v)
	}

	return st, nil
}

// pathLike reports whether an undeclared name looks like a bare file name,
// in which case it is accepted as a String. A warning is recorded once per
// reference.
func (ev *Evaluator) pathLike(e *VarRef) bool {
	if !strings.ContainsAny(e.Name, `\/:.`) {
		return false
	}

	if !ev.warned[e] {
		ev.warned[e] = true
		ev.diags.Warnf(ev.cmd, e.Pos,
			"undeclared identifier %q treated as a file name string", e.Name)
	}

	return true
}

func (ev *Evaluator) undeclared(e *VarRef) error {
	err := ErrUnresolved.Because("undeclared identifier " + e.Name).
		With(slog.String("name", e.Name))
	if ev.hints {
		err = withHint(err, e.Name, ev.symbols.Names())
	}

	return err
}

func (ev *Evaluator) unknownConstant(e *ConstRef) error {
	err := ErrUnresolved.Because("unknown constant " + e.Name).
		With(slog.String("name", e.Name))
	if ev.hints {
		err = withHint(err, strings.ToUpper(e.Name), constantNames())
	}

	return err
}

func (ev *Evaluator) unknownMember(st *Struct, name string) error {
	err := ErrUnresolved.Because("no such structure member " + name).
		With(slog.String("member", name))
	if ev.hints {
		err = withHint(err, name, func(yield func(string) bool) {
			for m := range st.Members {
				if !yield(m) {
					return
				}
			}
		})
	}

	return err
}

func operandError(op Op, l, r Value) error {
	return ErrType.Because("invalid operands for "+op.String()).
		With(slog.String("left", l.Type().String()), slog.String("right", r.Type().String()))
}

func logicalOperandError(op Op, v Value) error {
	return ErrType.Because(op.String() + " operand is not boolean or numeric").
		With(slog.String("operand", v.Type().String()))
}

func containerError(want Type, v Value) error {
	return ErrType.Because("expected " + want.String()).
		With(slog.String("got", v.Type().String()))
}

func argumentError(fn *Function, n int, got Type) error {
	return ErrType.Because("bad argument to "+fn.Name).
		With(
			slog.Int("arg", n+1),
			slog.String("want", fn.Params[n].String()),
			slog.String("got", got.String()),
		)
}
