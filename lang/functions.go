package lang

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// constants maps the named constants available in expressions. All are
// Double.
var constants = map[string]float64{
	"PI":         math.Pi,
	"E":          math.E,
	"DEG_TO_RAD": math.Pi / 180,
	"RAD_TO_DEG": 180 / math.Pi,
}

// LookupConstant returns the value of a named constant (case-insensitive).
func LookupConstant(name string) (float64, bool) {
	v, ok := constants[strings.ToUpper(name)]

	return v, ok
}

// Function describes a built-in function signature and implementation.
// Arguments passed to Call have already been coerced to Params.
type Function struct {
	Name   string
	Params []Type
	Result Type
	Call   func(args []Value) (Value, error)
}

var (
	oneDouble  = []Type{TypeDouble}
	twoDoubles = []Type{TypeDouble, TypeDouble}
	oneString  = []Type{TypeString}
)

var functions = map[string]*Function{
	"ABS":   mathFunc("ABS", math.Abs),
	"SQRT":  domainFunc("SQRT", math.Sqrt, func(x float64) bool { return x >= 0 }),
	"SIN":   mathFunc("SIN", math.Sin),
	"COS":   mathFunc("COS", math.Cos),
	"TAN":   mathFunc("TAN", math.Tan),
	"ASIN":  domainFunc("ASIN", math.Asin, unitRange),
	"ACOS":  domainFunc("ACOS", math.Acos, unitRange),
	"ATAN":  mathFunc("ATAN", math.Atan),
	"ATAN2": mathFunc2("ATAN2", math.Atan2),
	"POW":   mathFunc2("POW", math.Pow),
	"EXP":   mathFunc("EXP", math.Exp),
	"LOG":   domainFunc("LOG", math.Log, positive),
	"LOG10": domainFunc("LOG10", math.Log10, positive),
	"FLOOR": roundFunc("FLOOR", math.Floor),
	"CEIL":  roundFunc("CEIL", math.Ceil),
	"ROUND": roundFunc("ROUND", math.Round),
	"TRUNC": roundFunc("TRUNC", math.Trunc),
	"MIN":   mathFunc2("MIN", math.Min),
	"MAX":   mathFunc2("MAX", math.Max),

	"LEN": {Name: "LEN", Params: oneString, Result: TypeInt, Call: func(a []Value) (Value, error) {
		return Int(utf8.RuneCountInString(string(a[0].(String)))), nil
	}},
	"UPPER": stringFunc("UPPER", strings.ToUpper),
	"LOWER": stringFunc("LOWER", strings.ToLower),
	"TRIM":  stringFunc("TRIM", strings.TrimSpace),
	"LEFT": {Name: "LEFT", Params: []Type{TypeString, TypeInt}, Result: TypeString, Call: func(a []Value) (Value, error) {
		r := []rune(string(a[0].(String)))
		n := clamp(int(a[1].(Int)), 0, len(r))

		return String(r[:n]), nil
	}},
	"RIGHT": {Name: "RIGHT", Params: []Type{TypeString, TypeInt}, Result: TypeString, Call: func(a []Value) (Value, error) {
		r := []rune(string(a[0].(String)))
		n := clamp(int(a[1].(Int)), 0, len(r))

		return String(r[len(r)-n:]), nil
	}},
	"MID": {Name: "MID", Params: []Type{TypeString, TypeInt, TypeInt}, Result: TypeString, Call: func(a []Value) (Value, error) {
		// MID uses a 1-based start position.
		r := []rune(string(a[0].(String)))
		start := clamp(int(a[1].(Int))-1, 0, len(r))
		end := clamp(start+int(a[2].(Int)), start, len(r))

		return String(r[start:end]), nil
	}},
	"FIND": {Name: "FIND", Params: []Type{TypeString, TypeString}, Result: TypeInt, Call: func(a []Value) (Value, error) {
		// 1-based rune index, 0 when absent.
		hay, needle := string(a[0].(String)), string(a[1].(String))

		at := strings.Index(hay, needle)
		if at < 0 {
			return Int(0), nil
		}

		return Int(utf8.RuneCountInString(hay[:at]) + 1), nil
	}},
	"STR": {Name: "STR", Params: oneDouble, Result: TypeString, Call: func(a []Value) (Value, error) {
		return String(FormatValue(a[0])), nil
	}},
	"ITOS": {Name: "ITOS", Params: []Type{TypeInt}, Result: TypeString, Call: func(a []Value) (Value, error) {
		return String(FormatValue(a[0])), nil
	}},
	"VAL": {Name: "VAL", Params: oneString, Result: TypeDouble, Call: func(a []Value) (Value, error) {
		str := strings.TrimSpace(string(a[0].(String)))

		f, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return nil, ErrConstraint.Because("VAL of non-numeric string").
				With(slog.String("arg", str))
		}

		return Double(f), nil
	}},
	"ATOI": {Name: "ATOI", Params: oneString, Result: TypeInt, Call: func(a []Value) (Value, error) {
		str := strings.TrimSpace(string(a[0].(String)))

		n, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			return nil, ErrConstraint.Because("ATOI of non-integer string").
				With(slog.String("arg", str))
		}

		return Int(n), nil
	}},
}

// LookupFunction returns the built-in function with the given name
// (case-insensitive).
func LookupFunction(name string) (*Function, bool) {
	f, ok := functions[strings.ToUpper(name)]

	return f, ok
}

func mathFunc(name string, fn func(float64) float64) *Function {
	return &Function{Name: name, Params: oneDouble, Result: TypeDouble, Call: func(a []Value) (Value, error) {
		return Double(fn(float64(a[0].(Double)))), nil
	}}
}

func mathFunc2(name string, fn func(float64, float64) float64) *Function {
	return &Function{Name: name, Params: twoDoubles, Result: TypeDouble, Call: func(a []Value) (Value, error) {
		return Double(fn(float64(a[0].(Double)), float64(a[1].(Double)))), nil
	}}
}

func domainFunc(name string, fn func(float64) float64, ok func(float64) bool) *Function {
	return &Function{Name: name, Params: oneDouble, Result: TypeDouble, Call: func(a []Value) (Value, error) {
		x := float64(a[0].(Double))
		if !ok(x) {
			return nil, ErrConstraint.Because(name + " argument out of domain").
				With(slog.Float64("arg", x))
		}

		return Double(fn(x)), nil
	}}
}

func roundFunc(name string, fn func(float64) float64) *Function {
	return &Function{Name: name, Params: oneDouble, Result: TypeInt, Call: func(a []Value) (Value, error) {
		return Int(fn(float64(a[0].(Double)))), nil
	}}
}

func stringFunc(name string, fn func(string) string) *Function {
	return &Function{Name: name, Params: oneString, Result: TypeString, Call: func(a []Value) (Value, error) {
		return String(fn(string(a[0].(String)))), nil
	}}
}

func positive(x float64) bool  { return x > 0 }
func unitRange(x float64) bool { return x >= -1 && x <= 1 }

func clamp(n, lo, hi int) int { return max(lo, min(n, hi)) }
