package lang

import (
	"log/slog"
	"strings"
	"testing"
)

func TestStaticType(t *testing.T) {
	t.Parallel()

	arr := NewArray(TypeDouble)
	st := NewStruct()
	st.Members["n"] = Int(1)

	binds := map[string]Value{
		"I": Int(1),
		"D": Double(1),
		"S": String("s"),
		"B": Bool(true),
		"R": Reference{},
		"A": arr,
		"E": NewArray(TypeInvalid),
		"M": NewMap(TypeBool),
		"T": st,
	}

	tests := []struct {
		name     string
		expr     Expr
		want     Type
		wantKind ErrorKind
	}{
		{"int", ilit(1), TypeInt, KindNone},
		{"null", null(), TypeString, KindNone},
		{"const", &ConstRef{Name: "E"}, TypeDouble, KindNone},
		{"var", vref("R"), TypeReference, KindNone},
		{"int_add", bin(OpAdd, vref("I"), ilit(1)), TypeInt, KindNone},
		{"promote", bin(OpMul, vref("I"), vref("D")), TypeDouble, KindNone},
		{"div", bin(OpDiv, vref("I"), vref("I")), TypeDouble, KindNone},
		{"concat", bin(OpAdd, vref("S"), vref("I")), TypeString, KindNone},
		{"concat_container", bin(OpAdd, vref("S"), vref("A")), TypeInvalid, KindType},
		{"sub_string", bin(OpSub, vref("S"), ilit(1)), TypeInvalid, KindType},
		{"compare", bin(OpLt, vref("I"), vref("D")), TypeBool, KindNone},
		{"string_eq", bin(OpEq, vref("S"), slit("x")), TypeBool, KindNone},
		{"string_order", bin(OpLt, vref("S"), slit("x")), TypeInvalid, KindType},
		{"mismatch", bin(OpEq, vref("S"), ilit(1)), TypeInvalid, KindType},
		{"and", bin(OpAnd, vref("B"), vref("I")), TypeBool, KindNone},
		{"and_string", bin(OpAnd, vref("B"), vref("S")), TypeInvalid, KindType},
		{"neg", neg(vref("D")), TypeDouble, KindNone},
		{"neg_bool", neg(vref("B")), TypeInvalid, KindType},
		{"not", not(vref("I")), TypeBool, KindNone},
		{"call", call("SQRT", vref("I")), TypeDouble, KindNone},
		{"call_round", call("ROUND", vref("D")), TypeInt, KindNone},
		{"call_bad_arg", call("LEN", vref("I")), TypeInvalid, KindType},
		{"index", &Index{Base: vref("A"), At: ilit(0)}, TypeDouble, KindNone},
		{"index_empty_untyped", &Index{Base: vref("E"), At: ilit(0)}, TypeInvalid, KindType},
		{"lookup", &MapLookup{Base: vref("M"), Key: slit("k")}, TypeBool, KindNone},
		{"lookup_int_key", &MapLookup{Base: vref("M"), Key: ilit(1)}, TypeInvalid, KindType},
		{"member", &Member{Base: vref("T"), Name: "n"}, TypeInt, KindNone},
		{"member_missing", &Member{Base: vref("T"), Name: "x"}, TypeInvalid, KindUnresolved},
		{"undeclared", vref("NOPE"), TypeInvalid, KindUnresolved},
		{"nil", nil, TypeInvalid, KindMalformedNode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ev, _ := testEvaluator(t, binds)

			got, err := ev.StaticType(tt.expr)
			if KindOf(err) != tt.wantKind {
				t.Fatalf("StaticType() error = %v, want %s", err, tt.wantKind)
			}

			if got != tt.want {
				t.Errorf("StaticType() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestStaticType_DoesNotEvaluate(t *testing.T) {
	t.Parallel()

	ev, _ := testEvaluator(t, nil)

	// Division by zero is a runtime failure, not a type error.
	got, err := ev.StaticType(bin(OpDiv, ilit(1), ilit(0)))
	if err != nil {
		t.Fatalf("StaticType() error = %v", err)
	}

	if got != TypeDouble {
		t.Errorf("StaticType() = %s, want %s", got, TypeDouble)
	}
}

func TestStaticType_Hint(t *testing.T) {
	t.Parallel()

	ev, _ := testEvaluator(t, map[string]Value{"LENGTH": Double(1)})

	_, err := ev.StaticType(vref("LENGT"))
	if KindOf(err) != KindUnresolved {
		t.Fatalf("StaticType() error = %v, want unresolved", err)
	}

	if got := hintOf(err); got != "did you mean LENGTH?" {
		t.Errorf("hint = %q, want %q", got, "did you mean LENGTH?")
	}

	_, err = ev.Evaluate(call("SQR", ilit(4)))
	if got := hintOf(err); !strings.Contains(got, "SQRT") {
		t.Errorf("function hint = %q, want SQRT", got)
	}
}

func TestStaticType_HintsDisabled(t *testing.T) {
	t.Parallel()

	ev, _ := testEvaluator(t, map[string]Value{"LENGTH": Double(1)})
	ev.hints = false

	_, err := ev.StaticType(vref("LENGT"))
	if got := hintOf(err); got != "" {
		t.Errorf("hint = %q, want none", got)
	}
}

func TestError_Attrs(t *testing.T) {
	t.Parallel()

	err := ErrConstraint.Because("too big").With(slog.Int("limit", 3))

	if KindOf(err) != KindConstraint {
		t.Fatalf("KindOf() = %s, want %s", KindOf(err), KindConstraint)
	}

	if !strings.Contains(err.Error(), "too big") {
		t.Errorf("Error() = %q, want reason", err.Error())
	}

	var found bool

	for _, a := range err.Attrs() {
		if a.Key == "limit" && a.Value.Int64() == 3 {
			found = true
		}
	}

	if !found {
		t.Errorf("Attrs() = %v, want limit=3", err.Attrs())
	}

	if KindOf(ErrBranch.Wrap(ErrDuplicate)) != KindDuplicate {
		t.Errorf("KindOf(branch) = %s, want %s",
			KindOf(ErrBranch.Wrap(ErrDuplicate)), KindDuplicate)
	}
}
