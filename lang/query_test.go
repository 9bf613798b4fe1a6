package lang

import (
	"errors"
	"fmt"
	"testing"
)

func TestSymbolTable_Query(t *testing.T) {
	t.Parallel()

	st := exportFixture(t)

	tests := []struct {
		src  string
		want string
	}{
		{"N * 2", "6"},
		{"S.w + 1", "1.5"},
		{"FLAG", "false"},
		{`$env["USER_SELECT:EDGE"].TYPES[0]`, "EDGE"},
		{`"FLAG" in REQUIRED_CHECKBOX_LIST`, "true"},
		{`declarations("N")`, "1"},
		{`declarations("MISSING")`, "0"},
		{`typeof("S")`, "STRUCTURE"},
		{`typeof("MISSING")`, ""},
		{"R == nil", "true"},
	}

	for _, tt := range tests {
		got, err := st.Query(tt.src)
		if err != nil {
			t.Errorf("Query(%q) error = %v", tt.src, err)

			continue
		}

		if s := fmt.Sprint(got); s != tt.want {
			t.Errorf("Query(%q) = %s, want %s", tt.src, s, tt.want)
		}
	}
}

func TestSymbolTable_Query_Errors(t *testing.T) {
	t.Parallel()

	st := exportFixture(t)

	for _, src := range []string{"N +", "UNDECLARED * 2", `declarations(1)`} {
		if _, err := st.Query(src); !errors.Is(err, ErrQuery) {
			t.Errorf("Query(%q) error = %v, want ErrQuery", src, err)
		}
	}

	q, err := st.CompileQuery("N / 0 > 1")
	if err != nil {
		t.Fatalf("CompileQuery() error = %v", err)
	}

	if q.String() != "N / 0 > 1" {
		t.Errorf("String() = %q", q.String())
	}
}

func TestFilter(t *testing.T) {
	t.Parallel()

	unresolved := ErrUnresolved.Because("undeclared identifier LENGT")
	diags := []Diagnostic{
		{Severity: SeverityError, Command: CmdInputParam, Pos: Pos{Line: 3}, Message: unresolved.Error(), Err: unresolved},
		{Severity: SeverityWarning, Command: CmdShowParam, Pos: Pos{Line: 12, Col: 2}, Message: "path-like expression"},
		{Severity: SeverityInfo, Command: CmdDeclareVariable, Pos: Pos{Line: 1}, Message: "declared X"},
	}

	tests := []struct {
		src  string
		want []bool
	}{
		{`severity == "error"`, []bool{true, false, false}},
		{`command startsWith "USER_"`, []bool{true, false, false}},
		{`kind == "unresolved" || line > 10`, []bool{true, true, false}},
		{`kind == "none"`, []bool{false, true, true}},
		{`message contains "declared"`, []bool{true, false, true}},
	}

	for _, tt := range tests {
		f, err := CompileFilter(tt.src)
		if err != nil {
			t.Fatalf("CompileFilter(%q) error = %v", tt.src, err)
		}

		for n, d := range diags {
			got, err := f.Match(d)
			if err != nil {
				t.Fatalf("Match() error = %v", err)
			}

			if got != tt.want[n] {
				t.Errorf("%q.Match(%s) = %v, want %v", tt.src, d, got, tt.want[n])
			}
		}
	}

	if _, err := CompileFilter(`line + 1`); !errors.Is(err, ErrQuery) {
		t.Errorf("non-boolean filter error = %v, want ErrQuery", err)
	}

	var none *Filter
	if ok, err := none.Match(diags[0]); !ok || err != nil {
		t.Errorf("nil Filter.Match() = %v, %v", ok, err)
	}
}
