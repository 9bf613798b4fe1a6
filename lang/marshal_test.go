package lang

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func exportFixture(t *testing.T) *SymbolTable {
	t.Helper()

	res := analyzeBlocks(t, nil,
		block(BlockDeclarations,
			declare("N", "INTEGER", ilit(3)),
			declare("R", "REFERENCE", nil),
			&DeclareVariable{Name: "S", Type: "STRUCTURE", Members: []*MemberDecl{
				{Name: "w", Type: "DOUBLE", Default: dlit(0.5)},
			}},
		),
		block(BlockDialog,
			&CheckboxParam{Display: Display{Required: true}, Name: "FLAG", Subtype: "BOOL"},
			&SelectParam{Name: "EDGE", Types: []Expr{slit("EDGE")}},
		),
	)
	wantValid(t, res)

	return res.Symbols
}

func TestNative(t *testing.T) {
	t.Parallel()

	arr := NewArray(TypeString)
	arr.Append(String("a"))

	tests := []struct {
		name string
		v    Value
		want any
	}{
		{"int", Int(2), int64(2)},
		{"double", Double(0.5), 0.5},
		{"null_ref", Reference{}, nil},
		{"ref", Reference{Handle: 1}, "REFERENCE"},
		{"null_file", FileDesc{}, nil},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		if got := Native(tt.v); got != tt.want {
			t.Errorf("%s: Native() = %#v, want %#v", tt.name, got, tt.want)
		}
	}

	if got, ok := Native(arr).([]any); !ok || len(got) != 1 || got[0] != "a" {
		t.Errorf("Native(array) = %#v", Native(arr))
	}
}

func TestSymbolTable_Native(t *testing.T) {
	t.Parallel()

	st := exportFixture(t)
	out := st.Native()

	for _, key := range []string{
		"N", "R", "S", "FLAG", "EDGE",
		"CHECKBOX_PARAM_OPTIONS_FLAG",
		"USER_SELECT:EDGE",
		"REQUIRED_CHECKBOX_LIST",
	} {
		if _, ok := out[key]; !ok {
			t.Errorf("Native() missing %s", key)
		}
	}

	if got := out["S"].(map[string]any)["w"]; got != 0.5 {
		t.Errorf("S.w = %#v, want 0.5", got)
	}

	if got := st.Declarations()["N"]; got != 1 {
		t.Errorf("Declarations()[N] = %d, want 1", got)
	}
}

func TestSymbolTable_WriteJSON(t *testing.T) {
	t.Parallel()

	st := exportFixture(t)

	for _, indent := range []int{0, 2} {
		var buf bytes.Buffer

		if err := st.WriteJSON(t.Context(), &buf, indent); err != nil {
			t.Fatalf("WriteJSON(%d) error = %v", indent, err)
		}

		var got map[string]any
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
		}

		if got["N"] != float64(3) {
			t.Errorf("N = %#v, want 3", got["N"])
		}

		if indent > 0 && !strings.Contains(buf.String(), "\n  \"") {
			t.Errorf("WriteJSON(%d) not indented:\n%s", indent, buf.String())
		}
	}
}

func TestSymbolTable_WriteYAML(t *testing.T) {
	t.Parallel()

	st := exportFixture(t)

	var buf bytes.Buffer
	if err := st.WriteYAML(t.Context(), &buf, 2); err != nil {
		t.Fatalf("WriteYAML() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"FLAG: false", "USER_SELECT:EDGE", KeyTypeCodes + ":", "- EDGE"} {
		if !strings.Contains(out, want) {
			t.Errorf("WriteYAML() output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()

	if err := st.WriteYAML(t.Context(), &buf, 0); err != nil {
		t.Fatalf("WriteYAML(flow) error = %v", err)
	}

	if !strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Errorf("WriteYAML(flow) = %s, want a flow mapping", buf.String())
	}
}

func TestFormatNative(t *testing.T) {
	t.Parallel()

	tests := []struct {
		v    any
		want string
	}{
		{nil, "null"},
		{int64(3), "3"},
		{1.5, "1.5"},
		{"EDGE", "EDGE"},
		{[]any{"a", "b"}, "[a, b]"},
		{map[string]any{"w": 0.5}, "{w: 0.5}"},
	}

	for _, tt := range tests {
		if got := FormatNative(t.Context(), tt.v); got != tt.want {
			t.Errorf("FormatNative(%#v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
