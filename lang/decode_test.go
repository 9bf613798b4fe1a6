package lang

import (
	"errors"
	"strings"
	"testing"
)

const sampleScript = `
name: bracket.tab
blocks:
  - kind: program
    commands:
      - kind: ASSIGN
        line: 20
        target: {var: LEN}
        value: {op: "*", left: {var: LEN}, right: {int: 2}}
      - kind: IF
        line: 21
        branches:
          - line: 21
            cond: {op: AND, left: {var: FLAG}, right: {op: NOT, operand: {int: 0}}}
            commands:
              - kind: INVALIDATE_PARAM
                name: LEN
        else:
          - kind: MESSAGE
            keyword: MESSAGE
  - kind: declarations
    commands:
      - kind: DECLARE_VARIABLE
        line: 1
        name: BASE
        type: DOUBLE
        default: {op: "/", left: {int: 10}, right: {const: PI}}
      - kind: DECLARE_VARIABLE
        line: 2
        name: DIMS
        type: STRUCTURE
        members:
          - {name: w, type: DOUBLE, default: {double: 1.5}}
          - {name: h, type: INTEGER}
  - kind: dialog
    commands:
      - kind: CONFIG
        title: {string: Bracket}
        width: {double: 0.4}
        screen_location: TOP_LEFT
        flags: [RESIZABLE]
      - kind: USER_INPUT_PARAM
        line: 10
        name: LEN
        subtype: DOUBLE
        default: {member: w, base: {var: DIMS}}
        min_value: {int: 0}
        required: true
        tooltip: {string: Length}
      - kind: CHECKBOX_PARAM
        name: FLAG
        subtype: BOOL
        default: {bool: true}
      - kind: RADIOBUTTON_PARAM
        name: MODE
        subtype: INTEGER
        options: [{string: fast}, {string: slow}]
        default: {int: 1}
      - kind: USER_SELECT_MULTIPLE
        name: EDGES
        types: [{string: EDGE}, {string: CURVE}]
        max_sel: {int: 4}
      - kind: SHOW_PARAM
        name: RATIO
        subtype: STRING
        value: {op: "+", left: {string: "r="}, right: {call: ITOS, args: [{int: 3}]}}
`

func TestDecodeScript(t *testing.T) {
	t.Parallel()

	script, err := DecodeScript(t.Context(), []byte(sampleScript))
	if err != nil {
		t.Fatalf("DecodeScript() error = %v", err)
	}

	if script.Name != "bracket.tab" {
		t.Errorf("Name = %q, want bracket.tab", script.Name)
	}

	if len(script.Blocks) != 3 {
		t.Fatalf("Blocks = %d, want 3", len(script.Blocks))
	}

	if script.Blocks[0].Kind != BlockProgram {
		t.Errorf("Blocks[0].Kind = %s, want program", script.Blocks[0].Kind)
	}

	assign, ok := script.Blocks[0].Commands[0].(*Assign)
	if !ok {
		t.Fatalf("Commands[0] = %T, want *Assign", script.Blocks[0].Commands[0])
	}

	if assign.Position().Line != 20 {
		t.Errorf("ASSIGN line = %d, want 20", assign.Position().Line)
	}

	if got := ExprString(assign.Value); !strings.Contains(got, "*") {
		t.Errorf("ASSIGN value = %s, want a product", got)
	}

	cond := script.Blocks[0].Commands[1].(*If)
	if len(cond.Branches) != 1 || len(cond.Else) != 1 {
		t.Fatalf("IF = %d branches, %d else, want 1 and 1", len(cond.Branches), len(cond.Else))
	}

	if op, ok := cond.Else[0].(*Opaque); !ok || op.Keyword != "MESSAGE" {
		t.Errorf("else = %#v, want opaque MESSAGE", cond.Else[0])
	}

	sel := script.Blocks[2].Commands[4].(*SelectParam)
	if !sel.Multiple || sel.Kind() != CmdSelectMultipleParam || len(sel.Types) != 2 {
		t.Errorf("select = %+v, want a multiple select of 2 types", sel)
	}

	res, err := NewAnalyzer(WithLogger(testLogger(t))).Analyze(t.Context(), script)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	wantValid(t, res)

	if v := mustLookup(t, res.Symbols, "LEN"); v != Double(1.5) {
		t.Errorf("LEN = %v, want 1.5", v)
	}

	if v := mustLookup(t, res.Symbols, "RATIO"); v != String("r=3") {
		t.Errorf("RATIO = %v, want r=3", v)
	}

	if !res.Symbols.Registry().List(ListInvalidated).Contains("LEN") {
		t.Error("LEN not tracked for invalidation")
	}
}

func TestDecodeScript_JSON(t *testing.T) {
	t.Parallel()

	const doc = `{
  "blocks": [
    {"kind": "declarations", "commands": [
      {"kind": "DECLARE_VARIABLE", "name": "A", "type": "ARRAY", "subtype": "INTEGER"},
      {"kind": "DECLARE_VARIABLE", "name": "R", "type": "REFERENCE", "default": {"nil": true}}
    ]},
    {"kind": "program", "commands": [
      {"kind": "IF", "branches": [
        {"cond": {"op": "=", "left": {"var": "R"}, "right": {"nil": true}}, "commands": []}
      ]},
      {"kind": "ASSIGN", "target": {"index": {"int": 0}, "base": {"var": "A"}}, "value": {"int": 1}}
    ]}
  ]
}`

	script, err := DecodeScript(t.Context(), []byte(doc))
	if err != nil {
		t.Fatalf("DecodeScript() error = %v", err)
	}

	res, err := NewAnalyzer().Analyze(t.Context(), script)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	// The IF compares a null reference and is valid; indexing an empty
	// INTEGER array types from its declared element type.
	wantValid(t, res)

	if v := mustLookup(t, res.Symbols, "R"); v != (Reference{}) {
		t.Errorf("R = %#v, want a null reference", v)
	}
}

func TestDecodeScript_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			name:    "unknown_block",
			doc:     "blocks: [{kind: prologue}]",
			wantErr: ErrDecode,
		},
		{
			name:    "unknown_field",
			doc:     "blocks: [{kind: program, commands: [{kind: ASSIGN, colour: red}]}]",
			wantErr: ErrDecode,
		},
		{
			name:    "syntax",
			doc:     "blocks: [",
			wantErr: ErrDecode,
		},
		{
			name:    "missing_kind",
			doc:     "blocks: [{kind: program, commands: [{name: X}]}]",
			wantErr: ErrUnknownCommand,
		},
		{
			name:    "two_shapes",
			doc:     "blocks: [{kind: program, commands: [{kind: ASSIGN, target: {var: X}, value: {int: 1, double: 2}}]}]",
			wantErr: ErrUnknownExpr,
		},
		{
			name:    "no_shape",
			doc:     "blocks: [{kind: program, commands: [{kind: ASSIGN, target: {var: X}, value: {line: 3}}]}]",
			wantErr: ErrUnknownExpr,
		},
		{
			name:    "bad_operator",
			doc:     "blocks: [{kind: program, commands: [{kind: ASSIGN, target: {var: X}, value: {op: '^', left: {int: 1}, right: {int: 2}}}]}]",
			wantErr: ErrUnknownExpr,
		},
		{
			name:    "member_without_base",
			doc:     "blocks: [{kind: program, commands: [{kind: ASSIGN, target: {member: w}, value: {int: 1}}]}]",
			wantErr: ErrUnknownExpr,
		},
		{
			name:    "nested",
			doc:     "blocks: [{kind: program, commands: [{kind: IF, branches: [{cond: {bool: true}, commands: [{kind: ''}]}]}]}]",
			wantErr: ErrUnknownCommand,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeScript(t.Context(), []byte(tt.doc))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("DecodeScript() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestReadScript(t *testing.T) {
	t.Parallel()

	script, err := ReadScript(t.Context(), strings.NewReader(
		"blocks: [{kind: program, commands: [{kind: PAUSE, line: 4}]}]"))
	if err != nil {
		t.Fatalf("ReadScript() error = %v", err)
	}

	op, ok := script.Blocks[0].Commands[0].(*Opaque)
	if !ok {
		t.Fatalf("command = %T, want *Opaque", script.Blocks[0].Commands[0])
	}

	if op.Keyword != "PAUSE" || op.Position().Line != 4 {
		t.Errorf("opaque = %+v, want PAUSE at line 4", op)
	}
}
