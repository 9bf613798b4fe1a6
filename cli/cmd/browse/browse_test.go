package browse

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/cadscript/lang"
	"github.com/ardnew/cadscript/log"
)

const testScript = `
name: bracket.tab
blocks:
  - kind: declarations
    commands:
      - {kind: DECLARE_VARIABLE, line: 1, name: N, type: INTEGER, default: {int: 3}}
      - kind: DECLARE_VARIABLE
        line: 2
        name: DIMS
        type: STRUCTURE
        members:
          - {name: w, type: DOUBLE, default: {double: 1.5}}
          - {name: h, type: INTEGER}
  - kind: dialog
    commands:
      - kind: USER_INPUT_PARAM
        line: 10
        name: LEN
        subtype: DOUBLE
        default: {var: MISSING}
`

func testLoader(t *testing.T) Loader {
	t.Helper()

	return func(ctx context.Context) (*lang.Result, error) {
		script, err := lang.DecodeScript(ctx, []byte(testScript))
		if err != nil {
			return nil, err
		}

		return lang.NewAnalyzer().Analyze(ctx, script)
	}
}

func testModel(t *testing.T) model {
	t.Helper()

	load := testLoader(t)

	res, err := load(t.Context())
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}

	return newModel(t.Context(), "bracket.tab", load, res, NewHistory(""), log.Logger{})
}

func TestModel_Evaluate(t *testing.T) {
	t.Parallel()

	m := testModel(t)

	tests := []struct {
		input string
		want  string
	}{
		{"N * 2", "6"},
		{"DIMS.w", "1.5"},
		{`typeof("DIMS")`, "STRUCTURE"},
		{`declarations("N")`, "1"},
	}

	for _, tt := range tests {
		got, err := m.evaluate(tt.input)
		if err != nil {
			t.Errorf("evaluate(%q) error = %v", tt.input, err)

			continue
		}

		if got != tt.want {
			t.Errorf("evaluate(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}

	if _, err := m.evaluate("N +"); !errors.Is(err, lang.ErrQuery) {
		t.Errorf("evaluate(bad) error = %v, want ErrQuery", err)
	}
}

func TestModel_ListSymbols(t *testing.T) {
	t.Parallel()

	m := testModel(t)

	all := m.listSymbols("")
	for _, name := range []string{"N", "DIMS", "STRUCTURE", "INTEGER 3"} {
		if !strings.Contains(all, name) {
			t.Errorf("listSymbols() missing %q:\n%s", name, all)
		}
	}

	filtered := m.listSymbols("DIM")
	if n := strings.Count(filtered, "\n") + 1; n != 1 || !strings.Contains(filtered, "DIMS") {
		t.Errorf("listSymbols(DIM) = %q, want only DIMS", filtered)
	}
}

func TestModel_ShowSymbol(t *testing.T) {
	t.Parallel()

	m := testModel(t)

	out, err := m.showSymbol("DIMS")
	if err != nil {
		t.Fatalf("showSymbol() error = %v", err)
	}

	for _, want := range []string{"STRUCTURE", "1 declarations", "w: 1.5"} {
		if !strings.Contains(out, want) {
			t.Errorf("showSymbol() = %q, missing %q", out, want)
		}
	}

	if _, err := m.showSymbol("MISSING"); !errors.Is(err, ErrNoBinding) {
		t.Errorf("showSymbol(MISSING) error = %v, want ErrNoBinding", err)
	}
}

func TestModel_Diagnostics(t *testing.T) {
	t.Parallel()

	m := testModel(t)

	out, err := m.diagnostics(`severity == "error"`)
	if err != nil {
		t.Fatalf("diagnostics() error = %v", err)
	}

	if !strings.Contains(out, "MISSING") || !strings.Contains(out, "USER_INPUT_PARAM") {
		t.Errorf("diagnostics() = %q, want the unresolved default", out)
	}

	out, err = m.diagnostics(`line > 100`)
	if err != nil || !strings.Contains(out, "no diagnostics") {
		t.Errorf("diagnostics(none) = %q, %v", out, err)
	}

	if _, err := m.diagnostics(`line +`); !errors.Is(err, lang.ErrQuery) {
		t.Errorf("diagnostics(bad) error = %v, want ErrQuery", err)
	}
}

func TestModel_Completion(t *testing.T) {
	t.Parallel()

	m := testModel(t)

	m.input.SetValue("DIMS.")
	m.input.SetCursor(len("DIMS."))
	refreshMatches(&m, false)

	if len(m.matches) != 2 || m.matches[0].Str != "h" || m.matches[1].Str != "w" {
		t.Fatalf("member matches = %v, want [h w]", m.matches)
	}

	m = m.cycle(1)
	if got := m.input.Value(); got != "DIMS.h" || !m.tabActive {
		t.Errorf("after Tab input = %q (tab %v), want DIMS.h", got, m.tabActive)
	}

	m = m.cycle(1)
	if got := m.input.Value(); got != "DIMS.w" {
		t.Errorf("after second Tab input = %q, want DIMS.w", got)
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if got := m.input.Value(); got != "DIMS." || m.tabActive {
		t.Errorf("after Esc input = %q (tab %v), want DIMS.", got, m.tabActive)
	}

	m.input.SetValue("N + DIM")
	m.input.SetCursor(len("N + DIM"))
	refreshMatches(&m, false)

	if len(m.matches) == 0 || m.matches[0].Str != "DIMS" {
		t.Fatalf("top-level matches = %v, want DIMS first", m.matches)
	}
}

func TestModel_Modes(t *testing.T) {
	t.Parallel()

	m := testModel(t)

	m.input.SetValue("N")
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})

	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("after Esc mode = %d input = %q, want command mode and empty input", m.mode, m.input.Value())
	}

	m.input.SetValue("sh")
	m.input.SetCursor(2)
	refreshMatches(&m, false)

	if len(m.matches) == 0 || m.matches[0].Str != "show" {
		t.Errorf("command matches = %v, want show first", m.matches)
	}

	m.input.SetValue("show DI")
	m.input.SetCursor(len("show DI"))
	refreshMatches(&m, false)

	if len(m.matches) != 1 || m.matches[0].Str != "DIMS" {
		t.Errorf("show matches = %v, want [DIMS]", m.matches)
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeEval || m.input.Value() != "N" {
		t.Errorf("after second Esc mode = %d input = %q, want eval mode and N", m.mode, m.input.Value())
	}

	m = m.switchToMode(modeCtrl)
	m.input.SetValue("quit")

	m, cmd := m.executeInput()
	if !m.quitting || cmd == nil {
		t.Errorf("quit: quitting = %v, cmd = %v", m.quitting, cmd)
	}

	if m.history.Len() != 1 {
		t.Errorf("history length = %d, want 1", m.history.Len())
	}
}

func TestModel_History(t *testing.T) {
	t.Parallel()

	m := testModel(t)

	for _, e := range []HistoryEntry{
		{"N * 2", modeEval},
		{"list", modeCtrl},
		{"DIMS.w", modeEval},
	} {
		if err := m.history.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	m.historyIdx = m.history.Len()

	m = m.historyStep(-1, false)
	if m.input.Value() != "DIMS.w" || m.mode != modeEval {
		t.Errorf("Up = %q (mode %d), want DIMS.w", m.input.Value(), m.mode)
	}

	m = m.historyStep(-1, false)
	if m.input.Value() != "list" || m.mode != modeCtrl {
		t.Errorf("Up = %q (mode %d), want list in command mode", m.input.Value(), m.mode)
	}

	m = m.switchToMode(modeEval)
	m.historyIdx = m.history.Len()

	m = m.historyStep(-1, true)
	m = m.historyStep(-1, true)

	if m.input.Value() != "N * 2" || m.mode != modeEval {
		t.Errorf("Shift+Up twice = %q (mode %d), want N * 2", m.input.Value(), m.mode)
	}

	m = m.historyStep(1, true)
	m = m.historyStep(1, true)

	if m.input.Value() != "" || m.historyIdx != m.history.Len() {
		t.Errorf("Shift+Down past end = %q at %d, want empty input", m.input.Value(), m.historyIdx)
	}
}

func TestModel_Reload(t *testing.T) {
	t.Parallel()

	m := testModel(t)

	res, err := m.load(t.Context())
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}

	next, _ := m.Update(reloadMsg{result: res})
	if got := next.(model).result; got != res {
		t.Errorf("reload kept result %p, want %p", got, res)
	}

	next, _ = next.Update(reloadMsg{err: errors.New("boom")})
	if got := next.(model).result; got != res {
		t.Error("failed reload replaced the result")
	}
}

func TestRun_NoLoader(t *testing.T) {
	t.Parallel()

	if err := Run(t.Context(), "x", nil, "", log.Logger{}); !errors.Is(err, ErrNoLoader) {
		t.Errorf("Run() error = %v, want ErrNoLoader", err)
	}
}

func TestPreview(t *testing.T) {
	t.Parallel()

	arr := lang.NewArray(lang.TypeString)
	arr.Append(lang.String("EDGE"))

	tests := []struct {
		v    lang.Value
		want string
	}{
		{nil, "<nil>"},
		{lang.Int(3), "INTEGER 3"},
		{lang.String("r=3"), `STRING "r=3"`},
		{arr, "ARRAY [1]"},
		{lang.String(strings.Repeat("x", 60)), `STRING "` + strings.Repeat("x", 29) + "..."},
	}

	for _, tt := range tests {
		if got := preview(tt.v); got != tt.want {
			t.Errorf("preview(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
