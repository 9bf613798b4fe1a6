package browse

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/cadscript/lang"
	"github.com/ardnew/cadscript/log"
)

// Loader analyzes the script being browsed. It is called once at start and
// again on every reload.
type Loader func(ctx context.Context) (*lang.Result, error)

// reloadMsg carries the outcome of a reload.
type reloadMsg struct {
	result *lang.Result
	err    error
}

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

const helpMessage = `
: Commands (press Esc to toggle mode):

  help           Print this help
  list [WORD]    List bindings, fuzzy-filtered by WORD
  show NAME      Print a binding with its type and declaration count
  diag [EXPR]    List diagnostics matching an expr-lang predicate
                 (fields: severity command line col message hint kind)
  reload         Re-read and re-analyze the script
  clear          Clear screen
  quit           Exit

Usage:
  Type an expr-lang query to evaluate it against the symbol table
  Registry entries are reached through $env, e.g. $env["USER_SELECT:EDGE"]
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Press Esc to toggle between eval and command modes
  Use Up/Down for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within the current mode
  Press Ctrl+C on empty line or Ctrl+D to exit
`

// inputMode is the interpretation of a submitted line.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	nameStyle       = lipgloss.NewStyle().Bold(true)
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	severityStyle = map[lang.Severity]lipgloss.Style{
		lang.SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		lang.SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		lang.SeverityError:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
)

func formatCommand(input string) string {
	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// model is the Bubble Tea model of the explorer.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	name         string
	load         Loader
	result       *lang.Result
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // ranked completions
	candidates   []string      // names the matches were drawn from
	wordStart    int           // byte offset of the word under the cursor
	wordEnd      int
	suggIdx      int  // selected completion
	tabActive    bool // cycling completions with Tab
	preTabText   string
	preTabCursor int
	width        int
	quitting     bool
	mode         inputMode
	evalText     string
	evalCursor   int
	ctrlText     string
	ctrlCursor   int
}

// Run loads the script named name with load and starts the explorer. The
// history file lives in cacheDir; an empty cacheDir keeps history in memory.
func Run(
	ctx context.Context,
	name string,
	load Loader,
	cacheDir string,
	logger log.Logger,
	opts ...tea.ProgramOption,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if load == nil {
		return ErrNoLoader
	}

	logger.TraceContext(ctx, "browse start",
		slog.String("script", name),
		slog.String("cache_dir", cacheDir),
	)

	result, err := load(ctx)
	if err != nil {
		return err
	}

	var path string
	if cacheDir != "" {
		path = filepath.Join(cacheDir, baseHistory)
	}

	history := NewHistory(path)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
	}

	logger.TraceContext(ctx, "browse ready",
		slog.Int("symbols", result.Symbols.Len()),
		slog.Int("history", history.Len()),
	)

	m := newModel(ctx, name, load, result, history, logger)

	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	_, err = tea.NewProgram(m, opts...).Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	name string,
	load Loader,
	result *lang.Result,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		name:       name,
		load:       load,
		result:     result,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
	}
}

// symbols returns the table being browsed, or nil before a result exists.
func (m model) symbols() *lang.SymbolTable {
	if m.result == nil {
		return nil
	}

	return m.result.Symbols
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case reloadMsg:
		if msg.err != nil {
			return m, tea.Println(errorStyle.Render("reload failed: " + msg.err.Error()))
		}

		m.result = msg.result
		refreshMatches(&m, false)

		m.logger.TraceContext(m.ctxFunc(), "browse reload",
			slog.Int("symbols", m.result.Symbols.Len()),
		)

		return m, tea.Println(resultStyle.Render(m.summary()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()
	call := detectFunctionCall(input, m.input.Position())

	switch {
	case m.historyIdx < m.history.Len():
		b.WriteString(hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len(),
		)))

	case strings.TrimSpace(input) == "":
		if m.mode == modeEval {
			b.WriteString(hintStyle.Render("Type a query or press Esc for commands"))
		} else {
			b.WriteString(hintStyle.Render("Type: help, list, show, diag, reload, clear, quit (press Esc to return)"))
		}

	case m.mode == modeEval && call.inCall && len(m.matches) == 0:
		if sig, ok := lookupSignature(call.name); ok {
			b.WriteString(renderSignatureHint(call.name, sig, call.argIndex))
		}

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		return m.historyStep(1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		if m.mode == modeEval {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeEval), nil

	case tea.KeyRunes, tea.KeySpace:
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// Deletion and cursor movement never auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step. A single candidate is accepted
// immediately.
func (m model) cycle(step int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + n) % n
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord substitutes replacement for the word under the cursor
// and moves the cursor past it.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes completions. With autoConfirm, a sole candidate
// equal to the typed word is accepted. Deletions and cursor movement pass
// false so editing never completes unexpectedly.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if candidate := m.matches[0].Str; m.input.Value()[m.wordStart:m.wordEnd] == candidate {
		replaceCurrentWord(m, candidate)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.evalText, m.evalCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.DebugContext(m.ctxFunc(), "history write failed",
			slog.String("error", err.Error()),
		)
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	echo := tea.Println(formatCommand(input))

	out, err := m.evaluate(input)
	if err != nil {
		m.logger.TraceContext(m.ctxFunc(), "browse query failed",
			slog.String("query", input),
			slog.String("error", err.Error()),
		)

		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	return m, tea.Sequence(echo, tea.Println(resultStyle.Render(out)))
}

// evaluate runs a query against the table and formats its result.
func (m model) evaluate(input string) (string, error) {
	st := m.symbols()
	if st == nil {
		return "", ErrNoBinding
	}

	out, err := st.Query(input)
	if err != nil {
		return "", err
	}

	return lang.FormatNative(m.ctxFunc(), out), nil
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	keyword, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)

	echo := tea.Println(formatCtrlCommand(input))

	m.logger.TraceContext(m.ctxFunc(), "browse command",
		slog.String("command", keyword),
		slog.String("args", rest),
	)

	reply := func(s string, err error) (model, tea.Cmd) {
		if err != nil {
			return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
		}

		return m, tea.Sequence(echo, tea.Println(s))
	}

	switch keyword {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return reply(helpMessage, nil)

	case "l", "list":
		return reply(m.listSymbols(rest), nil)

	case "s", "show":
		return reply(m.showSymbol(rest))

	case "d", "diag":
		return reply(m.diagnostics(rest))

	case "r", "reload":
		ctx, load := m.ctxFunc(), m.load

		return m, tea.Sequence(echo, func() tea.Msg {
			res, err := load(ctx)

			return reloadMsg{result: res, err: err}
		})

	case "c", "clear":
		return m, tea.ClearScreen

	default:
		return m, tea.Println(errorStyle.Render("Unknown command: " + keyword + " (try 'help')"))
	}
}

// summary describes the current result in one line.
func (m model) summary() string {
	res := m.result

	return fmt.Sprintf("%s: %d symbols, %d invalid, %d errors, %d warnings",
		m.name,
		res.Symbols.Len(),
		len(res.Invalid),
		len(res.Diagnostics.Errors()),
		len(res.Diagnostics.Warnings()),
	)
}

// listSymbols lists the bindings with their type and a value preview. A
// non-empty pattern keeps only fuzzy matches, best first.
func (m model) listSymbols(pattern string) string {
	st := m.symbols()
	if st == nil {
		return ""
	}

	names := slices.Collect(st.Names())

	if pattern != "" {
		var ranked []string

		for _, match := range fuzzy.Find(pattern, names) {
			ranked = append(ranked, match.Str)
		}

		names = ranked
	}

	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}

	var b strings.Builder

	for _, name := range names {
		v, _ := st.Lookup(name)

		fmt.Fprintf(&b, "  %s  %s\n",
			nameStyle.Width(width).Render(name),
			hintStyle.Render(preview(v)),
		)
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// showSymbol prints one binding in full.
func (m model) showSymbol(name string) (string, error) {
	st := m.symbols()
	if st == nil || name == "" {
		return "", ErrNoBinding
	}

	b, ok := st.Binding(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoBinding, name)
	}

	return fmt.Sprintf("%s %s\n%s",
		nameStyle.Render(name),
		hintStyle.Render(fmt.Sprintf("%s, %d declarations", typeName(b.Value), b.Declarations)),
		resultStyle.Render(lang.FormatNative(m.ctxFunc(), lang.Native(b.Value))),
	), nil
}

// diagnostics lists the diagnostics matching the expr-lang predicate
// where, or all of them when where is empty.
func (m model) diagnostics(where string) (string, error) {
	if m.result == nil {
		return "", nil
	}

	var filter *lang.Filter

	if where != "" {
		f, err := lang.CompileFilter(where)
		if err != nil {
			return "", err
		}

		filter = f
	}

	var b strings.Builder

	for _, d := range m.result.Diagnostics.All() {
		ok, err := filter.Match(d)
		if err != nil {
			return "", err
		}

		if !ok {
			continue
		}

		fmt.Fprintf(&b, "  %s  %s  %s  %s",
			hintStyle.Render(d.Pos.String()),
			severityStyle[d.Severity].Render(d.Severity.String()),
			d.Command,
			d.Message,
		)

		if d.Hint != "" {
			b.WriteString(" " + hintStyle.Render("("+d.Hint+")"))
		}

		b.WriteString("\n")
	}

	if b.Len() == 0 {
		return hintStyle.Render("no diagnostics"), nil
	}

	return strings.TrimSuffix(b.String(), "\n"), nil
}

const previewLimit = 40

// preview renders a short description of v: scalars as script text, and
// containers by type and size.
func preview(v lang.Value) string {
	var s string

	switch v := v.(type) {
	case nil:
		return "<nil>"
	case *lang.Array:
		s = fmt.Sprintf("%s [%d]", typeName(v), v.Len())
	case *lang.Map:
		s = fmt.Sprintf("%s { %d entries }", typeName(v), len(v.Entries))
	case *lang.Struct:
		s = fmt.Sprintf("%s { %d members }", typeName(v), len(v.Members))
	case lang.String:
		s = fmt.Sprintf("%s %q", typeName(v), string(v))
	default:
		s = typeName(v) + " " + lang.FormatValue(v)
	}

	if len(s) > previewLimit {
		return s[:previewLimit-3] + "..."
	}

	return s
}

func typeName(v lang.Value) string {
	if v == nil {
		return "<nil>"
	}

	return v.Type().String()
}

// historyStep moves through history by dir. With inMode, entries of the
// other mode are skipped; otherwise the mode follows the entry. Stepping past
// the newest entry clears the input.
func (m model) historyStep(dir int, inMode bool) model {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		entry, err := m.history.Entry(i)
		if err != nil {
			break
		}

		if inMode && entry.Mode != m.mode {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		refreshMatches(&m, false)

		return m
	}

	if dir > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m
}

// switchToMode changes the input mode, saving the current input and
// restoring the target mode's input.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeEval {
		m.evalText, m.evalCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m
}
