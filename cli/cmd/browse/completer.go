package browse

import (
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/expr-lang/expr/builtin"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/cadscript/lang"
)

// ctrlCommands are the command-mode keywords.
var ctrlCommands = []string{"help", "list", "show", "diag", "reload", "clear", "quit"}

// isWordBoundary reports whether r delimits a completion word: whitespace,
// the member-access dot, and expr-lang operators and punctuation. Script
// identifiers never contain any of these.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']', '{', '}',
		'+', '-', '*', '/', '%', '^',
		'<', '>', '=', '!',
		'&', '|', ',', '?', ':', ';',
		'"', '\'', '`', '$':
		return true
	}

	return false
}

// wordBounds returns the word under the cursor and its byte offsets in
// input. The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the member-access chain leading up to the word at
// wordStart. For "N + DIMS.in.w" with the word "w" it is "DIMS.in". Top-level
// words have no parent.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")

	pos := len(prefix)
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return strings.TrimSpace(prefix[pos:])
}

// topLevelNames returns every name that can start a query: bindings,
// tracking lists, query functions, and expr-lang builtins.
func topLevelNames(st *lang.SymbolTable) []string {
	names := slices.Collect(st.Names())

	for kind := range lang.ListKinds() {
		if _, ok := st.Registry().LookupList(kind); ok {
			names = append(names, kind.String())
		}
	}

	names = append(names, slices.Sorted(maps.Keys(querySignatures))...)
	names = append(names, slices.Sorted(maps.Keys(builtin.Index))...)

	return names
}

// childCandidates returns the completions for members of parent, a
// dot-separated path rooted at a binding. An empty parent yields the
// top-level names.
func childCandidates(st *lang.SymbolTable, parent string) []string {
	if st == nil {
		return nil
	}

	if parent == "" {
		return topLevelNames(st)
	}

	segments := strings.Split(parent, ".")

	v, ok := st.Lookup(segments[0])
	if !ok {
		return nil
	}

	for _, seg := range segments[1:] {
		if v = member(v, seg); v == nil {
			return nil
		}
	}

	return memberNames(v)
}

// member returns the structure member or map entry of v named name.
func member(v lang.Value, name string) lang.Value {
	switch v := v.(type) {
	case *lang.Struct:
		m, _ := v.Member(name)

		return m
	case *lang.Map:
		e, _ := v.Get(name)

		return e
	default:
		return nil
	}
}

// memberNames returns the sorted member or key names of a structure or map.
func memberNames(v lang.Value) []string {
	switch v := v.(type) {
	case *lang.Struct:
		return slices.Sorted(maps.Keys(v.Members))
	case *lang.Map:
		return slices.Sorted(maps.Keys(v.Entries))
	default:
		return nil
	}
}

// computeMatches ranks the candidates for the word under the cursor. An
// empty word matches nothing at the top level and every member after a dot.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	if m.mode == modeCtrl {
		if word == "" {
			return nil, nil, wordStart, wordEnd
		}

		switch fields := strings.Fields(input[:wordStart]); {
		case len(fields) == 0:
			candidates = ctrlCommands
		case len(fields) == 1 && fields[0] == "show" && m.symbols() != nil:
			candidates = slices.Collect(m.symbols().Names())
		default:
			return nil, nil, wordStart, wordEnd
		}

		return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
	}

	parent := parentPath(input, wordStart)
	candidates = childCandidates(m.symbols(), parent)

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	if word == "" {
		if parent == "" {
			return nil, nil, wordStart, wordEnd
		}

		matches = make(fuzzy.Matches, len(candidates))
		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, candidates, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar renders the completion bar on one line, ellipsized to
// width. The selected candidate is highlighted while tab-cycling.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched characters in
// bold. Functions get a "()" suffix.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, suggestionStyle.Bold(true)
	if selected {
		base, highlight = selectedStyle, selectedStyle.Bold(true)
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if isFunction(match.Str) {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}

// isFunction reports whether name is callable in a query.
func isFunction(name string) bool {
	if _, ok := querySignatures[name]; ok {
		return true
	}

	_, ok := builtin.Index[name]

	return ok
}
