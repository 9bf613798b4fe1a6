package browse

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// signature describes the parameters of a query function.
type signature struct {
	params []string
}

// querySignatures holds the functions a query may call besides the
// expr-lang builtins.
var querySignatures = map[string]signature{
	"declarations": {[]string{"name"}},
	"typeof":       {[]string{"name"}},
}

// builtinSignatures holds the parameters of the expr-lang builtins most
// useful against a symbol table.
var builtinSignatures = map[string]signature{
	"len":       {[]string{"v"}},
	"all":       {[]string{"array", "predicate"}},
	"any":       {[]string{"array", "predicate"}},
	"one":       {[]string{"array", "predicate"}},
	"none":      {[]string{"array", "predicate"}},
	"map":       {[]string{"array", "mapper"}},
	"filter":    {[]string{"array", "predicate"}},
	"find":      {[]string{"array", "predicate"}},
	"count":     {[]string{"array", "predicate"}},
	"sum":       {[]string{"array"}},
	"min":       {[]string{"...values"}},
	"max":       {[]string{"...values"}},
	"keys":      {[]string{"map"}},
	"values":    {[]string{"map"}},
	"join":      {[]string{"array", "separator"}},
	"split":     {[]string{"string", "separator"}},
	"upper":     {[]string{"string"}},
	"lower":     {[]string{"string"}},
	"trim":      {[]string{"string"}},
	"hasPrefix": {[]string{"string", "prefix"}},
	"hasSuffix": {[]string{"string", "suffix"}},
	"int":       {[]string{"v"}},
	"float":     {[]string{"v"}},
	"string":    {[]string{"v"}},
	"type":      {[]string{"v"}},
}

// lookupSignature returns the parameters of the named function.
func lookupSignature(name string) (signature, bool) {
	if sig, ok := querySignatures[name]; ok {
		return sig, true
	}

	sig, ok := builtinSignatures[name]

	return sig, ok
}

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall is the innermost unclosed call around the cursor.
type functionCall struct {
	name     string
	argIndex int
	inCall   bool
}

// detectFunctionCall finds the innermost call whose argument list contains
// the cursor, and the index of the argument being typed.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(cursor, len(input))

	open, depth := -1, 0

	for i := cursor - 1; i >= 0 && open < 0; i-- {
		switch input[i] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i
			}

			depth--
		}
	}

	if open < 0 {
		return functionCall{}
	}

	start := open
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}

		start -= size
	}

	name := input[start:open]
	if name == "" {
		return functionCall{}
	}

	arg := 0
	depth = 0

	for i := open + 1; i < cursor; i++ {
		switch input[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				arg++
			}
		}
	}

	return functionCall{name: name, argIndex: arg, inCall: true}
}

// renderSignatureHint renders name(params) with the parameter at argIndex
// highlighted. A variadic parameter stays highlighted for every later
// argument.
func renderSignatureHint(name string, sig signature, argIndex int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range sig.params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		variadic := strings.HasPrefix(param, "...")
		if argIndex == i || (variadic && argIndex > i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
