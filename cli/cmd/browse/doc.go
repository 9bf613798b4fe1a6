// Package browse implements an interactive explorer over the symbol table
// of an analyzed script.
//
// The explorer has two input modes, toggled with Esc. In eval mode each
// line is an expr-lang query against the table (see
// [lang.SymbolTable.Query]). In command mode the line is one of:
//
//	help           print usage
//	list [WORD]    list bindings, fuzzy-filtered by WORD
//	show NAME      print a binding with its type and declaration count
//	diag [EXPR]    list diagnostics, filtered by an expr-lang predicate
//	reload         re-read and re-analyze the script
//	clear          clear the screen
//	quit           exit
//
// Completions for bindings, structure members, map keys, and query
// functions are offered as you type. History is persisted per mode in the
// cache directory.
package browse
