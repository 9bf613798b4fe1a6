// Package cmd implements the cadscript subcommands.
//
// Every command that reads a script decodes its syntax tree with
// [lang.ReadScript] and analyzes it with the flags of [Analysis]:
//
//   - check:  print a diagnostic report; fails if any command is invalid
//   - dump:   write the resulting symbol table as YAML or JSON
//   - query:  evaluate an expr-lang expression over the symbol table
//   - browse: explore the symbol table interactively
//
// The init command writes the configuration file from the current flag
// values.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"

	// ConfigNameIdentifier is the kong variable identifier containing the
	// top-level key of the configuration file.
	ConfigNameIdentifier = "configName"
)
