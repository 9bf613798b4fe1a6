// Package cli contains the command line interface for cadscript.
//
// # Usage
//
//	cadscript [flags] [check] SCRIPT...
//	cadscript dump [-F yaml|json] SCRIPT
//	cadscript query SCRIPT EXPR
//	cadscript browse SCRIPT
//	cadscript init [--force]
//
// Scripts are syntax-tree documents in YAML or JSON, or "-" for stdin.
// check is the default command.
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory (for example ~/.config/cadscript). Flags live under the
// top-level "config" key, and nested keys are joined with "-":
//
//	config:
//	  log:
//	    level: debug
//	    format: text
//	  hints: false
//
// A config.json file in the same directory is read as well, with flag names
// as keys. Command-line flags take precedence over both. The init command
// writes config.yaml from the current flag values.
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: json or text
//   - --log-time-layout: timestamp layout (RFC3339, Kitchen, a layout, none)
//   - --[no-]log-caller: include the source location
//   - --[no-]log-pretty: indent JSON or colorize text
//
// # Profiling Options
//
//   - --pprof-mode: allocs, block, clock, cpu, goroutine, heap, mem, mutex,
//     thread, or trace
//   - --pprof-dir: profile output directory (default: the pprof directory in
//     the user cache directory)
//
// # Examples
//
//	# Report only unresolved references
//	cadscript check --where 'kind == "unresolved"' bracket.yaml
//
//	# Debug logging with CPU profiling
//	cadscript --log-level=debug --pprof-mode=cpu dump bracket.yaml
package cli
