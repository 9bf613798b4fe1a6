// Package lang implements semantic analysis and expression evaluation for
// the parameter-dialog scripting language of a CAD automation host.
//
// The package receives a finished syntax tree ([Script]) and makes one pass
// over it. Every expression is statically typed, every command is checked
// against its own field-level and cross-field rules, and validated
// configuration is materialized into a [SymbolTable] of typed [Value]s.
//
// # Values
//
// A [Value] is one of [Int], [Double], [String], [Bool], [Reference],
// [FileDesc], [*Array], [*Map], or [*Struct]. Scalars are plain Go values;
// containers are pointers, so copying a Value aliases its container.
//
// # Expressions
//
// An [Evaluator] offers three views of an [Expr]:
//
//   - [Evaluator.StaticType] infers a type without evaluating
//   - [Evaluator.Evaluate] computes a fresh Value
//   - [Evaluator.EvalInt], [Evaluator.EvalDouble], and
//     [Evaluator.EvalString] coerce to a Go primitive
//
// Arithmetic promotes to Double when either operand is Double, and division
// always yields Double. Double comparisons tolerate [Epsilon]. AND and OR
// short-circuit on the left operand.
//
// # Analysis
//
// [Analyzer.Analyze] visits blocks in the order declarations, dialog,
// program, and the commands of each block in source order. A failing
// command is marked invalid ([Node.SemanticValid]) and reported to the
// [Diagnostics] sink; analysis always continues with the next command.
//
// Display configuration produced by parameter commands is stored in the
// table's [Registry] under an [OptionsKey], separately from the parameter's
// own binding:
//
//	CHECKBOX_PARAM_OPTIONS_<name>   // show, checkbox, radio, input, ...
//	USER_SELECT:<name>              // select-style commands
//
// Required parameters are tracked in shared lists such as
// REQUIRED_CHECKBOX_LIST.
//
// # Syntax trees
//
// [DecodeScript] reads a tree serialized as YAML or JSON:
//
//	blocks:
//	  - kind: declarations
//	    commands:
//	      - kind: DECLARE_VARIABLE
//	        name: X
//	        type: INTEGER
//	        default: {int: 5}
//	  - kind: program
//	    commands:
//	      - kind: ASSIGN
//	        target: {var: X}
//	        value: {op: "+", left: {var: X}, right: {int: 1}}
package lang
