package lang

import (
	"iter"
	"slices"
	"strings"
)

// CommandKind identifies a command variant.
type CommandKind int

const (
	CmdInvalid             CommandKind = iota // INVALID
	CmdDeclareVariable                        // DECLARE_VARIABLE
	CmdDialogConfig                           // CONFIG
	CmdGlobalPicture                          // GLOBAL_PICTURE
	CmdSubPicture                             // SUB_PICTURE
	CmdShowParam                              // SHOW_PARAM
	CmdCheckboxParam                          // CHECKBOX_PARAM
	CmdRadioParam                             // RADIOBUTTON_PARAM
	CmdInputParam                             // USER_INPUT_PARAM
	CmdSelectParam                            // USER_SELECT
	CmdSelectMultipleParam                    // USER_SELECT_MULTIPLE
	CmdInvalidateParam                        // INVALIDATE_PARAM
	CmdAssign                                 // ASSIGN
	CmdIf                                     // IF
	CmdOpaque                                 // OPAQUE
)

// IsSelect reports whether k is a select-style command, whose options key
// uses the "<KIND>:<name>" form.
func (k CommandKind) IsSelect() bool {
	return k == CmdSelectParam || k == CmdSelectMultipleParam
}

// ParseCommandKind maps a script keyword (case-insensitive) to its kind.
// CmdInvalid and CmdOpaque are never returned.
func ParseCommandKind(s string) (CommandKind, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for kind := CmdDeclareVariable; kind < CmdOpaque; kind++ {
		if kind.String() == s {
			return kind, true
		}
	}

	return CmdInvalid, false
}

// Node is the header shared by every command. It holds the source position
// and the semantic-validity flag, which is the only state the analyzer
// mutates on the tree.
type Node struct {
	Pos

	invalid bool
}

// SemanticValid reports whether the command passed validation. It is true
// until the analyzer rejects the command.
func (n *Node) SemanticValid() bool { return !n.invalid }

func (n *Node) markInvalid() { n.invalid = true }

func (n *Node) header() *Node { return n }

// Command is a parsed statement.
//
// The set of implementations is closed: [*DeclareVariable], [*DialogConfig],
// [*GlobalPicture], [*SubPicture], [*ShowParam], [*CheckboxParam],
// [*RadioParam], [*InputParam], [*SelectParam], [*InvalidateParam],
// [*Assign], [*If], and [*Opaque].
type Command interface {
	Kind() CommandKind
	Position() Pos
	SemanticValid() bool
	header() *Node
}

// Display is the optional presentation metadata shared by parameter
// commands.
type Display struct {
	Tooltip   Expr
	Image     Expr
	OnPicture bool
	PosX      Expr
	PosY      Expr
	Order     Expr
	Required  bool
	Tag       Expr
}

// MemberDecl declares one member of a STRUCTURE variable.
type MemberDecl struct {
	Name    string
	Type    string
	Subtype string
	Default Expr
}

type (
	// DeclareVariable is DECLARE_VARIABLE name TYPE [SUBTYPE] [= default].
	DeclareVariable struct {
		Node

		Name    string
		Type    string
		Subtype string
		Default Expr
		Members []*MemberDecl
	}

	// DialogConfig is the singleton CONFIG command.
	DialogConfig struct {
		Node

		Title          Expr
		Width          Expr
		Height         Expr
		ScreenLocation string
		Flags          []string
	}

	// GlobalPicture is the singleton GLOBAL_PICTURE command.
	GlobalPicture struct {
		Node

		File Expr
	}

	// SubPicture places an additional image on the dialog.
	SubPicture struct {
		Node

		File Expr
		PosX Expr
		PosY Expr
	}

	// ShowParam displays a read-only parameter.
	ShowParam struct {
		Node
		Display

		Name    string
		Subtype string
		Value   Expr
	}

	// CheckboxParam is a boolean-like toggle parameter.
	CheckboxParam struct {
		Node
		Display

		Name    string
		Subtype string
		Default Expr
	}

	// RadioParam chooses one of a fixed list of labelled options.
	RadioParam struct {
		Node
		Display

		Name    string
		Subtype string
		Options []Expr
		Default Expr
	}

	// InputParam is a free-form user input field.
	InputParam struct {
		Node
		Display

		Name    string
		Subtype string
		Default Expr
		Min     Expr
		Max     Expr
	}

	// SelectParam asks the user to pick host entities. Multiple selects
	// USER_SELECT_MULTIPLE instead of USER_SELECT.
	SelectParam struct {
		Node
		Display

		Name     string
		Multiple bool
		Types    []Expr
		MaxSel   Expr
	}

	// InvalidateParam marks a parameter for removal at execution time.
	InvalidateParam struct {
		Node

		Name string
	}

	// Assign is target = value.
	Assign struct {
		Node

		Target Expr
		Value  Expr
	}

	// If is IF/ELSE_IF/ELSE. Branches are tried in order.
	If struct {
		Node

		Branches []*Branch
		Else     []Command
	}

	// Opaque is a host statement with no semantic rules.
	Opaque struct {
		Node

		Keyword string
	}
)

// Branch is one IF or ELSE_IF arm.
type Branch struct {
	Pos

	Cond Expr
	Body []Command
}

func (*DeclareVariable) Kind() CommandKind { return CmdDeclareVariable }
func (*DialogConfig) Kind() CommandKind    { return CmdDialogConfig }
func (*GlobalPicture) Kind() CommandKind   { return CmdGlobalPicture }
func (*SubPicture) Kind() CommandKind      { return CmdSubPicture }
func (*ShowParam) Kind() CommandKind       { return CmdShowParam }
func (*CheckboxParam) Kind() CommandKind   { return CmdCheckboxParam }
func (*RadioParam) Kind() CommandKind      { return CmdRadioParam }
func (*InputParam) Kind() CommandKind      { return CmdInputParam }
func (*InvalidateParam) Kind() CommandKind { return CmdInvalidateParam }
func (*Assign) Kind() CommandKind          { return CmdAssign }
func (*If) Kind() CommandKind              { return CmdIf }
func (*Opaque) Kind() CommandKind          { return CmdOpaque }

func (c *SelectParam) Kind() CommandKind {
	if c.Multiple {
		return CmdSelectMultipleParam
	}

	return CmdSelectParam
}

// BlockKind identifies a structural block. The numeric order is the
// analysis priority.
type BlockKind int

const (
	BlockDeclarations BlockKind = iota // declarations
	BlockDialog                        // dialog
	BlockProgram                       // program

	blockKindCount
)

// ParseBlockKind maps a block name (case-insensitive) to its kind.
func ParseBlockKind(s string) (BlockKind, bool) {
	for k := range blockKindCount {
		if strings.EqualFold(strings.TrimSpace(s), k.String()) {
			return k, true
		}
	}

	return 0, false
}

// Block is an ordered list of commands.
type Block struct {
	Kind     BlockKind
	Commands []Command
}

// Script is a parsed syntax tree.
type Script struct {
	// Name identifies the script in diagnostics, typically its file path.
	Name   string
	Blocks []*Block
}

// Ordered returns the blocks in analysis order: by priority, and in source
// order within one priority.
func (s *Script) Ordered() []*Block {
	blocks := slices.Clone(s.Blocks)
	slices.SortStableFunc(blocks, func(a, b *Block) int {
		return int(a.Kind) - int(b.Kind)
	})

	return blocks
}

// Commands returns an iterator over every command of the script in
// analysis order, descending into conditional branches.
func (s *Script) Commands() iter.Seq[Command] {
	return func(yield func(Command) bool) {
		for _, b := range s.Ordered() {
			if !walkCommands(b.Commands, yield) {
				return
			}
		}
	}
}

func walkCommands(cmds []Command, yield func(Command) bool) bool {
	for _, c := range cmds {
		if !yield(c) {
			return false
		}

		if cond, ok := c.(*If); ok {
			for _, br := range cond.Branches {
				if br != nil && !walkCommands(br.Body, yield) {
					return false
				}
			}

			if !walkCommands(cond.Else, yield) {
				return false
			}
		}
	}

	return true
}
