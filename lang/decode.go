package lang

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"
)

// Syntax-tree documents are YAML (JSON being a subset). See ReadScript.

type docScript struct {
	Name   string      `yaml:"name"`
	Blocks []*docBlock `yaml:"blocks"`
}

type docBlock struct {
	Kind     string        `yaml:"kind"`
	Commands []*docCommand `yaml:"commands"`
}

type docCommand struct {
	Kind string `yaml:"kind"`
	Line int    `yaml:"line"`
	Col  int    `yaml:"col"`

	Name    string       `yaml:"name"`
	Type    string       `yaml:"type"`
	Subtype string       `yaml:"subtype"`
	Default *docExpr     `yaml:"default"`
	Members []*docMember `yaml:"members"`

	Title          *docExpr `yaml:"title"`
	Width          *docExpr `yaml:"width"`
	Height         *docExpr `yaml:"height"`
	ScreenLocation string   `yaml:"screen_location"`
	Flags          []string `yaml:"flags"`

	File  *docExpr   `yaml:"file"`
	Value *docExpr   `yaml:"value"`
	Min   *docExpr   `yaml:"min_value"`
	Max   *docExpr   `yaml:"max_value"`
	Opts  []*docExpr `yaml:"options"`
	Types []*docExpr `yaml:"types"`
	Sel   *docExpr   `yaml:"max_sel"`

	Tooltip   *docExpr `yaml:"tooltip"`
	Image     *docExpr `yaml:"image"`
	OnPicture bool     `yaml:"on_picture"`
	PosX      *docExpr `yaml:"pos_x"`
	PosY      *docExpr `yaml:"pos_y"`
	Order     *docExpr `yaml:"order"`
	Required  bool     `yaml:"required"`
	Tag       *docExpr `yaml:"tag"`

	Target *docExpr `yaml:"target"`

	Branches []*docBranch  `yaml:"branches"`
	Else     []*docCommand `yaml:"else"`

	Keyword string         `yaml:"keyword"`
	Args    map[string]any `yaml:"args"`
}

type docMember struct {
	Name    string   `yaml:"name"`
	Type    string   `yaml:"type"`
	Subtype string   `yaml:"subtype"`
	Default *docExpr `yaml:"default"`
}

type docBranch struct {
	Line     int           `yaml:"line"`
	Col      int           `yaml:"col"`
	Cond     *docExpr      `yaml:"cond"`
	Commands []*docCommand `yaml:"commands"`
}

type docExpr struct {
	Line int `yaml:"line"`
	Col  int `yaml:"col"`

	Int    *int64   `yaml:"int"`
	Double *float64 `yaml:"double"`
	String *string  `yaml:"string"`
	Bool   *bool    `yaml:"bool"`
	Nil    bool     `yaml:"nil"`
	Const  *string  `yaml:"const"`
	Var    *string  `yaml:"var"`

	Op      *string  `yaml:"op"`
	Left    *docExpr `yaml:"left"`
	Right   *docExpr `yaml:"right"`
	Operand *docExpr `yaml:"operand"`

	Call *string    `yaml:"call"`
	Args []*docExpr `yaml:"args"`

	Index  *docExpr `yaml:"index"`
	Key    *docExpr `yaml:"key"`
	Member *string  `yaml:"member"`
	Base   *docExpr `yaml:"base"`
}

// ReadScript decodes a syntax-tree document from r.
//
// The document holds a list of blocks, each a list of commands. A command
// is a mapping with a "kind" keyword plus kind-specific fields; an
// expression is a mapping with exactly one of int, double, string, bool,
// nil, const, var, op, call, index, key, or member. Unknown command kinds
// decode to [*Opaque].
func ReadScript(ctx context.Context, r io.Reader) (*Script, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrDecode.Wrap(err)
	}

	return DecodeScript(ctx, data)
}

// DecodeScript decodes a syntax-tree document.
func DecodeScript(ctx context.Context, data []byte) (*Script, error) {
	var doc docScript

	if err := yaml.UnmarshalContext(ctx, data, &doc, yaml.DisallowUnknownField()); err != nil {
		return nil, ErrDecode.Wrap(err)
	}

	script := &Script{Name: doc.Name}

	for n, db := range doc.Blocks {
		if db == nil {
			return nil, ErrDecode.Because(fmt.Sprintf("block %d is empty", n+1))
		}

		kind, ok := ParseBlockKind(db.Kind)
		if !ok {
			return nil, ErrDecode.Because("unknown block kind").
				With(slog.String("kind", db.Kind))
		}

		cmds, err := decodeCommands(db.Commands)
		if err != nil {
			return nil, err
		}

		script.Blocks = append(script.Blocks, &Block{Kind: kind, Commands: cmds})
	}

	return script, nil
}

func decodeCommands(docs []*docCommand) ([]Command, error) {
	cmds := make([]Command, 0, len(docs))

	for _, dc := range docs {
		if dc == nil {
			continue
		}

		c, err := decodeCommand(dc)
		if err != nil {
			return nil, err
		}

		cmds = append(cmds, c)
	}

	return cmds, nil
}

func decodeCommand(dc *docCommand) (Command, error) {
	var d exprDecoder

	node := Node{Pos: Pos{Line: dc.Line, Col: dc.Col}}

	display := func() Display {
		return Display{
			Tooltip:   d.expr(dc.Tooltip),
			Image:     d.expr(dc.Image),
			OnPicture: dc.OnPicture,
			PosX:      d.expr(dc.PosX),
			PosY:      d.expr(dc.PosY),
			Order:     d.expr(dc.Order),
			Required:  dc.Required,
			Tag:       d.expr(dc.Tag),
		}
	}

	kind, known := ParseCommandKind(dc.Kind)

	var c Command

	switch {
	case !known && dc.Kind == "":
		return nil, ErrUnknownCommand.Because("missing command kind").
			With(slog.String("pos", node.Pos.String()))
	case !known:
		kw := dc.Kind
		if dc.Keyword != "" {
			kw = dc.Keyword
		}

		c = &Opaque{Node: node, Keyword: kw}
	case kind == CmdDeclareVariable:
		members := make([]*MemberDecl, 0, len(dc.Members))
		for _, m := range dc.Members {
			if m == nil {
				continue
			}

			members = append(members, &MemberDecl{
				Name:    m.Name,
				Type:    m.Type,
				Subtype: m.Subtype,
				Default: d.expr(m.Default),
			})
		}

		c = &DeclareVariable{
			Node:    node,
			Name:    dc.Name,
			Type:    dc.Type,
			Subtype: dc.Subtype,
			Default: d.expr(dc.Default),
			Members: members,
		}
	case kind == CmdDialogConfig:
		c = &DialogConfig{
			Node:           node,
			Title:          d.expr(dc.Title),
			Width:          d.expr(dc.Width),
			Height:         d.expr(dc.Height),
			ScreenLocation: dc.ScreenLocation,
			Flags:          dc.Flags,
		}
	case kind == CmdGlobalPicture:
		c = &GlobalPicture{Node: node, File: d.expr(dc.File)}
	case kind == CmdSubPicture:
		c = &SubPicture{
			Node: node,
			File: d.expr(dc.File),
			PosX: d.expr(dc.PosX),
			PosY: d.expr(dc.PosY),
		}
	case kind == CmdShowParam:
		c = &ShowParam{
			Node:    node,
			Display: display(),
			Name:    dc.Name,
			Subtype: dc.Subtype,
			Value:   d.expr(dc.Value),
		}
	case kind == CmdCheckboxParam:
		c = &CheckboxParam{
			Node:    node,
			Display: display(),
			Name:    dc.Name,
			Subtype: dc.Subtype,
			Default: d.expr(dc.Default),
		}
	case kind == CmdRadioParam:
		c = &RadioParam{
			Node:    node,
			Display: display(),
			Name:    dc.Name,
			Subtype: dc.Subtype,
			Options: d.exprs(dc.Opts),
			Default: d.expr(dc.Default),
		}
	case kind == CmdInputParam:
		c = &InputParam{
			Node:    node,
			Display: display(),
			Name:    dc.Name,
			Subtype: dc.Subtype,
			Default: d.expr(dc.Default),
			Min:     d.expr(dc.Min),
			Max:     d.expr(dc.Max),
		}
	case kind.IsSelect():
		c = &SelectParam{
			Node:     node,
			Display:  display(),
			Name:     dc.Name,
			Multiple: kind == CmdSelectMultipleParam,
			Types:    d.exprs(dc.Types),
			MaxSel:   d.expr(dc.Sel),
		}
	case kind == CmdInvalidateParam:
		c = &InvalidateParam{Node: node, Name: dc.Name}
	case kind == CmdAssign:
		c = &Assign{Node: node, Target: d.expr(dc.Target), Value: d.expr(dc.Value)}
	case kind == CmdIf:
		cond := &If{Node: node}

		for _, db := range dc.Branches {
			if db == nil {
				continue
			}

			body, err := decodeCommands(db.Commands)
			if err != nil {
				return nil, err
			}

			cond.Branches = append(cond.Branches, &Branch{
				Pos:  Pos{Line: db.Line, Col: db.Col},
				Cond: d.expr(db.Cond),
				Body: body,
			})
		}

		body, err := decodeCommands(dc.Else)
		if err != nil {
			return nil, err
		}

		cond.Else = body
		c = cond
	}

	if d.err != nil {
		return nil, d.err
	}

	return c, nil
}

// exprDecoder converts expression documents, keeping the first error so
// the command constructors above stay flat.
type exprDecoder struct {
	err error
}

func (d *exprDecoder) exprs(docs []*docExpr) []Expr {
	out := make([]Expr, len(docs))
	for n, de := range docs {
		out[n] = d.expr(de)
	}

	return out
}

func (d *exprDecoder) expr(de *docExpr) Expr {
	if de == nil || d.err != nil {
		return nil
	}

	e, err := decodeExpr(de)
	if err != nil {
		d.err = err
	}

	return e
}

func decodeExpr(de *docExpr) (Expr, error) {
	pos := Pos{Line: de.Line, Col: de.Col}

	var shapes []string

	for name, set := range map[string]bool{
		"int":    de.Int != nil,
		"double": de.Double != nil,
		"string": de.String != nil,
		"bool":   de.Bool != nil,
		"nil":    de.Nil,
		"const":  de.Const != nil,
		"var":    de.Var != nil,
		"op":     de.Op != nil,
		"call":   de.Call != nil,
		"index":  de.Index != nil,
		"key":    de.Key != nil,
		"member": de.Member != nil,
	} {
		if set {
			shapes = append(shapes, name)
		}
	}

	if len(shapes) != 1 {
		return nil, ErrUnknownExpr.Because("expression needs exactly one shape").
			With(slog.String("pos", pos.String()), slog.String("shapes", strings.Join(shapes, ",")))
	}

	switch shapes[0] {
	case "int":
		return &IntLit{Pos: pos, Value: *de.Int}, nil
	case "double":
		return &DoubleLit{Pos: pos, Value: *de.Double}, nil
	case "string":
		return &StringLit{Pos: pos, Value: *de.String}, nil
	case "bool":
		return &BoolLit{Pos: pos, Value: *de.Bool}, nil
	case "nil":
		return &NullLit{Pos: pos}, nil
	case "const":
		return &ConstRef{Pos: pos, Name: *de.Const}, nil
	case "var":
		return &VarRef{Pos: pos, Name: *de.Var}, nil
	case "op":
		return decodeOp(pos, de)
	case "call":
		args := make([]Expr, len(de.Args))

		for n, a := range de.Args {
			if a == nil {
				return nil, ErrUnknownExpr.Because("empty call argument").
					With(slog.String("pos", pos.String()))
			}

			e, err := decodeExpr(a)
			if err != nil {
				return nil, err
			}

			args[n] = e
		}

		return &Call{Pos: pos, Func: *de.Call, Args: args}, nil
	}

	// index, key, and member select from a base.
	if de.Base == nil {
		return nil, ErrUnknownExpr.Because(shapes[0] + " requires base").
			With(slog.String("pos", pos.String()))
	}

	base, err := decodeExpr(de.Base)
	if err != nil {
		return nil, err
	}

	switch shapes[0] {
	case "index":
		at, err := decodeExpr(de.Index)
		if err != nil {
			return nil, err
		}

		return &Index{Pos: pos, Base: base, At: at}, nil
	case "key":
		key, err := decodeExpr(de.Key)
		if err != nil {
			return nil, err
		}

		return &MapLookup{Pos: pos, Base: base, Key: key}, nil
	default:
		return &Member{Pos: pos, Base: base, Name: *de.Member}, nil
	}
}

func decodeOp(pos Pos, de *docExpr) (Expr, error) {
	if de.Operand != nil {
		op, ok := ParseUnaryOp(*de.Op)
		if !ok || de.Left != nil || de.Right != nil {
			return nil, ErrUnknownExpr.Because("invalid unary operation").
				With(slog.String("pos", pos.String()), slog.String("op", *de.Op))
		}

		x, err := decodeExpr(de.Operand)
		if err != nil {
			return nil, err
		}

		return &Unary{Pos: pos, Op: op, X: x}, nil
	}

	op, ok := ParseBinaryOp(*de.Op)
	if !ok || de.Left == nil || de.Right == nil {
		return nil, ErrUnknownExpr.Because("invalid binary operation").
			With(slog.String("pos", pos.String()), slog.String("op", *de.Op))
	}

	l, err := decodeExpr(de.Left)
	if err != nil {
		return nil, err
	}

	r, err := decodeExpr(de.Right)
	if err != nil {
		return nil, err
	}

	return &Binary{Pos: pos, Op: op, L: l, R: r}, nil
}
