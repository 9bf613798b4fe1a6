package lang

import (
	"context"
	"log/slog"
)

func (a *Analyzer) validateAssign(c *Assign) error {
	kind := c.Kind()

	switch c.Target.(type) {
	case *VarRef, *Index, *MapLookup, *Member:
	case nil:
		return ErrMalformedNode.Because(kind.String() + ": missing assignment target")
	default:
		return ErrMalformedNode.Because(kind.String()+": invalid assignment target").
			With(slog.String("target", ExprString(c.Target)))
	}

	if c.Value == nil {
		return ErrMalformedNode.Because(kind.String() + ": missing assigned value")
	}

	lt, err := a.eval.StaticType(c.Target)
	if err != nil {
		return err
	}

	rt, err := a.eval.StaticType(c.Value)
	if err != nil {
		return err
	}

	switch {
	case lt == rt:
	case lt == TypeDouble && rt == TypeInt:
	case lt == TypeInt && rt == TypeDouble:
		a.diags.Warnf(kind, c.Pos, "%s narrowed to %s in assignment to %s",
			rt, lt, ExprString(c.Target))
	default:
		return ErrType.Because(kind.String()+": incompatible assignment").
			With(
				slog.String("target", ExprString(c.Target)),
				slog.String("left", lt.String()),
				slog.String("right", rt.String()),
			)
	}

	return nil
}

// validateIf checks every condition and analyzes every branch, including
// the ones after a failure. The failures aggregate into [ErrBranch].
func (a *Analyzer) validateIf(ctx context.Context, c *If) pass {
	kind := c.Kind()

	if len(c.Branches) == 0 {
		return pass{failed: ErrMalformedNode.Because(kind.String() + ": missing condition")}
	}

	var (
		first  error
		failed int
	)

	fail := func(err error) {
		if first == nil {
			first = err
		}

		failed++
	}

	for _, br := range c.Branches {
		if br == nil {
			fail(ErrMalformedNode.Because(kind.String() + ": missing branch"))

			continue
		}

		a.eval.cmd = kind

		if err := a.checkCondition(kind, br); err != nil {
			a.diags.Error(kind, br.Pos, err)
			fail(err)
		}

		body := a.analyzeCommands(ctx, br.Body)
		if body.aborted != nil {
			return body
		}

		if body.failed != nil {
			fail(body.failed)
		}
	}

	els := a.analyzeCommands(ctx, c.Else)
	if els.aborted != nil {
		return els
	}

	if els.failed != nil {
		fail(els.failed)
	}

	if first == nil {
		return pass{}
	}

	return pass{failed: ErrBranch.Wrap(first).With(slog.Int("failed", failed))}
}

func (a *Analyzer) checkCondition(kind CommandKind, br *Branch) error {
	if br.Cond == nil {
		return ErrMalformedNode.Because(kind.String() + ": missing condition")
	}

	t, err := a.eval.StaticType(br.Cond)
	if err != nil {
		return err
	}

	if !t.IsTruthy() {
		return ErrType.Because(kind.String()+": condition must be BOOL or numeric").
			With(slog.String("got", t.String()))
	}

	return nil
}
