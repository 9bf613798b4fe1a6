package lang

import (
	"path"
	"strings"
)

// GlobalPictureName is the name half of the global picture's options key.
const GlobalPictureName = "GLOBAL"

func (a *Analyzer) validateGlobalPicture(c *GlobalPicture) error {
	kind := c.Kind()

	if a.pictureSeen {
		return ErrDuplicate.Because(kind.String() + ": global picture already declared")
	}

	a.pictureSeen = true

	file, err := a.pictureFile(kind, c.Pos, c.File)
	if err != nil {
		return err
	}

	m := NewMap(TypeString)
	m.Set(KeyFile, String(file))

	a.symbols.Registry().SetOptions(OptionsKey{Command: kind, Name: GlobalPictureName}, m)
	a.pictureOK = true

	return nil
}

func (a *Analyzer) validateSubPicture(c *SubPicture) error {
	kind := c.Kind()

	if !a.pictureOK {
		return ErrConstraint.Because(kind.String() + ": requires a preceding valid GLOBAL_PICTURE")
	}

	if c.PosX == nil || c.PosY == nil {
		return ErrMalformedNode.Because(kind.String() + ": POS_X and POS_Y are required")
	}

	file, err := a.pictureFile(kind, c.Pos, c.File)
	if err != nil {
		return err
	}

	// Negative offsets are resolved by the host at execution time.
	x, err := a.integral(kind, KeyPosX, c.PosX)
	if err != nil {
		return err
	}

	y, err := a.integral(kind, KeyPosY, c.PosY)
	if err != nil {
		return err
	}

	m := NewMap(TypeInvalid)
	m.Set(KeyFile, String(file))
	m.Set(KeyPosX, Int(x))
	m.Set(KeyPosY, Int(y))

	a.symbols.Registry().SetOptions(OptionsKey{Command: kind, Name: pictureName(file)}, m)

	return nil
}

// pictureFile evaluates and qualifies an image file expression.
func (a *Analyzer) pictureFile(kind CommandKind, pos Pos, e Expr) (string, error) {
	if e == nil {
		return "", ErrMalformedNode.Because(kind.String() + ": missing file name")
	}

	file, err := a.eval.EvalString(e)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(file) == "" {
		return "", ErrConstraint.Because(kind.String() + ": empty file name")
	}

	file = a.qualifyPath(kind, pos, file)
	a.checkImageExt(kind, pos, file)

	return file, nil
}

// pictureName derives an options-key name from an image path: its base name
// without extension.
func pictureName(file string) string {
	base := path.Base(strings.ReplaceAll(file, `\`, "/"))

	return strings.TrimSuffix(base, path.Ext(base))
}
