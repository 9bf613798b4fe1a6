package lang

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"maps"
	"strings"

	"github.com/goccy/go-yaml"
)

// UnknownReferenceType is the code given to an unrecognized reference-type
// name by single-select commands.
const UnknownReferenceType = -1

// ReferenceTypes maps reference-type names to the opaque numeric codes the
// host uses for classes of selectable entities. Lookups are
// case-insensitive.
type ReferenceTypes struct {
	codes map[string]int
}

var defaultReferenceTypes = map[string]int{
	"ASSEMBLY":      0,
	"PART":          1,
	"FEATURE":       2,
	"SURFACE":       3,
	"EDGE":          4,
	"CURVE":         5,
	"AXIS":          6,
	"POINT":         7,
	"CSYS":          8,
	"PLANE":         9,
	"QUILT":         10,
	"COMPONENT":     11,
	"DIMENSION":     12,
	"VERTEX":        13,
	"EDGE_START":    14,
	"EDGE_END":      15,
	"CRV_START":     16,
	"CRV_END":       17,
	"ANNOTATION":    18,
	"SKETCH":        19,
	"DATUM_POINT":   20,
	"DATUM_CURVE":   21,
	"DATUM_PLANE":   22,
	"DATUM_AXIS":    23,
	"SURFACE_CURVE": 24,
}

// DefaultReferenceTypes returns the built-in reference-type table.
func DefaultReferenceTypes() *ReferenceTypes {
	return NewReferenceTypes(defaultReferenceTypes)
}

// NewReferenceTypes returns a table holding codes. Names are normalized to
// upper case.
func NewReferenceTypes(codes map[string]int) *ReferenceTypes {
	rt := &ReferenceTypes{codes: make(map[string]int, len(codes))}
	for name, code := range codes {
		rt.codes[normalizeRefType(name)] = code
	}

	return rt
}

// LoadReferenceTypes reads a YAML (or JSON) mapping of name to code.
func LoadReferenceTypes(ctx context.Context, r io.Reader) (*ReferenceTypes, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrDecode.Wrap(err)
	}

	var codes map[string]int
	if err := yaml.UnmarshalContext(ctx, data, &codes); err != nil {
		return nil, ErrDecode.Wrap(err).With(slog.String("what", "reference types"))
	}

	return NewReferenceTypes(codes), nil
}

// Lookup returns the code of name.
func (rt *ReferenceTypes) Lookup(name string) (int, bool) {
	code, ok := rt.codes[normalizeRefType(name)]

	return code, ok
}

// Names returns an iterator over the known names.
func (rt *ReferenceTypes) Names() iter.Seq[string] { return maps.Keys(rt.codes) }

// Len returns the number of known names.
func (rt *ReferenceTypes) Len() int { return len(rt.codes) }

func normalizeRefType(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
