package lang

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

// Native converts v to plain Go data: int64, float64, string, bool, []any,
// and map[string]any. Null handles become nil; other handles render as
// their type keyword.
func Native(v Value) any {
	switch v := v.(type) {
	case nil:
		return nil
	case Int:
		return int64(v)
	case Double:
		return float64(v)
	case String:
		return string(v)
	case Bool:
		return bool(v)
	case Reference:
		if v.IsNull() {
			return nil
		}

		return v.Type().String()
	case FileDesc:
		if v.IsNull() {
			return nil
		}

		return v.Type().String()
	case *Array:
		out := make([]any, len(v.Elems))
		for n, e := range v.Elems {
			out[n] = Native(e)
		}

		return out
	case *Map:
		out := make(map[string]any, len(v.Entries))
		for k, e := range v.Entries {
			out[k] = Native(e)
		}

		return out
	case *Struct:
		out := make(map[string]any, len(v.Members))
		for k, e := range v.Members {
			out[k] = Native(e)
		}

		return out
	default:
		return fmt.Sprint(v)
	}
}

// FormatNative renders plain data from [Native] or a query on one line:
// nil as "null", lists and maps as YAML flow collections, and scalars with
// fmt.
func FormatNative(ctx context.Context, v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any, map[string]any:
		data, err := yaml.MarshalContext(ctx, v, yaml.Flow(true))
		if err != nil {
			return fmt.Sprint(v)
		}

		return strings.TrimSpace(string(data))
	default:
		return fmt.Sprint(v)
	}
}

// Export flattens the registry to its legacy string keys: options maps
// under "<KIND>_OPTIONS_<name>" or "<KIND>:<name>", tracking lists under
// their list names.
func (r *Registry) Export() map[string]Value {
	out := make(map[string]Value, len(r.options)+len(r.lists))

	for _, key := range r.order {
		out[key.String()] = r.options[key]
	}

	for kind, list := range r.lists {
		out[kind.String()] = list
	}

	return out
}

// Native converts the table to plain Go data keyed by name, with the
// registry flattened alongside the bindings.
func (st *SymbolTable) Native() map[string]any {
	out := make(map[string]any, st.Len())

	for name, b := range st.All() {
		out[name] = Native(b.Value)
	}

	for key, v := range st.registry.Export() {
		out[key] = Native(v)
	}

	return out
}

// Declarations returns the declaration counter of every binding.
func (st *SymbolTable) Declarations() map[string]int {
	out := make(map[string]int, st.Len())

	for name, b := range st.All() {
		out[name] = b.Declarations
	}

	return out
}

// WriteYAML writes the exported table as YAML. A non-positive indent
// selects flow style.
func (st *SymbolTable) WriteYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, st.Native(), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// WriteJSON writes the exported table as JSON. A non-positive indent
// selects compact output.
func (st *SymbolTable) WriteJSON(ctx context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndentWithOption(
			st.Native(), "", strings.Repeat(" ", indent), json.DisableHTMLEscape(),
		)
	} else {
		data, err = json.MarshalContext(ctx, st.Native())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}
