package lang

import (
	"iter"
	"slices"
	"strings"
)

// OptionsKey addresses the display configuration of one command instance,
// independently of the parameter's own binding.
type OptionsKey struct {
	Command CommandKind
	Name    string
}

// String renders the key in its exported form: "<KIND>:<name>" for
// select-style commands and "<KIND>_OPTIONS_<name>" for everything else.
func (k OptionsKey) String() string {
	if k.Command.IsSelect() {
		return k.Command.String() + ":" + k.Name
	}

	return k.Command.String() + "_OPTIONS_" + k.Name
}

// ListKind identifies a shared tracking list.
type ListKind int

const (
	ListRequiredCheckboxes ListKind = iota // REQUIRED_CHECKBOX_LIST
	ListRequiredSelects                    // REQUIRED_SELECT_LIST
	ListRequiredInputs                     // REQUIRED_INPUT_LIST
	ListRequiredRadios                     // REQUIRED_RADIO_LIST
	// Every invalidation is appended, repeats included.
	ListInvalidated // INVALIDATE_PARAM_LIST

	listKindCount
)

// ListKinds returns an iterator over every defined list kind.
func ListKinds() iter.Seq[ListKind] {
	return func(yield func(ListKind) bool) {
		for k := range listKindCount {
			if !yield(k) {
				return
			}
		}
	}
}

// Registry holds the options maps and tracking lists produced by command
// validation, keyed by enum rather than by concatenated strings.
type Registry struct {
	options map[OptionsKey]*Map
	order   []OptionsKey
	lists   map[ListKind]*Array
}

func newRegistry() *Registry {
	return &Registry{
		options: make(map[OptionsKey]*Map),
		lists:   make(map[ListKind]*Array),
	}
}

// SetOptions stores m under key, replacing any previous map.
func (r *Registry) SetOptions(key OptionsKey, m *Map) {
	if _, ok := r.options[key]; !ok {
		r.order = append(r.order, key)
	}

	r.options[key] = m
}

// Options returns the options map stored under key.
func (r *Registry) Options(key OptionsKey) (*Map, bool) {
	m, ok := r.options[key]

	return m, ok
}

// OptionsKeys returns an iterator over all options keys in insertion order.
func (r *Registry) OptionsKeys() iter.Seq[OptionsKey] {
	return slices.Values(r.order)
}

// List returns the tracking list of the given kind, creating it empty on
// first use.
func (r *Registry) List(kind ListKind) *Array {
	if a, ok := r.lists[kind]; ok {
		return a
	}

	a := NewArray(TypeString)
	r.lists[kind] = a

	return a
}

// LookupList returns the tracking list of the given kind without creating
// it.
func (r *Registry) LookupList(kind ListKind) (*Array, bool) {
	a, ok := r.lists[kind]

	return a, ok
}

// Track appends name to the list of the given kind unless it is already
// present. It reports whether the name was added.
func (r *Registry) Track(kind ListKind, name string) bool {
	a := r.List(kind)
	if a.Contains(name) {
		return false
	}

	a.Append(String(name))

	return true
}

// Append adds name to the list of the given kind even if it is already
// present. INVALIDATE_PARAM_LIST records every invalidation this way.
func (r *Registry) Append(kind ListKind, name string) {
	r.List(kind).Append(String(name))
}

// ParseOptionsKey parses an exported options key back into its parts.
func ParseOptionsKey(s string) (OptionsKey, bool) {
	if kw, name, ok := strings.Cut(s, ":"); ok {
		kind, found := ParseCommandKind(kw)
		if found && kind.IsSelect() && name != "" {
			return OptionsKey{Command: kind, Name: name}, true
		}

		return OptionsKey{}, false
	}

	kw, name, ok := strings.Cut(s, "_OPTIONS_")
	if !ok || name == "" {
		return OptionsKey{}, false
	}

	kind, found := ParseCommandKind(kw)
	if !found || kind.IsSelect() {
		return OptionsKey{}, false
	}

	return OptionsKey{Command: kind, Name: name}, true
}
