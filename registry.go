package bypass

import (
	"fmt"
	"slices"
	"strings"
)

// Binding is one fixed-arity value tuple bound to a setting. Bindings are
// treated as immutable once inserted; shallow copies of a registry alias
// them.
type Binding []any

type entry struct {
	setting  string
	bindings []Binding
}

// Registry is an ordered multi-valued mapping from unique settings to
// ordered lists of bindings. The zero value is not usable; construct
// registries with New, FromRows or FromMap.
type Registry struct {
	schema  *Schema
	entries []*entry
	byName  map[string]*entry
	views   map[string]*View
}

// New returns an empty registry of the given kind. The stable views declared
// by the schema are created here, once per instance, and stay valid for the
// registry's whole lifetime.
func New(scm *Schema) *Registry {
	r := &Registry{
		schema: scm,
		byName: make(map[string]*entry),
	}
	r.views = make(map[string]*View, len(scm.viewNames))
	for _, name := range scm.viewNames {
		r.views[name] = &View{reg: r, name: name, spec: scm.views[name]}
	}
	return r
}

func (r *Registry) Schema() *Schema { return r.schema }

// Len returns the number of settings, not the total number of bindings.
func (r *Registry) Len() int { return len(r.entries) }

func (r *Registry) Contains(setting string) bool {
	return r.byName[setting] != nil
}

// Settings returns the setting names in insertion order.
func (r *Registry) Settings() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.setting
	}
	return names
}

// Add creates the given settings with one default-populated binding each.
// Settings already present are left untouched.
func (r *Registry) Add(settings ...string) {
	for _, name := range settings {
		if r.byName[name] != nil {
			continue
		}
		e := r.ensureEntry(name)
		e.bindings = append(e.bindings, r.schema.defaultBinding())
	}
}

// InsertBinding appends a binding to the setting's list, creating the
// setting at the end of the order when absent. The binding length must
// match the schema arity.
func (r *Registry) InsertBinding(setting string, binding Binding) error {
	if err := r.schema.checkBinding(binding); err != nil {
		return err
	}
	e := r.ensureEntry(setting)
	e.bindings = append(e.bindings, binding)
	return nil
}

// Remove deletes the setting and all its bindings, preserving the relative
// order of the remaining settings.
func (r *Registry) Remove(setting string) error {
	e := r.byName[setting]
	if e == nil {
		return &NotFoundError{Setting: setting}
	}
	r.removeEntry(setting)
	return nil
}

// Pop removes the setting and returns its bindings.
func (r *Registry) Pop(setting string) ([]Binding, error) {
	e := r.byName[setting]
	if e == nil {
		return nil, &NotFoundError{Setting: setting}
	}
	bindings := e.bindings
	r.removeEntry(setting)
	return bindings, nil
}

// Clear removes all settings.
func (r *Registry) Clear() {
	r.entries = r.entries[:0]
	clear(r.byName)
}

// Get returns the setting's bindings in insertion order, or nil when the
// setting is absent. Absence is indistinguishable from "not overridden";
// it is never an error.
func (r *Registry) Get(setting string) []Binding {
	e := r.byName[setting]
	if e == nil {
		return nil
	}
	return slices.Clone(e.bindings)
}

// Lookup is Get with an explicit presence report, for callers that need to
// distinguish an unbound setting from an absent one.
func (r *Registry) Lookup(setting string) ([]Binding, bool) {
	e := r.byName[setting]
	if e == nil {
		return nil, false
	}
	return slices.Clone(e.bindings), true
}

// Count returns the number of bindings for the setting, 0 when absent.
func (r *Registry) Count(setting string) int {
	e := r.byName[setting]
	if e == nil {
		return 0
	}
	return len(e.bindings)
}

// KeyAt returns the setting at the given position in insertion order.
// Negative positions count from the end.
func (r *Registry) KeyAt(pos int) (string, error) {
	i, err := r.normalizePos(pos)
	if err != nil {
		return "", err
	}
	return r.entries[i].setting, nil
}

// PositionOf returns the setting's position in insertion order, or -1 when
// absent.
func (r *Registry) PositionOf(setting string) int {
	for i, e := range r.entries {
		if e.setting == setting {
			return i
		}
	}
	return -1
}

// Rename gives the setting a new name without disturbing its position or
// bindings. The new name must not be taken.
func (r *Registry) Rename(old, new string) error {
	e := r.byName[old]
	if e == nil {
		return &NotFoundError{Setting: old}
	}
	if old == new {
		return nil
	}
	if r.byName[new] != nil {
		return fmt.Errorf("rename %q to %q: %w", old, new, ErrSettingExists)
	}
	e.setting = new
	delete(r.byName, old)
	r.byName[new] = e
	return nil
}

// Move repositions the setting to the given position, shifting the settings
// in between.
func (r *Registry) Move(setting string, pos int) error {
	cur := r.PositionOf(setting)
	if cur < 0 {
		return &NotFoundError{Setting: setting}
	}
	i, err := r.normalizePos(pos)
	if err != nil {
		return err
	}
	e := r.entries[cur]
	r.entries = slices.Delete(r.entries, cur, cur+1)
	r.entries = slices.Insert(r.entries, i, e)
	return nil
}

// Strip removes all unbound settings.
func (r *Registry) Strip() {
	kept := r.entries[:0]
	for _, e := range r.entries {
		if len(e.bindings) == 0 {
			delete(r.byName, e.setting)
		} else {
			kept = append(kept, e)
		}
	}
	r.entries = kept
}

// Unbind drops every binding while keeping all settings present.
func (r *Registry) Unbind() {
	for _, e := range r.entries {
		e.bindings = nil
	}
}

// Sort reorders the settings lexicographically. Bindings travel with their
// setting.
func (r *Registry) Sort() {
	slices.SortFunc(r.entries, func(a, b *entry) int {
		return strings.Compare(a.setting, b.setting)
	})
}

// Copy returns a copy of the registry. A shallow copy aliases the binding
// tuples, which is safe as long as callers honor their immutability; a deep
// copy also duplicates mutable values inside bindings.
func (r *Registry) Copy(deep bool) *Registry {
	n := New(r.schema)
	for _, e := range r.entries {
		ne := n.ensureEntry(e.setting)
		ne.bindings = make([]Binding, len(e.bindings))
		for i, b := range e.bindings {
			if deep {
				nb := make(Binding, len(b))
				for j, v := range b {
					nb[j] = deepCopyValue(v)
				}
				ne.bindings[i] = nb
			} else {
				ne.bindings[i] = b
			}
		}
	}
	return n
}

// Equal reports whether both registries hold the same settings in the same
// order with deeply equal binding lists.
func (r *Registry) Equal(other *Registry) bool {
	if other == nil || len(r.entries) != len(other.entries) {
		return false
	}
	if r.schema.Arity() != other.schema.Arity() {
		return false
	}
	for i, e := range r.entries {
		oe := other.entries[i]
		if e.setting != oe.setting || len(e.bindings) != len(oe.bindings) {
			return false
		}
		for j, b := range e.bindings {
			if !bindingsEqual(b, oe.bindings[j]) {
				return false
			}
		}
	}
	return true
}

// Rows returns every (setting, binding) pair flattened into rows of
// arity+1 values, settings in insertion order, bindings in append order.
// Unbound settings contribute no rows.
func (r *Registry) Rows() [][]any {
	var rows [][]any
	for _, e := range r.entries {
		for _, b := range e.bindings {
			row := make([]any, 0, len(b)+1)
			row = append(row, e.setting)
			row = append(row, b...)
			rows = append(rows, row)
		}
	}
	return rows
}

// ToMap returns the contents as a plain map. Order is lost; the binding
// slices are copies, though the bindings themselves are aliased.
func (r *Registry) ToMap() map[string][]Binding {
	m := make(map[string][]Binding, len(r.entries))
	for _, e := range r.entries {
		m[e.setting] = slices.Clone(e.bindings)
	}
	return m
}

func (r *Registry) String() string {
	var buf strings.Builder
	buf.WriteString(r.schema.name)
	buf.WriteByte('(')
	for i, row := range r.Rows() {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%v", row)
	}
	buf.WriteByte(')')
	return buf.String()
}

func (r *Registry) ensureEntry(setting string) *entry {
	if e := r.byName[setting]; e != nil {
		return e
	}
	e := &entry{setting: setting}
	r.entries = append(r.entries, e)
	r.byName[setting] = e
	return e
}

func (r *Registry) removeEntry(setting string) {
	i := r.PositionOf(setting)
	if i < 0 {
		return
	}
	r.entries = slices.Delete(r.entries, i, i+1)
	delete(r.byName, setting)
}

func (r *Registry) normalizePos(pos int) (int, error) {
	n := len(r.entries)
	i := pos
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, &PositionError{Pos: pos, Len: n}
	}
	return i, nil
}

func (r *Registry) moveToEnd(setting string) {
	i := r.PositionOf(setting)
	if i < 0 || i == len(r.entries)-1 {
		return
	}
	e := r.entries[i]
	r.entries = slices.Delete(r.entries, i, i+1)
	r.entries = append(r.entries, e)
}

func (r *Registry) moveToFront(setting string) {
	i := r.PositionOf(setting)
	if i <= 0 {
		return
	}
	e := r.entries[i]
	r.entries = slices.Delete(r.entries, i, i+1)
	r.entries = slices.Insert(r.entries, 0, e)
}
