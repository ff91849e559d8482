package bypass

import (
	"fmt"
	"reflect"
	"strings"
)

// View is a live, non-owning projection over selected columns of one
// registry. A view never caches: every cursor re-walks the backing registry,
// so mutations are immediately visible through views created earlier.
//
// A view over exactly the setting column emits bare setting names, one per
// setting, bound or not. Any other view emits one element per binding: a
// bare value when a single column is selected, a projected []any row
// otherwise.
type View struct {
	reg  *Registry
	name string
	spec ViewSpec
}

// View returns the named view declared by the schema, or nil when the
// schema declares no such view. Views are created at registry construction
// and never recreated.
func (r *Registry) View(name string) *View {
	return r.views[name]
}

// Keys returns the stable view over setting names.
func (r *Registry) Keys() *View { return r.views["keys"] }

// Values returns the stable view over all value columns.
func (r *Registry) Values() *View { return r.views["values"] }

// Items returns the stable view over the setting and all value columns.
func (r *Registry) Items() *View { return r.views["items"] }

func (v *View) Name() string   { return v.name }
func (v *View) Spec() ViewSpec { return append(ViewSpec(nil), v.spec...) }

func (v *View) keysOnly() bool {
	return len(v.spec) == 1 && v.spec[0] == 0
}

// Len counts the elements the view currently projects: the number of
// settings for a keys view, the total number of bindings otherwise.
func (v *View) Len() int {
	if v.keysOnly() {
		return len(v.reg.entries)
	}
	n := 0
	for _, e := range v.reg.entries {
		n += len(e.bindings)
	}
	return n
}

func (v *View) project(e *entry, b Binding) any {
	if len(v.spec) == 1 {
		if v.spec[0] == 0 {
			return e.setting
		}
		return b[v.spec[0]-1]
	}
	row := make([]any, len(v.spec))
	for i, col := range v.spec {
		if col == 0 {
			row[i] = e.setting
		} else {
			row[i] = b[col-1]
		}
	}
	return row
}

// Cursor walks the view in registry order.
func (v *View) Cursor() *ViewCursor {
	return &ViewCursor{view: v}
}

// Reversed walks the view backwards: settings in reverse insertion order,
// bindings in reverse append order.
func (v *View) Reversed() *ViewCursor {
	return &ViewCursor{view: v, reverse: true}
}

// ViewCursor iterates a view. It holds positions, not data: each Next
// consults the live registry, so elements inserted or removed mid-walk are
// observed, not snapshotted.
type ViewCursor struct {
	view    *View
	reverse bool
	ei, bi  int
	cur     any
	init    bool
}

func (c *ViewCursor) Next() bool {
	v := c.view
	entries := v.reg.entries
	if !c.init {
		c.init = true
		if c.reverse {
			c.ei = len(entries) - 1
		} else {
			c.ei = 0
		}
		c.bi = -1
	}
	if v.keysOnly() {
		if c.bi >= 0 {
			c.advanceEntry()
		}
		c.bi = 0
		if c.ei < 0 || c.ei >= len(entries) {
			c.cur = nil
			return false
		}
		c.cur = entries[c.ei].setting
		return true
	}
	for c.ei >= 0 && c.ei < len(entries) {
		e := entries[c.ei]
		next := c.nextBindingIndex(len(e.bindings))
		if next >= 0 && next < len(e.bindings) {
			c.bi = next
			c.cur = v.project(e, e.bindings[next])
			return true
		}
		c.advanceEntry()
		c.bi = -1
	}
	c.cur = nil
	return false
}

func (c *ViewCursor) nextBindingIndex(n int) int {
	if c.bi == -1 {
		if c.reverse {
			return n - 1
		}
		return 0
	}
	if c.reverse {
		return c.bi - 1
	}
	return c.bi + 1
}

func (c *ViewCursor) advanceEntry() {
	if c.reverse {
		c.ei--
	} else {
		c.ei++
	}
}

// Value returns the element the cursor is positioned on.
func (c *ViewCursor) Value() any { return c.cur }

// Collect materializes the view's current contents.
func (v *View) Collect() []any {
	var out []any
	for c := v.Cursor(); c.Next(); {
		out = append(out, c.Value())
	}
	return out
}

// Contains reports whether the view currently projects an element deeply
// equal to elem.
func (v *View) Contains(elem any) bool {
	for c := v.Cursor(); c.Next(); {
		if reflect.DeepEqual(c.Value(), elem) {
			return true
		}
	}
	return false
}

// Equal compares the view with another view, a []any, or a []string, as
// ordered sequences: same elements, same order. Other operand types compare
// unequal.
func (v *View) Equal(other any) bool {
	var elems []any
	switch o := other.(type) {
	case *View:
		elems = o.Collect()
	case []any:
		elems = o
	case []string:
		elems = make([]any, len(o))
		for i, s := range o {
			elems[i] = s
		}
	default:
		return false
	}
	i := 0
	for c := v.Cursor(); c.Next(); i++ {
		if i >= len(elems) || !reflect.DeepEqual(c.Value(), elems[i]) {
			return false
		}
	}
	return i == len(elems)
}

// SubsetOf reports whether the view is a strict subset of other. Subset
// comparison is only defined for the keys view, whose elements are
// guaranteed unique; any other view returns OperandError.
func (v *View) SubsetOf(other any) (bool, error) {
	if !v.keysOnly() {
		return false, &OperandError{Op: "SubsetOf", Operand: v}
	}
	elems, err := comparisonElems("SubsetOf", other)
	if err != nil {
		return false, err
	}
	mine := v.Collect()
	if len(mine) >= len(elems) {
		return false, nil
	}
	for _, m := range mine {
		if !containsElem(elems, m) {
			return false, nil
		}
	}
	return true, nil
}

// SupersetOf reports whether the view is a strict superset of other, under
// the same restrictions as SubsetOf.
func (v *View) SupersetOf(other any) (bool, error) {
	if !v.keysOnly() {
		return false, &OperandError{Op: "SupersetOf", Operand: v}
	}
	elems, err := comparisonElems("SupersetOf", other)
	if err != nil {
		return false, err
	}
	mine := v.Collect()
	if len(elems) >= len(mine) {
		return false, nil
	}
	for _, e := range elems {
		if !containsElem(mine, e) {
			return false, nil
		}
	}
	return true, nil
}

// IsDisjoint reports whether the view shares no element with other, under
// the same restrictions as SubsetOf.
func (v *View) IsDisjoint(other any) (bool, error) {
	if !v.keysOnly() {
		return false, &OperandError{Op: "IsDisjoint", Operand: v}
	}
	elems, err := comparisonElems("IsDisjoint", other)
	if err != nil {
		return false, err
	}
	for c := v.Cursor(); c.Next(); {
		if containsElem(elems, c.Value()) {
			return false, nil
		}
	}
	return true, nil
}

func comparisonElems(op string, other any) ([]any, error) {
	switch o := other.(type) {
	case *View:
		return o.Collect(), nil
	case []any:
		return o, nil
	case []string:
		elems := make([]any, len(o))
		for i, s := range o {
			elems[i] = s
		}
		return elems, nil
	default:
		return nil, &OperandError{Op: op, Operand: other}
	}
}

func containsElem(elems []any, elem any) bool {
	for _, e := range elems {
		if reflect.DeepEqual(e, elem) {
			return true
		}
	}
	return false
}

func (v *View) String() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%s.%s(", v.reg.schema.name, v.name)
	first := true
	for c := v.Cursor(); c.Next(); {
		if !first {
			buf.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&buf, "%v", c.Value())
	}
	buf.WriteByte(')')
	return buf.String()
}
