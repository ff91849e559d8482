package bypass

import "slices"

// The structural algebra lives in the in-place primitives; every
// non-mutating form is a copy-then-apply wrapper with no logic of its own.

func (r *Registry) checkOperand(op string, other *Registry) error {
	if other == nil {
		return &OperandError{Op: op, Operand: other}
	}
	if other.schema.Arity() != r.schema.Arity() {
		return &ArityMismatchError{Want: r.schema.Arity(), Got: other.schema.Arity()}
	}
	return nil
}

// Merge appends the operand's bindings into the receiver, walking the
// operand in its own order. Settings already present move to the end of the
// receiver's order before receiving the new bindings; absent settings are
// created at the end. Unbound operand settings are carried over.
func (r *Registry) Merge(other *Registry) error {
	return r.merge(other, false)
}

// MergeFront is the reflected merge: settings already present move to the
// front of the receiver's order instead of the end.
func (r *Registry) MergeFront(other *Registry) error {
	return r.merge(other, true)
}

func (r *Registry) merge(other *Registry, front bool) error {
	op := "Merge"
	if front {
		op = "MergeFront"
	}
	if err := r.checkOperand(op, other); err != nil {
		return err
	}
	if other == r {
		other = r.Copy(false)
	}
	for _, e := range other.entries {
		if r.byName[e.setting] != nil {
			if front {
				r.moveToFront(e.setting)
			} else {
				r.moveToEnd(e.setting)
			}
		}
		ne := r.ensureEntry(e.setting)
		ne.bindings = append(ne.bindings, e.bindings...)
	}
	return nil
}

// Merged returns a merged copy, leaving the receiver untouched.
func (r *Registry) Merged(other *Registry) (*Registry, error) {
	n := r.Copy(false)
	if err := n.Merge(other); err != nil {
		return nil, err
	}
	return n, nil
}

// Subtract removes every receiver binding equal to one of the operand's
// bindings for the same setting. A setting whose bindings are all removed
// stays present but unbound; only explicit removal drops a setting. Pair
// Subtract with Strip to drop vacated settings instead.
func (r *Registry) Subtract(other *Registry) error {
	if err := r.checkOperand("Subtract", other); err != nil {
		return err
	}
	for _, oe := range other.entries {
		e := r.byName[oe.setting]
		if e == nil {
			continue
		}
		kept := e.bindings[:0]
		for _, b := range e.bindings {
			if !containsBinding(oe.bindings, b) {
				kept = append(kept, b)
			}
		}
		e.bindings = kept
	}
	return nil
}

// Subtracted returns a subtracted copy, leaving the receiver untouched.
func (r *Registry) Subtracted(other *Registry) (*Registry, error) {
	n := r.Copy(false)
	if err := n.Subtract(other); err != nil {
		return nil, err
	}
	return n, nil
}

// RotateLeft moves every setting one position toward the front, the first
// setting wrapping around to the end. Bindings travel with their setting.
func (r *Registry) RotateLeft() {
	if len(r.entries) < 2 {
		return
	}
	first := r.entries[0]
	copy(r.entries, r.entries[1:])
	r.entries[len(r.entries)-1] = first
}

// RotateRight moves every setting one position toward the end, the last
// setting wrapping around to the front.
func (r *Registry) RotateRight() {
	if len(r.entries) < 2 {
		return
	}
	last := r.entries[len(r.entries)-1]
	copy(r.entries[1:], r.entries)
	r.entries[0] = last
}

// RotatedLeft returns a left-rotated copy.
func (r *Registry) RotatedLeft() *Registry {
	n := r.Copy(false)
	n.RotateLeft()
	return n
}

// RotatedRight returns a right-rotated copy.
func (r *Registry) RotatedRight() *Registry {
	n := r.Copy(false)
	n.RotateRight()
	return n
}

// FilterFewer returns a new registry keeping only settings with fewer than
// n bindings.
func (r *Registry) FilterFewer(n int) *Registry {
	return r.filterCount(func(c int) bool { return c < n })
}

// FilterMore returns a new registry keeping only settings with more than n
// bindings.
func (r *Registry) FilterMore(n int) *Registry {
	return r.filterCount(func(c int) bool { return c > n })
}

// FilterExactly returns a new registry keeping only settings with exactly n
// bindings.
func (r *Registry) FilterExactly(n int) *Registry {
	return r.filterCount(func(c int) bool { return c == n })
}

func (r *Registry) filterCount(keep func(int) bool) *Registry {
	n := New(r.schema)
	for _, e := range r.entries {
		if keep(len(e.bindings)) {
			ne := n.ensureEntry(e.setting)
			ne.bindings = slices.Clone(e.bindings)
		}
	}
	return n
}

// IntersectWith keeps only the (setting, binding) pairs present in both
// registries. Two entries with the same setting but different bindings are
// distinct pairs. A setting unbound in both registries survives; a setting
// left without any shared pair is removed.
func (r *Registry) IntersectWith(other *Registry) error {
	if err := r.checkOperand("IntersectWith", other); err != nil {
		return err
	}
	if other == r {
		return nil
	}
	for _, name := range r.Settings() {
		e := r.byName[name]
		oe := other.byName[name]
		if oe == nil {
			r.removeEntry(name)
			continue
		}
		if len(e.bindings) == 0 && len(oe.bindings) == 0 {
			continue
		}
		kept := e.bindings[:0]
		for _, b := range e.bindings {
			if containsBinding(oe.bindings, b) {
				kept = append(kept, b)
			}
		}
		e.bindings = kept
		if len(e.bindings) == 0 {
			r.removeEntry(name)
		}
	}
	return nil
}

// UnionWith adds every operand (setting, binding) pair missing from the
// receiver. Pairs already present are not duplicated; new settings append
// at the end in the operand's order.
func (r *Registry) UnionWith(other *Registry) error {
	if err := r.checkOperand("UnionWith", other); err != nil {
		return err
	}
	if other == r {
		return nil
	}
	for _, oe := range other.entries {
		e := r.ensureEntry(oe.setting)
		for _, b := range oe.bindings {
			if !containsBinding(e.bindings, b) {
				e.bindings = append(e.bindings, b)
			}
		}
	}
	return nil
}

// SymmetricDifferenceWith keeps the (setting, binding) pairs present in
// exactly one of the two registries. Settings whose pairs all cancel out
// are removed, so the symmetric difference of a registry with itself is
// empty.
func (r *Registry) SymmetricDifferenceWith(other *Registry) error {
	if err := r.checkOperand("SymmetricDifferenceWith", other); err != nil {
		return err
	}
	if other == r {
		r.Clear()
		return nil
	}
	for _, oe := range other.entries {
		e := r.byName[oe.setting]
		if e == nil {
			ne := r.ensureEntry(oe.setting)
			ne.bindings = slices.Clone(oe.bindings)
			continue
		}
		mine := e.bindings
		var kept []Binding
		for _, b := range mine {
			if !containsBinding(oe.bindings, b) {
				kept = append(kept, b)
			}
		}
		for _, b := range oe.bindings {
			if !containsBinding(mine, b) {
				kept = append(kept, b)
			}
		}
		if len(kept) == 0 {
			r.removeEntry(oe.setting)
		} else {
			e.bindings = kept
		}
	}
	return nil
}

// Intersect returns the intersection as a new registry.
func (r *Registry) Intersect(other *Registry) (*Registry, error) {
	n := r.Copy(false)
	if err := n.IntersectWith(other); err != nil {
		return nil, err
	}
	return n, nil
}

// Union returns the union as a new registry.
func (r *Registry) Union(other *Registry) (*Registry, error) {
	n := r.Copy(false)
	if err := n.UnionWith(other); err != nil {
		return nil, err
	}
	return n, nil
}

// SymmetricDifference returns the symmetric difference as a new registry.
func (r *Registry) SymmetricDifference(other *Registry) (*Registry, error) {
	n := r.Copy(false)
	if err := n.SymmetricDifferenceWith(other); err != nil {
		return nil, err
	}
	return n, nil
}
