package bypass

import "slices"

// Tuple is the composite index form: a mix of setting names, positions,
// spans and the wildcard, resolved left to right with first-occurrence
// de-duplication. Settings that resolve to nothing are silently skipped.
type Tuple []any

type wildcard struct{}

// All is the wildcard index: it selects every binding across every setting,
// in setting-insertion order, bindings-within-setting order.
var All = wildcard{}

// Span selects settings by position range. The constructors use mnemonics:
// SpanAll covers everything, SpanFrom and SpanTo leave one bound open,
// SpanOf sets both. By sets the step; a negative step walks in reverse.
type Span struct {
	start, stop, step          int
	hasStart, hasStop, hasStep bool
}

func SpanAll() Span           { return Span{} }
func SpanFrom(start int) Span { return Span{start: start, hasStart: true} }
func SpanTo(stop int) Span    { return Span{stop: stop, hasStop: true} }
func SpanOf(start, stop int) Span {
	return Span{start: start, stop: stop, hasStart: true, hasStop: true}
}

func (s Span) By(step int) Span {
	s.step = step
	s.hasStep = true
	return s
}

// indices clamps the span to a container of n settings under standard
// slice semantics, including negative positions and steps.
func (s Span) indices(n int) (start, stop, step int, err error) {
	step = 1
	if s.hasStep {
		if s.step == 0 {
			return 0, 0, 0, &IndexShapeError{Index: s}
		}
		step = s.step
	}
	if step > 0 {
		start, stop = 0, n
	} else {
		start, stop = n-1, -1
	}
	if s.hasStart {
		start = clampSpanBound(s.start, n, step)
	}
	if s.hasStop {
		stop = clampSpanBound(s.stop, n, step)
	}
	return start, stop, step, nil
}

func clampSpanBound(bound, n, step int) int {
	if bound < 0 {
		bound += n
		if bound < 0 {
			if step > 0 {
				return 0
			}
			return -1
		}
		return bound
	}
	if bound >= n {
		if step > 0 {
			return n
		}
		return n - 1
	}
	return bound
}

// Select resolves one of the five index forms:
//
//   - a setting name returns the ordered []Binding for that setting, or
//     NotFoundError when absent;
//   - an int returns the setting name at that position (negative counts
//     from the end), or PositionError when out of range;
//   - a Span returns the []string of settings it covers;
//   - a Tuple returns a flattened []Binding across every setting it
//     resolves, de-duplicated by first occurrence, silently ignoring
//     absent settings;
//   - All returns every binding flattened, as []Binding.
//
// Any other index shape fails with IndexShapeError.
func (r *Registry) Select(index any) (any, error) {
	switch idx := index.(type) {
	case string:
		e := r.byName[idx]
		if e == nil {
			return nil, &NotFoundError{Setting: idx}
		}
		return slices.Clone(e.bindings), nil
	case int:
		return r.KeyAt(idx)
	case Span:
		return r.spanSettings(idx)
	case Tuple:
		return r.Gather(idx...)
	case wildcard:
		return r.AllBindings(), nil
	default:
		return nil, &IndexShapeError{Index: index}
	}
}

// Gather implements the tuple index form: bindings of every resolved
// setting, flattened in resolution order, each setting contributing once.
func (r *Registry) Gather(parts ...any) ([]Binding, error) {
	done := make(map[string]bool, len(parts))
	var out []Binding
	take := func(name string) {
		if done[name] {
			return
		}
		done[name] = true
		if e := r.byName[name]; e != nil {
			out = append(out, e.bindings...)
		}
	}
	for _, part := range parts {
		switch p := part.(type) {
		case string:
			take(p)
		case int:
			name, err := r.KeyAt(p)
			if err != nil {
				continue // out-of-range positions are skipped inside a tuple
			}
			take(name)
		case Span:
			names, err := r.spanSettings(p)
			if err != nil {
				return nil, err
			}
			for _, name := range names {
				take(name)
			}
		case wildcard:
			for _, e := range r.entries {
				take(e.setting)
			}
		default:
			return nil, &IndexShapeError{Index: part}
		}
	}
	return out, nil
}

// AllBindings implements the wildcard index form.
func (r *Registry) AllBindings() []Binding {
	var out []Binding
	for _, e := range r.entries {
		out = append(out, e.bindings...)
	}
	return out
}

func (r *Registry) spanSettings(s Span) ([]string, error) {
	start, stop, step, err := s.indices(len(r.entries))
	if err != nil {
		return nil, err
	}
	var names []string
	if step > 0 {
		for i := start; i < stop; i += step {
			names = append(names, r.entries[i].setting)
		}
	} else {
		for i := start; i > stop; i += step {
			names = append(names, r.entries[i].setting)
		}
	}
	return names, nil
}

// Assign writes through the same five index forms:
//
//   - a setting name renames that setting to target;
//   - an int moves target to that position;
//   - a Tuple, Span or All merges every binding of the resolved settings
//     into target, in resolution order, and removes the vacated settings.
func (r *Registry) Assign(index any, target string) error {
	switch idx := index.(type) {
	case string:
		return r.Rename(idx, target)
	case int:
		return r.Move(target, idx)
	case Span, Tuple, wildcard:
		names, err := r.resolveSettings(idx)
		if err != nil {
			return err
		}
		r.mergeInto(target, names)
		return nil
	default:
		return &IndexShapeError{Index: index}
	}
}

// Delete removes through the same five index forms:
//
//   - a setting name removes that setting, NotFoundError when absent;
//   - an int removes the setting at that position, PositionError when out
//     of range;
//   - a Tuple removes every setting it resolves, ignoring absent ones; a
//     tuple containing the wildcard clears the registry;
//   - a Span removes the settings it covers;
//   - All clears the registry.
func (r *Registry) Delete(index any) error {
	switch idx := index.(type) {
	case string:
		return r.Remove(idx)
	case int:
		name, err := r.KeyAt(idx)
		if err != nil {
			return err
		}
		r.removeEntry(name)
		return nil
	case Span, Tuple:
		names, err := r.resolveSettings(idx)
		if err != nil {
			return err
		}
		for _, name := range names {
			r.removeEntry(name)
		}
		return nil
	case wildcard:
		r.Clear()
		return nil
	default:
		return &IndexShapeError{Index: index}
	}
}

// resolveSettings flattens a composite index into present setting names,
// first occurrence wins, absent settings and out-of-range positions
// skipped. A wildcard anywhere resolves to every setting.
func (r *Registry) resolveSettings(index any) ([]string, error) {
	switch idx := index.(type) {
	case Span:
		return r.spanSettings(idx)
	case wildcard:
		return r.Settings(), nil
	case Tuple:
		done := make(map[string]bool, len(idx))
		var names []string
		take := func(name string) {
			if done[name] {
				return
			}
			done[name] = true
			if r.byName[name] != nil {
				names = append(names, name)
			}
		}
		for _, part := range idx {
			switch p := part.(type) {
			case string:
				take(p)
			case int:
				name, err := r.KeyAt(p)
				if err != nil {
					continue
				}
				take(name)
			case Span:
				covered, err := r.spanSettings(p)
				if err != nil {
					return nil, err
				}
				for _, name := range covered {
					take(name)
				}
			case wildcard:
				return r.Settings(), nil
			default:
				return nil, &IndexShapeError{Index: part}
			}
		}
		return names, nil
	default:
		return nil, &IndexShapeError{Index: index}
	}
}

// mergeInto appends the named settings' bindings to target and removes the
// vacated settings. The target itself is never vacated, and it is created
// unbound if it did not exist and no bindings flow into it.
func (r *Registry) mergeInto(target string, sources []string) {
	var moved []Binding
	for _, name := range sources {
		if name == target {
			continue
		}
		if e := r.byName[name]; e != nil {
			moved = append(moved, e.bindings...)
			r.removeEntry(name)
		}
	}
	e := r.ensureEntry(target)
	e.bindings = append(e.bindings, moved...)
}
