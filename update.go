package bypass

import (
	"context"
	"iter"
	"log/slog"
	"reflect"
	"sort"
)

const debugLogUpdates = false

// Update applies any number of rows or row sources in order. Each argument
// may be:
//
//   - a compatible *Registry: its settings and bindings are appended;
//   - a map keyed by setting: each value is one binding ([]any or Binding),
//     a list of bindings, or nil for an unbound setting;
//   - a flat []any or Binding row: setting first, then arity values;
//   - an iter.Seq[any]: a single row consumed lazily, validated one value at
//     a time so that even an infinite sequence fails cleanly.
//
// Set-like maps (struct{} values) and strings or byte slices supplied as
// rows are rejected with KeyShapeError before any part of the offending
// element is applied. Update is prefix-applied: rows preceding a failing one
// stay in place.
func (r *Registry) Update(rows ...any) error {
	for _, row := range rows {
		if err := r.updateOne(row); err != nil {
			return err
		}
	}
	return nil
}

// UpdateSeq consumes a lazy stream of rows, dispatching each element the
// same way Update does.
func (r *Registry) UpdateSeq(seq iter.Seq[any]) error {
	for row := range seq {
		if err := r.updateOne(row); err != nil {
			return err
		}
	}
	return nil
}

// FromRows constructs a registry and applies the given rows.
func FromRows(scm *Schema, rows ...any) (*Registry, error) {
	r := New(scm)
	if err := r.Update(rows...); err != nil {
		return nil, err
	}
	return r, nil
}

// FromMap constructs a registry from a setting-to-bindings association.
func FromMap(scm *Schema, m map[string]any) (*Registry, error) {
	r := New(scm)
	if err := r.updateFromAssoc(m); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) updateOne(row any) error {
	if debugLogUpdates {
		logger().LogAttrs(context.Background(), slog.LevelDebug, "update row",
			slog.String("registry", r.schema.name), slog.Any("row", row))
	}
	switch v := row.(type) {
	case nil:
		return keyShapeErrf(row, "nil is not a row")
	case *Registry:
		return r.updateFromRegistry(v)
	case Binding:
		return r.updateFromRow(v)
	case []any:
		return r.updateFromRow(v)
	case map[string]any:
		return r.updateFromAssoc(v)
	case iter.Seq[any]:
		return r.updateFromSeq(v)
	case string, []byte:
		return keyShapeErrf(row, "strings and byte slices iterate into characters, not fields; pass a field sequence")
	}
	return r.updateReflect(row)
}

// updateReflect handles row shapes outside the fast paths: typed slices
// (say, []string), typed maps, and set-like maps, which have no defined
// order and are rejected.
func (r *Registry) updateReflect(row any) error {
	rv := reflect.ValueOf(row)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		generic := make([]any, rv.Len())
		for i := range generic {
			generic[i] = rv.Index(i).Interface()
		}
		return r.updateFromRow(generic)
	case reflect.Map:
		if rv.Type().Elem().Kind() == reflect.Struct && rv.Type().Elem().NumField() == 0 {
			return keyShapeErrf(row, "no order defined for set-like maps")
		}
		if rv.Type().Key().Kind() != reflect.String {
			return keyShapeErrf(row, "association keys must be strings")
		}
		assoc := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			assoc[iter.Key().String()] = iter.Value().Interface()
		}
		return r.updateFromAssoc(assoc)
	default:
		return keyShapeErrf(row, "not an ordered field sequence")
	}
}

func (r *Registry) updateFromRow(row []any) error {
	if len(row) == 0 {
		return keyShapeErrf(row, "empty row")
	}
	if len(row) != r.schema.Arity()+1 {
		return arityErr(r.schema, len(row)-1)
	}
	setting, err := settingOf(row[0])
	if err != nil {
		return err
	}
	binding := make(Binding, len(row)-1)
	copy(binding, row[1:])
	e := r.ensureEntry(setting)
	e.bindings = append(e.bindings, binding)
	return nil
}

// updateFromAssoc applies a setting-to-value(s) association. Map order is
// not defined in Go, so settings are applied in sorted name order; callers
// that care about insertion order should pass rows instead.
func (r *Registry) updateFromAssoc(m map[string]any) error {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := r.updateAssocValue(name, m[name]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) updateAssocValue(name string, value any) error {
	switch v := value.(type) {
	case nil:
		r.ensureEntry(name)
		return nil
	case Binding:
		return r.InsertBinding(name, v.clone())
	case []any:
		return r.InsertBinding(name, Binding(v).clone())
	case []Binding:
		for _, b := range v {
			if err := r.InsertBinding(name, b.clone()); err != nil {
				return err
			}
		}
		return nil
	case [][]any:
		for _, b := range v {
			if err := r.InsertBinding(name, Binding(b).clone()); err != nil {
				return err
			}
		}
		return nil
	case *Registry:
		return keyShapeErrf(value, "cannot nest a registry inside an association")
	case map[string]any:
		return keyShapeErrf(value, "cannot nest associations")
	case string, []byte:
		return keyShapeErrf(value, "strings and byte slices iterate into characters, not fields; pass a field sequence")
	default:
		rv := reflect.ValueOf(value)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			binding := make(Binding, rv.Len())
			for i := range binding {
				binding[i] = rv.Index(i).Interface()
			}
			return r.InsertBinding(name, binding)
		case reflect.Map:
			return keyShapeErrf(value, "cannot nest associations")
		default:
			if r.schema.Arity() == 1 {
				return r.InsertBinding(name, Binding{value})
			}
			return keyShapeErrf(value, "association values must be bindings or lists of bindings")
		}
	}
}

func (r *Registry) updateFromRegistry(other *Registry) error {
	if other == nil {
		return &OperandError{Op: "Update", Operand: other}
	}
	if other.schema.Arity() != r.schema.Arity() {
		return &ArityMismatchError{Want: r.schema.Arity(), Got: other.schema.Arity()}
	}
	if other == r {
		other = r.Copy(false)
	}
	for _, e := range other.entries {
		ne := r.ensureEntry(e.setting)
		ne.bindings = append(ne.bindings, e.bindings...)
	}
	return nil
}

// updateFromSeq consumes one lazy row: the setting, then exactly arity
// values. It pulls at most arity+2 elements, so an infinite sequence fails
// with ArityError instead of hanging.
func (r *Registry) updateFromSeq(seq iter.Seq[any]) error {
	next, stop := iter.Pull(seq)
	defer stop()

	first, ok := next()
	if !ok {
		return keyShapeErrf(seq, "empty sequence passed as a row")
	}
	setting, err := settingOf(first)
	if err != nil {
		return err
	}
	arity := r.schema.Arity()
	binding := make(Binding, 0, arity)
	for i := 0; i < arity; i++ {
		v, ok := next()
		if !ok {
			return arityErr(r.schema, i)
		}
		binding = append(binding, v)
	}
	if _, extra := next(); extra {
		return &ArityError{Schema: r.schema, Got: arity, More: true}
	}
	e := r.ensureEntry(setting)
	e.bindings = append(e.bindings, binding)
	return nil
}

func settingOf(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	default:
		return "", keyShapeErrf(v, "setting must be a string")
	}
}

func (b Binding) clone() Binding {
	n := make(Binding, len(b))
	copy(n, b)
	return n
}
