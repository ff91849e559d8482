package bypass

import (
	"errors"
	"fmt"
)

// ErrSettingExists is returned by Rename when the new name is already taken.
var ErrSettingExists = errors.New("setting already exists")

// ArityError indicates a binding or row whose length does not match the
// schema's declared arity. More is set when the input was consumed lazily
// and abandoned past Got values, so the exact length is unknown.
type ArityError struct {
	Schema *Schema
	Got    int
	More   bool
}

func arityErr(scm *Schema, got int) error {
	return &ArityError{Schema: scm, Got: got}
}

func (e *ArityError) Error() string {
	if e.More {
		return fmt.Sprintf("%s: binding of more than %d values, schema declares %d", e.Schema.Name(), e.Got, e.Schema.Arity())
	}
	return fmt.Sprintf("%s: binding of %d values, schema declares %d", e.Schema.Name(), e.Got, e.Schema.Arity())
}

// KeyShapeError indicates an input that cannot carry a row or a setting:
// an unordered aggregate (a set-like map), a string or byte slice supplied
// where a field sequence was expected, or a non-string setting.
type KeyShapeError struct {
	Value any
	Msg   string
}

func keyShapeErrf(value any, format string, args ...any) error {
	return &KeyShapeError{Value: value, Msg: fmt.Sprintf(format, args...)}
}

func (e *KeyShapeError) Error() string {
	return fmt.Sprintf("%s (got %T)", e.Msg, e.Value)
}

// NotFoundError indicates a lookup or removal of an absent setting.
type NotFoundError struct {
	Setting string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("setting %q not found", e.Setting)
}

// PositionError indicates a positional index outside [-len, len).
type PositionError struct {
	Pos int
	Len int
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("position %d out of range for %d settings", e.Pos, e.Len)
}

// IndexShapeError indicates an index outside the five recognized forms
// (setting name, position, Tuple, Span, wildcard), or a Span with a zero
// step.
type IndexShapeError struct {
	Index any
}

func (e *IndexShapeError) Error() string {
	return fmt.Sprintf("%T is not a supported index", e.Index)
}

// ArityMismatchError indicates an attempt to combine two registries whose
// schemas disagree on arity.
type ArityMismatchError struct {
	Want int
	Got  int
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("registry arity mismatch: have %d, operand has %d", e.Want, e.Got)
}

// OperandError indicates a structural operation applied to an operand it is
// not defined for (a nil registry, or a comparison a view does not support).
type OperandError struct {
	Op      string
	Operand any
}

func (e *OperandError) Error() string {
	return fmt.Sprintf("%s: unsupported operand %T", e.Op, e.Operand)
}
