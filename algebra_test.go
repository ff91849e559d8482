package bypass

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeAppendsAndReorders(t *testing.T) {
	scm := pairSchema()
	a := mustFromRows(t, scm,
		[]any{"x", "m", "1"},
		[]any{"y", "m", "2"})
	b := mustFromRows(t, scm,
		[]any{"x", "m", "3"},
		[]any{"z", "m", "4"})

	require.NoError(t, a.Merge(b))
	assert.Equal(t, []string{"y", "x", "z"}, a.Settings(), "met settings move to the end")
	assert.Equal(t, []Binding{{"m", "1"}, {"m", "3"}}, a.Get("x"))
	assert.Equal(t, []Binding{{"m", "4"}}, a.Get("z"))
}

func TestMergeFrontReorders(t *testing.T) {
	scm := pairSchema()
	a := mustFromRows(t, scm,
		[]any{"x", "m", "1"},
		[]any{"y", "m", "2"})
	b := mustFromRows(t, scm, []any{"y", "m", "3"})

	require.NoError(t, a.MergeFront(b))
	assert.Equal(t, []string{"y", "x"}, a.Settings(), "met settings move to the front")
	assert.Equal(t, []Binding{{"m", "2"}, {"m", "3"}}, a.Get("y"))
}

func TestMergeSelf(t *testing.T) {
	a := mustFromRows(t, pairSchema(),
		[]any{"x", "m", "1"},
		[]any{"y", "m", "2"})

	require.NoError(t, a.Merge(a))
	assert.Equal(t, []string{"x", "y"}, a.Settings())
	assert.Equal(t, []Binding{{"m", "1"}, {"m", "1"}}, a.Get("x"), "self-merge duplicates each binding")
	assert.Equal(t, 2, a.Count("y"))
}

func TestMergedLeavesReceiverUntouched(t *testing.T) {
	scm := pairSchema()
	a := mustFromRows(t, scm, []any{"x", "m", "1"})
	b := mustFromRows(t, scm, []any{"y", "m", "2"})

	merged, err := a.Merged(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, merged.Settings())
	assert.Equal(t, []string{"x"}, a.Settings())
}

func TestMergeCarriesUnboundSettings(t *testing.T) {
	scm := pairSchema()
	a := New(scm)
	b := New(scm)
	b.ensureEntry("unbound")

	require.NoError(t, a.Merge(b))
	assert.True(t, a.Contains("unbound"))
	assert.Equal(t, 0, a.Count("unbound"))
}

func TestSubtractKeepsVacatedSettings(t *testing.T) {
	scm := pairSchema()
	a := mustFromRows(t, scm,
		[]any{"x", "m", "1"},
		[]any{"x", "m", "2"},
		[]any{"y", "m", "3"})
	b := mustFromRows(t, scm,
		[]any{"x", "m", "1"},
		[]any{"x", "m", "2"},
		[]any{"z", "m", "9"})

	require.NoError(t, a.Subtract(b))
	assert.True(t, a.Contains("x"), "a setting emptied by subtraction stays present, unbound")
	assert.Equal(t, 0, a.Count("x"))
	assert.Equal(t, []Binding{{"m", "3"}}, a.Get("y"))

	// The other policy is an explicit follow-up, not part of Subtract.
	a.Strip()
	assert.Equal(t, []string{"y"}, a.Settings())
}

func TestRotate(t *testing.T) {
	r := mustFromRows(t, pairSchema(),
		[]any{"a", "m", "1"},
		[]any{"b", "m", "2"},
		[]any{"c", "m", "3"})

	r.RotateRight()
	assert.Equal(t, []string{"c", "a", "b"}, r.Settings())
	assert.Equal(t, []Binding{{"m", "3"}}, r.Get("c"), "bindings travel with their setting")

	r.RotateLeft()
	assert.Equal(t, []string{"a", "b", "c"}, r.Settings())

	rotated := r.RotatedLeft()
	assert.Equal(t, []string{"b", "c", "a"}, rotated.Settings())
	assert.Equal(t, []string{"a", "b", "c"}, r.Settings())
}

func TestRotateDegenerate(t *testing.T) {
	r := mustFromRows(t, pairSchema(), []any{"only", "m", "1"})
	r.RotateLeft()
	r.RotateRight()
	assert.Equal(t, []string{"only"}, r.Settings())

	empty := New(pairSchema())
	empty.RotateRight()
	assert.Equal(t, 0, empty.Len())
}

func TestFilters(t *testing.T) {
	r := mustFromRows(t, pairSchema(),
		[]any{"one", "m", "1"},
		[]any{"two", "m", "1"},
		[]any{"two", "m", "2"})
	r.ensureEntry("zero")

	assert.Equal(t, []string{"one", "zero"}, r.FilterFewer(2).Settings())
	assert.Equal(t, []string{"two"}, r.FilterMore(1).Settings())
	assert.Equal(t, []string{"one"}, r.FilterExactly(1).Settings())
	assert.Equal(t, []string{"zero"}, r.FilterExactly(0).Settings())

	// Filters return new instances.
	assert.Equal(t, 3, r.Len())
}

func TestIntersectSelf(t *testing.T) {
	a := mustFromRows(t, pairSchema(),
		[]any{"x", "m", "1"},
		[]any{"y", "m", "2"})
	a.ensureEntry("unbound")

	got, err := a.Intersect(a)
	require.NoError(t, err)
	assert.True(t, got.Equal(a), "A & A == A")
}

func TestIntersectPairGranularity(t *testing.T) {
	scm := pairSchema()
	a := mustFromRows(t, scm,
		[]any{"x", "m", "1"},
		[]any{"x", "m", "2"},
		[]any{"y", "m", "3"})
	b := mustFromRows(t, scm,
		[]any{"x", "m", "2"},
		[]any{"z", "m", "9"})

	got, err := a.Intersect(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, got.Settings(), "same setting, different bindings are distinct pairs")
	assert.Equal(t, []Binding{{"m", "2"}}, got.Get("x"))
	assert.Equal(t, 2, a.Count("x"), "non-mutating form leaves the receiver untouched")
}

func TestSymmetricDifferenceSelfIsEmpty(t *testing.T) {
	a := mustFromRows(t, pairSchema(),
		[]any{"x", "m", "1"},
		[]any{"y", "m", "2"})

	got, err := a.SymmetricDifference(a)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len(), "A ^ A is empty")
}

func TestSymmetricDifference(t *testing.T) {
	scm := pairSchema()
	a := mustFromRows(t, scm,
		[]any{"x", "m", "1"},
		[]any{"x", "m", "2"},
		[]any{"y", "m", "3"})
	b := mustFromRows(t, scm,
		[]any{"x", "m", "2"},
		[]any{"x", "m", "9"},
		[]any{"z", "m", "4"})

	got, err := a.SymmetricDifference(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, got.Settings())
	assert.Equal(t, []Binding{{"m", "1"}, {"m", "9"}}, got.Get("x"))
	assert.Equal(t, []Binding{{"m", "3"}}, got.Get("y"))
	assert.Equal(t, []Binding{{"m", "4"}}, got.Get("z"))
}

func TestUnion(t *testing.T) {
	scm := pairSchema()
	a := mustFromRows(t, scm,
		[]any{"x", "m", "1"},
		[]any{"y", "m", "2"})
	b := mustFromRows(t, scm,
		[]any{"x", "m", "1"},
		[]any{"x", "m", "9"},
		[]any{"z", "m", "3"})

	got, err := a.Union(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, got.Settings())
	assert.Equal(t, []Binding{{"m", "1"}, {"m", "9"}}, got.Get("x"), "shared pairs are not duplicated")

	self, err := a.Union(a)
	require.NoError(t, err)
	if diff := cmp.Diff(a.Rows(), self.Rows()); diff != "" {
		t.Errorf("A | A differs from A:\n%s", diff)
	}
}

func TestAlgebraOperandChecks(t *testing.T) {
	wide := DefineSchema("wide3", func(b *SchemaBuilder) {
		b.Column("a")
		b.Column("b")
		b.Column("c")
	})
	r := New(pairSchema())

	var operand *OperandError
	require.ErrorAs(t, r.Merge(nil), &operand)
	assert.Equal(t, "Merge", operand.Op)

	var mismatch *ArityMismatchError
	require.ErrorAs(t, r.Merge(New(wide)), &mismatch)
	assert.ErrorAs(t, r.Subtract(New(wide)), &mismatch)
	assert.ErrorAs(t, r.IntersectWith(New(wide)), &mismatch)
	assert.ErrorAs(t, r.UnionWith(New(wide)), &mismatch)
	assert.ErrorAs(t, r.SymmetricDifferenceWith(New(wide)), &mismatch)

	_, err := r.Intersect(nil)
	assert.ErrorAs(t, err, &operand)
}
