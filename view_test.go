package bypass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewLiveness(t *testing.T) {
	r := New(pairSchema())
	keys := r.Keys()
	assert.Empty(t, keys.Collect())

	require.NoError(t, r.InsertBinding("late", Binding{"m", "1"}))
	assert.Equal(t, []any{"late"}, keys.Collect(), "views re-derive from the registry; no recreation needed")

	require.NoError(t, r.Remove("late"))
	assert.Empty(t, keys.Collect())
}

func TestViewAccessors(t *testing.T) {
	r := New(pairSchema())
	assert.Same(t, r.Keys(), r.View("keys"), "views are created once per instance")
	assert.NotNil(t, r.Values())
	assert.NotNil(t, r.Items())
	assert.Nil(t, r.View("nope"))
}

func TestKeysViewProjection(t *testing.T) {
	r := mustFromRows(t, pairSchema(),
		[]any{"a", "m", "1"},
		[]any{"a", "m", "2"},
		[]any{"b", "n", "3"})
	r.ensureEntry("unbound")

	// The keys view emits each setting once, bound or not.
	assert.Equal(t, []any{"a", "b", "unbound"}, r.Keys().Collect())
	assert.Equal(t, 3, r.Keys().Len())
}

func TestValuesViewProjection(t *testing.T) {
	r := mustFromRows(t, pairSchema(),
		[]any{"a", "m", "1"},
		[]any{"a", "m", "2"},
		[]any{"b", "n", "3"})
	r.ensureEntry("unbound")

	// One element per binding; unbound settings contribute nothing.
	assert.Equal(t, []any{
		[]any{"m", "1"},
		[]any{"m", "2"},
		[]any{"n", "3"},
	}, r.Values().Collect())
	assert.Equal(t, 3, r.Values().Len())
}

func TestItemsViewProjection(t *testing.T) {
	r := mustFromRows(t, pairSchema(),
		[]any{"a", "m", "1"},
		[]any{"b", "n", "2"})

	assert.Equal(t, []any{
		[]any{"a", "m", "1"},
		[]any{"b", "n", "2"},
	}, r.Items().Collect())
}

func TestSingleColumnViewProjectsBareValues(t *testing.T) {
	scm := DefineSchema("single", func(b *SchemaBuilder) {
		b.Column("module")
		b.Column("attr")
		b.View("modules", 1)
	})
	r := mustFromRows(t, scm,
		[]any{"a", "ma", "1"},
		[]any{"b", "mb", "2"})

	assert.Equal(t, []any{"ma", "mb"}, r.View("modules").Collect())
}

func TestCustomMultiColumnView(t *testing.T) {
	scm := DefineSchema("multi", func(b *SchemaBuilder) {
		b.Column("module")
		b.Column("attr")
		b.View("attributes", 1, 2)
		b.View("flipped", 2, 0)
	})
	r := mustFromRows(t, scm, []any{"a", "ma", "x"})

	assert.Equal(t, []any{[]any{"ma", "x"}}, r.View("attributes").Collect())
	assert.Equal(t, []any{[]any{"x", "a"}}, r.View("flipped").Collect())
}

func TestViewReversed(t *testing.T) {
	r := mustFromRows(t, pairSchema(),
		[]any{"a", "m", "1"},
		[]any{"a", "m", "2"},
		[]any{"b", "n", "3"})

	var keys []any
	for c := r.Keys().Reversed(); c.Next(); {
		keys = append(keys, c.Value())
	}
	assert.Equal(t, []any{"b", "a"}, keys)

	var values []any
	for c := r.Values().Reversed(); c.Next(); {
		values = append(values, c.Value())
	}
	assert.Equal(t, []any{
		[]any{"n", "3"},
		[]any{"m", "2"},
		[]any{"m", "1"},
	}, values, "reverse walks settings and bindings backwards")
}

func TestViewContains(t *testing.T) {
	r := mustFromRows(t, pairSchema(), []any{"a", "m", "1"})

	assert.True(t, r.Keys().Contains("a"))
	assert.False(t, r.Keys().Contains("z"))
	assert.True(t, r.Values().Contains([]any{"m", "1"}))
	assert.False(t, r.Values().Contains([]any{"m", "2"}))
}

func TestViewEqual(t *testing.T) {
	r := mustFromRows(t, pairSchema(),
		[]any{"a", "m", "1"},
		[]any{"b", "n", "2"})
	other := mustFromRows(t, pairSchema(),
		[]any{"a", "x", "x"},
		[]any{"b", "y", "y"})

	assert.True(t, r.Keys().Equal([]string{"a", "b"}))
	assert.False(t, r.Keys().Equal([]string{"b", "a"}), "equality is ordered")
	assert.False(t, r.Keys().Equal([]string{"a"}))
	assert.True(t, r.Keys().Equal(other.Keys()))
	assert.False(t, r.Keys().Equal(42))
	assert.True(t, r.Values().Equal([]any{[]any{"m", "1"}, []any{"n", "2"}}))
}

func TestViewSubsetSuperset(t *testing.T) {
	r := mustFromRows(t, pairSchema(),
		[]any{"a", "m", "1"},
		[]any{"b", "n", "2"})

	ok, err := r.Keys().SubsetOf([]string{"a", "b", "c"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Keys().SubsetOf([]string{"a", "b"})
	require.NoError(t, err)
	assert.False(t, ok, "subset is strict")

	ok, err = r.Keys().SupersetOf([]string{"a"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Keys().IsDisjoint([]string{"x", "y"})
	require.NoError(t, err)
	assert.True(t, ok)

	// Only the keys view guarantees duplicate-free elements; every other
	// view reports the comparison as unsupported.
	var operand *OperandError
	_, err = r.Values().SubsetOf([]string{"a"})
	require.ErrorAs(t, err, &operand)
	assert.Equal(t, "SubsetOf", operand.Op)
	_, err = r.Items().SupersetOf([]string{"a"})
	assert.ErrorAs(t, err, &operand)
	_, err = r.Values().IsDisjoint([]string{"a"})
	assert.ErrorAs(t, err, &operand)

	_, err = r.Keys().SubsetOf(42)
	assert.ErrorAs(t, err, &operand)
}

func TestViewString(t *testing.T) {
	r := mustFromRows(t, pairSchema(), []any{"a", "m", "1"})
	assert.Equal(t, "pair.keys(a)", r.Keys().String())
}

func TestViewSpecIsACopy(t *testing.T) {
	r := New(pairSchema())
	spec := r.Items().Spec()
	spec[0] = 99
	assert.Equal(t, ViewSpec{0, 1, 2}, r.Items().Spec())
}
