package bypass

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Column describes one value position of a binding. Add populates unbound
// settings from column defaults; Factory wins over Value when both are set,
// so mutable defaults get a fresh instance per binding.
type Column struct {
	Name    string
	Value   any
	Factory func() any
}

func (c Column) defaultValue() any {
	if c.Factory != nil {
		return c.Factory()
	}
	return c.Value
}

// ViewSpec is an ordered selection of columns, 0 being the setting itself
// and 1..Arity the binding values.
type ViewSpec []int

// Schema is the fixed, per-registry-kind declaration of binding arity,
// column defaults and named views. All registries of one kind share a
// single Schema; a Schema never changes after DefineSchema returns.
type Schema struct {
	name      string
	columns   []Column
	views     map[string]ViewSpec
	viewNames []string
}

type SchemaBuilder struct {
	scm          *Schema
	pendingViews []pendingView
}

type pendingView struct {
	name string
	spec ViewSpec
}

// DefineSchema declares a registry kind. The builder callback adds columns
// and custom views; the stable "keys", "values" and "items" views are always
// defined. Definition-time mistakes panic, since they are programmer errors
// made once at startup.
func DefineSchema(name string, f func(b *SchemaBuilder)) *Schema {
	scm := &Schema{
		name:  name,
		views: make(map[string]ViewSpec),
	}
	b := SchemaBuilder{scm: scm}
	if f != nil {
		f(&b)
	}
	if len(scm.columns) == 0 {
		panic(fmt.Sprintf("DefineSchema(%s): at least one column is required", name))
	}

	values := make(ViewSpec, 0, len(scm.columns))
	for i := range scm.columns {
		values = append(values, i+1)
	}
	items := append(ViewSpec{0}, values...)
	scm.addView("keys", ViewSpec{0})
	scm.addView("values", values)
	scm.addView("items", items)
	for _, pv := range b.pendingViews {
		scm.addView(pv.name, pv.spec)
	}
	return scm
}

func (scm *Schema) addView(name string, spec ViewSpec) {
	if strings.HasPrefix(name, "_") {
		panic(fmt.Sprintf("DefineSchema(%s): view names cannot start with an underscore", scm.name))
	}
	if _, dup := scm.views[name]; dup {
		panic(fmt.Sprintf("DefineSchema(%s): view %q already exists", scm.name, name))
	}
	for _, col := range spec {
		if col < 0 || col > len(scm.columns) {
			panic(fmt.Sprintf("DefineSchema(%s): view %q selects column %d, schema has 0..%d", scm.name, name, col, len(scm.columns)))
		}
	}
	scm.views[name] = spec
	scm.viewNames = append(scm.viewNames, name)
}

// Column adds a value column with a nil default.
func (b *SchemaBuilder) Column(name string) {
	b.addColumn(Column{Name: name})
}

// ColumnDefault adds a value column with a fixed default value. The value
// must be safe to share across bindings; use ColumnFactory for mutable
// defaults.
func (b *SchemaBuilder) ColumnDefault(name string, value any) {
	b.addColumn(Column{Name: name, Value: value})
}

// ColumnFactory adds a value column whose default is produced anew for each
// default-populated binding.
func (b *SchemaBuilder) ColumnFactory(name string, factory func() any) {
	b.addColumn(Column{Name: name, Factory: factory})
}

func (b *SchemaBuilder) addColumn(col Column) {
	if col.Name == "" {
		panic(fmt.Sprintf("DefineSchema(%s): column name cannot be empty", b.scm.name))
	}
	for _, existing := range b.scm.columns {
		if existing.Name == col.Name {
			panic(fmt.Sprintf("DefineSchema(%s): column %q already exists", b.scm.name, col.Name))
		}
	}
	b.scm.columns = append(b.scm.columns, col)
}

// View adds a named projection over the given columns, 0 selecting the
// setting itself.
func (b *SchemaBuilder) View(name string, columns ...int) {
	if len(columns) == 0 {
		panic(fmt.Sprintf("DefineSchema(%s): view %q selects no columns", b.scm.name, name))
	}
	b.pendingViews = append(b.pendingViews, pendingView{name, ViewSpec(columns)})
}

func (scm *Schema) Name() string { return scm.name }

// Arity returns the number of value columns, excluding the setting.
func (scm *Schema) Arity() int { return len(scm.columns) }

func (scm *Schema) Columns() []Column {
	return slices.Clone(scm.columns)
}

// ColumnNamed returns the position of a value column (1-based, matching
// ViewSpec numbering), or 0 if the schema has no such column.
func (scm *Schema) ColumnNamed(name string) int {
	for i, col := range scm.columns {
		if col.Name == name {
			return i + 1
		}
	}
	return 0
}

func (scm *Schema) ViewNames() []string {
	return slices.Clone(scm.viewNames)
}

func (scm *Schema) ViewNamed(name string) (ViewSpec, bool) {
	spec, ok := scm.views[name]
	return spec, ok
}

func (scm *Schema) checkBinding(b Binding) error {
	if len(b) != len(scm.columns) {
		return arityErr(scm, len(b))
	}
	return nil
}

func (scm *Schema) defaultBinding() Binding {
	b := make(Binding, len(scm.columns))
	for i, col := range scm.columns {
		b[i] = col.defaultValue()
	}
	return b
}

var baseSchema = sync.OnceValue(func() *Schema {
	return DefineSchema("base", func(b *SchemaBuilder) {
		b.ColumnFactory("pairs", func() any { return map[string]bool{} })
		b.Column("module")
		b.ColumnDefault("attr", "")
		b.View("pairs", 1)
		b.View("attributes", 2, 3)
	})
})

// BaseSchema returns the schema used by logging dispatchers: each setting
// carries the set of pairs that activate it, plus the module and attribute
// to resolve the override value from.
func BaseSchema() *Schema {
	return baseSchema()
}
