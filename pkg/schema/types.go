// Package schema defines the assembled table model the DBML renderer reads.
package schema

// Column is a rendered column and its attribute flags.
type Column struct {
	Name string
	// Type is the DBML type token; empty when the field kind has no mapping.
	Type   string
	Note   string
	Null   bool
	PK     bool
	Unique bool
}

// Table is an assembled table. Columns are keyed by name and keep the order
// in which they were first set.
type Table struct {
	Name      string
	Note      string
	Relations []Relation
	columns   []Column
	index     map[string]int
}

// NewTable creates an empty table.
func NewTable(name string) *Table {
	return &Table{Name: name, index: make(map[string]int)}
}

// SetColumn adds a column, replacing one with the same name in place.
func (t *Table) SetColumn(c Column) {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if i, ok := t.index[c.Name]; ok {
		t.columns[i] = c
		return
	}
	t.index[c.Name] = len(t.columns)
	t.columns = append(t.columns, c)
}

// Columns returns the table's columns in order.
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// GetColumn returns a column by name.
func (t *Table) GetColumn(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

// AddRelation appends a relation owned by this table.
func (t *Table) AddRelation(rel Relation) {
	t.Relations = append(t.Relations, rel)
}

func (t *Table) reset() {
	t.Note = ""
	t.Relations = nil
	t.columns = nil
	t.index = make(map[string]int)
}

// Tables is an insertion-ordered set of tables keyed by name.
type Tables struct {
	order  []string
	byName map[string]*Table
}

// NewTables creates an empty table map.
func NewTables() *Tables {
	return &Tables{byName: make(map[string]*Table)}
}

// Has reports whether a table with the given name exists.
func (ts *Tables) Has(name string) bool {
	_, ok := ts.byName[name]
	return ok
}

// Get returns a table by name, or nil.
func (ts *Tables) Get(name string) *Table {
	return ts.byName[name]
}

// Add creates a table, or returns the existing one untouched.
func (ts *Tables) Add(name string) *Table {
	if t, ok := ts.byName[name]; ok {
		return t
	}
	t := NewTable(name)
	ts.order = append(ts.order, name)
	ts.byName[name] = t
	return t
}

// Reset creates a table or empties an existing one while keeping its position.
func (ts *Tables) Reset(name string) *Table {
	if t, ok := ts.byName[name]; ok {
		t.reset()
		return t
	}
	return ts.Add(name)
}

// All returns the tables in insertion order.
func (ts *Tables) All() []*Table {
	out := make([]*Table, 0, len(ts.order))
	for _, name := range ts.order {
		out = append(out, ts.byName[name])
	}
	return out
}

// Len returns the number of tables.
func (ts *Tables) Len() int {
	return len(ts.order)
}
