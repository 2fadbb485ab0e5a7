package schema

// RelationType is the cardinality of a reference between two tables.
type RelationType string

const (
	// OneToOne relates one row on each side.
	OneToOne RelationType = "one_to_one"
	// OneToMany relates one row of the "from" table to many rows of the "to" table.
	OneToMany RelationType = "one_to_many"
)

// Relation is a directional reference between two (table, field) pairs.
// Many-to-many references are expressed as two OneToMany relations owned by
// a junction table.
type Relation struct {
	Type      RelationType
	FromTable string
	FromField string
	ToTable   string
	ToField   string
}

// Mentions reports whether either side of the relation is the named table.
func (r Relation) Mentions(table string) bool {
	return r.FromTable == table || r.ToTable == table
}

// References returns the relations owned by other tables that point at the
// named table.
func (ts *Tables) References(name string) []Relation {
	var result []Relation
	for _, t := range ts.All() {
		if t.Name == name {
			continue
		}
		for _, rel := range t.Relations {
			if rel.Mentions(name) {
				result = append(result, rel)
			}
		}
	}
	return result
}
