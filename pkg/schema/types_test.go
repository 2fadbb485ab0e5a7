package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_SetColumn(t *testing.T) {
	table := NewTable("book")
	table.SetColumn(Column{Name: "id", Type: "auto", PK: true})
	table.SetColumn(Column{Name: "title", Type: "char"})
	table.SetColumn(Column{Name: "id", Type: "big_auto", PK: true})

	cols := table.Columns()
	require.Len(t, cols, 2)
	assert.Equal(t, "id", cols[0].Name)
	assert.Equal(t, "big_auto", cols[0].Type, "re-set column keeps its position")
	assert.Equal(t, "title", cols[1].Name)

	col, ok := table.GetColumn("title")
	assert.True(t, ok)
	assert.Equal(t, "char", col.Type)

	_, ok = table.GetColumn("missing")
	assert.False(t, ok)
}

func TestTables_Order(t *testing.T) {
	tables := NewTables()
	tables.Add("author")
	tables.Add("book")
	tables.Add("author")

	require.Equal(t, 2, tables.Len())
	names := []string{}
	for _, table := range tables.All() {
		names = append(names, table.Name)
	}
	assert.Equal(t, []string{"author", "book"}, names)
}

func TestTables_Reset(t *testing.T) {
	tables := NewTables()
	first := tables.Add("author")
	first.SetColumn(Column{Name: "name", Type: "char"})
	first.AddRelation(Relation{Type: OneToOne, FromTable: "person", FromField: "id", ToTable: "author", ToField: "person"})
	first.Note = "writer"
	tables.Add("book")

	again := tables.Reset("author")
	assert.Same(t, first, again)
	assert.Empty(t, again.Columns())
	assert.Empty(t, again.Relations)
	assert.Empty(t, again.Note)
	assert.Equal(t, "author", tables.All()[0].Name, "reset keeps insertion position")

	fresh := tables.Reset("tag")
	assert.Equal(t, "tag", fresh.Name)
	assert.Equal(t, 3, tables.Len())
}

func TestTables_References(t *testing.T) {
	tables := NewTables()
	author := tables.Add("author")
	author.AddRelation(Relation{Type: OneToOne, FromTable: "person", FromField: "id", ToTable: "author", ToField: "person"})

	book := tables.Add("book")
	book.AddRelation(Relation{Type: OneToMany, FromTable: "author", FromField: "id", ToTable: "book", ToField: "author"})
	book.AddRelation(Relation{Type: OneToOne, FromTable: "isbn", FromField: "id", ToTable: "book", ToField: "isbn"})

	junction := tables.Add("book_tags")
	junction.AddRelation(Relation{Type: OneToMany, FromTable: "book_tags", FromField: "tag_id", ToTable: "tag", ToField: "id"})

	refs := tables.References("author")
	require.Len(t, refs, 1, "relations owned by the table itself are not counted")
	assert.Equal(t, "author", refs[0].ToField)

	assert.Len(t, tables.References("tag"), 1)
	assert.Len(t, tables.References("person"), 1)
	assert.Empty(t, tables.References("missing"))
}
