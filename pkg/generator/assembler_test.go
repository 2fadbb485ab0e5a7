package generator

import (
	"strings"
	"testing"

	"github.com/marshallshelly/pebble-dbml/pkg/classify"
	"github.com/marshallshelly/pebble-dbml/pkg/naming"
	"github.com/marshallshelly/pebble-dbml/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// library registers Author, Book and Genre under a "library" app whose
// models live in "shop.library.models".
func library(t *testing.T) []*registry.Model {
	t.Helper()

	r := registry.NewRegistry()
	r.RegisterApp("library", "shop.library")
	models := []*registry.Model{
		{App: "library", Name: "Author", Module: "shop.library.models", Doc: "writer", Fields: []*registry.Field{
			{Name: "name", Type: "CharField"},
		}},
		{App: "library", Name: "Book", Module: "shop.library.models", Fields: []*registry.Field{
			{Name: "title", Type: "CharField", HelpText: `the "full" title`},
			{Name: "author_id", Type: registry.TypeForeignKey, RelatedLabel: "Author"},
			{Name: "genres", Type: registry.TypeManyToMany, RelatedLabel: "Genre"},
		}},
		{App: "library", Name: "Genre", Module: "shop.library.models", Fields: []*registry.Field{
			{Name: "id", Type: "AutoField", PrimaryKey: true},
			{Name: "slug", Type: "SlugField", Unique: true, Nullable: true},
			{Name: "books", Type: "ManyToManyRel", RelatedLabel: "Book"},
		}},
	}
	for _, m := range models {
		require.NoError(t, r.RegisterModel(m))
	}
	require.NoError(t, r.Link())
	return r.Models()
}

func TestGenerate_EndToEnd(t *testing.T) {
	gen, err := New()
	require.NoError(t, err)

	out, err := gen.Generate(library(t))
	require.NoError(t, err)

	expected := strings.Join([]string{
		"Project database {",
		"    database_type: 'PostgreSQL'",
		"    Note: '''",
		"    ",
		"    '''",
		"}",
		"",
		"Table Author {",
		"  name char",
		"  Note: '''writer'''",
		"}",
		"",
		"Table Book {",
		`  title char [note:"the \"full\" title"]`,
		"}",
		"ref: Book.author_id > Author.id",
		"",
		"Table library_book_genres {",
		"  genre_id auto [pk]",
		"  book_id auto [pk]",
		"}",
		"ref: Book.id > library_book_genres.book_id",
		"ref: Genre.id > library_book_genres.genre_id",
		"",
		"Table Genre {",
		"  id auto [pk]",
		"  slug slug [null, unique]",
		"}",
	}, "\n")

	assert.Equal(t, expected, string(out))
}

func TestGenerate_Idempotent(t *testing.T) {
	models := library(t)
	gen, err := New(WithStrategy(naming.SnakePlural), WithPrefix("app_"))
	require.NoError(t, err)

	first, err := gen.Generate(models)
	require.NoError(t, err)
	second, err := gen.Generate(models)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, string(first), "Table app_books {")
	assert.Contains(t, string(first), "Table app_library_book_genres {")
	assert.Contains(t, string(first), "ref: app_books.author_id > app_authors.id")
}

func TestRender_TableFilter(t *testing.T) {
	r := registry.NewRegistry()
	bar := &registry.Model{App: "billing", Name: "Bar", Module: "shop.billing.models", Fields: []*registry.Field{
		{Name: "id", Type: "AutoField", PrimaryKey: true},
		{Name: "owner", Type: registry.TypeOneToOne, RelatedLabel: "Invoice"},
	}}
	invoice := &registry.Model{App: "billing", Name: "Invoice", Module: "shop.billing.models", Fields: []*registry.Field{
		{Name: "id", Type: "AutoField", PrimaryKey: true},
		{Name: "bar", Type: registry.TypeForeignKey, RelatedLabel: "Bar"},
	}}
	require.NoError(t, r.RegisterModel(bar))
	require.NoError(t, r.RegisterModel(invoice))
	require.NoError(t, r.Link())

	gen, err := New(WithStrategy(naming.SchemaPrefixed), WithTableFilter(ParseFilter("bar,,")...))
	require.NoError(t, err)

	out, err := gen.Generate(r.Models())
	require.NoError(t, err)
	dbml := string(out)

	assert.NotContains(t, dbml, "Table billing_bar {")
	assert.NotContains(t, dbml, "ref: billing_bar.owner", "relations owned by a skipped table are skipped")
	assert.Contains(t, dbml, "Table billing_invoice {")
	assert.Contains(t, dbml, "ref: billing_invoice.bar > billing_bar.id", "references to a skipped table are kept")
}

func TestAssemble_DocIsVerbatim(t *testing.T) {
	doc := "\n    A person who writes books.\n    "
	m := &registry.Model{App: "library", Name: "Author", Doc: doc, Fields: []*registry.Field{
		{Name: "id", Type: "AutoField", PrimaryKey: true},
	}}

	gen, err := New()
	require.NoError(t, err)

	tables, err := gen.Assemble([]*registry.Model{m})
	require.NoError(t, err)
	assert.Equal(t, doc, tables.Get("Author").Note)

	out := string(gen.Render(tables))
	assert.Contains(t, out, "  Note: +doc+\n}")
}

func TestGenerate_Errors(t *testing.T) {
	t.Run("unknown strategy", func(t *testing.T) {
		_, err := New(WithStrategy("camel"))
		assert.ErrorIs(t, err, naming.ErrUnknownStrategy)
	})

	t.Run("schema prefixed without models segment", func(t *testing.T) {
		gen, err := New(WithStrategy(naming.SchemaPrefixed))
		require.NoError(t, err)

		m := &registry.Model{App: "billing", Name: "Invoice", Module: "billing.invoice"}
		_, err = gen.Generate([]*registry.Model{m})
		assert.ErrorIs(t, err, naming.ErrNoModelsSegment)
	})

	t.Run("strict rejects unknown kinds", func(t *testing.T) {
		m := &registry.Model{App: "geo", Name: "Place", Fields: []*registry.Field{
			{Name: "point", Type: "PointField"},
		}}

		gen, err := New()
		require.NoError(t, err)
		out, err := gen.Generate([]*registry.Model{m})
		require.NoError(t, err)
		assert.Contains(t, string(out), "\n  point\n")

		strict, err := New(WithStrict(true))
		require.NoError(t, err)
		_, err = strict.Generate([]*registry.Model{m})
		assert.ErrorIs(t, err, classify.ErrUnknownFieldKind)
	})
}

func TestGenerate_Options(t *testing.T) {
	m := &registry.Model{App: "geo", Name: "Place", Fields: []*registry.Field{
		{Name: "point", Type: "PointField"},
		{Name: "label", Type: "CharField"},
	}}

	gen, err := New(
		WithProject(Project{Name: "geo", DatabaseType: "MySQL", Note: "maps"}),
		WithTypeMappings(map[string]string{"PointField": "geometry", "CharField": "varchar"}),
	)
	require.NoError(t, err)

	out, err := gen.Generate([]*registry.Model{m})
	require.NoError(t, err)
	dbml := string(out)

	assert.True(t, strings.HasPrefix(dbml, "Project geo {\n    database_type: 'MySQL'\n    Note: '''\n    maps\n    '''\n}"))
	assert.Contains(t, dbml, "  point geometry\n")
	assert.Contains(t, dbml, "  label varchar\n")
}

func TestParseFilter(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ParseFilter("a,,b"))
	assert.Empty(t, ParseFilter(""))
}
