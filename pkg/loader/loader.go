// Package loader provides utilities to load models from Go source files and
// manifests into a registry.
package loader

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/marshallshelly/pebble-dbml/pkg/registry"
)

// StructTagKey is the struct tag carrying column and relationship options.
const StructTagKey = "po"

// ModelRegistrar is an interface for registering apps and models
type ModelRegistrar interface {
	RegisterApp(label, module string) *registry.App
	RegisterModel(m *registry.Model) error
}

var tableNameDirective = regexp.MustCompile(`table_name:\s*([a-zA-Z0-9_]+)`)

// sqlKinds maps SQL types to the field kinds the classifier knows.
var sqlKinds = map[string]string{
	"varchar":          "CharField",
	"char":             "CharField",
	"text":             "TextField",
	"uuid":             "UUIDField",
	"serial":           "AutoField",
	"bigserial":        "BigAutoField",
	"smallint":         "SmallIntegerField",
	"integer":          "IntegerField",
	"bigint":           "BigIntegerField",
	"numeric":          "DecimalField",
	"decimal":          "DecimalField",
	"real":             "FloatField",
	"double precision": "FloatField",
	"boolean":          "BooleanField",
	"bool":             "BooleanField",
	"timestamptz":      "DateTimeField",
	"timestamp":        "DateTimeField",
	"date":             "DateField",
	"time":             "TimeField",
	"interval":         "DurationField",
	"jsonb":            "JSONField",
	"json":             "JSONField",
	"bytea":            "BinaryField",
	"inet":             "GenericIPAddressField",
}

// sqlTypes is matched by prefix, so more specific types come before their
// prefixes (jsonb before json, timestamptz before timestamp, bigserial
// before serial).
var sqlTypes = []string{
	"uuid", "varchar", "text", "char",
	"smallint", "integer", "bigint", "bigserial", "serial",
	"numeric", "decimal", "real", "double precision",
	"boolean", "bool",
	"timestamptz", "timestamp", "date", "time", "interval",
	"jsonb", "json",
	"bytea",
	"inet", "cidr", "macaddr",
	"point", "line", "lseg", "box", "path", "polygon", "circle",
	"tsvector", "tsquery",
}

// source is a tagged struct found while scanning.
type source struct {
	app    string
	module string
	name   string
	table  string
	doc    string
	fields *ast.FieldList
}

// LoadModelsFromPath scans a file or directory for Go structs with po tags
// and registers them using the provided registrar.
// Supports:
// - Single .go file
// - Directory (scans all .go files recursively)
// - Table names from // table_name: comments, used to resolve fk:table(column)
func LoadModelsFromPath(path string, registrar ModelRegistrar) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat path: %w", err)
	}

	var filesToParse []string

	if info.IsDir() {
		err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isModelSource(d.Name()) {
				filesToParse = append(filesToParse, p)
			}
			return nil
		})
		if err != nil {
			return 0, fmt.Errorf("failed to walk directory: %w", err)
		}
	} else {
		if !strings.HasSuffix(path, ".go") {
			return 0, fmt.Errorf("file must have .go extension")
		}
		filesToParse = append(filesToParse, path)
	}

	if len(filesToParse) == 0 {
		return 0, fmt.Errorf("no .go files found in %s", path)
	}

	// Every struct is collected before any is built so that fk:table(column)
	// can point at a struct declared in a later file.
	var sources []*source
	for _, file := range filesToParse {
		found, err := scanFile(file)
		if err != nil {
			return 0, fmt.Errorf("failed to load models from %s: %w", file, err)
		}
		sources = append(sources, found...)
	}

	byTable := make(map[string]*source, len(sources))
	for _, src := range sources {
		byTable[src.table] = src
	}

	modelsRegistered := 0
	for _, src := range sources {
		registrar.RegisterApp(src.app, src.module)

		m := &registry.Model{
			App:    src.app,
			Name:   src.name,
			Module: src.module,
			Doc:    src.doc,
			Fields: buildFields(src, byTable),
		}
		if err := registrar.RegisterModel(m); err != nil {
			return modelsRegistered, fmt.Errorf("failed to register %s: %w", src.name, err)
		}
		modelsRegistered++
	}

	return modelsRegistered, nil
}

func isModelSource(name string) bool {
	return strings.HasSuffix(name, ".go") &&
		!strings.HasSuffix(name, "_test.go") &&
		!strings.HasSuffix(name, ".gen.go")
}

// scanFile parses a single Go file and returns its structs with po tags.
func scanFile(filename string) ([]*source, error) {
	fset := token.NewFileSet()
	node, err := parser.ParseFile(fset, filename, nil, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file: %w", err)
	}

	dir := filepath.ToSlash(filepath.Dir(filename))
	app := appLabel(node.Name.Name, dir)

	var sources []*source
	for _, decl := range node.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}

		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}

			structType, ok := typeSpec.Type.(*ast.StructType)
			if !ok || !hasPebbleTags(structType) {
				continue
			}

			doc := typeSpec.Doc
			if doc == nil {
				doc = genDecl.Doc
			}

			name := typeSpec.Name.Name
			table, text := docDirectives(doc)
			if table == "" {
				table = strcase.ToSnake(name)
			}

			sources = append(sources, &source{
				app:    app,
				module: dir,
				name:   name,
				table:  table,
				doc:    text,
				fields: structType.Fields,
			})
		}
	}

	return sources, nil
}

// appLabel names the app after its package, or after the enclosing
// directory when the package is the conventional "models" package.
func appLabel(pkg, dir string) string {
	if pkg == "models" {
		if parent := filepath.Base(filepath.Dir(filepath.FromSlash(dir))); parent != "." && parent != string(filepath.Separator) {
			return parent
		}
	}
	return pkg
}

// docDirectives splits a struct comment into its table_name directive and
// the remaining text.
func docDirectives(doc *ast.CommentGroup) (table, text string) {
	if doc == nil {
		return "", ""
	}

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if m := tableNameDirective.FindStringSubmatch(line); m != nil {
			table = m[1]
			continue
		}
		lines = append(lines, line)
	}
	return table, strings.TrimSpace(strings.Join(lines, "\n"))
}

// buildFields turns the tagged struct fields into field descriptors.
func buildFields(src *source, byTable map[string]*source) []*registry.Field {
	var fields []*registry.Field
	if src.fields == nil {
		return fields
	}

	for _, field := range src.fields.List {
		if len(field.Names) == 0 || field.Tag == nil {
			continue // Embedded or untagged
		}

		poTag := reflect.StructTag(strings.Trim(field.Tag.Value, "`")).Get(StructTagKey)
		if poTag == "" {
			continue
		}

		opts := parseTag(poTag)
		if opts == nil {
			continue
		}

		var f *registry.Field
		if isRelationshipTag(opts) {
			f = relationField(opts, field.Type)
		} else if opts.name != "" && opts.name != "-" {
			f = columnField(opts, byTable)
		}
		if f == nil {
			continue
		}

		f.HelpText = fieldComment(field)
		fields = append(fields, f)
	}

	return fields
}

func columnField(opts *tagOptions, byTable map[string]*source) *registry.Field {
	kind := "TextField"
	if sqlType := getSQLTypeFromOptions(opts); sqlType != "" {
		kind = sqlType
		if k, ok := sqlKinds[sqlType]; ok {
			kind = k
		}
	}

	f := registry.NewField(opts.name, kind)
	f.Nullable = !hasOption(opts, "notNull") && !hasOption(opts, "primaryKey")
	f.PrimaryKey = hasOption(opts, "primaryKey")
	f.Unique = hasOption(opts, "unique")

	// A column carrying fk:table(column) becomes a foreign key when the
	// referenced table was scanned too.
	if refTable, refColumn := parseForeignKey(getColonValue(opts, "fk")); refTable != "" {
		if target, ok := byTable[refTable]; ok {
			f.Type = registry.TypeForeignKey
			f.Kind = registry.KindForeignKey
			f.RelatedLabel = target.app + "." + target.name
			f.TargetField = refColumn
		}
	}

	return f
}

func relationField(opts *tagOptions, expr ast.Expr) *registry.Field {
	target := typeName(expr)
	if target == "" {
		return nil
	}

	var f *registry.Field
	switch {
	case hasOption(opts, "belongsTo"):
		name := getOptionValue(opts, "foreignKey")
		if name == "" {
			name = strcase.ToSnake(target) + "_id"
		}
		typ := registry.TypeForeignKey
		if hasOption(opts, "unique") {
			typ = registry.TypeOneToOne
		}
		f = registry.NewField(name, typ)
		f.TargetField = getOptionValue(opts, "references")
	case hasOption(opts, "manyToMany"):
		f = registry.NewField(relationName(opts, target), registry.TypeManyToMany)
		f.JoinTable = getOptionValue(opts, "joinTable")
	case hasOption(opts, "hasOne"):
		f = registry.NewField(relationName(opts, target), "OneToOneRel")
	default:
		f = registry.NewField(relationName(opts, target), "ManyToOneRel")
	}

	f.RelatedLabel = target
	return f
}

// relationName is the tag name, or the snake-cased target when the tag
// name is "-".
func relationName(opts *tagOptions, target string) string {
	if opts.name != "" && opts.name != "-" {
		return opts.name
	}
	return strcase.ToSnake(target)
}

// typeName returns the struct name behind pointers, slices and package
// selectors.
func typeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return typeName(t.X)
	case *ast.ArrayType:
		return typeName(t.Elt)
	case *ast.SelectorExpr:
		return t.Sel.Name
	default:
		return ""
	}
}

func fieldComment(field *ast.Field) string {
	for _, group := range []*ast.CommentGroup{field.Doc, field.Comment} {
		if group == nil {
			continue
		}
		if text := strings.TrimSpace(group.Text()); text != "" {
			return strings.Join(strings.Fields(text), " ")
		}
	}
	return ""
}

// parseForeignKey splits "table(column)" or "table.column".
func parseForeignKey(fk string) (table, column string) {
	if idx := strings.Index(fk, "("); idx > 0 && strings.HasSuffix(fk, ")") {
		return fk[:idx], fk[idx+1 : len(fk)-1]
	}
	if before, after, ok := strings.Cut(fk, "."); ok {
		return before, after
	}
	return "", ""
}

// getColonValue extracts the value from a colon-format option like "fk:table(col)" -> "table(col)".
func getColonValue(opts *tagOptions, key string) string {
	prefix := key + ":"
	for _, opt := range opts.options {
		if strings.HasPrefix(opt, prefix) {
			return opt[len(prefix):]
		}
	}
	return ""
}

// Simple tag option struct
type tagOptions struct {
	name    string
	options []string
}

// parseTag parses a po tag value. Commas inside parentheses do not split.
func parseTag(tag string) *tagOptions {
	var parts []string
	var buffer strings.Builder
	inParens := 0

	for _, r := range tag {
		switch r {
		case '(':
			inParens++
			buffer.WriteRune(r)
		case ')':
			inParens--
			buffer.WriteRune(r)
		case ',':
			if inParens == 0 {
				parts = append(parts, buffer.String())
				buffer.Reset()
			} else {
				buffer.WriteRune(r)
			}
		default:
			buffer.WriteRune(r)
		}
	}
	if buffer.Len() > 0 {
		parts = append(parts, buffer.String())
	}

	if len(parts) == 0 {
		return nil
	}

	opts := &tagOptions{
		name:    strings.TrimSpace(parts[0]),
		options: make([]string, 0, len(parts)-1),
	}
	for _, part := range parts[1:] {
		opts.options = append(opts.options, strings.TrimSpace(part))
	}

	return opts
}

// hasOption checks if an option exists
func hasOption(opts *tagOptions, option string) bool {
	for _, opt := range opts.options {
		if opt == option || strings.HasPrefix(opt, option+"(") {
			return true
		}
	}
	return false
}

// getOptionValue gets the value of an option like joinTable(value)
func getOptionValue(opts *tagOptions, option string) string {
	prefix := option + "("
	for _, opt := range opts.options {
		if strings.HasPrefix(opt, prefix) && strings.HasSuffix(opt, ")") {
			return opt[len(prefix) : len(opt)-1]
		}
	}
	return ""
}

// getSQLTypeFromOptions returns the base SQL type named by the options,
// without size or array suffixes.
func getSQLTypeFromOptions(opts *tagOptions) string {
	for _, opt := range opts.options {
		for _, sqlType := range sqlTypes {
			if strings.HasPrefix(opt, sqlType) {
				return sqlType
			}
		}
	}
	return ""
}

// isRelationshipTag checks if options indicate a relationship
func isRelationshipTag(opts *tagOptions) bool {
	relationships := []string{"belongsTo", "hasOne", "hasMany", "manyToMany"}
	return slices.ContainsFunc(opts.options, func(opt string) bool {
		return slices.Contains(relationships, opt)
	})
}

// hasPebbleTags checks if a struct has any fields with po tags
func hasPebbleTags(structType *ast.StructType) bool {
	if structType.Fields == nil {
		return false
	}

	for _, field := range structType.Fields.List {
		if field.Tag != nil && strings.Contains(field.Tag.Value, StructTagKey+":") {
			return true
		}
	}

	return false
}
