// Package classify maps declared field kinds to DBML column type tokens and
// extracts column-level attributes.
package classify

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/marshallshelly/pebble-dbml/pkg/registry"
	"github.com/marshallshelly/pebble-dbml/pkg/schema"
)

// ErrUnknownFieldKind is returned in strict mode for kinds without a token.
var ErrUnknownFieldKind = errors.New("unknown field kind")

// BuiltinKinds lists the names exported by the model system. Only the names
// that look like field kinds end up in the type map.
var BuiltinKinds = []string{
	"ObjectDoesNotExist", "signals",
	"CASCADE", "DO_NOTHING", "PROTECT", "RESTRICT", "SET", "SET_DEFAULT", "SET_NULL",
	"ProtectedError", "RestrictedError",
	"Aggregate", "Avg", "Count", "Max", "Min", "StdDev", "Sum", "Variance",
	"CheckConstraint", "Deferrable", "UniqueConstraint",
	"Index",
	"Case", "Exists", "Expression", "ExpressionList", "ExpressionWrapper", "F", "Func",
	"OrderBy", "OuterRef", "RowRange", "Subquery", "Value", "ValueRange", "When",
	"Window", "WindowFrame",
	"AutoField", "BLANK_CHOICE_DASH", "BigAutoField", "BigIntegerField",
	"BinaryField", "BooleanField", "CharField", "CommaSeparatedIntegerField",
	"DateField", "DateTimeField", "DecimalField", "DurationField", "EmailField",
	"Empty", "Field", "FilePathField", "FloatField", "GenericIPAddressField",
	"IPAddressField", "IntegerField", "NOT_PROVIDED", "NullBooleanField",
	"PositiveBigIntegerField", "PositiveIntegerField", "PositiveSmallIntegerField",
	"SlugField", "SmallAutoField", "SmallIntegerField", "TextField", "TimeField",
	"URLField", "UUIDField",
	"FileField", "ImageField", "JSONField", "GeneratedField",
	"OrderWrt", "Lookup", "Transform", "Manager",
	"Prefetch", "Q", "QuerySet", "prefetch_related_objects",
	"DEFERRED", "Model",
	"FilteredRelation",
	"ForeignKey", "ForeignObject", "OneToOneField", "ManyToManyField",
	"ForeignObjectRel", "ManyToOneRel", "ManyToManyRel", "OneToOneRel",
}

// relationKinds are included even though their names lack "Field".
var relationKinds = []string{registry.TypeForeignKey, registry.TypeManyToMany}

// TypeMap maps declared kind names to DBML type tokens.
type TypeMap map[string]string

// NewTypeMap builds a type map from kind names. Every name containing
// "Field" and the relation kinds get a token: "Field" is removed and the rest
// converted to snake_case. Custom mappings override the derived tokens.
func NewTypeMap(kinds []string, custom map[string]string) TypeMap {
	m := make(TypeMap, len(kinds)+len(custom))
	for _, kind := range kinds {
		if !strings.Contains(kind, "Field") && !slices.Contains(relationKinds, kind) {
			continue
		}
		m[kind] = Token(kind)
	}
	for kind, token := range custom {
		m[kind] = token
	}
	return m
}

// DefaultTypeMap is built once from the built-in kinds.
var DefaultTypeMap = NewTypeMap(BuiltinKinds, nil)

// Token converts a kind name into its DBML token, e.g. CharField -> char.
func Token(kind string) string {
	return strcase.ToSnake(strings.ReplaceAll(kind, "Field", ""))
}

// Lookup returns the token for a kind.
func (m TypeMap) Lookup(kind string) (string, bool) {
	token, ok := m[kind]
	return token, ok
}

// Classify turns a column field into a schema column. Kinds without a token
// produce a column with an empty type.
func Classify(f *registry.Field, types TypeMap) schema.Column {
	if types == nil {
		types = DefaultTypeMap
	}
	token, _ := types.Lookup(f.Type)

	column := schema.Column{
		Name:   f.Name,
		Type:   token,
		Null:   f.Nullable,
		PK:     f.PrimaryKey,
		Unique: f.Unique,
	}
	if f.HelpText != "" {
		column.Note = EscapeNote(f.HelpText)
	}
	return column
}

// ClassifyStrict is Classify but fails on kinds without a token.
func ClassifyStrict(f *registry.Field, types TypeMap) (schema.Column, error) {
	if types == nil {
		types = DefaultTypeMap
	}
	if _, ok := types.Lookup(f.Type); !ok {
		return schema.Column{}, fmt.Errorf("%w %q on field %s", ErrUnknownFieldKind, f.Type, f.Name)
	}
	return Classify(f, types), nil
}

// ParseMappings parses "Kind=token" pairs.
func ParseMappings(pairs []string) (map[string]string, error) {
	mappings := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		kind, token, ok := strings.Cut(pair, "=")
		kind, token = strings.TrimSpace(kind), strings.TrimSpace(token)
		if !ok || kind == "" || token == "" {
			return nil, fmt.Errorf("invalid type mapping %q, expected Kind=token", pair)
		}
		mappings[kind] = token
	}
	return mappings, nil
}

// EscapeNote escapes double quotes for a note:"..." attribute.
func EscapeNote(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
