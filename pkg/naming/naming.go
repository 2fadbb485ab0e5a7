// Package naming converts a model name and its module path into a table name
// using a strategy chosen at invocation time.
package naming

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/jinzhu/inflection"
)

var (
	// ErrUnknownStrategy is returned for a strategy name that is not registered.
	ErrUnknownStrategy = errors.New("unknown table format")

	// ErrNoModelsSegment is returned by schema_prefixed when the module path
	// has no "models" segment preceded by a schema name.
	ErrNoModelsSegment = errors.New("module path has no 'models' segment")
)

// Strategy names.
const (
	Identity       = "identity"
	SchemaPrefixed = "schema_prefixed"
	SnakePlural    = "snake_plural"
)

// ModelsSegment marks the package holding an app's models.
const ModelsSegment = "models"

// FormatFunc turns a model name and module path into a table name.
type FormatFunc func(model, module string) (string, error)

var strategies = map[string]FormatFunc{
	Identity:       formatIdentity,
	SchemaPrefixed: formatSchemaPrefixed,
	SnakePlural:    formatSnakePlural,
}

// aliases keep the names the tool has historically accepted.
var aliases = map[string]string{
	"django":     Identity,
	"underscore": SchemaPrefixed,
}

// Lookup returns the format function for a strategy name or alias.
func Lookup(strategy string) (FormatFunc, error) {
	if canonical, ok := aliases[strategy]; ok {
		strategy = canonical
	}
	fn, ok := strategies[strategy]
	if !ok {
		return nil, fmt.Errorf("%w %q (choose from %s)", ErrUnknownStrategy, strategy, strings.Join(Strategies(), ", "))
	}
	return fn, nil
}

// Format applies the named strategy.
func Format(strategy, model, module string) (string, error) {
	fn, err := Lookup(strategy)
	if err != nil {
		return "", err
	}
	return fn(model, module)
}

// Strategies returns the strategy names and aliases, sorted.
func Strategies() []string {
	names := make([]string, 0, len(strategies)+len(aliases))
	for name := range strategies {
		names = append(names, name)
	}
	for alias := range aliases {
		names = append(names, alias)
	}
	slices.Sort(names)
	return names
}

func formatIdentity(model, _ string) (string, error) {
	return model, nil
}

// formatSchemaPrefixed uses the module segment in front of "models" as the
// schema. Both dotted module paths and slash-separated package paths work.
func formatSchemaPrefixed(model, module string) (string, error) {
	parts := splitModule(module)
	i := slices.Index(parts, ModelsSegment)
	if i < 1 {
		return "", fmt.Errorf("%w: %q", ErrNoModelsSegment, module)
	}

	schema := parts[i-1]
	name := strings.Join([]string{schema, model}, "_")
	return strings.ToLower(strings.ReplaceAll(name, ".", "_")), nil
}

func formatSnakePlural(model, _ string) (string, error) {
	return inflection.Plural(strcase.ToSnake(model)), nil
}

func splitModule(module string) []string {
	return strings.FieldsFunc(module, func(r rune) bool {
		return r == '.' || r == '/'
	})
}
