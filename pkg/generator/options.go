package generator

import (
	"github.com/marshallshelly/pebble-dbml/pkg/classify"
	"github.com/marshallshelly/pebble-dbml/pkg/naming"
	"go.uber.org/zap"
)

// Project is rendered as the header block of the document.
type Project struct {
	Name         string
	DatabaseType string
	Note         string
}

// DefaultProject is used when no project is configured.
var DefaultProject = Project{Name: "database", DatabaseType: "PostgreSQL"}

// Option configures an Assembler.
type Option func(*options)

type options struct {
	strategy string
	prefix   string
	filter   []string
	project  Project
	types    classify.TypeMap
	strict   bool
	logger   *zap.Logger
}

func defaultOptions() *options {
	return &options{
		strategy: naming.Identity,
		project:  DefaultProject,
		types:    classify.DefaultTypeMap,
		logger:   zap.NewNop(),
	}
}

// WithStrategy sets the table naming strategy. Defaults to identity.
func WithStrategy(strategy string) Option {
	return func(o *options) {
		o.strategy = strategy
	}
}

// WithPrefix prepends prefix to every table name, junction tables included.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithTableFilter skips tables whose name contains any of the substrings.
func WithTableFilter(substrings ...string) Option {
	return func(o *options) {
		o.filter = substrings
	}
}

// WithProject sets the header block.
func WithProject(p Project) Option {
	return func(o *options) {
		o.project = p
	}
}

// WithTypeMap replaces the kind-to-token map.
func WithTypeMap(types classify.TypeMap) Option {
	return func(o *options) {
		o.types = types
	}
}

// WithTypeMappings layers "Kind -> token" overrides on the built-in map.
func WithTypeMappings(mappings map[string]string) Option {
	return func(o *options) {
		o.types = classify.NewTypeMap(classify.BuiltinKinds, mappings)
	}
}

// WithStrict makes kinds without a token an error.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithLogger sets the logger used for skipped tables and debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
