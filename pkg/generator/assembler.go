// Package generator assembles selected models into tables and renders them
// as DBML.
//
// Basic usage:
//
//	gen, err := generator.New(generator.WithStrategy(naming.SchemaPrefixed))
//	if err != nil {
//	    return err
//	}
//	out, err := gen.Generate(models)
package generator

import (
	"fmt"
	"strings"

	"github.com/marshallshelly/pebble-dbml/pkg/classify"
	"github.com/marshallshelly/pebble-dbml/pkg/naming"
	"github.com/marshallshelly/pebble-dbml/pkg/registry"
	"github.com/marshallshelly/pebble-dbml/pkg/resolver"
	"github.com/marshallshelly/pebble-dbml/pkg/schema"
	"go.uber.org/zap"
)

// Assembler builds the table map for a model selection and renders it.
type Assembler struct {
	opts   *options
	format naming.FormatFunc
}

// New creates an Assembler. An unknown naming strategy fails here rather
// than on the first model.
func New(opts ...Option) (*Assembler, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	format, err := naming.Lookup(o.strategy)
	if err != nil {
		return nil, err
	}

	return &Assembler{opts: o, format: format}, nil
}

// TableName returns the prefixed table name of a model.
func (a *Assembler) TableName(m *registry.Model) (string, error) {
	name, err := a.format(m.Name, m.Module)
	if err != nil {
		return "", fmt.Errorf("table name for %s: %w", m.Label(), err)
	}
	return a.opts.prefix + name, nil
}

// Column classifies a plain field with the configured type map.
func (a *Assembler) Column(f *registry.Field) (schema.Column, error) {
	if a.opts.strict {
		return classify.ClassifyStrict(f, a.opts.types)
	}
	return classify.Classify(f, a.opts.types), nil
}

// Assemble builds the table map for models, in the given order. A model
// whose table name was already produced replaces the earlier table in place.
func (a *Assembler) Assemble(models []*registry.Model) (*schema.Tables, error) {
	tables := schema.NewTables()
	res := resolver.New(tables, a.TableName, a.opts.prefix)

	for _, m := range models {
		name, err := a.TableName(m)
		if err != nil {
			return nil, err
		}

		table := tables.Reset(name)
		for _, f := range m.Fields {
			handled, err := res.Resolve(m, table, f)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", m.Label(), f.Name, err)
			}
			if handled {
				continue
			}

			column, err := a.Column(f)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", m.Label(), err)
			}
			table.SetColumn(column)
		}

		table.Note = m.Doc

		a.opts.logger.Debug("assembled table",
			zap.String("model", m.Label()),
			zap.String("table", name),
			zap.Int("columns", len(table.Columns())),
			zap.Int("relations", len(table.Relations)))
	}

	return tables, nil
}

// Generate assembles and renders models.
func (a *Assembler) Generate(models []*registry.Model) ([]byte, error) {
	tables, err := a.Assemble(models)
	if err != nil {
		return nil, err
	}
	return a.Render(tables), nil
}

// ParseFilter splits a comma-separated filter, dropping empty entries.
func ParseFilter(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
