// Package resolver turns reference fields into relations between assembled
// tables, synthesizing junction tables for many-to-many fields.
package resolver

import (
	"errors"
	"fmt"

	"github.com/marshallshelly/pebble-dbml/pkg/registry"
	"github.com/marshallshelly/pebble-dbml/pkg/schema"
)

// ErrUnresolved is returned for a reference field whose related model is not linked.
var ErrUnresolved = errors.New("related model not resolved")

// JunctionColumnType is the type token of synthesized junction columns.
const JunctionColumnType = "auto"

// TableNamer returns the physical table name of a model, prefix included.
type TableNamer func(m *registry.Model) (string, error)

// Resolver records relations into a shared table map.
type Resolver struct {
	tables *schema.Tables
	namer  TableNamer
	prefix string
}

// New creates a Resolver. The prefix is prepended to junction table names;
// model table names get theirs from the namer.
func New(tables *schema.Tables, namer TableNamer, prefix string) *Resolver {
	return &Resolver{tables: tables, namer: namer, prefix: prefix}
}

// Resolve handles a field of owner whose assembled table is table. It reports
// false for plain columns, which the caller classifies instead.
func (r *Resolver) Resolve(owner *registry.Model, table *schema.Table, f *registry.Field) (bool, error) {
	switch f.Kind {
	case registry.KindReverse:
		return true, nil
	case registry.KindOneToOne:
		return true, r.direct(table, f, schema.OneToOne)
	case registry.KindForeignKey:
		return true, r.direct(table, f, schema.OneToMany)
	case registry.KindManyToMany:
		return true, r.junction(owner, table, f)
	default:
		return false, nil
	}
}

func (r *Resolver) direct(table *schema.Table, f *registry.Field, relType schema.RelationType) error {
	if f.Related == nil {
		return fmt.Errorf("%w: %s.%s", ErrUnresolved, table.Name, f.Name)
	}

	from, err := r.namer(f.Related)
	if err != nil {
		return err
	}

	table.AddRelation(schema.Relation{
		Type:      relType,
		FromTable: from,
		FromField: f.Target(),
		ToTable:   table.Name,
		ToField:   f.Name,
	})
	return nil
}

// junction creates the junction table of a many-to-many field the first time
// its name is seen. Later sightings, from either side, are ignored.
func (r *Resolver) junction(owner *registry.Model, table *schema.Table, f *registry.Field) error {
	if f.Related == nil {
		return fmt.Errorf("%w: %s.%s", ErrUnresolved, table.Name, f.Name)
	}

	name := r.prefix + registry.JoinTableName(owner, f)
	if r.tables.Has(name) {
		return nil
	}

	related, err := r.namer(f.Related)
	if err != nil {
		return err
	}

	ownColumn, relatedColumn := registry.JoinColumns(owner, f)
	junction := r.tables.Add(name)

	junction.AddRelation(schema.Relation{
		Type:      schema.OneToMany,
		FromTable: name,
		FromField: ownColumn,
		ToTable:   table.Name,
		ToField:   owner.PrimaryKey(),
	})
	junction.AddRelation(schema.Relation{
		Type:      schema.OneToMany,
		FromTable: name,
		FromField: relatedColumn,
		ToTable:   related,
		ToField:   f.Target(),
	})

	junction.SetColumn(schema.Column{Name: relatedColumn, Type: JunctionColumnType, PK: true})
	junction.SetColumn(schema.Column{Name: ownColumn, Type: JunctionColumnType, PK: true})

	return nil
}
