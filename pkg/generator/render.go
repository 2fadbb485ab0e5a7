package generator

import (
	"fmt"
	"strings"

	"github.com/marshallshelly/pebble-dbml/pkg/schema"
	"go.uber.org/zap"
)

// Render writes tables as DBML. Tables are emitted in insertion order; a
// table matching the filter is skipped together with the relations it owns.
// The result has no trailing newline.
func (a *Assembler) Render(tables *schema.Tables) []byte {
	var lines []string
	add := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	p := a.opts.project
	add("Project %s {", p.Name)
	add("    database_type: '%s'", p.DatabaseType)
	add("    Note: '''")
	add("    %s", p.Note)
	add("    '''")
	add("}")

	for _, table := range tables.All() {
		if a.skip(table.Name) {
			a.opts.logger.Info("skipping table",
				zap.String("table", table.Name),
				zap.Strings("filter", a.opts.filter),
				zap.Int("dangling_refs", len(tables.References(table.Name))))
			continue
		}

		add("")
		add("Table %s {", table.Name)
		for _, c := range table.Columns() {
			lines = append(lines, columnLine(c))
		}
		if table.Note != "" {
			add("  Note: '''%s'''", table.Note)
		}
		add("}")

		for _, rel := range table.Relations {
			lines = append(lines, refLine(rel))
		}
	}

	return []byte(strings.Join(lines, "\n"))
}

func (a *Assembler) skip(name string) bool {
	for _, s := range a.opts.filter {
		if s != "" && strings.Contains(name, s) {
			return true
		}
	}
	return false
}

func columnLine(c schema.Column) string {
	parts := []string{c.Name}
	if c.Type != "" {
		parts = append(parts, c.Type)
	}
	if attrs := attributes(c); attrs != "" {
		parts = append(parts, attrs)
	}
	return "  " + strings.Join(parts, " ")
}

// attributes renders the bracket group; empty when no attribute is set.
func attributes(c schema.Column) string {
	var attrs []string
	if c.Note != "" {
		attrs = append(attrs, fmt.Sprintf("note:\"%s\"", c.Note))
	}
	if c.Null {
		attrs = append(attrs, "null")
	}
	if c.PK {
		attrs = append(attrs, "pk")
	}
	if c.Unique {
		attrs = append(attrs, "unique")
	}
	if len(attrs) == 0 {
		return ""
	}
	return "[" + strings.Join(attrs, ", ") + "]"
}

func refLine(rel schema.Relation) string {
	op := ">"
	if rel.Type == schema.OneToOne {
		op = "-"
	}
	return fmt.Sprintf("ref: %s.%s %s %s.%s", rel.ToTable, rel.ToField, op, rel.FromTable, rel.FromField)
}
