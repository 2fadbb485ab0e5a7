package classify

import (
	"errors"
	"testing"

	"github.com/marshallshelly/pebble-dbml/pkg/registry"
)

func TestDefaultTypeMap(t *testing.T) {
	tests := []struct {
		kind     string
		expected string
	}{
		{"CharField", "char"},
		{"TextField", "text"},
		{"AutoField", "auto"},
		{"BigAutoField", "big_auto"},
		{"PositiveBigIntegerField", "positive_big_integer"},
		{"DateTimeField", "date_time"},
		{"UUIDField", "uuid"},
		{"JSONField", "json"},
		{"GenericIPAddressField", "generic_ip_address"},
		{"ForeignKey", "foreign_key"},
		{"OneToOneField", "one_to_one"},
		{"ManyToManyField", "many_to_many"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			got, ok := DefaultTypeMap.Lookup(tt.kind)
			if !ok {
				t.Fatalf("kind %s missing from type map", tt.kind)
			}
			if got != tt.expected {
				t.Errorf("Lookup(%s) = %q, want %q", tt.kind, got, tt.expected)
			}
		})
	}
}

func TestDefaultTypeMap_Excludes(t *testing.T) {
	for _, kind := range []string{"Index", "Model", "ForeignObject", "ManyToOneRel", "CASCADE", "Q"} {
		if _, ok := DefaultTypeMap.Lookup(kind); ok {
			t.Errorf("kind %s should not be in the type map", kind)
		}
	}
}

func TestNewTypeMap_Custom(t *testing.T) {
	m := NewTypeMap(BuiltinKinds, map[string]string{
		"CharField":  "varchar",
		"MoneyField": "decimal",
	})

	if got, _ := m.Lookup("CharField"); got != "varchar" {
		t.Errorf("custom mapping not applied, got %q", got)
	}
	if got, _ := m.Lookup("MoneyField"); got != "decimal" {
		t.Errorf("custom kind not added, got %q", got)
	}
	if got, _ := m.Lookup("TextField"); got != "text" {
		t.Errorf("built-in mapping lost, got %q", got)
	}
}

func TestClassify(t *testing.T) {
	t.Run("attributes", func(t *testing.T) {
		f := &registry.Field{
			Name:       "email",
			Type:       "EmailField",
			Nullable:   true,
			Unique:     true,
			HelpText:   `the "primary" address`,
			PrimaryKey: false,
		}

		col := Classify(f, nil)
		if col.Name != "email" || col.Type != "email" {
			t.Errorf("unexpected column: %+v", col)
		}
		if !col.Null || !col.Unique || col.PK {
			t.Errorf("unexpected flags: %+v", col)
		}
		if col.Note != `the \"primary\" address` {
			t.Errorf("note not escaped: %s", col.Note)
		}
	})

	t.Run("unknown kind keeps the column", func(t *testing.T) {
		col := Classify(&registry.Field{Name: "geom", Type: "PointField"}, nil)
		if col.Name != "geom" {
			t.Errorf("expected column geom, got %s", col.Name)
		}
		if col.Type != "" {
			t.Errorf("expected empty type token, got %q", col.Type)
		}
	})

	t.Run("strict mode rejects unknown kind", func(t *testing.T) {
		_, err := ClassifyStrict(&registry.Field{Name: "geom", Type: "PointField"}, nil)
		if !errors.Is(err, ErrUnknownFieldKind) {
			t.Errorf("expected ErrUnknownFieldKind, got %v", err)
		}

		col, err := ClassifyStrict(&registry.Field{Name: "id", Type: "AutoField", PrimaryKey: true}, nil)
		if err != nil {
			t.Fatalf("ClassifyStrict failed: %v", err)
		}
		if col.Type != "auto" || !col.PK {
			t.Errorf("unexpected column: %+v", col)
		}
	})
}

func TestParseMappings(t *testing.T) {
	m, err := ParseMappings([]string{"CharField=varchar", " MoneyField = decimal "})
	if err != nil {
		t.Fatalf("ParseMappings failed: %v", err)
	}
	if m["CharField"] != "varchar" || m["MoneyField"] != "decimal" {
		t.Errorf("unexpected mappings: %v", m)
	}

	for _, bad := range []string{"CharField", "=varchar", "CharField="} {
		if _, err := ParseMappings([]string{bad}); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
