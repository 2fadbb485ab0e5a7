package registry

import "strings"

// DefaultPrimaryKey is assumed when a model declares no primary key field.
const DefaultPrimaryKey = "id"

// App groups the models declared by one application module.
type App struct {
	Label  string
	Module string
	models []*Model
}

// Models returns the app's models in registration order.
func (a *App) Models() []*Model {
	out := make([]*Model, len(a.models))
	copy(out, a.models)
	return out
}

// Model finds a model of the app by name, ignoring case.
func (a *App) Model(name string) (*Model, bool) {
	for _, m := range a.models {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return nil, false
}

// Model is a declared entity and its ordered fields.
type Model struct {
	App    string
	Name   string
	Module string
	Doc    string
	Fields []*Field
}

// Label returns the "app.Model" form used by selectors and references.
func (m *Model) Label() string {
	return m.App + "." + m.Name
}

// PrimaryKey returns the name of the first primary key field.
func (m *Model) PrimaryKey() string {
	for _, f := range m.Fields {
		if f.PrimaryKey {
			return f.Name
		}
	}
	return DefaultPrimaryKey
}

// Field is a tagged field descriptor. Every attribute is always present;
// zero values mean "not set".
type Field struct {
	Name string
	// Type is the declared kind name, e.g. "CharField" or "ForeignKey".
	Type string
	Kind FieldKind

	Nullable   bool
	PrimaryKey bool
	Unique     bool
	HelpText   string

	// RelatedLabel is the declared reference, "app.Model" or "Model".
	RelatedLabel string
	// Related is filled in when the registry links references.
	Related *Model
	// TargetField is the referenced field on Related; empty means its primary key.
	TargetField string
	// JoinTable overrides the junction table name of a many-to-many field.
	JoinTable string
}

// NewField builds a descriptor and assigns its kind from the type name.
func NewField(name, typeName string) *Field {
	return &Field{Name: name, Type: typeName, Kind: KindOf(typeName)}
}

// Target returns the field on the related model this reference points at.
func (f *Field) Target() string {
	if f.TargetField != "" {
		return f.TargetField
	}
	if f.Related != nil {
		return f.Related.PrimaryKey()
	}
	return DefaultPrimaryKey
}
