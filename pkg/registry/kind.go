package registry

// FieldKind classifies a field by the role it plays in the schema.
// It is assigned once when a field is registered so that nothing downstream
// depends on the order of type checks.
type FieldKind int

const (
	// KindColumn is a scalar column.
	KindColumn FieldKind = iota
	// KindOneToOne references exactly one row of another model.
	KindOneToOne
	// KindForeignKey references one row of another model; many rows may share it.
	KindForeignKey
	// KindManyToMany is stored in a junction table.
	KindManyToMany
	// KindReverse is an implicit back-reference; it never produces output.
	KindReverse
)

// Declared kind names of the reference fields.
const (
	TypeOneToOne   = "OneToOneField"
	TypeForeignKey = "ForeignKey"
	TypeManyToMany = "ManyToManyField"
)

var kindsByType = map[string]FieldKind{
	TypeOneToOne:    KindOneToOne,
	TypeForeignKey:  KindForeignKey,
	TypeManyToMany:  KindManyToMany,
	"ManyToOneRel":  KindReverse,
	"OneToOneRel":   KindReverse,
	"ManyToManyRel": KindReverse,
}

// KindOf returns the kind for a declared field type name.
// Names that are not reference kinds are columns.
func KindOf(typeName string) FieldKind {
	if kind, ok := kindsByType[typeName]; ok {
		return kind
	}
	return KindColumn
}

// IsReference reports whether the kind points at another model.
func (k FieldKind) IsReference() bool {
	return k == KindOneToOne || k == KindForeignKey || k == KindManyToMany
}

func (k FieldKind) String() string {
	switch k {
	case KindColumn:
		return "column"
	case KindOneToOne:
		return "one_to_one"
	case KindForeignKey:
		return "foreign_key"
	case KindManyToMany:
		return "many_to_many"
	case KindReverse:
		return "reverse"
	default:
		return "unknown"
	}
}
