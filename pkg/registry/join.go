package registry

import "strings"

// JoinTableName returns the junction table of a many-to-many field declared
// on owner: the explicit JoinTable when set, else "<app>_<model>_<field>".
func JoinTableName(owner *Model, f *Field) string {
	if f.JoinTable != "" {
		return f.JoinTable
	}
	return strings.ToLower(owner.App + "_" + owner.Name + "_" + f.Name)
}

// JoinColumns returns the junction columns pointing at owner and at the
// related model. Self-referential fields get from_/to_ prefixes so the two
// columns stay distinct.
func JoinColumns(owner *Model, f *Field) (own, related string) {
	ownName := strings.ToLower(owner.Name)
	relName := ownName
	if f.Related != nil {
		relName = strings.ToLower(f.Related.Name)
	}
	if f.Related == owner || (f.Related != nil && f.Related.Label() == owner.Label()) {
		return "from_" + ownName + "_id", "to_" + relName + "_id"
	}
	return ownName + "_id", relName + "_id"
}
