package schema

// Schema maps entity identities to their definitions.
type Schema map[string]Entity

// Entity describes one registered entity: the physical table backing it
// and its declared attributes, in declaration order.
type Entity struct {
	// Table is the physical table name. Must be unique across the Schema.
	Table string

	// Attributes lists the declared attributes in declaration order.
	Attributes []Attribute
}

// Attribute describes a single declared attribute of an entity.
type Attribute struct {
	// Name is the logical attribute name referenced by query descriptors.
	Name string

	// Column is the physical column name. Empty means the attribute name
	// doubles as the column name.
	Column string

	// Collection marks a has-many relation. Collection attributes are
	// never inline-projected; they are resolved by separate join logic.
	Collection bool
}

// ColumnName returns the physical column name for the attribute,
// defaulting to the attribute name when no column was declared.
func (a Attribute) ColumnName() string {
	if a.Column != "" {
		return a.Column
	}
	return a.Name
}

// Attribute returns the declared attribute with the given name.
// The second return value is false when no such attribute exists;
// callers that tolerate raw column pass-through treat the zero value
// as an empty definition.
func (e Entity) Attribute(name string) (Attribute, bool) {
	for _, attr := range e.Attributes {
		if attr.Name == name {
			return attr, true
		}
	}
	return Attribute{}, false
}

// AttributeNames returns the declared attribute names in declaration order.
func (e Entity) AttributeNames() []string {
	names := make([]string, len(e.Attributes))
	for i, attr := range e.Attributes {
		names[i] = attr.Name
	}
	return names
}
