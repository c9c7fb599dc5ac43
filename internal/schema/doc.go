// Package schema defines the entity catalog consumed by the statement
// compilers.
//
// A Schema maps each entity identity (the logical key an entity is
// registered under) to its definition: the physical table backing it and
// its declared attributes. The identity and the physical table name are
// distinct namespaces; query descriptors reference entities by physical
// table name and the compilers resolve them back to identities via
// Schema.IdentityOf.
//
// Attribute order is significant. Projection output preserves the order
// in which attributes were declared, so Entity holds them as an ordered
// slice rather than a map.
//
// The Schema is read-only for all consumers in this module. Compilers
// never mutate it, which makes concurrent compilations against a shared
// Schema safe without locking.
package schema
