package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// City holds the schema definition for the City entity.
// Identified by its "banana" handle (slug + state), e.g. "paloaltoCA".
type City struct {
	ent.Schema
}

// Fields of the City.
func (City) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("banana").
			Unique().
			Immutable().
			Comment("slug + state, e.g. paloaltoCA"),
		field.String("name").
			Comment("Display name"),
		field.String("state").
			MaxLen(2),
		field.String("vendor").
			Comment("Vendor tag, one of the eleven supported platforms"),
		field.String("vendor_slug").
			Comment("Vendor-local slug used to build fetch URLs"),
		field.String("timezone").
			Default("America/Los_Angeles"),
		field.String("county").
			Optional().
			Nillable(),
		field.Enum("status").
			Values("active", "inactive", "suspended").
			Default("active"),
		field.Int("population").
			Optional().
			Nillable(),
		field.JSON("geometry", map[string]interface{}{}).
			Optional().
			Comment("Optional GeoJSON-like boundary, opaque to the core"),
	}
}

// Edges of the City.
func (City) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("meetings", Meeting.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("council_members", CouncilMember.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("committees", Committee.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("matters", Matter.Type),
	}
}

// Indexes of the City.
func (City) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("vendor"),
		index.Fields("status"),
	}
}
