package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Committee holds the schema definition for the Committee entity: a
// per-city legislative body. Id = banana + '_comm_' + short_hash(normalized_name).
type Committee struct {
	ent.Schema
}

// Fields of the Committee.
func (Committee) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("committee_id").
			Unique().
			Immutable(),
		field.String("banana").
			Immutable(),
		field.String("name"),
		field.String("normalized_name").
			Immutable(),
	}
}

// Edges of the Committee.
func (Committee) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("city", City.Type).
			Ref("committees").
			Field("banana").
			Unique().
			Required().
			Immutable(),
		edge.To("memberships", CommitteeMembership.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the Committee.
func (Committee) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("banana", "normalized_name").
			Unique(),
	}
}
