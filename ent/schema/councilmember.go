package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// CouncilMember holds the schema definition for the CouncilMember entity:
// a per-city elected official. Id = hash(banana + normalized_name).
type CouncilMember struct {
	ent.Schema
}

// Fields of the CouncilMember.
func (CouncilMember) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("member_id").
			Unique().
			Immutable(),
		field.String("banana").
			Immutable(),
		field.String("display_name"),
		field.String("normalized_name").
			Immutable(),
		field.String("title_role").
			Optional().
			Nillable(),
		field.String("district").
			Optional().
			Nillable(),
		field.Enum("status").
			Values("active", "former").
			Default("active"),
		field.Time("first_seen").
			Default(time.Now).
			Immutable(),
		field.Time("last_seen").
			Default(time.Now).
			UpdateDefault(time.Now),
		field.Int("sponsorship_count").
			Default(0),
		field.Int("vote_count").
			Default(0),
		field.JSON("metadata", map[string]interface{}{}).
			Optional(),
	}
}

// Edges of the CouncilMember.
func (CouncilMember) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("city", City.Type).
			Ref("council_members").
			Field("banana").
			Unique().
			Required().
			Immutable(),
		edge.To("votes", Vote.Type),
		edge.To("memberships", CommitteeMembership.Type),
	}
}

// Indexes of the CouncilMember.
func (CouncilMember) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("banana", "normalized_name").
			Unique(),
	}
}
