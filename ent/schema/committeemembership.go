package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// CommitteeMembership holds the schema definition for the
// CommitteeMembership join entity between Committee and CouncilMember.
// A null left_at means the membership is currently active.
type CommitteeMembership struct {
	ent.Schema
}

// Fields of the CommitteeMembership.
func (CommitteeMembership) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("membership_id").
			Unique().
			Immutable(),
		field.String("committee_id").
			Immutable(),
		field.String("member_id").
			Immutable(),
		field.Time("joined_at").
			Default(time.Now).
			Immutable(),
		field.Time("left_at").
			Optional().
			Nillable().
			Comment("null = currently active"),
	}
}

// Edges of the CommitteeMembership.
func (CommitteeMembership) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("committee", Committee.Type).
			Ref("memberships").
			Field("committee_id").
			Unique().
			Required().
			Immutable(),
		edge.From("member", CouncilMember.Type).
			Ref("memberships").
			Field("member_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the CommitteeMembership.
func (CommitteeMembership) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("committee_id", "member_id", "joined_at").
			Unique(),
		index.Fields("member_id", "left_at"),
	}
}
