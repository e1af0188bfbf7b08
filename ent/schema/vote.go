package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Vote holds the schema definition for the Vote entity: a
// (council_member, matter, meeting) triple.
type Vote struct {
	ent.Schema
}

// Fields of the Vote.
func (Vote) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("vote_id").
			Unique().
			Immutable(),
		field.String("member_id").
			Immutable(),
		field.String("matter_id").
			Immutable(),
		field.String("meeting_id").
			Immutable(),
		field.Enum("value").
			Values("yes", "no", "abstain", "absent", "present", "recused", "not_voting"),
		field.Time("vote_date").
			Optional().
			Nillable(),
		field.Int("sequence").
			Optional().
			Nillable(),
	}
}

// Edges of the Vote.
func (Vote) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("member", CouncilMember.Type).
			Ref("votes").
			Field("member_id").
			Unique().
			Required().
			Immutable(),
		edge.From("matter", Matter.Type).
			Ref("votes").
			Field("matter_id").
			Unique().
			Required().
			Immutable(),
		edge.From("meeting", Meeting.Type).
			Ref("votes").
			Field("meeting_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the Vote.
func (Vote) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("member_id", "matter_id", "meeting_id").
			Unique(),
	}
}
