package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// MatterAppearance holds the schema definition for the MatterAppearance
// entity: a single (matter, meeting, item) occurrence of a matter.
type MatterAppearance struct {
	ent.Schema
}

// Fields of the MatterAppearance.
func (MatterAppearance) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("appearance_id").
			Unique().
			Immutable(),
		field.String("matter_id").
			Immutable(),
		field.String("meeting_id").
			Immutable(),
		field.String("item_id").
			Optional().
			Nillable().
			Immutable(),
		field.Time("appeared_at").
			Default(time.Now),
		field.String("committee_id").
			Optional().
			Nillable(),
		field.String("action_label").
			Optional().
			Nillable(),
		field.Enum("vote_outcome").
			Values("passed", "failed", "tabled", "withdrawn", "referred", "amended", "no_vote", "unknown").
			Optional().
			Nillable(),
		field.JSON("vote_tally", map[string]int{}).
			Optional().
			Comment("{yes,no,abstain,absent,...}"),
		field.Int("sequence").
			Optional().
			Nillable(),
	}
}

// Edges of the MatterAppearance.
func (MatterAppearance) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("matter", Matter.Type).
			Ref("appearances").
			Field("matter_id").
			Unique().
			Required().
			Immutable(),
		edge.From("meeting", Meeting.Type).
			Ref("appearances").
			Field("meeting_id").
			Unique().
			Required().
			Immutable(),
		edge.From("item", AgendaItem.Type).
			Ref("appearances").
			Field("item_id").
			Unique().
			Immutable(),
	}
}

// Indexes of the MatterAppearance.
func (MatterAppearance) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("matter_id", "meeting_id", "item_id").
			Unique(),
	}
}
