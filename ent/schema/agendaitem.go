package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AgendaItem holds the schema definition for the AgendaItem entity.
// Canonical id = meeting_id + '_' + short_hash(sequence + title).
type AgendaItem struct {
	ent.Schema
}

// Fields of the AgendaItem.
func (AgendaItem) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("item_id").
			Unique().
			Immutable(),
		field.String("meeting_id").
			Immutable(),
		field.String("title"),
		field.Int("sequence"),
		field.JSON("attachments", []map[string]interface{}{}).
			Optional().
			Comment("Ordered list of {name, url, type, history_id?}"),
		field.String("attachment_hash").
			Optional().
			Nillable().
			Comment("Stable sha256 of sorted attachment URLs"),
		field.String("matter_id").
			Optional().
			Nillable(),
		field.String("matter_file").
			Optional().
			Nillable().
			Comment("Denormalized from the linked Matter"),
		field.String("matter_type").
			Optional().
			Nillable(),
		field.String("agenda_number").
			Optional().
			Nillable(),
		field.Strings("sponsors").
			Optional(),
		field.Text("summary").
			Optional().
			Nillable(),
		field.Strings("topics").
			Optional().
			Comment("Canonical list, 0-3 entries"),
		field.String("processing_method").
			Optional().
			Nillable().
			Comment("matter_cache_hit | no_attachments | llm_item"),
		field.String("error_message").
			Optional().
			Nillable(),
	}
}

// Edges of the AgendaItem.
func (AgendaItem) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("meeting", Meeting.Type).
			Ref("items").
			Field("meeting_id").
			Unique().
			Required().
			Immutable(),
		edge.From("matter", Matter.Type).
			Ref("items").
			Field("matter_id").
			Unique().
			Comment("Weak reference: lookup, not ownership"),
		edge.To("appearances", MatterAppearance.Type),
	}
}

// Indexes of the AgendaItem.
func (AgendaItem) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("meeting_id", "sequence"),
		index.Fields("matter_id"),
	}
}
