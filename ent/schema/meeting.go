package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Meeting holds the schema definition for the Meeting entity.
// Canonical id = banana + '_' + md5(vendor_id)[0:8].
type Meeting struct {
	ent.Schema
}

// Fields of the Meeting.
func (Meeting) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("meeting_id").
			Unique().
			Immutable(),
		field.String("banana").
			Immutable(),
		field.String("vendor_id").
			Immutable().
			Comment("Vendor-native identifier; not globally unique on its own"),
		field.String("title"),
		field.Time("meeting_date").
			Optional().
			Nillable().
			Comment("May be null/TBD"),
		field.String("agenda_url").
			Optional().
			Nillable(),
		field.String("packet_url").
			Optional().
			Nillable(),
		field.String("committee_id").
			Optional().
			Nillable(),
		field.Text("summary").
			Optional().
			Nillable().
			Comment("Populated iff processing_method is monolithic"),
		field.JSON("participation", map[string]interface{}{}).
			Optional().
			Comment("{email?, phone?, virtual_url?, meeting_id?, is_hybrid, is_virtual_only}"),
		field.Enum("meeting_status").
			Values("cancelled", "postponed", "deferred", "revised", "rescheduled").
			Optional().
			Nillable(),
		field.Enum("processing_status").
			Values("pending", "processing", "completed", "failed").
			Default("pending"),
		field.String("processing_method").
			Optional().
			Nillable().
			Comment("item_level_{N} | monolithic | matter_cache_hit | no_attachments"),
		field.Int("processing_time_ms").
			Optional().
			Nillable(),
		field.Strings("topics").
			Optional().
			Comment("Sorted set-union of child item topics"),
		field.JSON("metadata", map[string]interface{}{}).
			Optional().
			Comment("Opaque adapter-supplied metadata, passed through without inspection"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

// Edges of the Meeting.
func (Meeting) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("city", City.Type).
			Ref("meetings").
			Field("banana").
			Unique().
			Required().
			Immutable(),
		edge.To("items", AgendaItem.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("appearances", MatterAppearance.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("votes", Vote.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the Meeting.
func (Meeting) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("banana", "vendor_id").
			Unique(),
		index.Fields("processing_status"),
		index.Fields("meeting_date"),
		index.Fields("banana", "processing_status"),
	}
}
