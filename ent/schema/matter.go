package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Matter holds the schema definition for the Matter entity: a canonical
// legislative item that can appear across many meetings.
// Id is derived from (banana, preferred key), where preferred key falls
// back in order: matter_file -> vendor matter_id -> normalized title.
type Matter struct {
	ent.Schema
}

// Fields of the Matter.
func (Matter) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("matter_id").
			Unique().
			Immutable(),
		field.String("banana").
			Immutable(),
		field.String("matter_file").
			Optional().
			Nillable(),
		field.String("matter_type").
			Optional().
			Nillable(),
		field.String("title"),
		field.Strings("sponsors").
			Optional(),
		field.Text("canonical_summary").
			Optional().
			Nillable(),
		field.Strings("canonical_topics").
			Optional(),
		field.JSON("attachments", []map[string]interface{}{}).
			Optional().
			Comment("Canonical attachment snapshot"),
		field.String("attachment_hash").
			Optional().
			Nillable().
			Comment("Last-known attachment fingerprint, used for cache-hit detection"),
		field.JSON("metadata", map[string]interface{}{}).
			Optional(),
		field.Time("first_seen").
			Default(time.Now).
			Immutable(),
		field.Time("last_seen").
			Default(time.Now).
			UpdateDefault(time.Now),
		field.Int("appearance_count").
			Default(0),
		field.Enum("status").
			Values("active", "passed", "failed", "tabled", "withdrawn", "referred", "amended", "vetoed", "enacted").
			Default("active"),
		field.Time("final_vote_date").
			Optional().
			Nillable(),
		field.Float("quality_score").
			Optional().
			Nillable().
			Comment("Denormalized summary-quality score"),
	}
}

// Edges of the Matter.
func (Matter) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("city", City.Type).
			Ref("matters").
			Field("banana").
			Unique().
			Required().
			Immutable(),
		edge.To("items", AgendaItem.Type),
		edge.To("appearances", MatterAppearance.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("votes", Vote.Type),
	}
}

// Indexes of the Matter.
func (Matter) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("banana", "matter_file").
			Unique(),
		index.Fields("banana", "status"),
		index.Fields("appearance_count"),
	}
}
