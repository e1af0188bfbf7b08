package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ProcessingCache holds the schema definition for the ProcessingCache
// entity, keyed by packet URL, used for idempotence across syncs.
type ProcessingCache struct {
	ent.Schema
}

// Fields of the ProcessingCache.
func (ProcessingCache) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("packet_url").
			Unique().
			Immutable(),
		field.String("content_hash"),
		field.String("method").
			Comment("Chosen processing method for this packet"),
		field.Int("elapsed_ms"),
		field.Int("hit_count").
			Default(0),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("last_accessed_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

// Indexes of the ProcessingCache.
func (ProcessingCache) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("last_accessed_at"),
	}
}
