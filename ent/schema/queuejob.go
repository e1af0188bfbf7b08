package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// QueueJob holds the schema definition for the QueueJob entity: a
// persistent priority-FIFO row with per-row lease semantics.
type QueueJob struct {
	ent.Schema
}

// Fields of the QueueJob.
func (QueueJob) Fields() []ent.Field {
	return []ent.Field{
		field.Int("id").
			Comment("Monotonic id"),
		field.String("source_url").
			Unique().
			Comment("Idempotency key"),
		field.String("meeting_id").
			Optional().
			Nillable(),
		field.String("banana").
			Optional().
			Nillable(),
		field.String("job_type").
			Comment("e.g. item_level, monolithic"),
		field.JSON("payload", map[string]interface{}{}).
			Optional(),
		field.Enum("status").
			Values("pending", "processing", "completed", "failed", "dead_letter").
			Default("pending"),
		field.Int("priority").
			Default(0).
			Comment("Higher runs first"),
		field.Int("retry_count").
			Default(0),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("started_at").
			Optional().
			Nillable(),
		field.Time("completed_at").
			Optional().
			Nillable(),
		field.Time("failed_at").
			Optional().
			Nillable(),
		field.Time("next_attempt_at").
			Optional().
			Nillable().
			Comment("Earliest retry time after a backoff"),
		field.String("error_message").
			Optional().
			Nillable(),
		field.JSON("processing_metadata", map[string]interface{}{}).
			Optional(),
		field.String("claimed_by").
			Optional().
			Nillable().
			Comment("Worker id that currently owns the lease"),
	}
}

// Edges of the QueueJob.
func (QueueJob) Edges() []ent.Edge {
	return nil
}

// Indexes of the QueueJob.
func (QueueJob) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("status", "priority", "created_at"),
		index.Fields("status", "next_attempt_at"),
		index.Fields("meeting_id"),
	}
}
