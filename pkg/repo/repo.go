// Package repo is the ent-backed persistence layer: City, Meeting,
// AgendaItem, Matter, MatterAppearance, CouncilMember, Committee, Vote,
// and ProcessingCache repositories. It is the concrete implementation
// behind the narrow interfaces consumers (pkg/fetcher, pkg/processor)
// declare for themselves.
package repo

import (
	"github.com/civicsync/ingest/ent"
	"github.com/civicsync/ingest/pkg/fetcher"
)

// Repo bundles all persistence operations over a single ent client.
type Repo struct {
	client *ent.Client
}

// New builds a Repo over an already-connected ent client.
func New(client *ent.Client) *Repo {
	return &Repo{client: client}
}

var _ fetcher.Repo = (*Repo)(nil)
