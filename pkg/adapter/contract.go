// Package adapter defines the vendor adapter contract and the registry
// that maps a vendor tag to its Adapter implementation.
package adapter

import (
	"context"

	"github.com/civicsync/ingest/pkg/models"
)

// Tag identifies one of the eleven supported vendor platforms.
type Tag string

const (
	TagPrimeGov    Tag = "primegov"
	TagGranicus    Tag = "granicus"
	TagCivicPlus   Tag = "civicplus"
	TagCivicClerk  Tag = "civicclerk"
	TagLegistar    Tag = "legistar"
	TagNovusAgenda Tag = "novusagenda"
	TagEscribe     Tag = "escribe"
	TagIQM2        Tag = "iqm2"
	TagMunicode    Tag = "municode"
	TagBoardDocs   Tag = "boarddocs"
	TagSwagit      Tag = "swagit"
)

// AllTags lists the eleven recognized vendor tags, in the order they
// appear in the spec's adapter roster.
var AllTags = []Tag{
	TagPrimeGov, TagGranicus, TagCivicPlus, TagCivicClerk, TagLegistar,
	TagNovusAgenda, TagEscribe, TagIQM2, TagMunicode, TagBoardDocs, TagSwagit,
}

// Adapter is polymorphic over the capability set {fetch, normalize,
// rate-limit delay}. An adapter must not touch the database or queue; it
// only returns data, so it can be unit tested in isolation against
// recorded HTTP cassettes (or, in this repo, fixtures).
type Adapter interface {
	// Tag returns this adapter's vendor tag.
	Tag() Tag

	// Fetch retrieves and normalizes meetings for a city identified by
	// its vendor-specific site id. It must distinguish "zero meetings"
	// (Success=true, empty Meetings) from "adapter failed" (Success=false,
	// Error populated) in the returned FetchResult.
	Fetch(ctx context.Context, vendorSiteID string) (models.FetchResult, error)
}

// ProceduralTitles lists agenda item titles the MatterFilter treats as
// ceremonial/procedural. pkg/repo drops matching items when it upserts a
// meeting's items, so they are never persisted or given item-level LLM
// work; adapters do not filter them. Matching is case-insensitive
// against the trimmed title.
var ProceduralTitles = []string{
	"call to order",
	"roll call",
	"pledge of allegiance",
	"approval of minutes",
	"minutes approval",
	"public comment",
	"adjournment",
	"recess",
}
