// Package vendors ships one fixture-backed Adapter per vendor tag.
// Production HTML/API parsers for the eleven platforms are out of scope
// (spec.md §1); these adapters exercise the Adapter contract and
// registry end-to-end without real vendor HTTP calls.
package vendors

import (
	"context"

	"github.com/civicsync/ingest/pkg/adapter"
	"github.com/civicsync/ingest/pkg/models"
)

// FixtureAdapter returns a canned FetchResult regardless of the
// requested vendor site id, keyed only by its own vendor Tag.
type FixtureAdapter struct {
	tag    adapter.Tag
	result models.FetchResult
}

// NewFixtureAdapter builds an adapter that always returns result for tag.
func NewFixtureAdapter(tag adapter.Tag, result models.FetchResult) *FixtureAdapter {
	return &FixtureAdapter{tag: tag, result: result}
}

func (a *FixtureAdapter) Tag() adapter.Tag { return a.tag }

func (a *FixtureAdapter) Fetch(_ context.Context, _ string) (models.FetchResult, error) {
	for i := range a.result.Meetings {
		for j := range a.result.Meetings[i].Items {
			a.result.Meetings[i].Items[j].Attachments = adapter.DeduplicateAttachmentVersions(
				a.result.Meetings[i].Items[j].Attachments)
		}
	}
	return a.result, nil
}

// NewAll returns one fixture-backed adapter for every registered vendor
// tag, ready to seed an adapter.Registry in tests or local runs.
func NewAll() []adapter.Adapter {
	return []adapter.Adapter{
		NewPrimeGov(),
		NewGranicus(),
		NewCivicPlus(),
		NewCivicClerk(),
		NewLegistar(),
		NewNovusAgenda(),
		NewEscribe(),
		NewIQM2(),
		NewMunicode(),
		NewBoardDocs(),
		NewSwagit(),
	}
}
