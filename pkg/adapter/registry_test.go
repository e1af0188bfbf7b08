package adapter_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicsync/ingest/pkg/adapter"
	"github.com/civicsync/ingest/pkg/models"
)

type stubAdapter struct{ tag adapter.Tag }

func (s stubAdapter) Tag() adapter.Tag { return s.tag }
func (s stubAdapter) Fetch(_ context.Context, _ string) (models.FetchResult, error) {
	return models.FetchResult{Success: true}, nil
}

func TestRegistry_GetReturnsRegisteredAdapter(t *testing.T) {
	r := adapter.NewRegistry(stubAdapter{tag: adapter.TagPrimeGov})

	got, err := r.Get(adapter.TagPrimeGov)
	require.NoError(t, err)
	assert.Equal(t, adapter.TagPrimeGov, got.Tag())
}

func TestRegistry_GetUnknownTagFails(t *testing.T) {
	r := adapter.NewRegistry()

	_, err := r.Get(adapter.TagGranicus)
	assert.ErrorIs(t, err, adapter.ErrAdapterNotFound)
}

func TestRegistry_HasAndLen(t *testing.T) {
	r := adapter.NewRegistry(stubAdapter{tag: adapter.TagPrimeGov}, stubAdapter{tag: adapter.TagSwagit})

	assert.True(t, r.Has(adapter.TagPrimeGov))
	assert.False(t, r.Has(adapter.TagMunicode))
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_GetAllReturnsDefensiveCopy(t *testing.T) {
	r := adapter.NewRegistry(stubAdapter{tag: adapter.TagPrimeGov})

	all := r.GetAll()
	delete(all, adapter.TagPrimeGov)

	assert.True(t, r.Has(adapter.TagPrimeGov))
}

func TestRegistry_RegisterReplacesExisting(t *testing.T) {
	r := adapter.NewRegistry(stubAdapter{tag: adapter.TagPrimeGov})
	r.Register(stubAdapter{tag: adapter.TagPrimeGov})

	assert.Equal(t, 1, r.Len())
}
