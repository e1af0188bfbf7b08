package packetfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicsync/ingest/pkg/apperrors"
)

func TestFetcher_Download_ReturnsBodyOnOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("%PDF-1.4 fake packet bytes"))
	}))
	defer server.Close()

	f := New()
	data, err := f.Download(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake packet bytes", string(data))
}

func TestFetcher_Download_NonOKIsExtractionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := New()
	_, err := f.Download(context.Background(), server.URL)
	require.Error(t, err)
	var extErr *apperrors.ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, server.URL, extErr.URL)
}

func TestFetcher_Download_UnreachableHostIsExtractionError(t *testing.T) {
	f := New()
	_, err := f.Download(context.Background(), "http://127.0.0.1:0/packet.pdf")
	require.Error(t, err)
	var extErr *apperrors.ExtractionError
	require.ErrorAs(t, err, &extErr)
}

func TestContentHash_StableAcrossCalls(t *testing.T) {
	data := []byte("same packet bytes")
	assert.Equal(t, ContentHash(data), ContentHash(data))
	assert.NotEqual(t, ContentHash(data), ContentHash([]byte("different bytes")))
}

func TestFixtureCacheRepo_RoundTrip(t *testing.T) {
	repo := NewFixtureCacheRepo()
	hit, err := repo.GetProcessingCache(context.Background(), "https://example.gov/packet.pdf")
	require.NoError(t, err)
	assert.False(t, hit.Found)

	require.NoError(t, repo.RecordProcessingCache(context.Background(), "https://example.gov/packet.pdf", "abc123", "item_level", 1500))

	hit, err = repo.GetProcessingCache(context.Background(), "https://example.gov/packet.pdf")
	require.NoError(t, err)
	assert.True(t, hit.Found)
	assert.Equal(t, "abc123", hit.ContentHash)
	assert.Equal(t, "item_level", hit.Method)
}
