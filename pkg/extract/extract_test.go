package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFExtractor_RejectsMalformedInput(t *testing.T) {
	e := NewPDFExtractor()
	_, err := e.Extract(context.Background(), "https://city.gov/packet.pdf", []byte("not a pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "packet.pdf")
}

func TestFixtureExtractor_ReturnsConfiguredResult(t *testing.T) {
	f := NewFixtureExtractor()
	f.Results["https://city.gov/a.pdf"] = Result{Text: "agenda text", PageCount: 3, Success: true}

	result, err := f.Extract(context.Background(), "https://city.gov/a.pdf", nil)
	require.NoError(t, err)
	assert.Equal(t, "agenda text", result.Text)
	assert.Equal(t, 3, result.PageCount)
	assert.True(t, result.Success)
	assert.Equal(t, []string{"https://city.gov/a.pdf"}, f.Calls)
}

func TestFixtureExtractor_ReturnsConfiguredError(t *testing.T) {
	f := NewFixtureExtractor()
	boom := assertErr{"boom"}
	f.Err["https://city.gov/bad.pdf"] = boom

	_, err := f.Extract(context.Background(), "https://city.gov/bad.pdf", nil)
	assert.Equal(t, boom, err)
}

func TestFixtureExtractor_DefaultsToUnsuccessful(t *testing.T) {
	f := NewFixtureExtractor()
	result, err := f.Extract(context.Background(), "https://city.gov/unknown.pdf", nil)
	require.NoError(t, err)
	assert.False(t, result.Success)
}

type assertErr struct{ msg string }

func (e assertErr) Error() string { return e.msg }
