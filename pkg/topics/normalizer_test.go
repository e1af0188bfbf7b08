package topics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_DirectHit(t *testing.T) {
	n := New("")
	defer n.Close()

	got := n.Normalize([]string{"Housing", "budget"})
	assert.Equal(t, []string{"budget", "housing"}, got)
}

func TestNormalize_WordBoundaryAvoidsFalsePositive(t *testing.T) {
	n := New("")
	defer n.Close()

	// "parking enforcement" maps only to transportation, via its whole-word
	// "parking" synonym, and not to parks.
	got := n.Normalize([]string{"parking enforcement"})
	assert.Equal(t, []string{"transportation"}, got)
}

func TestNormalize_MissLogsAndDrops(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "unknown_topics.log")

	n := New(logPath)
	got := n.Normalize([]string{"underwater basket weaving"})
	require.NoError(t, n.Close())

	assert.Empty(t, got)
	assertFileContains(t, logPath, "underwater basket weaving")
}

func TestNormalize_IdempotentAndSorted(t *testing.T) {
	n := New("")
	defer n.Close()

	first := n.Normalize([]string{"zoning", "housing", "zoning"})
	second := n.Normalize(first)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"housing", "zoning"}, first)
}

func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), substr)
}
