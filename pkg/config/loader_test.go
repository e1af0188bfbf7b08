package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize_MissingFileFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, DefaultQueueConfig(), cfg.Queue)
	assert.Equal(t, DefaultLLMConfig(), cfg.LLM)
	assert.Equal(t, DefaultSchedulerConfig(), cfg.Scheduler)
}

func TestInitialize_PartialYAMLOverridesOnlySetFields(t *testing.T) {
	dir := t.TempDir()
	yamlContent := `
queue:
  llm_concurrency: 7
llm:
  use_flash_lite: true
  primary_model: gemini-2.5-flash
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "civicagenda.yaml"), []byte(yamlContent), 0o644))

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Queue.LLMConcurrency)
	assert.Equal(t, DefaultQueueConfig().MaxRetries, cfg.Queue.MaxRetries)
	assert.True(t, cfg.LLM.UseFlashLite)
}

func TestInitialize_ExpandsEnvVars(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CIVICAGENDA_TEST_KEY_ENV", "MY_SECRET_KEY")
	yamlContent := "llm:\n  api_key_env: ${CIVICAGENDA_TEST_KEY_ENV}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "civicagenda.yaml"), []byte(yamlContent), 0o644))

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "MY_SECRET_KEY", cfg.LLM.APIKeyEnv)
}

func TestInitialize_InvalidYAMLFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "civicagenda.yaml"), []byte("queue: [this is not a map"), 0o644))

	_, err := Initialize(context.Background(), dir)
	assert.Error(t, err)
}

func TestInitialize_RejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "civicagenda.yaml"), []byte("queue:\n  llm_concurrency: 0\n"), 0o644))

	_, err := Initialize(context.Background(), dir)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestDefaultLLMConfig_ScheduleValues(t *testing.T) {
	l := DefaultLLMConfig()
	assert.Equal(t, []time.Duration{30 * time.Second, 60 * time.Second, 90 * time.Second}, l.RateLimitSchedule)
	assert.Equal(t, 180*time.Second, l.RateLimitCap)
	assert.Equal(t, 5, l.BatchChunkSize)
	assert.Equal(t, 120*time.Second, l.BatchChunkDelay)
	assert.Equal(t, []time.Duration{60 * time.Second, 120 * time.Second, 240 * time.Second}, l.BatchRetrySchedule)
	assert.Equal(t, 1024, l.ContextCacheTokenThreshold)
}
