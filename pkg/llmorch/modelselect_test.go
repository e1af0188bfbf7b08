package llmorch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/civicsync/ingest/pkg/config"
)

func testLLMConfig() *config.LLMConfig {
	return config.DefaultLLMConfig()
}

func TestSelectModel_DefaultsToPrimary(t *testing.T) {
	cfg := testLLMConfig()
	model := SelectModel(cfg, RequestShape{PageCount: 5, TextLength: 1000})
	assert.Equal(t, cfg.PrimaryModel, model)
}

func TestSelectModel_UsesLiteWhenGatedAndSmall(t *testing.T) {
	cfg := testLLMConfig()
	cfg.UseFlashLite = true
	model := SelectModel(cfg, RequestShape{PageCount: 40, TextLength: 100000})
	assert.Equal(t, cfg.LiteModel, model)
}

func TestSelectModel_SkipsLiteWhenTooLarge(t *testing.T) {
	cfg := testLLMConfig()
	cfg.UseFlashLite = true
	model := SelectModel(cfg, RequestShape{PageCount: 60, TextLength: 1000})
	assert.Equal(t, cfg.PrimaryModel, model)
}

func TestSelectModel_ReservesLargeModelForBigPacket(t *testing.T) {
	cfg := testLLMConfig()
	model := SelectModel(cfg, RequestShape{PageCount: 100, TextLength: 1000})
	assert.Equal(t, cfg.LargeModel, model)
}

func TestSelectModel_ReservesLargeModelForMonolithic(t *testing.T) {
	cfg := testLLMConfig()
	model := SelectModel(cfg, RequestShape{PageCount: 5, Monolithic: true})
	assert.Equal(t, cfg.LargeModel, model)
}

func TestSelectPrompt_ItemIsAlwaysUnified(t *testing.T) {
	assert.Equal(t, PromptItem, SelectPrompt(RequestShape{PageCount: 200}))
}

func TestSelectPrompt_MonolithicKeyedOnPageCount(t *testing.T) {
	assert.Equal(t, PromptMonolithicShort, SelectPrompt(RequestShape{Monolithic: true, PageCount: 30}))
	assert.Equal(t, PromptMonolithicLong, SelectPrompt(RequestShape{Monolithic: true, PageCount: 31}))
}

func TestSelectThinkingBudget_SimpleItemDisabled(t *testing.T) {
	tier := SelectThinkingBudget(RequestShape{PageCount: 10, TextLength: 30000})
	assert.Equal(t, ThinkingDisabled, tier)
}

func TestSelectThinkingBudget_MediumItemDefault(t *testing.T) {
	tier := SelectThinkingBudget(RequestShape{PageCount: 20, TextLength: 50000})
	assert.Equal(t, ThinkingDefault, tier)
}

func TestSelectThinkingBudget_ComplexItemUnbounded(t *testing.T) {
	tier := SelectThinkingBudget(RequestShape{PageCount: 40, TextLength: 50000})
	assert.Equal(t, ThinkingUnbounded, tier)
}

func TestSelectThinkingBudget_MonolithicAlwaysUnbounded(t *testing.T) {
	tier := SelectThinkingBudget(RequestShape{Monolithic: true, PageCount: 1})
	assert.Equal(t, ThinkingUnbounded, tier)
}
