package llmorch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItemResponse_WellFormedJSON(t *testing.T) {
	body := `{"summary_markdown":"The council approved the budget.","citizen_impact_markdown":"Taxes unaffected.","topics":["budget"],"confidence":"high"}`
	summary, err := ParseItemResponse(body, false)
	require.NoError(t, err)
	assert.Equal(t, "The council approved the budget.", summary.SummaryMarkdown)
	assert.Equal(t, []string{"budget"}, summary.Topics)
	assert.Equal(t, "high", summary.Confidence)
}

// Matches spec scenario 4: a truncated response with a complete
// summary_markdown prefix but a malformed tail is salvaged with a
// truncation notice and low confidence.
func TestParseItemResponse_TruncationSalvage(t *testing.T) {
	body := `{"summary_markdown":"The council...","citizen_impact_markdown":"`
	summary, err := ParseItemResponse(body, true)
	require.NoError(t, err)
	assert.Contains(t, summary.SummaryMarkdown, "The council...")
	assert.Contains(t, summary.SummaryMarkdown, "truncated")
	assert.Equal(t, "low", summary.Confidence)
}

func TestParseItemResponse_NoRecoverableSummaryIsLLMError(t *testing.T) {
	body := `{"citizen_impact_markdown":"`
	_, err := ParseItemResponse(body, true)
	require.Error(t, err)
}

func TestSalvageSummary_HandlesEscapedQuotes(t *testing.T) {
	text, ok := salvageSummary(`"summary_markdown": "He said \"yes\" to the motion`)
	assert.True(t, ok)
	assert.Equal(t, `He said "yes" to the motion`, text)
}

func TestSalvageSummary_MissingKeyFails(t *testing.T) {
	_, ok := salvageSummary(`{"other_field": "value"`)
	assert.False(t, ok)
}
