package llmorch

import (
	"encoding/json"
	"strings"

	"github.com/civicsync/ingest/pkg/apperrors"
	"github.com/civicsync/ingest/pkg/topics"
)

// ItemSummary is the parsed, schema-valid shape of an item-level LLM
// response, before topic normalization.
type ItemSummary struct {
	SummaryMarkdown        string   `json:"summary_markdown"`
	CitizenImpactMarkdown  string   `json:"citizen_impact_markdown"`
	Topics                 []string `json:"topics"`
	Confidence             string   `json:"confidence"`
}

// truncationNotice is appended to a salvaged summary so readers know the
// model's output was cut short.
const truncationNotice = "\n\n_[response truncated by the model; summary may be incomplete]_"

// ParseItemResponse parses a (possibly truncated) item response body. A
// well-formed JSON object is unmarshaled directly. A truncated response
// (provider-reported) is salvaged via salvageSummary; if no summary text
// is recoverable, an *apperrors.LLMError is returned.
func ParseItemResponse(text string, truncated bool) (ItemSummary, error) {
	if !truncated {
		var parsed ItemSummary
		if err := json.Unmarshal([]byte(text), &parsed); err == nil {
			return parsed, nil
		}
		// Fall through to salvage: some providers mark truncated=false
		// but still return malformed JSON under load; treat the same way.
	}

	summary, ok := salvageSummary(text)
	if !ok {
		return ItemSummary{}, &apperrors.LLMError{Reason: "no summary recoverable from truncated response"}
	}

	return ItemSummary{
		SummaryMarkdown: summary + truncationNotice,
		Confidence:      "low",
	}, nil
}

// salvageSummary tolerantly scans a truncated JSON body for a complete
// "summary_markdown" field value, even if the rest of the object is
// malformed or cut off mid-token. Best-effort: it only recognizes the
// simple `"summary_markdown": "..."` shape, not nested escapes beyond
// standard JSON string escaping.
func salvageSummary(text string) (string, bool) {
	const key = `"summary_markdown"`
	idx := strings.Index(text, key)
	if idx == -1 {
		return "", false
	}

	rest := text[idx+len(key):]
	colon := strings.IndexByte(rest, ':')
	if colon == -1 {
		return "", false
	}
	rest = strings.TrimSpace(rest[colon+1:])
	if len(rest) == 0 || rest[0] != '"' {
		return "", false
	}
	rest = rest[1:]

	var b strings.Builder
	escaped := false
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		if escaped {
			switch c {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '"', '\\':
				b.WriteByte(c)
			default:
				b.WriteByte(c)
			}
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c == '"' {
			// Reached a clean closing quote: the field wasn't actually
			// truncated, just the rest of the object was.
			return b.String(), b.Len() > 0
		}
		b.WriteByte(c)
	}

	// Ran off the end of the string without a closing quote: the field
	// itself was cut mid-value. Whatever was captured is still usable.
	return b.String(), b.Len() > 0
}

// NormalizeTopics passes a parsed summary's raw topics through the
// Topic Normalizer, falling back to ["other"] when every topic is
// rejected as unrecognized.
func NormalizeTopics(n *topics.Normalizer, raw []string) []string {
	normalized := n.Normalize(raw)
	if len(normalized) == 0 {
		return []string{"other"}
	}
	return normalized
}
