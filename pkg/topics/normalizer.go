// Package topics maps freeform LLM-produced topic strings onto the fixed
// 16-tag canonical taxonomy.
package topics

import (
	"log/slog"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Canonical is the fixed 16-tag vocabulary, in the order a round-trip
// Normalize call will sort tags lexicographically regardless of.
var Canonical = []string{
	"housing", "zoning", "transportation", "budget", "public_safety",
	"environment", "parks", "utilities", "economic_development",
	"education", "health", "planning", "permits", "contracts",
	"appointments", "other",
}

// synonyms maps each canonical tag to the freeform strings the LLM tends
// to emit for it. Matching is case-insensitive and trims whitespace.
var synonyms = map[string][]string{
	"housing":              {"housing", "affordable housing", "homelessness", "rent control", "tenant"},
	"zoning":               {"zoning", "rezoning", "land use", "variance", "upzoning"},
	"transportation":       {"transportation", "transit", "traffic", "parking", "bike lane", "roads", "streets"},
	"budget":               {"budget", "appropriation", "fiscal", "finance", "funding"},
	"public_safety":        {"public safety", "police", "fire department", "emergency services", "crime"},
	"environment":          {"environment", "climate", "sustainability", "emissions", "recycling"},
	"parks":                {"parks", "recreation", "open space", "trails"},
	"utilities":            {"utilities", "water", "sewer", "electricity", "broadband"},
	"economic_development": {"economic development", "business", "commercial", "redevelopment"},
	"education":            {"education", "schools", "school district", "curriculum"},
	"health":               {"health", "public health", "mental health", "hospital"},
	"planning":             {"planning", "general plan", "master plan", "urban design"},
	"permits":              {"permits", "permitting", "building permit", "license"},
	"contracts":            {"contracts", "procurement", "bid", "rfp", "vendor agreement"},
	"appointments":         {"appointments", "appointment", "board appointment", "commission appointment"},
	"other":                {"other", "miscellaneous"},
}

// CompiledTopic holds the pre-compiled word-boundary patterns for one
// canonical tag's synonym list, matching pkg/masking's "compile once,
// match many" pattern.
type CompiledTopic struct {
	Tag      string
	Synonyms map[string]bool // lowercase synonym -> present, for direct-hit lookup
	Regexes  []*regexp.Regexp
}

// Normalizer normalizes freeform topic strings against the canonical
// taxonomy using a three-stage match: direct hit, word-boundary partial
// match, then miss (logged to an append-only unknown-topics log).
type Normalizer struct {
	compiled   []*CompiledTopic
	unknownLog *os.File
	mu         sync.Mutex
}

// New builds a Normalizer, compiling all synonym regexes once.
// unknownLogPath may be empty, in which case unknown topics are only logged
// via slog and not persisted to a file.
func New(unknownLogPath string) *Normalizer {
	n := &Normalizer{}
	for _, tag := range Canonical {
		ct := &CompiledTopic{
			Tag:      tag,
			Synonyms: make(map[string]bool),
		}
		for _, syn := range synonyms[tag] {
			lower := strings.ToLower(syn)
			ct.Synonyms[lower] = true
			ct.Regexes = append(ct.Regexes, regexp.MustCompile(`\b`+regexp.QuoteMeta(lower)+`\b`))
		}
		n.compiled = append(n.compiled, ct)
	}

	if unknownLogPath != "" {
		f, err := os.OpenFile(unknownLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			slog.Error("failed to open unknown topics log, continuing without persistence",
				"path", unknownLogPath, "error", err)
		} else {
			n.unknownLog = f
		}
	}
	return n
}

// Close releases the unknown-topics log file handle, if open.
func (n *Normalizer) Close() error {
	if n.unknownLog != nil {
		return n.unknownLog.Close()
	}
	return nil
}

// Normalize maps a freeform topic list to a sorted, deduplicated
// canonical list. Idempotent: normalizing the output again yields the
// same list.
func (n *Normalizer) Normalize(raw []string) []string {
	seen := make(map[string]bool)
	var out []string

	for _, r := range raw {
		tag, ok := n.match(r)
		if !ok {
			n.logUnknown(r)
			continue
		}
		if !seen[tag] {
			seen[tag] = true
			out = append(out, tag)
		}
	}

	sort.Strings(out)
	return out
}

func (n *Normalizer) match(raw string) (string, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return "", false
	}

	// Stage 1: direct hit on canonical tag or listed synonym.
	for _, ct := range n.compiled {
		if trimmed == ct.Tag || ct.Synonyms[trimmed] {
			return ct.Tag, true
		}
	}

	// Stage 2: word-boundary partial match of any synonym as a complete
	// token inside the input string. Prevents e.g. "park" matching "parking".
	for _, ct := range n.compiled {
		for _, re := range ct.Regexes {
			if re.MatchString(trimmed) {
				return ct.Tag, true
			}
		}
	}

	return "", false
}

func (n *Normalizer) logUnknown(raw string) {
	slog.Warn("unrecognized topic, dropped from normalization", "topic", raw)
	if n.unknownLog == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	_, err := n.unknownLog.WriteString(raw + "\n")
	if err != nil {
		slog.Error("failed to append to unknown topics log", "error", err)
	}
}
