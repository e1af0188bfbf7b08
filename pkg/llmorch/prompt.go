package llmorch

import (
	"fmt"

	"github.com/civicsync/ingest/pkg/llmprovider"
)

// itemSystemPrompt is the unified item prompt: one instruction asking
// for the fixed {summary_markdown, citizen_impact_markdown, topics,
// confidence} JSON shape, used for every item-level call regardless of
// size.
const itemSystemPrompt = `You are summarizing a single agenda item for a public civic-meeting ` +
	`agenda tool. Respond with a single JSON object matching this schema exactly: ` +
	`{"summary_markdown": string, "citizen_impact_markdown": string, "topics": [string, 1 to 3 entries], ` +
	`"confidence": "high"|"medium"|"low"}. Do not include any text outside the JSON object.`

const monolithicShortPrompt = `You are summarizing a full meeting packet (30 pages or fewer) for a ` +
	`public civic-meeting agenda tool. Write a single markdown summary covering every agenda item in ` +
	`the packet, organized by item. Do not return JSON — markdown text only.`

const monolithicLongPrompt = `You are summarizing a full meeting packet (more than 30 pages) for a ` +
	`public civic-meeting agenda tool. The packet is long: prioritize action items, votes, and items ` +
	`with direct resident impact, and briefly note procedural items. Write a single markdown summary. ` +
	`Do not return JSON — markdown text only.`

// ItemRequest is the assembled input for one item-level LLM call:
// extracted attachment text plus the title, per spec.md §4.5 step 3.
type ItemRequest struct {
	Title     string
	Text      string
	PageCount int
}

// BuildItemMessages builds the message list for a single item call.
func BuildItemMessages(req ItemRequest) []llmprovider.Message {
	return []llmprovider.Message{
		{Role: "system", Content: itemSystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Agenda item: %s\n\n%s", req.Title, req.Text)},
	}
}

// BuildMonolithicMessages builds the message list for a whole-packet
// meeting call, selecting the short or long prompt by page count.
func BuildMonolithicMessages(promptType PromptType, packetText string) []llmprovider.Message {
	system := monolithicShortPrompt
	if promptType == PromptMonolithicLong {
		system = monolithicLongPrompt
	}
	return []llmprovider.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: packetText},
	}
}
