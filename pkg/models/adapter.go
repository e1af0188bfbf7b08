// Package models defines the plain data types that cross the Adapter
// boundary: what a vendor adapter returns and what the Fetcher validates.
package models

import "time"

// Attachment is a single file attached to an AgendaItem.
type Attachment struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	Type      string `json:"type"` // pdf | doc | spreadsheet | unknown
	HistoryID string `json:"history_id,omitempty"`
}

// VoteRecord is a single council member's vote on an agenda item, as
// reported by the adapter (distinct from the persisted Vote entity).
type VoteRecord struct {
	MemberName string `json:"member_name"`
	Value      string `json:"value"` // yes | no | abstain | absent | present | recused | not_voting
}

// AgendaItem is the adapter's view of a single agenda item.
type AgendaItem struct {
	VendorItemID string            `json:"vendor_item_id,omitempty"`
	Title        string            `json:"title"`
	Sequence     int               `json:"sequence"`
	Attachments  []Attachment      `json:"attachments"`
	MatterID     string            `json:"matter_id,omitempty"`
	MatterFile   string            `json:"matter_file,omitempty"`
	MatterType   string            `json:"matter_type,omitempty"`
	AgendaNumber string            `json:"agenda_number,omitempty"`
	Sponsors     []string          `json:"sponsors,omitempty"`
	Votes        []VoteRecord      `json:"votes,omitempty"`
	Metadata     map[string]any    `json:"metadata,omitempty"`
}

// Participation describes how the public can join or watch a meeting.
type Participation struct {
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	VirtualURL    string `json:"virtual_url,omitempty"`
	MeetingID     string `json:"meeting_id,omitempty"`
	IsHybrid      bool   `json:"is_hybrid"`
	IsVirtualOnly bool   `json:"is_virtual_only"`
}

// Meeting is the adapter's view of a single meeting record.
type Meeting struct {
	VendorID      string         `json:"vendor_id"`
	Title         string         `json:"title"`
	Start         time.Time      `json:"start"`
	HasStart      bool           `json:"-"` // false when the adapter could not determine a date
	AgendaURL     string         `json:"agenda_url,omitempty"`
	PacketURL     string         `json:"packet_url,omitempty"`
	Items         []AgendaItem   `json:"items,omitempty"`
	Participation *Participation `json:"participation,omitempty"`
	MeetingStatus string         `json:"meeting_status,omitempty"`
	VendorBodyID  string         `json:"vendor_body_id,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// FetchResult is what a vendor adapter returns from a single fetch call.
// It distinguishes "zero meetings" (Success=true, empty Meetings) from
// "adapter failed" (Success=false, Error populated).
type FetchResult struct {
	Success   bool      `json:"success"`
	Meetings  []Meeting `json:"meetings"`
	Error     string    `json:"error,omitempty"`
	ErrorType string    `json:"error_type,omitempty"`
}
