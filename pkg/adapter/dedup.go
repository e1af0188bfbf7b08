package adapter

import (
	"regexp"
	"strconv"

	"github.com/civicsync/ingest/pkg/models"
)

// legVerPattern extracts a trailing "Leg Ver N" (or "Legislative Version
// N", case-insensitive) marker from an attachment name.
var legVerPattern = regexp.MustCompile(`(?i)leg(?:islative)?\s*ver(?:sion)?\.?\s*(\d+)`)

// DeduplicateAttachmentVersions collapses attachment name collisions
// (same file re-posted across amendments) to the highest "Leg Ver" found
// for each base name, per spec.md §4.3. Attachments without a detectable
// version marker are kept as-is; only names that repeat are deduplicated.
func DeduplicateAttachmentVersions(attachments []models.Attachment) []models.Attachment {
	type candidate struct {
		att     models.Attachment
		version int
		hasVer  bool
	}

	bestByBaseName := make(map[string]candidate)
	var order []string

	for _, a := range attachments {
		base, version, hasVer := splitLegVer(a.Name)
		existing, seen := bestByBaseName[base]
		if !seen {
			order = append(order, base)
			bestByBaseName[base] = candidate{att: a, version: version, hasVer: hasVer}
			continue
		}
		if hasVer && (!existing.hasVer || version > existing.version) {
			bestByBaseName[base] = candidate{att: a, version: version, hasVer: hasVer}
		}
	}

	out := make([]models.Attachment, 0, len(order))
	for _, base := range order {
		out = append(out, bestByBaseName[base].att)
	}
	return out
}

func splitLegVer(name string) (base string, version int, hasVer bool) {
	loc := legVerPattern.FindStringSubmatchIndex(name)
	if loc == nil {
		return name, 0, false
	}
	v, err := strconv.Atoi(name[loc[2]:loc[3]])
	if err != nil {
		return name, 0, false
	}
	return name[:loc[0]], v, true
}
