package adapter

import "strings"

// IsProcedural reports whether title names an obvious procedural or
// ceremonial agenda item (call to order, roll call, minutes approval,
// public comment block, adjournment, recess). pkg/repo calls it at item
// upsert and drops matching items.
func IsProcedural(title string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(title))
	for _, p := range ProceduralTitles {
		if trimmed == p || strings.Contains(trimmed, p) {
			return true
		}
	}
	return false
}
