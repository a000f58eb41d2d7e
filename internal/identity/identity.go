// Package identity decides which chat users may run administrative workflows.
package identity

import "strings"

// AllowList is a static set of administrator identities.
type AllowList struct {
	ids map[string]struct{}
}

// NewAllowList builds an allow-list from raw ids. Blank entries are ignored.
func NewAllowList(ids []string) *AllowList {
	al := &AllowList{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			al.ids[id] = struct{}{}
		}
	}
	return al
}

// IsAdmin reports whether userID is on the allow-list.
func (a *AllowList) IsAdmin(userID string) bool {
	if a == nil {
		return false
	}
	_, ok := a.ids[strings.TrimSpace(userID)]
	return ok
}

// Len returns the number of administrators.
func (a *AllowList) Len() int {
	if a == nil {
		return 0
	}
	return len(a.ids)
}
