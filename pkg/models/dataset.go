package models

import (
	"fmt"
	"sort"
	"time"
)

// DatasetItem is one record produced by a run, e.g. a scraped business listing.
type DatasetItem struct {
	ID        string         `json:"id"`
	RunID     string         `json:"run_id"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"created_at"`
}

// Field implements table.Row. Unknown names fall through to the data map.
func (d DatasetItem) Field(name string) any {
	switch name {
	case "id":
		return d.ID
	case "run_id":
		return d.RunID
	case "created_at":
		return d.CreatedAt
	}
	return d.Data[name]
}

// Title returns the item's display name.
func (d DatasetItem) Title() string {
	if t, ok := d.Data["title"].(string); ok && t != "" {
		return t
	}
	return "(untitled)"
}

// DataKeys returns the sorted union of data keys across items.
func DataKeys(items []DatasetItem) []string {
	set := map[string]struct{}{}
	for _, it := range items {
		for k := range it.Data {
			set[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Matches reports whether any data value contains the lowercase needle.
func (d DatasetItem) Matches(needleLower string) bool {
	if needleLower == "" {
		return true
	}
	for _, v := range d.Data {
		if containsFold(fmt.Sprint(v), needleLower) {
			return true
		}
	}
	return false
}
