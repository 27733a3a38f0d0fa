package repository

import (
	"strconv"

	"github.com/maheshrc27/autoposter/internal/models"
)

// fields maps selectable record keys to their values. Status and enum values
// are exposed as plain strings.
var fields = map[string]func(p *models.Post) any{
	"x_status":     func(p *models.Post) any { return string(p.XStatus) },
	"ig_status":    func(p *models.Post) any { return string(p.IGStatus) },
	"fb_status":    func(p *models.Post) any { return string(p.FBStatus) },
	"is_processed": func(p *models.Post) any { return p.IsProcessed },
	"is_thread":    func(p *models.Post) any { return p.IsThread },
	"post_type":    func(p *models.Post) any { return string(p.PostType) },
	"theme":        func(p *models.Post) any { return string(p.Theme) },
	"copied":       func(p *models.Post) any { return p.Copied },
	"ai_content":   func(p *models.Post) any { return p.AIContent },
}

// IsSelectableField reports whether key can be used in a filter.
func IsSelectableField(key string) bool {
	_, ok := fields[key]
	return ok
}

var boolFields = map[string]bool{
	"is_processed": true,
	"is_thread":    true,
	"copied":       true,
	"ai_content":   true,
}

// ParseFieldValue converts a raw query value for key. Only boolean fields
// parse booleans; every other value stays a string.
func ParseFieldValue(key, raw string) any {
	if !boolFields[key] {
		return raw
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

func normalize(v any) any {
	switch t := v.(type) {
	case models.PostingStatus:
		return string(t)
	case models.PostType:
		return string(t)
	case models.Theme:
		return string(t)
	}
	return v
}

// FieldEquals matches posts whose key field equals value. Unknown keys never
// match.
func FieldEquals(key string, value any) func(*models.Post) bool {
	get, ok := fields[key]
	if !ok {
		return func(*models.Post) bool { return false }
	}
	want := normalize(value)
	return func(p *models.Post) bool {
		return get(p) == want
	}
}

// MatchAll matches posts with statusKey == statusValue and every filter pair.
func MatchAll(statusKey string, statusValue any, filters map[string]any) func(*models.Post) bool {
	preds := []func(*models.Post) bool{FieldEquals(statusKey, statusValue)}
	for k, v := range filters {
		preds = append(preds, FieldEquals(k, v))
	}
	return func(p *models.Post) bool {
		for _, pred := range preds {
			if !pred(p) {
				return false
			}
		}
		return true
	}
}
