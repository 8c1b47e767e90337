package filter

import (
	"regexp"
	"strings"
)

// All is the wildcard category; it is always first and always valid.
const All = "All"

const catSeparator = "||"

var splitCategories = regexp.MustCompile(`[,/]`)

// ParseCategories splits a category label on commas or slashes,
// trimming each part and dropping empty ones.
func ParseCategories(label string) []string {
	var out []string
	for _, part := range splitCategories.Split(label, -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// icons maps known categories to their button glyph.
// Categories outside this set render without an icon.
var icons = map[string]string{
	All:        "✦",
	"Website":  "🌐",
	"Game":     "🎮",
	"Mobile":   "📱",
	"Design":   "🎨",
	"AI":       "🤖",
	"Security": "🔒",
}

// Icon returns the glyph for category, or "".
func Icon(category string) string {
	return icons[category]
}

func joinCats(cats []string) string {
	return strings.Join(cats, catSeparator)
}

func splitCats(attr string) []string {
	if attr == "" {
		return nil
	}
	var out []string
	for _, c := range strings.Split(attr, catSeparator) {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}
