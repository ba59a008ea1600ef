package slug

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9 -]+`)
	dashRuns     = regexp.MustCompile(`[\s-]+`)
)

// Make builds a lowercase, dash-separated slug from free text.
// Example: "5 Tips for Managing Seasonal Allergies" -> "5-tips-for-managing-seasonal-allergies"
func Make(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = nonSlugChars.ReplaceAllString(s, "")
	s = dashRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// MakeWithID appends a numeric ID so slugs stay unique across records with
// the same title. Example: "Dr. Sarah Johnson" + 1 -> "dr-sarah-johnson-1"
func MakeWithID(text string, id int) string {
	base := Make(text)
	if base == "" {
		return fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("%s-%d", base, id)
}
