package slug

import (
	"regexp"
	"strings"
)

var reSlug = regexp.MustCompile(`^[a-z0-9-]{2,40}$`)

var folds = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
)

// IsSlug returns true if s matches ^[a-z0-9-]{2,40}$
func IsSlug(s string) bool {
	return reSlug.MatchString(s)
}

// Slugify converts s to a category id: lowercase, Spanish accents folded,
// anything outside [a-z0-9] becomes '-', repeats collapse, trimmed to 40.
func Slugify(s string) string {
	if s == "" {
		return s
	}
	out := make([]rune, 0, len(s))
	prevDash := false
	for _, r := range folds.Replace(strings.ToLower(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			out = append(out, r)
			prevDash = false
		} else if !prevDash {
			out = append(out, '-')
			prevDash = true
		}
		if len(out) >= 40 {
			break
		}
	}
	return strings.Trim(string(out), "-")
}
