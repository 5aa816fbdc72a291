package status

import (
	"strings"
	"unicode"
)

// ReservedSlugPrefix is the prefix the host order system adds to status keys.
// Slugs are stored without it; PrefixedSlug adds it back when talking to the host.
const ReservedSlugPrefix = "wc-"

// maxSlugLength bounds slugs so the prefixed key fits the host's status field.
const maxSlugLength = 20

// NormalizeSlug converts raw input into a storable status slug.
// Lowercases, turns whitespace and underscores into dashes, drops anything
// outside [a-z0-9-], collapses dash runs, strips the reserved prefix and
// truncates to the maximum slug length.
func NormalizeSlug(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		switch {
		case unicode.IsSpace(r) || r == '_':
			b.WriteRune('-')
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-':
			b.WriteRune(r)
		}
	}

	slug := b.String()
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	slug = strings.Trim(slug, "-")

	slug = strings.TrimPrefix(slug, ReservedSlugPrefix)

	if len(slug) > maxSlugLength {
		slug = slug[:maxSlugLength]
	}

	return slug
}
