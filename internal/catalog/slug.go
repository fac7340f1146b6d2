package catalog

import "strings"

// DeriveSlug turns a product name into a URL slug: lower-cased, every run of
// characters outside [a-z0-9] collapsed into one hyphen, edge hyphens removed.
func DeriveSlug(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// SanitizeSlugInput is applied to hand-typed slugs: lower-case and drop any
// character outside [a-z0-9-]. Hyphen runs are kept so validation can flag them.
func SanitizeSlugInput(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MinSlugLength is the shortest slug accepted as valid.
const MinSlugLength = 3

// SlugValid reports whether s is at least MinSlugLength long, uses only
// [a-z0-9-], and has no consecutive or edge hyphens.
func SlugValid(s string) bool {
	if len(s) < MinSlugLength {
		return false
	}
	if strings.Contains(s, "--") || strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") {
		return false
	}
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}
	return true
}
