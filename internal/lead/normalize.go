package lead

import (
	"strings"
)

// The normalizers below canonicalize raw field values so comparisons are
// meaningful. All are pure, total, and idempotent; malformed input degrades
// to an unhelpful-but-harmless value rather than an error.

// NormalizeName lowercases and trims a business name. Punctuation is kept:
// "Joe's Pizza" and "Joes Pizza" stay distinct here and are left to the
// fuzzy scorer.
func NormalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeAddress lowercases and trims a free-text address.
func NormalizeAddress(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeURL lowercases and trims a URL. Used for identity keys only,
// never for user-facing output.
func NormalizeURL(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizePhone strips every non-digit character. Empty input yields
// empty output.
func NormalizePhone(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
