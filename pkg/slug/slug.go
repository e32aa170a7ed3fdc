// Package slug turns titles into URL-safe identifiers.
package slug

import (
	"fmt"
	"strings"
	"unicode"
)

// Make converts s into a lowercase, hyphen-separated slug.
// "Air Max 90 (Red)" → "air-max-90-red"
func Make(s string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen

	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// WithSuffix appends a numeric suffix used to de-duplicate slugs:
// WithSuffix("air-max", 2) → "air-max-2".
func WithSuffix(base string, n int) string {
	return fmt.Sprintf("%s-%d", base, n)
}

// Unique returns the first slug derived from title that exists reports as
// unused. It tries the plain slug, then -2, -3, ... up to -50 before giving
// up and returning an error.
func Unique(title string, exists func(slug string) (bool, error)) (string, error) {
	base := Make(title)
	if base == "" {
		base = "item"
	}

	candidate := base
	for i := 2; i <= 50; i++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = WithSuffix(base, i)
	}

	return "", fmt.Errorf("slug: could not find unique slug for %q", title)
}
