package glossary

import "strings"

// Normalize reduces s to a comparison key: lowercase, then only [a-z0-9].
// Spaces, hyphens, slashes, punctuation and non-ASCII runes are dropped.
// The result may be empty.
func Normalize(s string) string {
	lower := strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(lower))
	// Bytes of multi-byte runes are all >= 0x80, so a byte scan is enough.
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}
