package validators

import (
	"strings"
	"unicode"
)

// CleanText collapses whitespace runs, drops control characters and caps the
// result at maxLen runes. Used for free-text catalog filters forwarded upstream.
func CleanText(input string, maxLen int) string {
	var b strings.Builder
	runes := 0
	space := false
	for _, r := range strings.TrimSpace(input) {
		if maxLen > 0 && runes >= maxLen {
			break
		}
		switch {
		case unicode.IsSpace(r):
			space = true
			continue
		case unicode.IsControl(r):
			continue
		}
		if space && b.Len() > 0 {
			if maxLen > 0 && runes+2 > maxLen {
				break
			}
			b.WriteByte(' ')
			runes++
		}
		space = false
		b.WriteRune(r)
		runes++
	}
	return b.String()
}
