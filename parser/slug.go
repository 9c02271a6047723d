package parser

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slugify derives an anchor slug from heading text: Unicode NFKD
// normalization, lowercasing, stripping characters outside
// [A-Za-z0-9_-], collapsing whitespace to "-", and trimming "-".
func Slugify(heading string) string {
	decomposed := norm.NFKD.String(heading)

	var stripped strings.Builder
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			// Combining marks produced by NFKD decomposition of
			// accented letters are dropped, not kept as separate chars.
			continue
		}
		stripped.WriteRune(r)
	}

	lower := strings.ToLower(stripped.String())

	var out strings.Builder
	lastWasSpace := false
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			out.WriteRune(r)
			lastWasSpace = false
		case unicode.IsSpace(r):
			if !lastWasSpace {
				out.WriteRune('-')
			}
			lastWasSpace = true
		default:
			// any other character is simply dropped
		}
	}

	return strings.Trim(out.String(), "-")
}
