package argspec

import (
	"strings"
	"unicode"
)

// KebabCase converts a declared identifier into a canonical long name:
//
//	InputFormat -> input-format
//	HTTPServer  -> http-server
//	dry_run     -> dry-run
//	verbose     -> verbose
func KebabCase(identifier string) string {
	runes := []rune(strings.TrimSpace(identifier))
	var b strings.Builder
	b.Grow(len(runes) + 4)

	dash := func() {
		if s := b.String(); s != "" && !strings.HasSuffix(s, "-") {
			b.WriteByte('-')
		}
	}

	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			dash()
		case unicode.IsUpper(r):
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			// "HTTPServer": the 'S' starts a new word because 'e' follows it.
			acronymEnd := i > 0 && unicode.IsUpper(runes[i-1]) &&
				i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || acronymEnd {
				dash()
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
