// Package typography converts typewriter quotes in palindrome texts to their
// typographic HTML entities before the text is placed into a page.
package typography

import (
	"html/template"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var inwordApostropheRE = regexp.MustCompile(`([\p{L}\p{N}])'([\p{L}\p{N}])`)

// InwordApostrophe replaces apostrophes between two letters or digits with
// &rsquo; so "Antti's" renders with a curly apostrophe.
func InwordApostrophe(s string) string {
	// ReplaceAll skips overlapping matches ("It's Antti's" has none, but
	// "a'b'c" would), so substitute until the string settles.
	for {
		replaced := inwordApostropheRE.ReplaceAllString(s, "$1&rsquo;$2")
		if replaced == s {
			return replaced
		}
		s = replaced
	}
}

// TypographicQuotes replaces paired straight quotes with &ldquo;/&rdquo; and
// &lsquo;/&rsquo;. A quote immediately preceded by a letter or digit is an
// apostrophe, not an opening quote, and never starts a pair.
func TypographicQuotes(s string) string {
	var out strings.Builder
	rest := s
	for {
		start := strings.IndexAny(rest, `"'`)
		if start == -1 {
			out.WriteString(rest)
			return out.String()
		}

		quote := rest[start]
		if prev, _ := utf8.DecodeLastRuneInString(rest[:start]); unicode.IsLetter(prev) || unicode.IsDigit(prev) {
			out.WriteString(rest[:start+1])
			rest = rest[start+1:]
			continue
		}

		end := strings.IndexByte(rest[start+1:], quote)
		if end == -1 {
			out.WriteString(rest)
			return out.String()
		}

		quoted := rest[start+1 : start+1+end]
		out.WriteString(rest[:start])
		if quote == '"' {
			out.WriteString("&ldquo;" + quoted + "&rdquo;")
		} else {
			out.WriteString("&lsquo;" + quoted + "&rsquo;")
		}
		rest = rest[start+1+end+1:]
	}
}

// AddTypography applies in-word apostrophes first, then quote pairing, and
// marks the result safe for template interpolation. The database texts are
// trusted content and may already contain entities.
func AddTypography(s string) template.HTML {
	return template.HTML(TypographicQuotes(InwordApostrophe(s)))
}
