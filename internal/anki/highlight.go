package anki

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldRunes lower cases each rune and strips its accents, keeping one rune
// per input rune so indexes stay aligned with the original text
func foldRunes(s string) []rune {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	in := []rune(s)
	out := make([]rune, len(in))
	for i, r := range in {
		folded, _, err := transform.String(t, string(r))
		if err != nil || folded == "" {
			out[i] = unicode.ToLower(r)
			continue
		}
		out[i] = unicode.ToLower([]rune(folded)[0])
	}
	return out
}

func boundaryBefore(r rune) bool {
	return unicode.IsSpace(r) || r == '¡' || r == '¿'
}

func boundaryAfter(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(".,!?;:", r)
}

// Highlight wraps the first whole-word occurrence of form in <strong>,
// ignoring case and accents. It reports whether form was found.
func Highlight(spanish, form string) (string, bool) {
	form = strings.TrimSpace(form)
	if form == "" {
		return spanish, false
	}

	text := []rune(spanish)
	haystack := foldRunes(spanish)
	needle := foldRunes(form)
	n := len(needle)

	for i := 0; i+n <= len(haystack); i++ {
		if i > 0 && !boundaryBefore(text[i-1]) {
			continue
		}
		if i+n < len(text) && !boundaryAfter(text[i+n]) {
			continue
		}
		if string(haystack[i:i+n]) != string(needle) {
			continue
		}
		return string(text[:i]) + "<strong>" + string(text[i:i+n]) + "</strong>" + string(text[i+n:]), true
	}
	return spanish, false
}
