package subjects

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// subjectPronouns maps corpus subjects to the pronoun spoken in front of the
// sentence. Compound subjects are read as the formal you.
var subjectPronouns = map[string]string{
	"yo":                  "Yo",
	"tú":                  "Tú",
	"él":                  "Él",
	"ella":                "Ella",
	"usted":               "Usted",
	"nosotros":            "Nosotros",
	"ellos":               "Ellos",
	"ellas":               "Ellas",
	"ustedes":             "Ustedes",
	"vos":                 "Vos",
	"vosotros":            "Vosotros",
	"él/ella/usted":       "Usted",
	"ellos/ellas/ustedes": "Ustedes",
}

// gustarVerbs take an indirect object instead of a subject pronoun
var gustarVerbs = map[string]bool{
	"GUSTAR":   true,
	"DOLER":    true,
	"ENCANTAR": true,
	"MOLESTAR": true,
	"IMPORTAR": true,
	"FALTAR":   true,
	"PARECER":  true,
}

// IsGustarVerb reports whether verb is a gustar-type verb
func IsGustarVerb(verb string) bool {
	return gustarVerbs[strings.ToUpper(verb)]
}

// SubjectPronoun returns the spoken pronoun for subject, or "" when the
// subject is not a known pronoun
func SubjectPronoun(subject string) string {
	return subjectPronouns[subject]
}

// PrependPronoun puts the subject pronoun in front of spanish. Questions get
// it right after the opening ¿. The following letter is lowercased and text
// that already starts with the pronoun is returned unchanged.
func PrependPronoun(spanish, subject, verb string) string {
	if IsGustarVerb(verb) {
		return spanish
	}
	pronoun := SubjectPronoun(subject)
	if pronoun == "" {
		pronoun = subject
	}
	if pronoun == "" {
		return spanish
	}

	if rest, ok := strings.CutPrefix(spanish, "¿"); ok {
		if hasPronoun(strings.TrimSpace(rest), pronoun) {
			return spanish
		}
		return "¿" + pronoun + " " + lowerFirst(rest)
	}
	if hasPronoun(spanish, pronoun) {
		return spanish
	}
	return pronoun + " " + lowerFirst(spanish)
}

// NeedsPronounFix reports whether PrependPronoun would add a known pronoun
func NeedsPronounFix(spanish, subject, verb string) bool {
	if IsGustarVerb(verb) {
		return false
	}
	pronoun := SubjectPronoun(subject)
	if pronoun == "" {
		return false
	}
	text := spanish
	if rest, ok := strings.CutPrefix(spanish, "¿"); ok {
		text = strings.TrimSpace(rest)
	}
	return !hasPronoun(text, pronoun)
}

func hasPronoun(text, pronoun string) bool {
	return strings.HasPrefix(strings.ToLower(text), strings.ToLower(pronoun)+" ")
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
