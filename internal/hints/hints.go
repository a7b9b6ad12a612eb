// Package hints keeps the English "you" disambiguation hints consistent with
// the Spanish subject: "You (informal)" for tú, "You (formal)" for usted,
// "You all" for ustedes, "You all (vosotros)" for vosotros and "You (vos)"
// for vos.
package hints

import (
	"regexp"
	"strings"
)

// Hint names a disambiguation marker in the English text
type Hint string

const (
	Informal Hint = "informal"
	Formal   Hint = "formal"
	Vos      Hint = "vos"
	Vosotros Hint = "vosotros"
	YouAll   Hint = "you_all"
)

// All lists the hints in report order
var All = []Hint{Informal, Formal, Vos, Vosotros, YouAll}

var (
	youPattern      = regexp.MustCompile(`\bYou\b|\byou\b`)
	upperYouPattern = regexp.MustCompile(`\bYou\b`)
	lowerYouPattern = regexp.MustCompile(`\byou\b`)

	hintPatterns = map[Hint]*regexp.Regexp{
		Informal: regexp.MustCompile(`(?i)\(informal\)`),
		Formal:   regexp.MustCompile(`(?i)\(formal\)`),
		Vos:      regexp.MustCompile(`(?i)\(vos\)`),
		Vosotros: regexp.MustCompile(`(?i)\(vosotros\)`),
		YouAll:   regexp.MustCompile(`(?i)\bYou all\b`),
	}

	stripPatterns = []struct {
		re   *regexp.Regexp
		repl string
	}{
		{regexp.MustCompile(`(?i)\s*\(informal\)`), ""},
		{regexp.MustCompile(`(?i)\s*\(formal\)`), ""},
		{regexp.MustCompile(`(?i)\s*\(vos\)`), ""},
		{regexp.MustCompile(`(?i)\s*\(Spain\)`), ""},
		{regexp.MustCompile(`(?i)\s*\(vosotros\)`), ""},
		{regexp.MustCompile(`\bYou all\b`), "You"},
		{regexp.MustCompile(`(?i)\byou all\b`), "you"},
		{regexp.MustCompile(`\s{2,}`), " "},
	}

	// desiredYou is the replacement for "You" per subject
	desiredYou = map[string]string{
		"tú":       "You (informal)",
		"usted":    "You (formal)",
		"ustedes":  "You all",
		"vosotros": "You all (vosotros)",
		"vos":      "You (vos)",
	}

	// hintOwners lists the subjects each hint may appear with
	hintOwners = map[Hint][]string{
		Informal: {"tú"},
		Formal:   {"usted"},
		Vos:      {"vos"},
		Vosotros: {"vosotros"},
		YouAll:   {"ustedes", "vosotros"},
	}
)

// ContainsYou reports whether english uses the word You/you
func ContainsYou(english string) bool {
	return youPattern.MatchString(english)
}

// HasHint reports whether english carries hint
func HasHint(english string, hint Hint) bool {
	re, ok := hintPatterns[hint]
	return ok && re.MatchString(english)
}

// Expected returns the hints english must carry for subject. Hints are only
// enforced when the English uses "you"; plural subjects may read "They".
func Expected(subject, english string) []Hint {
	if !ContainsYou(english) {
		return nil
	}
	switch subject {
	case "tú":
		return []Hint{Informal}
	case "usted":
		return []Hint{Formal}
	case "ustedes":
		return []Hint{YouAll}
	case "vosotros":
		return []Hint{YouAll, Vosotros}
	case "vos":
		return []Hint{Vos}
	default:
		return nil
	}
}

// Missing returns the expected hints english does not carry
func Missing(subject, english string) []Hint {
	var missing []Hint
	for _, h := range Expected(subject, english) {
		if !HasHint(english, h) {
			missing = append(missing, h)
		}
	}
	return missing
}

// Mismatches returns the hints present in english that do not belong to subject
func Mismatches(subject, english string) []Hint {
	var out []Hint
	for _, h := range All {
		if !HasHint(english, h) {
			continue
		}
		if !owns(h, subject) {
			out = append(out, h)
		}
	}
	return out
}

func owns(h Hint, subject string) bool {
	for _, s := range hintOwners[h] {
		if s == subject {
			return true
		}
	}
	return false
}

// Strip removes every known hint and collapses "You all" to "You"
func Strip(english string) string {
	for _, p := range stripPatterns {
		english = p.re.ReplaceAllString(english, p.repl)
	}
	return strings.TrimSpace(english)
}

// DesiredYou returns the "You" form for subject, or "" when the subject
// is not a second person subject.
func DesiredYou(subject string) string {
	return desiredYou[subject]
}

// ApplyYou replaces whole-word You/you with replacement, lowercasing its
// first letter for the lowercase form.
func ApplyYou(english, replacement string) string {
	if replacement == "" {
		return english
	}
	lower := strings.ToLower(replacement[:1]) + replacement[1:]
	english = upperYouPattern.ReplaceAllLiteralString(english, replacement)
	return lowerYouPattern.ReplaceAllLiteralString(english, lower)
}

// Normalize returns english rewritten so its hints match subject
func Normalize(subject, english string) string {
	cleaned := Strip(english)
	if !ContainsYou(english) {
		return cleaned
	}
	desired := DesiredYou(subject)
	if desired == "" {
		return cleaned
	}
	return ApplyYou(cleaned, desired)
}
