// Package subjects resolves ambiguous sentence subjects such as
// "él/ella/usted" to a single pronoun and rewrites the English to match.
package subjects

import (
	"regexp"
	"strings"
	"unicode/utf16"
)

// Ambiguous subject buckets
const (
	SingularBucket = "él/ella/usted"
	PluralBucket   = "ellos/ellas/ustedes"
)

// Resolution reasons
const (
	ReasonExplicitSubject  = "explicit_subject"
	ReasonExplicitSpanish  = "explicit_spanish_pronoun"
	ReasonDeterministic    = "deterministic_randomization"
	ReasonIndirectPronoun  = "backwards_indirect_pronoun"
	ReasonNormalizeSubjTag = "normalize_subject_tags"
)

// Choice is the English pronoun and Spanish subject picked for a sentence
type Choice struct {
	English string
	Subject string
	Reason  string
}

// Pick returns a deterministic element of options for key
func Pick(options []string, key string) string {
	if len(options) == 0 {
		return ""
	}
	return options[Index(len(options), key)]
}

const (
	fnvOffset32 = 2166136261
	fnvPrime32  = 16777619
)

// Index returns a deterministic index below n for key. It is 32-bit FNV-1a
// over the UTF-16 code units of key, so existing corpora keep their picks.
func Index(n int, key string) int {
	if n <= 0 {
		return 0
	}
	h := uint32(fnvOffset32)
	for _, unit := range utf16.Encode([]rune(key)) {
		h ^= uint32(unit)
		h *= fnvPrime32
	}
	return int(h % uint32(n))
}

var (
	startsWithEl      = regexp.MustCompile(`^Él\b`)
	startsWithElla    = regexp.MustCompile(`^Ella\b`)
	startsWithUsted   = regexp.MustCompile(`^Usted\b`)
	startsWithEllos   = regexp.MustCompile(`^Ellos\b`)
	startsWithEllas   = regexp.MustCompile(`^Ellas\b`)
	startsWithUstedes = regexp.MustCompile(`^Ustedes\b`)
	heSlashShe        = regexp.MustCompile(`(?i)he\s*/\s*she`)
)

func hashKey(english, spanish, subject string) string {
	return english + "||" + spanish + "||" + subject
}

// ResolveSingular picks He, She or You for a third person singular sentence.
// It returns false when the sentence is not one it manages.
func ResolveSingular(subject, english, spanish string) (Choice, bool) {
	norm := strings.ToLower(subject)
	trimmed := strings.TrimSpace(spanish)

	switch norm {
	case "él":
		return Choice{"He", "él", ReasonExplicitSubject}, true
	case "ella":
		return Choice{"She", "ella", ReasonExplicitSubject}, true
	case "usted":
		return Choice{"You", "usted", ReasonExplicitSubject}, true
	}

	switch {
	case startsWithEl.MatchString(trimmed):
		return Choice{"He", "él", ReasonExplicitSpanish}, true
	case startsWithElla.MatchString(trimmed):
		return Choice{"She", "ella", ReasonExplicitSpanish}, true
	case startsWithUsted.MatchString(trimmed):
		return Choice{"You", "usted", ReasonExplicitSpanish}, true
	}

	key := hashKey(english, spanish, subject)
	switch norm {
	case SingularBucket:
		picked := Pick([]string{"He", "She", "You"}, key)
		return Choice{picked, map[string]string{"He": "él", "She": "ella", "You": "usted"}[picked], ReasonDeterministic}, true
	case "le":
		// Indirect object pronouns of gustar-type verbs keep their subject key
		return Choice{Pick([]string{"He", "She", "You"}, key), subject, ReasonIndirectPronoun}, true
	case "me", "te", "nos", "les":
		return Choice{Pick([]string{"He", "She"}, key), subject, ReasonIndirectPronoun}, true
	}
	return Choice{}, false
}

// ResolvePlural picks They or You all for a third person plural sentence
func ResolvePlural(subject, english, spanish string) (Choice, bool) {
	norm := strings.ToLower(subject)
	trimmed := strings.TrimSpace(spanish)

	switch norm {
	case "ellos":
		return Choice{"They", "ellos", ReasonExplicitSubject}, true
	case "ellas":
		return Choice{"They", "ellas", ReasonExplicitSubject}, true
	case "ustedes":
		return Choice{"You all", "ustedes", ReasonExplicitSubject}, true
	}

	switch {
	case startsWithEllos.MatchString(trimmed):
		return Choice{"They", "ellos", ReasonExplicitSpanish}, true
	case startsWithEllas.MatchString(trimmed):
		return Choice{"They", "ellas", ReasonExplicitSpanish}, true
	case startsWithUstedes.MatchString(trimmed):
		return Choice{"You all", "ustedes", ReasonExplicitSpanish}, true
	}

	if norm == PluralBucket {
		picked := Pick([]string{"They", "They", "You all"}, hashKey(english, spanish, subject))
		chosen := "ustedes"
		if picked != "You all" {
			chosen = Pick([]string{"ellos", "ellas"}, english+"||"+spanish+"||plural-gender")
		}
		return Choice{picked, chosen, ReasonDeterministic}, true
	}
	return Choice{}, false
}

type rewrite struct {
	re   *regexp.Regexp
	repl string
}

var (
	heSheRewrites = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bhe\s*/\s*she\b`),
		regexp.MustCompile(`(?i)\bhe\s*/\s*she's\b`),
		regexp.MustCompile(`(?i)\bhe's\s*/\s*she's\b`),
		regexp.MustCompile(`\bHe/She\b`),
	}

	// agreement turns third person verbs into their "you" form
	agreement = []struct {
		re           *regexp.Regexp
		upper, lower string
	}{
		{regexp.MustCompile(`(?i)\bwants\b`), "Want", "want"},
		{regexp.MustCompile(`(?i)\bgoes\b`), "Go", "go"},
		{regexp.MustCompile(`(?i)\bhas\b`), "Have", "have"},
		{regexp.MustCompile(`(?i)\bdoes\b`), "Do", "do"},
		{regexp.MustCompile(`(?i)\bis\b`), "Are", "are"},
	}

	youAllRewrites = []rewrite{
		{regexp.MustCompile(`\bThey\b`), "You all"},
		{regexp.MustCompile(`\bthey\b`), "you all"},
		{regexp.MustCompile(`\btheir\b`), "your"},
		{regexp.MustCompile(`\bTheir\b`), "Your"},
		{regexp.MustCompile(`\bthemselves\b`), "yourselves"},
		{regexp.MustCompile(`\bThemselves\b`), "Yourselves"},
	}

	theyLabels = regexp.MustCompile(`They \((men|women|mixed)\)`)

	possessives = map[string][2]string{
		"He":  {"his", "His"},
		"She": {"her", "Her"},
		"You": {"your", "Your"},
	}
)

// AdjustForYou rewrites third person singular verb forms for a "you" subject
func AdjustForYou(english string) string {
	for _, a := range agreement {
		english = a.re.ReplaceAllStringFunc(english, func(m string) string {
			if m[0] >= 'A' && m[0] <= 'Z' {
				return a.upper
			}
			return a.lower
		})
	}
	return english
}

// SingularEnglish replaces he/she and his/her forms with choice
func SingularEnglish(english, choice string) string {
	for i, re := range heSheRewrites {
		repl := choice
		if i == 1 || i == 2 {
			repl = choice + "'s"
		}
		english = re.ReplaceAllLiteralString(english, repl)
	}
	if p, ok := possessives[choice]; ok {
		english = strings.ReplaceAll(english, "his/her", p[0])
		english = strings.ReplaceAll(english, "His/Her", p[1])
	}
	if choice == "You" {
		english = AdjustForYou(english)
	}
	return english
}

// PluralEnglish rewrites They for a You all choice or drops They labels
func PluralEnglish(english, choice string) string {
	if choice != "You all" {
		return theyLabels.ReplaceAllLiteralString(english, "They")
	}
	for _, r := range youAllRewrites {
		english = r.re.ReplaceAllLiteralString(english, r.repl)
	}
	return english
}

// SingularRelevant reports whether a sentence is a candidate for singular
// normalization
func SingularRelevant(subject, english string) bool {
	if heSlashShe.MatchString(english) || strings.Contains(english, "his/her") || strings.Contains(english, "His/Her") {
		return true
	}
	switch subject {
	case SingularBucket, "le", "me", "te", "nos", "les":
		return true
	}
	return false
}

// ExpandBuckets replaces the ambiguous buckets of a subject list with their
// members, keeping order and dropping duplicates.
func ExpandBuckets(subjects []string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range subjects {
		switch s {
		case SingularBucket, PluralBucket:
			for _, member := range strings.Split(s, "/") {
				add(member)
			}
		default:
			add(s)
		}
	}
	return out
}

// SubjectTags rewrites every subject:* tag to subject:<subject>
func SubjectTags(tags []string, subject string) []string {
	if tags == nil {
		return nil
	}
	out := make([]string, len(tags))
	for i, t := range tags {
		if strings.HasPrefix(t, "subject:") {
			t = "subject:" + subject
		}
		out[i] = t
	}
	return out
}
