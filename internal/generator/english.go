package generator

import "strings"

// englishForms are past, past participle for verbs that are not regular
var englishForms = map[string][2]string{
	"be":         {"was", "been"},
	"become":     {"became", "become"},
	"begin":      {"began", "begun"},
	"bring":      {"brought", "brought"},
	"buy":        {"bought", "bought"},
	"choose":     {"chose", "chosen"},
	"come":       {"came", "come"},
	"do":         {"did", "done"},
	"drink":      {"drank", "drunk"},
	"drive":      {"drove", "driven"},
	"eat":        {"ate", "eaten"},
	"fall":       {"fell", "fallen"},
	"feel":       {"felt", "felt"},
	"find":       {"found", "found"},
	"forget":     {"forgot", "forgotten"},
	"get":        {"got", "gotten"},
	"give":       {"gave", "given"},
	"go":         {"went", "gone"},
	"have":       {"had", "had"},
	"hear":       {"heard", "heard"},
	"keep":       {"kept", "kept"},
	"know":       {"knew", "known"},
	"leave":      {"left", "left"},
	"lose":       {"lost", "lost"},
	"make":       {"made", "made"},
	"meet":       {"met", "met"},
	"pay":        {"paid", "paid"},
	"put":        {"put", "put"},
	"read":       {"read", "read"},
	"run":        {"ran", "run"},
	"say":        {"said", "said"},
	"see":        {"saw", "seen"},
	"sell":       {"sold", "sold"},
	"sit":        {"sat", "sat"},
	"sleep":      {"slept", "slept"},
	"speak":      {"spoke", "spoken"},
	"take":       {"took", "taken"},
	"teach":      {"taught", "taught"},
	"tell":       {"told", "told"},
	"think":      {"thought", "thought"},
	"understand": {"understood", "understood"},
	"wake":       {"woke", "woken"},
	"wear":       {"wore", "worn"},
	"write":      {"wrote", "written"},
}

// doubled verbs repeat their final consonant before -ed and -ing
var doubled = map[string]bool{
	"chat": true,
	"drop": true,
	"get":  true,
	"hug":  true,
	"jog":  true,
	"plan": true,
	"put":  true,
	"run":  true,
	"shop": true,
	"sit":  true,
	"stop": true,
}

// englishVerb is an English gloss such as "to get up" split into head verb
// and the words that follow it
type englishVerb struct {
	head string
	rest string
}

func parseGloss(gloss string) englishVerb {
	gloss = strings.TrimSpace(gloss)
	// "to speak, to talk" keeps the first alternative
	if i := strings.IndexAny(gloss, ",;/("); i > 0 {
		gloss = strings.TrimSpace(gloss[:i])
	}
	gloss = strings.TrimPrefix(gloss, "to ")
	head, rest, _ := strings.Cut(gloss, " ")
	return englishVerb{head: strings.ToLower(head), rest: strings.TrimSpace(rest)}
}

func (v englishVerb) with(form string) string {
	if v.rest == "" {
		return form
	}
	return form + " " + v.rest
}

func isVowel(b byte) bool {
	return strings.IndexByte("aeiou", b) >= 0
}

func thirdPerson(verb string) string {
	switch verb {
	case "be":
		return "is"
	case "have":
		return "has"
	case "go", "do":
		return verb + "es"
	}
	n := len(verb)
	switch {
	case strings.HasSuffix(verb, "s"), strings.HasSuffix(verb, "sh"), strings.HasSuffix(verb, "ch"),
		strings.HasSuffix(verb, "x"), strings.HasSuffix(verb, "z"):
		return verb + "es"
	case n > 1 && verb[n-1] == 'y' && !isVowel(verb[n-2]):
		return verb[:n-1] + "ies"
	}
	return verb + "s"
}

func pastTense(verb string) string {
	if forms, ok := englishForms[verb]; ok {
		return forms[0]
	}
	return regularPast(verb)
}

func pastParticiple(verb string) string {
	if forms, ok := englishForms[verb]; ok {
		return forms[1]
	}
	return regularPast(verb)
}

func regularPast(verb string) string {
	n := len(verb)
	switch {
	case doubled[verb]:
		return verb + verb[n-1:] + "ed"
	case strings.HasSuffix(verb, "e"):
		return verb + "d"
	case n > 1 && verb[n-1] == 'y' && !isVowel(verb[n-2]):
		return verb[:n-1] + "ied"
	}
	return verb + "ed"
}

func presentParticiple(verb string) string {
	n := len(verb)
	switch {
	case doubled[verb]:
		return verb + verb[n-1:] + "ing"
	case strings.HasSuffix(verb, "ie"):
		return verb[:n-2] + "ying"
	case strings.HasSuffix(verb, "ee"), verb == "be":
		return verb + "ing"
	case strings.HasSuffix(verb, "e"):
		return verb[:n-1] + "ing"
	}
	return verb + "ing"
}

// English subject pronouns used by the generator
var englishSubjects = map[string]string{
	"yo":       "I",
	"tú":       "You (informal)",
	"él":       "He",
	"ella":     "She",
	"nosotros": "We",
	"ellos":    "They",
}

// EnglishClause conjugates the gloss for an English subject pronoun,
// for example ("He", "to get up", "preterite") gives "He got up"
func EnglishClause(subject, gloss, tense string) string {
	v := parseGloss(gloss)
	pronoun := ""
	if fields := strings.Fields(subject); len(fields) > 0 {
		pronoun = fields[0]
	}
	third := pronoun == "He" || pronoun == "She"
	first := pronoun == "I"

	be := "are"
	switch {
	case first:
		be = "am"
	case third:
		be = "is"
	}
	have := "have"
	if third {
		have = "has"
	}

	var phrase string
	switch tense {
	case "present":
		switch {
		case v.head == "be":
			phrase = be
		case third:
			phrase = thirdPerson(v.head)
		default:
			phrase = v.head
		}
	case "present-progressive":
		phrase = be + " " + presentParticiple(v.head)
	case "going-to":
		phrase = be + " going to " + v.head
	case "preterite":
		phrase = pastTense(v.head)
		if v.head == "be" && !first && !third {
			phrase = "were"
		}
	case "present-perfect":
		phrase = have + " " + pastParticiple(v.head)
	case "future":
		phrase = "will " + v.head
	default:
		phrase = v.head
	}
	return subject + " " + v.with(phrase)
}
