package generator

import (
	"strings"

	"codeberg.org/snonux/drillmaster/internal/subjects"
)

// phrase is a Spanish context phrase with its English rendering
type phrase struct {
	es string
	en string
}

// Subjects the generator writes sentences for
var Subjects = []string{"yo", "tú", "él/ella/usted", "nosotros", "ellos/ellas/ustedes"}

// SentencesPerSubject is the number of sentences per subject and tense
const SentencesPerSubject = 2

var timePhrases = map[string][]phrase{
	"present": {
		{"todos los días", "every day"},
		{"los fines de semana", "on weekends"},
		{"de vez en cuando", "from time to time"},
		{"cada semana", "every week"},
	},
	"present-progressive": {
		{"ahorita", "right now"},
		{"en este momento", "at the moment"},
		{"esta tarde", "this afternoon"},
	},
	"going-to": {
		{"mañana", "tomorrow"},
		{"el próximo mes", "next month"},
		{"este fin de semana", "this weekend"},
	},
	"preterite": {
		{"ayer", "yesterday"},
		{"la semana pasada", "last week"},
		{"anoche", "last night"},
	},
	"present-perfect": {
		{"hoy", "today"},
		{"esta semana", "this week"},
		{"este año", "this year"},
	},
	"future": {
		{"el próximo año", "next year"},
		{"algún día", "someday"},
		{"el año que viene", "next year"},
	},
}

var placePhrases = []phrase{
	{"en la oficina", "at the office"},
	{"en el mercado", "at the market"},
	{"en casa", "at home"},
	{"en el centro", "downtown"},
	{"con mi familia", "with my family"},
	{"con mis amigos", "with my friends"},
	{"en la fonda", "at the diner"},
	{"en casa de mi abuela", "at my grandmother's house"},
}

var foods = []phrase{
	{"tacos de carnitas", "carnitas tacos"},
	{"quesadillas de queso", "cheese quesadillas"},
	{"pozole rojo", "red pozole"},
	{"tamales de dulce", "sweet tamales"},
	{"chiles rellenos", "stuffed peppers"},
}

var cities = []phrase{
	{"en la Ciudad de México", "in Mexico City"},
	{"en Guadalajara", "in Guadalajara"},
	{"en Monterrey", "in Monterrey"},
	{"en Puebla", "in Puebla"},
}

// verbObjects are the objects some verbs always take
var verbObjects = map[string][]phrase{
	"hablar": {{"español", "Spanish"}},
	"comer":  foods,
}

// pickPhrase picks deterministically from options; offset moves to the
// following element so that sentences sharing a key differ
func pickPhrase(options []phrase, key string, offset int) phrase {
	if len(options) == 0 {
		return phrase{}
	}
	return options[(subjects.Index(len(options), key)+offset)%len(options)]
}

// pronounFor returns the Spanish pronoun and English subject for a subject
// bucket, resolving él/ella by key
func pronounFor(subject, key string) (string, string) {
	switch subject {
	case "él/ella/usted":
		subject = subjects.Pick([]string{"él", "ella"}, key)
	case "ellos/ellas/ustedes":
		subject = "ellos"
	}
	spanish := subjects.SubjectPronoun(subject)
	if spanish == "" {
		spanish = subject
	}
	return capitalize(spanish), englishSubjects[subject]
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

// Template is one verb the generator writes sentences for
type Template struct {
	Verb    string // infinitive, any case
	English string // gloss such as "to speak"
}

// Build writes the n-th sentence for subject and tense. form is the
// conjugated Spanish verb form.
func (t Template) Build(tense, subject, form string, n int) (spanish, english string) {
	verb := strings.ToLower(t.Verb)
	key := strings.Join([]string{verb, tense, subject}, "||")

	pronoun, englishSubject := pronounFor(subject, key)
	when := pickPhrase(timePhrases[tense], key, n)

	var object, where phrase
	if objects, ok := verbObjects[verb]; ok {
		object = pickPhrase(objects, key+"||object", n)
	}
	if verb == "vivir" {
		where = pickPhrase(cities, key, n)
	} else {
		where = pickPhrase(placePhrases, key+"||place", n)
	}

	es := []string{pronoun, form}
	en := []string{EnglishClause(englishSubject, t.English, tense)}
	for _, p := range []phrase{object, where, when} {
		if p.es == "" {
			continue
		}
		es = append(es, p.es)
		en = append(en, p.en)
	}
	return strings.Join(es, " ") + ".", strings.Join(en, " ") + "."
}
