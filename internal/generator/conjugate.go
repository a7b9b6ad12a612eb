package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"codeberg.org/snonux/drillmaster/internal/tags"
)

// Persons in the order of the ending tables
var Persons = []string{"yo", "tú", "vos", "él/ella/usted", "nosotros", "vosotros", "ellos/ellas/ustedes"}

// Tenses the rule based conjugator knows
var Tenses = []string{"present", "present-progressive", "going-to", "preterite", "present-perfect", "future"}

// Conjugator returns the conjugated form of an infinitive
type Conjugator interface {
	Conjugate(verb, tense, subject string) (string, bool)
}

// PersonOf maps a subject, including single pronouns such as "ella", to
// its index in Persons
func PersonOf(subject string) (int, bool) {
	switch subject {
	case "él", "ella", "usted":
		subject = "él/ella/usted"
	case "ellos", "ellas", "ustedes":
		subject = "ellos/ellas/ustedes"
	}
	for i, p := range Persons {
		if p == subject {
			return i, true
		}
	}
	return 0, false
}

var regularEndings = map[string]map[string][7]string{
	"ar": {
		"present":   {"o", "as", "ás", "a", "amos", "áis", "an"},
		"preterite": {"é", "aste", "aste", "ó", "amos", "asteis", "aron"},
	},
	"er": {
		"present":   {"o", "es", "és", "e", "emos", "éis", "en"},
		"preterite": {"í", "iste", "iste", "ió", "imos", "isteis", "ieron"},
	},
	"ir": {
		"present":   {"o", "es", "ís", "e", "imos", "ís", "en"},
		"preterite": {"í", "iste", "iste", "ió", "imos", "isteis", "ieron"},
	},
}

var futureEndings = [7]string{"é", "ás", "ás", "á", "emos", "éis", "án"}

var reflexivePronouns = [7]string{"me", "te", "te", "se", "nos", "os", "se"}

// irregular holds full forms keyed by infinitive and tense
var irregular = map[string]map[string][7]string{
	"ser": {
		"present":   {"soy", "eres", "sos", "es", "somos", "sois", "son"},
		"preterite": {"fui", "fuiste", "fuiste", "fue", "fuimos", "fuisteis", "fueron"},
	},
	"estar": {
		"present":   {"estoy", "estás", "estás", "está", "estamos", "estáis", "están"},
		"preterite": {"estuve", "estuviste", "estuviste", "estuvo", "estuvimos", "estuvisteis", "estuvieron"},
	},
	"ir": {
		"present":   {"voy", "vas", "vas", "va", "vamos", "vais", "van"},
		"preterite": {"fui", "fuiste", "fuiste", "fue", "fuimos", "fuisteis", "fueron"},
	},
	"haber": {
		"present": {"he", "has", "has", "ha", "hemos", "habéis", "han"},
	},
	"tener": {
		"present":   {"tengo", "tienes", "tenés", "tiene", "tenemos", "tenéis", "tienen"},
		"preterite": {"tuve", "tuviste", "tuviste", "tuvo", "tuvimos", "tuvisteis", "tuvieron"},
	},
	"hacer": {
		"present":   {"hago", "haces", "hacés", "hace", "hacemos", "hacéis", "hacen"},
		"preterite": {"hice", "hiciste", "hiciste", "hizo", "hicimos", "hicisteis", "hicieron"},
	},
	"poder": {
		"preterite": {"pude", "pudiste", "pudiste", "pudo", "pudimos", "pudisteis", "pudieron"},
	},
	"querer": {
		"preterite": {"quise", "quisiste", "quisiste", "quiso", "quisimos", "quisisteis", "quisieron"},
	},
	"decir": {
		"present":   {"digo", "dices", "decís", "dice", "decimos", "decís", "dicen"},
		"preterite": {"dije", "dijiste", "dijiste", "dijo", "dijimos", "dijisteis", "dijeron"},
	},
	"venir": {
		"present":   {"vengo", "vienes", "venís", "viene", "venimos", "venís", "vienen"},
		"preterite": {"vine", "viniste", "viniste", "vino", "vinimos", "vinisteis", "vinieron"},
	},
	"ver": {
		"present":   {"veo", "ves", "ves", "ve", "vemos", "veis", "ven"},
		"preterite": {"vi", "viste", "viste", "vio", "vimos", "visteis", "vieron"},
	},
	"dar": {
		"present":   {"doy", "das", "das", "da", "damos", "dais", "dan"},
		"preterite": {"di", "diste", "diste", "dio", "dimos", "disteis", "dieron"},
	},
	"saber": {
		"present":   {"sé", "sabes", "sabés", "sabe", "sabemos", "sabéis", "saben"},
		"preterite": {"supe", "supiste", "supiste", "supo", "supimos", "supisteis", "supieron"},
	},
	"oír": {
		"present":   {"oigo", "oyes", "oís", "oye", "oímos", "oís", "oyen"},
		"preterite": {"oí", "oíste", "oíste", "oyó", "oímos", "oísteis", "oyeron"},
	},
	"traer": {
		"present":   {"traigo", "traes", "traés", "trae", "traemos", "traéis", "traen"},
		"preterite": {"traje", "trajiste", "trajiste", "trajo", "trajimos", "trajisteis", "trajeron"},
	},
	"poner": {
		"present":   {"pongo", "pones", "ponés", "pone", "ponemos", "ponéis", "ponen"},
		"preterite": {"puse", "pusiste", "pusiste", "puso", "pusimos", "pusisteis", "pusieron"},
	},
	"salir": {
		"present": {"salgo", "sales", "salís", "sale", "salimos", "salís", "salen"},
	},
}

var futureStems = map[string]string{
	"tener":  "tendr",
	"poner":  "pondr",
	"salir":  "saldr",
	"venir":  "vendr",
	"poder":  "podr",
	"saber":  "sabr",
	"haber":  "habr",
	"querer": "querr",
	"hacer":  "har",
	"decir":  "dir",
}

var irregularGerunds = map[string]string{
	"ir":    "yendo",
	"poder": "pudiendo",
	"decir": "diciendo",
	"venir": "viniendo",
}

var irregularParticiples = map[string]string{
	"hacer":    "hecho",
	"decir":    "dicho",
	"ver":      "visto",
	"poner":    "puesto",
	"escribir": "escrito",
	"volver":   "vuelto",
	"abrir":    "abierto",
	"romper":   "roto",
	"morir":    "muerto",
}

// Rules conjugates from ending tables, irregular forms and the stem change
// and yo-form metadata of the tag table
type Rules struct{}

// verbParts splits an infinitive into base infinitive, stem and class
type verbParts struct {
	base      string
	stem      string
	class     string
	reflexive bool
	meta      tags.VerbMeta
}

func split(verb string) (verbParts, bool) {
	lower := strings.ToLower(strings.TrimSpace(verb))
	lower = strings.ReplaceAll(lower, "(se)", "se")
	meta, _ := tags.Lookup(strings.ToUpper(lower))

	p := verbParts{base: lower, meta: meta}
	if strings.HasSuffix(lower, "se") && len([]rune(lower)) > 4 {
		p.base = strings.TrimSuffix(lower, "se")
		p.reflexive = true
	}
	switch {
	case strings.HasSuffix(p.base, "ar"):
		p.class = "ar"
	case strings.HasSuffix(p.base, "er"):
		p.class = "er"
	case strings.HasSuffix(p.base, "ir"), strings.HasSuffix(p.base, "ír"):
		p.class = "ir"
	default:
		return p, false
	}
	p.stem = strings.TrimSuffix(strings.TrimSuffix(p.base, p.class), "ír")
	return p, true
}

// Conjugate implements Conjugator
func (Rules) Conjugate(verb, tense, subject string) (string, bool) {
	person, ok := PersonOf(subject)
	if !ok {
		return "", false
	}
	p, ok := split(verb)
	if !ok {
		return "", false
	}

	var form string
	switch tense {
	case "present", "preterite":
		form = simpleForm(p, tense, person)
	case "future":
		stem, ok := futureStems[p.base]
		if !ok {
			stem = p.base
		}
		form = stem + futureEndings[person]
	case "present-progressive":
		form = irregular["estar"]["present"][person] + " " + gerund(p)
	case "going-to":
		form = irregular["ir"]["present"][person] + " a " + p.base
	case "present-perfect":
		form = irregular["haber"]["present"][person] + " " + participle(p)
	default:
		return "", false
	}

	if p.reflexive {
		form = reflexivePronouns[person] + " " + form
	}
	return form, true
}

func simpleForm(p verbParts, tense string, person int) string {
	if forms, ok := irregular[p.base][tense]; ok {
		return forms[person]
	}

	stem := p.stem
	ending := regularEndings[p.class][tense][person]

	if tense == "present" {
		if person == 0 && p.meta.YoForm == "zco" && strings.HasSuffix(stem, "c") {
			return strings.TrimSuffix(stem, "c") + "zco"
		}
		if boot(person) {
			stem = stemChange(stem, p.meta.StemChange)
		}
		return stem + ending
	}

	// preterite
	if person == 0 && p.class == "ar" {
		switch {
		case strings.HasSuffix(stem, "c"):
			return strings.TrimSuffix(stem, "c") + "qué"
		case strings.HasSuffix(stem, "g"):
			return stem + "ué"
		case strings.HasSuffix(stem, "z"):
			return strings.TrimSuffix(stem, "z") + "cé"
		}
	}
	if p.class != "ar" && endsInVowel(stem) {
		switch person {
		case 3:
			return stem + "yó"
		case 6:
			return stem + "yeron"
		case 1, 2, 4, 5:
			return stem + "í" + strings.TrimPrefix(ending, "i")
		}
	}
	if p.class == "ir" && (person == 3 || person == 6) {
		stem = preteriteStemChange(stem, p.meta.StemChange)
	}
	return stem + ending
}

// boot reports whether the present stem change applies to person
func boot(person int) bool {
	return person == 0 || person == 1 || person == 3 || person == 6
}

// stemChange applies "e-ie", "o-ue" or "e-i" to the last matching vowel
func stemChange(stem, change string) string {
	from, to, ok := strings.Cut(change, "-")
	if !ok {
		return stem
	}
	i := strings.LastIndex(stem, from)
	if i < 0 {
		return stem
	}
	return stem[:i] + to + stem[i+len(from):]
}

// preteriteStemChange applies the -ir third person change (sintió, durmió)
func preteriteStemChange(stem, change string) string {
	switch change {
	case "e-ie", "e-i":
		return stemChange(stem, "e-i")
	case "o-ue":
		return stemChange(stem, "o-u")
	}
	return stem
}

func endsInVowel(s string) bool {
	return s != "" && strings.ContainsAny(s[len(s)-1:], "aeiou")
}

// Gerund returns the gerund of an infinitive
func Gerund(verb string) string {
	p, ok := split(verb)
	if !ok {
		return verb
	}
	return gerund(p)
}

func gerund(p verbParts) string {
	if g, ok := irregularGerunds[p.base]; ok {
		return g
	}
	if p.class == "ar" {
		return p.stem + "ando"
	}
	if endsInVowel(p.stem) {
		return p.stem + "yendo"
	}
	stem := p.stem
	if p.class == "ir" {
		stem = preteriteStemChange(stem, p.meta.StemChange)
	}
	return stem + "iendo"
}

// Participle returns the past participle of an infinitive
func Participle(verb string) string {
	p, ok := split(verb)
	if !ok {
		return verb
	}
	return participle(p)
}

func participle(p verbParts) string {
	if pp, ok := irregularParticiples[p.base]; ok {
		return pp
	}
	if p.class == "ar" {
		return p.stem + "ado"
	}
	if endsInVowel(p.stem) {
		return p.stem + "ído"
	}
	return p.stem + "ido"
}

// Table is a conjugation table keyed by verb, tense and subject, the
// layout of data/conjugations.json
type Table map[string]map[string]map[string]string

// LoadTable reads a conjugation table
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read conjugations: %w", err)
	}
	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse conjugations %s: %w", path, err)
	}
	return t, nil
}

// Conjugate implements Conjugator. Verbs are looked up upper case first,
// then lower case with "(se)" folded into "se".
func (t Table) Conjugate(verb, tense, subject string) (string, bool) {
	person, ok := PersonOf(subject)
	if !ok {
		return "", false
	}
	key := Persons[person]

	for _, name := range []string{
		strings.ToUpper(verb),
		strings.ReplaceAll(strings.ToLower(verb), "(se)", "se"),
		strings.ToLower(verb),
	} {
		if form, ok := t[name][tense][key]; ok && form != "" {
			return form, true
		}
	}
	return "", false
}

// Chain tries each conjugator in turn
type Chain []Conjugator

// Conjugate implements Conjugator
func (c Chain) Conjugate(verb, tense, subject string) (string, bool) {
	for _, conj := range c {
		if conj == nil {
			continue
		}
		if form, ok := conj.Conjugate(verb, tense, subject); ok {
			return form, true
		}
	}
	return "", false
}

// NewConjugator returns the rule based conjugator, preceded by the table at
// path when that file exists
func NewConjugator(path string) (Conjugator, error) {
	if path == "" {
		return Rules{}, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Rules{}, nil
	}
	t, err := LoadTable(path)
	if err != nil {
		return nil, err
	}
	return Chain{t, Rules{}}, nil
}
