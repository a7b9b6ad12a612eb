package textfix

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"codeberg.org/snonux/drillmaster/internal/corpus"
	"codeberg.org/snonux/drillmaster/internal/report"
)

// ManualCorrection is the pattern name recorded for exact string overrides
const ManualCorrection = "Manual correction"

// Correction is one regex rewrite of Spanish text
type Correction struct {
	Description string
	Pattern     *regexp.Regexp
	Replace     func(groups []string) string
}

var estarToSer = map[string]string{
	"estoy":   "soy",
	"estás":   "eres",
	"está":    "es",
	"estamos": "somos",
	"estáis":  "sois",
	"están":   "son",
}

// stativeForms maps a stative gerund to its present forms indexed like the
// estar forms: estoy, estás, está, estamos, estáis, están.
var stativeForms = map[string][6]string{
	"teniendo":    {"tengo", "tienes", "tiene", "tenemos", "tenéis", "tienen"},
	"queriendo":   {"quiero", "quieres", "quiere", "queremos", "queréis", "quieren"},
	"necesitando": {"necesito", "necesitas", "necesita", "necesitamos", "necesitáis", "necesitan"},
	"sabiendo":    {"sé", "sabes", "sabe", "sabemos", "sabéis", "saben"},
	"conociendo":  {"conozco", "conoces", "conoce", "conocemos", "conocéis", "conocen"},
}

var estarOrder = []string{"estoy", "estás", "está", "estamos", "estáis", "están"}

const estarGroup = `(estoy|estás|está|estamos|estáis|están)`

// Corrections is the ordered rewrite table
var Corrections = []Correction{
	{
		Description: `Fix "estás siendo inteligente" → "eres inteligente" (permanent characteristics)`,
		Pattern: regexp.MustCompile(`(?i)\b` + estarGroup + `\s+siendo\s+(muy\s+)?` +
			`(inteligentes?|guap[oa]s?|bonit[oa]s?|alt[oa]s?|baj[oa]s?)\b`),
		Replace: func(g []string) string {
			return matchCase(g[1], estarToSer[strings.ToLower(g[1])]) + " " + g[2] + g[3]
		},
	},
	{
		Description: `Fix "estás siendo profesor" → "eres profesor" (professions)`,
		Pattern: regexp.MustCompile(`(?i)\b` + estarGroup + `\s+siendo\s+(un|una|el|la)?\s*` +
			`(profesora?|doctora?|estudiante|ingenier[oa]|abogad[oa])\b`),
		Replace: func(g []string) string {
			out := matchCase(g[1], estarToSer[strings.ToLower(g[1])]) + " "
			if g[2] != "" {
				out += g[2] + " "
			}
			return out + g[3]
		},
	},
	{
		Description: `Fix "estoy teniendo" → "tengo" (stative verbs)`,
		Pattern:     regexp.MustCompile(`(?i)\b` + estarGroup + `\s+(teniendo|queriendo|necesitando|sabiendo|conociendo)\b`),
		Replace: func(g []string) string {
			forms := stativeForms[strings.ToLower(g[2])]
			for i, estar := range estarOrder {
				if strings.EqualFold(estar, g[1]) {
					return matchCase(g[1], forms[i])
				}
			}
			return g[0]
		},
	},
	{
		Description: `Fix "está tomando pizza" → "está comiendo pizza" (food items)`,
		Pattern: regexp.MustCompile(`(?i)\b` + estarGroup + `\s+tomando\s+` +
			`(pizza|hamburguesa|sándwich|sandwich|tacos?|burrito|quesadilla|comida|almuerzo|cena|desayuno)\b`),
		Replace: func(g []string) string {
			return g[1] + " comiendo " + g[2]
		},
	},
}

// ManualFixes are exact sentence overrides applied after the regex table
var ManualFixes = map[string]string{
	"Tú estás siendo muy inteligente para tu edad.":        "Tú eres muy inteligente para tu edad.",
	"Estás siendo muy inteligente para tu edad.":           "Eres muy inteligente para tu edad.",
	"Está siendo muy guapa con ese vestido.":               "Está muy guapa con ese vestido.",
	"Estás estando muy guapa con ese vestido.":             "Estás muy guapa con ese vestido.",
	"Estoy siendo profesora de matemáticas en la escuela.": "Soy profesora de matemáticas en la escuela.",
	"Está siendo profesor de historia.":                    "Es profesor de historia.",
	"Estamos siendo estudiantes universitarios.":           "Somos estudiantes universitarios.",
}

// FixSpanish applies the correction table and the manual overrides to
// spanish. It returns the new text and the descriptions of the rules that
// changed it.
func FixSpanish(spanish string) (string, []string) {
	fixed := spanish
	var applied []string
	for _, c := range Corrections {
		before := fixed
		fixed = c.Pattern.ReplaceAllStringFunc(fixed, func(match string) string {
			return c.Replace(c.Pattern.FindStringSubmatch(match))
		})
		if fixed != before {
			applied = append(applied, c.Description)
		}
	}
	if manual, ok := ManualFixes[spanish]; ok {
		fixed = manual
		applied = append(applied, ManualCorrection)
	}
	return fixed, applied
}

// matchCase copies the case of the first letter of like onto s
func matchCase(like, s string) string {
	first, _ := utf8.DecodeRuneInString(like)
	if !unicode.IsUpper(first) {
		return s
	}
	return CapitalizeFirstLetter(s)
}

// TierStats are the per tier counters of the Spanish fix report
type TierStats struct {
	SentencesChecked int            `json:"sentencesChecked"`
	FixesMade        int            `json:"fixesMade"`
	PatternsFixed    map[string]int `json:"patternsFixed"`
}

// SpanishExample is one rewritten sentence
type SpanishExample struct {
	File         string   `json:"file"`
	Tier         string   `json:"tier"`
	Verb         string   `json:"verb"`
	Tense        string   `json:"tense"`
	Index        int      `json:"index"`
	English      string   `json:"english"`
	Before       string   `json:"before"`
	After        string   `json:"after"`
	FixesApplied []string `json:"fixesApplied"`
}

// SpanishReport is written to the --report path
type SpanishReport struct {
	StartedAt        string                `json:"startedAt"`
	DryRun           bool                  `json:"dryRun"`
	Files            []string              `json:"files"`
	SentencesChecked int                   `json:"totalSentencesChecked"`
	FixesMade        int                   `json:"totalFixesMade"`
	ByTier           map[string]*TierStats `json:"byTier"`
	ByPattern        map[string]int        `json:"byPattern"`
	Examples         []SpanishExample      `json:"examples"`
}

// SpanishPass rewrites unnatural Spanish constructions
type SpanishPass struct {
	dryRun bool
	report SpanishReport
}

// NewSpanishPass creates the unnatural Spanish fixer
func NewSpanishPass(dryRun bool) *SpanishPass {
	return &SpanishPass{
		dryRun: dryRun,
		report: SpanishReport{
			StartedAt: report.Now(),
			DryRun:    dryRun,
			ByTier:    map[string]*TierStats{},
			ByPattern: map[string]int{},
			Examples:  []SpanishExample{},
		},
	}
}

// Name returns the pass name
func (p *SpanishPass) Name() string {
	return "fix-unnatural-spanish"
}

// Apply fixes one corpus file
func (p *SpanishPass) Apply(ctx context.Context, file string, c *corpus.Corpus) (bool, error) {
	rel := report.RelPath(file)
	p.report.Files = append(p.report.Files, rel)

	tier := "0"
	if n, ok := corpus.TierOf(file); ok {
		tier = strconv.Itoa(n)
	}
	stats, ok := p.report.ByTier[tier]
	if !ok {
		stats = &TierStats{PatternsFixed: map[string]int{}}
		p.report.ByTier[tier] = stats
	}

	changed := false
	err := c.Walk(func(loc corpus.Location, s *corpus.Sentence) error {
		p.report.SentencesChecked++
		stats.SentencesChecked++
		if s.Spanish == "" {
			return nil
		}

		fixed, applied := FixSpanish(s.Spanish)
		for _, desc := range applied {
			p.report.ByPattern[desc]++
			stats.PatternsFixed[desc]++
		}
		if fixed == s.Spanish {
			return nil
		}

		p.report.Examples = append(p.report.Examples, SpanishExample{
			File:         rel,
			Tier:         tier,
			Verb:         loc.Verb,
			Tense:        loc.Tense,
			Index:        loc.Index,
			English:      s.English,
			Before:       s.Spanish,
			After:        fixed,
			FixesApplied: applied,
		})
		s.Spanish = fixed
		p.report.FixesMade++
		stats.FixesMade++
		changed = true
		return nil
	})
	return changed, err
}

// Report returns the accumulated report
func (p *SpanishPass) Report() *SpanishReport {
	return &p.report
}

// Summary returns the console summary
func (p *SpanishPass) Summary() *report.Summary {
	return report.NewSummary("Fix unnatural Spanish ("+report.Mode(p.dryRun)+")").
		Add("Sentences checked", p.report.SentencesChecked).
		Add("Fixes made", p.report.FixesMade).
		AddCounts("Pattern: ", p.report.ByPattern)
}
