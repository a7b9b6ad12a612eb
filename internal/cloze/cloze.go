// Package cloze removes textbook fill-in-the-blank exercises that were
// scraped into the corpus as if they were example sentences.
package cloze

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"codeberg.org/snonux/drillmaster/internal/corpus"
	"codeberg.org/snonux/drillmaster/internal/report"
)

// TextbookExercise is the pattern name for textbook markers and speaker labels
const TextbookExercise = "textbook_exercise"

type pattern struct {
	name string
	re   *regexp.Regexp
}

// Later patterns override earlier ones, so the most specific name wins.
var patterns = []pattern{
	{"multiple_underscores", regexp.MustCompile(`_{3,}`)},
	{"multiple_blanks", regexp.MustCompile(`_{3,}.*_{3,}`)},
	{"long_underscore_sequence", regexp.MustCompile(`_{5,}`)},
	{"underscore_with_commas", regexp.MustCompile(`_{3,}.*,.*_{3,}`)},
	{"days_of_week_blanks", regexp.MustCompile(`(?i)semanas de la semana son:.*_{3,}`)},
	{"name_blanks", regexp.MustCompile(`(?i)me llamo\s*_{3,}`)},
	{"multiple_choice_blanks", regexp.MustCompile(`_{3,}.*_{3,}.*_{3,}`)},
	{"exercise_instruction", regexp.MustCompile(`(?i)\b(completa|complete|escribe|llena|rellena)\b[^.]*\b(oraciones|frases|espacios|blancos|siguientes|forma correcta|verbos?)\b`)},
	{"copyright_notice", regexp.MustCompile(`(?i)©.*máximo nivel`)},
}

var (
	textbookMarkers = []string{"Ejemplos:", "Ejemplo:", "Modelo:", "Presente a sus compañeros"}
	speakerLabels   = []string{"TÚ:", "ROSA:"}
	blanks          = regexp.MustCompile(`_{3,}`)
)

// criticalVerbs have few examples per tier; their exercises are kept when
// they carry enough real content.
var criticalVerbs = map[int][]string{
	2: {"LLAMARSE", "LEVANTARSE", "DUCHARSE", "SENTARSE", "ACOSTARSE", "DESPERTARSE"},
	3: {"VENIR", "VER", "DAR", "SABER", "OÍR", "TRAER"},
	4: {"SENTIRSE", "PREOCUPARSE", "DIVERTIRSE"},
	5: {"GUSTAR", "ENCANTAR", "MOLESTAR", "IMPORTAR", "PARECER"},
}

// MinCriticalWords is the content word count that keeps a critical exercise
const MinCriticalWords = 4

// Classify returns the exercise pattern matched by spanish, or "" when the
// text is an ordinary sentence.
func Classify(spanish string) string {
	name := ""
	for _, p := range patterns {
		if p.re.MatchString(spanish) {
			name = p.name
		}
	}
	for _, m := range textbookMarkers {
		if strings.Contains(spanish, m) {
			return TextbookExercise
		}
	}
	for _, l := range speakerLabels {
		if strings.HasPrefix(spanish, l) {
			return TextbookExercise
		}
	}
	return name
}

// IsCritical reports whether an exercise for verb in tier should be kept
func IsCritical(spanish, verb string, tier int) bool {
	for _, v := range criticalVerbs[tier] {
		if v != verb {
			continue
		}
		words := strings.Fields(blanks.ReplaceAllString(spanish, ""))
		return len(words) >= MinCriticalWords
	}
	return false
}

// Removed is one dropped exercise
type Removed struct {
	File    string `json:"file"`
	Tier    int    `json:"tier"`
	Verb    string `json:"verbKey"`
	Tense   string `json:"tenseKey"`
	Index   int    `json:"index"`
	Spanish string `json:"spanish"`
	Pattern string `json:"pattern"`
}

// Preserved is an exercise kept because its verb is critical
type Preserved struct {
	File    string `json:"file"`
	Tier    int    `json:"tier"`
	Verb    string `json:"verbKey"`
	Tense   string `json:"tenseKey"`
	Index   int    `json:"index"`
	Spanish string `json:"spanish"`
	Reason  string `json:"reason"`
}

// TierStats are the per tier counters
type TierStats struct {
	Removed     int `json:"removed"`
	Preserved   int `json:"preserved"`
	TotalBefore int `json:"totalBefore"`
	TotalAfter  int `json:"totalAfter"`
}

// Report is written to the --report path
type Report struct {
	StartedAt         string                `json:"startedAt"`
	DryRun            bool                  `json:"dryRun"`
	Files             []string              `json:"files"`
	TotalRemoved      int                   `json:"totalRemoved"`
	ByTier            map[string]*TierStats `json:"byTier"`
	PatternsFound     map[string]int        `json:"patternsFound"`
	RemovedSentences  []Removed             `json:"removedSentences"`
	PreservedCritical []Preserved           `json:"preservedCritical"`
}

// Pass drops cloze exercises from every tense array
type Pass struct {
	dryRun bool
	report Report
}

// NewPass creates the cloze remover
func NewPass(dryRun bool) *Pass {
	return &Pass{
		dryRun: dryRun,
		report: Report{
			StartedAt:         report.Now(),
			DryRun:            dryRun,
			ByTier:            map[string]*TierStats{},
			PatternsFound:     map[string]int{},
			RemovedSentences:  []Removed{},
			PreservedCritical: []Preserved{},
		},
	}
}

// Name returns the pass name
func (p *Pass) Name() string {
	return "remove-cloze-exercises"
}

// Apply cleans one corpus file
func (p *Pass) Apply(ctx context.Context, file string, c *corpus.Corpus) (bool, error) {
	rel := report.RelPath(file)
	p.report.Files = append(p.report.Files, rel)

	tier, _ := corpus.TierOf(file)
	key := strconv.Itoa(tier)
	stats, ok := p.report.ByTier[key]
	if !ok {
		stats = &TierStats{}
		p.report.ByTier[key] = stats
	}

	removed := 0
	for _, verb := range c.Verbs {
		for _, tense := range verb.Tenses {
			stats.TotalBefore += len(tense.Entries)
			tense.Filter(func(i int, s *corpus.Sentence) bool {
				name := Classify(s.Spanish)
				if name == "" {
					return true
				}
				if IsCritical(s.Spanish, verb.Name, tier) {
					p.report.PreservedCritical = append(p.report.PreservedCritical, Preserved{
						File:    rel,
						Tier:    tier,
						Verb:    verb.Name,
						Tense:   tense.Name,
						Index:   i,
						Spanish: s.Spanish,
						Reason:  fmt.Sprintf("Critical %s example for Tier %d - has content beyond blanks", verb.Name, tier),
					})
					stats.Preserved++
					return true
				}
				p.report.RemovedSentences = append(p.report.RemovedSentences, Removed{
					File:    rel,
					Tier:    tier,
					Verb:    verb.Name,
					Tense:   tense.Name,
					Index:   i,
					Spanish: s.Spanish,
					Pattern: name,
				})
				p.report.PatternsFound[name]++
				stats.Removed++
				removed++
				return false
			})
			stats.TotalAfter += len(tense.Entries)
		}
	}
	p.report.TotalRemoved += removed
	return removed > 0, nil
}

// Report returns the accumulated report
func (p *Pass) Report() *Report {
	return &p.report
}

// Summary returns the console summary
func (p *Pass) Summary() *report.Summary {
	return report.NewSummary("Remove cloze exercises ("+report.Mode(p.dryRun)+")").
		Add("Files scanned", len(p.report.Files)).
		Add("Removed", p.report.TotalRemoved).
		Add("Critical preserved", len(p.report.PreservedCritical)).
		AddCounts("Pattern: ", p.report.PatternsFound)
}
