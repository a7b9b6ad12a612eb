// Package dedupe removes exact duplicate sentences from tense arrays.
package dedupe

import (
	"context"

	"codeberg.org/snonux/drillmaster/internal/corpus"
	"codeberg.org/snonux/drillmaster/internal/report"
)

// Removal records one dropped duplicate
type Removal struct {
	File    string  `json:"file"`
	Verb    string  `json:"verbKey"`
	Tense   string  `json:"tenseKey"`
	Index   int     `json:"index"`
	Subject string  `json:"subject"`
	Region  *string `json:"region"`
	Spanish string  `json:"spanish"`
	English string  `json:"english"`
	Audio   *string `json:"audio"`
}

// Totals are the report counters
type Totals struct {
	FilesTouched     int `json:"filesTouched"`
	ArraysTouched    int `json:"arraysTouched"`
	RemovedSentences int `json:"removedSentences"`
}

// Report is written to the --report path
type Report struct {
	StartedAt string    `json:"startedAt"`
	DryRun    bool      `json:"dryRun"`
	CorpusDir string    `json:"corpusDir"`
	Files     []string  `json:"files"`
	Totals    Totals    `json:"totals"`
	Removed   []Removal `json:"removed"`
}

// Pass drops every sentence whose identity key (subject, region, spanish,
// english) already appeared earlier in the same tense array.
type Pass struct {
	report Report
}

// NewPass creates a dedupe pass
func NewPass(corpusDir string, dryRun bool) *Pass {
	return &Pass{report: Report{
		StartedAt: report.Now(),
		DryRun:    dryRun,
		CorpusDir: report.RelPath(corpusDir),
		Removed:   []Removal{},
	}}
}

// Name returns the pass name
func (p *Pass) Name() string {
	return "dedupe-corpus-exact"
}

// Apply dedupes one corpus file
func (p *Pass) Apply(ctx context.Context, file string, c *corpus.Corpus) (bool, error) {
	rel := report.RelPath(file)
	p.report.Files = append(p.report.Files, rel)

	removed := 0
	for _, verb := range c.Verbs {
		for _, tense := range verb.Tenses {
			seen := make(map[string]bool)
			var removals []Removal

			tense.Filter(func(i int, s *corpus.Sentence) bool {
				key := s.IdentityKey()
				if !seen[key] {
					seen[key] = true
					return true
				}
				removals = append(removals, Removal{
					File:    rel,
					Verb:    verb.Name,
					Tense:   tense.Name,
					Index:   i,
					Subject: s.Subject,
					Region:  optional(s.Region),
					Spanish: s.Spanish,
					English: s.English,
					Audio:   optional(s.Audio),
				})
				return false
			})

			if len(removals) > 0 {
				p.report.Totals.ArraysTouched++
				p.report.Removed = append(p.report.Removed, removals...)
				removed += len(removals)
			}
		}
	}

	if removed > 0 {
		p.report.Totals.FilesTouched++
		p.report.Totals.RemovedSentences += removed
	}
	return removed > 0, nil
}

// Report returns the accumulated report
func (p *Pass) Report() *Report {
	return &p.report
}

// Summary returns the console summary
func (p *Pass) Summary() *report.Summary {
	return report.NewSummary("Dedupe corpus exact ("+report.Mode(p.report.DryRun)+")").
		Add("Files scanned", len(p.report.Files)).
		Add("Files touched", p.report.Totals.FilesTouched).
		Add("Arrays touched", p.report.Totals.ArraysTouched).
		Add("Removed sentences", p.report.Totals.RemovedSentences)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
