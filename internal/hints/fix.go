package hints

import (
	"context"

	"codeberg.org/snonux/drillmaster/internal/corpus"
	"codeberg.org/snonux/drillmaster/internal/report"
)

// Change records one rewritten English sentence
type Change struct {
	File          string  `json:"file"`
	Verb          string  `json:"verbKey"`
	Tense         string  `json:"tenseKey"`
	Index         int     `json:"index"`
	Subject       string  `json:"subject"`
	EnglishBefore string  `json:"englishBefore"`
	EnglishAfter  string  `json:"englishAfter"`
	Spanish       string  `json:"spanish"`
	Audio         *string `json:"audio"`
}

// FixTotals are the report counters
type FixTotals struct {
	FilesTouched int `json:"filesTouched"`
	Changes      int `json:"changes"`
}

// FixReport is written to the --report path
type FixReport struct {
	StartedAt string    `json:"startedAt"`
	DryRun    bool      `json:"dryRun"`
	CorpusDir string    `json:"corpusDir"`
	Files     []string  `json:"files"`
	Totals    FixTotals `json:"totals"`
	Changes   []Change  `json:"changes"`
}

// FixPass rewrites English hints to match each sentence's subject
type FixPass struct {
	report FixReport
}

// NewFixPass creates the fix-hints pass
func NewFixPass(corpusDir string, dryRun bool) *FixPass {
	return &FixPass{report: FixReport{
		StartedAt: report.Now(),
		DryRun:    dryRun,
		CorpusDir: report.RelPath(corpusDir),
		Changes:   []Change{},
	}}
}

// Name returns the pass name
func (p *FixPass) Name() string {
	return "fix-corpus-english-hints"
}

// Apply fixes the hints of one corpus file
func (p *FixPass) Apply(ctx context.Context, file string, c *corpus.Corpus) (bool, error) {
	rel := report.RelPath(file)
	p.report.Files = append(p.report.Files, rel)

	changes := 0
	err := c.Walk(func(loc corpus.Location, s *corpus.Sentence) error {
		if !s.HasField("english") {
			return nil
		}
		before := s.English
		after := Normalize(s.Subject, before)
		if after == before {
			return nil
		}

		s.English = after
		changes++
		var audio *string
		if s.Audio != "" {
			audio = &s.Audio
		}
		p.report.Changes = append(p.report.Changes, Change{
			File:          rel,
			Verb:          loc.Verb,
			Tense:         loc.Tense,
			Index:         loc.Index,
			Subject:       s.Subject,
			EnglishBefore: before,
			EnglishAfter:  after,
			Spanish:       s.Spanish,
			Audio:         audio,
		})
		return nil
	})
	if err != nil {
		return false, err
	}

	if changes > 0 {
		p.report.Totals.FilesTouched++
		p.report.Totals.Changes += changes
	}
	return changes > 0, nil
}

// Report returns the accumulated report
func (p *FixPass) Report() *FixReport {
	return &p.report
}

// Summary returns the console summary
func (p *FixPass) Summary() *report.Summary {
	return report.NewSummary("Fix corpus English hints ("+report.Mode(p.report.DryRun)+")").
		Add("Files scanned", len(p.report.Files)).
		Add("Files touched", p.report.Totals.FilesTouched).
		Add("Changes", p.report.Totals.Changes)
}
