// Package textfix holds the passes that correct the text of sentences:
// capitalization, unnatural Spanish constructions and reviewed fix lists.
package textfix

import (
	"context"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"codeberg.org/snonux/drillmaster/internal/corpus"
	"codeberg.org/snonux/drillmaster/internal/report"
)

var spanishUpper = cases.Upper(language.Spanish)

// CapitalizeFirstLetter upper cases the first letter of s, skipping leading
// punctuation such as ¿ ¡ " '. It returns s unchanged when there is no
// letter or the letter is already upper case.
func CapitalizeFirstLetter(s string) string {
	for i, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		upper := spanishUpper.String(string(r))
		if upper == string(r) {
			return s
		}
		return s[:i] + upper + s[i+utf8.RuneLen(r):]
	}
	return s
}

// SpanishChange records one rewritten Spanish text
type SpanishChange struct {
	File          string  `json:"file"`
	Verb          string  `json:"verbKey"`
	Tense         string  `json:"tenseKey"`
	Index         int     `json:"index"`
	Audio         *string `json:"audio"`
	SpanishBefore string  `json:"spanishBefore"`
	SpanishAfter  string  `json:"spanishAfter"`
}

// Totals are the counters shared by the rewrite reports
type Totals struct {
	FilesTouched int `json:"filesTouched"`
	Changes      int `json:"changes"`
}

// CapitalizationReport is written to the --report path
type CapitalizationReport struct {
	StartedAt string          `json:"startedAt"`
	DryRun    bool            `json:"dryRun"`
	Files     []string        `json:"files"`
	Totals    Totals          `json:"totals"`
	Changes   []SpanishChange `json:"changes"`
}

// CapitalizationPass capitalizes the first letter of every Spanish text
type CapitalizationPass struct {
	dryRun bool
	report CapitalizationReport
}

// NewCapitalizationPass creates the capitalization fixer
func NewCapitalizationPass(dryRun bool) *CapitalizationPass {
	return &CapitalizationPass{
		dryRun: dryRun,
		report: CapitalizationReport{
			StartedAt: report.Now(),
			DryRun:    dryRun,
			Changes:   []SpanishChange{},
		},
	}
}

// Name returns the pass name
func (p *CapitalizationPass) Name() string {
	return "fix-spanish-capitalization"
}

// Apply fixes one corpus file
func (p *CapitalizationPass) Apply(ctx context.Context, file string, c *corpus.Corpus) (bool, error) {
	rel := report.RelPath(file)
	p.report.Files = append(p.report.Files, rel)

	n := 0
	err := c.Walk(func(loc corpus.Location, s *corpus.Sentence) error {
		fixed := CapitalizeFirstLetter(s.Spanish)
		if fixed == s.Spanish {
			return nil
		}
		p.report.Changes = append(p.report.Changes, SpanishChange{
			File:          rel,
			Verb:          loc.Verb,
			Tense:         loc.Tense,
			Index:         loc.Index,
			Audio:         optional(s.Audio),
			SpanishBefore: s.Spanish,
			SpanishAfter:  fixed,
		})
		s.Spanish = fixed
		n++
		return nil
	})
	if err != nil {
		return false, err
	}
	if n > 0 {
		p.report.Totals.FilesTouched++
		p.report.Totals.Changes += n
	}
	return n > 0, nil
}

// Report returns the accumulated report
func (p *CapitalizationPass) Report() *CapitalizationReport {
	return &p.report
}

// Summary returns the console summary
func (p *CapitalizationPass) Summary() *report.Summary {
	return report.NewSummary("Fix Spanish capitalization ("+report.Mode(p.dryRun)+")").
		Add("Files scanned", len(p.report.Files)).
		Add("Files touched", p.report.Totals.FilesTouched).
		Add("Changes", p.report.Totals.Changes)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
