package audit

import (
	"context"
	"regexp"
	"strings"

	"codeberg.org/snonux/drillmaster/internal/corpus"
	"codeberg.org/snonux/drillmaster/internal/report"
)

// SkipPronounField marks sentences that must not get a spoken pronoun prepended
const SkipPronounField = "skipPronounPrepend"

// Finding types of the pronoun prepend audit
const (
	TypeCliticCluster = "se_clitic_cluster"
	TypeImpersonalSe  = "high_confidence_impersonal_se"
	TypeImpersonal    = "impersonal_starter"
)

var (
	startsWithSe        = regexp.MustCompile(`(?i)^Se\b`)
	startsWithSeClitic  = regexp.MustCompile(`(?i)^(¿\s*)?Se\s+(me|te|se|lo|la|le|nos|os|les)\b`)
	startsWithImpersonal = regexp.MustCompile(`(?i)^(Hay|Hace|Hubo|Había|Habían|Es|Son)\b`)
)

var findingNotes = map[string]string{
	TypeCliticCluster: `Starts with "Se" + clitic (often impersonal/passive or complex clitic cluster). Consider skipPronounPrepend.`,
	TypeImpersonalSe:  `Starts with "Se" for a NON-reflexive verb; high-confidence impersonal/passive candidate.`,
	TypeImpersonal:    `Starts with common impersonal/existential/weather pattern. Likely should not get a pronoun prepended.`,
}

// NeedsPrepend reports whether audio for subject gets the pronoun spoken first
func NeedsPrepend(subject string) bool {
	switch strings.ToLower(subject) {
	case "él", "ella", "usted", "ellos", "ellas", "ustedes":
		return true
	}
	return false
}

// PrependFindings classifies a Spanish sentence. reflexive tells whether
// the verb is listed as reflexive.
func PrependFindings(spanish string, reflexive bool) []string {
	spanish = strings.TrimSpace(spanish)
	var types []string
	clitic := startsWithSeClitic.MatchString(spanish)
	if clitic {
		types = append(types, TypeCliticCluster)
	}
	if !clitic && !reflexive && startsWithSe.MatchString(spanish) {
		types = append(types, TypeImpersonalSe)
	}
	if startsWithImpersonal.MatchString(spanish) {
		types = append(types, TypeImpersonal)
	}
	return types
}

// PronounFinding is one sentence likely to break when a pronoun is prepended
type PronounFinding struct {
	Type               string  `json:"type"`
	File               string  `json:"file"`
	Verb               string  `json:"verbKey"`
	Tense              string  `json:"tenseKey"`
	Index              int     `json:"index"`
	Subject            string  `json:"subject"`
	Region             *string `json:"region"`
	Spanish            string  `json:"spanish"`
	English            string  `json:"english"`
	Audio              *string `json:"audio"`
	SkipPronounPrepend bool    `json:"skipPronounPrepend"`
	Note               string  `json:"note"`
	Action             string  `json:"action"`
}

// PronounTotals are the report counters
type PronounTotals struct {
	FilesScanned int `json:"filesScanned"`
	Findings     int `json:"findings"`
}

// PronounSummary counts findings per type
type PronounSummary struct {
	ByType map[string]int `json:"byType"`
}

// PronounReport is written to the --report path
type PronounReport struct {
	StartedAt string           `json:"startedAt"`
	CorpusDir string           `json:"corpusDir"`
	Variant   string           `json:"variant"`
	Files     []string         `json:"files"`
	Totals    PronounTotals    `json:"totals"`
	Summary   PronounSummary   `json:"summary"`
	Findings  []PronounFinding `json:"findings"`
}

// Reflexives answers whether a verb is reflexive
type Reflexives interface {
	IsReflexive(verb string) bool
}

// PronounPass finds sentences where prepending a subject pronoun to the
// spoken audio would produce awkward Spanish.
type PronounPass struct {
	reflexives Reflexives
	report     PronounReport
}

// NewPronounPass creates the pronoun prepend audit. reflexives may be nil.
func NewPronounPass(corpusDir string, variant corpus.Variant, reflexives Reflexives) *PronounPass {
	return &PronounPass{
		reflexives: reflexives,
		report: PronounReport{
			StartedAt: report.Now(),
			CorpusDir: report.RelPath(corpusDir),
			Variant:   string(variant),
			Summary:   PronounSummary{ByType: map[string]int{}},
			Findings:  []PronounFinding{},
		},
	}
}

// Name returns the pass name
func (p *PronounPass) Name() string {
	return "audit-es-en-pronoun-prepend-edge-cases"
}

// Apply audits one corpus file
func (p *PronounPass) Apply(ctx context.Context, file string, c *corpus.Corpus) (bool, error) {
	rel := report.RelPath(file)
	p.report.Files = append(p.report.Files, rel)
	p.report.Totals.FilesScanned++

	err := c.Walk(func(loc corpus.Location, s *corpus.Sentence) error {
		if !NeedsPrepend(s.Subject) || s.Flag(SkipPronounField) {
			return nil
		}
		reflexive := p.reflexives != nil && p.reflexives.IsReflexive(loc.Verb)
		for _, typ := range PrependFindings(s.Spanish, reflexive) {
			p.report.Findings = append(p.report.Findings, PronounFinding{
				Type:    typ,
				File:    rel,
				Verb:    loc.Verb,
				Tense:   loc.Tense,
				Index:   loc.Index,
				Subject: s.Subject,
				Region:  optional(s.Region),
				Spanish: s.Spanish,
				English: s.English,
				Audio:   optional(s.Audio),
				Note:    findingNotes[typ],
				Action:  "set skipPronounPrepend=true",
			})
			p.report.Summary.ByType[typ]++
		}
		return nil
	})
	p.report.Totals.Findings = len(p.report.Findings)
	return false, err
}

// Report returns the accumulated report
func (p *PronounPass) Report() *PronounReport {
	return &p.report
}

// Summary returns the console summary
func (p *PronounPass) Summary() *report.Summary {
	return report.NewSummary("Audit ES→EN pronoun-prepend edge cases").
		Add("Files scanned", p.report.Totals.FilesScanned).
		Add("Findings", p.report.Totals.Findings).
		AddCounts("By type: ", p.report.Summary.ByType)
}
