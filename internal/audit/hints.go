// Package audit holds the read-only corpus audits: English hint
// consistency, duplicate groups and pronoun prepend edge cases.
package audit

import (
	"context"

	"codeberg.org/snonux/drillmaster/internal/corpus"
	"codeberg.org/snonux/drillmaster/internal/hints"
	"codeberg.org/snonux/drillmaster/internal/report"
)

// HintFinding is a sentence whose hints are missing or wrong
type HintFinding struct {
	File       string       `json:"file"`
	Verb       string       `json:"verbKey"`
	Tense      string       `json:"tenseKey"`
	Index      int          `json:"index"`
	Subject    string       `json:"subject"`
	English    string       `json:"english"`
	Spanish    string       `json:"spanish"`
	Missing    []hints.Hint `json:"missing,omitempty"`
	Mismatches []hints.Hint `json:"mismatches,omitempty"`
}

// DupeLocation is one occurrence of a duplicated sentence
type DupeLocation struct {
	File    string  `json:"file"`
	Verb    string  `json:"verbKey"`
	Tense   string  `json:"tenseKey"`
	Index   int     `json:"index"`
	Subject string  `json:"subject"`
	Region  *string `json:"region"`
	Audio   *string `json:"audio"`
}

// DupeGroup lists every location of one duplicated sentence
type DupeGroup struct {
	Count     int            `json:"count"`
	Locations []DupeLocation `json:"locations"`
}

// FileDupes holds the duplicate groups found within one file
type FileDupes struct {
	File   string      `json:"file"`
	Groups []DupeGroup `json:"groups"`
}

// HintTotals are the report counters
type HintTotals struct {
	FilesScanned    int `json:"filesScanned"`
	MissingHints    int `json:"missingHints"`
	MismatchedHints int `json:"mismatchedHints"`
	DuplicateGroups int `json:"duplicateGroups"`
}

// HintSummary counts findings per hint type
type HintSummary struct {
	MissingByType    map[string]int `json:"missingByType"`
	MismatchedByType map[string]int `json:"mismatchedByType"`
}

// HintFindings groups the finding lists
type HintFindings struct {
	MissingHints    []HintFinding `json:"missingHints"`
	MismatchedHints []HintFinding `json:"mismatchedHints"`
	Duplicates      []FileDupes   `json:"duplicates"`
}

// HintReport is written to the --report path
type HintReport struct {
	StartedAt string       `json:"startedAt"`
	CorpusDir string       `json:"corpusDir"`
	Files     []string     `json:"files"`
	Totals    HintTotals   `json:"totals"`
	Summary   HintSummary  `json:"summary"`
	Findings  HintFindings `json:"findings"`
}

// HintPass audits English hints and exact duplicates. It never modifies
// the corpus.
type HintPass struct {
	report HintReport
}

// NewHintPass creates the hints and dupes audit
func NewHintPass(corpusDir string) *HintPass {
	return &HintPass{report: HintReport{
		StartedAt: report.Now(),
		CorpusDir: report.RelPath(corpusDir),
		Summary: HintSummary{
			MissingByType:    map[string]int{},
			MismatchedByType: map[string]int{},
		},
		Findings: HintFindings{
			MissingHints:    []HintFinding{},
			MismatchedHints: []HintFinding{},
			Duplicates:      []FileDupes{},
		},
	}}
}

// Name returns the pass name
func (p *HintPass) Name() string {
	return "audit-corpus-hints-and-dupes"
}

// Apply audits one corpus file
func (p *HintPass) Apply(ctx context.Context, file string, c *corpus.Corpus) (bool, error) {
	rel := report.RelPath(file)
	p.report.Files = append(p.report.Files, rel)
	p.report.Totals.FilesScanned++

	var order []string
	groups := make(map[string][]DupeLocation)

	err := c.Walk(func(loc corpus.Location, s *corpus.Sentence) error {
		base := HintFinding{
			File:    rel,
			Verb:    loc.Verb,
			Tense:   loc.Tense,
			Index:   loc.Index,
			Subject: s.Subject,
			English: s.English,
			Spanish: s.Spanish,
		}

		if missing := hints.Missing(s.Subject, s.English); len(missing) > 0 {
			f := base
			f.Missing = missing
			p.report.Findings.MissingHints = append(p.report.Findings.MissingHints, f)
			for _, h := range missing {
				p.report.Summary.MissingByType[string(h)]++
			}
		}

		if mismatches := hints.Mismatches(s.Subject, s.English); len(mismatches) > 0 {
			f := base
			f.Mismatches = mismatches
			p.report.Findings.MismatchedHints = append(p.report.Findings.MismatchedHints, f)
			for _, h := range mismatches {
				p.report.Summary.MismatchedByType[string(h)]++
			}
		}

		key := loc.Verb + "||" + loc.Tense + "||" + s.IdentityKey()
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], DupeLocation{
			File:    rel,
			Verb:    loc.Verb,
			Tense:   loc.Tense,
			Index:   loc.Index,
			Subject: s.Subject,
			Region:  optional(s.Region),
			Audio:   optional(s.Audio),
		})
		return nil
	})
	if err != nil {
		return false, err
	}

	var dupes []DupeGroup
	for _, key := range order {
		if locs := groups[key]; len(locs) > 1 {
			dupes = append(dupes, DupeGroup{Count: len(locs), Locations: locs})
		}
	}
	if len(dupes) > 0 {
		p.report.Findings.Duplicates = append(p.report.Findings.Duplicates, FileDupes{File: rel, Groups: dupes})
		p.report.Totals.DuplicateGroups += len(dupes)
	}

	p.report.Totals.MissingHints = len(p.report.Findings.MissingHints)
	p.report.Totals.MismatchedHints = len(p.report.Findings.MismatchedHints)
	return false, nil
}

// Report returns the accumulated report
func (p *HintPass) Report() *HintReport {
	return &p.report
}

// Summary returns the console summary
func (p *HintPass) Summary() *report.Summary {
	return report.NewSummary("Audit corpus hints + dupes").
		Add("Files scanned", p.report.Totals.FilesScanned).
		Add("Missing hint findings", p.report.Totals.MissingHints).
		Add("Mismatched hint findings", p.report.Totals.MismatchedHints).
		Add("Duplicate groups", p.report.Totals.DuplicateGroups)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
