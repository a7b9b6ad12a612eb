package subjects

import (
	"context"

	"codeberg.org/snonux/drillmaster/internal/corpus"
	"codeberg.org/snonux/drillmaster/internal/report"
)

// Change kinds
const (
	KindSingular = "singular"
	KindPlural   = "plural"
	KindTags     = "tags"
)

// Change records one normalized sentence
type Change struct {
	File           string  `json:"file"`
	Verb           string  `json:"verbKey"`
	Tense          string  `json:"tenseKey"`
	Index          int     `json:"index"`
	Audio          *string `json:"audio"`
	SpanishChanged bool    `json:"spanishChanged"`
	Kind           string  `json:"kind"`
	Reason         string  `json:"reason"`
	Spanish        string  `json:"spanish"`
	EnglishBefore  string  `json:"englishBefore"`
	EnglishAfter   string  `json:"englishAfter"`
	SubjectBefore  string  `json:"subjectBefore"`
	SubjectAfter   string  `json:"subjectAfter"`
}

// Totals are the normalize-subjects counters
type Totals struct {
	FilesTouched   int `json:"filesTouched"`
	Changes        int `json:"changes"`
	SpanishChanged int `json:"spanishChanged"`
}

// Report is written to the --report path
type Report struct {
	StartedAt string         `json:"startedAt"`
	DryRun    bool           `json:"dryRun"`
	Files     []string       `json:"files"`
	Totals    Totals         `json:"totals"`
	ByKind    map[string]int `json:"byKind"`
	ByReason  map[string]int `json:"byReason"`
	Changes   []Change       `json:"changes"`
}

// Pass resolves ambiguous subjects in every corpus file
type Pass struct {
	dryRun bool
	report Report
}

// NewPass creates the subject normalizer
func NewPass(dryRun bool) *Pass {
	return &Pass{
		dryRun: dryRun,
		report: Report{
			StartedAt: report.Now(),
			DryRun:    dryRun,
			ByKind:    map[string]int{},
			ByReason:  map[string]int{},
			Changes:   []Change{},
		},
	}
}

// Name returns the pass name
func (p *Pass) Name() string {
	return "normalize-corpus-subjects"
}

// Apply normalizes one corpus file
func (p *Pass) Apply(ctx context.Context, file string, c *corpus.Corpus) (bool, error) {
	rel := report.RelPath(file)
	p.report.Files = append(p.report.Files, rel)

	metaChanged, err := expandMetadataSubjects(c)
	if err != nil {
		return false, err
	}

	n := 0
	err = c.Walk(func(loc corpus.Location, s *corpus.Sentence) error {
		change, ok := Normalize(s)
		if !ok {
			return nil
		}
		change.File = rel
		change.Verb = loc.Verb
		change.Tense = loc.Tense
		change.Index = loc.Index
		p.report.Changes = append(p.report.Changes, change)
		p.report.ByKind[change.Kind]++
		p.report.ByReason[change.Reason]++
		if change.SpanishChanged {
			p.report.Totals.SpanishChanged++
		}
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
	return n > 0 || metaChanged, nil
}

// Normalize resolves the subject of s in place. It returns false when
// nothing changed.
func Normalize(s *corpus.Sentence) (Change, bool) {
	before := Change{
		Audio:         optional(s.Audio),
		EnglishBefore: s.English,
		SubjectBefore: s.Subject,
	}
	beforeTags := append([]string(nil), s.Tags...)
	spanish := s.Spanish

	s.Tags = SubjectTags(s.Tags, s.Subject)

	var kind, reason string
	if SingularRelevant(s.Subject, s.English) {
		if choice, ok := ResolveSingular(s.Subject, s.English, s.Spanish); ok {
			english := SingularEnglish(s.English, choice.English)
			if english != s.English || choice.Subject != s.Subject {
				kind, reason = KindSingular, choice.Reason
			}
			s.English = english
			s.Subject = choice.Subject
			s.Tags = SubjectTags(s.Tags, s.Subject)
		}
	}
	if s.Subject == PluralBucket {
		if choice, ok := ResolvePlural(s.Subject, s.English, s.Spanish); ok {
			english := PluralEnglish(s.English, choice.English)
			if english != s.English || choice.Subject != s.Subject {
				kind, reason = KindPlural, choice.Reason
			}
			s.English = english
			s.Subject = choice.Subject
			s.Tags = SubjectTags(s.Tags, s.Subject)
		}
	}

	if kind == "" {
		if equalTags(beforeTags, s.Tags) {
			return Change{}, false
		}
		kind, reason = KindTags, ReasonNormalizeSubjTag
	}

	change := before
	change.Kind = kind
	change.Reason = reason
	change.Spanish = s.Spanish
	change.SpanishChanged = s.Spanish != spanish
	change.EnglishAfter = s.English
	change.SubjectAfter = s.Subject
	return change, true
}

func expandMetadataSubjects(c *corpus.Corpus) (bool, error) {
	meta := c.Metadata()
	var list []string
	if ok, err := meta.Get("subjects", &list); !ok || err != nil {
		return false, nil
	}
	expanded := ExpandBuckets(list)
	if equalTags(list, expanded) {
		return false, nil
	}
	if err := meta.Set("subjects", expanded); err != nil {
		return false, err
	}
	return true, c.SetMetadata(meta)
}

func equalTags(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Report returns the accumulated report
func (p *Pass) Report() *Report {
	return &p.report
}

// Summary returns the console summary
func (p *Pass) Summary() *report.Summary {
	return report.NewSummary("Normalize corpus subjects ("+report.Mode(p.dryRun)+")").
		Add("Files scanned", len(p.report.Files)).
		Add("Files touched", p.report.Totals.FilesTouched).
		Add("Changes", p.report.Totals.Changes).
		Add("Spanish changed", p.report.Totals.SpanishChanged).
		AddCounts("Kind: ", p.report.ByKind)
}
