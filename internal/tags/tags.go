// Package tags converts free text sentence tags into the key:value form and
// fills in the grammatical tags of known verbs.
package tags

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"codeberg.org/snonux/drillmaster/internal/corpus"
	"codeberg.org/snonux/drillmaster/internal/report"
)

// Required is added to every tag set
const Required = "word-type:verb"

// Mappings rewrites legacy tags to key:value tags
var Mappings = map[string]string{
	"present":             "tense:present",
	"present-progressive": "tense:present-progressive",
	"going-to":            "tense:going-to",
	"preterite":           "tense:preterite",
	"present-perfect":     "tense:present-perfect",
	"future":              "tense:future",
	"regular":             "regularity:regular",
	"irregular":           "regularity:irregular",
	"highly-irregular":    "regularity:highly-irregular",
	"ar-verb":             "verb-type:ar",
	"er-verb":             "verb-type:er",
	"ir-verb":             "verb-type:ir",
	"copula":              "copula:true",
	"reflexive":           "reflexive:true",
	"backwards-verb":      "special-construction:indirect-object",
}

// Standardize maps tags, adds the required and verb metadata tags and
// returns the sorted, deduplicated result together with the standalone tags
// it did not recognize.
func Standardize(in []string, verb string) (out []string, unknown []string) {
	seen := map[string]bool{Required: true}
	out = []string{Required}
	add := func(tag string) {
		if !seen[tag] {
			seen[tag] = true
			out = append(out, tag)
		}
	}

	for _, tag := range in {
		if mapped, ok := Mappings[tag]; ok {
			add(mapped)
			continue
		}
		if !strings.Contains(tag, ":") && !seen[tag] {
			unknown = append(unknown, tag)
		}
		add(tag)
	}

	if meta, ok := Lookup(verb); ok {
		for _, tag := range meta.Tags() {
			add(tag)
		}
	}

	sort.Strings(out)
	return out, unknown
}

// Totals are the standardize-tags counters
type Totals struct {
	VerbsProcessed int `json:"verbsProcessed"`
	TagSetsChanged int `json:"tagSetsChanged"`
	FilesTouched   int `json:"filesTouched"`
}

// Change records one rewritten tag set
type Change struct {
	File   string   `json:"file"`
	Verb   string   `json:"verbKey"`
	Tense  string   `json:"tenseKey"`
	Index  int      `json:"index"`
	Before []string `json:"before"`
	After  []string `json:"after"`
}

// Report is written to the --report path
type Report struct {
	StartedAt string         `json:"startedAt"`
	DryRun    bool           `json:"dryRun"`
	Files     []string       `json:"files"`
	Totals    Totals         `json:"totals"`
	Unknown   map[string]int `json:"unknownTags"`
	Changes   []Change       `json:"changes"`
}

// Pass standardizes the tags of every sentence that has a tags array
type Pass struct {
	dryRun bool
	logger *zap.Logger
	report Report
}

// NewPass creates the tag standardizer
func NewPass(dryRun bool, logger *zap.Logger) *Pass {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pass{
		dryRun: dryRun,
		logger: logger,
		report: Report{
			StartedAt: report.Now(),
			DryRun:    dryRun,
			Unknown:   map[string]int{},
			Changes:   []Change{},
		},
	}
}

// Name returns the pass name
func (p *Pass) Name() string {
	return "standardize-tags"
}

// Apply standardizes one corpus file
func (p *Pass) Apply(ctx context.Context, file string, c *corpus.Corpus) (bool, error) {
	rel := report.RelPath(file)
	p.report.Files = append(p.report.Files, rel)
	p.report.Totals.VerbsProcessed += len(c.Verbs)

	n := 0
	err := c.Walk(func(loc corpus.Location, s *corpus.Sentence) error {
		if s.Tags == nil {
			return nil
		}
		after, unknown := Standardize(s.Tags, loc.Verb)
		for _, tag := range unknown {
			p.report.Unknown[tag]++
			p.logger.Warn("Unknown standalone tag",
				zap.String("tag", tag),
				zap.String("verb", loc.Verb),
				zap.String("file", rel))
		}

		before := append([]string(nil), s.Tags...)
		sorted := append([]string(nil), s.Tags...)
		sort.Strings(sorted)
		if equal(sorted, after) {
			return nil
		}
		p.report.Changes = append(p.report.Changes, Change{
			File:   rel,
			Verb:   loc.Verb,
			Tense:  loc.Tense,
			Index:  loc.Index,
			Before: before,
			After:  after,
		})
		s.Tags = after
		n++
		return nil
	})
	if err != nil {
		return false, err
	}
	if n > 0 {
		p.report.Totals.FilesTouched++
		p.report.Totals.TagSetsChanged += n
	}
	return n > 0, nil
}

func equal(a, b []string) bool {
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

// Report returns the accumulated report
func (p *Pass) Report() *Report {
	return &p.report
}

// Summary returns the console summary
func (p *Pass) Summary() *report.Summary {
	return report.NewSummary("Standardize tags ("+report.Mode(p.dryRun)+")").
		Add("Files scanned", len(p.report.Files)).
		Add("Verbs processed", p.report.Totals.VerbsProcessed).
		Add("Tag sets changed", p.report.Totals.TagSetsChanged).
		Add("Unknown standalone tags", len(p.report.Unknown))
}
