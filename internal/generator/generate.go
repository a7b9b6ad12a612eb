// Package generator synthesizes corpus sentences from conjugation rules and
// small bilingual template tables.
package generator

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"codeberg.org/snonux/drillmaster/internal/corpus"
	"codeberg.org/snonux/drillmaster/internal/report"
	"codeberg.org/snonux/drillmaster/internal/subjects"
	"codeberg.org/snonux/drillmaster/internal/tags"
	"codeberg.org/snonux/drillmaster/internal/verbs"
)

// Source is the source field of generated sentences
const Source = "mexican_authentic"

// Options configure a generate run
type Options struct {
	CorpusDir  string
	Tiers      []int
	Verbs      *verbs.List
	Conjugator Conjugator
	DryRun     bool
}

// FileName returns the generated corpus file name for a tier
func FileName(tier int) string {
	return fmt.Sprintf("tier%d-mexican-authentic.json", tier)
}

// Skip records a verb that produced no sentences
type Skip struct {
	Tier   int    `json:"tier"`
	Verb   string `json:"verb"`
	Reason string `json:"reason"`
}

// Totals are the generate counters
type Totals struct {
	Verbs     int `json:"verbs"`
	Sentences int `json:"sentences"`
	Skipped   int `json:"skippedVerbs"`
}

// Report is written to the --report path
type Report struct {
	StartedAt string   `json:"startedAt"`
	DryRun    bool     `json:"dryRun"`
	Outputs   []string `json:"outputs"`
	Totals    Totals   `json:"totals"`
	Skipped   []Skip   `json:"skipped"`
}

// Generator writes one corpus file per tier
type Generator struct {
	opts   Options
	logger *zap.Logger
	report Report
}

// New creates a generator
func New(opts Options, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Conjugator == nil {
		opts.Conjugator = Rules{}
	}
	if len(opts.Tiers) == 0 {
		opts.Tiers = []int{1, 2, 3, 4, 5}
	}
	return &Generator{
		opts:   opts,
		logger: logger,
		report: Report{
			StartedAt: report.Now(),
			DryRun:    opts.DryRun,
			Outputs:   []string{},
			Skipped:   []Skip{},
		},
	}
}

// Run generates every configured tier
func (g *Generator) Run() error {
	if g.opts.Verbs.Len() == 0 {
		return fmt.Errorf("verb list is empty")
	}
	for _, tier := range g.opts.Tiers {
		c, err := g.Tier(tier)
		if err != nil {
			return err
		}
		if g.opts.DryRun {
			continue
		}
		if err := c.Save(); err != nil {
			return err
		}
		g.report.Outputs = append(g.report.Outputs, report.RelPath(c.Path))
		g.logger.Info("Generated corpus", zap.Int("tier", tier), zap.String("file", c.Path))
	}
	return nil
}

// Tier builds the corpus for one tier without writing it
func (g *Generator) Tier(tier int) (*corpus.Corpus, error) {
	c := corpus.New(filepath.Join(g.opts.CorpusDir, FileName(tier)))

	count := 0
	for _, entry := range g.opts.Verbs.Entries() {
		if entry.Tier() != tier {
			continue
		}
		if reason := g.unsupported(entry); reason != "" {
			g.skip(tier, entry.Verb, reason)
			continue
		}
		n, err := g.addVerb(c, tier, entry)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			g.skip(tier, entry.Verb, "no conjugations")
			continue
		}
		count++
		g.report.Totals.Verbs++
		g.report.Totals.Sentences += n
	}

	meta := corpus.NewObject()
	for _, kv := range []struct {
		key   string
		value any
	}{
		{"tier", tier},
		{"region", "mexico"},
		{"generated", report.Now()},
		{"verbs", count},
	} {
		if err := meta.Set(kv.key, kv.value); err != nil {
			return nil, err
		}
	}
	if err := c.SetMetadata(meta); err != nil {
		return nil, err
	}
	return c, nil
}

func (g *Generator) unsupported(entry verbs.Entry) string {
	meta, _ := tags.Lookup(entry.Verb)
	if subjects.IsGustarVerb(entry.Verb) || meta.SpecialConstruction == "indirect-object" {
		return "gustar-type verb"
	}
	return ""
}

func (g *Generator) skip(tier int, verb, reason string) {
	g.report.Totals.Skipped++
	g.report.Skipped = append(g.report.Skipped, Skip{Tier: tier, Verb: verb, Reason: reason})
	g.logger.Warn("Skipping verb", zap.String("verb", verb), zap.String("reason", reason))
}

func (g *Generator) addVerb(c *corpus.Corpus, tier int, entry verbs.Entry) (int, error) {
	tmpl := Template{Verb: entry.Verb, English: entry.English}
	n := 0
	var v *corpus.Verb
	for _, tense := range Tenses {
		var t *corpus.Tense
		for _, subject := range Subjects {
			form, ok := g.opts.Conjugator.Conjugate(entry.Verb, tense, subject)
			if !ok {
				g.logger.Debug("No conjugation",
					zap.String("verb", entry.Verb),
					zap.String("tense", tense),
					zap.String("subject", subject))
				continue
			}
			if v == nil {
				v = c.AddVerb(strings.ToUpper(entry.Verb))
			}
			if t == nil {
				t = v.AddTense(tense)
			}
			for i := 0; i < SentencesPerSubject; i++ {
				spanish, english := tmpl.Build(tense, subject, form, i)
				s := corpus.NewSentence(spanish, english, subject, "universal")
				if err := s.SetField("source", Source); err != nil {
					return n, err
				}
				s.Tags = []string{
					"region:universal",
					"subject:" + subject,
					"tense:" + tense,
					fmt.Sprintf("tier:%d", tier),
					"word-type:verb",
				}
				t.Append(s)
				n++
			}
		}
	}
	return n, nil
}

// Report returns the accumulated report
func (g *Generator) Report() *Report {
	return &g.report
}

// Summary returns the console summary
func (g *Generator) Summary() *report.Summary {
	return report.NewSummary("Generate corpus ("+report.Mode(g.opts.DryRun)+")").
		Add("Tiers", len(g.opts.Tiers)).
		Add("Verbs generated", g.report.Totals.Verbs).
		Add("Sentences generated", g.report.Totals.Sentences).
		Add("Verbs skipped", g.report.Totals.Skipped)
}
