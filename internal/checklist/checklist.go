// Package checklist gathers corpus statistics and runs the checks that
// should pass before decks are generated.
package checklist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"codeberg.org/snonux/drillmaster/internal/corpus"
	"codeberg.org/snonux/drillmaster/internal/report"
)

// Check names
const (
	CheckCorpusFiles    = "corpus_files"
	CheckSchema         = "schema"
	CheckSentenceCount  = "sentence_count"
	CheckAudioCoverage  = "audio_coverage"
	CheckRegional       = "regional_consistency"
	CheckReview         = "review"
	CheckDeckGeneration = "deck_generation"
)

// Options configure the checklist
type Options struct {
	CorpusDir    string
	AudioDir     string
	OutputDir    string
	FixesFiles   []string // reviewed fix lists; one of them must exist
	MinSentences int
}

// FileStats are the counts of one corpus file
type FileStats struct {
	File      string         `json:"file"`
	Tier      int            `json:"tier"`
	WithAudio bool           `json:"withAudio"`
	Verbs     int            `json:"verbs"`
	Sentences int            `json:"sentences"`
	ByTense   map[string]int `json:"byTense"`
	// with-audio files only
	AudioReferenced   int `json:"audioReferenced"`
	AudioMissing      int `json:"audioMissing"`
	MissingAudioFiles int `json:"missingAudioFiles"`
	// sentences for vos, vosotros or a region other than Mexico
	Foreign int `json:"foreign"`
}

// Totals sum the file stats. Verbs and Sentences count complete files only.
type Totals struct {
	Files             int `json:"files"`
	Verbs             int `json:"verbs"`
	Sentences         int `json:"sentences"`
	AudioReferenced   int `json:"audioReferenced"`
	AudioMissing      int `json:"audioMissing"`
	MissingAudioFiles int `json:"missingAudioFiles"`
	Foreign           int `json:"foreign"`
}

// Check is one checklist item
type Check struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// Report is written to the --report path
type Report struct {
	StartedAt    string      `json:"startedAt"`
	CorpusDir    string      `json:"corpusDir"`
	Files        []FileStats `json:"files"`
	Totals       Totals      `json:"totals"`
	Checks       []Check     `json:"checks"`
	AllSystemsGo bool        `json:"allSystemsGo"`
}

// Pass collects the statistics of every corpus file
type Pass struct {
	opts     Options
	validate *ValidatePass
	logger   *zap.Logger
	verbs    map[string]bool
	report   Report
}

// NewPass creates the checklist pass
func NewPass(opts Options, logger *zap.Logger) *Pass {
	if opts.MinSentences < 1 {
		opts.MinSentences = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pass{
		opts:     opts,
		validate: NewValidatePass(logger),
		logger:   logger,
		verbs:    make(map[string]bool),
		report: Report{
			StartedAt: report.Now(),
			CorpusDir: report.RelPath(opts.CorpusDir),
			Files:     []FileStats{},
			Checks:    []Check{},
		},
	}
}

// Name returns the pass name
func (p *Pass) Name() string {
	return "checklist"
}

// Apply records the statistics of c. It never modifies the corpus.
func (p *Pass) Apply(ctx context.Context, file string, c *corpus.Corpus) (bool, error) {
	if _, err := p.validate.Apply(ctx, file, c); err != nil {
		return false, err
	}

	tier, _ := corpus.TierOf(file)
	stats := FileStats{
		File:      report.RelPath(file),
		Tier:      tier,
		WithAudio: corpus.IsWithAudio(filepath.Base(file)),
		Verbs:     len(c.Verbs),
		ByTense:   make(map[string]int),
	}

	err := c.Walk(func(loc corpus.Location, s *corpus.Sentence) error {
		stats.Sentences++
		stats.ByTense[loc.Tense]++
		if foreign(s) {
			stats.Foreign++
		}
		if !stats.WithAudio || strings.TrimSpace(s.Spanish) == "" {
			return nil
		}
		if s.Audio == "" {
			stats.AudioMissing++
			return nil
		}
		stats.AudioReferenced++
		if p.opts.AudioDir != "" && !fileExists(filepath.Join(p.opts.AudioDir, s.Audio)) {
			stats.MissingAudioFiles++
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	t := &p.report.Totals
	t.Files++
	if !stats.WithAudio {
		for _, v := range c.Verbs {
			p.verbs[v.Name] = true
		}
		t.Verbs = len(p.verbs)
		t.Sentences += stats.Sentences
	}
	t.AudioReferenced += stats.AudioReferenced
	t.AudioMissing += stats.AudioMissing
	t.MissingAudioFiles += stats.MissingAudioFiles
	t.Foreign += stats.Foreign

	p.report.Files = append(p.report.Files, stats)
	return false, nil
}

func foreign(s *corpus.Sentence) bool {
	switch s.Subject {
	case "vos", "vosotros", "vosotras":
		return true
	}
	switch s.Region {
	case "", "universal", "mexico":
		return false
	}
	return true
}

// Evaluate runs the checks over the collected statistics
func (p *Pass) Evaluate() []Check {
	t := p.report.Totals

	present := make(map[int]bool)
	withAudio := 0
	for _, f := range p.report.Files {
		if f.WithAudio {
			withAudio++
		} else if f.Tier > 0 {
			present[f.Tier] = true
		}
	}

	checks := []Check{
		{
			Name:   CheckCorpusFiles,
			Passed: len(present) == 5,
			Detail: fmt.Sprintf("%d/5 tier corpus files", len(present)),
		},
		{
			Name:   CheckSchema,
			Passed: p.validate.Valid(),
			Detail: fmt.Sprintf("%d issues in %d files", p.validate.Report().Totals.Issues, p.validate.Report().Totals.InvalidFiles),
		},
		{
			Name:   CheckSentenceCount,
			Passed: t.Sentences >= p.opts.MinSentences,
			Detail: fmt.Sprintf("%d sentences, %d verbs (minimum %d)", t.Sentences, t.Verbs, p.opts.MinSentences),
		},
		{
			Name:   CheckAudioCoverage,
			Passed: withAudio > 0 && t.AudioMissing == 0 && t.MissingAudioFiles == 0,
			Detail: fmt.Sprintf("%d referenced, %d without audio, %d files missing", t.AudioReferenced, t.AudioMissing, t.MissingAudioFiles),
		},
		{
			Name:   CheckRegional,
			Passed: t.Foreign == 0,
			Detail: fmt.Sprintf("%d vos, vosotros or non-Mexican sentences", t.Foreign),
		},
		p.reviewCheck(),
		p.deckCheck(),
	}

	p.report.Checks = checks
	p.report.AllSystemsGo = true
	for _, c := range checks {
		if !c.Passed {
			p.report.AllSystemsGo = false
			p.logger.Debug("Check failed", zap.String("check", c.Name), zap.String("detail", c.Detail))
		}
	}
	return checks
}

func (p *Pass) reviewCheck() Check {
	for _, path := range p.opts.FixesFiles {
		if fileExists(path) {
			return Check{Name: CheckReview, Passed: true, Detail: report.RelPath(path)}
		}
	}
	return Check{Name: CheckReview, Detail: "no reviewed fix list found"}
}

func (p *Pass) deckCheck() Check {
	matches, _ := filepath.Glob(filepath.Join(p.opts.OutputDir, "*.apkg"))
	return Check{
		Name:   CheckDeckGeneration,
		Passed: len(matches) > 0,
		Detail: fmt.Sprintf("%d .apkg files in %s", len(matches), report.RelPath(p.opts.OutputDir)),
	}
}

// AllSystemsGo reports whether every check of the last Evaluate passed
func (p *Pass) AllSystemsGo() bool {
	return p.report.AllSystemsGo
}

// Report returns the accumulated report
func (p *Pass) Report() *Report {
	return &p.report
}

// Summary returns the checklist results
func (p *Pass) Summary() *report.Summary {
	s := report.NewSummary("Pre-generation checklist")
	for _, c := range p.report.Checks {
		status := "FAIL"
		if c.Passed {
			status = "PASS"
		}
		s.Add(c.Name, status+" "+c.Detail)
	}
	if p.report.AllSystemsGo {
		return s.Add("Status", "ALL SYSTEMS GO")
	}
	return s.Add("Status", "ISSUES DETECTED")
}

// StatsTable renders the per file sentence counts with one column per tense
func (p *Pass) StatsTable() string {
	tenseSet := make(map[string]bool)
	for _, f := range p.report.Files {
		for tense := range f.ByTense {
			tenseSet[tense] = true
		}
	}
	tenses := make([]string, 0, len(tenseSet))
	for tense := range tenseSet {
		tenses = append(tenses, tense)
	}
	sort.Strings(tenses)

	headers := append([]string{"File", "Verbs", "Sentences"}, tenses...)
	headers = append(headers, "Audio")

	rows := make([][]string, 0, len(p.report.Files))
	for _, f := range p.report.Files {
		row := []string{filepath.Base(f.File), strconv.Itoa(f.Verbs), strconv.Itoa(f.Sentences)}
		for _, tense := range tenses {
			row = append(row, strconv.Itoa(f.ByTense[tense]))
		}
		audio := "-"
		if f.WithAudio {
			audio = fmt.Sprintf("%d/%d", f.AudioReferenced, f.AudioReferenced+f.AudioMissing)
		}
		rows = append(rows, append(row, audio))
	}
	return report.Table(headers, rows)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
