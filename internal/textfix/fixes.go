package textfix

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"codeberg.org/snonux/drillmaster/internal/corpus"
	"codeberg.org/snonux/drillmaster/internal/report"
)

// Fix is one reviewed correction. A sentence matches when its Spanish equals
// CurrentSpanish and, if CurrentEnglish is set, its English equals it too.
type Fix struct {
	ID             int    `json:"id" yaml:"id"`
	Issue          string `json:"issue" yaml:"issue"`
	CurrentSpanish string `json:"currentSpanish" yaml:"currentSpanish"`
	CurrentEnglish string `json:"currentEnglish,omitempty" yaml:"currentEnglish,omitempty"`
	FixedSpanish   string `json:"fixedSpanish" yaml:"fixedSpanish"`
	FixedEnglish   string `json:"fixedEnglish" yaml:"fixedEnglish"`
}

// Matches reports whether s is the sentence the fix was written for
func (f Fix) Matches(s *corpus.Sentence) bool {
	if s.Spanish != f.CurrentSpanish {
		return false
	}
	return f.CurrentEnglish == "" || s.English == f.CurrentEnglish
}

// LoadFixes reads a fix list. Files ending in .yaml or .yml are decoded as
// YAML, everything else as JSON.
func LoadFixes(path string) ([]Fix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fix list: %w", err)
	}

	var fixes []Fix
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fixes)
	default:
		err = json.Unmarshal(data, &fixes)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse fix list %s: %w", path, err)
	}

	for i, f := range fixes {
		if f.CurrentSpanish == "" {
			return nil, fmt.Errorf("fix %d (id %d) has no currentSpanish", i, f.ID)
		}
		if f.FixedSpanish == "" && f.FixedEnglish == "" {
			return nil, fmt.Errorf("fix %d (id %d) changes nothing", i, f.ID)
		}
	}
	return fixes, nil
}

// SaveFixes writes a fix list as JSON or YAML depending on the extension
func SaveFixes(path string, fixes []Fix) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(fixes)
	default:
		data, err = json.MarshalIndent(fixes, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to encode fix list: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create fix list directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// AppliedFix records one applied correction
type AppliedFix struct {
	ID            int    `json:"id"`
	File          string `json:"file"`
	Verb          string `json:"verbKey"`
	Tense         string `json:"tenseKey"`
	Index         int    `json:"index"`
	Issue         string `json:"issue"`
	BeforeSpanish string `json:"beforeSpanish"`
	AfterSpanish  string `json:"afterSpanish"`
	BeforeEnglish string `json:"beforeEnglish"`
	AfterEnglish  string `json:"afterEnglish"`
}

// FixTotals are the apply-fixes counters
type FixTotals struct {
	Fixes        int `json:"fixes"`
	Applied      int `json:"applied"`
	NotFound     int `json:"notFound"`
	FilesTouched int `json:"filesTouched"`
}

// FixesReport is written to the --report path
type FixesReport struct {
	StartedAt string       `json:"startedAt"`
	DryRun    bool         `json:"dryRun"`
	FixesFile string       `json:"fixesFile"`
	Files     []string     `json:"files"`
	Totals    FixTotals    `json:"totals"`
	Applied   []AppliedFix `json:"applied"`
	NotFound  []Fix        `json:"notFound"`
}

// ApplyPass applies a reviewed fix list. Every matching sentence gets the
// fix, and its quality object records the review.
type ApplyPass struct {
	dryRun  bool
	fixes   []Fix
	matched map[int]bool
	today   string
	report  FixesReport
}

// NewApplyPass creates the fix list applier
func NewApplyPass(fixesFile string, fixes []Fix, dryRun bool) *ApplyPass {
	return &ApplyPass{
		dryRun:  dryRun,
		fixes:   fixes,
		matched: make(map[int]bool),
		today:   time.Now().UTC().Format("2006-01-02"),
		report: FixesReport{
			StartedAt: report.Now(),
			DryRun:    dryRun,
			FixesFile: report.RelPath(fixesFile),
			Totals:    FixTotals{Fixes: len(fixes)},
			Applied:   []AppliedFix{},
			NotFound:  []Fix{},
		},
	}
}

// Name returns the pass name
func (p *ApplyPass) Name() string {
	return "apply-fixes"
}

// Apply fixes one corpus file
func (p *ApplyPass) Apply(ctx context.Context, file string, c *corpus.Corpus) (bool, error) {
	rel := report.RelPath(file)
	p.report.Files = append(p.report.Files, rel)

	n := 0
	err := c.Walk(func(loc corpus.Location, s *corpus.Sentence) error {
		for i, f := range p.fixes {
			if !f.Matches(s) {
				continue
			}
			applied := AppliedFix{
				ID:            f.ID,
				File:          rel,
				Verb:          loc.Verb,
				Tense:         loc.Tense,
				Index:         loc.Index,
				Issue:         f.Issue,
				BeforeSpanish: s.Spanish,
				BeforeEnglish: s.English,
			}
			if f.FixedSpanish != "" {
				s.Spanish = f.FixedSpanish
			}
			if f.FixedEnglish != "" {
				s.English = f.FixedEnglish
			}
			if err := p.markReviewed(s, f.Issue); err != nil {
				return err
			}
			applied.AfterSpanish = s.Spanish
			applied.AfterEnglish = s.English
			p.report.Applied = append(p.report.Applied, applied)
			p.matched[i] = true
			n++
			break
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	if n > 0 {
		p.report.Totals.FilesTouched++
	}
	p.report.Totals.Applied = len(p.report.Applied)
	p.refreshNotFound()
	return n > 0, nil
}

func (p *ApplyPass) markReviewed(s *corpus.Sentence, issue string) error {
	quality := corpus.NewObject()
	if raw, ok := s.Field("quality"); ok {
		// A non-object quality value is replaced
		_ = quality.UnmarshalJSON(raw)
	}
	fields := []struct {
		key   string
		value any
	}{
		{"reviewed", true},
		{"fixed", true},
		{"fixDate", p.today},
		{"fixIssue", issue},
	}
	for _, f := range fields {
		if err := quality.Set(f.key, f.value); err != nil {
			return err
		}
	}
	return s.SetField("quality", quality)
}

func (p *ApplyPass) refreshNotFound() {
	p.report.NotFound = p.report.NotFound[:0]
	for i, f := range p.fixes {
		if !p.matched[i] {
			p.report.NotFound = append(p.report.NotFound, f)
		}
	}
	p.report.Totals.NotFound = len(p.report.NotFound)
}

// Report returns the accumulated report
func (p *ApplyPass) Report() *FixesReport {
	return &p.report
}

// Summary returns the console summary
func (p *ApplyPass) Summary() *report.Summary {
	return report.NewSummary("Apply reviewed fixes ("+report.Mode(p.dryRun)+")").
		Add("Fixes in list", p.report.Totals.Fixes).
		Add("Applied", p.report.Totals.Applied).
		Add("Not found", p.report.Totals.NotFound).
		Add("Files touched", p.report.Totals.FilesTouched)
}
