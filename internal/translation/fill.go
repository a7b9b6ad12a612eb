package translation

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"codeberg.org/snonux/drillmaster/internal/corpus"
	"codeberg.org/snonux/drillmaster/internal/report"
)

// Filled records one sentence that received an English translation
type Filled struct {
	File    string `json:"file"`
	Verb    string `json:"verbKey"`
	Tense   string `json:"tenseKey"`
	Index   int    `json:"index"`
	Subject string `json:"subject"`
	Spanish string `json:"spanish"`
	English string `json:"english"`
	Cached  bool   `json:"cached"`
}

// FillError records a failed translation
type FillError struct {
	File    string `json:"file"`
	Verb    string `json:"verbKey"`
	Tense   string `json:"tenseKey"`
	Index   int    `json:"index"`
	Spanish string `json:"spanish"`
	Error   string `json:"error"`
}

// FillTotals are the fill-english counters
type FillTotals struct {
	Missing    int `json:"missing"`
	Translated int `json:"translated"`
	CacheHits  int `json:"cacheHits"`
	Errors     int `json:"errors"`
}

// FillReport is written to the --report path
type FillReport struct {
	StartedAt  string      `json:"startedAt"`
	DryRun     bool        `json:"dryRun"`
	Translator string      `json:"translator"`
	Files      []string    `json:"files"`
	Totals     FillTotals  `json:"totals"`
	Filled     []Filled    `json:"filled"`
	Errors     []FillError `json:"errors"`
}

// FillPass translates the Spanish of every sentence whose English is empty.
// Identical sentences are translated once.
type FillPass struct {
	translator Translator
	cache      *TranslationCache
	limit      int
	dryRun     bool
	logger     *zap.Logger
	report     FillReport
}

// NewFillPass creates the fill-english pass. A nil translator is only
// allowed in dry-run mode, where missing English is counted but not
// translated. A limit of 0 means no limit.
func NewFillPass(translator Translator, limit int, dryRun bool, logger *zap.Logger) *FillPass {
	if logger == nil {
		logger = zap.NewNop()
	}
	name := "none"
	if translator != nil {
		name = translator.Name()
	}
	return &FillPass{
		translator: translator,
		cache:      NewTranslationCache(),
		limit:      limit,
		dryRun:     dryRun,
		logger:     logger,
		report: FillReport{
			StartedAt:  report.Now(),
			DryRun:     dryRun,
			Translator: name,
			Filled:     []Filled{},
			Errors:     []FillError{},
		},
	}
}

// Name returns the pass name
func (p *FillPass) Name() string {
	return "fill-missing-english"
}

// Apply translates the sentences of one corpus file that lack English
func (p *FillPass) Apply(ctx context.Context, file string, c *corpus.Corpus) (bool, error) {
	rel := report.RelPath(file)
	p.report.Files = append(p.report.Files, rel)

	changed := false
	err := c.Walk(func(loc corpus.Location, s *corpus.Sentence) error {
		if strings.TrimSpace(s.Spanish) == "" || strings.TrimSpace(s.English) != "" {
			return nil
		}
		p.report.Totals.Missing++
		if p.limit > 0 && p.report.Totals.Translated >= p.limit {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		english, cached := p.cache.Get(s.Spanish, s.Subject)
		if !cached {
			if p.translator == nil {
				p.logger.Debug("would translate", zap.String("spanish", s.Spanish))
				return nil
			}
			var err error
			english, err = p.translator.Translate(ctx, s.Spanish, s.Subject)
			if err != nil {
				p.logger.Warn("translation failed", zap.String("spanish", s.Spanish), zap.Error(err))
				p.report.Totals.Errors++
				p.report.Errors = append(p.report.Errors, FillError{
					File:    rel,
					Verb:    loc.Verb,
					Tense:   loc.Tense,
					Index:   loc.Index,
					Spanish: s.Spanish,
					Error:   err.Error(),
				})
				return nil
			}
			p.cache.Add(s.Spanish, s.Subject, english)
		} else {
			p.report.Totals.CacheHits++
		}

		s.English = english
		changed = true
		p.report.Totals.Translated++
		p.report.Filled = append(p.report.Filled, Filled{
			File:    rel,
			Verb:    loc.Verb,
			Tense:   loc.Tense,
			Index:   loc.Index,
			Subject: s.Subject,
			Spanish: s.Spanish,
			English: english,
			Cached:  cached,
		})
		return nil
	})
	return changed, err
}

// Report returns the accumulated report
func (p *FillPass) Report() *FillReport {
	return &p.report
}

// Summary returns the console summary
func (p *FillPass) Summary() *report.Summary {
	t := p.report.Totals
	return report.NewSummary("Fill missing English ("+report.Mode(p.dryRun)+")").
		Add("Translator", p.report.Translator).
		Add("Files scanned", len(p.report.Files)).
		Add("Missing English", t.Missing).
		Add("Translated", t.Translated).
		Add("Cache hits", t.CacheHits).
		Add("Errors", t.Errors)
}
