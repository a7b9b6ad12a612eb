package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/drillmaster/internal/audit"
	"codeberg.org/snonux/drillmaster/internal/corpus"
	"codeberg.org/snonux/drillmaster/internal/report"
	"codeberg.org/snonux/drillmaster/internal/subjects"
)

// DefaultDelay is the pause between two TTS requests
const DefaultDelay = 100 * time.Millisecond

// ErrRegenNotFound is returned when --regen-file matched no sentence
var ErrRegenNotFound = errors.New("could not find any sentence matching --regen-file")

// GenerateOptions configure a generate-audio run
type GenerateOptions struct {
	AudioDir     string // empty means <corpus dir>/../audio
	Output       string // corpus output path, empty means the with-audio sibling
	Limit        int    // 0 means no limit
	SkipExisting bool   // leave sentences that already have an audio field out
	FixPronouns  bool
	RegenFile    string
	TTSText      string // only with RegenFile
	Delay        time.Duration
	DryRun       bool
}

// Validate checks flag combinations
func (o GenerateOptions) Validate() error {
	if o.TTSText != "" && o.RegenFile == "" {
		return fmt.Errorf("--tts-text is only supported when used with --regen-file")
	}
	if o.Limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}
	return nil
}

// GenerateTotals are the run counters
type GenerateTotals struct {
	Found     int `json:"found"`
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
	Deleted   int `json:"deleted"`
}

// GenerateError records a failed TTS call
type GenerateError struct {
	File    string `json:"file"`
	Audio   string `json:"audio"`
	Spanish string `json:"spanish"`
	Error   string `json:"error"`
}

// GenerateReport is written to the --report path
type GenerateReport struct {
	StartedAt string          `json:"startedAt"`
	DryRun    bool            `json:"dryRun"`
	Provider  string          `json:"provider"`
	Files     []string        `json:"files"`
	Outputs   []string        `json:"outputs"`
	Totals    GenerateTotals  `json:"totals"`
	Errors    []GenerateError `json:"errors"`
}

// item is one sentence queued for audio
type item struct {
	verb    string
	tense   string
	ordinal int
	s       *corpus.Sentence
}

// GeneratePass creates one MP3 per sentence and records the file name in
// the sentence's audio field. The corpus is written to the with-audio path.
type GeneratePass struct {
	provider Provider
	opts     GenerateOptions
	logger   *zap.Logger

	regenMatches int
	report       GenerateReport
}

// NewGeneratePass creates a generate-audio pass
func NewGeneratePass(provider Provider, opts GenerateOptions, logger *zap.Logger) (*GeneratePass, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if provider == nil && !opts.DryRun {
		return nil, fmt.Errorf("a TTS provider is required unless --dry-run is set")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	name := "none"
	if provider != nil {
		name = provider.Name()
	}
	return &GeneratePass{
		provider: provider,
		opts:     opts,
		logger:   logger,
		report: GenerateReport{
			StartedAt: report.Now(),
			DryRun:    opts.DryRun,
			Provider:  name,
			Outputs:   []string{},
			Errors:    []GenerateError{},
		},
	}, nil
}

// Name returns the pass name
func (p *GeneratePass) Name() string {
	return "generate-audio-from-corpus"
}

// OutputPath returns where the updated corpus goes
func (p *GeneratePass) OutputPath(file string) string {
	if p.opts.Output != "" {
		return p.opts.Output
	}
	return corpus.WithAudioPath(file)
}

// AudioDir returns the audio directory used for file
func (p *GeneratePass) AudioDir(file string) string {
	if p.opts.AudioDir != "" {
		return p.opts.AudioDir
	}
	return filepath.Join(filepath.Dir(file), "..", "audio")
}

// Filename builds the audio file name for the ordinal-th sentence of a tense
func Filename(tierPrefix, verb, tense string, ordinal int) string {
	return fmt.Sprintf("%s_%s_%s_%04d.mp3", tierPrefix, verb, tense, ordinal)
}

// TierPrefix returns the tierN prefix of a corpus file name, falling back to
// the part of the base name before the first dash
func TierPrefix(file string) string {
	if _, ok := corpus.TierOf(file); ok {
		return corpus.TierPrefix(file)
	}
	base := strings.TrimSuffix(filepath.Base(file), ".json")
	return strings.SplitN(base, "-", 2)[0]
}

// Apply generates audio for one corpus file
func (p *GeneratePass) Apply(ctx context.Context, file string, c *corpus.Corpus) (bool, error) {
	rel := report.RelPath(file)
	p.report.Files = append(p.report.Files, rel)
	prefix := TierPrefix(file)
	audioDir := p.AudioDir(file)

	items := p.collect(c)
	p.report.Totals.Found += len(items)

	if p.opts.RegenFile != "" {
		var matched []item
		for _, it := range items {
			if it.s.Audio == p.opts.RegenFile || Filename(prefix, it.verb, it.tense, it.ordinal) == p.opts.RegenFile {
				matched = append(matched, it)
			}
		}
		p.regenMatches += len(matched)
		if p.regenMatches > 1 {
			return false, fmt.Errorf("found multiple sentences matching --regen-file %s, aborting to avoid overwriting the wrong file", p.opts.RegenFile)
		}
		if len(matched) == 0 {
			return false, nil
		}
		items = matched
	}

	if !p.opts.DryRun {
		if err := os.MkdirAll(audioDir, 0755); err != nil {
			return false, fmt.Errorf("failed to create audio directory: %w", err)
		}
	}

	for _, it := range items {
		if p.opts.Limit > 0 && p.report.Totals.Processed+p.report.Totals.Skipped+p.report.Totals.Errors >= p.opts.Limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return false, err
		}
		p.generate(ctx, rel, prefix, audioDir, it)
	}

	if !p.opts.DryRun {
		p.report.Outputs = append(p.report.Outputs, report.RelPath(p.OutputPath(file)))
	}
	return true, nil
}

// collect lists the sentences with Spanish text, numbering them per tense.
// With SkipExisting, sentences that already carry audio are not numbered.
func (p *GeneratePass) collect(c *corpus.Corpus) []item {
	var items []item
	for _, verb := range c.Verbs {
		for _, tense := range verb.Tenses {
			ordinal := 0
			for _, s := range tense.Sentences() {
				if !s.HasField("spanish") {
					continue
				}
				if p.opts.SkipExisting && s.Audio != "" {
					continue
				}
				ordinal++
				items = append(items, item{verb: verb.Name, tense: tense.Name, ordinal: ordinal, s: s})
			}
		}
	}
	return items
}

func (p *GeneratePass) generate(ctx context.Context, rel, prefix, audioDir string, it item) {
	name := Filename(prefix, it.verb, it.tense, it.ordinal)
	path := filepath.Join(audioDir, name)

	text := it.s.Spanish
	if p.opts.FixPronouns && !it.s.Flag(audit.SkipPronounField) {
		text = subjects.PrependPronoun(it.s.Spanish, it.s.Subject, it.verb)
	}
	if p.opts.TTSText != "" {
		text = p.opts.TTSText
	}

	log := p.logger.With(zap.String("verb", it.verb), zap.String("tense", it.tense), zap.String("audio", name))

	switch {
	case p.opts.RegenFile != "":
		p.remove(path, log)

	case p.opts.FixPronouns:
		if it.s.Flag(audit.SkipPronounField) || !subjects.NeedsPronounFix(it.s.Spanish, it.s.Subject, it.verb) {
			log.Debug("no pronoun fix needed")
			it.s.Audio = name
			p.report.Totals.Skipped++
			return
		}
		p.remove(path, log)

	default:
		if !p.opts.DryRun && exists(path) {
			log.Debug("audio file already exists")
			it.s.Audio = name
			p.report.Totals.Skipped++
			return
		}
	}

	if p.opts.DryRun {
		log.Debug("would generate audio", zap.String("text", text))
		p.report.Totals.Processed++
		return
	}

	if err := p.provider.GenerateAudio(ctx, text, path); err != nil {
		log.Error("audio generation failed", zap.Error(err))
		p.report.Totals.Errors++
		p.report.Errors = append(p.report.Errors, GenerateError{
			File:    rel,
			Audio:   name,
			Spanish: text,
			Error:   err.Error(),
		})
		return
	}
	it.s.Audio = name
	p.report.Totals.Processed++
	log.Info("audio generated")

	if p.opts.Delay > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(p.opts.Delay):
		}
	}
}

// remove deletes an audio file that is about to be regenerated
func (p *GeneratePass) remove(path string, log *zap.Logger) {
	if p.opts.DryRun || !exists(path) {
		return
	}
	if err := os.Remove(path); err != nil {
		log.Warn("failed to delete old audio file", zap.Error(err))
		return
	}
	p.report.Totals.Deleted++
	log.Debug("deleted old audio file")
}

// CheckRegen fails when --regen-file was given and never matched
func (p *GeneratePass) CheckRegen() error {
	if p.opts.RegenFile != "" && p.regenMatches == 0 {
		return fmt.Errorf("%w %s", ErrRegenNotFound, p.opts.RegenFile)
	}
	return nil
}

// Report returns the accumulated report
func (p *GeneratePass) Report() *GenerateReport {
	return &p.report
}

// Summary returns the console summary
func (p *GeneratePass) Summary() *report.Summary {
	t := p.report.Totals
	s := report.NewSummary("Generate audio ("+report.Mode(p.opts.DryRun)+")").
		Add("Provider", p.report.Provider).
		Add("Total sentences found", t.Found).
		Add("Sentences processed", t.Processed).
		Add("Sentences skipped", t.Skipped)
	if t.Deleted > 0 {
		s.Add("Old files deleted", t.Deleted)
	}
	return s.Add("Errors", t.Errors)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
