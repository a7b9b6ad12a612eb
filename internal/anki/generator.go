// Package anki builds the DrillMaster flashcard decks from the corpus and
// writes them as Anki packages (.apkg) and CSV imports.
package anki

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"codeberg.org/snonux/drillmaster/internal/corpus"
	"codeberg.org/snonux/drillmaster/internal/generator"
	"codeberg.org/snonux/drillmaster/internal/report"
	"codeberg.org/snonux/drillmaster/internal/verbs"
)

// GeneratorOptions configures the deck export
type GeneratorOptions struct {
	CorpusDir  string
	AudioDir   string // empty means <corpus dir>/../audio
	OutputDir  string
	Region     string
	Tiers      string // --tier argument
	Verbs      *verbs.List
	Conjugator generator.Conjugator
	CSV        bool // also write a CSV import next to each package
	DryRun     bool
}

// DefaultGeneratorOptions returns sensible defaults
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		CorpusDir: "data/corpus",
		OutputDir: report.DefaultDir,
		Region:    "mexico",
	}
}

// DeckStats describes one written package
type DeckStats struct {
	Tier  int    `json:"tier"` // 0 for the complete collection
	Name  string `json:"name"`
	File  string `json:"file"`
	Decks int    `json:"decks"`
	Cards int    `json:"cards"`
	Media int    `json:"media"`
}

// Totals are the export counters
type Totals struct {
	Cards       int `json:"cards"`
	Recognition int `json:"recognition"`
	Production  int `json:"production"`
	WithAudio   int `json:"withAudio"`
	Highlighted int `json:"highlighted"`
	Packages    int `json:"packages"`
}

// Report is written to the --report path
type Report struct {
	StartedAt string      `json:"startedAt"`
	DryRun    bool        `json:"dryRun"`
	Region    string      `json:"region"`
	Corpora   []string    `json:"corpora"`
	Packages  []DeckStats `json:"packages"`
	Totals    Totals      `json:"totals"`
}

// Generator creates the deck packages
type Generator struct {
	options   *GeneratorOptions
	region    Region
	selection Selection
	builder   *CardBuilder
	logger    *zap.Logger
	report    Report
	cards     map[int][]Card
}

// NewGenerator validates the options and creates a deck generator
func NewGenerator(options *GeneratorOptions, logger *zap.Logger) (*Generator, error) {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if options.Region == "" {
		options.Region = "mexico"
	}
	region, err := LookupRegion(options.Region)
	if err != nil {
		return nil, err
	}
	sel, err := ParseTierArg(options.Tiers)
	if err != nil {
		return nil, err
	}
	audioDir := options.AudioDir
	if audioDir == "" {
		audioDir = filepath.Join(options.CorpusDir, "..", "audio")
	}

	return &Generator{
		options:   options,
		region:    region,
		selection: sel,
		builder:   NewCardBuilder(options.Conjugator, region, audioDir, logger),
		logger:    logger,
		cards:     make(map[int][]Card),
		report: Report{
			StartedAt: report.Now(),
			DryRun:    options.DryRun,
			Region:    options.Region,
			Corpora:   []string{},
			Packages:  []DeckStats{},
		},
	}, nil
}

// CorpusPath returns the corpus file used for a tier: the with-audio
// variant when present, the complete file otherwise
func (g *Generator) CorpusPath(tier int) string {
	withAudio := filepath.Join(g.options.CorpusDir, corpus.FileName(tier, true))
	if fileExists(withAudio) {
		return withAudio
	}
	return filepath.Join(g.options.CorpusDir, corpus.FileName(tier, false))
}

// TierCards loads the corpus of a tier and builds its cards. A missing
// corpus file yields no cards.
func (g *Generator) TierCards(tier int) ([]Card, error) {
	if cards, ok := g.cards[tier]; ok {
		return cards, nil
	}
	path := g.CorpusPath(tier)
	if !fileExists(path) {
		g.logger.Warn("No corpus file for tier", zap.Int("tier", tier), zap.String("file", path))
		g.cards[tier] = nil
		return nil, nil
	}
	c, err := corpus.Load(path)
	if err != nil {
		return nil, err
	}
	g.report.Corpora = append(g.report.Corpora, report.RelPath(path))

	cards := g.builder.TierCards(tier, c, g.options.Verbs)
	g.cards[tier] = cards
	return cards, nil
}

// Run writes one package per selected tier and the complete collection
// when requested
func (g *Generator) Run(ctx context.Context) error {
	for _, tier := range g.selection.Tiers {
		if err := ctx.Err(); err != nil {
			return err
		}
		cards, err := g.TierCards(tier)
		if err != nil {
			return err
		}
		if len(cards) == 0 {
			g.logger.Warn("Skipping empty tier", zap.Int("tier", tier))
			continue
		}
		decks := TierDecks(tier, cards, "")
		name := fmt.Sprintf("Tier %d: %s", tier, Tiers[tier].Name)
		if err := g.write(tier, name, DeckFileName(tier, g.region), decks); err != nil {
			return err
		}
	}

	if !g.selection.Uber {
		return nil
	}

	var all []Card
	for tier := MinTier; tier <= MaxTier; tier++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		cards, err := g.TierCards(tier)
		if err != nil {
			return err
		}
		all = append(all, cards...)
	}
	if len(all) == 0 {
		g.logger.Warn("No cards for the complete collection")
		return nil
	}
	return g.write(0, UberName, UberFileName(g.region), UberDecks(all))
}

func (g *Generator) write(tier int, name, file string, decks []Deck) error {
	path := filepath.Join(g.options.OutputDir, file)
	stats := DeckStats{
		Tier:  tier,
		Name:  name,
		File:  report.RelPath(path),
		Decks: len(decks),
		Cards: CardCount(decks),
	}
	g.count(decks)

	if !g.options.DryRun {
		apkg := NewAPKGGenerator(decks, fmt.Sprintf("DrillMaster Spanish verb drills (%s)", g.region.Name))
		if err := apkg.GenerateAPKG(path); err != nil {
			return fmt.Errorf("failed to write %s: %w", file, err)
		}
		stats.Media = apkg.MediaCount()
		g.logger.Info("Saved deck", zap.String("file", path), zap.Int("cards", stats.Cards))

		if g.options.CSV {
			csvPath := strings.TrimSuffix(path, ".apkg") + ".csv"
			if err := GenerateCSV(csvPath, decks); err != nil {
				return err
			}
		}
	}

	g.report.Packages = append(g.report.Packages, stats)
	g.report.Totals.Packages++
	return nil
}

func (g *Generator) count(decks []Deck) {
	for _, d := range decks {
		for _, c := range d.Cards {
			g.report.Totals.Cards++
			if c.Direction == Recognition {
				g.report.Totals.Recognition++
			} else {
				g.report.Totals.Production++
			}
			if c.AudioFile != "" {
				g.report.Totals.WithAudio++
			}
			if c.Highlighted {
				g.report.Totals.Highlighted++
			}
		}
	}
}

// GenerateCSV writes the cards of decks as a Front, Back, Deck, Tags CSV
// that Anki can import
func GenerateCSV(path string, decks []Deck) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"Front", "Back", "Deck", "Tags"}); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for _, d := range decks {
		for _, c := range d.Cards {
			record := []string{c.Front, c.Back, d.Name, strings.Join(c.Tags, " ")}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("failed to write card: %w", err)
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// Report returns the accumulated report
func (g *Generator) Report() *Report {
	return &g.report
}

// Summary returns the console summary
func (g *Generator) Summary() *report.Summary {
	t := g.report.Totals
	s := report.NewSummary("Generate Anki decks ("+report.Mode(g.options.DryRun)+")").
		Add("Region", g.region.Name)
	for _, p := range g.report.Packages {
		s.Add(p.File, fmt.Sprintf("%d cards", p.Cards))
	}
	return s.Add("Cards", t.Cards).
		Add("With audio", t.WithAudio).
		Add("Highlighted", t.Highlighted).
		Add("Packages", t.Packages)
}
