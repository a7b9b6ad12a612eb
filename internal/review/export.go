package review

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/drillmaster/internal/corpus"
	"codeberg.org/snonux/drillmaster/internal/report"
)

// ChunkSize is the number of sentences per review prompt
const ChunkSize = 50

// Export file names
const (
	TextFile   = "review-export.txt"
	CSVFile    = "review-export.csv"
	promptFile = "review-prompt-chunk-%d.txt"
)

// Item is one numbered sentence of the review export
type Item struct {
	ID      int    `json:"id"`
	Tier    int    `json:"tier"`
	Verb    string `json:"verb"`
	Tense   string `json:"tense"`
	Subject string `json:"subject"`
	Spanish string `json:"spanish"`
	English string `json:"english"`
	Source  string `json:"source"`
}

// ExportTotals are the export counters
type ExportTotals struct {
	Sentences int `json:"sentences"`
	Chunks    int `json:"chunks"`
}

// ExportReport is written to the --report path
type ExportReport struct {
	StartedAt string       `json:"startedAt"`
	DryRun    bool         `json:"dryRun"`
	Files     []string     `json:"files"`
	Outputs   []string     `json:"outputs"`
	Totals    ExportTotals `json:"totals"`
}

// ExportPass collects the sentences of every corpus file in file, verb,
// tense and array order
type ExportPass struct {
	dryRun    bool
	chunkSize int
	logger    *zap.Logger
	items     []Item
	report    ExportReport
}

// NewExportPass creates the export pass. A chunkSize below one uses ChunkSize.
func NewExportPass(chunkSize int, dryRun bool, logger *zap.Logger) *ExportPass {
	if chunkSize < 1 {
		chunkSize = ChunkSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportPass{
		dryRun:    dryRun,
		chunkSize: chunkSize,
		logger:    logger,
		report: ExportReport{
			StartedAt: report.Now(),
			DryRun:    dryRun,
			Files:     []string{},
			Outputs:   []string{},
		},
	}
}

// Name returns the pass name
func (p *ExportPass) Name() string {
	return "export-review"
}

// Apply collects the sentences of c. It never modifies the corpus.
func (p *ExportPass) Apply(ctx context.Context, file string, c *corpus.Corpus) (bool, error) {
	tier, _ := corpus.TierOf(file)
	p.report.Files = append(p.report.Files, report.RelPath(file))

	err := c.Walk(func(loc corpus.Location, s *corpus.Sentence) error {
		source := s.SourceType()
		if source == "" {
			source = "unknown"
		}
		p.items = append(p.items, Item{
			ID:      len(p.items) + 1,
			Tier:    tier,
			Verb:    loc.Verb,
			Tense:   loc.Tense,
			Subject: s.Subject,
			Spanish: s.Spanish,
			English: s.English,
			Source:  source,
		})
		return nil
	})
	p.report.Totals.Sentences = len(p.items)
	return false, err
}

// Items returns the collected sentences
func (p *ExportPass) Items() []Item {
	return p.items
}

// Write writes the text export, the CSV export and one prompt file per
// chunk to dir. Nothing is written in dry-run mode.
func (p *ExportPass) Write(dir string) error {
	chunks := Chunks(p.items, p.chunkSize)
	p.report.Totals.Chunks = len(chunks)
	if p.dryRun {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	now := time.Now()
	if err := p.writeFile(filepath.Join(dir, TextFile), func(w io.Writer) error {
		_, err := io.WriteString(w, FormatText(p.items, now))
		return err
	}); err != nil {
		return err
	}
	if err := p.writeFile(filepath.Join(dir, CSVFile), func(w io.Writer) error {
		return WriteCSV(w, p.items)
	}); err != nil {
		return err
	}
	for i, chunk := range chunks {
		path := filepath.Join(dir, fmt.Sprintf(promptFile, i+1))
		prompt := ManualPrompt(chunk, i+1, len(chunks))
		if err := p.writeFile(path, func(w io.Writer) error {
			_, err := io.WriteString(w, prompt)
			return err
		}); err != nil {
			return err
		}
	}
	return nil
}

func (p *ExportPass) writeFile(path string, fn func(w io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := fn(file); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return err
	}
	p.report.Outputs = append(p.report.Outputs, report.RelPath(path))
	p.logger.Debug("Wrote review export", zap.String("file", path))
	return nil
}

// Report returns the accumulated report
func (p *ExportPass) Report() *ExportReport {
	return &p.report
}

// Summary returns the console summary
func (p *ExportPass) Summary() *report.Summary {
	return report.NewSummary("Export for review ("+report.Mode(p.dryRun)+")").
		Add("Files", len(p.report.Files)).
		Add("Sentences", p.report.Totals.Sentences).
		Add("Prompt chunks", p.report.Totals.Chunks).
		Add("Outputs", len(p.report.Outputs))
}

// Chunks splits items into slices of at most size elements
func Chunks(items []Item, size int) [][]Item {
	if size < 1 {
		size = ChunkSize
	}
	var chunks [][]Item
	for i := 0; i < len(items); i += size {
		end := min(i+size, len(items))
		chunks = append(chunks, items[i:end])
	}
	return chunks
}

// FormatText renders the numbered plain text export
func FormatText(items []Item, date time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "DRILLMASTER CORPUS - ALL SENTENCES FOR REVIEW\n")
	fmt.Fprintf(&b, "Total: %d sentences\n", len(items))
	fmt.Fprintf(&b, "Generated: %s\n\n", date.UTC().Format("2006-01-02"))
	b.WriteString(reviewCriteria)
	b.WriteString("\nFormat: [ID] Spanish → English (Tier X, Verb, Tense, Subject)\n\n")
	b.WriteString("SENTENCES:\n==========\n\n")
	for _, it := range items {
		fmt.Fprintf(&b, "[%d] %s → %s\n", it.ID, it.Spanish, it.English)
		fmt.Fprintf(&b, "    (Tier %d, %s, %s, %s)\n\n", it.Tier, it.Verb, it.Tense, it.Subject)
	}
	return b.String()
}

// WriteCSV writes items as ID, Tier, Verb, Tense, Subject, Spanish,
// English, Source rows
func WriteCSV(w io.Writer, items []Item) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"ID", "Tier", "Verb", "Tense", "Subject", "Spanish", "English", "Source"}); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for _, it := range items {
		record := []string{
			strconv.Itoa(it.ID),
			strconv.Itoa(it.Tier),
			it.Verb,
			it.Tense,
			it.Subject,
			it.Spanish,
			it.English,
			it.Source,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write sentence %d: %w", it.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

const reviewCriteria = `Please review these Spanish sentences and their English translations for:
1. Spanish grammar correctness
2. Natural Mexican Spanish usage (no Spain or Argentina forms)
3. Accurate English translations
4. Appropriate difficulty for language learners
5. Awkward or unnatural constructions
`

// ManualPrompt renders the prompt of one chunk for review in a chat window
func ManualPrompt(chunk []Item, index, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SPANISH CORPUS REVIEW - CHUNK %d/%d\n\n", index, total)
	b.WriteString(reviewCriteria)
	b.WriteString(`
For each problematic sentence respond with:
[ID] ISSUE: Brief description
SPANISH: Current Spanish sentence
ENGLISH: Current English translation
SUGGESTED: Your improved version

If a sentence is good just write: [ID] Good

SENTENCES TO REVIEW:
====================

`)
	writeSentences(&b, chunk)
	return b.String()
}

func writeSentences(b *strings.Builder, chunk []Item) {
	for _, it := range chunk {
		fmt.Fprintf(b, "[%d] %s\n", it.ID, it.Spanish)
		fmt.Fprintf(b, "English: %s\n", it.English)
		fmt.Fprintf(b, "Context: Tier %d, %s (%s), subject %s\n\n", it.Tier, it.Verb, it.Tense, it.Subject)
	}
}
