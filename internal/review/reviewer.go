package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"codeberg.org/snonux/drillmaster/internal/report"
	"codeberg.org/snonux/drillmaster/internal/textfix"
)

// Completer sends a prompt to a chat model and returns its text answer
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Finding is one problem reported by the model
type Finding struct {
	ID           int    `json:"id"`
	Issue        string `json:"issue"`
	FixedSpanish string `json:"fixedSpanish,omitempty"`
	FixedEnglish string `json:"fixedEnglish,omitempty"`
}

const responseSchema = `{
  "type": "object",
  "required": ["fixes"],
  "properties": {
    "fixes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "issue"],
        "properties": {
          "id": {"type": "integer", "minimum": 1},
          "issue": {"type": "string", "minLength": 1},
          "fixedSpanish": {"type": "string"},
          "fixedEnglish": {"type": "string"}
        }
      }
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

// ErrInvalidResponse is returned when the model answer is not a fix list
var ErrInvalidResponse = errors.New("invalid review response")

// ParseResponse extracts the findings from a model answer. Markdown code
// fences and text around the JSON object are ignored.
func ParseResponse(answer string) ([]Finding, error) {
	start := strings.Index(answer, "{")
	end := strings.LastIndex(answer, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no JSON object found", ErrInvalidResponse)
	}
	data := []byte(answer[start : end+1])

	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(responseSchema))
	})
	if schemaErr != nil {
		return nil, fmt.Errorf("failed to compile response schema: %w", schemaErr)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, strings.Join(msgs, "; "))
	}

	var resp struct {
		Fixes []Finding `json:"fixes"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return resp.Fixes, nil
}

// ReviewPrompt renders the prompt of one chunk for the automated review
func ReviewPrompt(chunk []Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You review %d sentences of a Spanish verb drill corpus for learners.\n\n", len(chunk))
	b.WriteString(reviewCriteria)
	b.WriteString(`
Answer with a single JSON object and nothing else:
{"fixes": [{"id": <ID>, "issue": "<brief description>", "fixedSpanish": "<corrected Spanish>", "fixedEnglish": "<corrected English>"}]}

List only sentences that need a change. Leave fixedSpanish or fixedEnglish
out when that side is correct. Keep the verb and the tense of the sentence.
Answer {"fixes": []} when every sentence is good.

SENTENCES:

`)
	writeSentences(&b, chunk)
	return b.String()
}

// ChunkError records a chunk the model could not review
type ChunkError struct {
	Chunk int    `json:"chunk"`
	Error string `json:"error"`
}

// ReviewTotals are the review counters
type ReviewTotals struct {
	Sentences int `json:"sentences"`
	Chunks    int `json:"chunks"`
	Failed    int `json:"failedChunks"`
	Findings  int `json:"findings"`
	Fixes     int `json:"fixes"`
	Ignored   int `json:"ignored"`
}

// ReviewReport is written to the --report path
type ReviewReport struct {
	StartedAt string        `json:"startedAt"`
	Model     string        `json:"model"`
	FixesFile string        `json:"fixesFile,omitempty"`
	Totals    ReviewTotals  `json:"totals"`
	Errors    []ChunkError  `json:"errors"`
	Fixes     []textfix.Fix `json:"fixes"`
}

// Reviewer sends chunks of sentences to a Completer and turns the answers
// into a fix list
type Reviewer struct {
	completer Completer
	chunkSize int
	logger    *zap.Logger
	report    ReviewReport
}

// NewReviewer creates a reviewer. A chunkSize below one uses ChunkSize.
func NewReviewer(completer Completer, chunkSize int, logger *zap.Logger) *Reviewer {
	if chunkSize < 1 {
		chunkSize = ChunkSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reviewer{
		completer: completer,
		chunkSize: chunkSize,
		logger:    logger,
		report: ReviewReport{
			StartedAt: report.Now(),
			Model:     completer.Name(),
			Errors:    []ChunkError{},
			Fixes:     []textfix.Fix{},
		},
	}
}

// Review reviews items chunk by chunk. Failed chunks are recorded and
// skipped; only a cancelled context aborts the review.
func (r *Reviewer) Review(ctx context.Context, items []Item) ([]textfix.Fix, error) {
	chunks := Chunks(items, r.chunkSize)
	r.report.Totals.Sentences = len(items)
	r.report.Totals.Chunks = len(chunks)

	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return r.report.Fixes, err
		}

		r.logger.Info("Reviewing chunk",
			zap.Int("chunk", i+1),
			zap.Int("of", len(chunks)),
			zap.String("model", r.completer.Name()))

		answer, err := r.completer.Complete(ctx, ReviewPrompt(chunk))
		if err == nil {
			var findings []Finding
			findings, err = ParseResponse(answer)
			if err == nil {
				r.addFindings(chunk, findings)
				continue
			}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return r.report.Fixes, ctxErr
		}
		r.logger.Warn("Chunk review failed", zap.Int("chunk", i+1), zap.Error(err))
		r.report.Totals.Failed++
		r.report.Errors = append(r.report.Errors, ChunkError{Chunk: i + 1, Error: err.Error()})
	}
	return r.report.Fixes, nil
}

func (r *Reviewer) addFindings(chunk []Item, findings []Finding) {
	byID := make(map[int]Item, len(chunk))
	for _, it := range chunk {
		byID[it.ID] = it
	}

	for _, f := range findings {
		r.report.Totals.Findings++
		it, ok := byID[f.ID]
		if !ok {
			r.logger.Debug("Finding for unknown sentence", zap.Int("id", f.ID))
			r.report.Totals.Ignored++
			continue
		}

		fix := textfix.Fix{
			ID:             it.ID,
			Issue:          f.Issue,
			CurrentSpanish: it.Spanish,
			CurrentEnglish: it.English,
			FixedSpanish:   strings.TrimSpace(f.FixedSpanish),
			FixedEnglish:   strings.TrimSpace(f.FixedEnglish),
		}
		if fix.FixedSpanish == "" {
			fix.FixedSpanish = it.Spanish
		}
		if fix.FixedEnglish == "" {
			fix.FixedEnglish = it.English
		}
		if fix.FixedSpanish == it.Spanish && fix.FixedEnglish == it.English {
			r.report.Totals.Ignored++
			continue
		}
		r.report.Fixes = append(r.report.Fixes, fix)
		r.report.Totals.Fixes++
	}
}

// Save writes the fix list for apply-fixes
func (r *Reviewer) Save(path string) error {
	if err := textfix.SaveFixes(path, r.report.Fixes); err != nil {
		return err
	}
	r.report.FixesFile = report.RelPath(path)
	return nil
}

// Report returns the accumulated report
func (r *Reviewer) Report() *ReviewReport {
	return &r.report
}

// Summary returns the console summary
func (r *Reviewer) Summary() *report.Summary {
	t := r.report.Totals
	s := report.NewSummary("Automated review").
		Add("Model", r.report.Model).
		Add("Sentences", t.Sentences).
		Add("Chunks", t.Chunks).
		Add("Failed chunks", t.Failed).
		Add("Fixes", t.Fixes).
		Add("Ignored findings", t.Ignored)
	if r.report.FixesFile != "" {
		s.Add("Fix list", r.report.FixesFile)
	}
	return s
}
