package checklist

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"codeberg.org/snonux/drillmaster/internal/corpus"
	"codeberg.org/snonux/drillmaster/internal/report"
)

// FileIssues lists the schema violations of one corpus file
type FileIssues struct {
	File   string         `json:"file"`
	Issues []corpus.Issue `json:"issues"`
}

// ValidateTotals are the validation counters
type ValidateTotals struct {
	FilesScanned int `json:"filesScanned"`
	InvalidFiles int `json:"invalidFiles"`
	Issues       int `json:"issues"`
}

// ValidateReport is written to the --report path
type ValidateReport struct {
	StartedAt string         `json:"startedAt"`
	Files     []string       `json:"files"`
	Totals    ValidateTotals `json:"totals"`
	Invalid   []FileIssues   `json:"invalid"`
}

// ValidatePass checks every corpus file against the corpus JSON schema
type ValidatePass struct {
	logger *zap.Logger
	report ValidateReport
}

// NewValidatePass creates the schema validation pass
func NewValidatePass(logger *zap.Logger) *ValidatePass {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ValidatePass{
		logger: logger,
		report: ValidateReport{
			StartedAt: report.Now(),
			Files:     []string{},
			Invalid:   []FileIssues{},
		},
	}
}

// Name returns the pass name
func (p *ValidatePass) Name() string {
	return "validate"
}

// Apply validates the file as it is on disk. It never modifies the corpus.
func (p *ValidatePass) Apply(ctx context.Context, file string, c *corpus.Corpus) (bool, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", file, err)
	}
	issues, err := corpus.Validate(data)
	if err != nil {
		return false, err
	}

	p.report.Files = append(p.report.Files, report.RelPath(file))
	p.report.Totals.FilesScanned++
	if len(issues) == 0 {
		return false, nil
	}

	p.logger.Warn("Corpus file does not match the schema",
		zap.String("file", file),
		zap.Int("issues", len(issues)))
	p.report.Totals.InvalidFiles++
	p.report.Totals.Issues += len(issues)
	p.report.Invalid = append(p.report.Invalid, FileIssues{File: report.RelPath(file), Issues: issues})
	return false, nil
}

// Valid reports whether every scanned file matched the schema
func (p *ValidatePass) Valid() bool {
	return p.report.Totals.InvalidFiles == 0
}

// Report returns the accumulated report
func (p *ValidatePass) Report() *ValidateReport {
	return &p.report
}

// Summary returns the console summary
func (p *ValidatePass) Summary() *report.Summary {
	t := p.report.Totals
	s := report.NewSummary("Validate corpus schema").
		Add("Files scanned", t.FilesScanned).
		Add("Invalid files", t.InvalidFiles).
		Add("Issues", t.Issues)
	for _, inv := range p.report.Invalid {
		for _, issue := range inv.Issues {
			s.Add(inv.File, issue.Field+": "+issue.Description)
		}
	}
	return s
}
