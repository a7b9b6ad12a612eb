package processor

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"codeberg.org/snonux/drillmaster/internal/corpus"
	"codeberg.org/snonux/drillmaster/internal/report"
)

// Pass transforms or inspects one corpus file. Apply returns true when it
// modified the corpus and the file should be written back.
type Pass interface {
	Name() string
	Apply(ctx context.Context, file string, c *corpus.Corpus) (bool, error)
}

// Redirector is implemented by passes that write their result to a
// different file than the one they read.
type Redirector interface {
	OutputPath(file string) string
}

// Options configure a processor run
type Options struct {
	CorpusDir  string
	Variant    corpus.Variant
	DryRun     bool
	ReportPath string // empty disables the report file
	Files      []string
}

// Result describes what a run touched
type Result struct {
	Files   []string
	Changed []string
	Written []string
}

// Processor runs passes over the corpus files
type Processor struct {
	opts   Options
	logger *zap.Logger
	out    io.Writer
}

// NewProcessor creates a new pass runner
func NewProcessor(opts Options, logger *zap.Logger) *Processor {
	if opts.Variant == "" {
		opts.Variant = corpus.VariantBoth
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{opts: opts, logger: logger, out: os.Stdout}
}

// SetOutput redirects the summary output
func (p *Processor) SetOutput(w io.Writer) {
	p.out = w
}

// Options returns the run options
func (p *Processor) Options() Options {
	return p.opts
}

// ListFiles returns the corpus files this processor works on
func (p *Processor) ListFiles() ([]string, error) {
	if len(p.opts.Files) > 0 {
		return p.opts.Files, nil
	}
	return corpus.ListFiles(p.opts.CorpusDir, p.opts.Variant)
}

// Run applies pass to every corpus file
func (p *Processor) Run(ctx context.Context, pass Pass) (*Result, error) {
	files, err := p.ListFiles()
	if err != nil {
		return nil, err
	}

	result := &Result{Files: files}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		changed, written, err := p.runFile(ctx, pass, file)
		if err != nil {
			return result, err
		}
		if changed {
			result.Changed = append(result.Changed, file)
		}
		if written != "" {
			result.Written = append(result.Written, written)
		}
	}

	p.logger.Debug("pass finished",
		zap.String("pass", pass.Name()),
		zap.Int("files", len(result.Files)),
		zap.Int("changed", len(result.Changed)),
		zap.Bool("dry_run", p.opts.DryRun))
	return result, nil
}

func (p *Processor) runFile(ctx context.Context, pass Pass, file string) (changed bool, written string, err error) {
	target := file
	if r, ok := pass.(Redirector); ok {
		target = r.OutputPath(file)
	}

	apply := func() error {
		c, err := corpus.Load(file)
		if err != nil {
			return err
		}

		p.logger.Debug("applying pass", zap.String("pass", pass.Name()), zap.String("file", file))
		changed, err = pass.Apply(ctx, file, c)
		if err != nil {
			return fmt.Errorf("%s failed on %s: %w", pass.Name(), file, err)
		}
		if !changed || p.opts.DryRun {
			return nil
		}

		if err := c.SaveAs(target); err != nil {
			return err
		}
		written = target
		p.logger.Info("corpus written", zap.String("pass", pass.Name()), zap.String("file", target))
		return nil
	}

	switch {
	case p.opts.DryRun:
		err = apply()
	case target == file:
		err = corpus.WithLock(file, apply)
	default:
		// Redirected passes read file and write target; hold both
		err = corpus.WithLock(file, func() error {
			return corpus.WithLock(target, apply)
		})
	}
	return changed, written, err
}

// Finish writes the report (when enabled) and prints the summary
func (p *Processor) Finish(rep any, summary *report.Summary) error {
	if p.opts.ReportPath != "" && rep != nil {
		if err := report.Write(p.opts.ReportPath, rep); err != nil {
			return err
		}
		if summary != nil {
			summary.Add("Report", p.opts.ReportPath)
		}
	}
	if summary != nil {
		summary.Print(p.out)
	}
	return nil
}
