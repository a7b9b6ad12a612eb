package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"codeberg.org/snonux/drillmaster/internal/anki"
	"codeberg.org/snonux/drillmaster/internal/archive"
	"codeberg.org/snonux/drillmaster/internal/audio"
	"codeberg.org/snonux/drillmaster/internal/audit"
	"codeberg.org/snonux/drillmaster/internal/checklist"
	"codeberg.org/snonux/drillmaster/internal/cli"
	"codeberg.org/snonux/drillmaster/internal/cloze"
	"codeberg.org/snonux/drillmaster/internal/corpus"
	"codeberg.org/snonux/drillmaster/internal/dedupe"
	"codeberg.org/snonux/drillmaster/internal/generator"
	"codeberg.org/snonux/drillmaster/internal/hints"
	"codeberg.org/snonux/drillmaster/internal/logging"
	"codeberg.org/snonux/drillmaster/internal/models"
	"codeberg.org/snonux/drillmaster/internal/processor"
	"codeberg.org/snonux/drillmaster/internal/report"
	"codeberg.org/snonux/drillmaster/internal/review"
	"codeberg.org/snonux/drillmaster/internal/subjects"
	"codeberg.org/snonux/drillmaster/internal/tags"
	"codeberg.org/snonux/drillmaster/internal/textfix"
	"codeberg.org/snonux/drillmaster/internal/translation"
	"codeberg.org/snonux/drillmaster/internal/verbs"
)

// reviewFixesFile is the fix list review writes and checklist looks for
const reviewFixesFile = "review-fixes.json"

// errChecksFailed is returned by commands whose checks did not all pass
var errChecksFailed = errors.New("checks failed")

// summarizingPass is a pass with a console summary
type summarizingPass interface {
	processor.Pass
	Summary() *report.Summary
}

// app holds the state shared by all subcommands
type app struct {
	flags  *cli.Flags
	logger *zap.Logger
}

func newApp(flags *cli.Flags) *app {
	return &app{flags: flags, logger: zap.NewNop()}
}

// setup runs before every subcommand: config values fill in unset flags,
// then the logger is built from the final --verbose value
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := cli.ApplyConfig(cmd); err != nil {
		return err
	}
	a.logger = logging.New(a.flags.Verbose)
	return nil
}

func (a *app) sync() {
	_ = a.logger.Sync()
}

// rootCommand creates the root command with all subcommands attached
func (a *app) rootCommand() *cobra.Command {
	rootCmd := cli.CreateRootCommand(a.flags)
	rootCmd.PersistentPreRunE = a.setup

	rootCmd.AddCommand(
		a.dedupeCommand(),
		a.auditCommand(),
		a.auditPronounsCommand(),
		a.fixHintsCommand(),
		a.fillEnglishCommand(),
		a.fixCapitalizationCommand(),
		a.fixSpanishCommand(),
		a.applyFixesCommand(),
		a.standardizeTagsCommand(),
		a.normalizeSubjectsCommand(),
		a.removeClozeCommand(),
		a.moveOrphanAudioCommand(),
		a.generateAudioCommand(),
		a.generateApkgCommand(),
		a.generateCommand(),
		a.exportReviewCommand(),
		a.reviewCommand(),
		a.checklistCommand(),
		a.statsCommand(),
		a.validateCommand(),
		a.listModelsCommand(),
	)
	return rootCmd
}

// processor creates a pass runner. The report goes to --report or
// output/<name>-report.json.
func (a *app) processor(name string, variant corpus.Variant, files []string) *processor.Processor {
	return processor.NewProcessor(processor.Options{
		CorpusDir:  a.flags.CorpusDir,
		Variant:    variant,
		DryRun:     a.flags.DryRun,
		ReportPath: a.flags.ReportFor(name),
		Files:      files,
	}, a.logger)
}

// variant parses the --variant flag of cmd
func variant(cmd *cobra.Command) (corpus.Variant, error) {
	value, err := cmd.Flags().GetString("variant")
	if err != nil {
		return "", err
	}
	return corpus.ParseVariant(value)
}

// runPass runs pass over the corpus files selected by cmd's --variant and
// writes rep, the report the pass fills in
func runPass(cmd *cobra.Command, a *app, pass summarizingPass, rep any) error {
	v, err := variant(cmd)
	if err != nil {
		return err
	}
	proc := a.processor(pass.Name(), v, nil)
	if _, err := proc.Run(cmd.Context(), pass); err != nil {
		return err
	}
	return proc.Finish(rep, pass.Summary())
}

func (a *app) audioDir() string {
	if a.flags.AudioDir != "" {
		return a.flags.AudioDir
	}
	return filepath.Join(a.flags.CorpusDir, "..", "audio")
}

func (a *app) dedupeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dedupe",
		Short: "Remove exact duplicate sentences within each tense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pass := dedupe.NewPass(a.flags.CorpusDir, a.flags.DryRun)
			return runPass(cmd, a, pass, pass.Report())
		},
	}
	cli.AddVariantFlag(cmd, string(corpus.VariantBoth))
	return cmd
}

func (a *app) auditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Report missing or mismatched you-hints and duplicate sentences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pass := audit.NewHintPass(a.flags.CorpusDir)
			return runPass(cmd, a, pass, pass.Report())
		},
	}
	cli.AddVariantFlag(cmd, string(corpus.VariantWithAudio))
	return cmd
}

func (a *app) auditPronounsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit-pronouns",
		Short: "Report sentences where a prepended subject pronoun would be wrong",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := variant(cmd)
			if err != nil {
				return err
			}
			list, err := verbs.ReadFileIfExists(a.flags.VerbsFile)
			if err != nil {
				return err
			}
			pass := audit.NewPronounPass(a.flags.CorpusDir, v, list)
			return runPass(cmd, a, pass, pass.Report())
		},
	}
	cli.AddVariantFlag(cmd, string(corpus.VariantBoth))
	cli.AddVerbsFlag(cmd, a.flags)
	return cmd
}

func (a *app) fixHintsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix-hints",
		Short: "Rewrite English you-hints to match the subject",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pass := hints.NewFixPass(a.flags.CorpusDir, a.flags.DryRun)
			return runPass(cmd, a, pass, pass.Report())
		},
	}
	cli.AddVariantFlag(cmd, string(corpus.VariantBoth))
	return cmd
}

func (a *app) fillEnglishCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill-english",
		Short: "Translate sentences that have Spanish but no English",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var translator translation.Translator
			if !a.flags.DryRun {
				key := cli.GetOpenAIKey()
				if key == "" {
					return fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .drillmaster.yaml")
				}
				translator = translation.NewTranslator(key, a.flags.TranslateModel)
			}
			pass := translation.NewFillPass(translator, a.flags.Limit, a.flags.DryRun, a.logger)
			return runPass(cmd, a, pass, pass.Report())
		},
	}
	cli.AddVariantFlag(cmd, string(corpus.VariantBoth))
	cli.AddTranslateFlags(cmd, a.flags)
	return cmd
}

func (a *app) fixCapitalizationCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix-capitalization",
		Short: "Uppercase the first letter of every Spanish sentence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pass := textfix.NewCapitalizationPass(a.flags.DryRun)
			return runPass(cmd, a, pass, pass.Report())
		},
	}
	cli.AddVariantFlag(cmd, string(corpus.VariantBoth))
	return cmd
}

func (a *app) fixSpanishCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix-spanish",
		Short: "Correct unnatural estar, gerund and food constructions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pass := textfix.NewSpanishPass(a.flags.DryRun)
			return runPass(cmd, a, pass, pass.Report())
		},
	}
	cli.AddVariantFlag(cmd, string(corpus.VariantBoth))
	return cmd
}

func (a *app) applyFixesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply-fixes",
		Short: "Apply a reviewed fix list (JSON or YAML) to the corpus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fixes, err := textfix.LoadFixes(a.flags.FixesFile)
			if err != nil {
				return err
			}
			pass := textfix.NewApplyPass(a.flags.FixesFile, fixes, a.flags.DryRun)
			return runPass(cmd, a, pass, pass.Report())
		},
	}
	cli.AddVariantFlag(cmd, string(corpus.VariantBoth))
	cmd.Flags().StringVar(&a.flags.FixesFile, "fixes", "", "Fix list to apply")
	_ = cmd.MarkFlagRequired("fixes")
	return cmd
}

func (a *app) standardizeTagsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "standardize-tags",
		Short: "Rewrite free-text tags into key:value tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pass := tags.NewPass(a.flags.DryRun, a.logger)
			return runPass(cmd, a, pass, pass.Report())
		},
	}
	cli.AddVariantFlag(cmd, string(corpus.VariantBoth))
	return cmd
}

func (a *app) normalizeSubjectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize-subjects",
		Short: "Resolve ambiguous subjects to a single pronoun",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pass := subjects.NewPass(a.flags.DryRun)
			return runPass(cmd, a, pass, pass.Report())
		},
	}
	cli.AddVariantFlag(cmd, string(corpus.VariantBoth))
	return cmd
}

func (a *app) removeClozeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove-cloze",
		Short: "Remove textbook and cloze exercise entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pass := cloze.NewPass(a.flags.DryRun)
			return runPass(cmd, a, pass, pass.Report())
		},
	}
	cli.AddVariantFlag(cmd, string(corpus.VariantBoth))
	return cmd
}

func (a *app) moveOrphanAudioCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move-orphan-audio",
		Short: "Move audio files no with-audio corpus references into a backup directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pass := archive.NewOrphanPass(a.flags.CorpusDir, a.audioDir(), a.flags.BackupDir, a.flags.DryRun)
			proc := a.processor(pass.Name(), corpus.VariantWithAudio, nil)
			if _, err := proc.Run(cmd.Context(), pass); err != nil {
				return err
			}
			if err := pass.Move(); err != nil {
				return err
			}
			return proc.Finish(pass.Report(), pass.Summary())
		},
	}
	cli.AddAudioDirFlag(cmd, a.flags)
	cmd.Flags().StringVar(&a.flags.BackupDir, "backup-dir", "", "Backup directory (default "+archive.DefaultBackupRoot+"/<timestamp>)")
	return cmd
}

func (a *app) generateAudioCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate-audio [corpus files...]",
		Short: "Generate TTS audio for every sentence",
		Long: `Generate one MP3 per sentence through OpenAI TTS and record the file
name in the sentence's audio field. The updated corpus is written next to
the input as <name>.with-audio.json unless --output is given.

Without arguments every complete tier corpus in --corpus-dir is processed.
When GEMINI_API_KEY is set, Gemini TTS is used as a fallback.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.generateAudio(cmd.Context(), args)
		},
	}
	cli.AddAudioFlags(cmd, a.flags)
	return cmd
}

func (a *app) generateAudio(ctx context.Context, files []string) error {
	f := a.flags

	var provider audio.Provider
	if !f.DryRun {
		cfg := audio.DefaultProviderConfig()
		cfg.OpenAIKey = cli.GetOpenAIKey()
		cfg.OpenAIModel = f.OpenAIModel
		cfg.OpenAIVoice = f.OpenAIVoice
		cfg.OpenAISpeed = f.OpenAISpeed
		cfg.OpenAIInstruction = f.OpenAIInstruction
		cfg.GeminiKey = cli.GetGeminiKey()
		cfg.GeminiModel = f.GeminiModel
		cfg.GeminiVoice = f.GeminiVoice
		cfg.CacheDir = f.CacheDir
		cfg.EnableCache = f.CacheDir != ""

		var err error
		provider, err = audio.NewProvider(cfg, a.logger)
		if err != nil {
			return fmt.Errorf("failed to create audio provider: %w", err)
		}
	}

	pass, err := audio.NewGeneratePass(provider, audio.GenerateOptions{
		AudioDir:     f.AudioDir,
		Output:       f.Output,
		Limit:        f.Limit,
		SkipExisting: f.SkipExisting,
		FixPronouns:  f.FixPronouns,
		RegenFile:    f.RegenFile,
		TTSText:      f.TTSText,
		Delay:        f.Delay,
		DryRun:       f.DryRun,
	}, a.logger)
	if err != nil {
		return err
	}

	proc := a.processor(pass.Name(), corpus.VariantComplete, files)
	if _, err := proc.Run(ctx, pass); err != nil {
		return err
	}
	if err := proc.Finish(pass.Report(), pass.Summary()); err != nil {
		return err
	}
	return pass.CheckRegen()
}

func (a *app) generateApkgCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate-apkg",
		Short: "Build the Anki decks from the corpus",
		Long: `Build one Anki package per tier with a recognition (ES→EN) and a
production (EN→ES) subdeck per tense. "all" in --tier adds the complete
collection with every tier nested below one root deck.

Examples:
  drillmaster generate-apkg --tier 1
  drillmaster generate-apkg --tier 1-3,all --csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := a.flags
			list, err := verbs.ReadFileIfExists(f.VerbsFile)
			if err != nil {
				return err
			}
			conj, err := generator.NewConjugator(f.ConjugationsFile)
			if err != nil {
				return err
			}

			gen, err := anki.NewGenerator(&anki.GeneratorOptions{
				CorpusDir:  f.CorpusDir,
				AudioDir:   f.AudioDir,
				OutputDir:  f.OutputDir,
				Region:     f.Region,
				Tiers:      f.Tier,
				Verbs:      list,
				Conjugator: conj,
				CSV:        f.AnkiCSV,
				DryRun:     f.DryRun,
			}, a.logger)
			if err != nil {
				return err
			}
			if err := gen.Run(cmd.Context()); err != nil {
				return err
			}
			return a.processor("generate-apkg", corpus.VariantBoth, nil).Finish(gen.Report(), gen.Summary())
		},
	}
	cli.AddAnkiFlags(cmd, a.flags)
	return cmd
}

func (a *app) generateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Synthesize corpus sentences from conjugation rules and templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := a.flags
			list, err := verbs.ReadFile(f.VerbsFile)
			if err != nil {
				return err
			}
			conj, err := generator.NewConjugator(f.ConjugationsFile)
			if err != nil {
				return err
			}

			gen := generator.New(generator.Options{
				CorpusDir:  f.CorpusDir,
				Tiers:      f.GenerateTiers,
				Verbs:      list,
				Conjugator: conj,
				DryRun:     f.DryRun,
			}, a.logger)
			if err := gen.Run(); err != nil {
				return err
			}
			return a.processor("generate", corpus.VariantBoth, nil).Finish(gen.Report(), gen.Summary())
		},
	}
	cli.AddGenerateFlags(cmd, a.flags)
	return cmd
}

func (a *app) exportReviewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-review",
		Short: "Export sentences as text, CSV and prompt chunks for manual review",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := variant(cmd)
			if err != nil {
				return err
			}
			pass := review.NewExportPass(a.flags.ChunkSize, a.flags.DryRun, a.logger)
			proc := a.processor(pass.Name(), v, nil)
			if _, err := proc.Run(cmd.Context(), pass); err != nil {
				return err
			}
			if err := pass.Write(a.flags.ReviewDir); err != nil {
				return err
			}
			return proc.Finish(pass.Report(), pass.Summary())
		},
	}
	cli.AddVariantFlag(cmd, string(corpus.VariantComplete))
	cli.AddReviewFlags(cmd, a.flags, false)
	return cmd
}

func (a *app) reviewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review sentences with an LLM and write a fix list for apply-fixes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := variant(cmd)
			if err != nil {
				return err
			}
			return a.review(cmd.Context(), v)
		},
	}
	cli.AddVariantFlag(cmd, string(corpus.VariantComplete))
	cli.AddReviewFlags(cmd, a.flags, true)
	return cmd
}

func (a *app) review(ctx context.Context, v corpus.Variant) error {
	f := a.flags

	completer, err := review.NewCompleter(review.Config{
		Provider:  f.ReviewProvider,
		Model:     f.ReviewModel,
		OpenAIKey: cli.GetOpenAIKey(),
		GeminiKey: cli.GetGeminiKey(),
	})
	if err != nil {
		return err
	}

	// The export pass only collects; it writes nothing in dry-run mode
	collect := review.NewExportPass(f.ChunkSize, true, a.logger)
	proc := a.processor("review", v, nil)
	if _, err := proc.Run(ctx, collect); err != nil {
		return err
	}

	reviewer := review.NewReviewer(completer, f.ChunkSize, a.logger)
	if _, err := reviewer.Review(ctx, collect.Items()); err != nil {
		return err
	}

	if !f.DryRun {
		path := f.FixesFile
		if path == "" {
			path = filepath.Join(f.ReviewDir, reviewFixesFile)
		}
		if err := reviewer.Save(path); err != nil {
			return err
		}
	}
	return proc.Finish(reviewer.Report(), reviewer.Summary())
}

// checklistPass collects the corpus statistics and evaluates the checks
func (a *app) checklistPass(ctx context.Context, name string) (*checklist.Pass, *processor.Processor, error) {
	f := a.flags
	fixes := []string{f.FixesFile}
	if f.FixesFile == "" {
		fixes = []string{
			filepath.Join(f.OutputDir, reviewFixesFile),
			filepath.Join(f.OutputDir, "review-fixes.yaml"),
		}
	}

	pass := checklist.NewPass(checklist.Options{
		CorpusDir:    f.CorpusDir,
		AudioDir:     a.audioDir(),
		OutputDir:    f.OutputDir,
		FixesFiles:   fixes,
		MinSentences: f.MinSentences,
	}, a.logger)
	proc := a.processor(name, corpus.VariantBoth, nil)
	if _, err := proc.Run(ctx, pass); err != nil {
		return nil, nil, err
	}
	pass.Evaluate()
	return pass, proc, nil
}

func (a *app) checklistCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checklist",
		Short: "Run the pre-generation checklist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, proc, err := a.checklistPass(cmd.Context(), "checklist")
			if err != nil {
				return err
			}
			if err := proc.Finish(pass.Report(), pass.Summary()); err != nil {
				return err
			}
			if !pass.AllSystemsGo() {
				return fmt.Errorf("pre-generation %w", errChecksFailed)
			}
			return nil
		},
	}
	cli.AddChecklistFlags(cmd, a.flags)
	return cmd
}

func (a *app) statsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print sentence counts per corpus file and tense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, proc, err := a.checklistPass(cmd.Context(), "corpus-stats")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), pass.StatsTable())
			return proc.Finish(pass.Report(), nil)
		},
	}
	cli.AddChecklistFlags(cmd, a.flags)
	return cmd
}

func (a *app) validateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate every corpus file against the corpus JSON schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pass := checklist.NewValidatePass(a.logger)
			if err := runPass(cmd, a, pass, pass.Report()); err != nil {
				return err
			}
			if !pass.Valid() {
				return fmt.Errorf("corpus validation %w", errChecksFailed)
			}
			return nil
		},
	}
	cli.AddVariantFlag(cmd, string(corpus.VariantBoth))
	return cmd
}

func (a *app) listModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list-models",
		Short: "List the OpenAI speech and chat models available to your API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := models.NewLister(cli.GetOpenAIKey()).List(cmd.Context())
			if err != nil {
				return err
			}
			catalog.Print(os.Stdout)
			return nil
		},
	}
}
