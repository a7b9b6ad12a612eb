package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/drillmaster/internal"
)

// viperAnnotation marks the config key a flag falls back to
const viperAnnotation = "viper_key"

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "drillmaster",
		Short: "Spanish verb corpus toolkit",
		Long: `drillmaster builds, audits, cleans and exports the Spanish verb
conjugation corpus behind the DrillMaster Anki decks.

Every subcommand is one pass over the tier corpus files in --corpus-dir.
Passes that modify the corpus honour --dry-run and write a JSON report.

Examples:
  drillmaster dedupe --dry-run
  drillmaster generate-audio data/corpus/tier1-complete.json --limit 10
  drillmaster generate-apkg --tier 1-3,all`,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	setupFlags(rootCmd, flags)
	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.drillmaster.yaml)")
	pf.StringVar(&flags.CorpusDir, "corpus-dir", flags.CorpusDir, "Directory containing the tier corpus files")
	pf.BoolVar(&flags.DryRun, "dry-run", false, "Report what would change without writing anything")
	pf.StringVar(&flags.ReportPath, "report", "", "Report path (default output/<command>-report.json)")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "Debug logging")

	bindFlag(pf, "corpus-dir", "corpus.directory")
	bindFlag(pf, "verbose", "log.verbose")
}

// AddVariantFlag adds --variant with the given default. Subcommands differ
// in their default, so every command gets its own storage; read the value
// with cmd.Flags().GetString("variant").
func AddVariantFlag(cmd *cobra.Command, def string) {
	cmd.Flags().String("variant", def, "Corpus files to process: with-audio, complete or both")
}

// AddVerbsFlag adds --verbs, the verb list TSV
func AddVerbsFlag(cmd *cobra.Command, flags *Flags) {
	cmd.Flags().StringVar(&flags.VerbsFile, "verbs", flags.VerbsFile, "Verb list (verb, english, tags, notes; tab separated)")
	bindFlag(cmd.Flags(), "verbs", "corpus.verbs")
}

// AddAudioDirFlag adds --audio-dir
func AddAudioDirFlag(cmd *cobra.Command, flags *Flags) {
	cmd.Flags().StringVar(&flags.AudioDir, "audio-dir", "", "Audio directory (default <corpus-dir>/../audio)")
	bindFlag(cmd.Flags(), "audio-dir", "audio.directory")
}

// AddAudioFlags adds the generate-audio flags
func AddAudioFlags(cmd *cobra.Command, flags *Flags) {
	f := cmd.Flags()
	AddAudioDirFlag(cmd, flags)
	f.IntVar(&flags.Limit, "limit", 0, "Generate at most this many files (0 means no limit)")
	f.BoolVar(&flags.SkipExisting, "skip-existing", false, "Skip sentences that already have an audio field")
	f.BoolVar(&flags.FixPronouns, "fix-pronouns", false, "Prepend the subject pronoun to the spoken text")
	f.StringVar(&flags.RegenFile, "regen-file", "", "Regenerate exactly one audio file by name")
	f.StringVar(&flags.TTSText, "tts-text", "", "Spoken text override (only with --regen-file)")
	f.StringVar(&flags.Output, "output", "", "Output corpus path (default <corpus>.with-audio.json)")
	f.DurationVar(&flags.Delay, "delay", flags.Delay, "Pause between TTS requests")
	f.StringVar(&flags.CacheDir, "cache-dir", "", "Reuse OpenAI TTS output from this directory (disabled when empty)")

	f.StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	f.StringVar(&flags.OpenAIVoice, "voice", flags.OpenAIVoice, "OpenAI voice: alloy, ash, coral, echo, fable, onyx, nova, sage, shimmer")
	f.Float64Var(&flags.OpenAISpeed, "speed", flags.OpenAISpeed, "Speech speed (0.25 to 4.0)")
	f.StringVar(&flags.OpenAIInstruction, "openai-instruction", flags.OpenAIInstruction, "Voice instructions for gpt-4o-mini-tts")
	f.StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini TTS model used as fallback when GEMINI_API_KEY is set")
	f.StringVar(&flags.GeminiVoice, "gemini-voice", flags.GeminiVoice, "Gemini fallback voice")

	bindFlag(f, "delay", "audio.delay")
	bindFlag(f, "cache-dir", "audio.cache_dir")
	bindFlag(f, "openai-model", "audio.openai_model")
	bindFlag(f, "voice", "audio.openai_voice")
	bindFlag(f, "speed", "audio.openai_speed")
	bindFlag(f, "openai-instruction", "audio.openai_instruction")
	bindFlag(f, "gemini-model", "audio.gemini_model")
	bindFlag(f, "gemini-voice", "audio.gemini_voice")
}

// AddAnkiFlags adds the generate-apkg flags
func AddAnkiFlags(cmd *cobra.Command, flags *Flags) {
	f := cmd.Flags()
	AddVerbsFlag(cmd, flags)
	AddAudioDirFlag(cmd, flags)
	f.StringVar(&flags.Tier, "tier", "", "Tiers: 1, 1,3,5, 1-3 or all (default every tier)")
	f.StringVar(&flags.Region, "region", flags.Region, "Spanish variant of the decks")
	f.StringVarP(&flags.OutputDir, "output", "o", flags.OutputDir, "Output directory for the .apkg files")
	f.BoolVar(&flags.AnkiCSV, "csv", false, "Also write a CSV import next to each package")
	f.StringVar(&flags.ConjugationsFile, "conjugations", "", "Conjugation table JSON used before the built-in rules")

	bindFlag(f, "region", "anki.region")
	bindFlag(f, "output", "anki.output")
	bindFlag(f, "conjugations", "anki.conjugations")
}

// AddGenerateFlags adds the generate flags
func AddGenerateFlags(cmd *cobra.Command, flags *Flags) {
	AddVerbsFlag(cmd, flags)
	cmd.Flags().IntSliceVar(&flags.GenerateTiers, "tiers", []int{1, 2, 3, 4, 5}, "Tiers to generate")
	cmd.Flags().StringVar(&flags.ConjugationsFile, "conjugations", "", "Conjugation table JSON used before the built-in rules")
	bindFlag(cmd.Flags(), "conjugations", "anki.conjugations")
}

// AddReviewFlags adds the export-review and review flags
func AddReviewFlags(cmd *cobra.Command, flags *Flags, automated bool) {
	f := cmd.Flags()
	f.IntVar(&flags.ChunkSize, "chunk-size", flags.ChunkSize, "Sentences per review chunk")
	f.StringVarP(&flags.ReviewDir, "output", "o", flags.ReviewDir, "Output directory")
	bindFlag(f, "chunk-size", "review.chunk_size")
	if !automated {
		return
	}
	f.StringVar(&flags.ReviewProvider, "provider", flags.ReviewProvider, "Review model provider: openai or gemini")
	f.StringVar(&flags.ReviewModel, "model", "", "Review model (default per provider)")
	f.StringVar(&flags.FixesFile, "fixes", "", "Fix list to write (default <output>/review-fixes.json)")
	bindFlag(f, "provider", "review.provider")
	bindFlag(f, "model", "review.model")
}

// AddTranslateFlags adds the fill-english flags
func AddTranslateFlags(cmd *cobra.Command, flags *Flags) {
	f := cmd.Flags()
	f.IntVar(&flags.Limit, "limit", 0, "Translate at most this many sentences (0 means no limit)")
	f.StringVar(&flags.TranslateModel, "model", "", "OpenAI chat model (default gpt-4o-mini)")
	bindFlag(f, "model", "translation.model")
}

// AddChecklistFlags adds the checklist flags
func AddChecklistFlags(cmd *cobra.Command, flags *Flags) {
	f := cmd.Flags()
	AddAudioDirFlag(cmd, flags)
	f.StringVarP(&flags.OutputDir, "output", "o", flags.OutputDir, "Directory holding the generated decks")
	f.StringVar(&flags.FixesFile, "fixes", "", "Reviewed fix list (default <output>/review-fixes.json)")
	f.IntVar(&flags.MinSentences, "min-sentences", flags.MinSentences, "Minimum number of corpus sentences")
	bindFlag(f, "min-sentences", "checklist.min_sentences")
}

func bindFlag(fs *pflag.FlagSet, name, key string) {
	_ = fs.SetAnnotation(name, viperAnnotation, []string{key})
}

// ApplyConfig copies config file and environment values into the flags of
// cmd that were not set on the command line
func ApplyConfig(cmd *cobra.Command) error {
	var errs []string
	apply := func(f *pflag.Flag) {
		keys := f.Annotations[viperAnnotation]
		if f.Changed || len(keys) == 0 || !viper.IsSet(keys[0]) {
			return
		}
		if err := f.Value.Set(configString(viper.Get(keys[0]))); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", keys[0], err))
		}
	}
	cmd.Flags().VisitAll(apply)
	cmd.InheritedFlags().VisitAll(apply)

	if len(errs) > 0 {
		return fmt.Errorf("invalid config values: %s", strings.Join(errs, "; "))
	}
	return nil
}

func configString(v any) string {
	if list, ok := v.([]any); ok {
		parts := make([]string, len(list))
		for i, item := range list {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(v)
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory and the working directory with name ".drillmaster"
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".drillmaster")
	}

	// DRILLMASTER_AUDIO_OPENAI_VOICE overrides audio.openai_voice
	viper.SetEnvPrefix("DRILLMASTER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("openai.api_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	for _, env := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}
	return viper.GetString("gemini.api_key")
}
