package cli

import (
	"time"

	"codeberg.org/snonux/drillmaster/internal/audio"
	"codeberg.org/snonux/drillmaster/internal/report"
	"codeberg.org/snonux/drillmaster/internal/review"
)

// Flags holds all command-line flag values
type Flags struct {
	// Global flags
	CfgFile    string
	CorpusDir  string
	DryRun     bool
	ReportPath string
	Verbose    bool

	// Pass flags
	VerbsFile string
	AudioDir  string
	BackupDir string
	FixesFile string

	// generate-audio flags
	Limit        int
	SkipExisting bool
	FixPronouns  bool
	RegenFile    string
	TTSText      string
	Output       string
	Delay        time.Duration
	CacheDir     string

	// OpenAI TTS flags
	OpenAIModel       string
	OpenAIVoice       string
	OpenAISpeed       float64
	OpenAIInstruction string

	// Gemini TTS fallback flags
	GeminiModel string
	GeminiVoice string

	// generate-apkg flags
	Tier             string
	Region           string
	OutputDir        string
	AnkiCSV          bool
	ConjugationsFile string

	// generate flags
	GenerateTiers []int

	// review flags
	ReviewProvider string
	ReviewModel    string
	ChunkSize      int
	ReviewDir      string

	// fill-english flags
	TranslateModel string

	// checklist flags
	MinSentences int
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		CorpusDir:         "data/corpus",
		VerbsFile:         "data/verbs.tsv",
		Delay:             audio.DefaultDelay,
		OpenAIModel:       "gpt-4o-mini-tts",
		OpenAIVoice:       audio.DefaultVoice,
		OpenAISpeed:       1.0,
		OpenAIInstruction: audio.DefaultInstruction,
		GeminiModel:       audio.DefaultGeminiModel,
		GeminiVoice:       audio.DefaultGeminiVoice,
		Region:            "mexico",
		OutputDir:         report.DefaultDir,
		ReviewProvider:    "openai",
		ChunkSize:         review.ChunkSize,
		ReviewDir:         report.DefaultDir,
		MinSentences:      1,
	}
}

// ReportFor returns the --report path, defaulting to
// output/<command>-report.json
func (f *Flags) ReportFor(command string) string {
	if f.ReportPath != "" {
		return f.ReportPath
	}
	return report.DefaultPath(command)
}
