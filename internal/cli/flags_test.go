package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"codeberg.org/snonux/drillmaster/internal/audio"
	"codeberg.org/snonux/drillmaster/internal/review"
)

func TestNewFlagsDefaults(t *testing.T) {
	f := NewFlags()

	assert.Equal(t, "data/corpus", f.CorpusDir)
	assert.Equal(t, "data/verbs.tsv", f.VerbsFile)
	assert.Equal(t, "output", f.OutputDir)
	assert.Equal(t, f.OutputDir, f.ReviewDir)
	assert.Equal(t, "mexico", f.Region)
	assert.Equal(t, 1, f.MinSentences)

	// TTS defaults come from the audio package so both stay in sync
	assert.Equal(t, audio.DefaultDelay, f.Delay)
	assert.Equal(t, audio.DefaultVoice, f.OpenAIVoice)
	assert.Equal(t, audio.DefaultInstruction, f.OpenAIInstruction)
	assert.Equal(t, "gpt-4o-mini-tts", f.OpenAIModel)
	assert.Equal(t, 1.0, f.OpenAISpeed)
	assert.Empty(t, f.CacheDir)

	assert.Equal(t, "openai", f.ReviewProvider)
	assert.Equal(t, review.ChunkSize, f.ChunkSize)
}

func TestNewFlagsSafeByDefault(t *testing.T) {
	f := NewFlags()

	assert.False(t, f.DryRun, "passes must write only when asked")
	assert.False(t, f.SkipExisting)
	assert.False(t, f.FixPronouns)
	assert.False(t, f.AnkiCSV)
	assert.Empty(t, f.RegenFile)
	assert.Empty(t, f.TTSText)
	assert.Empty(t, f.Tier)
	assert.Empty(t, f.CfgFile)
}

func TestReportFor(t *testing.T) {
	f := NewFlags()
	assert.Equal(t, filepath.Join("output", "audit-pronouns-report.json"), f.ReportFor("audit-pronouns"))

	f.ReportPath = filepath.Join("tmp", "pronouns.json")
	assert.Equal(t, f.ReportPath, f.ReportFor("audit-pronouns"))
}
