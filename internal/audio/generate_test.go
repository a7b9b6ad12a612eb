package audio

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/drillmaster/internal/processor"
	"codeberg.org/snonux/drillmaster/internal/testutil"
)

const audioCorpus = `{
  "metadata": {"description": "tier 1"},
  "verbs": {
    "HABLAR": {
      "present": [
        {"spanish": "Hablo español.", "english": "I speak Spanish.", "subject": "yo"},
        {"spanish": "¿Hablas inglés?", "english": "Do you (informal) speak English?", "subject": "tú"},
        "not a sentence",
        {"english": "No Spanish here.", "subject": "yo"},
        {"spanish": "Se habla español.", "english": "Spanish is spoken.", "subject": "él/ella/usted", "skipPronounPrepend": true}
      ]
    },
    "GUSTAR": {
      "present": [
        {"spanish": "Me gusta el café.", "english": "I like coffee.", "subject": "yo"}
      ]
    }
  }
}`

func runGenerate(t *testing.T, file string, provider Provider, opts GenerateOptions) *GeneratePass {
	t.Helper()

	pass, err := NewGeneratePass(provider, opts, nil)
	require.NoError(t, err)

	p := processor.NewProcessor(processor.Options{Files: []string{file}, DryRun: opts.DryRun}, nil)
	_, err = p.Run(context.Background(), pass)
	require.NoError(t, err)
	return pass
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "tier2_ACOSTARSE_present_0004.mp3", Filename("tier2", "ACOSTARSE", "present", 4))
	assert.Equal(t, "tier1", TierPrefix("data/corpus/tier1-complete.json"))
	assert.Equal(t, "mexico", TierPrefix("data/corpus/mexico-extra.json"))
}

func TestGenerateOptionsValidate(t *testing.T) {
	assert.Error(t, GenerateOptions{TTSText: "Hola."}.Validate())
	assert.NoError(t, GenerateOptions{TTSText: "Hola.", RegenFile: "x.mp3"}.Validate())
	assert.Error(t, GenerateOptions{Limit: -1}.Validate())

	_, err := NewGeneratePass(nil, GenerateOptions{}, nil)
	assert.Error(t, err, "provider required outside dry run")
}

func TestGeneratePass(t *testing.T) {
	dir := testutil.CreateTestDirectory(t)
	file := testutil.WriteCorpus(t, filepath.Join(dir, "data", "corpus"), "tier1-complete.json", audioCorpus)
	audioDir := filepath.Join(dir, "data", "audio")

	// One file already exists and must be skipped
	testutil.CreateTestFile(t, filepath.Join(audioDir, "tier1_HABLAR_present_0002.mp3"), []byte("old"))

	mock := &testutil.MockSpeechProvider{}
	pass := runGenerate(t, file, mock, GenerateOptions{})

	totals := pass.Report().Totals
	assert.Equal(t, GenerateTotals{Found: 4, Processed: 3, Skipped: 1}, totals)
	assert.Equal(t, 3, mock.CallCount())
	assert.Contains(t, mock.Calls, "TTS: Hablo español. -> tier1_HABLAR_present_0001.mp3")
	assert.Contains(t, mock.Calls, "TTS: Se habla español. -> tier1_HABLAR_present_0003.mp3")
	testutil.AssertFileExists(t, filepath.Join(audioDir, "tier1_GUSTAR_present_0001.mp3"))
	testutil.AssertFileContent(t, filepath.Join(audioDir, "tier1_HABLAR_present_0002.mp3"), []byte("old"))

	out := filepath.Join(dir, "data", "corpus", "tier1-complete.with-audio.json")
	sentences := testutil.Sentences(t, out, "HABLAR", "present")
	require.Len(t, sentences, 4)
	assert.Equal(t, "tier1_HABLAR_present_0001.mp3", sentences[0].Audio)
	assert.Equal(t, "tier1_HABLAR_present_0002.mp3", sentences[1].Audio)
	assert.Empty(t, sentences[2].Audio)
	assert.Equal(t, "tier1_HABLAR_present_0003.mp3", sentences[3].Audio)

	// The source corpus is left alone
	assert.Empty(t, testutil.Sentences(t, file, "HABLAR", "present")[0].Audio)
}

func TestGeneratePassFixPronouns(t *testing.T) {
	dir := testutil.CreateTestDirectory(t)
	file := testutil.WriteCorpus(t, filepath.Join(dir, "data", "corpus"), "tier1-complete.json", audioCorpus)
	audioDir := filepath.Join(dir, "data", "audio")
	testutil.CreateTestFile(t, filepath.Join(audioDir, "tier1_HABLAR_present_0001.mp3"), []byte("old"))

	mock := &testutil.MockSpeechProvider{}
	pass := runGenerate(t, file, mock, GenerateOptions{FixPronouns: true})

	assert.Equal(t, GenerateTotals{Found: 4, Processed: 2, Skipped: 2, Deleted: 1}, pass.Report().Totals)
	assert.ElementsMatch(t, []string{
		"TTS: Yo hablo español. -> tier1_HABLAR_present_0001.mp3",
		"TTS: ¿Tú hablas inglés? -> tier1_HABLAR_present_0002.mp3",
	}, mock.Calls)
	testutil.AssertFileContent(t, filepath.Join(audioDir, "tier1_HABLAR_present_0001.mp3"), testutil.GenerateAudioData())
}

func TestGeneratePassDryRunAndLimit(t *testing.T) {
	dir := testutil.CreateTestDirectory(t)
	file := testutil.WriteCorpus(t, filepath.Join(dir, "data", "corpus"), "tier1-complete.json", audioCorpus)

	pass := runGenerate(t, file, nil, GenerateOptions{DryRun: true, Limit: 2})

	assert.Equal(t, GenerateTotals{Found: 4, Processed: 2}, pass.Report().Totals)
	testutil.AssertFileNotExists(t, filepath.Join(dir, "data", "corpus", "tier1-complete.with-audio.json"))
	testutil.AssertFileNotExists(t, filepath.Join(dir, "data", "audio", "tier1_HABLAR_present_0001.mp3"))
}

func TestGeneratePassSkipExisting(t *testing.T) {
	dir := testutil.CreateTestDirectory(t)
	content := `{"verbs": {"COMER": {"present": [
  {"spanish": "Como.", "english": "I eat.", "subject": "yo", "audio": "tier1_COMER_present_0001.mp3"},
  {"spanish": "Comes.", "english": "You eat.", "subject": "tú"}
]}}}`
	file := testutil.WriteCorpus(t, filepath.Join(dir, "data", "corpus"), "tier1-complete.json", content)

	mock := &testutil.MockSpeechProvider{}
	pass := runGenerate(t, file, mock, GenerateOptions{SkipExisting: true})

	assert.Equal(t, GenerateTotals{Found: 1, Processed: 1}, pass.Report().Totals)
	assert.Equal(t, []string{"TTS: Comes. -> tier1_COMER_present_0001.mp3"}, mock.Calls)
}

func TestGeneratePassRegenFile(t *testing.T) {
	dir := testutil.CreateTestDirectory(t)
	file := testutil.WriteCorpus(t, filepath.Join(dir, "data", "corpus"), "tier1-complete.json", audioCorpus)
	audioDir := filepath.Join(dir, "data", "audio")
	testutil.CreateTestFile(t, filepath.Join(audioDir, "tier1_HABLAR_present_0002.mp3"), []byte("old"))

	mock := &testutil.MockSpeechProvider{}
	pass := runGenerate(t, file, mock, GenerateOptions{
		RegenFile: "tier1_HABLAR_present_0002.mp3",
		TTSText:   "¿Tú, hablas inglés?",
	})

	require.NoError(t, pass.CheckRegen())
	assert.Equal(t, GenerateTotals{Found: 4, Processed: 1, Deleted: 1}, pass.Report().Totals)
	assert.Equal(t, []string{"TTS: ¿Tú, hablas inglés? -> tier1_HABLAR_present_0002.mp3"}, mock.Calls)
}

func TestGeneratePassRegenFileNotFound(t *testing.T) {
	dir := testutil.CreateTestDirectory(t)
	file := testutil.WriteCorpus(t, filepath.Join(dir, "data", "corpus"), "tier1-complete.json", audioCorpus)

	mock := &testutil.MockSpeechProvider{}
	pass := runGenerate(t, file, mock, GenerateOptions{RegenFile: "tier1_HABLAR_present_0099.mp3"})

	assert.ErrorIs(t, pass.CheckRegen(), ErrRegenNotFound)
	assert.Zero(t, mock.CallCount())
}

func TestGeneratePassCountsErrors(t *testing.T) {
	dir := testutil.CreateTestDirectory(t)
	file := testutil.WriteCorpus(t, filepath.Join(dir, "data", "corpus"), "tier1-complete.json", audioCorpus)

	mock := &testutil.MockSpeechProvider{Errors: map[string]error{"Hablo español.": errors.New("quota exceeded")}}
	pass := runGenerate(t, file, mock, GenerateOptions{})

	rep := pass.Report()
	assert.Equal(t, 1, rep.Totals.Errors)
	assert.Equal(t, 3, rep.Totals.Processed)
	require.Len(t, rep.Errors, 1)
	assert.Equal(t, "tier1_HABLAR_present_0001.mp3", rep.Errors[0].Audio)
	assert.Equal(t, "quota exceeded", rep.Errors[0].Error)

	out := filepath.Join(dir, "data", "corpus", "tier1-complete.with-audio.json")
	assert.Empty(t, testutil.Sentences(t, out, "HABLAR", "present")[0].Audio)
}
