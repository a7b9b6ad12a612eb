package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/drillmaster/internal/cli"
	"codeberg.org/snonux/drillmaster/internal/testutil"
)

const duplicateCorpus = `{
  "metadata": {"tier": 1},
  "verbs": {
    "HABLAR": {
      "present": [
        {"spanish": "Yo hablo español.", "english": "I speak Spanish.", "subject": "yo", "region": "universal"},
        {"spanish": "Yo hablo español.", "english": "I speak Spanish.", "subject": "yo", "region": "universal"}
      ]
    }
  }
}`

func execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newApp(cli.NewFlags()).rootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&nopWriter{})
	cmd.SetErr(&nopWriter{})
	return cmd.Execute()
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func readReport(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var rep map[string]any
	require.NoError(t, json.Unmarshal(data, &rep))
	return rep
}

func TestSubcommandsRegistered(t *testing.T) {
	cmd := newApp(cli.NewFlags()).rootCommand()
	for _, name := range []string{
		"dedupe", "audit", "audit-pronouns", "fix-hints", "fill-english", "fix-capitalization",
		"fix-spanish", "apply-fixes", "standardize-tags", "normalize-subjects",
		"remove-cloze", "move-orphan-audio", "generate-audio", "generate-apkg",
		"generate", "export-review", "review", "checklist", "stats", "validate",
		"list-models",
	} {
		found, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, found.Name())
	}
}

func TestVariantDefaults(t *testing.T) {
	cmd := newApp(cli.NewFlags()).rootCommand()
	for name, want := range map[string]string{
		"audit":         "with-audio",
		"dedupe":        "both",
		"export-review": "complete",
	} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		got, err := sub.Flags().GetString("variant")
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
}

func TestDedupeDryRun(t *testing.T) {
	root := testutil.CreateTestDirectory(t)
	corpusDir := filepath.Join(root, "data", "corpus")
	file := testutil.WriteCorpus(t, corpusDir, "tier1-complete.json", duplicateCorpus)
	reportPath := filepath.Join(root, "output", "dedupe.json")

	err := execute(t, "dedupe", "--dry-run", "--corpus-dir", corpusDir, "--report", reportPath)
	require.NoError(t, err)

	rep := readReport(t, reportPath)
	assert.Equal(t, true, rep["dryRun"])
	totals := rep["totals"].(map[string]any)
	assert.Equal(t, float64(1), totals["removedSentences"])

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, duplicateCorpus, string(data), "dry run must not rewrite the corpus")
}

func TestDedupeWrites(t *testing.T) {
	root := testutil.CreateTestDirectory(t)
	corpusDir := filepath.Join(root, "data", "corpus")
	file := testutil.WriteCorpus(t, corpusDir, "tier1-complete.json", duplicateCorpus)

	err := execute(t, "dedupe", "--corpus-dir", corpusDir, "--report", filepath.Join(root, "output", "r.json"))
	require.NoError(t, err)

	c := testutil.LoadCorpus(t, file)
	assert.Len(t, c.Verb("HABLAR").Tense("present").Sentences(), 1)
}

func TestMissingCorpusDir(t *testing.T) {
	err := execute(t, "fix-hints", "--corpus-dir", filepath.Join(t.TempDir(), "missing"))
	assert.ErrorContains(t, err, "corpus dir not found")
}

func TestInvalidVariant(t *testing.T) {
	err := execute(t, "dedupe", "--variant", "mp3", "--corpus-dir", t.TempDir())
	assert.ErrorContains(t, err, "invalid variant")
}

func TestApplyFixesRequiresFixes(t *testing.T) {
	err := execute(t, "apply-fixes", "--corpus-dir", t.TempDir())
	assert.ErrorContains(t, err, "fixes")
}

func TestGenerateAudioDryRunNeedsNoProvider(t *testing.T) {
	root := testutil.CreateTestDirectory(t)
	corpusDir := filepath.Join(root, "data", "corpus")
	file := testutil.WriteCorpus(t, corpusDir, "tier1-complete.json", duplicateCorpus)
	reportPath := filepath.Join(root, "output", "audio.json")

	err := execute(t, "generate-audio", file, "--dry-run", "--report", reportPath)
	require.NoError(t, err)

	rep := readReport(t, reportPath)
	totals := rep["totals"].(map[string]any)
	assert.Equal(t, float64(2), totals["processed"])
	assert.NoFileExists(t, filepath.Join(corpusDir, "tier1-complete.with-audio.json"))
}

func TestGenerateAudioRegenNotFound(t *testing.T) {
	root := testutil.CreateTestDirectory(t)
	corpusDir := filepath.Join(root, "data", "corpus")
	file := testutil.WriteCorpus(t, corpusDir, "tier1-complete.json", duplicateCorpus)

	err := execute(t, "generate-audio", file, "--dry-run",
		"--regen-file", "tier1_COMER_present_0001.mp3",
		"--report", filepath.Join(root, "output", "audio.json"))
	assert.ErrorContains(t, err, "could not find any sentence matching --regen-file")
}

func TestValidateCommand(t *testing.T) {
	root := testutil.CreateTestDirectory(t)
	corpusDir := filepath.Join(root, "data", "corpus")
	testutil.WriteCorpus(t, corpusDir, "tier1-complete.json", `{
  "verbs": {"HABLAR": {"present": [{"spanish": "", "english": "I speak.", "subject": "yo"}]}}
}`)

	err := execute(t, "validate", "--corpus-dir", corpusDir, "--report", filepath.Join(root, "output", "v.json"))
	assert.ErrorIs(t, err, errChecksFailed)
}

const missingEnglishCorpus = `{
  "verbs": {"COMER": {"present": [{"spanish": "Yo como pan.", "english": "", "subject": "yo"}]}}
}`

func TestFillEnglishDryRun(t *testing.T) {
	root := testutil.CreateTestDirectory(t)
	corpusDir := filepath.Join(root, "data", "corpus")
	testutil.WriteCorpus(t, corpusDir, "tier1-complete.json", missingEnglishCorpus)
	reportPath := filepath.Join(root, "output", "fill.json")

	require.NoError(t, execute(t, "fill-english", "--dry-run", "--corpus-dir", corpusDir, "--report", reportPath))

	totals := readReport(t, reportPath)["totals"].(map[string]any)
	assert.Equal(t, float64(1), totals["missing"])
	assert.Equal(t, float64(0), totals["translated"])
}

func TestFillEnglishNeedsKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	root := testutil.CreateTestDirectory(t)
	corpusDir := filepath.Join(root, "data", "corpus")
	testutil.WriteCorpus(t, corpusDir, "tier1-complete.json", missingEnglishCorpus)

	err := execute(t, "fill-english", "--corpus-dir", corpusDir, "--report", filepath.Join(root, "output", "fill.json"))
	assert.ErrorContains(t, err, "OpenAI API key not found")
}
