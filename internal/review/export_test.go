package review

import (
	"bytes"
	"context"
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/drillmaster/internal/corpus"
	"codeberg.org/snonux/drillmaster/internal/testutil"
)

const reviewCorpus = `{
  "verbs": {
    "HABLAR": {
      "metadata": {"tags": ["type:regular"]},
      "present": [
        {"spanish": "Yo hablo español.", "english": "I speak Spanish.", "subject": "yo", "source": {"type": "mexican_authentic"}},
        "not a sentence",
        {"spanish": "Ella habla, \"claro\".", "english": "She talks, of course.", "subject": "ella"}
      ]
    },
    "COMER": {
      "preterite": [
        {"spanish": "Comimos tacos.", "english": "We ate tacos.", "subject": "nosotros", "source": "scraped"}
      ]
    }
  }
}`

func exportItems(t *testing.T) (*ExportPass, []Item) {
	t.Helper()
	c, err := corpus.Parse([]byte(reviewCorpus))
	require.NoError(t, err)

	pass := NewExportPass(2, false, nil)
	changed, err := pass.Apply(context.Background(), "data/corpus/tier3-complete.json", c)
	require.NoError(t, err)
	assert.False(t, changed)
	return pass, pass.Items()
}

func TestExportPassCollects(t *testing.T) {
	_, items := exportItems(t)

	require.Len(t, items, 3)
	assert.Equal(t, Item{
		ID:      1,
		Tier:    3,
		Verb:    "HABLAR",
		Tense:   "present",
		Subject: "yo",
		Spanish: "Yo hablo español.",
		English: "I speak Spanish.",
		Source:  "mexican_authentic",
	}, items[0])
	assert.Equal(t, 2, items[1].ID)
	assert.Equal(t, "unknown", items[1].Source)
	assert.Equal(t, "scraped", items[2].Source)
	assert.Equal(t, "COMER", items[2].Verb)
}

func TestChunks(t *testing.T) {
	items := make([]Item, 5)
	chunks := Chunks(items, 2)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[2], 1)

	assert.Len(t, Chunks(make([]Item, 120), 0), 3)
	assert.Empty(t, Chunks(nil, 10))
}

func TestFormatText(t *testing.T) {
	_, items := exportItems(t)
	text := FormatText(items, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	assert.True(t, strings.HasPrefix(text, "DRILLMASTER CORPUS - ALL SENTENCES FOR REVIEW\nTotal: 3 sentences\nGenerated: 2025-03-01\n"))
	assert.Contains(t, text, "[1] Yo hablo español. → I speak Spanish.\n    (Tier 3, HABLAR, present, yo)\n")
	assert.Contains(t, text, "[3] Comimos tacos. → We ate tacos.\n")
}

func TestWriteCSV(t *testing.T) {
	_, items := exportItems(t)
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, items))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"ID", "Tier", "Verb", "Tense", "Subject", "Spanish", "English", "Source"}, records[0])
	assert.Equal(t, []string{"2", "3", "HABLAR", "present", "ella", `Ella habla, "claro".`, "She talks, of course.", "unknown"}, records[2])
}

func TestManualPrompt(t *testing.T) {
	_, items := exportItems(t)
	prompt := ManualPrompt(items[:2], 1, 2)

	assert.True(t, strings.HasPrefix(prompt, "SPANISH CORPUS REVIEW - CHUNK 1/2\n"))
	assert.Contains(t, prompt, "[1] Yo hablo español.\nEnglish: I speak Spanish.\nContext: Tier 3, HABLAR (present), subject yo\n")
	assert.NotContains(t, prompt, "Comimos")
}

func TestExportPassWrite(t *testing.T) {
	pass, _ := exportItems(t)
	dir := filepath.Join(t.TempDir(), "review")

	require.NoError(t, pass.Write(dir))

	testutil.AssertFileContains(t, filepath.Join(dir, TextFile), "Total: 3 sentences")
	testutil.AssertFileContains(t, filepath.Join(dir, CSVFile), "ID,Tier,Verb,Tense,Subject,Spanish,English,Source")
	testutil.AssertFileContains(t, filepath.Join(dir, "review-prompt-chunk-1.txt"), "CHUNK 1/2")
	testutil.AssertFileContains(t, filepath.Join(dir, "review-prompt-chunk-2.txt"), "[3] Comimos tacos.")
	testutil.AssertFileNotExists(t, filepath.Join(dir, "review-prompt-chunk-3.txt"))

	rep := pass.Report()
	assert.Equal(t, ExportTotals{Sentences: 3, Chunks: 2}, rep.Totals)
	assert.Len(t, rep.Outputs, 4)
	assert.Len(t, rep.Files, 1)
}

func TestExportPassDryRun(t *testing.T) {
	c, err := corpus.Parse([]byte(reviewCorpus))
	require.NoError(t, err)
	pass := NewExportPass(0, true, nil)
	_, err = pass.Apply(context.Background(), "tier1-complete.json", c)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "review")
	require.NoError(t, pass.Write(dir))

	testutil.AssertFileNotExists(t, dir)
	assert.Equal(t, 1, pass.Report().Totals.Chunks)
	assert.Equal(t, 1, pass.Items()[0].Tier)
}
