package checklist

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/drillmaster/internal/corpus"
	"codeberg.org/snonux/drillmaster/internal/testutil"
)

func TestValidatePass(t *testing.T) {
	dir := t.TempDir()
	good := testutil.WriteCorpus(t, dir, "tier1-complete.json", completeCorpus)
	bad := testutil.WriteCorpus(t, dir, "tier2-complete.json", `{
  "verbs": {
    "HABLAR": {
      "present": [
        {"spanish": "Yo hablo.", "english": "I speak.", "subject": "yo", "audio": "hablo.wav"},
        {"spanish": "", "english": "I speak.", "subject": "yo"}
      ]
    }
  }
}`)

	pass := NewValidatePass(nil)
	for _, file := range []string{good, bad} {
		c, err := corpus.Load(file)
		require.NoError(t, err)
		changed, err := pass.Apply(context.Background(), file, c)
		require.NoError(t, err)
		assert.False(t, changed)
	}

	assert.False(t, pass.Valid())
	rep := pass.Report()
	assert.Equal(t, 2, rep.Totals.FilesScanned)
	assert.Equal(t, 1, rep.Totals.InvalidFiles)
	assert.GreaterOrEqual(t, rep.Totals.Issues, 2, "bad audio name and empty spanish")
	require.Len(t, rep.Invalid, 1)
	assert.Equal(t, "tier2-complete.json", filepath.Base(rep.Invalid[0].File))
	assert.Equal(t, 3+rep.Totals.Issues, pass.Summary().Len())
}

func TestValidatePassMissingFile(t *testing.T) {
	_, err := NewValidatePass(nil).Apply(context.Background(), filepath.Join(t.TempDir(), "tier1-complete.json"), corpus.New("x"))
	assert.ErrorContains(t, err, "failed to read")
}
