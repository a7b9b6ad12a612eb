package textfix

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/drillmaster/internal/corpus"
)

func TestCapitalizeFirstLetter(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hablo español.", "Hablo español."},
		{"¿dónde está?", "¿Dónde está?"},
		{"¡éxito!", "¡Éxito!"},
		{`"ñandú" es un ave.`, `"Ñandú" es un ave.`},
		{"Ya está.", "Ya está."},
		{"123 ...", "123 ..."},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CapitalizeFirstLetter(tt.in))
		})
	}
}

func TestCapitalizationPass(t *testing.T) {
	c, err := corpus.Parse([]byte(`{"verbs": {"SER": {"present": [
		{"spanish": "¿eres tú?", "english": "Is it you?", "subject": "tú", "audio": "x.mp3"},
		{"spanish": "Soy yo.", "english": "It is me.", "subject": "yo"}
	]}}}`))
	require.NoError(t, err)

	pass := NewCapitalizationPass(true)
	changed, err := pass.Apply(context.Background(), "tier1-complete.json", c)
	require.NoError(t, err)
	assert.True(t, changed)

	assert.Equal(t, "¿Eres tú?", c.Verb("SER").Tense("present").Sentences()[0].Spanish)
	rep := pass.Report()
	assert.Equal(t, Totals{FilesTouched: 1, Changes: 1}, rep.Totals)
	require.Len(t, rep.Changes, 1)
	assert.Equal(t, "¿eres tú?", rep.Changes[0].SpanishBefore)
	require.NotNil(t, rep.Changes[0].Audio)

	changed, err = pass.Apply(context.Background(), "tier1-complete.json", c)
	require.NoError(t, err)
	assert.False(t, changed, "second run is a no-op")
}

func TestFixSpanish(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		want        string
		wantApplied int
	}{
		{"adjective", "Ella está siendo muy inteligente.", "Ella es muy inteligente.", 1},
		{"capitalized adjective", "Están siendo altos.", "Son altos.", 1},
		{"profession with article", "Él está siendo un doctor famoso.", "Él es un doctor famoso.", 1},
		{"stative gerund", "Estoy teniendo un problema.", "Tengo un problema.", 1},
		{"saber", "Ya estamos sabiendo la verdad.", "Ya sabemos la verdad.", 1},
		{"food", "Están tomando tacos.", "Están comiendo tacos.", 1},
		{"natural progressive untouched", "Estoy hablando con ella.", "Estoy hablando con ella.", 0},
		{"manual override wins", "Está siendo muy guapa con ese vestido.", "Está muy guapa con ese vestido.", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, applied := FixSpanish(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Len(t, applied, tt.wantApplied)
		})
	}
}

func TestSpanishPass(t *testing.T) {
	c, err := corpus.Parse([]byte(`{"verbs": {"TENER": {"present": [
		{"spanish": "Estoy teniendo frío.", "english": "I am cold.", "subject": "yo"},
		{"spanish": "Tienes razón.", "english": "You are right.", "subject": "tú"}
	]}}}`))
	require.NoError(t, err)

	pass := NewSpanishPass(false)
	changed, err := pass.Apply(context.Background(), "data/corpus/tier2-complete.json", c)
	require.NoError(t, err)
	assert.True(t, changed)

	rep := pass.Report()
	assert.Equal(t, 2, rep.SentencesChecked)
	assert.Equal(t, 1, rep.FixesMade)
	require.Contains(t, rep.ByTier, "2")
	assert.Equal(t, 1, rep.ByTier["2"].FixesMade)
	require.Len(t, rep.Examples, 1)
	assert.Equal(t, "Tengo frío.", rep.Examples[0].After)
}

func TestLoadFixes(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "fixes.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[
		{"id": 1, "issue": "typo", "currentSpanish": "Viviste una tiempo.", "fixedSpanish": "Viviste un tiempo.", "fixedEnglish": "You lived a time."}
	]`), 0644))

	yamlPath := filepath.Join(dir, "fixes.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`- id: 1
  issue: typo
  currentSpanish: Viviste una tiempo.
  fixedSpanish: Viviste un tiempo.
  fixedEnglish: You lived a time.
`), 0644))

	fromJSON, err := LoadFixes(jsonPath)
	require.NoError(t, err)
	fromYAML, err := LoadFixes(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, fromJSON, fromYAML)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"id": 2, "fixedSpanish": "x"}]`), 0644))
	_, err = LoadFixes(bad)
	assert.Error(t, err)

	roundTrip := filepath.Join(dir, "out", "fixes.yml")
	require.NoError(t, SaveFixes(roundTrip, fromJSON))
	again, err := LoadFixes(roundTrip)
	require.NoError(t, err)
	assert.Equal(t, fromJSON, again)
}

func TestApplyPass(t *testing.T) {
	c, err := corpus.Parse([]byte(`{"verbs": {"VIVIR": {"preterite": [
		{"spanish": "Viviste una tiempo.", "english": "You lived an time.", "subject": "tú", "quality": {"score": 3}}
	]}}}`))
	require.NoError(t, err)

	fixes := []Fix{
		{ID: 1, Issue: "typo", CurrentSpanish: "Viviste una tiempo.", FixedSpanish: "Viviste un tiempo.", FixedEnglish: "You lived a time."},
		{ID: 2, Issue: "missing", CurrentSpanish: "No existe.", FixedSpanish: "Existe."},
	}
	pass := NewApplyPass("fixes.json", fixes, false)
	changed, err := pass.Apply(context.Background(), "tier1-complete.json", c)
	require.NoError(t, err)
	assert.True(t, changed)

	s := c.Verb("VIVIR").Tense("preterite").Sentences()[0]
	assert.Equal(t, "Viviste un tiempo.", s.Spanish)
	assert.Equal(t, "You lived a time.", s.English)

	raw, ok := s.Field("quality")
	require.True(t, ok)
	var quality map[string]any
	require.NoError(t, json.Unmarshal(raw, &quality))
	assert.Equal(t, float64(3), quality["score"])
	assert.Equal(t, true, quality["reviewed"])
	assert.Equal(t, "typo", quality["fixIssue"])

	rep := pass.Report()
	assert.Equal(t, FixTotals{Fixes: 2, Applied: 1, NotFound: 1, FilesTouched: 1}, rep.Totals)
	require.Len(t, rep.NotFound, 1)
	assert.Equal(t, 2, rep.NotFound[0].ID)
}
