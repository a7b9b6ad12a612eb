package cloze

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/drillmaster/internal/corpus"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		spanish string
		want    string
	}{
		{"Yo ___ en Madrid.", "multiple_underscores"},
		{"Yo _____ en Madrid.", "long_underscore_sequence"},
		{"Ella ___ y él ___ todos los días.", "multiple_blanks"},
		{"Me llamo ___.", "name_blanks"},
		{"Completa las oraciones con el verbo.", "exercise_instruction"},
		{"Ella escribe una carta a su madre.", ""},
		{"Modelo: Yo como pan.", TextbookExercise},
		{"ROSA: Hola, ¿qué tal?", TextbookExercise},
		{"Hablo español todos los días.", ""},
	}

	for _, tt := range tests {
		t.Run(tt.spanish, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.spanish))
		})
	}
}

func TestIsCritical(t *testing.T) {
	assert.True(t, IsCritical("Me ___ mucho la música clásica.", "GUSTAR", 5))
	assert.False(t, IsCritical("Me ___ mucho.", "GUSTAR", 5), "too few content words")
	assert.False(t, IsCritical("Me ___ mucho la música clásica.", "GUSTAR", 1), "not critical in tier 1")
	assert.False(t, IsCritical("Yo ___ mucho en la casa.", "HABLAR", 5))
}

func TestPassApply(t *testing.T) {
	c, err := corpus.Parse([]byte(`{"verbs": {
  "GUSTAR": {"present": [
    {"spanish": "Me ___ mucho la música clásica.", "english": "I like classical music a lot.", "subject": "me"},
    {"spanish": "Me ___.", "english": "I like it.", "subject": "me"},
    {"spanish": "Me gusta el café.", "english": "I like coffee.", "subject": "me"}
  ]}
}}`))
	require.NoError(t, err)

	pass := NewPass(false)
	changed, err := pass.Apply(context.Background(), "tier5-complete.json", c)
	require.NoError(t, err)
	assert.True(t, changed)

	sentences := c.Verb("GUSTAR").Tense("present").Sentences()
	require.Len(t, sentences, 2)
	assert.Equal(t, "Me gusta el café.", sentences[1].Spanish)

	rep := pass.Report()
	assert.Equal(t, 1, rep.TotalRemoved)
	assert.Equal(t, &TierStats{Removed: 1, Preserved: 1, TotalBefore: 3, TotalAfter: 2}, rep.ByTier["5"])
	require.Len(t, rep.RemovedSentences, 1)
	assert.Equal(t, 1, rep.RemovedSentences[0].Index)
	assert.Equal(t, map[string]int{"multiple_underscores": 1}, rep.PatternsFound)
}
