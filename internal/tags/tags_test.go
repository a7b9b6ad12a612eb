package tags

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/drillmaster/internal/corpus"
)

func TestStandardize(t *testing.T) {
	tests := []struct {
		name        string
		in          []string
		verb        string
		want        []string
		wantUnknown []string
	}{
		{
			name: "legacy tags mapped",
			in:   []string{"present", "ar-verb", "regular"},
			verb: "UNKNOWNVERB",
			want: []string{"regularity:regular", "tense:present", "verb-type:ar", "word-type:verb"},
		},
		{
			name: "metadata added without duplicates",
			in:   []string{"tense:present", "verb-type:er"},
			verb: "SER",
			want: []string{"copula:true", "regularity:highly-irregular", "tense:present", "verb-type:er", "word-type:verb"},
		},
		{
			name:        "unknown kept",
			in:          []string{"daily-life", "daily-life"},
			verb:        "",
			want:        []string{"daily-life", "word-type:verb"},
			wantUnknown: []string{"daily-life"},
		},
		{
			name: "backwards verb",
			in:   []string{"backwards-verb"},
			verb: "GUSTAR",
			want: []string{"regularity:regular", "special-construction:indirect-object", "verb-type:ar", "word-type:verb"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, unknown := Standardize(tt.in, tt.verb)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantUnknown, unknown)
		})
	}
}

func TestStandardizeIdempotent(t *testing.T) {
	first, _ := Standardize([]string{"preterite", "reflexive", "custom:x"}, "LEVANTARSE")
	second, unknown := Standardize(first, "LEVANTARSE")
	assert.Equal(t, first, second)
	assert.Empty(t, unknown)
}

func TestPassApply(t *testing.T) {
	c, err := corpus.Parse([]byte(`{"verbs": {"HABLAR": {"present": [
		{"spanish": "Hablo.", "english": "I speak.", "subject": "yo", "tags": ["present"]},
		{"spanish": "Hablas.", "english": "You speak.", "subject": "tú"}
	]}}}`))
	require.NoError(t, err)

	pass := NewPass(false, nil)
	changed, err := pass.Apply(context.Background(), "tier1-complete.json", c)
	require.NoError(t, err)
	assert.True(t, changed)

	sentences := c.Verb("HABLAR").Tense("present").Sentences()
	assert.Equal(t, []string{"regularity:regular", "tense:present", "verb-type:ar", "word-type:verb"}, sentences[0].Tags)
	assert.Nil(t, sentences[1].Tags, "sentences without tags stay untagged")

	rep := pass.Report()
	assert.Equal(t, Totals{VerbsProcessed: 1, TagSetsChanged: 1, FilesTouched: 1}, rep.Totals)

	changed, err = pass.Apply(context.Background(), "tier1-complete.json", c)
	require.NoError(t, err)
	assert.False(t, changed)
}
