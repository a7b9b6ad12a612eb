package anki

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/drillmaster/internal/corpus"
)

func tierOneCards(t *testing.T) []Card {
	t.Helper()
	f := newFixture(t)
	c, err := corpus.Parse([]byte(tierOneCorpus))
	require.NoError(t, err)

	b := NewCardBuilder(nil, Regions["mexico"], f.audioDir, nil)
	return b.TierCards(1, c, f.verbs)
}

func TestTierCards(t *testing.T) {
	cards := tierOneCards(t)
	require.Len(t, cards, 8, "bucket subjects, foreign regions and tenses outside the tier are left out")

	rec, prod := cards[0], cards[1]
	assert.Equal(t, Recognition, rec.Direction)
	assert.Equal(t, "Yo <strong>hablo</strong> español todos los días.[sound:tier1_HABLAR_present_0001.mp3]", rec.Front)
	assert.Contains(t, rec.Back, "I speak Spanish every day.")
	assert.Contains(t, rec.Back, "<em>hablar (to speak) - present</em>")
	assert.True(t, rec.Highlighted)
	assert.Equal(t, "tier1_HABLAR_present_0001.mp3", filepath.Base(rec.AudioFile))

	assert.Equal(t, Production, prod.Direction)
	assert.Equal(t, "I speak Spanish every day.", prod.Front)
	assert.Equal(t, `<div style="font-size: 1.1em;"><strong>Hablo</strong> español todos los días.</div>[sound:tier1_HABLAR_present_0001.mp3]`, prod.Back)
	assert.Equal(t, []string{"verb::HABLAR", "tense::present", "subject::yo", "tier::1", "type::regular"}, prod.Tags)

	question := cards[2]
	assert.Equal(t, "¿Tú <strong>hablas</strong> inglés?", question.Front)
	assert.Empty(t, question.AudioFile)

	preterite := cards[4]
	assert.Equal(t, "preterite", preterite.Tense)
	assert.Equal(t, "universal", preterite.Region)
	assert.Equal(t, "Ella <strong>habló</strong> con su madre.", preterite.Front)

	gustar := cards[6]
	assert.Equal(t, "GUSTAR", gustar.Verb)
	assert.Equal(t, "Me gusta el café.", gustar.Front)
	assert.False(t, gustar.Highlighted)
}

func TestTierCardsSkipPronoun(t *testing.T) {
	c := corpus.New("tier1-complete.json")
	v := c.AddVerb("COMER")
	s := corpus.NewSentence("Como tacos.", "I eat tacos.", "yo", "universal")
	require.NoError(t, s.SetField("skipPronounPrepend", true))
	v.AddTense("present").Append(s)

	cards := NewCardBuilder(nil, Regions["mexico"], "", nil).TierCards(1, c, nil)
	require.Len(t, cards, 2)
	assert.Equal(t, "<strong>Como</strong> tacos.", cards[0].Front)
	assert.Empty(t, cards[0].AudioFile)
	assert.Contains(t, cards[0].Back, "<em>comer - present</em>")
}

func TestCardTags(t *testing.T) {
	tags := cardTags(2, "LEVANTARSE", "present", "ellos", "mexico", []string{"stem change"})
	assert.Equal(t, []string{
		"verb::LEVANTARSE",
		"tense::present",
		"subject::ellos",
		"tier::2",
		"region::mexico",
		"type::stem_change",
	}, tags)
}
