package anki

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deckNames(decks []Deck) []string {
	names := make([]string, len(decks))
	for i, d := range decks {
		names[i] = d.Name
	}
	return names
}

func TestTierDecks(t *testing.T) {
	decks := TierDecks(1, tierOneCards(t), "")

	assert.Equal(t, []string{
		"Tier 1: Foundations",
		"Tier 1: Foundations::01 Present::A Recognition (ES→EN)",
		"Tier 1: Foundations::01 Present::B Production (EN→ES)",
		"Tier 1: Foundations::02 Preterite::A Recognition (ES→EN)",
		"Tier 1: Foundations::02 Preterite::B Production (EN→ES)",
	}, deckNames(decks))

	for i, d := range decks {
		assert.Equal(t, BaseDeckID+1000+int64(i), d.ID)
	}
	assert.Empty(t, decks[0].Cards)
	assert.Len(t, decks[1].Cards, 3)
	assert.Len(t, decks[3].Cards, 1)
	assert.Equal(t, 8, CardCount(decks))
}

func TestTierDecksIgnoresOtherTiers(t *testing.T) {
	decks := TierDecks(2, tierOneCards(t), "")
	require.Len(t, decks, 1)
	assert.Equal(t, "Tier 2: Daily Routines", decks[0].Name)
}

func TestUberDecks(t *testing.T) {
	decks := UberDecks(tierOneCards(t))

	require.Len(t, decks, 6)
	assert.Equal(t, UberName, decks[0].Name)
	assert.Equal(t, BaseDeckID, decks[0].ID)
	assert.Equal(t, "DrillMaster Complete::Tier 1: Foundations", decks[1].Name)
	assert.Equal(t, "DrillMaster Complete::Tier 1: Foundations::02 Preterite::B Production (EN→ES)", decks[5].Name)
	assert.Equal(t, 8, CardCount(decks))
}
