package anki

import "fmt"

// Deck ids start here; tier N decks live at BaseDeckID + N*1000
const (
	BaseDeckID  int64 = 1607392320
	NoteTypeID  int64 = 1607392319
	UberName          = "DrillMaster Complete"
	defaultDeck int64 = 1
)

// Deck is an Anki deck and the cards filed in it
type Deck struct {
	ID    int64
	Name  string
	Cards []Card
}

var directionNames = []struct {
	direction string
	name      string
}{
	{Recognition, "A Recognition (ES→EN)"},
	{Production, "B Production (EN→ES)"},
}

// TierDecks lays out the decks of one tier: the tier deck, then one
// subdeck per tense and direction that has cards. A non-empty root nests
// everything below it.
func TierDecks(tier int, cards []Card, root string) []Deck {
	cfg := Tiers[tier]
	baseID := BaseDeckID + int64(tier)*1000
	name := fmt.Sprintf("Tier %d: %s", tier, cfg.Name)
	if root != "" {
		name = root + "::" + name
	}

	byTense := make(map[string]map[string][]Card)
	for _, c := range cards {
		if c.Tier != tier {
			continue
		}
		if byTense[c.Tense] == nil {
			byTense[c.Tense] = make(map[string][]Card)
		}
		byTense[c.Tense][c.Direction] = append(byTense[c.Tense][c.Direction], c)
	}

	decks := []Deck{{ID: baseID, Name: name}}
	counter := int64(1)
	index := 0
	for _, tense := range cfg.Tenses {
		group, ok := byTense[tense]
		if !ok {
			continue
		}
		index++
		for _, d := range directionNames {
			dc := group[d.direction]
			if len(dc) == 0 {
				continue
			}
			decks = append(decks, Deck{
				ID:    baseID + counter,
				Name:  fmt.Sprintf("%s::%02d %s::%s", name, index, TenseName(tense), d.name),
				Cards: dc,
			})
			counter++
		}
	}
	return decks
}

// UberDecks nests the decks of every tier below one root deck
func UberDecks(cards []Card) []Deck {
	decks := []Deck{{ID: BaseDeckID, Name: UberName}}
	for tier := MinTier; tier <= MaxTier; tier++ {
		tierDecks := TierDecks(tier, cards, UberName)
		if len(tierDecks) == 1 {
			continue
		}
		decks = append(decks, tierDecks...)
	}
	return decks
}

// CardCount returns the number of cards filed in decks
func CardCount(decks []Deck) int {
	n := 0
	for _, d := range decks {
		n += len(d.Cards)
	}
	return n
}
