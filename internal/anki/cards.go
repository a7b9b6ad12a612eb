package anki

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"codeberg.org/snonux/drillmaster/internal/audit"
	"codeberg.org/snonux/drillmaster/internal/corpus"
	"codeberg.org/snonux/drillmaster/internal/generator"
	"codeberg.org/snonux/drillmaster/internal/subjects"
	"codeberg.org/snonux/drillmaster/internal/verbs"
)

// Card directions
const (
	Recognition = "recognition" // ES→EN
	Production  = "production"  // EN→ES
)

// Card is one Front/Back note
type Card struct {
	Direction   string
	Tier        int
	Verb        string
	Tense       string
	Subject     string
	Region      string
	Front       string
	Back        string
	Tags        []string
	AudioFile   string // path on disk, empty without audio
	Highlighted bool
}

// CardBuilder turns corpus sentences into cards
type CardBuilder struct {
	conj     generator.Conjugator
	region   Region
	audioDir string
	logger   *zap.Logger
}

// NewCardBuilder creates a card builder
func NewCardBuilder(conj generator.Conjugator, region Region, audioDir string, logger *zap.Logger) *CardBuilder {
	if conj == nil {
		conj = generator.Rules{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CardBuilder{conj: conj, region: region, audioDir: audioDir, logger: logger}
}

// tierVerbs lists the verbs of a tier with their English gloss. Without a
// verb list every corpus verb is used.
func tierVerbs(tier int, c *corpus.Corpus, list *verbs.List) []verbs.Entry {
	if list.Len() == 0 {
		out := make([]verbs.Entry, 0, len(c.Verbs))
		for _, v := range c.Verbs {
			out = append(out, verbs.Entry{Verb: v.Name})
		}
		return out
	}
	var out []verbs.Entry
	for _, e := range list.Entries() {
		if e.Tier() == tier {
			out = append(out, e)
		}
	}
	return out
}

// TierCards builds the cards of one tier in deck order
func (b *CardBuilder) TierCards(tier int, c *corpus.Corpus, list *verbs.List) []Card {
	var cards []Card
	for _, entry := range tierVerbs(tier, c, list) {
		v := c.Verb(entry.Verb)
		if v == nil {
			b.logger.Debug("Verb not in corpus", zap.Int("tier", tier), zap.String("verb", entry.Verb))
			continue
		}
		typeTags := verbTypeTags(v)
		for _, tense := range Tiers[tier].Tenses {
			t := v.Tense(tense)
			if t == nil {
				continue
			}
			for _, s := range t.Sentences() {
				if s.Spanish == "" || s.English == "" {
					continue
				}
				region := s.Region
				if region == "" {
					region = "universal"
				}
				if !b.region.Accepts(s.Subject, region) {
					continue
				}
				cards = append(cards, b.sentenceCards(tier, entry, tense, region, s, typeTags)...)
			}
		}
	}
	return cards
}

func verbTypeTags(v *corpus.Verb) []string {
	meta := v.Metadata()
	if meta == nil {
		return nil
	}
	var tags []string
	if ok, err := meta.Get("tags", &tags); !ok || err != nil {
		return nil
	}
	return tags
}

// sentenceCards returns the recognition and production card of a sentence
func (b *CardBuilder) sentenceCards(tier int, entry verbs.Entry, tense, region string, s *corpus.Sentence, typeTags []string) []Card {
	verb := entry.Verb
	form, hasForm := b.conj.Conjugate(verb, tense, s.Subject)

	highlight := func(text string) (string, bool) {
		if !hasForm || subjects.IsGustarVerb(verb) {
			return text, false
		}
		return Highlight(text, form)
	}

	withPronoun := s.Spanish
	if !s.Flag(audit.SkipPronounField) {
		withPronoun = subjects.PrependPronoun(s.Spanish, s.Subject, verb)
	}
	front, okFront := highlight(withPronoun)
	spanish, okBack := highlight(s.Spanish)

	sound := ""
	audioFile := ""
	if s.Audio != "" && b.audioDir != "" {
		path := filepath.Join(b.audioDir, s.Audio)
		if _, err := os.Stat(path); err == nil {
			audioFile = path
			sound = "[sound:" + s.Audio + "]"
		}
	}

	gloss := strings.ToLower(verb)
	if entry.English != "" {
		gloss += " (" + entry.English + ")"
	}

	tags := cardTags(tier, verb, tense, s.Subject, region, typeTags)
	base := Card{
		Tier:      tier,
		Verb:      verb,
		Tense:     tense,
		Subject:   s.Subject,
		Region:    region,
		Tags:      tags,
		AudioFile: audioFile,
	}

	rec := base
	rec.Direction = Recognition
	rec.Front = front + sound
	rec.Back = fmt.Sprintf(`<div style="font-size: 1.1em; margin-bottom: 0.5em;">%s</div>`+
		`<div style="font-size: 0.85em; color: #666; margin-top: 0.5em;"><em>%s - %s</em></div>`,
		s.English, gloss, tense)
	rec.Highlighted = okFront

	prod := base
	prod.Direction = Production
	prod.Front = s.English
	prod.Back = fmt.Sprintf(`<div style="font-size: 1.1em;">%s</div>`, spanish) + sound
	prod.Highlighted = okBack

	return []Card{rec, prod}
}

// cardTags builds the Anki tags of a card. Anki separates tags by spaces.
func cardTags(tier int, verb, tense, subject, region string, typeTags []string) []string {
	tags := []string{
		"verb::" + verb,
		"tense::" + tense,
		"subject::" + strings.ReplaceAll(subject, "/", "-"),
		fmt.Sprintf("tier::%d", tier),
	}
	if region != "" && region != "universal" {
		tags = append(tags, "region::"+region)
	}
	for _, t := range typeTags {
		tags = append(tags, "type::"+t)
	}
	for i, t := range tags {
		tags[i] = strings.Join(strings.Fields(t), "_")
	}
	return tags
}
