package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCorpus = `{
  "metadata": {
    "tier": 1,
    "name": "Foundations"
  },
  "verbs": {
    "HABLAR": {
      "present": [
        {
          "spanish": "Yo hablo español.",
          "english": "I speak Spanish.",
          "subject": "yo",
          "region": "universal",
          "source": {
            "type": "generated",
            "method": "template"
          },
          "tags": [
            "tense:present"
          ]
        },
        "stray note",
        {
          "english": "You speak <b>fast</b>.",
          "spanish": "Tú hablas rápido.",
          "subject": "tú"
        }
      ],
      "metadata": {
        "english": "to speak"
      },
      "preterite": []
    },
    "BROKEN": 42
  }
}
`

func TestParseRoundTrip(t *testing.T) {
	c, err := Parse([]byte(sampleCorpus))
	require.NoError(t, err)

	out, err := c.Marshal()
	require.NoError(t, err)
	assert.Equal(t, sampleCorpus, string(out))
}

func TestParseStructure(t *testing.T) {
	c, err := Parse([]byte(sampleCorpus))
	require.NoError(t, err)

	require.Len(t, c.Verbs, 1, "non-object verb values are not verbs")
	verb := c.Verbs[0]
	assert.Equal(t, "HABLAR", verb.Name)

	require.Len(t, verb.Tenses, 2, "metadata is not a tense")
	assert.Equal(t, "present", verb.Tenses[0].Name)
	assert.Equal(t, "preterite", verb.Tenses[1].Name)

	present := verb.Tenses[0]
	assert.Len(t, present.Entries, 3)
	assert.Nil(t, present.Entries[1].Sentence)
	assert.Equal(t, `"stray note"`, string(present.Entries[1].Raw))

	sentences := present.Sentences()
	require.Len(t, sentences, 2)
	assert.Equal(t, "Yo hablo español.", sentences[0].Spanish)
	assert.Equal(t, []string{"tense:present"}, sentences[0].Tags)
	assert.Equal(t, "generated", sentences[0].SourceType())
	assert.False(t, sentences[1].HasField("region"))

	meta := verb.Metadata()
	require.NotNil(t, meta)
	english, ok := meta.String("english")
	assert.True(t, ok)
	assert.Equal(t, "to speak", english)
}

func TestParseMissingVerbs(t *testing.T) {
	_, err := Parse([]byte(`{"metadata": {}}`))
	assert.ErrorIs(t, err, ErrMissingVerbs)

	_, err = Parse([]byte(`{"verbs": []}`))
	assert.ErrorIs(t, err, ErrMissingVerbs)

	_, err = Parse([]byte(`{"verbs": `))
	assert.Error(t, err)
}

func TestLoadMissingVerbsNamesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tier3-complete.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"metadata": {"tier": 3}}`), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrMissingVerbs)
	assert.EqualError(t, err, "unexpected corpus shape (missing verbs) in "+path)
}

func TestSentenceModificationKeepsOrder(t *testing.T) {
	c, err := Parse([]byte(sampleCorpus))
	require.NoError(t, err)

	s := c.Verb("HABLAR").Tense("present").Sentences()[1]
	s.Spanish = "Tú hablas muy rápido."
	s.Audio = "tier1_HABLAR_present_0002.mp3"

	out, err := c.Marshal()
	require.NoError(t, err)

	c2, err := Parse(out)
	require.NoError(t, err)
	s2 := c2.Verb("HABLAR").Tense("present").Sentences()[1]

	assert.Equal(t, "Tú hablas muy rápido.", s2.Spanish)
	assert.Equal(t, "tier1_HABLAR_present_0002.mp3", s2.Audio)
	assert.Equal(t, []string{"english", "spanish", "subject", "audio"}, s2.fields.Keys())
	assert.False(t, s2.HasField("region"), "empty region stays absent")
	assert.Contains(t, string(out), "<b>fast</b>")
}

const nullFieldsCorpus = `{
  "verbs": {
    "SER": {
      "present": [
        {
          "spanish": "Soy.",
          "english": null,
          "subject": "yo",
          "region": null,
          "audio": null
        },
        {
          "spanish": "eres.",
          "english": "You are.",
          "subject": "tú"
        }
      ]
    }
  }
}
`

func TestNullFieldsSurviveRewrite(t *testing.T) {
	c, err := Parse([]byte(nullFieldsCorpus))
	require.NoError(t, err)

	sentences := c.Verb("SER").Tense("present").Sentences()
	assert.Empty(t, sentences[0].English)
	assert.True(t, sentences[0].HasField("english"))
	_, ok := sentences[0].fields.String("english")
	assert.False(t, ok, "null is not a string")

	out, err := c.Marshal()
	require.NoError(t, err)
	assert.Equal(t, nullFieldsCorpus, string(out))

	sentences[1].Spanish = "Eres."
	out, err = c.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(out), `"english": null`)
	assert.Contains(t, string(out), `"region": null`)
	assert.Contains(t, string(out), `"audio": null`)
	assert.NotContains(t, string(out), `""`)
}

func TestFilter(t *testing.T) {
	c, err := Parse([]byte(sampleCorpus))
	require.NoError(t, err)

	present := c.Verb("HABLAR").Tense("present")
	dropped := present.Filter(func(i int, s *Sentence) bool {
		return s.Subject != "tú"
	})

	assert.Equal(t, []int{2}, dropped)
	assert.Len(t, present.Entries, 2)
	assert.Nil(t, present.Entries[1].Sentence, "non-object entries are kept")
}

func TestWalk(t *testing.T) {
	c, err := Parse([]byte(sampleCorpus))
	require.NoError(t, err)

	var locs []Location
	err = c.Walk(func(loc Location, s *Sentence) error {
		locs = append(locs, loc)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []Location{
		{Verb: "HABLAR", Tense: "present", Index: 0},
		{Verb: "HABLAR", Tense: "present", Index: 2},
	}, locs)
	assert.Equal(t, 2, c.SentenceCount())
}

func TestNewCorpusSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tier2-complete.json")
	c := New(path)

	verb := c.AddVerb("COMER")
	verb.AddTense("present").Append(NewSentence("Yo como pan.", "I eat bread.", "yo", "universal"))
	assert.Same(t, verb, c.AddVerb("COMER"))

	meta := c.Metadata()
	require.NoError(t, meta.Set("tier", 2))
	require.NoError(t, c.SetMetadata(meta))
	require.NoError(t, c.Save())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, loaded.Path)

	s := loaded.Verb("COMER").Tense("present").Sentences()
	require.Len(t, s, 1)
	assert.Equal(t, "I eat bread.", s[0].English)
	assert.Equal(t, "universal", s[0].Region)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"tier\": 2")
	assert.Equal(t, byte('\n'), data[len(data)-1])
}

func TestSentenceSetFieldRejectsKnownKeys(t *testing.T) {
	s := NewSentence("a", "b", "yo", "")
	assert.Error(t, s.SetField("spanish", "x"))
	assert.NoError(t, s.SetField("quality", map[string]int{"score": 4}))

	raw, ok := s.Field("quality")
	assert.True(t, ok)
	assert.JSONEq(t, `{"score": 4}`, string(raw))
}

func TestIdentityKey(t *testing.T) {
	s := NewSentence("Yo hablo.", "I speak.", "yo", "universal")
	assert.Equal(t, "yo||universal||Yo hablo.||I speak.", s.IdentityKey())
}
