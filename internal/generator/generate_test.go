package generator

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/drillmaster/internal/testutil"
	"codeberg.org/snonux/drillmaster/internal/verbs"
)

const verbList = "verb\tenglish\ttags\tnotes\n" +
	"hablar\tto speak\ttier:1\t\n" +
	"gustar\tto like\ttier:1;special-construction:indirect-object\t\n" +
	"levantarse\tto get up\ttier:2;reflexive:true\t\n"

func readVerbs(t *testing.T) *verbs.List {
	t.Helper()
	path := filepath.Join(t.TempDir(), "verbs.tsv")
	testutil.CreateTestFile(t, path, []byte(verbList))
	list, err := verbs.ReadFile(path)
	require.NoError(t, err)
	return list
}

func TestGeneratorTier(t *testing.T) {
	g := New(Options{CorpusDir: t.TempDir(), Verbs: readVerbs(t)}, nil)

	c, err := g.Tier(1)
	require.NoError(t, err)
	require.Len(t, c.Verbs, 1, "gustar-type verbs are skipped")
	assert.Equal(t, "HABLAR", c.Verbs[0].Name)
	assert.Equal(t, len(Tenses)*len(Subjects)*SentencesPerSubject, c.SentenceCount())

	present := c.Verbs[0].Tense("present").Sentences()
	require.Len(t, present, len(Subjects)*SentencesPerSubject)

	first, second := present[0], present[1]
	assert.True(t, strings.HasPrefix(first.Spanish, "Yo hablo español "), first.Spanish)
	assert.True(t, strings.HasPrefix(first.English, "I speak Spanish "), first.English)
	assert.True(t, strings.HasSuffix(first.Spanish, "."))
	assert.NotEqual(t, first.Spanish, second.Spanish)
	assert.Equal(t, "yo", first.Subject)
	assert.Equal(t, "universal", first.Region)
	assert.Equal(t, Source, first.SourceType())
	assert.Equal(t, []string{"region:universal", "subject:yo", "tense:present", "tier:1", "word-type:verb"}, first.Tags)

	tu := present[2]
	assert.Equal(t, "tú", tu.Subject)
	assert.True(t, strings.HasPrefix(tu.English, "You (informal) speak Spanish "), tu.English)

	rep := g.Report()
	assert.Equal(t, 1, rep.Totals.Verbs)
	assert.Equal(t, 1, rep.Totals.Skipped)
	require.Len(t, rep.Skipped, 1)
	assert.Equal(t, "GUSTAR", rep.Skipped[0].Verb)
}

func TestGeneratorIsDeterministic(t *testing.T) {
	list := readVerbs(t)
	a, err := New(Options{Verbs: list}, nil).Tier(2)
	require.NoError(t, err)
	b, err := New(Options{Verbs: list}, nil).Tier(2)
	require.NoError(t, err)

	sa := a.Verbs[0].Tense("preterite").Sentences()
	sb := b.Verbs[0].Tense("preterite").Sentences()
	require.Equal(t, len(sa), len(sb))
	for i := range sa {
		assert.Equal(t, sa[i].Spanish, sb[i].Spanish)
		assert.Equal(t, sa[i].English, sb[i].English)
	}
	assert.True(t, strings.HasPrefix(sa[0].Spanish, "Yo me levanté "), sa[0].Spanish)
	assert.True(t, strings.HasPrefix(sa[0].English, "I got up "), sa[0].English)
}

func TestGeneratorRun(t *testing.T) {
	dir := t.TempDir()
	g := New(Options{CorpusDir: dir, Verbs: readVerbs(t), Tiers: []int{1}}, nil)
	require.NoError(t, g.Run())

	out := filepath.Join(dir, FileName(1))
	testutil.AssertFileExists(t, out)
	c := testutil.LoadCorpus(t, out)

	region, ok := c.Metadata().String("region")
	require.True(t, ok)
	assert.Equal(t, "mexico", region)

	var tier int
	ok, err := c.Metadata().Get("tier", &tier)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, tier)
	assert.Len(t, g.Report().Outputs, 1)
}

func TestGeneratorDryRun(t *testing.T) {
	dir := t.TempDir()
	g := New(Options{CorpusDir: dir, Verbs: readVerbs(t), Tiers: []int{1, 2}, DryRun: true}, nil)
	require.NoError(t, g.Run())

	testutil.AssertFileNotExists(t, filepath.Join(dir, FileName(1)))
	assert.Empty(t, g.Report().Outputs)
	assert.Equal(t, 2, g.Report().Totals.Verbs)
}

func TestGeneratorRequiresVerbs(t *testing.T) {
	list, err := verbs.ReadFileIfExists(filepath.Join(t.TempDir(), "missing.tsv"))
	require.NoError(t, err)
	assert.Error(t, New(Options{Verbs: list}, nil).Run())
}
