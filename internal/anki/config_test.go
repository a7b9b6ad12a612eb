package anki

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTierArg(t *testing.T) {
	tests := []struct {
		arg   string
		tiers []int
		uber  bool
	}{
		{"", []int{1, 2, 3, 4, 5}, false},
		{"3", []int{3}, false},
		{"1,3,5", []int{1, 3, 5}, false},
		{"5,1,1", []int{1, 5}, false},
		{"2-4", []int{2, 3, 4}, false},
		{"all", nil, true},
		{"1-2,all", []int{1, 2}, true},
		{"0-7", []int{1, 2, 3, 4, 5}, false},
		{"4-9999999999", []int{4, 5}, false},
		{"x,2", []int{2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			sel, err := ParseTierArg(tt.arg)
			require.NoError(t, err)
			assert.Equal(t, tt.tiers, sel.Tiers)
			assert.Equal(t, tt.uber, sel.Uber)
		})
	}
}

func TestParseTierArgInvalid(t *testing.T) {
	for _, arg := range []string{"9", "a-b", "x"} {
		_, err := ParseTierArg(arg)
		assert.Error(t, err, arg)
	}
}

func TestLookupRegion(t *testing.T) {
	r, err := LookupRegion("mexico")
	require.NoError(t, err)
	assert.Equal(t, "mexico", r.FilePrefix)

	_, err = LookupRegion("argentina")
	assert.ErrorContains(t, err, "valid: mexico")
}

func TestRegionAccepts(t *testing.T) {
	r := Regions["mexico"]

	assert.True(t, r.Accepts("yo", "universal"))
	assert.True(t, r.Accepts("ustedes", "universal"))
	assert.False(t, r.Accepts("vos", "universal"))
	assert.False(t, r.Accepts("vosotros", "universal"))
	assert.False(t, r.Accepts("él/ella/usted", "universal"))
	assert.False(t, r.Accepts("yo", "spain"))
}

func TestFileNames(t *testing.T) {
	r := Regions["mexico"]

	assert.Equal(t, "DrillMaster-Tier1-Foundations-mexico.apkg", DeckFileName(1, r))
	assert.Equal(t, "DrillMaster-Tier4-Emotional&Cognitive-mexico.apkg", DeckFileName(4, r))
	assert.Equal(t, "DrillMaster-Tier5-Gustar-TypeVerbs-mexico.apkg", DeckFileName(5, r))
	assert.Equal(t, "DrillMaster-Complete-mexico.apkg", UberFileName(r))
}

func TestTenseName(t *testing.T) {
	assert.Equal(t, "Going-to Future", TenseName("going-to"))
	assert.Equal(t, "imperfect", TenseName("imperfect"))
}
