package corpus

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		doc        string
		wantIssues bool
	}{
		{
			name: "valid corpus",
			doc: `{"metadata": {}, "verbs": {"SER": {"present": [
				{"spanish": "Yo soy alto.", "english": "I am tall.", "subject": "yo", "tags": ["tense:present"]}
			], "metadata": {"english": "to be"}}}}`,
		},
		{
			name:       "missing verbs",
			doc:        `{"metadata": {}}`,
			wantIssues: true,
		},
		{
			name:       "free text tag",
			doc:        `{"verbs": {"SER": {"present": [{"spanish": "a", "english": "b", "subject": "yo", "tags": ["present"]}]}}}`,
			wantIssues: true,
		},
		{
			name:       "missing english",
			doc:        `{"verbs": {"SER": {"present": [{"spanish": "a", "subject": "yo"}]}}}`,
			wantIssues: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues, err := Validate([]byte(tt.doc))
			require.NoError(t, err)
			if tt.wantIssues {
				assert.NotEmpty(t, issues)
			} else {
				assert.Empty(t, issues)
			}
		})
	}
}

func TestWithLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tier1-complete.json")

	called := false
	err := WithLock(path, func() error {
		called = true
		// A second lock attempt on the same file must fail while held
		return WithLock(path, func() error { return nil })
	})
	assert.Error(t, err)
	assert.True(t, called)

	assert.NoError(t, WithLock(path, func() error { return nil }))
	assert.NoFileExists(t, LockPath(path))
}
