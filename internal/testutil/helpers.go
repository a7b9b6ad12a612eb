package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/snonux/drillmaster/internal/corpus"
)

// CreateTestDirectory returns a temp root laid out like a checkout:
// data/corpus, data/audio and output
func CreateTestDirectory(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	for _, dir := range []string{filepath.Join("data", "corpus"), filepath.Join("data", "audio"), "output"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	return root
}

// CreateTestFile writes content to path, creating parent directories
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteCorpus writes corpus JSON into dir under name and returns its path
func WriteCorpus(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	CreateTestFile(t, path, []byte(content))
	return path
}

// LoadCorpus loads a corpus file and fails the test on error
func LoadCorpus(t *testing.T, path string) *corpus.Corpus {
	t.Helper()

	c, err := corpus.Load(path)
	if err != nil {
		t.Fatalf("load corpus %s: %v", path, err)
	}
	return c
}

// Sentences returns the sentences of verb/tense in a corpus file
func Sentences(t *testing.T, path, verb, tense string) []*corpus.Sentence {
	t.Helper()

	v := LoadCorpus(t, path).Verb(verb)
	if v == nil {
		t.Fatalf("verb %s missing from %s", verb, path)
	}
	ts := v.Tense(tense)
	if ts == nil {
		t.Fatalf("tense %s.%s missing from %s", verb, tense, path)
	}
	return ts.Sentences()
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// AssertFileExists fails the test when path is missing
func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if !exists(path) {
		t.Errorf("expected %s to exist", path)
	}
}

// AssertFileNotExists fails the test when path is present
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if exists(path) {
		t.Errorf("expected %s to be absent", path)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// AssertFileContent compares the whole file with expected
func AssertFileContent(t *testing.T, path string, expected []byte) {
	t.Helper()
	if got := readFile(t, path); got != string(expected) {
		t.Errorf("%s:\nwant %q\ngot  %q", path, expected, got)
	}
}

// AssertFileContains fails unless the file contains substring
func AssertFileContains(t *testing.T, path string, substring string) {
	t.Helper()
	if got := readFile(t, path); !strings.Contains(got, substring) {
		t.Errorf("%s does not contain %q", path, substring)
	}
}
