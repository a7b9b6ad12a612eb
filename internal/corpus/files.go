package corpus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrCorpusDirMissing is returned when the corpus directory does not exist
	ErrCorpusDirMissing = errors.New("corpus dir not found")
	// ErrNoCorpusFiles is returned when the directory holds no tier corpus files
	ErrNoCorpusFiles = errors.New("no tier corpus files found")
)

var (
	corpusFilePattern = regexp.MustCompile(`(?i)^tier[1-5]-complete(\.with-audio)?\.json$`)
	tierPattern       = regexp.MustCompile(`^tier(\d+)`)
)

// Variant selects which corpus files a pass works on
type Variant string

const (
	VariantWithAudio Variant = "with-audio"
	VariantComplete  Variant = "complete"
	VariantBoth      Variant = "both"
)

// ParseVariant validates a --variant flag value
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(s); v {
	case VariantWithAudio, VariantComplete, VariantBoth:
		return v, nil
	default:
		return "", fmt.Errorf("invalid variant %q (expected with-audio, complete or both)", s)
	}
}

// Matches reports whether a corpus file name belongs to the variant
func (v Variant) Matches(name string) bool {
	withAudio := IsWithAudio(name)
	switch v {
	case VariantWithAudio:
		return withAudio
	case VariantComplete:
		return !withAudio
	default:
		return true
	}
}

// IsCorpusFile reports whether name looks like a tier corpus file
func IsCorpusFile(name string) bool {
	return corpusFilePattern.MatchString(filepath.Base(name))
}

// IsWithAudio reports whether name is the with-audio variant of a corpus file
func IsWithAudio(name string) bool {
	return strings.HasSuffix(strings.ToLower(filepath.Base(name)), ".with-audio.json")
}

// ListFiles returns the sorted tier corpus files in dir that match variant
func ListFiles(dir string, variant Variant) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrCorpusDirMissing, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !IsCorpusFile(entry.Name()) || !variant.Matches(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in: %s", ErrNoCorpusFiles, dir)
	}
	return files, nil
}

// TierOf returns the tier number encoded in a corpus file name
func TierOf(path string) (int, bool) {
	m := tierPattern.FindStringSubmatch(strings.ToLower(filepath.Base(path)))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// TierPrefix returns the "tierN" prefix of a corpus file name, or "tier0"
func TierPrefix(path string) string {
	n, ok := TierOf(path)
	if !ok {
		return "tier0"
	}
	return fmt.Sprintf("tier%d", n)
}

// WithAudioPath returns the with-audio sibling of a corpus file
func WithAudioPath(path string) string {
	if IsWithAudio(path) {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".with-audio.json"
}

// FileName returns the corpus file name for a tier and variant
func FileName(tier int, withAudio bool) string {
	if withAudio {
		return fmt.Sprintf("tier%d-complete.with-audio.json", tier)
	}
	return fmt.Sprintf("tier%d-complete.json", tier)
}
