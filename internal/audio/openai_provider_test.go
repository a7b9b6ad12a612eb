package audio

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCachedProvider(t *testing.T) *OpenAIProvider {
	t.Helper()
	cfg := DefaultProviderConfig()
	cfg.OpenAIKey = "sk-test"
	cfg.CacheDir = filepath.Join(t.TempDir(), "tts-cache")
	cfg.EnableCache = true
	p, err := NewOpenAIProvider(cfg, nil)
	require.NoError(t, err)
	return p
}

func TestNewOpenAIProviderRequiresKey(t *testing.T) {
	_, err := NewOpenAIProvider(&Config{}, nil)
	assert.EqualError(t, err, "OpenAI API key is required")
}

func TestNewOpenAIProviderCreatesCacheDir(t *testing.T) {
	p := newCachedProvider(t)

	require.NotNil(t, p.cache)
	assert.DirExists(t, p.cache.dir)
	assert.Equal(t, "openai", p.Name())
	assert.NoError(t, p.IsAvailable())
}

func TestNewOpenAIProviderWithoutCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "unused")
	p, err := NewOpenAIProvider(&Config{OpenAIKey: "sk-test", CacheDir: dir}, nil)
	require.NoError(t, err)

	assert.Nil(t, p.cache)
	assert.NoDirExists(t, dir)
}

func TestOpenAIProviderUnavailableWithoutKey(t *testing.T) {
	p := &OpenAIProvider{config: &Config{}}
	assert.ErrorContains(t, p.IsAvailable(), "not configured")
}

func TestNormalizeSpanishText(t *testing.T) {
	for _, tc := range [][2]string{
		{"Yo hablo español.", "Yo hablo español."},
		{"¿Tú comes aquí?", "¿Tú comes aquí?"},
		{"  ¡Ella canta!  ", "¡Ella canta!"},
		{"Nosotros\tvivimos   en\nMéxico.", "Nosotros vivimos en México."},
		{"Ustedes  no   trabajan los domingos.", "Ustedes no trabajan los domingos."},
	} {
		assert.Equal(t, tc[1], normalizeSpanishText(tc[0]), tc[0])
	}
}

func TestCacheKeyDependsOnSettings(t *testing.T) {
	p := &OpenAIProvider{
		config: &Config{OpenAIModel: "tts-1", OpenAIVoice: "alloy", OpenAISpeed: 1.0},
	}

	base := p.cacheKey("Yo como.")
	assert.Len(t, base, 32)
	assert.Equal(t, base, p.cacheKey("Yo como."))
	assert.NotEqual(t, base, p.cacheKey("Tú comes."))

	p.config.OpenAISpeed = 0.9
	assert.NotEqual(t, base, p.cacheKey("Yo como."), "speed must change the key")

	// tts-1 ignores instructions, so they must not split the cache
	p.config.OpenAISpeed = 1.0
	p.config.OpenAIInstruction = "Habla despacio."
	assert.Equal(t, base, p.cacheKey("Yo como."))

	p.config.OpenAIModel = "gpt-4o-mini-tts"
	slow := p.cacheKey("Yo como.")
	p.config.OpenAIInstruction = "Habla rápido."
	assert.NotEqual(t, slow, p.cacheKey("Yo como."))
}

func TestSpeechCachePath(t *testing.T) {
	c := &speechCache{dir: "cache"}
	key := cacheKey("Yo como.", "tts-1")

	path := c.path(key)
	assert.Equal(t, filepath.Join("cache", key[:2]), filepath.Dir(path))
	assert.Equal(t, key[2:]+".mp3", filepath.Base(path))
	assert.NotEqual(t, key, cacheKey("Yo como", ".tts-1"), "parts must not run together")
}

func TestCopyAudio(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "hablar.mp3")
	require.NoError(t, os.WriteFile(src, []byte("ID3 audio"), 0644))

	dst := filepath.Join(dir, "nested", "copy.mp3")
	require.NoError(t, copyAudio(src, dst))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "ID3 audio", string(data))

	assert.Error(t, copyAudio(filepath.Join(dir, "missing.mp3"), dst))

	empty := filepath.Join(dir, "empty.mp3")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	assert.ErrorContains(t, copyAudio(empty, filepath.Join(dir, "out.mp3")), "no audio data")
}

func TestGenerateAudioServesCacheHit(t *testing.T) {
	p := newCachedProvider(t)
	cached := p.cache.path(p.cacheKey("Ellos viven aquí."))
	require.NoError(t, os.MkdirAll(filepath.Dir(cached), 0755))
	require.NoError(t, os.WriteFile(cached, []byte("cached mp3"), 0644))

	out := filepath.Join(t.TempDir(), "tier1_VIVIR_present_0001.mp3")
	require.NoError(t, p.GenerateAudio(context.Background(), "Ellos viven aquí.", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "cached mp3", string(data))
}

func TestGenerateAudioRejectsUnspeakableText(t *testing.T) {
	p := &OpenAIProvider{config: &Config{OpenAIKey: "sk-test"}}
	ctx := context.Background()

	assert.ErrorContains(t, p.GenerateAudio(ctx, "12345", "out.mp3"), "must contain Latin letters")
	assert.ErrorContains(t, p.GenerateAudio(ctx, "   ", "out.mp3"), "cannot be empty")
}
