package audio

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProvider records calls and returns canned errors
type mockProvider struct {
	name          string
	generateErr   error
	availableErr  error
	generateCalls int
}

func (m *mockProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	m.generateCalls++
	return m.generateErr
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) IsAvailable() error { return m.availableErr }

func TestDefaultProviderConfig(t *testing.T) {
	cfg := DefaultProviderConfig()

	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "gpt-4o-mini-tts", cfg.OpenAIModel)
	assert.Equal(t, "coral", cfg.OpenAIVoice)
	assert.Equal(t, 1.0, cfg.OpenAISpeed)
	assert.Equal(t, DefaultInstruction, cfg.OpenAIInstruction)
	assert.EqualValues(t, 5, cfg.BreakerFailures)
	assert.False(t, cfg.EnableCache)
	assert.NoError(t, cfg.Validate())
}

func TestNewProviderRejectsBadConfig(t *testing.T) {
	withKey := func(mutate func(*Config)) *Config {
		cfg := DefaultProviderConfig()
		cfg.OpenAIKey = "sk-test"
		mutate(cfg)
		return cfg
	}

	cases := map[string]struct {
		cfg  *Config
		want string
	}{
		"nil config":       {nil, "OpenAI API key is required"},
		"missing key":      {&Config{Provider: "openai"}, "OpenAI API key is required"},
		"unknown provider": {&Config{Provider: "espeak"}, "unknown audio provider: espeak"},
		"voice": {
			withKey(func(c *Config) { c.OpenAIVoice = "verse" }),
			`invalid voice "verse" (valid: alloy, ash, coral, echo, fable, onyx, nova, sage, shimmer)`,
		},
		"speed": {
			withKey(func(c *Config) { c.OpenAISpeed = 5 }),
			"invalid speed 5.00 (must be between 0.25 and 4.0)",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewProvider(tc.cfg, nil)
			assert.EqualError(t, err, tc.want)
		})
	}
}

func TestNewProviderBreaker(t *testing.T) {
	cfg := DefaultProviderConfig()
	cfg.OpenAIKey = "sk-test"

	p, err := NewProvider(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &BreakerProvider{}, p)
	assert.Equal(t, "openai", p.Name())

	cfg.BreakerFailures = 0
	p, err = NewProvider(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &OpenAIProvider{}, p)
}

func TestProviderWithFallbackGenerate(t *testing.T) {
	ctx := context.Background()
	primary := &mockProvider{name: "openai"}
	fallback := &mockProvider{name: "gemini"}
	p := NewProviderWithFallback(primary, fallback, nil)

	require.NoError(t, p.GenerateAudio(ctx, "Yo canto.", "a.mp3"))
	assert.Equal(t, 1, primary.generateCalls)
	assert.Zero(t, fallback.generateCalls)

	primary.generateErr = errors.New("quota exceeded")
	require.NoError(t, p.GenerateAudio(ctx, "Yo canto.", "a.mp3"))
	assert.Equal(t, 1, fallback.generateCalls)

	fallback.generateErr = errors.New("gemini down")
	assert.EqualError(t, p.GenerateAudio(ctx, "Yo canto.", "a.mp3"), "gemini down")
}

func TestProviderWithFallbackSkipsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	primary := &mockProvider{name: "openai", generateErr: context.Canceled}
	fallback := &mockProvider{name: "gemini"}

	err := NewProviderWithFallback(primary, fallback, nil).GenerateAudio(ctx, "Yo canto.", "a.mp3")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, fallback.generateCalls)
}

func TestProviderWithFallbackAvailability(t *testing.T) {
	primary := &mockProvider{name: "openai"}
	fallback := &mockProvider{name: "gemini"}
	p := NewProviderWithFallback(primary, fallback, nil)

	assert.Equal(t, "openai (fallback: gemini)", p.Name())
	assert.NoError(t, p.IsAvailable())

	primary.availableErr = errors.New("no key")
	assert.NoError(t, p.IsAvailable())

	fallback.availableErr = errors.New("no ffmpeg")
	err := p.IsAvailable()
	assert.ErrorContains(t, err, "both providers unavailable")
	assert.ErrorContains(t, err, "no ffmpeg")
}
