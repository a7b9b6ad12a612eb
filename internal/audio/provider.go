package audio

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Provider defines the interface for text-to-speech providers
type Provider interface {
	// GenerateAudio generates audio from text and saves it to the specified file
	GenerateAudio(ctx context.Context, text string, outputFile string) error

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// DefaultInstruction steers gpt-4o-mini-tts towards the accent the decks use
const DefaultInstruction = "Speak clearly in natural Latin American Spanish at normal conversational speed."

// Config holds common configuration for audio providers
type Config struct {
	Provider string // Provider name: "openai"

	// OpenAI-specific settings
	OpenAIKey         string
	OpenAIModel       string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice       string  // one of ValidVoices
	OpenAISpeed       float64 // 0.25 to 4.0
	OpenAIInstruction string  // Voice instructions for gpt-4o-mini-tts model

	// Gemini fallback, used when GeminiKey is set
	GeminiKey   string
	GeminiModel string
	GeminiVoice string

	// Circuit breaker wrapped around the primary provider
	BreakerFailures uint32 // consecutive failures before the breaker opens, 0 disables it

	CacheDir    string
	EnableCache bool
}

// DefaultProviderConfig returns default configuration
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:          "openai",
		OpenAIModel:       "gpt-4o-mini-tts",
		OpenAIVoice:       DefaultVoice,
		OpenAISpeed:       1.0,
		OpenAIInstruction: DefaultInstruction,
		GeminiModel:       DefaultGeminiModel,
		GeminiVoice:       DefaultGeminiVoice,
		BreakerFailures:   5,
	}
}

// Validate checks voice and speed
func (c *Config) Validate() error {
	if err := ValidateVoice(c.OpenAIVoice); err != nil {
		return err
	}
	return ValidateSpeed(c.OpenAISpeed)
}

// NewProvider creates the appropriate audio provider based on configuration.
// The OpenAI provider is wrapped in a circuit breaker and, when a Gemini key
// is configured, falls back to Gemini TTS.
func NewProvider(config *Config, logger *zap.Logger) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var primary Provider
	switch config.Provider {
	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		if err := config.Validate(); err != nil {
			return nil, err
		}
		p, err := NewOpenAIProvider(config, logger)
		if err != nil {
			return nil, err
		}
		primary = p

	default:
		return nil, fmt.Errorf("unknown audio provider: %s", config.Provider)
	}

	if config.BreakerFailures > 0 {
		primary = NewBreakerProvider(primary, config.BreakerFailures, logger)
	}
	if config.GeminiKey == "" {
		return primary, nil
	}

	fallback, err := NewGeminiProvider(config, logger)
	if err != nil {
		return nil, err
	}
	return NewProviderWithFallback(primary, fallback, logger), nil
}

// ProviderWithFallback wraps a primary provider with a fallback option
type ProviderWithFallback struct {
	primary  Provider
	fallback Provider
	logger   *zap.Logger
}

// NewProviderWithFallback creates a provider that falls back to secondary if primary fails
func NewProviderWithFallback(primary, fallback Provider, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProviderWithFallback{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// GenerateAudio tries primary provider first, falls back to secondary on error
func (p *ProviderWithFallback) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	err := p.primary.GenerateAudio(ctx, text, outputFile)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return err
	}

	p.logger.Warn("primary TTS provider failed, falling back",
		zap.String("primary", p.primary.Name()),
		zap.String("fallback", p.fallback.Name()),
		zap.Error(err))
	return p.fallback.GenerateAudio(ctx, text, outputFile)
}

// Name returns the provider name
func (p *ProviderWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", p.primary.Name(), p.fallback.Name())
}

// IsAvailable checks if at least one provider is available
func (p *ProviderWithFallback) IsAvailable() error {
	primaryErr := p.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := p.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both providers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}
