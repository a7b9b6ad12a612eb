package audio

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// instructionModels accept a voice instruction alongside the input
var instructionModels = map[string]bool{
	"gpt-4o-mini-tts":           true,
	"gpt-4o-mini-audio-preview": true,
}

// speechFormats maps output extensions to OpenAI response formats
var speechFormats = map[string]openai.SpeechResponseFormat{
	".wav":  openai.SpeechResponseFormatWav,
	".opus": openai.SpeechResponseFormatOpus,
	".aac":  openai.SpeechResponseFormatAac,
	".flac": openai.SpeechResponseFormatFlac,
}

// OpenAIProvider speaks sentences through the OpenAI speech endpoint
type OpenAIProvider struct {
	client *openai.Client
	config *Config
	logger *zap.Logger
	cache  *speechCache // nil when caching is off
}

// NewOpenAIProvider creates the OpenAI TTS provider. With EnableCache set,
// responses are kept under CacheDir and replayed for identical requests.
func NewOpenAIProvider(config *Config, logger *zap.Logger) (*OpenAIProvider, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &OpenAIProvider{
		client: openai.NewClient(config.OpenAIKey),
		config: config,
		logger: logger,
	}
	if config.EnableCache && config.CacheDir != "" {
		cache, err := newSpeechCache(config.CacheDir)
		if err != nil {
			return nil, err
		}
		p.cache = cache
	}
	return p, nil
}

func (p *OpenAIProvider) instruction() string {
	if !instructionModels[p.config.OpenAIModel] {
		return ""
	}
	return p.config.OpenAIInstruction
}

func (p *OpenAIProvider) cacheKey(text string) string {
	return cacheKey(text, p.config.OpenAIModel, p.config.OpenAIVoice,
		fmt.Sprintf("%.2f", p.config.OpenAISpeed), p.instruction())
}

// GenerateAudio synthesizes text into outputFile. The extension of
// outputFile picks the response format, MP3 by default.
func (p *OpenAIProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if err := ValidateSpanishText(text); err != nil {
		return err
	}

	key := ""
	if p.cache != nil {
		key = p.cacheKey(text)
		hit, err := p.cache.fetch(key, outputFile)
		if hit {
			p.logger.Debug("TTS cache hit", zap.String("file", filepath.Base(outputFile)))
			return err
		}
	}

	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(p.config.OpenAIModel),
		Input:          normalizeSpanishText(text),
		Voice:          openai.SpeechVoice(p.config.OpenAIVoice),
		Speed:          p.config.OpenAISpeed,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	}
	if instruction := p.instruction(); instruction != "" {
		req.Instructions = instruction
	}
	if format, ok := speechFormats[strings.ToLower(filepath.Ext(outputFile))]; ok {
		req.ResponseFormat = format
	}
	p.logger.Debug("OpenAI TTS request",
		zap.String("model", p.config.OpenAIModel),
		zap.String("voice", p.config.OpenAIVoice),
		zap.Float64("speed", p.config.OpenAISpeed),
		zap.String("input", req.Input))

	resp, err := p.client.CreateSpeech(ctx, req)
	if err != nil {
		if req.Instructions != "" && strings.Contains(err.Error(), "does not have access to model") {
			return fmt.Errorf("OpenAI TTS API error: %w (no access to %s, try --openai-model tts-1-hd)", err, p.config.OpenAIModel)
		}
		return fmt.Errorf("OpenAI TTS API error: %w", err)
	}
	defer resp.Close()

	if err := writeAudio(outputFile, resp); err != nil {
		return err
	}
	if p.cache != nil {
		if err := p.cache.store(key, outputFile); err != nil {
			p.logger.Warn("failed to cache TTS output", zap.Error(err))
		}
	}
	return nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable only checks the key; a probe request would cost credits
func (p *OpenAIProvider) IsAvailable() error {
	if p.config.OpenAIKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}
	return nil
}

// normalizeSpanishText collapses whitespace. Punctuation stays because
// ¿? and ¡! carry the intonation.
func normalizeSpanishText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
