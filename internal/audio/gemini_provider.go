package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Gemini TTS defaults
const (
	DefaultGeminiModel = "gemini-2.5-flash-preview-tts"
	DefaultGeminiVoice = "Kore"

	// Gemini returns 16 bit mono PCM at 24 kHz
	geminiSampleRate = 24000
)

// GeminiProvider implements Provider with the Gemini speech generation API.
// The PCM response is wrapped as WAV and converted to MP3 with ffmpeg.
type GeminiProvider struct {
	client *genai.Client
	config *Config
	logger *zap.Logger
}

// NewGeminiProvider creates a Gemini TTS provider
func NewGeminiProvider(config *Config, logger *zap.Logger) (*GeminiProvider, error) {
	if config.GeminiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiProvider{client: client, config: config, logger: logger}, nil
}

// GenerateAudio generates speech for text and writes it to outputFile
func (p *GeminiProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if err := ValidateSpanishText(text); err != nil {
		return err
	}

	model := p.config.GeminiModel
	if model == "" {
		model = DefaultGeminiModel
	}
	voice := p.config.GeminiVoice
	if voice == "" {
		voice = DefaultGeminiVoice
	}

	prompt := normalizeSpanishText(text)
	if p.config.OpenAIInstruction != "" {
		prompt = p.config.OpenAIInstruction + "\n\n" + prompt
	}

	p.logger.Debug("Gemini TTS request", zap.String("model", model), zap.String("voice", voice))
	resp, err := p.client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("Gemini TTS API error: %w", err)
	}

	pcm := inlineAudio(resp)
	if len(pcm) == 0 {
		return fmt.Errorf("no audio data received from Gemini")
	}

	wav := encodeWAV(pcm, geminiSampleRate)
	if strings.EqualFold(filepath.Ext(outputFile), ".wav") {
		return writeAudio(outputFile, bytes.NewReader(wav))
	}

	tempWAV := strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + "_temp.wav"
	if err := writeAudio(tempWAV, bytes.NewReader(wav)); err != nil {
		return err
	}
	defer os.Remove(tempWAV)
	return ConvertWAVToMP3(ctx, tempWAV, outputFile)
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// IsAvailable checks the key and the ffmpeg binary needed for MP3 output
func (p *GeminiProvider) IsAvailable() error {
	if p.config.GeminiKey == "" {
		return fmt.Errorf("Gemini API key not configured")
	}
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg is not installed or not in PATH: %w", err)
	}
	return nil
}

func inlineAudio(resp *genai.GenerateContentResponse) []byte {
	if resp == nil {
		return nil
	}
	var data []byte
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil {
				data = append(data, part.InlineData.Data...)
			}
		}
		if len(data) > 0 {
			break
		}
	}
	return data
}

// encodeWAV prefixes 16 bit mono PCM with a RIFF header
func encodeWAV(pcm []byte, sampleRate int) []byte {
	const (
		channels      = 1
		bitsPerSample = 16
	)
	byteRate := sampleRate * channels * bitsPerSample / 8

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVEfmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(channels*bitsPerSample/8))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}

// ConvertWAVToMP3 converts a WAV file to MP3 using ffmpeg
func ConvertWAVToMP3(ctx context.Context, wavFile, mp3File string) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg is not installed or not in PATH: %w", err)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", "-loglevel", "error", "-i", wavFile, "-acodec", "libmp3lame", "-y", mp3File)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg conversion failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}
