package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// Default review models
const (
	DefaultOpenAIModel = openai.GPT4oMini
	DefaultGeminiModel = "gemini-2.5-flash"
)

const systemPrompt = "You are a native Mexican Spanish teacher reviewing drill sentences. " +
	"You answer with JSON only."

// Config selects and configures the review model
type Config struct {
	Provider  string // openai or gemini
	Model     string
	OpenAIKey string
	GeminiKey string
}

// NewCompleter creates the Completer named by config.Provider
func NewCompleter(config Config) (Completer, error) {
	switch strings.ToLower(config.Provider) {
	case "", "openai":
		return NewOpenAICompleter(config.OpenAIKey, config.Model)
	case "gemini":
		return NewGeminiCompleter(config.GeminiKey, config.Model)
	default:
		return nil, fmt.Errorf("unknown review provider: %s (use openai or gemini)", config.Provider)
	}
}

// OpenAICompleter reviews with the OpenAI chat completion API
type OpenAICompleter struct {
	model  string
	client *openai.Client
}

// NewOpenAICompleter creates an OpenAI chat completer
func NewOpenAICompleter(apiKey, model string) (*OpenAICompleter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found")
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAICompleter{model: model, client: openai.NewClient(apiKey)}, nil
}

// Complete sends prompt and returns the answer text
func (o *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.2,
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no review returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Name returns the model name
func (o *OpenAICompleter) Name() string {
	return "openai/" + o.model
}

// GeminiCompleter reviews with the Gemini API
type GeminiCompleter struct {
	model  string
	client *genai.Client
}

// NewGeminiCompleter creates a Gemini completer
func NewGeminiCompleter(apiKey, model string) (*GeminiCompleter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key not found")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiCompleter{model: model, client: client}, nil
}

// Complete sends prompt and returns the answer text
func (g *GeminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := candidateText(resp)
	if text == "" {
		return "", fmt.Errorf("no review returned")
	}
	return text, nil
}

// Name returns the model name
func (g *GeminiCompleter) Name() string {
	return "gemini/" + g.model
}

func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		var b strings.Builder
		for _, part := range cand.Content.Parts {
			b.WriteString(part.Text)
		}
		if text := strings.TrimSpace(b.String()); text != "" {
			return text
		}
	}
	return ""
}
