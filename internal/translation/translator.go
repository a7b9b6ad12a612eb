package translation

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/drillmaster/internal/hints"
)

// Translator turns a Spanish sentence into its English gloss
type Translator interface {
	Translate(ctx context.Context, spanish, subject string) (string, error)
	Name() string
}

// OpenAITranslator handles Spanish to English translation
type OpenAITranslator struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewTranslator creates a new translator instance. An empty model selects
// gpt-4o-mini.
func NewTranslator(apiKey, model string) *OpenAITranslator {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAITranslator{
		apiKey: apiKey,
		model:  model,
		client: openai.NewClient(apiKey),
	}
}

// Prompt builds the translation request for one sentence
func Prompt(spanish, subject string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Translate the Mexican Spanish sentence '%s' to natural English.", spanish)
	if subject != "" {
		fmt.Fprintf(&b, " The grammatical subject is '%s'.", subject)
	}
	b.WriteString(" Respond with only the English translation, nothing else.")
	return b.String()
}

// Translate translates a Spanish sentence to English. The you-hint of the
// subject is applied to the result.
func (t *OpenAITranslator) Translate(ctx context.Context, spanish, subject string) (string, error) {
	if t.apiKey == "" {
		return "", fmt.Errorf("OpenAI API key not found")
	}

	req := openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: Prompt(spanish, subject),
			},
		},
		MaxTokens:   100,
		Temperature: 0.3,
	}

	resp, err := t.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	return Clean(resp.Choices[0].Message.Content, subject), nil
}

// Name returns the translator name
func (t *OpenAITranslator) Name() string {
	return "openai/" + t.model
}

// Clean trims whitespace and surrounding quotes from a model answer and
// applies the subject's you-hint
func Clean(answer, subject string) string {
	answer = strings.TrimSpace(answer)
	answer = strings.Trim(answer, `"'`)
	return hints.Normalize(subject, strings.TrimSpace(answer))
}

// TranslationCache stores translations in memory for batch operations
type TranslationCache struct {
	translations map[string]string
}

// NewTranslationCache creates a new translation cache
func NewTranslationCache() *TranslationCache {
	return &TranslationCache{
		translations: make(map[string]string),
	}
}

func cacheKey(spanish, subject string) string {
	return subject + "||" + spanish
}

// Add adds a translation to the cache
func (tc *TranslationCache) Add(spanish, subject, translation string) {
	tc.translations[cacheKey(spanish, subject)] = translation
}

// Get retrieves a translation from the cache
func (tc *TranslationCache) Get(spanish, subject string) (string, bool) {
	translation, ok := tc.translations[cacheKey(spanish, subject)]
	return translation, ok
}

// Len returns the number of cached translations
func (tc *TranslationCache) Len() int {
	return len(tc.translations)
}
