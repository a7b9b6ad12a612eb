package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// relevantChat are the chat model families shown when the list is long
var relevantChat = []string{"gpt-4o", "gpt-4.1", "gpt-5"}

const maxChat = 10

// Catalog groups model ids by the command that can use them
type Catalog struct {
	Speech []string
	Chat   []string
}

// Categorize sorts model ids into speech and chat models. Other models
// (images, embeddings, moderation) are dropped.
func Categorize(ids []string) Catalog {
	var c Catalog
	for _, id := range ids {
		switch {
		case strings.Contains(id, "tts"):
			c.Speech = append(c.Speech, id)
		case strings.Contains(id, "audio"), strings.Contains(id, "realtime"), strings.Contains(id, "transcribe"):
		case strings.Contains(id, "gpt") || strings.Contains(id, "chat"):
			c.Chat = append(c.Chat, id)
		}
	}
	sort.Strings(c.Speech)
	sort.Strings(c.Chat)
	return c
}

// Print writes the catalog. Long chat lists are cut to the relevant families.
func (c Catalog) Print(w io.Writer) {
	fmt.Fprintln(w, "Available OpenAI Models:")

	fmt.Fprintln(w, "\nText-to-Speech Models (generate-audio --model):")
	if len(c.Speech) == 0 {
		fmt.Fprintln(w, "  No TTS models found")
	}
	for _, m := range c.Speech {
		fmt.Fprintf(w, "  %s\n", m)
	}

	fmt.Fprintln(w, "\nChat Models (review --model):")
	if len(c.Chat) == 0 {
		fmt.Fprintln(w, "  No chat models found")
		return
	}
	if len(c.Chat) <= maxChat {
		for _, m := range c.Chat {
			fmt.Fprintf(w, "  %s\n", m)
		}
		return
	}
	shown := 0
	for _, m := range c.Chat {
		if relevant(m) {
			fmt.Fprintf(w, "  %s\n", m)
			shown++
		}
	}
	fmt.Fprintf(w, "  ... and %d more models\n", len(c.Chat)-shown)
}

func relevant(id string) bool {
	for _, prefix := range relevantChat {
		if strings.HasPrefix(id, prefix) {
			return true
		}
	}
	return false
}

// Lister lists the models available to an API key
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister
func NewLister(apiKey string) *Lister {
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClient(apiKey),
	}
}

// List fetches and categorizes the available models
func (l *Lister) List(ctx context.Context) (Catalog, error) {
	if l.apiKey == "" {
		return Catalog{}, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .drillmaster.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to list models: %w", err)
	}

	ids := make([]string, 0, len(models.Models))
	for _, m := range models.Models {
		ids = append(ids, m.ID)
	}
	return Categorize(ids), nil
}
