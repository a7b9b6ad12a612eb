package models

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"reflect"
	"strings"
	"testing"
)

func TestNewLister(t *testing.T) {
	lister := NewLister("test-api-key")

	if lister == nil {
		t.Fatal("NewLister returned nil")
	}
	if lister.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", lister.apiKey)
	}
	if lister.client == nil {
		t.Error("OpenAI client not initialized")
	}
}

func TestList_NoAPIKey(t *testing.T) {
	_, err := NewLister("").List(context.Background())
	if err == nil {
		t.Fatal("Expected error for missing API key")
	}

	expectedError := "OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .drillmaster.yaml"
	if err.Error() != expectedError {
		t.Errorf("Expected error '%s', got: %v", expectedError, err)
	}
}

func TestCategorize(t *testing.T) {
	c := Categorize([]string{
		"gpt-4o-mini",
		"tts-1",
		"dall-e-3",
		"gpt-4o-mini-tts",
		"gpt-4o-audio-preview",
		"text-embedding-3-small",
		"chatgpt-4o-latest",
		"gpt-4o-realtime-preview",
	})

	wantSpeech := []string{"gpt-4o-mini-tts", "tts-1"}
	wantChat := []string{"chatgpt-4o-latest", "gpt-4o-mini"}
	if !reflect.DeepEqual(c.Speech, wantSpeech) {
		t.Errorf("Speech = %v, want %v", c.Speech, wantSpeech)
	}
	if !reflect.DeepEqual(c.Chat, wantChat) {
		t.Errorf("Chat = %v, want %v", c.Chat, wantChat)
	}
}

func TestCatalogPrint(t *testing.T) {
	var buf bytes.Buffer
	Catalog{Chat: []string{"gpt-4o-mini"}}.Print(&buf)

	out := buf.String()
	if !strings.Contains(out, "No TTS models found") {
		t.Errorf("Missing empty speech notice:\n%s", out)
	}
	if !strings.Contains(out, "  gpt-4o-mini\n") {
		t.Errorf("Missing chat model:\n%s", out)
	}
}

func TestCatalogPrintLongChatList(t *testing.T) {
	var chat []string
	for i := 0; i < 12; i++ {
		chat = append(chat, fmt.Sprintf("gpt-3.5-turbo-%02d", i))
	}
	chat = append(chat, "gpt-4o")

	var buf bytes.Buffer
	Catalog{Speech: []string{"tts-1"}, Chat: chat}.Print(&buf)

	out := buf.String()
	if strings.Contains(out, "gpt-3.5-turbo-00") {
		t.Errorf("Old models should be folded:\n%s", out)
	}
	if !strings.Contains(out, "  gpt-4o\n") || !strings.Contains(out, "... and 12 more models") {
		t.Errorf("Unexpected chat listing:\n%s", out)
	}
}

func TestList_Integration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	if _, err := NewLister(apiKey).List(context.Background()); err != nil {
		t.Errorf("List failed: %v", err)
	}
}
