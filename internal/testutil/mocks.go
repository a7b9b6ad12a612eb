package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// MockSpeechProvider records TTS calls and writes fake audio files
type MockSpeechProvider struct {
	Errors map[string]error
	Data   []byte

	mu    sync.Mutex
	Calls []string
}

// GenerateAudio writes mock audio for text unless an error is configured
func (m *MockSpeechProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, fmt.Sprintf("TTS: %s -> %s", text, filepath.Base(outputFile)))
	m.mu.Unlock()

	if err, ok := m.Errors[text]; ok {
		return err
	}

	data := m.Data
	if data == nil {
		data = GenerateAudioData()
	}
	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return err
	}
	return os.WriteFile(outputFile, data, 0644)
}

// Name returns the provider name
func (m *MockSpeechProvider) Name() string {
	return "mock"
}

// IsAvailable always succeeds
func (m *MockSpeechProvider) IsAvailable() error {
	return nil
}

// CallCount returns the number of recorded calls
func (m *MockSpeechProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockCompleter returns canned LLM responses
type MockCompleter struct {
	Response string
	Err      error
	Prompts  []string
}

// Complete records the prompt and returns the canned response
func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// Name returns the completer name
func (m *MockCompleter) Name() string {
	return "mock"
}

// GenerateAudioData generates mock audio data
func GenerateAudioData() []byte {
	// Simple mock MP3 header
	return []byte{0xFF, 0xFB, 0x90, 0x00, 0x00, 0x00, 0x00, 0x00}
}
