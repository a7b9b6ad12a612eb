// Package models lists the OpenAI models usable by generate-audio (speech)
// and review (chat) with the configured API key.
package models
