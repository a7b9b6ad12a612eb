package audio

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
)

// DefaultVoice is the OpenAI voice used when none is given
const DefaultVoice = "coral"

// ValidVoices lists the OpenAI TTS voices accepted by generate-audio
var ValidVoices = []string{"alloy", "ash", "coral", "echo", "fable", "onyx", "nova", "sage", "shimmer"}

// Speed bounds accepted by the OpenAI speech endpoint
const (
	MinSpeed = 0.25
	MaxSpeed = 4.0
)

// ValidateVoice checks voice against ValidVoices
func ValidateVoice(voice string) error {
	if !slices.Contains(ValidVoices, voice) {
		return fmt.Errorf("invalid voice %q (valid: %s)", voice, strings.Join(ValidVoices, ", "))
	}
	return nil
}

// ValidateSpeed checks that speed is within MinSpeed and MaxSpeed
func ValidateSpeed(speed float64) error {
	if speed < MinSpeed || speed > MaxSpeed {
		return fmt.Errorf("invalid speed %.2f (must be between %.2f and %.1f)", speed, MinSpeed, MaxSpeed)
	}
	return nil
}

// ValidateSpanishText validates that the input text contains speakable Latin script
func ValidateSpanishText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}

	for _, r := range text {
		if unicode.In(r, unicode.Latin) {
			return nil
		}
	}
	return fmt.Errorf("text must contain Latin letters")
}
