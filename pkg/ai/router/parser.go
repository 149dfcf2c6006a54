package router

import (
	"regexp"
	"strings"
)

// Catalog reference numbers are contiguous runs of 8 to 10 decimal digits.
var referencePattern = regexp.MustCompile(`\b\d{8,10}\b`)

// Greeting tokens that short-circuit the whole pipeline. Matched against
// the normalized message, exact equality only.
var greetingTokens = map[string]bool{
	"hola":    true,
	"buenas":  true,
	"hey":     true,
	"holi":    true,
	"saludos": true,
}

// Cues indicating the user wants a description back, which flips the
// ordering of the context lines sent to the assistant.
var descriptionCues = []string{"descripción", "descripcion", "herramienta", "hta"}

// Normalize lowercases and trims a raw message for keyword matching.
func Normalize(message string) string {
	return strings.ToLower(strings.TrimSpace(message))
}

// IsGreeting reports whether the message is exactly a greeting token.
func IsGreeting(message string) bool {
	return greetingTokens[Normalize(message)]
}

// ParseReference extracts the first catalog reference number from the raw
// message. When a message carries several digit runs only the first one is
// honored.
func ParseReference(message string) (string, bool) {
	m := referencePattern.FindString(message)
	return m, m != ""
}

// AsksDescription reports whether the normalized message contains a
// description cue.
func AsksDescription(normalized string) bool {
	for _, cue := range descriptionCues {
		if strings.Contains(normalized, cue) {
			return true
		}
	}
	return false
}
