// Package script classifies search input by its dominant writing system so
// the query layer knows which counterpart form to derive.
package script

import "unicode"

// Kind is the detected writing system of a search term.
type Kind string

const (
	Cyrillic Kind = "cyrillic"
	Latin    Kind = "latin"
	Neutral  Kind = "neutral"
)

// Detect classifies text by majority vote over its alphabetic runes.
// Digits, punctuation, and whitespace never vote. Empty input, input with no
// alphabetic content, and ties all classify as Neutral.
func Detect(text string) Kind {
	var cyrillic, latin int

	for _, r := range text {
		switch {
		case unicode.In(r, unicode.Cyrillic):
			cyrillic++
		case unicode.In(r, unicode.Latin):
			latin++
		}
	}

	switch {
	case cyrillic > latin:
		return Cyrillic
	case latin > cyrillic:
		return Latin
	default:
		return Neutral
	}
}
