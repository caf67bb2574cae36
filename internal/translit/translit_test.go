package translit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naranjargal/search-service/internal/script"
)

func TestRU_ToLatin(t *testing.T) {
	tr := NewRU()

	tests := []struct {
		input, want string
	}{
		{"найк", "nayk"},
		{"шоколад", "shokolad"},
		{"чай", "chay"},
		{"Москва", "Moskva"},
		{"гутал 42", "gutal 42"},
	}
	for _, tt := range tests {
		got, err := tr.ToLatin(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestRU_ToCyrillic(t *testing.T) {
	tr := NewRU()

	tests := []struct {
		input, want string
	}{
		{"nike", "нике"},
		{"shokolad", "шоколад"},
		{"chay", "чай"},
		{"Moskva", "Москва"},
		{"zhurnal", "журнал"},
	}
	for _, tt := range tests {
		got, err := tr.ToCyrillic(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestRU_UnknownRunesPassThrough(t *testing.T) {
	tr := NewRU()

	got, err := tr.ToCyrillic("nike-90!")
	require.NoError(t, err)
	assert.Equal(t, "нике-90!", got)
}

func TestCounterpart_NeutralIsVerbatim(t *testing.T) {
	got := Counterpart(NewRU(), "12345", script.Neutral)
	assert.Equal(t, "12345", got)
}

func TestCounterpart_NonEmptyForNonEmptyInput(t *testing.T) {
	tr := NewRU()
	inputs := []struct {
		text string
		kind script.Kind
	}{
		{"найк", script.Cyrillic},
		{"nike", script.Latin},
		{"90-x", script.Neutral},
	}
	for _, in := range inputs {
		assert.NotEmpty(t, Counterpart(tr, in.text, in.kind), "input %q", in.text)
	}
}

type failingTransliterator struct{}

func (failingTransliterator) ToLatin(string) (string, error) {
	return "", errors.New("codec unavailable")
}

func (failingTransliterator) ToCyrillic(string) (string, error) {
	return "", errors.New("codec unavailable")
}

func TestCounterpart_FallsBackToOriginalOnFailure(t *testing.T) {
	assert.Equal(t, "найк", Counterpart(failingTransliterator{}, "найк", script.Cyrillic))
	assert.Equal(t, "nike", Counterpart(failingTransliterator{}, "nike", script.Latin))
}
