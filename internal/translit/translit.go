// Package translit derives the counterpart-script form of a search term.
// It wraps a Transliterator so the search flow stays decoupled from the
// concrete romanization tables.
package translit

import (
	"strings"
	"unicode"

	"github.com/naranjargal/search-service/internal/script"
)

// Transliterator converts a term between Cyrillic and Latin forms.
// Implementations may fail; callers are expected to degrade to the original
// term rather than abort the search.
type Transliterator interface {
	// ToLatin romanizes a Cyrillic term.
	ToLatin(text string) (string, error)
	// ToCyrillic reverse-transliterates a Latin term.
	ToCyrillic(text string) (string, error)
}

// Counterpart returns the single counterpart form for a classified term:
// Cyrillic input yields its Latin form, Latin input its Cyrillic form, and
// Neutral input is returned verbatim. Any transliteration failure or empty
// result falls back to the original term, so the query degrades to a
// single-script search instead of failing.
func Counterpart(tr Transliterator, text string, kind script.Kind) string {
	var out string
	var err error

	switch kind {
	case script.Cyrillic:
		out, err = tr.ToLatin(text)
	case script.Latin:
		out, err = tr.ToCyrillic(text)
	default:
		return text
	}

	if err != nil || out == "" {
		return text
	}
	return out
}

// RU is a table-driven transliterator using the Russian romanization preset.
// Runes outside the tables pass through unchanged, which keeps digits,
// punctuation, and letters the preset does not cover intact.
type RU struct{}

// NewRU returns a Transliterator with the "ru" preset tables.
func NewRU() *RU {
	return &RU{}
}

var toLatinTable = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d",
	'е': "e", 'ё': "yo", 'ж': "zh", 'з': "z", 'и': "i",
	'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
	'у': "u", 'ф': "f", 'х': "h", 'ц': "c", 'ч': "ch",
	'ш': "sh", 'щ': "shch", 'ъ': "", 'ы': "i", 'ь': "",
	'э': "e", 'ю': "yu", 'я': "ya",
	'ө': "o", 'ү': "u",
}

// Digraphs must be matched before single letters on the reverse pass.
var toCyrillicDigraphs = []struct {
	latin    string
	cyrillic rune
}{
	{"shch", 'щ'},
	{"zh", 'ж'},
	{"ch", 'ч'},
	{"sh", 'ш'},
	{"kh", 'х'},
	{"yo", 'ё'},
	{"yu", 'ю'},
	{"ya", 'я'},
	{"ts", 'ц'},
}

var toCyrillicTable = map[rune]rune{
	'a': 'а', 'b': 'б', 'c': 'ц', 'd': 'д', 'e': 'е',
	'f': 'ф', 'g': 'г', 'h': 'х', 'i': 'и', 'j': 'ж',
	'k': 'к', 'l': 'л', 'm': 'м', 'n': 'н', 'o': 'о',
	'p': 'п', 'q': 'к', 'r': 'р', 's': 'с', 't': 'т',
	'u': 'у', 'v': 'в', 'w': 'в', 'x': 'х', 'y': 'й',
	'z': 'з',
}

// ToLatin romanizes Cyrillic text, preserving letter case per rune.
func (t *RU) ToLatin(text string) (string, error) {
	var b strings.Builder
	b.Grow(len(text))

	for _, r := range text {
		lower := unicode.ToLower(r)
		mapped, ok := toLatinTable[lower]
		if !ok {
			b.WriteRune(r)
			continue
		}
		if unicode.IsUpper(r) && mapped != "" {
			b.WriteString(strings.ToUpper(mapped[:1]) + mapped[1:])
		} else {
			b.WriteString(mapped)
		}
	}

	return b.String(), nil
}

// ToCyrillic reverse-transliterates Latin text, consuming digraphs first so
// "sh"/"ch"/"ya" collapse to single Cyrillic letters.
func (t *RU) ToCyrillic(text string) (string, error) {
	var b strings.Builder
	b.Grow(len(text))

	runes := []rune(text)
	for i := 0; i < len(runes); {
		if cy, n := matchDigraph(runes[i:]); n > 0 {
			if unicode.IsUpper(runes[i]) {
				b.WriteRune(unicode.ToUpper(cy))
			} else {
				b.WriteRune(cy)
			}
			i += n
			continue
		}

		r := runes[i]
		lower := unicode.ToLower(r)
		if cy, ok := toCyrillicTable[lower]; ok {
			if unicode.IsUpper(r) {
				b.WriteRune(unicode.ToUpper(cy))
			} else {
				b.WriteRune(cy)
			}
		} else {
			b.WriteRune(r)
		}
		i++
	}

	return b.String(), nil
}

// matchDigraph reports the Cyrillic letter and consumed length for a leading
// digraph, or 0 when none matches.
func matchDigraph(runes []rune) (rune, int) {
	for _, d := range toCyrillicDigraphs {
		n := len(d.latin)
		if len(runes) < n {
			continue
		}
		if strings.EqualFold(string(runes[:n]), d.latin) {
			return d.cyrillic, n
		}
	}
	return 0, 0
}
