package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// Tokenizer handles text normalization and word segmentation
type Tokenizer struct {
	stopwords map[string]struct{}
	dict      *Dictionary // Optional: for segmenting unspaced Han text
	foldWidth bool
}

// NewTokenizer creates a new tokenizer with the given stopword list.
// Stopwords are matched exactly; keywords are case- and form-sensitive.
func NewTokenizer(stopwords []string) *Tokenizer {
	stops := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		if w = strings.TrimSpace(w); w != "" {
			stops[w] = struct{}{}
		}
	}
	return &Tokenizer{stopwords: stops}
}

// SetDictionary assigns the term dictionary used for word segmentation.
// Without one, every whitespace-delimited field is split only at
// Han/non-Han script boundaries.
func (t *Tokenizer) SetDictionary(dict *Dictionary) {
	t.dict = dict
}

// Dictionary returns the segmentation dictionary, or nil if none is set.
func (t *Tokenizer) Dictionary() *Dictionary {
	return t.dict
}

// SetWidthFolding enables folding of full-width and half-width variants
// (e.g. "ＡＩ" → "AI") before anything else happens to the text.
func (t *Tokenizer) SetWidthFolding(on bool) {
	t.foldWidth = on
}

// Tokenize splits text into word units in order of appearance.
// Punctuation and symbols are removed before segmentation so they can
// neither fuse nor split words.
func (t *Tokenizer) Tokenize(text string) []string {
	if t.foldWidth {
		text = width.Fold.String(text)
	}

	var tokens []string
	for _, field := range strings.Fields(Clean(text)) {
		for _, word := range t.dict.Segment(field) {
			if w := t.processToken(word); w != "" {
				tokens = append(tokens, w)
			}
		}
	}
	return tokens
}

// processToken trims the token and applies stopword filtering.
func (t *Tokenizer) processToken(token string) string {
	word := strings.TrimSpace(token)
	if word == "" {
		return ""
	}
	if t.isStopword(word) {
		return ""
	}
	return word
}

// Clean removes every rune that is neither a word character (letter,
// number, combining mark, underscore) nor whitespace.
func Clean(text string) string {
	return strings.Map(func(r rune) rune {
		if isWordRune(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, text)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r) || r == '_'
}

func (t *Tokenizer) isStopword(word string) bool {
	_, ok := t.stopwords[word]
	return ok
}

// AddStopword adds a word to the stopword list
func (t *Tokenizer) AddStopword(word string) {
	t.stopwords[word] = struct{}{}
}

// RemoveStopword removes a word from the stopword list
func (t *Tokenizer) RemoveStopword(word string) {
	delete(t.stopwords, word)
}
