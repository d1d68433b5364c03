// Package keywords ranks the tokens of a text by frequency.
//
// Ranking is count-descending. Tokens with equal counts keep the order in
// which they were first seen, so the same text always yields the same
// ordered list.
package keywords

import (
	"sort"

	"github.com/cognicore/audimatch/pkg/audimatch/ingest"
)

// DefaultTopN is the number of keywords returned when callers have no
// preference.
const DefaultTopN = 10

// Keyword is a ranked token with its occurrence count.
type Keyword struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// FrequencyTable counts tokens and remembers first-seen order.
type FrequencyTable struct {
	index   map[string]int // term → position in entries
	entries []Keyword
}

// NewFrequencyTable creates an empty table.
func NewFrequencyTable() *FrequencyTable {
	return &FrequencyTable{index: make(map[string]int)}
}

// Add counts one occurrence of term.
func (f *FrequencyTable) Add(term string) {
	if i, ok := f.index[term]; ok {
		f.entries[i].Count++
		return
	}
	f.index[term] = len(f.entries)
	f.entries = append(f.entries, Keyword{Term: term, Count: 1})
}

// Count returns the occurrences of term.
func (f *FrequencyTable) Count(term string) int {
	if i, ok := f.index[term]; ok {
		return f.entries[i].Count
	}
	return 0
}

// Len returns the number of distinct terms.
func (f *FrequencyTable) Len() int {
	return len(f.entries)
}

// Ranked returns a copy of the entries sorted by count descending.
// Equal counts keep first-seen order.
func (f *FrequencyTable) Ranked() []Keyword {
	out := make([]Keyword, len(f.entries))
	copy(out, f.entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// Extractor turns text into its top keywords.
type Extractor struct {
	tokenizer *ingest.Tokenizer
}

// NewExtractor creates an extractor backed by the given tokenizer.
// A nil tokenizer gets a default one with no stopwords and no dictionary.
func NewExtractor(tokenizer *ingest.Tokenizer) *Extractor {
	if tokenizer == nil {
		tokenizer = ingest.NewTokenizer(nil)
	}
	return &Extractor{tokenizer: tokenizer}
}

// Frequencies tokenizes text and counts every token.
func (e *Extractor) Frequencies(text string) *FrequencyTable {
	table := NewFrequencyTable()
	for _, tok := range e.tokenizer.Tokenize(text) {
		table.Add(tok)
	}
	return table
}

// ExtractCounts returns at most topN keywords with their counts.
// topN <= 0 yields an empty result.
func (e *Extractor) ExtractCounts(text string, topN int) []Keyword {
	if topN <= 0 {
		return []Keyword{}
	}
	ranked := e.Frequencies(text).Ranked()
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// Extract returns at most topN keywords ordered by frequency.
func (e *Extractor) Extract(text string, topN int) []string {
	return Terms(e.ExtractCounts(text, topN))
}

// Terms strips the counts from ranked keywords.
func Terms(kws []Keyword) []string {
	out := make([]string, len(kws))
	for i, kw := range kws {
		out[i] = kw.Term
	}
	return out
}
