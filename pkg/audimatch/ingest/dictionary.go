package ingest

import (
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/go-ego/gse"
)

var (
	baseOnce sync.Once
	baseSeg  *gse.Segmenter
	baseErr  error
)

// LoadSegmenter returns the shared word segmenter backed by the embedded
// Traditional Chinese dictionary. The dictionary is loaded on first use.
// The returned segmenter is only read from and safe for concurrent use.
func LoadSegmenter() (*gse.Segmenter, error) {
	baseOnce.Do(func() {
		seg := new(gse.Segmenter)
		seg.SkipLog = true
		if err := seg.LoadDictEmbed("zh_t"); err != nil {
			baseErr = fmt.Errorf("load segmentation dictionary: %w", err)
			return
		}
		baseSeg = seg
	})
	return baseSeg, baseErr
}

// Dictionary holds the known terms used to segment text that is not
// whitespace-delimited (Han script). Known terms win first by greedy
// forward maximum matching; Han runs between them are cut into words by
// the base segmenter.
type Dictionary struct {
	terms  map[string]struct{}
	maxLen int // in runes
	seg    *gse.Segmenter
}

// NewDictionary creates a dictionary from the given terms on top of the
// shared segmenter. If the segmenter cannot be loaded, unknown Han runs
// are kept whole; call LoadSegmenter first to surface that error.
func NewDictionary(terms []string) *Dictionary {
	seg, _ := LoadSegmenter()
	return NewDictionaryWith(seg, terms)
}

// NewDictionaryWith creates a dictionary that cuts unknown Han runs with
// seg. A nil seg keeps those runs whole.
func NewDictionaryWith(seg *gse.Segmenter, terms []string) *Dictionary {
	d := &Dictionary{terms: make(map[string]struct{}, len(terms)), seg: seg}
	for _, term := range terms {
		d.Add(term)
	}
	return d
}

// Add registers a term. Terms are cleaned the same way input text is;
// terms that are empty or contain whitespace after cleaning are ignored
// since they can never occur inside a single field.
func (d *Dictionary) Add(term string) {
	term = strings.TrimSpace(Clean(term))
	if term == "" || strings.IndexFunc(term, unicode.IsSpace) >= 0 {
		return
	}
	d.terms[term] = struct{}{}
	if l := utf8.RuneCountInString(term); l > d.maxLen {
		d.maxLen = l
	}
}

// Contains reports whether term is known.
func (d *Dictionary) Contains(term string) bool {
	if d == nil {
		return false
	}
	_, ok := d.terms[term]
	return ok
}

// Len returns the number of known terms.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.terms)
}

// Segment splits a single whitespace-free field into word units.
// Known terms are kept intact. Runs between known terms are split where
// the script changes between Han and non-Han; Han parts are then cut by
// the base segmenter while Latin words and numbers stay whole.
// A nil dictionary only performs the script split.
func (d *Dictionary) Segment(field string) []string {
	rs := []rune(field)
	if len(rs) == 0 {
		return nil
	}

	var (
		out   []string
		start = -1 // start of the pending unmatched run
	)
	flush := func(end int) {
		if start >= 0 {
			for _, part := range splitScripts(rs[start:end]) {
				out = append(out, d.cut(part)...)
			}
			start = -1
		}
	}

	i := 0
	for i < len(rs) {
		if n := d.longestMatch(rs, i); n > 0 {
			flush(i)
			out = append(out, string(rs[i:i+n]))
			i += n
			continue
		}
		if start < 0 {
			start = i
		}
		i++
	}
	flush(len(rs))

	return out
}

// cut splits a single-script run into words. Only Han runs go through
// the segmenter.
func (d *Dictionary) cut(run string) []string {
	if d == nil || d.seg == nil {
		return []string{run}
	}
	first, _ := utf8.DecodeRuneInString(run)
	if !isHan(first) {
		return []string{run}
	}

	var words []string
	for _, w := range d.seg.Cut(run, true) {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return []string{run}
	}
	return words
}

// longestMatch returns the rune length of the longest known term starting
// at i, or 0. A match may not cut through a non-Han word, so "AI" is not
// found inside "MAIL".
func (d *Dictionary) longestMatch(rs []rune, i int) int {
	if d == nil || d.maxLen == 0 || !isBoundary(rs, i) {
		return 0
	}

	maxN := d.maxLen
	if remaining := len(rs) - i; maxN > remaining {
		maxN = remaining
	}
	for n := maxN; n >= 1; n-- {
		if !isBoundary(rs, i+n) {
			continue
		}
		if _, ok := d.terms[string(rs[i:i+n])]; ok {
			return n
		}
	}
	return 0
}

// isBoundary reports whether a word may start or end at position pos.
// Every position next to a Han rune is a boundary; positions between two
// non-Han runes are not.
func isBoundary(rs []rune, pos int) bool {
	if pos <= 0 || pos >= len(rs) {
		return true
	}
	return isHan(rs[pos-1]) || isHan(rs[pos])
}

// splitScripts splits a run at every Han/non-Han transition.
func splitScripts(rs []rune) []string {
	var out []string
	begin := 0
	for i := 1; i < len(rs); i++ {
		if isHan(rs[i]) != isHan(rs[i-1]) {
			out = append(out, string(rs[begin:i]))
			begin = i
		}
	}
	return append(out, string(rs[begin:]))
}

func isHan(r rune) bool {
	return unicode.Is(unicode.Han, r)
}
