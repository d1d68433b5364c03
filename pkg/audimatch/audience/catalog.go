package audience

import (
	"fmt"
	"strings"

	"github.com/cognicore/audimatch/pkg/audimatch/internalerr"
)

// Record is a raw catalog row as supplied by a catalog source: a segment
// name and its comma-separated keyword field.
type Record struct {
	Name     string `json:"name" yaml:"name"`
	Keywords string `json:"keywords" yaml:"keywords"`
}

// Segment is a named audience group and its keywords. Keywords keep their
// catalog order and may repeat; matching treats them as a set.
type Segment struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// DuplicatePolicy decides what happens when several records share a name.
type DuplicatePolicy string

const (
	// DuplicatesKeep keeps every record. Matching then reports one score per
	// name, taken from the last record with that name; lookups by name
	// return the first.
	DuplicatesKeep DuplicatePolicy = "keep"
	// DuplicatesReject fails catalog construction on a repeated name.
	DuplicatesReject DuplicatePolicy = "reject"
	// DuplicatesMerge folds repeated names into the first occurrence,
	// appending keywords not yet present.
	DuplicatesMerge DuplicatePolicy = "merge"
)

// ParseDuplicatePolicy converts a config value into a policy.
// The empty string means DuplicatesKeep.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DuplicatesKeep, nil
	case DuplicatesKeep, DuplicatesReject, DuplicatesMerge:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown duplicate policy %q", internalerr.ErrInvalidConfig, s)
	}
}

// ParseKeywords splits a keyword field on ASCII and full-width commas,
// trims every entry and drops empty ones. Duplicates are kept.
func ParseKeywords(field string) []string {
	parts := strings.FieldsFunc(field, func(r rune) bool {
		return r == ',' || r == '，'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// KeywordSet is a set of keywords used for overlap computation.
type KeywordSet map[string]struct{}

// NewKeywordSet builds a set from a keyword list.
func NewKeywordSet(keywords []string) KeywordSet {
	set := make(KeywordSet, len(keywords))
	for _, kw := range keywords {
		set[kw] = struct{}{}
	}
	return set
}

// Has reports whether kw is in the set.
func (s KeywordSet) Has(kw string) bool {
	_, ok := s[kw]
	return ok
}

type entry struct {
	seg Segment
	set KeywordSet
}

// Catalog is an immutable, ordered collection of audience segments.
// It is safe for concurrent use once constructed.
type Catalog struct {
	entries []entry
}

// NewCatalog builds a catalog from segments, applying the duplicate policy.
// Segment names are trimmed and must not be empty. Keyword lists are
// copied, so later changes by the caller do not leak in.
func NewCatalog(segments []Segment, policy DuplicatePolicy) (*Catalog, error) {
	if policy == "" {
		policy = DuplicatesKeep
	}

	c := &Catalog{entries: make([]entry, 0, len(segments))}
	seen := make(map[string]int, len(segments)) // name → entry index

	for i, s := range segments {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: segment %d has an empty name", internalerr.ErrInvalidInput, i)
		}

		if idx, dup := seen[name]; dup {
			switch policy {
			case DuplicatesReject:
				return nil, fmt.Errorf("%w: audience segment %q", internalerr.ErrDuplicate, name)
			case DuplicatesMerge:
				c.entries[idx] = mergeEntry(c.entries[idx], s.Keywords)
				continue
			}
		} else {
			seen[name] = len(c.entries)
		}

		kws := make([]string, len(s.Keywords))
		copy(kws, s.Keywords)
		c.entries = append(c.entries, entry{
			seg: Segment{Name: name, Keywords: kws},
			set: NewKeywordSet(kws),
		})
	}

	return c, nil
}

func mergeEntry(e entry, keywords []string) entry {
	kws := e.seg.Keywords
	for _, kw := range keywords {
		if !e.set.Has(kw) {
			kws = append(kws, kw)
			e.set[kw] = struct{}{}
		}
	}
	e.seg.Keywords = kws
	return e
}

// FromRecords parses raw records into a catalog. A record with an empty
// keyword field becomes a segment without keywords.
func FromRecords(records []Record, policy DuplicatePolicy) (*Catalog, error) {
	segments := make([]Segment, len(records))
	for i, r := range records {
		segments[i] = Segment{Name: r.Name, Keywords: ParseKeywords(r.Keywords)}
	}
	return NewCatalog(segments, policy)
}

// Len returns the number of segments.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// At returns the i-th segment. The keyword slice is shared with the
// catalog and must not be modified.
func (c *Catalog) At(i int) Segment {
	return c.entries[i].seg
}

// Segments returns a copy of all segments in catalog order.
func (c *Catalog) Segments() []Segment {
	out := make([]Segment, c.Len())
	for i := range out {
		seg := c.entries[i].seg
		kws := make([]string, len(seg.Keywords))
		copy(kws, seg.Keywords)
		out[i] = Segment{Name: seg.Name, Keywords: kws}
	}
	return out
}

// Lookup returns the first segment with exactly the given name.
func (c *Catalog) Lookup(name string) (Segment, bool) {
	for i := 0; i < c.Len(); i++ {
		if c.entries[i].seg.Name == name {
			return c.entries[i].seg, true
		}
	}
	return Segment{}, false
}

// Names returns the distinct segment names in catalog order.
func (c *Catalog) Names() []string {
	seen := make(map[string]struct{}, c.Len())
	names := make([]string, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		name := c.entries[i].seg.Name
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// Vocabulary returns every distinct keyword in catalog order.
func (c *Catalog) Vocabulary() []string {
	seen := make(map[string]struct{})
	var vocab []string
	for i := 0; i < c.Len(); i++ {
		for _, kw := range c.entries[i].seg.Keywords {
			if _, ok := seen[kw]; ok {
				continue
			}
			seen[kw] = struct{}{}
			vocab = append(vocab, kw)
		}
	}
	return vocab
}

// Overlap returns how many distinct keywords of segment i are in set.
func (c *Catalog) Overlap(i int, set KeywordSet) int {
	n := 0
	for kw := range c.entries[i].set {
		if set.Has(kw) {
			n++
		}
	}
	return n
}

// OverlapRatio returns Overlap divided by the length of the segment's
// keyword list (at least 1), so a segment without keywords scores 0.
func (c *Catalog) OverlapRatio(i int, set KeywordSet) float64 {
	denom := len(c.entries[i].seg.Keywords)
	if denom < 1 {
		denom = 1
	}
	return float64(c.Overlap(i, set)) / float64(denom)
}
