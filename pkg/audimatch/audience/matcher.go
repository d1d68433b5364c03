package audience

import "sort"

// Score is the fraction of a segment's keywords found among the analyzed
// keywords, in [0,1].
type Score struct {
	Audience string  `json:"audience"`
	Score    float64 `json:"score"`
}

// Match scores every catalog segment against keywords and returns the
// scores sorted descending.
//
// Scores are keyed by segment name. When a name occurs more than once the
// last segment's score wins, but the entry keeps the position of the
// name's first occurrence; ties are then broken by that position.
func Match(keywords []string, catalog *Catalog) []Score {
	set := NewKeywordSet(keywords)

	index := make(map[string]int, catalog.Len())
	scores := make([]Score, 0, catalog.Len())
	for i := 0; i < catalog.Len(); i++ {
		name := catalog.At(i).Name
		ratio := catalog.OverlapRatio(i, set)
		if pos, ok := index[name]; ok {
			scores[pos].Score = ratio
			continue
		}
		index[name] = len(scores)
		scores = append(scores, Score{Audience: name, Score: ratio})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	return scores
}

// Top returns the best score, or false when there are none.
func Top(scores []Score) (Score, bool) {
	if len(scores) == 0 {
		return Score{}, false
	}
	return scores[0], true
}

// TopN returns at most n leading scores.
func TopN(scores []Score, n int) []Score {
	if n < 0 {
		n = 0
	}
	if len(scores) > n {
		return scores[:n]
	}
	return scores
}
