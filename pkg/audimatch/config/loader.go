package config

import (
	"fmt"

	"github.com/cognicore/audimatch/pkg/audimatch/audience"
	"github.com/cognicore/audimatch/pkg/audimatch/ingest"
)

// Loader loads the analysis resource files and constructs components
type Loader struct {
	StoplistPath string
	DictPath     string
	FoldWidth    bool
}

// Components holds all loaded analysis components
type Components struct {
	Tokenizer  *ingest.Tokenizer
	Dictionary *ingest.Dictionary
}

// Load reads all resource files and returns initialized components.
// The catalog vocabulary is added to the segmentation dictionary so that
// every audience keyword is recognized as one word; catalog may be nil.
func (l *Loader) Load(catalog *audience.Catalog) (*Components, error) {
	comp := &Components{}

	// Load stoplist
	if l.StoplistPath != "" {
		stoplist, err := LoadStoplist(l.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		comp.Tokenizer = ingest.NewTokenizer(stoplist.Terms)
	} else {
		comp.Tokenizer = ingest.NewTokenizer([]string{})
	}

	// Load dictionary
	seg, err := ingest.LoadSegmenter()
	if err != nil {
		return nil, err
	}
	comp.Dictionary = ingest.NewDictionaryWith(seg, catalog.Vocabulary())
	if l.DictPath != "" {
		dict, err := LoadDict(l.DictPath)
		if err != nil {
			return nil, fmt.Errorf("load dictionary: %w", err)
		}
		for _, term := range dict.Terms {
			comp.Dictionary.Add(term)
		}
	}

	comp.Tokenizer.SetDictionary(comp.Dictionary)
	comp.Tokenizer.SetWidthFolding(l.FoldWidth)

	return comp, nil
}
