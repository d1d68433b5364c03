package audimatch

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/cognicore/audimatch/pkg/audimatch/audience"
	"github.com/cognicore/audimatch/pkg/audimatch/config"
	"github.com/cognicore/audimatch/pkg/audimatch/draft"
	"github.com/cognicore/audimatch/pkg/audimatch/heat"
	"github.com/cognicore/audimatch/pkg/audimatch/ingest"
	"github.com/cognicore/audimatch/pkg/audimatch/internalerr"
	"github.com/cognicore/audimatch/pkg/audimatch/keywords"
)

// Engine is the text analysis facade
type Engine struct {
	state atomic.Pointer[snapshot]

	resources *config.Loader
	tokenizer *ingest.Tokenizer
	topN      int
	scorer    *heat.Scorer
	gen       *draft.Generator
	log       *zap.Logger

	rngMu sync.Mutex
	rng   *rand.Rand // nil unless Options.Seed is set
}

// snapshot is swapped as a whole on Reload so one request never mixes
// two catalogs.
type snapshot struct {
	catalog   *audience.Catalog
	extractor *keywords.Extractor
}

// Options configures an Engine
type Options struct {
	Catalog *audience.Catalog

	// Resources, when set, rebuilds the tokenizer for every catalog so the
	// catalog vocabulary is always part of the segmentation dictionary.
	Resources *config.Loader

	// Tokenizer is used as-is when Resources is nil. A nil Tokenizer gets a
	// default one whose dictionary is the catalog vocabulary.
	Tokenizer *ingest.Tokenizer

	TopN      int // default keywords.DefaultTopN
	Scorer    *heat.Scorer
	Generator *draft.Generator

	// Seed fixes the generator randomness when non-zero.
	Seed uint64

	Logger *zap.Logger
}

// New creates an Engine with the given dependencies
func New(opts Options) (*Engine, error) {
	if opts.Catalog == nil {
		return nil, fmt.Errorf("%w: engine needs a catalog", internalerr.ErrInvalidConfig)
	}

	e := &Engine{
		resources: opts.Resources,
		tokenizer: opts.Tokenizer,
		topN:      opts.TopN,
		scorer:    opts.Scorer,
		gen:       opts.Generator,
		log:       opts.Logger,
	}
	if e.topN <= 0 {
		e.topN = keywords.DefaultTopN
	}
	if e.scorer == nil {
		e.scorer = heat.Default()
	}
	if e.gen == nil {
		gen, err := draft.New()
		if err != nil {
			return nil, err
		}
		e.gen = gen
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if opts.Seed != 0 {
		e.rng = rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	}

	if err := e.Reload(opts.Catalog); err != nil {
		return nil, err
	}
	return e, nil
}

// Reload replaces the catalog. Requests already running keep the catalog
// they started with.
func (e *Engine) Reload(catalog *audience.Catalog) error {
	if catalog == nil {
		return fmt.Errorf("%w: nil catalog", internalerr.ErrInvalidInput)
	}

	tok, err := e.tokenizerFor(catalog)
	if err != nil {
		return err
	}

	e.state.Store(&snapshot{
		catalog:   catalog,
		extractor: keywords.NewExtractor(tok),
	})
	e.log.Debug("catalog loaded",
		zap.Int("segments", catalog.Len()),
		zap.Int("dictionary_terms", tok.Dictionary().Len()),
	)
	return nil
}

func (e *Engine) tokenizerFor(catalog *audience.Catalog) (*ingest.Tokenizer, error) {
	switch {
	case e.resources != nil:
		comp, err := e.resources.Load(catalog)
		if err != nil {
			return nil, fmt.Errorf("load analysis resources: %w", err)
		}
		return comp.Tokenizer, nil
	case e.tokenizer != nil:
		return e.tokenizer, nil
	default:
		seg, err := ingest.LoadSegmenter()
		if err != nil {
			return nil, err
		}
		tok := ingest.NewTokenizer(nil)
		tok.SetDictionary(ingest.NewDictionaryWith(seg, catalog.Vocabulary()))
		return tok, nil
	}
}

// Catalog returns the current catalog
func (e *Engine) Catalog() *audience.Catalog {
	return e.state.Load().catalog
}

// Audiences returns the distinct segment names in catalog order
func (e *Engine) Audiences() []string {
	return e.Catalog().Names()
}

// TopN returns the default number of keywords extracted per analysis
func (e *Engine) TopN() int {
	return e.topN
}

// Analysis is the result of analyzing one text
type Analysis struct {
	Keywords []keywords.Keyword `json:"keywords"`
	Ranking  []audience.Score   `json:"ranking"`
	Heat     float64            `json:"heat"`
}

// Terms returns the extracted keywords without counts
func (a Analysis) Terms() []string {
	return keywords.Terms(a.Keywords)
}

// Top returns the best-matching audience, if any
func (a Analysis) Top() (audience.Score, bool) {
	return audience.Top(a.Ranking)
}

// TopN returns the n best-matching audiences
func (a Analysis) TopN(n int) []audience.Score {
	return audience.TopN(a.Ranking, n)
}

// Analyze extracts keywords from plain text and scores them against the
// catalog using the default keyword count.
func (e *Engine) Analyze(text string) Analysis {
	return e.AnalyzeTop(text, e.topN)
}

// AnalyzeHTML is Analyze for HTML input
func (e *Engine) AnalyzeHTML(html string) Analysis {
	return e.Analyze(ingest.PlainText(html))
}

// AnalyzeTop analyzes text keeping at most topN keywords. The same keyword
// list feeds both the audience ranking and the heat score.
func (e *Engine) AnalyzeTop(text string, topN int) Analysis {
	snap := e.state.Load()

	kws := snap.extractor.ExtractCounts(text, topN)
	terms := keywords.Terms(kws)

	a := Analysis{
		Keywords: kws,
		Ranking:  audience.Match(terms, snap.catalog),
		Heat:     e.scorer.Score(terms, snap.catalog),
	}

	e.log.Debug("text analyzed",
		zap.Int("keywords", len(kws)),
		zap.Int("audiences", len(a.Ranking)),
		zap.Float64("heat", a.Heat),
	)
	return a
}

// Generate composes a draft article for the named audience. Unknown names
// return an error matching internalerr.ErrSegmentNotFound.
func (e *Engine) Generate(name string) (draft.Article, error) {
	if e.rng == nil {
		return e.generate(name, nil)
	}
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.generate(name, e.rng)
}

// GenerateSeeded is Generate with a fixed seed; equal seeds give equal
// article text for the same catalog.
func (e *Engine) GenerateSeeded(name string, seed uint64) (draft.Article, error) {
	return e.generate(name, rand.New(rand.NewPCG(seed, seed)))
}

func (e *Engine) generate(name string, rng *rand.Rand) (draft.Article, error) {
	art, err := e.gen.Generate(name, e.Catalog(), rng)
	if err != nil {
		e.log.Debug("generate failed", zap.String("audience", name), zap.Error(err))
		return draft.Article{}, err
	}
	e.log.Debug("article generated", zap.String("audience", name), zap.String("id", art.ID))
	return art, nil
}
