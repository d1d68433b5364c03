// Package draft composes templated draft articles for an audience segment.
package draft

import (
	"crypto/rand"
	"fmt"
	mrand "math/rand/v2"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/audimatch/pkg/audimatch/audience"
	"github.com/cognicore/audimatch/pkg/audimatch/internalerr"
)

const (
	// MaxThemes is the number of distinct keywords sampled for the intro.
	MaxThemes = 3

	// SuggestionCount is the number of suggestion bullets.
	SuggestionCount = 3

	// DefaultPlaceholder stands in for keywords when a segment has none.
	DefaultPlaceholder = "日常習慣"
)

// DefaultTemplate renders the five parts of an article: intro line,
// framing question, three suggestions and a closing line.
const DefaultTemplate = `用{{join .Themes "、"}}打造更好的每一天！

最近是不是常被{{.Focus}}困擾？不妨從下面幾個方向開始：
1. 把{{index .Suggestions 0}}融入日常，每天留十分鐘給自己。
2. 多留意{{index .Suggestions 1}}，一點一滴累積健康與幸福感。
3. 針對{{index .Suggestions 2}}向專業人士請教，找出適合自己的做法。

現在就開始，讓生活一步步變得更好！`

// Article is a generated draft.
type Article struct {
	ID          string    `json:"id"`
	Audience    string    `json:"audience"`
	Themes      []string  `json:"themes"`      // distinct sample, intro line
	Focus       string    `json:"focus"`       // first segment keyword, framing question
	Suggestions []string  `json:"suggestions"` // independent draws, may repeat
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
}

// Generator builds articles from segment keywords.
type Generator struct {
	tmpl        *template.Template
	placeholder string

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Option configures a Generator.
type Option func(*Generator) error

// WithTemplate replaces the default template. The template sees an
// Article and a "join" function (strings.Join).
func WithTemplate(text string) Option {
	return func(g *Generator) error {
		tmpl, err := parseTemplate(text)
		if err != nil {
			return err
		}
		g.tmpl = tmpl
		return nil
	}
}

// WithPlaceholder sets the keyword used when a segment has no keywords.
func WithPlaceholder(p string) Option {
	return func(g *Generator) error {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("%w: empty placeholder", internalerr.ErrInvalidConfig)
		}
		g.placeholder = p
		return nil
	}
}

// New creates a generator.
func New(opts ...Option) (*Generator, error) {
	g := &Generator{
		placeholder: DefaultPlaceholder,
		entropy:     ulid.Monotonic(rand.Reader, 0),
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	if g.tmpl == nil {
		tmpl, err := parseTemplate(DefaultTemplate)
		if err != nil {
			return nil, err
		}
		g.tmpl = tmpl
	}
	return g, nil
}

func parseTemplate(text string) (*template.Template, error) {
	tmpl, err := template.New("article").
		Funcs(template.FuncMap{"join": strings.Join}).
		Option("missingkey=error").
		Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: parse article template: %v", internalerr.ErrInvalidConfig, err)
	}
	return tmpl, nil
}

// Generate looks up the named segment and composes an article for it.
// Unknown names return an error matching internalerr.ErrSegmentNotFound.
// A nil rng draws from a freshly seeded generator.
func (g *Generator) Generate(name string, catalog *audience.Catalog, rng *mrand.Rand) (Article, error) {
	seg, ok := catalog.Lookup(name)
	if !ok {
		return Article{}, fmt.Errorf("%w: %q", internalerr.ErrSegmentNotFound, name)
	}
	return g.Compose(seg, rng)
}

// Compose builds an article from a segment without a catalog lookup.
func (g *Generator) Compose(seg audience.Segment, rng *mrand.Rand) (Article, error) {
	if rng == nil {
		rng = mrand.New(mrand.NewPCG(mrand.Uint64(), mrand.Uint64()))
	}

	art := Article{
		ID:        g.newID(),
		Audience:  seg.Name,
		CreatedAt: time.Now().UTC(),
	}

	if len(seg.Keywords) == 0 {
		art.Themes = []string{g.placeholder}
		art.Focus = g.placeholder
		art.Suggestions = make([]string, SuggestionCount)
		for i := range art.Suggestions {
			art.Suggestions[i] = g.placeholder
		}
	} else {
		art.Themes = Sample(distinct(seg.Keywords), MaxThemes, rng)
		art.Focus = seg.Keywords[0]
		art.Suggestions = Choices(seg.Keywords, SuggestionCount, rng)
	}

	var buf strings.Builder
	if err := g.tmpl.Execute(&buf, art); err != nil {
		return Article{}, fmt.Errorf("render article: %w", err)
	}
	art.Text = buf.String()

	return art, nil
}

func (g *Generator) newID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Now(), g.entropy).String()
}

// Sample draws min(k, len(items)) items without replacement.
func Sample(items []string, k int, rng *mrand.Rand) []string {
	if k > len(items) {
		k = len(items)
	}
	if k <= 0 {
		return []string{}
	}
	pool := make([]string, len(items))
	copy(pool, items)
	for i := 0; i < k; i++ {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}

// Choices draws n items independently, with replacement.
func Choices(items []string, n int, rng *mrand.Rand) []string {
	if len(items) == 0 || n <= 0 {
		return []string{}
	}
	out := make([]string, n)
	for i := range out {
		out[i] = items[rng.IntN(len(items))]
	}
	return out
}

func distinct(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}
