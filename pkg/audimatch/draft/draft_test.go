package draft

import (
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/audimatch/pkg/audimatch/audience"
	"github.com/cognicore/audimatch/pkg/audimatch/internalerr"
)

func testCatalog(t *testing.T) *audience.Catalog {
	t.Helper()
	cat, err := audience.FromRecords([]audience.Record{
		{Name: "上班族", Keywords: "壓力,睡眠,飲食,運動"},
		{Name: "學生", Keywords: "考試"},
		{Name: "空白", Keywords: ""},
	}, audience.DuplicatesKeep)
	require.NoError(t, err)
	return cat
}

func newGenerator(t *testing.T, opts ...Option) *Generator {
	t.Helper()
	g, err := New(opts...)
	require.NoError(t, err)
	return g
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func TestGenerateUnknownAudience(t *testing.T) {
	g := newGenerator(t)

	art, err := g.Generate("Unknown", testCatalog(t), seeded(1))

	require.Error(t, err)
	assert.True(t, errors.Is(err, internalerr.ErrSegmentNotFound))
	assert.True(t, errors.Is(err, internalerr.ErrNotFound))
	assert.Empty(t, art.Text)
}

func TestGenerateContainsSegmentKeyword(t *testing.T) {
	g := newGenerator(t)
	cat := testCatalog(t)

	for _, name := range []string{"上班族", "學生"} {
		seg, _ := cat.Lookup(name)
		art, err := g.Generate(name, cat, seeded(7))
		require.NoError(t, err)
		require.NotEmpty(t, art.Text)

		found := false
		for _, kw := range seg.Keywords {
			if strings.Contains(art.Text, kw) {
				found = true
			}
		}
		assert.True(t, found, "article for %s should mention one of its keywords", name)
		assert.Equal(t, name, art.Audience)
		assert.NotEmpty(t, art.ID)
	}
}

func TestGenerateStructure(t *testing.T) {
	g := newGenerator(t)

	art, err := g.Generate("上班族", testCatalog(t), seeded(3))
	require.NoError(t, err)

	assert.Equal(t, "壓力", art.Focus, "framing uses the first keyword")
	assert.Len(t, art.Themes, MaxThemes)
	assert.Len(t, art.Suggestions, SuggestionCount)

	seen := map[string]bool{}
	for _, th := range art.Themes {
		assert.False(t, seen[th], "themes must be distinct")
		seen[th] = true
		assert.Contains(t, []string{"壓力", "睡眠", "飲食", "運動"}, th)
	}
	for _, s := range art.Suggestions {
		assert.Contains(t, []string{"壓力", "睡眠", "飲食", "運動"}, s)
	}

	assert.Contains(t, art.Text, strings.Join(art.Themes, "、"))
	assert.Contains(t, art.Text, "1. ")
	assert.Contains(t, art.Text, "3. ")
}

func TestGenerateDeterministicForSeed(t *testing.T) {
	g := newGenerator(t)
	cat := testCatalog(t)

	a, err := g.Generate("上班族", cat, seeded(42))
	require.NoError(t, err)
	b, err := g.Generate("上班族", cat, seeded(42))
	require.NoError(t, err)

	assert.Equal(t, a.Text, b.Text)
	assert.Equal(t, a.Themes, b.Themes)
	assert.Equal(t, a.Suggestions, b.Suggestions)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestGenerateFewerKeywordsThanThemes(t *testing.T) {
	g := newGenerator(t)

	art, err := g.Generate("學生", testCatalog(t), seeded(1))
	require.NoError(t, err)

	assert.Equal(t, []string{"考試"}, art.Themes)
	assert.Equal(t, []string{"考試", "考試", "考試"}, art.Suggestions)
}

func TestGenerateEmptyKeywordsUsesPlaceholder(t *testing.T) {
	g := newGenerator(t, WithPlaceholder("健康"))

	art, err := g.Generate("空白", testCatalog(t), seeded(1))
	require.NoError(t, err)

	assert.Equal(t, "健康", art.Focus)
	assert.Equal(t, []string{"健康"}, art.Themes)
	assert.Contains(t, art.Text, "健康")
}

func TestGenerateNilRNG(t *testing.T) {
	g := newGenerator(t)

	art, err := g.Generate("上班族", testCatalog(t), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, art.Text)
}

func TestCustomTemplate(t *testing.T) {
	g := newGenerator(t, WithTemplate(`{{.Audience}}|{{.Focus}}|{{join .Themes ","}}`))

	art, err := g.Generate("學生", testCatalog(t), seeded(1))
	require.NoError(t, err)
	assert.Equal(t, "學生|考試|考試", art.Text)
}

func TestInvalidOptions(t *testing.T) {
	_, err := New(WithTemplate("{{.Broken"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, internalerr.ErrInvalidConfig))

	_, err = New(WithPlaceholder("  "))
	require.Error(t, err)
	assert.True(t, errors.Is(err, internalerr.ErrInvalidConfig))
}

func TestTemplateExecutionError(t *testing.T) {
	g := newGenerator(t, WithTemplate(`{{.Missing}}`))

	_, err := g.Generate("學生", testCatalog(t), seeded(1))
	require.Error(t, err)
}

func TestSample(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}
	rng := seeded(9)

	for i := 0; i < 100; i++ {
		got := Sample(items, 3, rng)
		require.Len(t, got, 3)
		assert.NotEqual(t, got[0], got[1])
		assert.NotEqual(t, got[1], got[2])
		assert.NotEqual(t, got[0], got[2])
	}

	assert.Len(t, Sample(items, 10, rng), 5)
	assert.Empty(t, Sample(nil, 3, rng))
	assert.Empty(t, Sample(items, 0, rng))
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, items, "input is not reordered")
}

func TestChoicesCanRepeat(t *testing.T) {
	items := []string{"a", "b"}
	rng := seeded(5)

	repeated := false
	for i := 0; i < 100 && !repeated; i++ {
		got := Choices(items, 3, rng)
		require.Len(t, got, 3)
		// three draws from two items always repeat one of them
		repeated = got[0] == got[1] || got[1] == got[2] || got[0] == got[2]
	}
	assert.True(t, repeated)
	assert.Empty(t, Choices(nil, 3, rng))
}

func TestConcurrentGenerateUniqueIDs(t *testing.T) {
	g := newGenerator(t)
	cat := testCatalog(t)

	var (
		mu  sync.Mutex
		ids = make(map[string]bool)
		wg  sync.WaitGroup
	)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				art, err := g.Generate("上班族", cat, nil)
				if err != nil {
					t.Error(err)
					return
				}
				mu.Lock()
				ids[art.ID] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, ids, 800)
}
