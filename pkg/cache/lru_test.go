package cache_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salamanca-digital/citetrail/pkg/cache"
	"github.com/salamanca-digital/citetrail/pkg/tei"
)

func parseDoc(t *testing.T, xml string) *tei.Document {
	t.Helper()

	doc, err := tei.Parse(bytes.NewReader([]byte(xml)), t.TempDir())
	require.NoError(t, err)

	return doc
}

func TestDocumentCache_MissThenHit(t *testing.T) {
	t.Parallel()

	c := cache.NewDocumentCache(cache.DefaultDocumentCacheSize)

	assert.Nil(t, c.Get("W0001"))

	doc := parseDoc(t, `<TEI><teiHeader/><text/></TEI>`)
	c.Put("W0001", doc)

	got := c.Get("W0001")
	require.NotNil(t, got)
	assert.Equal(t, doc.Root().Tag, got.Root().Tag)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), c.CacheHits())
	assert.Equal(t, int64(1), c.CacheMisses())
}

func TestDocumentCache_GetReturnsIndependentClone(t *testing.T) {
	t.Parallel()

	c := cache.NewDocumentCache(cache.DefaultDocumentCacheSize)
	doc := parseDoc(t, `<TEI><teiHeader/><text/></TEI>`)
	c.Put("W0001", doc)

	a := c.Get("W0001")
	b := c.Get("W0001")
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.NotSame(t, a.Root(), b.Root())
}

func TestDocumentCache_EvictsWhenOverCapacity(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<TEI><teiHeader/><text/></TEI>`)

	// Cap the cache to fit only a single document.
	c := cache.NewDocumentCache(doc.Size())

	c.Put("W0001", doc)
	c.Put("W0002", doc)

	stats := c.Stats()
	assert.LessOrEqual(t, stats.Entries, 1)
}

func TestDocumentCache_ClearEmptiesEntries(t *testing.T) {
	t.Parallel()

	c := cache.NewDocumentCache(cache.DefaultDocumentCacheSize)
	doc := parseDoc(t, `<TEI><teiHeader/><text/></TEI>`)
	c.Put("W0001", doc)

	c.Clear()

	assert.Nil(t, c.Get("W0001"))
	assert.Equal(t, 0, c.Stats().Entries)
}

func TestLRUStats_HitRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		s    cache.LRUStats
		want float64
	}{
		{"no traffic", cache.LRUStats{}, 0.0},
		{"all hits", cache.LRUStats{Hits: 10}, 1.0},
		{"half", cache.LRUStats{Hits: 5, Misses: 5}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, tt.s.HitRate(), 0.0001)
		})
	}
}
