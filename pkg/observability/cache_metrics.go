package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricCacheHitsGauge   = "citetrail.cache.hits"
	metricCacheMissesGauge = "citetrail.cache.misses"
)

// CacheStatsProvider exposes a cache's cumulative hit/miss counters.
// [cache.DocumentCache] satisfies it; this module has no label cache, so
// the "labels" provider of [RegisterCacheMetrics] is supplied by callers.
type CacheStatsProvider interface {
	CacheHits() int64
	CacheMisses() int64
}

// RegisterCacheMetrics registers asynchronous gauges reporting doc's and
// labels' cumulative hit/miss counts, distinguished by a "cache" attribute
// ("document", "labels"). Either provider may be nil, in which case its
// gauge simply reports zero.
func RegisterCacheMetrics(mt metric.Meter, doc, labels CacheStatsProvider) error {
	hits, err := mt.Int64ObservableGauge(metricCacheHitsGauge,
		metric.WithDescription("Cumulative cache hits by cache name"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return fmt.Errorf("create %s: %w", metricCacheHitsGauge, err)
	}

	misses, err := mt.Int64ObservableGauge(metricCacheMissesGauge,
		metric.WithDescription("Cumulative cache misses by cache name"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return fmt.Errorf("create %s: %w", metricCacheMissesGauge, err)
	}

	docAttr := attribute.String(attrCache, "document")
	labelAttr := attribute.String(attrCache, "labels")

	_, err = mt.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(hits, providerHits(doc), metric.WithAttributes(docAttr))
		o.ObserveInt64(misses, providerMisses(doc), metric.WithAttributes(docAttr))
		o.ObserveInt64(hits, providerHits(labels), metric.WithAttributes(labelAttr))
		o.ObserveInt64(misses, providerMisses(labels), metric.WithAttributes(labelAttr))

		return nil
	}, hits, misses)
	if err != nil {
		return fmt.Errorf("register cache metrics callback: %w", err)
	}

	return nil
}

func providerHits(p CacheStatsProvider) int64 {
	if p == nil {
		return 0
	}

	return p.CacheHits()
}

func providerMisses(p CacheStatsProvider) int64 {
	if p == nil {
		return 0
	}

	return p.CacheMisses()
}
