package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricNodesTotal       = "citetrail.pipeline.nodes.total"
	metricFragmentsTotal   = "citetrail.pipeline.fragments.total"
	metricStageDuration    = "citetrail.pipeline.stage.duration.seconds"
	metricCacheHitsTotal   = "citetrail.pipeline.cache.hits.total"
	metricCacheMissesTotal = "citetrail.pipeline.cache.misses.total"

	attrCache = "cache"
	attrStage = "stage"
)

// PipelineMetrics holds OTel instruments for the transform pipeline's own
// throughput, as opposed to the request-level RED metrics in [REDMetrics].
type PipelineMetrics struct {
	nodesTotal     metric.Int64Counter
	fragmentsTotal metric.Int64Counter
	stageDuration  metric.Float64Histogram
	cacheHits      metric.Int64Counter
	cacheMisses    metric.Int64Counter
}

// PipelineStats holds the statistics for a single transform run, decoupled
// from the index/render package types so observability stays a leaf
// dependency.
type PipelineStats struct {
	// NodesIndexed is the number of index nodes the Indexer produced.
	NodesIndexed int64
	// FragmentsRendered is the number of basic nodes the Renderer and
	// Assembler turned into fragment records.
	FragmentsRendered int64
	// StageDurations holds one entry per pipeline stage
	// (classify, index, resolve, render, assemble).
	StageDurations map[string]time.Duration
	// DocCacheHits/Misses count the parsed-document cache shared across
	// requests.
	DocCacheHits   int64
	DocCacheMisses int64
	// LabelCacheHits/Misses are caller-supplied counts recorded under the
	// "labels" cache attribute; this module has no label cache of its own.
	LabelCacheHits   int64
	LabelCacheMisses int64
}

// NewPipelineMetrics creates pipeline metric instruments from the given meter.
func NewPipelineMetrics(mt metric.Meter) (*PipelineMetrics, error) {
	nodes, err := mt.Int64Counter(metricNodesTotal,
		metric.WithDescription("Total index nodes produced"),
		metric.WithUnit("{node}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricNodesTotal, err)
	}

	fragments, err := mt.Int64Counter(metricFragmentsTotal,
		metric.WithDescription("Total fragment records assembled"),
		metric.WithUnit("{fragment}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFragmentsTotal, err)
	}

	stageDur, err := mt.Float64Histogram(metricStageDuration,
		metric.WithDescription("Per-stage pipeline duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricStageDuration, err)
	}

	hits, err := mt.Int64Counter(metricCacheHitsTotal,
		metric.WithDescription("Cache hits by cache name"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricCacheHitsTotal, err)
	}

	misses, err := mt.Int64Counter(metricCacheMissesTotal,
		metric.WithDescription("Cache misses by cache name"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricCacheMissesTotal, err)
	}

	return &PipelineMetrics{
		nodesTotal:     nodes,
		fragmentsTotal: fragments,
		stageDuration:  stageDur,
		cacheHits:      hits,
		cacheMisses:    misses,
	}, nil
}

// RecordRun records pipeline statistics for a completed transform run.
// Safe to call on a nil receiver (no-op), matching the package's other
// metric types.
func (pm *PipelineMetrics) RecordRun(ctx context.Context, stats PipelineStats) {
	if pm == nil {
		return
	}

	pm.nodesTotal.Add(ctx, stats.NodesIndexed)
	pm.fragmentsTotal.Add(ctx, stats.FragmentsRendered)

	for stage, d := range stats.StageDurations {
		pm.stageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String(attrStage, stage)))
	}

	docAttrs := metric.WithAttributes(attribute.String(attrCache, "document"))
	pm.cacheHits.Add(ctx, stats.DocCacheHits, docAttrs)
	pm.cacheMisses.Add(ctx, stats.DocCacheMisses, docAttrs)

	labelAttrs := metric.WithAttributes(attribute.String(attrCache, "labels"))
	pm.cacheHits.Add(ctx, stats.LabelCacheHits, labelAttrs)
	pm.cacheMisses.Add(ctx, stats.LabelCacheMisses, labelAttrs)
}
