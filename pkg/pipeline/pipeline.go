// Package pipeline wires the Work Transformation Pipeline's stages
// together into a single per-request entry point: parse, index, resolve,
// assemble (which renders each basic node along the way), composed
// leaves-first. Everything it needs — the classifier, indexer, resolver,
// renderer, assembler — lives in its own package and is reusable
// independent of this orchestration.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/beevik/etree"

	"github.com/salamanca-digital/citetrail/pkg/assemble"
	"github.com/salamanca-digital/citetrail/pkg/index"
	"github.com/salamanca-digital/citetrail/pkg/metadata"
	"github.com/salamanca-digital/citetrail/pkg/observability"
	"github.com/salamanca-digital/citetrail/pkg/tei"
	"github.com/salamanca-digital/citetrail/pkg/workconfig"
)

// The RED-metrics operation labels this package reports under
// ("op=index|resolve|assemble"). classify has no
// separate timing of its own: it runs inline as a
// predicate check inside each Indexer.index call, and render is folded
// into assemble's timing since Assembler.Assemble invokes render.Fragment
// once per basic node as it walks the resolved tree.
const (
	OpIndex    = "index"
	OpResolve  = "resolve"
	OpAssemble = "assemble"
)

// Options carries the caller-supplied, per-request settings the pipeline
// needs beyond what lives in the document itself: the external URL bases
// the renderer needs for citation and image links, the work's maximum
// citation depth, optional citation-label overrides, and whether to
// suppress page/marginalia placeholders for the documentation pipeline
// variant.
type Options struct {
	WorkID               string
	IDServerBaseURL      string
	IIIFBaseURL          string
	MaxCiteDepth         int
	CitationLabels       map[string]workconfig.CitationLabel
	SuppressPlaceholders bool
}

// Result is the full output of a single transform run: the preliminary
// and resolved index documents, the assembled fragment records, and the
// resource-level metadata — the four output artefacts a transform writes.
type Result struct {
	Preliminary *etree.Document
	Resolved    *etree.Document
	Fragments   []assemble.Fragment
	Metadata    metadata.Resource
	CiteDepth   int
}

// Pipeline runs the Work Transformation Pipeline for a single request. A
// Pipeline instance is stateless and safe to reuse across goroutines; all
// mutable per-request state lives in the workconfig.WorkConfig built fresh
// by each Run call, never here.
type Pipeline struct {
	metrics *observability.REDMetrics
	logger  *slog.Logger
}

// New returns a Pipeline that reports RED metrics through metrics (nil is
// accepted and simply skips instrumentation) and logs through logger (nil
// falls back to slog.Default()).
func New(metrics *observability.REDMetrics, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{metrics: metrics, logger: logger}
}

// Transform reads a TEI document from r (xi:include resolved relative to
// baseDir) and runs it through TransformDocument. Callers that already
// hold a parsed document (e.g. served from pkg/cache) should call
// TransformDocument directly instead, to skip the reparse.
func (p *Pipeline) Transform(ctx context.Context, r io.Reader, baseDir string, opts Options) (*Result, error) {
	doc, err := tei.Parse(r, baseDir)
	if err != nil {
		return nil, fmt.Errorf("parse tei document: %w", err)
	}

	return p.TransformDocument(ctx, doc, opts)
}

// TransformDocument builds a fresh WorkConfig from opts and doc's own
// teiHeader, then runs the index → resolve → assemble pipeline to
// completion over doc. Any stage failure aborts the whole run; partial
// output is never returned. doc must not be shared with a concurrently
// running transform; callers serving a cached document across requests
// should pass a fresh [tei.Document.Clone].
func (p *Pipeline) TransformDocument(ctx context.Context, doc *tei.Document, opts Options) (*Result, error) {
	root := doc.Root()

	teiRoot := root.SelectElement("text")
	if teiRoot == nil {
		teiRoot = root
	}

	wc := workconfig.New(opts.WorkID)
	wc.IDServerBaseURL = opts.IDServerBaseURL
	wc.IIIFBaseURL = opts.IIIFBaseURL
	wc.SuppressPlaceholders = opts.SuppressPlaceholders

	if opts.MaxCiteDepth > 0 {
		wc.MaxCiteDepth = opts.MaxCiteDepth
	}

	if opts.CitationLabels != nil {
		wc.CitationLabels = opts.CitationLabels
	}

	wc.LoadFromHeader(root)

	topNodes, err := p.timed(ctx, OpIndex, func() ([]*index.Node, error) {
		return index.NewIndexer(wc).BuildForest(teiRoot), nil
	})
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	preliminary := index.WritePreliminaryForest(topNodes)

	_, err = p.timed(ctx, OpResolve, func() (struct{}, error) {
		index.NewResolver().ResolveForest(topNodes, wc)

		return struct{}{}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("resolve index: %w", err)
	}

	resolved := index.WriteResolvedForest(topNodes)

	fragments, err := p.timed(ctx, OpAssemble, func() ([]assemble.Fragment, error) {
		return assemble.New(wc).AssembleForest(topNodes)
	})
	if err != nil {
		return nil, fmt.Errorf("assemble fragments: %w", err)
	}

	res := metadata.Extract(root, opts.WorkID, opts.IIIFBaseURL)

	p.logger.InfoContext(ctx, "transform complete",
		"work_id", opts.WorkID,
		"fragments", len(fragments),
		"cite_depth", maxLevel(fragments),
	)

	return &Result{
		Preliminary: preliminary,
		Resolved:    resolved,
		Fragments:   fragments,
		Metadata:    res,
		CiteDepth:   maxLevel(fragments),
	}, nil
}

// timed runs fn, recording its duration and outcome as a RED metric under
// op when p.metrics is set, and logging failures. Generic over fn's return
// type so every stage shares one instrumentation path without boilerplate.
func (p *Pipeline) timed[T any](ctx context.Context, op string, fn func() (T, error)) (T, error) {
	start := time.Now()

	var done func()
	if p.metrics != nil {
		done = p.metrics.TrackInflight(ctx, op)
		defer done()
	}

	result, err := fn()

	status := "ok"
	if err != nil {
		status = "error"

		p.logger.ErrorContext(ctx, "pipeline stage failed", "op", op, "error", err)
	}

	if p.metrics != nil {
		p.metrics.RecordRequest(ctx, op, status, time.Since(start))
	}

	return result, err
}

// maxLevel returns the cite depth of the work: the maximum Level across
// every fragment.
func maxLevel(fragments []assemble.Fragment) int {
	max := 0

	for _, f := range fragments {
		if f.Level > max {
			max = f.Level
		}
	}

	return max
}
