// Package server implements the HTTP surface around the Work
// Transformation Pipeline: accepting a transform request, handing back a
// pollable task handle, and mirroring the same flow for the secondary
// "documentation" pipeline. None of this is part of the core transform
// itself — the HTTP surface, async task tracking, and the documentation
// variant are all external collaborators around it; this package is the
// thin wrapper that makes the core runnable as a service.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/salamanca-digital/citetrail/pkg/cache"
	"github.com/salamanca-digital/citetrail/pkg/config"
	"github.com/salamanca-digital/citetrail/pkg/pipeline"
	"github.com/salamanca-digital/citetrail/pkg/task"
	"github.com/salamanca-digital/citetrail/pkg/tei"
)

// Server holds the dependencies the HTTP handlers share: the transform
// pipeline, the async task store, the document cache, and the
// configuration that locates source documents and external URL bases.
type Server struct {
	pipeline *pipeline.Pipeline
	tasks    *task.Store
	docs     *cache.DocumentCache
	cfg      *config.Config
	logger   *slog.Logger
}

// New returns a Server ready to be handed to NewMux.
func New(p *pipeline.Pipeline, tasks *task.Store, docs *cache.DocumentCache, cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{pipeline: p, tasks: tasks, docs: docs, cfg: cfg, logger: logger}
}

// NewMux builds the HTTP routing table: POST /v1/texts/{wid} to start a
// transform, GET /tasks/{task_id} to poll it, and POST /v1/docs/{wid}
// mirroring the same flow for the secondary documentation pipeline.
func (s *Server) NewMux() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/texts/{wid}", s.handleStartTransform(false))
	mux.HandleFunc("POST /v1/docs/{wid}", s.handleStartTransform(true))
	mux.HandleFunc("GET /tasks/{task_id}", s.handleGetTask)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return mux
}

// handleStartTransform accepts a work id, locates its source document
// under the configured TEI root, and kicks off the transform
// asynchronously: the caller gets back a 202 and a task-status URL to
// poll instead of blocking on the transform itself.
func (s *Server) handleStartTransform(docsVariant bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wid := r.PathValue("wid")
		if wid == "" {
			http.Error(w, "missing work id", http.StatusBadRequest)

			return
		}

		srcPath := filepath.Join(s.cfg.TEI.RootDir, wid+".xml")

		tk := s.tasks.Create(wid)

		go s.runTransform(tk.ID, wid, srcPath, docsVariant)

		w.Header().Set("Location", "/tasks/"+tk.ID)
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]string{"task_id": tk.ID})
	}
}

// runTransform runs the pipeline for workID in the background and records
// the outcome on the task store, converting any failure into a recorded
// result rather than letting it escape: the caller only ever observes the
// outcome on the next poll.
//
// The parsed document is served from s.docs when available: a request for
// a work already resident in the cache skips re-parsing and re-expanding
// its XIncludes entirely. s.docs is nil when the cache is disabled, in
// which case every request reparses. [cache.DocumentCache.Get] always
// hands back an isolated clone, so concurrent requests for the same work
// never observe each other's traversal state.
//
// docsVariant selects the documentation-pipeline flavor: the renderer
// drops page and marginalia placeholders, since the documentation view
// only needs running text.
func (s *Server) runTransform(taskID, workID, srcPath string, docsVariant bool) {
	ctx := context.Background()

	var doc *tei.Document
	if s.docs != nil {
		doc = s.docs.Get(workID)
	}

	if doc == nil {
		f, err := os.Open(srcPath)
		if err != nil {
			s.tasks.Fail(taskID, fmt.Errorf("open source document: %w", err))

			return
		}

		doc, err = tei.Parse(f, filepath.Dir(srcPath))
		_ = f.Close()

		if err != nil {
			s.tasks.Fail(taskID, fmt.Errorf("parse source document: %w", err))

			return
		}

		if s.docs != nil {
			s.docs.Put(workID, doc)
		}
	}

	opts := pipeline.Options{
		WorkID:               workID,
		IDServerBaseURL:      s.cfg.Domain.IDServerBaseURL,
		IIIFBaseURL:          s.cfg.Domain.IIIFBaseURL,
		MaxCiteDepth:         s.cfg.TEI.MaxCiteDepth,
		SuppressPlaceholders: docsVariant,
	}

	res, err := s.pipeline.TransformDocument(ctx, doc, opts)
	if err != nil {
		s.tasks.Fail(taskID, err)
		s.logger.Error("transform failed", "work_id", workID, "docs_variant", docsVariant, "error", err)

		return
	}

	s.tasks.Complete(taskID, res)
}

// handleGetTask polls a task handle, returning 202 while pending and the
// final JSON body (success or recorded failure) once it settles.
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("task_id")

	tk, ok := s.tasks.Get(taskID)
	if !ok {
		http.Error(w, "task not found", http.StatusNotFound)

		return
	}

	switch tk.Status {
	case task.StatusPending:
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": string(tk.Status)})
	case task.StatusFailed:
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": string(tk.Status), "error": tk.Err})
	case task.StatusCompleted:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"status": string(tk.Status), "result": tk.Result})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
