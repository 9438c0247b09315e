package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/dgallion1/rulerag/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	if s.reindexer == nil {
		jsonError(w, "reindexing not configured", http.StatusServiceUnavailable)
		return
	}

	// The rebuild outlives the request; it must not inherit its deadline.
	snap, err := s.reindexer.Trigger(context.WithoutCancel(r.Context()))
	if err != nil {
		if errors.Is(err, pipeline.ErrReindexInProgress) {
			jsonError(w, err.Error(), http.StatusConflict)
			return
		}
		s.log.Error("reindex trigger failed", "error", err)
		jsonError(w, "reindex trigger failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusAccepted, snap)
}

func (s *Server) handleReindexStatus(w http.ResponseWriter, r *http.Request) {
	if s.reindexer == nil {
		jsonError(w, "reindexing not configured", http.StatusServiceUnavailable)
		return
	}

	jobID := chi.URLParam(r, "jobID")
	job := s.reindexer.Job(jobID)
	if job == nil {
		jsonError(w, "unknown job: "+jobID, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}
