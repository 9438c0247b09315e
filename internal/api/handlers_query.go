package api

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/dgallion1/rulerag/internal/retriever"
	"github.com/dgallion1/rulerag/internal/vectorstore"
	"github.com/go-chi/chi/v5"
)

type queryRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type queryResponse struct {
	Query      string                     `json:"query"`
	Method     string                     `json:"retrieval_method"`
	TotalFound int                        `json:"total_found"`
	Chunks     []vectorstore.SearchResult `json:"chunks"`
	Context    string                     `json:"context"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	retr := s.retriever()
	if retr == nil {
		jsonError(w, "index not built yet", http.StatusServiceUnavailable)
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		jsonError(w, "query is required", http.StatusBadRequest)
		return
	}

	result, err := retr.RetrieveWithPriorityBoost(r.Context(), req.Query, req.TopK)
	if err != nil {
		s.log.Error("retrieval failed", "error", err)
		jsonError(w, "retrieval failed", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Query:      result.Query,
		Method:     result.Method,
		TotalFound: result.TotalFound,
		Chunks:     result.Chunks,
		Context:    retriever.FormatContext(result.Chunks),
	})
}

type ruleResponse struct {
	RuleID  string                     `json:"rule_id"`
	Chunks  []vectorstore.SearchResult `json:"chunks"`
	Context string                     `json:"context"`
}

func (s *Server) handleRule(w http.ResponseWriter, r *http.Request) {
	retr := s.retriever()
	if retr == nil {
		jsonError(w, "index not built yet", http.StatusServiceUnavailable)
		return
	}

	ruleID, err := url.PathUnescape(chi.URLParam(r, "ruleID"))
	if err != nil || ruleID == "" {
		jsonError(w, "invalid rule id", http.StatusBadRequest)
		return
	}
	chunks, err := retr.RetrieveByRuleID(r.Context(), ruleID)
	if err != nil {
		s.log.Error("rule lookup failed", "rule_id", ruleID, "error", err)
		jsonError(w, "rule lookup failed", http.StatusBadGateway)
		return
	}
	if len(chunks) == 0 {
		jsonError(w, "no chunks cite rule "+ruleID, http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, ruleResponse{
		RuleID:  ruleID,
		Chunks:  chunks,
		Context: retriever.FormatContext(chunks),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	retr := s.retriever()
	if retr == nil {
		jsonError(w, "index not built yet", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"index":           retr.GetStats(),
		"embedding_model": s.cfg.EmbeddingModel,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
