package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/rulerag/internal/formulas"
)

func (s *Server) handleListFormulas(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"formulas":      formulas.Catalog(),
		"rules_version": formulas.VersionFSRules,
	})
}

type evaluateRequest struct {
	Name       string          `json:"name"`
	Parameters json.RawMessage `json:"parameters"`
}

func (s *Server) handleEvaluateFormula(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	call, err := formulas.NewCall(req.Name, req.Parameters)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := call.Evaluate()
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
