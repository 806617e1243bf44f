package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/sells-group/lead-qualifier/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

type sourceReadiness struct {
	Configured bool     `json:"configured"`
	Tokens     *float64 `json:"tokens,omitempty"`
}

type readyResponse struct {
	Status  string                           `json:"status"`
	Sources map[model.Source]sourceReadiness `json:"sources"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	var tokens map[string]float64
	if s.opts.Tokens != nil {
		tokens = s.opts.Tokens.Snapshot()
	}

	resp := readyResponse{Status: "degraded", Sources: make(map[model.Source]sourceReadiness, len(model.AllSources))}
	for _, src := range model.AllSources {
		sr := sourceReadiness{Configured: s.opts.Configured[src]}
		if v, ok := tokens[string(src)]; ok {
			sr.Tokens = &v
		}
		if sr.Configured {
			resp.Status = "ready"
		}
		resp.Sources[src] = sr
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleQualify(w http.ResponseWriter, r *http.Request) {
	leads, status, msg := s.decodeLeads(w, r)
	if status != 0 {
		writeError(w, status, msg)
		return
	}

	out := s.qualifier.Qualify(r.Context(), leads)
	writeJSON(w, http.StatusOK, out)
}

// decodeLeads reads the request body as a non-empty JSON array of leads.
// A non-zero status means the whole batch is rejected.
func (s *Server) decodeLeads(w http.ResponseWriter, r *http.Request) ([]model.LeadInput, int, string) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", s.opts.MaxBodyBytes)
		}
		return nil, http.StatusBadRequest, "could not read request body"
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, http.StatusBadRequest, "request body is empty"
	}
	if body[0] != '[' {
		return nil, http.StatusBadRequest, "request body must be a JSON array of leads"
	}

	var leads []model.LeadInput
	if err := json.Unmarshal(body, &leads); err != nil {
		return nil, http.StatusBadRequest, "invalid request body"
	}
	if len(leads) == 0 {
		return nil, http.StatusBadRequest, "at least one lead is required"
	}
	if len(leads) > s.opts.MaxBatchSize {
		return nil, http.StatusBadRequest, fmt.Sprintf("batch of %d leads exceeds the limit of %d", len(leads), s.opts.MaxBatchSize)
	}
	return leads, 0, ""
}

// writeJSON encodes v before touching the response so an encoding failure
// can still be reported as a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Error: "could not encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		zap.L().Warn("server: write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
