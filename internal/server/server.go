// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the dialogue agent over HTTP. Sessions come from
// an injected session.Store; the server holds no ambient state beyond it.
// Turns within one session are serialized with the per-session lock.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/pdiddy/paper-agent/internal/agent"
	"github.com/pdiddy/paper-agent/internal/session"
	"github.com/pdiddy/paper-agent/pkg/types"
)

// Server handles the chat/search/reset API.
type Server struct {
	store session.Store
	mux   *http.ServeMux
}

// New builds a Server around the given session store.
func New(store session.Store) *Server {
	s := &Server{store: store, mux: http.NewServeMux()}
	s.mux.HandleFunc("POST /api/chat", s.handleChat)
	s.mux.HandleFunc("POST /api/search", s.handleSearch)
	s.mux.HandleFunc("POST /api/reset", s.handleReset)
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	return s
}

// ServeHTTP dispatches to the API mux.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type chatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID     string               `json:"session_id"`
	Response      string               `json:"response"`
	ShouldSearch  bool                 `json:"should_search"`
	CollectedInfo *agent.CollectedInfo `json:"collected_info,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	// A missing or expired session starts a fresh one.
	sess, ok := s.store.Get(req.SessionID)
	if req.SessionID == "" || !ok {
		sess = s.store.Create()
	}

	sess.Lock()
	defer sess.Unlock()

	response, shouldSearch := sess.Agent.ProcessTurn(r.Context(), req.Message)

	resp := chatResponse{
		SessionID:    sess.ID,
		Response:     response,
		ShouldSearch: shouldSearch,
	}
	if shouldSearch {
		info := sess.Agent.Info()
		resp.CollectedInfo = &info
	}
	writeJSON(w, http.StatusOK, resp)
}

type sessionRequest struct {
	SessionID string `json:"session_id"`
}

type searchResponse struct {
	SessionID string        `json:"session_id"`
	Results   []types.Paper `json:"results"`
	Summary   string        `json:"summary"`
	Count     int           `json:"count"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	sess, ok := s.store.Get(req.SessionID)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	sess.Lock()
	defer sess.Unlock()

	// Fallback outcomes (not ready, transport failure) surface as an empty
	// result set; the session is already in a safe terminal state.
	results, err := sess.Agent.ExecuteSearch(r.Context())
	if err != nil && err != agent.ErrNotSearching {
		fmt.Fprintf(os.Stderr, "warning: search for session %s failed: %v\n", sess.ID, err)
	}
	if results == nil {
		results = []types.Paper{}
	}

	writeJSON(w, http.StatusOK, searchResponse{
		SessionID: sess.ID,
		Results:   results,
		Summary:   sess.Agent.Summary(),
		Count:     len(results),
	})
}

type resetResponse struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	sess, ok := s.store.Get(req.SessionID)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	sess.Lock()
	defer sess.Unlock()
	sess.Agent.Reset()

	writeJSON(w, http.StatusOK, resetResponse{
		SessionID: sess.ID,
		Message:   "session reset",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
