// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pdiddy/paper-agent/internal/agent"
	"github.com/pdiddy/paper-agent/internal/openalex"
	"github.com/pdiddy/paper-agent/internal/session"
	"github.com/pdiddy/paper-agent/pkg/types"
)

// stubProvider always reports sufficiency with a fixed query.
type stubProvider struct{}

func (stubProvider) Name() string { return "stub" }

func (stubProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	return `{"sufficient": true, "extracted_query": "transformer attention", "year_filter": ">=2021", "max_results": "30", "question": ""}`, nil
}

// stubSearcher returns one canned work.
type stubSearcher struct{}

func (stubSearcher) Search(ctx context.Context, req openalex.Request) (*openalex.Page, error) {
	return &openalex.Page{
		Meta: openalex.Meta{Count: 1, PageCount: 1, Page: 1},
		Results: []openalex.Work{
			{ID: "W1", Title: "Attention Is All You Need", PublicationYear: 2017},
		},
	}, nil
}

func (stubSearcher) SearchAll(ctx context.Context, req openalex.Request, maxResults int) ([]openalex.Work, error) {
	return []openalex.Work{{ID: "W1", Title: "Attention Is All You Need"}}, nil
}

func newTestServer() *Server {
	store := session.NewMemoryStore(time.Hour, func() *agent.Agent {
		return agent.New(stubProvider{}, stubSearcher{}, types.AgentConfig{})
	})
	return New(store)
}

func postJSON(t *testing.T, srv *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding response %q: %v", w.Body.String(), err)
	}
	return v
}

func TestChatCreatesSession(t *testing.T) {
	srv := newTestServer()

	w := postJSON(t, srv, "/api/chat", chatRequest{Message: "recent transformer papers"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	resp := decodeBody[chatResponse](t, w)
	if resp.SessionID == "" {
		t.Error("SessionID should be assigned")
	}
	if !resp.ShouldSearch {
		t.Fatalf("ShouldSearch = false; response: %q", resp.Response)
	}
	if resp.CollectedInfo == nil || resp.CollectedInfo.Query != "transformer attention" {
		t.Errorf("CollectedInfo = %+v", resp.CollectedInfo)
	}
}

func TestChatReusesSession(t *testing.T) {
	srv := newTestServer()

	first := decodeBody[chatResponse](t, postJSON(t, srv, "/api/chat", chatRequest{Message: "transformers"}))
	second := decodeBody[chatResponse](t, postJSON(t, srv, "/api/chat", chatRequest{
		SessionID: first.SessionID,
		Message:   "anything else",
	}))
	if second.SessionID != first.SessionID {
		t.Errorf("SessionID changed: %q then %q", first.SessionID, second.SessionID)
	}
	// The session is now awaiting search confirmation.
	if second.ShouldSearch {
		t.Error("ShouldSearch = true, want false while a search is pending")
	}
}

func TestChatUnknownSessionStartsFresh(t *testing.T) {
	srv := newTestServer()

	resp := decodeBody[chatResponse](t, postJSON(t, srv, "/api/chat", chatRequest{
		SessionID: "expired-or-bogus",
		Message:   "transformers",
	}))
	if resp.SessionID == "" || resp.SessionID == "expired-or-bogus" {
		t.Errorf("SessionID = %q, want a fresh one", resp.SessionID)
	}
}

func TestChatRequiresMessage(t *testing.T) {
	srv := newTestServer()
	if w := postJSON(t, srv, "/api/chat", chatRequest{}); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSearchFlow(t *testing.T) {
	srv := newTestServer()

	chat := decodeBody[chatResponse](t, postJSON(t, srv, "/api/chat", chatRequest{Message: "transformers"}))
	if !chat.ShouldSearch {
		t.Fatal("chat turn should reach sufficiency")
	}

	w := postJSON(t, srv, "/api/search", sessionRequest{SessionID: chat.SessionID})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	resp := decodeBody[searchResponse](t, w)
	if resp.Count != 1 || len(resp.Results) != 1 {
		t.Fatalf("Count = %d, Results = %+v", resp.Count, resp.Results)
	}
	if resp.Results[0].Title != "Attention Is All You Need" {
		t.Errorf("Results[0].Title = %q", resp.Results[0].Title)
	}
	if resp.Summary == "" {
		t.Error("Summary should not be empty")
	}
}

func TestSearchUnknownSession(t *testing.T) {
	srv := newTestServer()
	if w := postJSON(t, srv, "/api/search", sessionRequest{SessionID: "nope"}); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestSearchBeforeReady(t *testing.T) {
	srv := newTestServer()
	store := srv.store.(*session.MemoryStore)
	sess := store.Create()

	// The session is still collecting; the search endpoint answers with an
	// empty result set rather than an error.
	w := postJSON(t, srv, "/api/search", sessionRequest{SessionID: sess.ID})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decodeBody[searchResponse](t, w)
	if resp.Count != 0 || len(resp.Results) != 0 {
		t.Errorf("Count = %d, Results = %+v, want empty", resp.Count, resp.Results)
	}
}

func TestResetFlow(t *testing.T) {
	srv := newTestServer()

	chat := decodeBody[chatResponse](t, postJSON(t, srv, "/api/chat", chatRequest{Message: "transformers"}))

	w := postJSON(t, srv, "/api/reset", sessionRequest{SessionID: chat.SessionID})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	// The reset session accepts a new collecting turn.
	again := decodeBody[chatResponse](t, postJSON(t, srv, "/api/chat", chatRequest{
		SessionID: chat.SessionID,
		Message:   "quantum computing papers",
	}))
	if !again.ShouldSearch {
		t.Error("reset session should collect again")
	}
}

func TestResetUnknownSession(t *testing.T) {
	srv := newTestServer()
	if w := postJSON(t, srv, "/api/reset", sessionRequest{SessionID: "nope"}); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := decodeBody[map[string]string](t, w); got["status"] != "ok" {
		t.Errorf("body = %v", got)
	}
}
