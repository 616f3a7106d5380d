package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mlobankov/resume-pilot/internal/core/domain"
)

func TestGenerateSuggestionsRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/ai/suggestions/generate" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var req domain.SuggestionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.AnalysisID != "an-7" {
			t.Errorf("analysisId = %q", req.AnalysisID)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"suggestions":[{"id":"s1","type":"content","priority":"high","title":"Quantify impact"}],"status":"completed"}`))
	}))
	defer server.Close()

	client := New(server.URL, Options{})
	set, err := client.GenerateSuggestions(context.Background(), domain.SuggestionRequest{AnalysisID: "an-7"})
	if err != nil {
		t.Fatalf("GenerateSuggestions() error = %v", err)
	}
	if len(set.Suggestions) != 1 || set.Suggestions[0].Title != "Quantify impact" {
		t.Fatalf("unexpected set %+v", set)
	}
}

func TestHealthReportsComponents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/ai/health" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"healthy","version":"1.4.0","components":{"llm":"healthy","vectorStore":"healthy"}}`))
	}))
	defer server.Close()

	client := New(server.URL, Options{})
	health, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if health.Status != "healthy" || health.Components["llm"] != "healthy" {
		t.Fatalf("unexpected health %+v", health)
	}
}

func TestChatPropagatesSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.SessionID != "chat-1" || req.Message == "" {
			t.Errorf("unexpected request %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"Tighten the summary section.","sessionId":"chat-1","status":"completed"}`))
	}))
	defer server.Close()

	client := New(server.URL, Options{})
	reply, err := client.Chat(context.Background(), domain.ChatRequest{SessionID: "chat-1", Message: "How do I improve this?"})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if reply.SessionID != "chat-1" || reply.Response == "" {
		t.Fatalf("unexpected reply %+v", reply)
	}
}
