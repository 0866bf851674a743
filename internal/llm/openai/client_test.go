package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newStubServer(t *testing.T, replies []string) *httptest.Server {
	t.Helper()
	var calls int
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing auth header")
		}
		if calls >= len(replies) {
			t.Errorf("unexpected extra call %d", calls)
			http.Error(w, "too many calls", http.StatusInternalServerError)
			return
		}
		content := replies[calls]
		calls++
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func newStubClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient("test-key", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	client.apiURL = srv.URL
	return client
}

func TestOptimizeContentParsesResult(t *testing.T) {
	srv := newStubServer(t, []string{`{"optimizedContent":"Better text.","suggestions":["tighten wording"]}`})
	defer srv.Close()
	client := newStubClient(t, srv)

	result, err := client.OptimizeContent(context.Background(), "some text")
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if result.OptimizedContent != "Better text." {
		t.Fatalf("optimizedContent = %q", result.OptimizedContent)
	}
	if len(result.Suggestions) != 1 || result.Suggestions[0] != "tighten wording" {
		t.Fatalf("suggestions = %v", result.Suggestions)
	}
}

func TestOptimizeContentFixesInvalidJSON(t *testing.T) {
	srv := newStubServer(t, []string{
		`{"optimizedContent": "broken`,
		`{"optimizedContent":"Recovered.","suggestions":[]}`,
	})
	defer srv.Close()
	client := newStubClient(t, srv)

	result, err := client.OptimizeContent(context.Background(), "some text")
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if result.OptimizedContent != "Recovered." {
		t.Fatalf("optimizedContent = %q", result.OptimizedContent)
	}
}

func TestEnhanceResumeKeepsRawDocument(t *testing.T) {
	srv := newStubServer(t, []string{`{"enhancedResume":{"summary":"s"},"suggestions":["a","b"]}`})
	defer srv.Close()
	client := newStubClient(t, srv)

	result, err := client.EnhanceResume(context.Background(), json.RawMessage(`{"summary":"old"}`), "")
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	if string(result.EnhancedResume) != `{"summary":"s"}` {
		t.Fatalf("enhancedResume = %s", result.EnhancedResume)
	}
	if len(result.Suggestions) != 2 {
		t.Fatalf("suggestions = %v", result.Suggestions)
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient("", "gpt-4o-mini"); err == nil {
		t.Fatal("missing key accepted")
	}
	if _, err := NewClient("key", ""); err == nil {
		t.Fatal("missing model accepted")
	}
}
