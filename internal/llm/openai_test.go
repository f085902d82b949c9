package llm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerate(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"{\"1\":{\"Reason\":\"ok\"}}"}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient(srv.URL, "test-chat", "test-embed")
	out, err := c.Generate("system text", "user text")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if out != `{"1":{"Reason":"ok"}}` {
		t.Errorf("unexpected content: %q", out)
	}
	if gotReq.Model != "test-chat" {
		t.Errorf("expected model test-chat, got %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" || gotReq.Messages[1].Role != "user" {
		t.Errorf("unexpected messages: %+v", gotReq.Messages)
	}
	if gotReq.MaxCompletionTokens != maxCompletionTokens {
		t.Errorf("expected max_completion_tokens %d, got %d", maxCompletionTokens, gotReq.MaxCompletionTokens)
	}
}

func TestEmbedStripsNewlines(t *testing.T) {
	var gotReq embeddingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Write([]byte(`{"data":[{"embedding":[0.1,0.2,0.3]}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient(srv.URL, "test-chat", "test-embed")
	res, err := c.Embed("line one\nline two")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if gotReq.Input != "line one line two" {
		t.Errorf("newlines not stripped: %q", gotReq.Input)
	}
	if gotReq.Model != "test-embed" {
		t.Errorf("expected model test-embed, got %q", gotReq.Model)
	}
	if len(res.Embedding) != 3 {
		t.Errorf("expected 3 dims, got %d", len(res.Embedding))
	}
}

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(429)
		w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient(srv.URL, "m", "m")
	if _, err := c.Generate("s", "p"); err == nil {
		t.Fatal("expected error on non-200 response")
	}
	if _, err := c.Embed("text"); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient(srv.URL, "m", "m")
	if _, err := c.Generate("s", "p"); err == nil {
		t.Fatal("expected error when no choices returned")
	}
}
