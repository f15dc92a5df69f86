package core

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/davidspringean12/ai-mazed/internal/config"
)

func testConfig(baseURL string) config.Config {
	return config.Config{
		OpenAIAPIKey:   "test-key",
		OpenAIBaseURL:  baseURL,
		EmbeddingModel: "text-embedding-3-small",
		ChatModel:      "gpt-4o-mini",
	}
}

func TestEmbedSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", got)
		}

		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req["model"] != "text-embedding-3-small" {
			t.Errorf("unexpected model: %s", req["model"])
		}
		if req["input"] == "" {
			t.Error("empty input")
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{{"embedding": []float32{0.1, 0.2, 0.3}}},
		})
	}))
	defer srv.Close()

	svc := NewLLMService(testConfig(srv.URL))
	vec, err := svc.Embed(context.Background(), "Care este programul burselor?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 3 || vec[1] != 0.2 {
		t.Fatalf("unexpected vector: %v", vec)
	}
}

func TestEmbedEmptyInput(t *testing.T) {
	svc := NewLLMService(testConfig("http://localhost:0"))
	if _, err := svc.Embed(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestEmbedUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	svc := NewLLMService(testConfig(srv.URL))
	_, err := svc.Embed(context.Background(), "hello")

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.Op != "embeddings" {
		t.Fatalf("unexpected op: %s", upstream.Op)
	}
}

func TestEmbedMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	svc := NewLLMService(testConfig(srv.URL))
	var upstream *UpstreamError
	if _, err := svc.Embed(context.Background(), "hello"); !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError for missing embedding, got %v", err)
	}
}

func TestCompleteSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 {
			t.Errorf("expected exactly two messages, got %d", len(req.Messages))
		}
		if req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("unexpected roles: %s, %s", req.Messages[0].Role, req.Messages[1].Role)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "Bursele se acordă semestrial."}},
			},
		})
	}))
	defer srv.Close()

	svc := NewLLMService(testConfig(srv.URL))
	reply, err := svc.Complete(context.Background(), "system instructions", "user question")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "Bursele se acordă semestrial." {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestCompleteUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewLLMService(testConfig(srv.URL))
	var upstream *UpstreamError
	if _, err := svc.Complete(context.Background(), "s", "u"); !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.Op != "chat completion" {
		t.Fatalf("unexpected op: %s", upstream.Op)
	}
}

func TestCompleteMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	svc := NewLLMService(testConfig(srv.URL))
	var upstream *UpstreamError
	if _, err := svc.Complete(context.Background(), "s", "u"); !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError for missing content, got %v", err)
	}
}
