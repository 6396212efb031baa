package translator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestOpenAIBackend_Complete(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"<think>hmm</think>\nHola"}}]}`))
	}))
	defer server.Close()

	b := NewOpenAIBackend()
	res, err := b.Complete(context.Background(), Profile{
		Provider: "openai",
		BaseURL:  server.URL + "/",
		Model:    "test-model",
		APIKey:   "test-key",
	}, "Translate to Spanish: Hello", 256)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, ok := res.(Completion)
	if !ok {
		t.Fatalf("expected Completion, got %T", res)
	}
	if c.Content != "Hola" {
		t.Errorf("Content = %q, want %q", c.Content, "Hola")
	}

	if gotBody["model"] != "test-model" {
		t.Errorf("model = %v", gotBody["model"])
	}
	if gotBody["max_tokens"] != float64(256) {
		t.Errorf("max_tokens = %v", gotBody["max_tokens"])
	}
	msgs, _ := gotBody["messages"].([]interface{})
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msg := msgs[0].(map[string]interface{}); msg["content"] != "Translate to Spanish: Hello" {
		t.Errorf("prompt = %v", msg["content"])
	}
}

func TestOpenAIBackend_Complete_NoAPIKey(t *testing.T) {
	_, err := NewOpenRouterBackend().Complete(context.Background(), Profile{}, "x", 10)
	if err == nil {
		t.Fatal("expected error when no API key")
	}
}

func TestOpenAIBackend_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer server.Close()

	_, err := NewOpenAIBackend().Complete(context.Background(), Profile{BaseURL: server.URL, APIKey: "k"}, "x", 10)
	if err == nil {
		t.Fatal("expected error for non-OK status")
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("error should carry status and body, got %v", err)
	}
}

func TestOpenAIBackend_Complete_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	_, err := NewOpenAIBackend().Complete(context.Background(), Profile{BaseURL: server.URL, APIKey: "k"}, "x", 10)
	if err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestOllamaBackend_Complete(t *testing.T) {
	var gotBody struct {
		Model   string `json:"model"`
		Prompt  string `json:"prompt"`
		Stream  bool   `json:"stream"`
		Options struct {
			NumPredict int `json:"num_predict"`
		} `json:"options"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"response":"Bonjour"}`))
	}))
	defer server.Close()

	res, err := NewOllamaBackend().Complete(context.Background(), Profile{BaseURL: server.URL}, "Translate: Hello", 1024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ResultText(res); got != "Bonjour" {
		t.Errorf("ResultText = %q, want %q", got, "Bonjour")
	}
	if _, ok := res.(Text); !ok {
		t.Errorf("expected Text result, got %T", res)
	}
	if gotBody.Model != DefaultOllamaModel {
		t.Errorf("model = %q, want default", gotBody.Model)
	}
	if gotBody.Stream {
		t.Error("stream must be false")
	}
	if gotBody.Options.NumPredict != 1024 {
		t.Errorf("num_predict = %d", gotBody.Options.NumPredict)
	}
	if gotBody.Prompt != "Translate: Hello" {
		t.Errorf("prompt = %q", gotBody.Prompt)
	}
}

func TestOllamaBackend_Complete_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	_, err := NewOllamaBackend().Complete(context.Background(), Profile{BaseURL: server.URL, Timeout: 50 * time.Millisecond}, "x", 10)
	if err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestOllamaBackend_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"models":[]}`))
	}))
	defer server.Close()

	if err := NewOllamaBackend().IsAvailable(context.Background(), Profile{BaseURL: server.URL}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
