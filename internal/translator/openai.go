package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/valpere/chattran/internal/postprocess"
)

const (
	DefaultOpenAIBaseURL     = "https://api.openai.com/v1"
	DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	DefaultOpenRouterModel   = "meta-llama/llama-3.1-8b-instruct:free"
	DefaultOpenAIModel       = "gpt-4o-mini"
)

// OpenAIBackend talks to OpenAI-compatible chat completion APIs. The same
// implementation serves OpenAI and OpenRouter, differing only in defaults.
type OpenAIBackend struct {
	name           string
	defaultBaseURL string
	defaultModel   string
	client         *http.Client
}

func NewOpenAIBackend() *OpenAIBackend {
	return &OpenAIBackend{
		name:           "openai",
		defaultBaseURL: DefaultOpenAIBaseURL,
		defaultModel:   DefaultOpenAIModel,
		client:         &http.Client{},
	}
}

func NewOpenRouterBackend() *OpenAIBackend {
	return &OpenAIBackend{
		name:           "openrouter",
		defaultBaseURL: DefaultOpenRouterBaseURL,
		defaultModel:   DefaultOpenRouterModel,
		client:         &http.Client{},
	}
}

func (b *OpenAIBackend) Name() string {
	return b.name
}

func (b *OpenAIBackend) baseURL(p Profile) string {
	if p.BaseURL != "" {
		return strings.TrimRight(p.BaseURL, "/")
	}
	return b.defaultBaseURL
}

func (b *OpenAIBackend) Complete(ctx context.Context, p Profile, prompt string, maxTokens int) (Result, error) {
	if p.APIKey == "" {
		return nil, fmt.Errorf("%s API key required", b.name)
	}

	model := p.Model
	if model == "" {
		model = b.defaultModel
	}

	body := map[string]interface{}{
		"model": model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"max_tokens": maxTokens,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := withProfileTimeout(ctx, p)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL(p)+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)
	if b.name == "openrouter" {
		httpReq.Header.Set("X-Title", "chattran")
	}

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			Text string `json:"text"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("empty response from API")
	}

	choice := completion.Choices[0]
	return Completion{
		Content: postprocess.StripReasoning(choice.Message.Content),
		Text:    postprocess.StripReasoning(choice.Text),
	}, nil
}

func (b *OpenAIBackend) IsAvailable(ctx context.Context, p Profile) error {
	if p.APIKey == "" {
		return fmt.Errorf("%s API key not configured", b.name)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL(p)+"/models", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s not available: %w", b.name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", b.name, resp.StatusCode)
	}
	return nil
}

func withProfileTimeout(ctx context.Context, p Profile) (context.Context, context.CancelFunc) {
	if p.Timeout > 0 {
		return context.WithTimeout(ctx, p.Timeout)
	}
	return context.WithCancel(ctx)
}

// statusError reports a non-OK response including the start of its body.
func statusError(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(string(snippet))
	if msg == "" {
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}
	return fmt.Errorf("API returned status %d: %s", resp.StatusCode, msg)
}
