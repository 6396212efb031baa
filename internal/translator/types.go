// Package translator sends translation prompts to language-model backends
// selected by connection profile.
package translator

import (
	"context"
	"time"
)

// Client performs one prompt completion against the backend named by
// profileID.
type Client interface {
	Send(ctx context.Context, profileID, prompt string, maxTokens int) (Result, error)
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, profileID, prompt string, maxTokens int) (Result, error)

func (f ClientFunc) Send(ctx context.Context, profileID, prompt string, maxTokens int) (Result, error) {
	return f(ctx, profileID, prompt, maxTokens)
}

// Result is what a backend hands back: either a bare Text or a structured
// Completion. Use ResultText to read it.
type Result interface {
	isResult()
}

// Text is a bare string completion.
type Text string

func (Text) isResult() {}

// Completion is a structured completion exposing a content-like field.
type Completion struct {
	Content string `json:"content,omitempty"`
	Text    string `json:"text,omitempty"`
}

func (Completion) isResult() {}

// ResultText returns the completion text of r: Content, then Text for
// structured results, the string itself for bare ones. A nil result is "".
func ResultText(r Result) string {
	switch v := r.(type) {
	case Text:
		return string(v)
	case Completion:
		return completionText(v)
	case *Completion:
		if v == nil {
			return ""
		}
		return completionText(*v)
	default:
		return ""
	}
}

func completionText(c Completion) string {
	if c.Content != "" {
		return c.Content
	}
	return c.Text
}

// Profile is a named backend configuration.
type Profile struct {
	ID       string        `mapstructure:"id" json:"id" yaml:"id"`
	Provider string        `mapstructure:"provider" json:"provider" yaml:"provider"`
	BaseURL  string        `mapstructure:"base_url" json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Model    string        `mapstructure:"model" json:"model,omitempty" yaml:"model,omitempty"`
	APIKey   string        `mapstructure:"api_key" json:"-" yaml:"api_key,omitempty"`
	Timeout  time.Duration `mapstructure:"timeout" json:"timeout,omitempty" yaml:"-"`
}

// ProfileSource looks up connection profiles by ID.
type ProfileSource interface {
	Profile(id string) (Profile, bool)
}

// Backend is one provider implementation.
type Backend interface {
	Name() string
	Complete(ctx context.Context, p Profile, prompt string, maxTokens int) (Result, error)
	IsAvailable(ctx context.Context, p Profile) error
}
