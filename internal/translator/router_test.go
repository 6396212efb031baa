package translator

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type profileMap map[string]Profile

func (m profileMap) Profile(id string) (Profile, bool) {
	p, ok := m[id]
	return p, ok
}

type mockBackend struct {
	name         string
	CompleteFunc func(ctx context.Context, p Profile, prompt string, maxTokens int) (Result, error)
}

func (m *mockBackend) Name() string { return m.name }

func (m *mockBackend) Complete(ctx context.Context, p Profile, prompt string, maxTokens int) (Result, error) {
	return m.CompleteFunc(ctx, p, prompt, maxTokens)
}

func (m *mockBackend) IsAvailable(ctx context.Context, p Profile) error { return nil }

func TestRouter_Send(t *testing.T) {
	var gotProfile Profile
	var gotPrompt string
	var gotTokens int
	backend := &mockBackend{
		name: "mock",
		CompleteFunc: func(ctx context.Context, p Profile, prompt string, maxTokens int) (Result, error) {
			gotProfile, gotPrompt, gotTokens = p, prompt, maxTokens
			return Text("Hola"), nil
		},
	}

	r := NewRouter(profileMap{"local": {ID: "local", Provider: "mock", Model: "m"}}, nil, backend)

	res, err := r.Send(context.Background(), "local", "prompt", 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ResultText(res) != "Hola" {
		t.Errorf("got %q", ResultText(res))
	}
	if gotProfile.Model != "m" || gotPrompt != "prompt" || gotTokens != 42 {
		t.Errorf("backend got profile=%+v prompt=%q tokens=%d", gotProfile, gotPrompt, gotTokens)
	}
}

func TestRouter_Send_Errors(t *testing.T) {
	failing := &mockBackend{
		name: "mock",
		CompleteFunc: func(ctx context.Context, p Profile, prompt string, maxTokens int) (Result, error) {
			return nil, errors.New("boom")
		},
	}
	r := NewRouter(profileMap{
		"ok":    {ID: "ok", Provider: "mock"},
		"weird": {ID: "weird", Provider: "carrier-pigeon"},
	}, nil, failing)

	tests := []struct {
		profile string
		want    string
	}{
		{profile: "missing", want: `connection profile "missing" not found`},
		{profile: "weird", want: `unsupported provider "carrier-pigeon"`},
		{profile: "ok", want: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.profile, func(t *testing.T) {
			_, err := r.Send(context.Background(), tt.profile, "p", 1)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestRouter_DefaultBackends(t *testing.T) {
	r := NewRouter(profileMap{}, nil)
	got := strings.Join(r.Providers(), ",")
	if got != "ollama,openai,openrouter" {
		t.Errorf("Providers() = %q", got)
	}
}

func TestResultText(t *testing.T) {
	tests := []struct {
		name string
		in   Result
		want string
	}{
		{name: "nil", in: nil, want: ""},
		{name: "bare text", in: Text("Hola"), want: "Hola"},
		{name: "content wins", in: Completion{Content: "Hola", Text: "ignored"}, want: "Hola"},
		{name: "text fallback", in: Completion{Text: "Ciao"}, want: "Ciao"},
		{name: "pointer", in: &Completion{Content: "Hallo"}, want: "Hallo"},
		{name: "nil pointer", in: (*Completion)(nil), want: ""},
		{name: "empty completion", in: Completion{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResultText(tt.in); got != tt.want {
				t.Errorf("ResultText() = %q, want %q", got, tt.want)
			}
		})
	}
}
