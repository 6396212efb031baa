package translator

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
)

// Router is a Client that resolves a connection profile and dispatches to the
// backend registered for its provider.
type Router struct {
	profiles ProfileSource
	backends map[string]Backend
	logger   *zap.SugaredLogger
}

// NewRouter registers backends by name. With no backends the default set is
// used.
func NewRouter(profiles ProfileSource, logger *zap.SugaredLogger, backends ...Backend) *Router {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if len(backends) == 0 {
		backends = DefaultBackends()
	}
	r := &Router{
		profiles: profiles,
		backends: make(map[string]Backend, len(backends)),
		logger:   logger,
	}
	for _, b := range backends {
		r.backends[b.Name()] = b
	}
	return r
}

// DefaultBackends returns one instance of every built-in backend.
func DefaultBackends() []Backend {
	return []Backend{NewOpenAIBackend(), NewOpenRouterBackend(), NewOllamaBackend()}
}

// Providers lists the registered provider names.
func (r *Router) Providers() []string {
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Router) resolve(profileID string) (Profile, Backend, error) {
	p, ok := r.profiles.Profile(profileID)
	if !ok {
		return Profile{}, nil, fmt.Errorf("connection profile %q not found", profileID)
	}
	b, ok := r.backends[p.Provider]
	if !ok {
		return Profile{}, nil, fmt.Errorf("unsupported provider %q", p.Provider)
	}
	return p, b, nil
}

func (r *Router) Send(ctx context.Context, profileID, prompt string, maxTokens int) (Result, error) {
	p, b, err := r.resolve(profileID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := b.Complete(ctx, p, prompt, maxTokens)
	if err != nil {
		r.logger.Errorw("Backend request failed",
			"profile", p.ID,
			"provider", p.Provider,
			"error", err,
		)
		return nil, err
	}

	r.logger.Debugw("Backend request completed",
		"profile", p.ID,
		"provider", p.Provider,
		"latency", time.Since(start),
	)
	return res, nil
}

// Check verifies that the backend behind profileID is reachable.
func (r *Router) Check(ctx context.Context, profileID string) error {
	p, b, err := r.resolve(profileID)
	if err != nil {
		return err
	}
	return b.IsAvailable(ctx, p)
}
