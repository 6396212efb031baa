package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	assert.Equal(t, "no target language", ErrNoLanguage.Error())

	wrapped := Wrap(errors.New("status 502"), KindBackendFailure, "translation failed")
	assert.Equal(t, "translation failed: status 502", wrapped.Error())
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "sentinel", err: ErrNoBackend, want: KindNotConfigured},
		{name: "wrapped with fmt", err: fmt.Errorf("toggle: %w", ErrLastPreset), want: KindInvariantViolation},
		{name: "plain error", err: errors.New("boom"), want: KindInternal},
		{name: "backend", err: Wrap(errors.New("x"), KindBackendFailure, "translation failed"), want: KindBackendFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestIs(t *testing.T) {
	assert.False(t, Is(nil, KindInternal))
	assert.True(t, Is(ErrInFlight, KindConflict))
	assert.True(t, errors.Is(fmt.Errorf("ctx: %w", ErrNoPreset), ErrNoPreset))
}
