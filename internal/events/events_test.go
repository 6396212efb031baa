package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_PublishInOrder(t *testing.T) {
	bus := NewBus()
	var calls []string

	bus.Subscribe(InboundRendered, func(ctx context.Context, ev Event) error {
		calls = append(calls, "first")
		assert.Equal(t, 3, ev.Index)
		return nil
	})
	bus.Subscribe(InboundRendered, func(ctx context.Context, ev Event) error {
		calls = append(calls, "second")
		return nil
	})
	bus.Subscribe(OutboundRendered, func(ctx context.Context, ev Event) error {
		calls = append(calls, "outbound")
		return nil
	})

	err := bus.Publish(context.Background(), Event{Name: InboundRendered, Index: 3})

	assert.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestBus_PublishJoinsErrors(t *testing.T) {
	bus := NewBus()
	errA := errors.New("a")
	errB := errors.New("b")
	ran := false

	bus.Subscribe(MessageRegenerated, func(ctx context.Context, ev Event) error { return errA })
	bus.Subscribe(MessageRegenerated, func(ctx context.Context, ev Event) error {
		ran = true
		return errB
	})

	err := bus.Publish(context.Background(), Event{Name: MessageRegenerated})

	assert.True(t, ran)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	assert.NoError(t, NewBus().Publish(context.Background(), Event{Name: OutboundRendered}))
}
