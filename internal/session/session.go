// Package session hosts the chat transcript: it persists it, renders messages
// and announces lifecycle events.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/valpere/chattran/internal/apperr"
	"github.com/valpere/chattran/internal/chat"
	"github.com/valpere/chattran/internal/events"
	"github.com/valpere/chattran/internal/render"
)

// MessageStore persists the transcript.
type MessageStore interface {
	SaveMessages(ctx context.Context, messages []chat.Message) error
	LoadMessages(ctx context.Context) ([]chat.Message, error)
	ClearMessages(ctx context.Context) (int64, error)
}

// Publisher delivers lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, ev events.Event) error
}

type Session struct {
	transcript *chat.Transcript
	store      MessageStore
	renderer   render.Renderer
	events     Publisher
	logger     *zap.SugaredLogger

	// saveMu orders snapshot-and-write pairs so an older snapshot never
	// replaces a newer one in the store.
	saveMu sync.Mutex
}

type Options struct {
	Renderer render.Renderer
	Events   Publisher
	Logger   *zap.SugaredLogger
}

// Open loads the stored transcript.
func Open(ctx context.Context, store MessageStore, opts Options) (*Session, error) {
	messages, err := store.LoadMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transcript: %w", err)
	}

	s := &Session{
		transcript: chat.NewTranscript(messages),
		store:      store,
		renderer:   opts.Renderer,
		events:     opts.Events,
		logger:     opts.Logger,
	}
	if s.renderer == nil {
		s.renderer = render.Discard{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop().Sugar()
	}
	return s, nil
}

func (s *Session) Len() int {
	return s.transcript.Len()
}

// Message returns a copy of the message at index.
func (s *Session) Message(index int) (chat.Message, error) {
	m, err := s.transcript.At(index)
	if err != nil {
		return chat.Message{}, apperr.Wrap(err, apperr.KindNotFound, "message not found")
	}
	return m, nil
}

// Update mutates the message at index in place.
func (s *Session) Update(index int, fn func(*chat.Message) error) error {
	if err := s.transcript.Update(index, fn); err != nil {
		var rangeErr chat.ErrIndexOutOfRange
		if errors.As(err, &rangeErr) {
			return apperr.Wrap(err, apperr.KindNotFound, "message not found")
		}
		return err
	}
	return nil
}

func (s *Session) Messages() []chat.Message {
	return s.transcript.Messages()
}

// Save persists the whole transcript.
func (s *Session) Save(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if err := s.store.SaveMessages(ctx, s.transcript.Messages()); err != nil {
		return fmt.Errorf("failed to save transcript: %w", err)
	}
	return nil
}

// Render pushes the current state of the message at index to the renderer.
func (s *Session) Render(ctx context.Context, index int) error {
	m, err := s.Message(index)
	if err != nil {
		return err
	}
	return s.renderer.Render(ctx, index, m)
}

// RenderAll renders every message in order.
func (s *Session) RenderAll(ctx context.Context) error {
	for i, m := range s.transcript.Messages() {
		if err := s.renderer.Render(ctx, i, m); err != nil {
			return err
		}
	}
	return nil
}

// Add appends a message, persists and renders it, then announces it. The
// returned message reflects any changes made by event handlers.
func (s *Session) Add(ctx context.Context, direction chat.Direction, text string) (int, chat.Message, error) {
	if direction != chat.Inbound && direction != chat.Outbound {
		return 0, chat.Message{}, apperr.Newf(apperr.KindInvalidArgument, "unknown message direction %q", direction)
	}

	index, m := s.transcript.Append(direction, text)
	if err := s.Save(ctx); err != nil {
		return index, m, err
	}
	if err := s.Render(ctx, index); err != nil {
		return index, m, err
	}

	name := events.InboundRendered
	if direction == chat.Outbound {
		name = events.OutboundRendered
	}
	s.publish(ctx, events.Event{Name: name, Index: index})

	m, err := s.Message(index)
	return index, m, err
}

// Regenerate replaces the text of the message at index, as when the
// counterpart produces a new reply. Translation state is cleared so the new
// text is eligible for translation again.
func (s *Session) Regenerate(ctx context.Context, index int, text string) (chat.Message, error) {
	if strings.TrimSpace(text) == "" {
		return chat.Message{}, apperr.New(apperr.KindInvalidArgument, "regenerated text cannot be empty")
	}

	err := s.Update(index, func(m *chat.Message) error {
		m.Replace(text)
		return nil
	})
	if err != nil {
		return chat.Message{}, err
	}
	if err := s.Save(ctx); err != nil {
		return chat.Message{}, err
	}
	if err := s.Render(ctx, index); err != nil {
		return chat.Message{}, err
	}

	s.publish(ctx, events.Event{Name: events.MessageRegenerated, Index: index})

	return s.Message(index)
}

// Clear drops the whole transcript.
func (s *Session) Clear(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.transcript.Reset()
	if _, err := s.store.ClearMessages(ctx); err != nil {
		return fmt.Errorf("failed to clear transcript: %w", err)
	}
	return nil
}

func (s *Session) publish(ctx context.Context, ev events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.logger.Warnw("Event handler failed",
			"event", ev.Name,
			"index", ev.Index,
			"error", err,
		)
	}
}
