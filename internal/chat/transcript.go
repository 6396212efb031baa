package chat

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Transcript is the ordered list of messages of one conversation. It is safe
// for concurrent use; callers receive copies and mutate through Update.
type Transcript struct {
	mu       sync.RWMutex
	messages []Message
}

// NewTranscript builds a transcript from already persisted messages.
func NewTranscript(messages []Message) *Transcript {
	t := &Transcript{messages: make([]Message, 0, len(messages))}
	for _, m := range messages {
		t.messages = append(t.messages, m.Clone())
	}
	return t
}

// Append adds a new message and returns its index and a copy of it.
func (t *Transcript) Append(direction Direction, text string) (int, Message) {
	now := time.Now()
	m := Message{
		ID:        uuid.New().String(),
		Direction: direction,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, m)
	return len(t.messages) - 1, m.Clone()
}

// At returns a copy of the message at index.
func (t *Transcript) At(index int) (Message, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if err := t.checkIndex(index); err != nil {
		return Message{}, err
	}
	return t.messages[index].Clone(), nil
}

// Update runs fn on the message at index under the transcript lock.
func (t *Transcript) Update(index int, fn func(*Message) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.checkIndex(index); err != nil {
		return err
	}
	return fn(&t.messages[index])
}

func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// Messages returns a copy of all messages in order.
func (t *Transcript) Messages() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Message, len(t.messages))
	for i, m := range t.messages {
		out[i] = m.Clone()
	}
	return out
}

// Reset drops all messages.
func (t *Transcript) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = nil
}

// ErrIndexOutOfRange is returned for indexes outside the transcript.
type ErrIndexOutOfRange struct {
	Index int
	Len   int
}

func (e ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("message index %d out of range [0, %d)", e.Index, e.Len)
}

func (t *Transcript) checkIndex(index int) error {
	if index < 0 || index >= len(t.messages) {
		return ErrIndexOutOfRange{Index: index, Len: len(t.messages)}
	}
	return nil
}
