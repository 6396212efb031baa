package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/valpere/chattran/internal/chat"
)

// Renderer displays the current state of one message.
type Renderer interface {
	Render(ctx context.Context, index int, m chat.Message) error
}

// Terminal prints one line per rendered message.
type Terminal struct {
	mu sync.Mutex
	w  io.Writer
}

func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

func (t *Terminal) Render(ctx context.Context, index int, m chat.Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := fmt.Fprintln(t.w, FormatLine(index, m))
	return err
}

// FormatLine formats m as "#index [direction] text", marking translations.
func FormatLine(index int, m chat.Message) string {
	marker := ""
	if m.IsTranslated() {
		marker = " (translated)"
	}
	return fmt.Sprintf("#%d [%s]%s %s", index, m.Direction, marker, ToPlainText(m.Display()))
}

// Entry is a cached HTML rendering.
type Entry struct {
	ID         string `json:"id"`
	HTML       string `json:"html"`
	Translated bool   `json:"translated"`
}

// Cache keeps the latest HTML rendering of each message by index.
type Cache struct {
	mu      sync.RWMutex
	entries map[int]Entry
}

func NewCache() *Cache {
	return &Cache{entries: make(map[int]Entry)}
}

func (c *Cache) Render(ctx context.Context, index int, m chat.Message) error {
	entry := Entry{ID: m.ID, HTML: ToHTML(m.Display()), Translated: m.IsTranslated()}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[index] = entry
	return nil
}

// Get returns the cached rendering of the message at index.
func (c *Cache) Get(index int) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[index]
	return e, ok
}

// Reset drops all cached renderings.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[int]Entry)
}

// Multi renders to every renderer and joins their errors.
type Multi []Renderer

func (m Multi) Render(ctx context.Context, index int, msg chat.Message) error {
	var errs []error
	for _, r := range m {
		if err := r.Render(ctx, index, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard ignores renders.
type Discard struct{}

func (Discard) Render(context.Context, int, chat.Message) error { return nil }
