package render

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/chattran/internal/chat"
)

func TestToHTML(t *testing.T) {
	got := ToHTML("Hola **mundo**")
	assert.Contains(t, got, "<strong>mundo</strong>")

	got = ToHTML("[link](https://example.com)")
	assert.Contains(t, got, `target="_blank"`)

	got = ToHTML("<script>alert(1)</script>")
	assert.NotContains(t, got, "<script>")
}

func TestToPlainText(t *testing.T) {
	assert.Equal(t, "Hola mundo", ToPlainText("Hola *mundo*"))
	assert.Equal(t, "", ToPlainText(""))
	assert.Equal(t, "Tom & Jerry <3", ToPlainText("Tom & Jerry <3"))
	assert.Equal(t, "First line. Second paragraph.", ToPlainText("First line.\n\nSecond paragraph."))
}

func TestTerminal(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)

	m := chat.Message{Direction: chat.Inbound, Text: "Hello"}
	require.NoError(t, term.Render(context.Background(), 0, m))

	m.ApplyTranslation("Hola")
	require.NoError(t, term.Render(context.Background(), 0, m))

	assert.Equal(t, "#0 [inbound] Hello\n#0 [inbound] (translated) Hola\n", buf.String())
}

func TestCache(t *testing.T) {
	c := NewCache()
	m := chat.Message{ID: "m1", Direction: chat.Outbound, Text: "Hello"}

	_, ok := c.Get(0)
	assert.False(t, ok)

	require.NoError(t, c.Render(context.Background(), 0, m))
	e, ok := c.Get(0)
	require.True(t, ok)
	assert.Equal(t, "m1", e.ID)
	assert.Contains(t, e.HTML, "Hello")
	assert.False(t, e.Translated)

	m.ApplyTranslation("Hola")
	require.NoError(t, c.Render(context.Background(), 0, m))
	e, _ = c.Get(0)
	assert.Contains(t, e.HTML, "Hola")
	assert.True(t, e.Translated)

	c.Reset()
	_, ok = c.Get(0)
	assert.False(t, ok)
}

type failingRenderer struct{ err error }

func (f failingRenderer) Render(context.Context, int, chat.Message) error { return f.err }

func TestMulti(t *testing.T) {
	cache := NewCache()
	boom := errors.New("boom")

	err := Multi{failingRenderer{boom}, cache, Discard{}}.Render(context.Background(), 2, chat.Message{ID: "x", Text: "hi"})

	assert.ErrorIs(t, err, boom)
	_, ok := cache.Get(2)
	assert.True(t, ok, "later renderers still run")
}
