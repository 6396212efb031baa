package chat

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{in: "inbound", want: Inbound},
		{in: "Assistant", want: Inbound},
		{in: "character", want: Inbound},
		{in: "user", want: Outbound},
		{in: " OUTBOUND ", want: Outbound},
		{in: "system", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDirection(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMessage_InboundTranslateAndRevert(t *testing.T) {
	m := Message{Direction: Inbound, Text: "Hello"}

	m.ApplyTranslation("Hola")

	assert.True(t, m.IsTranslated())
	assert.Equal(t, "Hello", m.Text, "inbound keeps stored text")
	assert.Equal(t, "Hola", m.Display())
	assert.Equal(t, "Hello", m.Translation.OriginalText)

	m.Revert()

	assert.False(t, m.IsTranslated())
	assert.Nil(t, m.Translation)
	assert.Equal(t, "Hello", m.Text)
	assert.Equal(t, "Hello", m.Display())
	assert.Empty(t, m.DisplayText)
}

func TestMessage_OutboundTranslateAndRevert(t *testing.T) {
	m := Message{Direction: Outbound, Text: "Hello"}

	m.ApplyTranslation("Hola")

	assert.True(t, m.IsTranslated())
	assert.Equal(t, "Hola", m.Text, "outbound replaces stored text")
	assert.Equal(t, "Hola", m.Display())
	assert.Equal(t, "Hello", m.Translation.OriginalText)

	m.Revert()

	assert.Nil(t, m.Translation)
	assert.Equal(t, "Hello", m.Text)
	assert.Equal(t, "Hello", m.Display())
}

func TestMessage_RetranslateKeepsOriginal(t *testing.T) {
	for _, dir := range []Direction{Inbound, Outbound} {
		t.Run(string(dir), func(t *testing.T) {
			m := Message{Direction: dir, Text: "Hello"}

			m.ApplyTranslation("Hola")
			assert.Equal(t, "Hello", m.SourceText())

			m.ApplyTranslation("Bonjour")
			assert.Equal(t, "Bonjour", m.Display())
			assert.Equal(t, "Hello", m.Translation.OriginalText)

			m.Revert()
			assert.Equal(t, "Hello", m.Text)
			assert.Equal(t, "Hello", m.Display())
		})
	}
}

func TestMessage_RevertUntranslatedIsNoop(t *testing.T) {
	m := Message{Direction: Outbound, Text: "Hello"}
	m.Revert()
	assert.Equal(t, "Hello", m.Text)
	assert.Nil(t, m.Translation)
}

func TestMessage_Replace(t *testing.T) {
	m := Message{Direction: Inbound, Text: "Hello"}
	m.ApplyTranslation("Hola")

	m.Replace("Good evening")

	assert.False(t, m.IsTranslated())
	assert.Equal(t, "Good evening", m.Display())
}

func TestMessage_IsBlank(t *testing.T) {
	assert.True(t, (&Message{Text: ""}).IsBlank())
	assert.True(t, (&Message{Text: " \n\t"}).IsBlank())
	assert.False(t, (&Message{Text: "x"}).IsBlank())
}

func TestMessage_CloneIsDeep(t *testing.T) {
	m := Message{Text: "Hello", Translation: &TranslationState{OriginalText: "Hello", IsTranslated: true}}

	c := m.Clone()
	c.Translation.OriginalText = "changed"

	assert.Equal(t, "Hello", m.Translation.OriginalText)
}

func TestTranscript(t *testing.T) {
	tr := NewTranscript(nil)

	i0, m0 := tr.Append(Outbound, "Hi")
	i1, _ := tr.Append(Inbound, "Hello there")

	assert.Equal(t, 0, i0)
	assert.Equal(t, 1, i1)
	assert.Equal(t, 2, tr.Len())
	assert.NotEmpty(t, m0.ID)

	err := tr.Update(1, func(m *Message) error {
		m.ApplyTranslation("Hola")
		return nil
	})
	require.NoError(t, err)

	got, err := tr.At(1)
	require.NoError(t, err)
	assert.Equal(t, "Hola", got.Display())

	got.Translation.OriginalText = "mutated copy"
	again, _ := tr.At(1)
	assert.Equal(t, "Hello there", again.Translation.OriginalText)

	_, err = tr.At(5)
	var rangeErr ErrIndexOutOfRange
	assert.True(t, errors.As(err, &rangeErr))

	tr.Reset()
	assert.Equal(t, 0, tr.Len())
}
