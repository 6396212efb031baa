// Package chat models conversation messages and their translation state.
package chat

import (
	"fmt"
	"strings"
	"time"
)

// Direction tells whether a message came from the counterpart or the user.
type Direction string

const (
	Inbound  Direction = "inbound"
	Outbound Direction = "outbound"
)

// ParseDirection accepts "inbound"/"outbound" and the aliases used by chat
// front ends ("assistant"/"character" and "user").
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inbound", "in", "assistant", "character":
		return Inbound, nil
	case "outbound", "out", "user":
		return Outbound, nil
	default:
		return "", fmt.Errorf("unknown message direction %q", s)
	}
}

// TranslationState records that a message is showing a translation and what
// the text was before it.
type TranslationState struct {
	OriginalText string `json:"original_text"`
	IsTranslated bool   `json:"is_translated"`
}

// Message is a transcript entry.
//
// Inbound translations go to DisplayText and leave Text untouched, so
// downstream consumers keep reading the original. Outbound translations replace
// Text, since that is what gets sent onward, and keep the input in
// Translation.OriginalText.
type Message struct {
	ID          string            `json:"id"`
	Direction   Direction         `json:"direction"`
	Text        string            `json:"text"`
	DisplayText string            `json:"display_text,omitempty"`
	Translation *TranslationState `json:"translation,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// IsTranslated reports whether the message currently shows a translation.
func (m *Message) IsTranslated() bool {
	return m.Translation != nil && m.Translation.IsTranslated
}

// IsBlank reports whether the message has no translatable text.
func (m *Message) IsBlank() bool {
	return strings.TrimSpace(m.Text) == ""
}

// Display returns the text a renderer should show.
func (m *Message) Display() string {
	if m.DisplayText != "" {
		return m.DisplayText
	}
	return m.Text
}

// SourceText returns the pre-translation text.
func (m *Message) SourceText() string {
	if m.IsTranslated() {
		return m.Translation.OriginalText
	}
	return m.Text
}

// ApplyTranslation records translation on the message. Applying to a message
// that is already translated replaces the translation and keeps the original.
func (m *Message) ApplyTranslation(translation string) {
	original := m.SourceText()

	switch m.Direction {
	case Outbound:
		m.Text = translation
		m.DisplayText = ""
	default:
		m.DisplayText = translation
	}

	m.Translation = &TranslationState{OriginalText: original, IsTranslated: true}
	m.UpdatedAt = time.Now()
}

// Revert restores the pre-translation text and clears the translation state.
// It is a no-op on messages that are not translated.
func (m *Message) Revert() {
	if !m.IsTranslated() {
		return
	}
	if m.Direction == Outbound {
		m.Text = m.Translation.OriginalText
	}
	m.DisplayText = ""
	m.Translation = nil
	m.UpdatedAt = time.Now()
}

// Replace swaps in regenerated text and drops any translation state, making the
// message eligible for translation again.
func (m *Message) Replace(text string) {
	m.Text = text
	m.DisplayText = ""
	m.Translation = nil
	m.UpdatedAt = time.Now()
}

// Clone returns a deep copy of m.
func (m Message) Clone() Message {
	if m.Translation != nil {
		state := *m.Translation
		m.Translation = &state
	}
	return m
}
