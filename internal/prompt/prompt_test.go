package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/valpere/chattran/internal/preset"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name     string
		template string
		language string
		text     string
		want     string
	}{
		{
			name:     "both placeholders",
			template: "Translate to {{language}}: {{targetmessage}}",
			language: "Spanish",
			text:     "Hello",
			want:     "Translate to Spanish: Hello",
		},
		{
			name:     "repeated placeholders",
			template: "{{language}} {{language}} / {{targetmessage}} {{targetmessage}}",
			language: "German",
			text:     "hi",
			want:     "German German / hi hi",
		},
		{
			name:     "no placeholders",
			template: "static prompt",
			language: "French",
			text:     "ignored",
			want:     "static prompt",
		},
		{
			name:     "source text contains placeholder literal",
			template: "To {{language}}: {{targetmessage}}",
			language: "Japanese",
			text:     "say {{language}} please",
			want:     "To Japanese: say {{language}} please",
		},
		{
			name:     "language contains message placeholder",
			template: "{{language}} -> {{targetmessage}}",
			language: "{{targetmessage}}",
			text:     "x",
			want:     "{{targetmessage}} -> x",
		},
		{
			name:     "default preset",
			template: preset.DefaultPrompt,
			language: "English",
			text:     "Bonjour",
			want:     "Translate the following text to English. Only output the translation, nothing else.\n\nText to translate:\nBonjour",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Build(preset.Preset{Name: "t", Prompt: tt.template}, tt.language, tt.text)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuild_NoPlaceholderLeftAndTextIncluded(t *testing.T) {
	p := preset.Preset{Prompt: "Render in {{language}}:\n{{targetmessage}}\n-- end"}
	texts := []string{"Hello", "multi\nline", "ünïcödé ✓", "`code`", "a"}

	for _, text := range texts {
		got := Build(p, "Ukrainian", text)
		assert.NotContains(t, got, preset.LanguagePlaceholder)
		assert.NotContains(t, got, preset.MessagePlaceholder)
		assert.True(t, strings.Contains(got, text), "prompt %q should contain %q", got, text)
	}
}
