package postprocess

import "testing"

func TestExtractCodeBlock_Disabled(t *testing.T) {
	inputs := []string{
		"",
		"Hola",
		"```\nHola\n```",
		"`Hola`",
		"  padded  \n",
		"text with ``` fence",
	}

	for _, in := range inputs {
		if got := ExtractCodeBlock(in, false); got != in {
			t.Errorf("ExtractCodeBlock(%q, false) = %q, want input unchanged", in, got)
		}
	}
}

func TestExtractCodeBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text passthrough",
			input:    "Hola",
			expected: "Hola",
		},
		{
			name:     "plain text is trimmed",
			input:    "  Hola mundo \n",
			expected: "Hola mundo",
		},
		{
			name:     "fenced block",
			input:    "```\nHola\n```",
			expected: "Hola",
		},
		{
			name:     "fenced block with language tag",
			input:    "```text\nBonjour le monde\n```",
			expected: "Bonjour le monde",
		},
		{
			name:     "fenced block with CRLF",
			input:    "```\r\nHallo\r\n```",
			expected: "Hallo",
		},
		{
			name:     "leading and trailing chatter around fence",
			input:    "Here you go:\n```\nCiao\n```\nHope this helps!",
			expected: "Ciao",
		},
		{
			name:     "multiple fences take the first block",
			input:    "```\nuno\n```\n```\ndos\n```",
			expected: "uno",
		},
		{
			name:     "inline code span",
			input:    "`Hola`",
			expected: "Hola",
		},
		{
			name:     "inline span followed by newline inside fence is kept",
			input:    "```\n`Hola`\n```",
			expected: "`Hola`",
		},
		{
			name:     "unterminated opening fence",
			input:    "```markdown\nHola mundo",
			expected: "Hola mundo",
		},
		{
			name:     "dangling closing fence",
			input:    "Hola mundo\n```",
			expected: "Hola mundo",
		},
		{
			name:     "backticks inside sentence are kept",
			input:    "Use `ls` to list files",
			expected: "Use `ls` to list files",
		},
		{
			name:     "two inline spans are kept",
			input:    "`a` and `b`",
			expected: "`a` and `b`",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractCodeBlock(tt.input, true)
			if got != tt.expected {
				t.Errorf("ExtractCodeBlock(%q, true) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestStripReasoning(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "no reasoning keeps whitespace",
			input:    "  Hola  ",
			expected: "  Hola  ",
		},
		{
			name:     "think block",
			input:    "<think>the user wants Spanish</think>\nHola",
			expected: "Hola",
		},
		{
			name:     "case insensitive thinking block",
			input:    "<THINKING>plan</THINKING>Bonjour",
			expected: "Bonjour",
		},
		{
			name:     "consecutive leading blocks",
			input:    "<reasoning>a</reasoning>\n<reflection>b</reflection>Hallo",
			expected: "Hallo",
		},
		{
			name:     "truncated leading block",
			input:    "<think>still going",
			expected: "",
		},
		{
			name:     "tag inside the answer is kept",
			input:    "Usa la etiqueta <think> para que el modelo razone antes de responder.",
			expected: "Usa la etiqueta <think> para que el modelo razone antes de responder.",
		},
		{
			name:     "closed block after the answer is kept",
			input:    "Hallo <reflection>b</reflection>",
			expected: "Hallo <reflection>b</reflection>",
		},
		{
			name:     "leading block then tag in the answer",
			input:    "<think>plan</think> Escribe <think> literalmente",
			expected: "Escribe <think> literalmente",
		},
		{
			name:     "html-like content is kept",
			input:    "<b>Hola</b>",
			expected: "<b>Hola</b>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripReasoning(tt.input)
			if got != tt.expected {
				t.Errorf("StripReasoning(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
