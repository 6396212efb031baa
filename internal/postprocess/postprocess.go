// Package postprocess recovers plain translations from raw model completions.
//
// ExtractCodeBlock is applied by the orchestrator when code-fence filtering is
// enabled. StripReasoning is applied by the HTTP backends to every completion
// before it leaves the client boundary.
package postprocess

import (
	"regexp"
	"strings"
)

// --- code fences ---

// wholeFenceRe matches a single fenced block spanning the response: optional
// leading text, an opening fence with optional language tag and newline, the
// captured body, a closing fence and optional trailing text.
var wholeFenceRe = regexp.MustCompile("(?s)^.*?```\\w*\\r?\\n?(.*?)```.*$")

// openFenceRe and closeFenceRe strip stray fence markers at line boundaries
// when no complete block was found.
var (
	openFenceRe  = regexp.MustCompile("(?m)^```\\w*\\r?\\n?")
	closeFenceRe = regexp.MustCompile("(?m)\\r?\\n?```$")
)

// inlineCodeRe matches text that is entirely one inline code span.
var inlineCodeRe = regexp.MustCompile("^`([^`]+)`$")

// ExtractCodeBlock unwraps code-fence or inline-code wrapping that models add
// around short answers. With enabled=false raw is returned unchanged.
func ExtractCodeBlock(raw string, enabled bool) string {
	if !enabled {
		return raw
	}

	result := raw
	if m := wholeFenceRe.FindStringSubmatch(result); m != nil {
		result = m[1]
	} else {
		result = openFenceRe.ReplaceAllString(result, "")
		result = closeFenceRe.ReplaceAllString(result, "")
	}

	if m := inlineCodeRe.FindStringSubmatch(result); m != nil {
		result = m[1]
	}

	return strings.TrimSpace(result)
}

// --- reasoning blocks ---

// leadingReasoningRe matches one complete <think>…</think> style block at the
// start of a completion. Each tag variant is listed explicitly because RE2 has
// no backreferences.
var leadingReasoningRe = regexp.MustCompile(
	`(?is)^\s*(?:<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>|<reflection>.*?</reflection>)`,
)

// unclosedReasoningRe matches a completion that opens a reasoning tag and never
// closes it because the model hit its token limit mid-thought.
var unclosedReasoningRe = regexp.MustCompile(
	`(?is)^\s*(?:<thinking>|<think>|<reasoning>|<reflection>).*$`,
)

// StripReasoning removes the reasoning blocks thinking models emit before
// their answer and trims the surrounding whitespace. Tags appearing after the
// answer has started are content and are kept, as is text without leading
// reasoning.
func StripReasoning(text string) string {
	stripped := text
	for {
		loc := leadingReasoningRe.FindStringIndex(stripped)
		if loc == nil {
			break
		}
		stripped = stripped[loc[1]:]
	}
	stripped = unclosedReasoningRe.ReplaceAllString(stripped, "")

	if stripped == text {
		return text
	}
	return strings.TrimSpace(stripped)
}
