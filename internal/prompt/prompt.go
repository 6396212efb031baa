// Package prompt renders preset templates into translation requests.
package prompt

import (
	"strings"

	"github.com/valpere/chattran/internal/preset"
)

// Build substitutes every {{language}} and {{targetmessage}} in the preset
// template. The template is scanned once, so placeholder text inside the
// substituted values is never expanded.
func Build(p preset.Preset, language, sourceText string) string {
	r := strings.NewReplacer(
		preset.LanguagePlaceholder, language,
		preset.MessagePlaceholder, sourceText,
	)
	return r.Replace(p.Prompt)
}
