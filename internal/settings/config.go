// Package settings owns the persisted translation configuration.
package settings

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/valpere/chattran/internal/autotrigger"
	"github.com/valpere/chattran/internal/preset"
	"github.com/valpere/chattran/internal/translator"
)

const (
	DefaultLanguage  = "English"
	DefaultMaxTokens = 1024
)

// Config is an immutable snapshot of the translation configuration.
type Config struct {
	TargetLanguage    string               `json:"target_language"`
	ConnectionProfile string               `json:"connection_profile"`
	Presets           []preset.Preset      `json:"presets"`
	SelectedPreset    int                  `json:"selected_preset"`
	FilterCodeBlock   bool                 `json:"filter_code_block"`
	AutoMode          autotrigger.Mode     `json:"auto_mode"`
	MaxTokens         int                  `json:"max_tokens"`
	Profiles          []translator.Profile `json:"profiles"`
}

// Defaults returns the configuration of a fresh install.
func Defaults() Config {
	return Config{
		TargetLanguage:  DefaultLanguage,
		Presets:         []preset.Preset{preset.Default()},
		SelectedPreset:  0,
		FilterCodeBlock: false,
		AutoMode:        autotrigger.None,
		MaxTokens:       DefaultMaxTokens,
	}
}

// Preset returns the selected preset.
func (c Config) Preset() (preset.Preset, bool) {
	if c.SelectedPreset < 0 || c.SelectedPreset >= len(c.Presets) {
		return preset.Preset{}, false
	}
	return c.Presets[c.SelectedPreset], true
}

// Profile looks up a connection profile by ID.
func (c Config) Profile(id string) (translator.Profile, bool) {
	for _, p := range c.Profiles {
		if p.ID == id {
			return p, true
		}
	}
	return translator.Profile{}, false
}

// WithLanguage returns a copy of c targeting lang.
func (c Config) WithLanguage(lang string) Config {
	c.TargetLanguage = lang
	return c
}

// Tokens returns MaxTokens, or the default when it is not positive.
func (c Config) Tokens() int {
	if c.MaxTokens <= 0 {
		return DefaultMaxTokens
	}
	return c.MaxTokens
}

func (c Config) clone() Config {
	c.Presets = append([]preset.Preset(nil), c.Presets...)
	c.Profiles = append([]translator.Profile(nil), c.Profiles...)
	return c
}

// ResolveLanguage turns a BCP 47 code such as "ja" or "pt-BR" into its English
// display name. Anything else, including plain names like "Spanish" or "Sin",
// is returned trimmed but otherwise unchanged.
func ResolveLanguage(s string) string {
	s = strings.TrimSpace(s)
	if !looksLikeCode(s) {
		return s
	}
	tag, err := language.Parse(s)
	if err != nil {
		return s
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return s
}

// reservedBases are codes for "no particular language" that never name a
// translation target.
var reservedBases = map[string]bool{"und": true, "mul": true, "mis": true, "zxx": true}

// looksLikeCode reports whether s is shaped like a language tag naming a
// language: a lowercase two or three letter primary subtag, optionally
// followed by "-" subtags.
func looksLikeCode(s string) bool {
	primary, rest, _ := strings.Cut(s, "-")
	if len(primary) < 2 || len(primary) > 3 || reservedBases[primary] {
		return false
	}
	for _, r := range primary {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return !strings.ContainsAny(rest, " \t")
}
