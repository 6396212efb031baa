// Package preset holds the named prompt templates used to build translation
// requests.
package preset

import (
	"strings"

	"github.com/valpere/chattran/internal/apperr"
)

// Placeholders substituted by the prompt builder.
const (
	LanguagePlaceholder = "{{language}}"
	MessagePlaceholder  = "{{targetmessage}}"
)

// DefaultName is the name of the preset created for fresh settings.
const DefaultName = "Default"

// DefaultPrompt is the template used for the default preset and for presets
// added without an explicit prompt.
const DefaultPrompt = `Translate the following text to {{language}}. Only output the translation, nothing else.

Text to translate:
{{targetmessage}}`

// Preset is a named prompt template.
type Preset struct {
	Name   string `mapstructure:"name" yaml:"name" json:"name"`
	Prompt string `mapstructure:"prompt" yaml:"prompt" json:"prompt"`
}

// Default returns the preset used when none are configured.
func Default() Preset {
	return Preset{Name: DefaultName, Prompt: DefaultPrompt}
}

// Store is an ordered list of presets with a selected index. It always holds
// at least one preset. Store is not safe for concurrent use; callers guard it.
type Store struct {
	presets  []Preset
	selected int
}

// NewStore builds a store from presets, falling back to the default preset when
// the list is empty and clamping selected into range.
func NewStore(presets []Preset, selected int) *Store {
	s := &Store{presets: append([]Preset(nil), presets...)}
	if len(s.presets) == 0 {
		s.presets = []Preset{Default()}
		selected = 0
	}
	s.selected = clamp(selected, len(s.presets))
	return s
}

// List returns a copy of the presets.
func (s *Store) List() []Preset {
	return append([]Preset(nil), s.presets...)
}

func (s *Store) Len() int {
	return len(s.presets)
}

// SelectedIndex returns the index of the selected preset.
func (s *Store) SelectedIndex() int {
	return s.selected
}

// Selected returns the selected preset.
func (s *Store) Selected() (Preset, bool) {
	return s.At(s.selected)
}

// At returns the preset at index.
func (s *Store) At(index int) (Preset, bool) {
	if index < 0 || index >= len(s.presets) {
		return Preset{}, false
	}
	return s.presets[index], true
}

// Add appends a preset and selects it. An empty prompt uses DefaultPrompt.
func (s *Store) Add(name, prompt string) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, apperr.New(apperr.KindInvalidArgument, "preset name cannot be empty")
	}
	if prompt == "" {
		prompt = DefaultPrompt
	}
	s.presets = append(s.presets, Preset{Name: name, Prompt: prompt})
	s.selected = len(s.presets) - 1
	return s.selected, nil
}

// Rename changes the name of the preset at index.
func (s *Store) Rename(index int, name string) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.New(apperr.KindInvalidArgument, "preset name cannot be empty")
	}
	s.presets[index].Name = name
	return nil
}

// SetPrompt replaces the template of the preset at index.
func (s *Store) SetPrompt(index int, prompt string) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.presets[index].Prompt = prompt
	return nil
}

// Remove deletes the preset at index. The last remaining preset cannot be
// removed. Removing the selected preset selects max(0, index-1); removing one
// before it keeps the same preset selected.
func (s *Store) Remove(index int) error {
	if len(s.presets) <= 1 {
		return apperr.ErrLastPreset
	}
	if err := s.checkIndex(index); err != nil {
		return err
	}

	s.presets = append(s.presets[:index], s.presets[index+1:]...)

	switch {
	case index == s.selected:
		s.selected = max(0, index-1)
	case index < s.selected:
		s.selected--
	}
	s.selected = clamp(s.selected, len(s.presets))
	return nil
}

// Select makes the preset at index the selected one.
func (s *Store) Select(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.selected = index
	return nil
}

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.presets) {
		return apperr.Newf(apperr.KindInvalidArgument, "preset index %d out of range [0, %d)", index, len(s.presets))
	}
	return nil
}

func clamp(index, n int) int {
	if index < 0 {
		return 0
	}
	if index >= n {
		return n - 1
	}
	return index
}
