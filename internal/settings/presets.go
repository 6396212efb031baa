package settings

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/valpere/chattran/internal/apperr"
	"github.com/valpere/chattran/internal/preset"
	"github.com/valpere/chattran/internal/translator"
)

// AddPreset appends a preset, selects it and returns its index.
func (s *Settings) AddPreset(name, prompt string) (int, error) {
	var index int
	err := s.update(func() error {
		var err error
		index, err = s.presets.Add(name, prompt)
		return err
	})
	return index, err
}

func (s *Settings) RenamePreset(index int, name string) error {
	return s.update(func() error { return s.presets.Rename(index, name) })
}

func (s *Settings) SetPresetPrompt(index int, prompt string) error {
	return s.update(func() error { return s.presets.SetPrompt(index, prompt) })
}

// RemovePreset deletes a preset. Removing the last one fails with
// apperr.ErrLastPreset and changes nothing.
func (s *Settings) RemovePreset(index int) error {
	return s.update(func() error { return s.presets.Remove(index) })
}

func (s *Settings) SelectPreset(index int) error {
	return s.update(func() error { return s.presets.Select(index) })
}

// ReplacePresets swaps the whole preset list, as done by an import.
func (s *Settings) ReplacePresets(presets []preset.Preset, selected int) error {
	for i, p := range presets {
		if strings.TrimSpace(p.Name) == "" {
			return apperr.Newf(apperr.KindInvalidArgument, "preset %d has no name", i)
		}
	}
	return s.update(func() error {
		s.presets = preset.NewStore(presets, selected)
		return nil
	})
}

// presetFile is the layout of exported presets.
type presetFile struct {
	Presets        []preset.Preset `yaml:"presets"`
	SelectedPreset int             `yaml:"selected_preset"`
}

// ExportPresets writes the preset list and selection as YAML.
func (s *Settings) ExportPresets(w io.Writer) error {
	c := s.Snapshot()
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(presetFile{Presets: c.Presets, SelectedPreset: c.SelectedPreset}); err != nil {
		return fmt.Errorf("failed to encode presets: %w", err)
	}
	return enc.Close()
}

// ImportPresets replaces the preset list with the YAML read from r.
func (s *Settings) ImportPresets(r io.Reader) error {
	var f presetFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return apperr.Wrap(err, apperr.KindInvalidArgument, "invalid preset file")
	}
	if len(f.Presets) == 0 {
		return apperr.New(apperr.KindInvalidArgument, "preset file contains no presets")
	}
	return s.ReplacePresets(f.Presets, f.SelectedPreset)
}

// PutProfile adds a connection profile or replaces the one with the same ID.
func (s *Settings) PutProfile(p translator.Profile) error {
	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		return apperr.New(apperr.KindInvalidArgument, "profile id is required")
	}
	if p.Provider == "" {
		return apperr.New(apperr.KindInvalidArgument, "profile provider is required")
	}
	return s.update(func() error {
		for i := range s.cfg.Profiles {
			if s.cfg.Profiles[i].ID == p.ID {
				s.cfg.Profiles[i] = p
				return nil
			}
		}
		s.cfg.Profiles = append(s.cfg.Profiles, p)
		return nil
	})
}

// RemoveProfile deletes a connection profile. If it was the active one the
// active profile is cleared, which disables translation until another is
// chosen.
func (s *Settings) RemoveProfile(id string) error {
	return s.update(func() error {
		for i := range s.cfg.Profiles {
			if s.cfg.Profiles[i].ID == id {
				s.cfg.Profiles = append(s.cfg.Profiles[:i:i], s.cfg.Profiles[i+1:]...)
				if s.cfg.ConnectionProfile == id {
					s.cfg.ConnectionProfile = ""
				}
				return nil
			}
		}
		return apperr.Newf(apperr.KindNotFound, "connection profile %q not found", id)
	})
}

// UseProfile makes id the active connection profile.
func (s *Settings) UseProfile(id string) error {
	return s.update(func() error {
		if _, ok := s.cfg.Profile(id); !ok {
			return apperr.Newf(apperr.KindNotFound, "connection profile %q not found", id)
		}
		s.cfg.ConnectionProfile = id
		return nil
	})
}
