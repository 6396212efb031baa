package preset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/chattran/internal/apperr"
)

func TestNewStore_EmptyFallsBackToDefault(t *testing.T) {
	s := NewStore(nil, 5)

	require.Equal(t, 1, s.Len())
	assert.Equal(t, 0, s.SelectedIndex())
	p, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, Default(), p)
}

func TestNewStore_ClampsSelection(t *testing.T) {
	presets := []Preset{{Name: "a"}, {Name: "b"}}

	assert.Equal(t, 1, NewStore(presets, 9).SelectedIndex())
	assert.Equal(t, 0, NewStore(presets, -3).SelectedIndex())
}

func TestStore_Add(t *testing.T) {
	s := NewStore(nil, 0)

	idx, err := s.Add("Formal", "")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 1, s.SelectedIndex())

	p, _ := s.Selected()
	assert.Equal(t, "Formal", p.Name)
	assert.Equal(t, DefaultPrompt, p.Prompt)

	_, err = s.Add("   ", "x")
	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))
	assert.Equal(t, 2, s.Len())
}

func TestStore_Rename(t *testing.T) {
	s := NewStore([]Preset{{Name: "a", Prompt: "p"}}, 0)

	require.NoError(t, s.Rename(0, "renamed"))
	p, _ := s.At(0)
	assert.Equal(t, "renamed", p.Name)
	assert.Equal(t, "p", p.Prompt)

	assert.Error(t, s.Rename(3, "x"))
	assert.Error(t, s.Rename(0, ""))
}

func TestStore_SetPrompt(t *testing.T) {
	s := NewStore(nil, 0)

	require.NoError(t, s.SetPrompt(0, "To {{language}}: {{targetmessage}}"))
	p, _ := s.Selected()
	assert.Equal(t, "To {{language}}: {{targetmessage}}", p.Prompt)
}

func TestStore_Remove_LastPreset(t *testing.T) {
	s := NewStore([]Preset{{Name: "only", Prompt: "p"}}, 0)
	before := s.List()

	err := s.Remove(0)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrLastPreset))
	assert.True(t, apperr.Is(err, apperr.KindInvariantViolation))
	assert.Equal(t, before, s.List())
	assert.Equal(t, 0, s.SelectedIndex())
}

func TestStore_Remove_Selection(t *testing.T) {
	tests := []struct {
		name         string
		selected     int
		remove       int
		wantSelected string
	}{
		{name: "remove selected in middle", selected: 1, remove: 1, wantSelected: "a"},
		{name: "remove selected first", selected: 0, remove: 0, wantSelected: "b"},
		{name: "remove selected last", selected: 2, remove: 2, wantSelected: "b"},
		{name: "remove before selected", selected: 2, remove: 0, wantSelected: "c"},
		{name: "remove after selected", selected: 0, remove: 2, wantSelected: "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore([]Preset{{Name: "a"}, {Name: "b"}, {Name: "c"}}, tt.selected)

			require.NoError(t, s.Remove(tt.remove))

			assert.Equal(t, 2, s.Len())
			p, ok := s.Selected()
			require.True(t, ok)
			assert.Equal(t, tt.wantSelected, p.Name)
		})
	}
}

func TestStore_Remove_OutOfRange(t *testing.T) {
	s := NewStore([]Preset{{Name: "a"}, {Name: "b"}}, 0)

	err := s.Remove(7)
	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))
	assert.Equal(t, 2, s.Len())
}

func TestStore_Select(t *testing.T) {
	s := NewStore([]Preset{{Name: "a"}, {Name: "b"}}, 0)

	require.NoError(t, s.Select(1))
	assert.Equal(t, 1, s.SelectedIndex())
	assert.Error(t, s.Select(-1))
	assert.Equal(t, 1, s.SelectedIndex())
}

func TestStore_ListIsCopy(t *testing.T) {
	s := NewStore([]Preset{{Name: "a"}}, 0)

	list := s.List()
	list[0].Name = "mutated"

	p, _ := s.At(0)
	assert.Equal(t, "a", p.Name)
}
