package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outpost-games/skirmish/internal/battle/unit"
)

func TestNewRegistry_Builtins(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, len(builtinDefinitions), r.Len())

	militia, ok := r.Get("militia")
	require.True(t, ok)
	assert.Equal(t, 12, militia.MaxHP)
	assert.Equal(t, 1, militia.AttackRange)

	_, ok = r.Get("dragon")
	assert.False(t, ok)
}

func TestRegistry_LoadFile(t *testing.T) {
	data := `
units:
  - id: dragon
    name: Dragon
    max_hp: 30
    damage: 9
    move_range: 5
    attack_range: 2
  - id: militia
    name: Veteran Militia
    max_hp: 15
    damage: 5
    move_range: 3
    attack_range: 1
`
	path := filepath.Join(t.TempDir(), "units.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	r := NewRegistry()
	require.NoError(t, r.LoadFile(path))

	dragon, ok := r.Get("dragon")
	require.True(t, ok)
	assert.Equal(t, 30, dragon.MaxHP)

	// Data file entries override built-ins with the same ID.
	militia, ok := r.Get("militia")
	require.True(t, ok)
	assert.Equal(t, 15, militia.MaxHP)
	assert.Equal(t, "Veteran Militia", militia.Name)
}

func TestRegistry_LoadFileRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing id", "units:\n  - name: Nameless\n    max_hp: 5\n"},
		{"non-positive hp", "units:\n  - id: ghost\n    max_hp: 0\n"},
		{"negative damage", "units:\n  - id: pacifist\n    max_hp: 5\n    damage: -1\n"},
		{"negative range", "units:\n  - id: turret\n    max_hp: 5\n    move_range: -1\n"},
		{"malformed yaml", "units: [not: closed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "units.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0o644))

			r := NewRegistry()
			assert.Error(t, r.LoadFile(path))
		})
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	err := r.Register(unit.Definition{ID: "scout", Name: "Scout", MaxHP: 6, Damage: 2, MoveRange: 5, AttackRange: 1})
	require.NoError(t, err)

	scout, ok := r.Get("scout")
	require.True(t, ok)
	assert.Equal(t, 5, scout.MoveRange)

	assert.Error(t, r.Register(unit.Definition{ID: "", MaxHP: 1}))
}
