package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func TestNewStore_ValidEntries(t *testing.T) {
	s, err := newStore([]templateEntry{
		{Name: "Tutorial", Location: "land", Chance: 100, Module: "tutorial", Priority: intp(0)},
		{Name: "Cargo Run", Location: "computer", Chance: 340, Module: "cargo_run"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())

	tmpl, ok := s.Get("Tutorial")
	require.True(t, ok)
	assert.Equal(t, LocLand, tmpl.Avail.Loc)
	assert.Equal(t, 0, tmpl.Avail.Priority)

	tmpl, ok = s.Get("Cargo Run")
	require.True(t, ok)
	assert.Equal(t, PriorityDefault, tmpl.Avail.Priority)

	_, ok = s.Get("Nope")
	assert.False(t, ok)
}

func TestNewStore_FailFast(t *testing.T) {
	cases := []struct {
		name    string
		entries []templateEntry
		wantSub string
	}{
		{
			name:    "missing name",
			entries: []templateEntry{{Location: "bar", Chance: 10, Module: "m"}},
			wantSub: "no name",
		},
		{
			name: "duplicate name",
			entries: []templateEntry{
				{Name: "Twin", Location: "bar", Chance: 10, Module: "m"},
				{Name: "Twin", Location: "bar", Chance: 10, Module: "m"},
			},
			wantSub: "duplicate",
		},
		{
			name:    "bad location",
			entries: []templateEntry{{Name: "X", Location: "casino", Chance: 10, Module: "m"}},
			wantSub: "unknown location",
		},
		{
			name:    "chance out of range",
			entries: []templateEntry{{Name: "X", Location: "bar", Chance: 1000, Module: "m"}},
			wantSub: "out of range",
		},
		{
			name:    "missing module",
			entries: []templateEntry{{Name: "X", Location: "bar", Chance: 10}},
			wantSub: "no script module",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newStore(tc.entries)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantSub)

			var le *LoadError
			assert.True(t, errors.As(err, &le))
		})
	}
}

func TestLoadError_NamesTemplate(t *testing.T) {
	_, err := newStore([]templateEntry{
		{Name: "Broken One", Location: "nowhere", Chance: 10, Module: "m"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Broken One")
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missions.json")
	data := `[
		{"name": "Smuggle", "location": "bar", "chance": 40, "unique": true,
		 "factions": ["Frontier"], "module": "smuggle"},
		{"name": "Patrol", "location": "computer", "chance": 230, "done": "Smuggle",
		 "priority": 10, "module": "patrol"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	s, err := Load(path, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())

	smuggle, _ := s.Get("Smuggle")
	assert.True(t, smuggle.Unique)
	assert.Equal(t, []string{"Frontier"}, smuggle.Avail.Factions)

	patrol, _ := s.Get("Patrol")
	assert.Equal(t, "Smuggle", patrol.Avail.Done)
	assert.Equal(t, 10, patrol.Avail.Priority)

	// catalog order preserved
	all := s.All()
	assert.Equal(t, "Smuggle", all[0].Name)
	assert.Equal(t, "Patrol", all[1].Name)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/missions.json", zerolog.Nop())
	require.Error(t, err)

	var le *LoadError
	assert.True(t, errors.As(err, &le))
}

func TestLoad_MalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missions.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0644))

	_, err := Load(path, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshalling")
}
