package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Verify Memory implements Frontend
var _ Frontend = (*Memory)(nil)

func TestParseMarkerClass(t *testing.T) {
	m, err := ParseMarkerClass("rush")
	require.NoError(t, err)
	assert.Equal(t, MarkerRush, m)

	_, err = ParseMarkerClass("sparkly")
	assert.Error(t, err)
}

func TestMemoryOSDLifecycle(t *testing.T) {
	m := NewMemory()

	h := m.CreateOSD(OSDSpec{Title: "Cargo Run", Items: []string{"Deliver to Em 5"}})
	spec, ok := m.OSD(h)
	require.True(t, ok)
	assert.Equal(t, "Cargo Run", spec.Title)

	m.UpdateOSD(h, OSDSpec{Title: "Cargo Run", Items: []string{"Return for payment"}})
	spec, _ = m.OSD(h)
	assert.Equal(t, []string{"Return for payment"}, spec.Items)

	m.DestroyOSD(h)
	_, ok = m.OSD(h)
	assert.False(t, ok)
	assert.Equal(t, 0, m.OSDCount())

	// destroying an unknown handle is ignored
	m.DestroyOSD(h)
}

func TestMemoryMarkers(t *testing.T) {
	m := NewMemory()
	m.SetSystemMarkers([]SystemMarker{{System: "Barnard", Class: MarkerCargo}})
	got := m.Markers()
	require.Len(t, got, 1)
	assert.Equal(t, "Barnard", got[0].System)

	m.SetSystemMarkers(nil)
	assert.Empty(t, m.Markers())
}
