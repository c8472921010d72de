// Package ui defines the opaque-handle surface the mission core uses to talk
// to the on-screen display and map widgets. The core creates, updates and
// destroys by handle; layout and rendering stay with the UI layer.
package ui

import "fmt"

// MarkerClass distinguishes map marker styles.
type MarkerClass int

const (
	MarkerMisc MarkerClass = iota
	MarkerRush
	MarkerCargo
)

var markerNames = map[MarkerClass]string{
	MarkerMisc:  "misc",
	MarkerRush:  "rush",
	MarkerCargo: "cargo",
}

var markerValues = map[string]MarkerClass{
	"misc":  MarkerMisc,
	"rush":  MarkerRush,
	"cargo": MarkerCargo,
}

func (m MarkerClass) String() string {
	if s, ok := markerNames[m]; ok {
		return s
	}
	return fmt.Sprintf("MarkerClass(%d)", int(m))
}

// ParseMarkerClass converts a script-supplied marker class string.
func ParseMarkerClass(s string) (MarkerClass, error) {
	if m, ok := markerValues[s]; ok {
		return m, nil
	}
	return MarkerMisc, fmt.Errorf("unknown marker class %q", s)
}

// SystemMarker marks a target system on the map for one mission.
type SystemMarker struct {
	System string
	Class  MarkerClass
}

// OSDHandle identifies one on-screen-display entry.
type OSDHandle uint32

// OSDSpec is the content of an on-screen-display entry.
type OSDSpec struct {
	Title string
	Items []string
}

// ImageHandle is an opaque reference to a portrait or similar asset.
type ImageHandle string

// Frontend is the widget surface the mission core drives.
type Frontend interface {
	// CreateOSD creates an on-screen-display entry and returns its handle.
	CreateOSD(spec OSDSpec) OSDHandle
	// UpdateOSD replaces the content of an existing entry.
	UpdateOSD(h OSDHandle, spec OSDSpec)
	// DestroyOSD removes an entry. Unknown handles are ignored.
	DestroyOSD(h OSDHandle)
	// SetSystemMarkers replaces the full set of mission map markers.
	SetSystemMarkers(markers []SystemMarker)
}
