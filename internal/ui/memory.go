package ui

import "sync"

// Memory is an in-memory Frontend used by tests and the simulation harness.
type Memory struct {
	mu      sync.Mutex
	nextOSD OSDHandle
	osds    map[OSDHandle]OSDSpec
	markers []SystemMarker
}

// NewMemory creates an empty in-memory frontend.
func NewMemory() *Memory {
	return &Memory{osds: make(map[OSDHandle]OSDSpec)}
}

func (m *Memory) CreateOSD(spec OSDSpec) OSDHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextOSD++
	m.osds[m.nextOSD] = spec
	return m.nextOSD
}

func (m *Memory) UpdateOSD(h OSDHandle, spec OSDSpec) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.osds[h]; ok {
		m.osds[h] = spec
	}
}

func (m *Memory) DestroyOSD(h OSDHandle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.osds, h)
}

func (m *Memory) SetSystemMarkers(markers []SystemMarker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers = append([]SystemMarker(nil), markers...)
}

// OSD returns the content of an entry, for assertions.
func (m *Memory) OSD(h OSDHandle) (OSDSpec, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	spec, ok := m.osds[h]
	return spec, ok
}

// OSDCount returns the number of live entries.
func (m *Memory) OSDCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.osds)
}

// Markers returns the current marker set.
func (m *Memory) Markers() []SystemMarker {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SystemMarker(nil), m.markers...)
}
