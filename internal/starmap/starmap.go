// Package starmap holds the static star chart the mission core consults for
// marker placement and route estimates. System positions are plain map-plane
// coordinates; hyperlane adjacency drives jump-path search.
package starmap

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	geom "github.com/peterstace/simplefeatures/geom"
)

// ErrUnknownSystem is returned when a named system is not on the chart.
var ErrUnknownSystem = errors.New("unknown system")

// ErrNoRoute is returned when two systems have no hyperlane path.
var ErrNoRoute = errors.New("no route between systems")

// System is a single star system on the chart.
type System struct {
	Name  string   `json:"name"`
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	Jumps []string `json:"jumps"`
}

// Pos returns the system's map position.
func (s *System) Pos() geom.XY {
	return geom.XY{X: s.X, Y: s.Y}
}

// Point returns the system's map position as a geometry point.
func (s *System) Point() geom.Point {
	return geom.NewPoint(geom.Coordinates{
		XY:   geom.XY{X: s.X, Y: s.Y},
		Type: geom.DimXY,
	})
}

// Chart is the loaded star chart. Immutable after Load; safe for concurrent
// reads.
type Chart struct {
	systems map[string]*System
	order   []string
}

// Load reads a star chart from a JSON file. A malformed entry or a jump to an
// undefined system fails the whole load.
func Load(path string) (*Chart, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading starmap: %w", err)
	}

	var systems []System
	if err := json.Unmarshal(raw, &systems); err != nil {
		return nil, fmt.Errorf("error unmarshalling starmap: %w", err)
	}

	return New(systems)
}

// New builds a chart from system definitions, validating adjacency.
func New(systems []System) (*Chart, error) {
	c := &Chart{systems: make(map[string]*System, len(systems))}
	for i := range systems {
		s := systems[i]
		if s.Name == "" {
			return nil, fmt.Errorf("starmap entry %d: empty system name", i)
		}
		if _, dup := c.systems[s.Name]; dup {
			return nil, fmt.Errorf("starmap entry %q: duplicate system", s.Name)
		}
		c.systems[s.Name] = &s
		c.order = append(c.order, s.Name)
	}
	for _, name := range c.order {
		for _, j := range c.systems[name].Jumps {
			if _, ok := c.systems[j]; !ok {
				return nil, fmt.Errorf("system %q: jump to %w %q", name, ErrUnknownSystem, j)
			}
		}
	}
	return c, nil
}

// Get looks up a system by name.
func (c *Chart) Get(name string) (*System, bool) {
	s, ok := c.systems[name]
	return s, ok
}

// Has reports whether the chart contains the named system.
func (c *Chart) Has(name string) bool {
	_, ok := c.systems[name]
	return ok
}

// Names returns all system names in chart order.
func (c *Chart) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Distance returns the straight-line map distance between two systems.
func (c *Chart) Distance(a, b string) (float64, error) {
	sa, ok := c.systems[a]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSystem, a)
	}
	sb, ok := c.systems[b]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSystem, b)
	}
	d := sa.Pos().Sub(sb.Pos())
	return math.Hypot(d.X, d.Y), nil
}

// JumpPath returns the shortest hyperlane route from one system to another,
// inclusive of both endpoints. Fewest jumps wins; ties resolve in chart order.
func (c *Chart) JumpPath(from, to string) ([]string, error) {
	if !c.Has(from) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSystem, from)
	}
	if !c.Has(to) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSystem, to)
	}
	if from == to {
		return []string{from}, nil
	}

	prev := map[string]string{from: ""}
	frontier := []string{from}
	for len(frontier) > 0 {
		var next []string
		for _, name := range frontier {
			for _, j := range c.systems[name].Jumps {
				if _, seen := prev[j]; seen {
					continue
				}
				prev[j] = name
				if j == to {
					return c.walkBack(prev, from, to), nil
				}
				next = append(next, j)
			}
		}
		frontier = next
	}
	return nil, fmt.Errorf("%w: %q -> %q", ErrNoRoute, from, to)
}

func (c *Chart) walkBack(prev map[string]string, from, to string) []string {
	var rev []string
	for at := to; at != ""; at = prev[at] {
		rev = append(rev, at)
	}
	path := make([]string, 0, len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		path = append(path, rev[i])
	}
	return path
}
