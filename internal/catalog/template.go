// Package catalog holds the static mission catalog: immutable templates
// loaded once at startup, never mutated afterwards, safe for concurrent read.
package catalog

import "fmt"

// Location is where a mission presents itself to the player.
type Location int

const (
	LocNone Location = iota // not available anywhere
	LocComputer
	LocBar
	LocOutfitter
	LocShipyard
	LocLand // triggers on landing rather than being browsed
	LocCommodity
)

var locationNames = map[Location]string{
	LocNone:      "none",
	LocComputer:  "computer",
	LocBar:       "bar",
	LocOutfitter: "outfitter",
	LocShipyard:  "shipyard",
	LocLand:      "land",
	LocCommodity: "commodity",
}

var locationValues = map[string]Location{
	"none":      LocNone,
	"computer":  LocComputer,
	"bar":       LocBar,
	"outfitter": LocOutfitter,
	"shipyard":  LocShipyard,
	"land":      LocLand,
	"commodity": LocCommodity,
}

func (l Location) String() string {
	if s, ok := locationNames[l]; ok {
		return s
	}
	return fmt.Sprintf("Location(%d)", int(l))
}

// ParseLocation converts a catalog string to a Location.
func ParseLocation(s string) (Location, error) {
	if l, ok := locationValues[s]; ok {
		return l, nil
	}
	return LocNone, fmt.Errorf("unknown location %q", s)
}

// Mission priorities. Lower sorts first.
const (
	PriorityMainPlot = 0
	PriorityDefault  = 5
	PriorityFiller   = 10
)

// Availability describes when and where a template may be offered.
//
// Chance keeps the catalog's single-integer encoding: the low two digits are
// the appearance percentage, the hundreds digit is how many independent rolls
// a single visit gets (0 behaves as 1). One data quirk is preserved for
// compatibility: a non-zero Chance whose percent part is 0 means 100%.
type Availability struct {
	Loc    Location
	Chance int

	// fixed-place restrictions; empty means unrestricted
	Planet string
	System string

	// qualifying factions; empty means any
	Factions []string

	// Cond is an optional precondition expression evaluated against game
	// state by the embedding engine.
	Cond string

	// Done names a mission that must already be completed.
	Done string

	Priority int
}

// Percent returns the appearance percentage encoded in Chance.
func (a Availability) Percent() int {
	p := a.Chance % 100
	if p == 0 && a.Chance > 0 {
		return 100
	}
	return p
}

// Rolls returns how many independent appearance rolls a visit gets.
func (a Availability) Rolls() int {
	r := a.Chance / 100
	if r < 1 {
		return 1
	}
	return r
}

// QualifiesFaction reports whether the faction may be offered this template.
func (a Availability) QualifiesFaction(faction string) bool {
	if len(a.Factions) == 0 {
		return true
	}
	for _, f := range a.Factions {
		if f == faction {
			return true
		}
	}
	return false
}

// Template is a static mission definition.
type Template struct {
	// Name uniquely identifies the template.
	Name string

	Avail Availability

	// Unique missions can be offered or held at most once ever.
	Unique bool

	// Module names the script module implementing the mission's logic.
	Module string
}
