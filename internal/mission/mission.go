// Package mission implements the active mission table: the fixed-capacity
// registry of accepted missions, their timers, markers, cargo links and
// script state, plus the availability evaluator that produces offers.
package mission

import (
	"errors"
	"fmt"

	"github.com/halcyon-engine/missions/internal/catalog"
	"github.com/halcyon-engine/missions/internal/scripting"
	"github.com/halcyon-engine/missions/internal/ui"
)

const (
	// MissionMax bounds how many missions the player can hold at once.
	MissionMax = 12
	// TimerMax bounds the countdown timers of a single mission.
	TimerMax = 10
)

// Outcome is the terminal state a mission leaves the table with.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomeAbort   Outcome = "abort"
)

// ErrCapacityExceeded rejects an accept when the table is full.
var ErrCapacityExceeded = errors.New("active mission table full")

// ErrUniqueViolation rejects an accept of a unique mission already held or
// completed.
var ErrUniqueViolation = errors.New("unique mission already held or completed")

// ErrNotActive reports an operation on a mission identifier that is not in
// the table, including a second finish of the same mission.
var ErrNotActive = errors.New("mission not active")

// AcceptError reports why an offer could not be accepted.
type AcceptError struct {
	Template string
	Err      error
}

func (e *AcceptError) Error() string {
	return fmt.Sprintf("accept %q: %v", e.Template, e.Err)
}

func (e *AcceptError) Unwrap() error { return e.Err }

// timer is one countdown slot. Inactive slots have active == false; a slot is
// cleared before its callback fires, so a single large delta never fires a
// slot twice.
type timer struct {
	active    bool
	remaining float64
	callback  string
}

// ActiveMission is one runtime instance of an accepted quest. All mutation
// happens on the engine's single simulation step.
type ActiveMission struct {
	id       uint32
	tmpl     *catalog.Template
	accepted bool

	// presentation, mutable by script calls
	Title    string
	Desc     string
	Reward   string
	NPC      string
	Portrait ui.ImageHandle

	timers [TimerMax]timer

	marker *ui.SystemMarker

	osd    ui.OSDHandle
	hasOSD bool
	osdSet bool // script configured the OSD itself

	script *scripting.Handle

	// pending holds a teardown requested from inside a hook, applied once the
	// step's iteration is done.
	pending Outcome
}

// ID returns the mission's runtime identifier.
func (m *ActiveMission) ID() uint32 { return m.id }

// Template returns the immutable template the mission was started from.
func (m *ActiveMission) Template() *catalog.Template { return m.tmpl }

// Name returns the template name.
func (m *ActiveMission) Name() string { return m.tmpl.Name }

// Marker returns the mission's system marker, if set.
func (m *ActiveMission) Marker() (ui.SystemMarker, bool) {
	if m.marker == nil {
		return ui.SystemMarker{}, false
	}
	return *m.marker, true
}

// TimerRemaining returns the remaining duration of a timer slot, if active.
func (m *ActiveMission) TimerRemaining(slot int) (float64, bool) {
	if slot < 0 || slot >= TimerMax || !m.timers[slot].active {
		return 0, false
	}
	return m.timers[slot].remaining, true
}

func (m *ActiveMission) live() bool {
	return m.accepted && m.pending == ""
}
