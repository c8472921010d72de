// Package journal persists the mission lifecycle: accepted missions, their
// outcomes, lifecycle events and the player's permanent completion log.
package journal

import "time"

// Accepted describes a mission at the moment it enters the active table.
type Accepted struct {
	RuntimeID  uint32
	Name       string
	Title      string
	ScriptMod  string
	AcceptedAt time.Time
}

// Finished describes a mission leaving the active table.
type Finished struct {
	RuntimeID  uint32
	Outcome    string
	FinishedAt time.Time
}

// Event is one lifecycle event attributed to an active mission.
type Event struct {
	RuntimeID uint32
	Mission   string
	Kind      string
	Entry     string
	Detail    map[string]any
}

// Backend is a journal sink. Implementations must tolerate being called from
// a single goroutine only; the mission core is cooperative.
type Backend interface {
	Init() error
	Close() error

	MissionAccepted(a Accepted) error
	MissionFinished(f Finished) error
	RecordEvent(e Event) error

	// CompletedNames returns the persisted completion log, used to seed the
	// availability evaluator's done-filter at startup.
	CompletedNames() ([]string, error)
	MarkCompleted(name string) error
}
