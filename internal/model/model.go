// Package model defines the persisted journal schema for the mission core.
package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MissionRecord is one accepted mission's journal row, updated at teardown.
type MissionRecord struct {
	gorm.Model
	RuntimeID  uint32 `gorm:"index"`
	Name       string `gorm:"index"`
	Title      string
	ScriptMod  string
	AcceptedAt time.Time
	FinishedAt *time.Time
	Outcome    string // empty while the mission is active
	Detail     datatypes.JSON
}

// MissionEvent is a single lifecycle event: a script failure, a cargo link, a
// timer expiry, a marker change.
type MissionEvent struct {
	gorm.Model
	RuntimeID uint32 `gorm:"index"`
	Mission   string
	Kind      string `gorm:"index"`
	Entry     string
	Detail    datatypes.JSON
}

// CompletedMission is one row of the player's permanent completion log.
type CompletedMission struct {
	gorm.Model
	Name string `gorm:"uniqueIndex"`
}

// Event kinds written by the mission core.
const (
	EventScriptFailure = "script_failure"
	EventCargoLinked   = "cargo_linked"
	EventCargoUnlinked = "cargo_unlinked"
	EventTimerFired    = "timer_fired"
	EventMarkerSet     = "marker_set"
)

// DatabaseModels lists every model migrated into the journal database.
var DatabaseModels = []any{
	&MissionRecord{},
	&MissionEvent{},
	&CompletedMission{},
}
