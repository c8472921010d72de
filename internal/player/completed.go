// Package player tracks the per-player state the mission core consults:
// the log of completed missions feeding prerequisite and uniqueness checks.
// Latency here matters; the availability evaluator hits it for every template
// on every visit, so completions are cached in memory and only written
// through to the journal.
package player

import "sync"

// CompletedLog is the set of mission names the player has ever completed.
type CompletedLog struct {
	m    sync.Mutex
	done map[string]bool
}

// NewCompletedLog creates an empty completion log.
func NewCompletedLog() *CompletedLog {
	return &CompletedLog{done: make(map[string]bool)}
}

// Seed loads names into the log, typically from the journal at startup.
func (c *CompletedLog) Seed(names []string) {
	c.m.Lock()
	defer c.m.Unlock()
	for _, n := range names {
		c.done[n] = true
	}
}

// MarkDone records a completed mission.
func (c *CompletedLog) MarkDone(name string) {
	c.m.Lock()
	defer c.m.Unlock()
	c.done[name] = true
}

// IsDone reports whether the named mission has ever been completed.
func (c *CompletedLog) IsDone(name string) bool {
	c.m.Lock()
	defer c.m.Unlock()
	return c.done[name]
}

// Len returns the number of completed missions.
func (c *CompletedLog) Len() int {
	c.m.Lock()
	defer c.m.Unlock()
	return len(c.done)
}

// Reset clears the log, used when a new game starts.
func (c *CompletedLog) Reset() {
	c.m.Lock()
	defer c.m.Unlock()
	c.done = make(map[string]bool)
}
