// Package memory implements an in-process journal backend. It is the default
// backend and the one the tests assert against.
package memory

import (
	"fmt"
	"sync"

	"github.com/halcyon-engine/missions/internal/journal"
)

// Backend keeps the journal in process memory.
type Backend struct {
	mu        sync.Mutex
	accepted  []journal.Accepted
	finished  []journal.Finished
	events    []journal.Event
	completed map[string]struct{}
	order     []string
	closed    bool
}

var _ journal.Backend = (*Backend)(nil)

// New creates an empty in-memory journal.
func New() *Backend {
	return &Backend{completed: make(map[string]struct{})}
}

func (b *Backend) Init() error { return nil }

func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

func (b *Backend) MissionAccepted(a journal.Accepted) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("journal closed")
	}
	b.accepted = append(b.accepted, a)
	return nil
}

func (b *Backend) MissionFinished(f journal.Finished) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("journal closed")
	}
	b.finished = append(b.finished, f)
	return nil
}

func (b *Backend) RecordEvent(e journal.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("journal closed")
	}
	b.events = append(b.events, e)
	return nil
}

func (b *Backend) CompletedNames() ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.order...), nil
}

func (b *Backend) MarkCompleted(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("journal closed")
	}
	if _, ok := b.completed[name]; ok {
		return nil
	}
	b.completed[name] = struct{}{}
	b.order = append(b.order, name)
	return nil
}

// Accepted returns the recorded accept entries, for assertions.
func (b *Backend) Accepted() []journal.Accepted {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]journal.Accepted(nil), b.accepted...)
}

// Finished returns the recorded finish entries, for assertions.
func (b *Backend) Finished() []journal.Finished {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]journal.Finished(nil), b.finished...)
}

// Events returns the recorded lifecycle events, for assertions.
func (b *Backend) Events() []journal.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]journal.Event(nil), b.events...)
}
