// Package cargo maintains the association between active missions and the
// cargo they have placed in the player's inventory. It is the only component
// allowed to mutate that association; teardown relies on it to return cargo
// to unattached inventory without destroying it.
package cargo

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// ID is an opaque handle to a unit of player inventory.
type ID uint64

// Owner identifies the mission side of a link. It matches the active mission
// table's runtime identifiers.
type Owner uint32

// ErrAlreadyLinked is returned when a cargo handle is attached while linked
// to a different mission.
var ErrAlreadyLinked = errors.New("cargo already linked to another mission")

// ErrNotLinked is returned when detaching a handle the mission does not own.
var ErrNotLinked = errors.New("cargo not linked to this mission")

// Inventory is the player-inventory view the linker validates against.
type Inventory interface {
	HasCargo(id ID) bool
}

// Linker is the bidirectional, validated cargo-mission map.
type Linker struct {
	mu        sync.Mutex
	inv       Inventory
	log       zerolog.Logger
	byCargo   map[ID]Owner
	byMission map[Owner]map[ID]struct{}
}

// New creates a Linker validating against the given inventory.
func New(inv Inventory, log zerolog.Logger) *Linker {
	return &Linker{
		inv:       inv,
		log:       log,
		byCargo:   make(map[ID]Owner),
		byMission: make(map[Owner]map[ID]struct{}),
	}
}

// Attach links a cargo handle to a mission. The handle must exist in the
// player's inventory and must not be linked elsewhere. Attaching a handle a
// mission already owns is a no-op.
func (l *Linker) Attach(owner Owner, id ID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.inv != nil && !l.inv.HasCargo(id) {
		return fmt.Errorf("cargo %d not in player inventory", id)
	}

	if cur, linked := l.byCargo[id]; linked {
		if cur == owner {
			return nil
		}
		l.log.Warn().Uint64("cargo", uint64(id)).
			Uint32("mission", uint32(owner)).
			Uint32("linkedTo", uint32(cur)).
			Msg("Attach refused, cargo already linked")
		return fmt.Errorf("%w: cargo %d held by mission %d", ErrAlreadyLinked, id, cur)
	}

	l.byCargo[id] = owner
	if l.byMission[owner] == nil {
		l.byMission[owner] = make(map[ID]struct{})
	}
	l.byMission[owner][id] = struct{}{}
	return nil
}

// Detach removes the link between a mission and a cargo handle. The cargo
// itself is untouched. Detaching an unlinked handle is reported, not fatal.
func (l *Linker) Detach(owner Owner, id ID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	cur, linked := l.byCargo[id]
	if !linked || cur != owner {
		l.log.Warn().Uint64("cargo", uint64(id)).
			Uint32("mission", uint32(owner)).
			Msg("Detach of cargo the mission does not own")
		return fmt.Errorf("%w: cargo %d, mission %d", ErrNotLinked, id, owner)
	}

	delete(l.byCargo, id)
	delete(l.byMission[owner], id)
	if len(l.byMission[owner]) == 0 {
		delete(l.byMission, owner)
	}
	return nil
}

// ReleaseAll detaches every cargo handle the mission owns and returns them,
// sorted, so teardown can hand them back to unattached inventory.
func (l *Linker) ReleaseAll(owner Owner) []ID {
	l.mu.Lock()
	defer l.mu.Unlock()

	held := l.byMission[owner]
	if len(held) == 0 {
		return nil
	}
	out := make([]ID, 0, len(held))
	for id := range held {
		delete(l.byCargo, id)
		out = append(out, id)
	}
	delete(l.byMission, owner)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// OwnerOf returns the mission a cargo handle is linked to, if any.
func (l *Linker) OwnerOf(id ID) (Owner, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	o, ok := l.byCargo[id]
	return o, ok
}

// Owned returns the cargo handles a mission currently owns, sorted.
func (l *Linker) Owned(owner Owner) []ID {
	l.mu.Lock()
	defer l.mu.Unlock()

	held := l.byMission[owner]
	out := make([]ID, 0, len(held))
	for id := range held {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
