package mission

import (
	"errors"
	"testing"

	"github.com/halcyon-engine/missions/internal/catalog"
	"github.com/halcyon-engine/missions/internal/scripting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func barVisit() Visit {
	return Visit{Loc: catalog.LocBar, Faction: "Empire", Planet: "Earth", System: "Sol"}
}

func TestGenerateOffersFilters(t *testing.T) {
	store := testStore(t, `[
	  {"name": "wrong-location", "location": "computer", "chance": 100, "module": "m"},
	  {"name": "wrong-planet", "location": "bar", "chance": 100, "planet": "Mars", "module": "m"},
	  {"name": "wrong-system", "location": "bar", "chance": 100, "system": "Barnard", "module": "m"},
	  {"name": "wrong-faction", "location": "bar", "chance": 100, "factions": ["Pirate"], "module": "m"},
	  {"name": "needs-prologue", "location": "bar", "chance": 100, "done": "prologue", "module": "m"},
	  {"name": "cond-false", "location": "bar", "chance": 100, "cond": "player.rich", "module": "m"},
	  {"name": "matches", "location": "bar", "chance": 100, "factions": ["Empire", "Dvaered"], "module": "m"}
	]`)
	f := newFixture(t, store, 1)
	f.table.deps.Cond = func(string) (bool, error) { return false, nil }

	offers := f.table.GenerateOffers(barVisit())
	require.Len(t, offers, 1)
	assert.Equal(t, "matches", offers[0].Template().Name)
}

func TestGenerateOffersDonePrerequisite(t *testing.T) {
	store := testStore(t, `[
	  {"name": "sequel", "location": "bar", "chance": 100, "done": "prologue", "module": "m"}
	]`)
	f := newFixture(t, store, 1)

	assert.Empty(t, f.table.GenerateOffers(barVisit()))

	f.completed.MarkDone("prologue")
	assert.Len(t, f.table.GenerateOffers(barVisit()), 1)
}

func TestGenerateOffersCondErrorSkipsTemplate(t *testing.T) {
	store := testStore(t, `[
	  {"name": "guarded", "location": "bar", "chance": 100, "cond": "bad expr", "module": "m"}
	]`)
	f := newFixture(t, store, 1)
	f.table.deps.Cond = func(string) (bool, error) { return true, errors.New("parse error") }
	assert.Empty(t, f.table.GenerateOffers(barVisit()))

	f.table.deps.Cond = func(string) (bool, error) { return true, nil }
	assert.Len(t, f.table.GenerateOffers(barVisit()), 1)

	// no evaluator at all: conditioned templates never qualify
	f.table.deps.Cond = nil
	assert.Empty(t, f.table.GenerateOffers(barVisit()))
}

func TestGenerateOffersRepeatCount(t *testing.T) {
	// hundreds digit 2, percent part 0: two guaranteed rolls per visit
	store := testStore(t, `[
	  {"name": "bulk-freight", "location": "bar", "chance": 200, "module": "m"}
	]`)
	f := newFixture(t, store, 1)

	offers := f.table.GenerateOffers(barVisit())
	require.Len(t, offers, 2)
	assert.Equal(t, offers[0].Template(), offers[1].Template())
}

func TestGenerateOffersPriorityOrdering(t *testing.T) {
	store := testStore(t, `[
	  {"name": "filler", "location": "bar", "chance": 100, "priority": 10, "module": "m"},
	  {"name": "main-plot", "location": "bar", "chance": 100, "priority": 0, "module": "m"},
	  {"name": "tie-a", "location": "bar", "chance": 100, "module": "m"},
	  {"name": "tie-b", "location": "bar", "chance": 100, "module": "m"}
	]`)
	f := newFixture(t, store, 1)

	offers := f.table.GenerateOffers(barVisit())
	require.Len(t, offers, 4)
	assert.Equal(t, "main-plot", offers[0].Template().Name)
	// default-priority ties keep catalog order
	assert.Equal(t, "tie-a", offers[1].Template().Name)
	assert.Equal(t, "tie-b", offers[2].Template().Name)
	assert.Equal(t, "filler", offers[3].Template().Name)
}

func TestGenerateOffersChanceStatistics(t *testing.T) {
	// 40%, at most once per visit, unique
	store := testStore(t, `[
	  {"name": "rare-find", "location": "bar", "chance": 40, "unique": true, "module": "rare-find"}
	]`)
	f := newFixture(t, store, 42)
	require.NoError(t, f.registry.Register("rare-find", map[string]scripting.HookFunc{}))

	hits := 0
	for i := 0; i < 1000; i++ {
		if len(f.table.GenerateOffers(barVisit())) > 0 {
			hits++
		}
	}
	assert.InDelta(t, 400, hits, 50)

	// once accepted, the unique template is never offered again
	id, err := f.table.StartByName("rare-find")
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		assert.Empty(t, f.table.GenerateOffers(barVisit()))
	}

	// completing it keeps it out for good
	require.NoError(t, f.table.Finish(id, OutcomeSuccess))
	for i := 0; i < 100; i++ {
		assert.Empty(t, f.table.GenerateOffers(barVisit()))
	}
}

func TestAcceptFromOffer(t *testing.T) {
	f := newFixture(t, testStore(t, singleTemplate), 1)
	require.NoError(t, f.registry.Register("cargo-run", map[string]scripting.HookFunc{}))

	offers := f.table.GenerateOffers(barVisit())
	require.Len(t, offers, 1)

	id, err := f.table.Accept(offers[0])
	require.NoError(t, err)
	m, ok := f.table.Get(id)
	require.True(t, ok)
	assert.Equal(t, "cargo-run", m.Name())
}
