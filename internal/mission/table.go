package mission

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/halcyon-engine/missions/internal/catalog"
	"github.com/halcyon-engine/missions/internal/cargo"
	"github.com/halcyon-engine/missions/internal/journal"
	"github.com/halcyon-engine/missions/internal/model"
	"github.com/halcyon-engine/missions/internal/player"
	"github.com/halcyon-engine/missions/internal/scripting"
	"github.com/halcyon-engine/missions/internal/text"
	"github.com/halcyon-engine/missions/internal/ui"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CondFunc evaluates a template's precondition expression against game state.
type CondFunc func(expr string) (bool, error)

// Dependencies wires the table to its collaborators.
type Dependencies struct {
	Catalog   *catalog.Store
	Bridge    *scripting.Bridge
	Linker    *cargo.Linker
	Completed *player.CompletedLog
	UI        ui.Frontend
	Journal   journal.Backend
	Logger    zerolog.Logger

	// Rand drives availability rolls. Seeded by the caller; tests pass a
	// deterministic source.
	Rand *rand.Rand

	// Cond evaluates precondition expressions. Nil treats every condition
	// as unmet.
	Cond CondFunc
}

// Table is the active mission registry. All mutation happens on the engine's
// single simulation step; the table itself takes no locks.
type Table struct {
	deps Dependencies

	active []*ActiveMission
	nextID uint32

	// stepping is set while Run or Tick iterates; teardown requested inside a
	// hook is deferred until the iteration finishes.
	stepping bool

	offersRolled     metric.Int64Counter
	missionsAccepted metric.Int64Counter
	missionsFinished metric.Int64Counter
}

// NewTable creates an empty mission table.
// Uses the global OTel meter for metrics (no-op if not configured).
func NewTable(deps Dependencies) (*Table, error) {
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	t := &Table{deps: deps}

	m := meter()
	var err error

	t.offersRolled, err = m.Int64Counter(
		"missions.offers",
		metric.WithDescription("Offer candidates generated"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating offers counter: %w", err)
	}
	t.missionsAccepted, err = m.Int64Counter(
		"missions.accepted",
		metric.WithDescription("Missions accepted into the active table"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating accepted counter: %w", err)
	}
	t.missionsFinished, err = m.Int64Counter(
		"missions.finished",
		metric.WithDescription("Missions torn down, by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating finished counter: %w", err)
	}

	return t, nil
}

// Len returns the number of active missions.
func (t *Table) Len() int { return len(t.active) }

// Get looks up an active mission by runtime identifier.
func (t *Table) Get(id uint32) (*ActiveMission, bool) {
	for _, m := range t.active {
		if m.id == id {
			return m, true
		}
	}
	return nil, false
}

// Holds reports whether any active mission was started from the named
// template.
func (t *Table) Holds(name string) bool {
	for _, m := range t.active {
		if m.tmpl.Name == name {
			return true
		}
	}
	return false
}

// Accept turns an offer candidate into an active mission: allocates a slot,
// creates script state bound to the template's module, and invokes the
// script's create entry point. Any failure releases everything again; a
// mission whose creation fails never becomes visible.
func (t *Table) Accept(c *Candidate) (uint32, error) {
	return t.start(c.tmpl)
}

// StartByName starts a mission directly from its template, bypassing the
// availability evaluator. Campaign scripts chain missions this way.
func (t *Table) StartByName(name string) (uint32, error) {
	tmpl, ok := t.deps.Catalog.Get(name)
	if !ok {
		return 0, fmt.Errorf("start mission: unknown template %q", name)
	}
	return t.start(tmpl)
}

func (t *Table) start(tmpl *catalog.Template) (uint32, error) {
	if len(t.active) >= MissionMax {
		return 0, &AcceptError{Template: tmpl.Name, Err: ErrCapacityExceeded}
	}
	if tmpl.Unique && (t.Holds(tmpl.Name) || t.deps.Completed.IsDone(tmpl.Name)) {
		return 0, &AcceptError{Template: tmpl.Name, Err: ErrUniqueViolation}
	}

	t.nextID++
	m := &ActiveMission{id: t.nextID, tmpl: tmpl}
	ctl := &Controller{table: t, m: m}

	handle, err := t.deps.Bridge.CreateState(tmpl.Module, tmpl.Name, ctl)
	if err != nil {
		return 0, err
	}
	m.script = handle

	_, err = t.deps.Bridge.Invoke(handle, "create")
	if err != nil && !errors.Is(err, scripting.ErrNotImplemented) {
		// release everything the create hook managed to set up
		if m.hasOSD {
			t.deps.UI.DestroyOSD(m.osd)
		}
		t.deps.Linker.ReleaseAll(cargo.Owner(m.id))
		t.deps.Bridge.DestroyState(handle)
		return 0, err
	}

	m.accepted = true
	t.active = append(t.active, m)

	if !m.osdSet && m.Title != "" {
		m.osd = t.deps.UI.CreateOSD(defaultOSD(m))
		m.hasOSD = true
	}
	t.syncMarkers()

	t.missionsAccepted.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("template", tmpl.Name)))
	t.journalAccepted(m)

	t.deps.Logger.Info().Uint32("id", m.id).Str("template", tmpl.Name).
		Int("active", len(t.active)).Msg("Mission accepted")
	return m.id, nil
}

// Run invokes the named hook on every active mission whose script implements
// it. Hook failures are logged at the bridge boundary and the mission
// continues; a mission torn down by an earlier hook in the same step is
// skipped.
func (t *Table) Run(hook string, args ...any) {
	t.stepping = true
	ids := t.snapshot()
	for _, id := range ids {
		m, ok := t.Get(id)
		if !ok || !m.live() {
			continue
		}
		_, err := t.deps.Bridge.Invoke(m.script, hook, args...)
		if err != nil && !errors.Is(err, scripting.ErrNotImplemented) {
			t.journalEvent(m, model.EventScriptFailure, hook, nil)
		}
	}
	t.stepping = false
	t.reap()
}

// Tick advances every timer of every active mission by dt seconds. An
// expired slot is cleared before its callback fires, so a slot fires at most
// once per tick regardless of how large dt is.
func (t *Table) Tick(dt float64) {
	t.stepping = true
	ids := t.snapshot()
	for _, id := range ids {
		m, ok := t.Get(id)
		if !ok {
			continue
		}
		for slot := 0; slot < TimerMax; slot++ {
			if !m.live() {
				break
			}
			tm := &m.timers[slot]
			if !tm.active {
				continue
			}
			tm.remaining -= dt
			if tm.remaining > 0 {
				continue
			}
			callback := tm.callback
			*tm = timer{}
			t.journalEvent(m, model.EventTimerFired, callback, map[string]any{"slot": slot})
			_, err := t.deps.Bridge.Invoke(m.script, callback, slot)
			if err != nil && !errors.Is(err, scripting.ErrNotImplemented) {
				t.journalEvent(m, model.EventScriptFailure, callback, nil)
			}
		}
	}
	t.stepping = false
	t.reap()
}

// SetTimer arms a countdown slot on an active mission, overwriting whatever
// the slot held.
func (t *Table) SetTimer(id uint32, slot int, duration float64, callback string) error {
	m, ok := t.Get(id)
	if !ok {
		return fmt.Errorf("set timer: %w: %d", ErrNotActive, id)
	}
	return m.setTimer(slot, duration, callback)
}

// ClearTimer deactivates a countdown slot without firing it.
func (t *Table) ClearTimer(id uint32, slot int) error {
	m, ok := t.Get(id)
	if !ok {
		return fmt.Errorf("clear timer: %w: %d", ErrNotActive, id)
	}
	return m.clearTimer(slot)
}

func (m *ActiveMission) setTimer(slot int, duration float64, callback string) error {
	if slot < 0 || slot >= TimerMax {
		return fmt.Errorf("timer slot %d out of range [0,%d)", slot, TimerMax)
	}
	m.timers[slot] = timer{active: true, remaining: duration, callback: callback}
	return nil
}

func (m *ActiveMission) clearTimer(slot int) error {
	if slot < 0 || slot >= TimerMax {
		return fmt.Errorf("timer slot %d out of range [0,%d)", slot, TimerMax)
	}
	m.timers[slot] = timer{}
	return nil
}

// Finish tears a mission down: timers, cargo links, marker, OSD, script
// state, then the table slot, in that order. Called from inside a hook it is
// deferred until the current step's iteration completes. A second finish of
// the same identifier is a reported logic error and mutates nothing.
func (t *Table) Finish(id uint32, outcome Outcome) error {
	m, ok := t.Get(id)
	if !ok {
		err := fmt.Errorf("finish: %w: %d", ErrNotActive, id)
		t.deps.Logger.Error().Uint32("id", id).Str("outcome", string(outcome)).
			Msg("Finish of mission not in the active table")
		return err
	}
	if t.stepping {
		if m.pending != "" {
			t.deps.Logger.Warn().Uint32("id", id).
				Str("outcome", string(outcome)).Str("pending", string(m.pending)).
				Msg("Finish of mission already being torn down")
			return nil
		}
		m.pending = outcome
		return nil
	}
	t.teardown(m, outcome)
	return nil
}

// reap applies teardowns requested during the step just finished.
func (t *Table) reap() {
	for {
		var victim *ActiveMission
		for _, m := range t.active {
			if m.pending != "" {
				victim = m
				break
			}
		}
		if victim == nil {
			return
		}
		t.teardown(victim, victim.pending)
	}
}

func (t *Table) teardown(m *ActiveMission, outcome Outcome) {
	for slot := range m.timers {
		m.timers[slot] = timer{}
	}

	released := t.deps.Linker.ReleaseAll(cargo.Owner(m.id))
	for _, id := range released {
		t.journalEvent(m, model.EventCargoUnlinked, "", map[string]any{"cargo": uint64(id)})
	}

	m.marker = nil
	if m.hasOSD {
		t.deps.UI.DestroyOSD(m.osd)
		m.hasOSD = false
	}

	t.deps.Bridge.DestroyState(m.script)

	for i, cur := range t.active {
		if cur == m {
			t.active = append(t.active[:i], t.active[i+1:]...)
			break
		}
	}
	t.syncMarkers()

	if outcome == OutcomeSuccess {
		t.deps.Completed.MarkDone(m.tmpl.Name)
		t.journalCompleted(m.tmpl.Name)
	}

	t.missionsFinished.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("outcome", string(outcome))))
	t.journalFinished(m, outcome)

	t.deps.Logger.Info().Uint32("id", m.id).Str("template", m.tmpl.Name).
		Str("outcome", string(outcome)).Int("active", len(t.active)).
		Msg("Mission finished")
}

// defaultOSD builds the engine-default on-screen display from the mission's
// title and description. Colour escapes are for the render layer; the OSD
// widget gets bare text, one item per description line.
func defaultOSD(m *ActiveMission) ui.OSDSpec {
	spec := ui.OSDSpec{Title: text.Strip(m.Title)}
	for _, line := range strings.Split(m.Desc, "\n") {
		if line == "" {
			continue
		}
		spec.Items = append(spec.Items, text.Strip(line))
	}
	return spec
}

// syncMarkers pushes the union of all active missions' system markers to the
// map UI.
func (t *Table) syncMarkers() {
	var markers []ui.SystemMarker
	for _, m := range t.active {
		if m.marker != nil {
			markers = append(markers, *m.marker)
		}
	}
	t.deps.UI.SetSystemMarkers(markers)
}

func (t *Table) snapshot() []uint32 {
	ids := make([]uint32, len(t.active))
	for i, m := range t.active {
		ids[i] = m.id
	}
	return ids
}

func (t *Table) journalAccepted(m *ActiveMission) {
	if t.deps.Journal == nil {
		return
	}
	err := t.deps.Journal.MissionAccepted(journal.Accepted{
		RuntimeID:  m.id,
		Name:       m.tmpl.Name,
		Title:      m.Title,
		ScriptMod:  m.tmpl.Module,
		AcceptedAt: time.Now().UTC(),
	})
	if err != nil {
		t.deps.Logger.Error().Err(err).Uint32("id", m.id).Msg("Failed to journal mission accept")
	}
}

func (t *Table) journalFinished(m *ActiveMission, outcome Outcome) {
	if t.deps.Journal == nil {
		return
	}
	err := t.deps.Journal.MissionFinished(journal.Finished{
		RuntimeID:  m.id,
		Outcome:    string(outcome),
		FinishedAt: time.Now().UTC(),
	})
	if err != nil {
		t.deps.Logger.Error().Err(err).Uint32("id", m.id).Msg("Failed to journal mission finish")
	}
}

func (t *Table) journalCompleted(name string) {
	if t.deps.Journal == nil {
		return
	}
	if err := t.deps.Journal.MarkCompleted(name); err != nil {
		t.deps.Logger.Error().Err(err).Str("template", name).
			Msg("Failed to journal mission completion")
	}
}

func (t *Table) journalEvent(m *ActiveMission, kind, entry string, detail map[string]any) {
	if t.deps.Journal == nil {
		return
	}
	err := t.deps.Journal.RecordEvent(journal.Event{
		RuntimeID: m.id,
		Mission:   m.tmpl.Name,
		Kind:      kind,
		Entry:     entry,
		Detail:    detail,
	})
	if err != nil {
		t.deps.Logger.Error().Err(err).Uint32("id", m.id).Str("kind", kind).
			Msg("Failed to journal mission event")
	}
}
