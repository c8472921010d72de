package scripting

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RuntimeError is a script-side failure surfaced at the bridge boundary.
// It never propagates as a crash; the caller decides per call site whether
// it aborts the owning mission.
type RuntimeError struct {
	Mission string
	Module  string
	Entry   string
	Err     error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("script %s.%s (mission %q): %v", e.Module, e.Entry, e.Mission, e.Err)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// Handle is one mission's script state. Created at acceptance, destroyed at
// teardown; exactly one per active mission.
type Handle struct {
	mission string
	module  string
	state   State
	closed  bool
}

// Mission returns the owning mission's template name.
func (h *Handle) Mission() string { return h.mission }

// Module returns the script module name the handle is bound to.
func (h *Handle) Module() string { return h.module }

// Bridge invokes script entry points without letting script failures escape
// into the engine. Logging of failures happens here, at the boundary, not at
// call sites.
type Bridge struct {
	rt  Runtime
	log zerolog.Logger

	invocations metric.Int64Counter
	failures    metric.Int64Counter
}

// NewBridge creates a bridge over the given runtime.
// Uses the global OTel meter for metrics (no-op if not configured).
func NewBridge(rt Runtime, log zerolog.Logger) (*Bridge, error) {
	b := &Bridge{rt: rt, log: log}

	m := meter()
	var err error

	b.invocations, err = m.Int64Counter(
		"scripting.invocations",
		metric.WithDescription("Total script entry point invocations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating invocations counter: %w", err)
	}

	b.failures, err = m.Int64Counter(
		"scripting.failures",
		metric.WithDescription("Total script runtime failures"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating failures counter: %w", err)
	}

	return b, nil
}

// CreateState instantiates script state for a mission bound to the named
// module. The owner is handed to every hook as Context.Owner.
func (b *Bridge) CreateState(module, mission string, owner any) (*Handle, error) {
	state, err := b.rt.NewState(module, owner)
	if err != nil {
		b.log.Error().Err(err).Str("module", module).Str("mission", mission).
			Msg("Failed to create script state")
		return nil, err
	}
	return &Handle{mission: mission, module: module, state: state}, nil
}

// Invoke calls a named entry point on the handle's state.
//
// A panic or error inside the script surfaces as *RuntimeError, logged here
// with mission name and entry point. A missing optional entry point returns
// ErrNotImplemented unlogged. Invoking a destroyed handle is a logic error.
func (b *Bridge) Invoke(h *Handle, entry string, args ...any) (result any, err error) {
	if h == nil || h.closed {
		return nil, &RuntimeError{
			Mission: handleMission(h),
			Module:  handleModule(h),
			Entry:   entry,
			Err:     errors.New("invoke on destroyed script state"),
		}
	}

	b.invocations.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("entry", entry)))

	defer func() {
		if r := recover(); r != nil {
			err = b.fail(h, entry, fmt.Errorf("panic: %v", r))
			result = nil
		}
	}()

	result, err = h.state.Call(entry, args...)
	if err != nil {
		if errors.Is(err, ErrNotImplemented) {
			return nil, ErrNotImplemented
		}
		return nil, b.fail(h, entry, err)
	}
	return result, nil
}

// HasEntry reports whether the handle's module implements an entry point,
// without invoking it.
func (b *Bridge) HasEntry(h *Handle, entry string) bool {
	if h == nil || h.closed {
		return false
	}
	if probe, ok := h.state.(interface{ Implements(string) bool }); ok {
		return probe.Implements(entry)
	}
	return true // runtimes that cannot answer are probed by Invoke instead
}

// DestroyState releases the handle's script state. Safe to call once per
// handle; a second call is ignored.
func (b *Bridge) DestroyState(h *Handle) {
	if h == nil || h.closed {
		return
	}
	h.state.Close()
	h.closed = true
	b.log.Debug().Str("mission", h.mission).Str("module", h.module).
		Msg("Script state destroyed")
}

func (b *Bridge) fail(h *Handle, entry string, cause error) error {
	rerr := &RuntimeError{Mission: h.mission, Module: h.module, Entry: entry, Err: cause}
	b.failures.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("entry", entry)))
	b.log.Error().Err(cause).
		Str("mission", h.mission).
		Str("module", h.module).
		Str("entry", entry).
		Msg("Script runtime failure")
	return rerr
}

func handleMission(h *Handle) string {
	if h == nil {
		return ""
	}
	return h.mission
}

func handleModule(h *Handle) string {
	if h == nil {
		return ""
	}
	return h.module
}
