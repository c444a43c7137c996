// Package activation implements the hold-to-confirm trigger: a press
// arms a short countdown, releasing before it elapses aborts with no
// side effects, and only countdown expiry creates an emergency session.
package activation

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/motoguard/motoguard/internal/model"
	"github.com/motoguard/motoguard/internal/services"
)

// State is the visible trigger state.
type State string

const (
	StateIdle    State = "idle"    // no active session
	StatePending State = "pending" // countdown running
	StateActive  State = "active"  // session active
)

// EventType tags countdown and activation events.
type EventType string

const (
	EventArmed   EventType = "armed"
	EventTick    EventType = "tick"
	EventAborted EventType = "aborted"
	EventFired   EventType = "fired"
	EventFailed  EventType = "failed"
)

// Event is one observable step of the trigger lifecycle.
type Event struct {
	Type      EventType
	Remaining int
	Result    *services.ActivationResult
	Err       error
}

// DefaultTicks is the countdown length of the hold gesture.
const DefaultTicks = 3

// Machine drives the countdown and delegates actual activation to the
// emergency service. It is safe for concurrent use by UI callbacks.
type Machine struct {
	emergency *services.EmergencyService
	sessions  *services.SessionService
	log       zerolog.Logger

	ticks     int
	tickEvery time.Duration

	mu        sync.Mutex
	state     State
	sessionID string
	cancel    context.CancelFunc

	events chan Event
}

// New builds a machine with the given countdown shape. ticks <= 0 and
// tickEvery <= 0 select the defaults (3 ticks, 1 s each).
func New(emergency *services.EmergencyService, sessions *services.SessionService, ticks int, tickEvery time.Duration, log zerolog.Logger) *Machine {
	if ticks <= 0 {
		ticks = DefaultTicks
	}
	if tickEvery <= 0 {
		tickEvery = time.Second
	}
	return &Machine{
		emergency: emergency,
		sessions:  sessions,
		log:       log,
		ticks:     ticks,
		tickEvery: tickEvery,
		state:     StateIdle,
		events:    make(chan Event, 32),
	}
}

// Events returns the event stream. The channel is buffered; events are
// dropped rather than blocking the machine if the consumer lags.
func (m *Machine) Events() <-chan Event { return m.events }

// State returns the current trigger state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Resume adopts an already-active stored session (e.g. after restart).
func (m *Machine) Resume(ctx context.Context) error {
	active, err := m.sessions.Active(ctx)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if active != nil && m.state == StateIdle {
		m.state = StateActive
		m.sessionID = active.ID
	}
	return nil
}

// Press begins the hold gesture. It is refused while a countdown is
// running or a session is active.
func (m *Machine) Press(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateIdle {
		m.mu.Unlock()
		return model.ErrConflict
	}
	countdownCtx, cancel := context.WithCancel(ctx)
	m.state = StatePending
	m.cancel = cancel
	m.mu.Unlock()

	m.emit(Event{Type: EventArmed, Remaining: m.ticks})
	go m.countdown(countdownCtx)
	return nil
}

// Release ends the hold gesture. During a countdown it aborts with no
// side effects; otherwise it is a no-op.
func (m *Machine) Release() {
	m.mu.Lock()
	if m.state != StatePending {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (m *Machine) countdown(ctx context.Context) {
	ticker := time.NewTicker(m.tickEvery)
	defer ticker.Stop()

	remaining := m.ticks
	for remaining > 0 {
		select {
		case <-ctx.Done():
			m.abort()
			return
		case <-ticker.C:
			remaining--
			m.emit(Event{Type: EventTick, Remaining: remaining})
		}
	}
	m.fire(ctx)
}

func (m *Machine) abort() {
	m.mu.Lock()
	m.state = StateIdle
	m.cancel = nil
	m.mu.Unlock()
	m.emit(Event{Type: EventAborted})
}

// fire runs activation with a fresh context: the countdown context is
// tied to the gesture and must not cancel an activation already due.
func (m *Machine) fire(countdownCtx context.Context) {
	if countdownCtx.Err() != nil {
		m.abort()
		return
	}

	result, err := m.emergency.Activate(context.Background())

	m.mu.Lock()
	m.cancel = nil
	if err != nil {
		m.state = StateIdle
		m.mu.Unlock()
		m.log.Error().Stack().Err(err).Msg("activation failed at countdown expiry")
		m.emit(Event{Type: EventFailed, Err: err})
		return
	}
	m.state = StateActive
	m.sessionID = result.Session.ID
	m.mu.Unlock()
	m.emit(Event{Type: EventFired, Result: result})
}

// Resolve marks the active session resolved and returns to idle.
func (m *Machine) Resolve(ctx context.Context) error {
	return m.finish(ctx, m.sessions.Resolve)
}

// Cancel marks the active session cancelled and returns to idle.
func (m *Machine) Cancel(ctx context.Context) error {
	return m.finish(ctx, m.sessions.Cancel)
}

func (m *Machine) finish(ctx context.Context, transition func(context.Context, string) error) error {
	m.mu.Lock()
	if m.state != StateActive {
		m.mu.Unlock()
		return model.ErrNotFound
	}
	id := m.sessionID
	m.mu.Unlock()

	if err := transition(ctx, id); err != nil {
		return err
	}
	m.mu.Lock()
	m.state = StateIdle
	m.sessionID = ""
	m.mu.Unlock()
	return nil
}

func (m *Machine) emit(ev Event) {
	select {
	case m.events <- ev:
	default:
		m.log.Warn().Str("event", string(ev.Type)).Msg("activation event dropped, consumer lagging")
	}
}
