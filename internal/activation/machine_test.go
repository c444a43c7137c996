package activation

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motoguard/motoguard/internal/facility"
	"github.com/motoguard/motoguard/internal/geocode"
	"github.com/motoguard/motoguard/internal/location"
	"github.com/motoguard/motoguard/internal/model"
	"github.com/motoguard/motoguard/internal/notify"
	"github.com/motoguard/motoguard/internal/services"
	"github.com/motoguard/motoguard/internal/store/memory"
)

func newTestMachine(t *testing.T, ticks int, every time.Duration) (*Machine, *services.SessionService) {
	t.Helper()
	st := memory.New(0)
	sessions := services.NewSessionService(st)
	contacts := services.NewContactService(st)
	_, err := contacts.Save(context.Background(), []model.Contact{
		{ID: "c-1", Name: "Ana", Phone: "+52 55 1111 1111", IsPrimary: true},
	})
	require.NoError(t, err)
	emergency := services.NewEmergencyService(
		sessions,
		contacts,
		&location.StaticProvider{Lat: 19.4326, Lng: -99.1332, Accuracy: 5},
		geocode.CoordinateFormatter{},
		facility.StaticLocator{},
		notify.NewLogDispatcher(zerolog.Nop()),
		zerolog.Nop(),
	)
	return New(emergency, sessions, ticks, every, zerolog.Nop()), sessions
}

func waitEvent(t *testing.T, m *Machine, want EventType) Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-m.Events():
			if ev.Type == want {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s event", want)
		}
	}
}

func TestHoldThroughCountdownFires(t *testing.T) {
	m, sessions := newTestMachine(t, 3, 5*time.Millisecond)

	require.NoError(t, m.Press(context.Background()))
	armed := waitEvent(t, m, EventArmed)
	assert.Equal(t, 3, armed.Remaining)

	fired := waitEvent(t, m, EventFired)
	require.NotNil(t, fired.Result)
	assert.Equal(t, model.SessionActive, fired.Result.Session.Status)
	assert.Equal(t, StateActive, m.State())

	history, err := sessions.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestReleaseBeforeExpiryAbortsWithoutSession(t *testing.T) {
	m, sessions := newTestMachine(t, 3, 10*time.Millisecond)

	require.NoError(t, m.Press(context.Background()))
	waitEvent(t, m, EventTick) // partway through the hold
	m.Release()
	waitEvent(t, m, EventAborted)

	assert.Equal(t, StateIdle, m.State())
	history, err := sessions.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestPressRefusedWhilePendingOrActive(t *testing.T) {
	m, _ := newTestMachine(t, 2, 5*time.Millisecond)

	require.NoError(t, m.Press(context.Background()))
	assert.ErrorIs(t, m.Press(context.Background()), model.ErrConflict)

	waitEvent(t, m, EventFired)
	assert.ErrorIs(t, m.Press(context.Background()), model.ErrConflict)
}

func TestResolveReturnsToIdleAndAllowsNewHold(t *testing.T) {
	m, sessions := newTestMachine(t, 1, 5*time.Millisecond)

	require.NoError(t, m.Press(context.Background()))
	waitEvent(t, m, EventFired)
	require.NoError(t, m.Resolve(context.Background()))
	assert.Equal(t, StateIdle, m.State())

	history, err := sessions.List(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, model.SessionResolved, history[0].Status)

	require.NoError(t, m.Press(context.Background()))
	waitEvent(t, m, EventFired)
	assert.Equal(t, StateActive, m.State())
}

func TestResolveWithoutActiveSession(t *testing.T) {
	m, _ := newTestMachine(t, 1, 5*time.Millisecond)
	assert.ErrorIs(t, m.Resolve(context.Background()), model.ErrNotFound)
}

func TestResumeAdoptsStoredActiveSession(t *testing.T) {
	m, sessions := newTestMachine(t, 1, 5*time.Millisecond)
	_, err := sessions.Create(context.Background(), model.GeoPoint{Lat: 19, Lng: -99, Accuracy: 5}, "somewhere")
	require.NoError(t, err)

	require.NoError(t, m.Resume(context.Background()))
	assert.Equal(t, StateActive, m.State())
	require.NoError(t, m.Cancel(context.Background()))
	assert.Equal(t, StateIdle, m.State())
}
