package emergencyservice

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motoguard/motoguard/internal/activation"
	"github.com/motoguard/motoguard/internal/config"
	"github.com/motoguard/motoguard/internal/factory"
)

func TestCalculateStartupHealthTimeout(t *testing.T) {
	assert.Equal(t, 60, calculateStartupHealthTimeout(10))
	assert.Equal(t, 60, calculateStartupHealthTimeout(30))
	assert.Equal(t, 90, calculateStartupHealthTimeout(45))
}

// The countdown knobs must flow from configuration into the trigger
// machine behind the router: a one-tick config presses through to an
// activated session.
func TestBuildServicesWiresCountdownFromConfig(t *testing.T) {
	ctx := context.Background()
	cfg := config.NewForTesting()
	cfg.CountdownTicks = 1

	st, err := factory.NewStore(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)

	deps := buildServices(st, factory.NewLocationProvider(cfg, zerolog.Nop()), cfg, zerolog.Nop())
	require.NotNil(t, deps.Trigger)

	require.NoError(t, deps.Trigger.Press(ctx))

	deadline := time.After(3 * time.Second)
	for fired := false; !fired; {
		select {
		case ev := <-deps.Trigger.Events():
			if ev.Type == activation.EventFailed {
				t.Fatalf("activation failed: %v", ev.Err)
			}
			fired = ev.Type == activation.EventFired
		case <-deadline:
			t.Fatal("countdown never fired")
		}
	}

	assert.Equal(t, activation.StateActive, deps.Trigger.State())
	history, err := deps.Sessions.List(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
}
