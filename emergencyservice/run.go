// Package emergencyservice wires configuration, storage, location,
// alerting, and the HTTP API into a runnable service.
package emergencyservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/motoguard/motoguard/internal/activation"
	"github.com/motoguard/motoguard/internal/api"
	"github.com/motoguard/motoguard/internal/config"
	"github.com/motoguard/motoguard/internal/factory"
	"github.com/motoguard/motoguard/internal/health"
	"github.com/motoguard/motoguard/internal/location"
	"github.com/motoguard/motoguard/internal/logger"
	"github.com/motoguard/motoguard/internal/services"
	"github.com/motoguard/motoguard/internal/store"
)

// Run starts the emergency service HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("motoguard")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Str("location_mode", cfg.LocationMode).
		Str("notifier_mode", cfg.NotifierMode).
		Msg("Emergency service starting")

	// Create cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	// Initialize dependencies
	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return err
	}
	provider := factory.NewLocationProvider(cfg, log)

	// Start health checkers and bind service health
	svcHealth := startHealthCheckers(ctx, cfg, log, st, provider)

	deps := buildServices(st, provider, cfg, log)
	deps.Health = svcHealth
	router := api.NewRouter(deps)

	// Adopt a session left active by a previous run, then surface
	// trigger lifecycle events in the service log.
	if err := deps.Trigger.Resume(ctx); err != nil {
		log.Warn().Err(err).Msg("could not adopt stored active session")
	}
	go logTriggerEvents(ctx, deps.Trigger, log)

	// Block startup until dependencies report healthy; fail fast otherwise
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	// HTTP server and serve
	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	// Graceful shutdown on context cancel or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// buildServices constructs the domain services behind the router.
func buildServices(st store.Store, provider location.Provider, cfg *config.Config, log zerolog.Logger) api.Deps {
	sessionSvc := services.NewSessionService(st)
	contactSvc := services.NewContactService(st)
	emergencySvc := services.NewEmergencyService(
		sessionSvc,
		contactSvc,
		provider,
		factory.NewGeocoder(cfg, log),
		factory.NewLocator(cfg, log),
		factory.NewDispatcher(cfg, log),
		log,
	)
	machine := activation.New(emergencySvc, sessionSvc, cfg.CountdownTicks, cfg.CountdownTickDuration(), log)
	return api.Deps{
		Contacts:  contactSvc,
		Sessions:  sessionSvc,
		Emergency: emergencySvc,
		Trigger:   machine,
	}
}

// logTriggerEvents drains the trigger machine's event stream into the
// service log until the context is cancelled.
func logTriggerEvents(ctx context.Context, m *activation.Machine, log zerolog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-m.Events():
			switch ev.Type {
			case activation.EventFailed:
				log.Error().Stack().Err(ev.Err).Msg("Activation failed")
			case activation.EventFired:
				e := log.Info()
				if ev.Result != nil {
					e = e.Str("session_id", ev.Result.Session.ID)
				}
				e.Msg("Emergency activated by trigger")
			case activation.EventTick:
				log.Debug().Int("remaining", ev.Remaining).Msg("Countdown tick")
			default:
				log.Info().Str("event", string(ev.Type)).Msg("Trigger event")
			}
		}
	}
}

// startHealthCheckers starts component checkers and the service-level aggregator.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, st store.Store, provider location.Provider) *health.ServiceHealthChecker {
	var checkers []health.HealthChecker
	probeTimeout := cfg.HealthProbeTimeout()
	interval := cfg.HealthInterval()

	storeChecker := store.NewStoreHealthChecker(st, log, probeTimeout)
	go storeChecker.Start(ctx, interval)
	checkers = append(checkers, storeChecker)

	if pinger, ok := provider.(health.HealthPinger); ok {
		locChecker := health.NewPingChecker("location", pinger, log, probeTimeout)
		go locChecker.Start(ctx, interval)
		checkers = append(checkers, locChecker)
	}

	svcHealth := health.NewServiceHealthChecker(log, checkers...)
	go svcHealth.Start(ctx, interval)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// calculateStartupHealthTimeout returns the startup health timeout in seconds,
// calculated as interval*2 with a minimum of 60 seconds.
func calculateStartupHealthTimeout(healthIntervalSeconds int) int {
	timeout := healthIntervalSeconds * 2
	if timeout < 60 {
		return 60
	}
	return timeout
}

// waitUntilHealthy blocks until service health is healthy or the startup window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth *health.ServiceHealthChecker) error {
	// Checkers start unhealthy and need time to run their first probe cycle
	timeoutSeconds := calculateStartupHealthTimeout(cfg.HealthIntervalSeconds)
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: dependencies not healthy within %d seconds", timeoutSeconds)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
