package factory

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motoguard/motoguard/internal/config"
	"github.com/motoguard/motoguard/internal/facility"
	"github.com/motoguard/motoguard/internal/geocode"
	"github.com/motoguard/motoguard/internal/location"
	"github.com/motoguard/motoguard/internal/notify"
)

func TestNewStoreMemoryDriver(t *testing.T) {
	cfg := config.NewForTesting()
	st, err := NewStore(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, st)

	list, err := st.Sessions().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNewStoreRejectsUnknownDriver(t *testing.T) {
	cfg := config.NewForTesting()
	cfg.DBDriver = "bolt"
	_, err := NewStore(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestNewStoreSQLite(t *testing.T) {
	cfg := config.NewForTesting()
	cfg.DBDriver = "sqlite"
	cfg.SQLitePath = t.TempDir() + "/motoguard.db"

	st, err := NewStore(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, st)
}

func TestProviderSelection(t *testing.T) {
	cfg := config.NewForTesting()
	log := zerolog.Nop()

	assert.IsType(t, &location.StaticProvider{}, NewLocationProvider(cfg, log))
	assert.IsType(t, geocode.CoordinateFormatter{}, NewGeocoder(cfg, log))
	assert.IsType(t, &notify.LogDispatcher{}, NewDispatcher(cfg, log))
	assert.IsType(t, facility.StaticLocator{}, NewLocator(cfg, log))

	cfg.LocationMode = "gateway"
	cfg.GeocoderMode = "nominatim"
	cfg.NotifierMode = "webhook"
	cfg.WebhookURL = "http://localhost:9000"
	cfg.FacilityMode = "gateway"
	cfg.FacilityGatewayURL = "http://localhost:9001"

	assert.IsType(t, &location.GatewayProvider{}, NewLocationProvider(cfg, log))
	assert.IsType(t, &geocode.NominatimGeocoder{}, NewGeocoder(cfg, log))
	assert.IsType(t, &notify.WebhookDispatcher{}, NewDispatcher(cfg, log))
	assert.IsType(t, &facility.GatewayLocator{}, NewLocator(cfg, log))
}

func TestUnknownModesFallBack(t *testing.T) {
	cfg := config.NewForTesting()
	cfg.GeocoderMode = "google"
	cfg.NotifierMode = "sms"
	cfg.FacilityMode = "osm"
	log := zerolog.Nop()

	assert.IsType(t, geocode.CoordinateFormatter{}, NewGeocoder(cfg, log))
	assert.IsType(t, &notify.LogDispatcher{}, NewDispatcher(cfg, log))
	assert.IsType(t, facility.StaticLocator{}, NewLocator(cfg, log))
}
