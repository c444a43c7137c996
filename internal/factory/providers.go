package factory

import (
	"github.com/rs/zerolog"

	"github.com/motoguard/motoguard/internal/config"
	"github.com/motoguard/motoguard/internal/facility"
	"github.com/motoguard/motoguard/internal/geocode"
	"github.com/motoguard/motoguard/internal/location"
	"github.com/motoguard/motoguard/internal/notify"
)

// NewLocationProvider selects the position source. Unknown modes fall
// back to the gateway with a warning rather than refusing to start.
func NewLocationProvider(cfg *config.Config, log zerolog.Logger) location.Provider {
	switch cfg.LocationMode {
	case "static":
		return &location.StaticProvider{Lat: cfg.StaticLat, Lng: cfg.StaticLng, Accuracy: 10}
	case "", "gateway":
		return location.NewGatewayProvider(cfg.LocationGatewayURL, cfg.LocationTimeout(), log)
	default:
		log.Warn().Str("mode", cfg.LocationMode).Msg("unknown location mode; using gateway")
		return location.NewGatewayProvider(cfg.LocationGatewayURL, cfg.LocationTimeout(), log)
	}
}

// NewGeocoder selects the reverse geocoder.
func NewGeocoder(cfg *config.Config, log zerolog.Logger) geocode.ReverseGeocoder {
	switch cfg.GeocoderMode {
	case "nominatim":
		return geocode.NewNominatimGeocoder(cfg.NominatimURL, log)
	case "", "coordinate":
		return geocode.CoordinateFormatter{}
	default:
		log.Warn().Str("mode", cfg.GeocoderMode).Msg("unknown geocoder mode; using coordinate formatter")
		return geocode.CoordinateFormatter{}
	}
}

// NewDispatcher selects the alert delivery channel.
func NewDispatcher(cfg *config.Config, log zerolog.Logger) notify.Dispatcher {
	switch cfg.NotifierMode {
	case "webhook":
		return notify.NewWebhookDispatcher(cfg.WebhookURL, log)
	case "", "log":
		return notify.NewLogDispatcher(log)
	default:
		log.Warn().Str("mode", cfg.NotifierMode).Msg("unknown notifier mode; using log dispatcher")
		return notify.NewLogDispatcher(log)
	}
}

// NewLocator selects the facility source.
func NewLocator(cfg *config.Config, log zerolog.Logger) facility.Locator {
	switch cfg.FacilityMode {
	case "gateway":
		return facility.NewGatewayLocator(cfg.FacilityGatewayURL)
	case "", "static":
		return facility.StaticLocator{}
	default:
		log.Warn().Str("mode", cfg.FacilityMode).Msg("unknown facility mode; using built-in set")
		return facility.StaticLocator{}
	}
}
