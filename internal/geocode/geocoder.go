// Package geocode turns coordinates into human-readable addresses.
package geocode

import (
	"context"
	"fmt"
)

// ReverseGeocoder resolves a coordinate to an address string.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
}

// CoordinateFormatter is the placeholder geocoder: it renders the
// coordinate itself as the address, matching the reference behavior.
type CoordinateFormatter struct{}

func (CoordinateFormatter) ReverseGeocode(_ context.Context, lat, lng float64) (string, error) {
	return FormatCoordinate(lat, lng), nil
}

// FormatCoordinate renders a coordinate the way the app displays it.
func FormatCoordinate(lat, lng float64) string {
	return fmt.Sprintf("Lat: %.6f, Lng: %.6f", lat, lng)
}
