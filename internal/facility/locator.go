// Package facility finds medical facilities near a coordinate, ranked by
// great-circle distance.
package facility

import (
	"context"
	"sort"

	"github.com/motoguard/motoguard/internal/geo"
	"github.com/motoguard/motoguard/internal/model"
)

// Locator produces facilities ordered by ascending distance from the
// query coordinate. Ties keep their input order.
type Locator interface {
	FindNearby(ctx context.Context, loc model.LocationData) ([]model.Facility, error)
}

// rank computes each facility's distance from loc and sorts ascending,
// stable on ties.
func rank(loc model.LocationData, facilities []model.Facility) []model.Facility {
	out := append([]model.Facility(nil), facilities...)
	for i := range out {
		out[i].DistanceKm = geo.DistanceKm(loc.Lat, loc.Lng, out[i].Lat, out[i].Lng)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out
}

// StaticLocator generates the built-in facility set at fixed offsets from
// the query coordinate. It stands in for a real geospatial directory.
type StaticLocator struct{}

func (StaticLocator) FindNearby(_ context.Context, loc model.LocationData) ([]model.Facility, error) {
	base := []model.Facility{
		{
			ID:      "1",
			Name:    "Hospital General",
			Address: "Av. Principal 123",
			Phone:   "+52-555-123-4567",
			Lat:     loc.Lat + 0.01,
			Lng:     loc.Lng + 0.01,
			Type:    model.FacilityHospital,
		},
		{
			ID:      "2",
			Name:    "Clínica Santa María",
			Address: "Calle Reforma 456",
			Phone:   "+52-555-987-6543",
			Lat:     loc.Lat - 0.008,
			Lng:     loc.Lng + 0.012,
			Type:    model.FacilityClinic,
		},
		{
			ID:      "3",
			Name:    "Centro Médico Urgencias",
			Address: "Blvd. Central 789",
			Phone:   "+52-555-456-7890",
			Lat:     loc.Lat + 0.015,
			Lng:     loc.Lng - 0.005,
			Type:    model.FacilityEmergency,
		},
	}
	return rank(loc, base), nil
}
