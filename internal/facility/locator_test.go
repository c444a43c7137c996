package facility

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/motoguard/motoguard/internal/model"
)

func TestStaticLocatorAscendingDistance(t *testing.T) {
	loc := model.LocationData{Lat: 19.4326, Lng: -99.1332}
	got, err := StaticLocator{}.FindNearby(context.Background(), loc)
	require.NoError(t, err)
	require.Len(t, got, 3)

	for i := 1; i < len(got); i++ {
		require.LessOrEqual(t, got[i-1].DistanceKm, got[i].DistanceKm)
	}
	for _, f := range got {
		require.Greater(t, f.DistanceKm, 0.0)
	}
}

func TestStaticLocatorDeterministic(t *testing.T) {
	loc := model.LocationData{Lat: 0, Lng: 0}
	a, err := StaticLocator{}.FindNearby(context.Background(), loc)
	require.NoError(t, err)
	b, err := StaticLocator{}.FindNearby(context.Background(), loc)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestRankStableOnTies(t *testing.T) {
	loc := model.LocationData{Lat: 0, Lng: 0}
	// Two facilities at mirrored offsets are equidistant; input order holds.
	in := []model.Facility{
		{ID: "far", Lat: 1, Lng: 0},
		{ID: "tie-a", Lat: 0.5, Lng: 0},
		{ID: "tie-b", Lat: -0.5, Lng: 0},
	}
	out := rank(loc, in)
	require.Equal(t, "tie-a", out[0].ID)
	require.Equal(t, "tie-b", out[1].ID)
	require.Equal(t, "far", out[2].ID)
}

func TestGatewayLocatorReRanks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/facilities", r.URL.Path)
		// Directory returns farthest first; locator must re-rank.
		_ = json.NewEncoder(w).Encode([]model.Facility{
			{ID: "b", Name: "Far Hospital", Lat: 1.0, Lng: 1.0, Type: model.FacilityHospital},
			{ID: "a", Name: "Near Clinic", Lat: 0.01, Lng: 0.01, Type: model.FacilityClinic},
		})
	}))
	defer srv.Close()

	l := NewGatewayLocator(srv.URL)
	got, err := l.FindNearby(context.Background(), model.LocationData{Lat: 0, Lng: 0})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "a", got[0].ID)
	require.Equal(t, "b", got[1].ID)
}
