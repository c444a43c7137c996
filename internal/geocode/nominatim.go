package geocode

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// NominatimGeocoder resolves addresses against a Nominatim-style reverse
// geocoding endpoint. Lookup failure falls back to the coordinate string:
// an unreadable address must never block an activation.
type NominatimGeocoder struct {
	client *resty.Client
	log    zerolog.Logger
}

func NewNominatimGeocoder(baseURL string, log zerolog.Logger) *NominatimGeocoder {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(5 * time.Second)
	return &NominatimGeocoder{client: c, log: log}
}

type nominatimResponse struct {
	DisplayName string `json:"display_name"`
}

func (g *NominatimGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat":    formatFloat(lat),
			"lon":    formatFloat(lng),
			"format": "jsonv2",
		}).
		Get("/reverse")
	if err != nil {
		// resp may be nil here (e.g. a malformed base URL fails in middleware).
		g.log.Warn().Err(err).Msg("reverse geocode failed, using coordinate fallback")
		return FormatCoordinate(lat, lng), nil
	}
	if resp.StatusCode() != http.StatusOK {
		g.log.Warn().Int("status", resp.StatusCode()).Msg("reverse geocode failed, using coordinate fallback")
		return FormatCoordinate(lat, lng), nil
	}

	var out nominatimResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil || out.DisplayName == "" {
		return FormatCoordinate(lat, lng), nil
	}
	return out.DisplayName, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
