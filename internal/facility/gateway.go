package facility

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/motoguard/motoguard/internal/model"
)

// GatewayLocator queries a facility-directory HTTP service. Whatever the
// directory returns is re-ranked locally so the ascending-distance output
// contract holds regardless of directory ordering.
type GatewayLocator struct {
	client *resty.Client
}

func NewGatewayLocator(baseURL string) *GatewayLocator {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(8 * time.Second)
	return &GatewayLocator{client: c}
}

func (l *GatewayLocator) FindNearby(ctx context.Context, loc model.LocationData) ([]model.Facility, error) {
	resp, err := l.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat": strconv.FormatFloat(loc.Lat, 'f', 6, 64),
			"lng": strconv.FormatFloat(loc.Lng, 'f', 6, 64),
		}).
		Get("/facilities")
	if err != nil {
		return nil, errors.Wrap(err, "facility directory request")
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, errors.Errorf("facility directory status %d", resp.StatusCode())
	}

	var out []model.Facility
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, errors.Wrap(err, "decode facility directory response")
	}
	return rank(loc, out), nil
}
