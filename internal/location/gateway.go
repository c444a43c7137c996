package location

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/motoguard/motoguard/internal/model"
)

// GatewayProvider reads positions from a device gateway HTTP endpoint
// (the process that actually talks to the GPS hardware or phone).
type GatewayProvider struct {
	client        *resty.Client
	log           zerolog.Logger
	timeout       time.Duration
	watchInterval time.Duration
}

// gatewayReading is the gateway's wire shape for one fix.
type gatewayReading struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

// NewGatewayProvider builds a provider against baseURL. timeout bounds a
// single acquisition and maps to ErrTimeout when exceeded.
func NewGatewayProvider(baseURL string, timeout time.Duration, log zerolog.Logger) *GatewayProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	return &GatewayProvider{
		client:        c,
		log:           log,
		timeout:       timeout,
		watchInterval: 5 * time.Second,
	}
}

// Current fetches a single position fix.
func (p *GatewayProvider) Current(ctx context.Context) (*model.LocationData, error) {
	acqCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.R().SetContext(acqCtx).Get("/position")
	if err != nil {
		if acqCtx.Err() == context.DeadlineExceeded {
			return nil, ErrTimeout
		}
		return nil, errors.Wrapf(ErrUnavailable, "gateway request: %v", err)
	}
	switch resp.StatusCode() {
	case http.StatusOK:
		// fall through to decode
	case http.StatusForbidden, http.StatusUnauthorized:
		return nil, ErrPermissionDenied
	case http.StatusNotImplemented:
		return nil, ErrUnsupported
	default:
		return nil, errors.Wrapf(ErrUnavailable, "gateway status %d", resp.StatusCode())
	}

	var r gatewayReading
	if err := json.Unmarshal(resp.Body(), &r); err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "decode reading: %v", err)
	}
	ts := r.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return &model.LocationData{Lat: r.Lat, Lng: r.Lng, Accuracy: r.Accuracy, Timestamp: ts}, nil
}

// HealthPing implements health.HealthPinger by probing the gateway.
func (p *GatewayProvider) HealthPing(ctx context.Context) error {
	_, err := p.Current(ctx)
	return err
}

// Watch polls the gateway at a fixed interval and emits each fresh
// reading. The channel closes when ctx is cancelled; poll failures are
// logged and skipped rather than ending the subscription.
func (p *GatewayProvider) Watch(ctx context.Context) (<-chan model.LocationData, error) {
	out := make(chan model.LocationData)
	go func() {
		defer close(out)
		ticker := time.NewTicker(p.watchInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				loc, err := p.Current(ctx)
				if err != nil {
					p.log.Warn().Err(err).Msg("watch position read failed")
					continue
				}
				select {
				case out <- *loc:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
