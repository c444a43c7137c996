package location

import (
	"context"
	"time"

	"github.com/motoguard/motoguard/internal/model"
)

// StaticProvider returns a fixed coordinate. Used by dev mode and tests.
type StaticProvider struct {
	Lat      float64
	Lng      float64
	Accuracy float64
	// Err, when set, makes every acquisition fail with it.
	Err error
}

func (p *StaticProvider) Current(ctx context.Context) (*model.LocationData, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &model.LocationData{
		Lat:       p.Lat,
		Lng:       p.Lng,
		Accuracy:  p.Accuracy,
		Timestamp: time.Now().UTC(),
	}, nil
}

func (p *StaticProvider) Watch(ctx context.Context) (<-chan model.LocationData, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	out := make(chan model.LocationData, 1)
	loc, _ := p.Current(ctx)
	out <- *loc
	go func() {
		<-ctx.Done()
		close(out)
	}()
	return out, nil
}

// HealthPing implements health.HealthPinger so the provider can be
// monitored like any other dependency.
func (p *StaticProvider) HealthPing(ctx context.Context) error { return p.Err }
