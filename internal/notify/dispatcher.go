// Package notify delivers emergency alerts to contacts. Every contact is
// an independent delivery attempt with its own outcome; outcomes are
// aggregated, never all-or-nothing.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/motoguard/motoguard/internal/model"
)

// Dispatcher sends an alert to each contact and reports per-contact
// outcomes. The returned error is reserved for total dispatch failure
// (e.g. nothing could even be attempted); individual failures live in
// the results.
type Dispatcher interface {
	SendAlert(ctx context.Context, contacts []model.Contact, loc model.LocationData, address string) ([]model.DeliveryResult, error)
}

// BuildMessage renders the alert body: address, 6-decimal coordinates,
// timestamp and a map link.
func BuildMessage(loc model.LocationData, address string, at time.Time) string {
	return fmt.Sprintf(
		"EMERGENCIA MOTOCICLISTA\n\nUbicación: %s\nCoordenadas: %.6f, %.6f\nHora: %s\n\nGoogle Maps: https://maps.google.com/?q=%f,%f",
		address, loc.Lat, loc.Lng, at.Format(time.RFC1123), loc.Lat, loc.Lng,
	)
}

// orderForDelivery puts the primary contact first so it is attempted
// before the rest; remaining contacts keep their stored order.
func orderForDelivery(contacts []model.Contact) []model.Contact {
	out := make([]model.Contact, 0, len(contacts))
	for _, c := range contacts {
		if c.IsPrimary {
			out = append(out, c)
		}
	}
	for _, c := range contacts {
		if !c.IsPrimary {
			out = append(out, c)
		}
	}
	return out
}

// LogDispatcher "delivers" by logging each attempt. It is the reference
// behavior slot until a real SMS bridge is configured.
type LogDispatcher struct {
	log zerolog.Logger
}

func NewLogDispatcher(log zerolog.Logger) *LogDispatcher {
	return &LogDispatcher{log: log}
}

func (d *LogDispatcher) SendAlert(ctx context.Context, contacts []model.Contact, loc model.LocationData, address string) ([]model.DeliveryResult, error) {
	now := time.Now().UTC()
	msg := BuildMessage(loc, address, now)

	results := make([]model.DeliveryResult, 0, len(contacts))
	for _, c := range orderForDelivery(contacts) {
		if err := ctx.Err(); err != nil {
			results = append(results, model.DeliveryResult{
				ContactID: c.ID, ContactName: c.Name, Delivered: false,
				Error: err.Error(), AttemptedAt: time.Now().UTC(),
			})
			continue
		}
		d.log.Info().
			Str("contact", c.Name).
			Str("phone", c.Phone).
			Bool("primary", c.IsPrimary).
			Str("message", msg).
			Msg("emergency alert dispatched")
		results = append(results, model.DeliveryResult{
			ContactID: c.ID, ContactName: c.Name, Delivered: true, AttemptedAt: time.Now().UTC(),
		})
	}
	return results, nil
}
