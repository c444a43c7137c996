package notify

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/motoguard/motoguard/internal/model"
)

// WebhookDispatcher posts one alert per contact to an SMS-bridge webhook.
// A failed POST marks that contact undelivered and moves on.
type WebhookDispatcher struct {
	client *resty.Client
	log    zerolog.Logger
}

func NewWebhookDispatcher(url string, log zerolog.Logger) *WebhookDispatcher {
	c := resty.New().
		SetBaseURL(url).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)
	return &WebhookDispatcher{client: c, log: log}
}

type webhookPayload struct {
	To      string  `json:"to"`
	Name    string  `json:"name"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

func (d *WebhookDispatcher) SendAlert(ctx context.Context, contacts []model.Contact, loc model.LocationData, address string) ([]model.DeliveryResult, error) {
	now := time.Now().UTC()
	msg := BuildMessage(loc, address, now)

	results := make([]model.DeliveryResult, 0, len(contacts))
	for _, c := range orderForDelivery(contacts) {
		res := model.DeliveryResult{ContactID: c.ID, ContactName: c.Name, AttemptedAt: time.Now().UTC()}

		resp, err := d.client.R().
			SetContext(ctx).
			SetBody(webhookPayload{To: c.Phone, Name: c.Name, Message: msg, Lat: loc.Lat, Lng: loc.Lng}).
			Post("/alerts")
		switch {
		case err != nil:
			res.Error = err.Error()
			d.log.Warn().Err(err).Str("contact", c.Name).Msg("alert delivery failed")
		case resp.StatusCode() >= http.StatusBadRequest:
			res.Error = resp.Status()
			d.log.Warn().Int("status", resp.StatusCode()).Str("contact", c.Name).Msg("alert delivery rejected")
		default:
			res.Delivered = true
		}
		results = append(results, res)
	}
	return results, nil
}
