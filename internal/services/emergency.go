package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/motoguard/motoguard/internal/facility"
	"github.com/motoguard/motoguard/internal/geocode"
	"github.com/motoguard/motoguard/internal/location"
	"github.com/motoguard/motoguard/internal/model"
	"github.com/motoguard/motoguard/internal/notify"
)

// EmergencyService orchestrates activation: acquire position, record the
// session, alert contacts, find help. Recording the emergency is the
// primary safety function; downstream collaborator failures (geocoder,
// dispatcher, locator) are logged and never block it. Only a location
// failure prevents activation, since there is nothing to record.
type EmergencyService struct {
	sessions   *SessionService
	contacts   *ContactService
	provider   location.Provider
	geocoder   geocode.ReverseGeocoder
	locator    facility.Locator
	dispatcher notify.Dispatcher
	log        zerolog.Logger
}

func NewEmergencyService(
	sessions *SessionService,
	contacts *ContactService,
	provider location.Provider,
	geocoder geocode.ReverseGeocoder,
	locator facility.Locator,
	dispatcher notify.Dispatcher,
	log zerolog.Logger,
) *EmergencyService {
	return &EmergencyService{
		sessions:   sessions,
		contacts:   contacts,
		provider:   provider,
		geocoder:   geocoder,
		locator:    locator,
		dispatcher: dispatcher,
		log:        log,
	}
}

// ActivationResult is everything produced by one activation.
type ActivationResult struct {
	Session    *model.EmergencySession `json:"session"`
	Deliveries []model.DeliveryResult  `json:"deliveries"`
	Facilities []model.Facility        `json:"facilities"`
}

// Activate runs the activation flow. It returns model.ErrConflict when a
// session is already active, and the provider's classified error when no
// position can be acquired.
func (s *EmergencyService) Activate(ctx context.Context) (*ActivationResult, error) {
	if active, err := s.sessions.Active(ctx); err != nil {
		return nil, err
	} else if active != nil {
		return nil, model.ErrConflict
	}

	loc, err := s.provider.Current(ctx)
	if err != nil {
		return nil, err
	}

	address, err := s.geocoder.ReverseGeocode(ctx, loc.Lat, loc.Lng)
	if err != nil {
		s.log.Warn().Err(err).Msg("reverse geocode failed during activation")
		address = geocode.FormatCoordinate(loc.Lat, loc.Lng)
	}

	session, err := s.sessions.Create(ctx, loc.Point(), address)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("session", session.ID).
		Float64("lat", loc.Lat).
		Float64("lng", loc.Lng).
		Msg("emergency session created")

	result := &ActivationResult{Session: session}

	contacts, err := s.contacts.List(ctx)
	if err != nil {
		s.log.Error().Stack().Err(err).Msg("contact list unavailable, no alerts sent")
	} else if len(contacts) > 0 {
		deliveries, err := s.dispatcher.SendAlert(ctx, contacts, *loc, address)
		if err != nil {
			s.log.Error().Stack().Err(err).Str("session", session.ID).Msg("alert dispatch failed")
		}
		result.Deliveries = deliveries

		notified := deliveredNames(deliveries)
		if len(notified) > 0 {
			if err := s.sessions.Update(ctx, session.ID, model.SessionPatch{ContactsNotified: &notified}); err != nil {
				s.log.Error().Stack().Err(err).Str("session", session.ID).Msg("failed to record notified contacts")
			} else {
				session.ContactsNotified = notified
			}
		}
	}

	facilities, err := s.locator.FindNearby(ctx, *loc)
	if err != nil {
		s.log.Warn().Err(err).Str("session", session.ID).Msg("facility lookup failed during activation")
	} else {
		result.Facilities = facilities
	}

	return result, nil
}

// NearbyFacilities acquires the current position and ranks facilities
// around it.
func (s *EmergencyService) NearbyFacilities(ctx context.Context) ([]model.Facility, error) {
	loc, err := s.provider.Current(ctx)
	if err != nil {
		return nil, err
	}
	return s.locator.FindNearby(ctx, *loc)
}

// NearbyFacilitiesAt ranks facilities around a caller-supplied
// coordinate, bypassing the provider.
func (s *EmergencyService) NearbyFacilitiesAt(ctx context.Context, loc model.LocationData) ([]model.Facility, error) {
	return s.locator.FindNearby(ctx, loc)
}

// CallFacility records that the rider contacted a facility during the
// active session.
func (s *EmergencyService) CallFacility(ctx context.Context, facilityName string) error {
	active, err := s.sessions.Active(ctx)
	if err != nil {
		return err
	}
	if active == nil {
		return model.ErrNotFound
	}
	return s.sessions.AppendHospitalContacted(ctx, active.ID, facilityName)
}

// CurrentLocation exposes the provider reading for display.
func (s *EmergencyService) CurrentLocation(ctx context.Context) (*model.LocationData, error) {
	return s.provider.Current(ctx)
}

func deliveredNames(results []model.DeliveryResult) []string {
	var names []string
	for _, r := range results {
		if r.Delivered {
			names = append(names, r.ContactName)
		}
	}
	return names
}
