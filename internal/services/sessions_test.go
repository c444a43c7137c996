package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/motoguard/motoguard/internal/model"
	"github.com/motoguard/motoguard/internal/store/memory"
)

func TestSessionLifecycleTransitions(t *testing.T) {
	ctx := context.Background()
	svc := NewSessionService(memory.New(0))

	created, err := svc.Create(ctx, model.GeoPoint{Lat: 19, Lng: -99, Accuracy: 10}, "addr")
	require.NoError(t, err)

	active, err := svc.Active(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	require.Equal(t, created.ID, active.ID)

	require.NoError(t, svc.Resolve(ctx, created.ID))

	// resolved is terminal: no further transitions
	require.ErrorIs(t, svc.Cancel(ctx, created.ID), model.ErrConflict)
	require.ErrorIs(t, svc.Resolve(ctx, created.ID), model.ErrConflict)

	active, err = svc.Active(ctx)
	require.NoError(t, err)
	require.Nil(t, active)
}

func TestSessionTransitionUnknownID(t *testing.T) {
	ctx := context.Background()
	svc := NewSessionService(memory.New(0))

	require.ErrorIs(t, svc.Resolve(ctx, "missing"), model.ErrNotFound)
	require.ErrorIs(t, svc.Cancel(ctx, "missing"), model.ErrNotFound)
}

func TestAppendHospitalContactedIsAppendOnly(t *testing.T) {
	ctx := context.Background()
	svc := NewSessionService(memory.New(0))

	created, err := svc.Create(ctx, model.GeoPoint{}, "addr")
	require.NoError(t, err)

	require.NoError(t, svc.AppendHospitalContacted(ctx, created.ID, "Hospital General"))
	require.NoError(t, svc.AppendHospitalContacted(ctx, created.ID, "Clínica Santa María"))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Hospital General", "Clínica Santa María"}, list[0].HospitalsContacted)

	require.NoError(t, svc.Cancel(ctx, created.ID))
	err = svc.AppendHospitalContacted(ctx, created.ID, "too late")
	require.True(t, errors.Is(err, model.ErrConflict))
}

func TestContactServiceAssignsIDsAndValidates(t *testing.T) {
	ctx := context.Background()
	svc := NewContactService(memory.New(0))

	saved, err := svc.Save(ctx, []model.Contact{
		{Name: "Ana", Phone: "+52-555-000-0001", IsPrimary: true},
		{Name: "Luis", Phone: "+52-555-000-0002"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, saved[0].ID)
	require.NotEmpty(t, saved[1].ID)
	require.NotEqual(t, saved[0].ID, saved[1].ID)

	_, err = svc.Save(ctx, []model.Contact{{Name: "", Phone: "+52"}})
	require.ErrorIs(t, err, model.ErrValidation)
	_, err = svc.Save(ctx, []model.Contact{{Name: "Ana", Phone: "  "}})
	require.ErrorIs(t, err, model.ErrValidation)
}

func TestContactServiceKeepsExistingIDs(t *testing.T) {
	ctx := context.Background()
	svc := NewContactService(memory.New(0))

	saved, err := svc.Save(ctx, []model.Contact{{ID: "keep-me", Name: "Ana", Phone: "1"}})
	require.NoError(t, err)
	require.Equal(t, "keep-me", saved[0].ID)
}
