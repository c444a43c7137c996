// Package storetest exercises a compliance suite against a store.Store
// implementation. Each backend's tests provide a clean, isolated store
// from makeStore and call Run.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/motoguard/motoguard/internal/model"
	"github.com/motoguard/motoguard/internal/store"
)

// Run exercises the persistence contract against a fresh store.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	t.Run("ContactsRoundTrip", func(t *testing.T) { contactsRoundTrip(t, makeStore(t)) })
	t.Run("ContactsSinglePrimary", func(t *testing.T) { contactsSinglePrimary(t, makeStore(t)) })
	t.Run("SessionCreateHead", func(t *testing.T) { sessionCreateHead(t, makeStore(t)) })
	t.Run("SessionHistoryCap", func(t *testing.T) { sessionHistoryCap(t, makeStore(t)) })
	t.Run("SessionPatch", func(t *testing.T) { sessionPatch(t, makeStore(t)) })
	t.Run("SessionPatchUnknownID", func(t *testing.T) { sessionPatchUnknownID(t, makeStore(t)) })
}

func contactsRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()

	got, err := s.Contacts().List(ctx)
	require.NoError(t, err)
	require.Empty(t, got)

	in := []model.Contact{
		{ID: "c1", Name: "Ana", Phone: "+52-555-000-0001", Relationship: "partner", IsPrimary: true},
		{ID: "c2", Name: "Luis", Phone: "+52-555-000-0002", Relationship: "brother"},
		{ID: "c3", Name: "Marta", Phone: "+52-555-000-0003", Relationship: "friend"},
	}
	saved, err := s.Contacts().Save(ctx, in)
	require.NoError(t, err)

	got, err = s.Contacts().List(ctx)
	require.NoError(t, err)
	require.Equal(t, saved, got)
	require.Len(t, got, 3)
	// insertion order preserved
	require.Equal(t, "Ana", got[0].Name)
	require.Equal(t, "Luis", got[1].Name)
	require.Equal(t, "Marta", got[2].Name)
}

func contactsSinglePrimary(t *testing.T, s store.Store) {
	ctx := context.Background()

	in := []model.Contact{
		{ID: "c1", Name: "Ana", IsPrimary: true},
		{ID: "c2", Name: "Luis", IsPrimary: true},
		{ID: "c3", Name: "Marta", IsPrimary: true},
	}
	_, err := s.Contacts().Save(ctx, in)
	require.NoError(t, err)

	got, err := s.Contacts().List(ctx)
	require.NoError(t, err)
	primaries := 0
	for _, c := range got {
		if c.IsPrimary {
			primaries++
			// last primary in the saved list wins
			require.Equal(t, "Marta", c.Name)
		}
	}
	require.Equal(t, 1, primaries)

	// Deleting the primary leaves zero primaries; no re-promotion.
	_, err = s.Contacts().Save(ctx, got[:2])
	require.NoError(t, err)
	got, err = s.Contacts().List(ctx)
	require.NoError(t, err)
	for _, c := range got {
		require.False(t, c.IsPrimary)
	}
}

func sessionCreateHead(t *testing.T, s store.Store) {
	ctx := context.Background()

	created, err := s.Sessions().Create(ctx, model.GeoPoint{Lat: 19.4326, Lng: -99.1332, Accuracy: 12}, "Av. Principal 123")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, model.SessionActive, created.Status)
	require.Empty(t, created.ContactsNotified)
	require.Empty(t, created.HospitalsContacted)

	list, err := s.Sessions().List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	require.Equal(t, created.ID, list[0].ID)
	require.Equal(t, model.SessionActive, list[0].Status)
	require.NotNil(t, list[0].ContactsNotified)
	require.Empty(t, list[0].ContactsNotified)
}

func sessionHistoryCap(t *testing.T, s store.Store) {
	ctx := context.Background()

	var ids []string
	for i := 0; i < store.DefaultHistoryLimit+1; i++ {
		created, err := s.Sessions().Create(ctx,
			model.GeoPoint{Lat: float64(i), Lng: float64(-i)}, fmt.Sprintf("addr-%d", i))
		require.NoError(t, err)
		ids = append(ids, created.ID)
		time.Sleep(2 * time.Millisecond) // ensure monotonic creation time ordering
	}

	list, err := s.Sessions().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, store.DefaultHistoryLimit)

	// Newest first; the very first session has been evicted.
	for i := 0; i < store.DefaultHistoryLimit; i++ {
		require.Equal(t, ids[len(ids)-1-i], list[i].ID)
	}
	for _, sess := range list {
		require.NotEqual(t, ids[0], sess.ID)
	}
}

func sessionPatch(t *testing.T, s store.Store) {
	ctx := context.Background()

	created, err := s.Sessions().Create(ctx, model.GeoPoint{Lat: 1, Lng: 2, Accuracy: 3}, "somewhere")
	require.NoError(t, err)

	resolved := model.SessionResolved
	notified := []string{"Ana", "Luis"}
	require.NoError(t, s.Sessions().Update(ctx, created.ID, model.SessionPatch{
		Status:           &resolved,
		ContactsNotified: &notified,
	}))

	list, err := s.Sessions().List(ctx)
	require.NoError(t, err)
	require.Equal(t, created.ID, list[0].ID)
	require.Equal(t, model.SessionResolved, list[0].Status)
	require.Equal(t, notified, list[0].ContactsNotified)
	// untouched fields unchanged
	require.Equal(t, "somewhere", list[0].Address)
	require.Equal(t, created.Location, list[0].Location)
	require.Empty(t, list[0].HospitalsContacted)
}

func sessionPatchUnknownID(t *testing.T, s store.Store) {
	ctx := context.Background()

	created, err := s.Sessions().Create(ctx, model.GeoPoint{Lat: 1, Lng: 2}, "here")
	require.NoError(t, err)

	cancelled := model.SessionCancelled
	require.NoError(t, s.Sessions().Update(ctx, "no-such-session", model.SessionPatch{Status: &cancelled}))

	list, err := s.Sessions().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, created.ID, list[0].ID)
	require.Equal(t, model.SessionActive, list[0].Status)
}
