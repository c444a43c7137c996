package sqlite

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/motoguard/motoguard/internal/model"
	"github.com/motoguard/motoguard/internal/store"
	"github.com/motoguard/motoguard/internal/store/storetest"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "motoguard.db")
	s, err := New(path, 0, zerolog.Nop())
	require.NoError(t, err)
	return s
}

func TestSqliteStoreCompliance(t *testing.T) {
	storetest.Run(t, newTestStore)
}

func TestCorruptRecordDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "motoguard.db")
	db, err := Open(path)
	require.NoError(t, err)

	var logBuf bytes.Buffer
	s, err := NewWithDB(db, 0, zerolog.New(&logBuf))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = db.ExecContext(ctx,
		`INSERT INTO LocalState (Key, Value, UpdateTime) VALUES (?, ?, CURRENT_TIMESTAMP)`,
		"emergency_sessions", "{not json")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx,
		`INSERT INTO LocalState (Key, Value, UpdateTime) VALUES (?, ?, CURRENT_TIMESTAMP)`,
		"emergency_contacts", "also not json")
	require.NoError(t, err)

	sessions, err := s.Sessions().List(ctx)
	require.NoError(t, err)
	require.Empty(t, sessions)

	contacts, err := s.Contacts().List(ctx)
	require.NoError(t, err)
	require.Empty(t, contacts)

	// Corruption is recovered, not silent: each bad record warns with its key.
	require.Contains(t, logBuf.String(), `"level":"warn"`)
	require.Contains(t, logBuf.String(), "emergency_sessions")
	require.Contains(t, logBuf.String(), "emergency_contacts")

	// A create after corruption starts a fresh history.
	_, err = s.Sessions().Create(ctx, model.GeoPoint{Lat: 19, Lng: -99, Accuracy: 5}, "recovered")
	require.NoError(t, err)
	sessions, err = s.Sessions().List(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
}
