// Package sqlite persists the contact and session collections as JSON
// snapshot records in a local key-value table, mirroring the record shapes
// the rider app keeps on-device (emergency_contacts, emergency_sessions).
//
// Every mutation is read-modify-write of the whole collection. That is
// acceptable at the bounded scale of this store (history is capped) but
// does not generalize; the postgres backend uses keyed upserts instead.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/motoguard/motoguard/internal/model"
	"github.com/motoguard/motoguard/internal/store"
)

// Storage record keys. emergency_config is reserved for future use.
const (
	keyContacts = "emergency_contacts"
	keySessions = "emergency_sessions"
)

type sqliteStore struct {
	db    *sql.DB
	limit int
	log   zerolog.Logger
}

// New opens (or creates) the store at path. historyLimit <= 0 selects the
// default cap.
func New(path string, historyLimit int, log zerolog.Logger) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return NewWithDB(db, historyLimit, log)
}

// NewWithDB wires the store onto an existing connection (used by the factory
// and tests).
func NewWithDB(db *sql.DB, historyLimit int, log zerolog.Logger) (store.Store, error) {
	if historyLimit <= 0 {
		historyLimit = store.DefaultHistoryLimit
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return &sqliteStore{db: db, limit: historyLimit, log: log}, nil
}

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS LocalState (
        Key TEXT PRIMARY KEY,
        Value TEXT NOT NULL,
        UpdateTime TIMESTAMP NOT NULL
    );`)
	return err
}

func (s *sqliteStore) Contacts() store.Contacts { return &contacts{s} }
func (s *sqliteStore) Sessions() store.Sessions { return &sessions{s} }

// HealthPing implements health.HealthPinger.
func (s *sqliteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// readRecord loads and decodes the JSON array stored under key into out.
// A missing record or unparseable JSON leaves out empty: corrupt local
// state degrades to an empty collection rather than failing the caller.
func (s *sqliteStore) readRecord(ctx context.Context, key string, out interface{}) error {
	var raw string
	row := s.db.QueryRowContext(ctx, `SELECT Value FROM LocalState WHERE Key = ?`, key)
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("corrupt stored record, treating collection as empty")
	}
	return nil
}

func (s *sqliteStore) writeRecord(ctx context.Context, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO LocalState (Key, Value, UpdateTime) VALUES (?,?,?)
        ON CONFLICT(Key) DO UPDATE SET Value = excluded.Value, UpdateTime = excluded.UpdateTime`,
		key, string(raw), time.Now().UTC())
	return err
}

// --- Contacts ---

type contacts struct{ p *sqliteStore }

func (c *contacts) List(ctx context.Context) ([]model.Contact, error) {
	var out []model.Contact
	if err := c.p.readRecord(ctx, keyContacts, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *contacts) Save(ctx context.Context, list []model.Contact) ([]model.Contact, error) {
	saved := append([]model.Contact(nil), list...)
	store.NormalizePrimary(saved)
	if err := c.p.writeRecord(ctx, keyContacts, saved); err != nil {
		return nil, err
	}
	return saved, nil
}

// --- Sessions ---

type sessions struct{ p *sqliteStore }

func (se *sessions) Create(ctx context.Context, loc model.GeoPoint, address string) (*model.EmergencySession, error) {
	session := model.EmergencySession{
		ID:                 uuid.New().String(),
		Timestamp:          time.Now().UTC(),
		Location:           loc,
		Address:            address,
		Status:             model.SessionActive,
		ContactsNotified:   []string{},
		HospitalsContacted: []string{},
	}

	existing, err := se.List(ctx)
	if err != nil {
		return nil, err
	}
	updated := append([]model.EmergencySession{session}, existing...)
	if len(updated) > se.p.limit {
		updated = updated[:se.p.limit]
	}
	if err := se.p.writeRecord(ctx, keySessions, updated); err != nil {
		return nil, err
	}
	return &session, nil
}

func (se *sessions) List(ctx context.Context) ([]model.EmergencySession, error) {
	var out []model.EmergencySession
	if err := se.p.readRecord(ctx, keySessions, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (se *sessions) Update(ctx context.Context, id string, patch model.SessionPatch) error {
	list, err := se.List(ctx)
	if err != nil {
		return err
	}
	touched := false
	for i := range list {
		if list[i].ID == id {
			patch.Apply(&list[i])
			touched = true
		}
	}
	if !touched {
		return nil // unknown id is a no-op
	}
	return se.p.writeRecord(ctx, keySessions, list)
}
