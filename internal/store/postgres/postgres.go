// Package postgres is the shared-backend store. Unlike the sqlite
// snapshot store it writes one row per session with a version column
// bumped on every update, so concurrent writers to different sessions
// never rewrite each other's state.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"

	"github.com/motoguard/motoguard/internal/model"
	"github.com/motoguard/motoguard/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and
// verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a Postgres store backed directly by database/sql.
// historyLimit <= 0 selects the default cap.
func NewWithDB(db *sql.DB, historyLimit int, log zerolog.Logger) store.Store {
	if historyLimit <= 0 {
		historyLimit = store.DefaultHistoryLimit
	}
	return &pgStore{db: db, limit: historyLimit, log: log}
}

type pgStore struct {
	db    *sql.DB
	limit int
	log   zerolog.Logger
}

func (s *pgStore) Contacts() store.Contacts { return &contacts{s} }
func (s *pgStore) Sessions() store.Sessions { return &sessions{s} }

// HealthPing implements health.HealthPinger for the Postgres-backed store.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// EnsureSchema creates the tables if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS emergency_sessions (
            session_id TEXT PRIMARY KEY,
            creation_time TIMESTAMPTZ NOT NULL,
            lat DOUBLE PRECISION NOT NULL,
            lng DOUBLE PRECISION NOT NULL,
            accuracy DOUBLE PRECISION NOT NULL,
            address TEXT NOT NULL,
            status TEXT NOT NULL,
            contacts_notified JSONB NOT NULL DEFAULT '[]',
            hospitals_contacted JSONB NOT NULL DEFAULT '[]',
            version BIGINT NOT NULL DEFAULT 1
        );`,
		`CREATE INDEX IF NOT EXISTS emergency_sessions_creation_idx
            ON emergency_sessions (creation_time DESC);`,
		`CREATE TABLE IF NOT EXISTS emergency_contacts (
            book_key TEXT PRIMARY KEY,
            contacts JSONB NOT NULL,
            version BIGINT NOT NULL DEFAULT 1
        );`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// The single-user rider app keeps one contact book; the key leaves room
// for per-account books later without a schema change.
const contactBookKey = "default"

// --- Contacts ---

type contacts struct{ p *pgStore }

func (c *contacts) List(ctx context.Context) ([]model.Contact, error) {
	var raw []byte
	row := c.p.db.QueryRowContext(ctx,
		`SELECT contacts FROM emergency_contacts WHERE book_key = $1`, contactBookKey)
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	var out []model.Contact
	if err := json.Unmarshal(raw, &out); err != nil {
		c.p.log.Warn().Err(err).Str("book_key", contactBookKey).Msg("corrupt contact book, treating as empty")
	}
	return out, nil
}

func (c *contacts) Save(ctx context.Context, list []model.Contact) ([]model.Contact, error) {
	saved := append([]model.Contact(nil), list...)
	store.NormalizePrimary(saved)
	raw, err := json.Marshal(saved)
	if err != nil {
		return nil, err
	}
	_, err = c.p.db.ExecContext(ctx, `
        INSERT INTO emergency_contacts (book_key, contacts, version)
        VALUES ($1, $2, 1)
        ON CONFLICT (book_key)
        DO UPDATE SET contacts = EXCLUDED.contacts,
                      version = emergency_contacts.version + 1
    `, contactBookKey, raw)
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// --- Sessions ---

type sessions struct{ p *pgStore }

func (s *sessions) Create(ctx context.Context, loc model.GeoPoint, address string) (*model.EmergencySession, error) {
	session := model.EmergencySession{
		ID:                 uuid.New().String(),
		Timestamp:          time.Now().UTC(),
		Location:           loc,
		Address:            address,
		Status:             model.SessionActive,
		ContactsNotified:   []string{},
		HospitalsContacted: []string{},
	}

	tx, err := s.p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `
        INSERT INTO emergency_sessions
            (session_id, creation_time, lat, lng, accuracy, address, status, contacts_notified, hospitals_contacted)
        VALUES ($1,$2,$3,$4,$5,$6,$7,'[]','[]')
    `, session.ID, session.Timestamp, loc.Lat, loc.Lng, loc.Accuracy, address, string(session.Status)); err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	// Evict beyond the history cap, oldest first.
	if _, err := tx.ExecContext(ctx, `
        DELETE FROM emergency_sessions WHERE session_id NOT IN (
            SELECT session_id FROM emergency_sessions
            ORDER BY creation_time DESC LIMIT $1
        )
    `, s.p.limit); err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *sessions) List(ctx context.Context) ([]model.EmergencySession, error) {
	rows, err := s.p.db.QueryContext(ctx, `
        SELECT session_id, creation_time, lat, lng, accuracy, address, status,
               contacts_notified, hospitals_contacted
        FROM emergency_sessions ORDER BY creation_time DESC LIMIT $1
    `, s.p.limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.EmergencySession
	for rows.Next() {
		var sess model.EmergencySession
		var status string
		var contactsRaw, hospitalsRaw []byte
		if err := rows.Scan(&sess.ID, &sess.Timestamp, &sess.Location.Lat, &sess.Location.Lng,
			&sess.Location.Accuracy, &sess.Address, &status, &contactsRaw, &hospitalsRaw); err != nil {
			return nil, err
		}
		sess.Status = model.SessionStatus(status)
		sess.ContactsNotified = []string{}
		sess.HospitalsContacted = []string{}
		if err := json.Unmarshal(contactsRaw, &sess.ContactsNotified); err != nil {
			s.p.log.Warn().Err(err).Str("session", sess.ID).Msg("corrupt contacts_notified list, treating as empty")
		}
		if err := json.Unmarshal(hospitalsRaw, &sess.HospitalsContacted); err != nil {
			s.p.log.Warn().Err(err).Str("session", sess.ID).Msg("corrupt hospitals_contacted list, treating as empty")
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

func (s *sessions) Update(ctx context.Context, id string, patch model.SessionPatch) error {
	set := "version = version + 1"
	args := []interface{}{}
	n := 1
	if patch.Status != nil {
		set += fmt.Sprintf(", status = $%d", n)
		args = append(args, string(*patch.Status))
		n++
	}
	if patch.Address != nil {
		set += fmt.Sprintf(", address = $%d", n)
		args = append(args, *patch.Address)
		n++
	}
	if patch.ContactsNotified != nil {
		raw, err := json.Marshal(*patch.ContactsNotified)
		if err != nil {
			return err
		}
		set += fmt.Sprintf(", contacts_notified = $%d", n)
		args = append(args, raw)
		n++
	}
	if patch.HospitalsContacted != nil {
		raw, err := json.Marshal(*patch.HospitalsContacted)
		if err != nil {
			return err
		}
		set += fmt.Sprintf(", hospitals_contacted = $%d", n)
		args = append(args, raw)
		n++
	}
	args = append(args, id)

	// RowsAffected is intentionally ignored: an unknown id is a no-op.
	_, err := s.p.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE emergency_sessions SET %s WHERE session_id = $%d`, set, n), args...)
	return err
}
