package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/profitlens/profitlens/internal/app/domain/ledger"
	"github.com/profitlens/profitlens/internal/app/domain/user"
	"github.com/profitlens/profitlens/internal/app/storage"
)

// Store implements the storage interfaces backed by PostgreSQL.
type Store struct {
	db *sql.DB
}

var _ storage.UserStore = (*Store)(nil)
var _ storage.RecordStore = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the tables if they do not exist yet. It is idempotent
// and runs once at process start.
func (s *Store) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			id         TEXT PRIMARY KEY,
			owner_id   TEXT NOT NULL REFERENCES users(id),
			period     TEXT NOT NULL,
			revenue    DOUBLE PRECISION NOT NULL DEFAULT 0,
			cogs       DOUBLE PRECISION NOT NULL DEFAULT 0,
			expenses   DOUBLE PRECISION NOT NULL DEFAULT 0,
			taxes      DOUBLE PRECISION NOT NULL DEFAULT 0,
			currency   TEXT NOT NULL DEFAULT 'UZS',
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS records_owner_created_idx
			ON records (owner_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// --- UserStore --------------------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, u.ID, u.Username, u.PasswordHash, u.CreatedAt)
	if err != nil {
		return user.User{}, err
	}
	return u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE username = $1
	`, username)

	var u user.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		return user.User{}, err
	}
	return u, nil
}

// --- RecordStore ------------------------------------------------------------

func (s *Store) CreateRecord(ctx context.Context, rec ledger.Record) (ledger.Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (id, owner_id, period, revenue, cogs, expenses, taxes, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, rec.ID, rec.OwnerID, rec.Period, rec.Revenue, rec.COGS, rec.Expenses, rec.Taxes, rec.Currency, rec.CreatedAt)
	if err != nil {
		return ledger.Record{}, err
	}
	return rec, nil
}

func (s *Store) ListRecords(ctx context.Context, ownerID string) ([]ledger.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, period, revenue, cogs, expenses, taxes, currency, created_at
		FROM records
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]ledger.Record, 0)
	for rows.Next() {
		var rec ledger.Record
		if err := rows.Scan(&rec.ID, &rec.OwnerID, &rec.Period, &rec.Revenue, &rec.COGS, &rec.Expenses, &rec.Taxes, &rec.Currency, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.CreatedAt = rec.CreatedAt.UTC()
		result = append(result, rec)
	}
	return result, rows.Err()
}
