package memory

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/profitlens/profitlens/internal/app/domain/ledger"
	"github.com/profitlens/profitlens/internal/app/domain/user"
	"github.com/profitlens/profitlens/internal/app/storage"
)

// Store is an in-memory implementation of the storage interfaces. It is safe
// for concurrent use and is primarily intended for tests and local development.
type Store struct {
	mu              sync.RWMutex
	users           map[string]user.User
	usersByUsername map[string]string
	records         map[string][]ledger.Record
	clock           func() time.Time
}

var _ storage.UserStore = (*Store)(nil)
var _ storage.RecordStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		users:           make(map[string]user.User),
		usersByUsername: make(map[string]string),
		records:         make(map[string][]ledger.Record),
		clock:           time.Now,
	}
}

// SetClock overrides the store's time source. Tests use it to control
// created_at ordering.
func (s *Store) SetClock(clock func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = clock
}

// UserStore implementation ---------------------------------------------------

func (s *Store) CreateUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByUsername[u.Username]; exists {
		return user.User{}, fmt.Errorf("username %s already exists", u.Username)
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = s.clock().UTC()

	s.users[u.ID] = u
	s.usersByUsername[u.Username] = u.ID
	return u, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByUsername[username]
	if !ok {
		return user.User{}, sql.ErrNoRows
	}
	return s.users[id], nil
}

// RecordStore implementation -------------------------------------------------

func (s *Store) CreateRecord(_ context.Context, rec ledger.Record) (ledger.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.OwnerID == "" {
		return ledger.Record{}, fmt.Errorf("owner_id required")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = s.clock().UTC()

	s.records[rec.OwnerID] = append(s.records[rec.OwnerID], rec)
	return rec, nil
}

func (s *Store) ListRecords(_ context.Context, ownerID string) ([]ledger.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owned := s.records[ownerID]
	out := make([]ledger.Record, 0, len(owned))
	for i := len(owned) - 1; i >= 0; i-- {
		out = append(out, owned[i])
	}

	// Newest first; equal timestamps keep reverse insertion order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
