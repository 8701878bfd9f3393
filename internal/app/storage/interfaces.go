package storage

import (
	"context"

	"github.com/profitlens/profitlens/internal/app/domain/ledger"
	"github.com/profitlens/profitlens/internal/app/domain/user"
)

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	GetUserByUsername(ctx context.Context, username string) (user.User, error)
}

// RecordStore persists period records. Records are append-only: there are no
// update or delete operations.
type RecordStore interface {
	CreateRecord(ctx context.Context, rec ledger.Record) (ledger.Record, error)
	ListRecords(ctx context.Context, ownerID string) ([]ledger.Record, error)
}
