package memory

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/profitlens/profitlens/internal/app/domain/ledger"
	"github.com/profitlens/profitlens/internal/app/domain/user"
)

func TestUserStore(t *testing.T) {
	store := New()
	ctx := context.Background()

	created, err := store.CreateUser(ctx, user.User{Username: "alice", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated user id")
	}

	got, err := store.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("got id %s, want %s", got.ID, created.ID)
	}

	if _, err := store.CreateUser(ctx, user.User{Username: "alice"}); err == nil {
		t.Fatal("expected duplicate username error")
	}

	if _, err := store.GetUserByUsername(ctx, "bob"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows for unknown user, got %v", err)
	}
}

func TestListRecordsEmpty(t *testing.T) {
	store := New()

	recs, err := store.ListRecords(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected empty list, got %d records", len(recs))
	}
}

func TestListRecordsNewestFirst(t *testing.T) {
	store := New()
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	current := base
	store.SetClock(func() time.Time { return current })

	for i, period := range []string{"2024-01", "2024-02", "2024-03"} {
		current = base.Add(time.Duration(i) * time.Hour)
		if _, err := store.CreateRecord(ctx, ledger.Record{OwnerID: "owner", Period: period}); err != nil {
			t.Fatalf("create record %s: %v", period, err)
		}
	}

	recs, err := store.ListRecords(ctx, "owner")
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	for i, want := range []string{"2024-03", "2024-02", "2024-01"} {
		if recs[i].Period != want {
			t.Fatalf("position %d = %s, want %s", i, recs[i].Period, want)
		}
	}
}

func TestListRecordsOwnerScoped(t *testing.T) {
	store := New()
	ctx := context.Background()

	if _, err := store.CreateRecord(ctx, ledger.Record{OwnerID: "alice", Period: "2024-01"}); err != nil {
		t.Fatalf("create record: %v", err)
	}
	if _, err := store.CreateRecord(ctx, ledger.Record{OwnerID: "bob", Period: "2024-01"}); err != nil {
		t.Fatalf("create record: %v", err)
	}

	recs, err := store.ListRecords(ctx, "alice")
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record for alice, got %d", len(recs))
	}
	if recs[0].OwnerID != "alice" {
		t.Fatalf("got record owned by %s", recs[0].OwnerID)
	}
}
