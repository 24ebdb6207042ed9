package fixtures

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"lupa/internal/core"
	"lupa/internal/records"
	"lupa/internal/storage"
)

func newStore() *records.Store {
	now := func() time.Time { return time.Date(2024, 6, 30, 10, 0, 0, 0, time.UTC) }
	return records.New(storage.NewMemoryStore(),
		records.WithClock(now),
		records.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	store := newStore()

	txs, err := Seed(ctx, store, 40, 7)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if len(txs) != 40 {
		t.Fatalf("seeded %d, want 40", len(txs))
	}

	stored, err := store.ListTransactions(ctx)
	if err != nil || len(stored) != 40 {
		t.Fatalf("stored %d, %v", len(stored), err)
	}
	earliest := store.Today().AddDays(-179)
	for _, tx := range stored {
		if tx.Date.Before(earliest.Time) || tx.Date.After(store.Today().Time) {
			t.Errorf("date %s outside the last six months", tx.Date)
		}
		if !core.IsKnownCategory(tx.Type, tx.Category) {
			t.Errorf("unknown category %q for %s", tx.Category, tx.Type)
		}
		if tx.NetAmount.Cents != tx.Amount.Cents-tx.CardFee.Cents {
			t.Errorf("net amount mismatch on %s", tx.ID)
		}
	}
}

func TestSeed_Deterministic(t *testing.T) {
	ctx := context.Background()
	a, err := Seed(ctx, newStore(), 10, 42)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Seed(ctx, newStore(), 10, 42)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i].Description != b[i].Description || a[i].Amount != b[i].Amount || a[i].Date != b[i].Date {
			t.Fatalf("transaction %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
