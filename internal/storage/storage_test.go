package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

// exerciseKV runs the contract every backend must satisfy.
func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := kv.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("absent key: ok=%v err=%v", ok, err)
	}

	if err := kv.Set(ctx, "lupa_transactions", `[{"id":"1"}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := kv.Get(ctx, "lupa_transactions")
	if err != nil || !ok || v != `[{"id":"1"}]` {
		t.Fatalf("get after set: v=%q ok=%v err=%v", v, ok, err)
	}

	if err := kv.Set(ctx, "lupa_transactions", `[]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if v, _, _ := kv.Get(ctx, "lupa_transactions"); v != `[]` {
		t.Fatalf("overwrite not visible: %q", v)
	}

	if err := kv.Remove(ctx, "lupa_transactions"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := kv.Remove(ctx, "lupa_transactions"); err != nil {
		t.Fatalf("second remove must be a no-op: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, "lupa_transactions"); ok {
		t.Fatalf("key still present after remove")
	}

	if err := kv.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	exerciseCompareAndSet(t, kv)
}

func exerciseCompareAndSet(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()
	const key = "lupa_bills"

	if _, v, ok, err := kv.GetVersion(ctx, key); err != nil || ok || v != 0 {
		t.Fatalf("absent key: version=%d ok=%v err=%v", v, ok, err)
	}
	if err := kv.CompareAndSet(ctx, key, `[]`, 0); err != nil {
		t.Fatalf("create with version 0: %v", err)
	}
	if err := kv.CompareAndSet(ctx, key, `[{"id":"x"}]`, 0); !errors.Is(err, ErrConflict) {
		t.Fatalf("second create must conflict, got %v", err)
	}

	_, v1, ok, err := kv.GetVersion(ctx, key)
	if err != nil || !ok || v1 == 0 {
		t.Fatalf("after create: version=%d ok=%v err=%v", v1, ok, err)
	}

	// another writer gets in first
	if err := kv.Set(ctx, key, `[{"id":"a"}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.CompareAndSet(ctx, key, `[{"id":"b"}]`, v1); !errors.Is(err, ErrConflict) {
		t.Fatalf("stale version must conflict, got %v", err)
	}
	value, v2, _, _ := kv.GetVersion(ctx, key)
	if value != `[{"id":"a"}]` || v2 <= v1 {
		t.Fatalf("stale write leaked: value=%q version=%d (was %d)", value, v2, v1)
	}

	if err := kv.CompareAndSet(ctx, key, `[{"id":"c"}]`, v2); err != nil {
		t.Fatalf("current version: %v", err)
	}
	if value, _, _ := kv.Get(ctx, key); value != `[{"id":"c"}]` {
		t.Fatalf("after compare-and-set: %q", value)
	}
	if err := kv.Remove(ctx, key); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseKV(t, NewMemoryStore())
}

func TestMemoryStoreHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewMemoryStore().Set(ctx, "k", "v"); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "lupa.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	exerciseKV(t, s)
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lupa.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set(ctx, "lupa_payment_methods", `[{"id":"1","name":"PIX","fee":0}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	s.Close()

	// Reopening runs migrations again; they must be a no-op.
	s, err = NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	v, ok, err := s.Get(ctx, "lupa_payment_methods")
	if err != nil || !ok || v != `[{"id":"1","name":"PIX","fee":0}]` {
		t.Fatalf("after reopen: v=%q ok=%v err=%v", v, ok, err)
	}
}

func TestSQLiteStoreSharedByTwoHandles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lupa.db")
	ctx := context.Background()

	a, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open a: %v", err)
	}
	defer a.Close()
	b, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open b: %v", err)
	}
	defer b.Close()

	if err := a.Set(ctx, "lupa_bills", `[]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	_, seen, _, err := a.GetVersion(ctx, "lupa_bills")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if err := b.CompareAndSet(ctx, "lupa_bills", `[{"id":"b"}]`, seen); err != nil {
		t.Fatalf("b write: %v", err)
	}
	if err := a.CompareAndSet(ctx, "lupa_bills", `[{"id":"a"}]`, seen); !errors.Is(err, ErrConflict) {
		t.Fatalf("a must see the conflict, got %v", err)
	}
}
