// Package records is the record store: transactions, payment methods, bills,
// receivables and customers, each persisted as one JSON array under its own key.
//
// Every mutation is a full read-modify-write of its collection. The store's
// mutex serializes mutations in one process; writes are compare-and-set on
// the key's version, so a write that raced another process is redone from
// a fresh read.
package records

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"lupa/internal/core"
	"lupa/internal/metrics"
	"lupa/internal/storage"
)

const (
	TransactionsKey   = "lupa_transactions"
	PaymentMethodsKey = "lupa_payment_methods"
	BillsKey          = "lupa_bills"
	ReceivablesKey    = "lupa_receivables"
	CustomersKey      = "lupa_customers"
)

// AllKeys lists every key the store writes.
var AllKeys = []string{TransactionsKey, PaymentMethodsKey, BillsKey, ReceivablesKey, CustomersKey}

type Store struct {
	kv     storage.KV
	logger *slog.Logger
	now    func() time.Time
	newUID func() string

	mu       sync.Mutex
	entropy  *ulid.MonotonicEntropy // guarded by mu
	versions map[string]int64       // version last read per key, guarded by mu
}

// maxWriteAttempts bounds how often a mutation is redone after losing a
// version race.
const maxWriteAttempts = 5

type Option func(*Store)

// WithClock replaces time.Now for ids, timestamps and "today".
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func New(kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:       kv,
		logger:   slog.Default(),
		now:      time.Now,
		newUID:   uuid.NewString,
		versions: make(map[string]int64),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.entropy = ulid.Monotonic(rand.New(rand.NewSource(s.now().UnixNano())), 0)
	return s
}

// Today is the current calendar date according to the store's clock.
func (s *Store) Today() core.Date {
	return core.DateOf(s.now())
}

// Ping checks the underlying key-value store.
func (s *Store) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}

// Reset removes every collection. Payment methods are re-seeded on next use.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range AllKeys {
		if err := s.kv.Remove(ctx, key); err != nil {
			return &core.StorageError{Op: "remove", Key: key, Err: err}
		}
	}
	s.logger.InfoContext(ctx, "All collections removed")
	return nil
}

// newID returns a ULID for the current instant. Caller holds mu.
func (s *Store) newID() string {
	return ulid.MustNew(ulid.Timestamp(s.now()), s.entropy).String()
}

type readState int

const (
	stateAbsent readState = iota
	statePresent
	stateCorrupt
)

// readCollection decodes the array stored under key. Absent and corrupt
// values both yield an empty, non-nil slice; the state tells them apart.
func readCollection[T any](ctx context.Context, s *Store, key string) ([]T, readState, error) {
	raw, version, ok, err := s.kv.GetVersion(ctx, key)
	if err != nil {
		return nil, stateAbsent, &core.StorageError{Op: "get", Key: key, Err: err}
	}
	s.versions[key] = version
	if !ok {
		return []T{}, stateAbsent, nil
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.WarnContext(ctx, "Stored collection is corrupt, reading it as empty",
			"key", key, "error", err)
		metrics.CorruptReads.WithLabelValues(key).Inc()
		return []T{}, stateCorrupt, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, statePresent, nil
}

// writeCollection stores items if key is still at the version readCollection
// saw. A lost race yields a StorageError wrapping storage.ErrConflict.
func writeCollection[T any](ctx context.Context, s *Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return &core.StorageError{Op: "encode", Key: key, Err: err}
	}
	version := s.versions[key]
	if err := s.kv.CompareAndSet(ctx, key, string(b), version); err != nil {
		return &core.StorageError{Op: "set", Key: key, Err: err}
	}
	s.versions[key] = version + 1
	return nil
}

// withRetry runs fn, a read-modify-write, again from scratch while its write
// loses to another process. Caller holds mu.
func (s *Store) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		if err = fn(); !errors.Is(err, storage.ErrConflict) {
			return err
		}
		metrics.WriteConflicts.Inc()
		s.logger.WarnContext(ctx, "Collection changed concurrently, retrying", "attempt", attempt, "error", err)
	}
	return err
}

func observe(collection, op string, err error) {
	metrics.StoreOperations.WithLabelValues(collection, op, metrics.Result(err)).Inc()
}

func (s *Store) logMutation(ctx context.Context, kind, op, id string) {
	s.logger.InfoContext(ctx, "Record "+op+"d", "kind", kind, "operation", op, "id", id)
}
