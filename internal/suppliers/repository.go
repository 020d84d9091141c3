package suppliers

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/health-optimised/directory-backend/pkg/kv"
	"github.com/health-optimised/directory-backend/pkg/logger"
)

// Repository persists the supplier directory as a single JSON document and
// fans out change notifications to subscribers.
type Repository struct {
	store kv.Store
	logg  *logger.Logger

	mu          sync.Mutex
	nextSubID   int
	subscribers map[int]func([]Supplier)
}

// NewRepository constructs a repository over the provided kv store.
func NewRepository(store kv.Store, logg *logger.Logger) *Repository {
	return &Repository{
		store:       store,
		logg:        logg,
		subscribers: map[int]func([]Supplier){},
	}
}

// Load returns the current directory. Missing, corrupt, or empty storage falls
// back to the seed set, which is written back on a best effort basis.
func (r *Repository) Load(ctx context.Context) []Supplier {
	raw, err := r.store.Get(ctx, StorageKey)
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		r.logg.Warn(ctx, "reading supplier directory failed, serving seed data")
	}

	var parsed []Supplier
	if err == nil {
		if jsonErr := json.Unmarshal([]byte(raw), &parsed); jsonErr != nil {
			parsed = nil
		}
	}

	if len(parsed) == 0 {
		fallback := Seed()
		if encoded, marshalErr := json.Marshal(fallback); marshalErr == nil {
			if setErr := r.store.Set(ctx, StorageKey, string(encoded)); setErr != nil {
				r.logg.Warn(ctx, "reseeding supplier directory failed")
			}
		}
		return fallback
	}

	return parsed
}

// GetByID returns the supplier with the given id, or false when absent.
func (r *Repository) GetByID(ctx context.Context, id string) (Supplier, bool) {
	for _, supplier := range r.Load(ctx) {
		if supplier.ID == id {
			return supplier, true
		}
	}
	return Supplier{}, false
}

// Save persists the directory and notifies subscribers. Subscribers are only
// notified after a successful write.
func (r *Repository) Save(ctx context.Context, list []Supplier) error {
	encoded, err := json.Marshal(list)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, StorageKey, string(encoded)); err != nil {
		return err
	}
	r.broadcast(list)
	return nil
}

// Subscribe registers a change listener and returns its unsubscribe func.
// Listeners receive a private copy of the directory.
func (r *Repository) Subscribe(fn func([]Supplier)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextSubID
	r.nextSubID++
	r.subscribers[id] = fn
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subscribers, id)
	}
}

func (r *Repository) broadcast(list []Supplier) {
	r.mu.Lock()
	listeners := make([]func([]Supplier), 0, len(r.subscribers))
	for _, fn := range r.subscribers {
		listeners = append(listeners, fn)
	}
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(clone(list))
	}
}
