package anon

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/health-optimised/directory-backend/pkg/idgen"
	"github.com/health-optimised/directory-backend/pkg/kv"
	"github.com/health-optimised/directory-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

type brokenStore struct {
	kv.Store
}

func (b *brokenStore) Get(ctx context.Context, key string) (string, error) {
	return "", kv.ErrNotFound
}

func (b *brokenStore) Set(ctx context.Context, key, value string) error {
	return errors.New("write refused")
}

func TestGetOrCreateIsStable(t *testing.T) {
	provider := NewProvider(kv.NewMemory(), idgen.New(), testLogger())
	ctx := context.Background()

	first := provider.GetOrCreate(ctx)
	if first == "" {
		t.Fatal("expected a minted id")
	}
	if second := provider.GetOrCreate(ctx); second != first {
		t.Fatalf("expected stable id, got %q then %q", first, second)
	}
}

func TestGetOrCreateReturnsExisting(t *testing.T) {
	store := kv.NewMemory()
	ctx := context.Background()
	if err := store.Set(ctx, StorageKey, "anon-fixed"); err != nil {
		t.Fatal(err)
	}

	provider := NewProvider(store, idgen.New(), testLogger())
	if got := provider.GetOrCreate(ctx); got != "anon-fixed" {
		t.Fatalf("expected stored id, got %q", got)
	}
}

func TestGetOrCreateSurvivesWriteFailure(t *testing.T) {
	provider := NewProvider(&brokenStore{}, idgen.New(), testLogger())
	if got := provider.GetOrCreate(context.Background()); got == "" {
		t.Fatal("expected an id even when persistence fails")
	}
}
