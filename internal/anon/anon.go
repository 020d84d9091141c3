// Package anon issues the per-session anonymous identity used for ratings.
package anon

import (
	"context"

	"github.com/health-optimised/directory-backend/pkg/idgen"
	"github.com/health-optimised/directory-backend/pkg/kv"
	"github.com/health-optimised/directory-backend/pkg/logger"
)

// StorageKey is the kv slot holding the session's anonymous id.
const StorageKey = "anon:user:id"

// Provider hands out a stable anonymous id, minting one on first use.
type Provider struct {
	store kv.Store
	gen   *idgen.Generator
	logg  *logger.Logger
}

func NewProvider(store kv.Store, gen *idgen.Generator, logg *logger.Logger) *Provider {
	return &Provider{store: store, gen: gen, logg: logg}
}

// GetOrCreate returns the existing anonymous id or mints and stores a new
// one. The fresh id is returned even when persisting it fails.
func (p *Provider) GetOrCreate(ctx context.Context) string {
	if existing, err := p.store.Get(ctx, StorageKey); err == nil && existing != "" {
		return existing
	}
	id := p.gen.AnonID()
	if err := p.store.Set(ctx, StorageKey, id); err != nil {
		p.logg.Warn(ctx, "persisting anonymous id failed")
	}
	return id
}
