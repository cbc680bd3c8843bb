package cache

import (
	"context"

	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/resilience"
)

// BreakerStore guards a remote Store with a circuit breaker so an
// unreachable backend costs one fast rejection per query instead of a
// network timeout. Rejections surface as errors and QueryCache treats
// them as misses. Calls whose context ends first do not count against
// the backend.
type BreakerStore struct {
	Store
	cb *resilience.CircuitBreaker
}

func NewBreakerStore(store Store, cb *resilience.CircuitBreaker) *BreakerStore {
	return &BreakerStore{Store: store, cb: cb}
}

func (b *BreakerStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		data []byte
		ok   bool
	)
	err := b.cb.ExecuteContext(ctx, func(ctx context.Context) error {
		var err error
		data, ok, err = b.Store.Get(ctx, key)
		return err
	})
	return data, ok, err
}

func (b *BreakerStore) Set(ctx context.Context, key string, value []byte) error {
	return b.cb.ExecuteContext(ctx, func(ctx context.Context) error {
		return b.Store.Set(ctx, key, value)
	})
}

func (b *BreakerStore) State() resilience.State {
	return b.cb.State()
}
