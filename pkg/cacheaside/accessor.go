// Package cacheaside implements the cache-aside read path used by the aggregate
// movie queries.
//
// A present, unexpired entry is returned verbatim without consulting the store of
// record. Entries are removed only by passive expiry, so writes that change an
// aggregate (a new review, a watchlist toggle) become visible once the entry's
// TTL runs out. The cache is never a correctness dependency: any cache failure
// degrades to a direct computation.
package cacheaside

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	pkgError "github.com/movi-app/movi/pkg/error"
	"github.com/sirupsen/logrus"
)

// DefaultOpTimeout bounds each cache round trip.
const DefaultOpTimeout = 500 * time.Millisecond

// Accessor wraps a Store with the fetch-or-compute contract.
type Accessor struct {
	store     Store
	opTimeout time.Duration
	metrics   *Metrics
}

// NewAccessor builds an Accessor. metrics may be nil.
func NewAccessor(store Store, opTimeout time.Duration, metrics *Metrics) *Accessor {
	if opTimeout <= 0 {
		opTimeout = DefaultOpTimeout
	}
	return &Accessor{store: store, opTimeout: opTimeout, metrics: metrics}
}

// Ping checks the backing store within the op timeout.
func (a *Accessor) Ping(ctx context.Context) error {
	if a == nil || a.store == nil {
		return errors.New("cache store not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, a.opTimeout)
	defer cancel()
	return a.store.Ping(ctx)
}

// FetchCached returns the cached value for key when present and decodable. Otherwise
// it calls compute exactly once and, on success, writes the result back with ttl on
// a best-effort basis. Only compute's error is returned. Concurrent misses for the same
// key are not coalesced: each calls compute and the last write wins.
func FetchCached[T any](ctx context.Context, a *Accessor, key string, ttl time.Duration, compute func(context.Context) (T, error)) (T, error) {
	if a == nil || a.store == nil {
		return compute(ctx)
	}

	if blob, ok := a.read(ctx, key); ok {
		var cached T
		err := json.Unmarshal(blob, &cached)
		if err == nil {
			a.metrics.hit()
			logrus.WithField("key", key).Debug("[CACHE] serving from cache")
			return cached, nil
		}
		a.degrade("decode", key, err)
	}

	a.metrics.miss()
	value, err := compute(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	blob, err := json.Marshal(value)
	if err != nil {
		a.degrade("encode", key, err)
		return value, nil
	}
	a.write(ctx, key, blob, ttl)
	return value, nil
}

func (a *Accessor) read(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, a.opTimeout)
	defer cancel()

	blob, ok, err := a.store.Get(ctx, key)
	if err != nil {
		a.degrade("get", key, err)
		return nil, false
	}
	return blob, ok
}

func (a *Accessor) write(ctx context.Context, key string, blob []byte, ttl time.Duration) {
	// The write outlives a client that already disconnected; its own timeout still bounds it.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.opTimeout)
	defer cancel()

	if err := a.store.SetWithTTL(ctx, key, blob, ttl); err != nil {
		a.metrics.writeFailed()
		a.degrade("set", key, err)
	}
}

// degrade is the single fallback path for cache failures. The request continues as a miss.
func (a *Accessor) degrade(op, key string, cause error) {
	err := &pkgError.CacheDegradedError{Op: op, Key: key, Cause: cause}
	a.metrics.degraded(op)
	logrus.WithError(err).WithField("key", key).Warn("[CACHE] degraded, falling through to the database")
}
