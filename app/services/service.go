// Package services implements the catalog operations on top of the
// repositories. Every exported method validates its input first, returns
// apperr-classified errors and maps models onto dto shapes.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shashiranjanraj/catalogapi/pkg/apperr"
	"github.com/shashiranjanraj/catalogapi/pkg/cache"
	"github.com/shashiranjanraj/catalogapi/pkg/logger"
	"github.com/shashiranjanraj/catalogapi/pkg/orm"
)

func productKey(id uint) string  { return fmt.Sprintf("product:%d", id) }
func categoryKey(id uint) string { return fmt.Sprintf("category:%d", id) }

// readCache wraps an optional cache store. The zero value caches nothing.
type readCache struct {
	store cache.Store
	ttl   time.Duration
}

func (c readCache) remember(ctx context.Context, key string, dest interface{}, load func() error) error {
	if c.store == nil {
		return load()
	}
	return orm.Remember(ctx, c.store, key, c.ttl, dest, load)
}

// forget drops keys. A failure only leaves a stale entry until its TTL, so
// it is logged rather than returned.
func (c readCache) forget(ctx context.Context, keys ...string) {
	if c.store == nil || len(keys) == 0 {
		return
	}
	if err := c.store.Del(ctx, keys...); err != nil {
		logger.WithCtx(ctx).Warn("cache invalidation failed", "keys", keys, "error", err)
	}
}

// notFound converts gorm's record-not-found into an apperr NotFound error
// with msg, and passes every other error through.
func notFound(err error, format string, args ...any) error {
	if orm.IsNotFound(err) {
		return apperr.Wrap(apperr.ErrNotFound, err, format, args...)
	}
	return err
}
