// Package orm holds the query helpers shared by the repositories: paging,
// sorting, read-through caching and gorm error classification.
package orm

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Cacher is the subset of a cache store the read-through helper needs.
type Cacher interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Remember fills dest from c under key, or calls load to fill it and stores
// the result for ttl. A failing cache write is not an error: the value was
// loaded and is returned.
func Remember(ctx context.Context, c Cacher, key string, ttl time.Duration, dest interface{}, load func() error) error {
	if c != nil && c.Get(ctx, key, dest) {
		return nil
	}

	if err := load(); err != nil {
		return err
	}

	if c != nil {
		_ = c.Set(ctx, key, dest, ttl)
	}
	return nil
}

// IsNotFound reports whether err is gorm's record-not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate reports whether err is a translated unique-constraint violation.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
