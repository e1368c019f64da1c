// Package seeders loads the sample catalog and accounts.
//
// Seeders register themselves from init():
//
//	func init() {
//	    seeders.Register("users", SeedUsers)
//	}
//
// and run from the CLI with `catalog seed`. Every seeder is idempotent and
// runs in its own transaction.
package seeders

import (
	"context"
	"fmt"
	"io"
	"sync"

	"gorm.io/gorm"
)

// Func seeds rows using tx.
type Func func(ctx context.Context, tx *gorm.DB) error

type entry struct {
	name string
	fn   Func
}

var (
	mu      sync.Mutex
	entries []entry
)

// Register adds a seeder. Seeders run in registration order.
func Register(name string, fn Func) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, entry{name: name, fn: fn})
}

// RunAll executes every registered seeder and stops at the first error.
// Progress lines go to out.
func RunAll(ctx context.Context, db *gorm.DB, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}

	mu.Lock()
	current := append([]entry(nil), entries...)
	mu.Unlock()

	if len(current) == 0 {
		fmt.Fprintln(out, "  (no seeders registered)")
		return nil
	}

	for _, e := range current {
		fmt.Fprintf(out, "  • Running seeder: %s … ", e.name)
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return e.fn(ctx, tx)
		})
		if err != nil {
			fmt.Fprintln(out, "FAILED")
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
		fmt.Fprintln(out, "done")
	}
	return nil
}
