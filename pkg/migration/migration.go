// Package migration runs and tracks schema migrations.
//
// Migrations register themselves from init() in database/migrations:
//
//	func init() {
//	    migration.Register("20250101000001_create_categories_table", &CreateCategoriesTable{})
//	}
//
// and are applied from the CLI:
//
//	catalog migrate             // run all pending in one batch
//	catalog migrate:rollback    // roll back the last batch
//	catalog migrate:status
package migration

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogapi/pkg/logger"
)

// Migration is implemented by every migration.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// record is a row of the tracking table.
type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "catalog_migrations" }

type registered struct {
	name string
	m    Migration
}

var registry []registered

// Register adds a migration. Names are timestamp-prefixed and run in name
// order.
func Register(name string, m Migration) {
	registry = append(registry, registered{name: name, m: m})
}

// Runner applies and tracks migrations. Progress lines go to out.
type Runner struct {
	db  *gorm.DB
	out io.Writer
}

func New(db *gorm.DB, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{db: db, out: out}
}

func (r *Runner) ensureTable() error {
	if err := r.db.AutoMigrate(&record{}); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	return nil
}

func (r *Runner) ran() (map[string]record, error) {
	var rows []record
	if err := r.db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("migration: list ran: %w", err)
	}
	out := make(map[string]record, len(rows))
	for _, rec := range rows {
		out[rec.Name] = rec
	}
	return out, nil
}

func sorted() []registered {
	all := append([]registered(nil), registry...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].name < all[j].name })
	return all
}

// Pending returns the names of migrations not yet applied.
func (r *Runner) Pending() ([]string, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}
	ran, err := r.ran()
	if err != nil {
		return nil, err
	}

	var names []string
	for _, reg := range sorted() {
		if _, ok := ran[reg.name]; !ok {
			names = append(names, reg.name)
		}
	}
	return names, nil
}

// Run applies every pending migration as one batch. Each migration and its
// tracking row commit together.
func (r *Runner) Run() error {
	if err := r.ensureTable(); err != nil {
		return err
	}
	ran, err := r.ran()
	if err != nil {
		return err
	}

	batch, err := r.lastBatch()
	if err != nil {
		return err
	}
	batch++

	count := 0
	for _, reg := range sorted() {
		if _, ok := ran[reg.name]; ok {
			continue
		}
		fmt.Fprintf(r.out, "  ▶ Migrating: %s\n", reg.name)

		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := reg.m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&record{Name: reg.name, Batch: batch}).Error
		})
		if err != nil {
			return fmt.Errorf("migration: %s up: %w", reg.name, err)
		}

		fmt.Fprintf(r.out, "  ✅ Migrated:  %s\n", reg.name)
		count++
	}

	if count == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return nil
	}
	logger.Info("migration: done", "ran", count, "batch", batch)
	return nil
}

// Rollback reverses the migrations of the most recent batch, newest first.
func (r *Runner) Rollback() error {
	if err := r.ensureTable(); err != nil {
		return err
	}

	batch, err := r.lastBatch()
	if err != nil {
		return err
	}
	if batch == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return nil
	}

	var records []record
	if err := r.db.Where("batch = ?", batch).Order("name desc").Find(&records).Error; err != nil {
		return fmt.Errorf("migration: list batch %d: %w", batch, err)
	}

	byName := make(map[string]Migration, len(registry))
	for _, reg := range registry {
		byName[reg.name] = reg.m
	}

	for _, rec := range records {
		m, ok := byName[rec.Name]
		if !ok {
			return fmt.Errorf("migration: cannot roll back %s: not registered", rec.Name)
		}

		fmt.Fprintf(r.out, "  ◀ Rolling back: %s\n", rec.Name)
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return err
			}
			return tx.Delete(&record{}, rec.ID).Error
		})
		if err != nil {
			return fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		fmt.Fprintf(r.out, "  ✅ Rolled back: %s\n", rec.Name)
	}

	logger.Info("migration: rolled back", "batch", batch, "count", len(records))
	return nil
}

// Status writes a table of every registered migration and its batch.
func (r *Runner) Status() error {
	if err := r.ensureTable(); err != nil {
		return err
	}
	ran, err := r.ran()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MIGRATION\tSTATUS\tBATCH")
	for _, reg := range sorted() {
		if rec, ok := ran[reg.name]; ok {
			fmt.Fprintf(tw, "%s\tRan\t%d\n", reg.name, rec.Batch)
		} else {
			fmt.Fprintf(tw, "%s\tPending\t-\n", reg.name)
		}
	}
	return tw.Flush()
}

func (r *Runner) lastBatch() (int, error) {
	var last int
	if err := r.db.Model(&record{}).Select("COALESCE(MAX(batch), 0)").Scan(&last).Error; err != nil {
		return 0, fmt.Errorf("migration: last batch: %w", err)
	}
	return last, nil
}
