package migration

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type note struct {
	ID   uint
	Body string
}

type createNotes struct{}

func (createNotes) Up(db *gorm.DB) error   { return db.AutoMigrate(&note{}) }
func (createNotes) Down(db *gorm.DB) error { return db.Migrator().DropTable(&note{}) }

func setup(t *testing.T) *gorm.DB {
	t.Helper()
	saved := registry
	registry = nil
	t.Cleanup(func() { registry = saved })

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestRunAndRollback(t *testing.T) {
	db := setup(t)
	Register("20250101000001_create_notes_table", createNotes{})

	var out bytes.Buffer
	r := New(db, &out)

	pending, err := r.Pending()
	require.NoError(t, err)
	assert.Equal(t, []string{"20250101000001_create_notes_table"}, pending)

	require.NoError(t, r.Run())
	assert.True(t, db.Migrator().HasTable(&note{}))
	assert.Contains(t, out.String(), "Migrated:  20250101000001_create_notes_table")

	out.Reset()
	require.NoError(t, r.Run())
	assert.Contains(t, out.String(), "Nothing to migrate.")

	out.Reset()
	require.NoError(t, r.Status())
	assert.Regexp(t, `20250101000001_create_notes_table\s+Ran\s+1`, out.String())

	require.NoError(t, r.Rollback())
	assert.False(t, db.Migrator().HasTable(&note{}))

	pending, err = r.Pending()
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestRollbackWithNothingRun(t *testing.T) {
	db := setup(t)
	var out bytes.Buffer
	require.NoError(t, New(db, &out).Rollback())
	assert.Contains(t, out.String(), "Nothing to roll back.")
}
