package orm_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogapi/pkg/apperr"
	"github.com/shashiranjanraj/catalogapi/pkg/orm"
)

type widget struct {
	ID   uint
	Name string
	Rank int
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&widget{}))
	for i, name := range []string{"delta", "alpha", "echo", "charlie", "bravo"} {
		require.NoError(t, db.Create(&widget{Name: name, Rank: i % 2}).Error)
	}
	return db
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, orm.PageRequest{Page: 0, Size: orm.DefaultPageSize}, orm.PageRequest{Page: -3}.Normalize())
	assert.Equal(t, orm.MaxPageSize, orm.PageRequest{Size: 10_000}.Normalize().Size)
}

func TestNormalizeBoundsHugePage(t *testing.T) {
	req := orm.PageRequest{Page: math.MaxInt, Size: orm.MaxPageSize}.Normalize()
	assert.Positive(t, req.Offset())
	assert.LessOrEqual(t, req.Offset(), math.MaxInt32)
	assert.Equal(t, math.MaxInt32/orm.MaxPageSize, req.Page)
}

func TestPaginateHugePageIsEmpty(t *testing.T) {
	db := openDB(t)
	order, err := orm.OrderBy("", map[string]string{"id": "id"}, "id")
	require.NoError(t, err)

	var got []widget
	req := orm.PageRequest{Page: math.MaxInt / 2, Size: 2}.Normalize()
	p, err := orm.Paginate(db.Model(&widget{}), req, order, &got)
	require.NoError(t, err)

	assert.Empty(t, got)
	assert.Equal(t, int64(5), p.Total)
	assert.Equal(t, req.Page, p.CurrentPage)
}

func TestNewPagination(t *testing.T) {
	p := orm.NewPagination(orm.PageRequest{Page: 1, Size: 2}, 5)
	assert.Equal(t, orm.Pagination{Total: 5, PerPage: 2, CurrentPage: 1, LastPage: 2}, p)

	empty := orm.NewPagination(orm.PageRequest{Page: 0, Size: 20}, 0)
	assert.Equal(t, 0, empty.LastPage)
}

func TestOrderByRejectsUnknownField(t *testing.T) {
	_, err := orm.OrderBy("password", map[string]string{"name": "name"}, "id")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = orm.OrderBy("name,sideways", map[string]string{"name": "name"}, "id")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestPaginateSortsAndCounts(t *testing.T) {
	db := openDB(t)
	allowed := map[string]string{"name": "name", "rank": "rank", "id": "id"}

	order, err := orm.OrderBy("name,desc", allowed, "id")
	require.NoError(t, err)

	var got []widget
	p, err := orm.Paginate(db.Model(&widget{}), orm.PageRequest{Page: 0, Size: 2}, order, &got)
	require.NoError(t, err)

	assert.Equal(t, int64(5), p.Total)
	assert.Equal(t, 2, p.LastPage)
	require.Len(t, got, 2)
	assert.Equal(t, "echo", got[0].Name)
	assert.Equal(t, "delta", got[1].Name)
}

func TestPaginateTiebreakIsStable(t *testing.T) {
	db := openDB(t)
	order, err := orm.OrderBy("rank", map[string]string{"rank": "rank"}, "id")
	require.NoError(t, err)

	var first, second []widget
	_, err = orm.Paginate(db.Model(&widget{}), orm.PageRequest{Page: 0, Size: 3}, order, &first)
	require.NoError(t, err)
	_, err = orm.Paginate(db.Model(&widget{}), orm.PageRequest{Page: 1, Size: 3}, order, &second)
	require.NoError(t, err)

	seen := map[uint]bool{}
	for _, w := range append(first, second...) {
		assert.False(t, seen[w.ID], "widget %d returned twice", w.ID)
		seen[w.ID] = true
	}
	assert.Len(t, seen, 5)
}

type mapCache map[string]string

func (m mapCache) Get(_ context.Context, key string, dest interface{}) bool {
	v, ok := m[key]
	if ok {
		*dest.(*string) = v
	}
	return ok
}

func (m mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m[key] = *value.(*string)
	return nil
}

func TestRemember(t *testing.T) {
	c := mapCache{}
	calls := 0
	load := func(dest *string) func() error {
		return func() error {
			calls++
			*dest = "loaded"
			return nil
		}
	}

	var a, b string
	require.NoError(t, orm.Remember(context.Background(), c, "k", time.Minute, &a, load(&a)))
	require.NoError(t, orm.Remember(context.Background(), c, "k", time.Minute, &b, load(&b)))

	assert.Equal(t, "loaded", a)
	assert.Equal(t, "loaded", b)
	assert.Equal(t, 1, calls)

	boom := errors.New("boom")
	var d string
	err := orm.Remember(context.Background(), c, "other", time.Minute, &d, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	_, cached := c["other"]
	assert.False(t, cached)
}
