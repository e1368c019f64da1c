package orm

import (
	"fmt"
	"math"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/catalogapi/pkg/apperr"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest selects one page of a listing. Page is zero-based; Sort is
// "field" or "field,asc|desc".
type PageRequest struct {
	Page int
	Size int
	Sort string
}

// Normalize clamps Page and Size into their valid ranges.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	// Offset must stay positive on every driver.
	if maxPage := math.MaxInt32 / p.Size; p.Page > maxPage {
		p.Page = maxPage
	}
	return p
}

func (p PageRequest) Offset() int { return p.Page * p.Size }

// Pagination is the metadata returned alongside every page.
type Pagination struct {
	Total       int64 `json:"total"`
	PerPage     int   `json:"perPage"`
	CurrentPage int   `json:"currentPage"`
	LastPage    int   `json:"lastPage"`
}

// NewPagination derives page metadata from a normalized request and a total.
func NewPagination(req PageRequest, total int64) Pagination {
	last := 0
	if total > 0 {
		last = int((total - 1) / int64(req.Size))
	}
	return Pagination{
		Total:       total,
		PerPage:     req.Size,
		CurrentPage: req.Page,
		LastPage:    last,
	}
}

// Page is a slice of items plus pagination metadata.
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// MapPage converts the items of a page while keeping its metadata.
func MapPage[S, T any](in Page[S], fn func(S) T) Page[T] {
	out := Page[T]{Items: make([]T, 0, len(in.Items)), Pagination: in.Pagination}
	for _, item := range in.Items {
		out.Items = append(out.Items, fn(item))
	}
	return out
}

// OrderBy parses sort against the allowed field→column map and returns the
// ORDER BY clause. The tiebreak column is always appended so pages are stable.
// An empty sort orders by tiebreak alone.
func OrderBy(sort string, allowed map[string]string, tiebreak string) (clause.OrderBy, error) {
	var cols []clause.OrderByColumn

	if s := strings.TrimSpace(sort); s != "" {
		field, dir, _ := strings.Cut(s, ",")
		field = strings.TrimSpace(field)
		column, ok := allowed[field]
		if !ok {
			return clause.OrderBy{}, apperr.Invalid("sort", "Cannot sort by %q.", field)
		}

		desc := false
		switch strings.ToLower(strings.TrimSpace(dir)) {
		case "", "asc":
		case "desc":
			desc = true
		default:
			return clause.OrderBy{}, apperr.Invalid("sort", "Sort direction must be asc or desc.")
		}
		cols = append(cols, clause.OrderByColumn{Column: clause.Column{Name: column, Raw: true}, Desc: desc})
		if column == tiebreak {
			return clause.OrderBy{Columns: cols}, nil
		}
	}

	cols = append(cols, clause.OrderByColumn{Column: clause.Column{Name: tiebreak, Raw: true}})
	return clause.OrderBy{Columns: cols}, nil
}

// Paginate counts the rows matched by q, then loads one page of them into
// dest using the given ordering. The optional selects are applied to the page
// query only, so projections never interfere with the count.
func Paginate(q *gorm.DB, req PageRequest, order clause.OrderBy, dest interface{}, selects ...string) (Pagination, error) {
	req = req.Normalize()

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Pagination{}, fmt.Errorf("orm: count: %w", err)
	}

	page := q.Session(&gorm.Session{})
	if len(selects) > 0 {
		page = page.Select(strings.Join(selects, ", "))
	}
	err := page.
		Clauses(order).
		Limit(req.Size).
		Offset(req.Offset()).
		Find(dest).Error
	if err != nil {
		return Pagination{}, fmt.Errorf("orm: page: %w", err)
	}

	return NewPagination(req, total), nil
}
