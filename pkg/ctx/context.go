// Package ctx provides a small request context for controller handlers.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a handler
// receives a *Context with helpers for path ids, paging parameters, JSON
// binding and enveloped responses:
//
//	func (pc *ProductController) Show(c *ctx.Context) {
//	    id, ok := c.ParamID("id")
//	    if !ok {
//	        return // 400 already sent
//	    }
//	    p, err := pc.products.GetProductByID(c.Context(), id)
//	    if err != nil {
//	        c.Fail(err)
//	        return
//	    }
//	    c.Success(p)
//	}
//
//	// Register with ctx.Wrap:
//	g.Get("/products/{id}", "products.show", ctx.Wrap(pc.Show))
package ctx

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/catalogapi/pkg/apperr"
	"github.com/shashiranjanraj/catalogapi/pkg/bind"
	"github.com/shashiranjanraj/catalogapi/pkg/orm"
	"github.com/shashiranjanraj/catalogapi/pkg/response"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W http.ResponseWriter
	R *http.Request
}

// pool recycles Context objects to reduce GC pressure.
var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter (e.g. "/orders/{id}" → c.Param("id")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamID parses a positive integer path parameter. On failure it sends a
// 400 and returns false.
func (c *Context) ParamID(key string) (uint, bool) {
	raw := c.Param(key)
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n < 1 {
		c.Fail(apperr.Invalid(key, "The %s must be a positive integer.", key))
		return 0, false
	}
	return uint(n), true
}

// Query returns a query-string value. Returns "" if not present.
func (c *Context) Query(key string) string {
	return strings.TrimSpace(c.R.URL.Query().Get(key))
}

// QueryInt returns an integer query parameter, or def when it is absent.
func (c *Context) QueryInt(key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Invalid(key, "The %s must be an integer.", key)
	}
	return n, nil
}

// PageRequest reads page, size and sort from the query string. On a
// malformed value it sends a 400 and returns false.
func (c *Context) PageRequest() (orm.PageRequest, bool) {
	page, err := c.QueryInt("page", 0)
	if err != nil {
		c.Fail(err)
		return orm.PageRequest{}, false
	}
	size, err := c.QueryInt("size", orm.DefaultPageSize)
	if err != nil {
		c.Fail(err)
		return orm.PageRequest{}, false
	}
	return orm.PageRequest{Page: page, Size: size, Sort: c.Query("sort")}.Normalize(), true
}

// BindJSON decodes the JSON body into dest. On failure it sends a 400 and
// returns false.
//
//	var in dto.CategoryInput
//	if !c.BindJSON(&in) {
//	    return
//	}
func (c *Context) BindJSON(dest any) bool {
	if err := bind.JSON(c.R, dest); err != nil {
		c.Fail(err)
		return false
	}
	return true
}

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// ─── Response helpers ─────────────────────────────────────────────────────────

// Success sends a 200 envelope with data.
func (c *Context) Success(data any) { response.Success(c.W, data) }

// Created sends a 201 envelope with data.
func (c *Context) Created(data any) { response.Created(c.W, data) }

// Message sends a 200 envelope carrying only a message.
func (c *Context) Message(message string) { response.Message(c.W, http.StatusOK, message) }

// Page sends a paged listing.
func (c *Context) Page(items any, p orm.Pagination) { response.Paginated(c.W, items, p) }

// Fail maps err onto a status code and error envelope.
func (c *Context) Fail(err error) { response.FromError(c.W, c.R, err) }
