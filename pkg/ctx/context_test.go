package ctx_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "github.com/shashiranjanraj/catalogapi/pkg/ctx"
	"github.com/shashiranjanraj/catalogapi/pkg/orm"
)

func withParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestParamID(t *testing.T) {
	for raw, want := range map[string]int{
		"7":   http.StatusOK,
		"0":   http.StatusBadRequest,
		"-1":  http.StatusBadRequest,
		"abc": http.StatusBadRequest,
		"":    http.StatusBadRequest,
	} {
		t.Run(raw, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := withParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", raw)

			appctx.Wrap(func(c *appctx.Context) {
				id, ok := c.ParamID("id")
				if ok {
					assert.Equal(t, uint(7), id)
					c.Success(id)
				}
			})(rec, req)

			assert.Equal(t, want, rec.Code)
		})
	}
}

func TestPageRequest(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products?page=2&size=500&sort=price,desc", nil)

	var got orm.PageRequest
	appctx.Wrap(func(c *appctx.Context) {
		var ok bool
		got, ok = c.PageRequest()
		require.True(t, ok)
	})(rec, req)

	assert.Equal(t, orm.PageRequest{Page: 2, Size: orm.MaxPageSize, Sort: "price,desc"}, got)
}

func TestPageRequestRejectsGarbage(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products?size=ten", nil)

	appctx.Wrap(func(c *appctx.Context) {
		_, ok := c.PageRequest()
		assert.False(t, ok)
	})(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBindJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Books"}`))

	appctx.Wrap(func(c *appctx.Context) {
		var in struct {
			Name string `json:"name"`
		}
		require.True(t, c.BindJSON(&in))
		c.Created(in)
	})(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Status int `json:"status"`
		Data   struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusCreated, body.Status)
	assert.Equal(t, "Books", body.Data.Name)
}

func TestBindJSONMalformed(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name"`))

	appctx.Wrap(func(c *appctx.Context) {
		var in map[string]any
		assert.False(t, c.BindJSON(&in))
	})(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
