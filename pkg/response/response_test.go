package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalogapi/pkg/apperr"
	"github.com/shashiranjanraj/catalogapi/pkg/orm"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestFromErrorClassified(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products/9", nil)

	FromError(rec, req, apperr.NotFound("Product not found with id: %d", 9))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Product not found with id: 9", body["message"])
	assert.NotContains(t, body, "errors")
}

func TestFromErrorValidationCarriesFields(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/products", nil)

	FromError(rec, req, apperr.Validation(map[string]string{"name": "The name field is required."}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, map[string]any{"name": "The name field is required."}, body["errors"])
}

func TestFromErrorHidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)

	FromError(rec, req, errors.New("dial tcp 10.0.0.3:5432: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", decode(t, rec)["message"])
}

func TestPaginated(t *testing.T) {
	rec := httptest.NewRecorder()
	Paginated(rec, []int{1, 2}, orm.Pagination{Total: 7, PerPage: 2, CurrentPage: 0, LastPage: 3})

	data := decode(t, rec)["data"].(map[string]any)
	assert.Len(t, data["items"], 2)
	assert.Equal(t, float64(7), data["pagination"].(map[string]any)["total"])
}
