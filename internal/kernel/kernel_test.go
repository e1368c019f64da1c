package kernel_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/shashiranjanraj/catalogapi/database/migrations"
	"github.com/shashiranjanraj/catalogapi/internal/kernel"
	"github.com/shashiranjanraj/catalogapi/pkg/auth"
	"github.com/shashiranjanraj/catalogapi/pkg/cache"
	"github.com/shashiranjanraj/catalogapi/pkg/database"
	"github.com/shashiranjanraj/catalogapi/pkg/migration"
	"github.com/shashiranjanraj/catalogapi/pkg/rbac"
)

type envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

type api struct {
	t       *testing.T
	handler http.Handler
	admin   string
	user    string
}

func newAPI(t *testing.T) *api {
	t.Helper()

	db, err := database.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, migration.New(db, nil).Run())

	tokens := auth.NewIssuer("kernel-test", time.Hour)
	k, err := kernel.New(db, cache.NewMemory(), tokens, kernel.Options{APIPrefix: "/api/v1", CacheTTL: time.Minute})
	require.NoError(t, err)

	admin, _, err := tokens.Issue("root", []string{rbac.RoleAdmin, rbac.RoleUser})
	require.NoError(t, err)
	user, _, err := tokens.Issue("shopper", []string{rbac.RoleUser})
	require.NoError(t, err)

	return &api{t: t, handler: k.Handler(), admin: admin, user: user}
}

// do sends a request and decodes the envelope. body may be nil, a string
// or any JSON-encodable value.
func (a *api) do(method, path, token string, body interface{}) (int, envelope) {
	a.t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(a.t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func (a *api) create(path string, body interface{}) uint {
	a.t.Helper()
	code, env := a.do(http.MethodPost, path, a.admin, body)
	require.Equal(a.t, http.StatusCreated, code, env.Message)

	var out struct {
		ID uint `json:"id"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &out))
	return out.ID
}

func TestRegisterLoginAndUseToken(t *testing.T) {
	a := newAPI(t)
	creds := map[string]string{"username": "alice", "password": "secret1"}

	code, env := a.do(http.MethodPost, "/api/v1/auth/register", "", creds)
	require.Equal(t, http.StatusCreated, code)
	assert.JSONEq(t, `{"id":1,"username":"alice","roles":["ROLE_USER"]}`, string(env.Data))

	code, _ = a.do(http.MethodPost, "/api/v1/auth/register", "", creds)
	assert.Equal(t, http.StatusConflict, code)

	code, env = a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "alice", "password": "nope00"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid username or password", env.Message)

	code, env = a.do(http.MethodPost, "/api/v1/auth/login", "", creds)
	require.Equal(t, http.StatusOK, code)
	var tok struct {
		Token     string `json:"token"`
		TokenType string `json:"tokenType"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tok))
	assert.Equal(t, "Bearer", tok.TokenType)

	code, _ = a.do(http.MethodGet, "/api/v1/categories", tok.Token, nil)
	assert.Equal(t, http.StatusOK, code)

	// A plain user may read but not write the catalog.
	code, _ = a.do(http.MethodPost, "/api/v1/categories", tok.Token, map[string]string{"name": "Toys"})
	assert.Equal(t, http.StatusForbidden, code)
}

func TestAuthenticationRequired(t *testing.T) {
	a := newAPI(t)

	for _, path := range []string{"/api/v1/categories", "/api/v1/products", "/api/v1/orders/1"} {
		code, env := a.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, code, path)
		assert.Equal(t, "Missing bearer token", env.Message)
	}

	code, env := a.do(http.MethodGet, "/api/v1/categories", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid or expired token", env.Message)
}

func TestCategoryEndpoints(t *testing.T) {
	a := newAPI(t)

	code, env := a.do(http.MethodPost, "/api/v1/categories", a.admin, map[string]string{"name": " "})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Errors, "name")

	code, _ = a.do(http.MethodPost, "/api/v1/categories", a.admin, `{"name":`)
	assert.Equal(t, http.StatusBadRequest, code)

	id := a.create("/api/v1/categories", map[string]string{"name": "Books", "description": "Printed"})

	code, env = a.do(http.MethodGet, fmt.Sprintf("/api/v1/categories/%d", id), a.user, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, fmt.Sprintf(`{"id":%d,"name":"Books","description":"Printed"}`, id), string(env.Data))

	code, env = a.do(http.MethodGet, "/api/v1/categories/999", a.user, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Category not found with id: 999", env.Message)

	code, _ = a.do(http.MethodGet, "/api/v1/categories/abc", a.user, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = a.do(http.MethodGet, "/api/v1/categories/0", a.user, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = a.do(http.MethodPut, fmt.Sprintf("/api/v1/categories/%d", id), a.admin, map[string]string{"name": "E-Books"})
	assert.Equal(t, http.StatusOK, code)

	a.create("/api/v1/products", map[string]interface{}{"name": "Novel", "price": 15, "stock": 3, "categoryId": id})
	code, _ = a.do(http.MethodDelete, fmt.Sprintf("/api/v1/categories/%d", id), a.admin, nil)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = a.do(http.MethodDelete, fmt.Sprintf("/api/v1/categories/%d", id), a.user, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestProductEndpoints(t *testing.T) {
	a := newAPI(t)
	electronics := a.create("/api/v1/categories", map[string]string{"name": "Electronics"})
	clothing := a.create("/api/v1/categories", map[string]string{"name": "Clothing"})

	code, env := a.do(http.MethodPost, "/api/v1/products", a.admin,
		map[string]interface{}{"name": "Phone", "price": -1, "stock": 1, "categoryId": electronics})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Errors, "price")

	code, env = a.do(http.MethodPost, "/api/v1/products", a.admin,
		map[string]interface{}{"name": "Ghost", "categoryId": electronics})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Errors, "price")
	assert.Contains(t, env.Errors, "stock")

	code, _ = a.do(http.MethodPost, "/api/v1/products", a.admin,
		map[string]interface{}{"name": "Phone", "price": 1, "stock": 1, "categoryId": 42})
	assert.Equal(t, http.StatusNotFound, code)

	phone := a.create("/api/v1/products", map[string]interface{}{"name": "Phone", "price": 499.99, "stock": 5, "categoryId": electronics})
	a.create("/api/v1/products", map[string]interface{}{"name": "Phone Case", "price": 9.5, "stock": 50, "categoryId": clothing})
	a.create("/api/v1/products", map[string]interface{}{"name": "Laptop", "price": 1000, "stock": 2, "categoryId": electronics})

	code, env = a.do(http.MethodGet, fmt.Sprintf("/api/v1/products/%d", phone), a.user, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, fmt.Sprintf(
		`{"id":%d,"name":"Phone","description":"","price":499.99,"stock":5,"categoryId":%d}`, phone, electronics,
	), string(env.Data))

	code, env = a.do(http.MethodGet, "/api/v1/products?page=0&size=2&sort=price,desc", a.user, nil)
	require.Equal(t, http.StatusOK, code)
	var page struct {
		Items []struct {
			Name         string `json:"name"`
			CategoryName string `json:"categoryName"`
		} `json:"items"`
		Pagination struct {
			Total    int `json:"total"`
			PerPage  int `json:"perPage"`
			LastPage int `json:"lastPage"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Laptop", page.Items[0].Name)
	assert.Equal(t, "Phone", page.Items[1].Name)
	assert.Equal(t, 3, page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.PerPage)
	assert.Equal(t, 1, page.Pagination.LastPage)

	code, _ = a.do(http.MethodGet, "/api/v1/products?size=abc", a.user, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = a.do(http.MethodGet, "/api/v1/products?sort=secret", a.user, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = a.do(http.MethodGet, "/api/v1/products/search?name=PHONE&category=cloth", a.user, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Phone Case", page.Items[0].Name)
	assert.Equal(t, "Clothing", page.Items[0].CategoryName)

	code, _ = a.do(http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", phone), a.admin, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = a.do(http.MethodGet, fmt.Sprintf("/api/v1/products/%d", phone), a.user, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestOrderEndpoints(t *testing.T) {
	a := newAPI(t)
	books := a.create("/api/v1/categories", map[string]string{"name": "Books"})
	novel := a.create("/api/v1/products", map[string]interface{}{"name": "Novel", "price": 15, "stock": 3, "categoryId": books})

	order := func(qty int) map[string]interface{} {
		return map[string]interface{}{
			"orderDate":  "2025-01-24T10:00:00",
			"orderItems": []map[string]interface{}{{"productId": novel, "quantity": qty}},
		}
	}

	code, env := a.do(http.MethodPost, "/api/v1/orders", a.user, order(4))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, fmt.Sprintf("Insufficient stock for product ID: %d", novel), env.Message)

	code, env = a.do(http.MethodPost, "/api/v1/orders", a.user, order(2))
	require.Equal(t, http.StatusCreated, code, env.Message)
	var created struct {
		ID         uint   `json:"id"`
		OrderDate  string `json:"orderDate"`
		OrderItems []struct {
			Quantity int `json:"quantity"`
			Product  struct {
				Stock int `json:"stock"`
			} `json:"product"`
		} `json:"orderItems"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "2025-01-24T10:00:00Z", created.OrderDate)
	require.Len(t, created.OrderItems, 1)
	assert.Equal(t, 1, created.OrderItems[0].Product.Stock)

	path := fmt.Sprintf("/api/v1/orders/%d", created.ID)
	code, _ = a.do(http.MethodGet, path, a.user, nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = a.do(http.MethodPut, path, a.user, map[string]string{"orderDate": "2025-02-01T09:30:00Z"})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"orderDate":"2025-02-01T09:30:00Z"`)

	code, env = a.do(http.MethodDelete, path, a.user, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Order deleted successfully", env.Message)

	code, _ = a.do(http.MethodGet, path, a.user, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestGraphQL(t *testing.T) {
	a := newAPI(t)
	books := a.create("/api/v1/categories", map[string]string{"name": "Books"})
	a.create("/api/v1/products", map[string]interface{}{"name": "Novel", "price": 15.5, "stock": 3, "categoryId": books})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/graphql", bytes.NewBufferString(
		`{"query":"{ categories { name } products(name: \"nov\") { items { name price categoryName } pagination { total } } }"}`,
	))
	req.Header.Set("Authorization", "Bearer "+a.user)
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{
		"categories":[{"name":"Books"}],
		"products":{"items":[{"name":"Novel","price":15.5,"categoryName":"Books"}],"pagination":{"total":1}}
	}}`, rec.Body.String())
}

func TestOperationalEndpoints(t *testing.T) {
	a := newAPI(t)

	code, env := a.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "catalog_http_requests_total")

	code, _ = a.do(http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
