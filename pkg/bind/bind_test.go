package bind

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalogapi/pkg/apperr"
)

type input struct {
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

func TestJSONDecodes(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Phone","stock":5}`))

	var in input
	require.NoError(t, JSON(req, &in))
	assert.Equal(t, input{Name: "Phone", Stock: 5}, in)
}

func TestJSONIgnoresUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"id":7,"name":"Phone","stock":5,"categoryName":"Electronics"}`))

	var in input
	require.NoError(t, JSON(req, &in))
	assert.Equal(t, input{Name: "Phone", Stock: 5}, in)
}

func TestJSONRejectsBadBodies(t *testing.T) {
	for name, body := range map[string]string{
		"empty":     "",
		"malformed": `{"name":`,
		"wrongType": `{"stock":"many"}`,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
			var in input
			err := JSON(req, &in)
			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.Equal(t, http.StatusBadRequest, apperr.Status(err))
		})
	}
}
