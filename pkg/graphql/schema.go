// Package graphql serves a graphql-go schema over HTTP.
package graphql

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/catalogapi/pkg/bind"
	"github.com/shashiranjanraj/catalogapi/pkg/logger"
	"github.com/shashiranjanraj/catalogapi/pkg/response"
)

// NewSchema creates a query-only schema from the provided root object.
func NewSchema(query *graphql.Object) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query: query,
	})
}

// Request is the standard GraphQL-over-HTTP request body.
type Request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// Execute runs one request against schema. Resolvers receive ctx.
func Execute(ctx context.Context, schema graphql.Schema, req Request) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
}

// Handler executes POSTed queries. The result is written as-is, following
// the GraphQL convention of {"data","errors"} with status 200.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := bind.JSON(r, &req); err != nil {
			response.FromError(w, r, err)
			return
		}
		if req.Query == "" {
			response.ValidationError(w, map[string]string{"query": "The query field is required."})
			return
		}

		res := Execute(r.Context(), schema, req)
		if res.HasErrors() {
			logger.WithCtx(r.Context()).Debug("graphql errors", "errors", res.Errors)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(res) //nolint:errcheck
	}
}
