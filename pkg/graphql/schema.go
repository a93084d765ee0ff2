// Package graphql wraps graphql-go with a small builder and an HTTP
// handler. The catalog read API is exposed through it.
package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/fashionhub/storefront/pkg/logger"

	"github.com/graphql-go/graphql"
)

// Field is a query field definition.
type Field struct {
	Type    graphql.Output
	Args    graphql.FieldConfigArgument
	Resolve graphql.FieldResolveFn
}

// Builder accumulates query fields into a schema.
type Builder struct {
	fields graphql.Fields
}

// NewBuilder creates an empty schema builder.
func NewBuilder() *Builder {
	return &Builder{fields: graphql.Fields{}}
}

// Query adds a root query field.
func (b *Builder) Query(name string, f Field) *Builder {
	b.fields[name] = &graphql.Field{
		Type:    f.Type,
		Args:    f.Args,
		Resolve: f.Resolve,
	}
	return b
}

// Build compiles the schema.
func (b *Builder) Build() (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Query",
			Fields: b.fields,
		}),
	})
}

type gqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler returns an HTTP handler executing queries against the schema.
// It accepts POST bodies with {query, operationName, variables}.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"errors": []map[string]string{{"message": "invalid request body"}},
			})
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			OperationName:  req.OperationName,
			VariableValues: req.Variables,
			Context:        r.Context(),
		})
		if len(result.Errors) > 0 {
			logger.Debug("graphql: query returned errors", "errors", result.Errors)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}
