package graph

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"restaurant-api/internal/logger"
)

// Handler serves POST /graphql.
type Handler struct {
	schema graphql.Schema
	logger *logger.Logger
}

// NewHandler creates a GraphQL handler over the given store.
func NewHandler(store Store, log *logger.Logger) (*Handler, error) {
	schema, err := NewSchema(store)
	if err != nil {
		return nil, err
	}
	return &Handler{schema: schema, logger: log}, nil
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// Query executes one GraphQL request. Errors travel in the response body
// the way GraphQL defines them, not as HTTP statuses.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid JSON format"})
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		Context:        r.Context(),
	})
	if result.HasErrors() {
		h.logger.Debug("graphql_errors", "Query returned errors", logger.GenerateRequestID(), map[string]any{
			"errors": len(result.Errors),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
