package graphql

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"
	gql "github.com/graphql-go/graphql"

	"birthdays/internal/middleware"
)

type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler serves POST /graphql. Owner fields resolve for the signed-in
// owner; submitBirthday is open to anonymous callers.
type Handler struct {
	schema gql.Schema
}

// NewHandler creates a new GraphQL handler for schema.
func NewHandler(schema gql.Schema) *Handler {
	return &Handler{schema: schema}
}

// Serve executes one GraphQL request.
func (h *Handler) Serve(c fiber.Ctx) error {
	var req request
	if err := json.Unmarshal(c.Body(), &req); err != nil || req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": []fiber.Map{{"message": "request body must be a JSON object with a query"}},
		})
	}

	ctx := WithClientIP(c.Context(), c.IP())
	if user := middleware.CurrentUser(c); user != nil {
		ctx = WithOwner(ctx, user.ID)
	}

	result := gql.Do(gql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
	return c.JSON(result)
}
