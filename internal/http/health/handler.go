// Package health serves the liveness probe at "/health".
package health

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	applog "github.com/janisto/devsecops-api/internal/platform/logging"
)

// StatusOK is the only status the endpoint reports: a response at all means the process is serving.
const StatusOK = "ok"

// Response is the payload for the health endpoint.
type Response struct {
	Status string `json:"status" doc:"Service status" example:"ok" enum:"ok"`
}

// Output is the response wrapper for GET /health.
type Output struct {
	Body Response
}

// Register wires the health route into the provided API router.
func Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"health"},
	}, handler)
}

func handler(ctx context.Context, _ *struct{}) (*Output, error) {
	applog.LoggerFromContext(ctx).Debug("health check")
	return &Output{Body: Response{Status: StatusOK}}, nil
}
