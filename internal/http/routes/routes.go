// Package routes registers every public operation on a Huma API.
package routes

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/devsecops-api/internal/http/health"
	"github.com/janisto/devsecops-api/internal/http/root"
)

// Register wires all HTTP routes into the provided API router.
func Register(api huma.API) {
	root.Register(api)
	health.Register(api)
}
