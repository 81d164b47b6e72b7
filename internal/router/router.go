package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/boxtick/backend/api/handler"
)

type Handlers struct {
	Auth   *apiHandler.AuthHandler
	Client *apiHandler.ClientHandler
	Health *apiHandler.HealthHandler
}

// New wires the route table. Every /api route sits behind the
// signed-request gate; health stays open for probes.
func New(handlers Handlers, signedRequest func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// The signing scheme covers GET and POST only, so session teardown
	// is a POST to its own path rather than a DELETE.
	r.POST("/api/v1/auth/session", signedRequest(handlers.Auth.Login))
	r.POST("/api/v1/auth/session/destroy", signedRequest(handlers.Auth.Logout))
	r.GET("/api/v1/auth/session", signedRequest(handlers.Auth.Validate))

	r.GET("/api/v1/clients/status", signedRequest(handlers.Client.Status))

	return r
}
