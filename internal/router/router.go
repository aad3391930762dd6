package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/authflow/session-gateway/api/handler"
)

type Handlers struct {
	Session *apiHandler.SessionHandler
	Proxy   *apiHandler.ProxyHandler
	Health  *apiHandler.HealthHandler
}

type Middleware = func(fasthttp.RequestHandler) fasthttp.RequestHandler

// New wires the route table. Every path that is not the health surface, the
// auth entry point or the internal lifecycle API goes through the session
// guard and, when the verdict is Valid, on to the backend.
func New(handlers Handlers, authURL string, sessionGuard Middleware, serviceToken Middleware) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Unauthenticated entry point; must never hit the guard or it would
	// redirect back to itself.
	r.GET("/auth", apiHandler.Redirect(authURL))

	// Lifecycle routes, called by the authentication collaborator only.
	r.POST("/internal/v1/sessions", serviceToken(handlers.Session.Start))
	r.DELETE("/internal/v1/sessions/{id}", serviceToken(handlers.Session.End))
	r.DELETE("/internal/v1/users/{user_id}/sessions", serviceToken(handlers.Session.InvalidateUser))

	// Everything else is a protected backend path.
	r.NotFound = sessionGuard(handlers.Proxy.Forward)

	return r
}
