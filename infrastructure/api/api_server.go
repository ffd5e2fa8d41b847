package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/helixml/salary"
	apimiddleware "github.com/helixml/salary/infrastructure/api/middleware"
	v1 "github.com/helixml/salary/infrastructure/api/v1"
	mcpinternal "github.com/helixml/salary/internal/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DocsPath is where Swagger UI is mounted.
const DocsPath = "/docs"

// APIServer provides an HTTP API backed by a salary Client.
type APIServer struct {
	client       *salary.Client
	apiKeys      []string
	version      string
	server       *Server
	router       chi.Router
	routerCalled bool
	logger       *slog.Logger
}

// NewAPIServer creates a new APIServer wired to the given salary Client.
// apiKeys write-protect /train: POST requires a valid X-API-KEY while
// GET /train/runs stays open. Lookup, prediction, MCP and docs are open.
func NewAPIServer(client *salary.Client, apiKeys []string, version string) *APIServer {
	return &APIServer{
		client:  client,
		apiKeys: apiKeys,
		version: version,
		logger:  client.Logger(),
	}
}

// Router returns the chi router for customization before starting.
// Call this first, add custom middleware with router.Use(), then call MountRoutes().
// If not called, ListenAndServe creates a default router with all standard routes.
func (a *APIServer) Router() chi.Router {
	if a.router != nil {
		return a.router
	}

	a.router = chi.NewRouter()
	a.routerCalled = true
	return a.router
}

// MountRoutes wires up all API routes on the router.
func (a *APIServer) MountRoutes() {
	if a.router == nil {
		a.Router()
	}
	a.mountRoutes(a.router)
}

func (a *APIServer) mountRoutes(router chi.Router) {
	c := a.client
	auth := apimiddleware.NewAuthConfigWithKeys(a.apiKeys)

	router.NotFound(apimiddleware.NotFound)
	router.MethodNotAllowed(apimiddleware.MethodNotAllowed)

	router.Get("/", v1.Info(a.version))
	router.Get("/health", v1.Health(c))
	router.Get("/healthz", v1.Health(c))

	router.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(60 * time.Second))
		r.Mount("/predict/salary", v1.NewPredictRouter(c).Routes())
		r.Mount("/model", v1.NewModelRouter(c).Routes())
	})

	// Training holds the request for the whole fit, so no timeout here.
	router.Group(func(r chi.Router) {
		r.Use(apimiddleware.WriteProtect(auth))
		r.Mount("/train", v1.NewTrainRouter(c).Routes())
	})

	router.Mount(DocsPath, a.DocsRouter(DocsPath+"/openapi.json").Routes())

	// MCP streams and keeps session state in headers, which chi's Timeout
	// middleware breaks.
	mcpSrv := mcpinternal.NewServer(c.Lookup, c.Estimator, a.version, a.logger)
	router.Mount("/mcp", server.NewStreamableHTTPServer(mcpSrv.MCPServer()))
}

// DocsRouter returns a router for Swagger UI and OpenAPI spec.
func (a *APIServer) DocsRouter(specURL string) *DocsRouter {
	return NewDocsRouter(specURL)
}

// ListenAndServe starts the HTTP server on the given address.
func (a *APIServer) ListenAndServe(addr string) error {
	server := NewServer(addr, a.logger)
	a.server = &server

	if a.routerCalled && a.router != nil {
		server.Router().Mount("/", a.router)
	} else {
		a.mountRoutes(server.Router())
	}

	return server.Start()
}

// Shutdown gracefully shuts down the server.
func (a *APIServer) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

// Handler returns the fully wired router, including the standard
// middleware stack, for use with custom servers and tests.
func (a *APIServer) Handler() http.Handler {
	if a.router == nil {
		s := NewServer("", a.logger)
		a.router = s.Router()
		a.mountRoutes(a.router)
	}
	return a.router
}
