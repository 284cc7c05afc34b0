package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"goimpute/app"
	"goimpute/internal"
	"goimpute/ports"
)

// App exposes the imputation service over HTTP.
type App struct {
	router  *chi.Mux
	service *app.ImputeService
	runs    ports.RunRepository // optional; nil disables persistence routes
	logger  *internal.Logger
}

// NewApp creates the HTTP application. runs may be nil.
func NewApp(service *app.ImputeService, runs ports.RunRepository, logger *internal.Logger) *App {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	a := &App{
		router:  chi.NewRouter(),
		service: service,
		runs:    runs,
		logger:  logger,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes wires the API surface
func (a *App) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)
	a.router.Post("/v1/impute", a.handleImpute)
	if a.runs != nil {
		a.router.Get("/v1/runs", a.handleListRuns)
		a.router.Get("/v1/runs/{runID}", a.handleGetRun)
	}
}

// Router returns the HTTP handler for serving.
func (a *App) Router() http.Handler {
	return a.router
}

// Start runs the HTTP server on the given port.
func (a *App) Start(port string) error {
	a.logger.Info("HTTP server listening on :%s", port)
	return http.ListenAndServe(":"+port, a.router)
}
