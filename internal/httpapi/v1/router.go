package v1

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tinoosan/cuaderno/internal/ledger"
)

// Server wires handlers and middleware using Chi.
type Server struct {
	Deps
	log *slog.Logger
	rt  *chi.Mux

	idemMu sync.Mutex
	idem   map[string]storedResponse
}

// New constructs the HTTP server with routes and middleware.
// The logger is used by request logging and panic recovery.
func New(deps Deps, logger *slog.Logger) *Server {
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Currency == "" {
		deps.Currency = ledger.DefaultCurrency
	}
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(metricsMiddleware)
	if auth := authJWT(deps.JWTSecret, deps.JWTIssuer); auth != nil {
		r.Use(auth)
	}

	s := &Server{
		Deps: deps,
		log:  logger,
		rt:   r,
		idem: make(map[string]storedResponse),
	}
	s.routes()
	return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

// routes declares the public HTTP API endpoints and attaches any per-route middleware.
func (s *Server) routes() {
	// Clientas and their accounts
	s.rt.With(validateJSON[postClientaRequest]()).Post("/v1/clientas", s.postClienta)
	s.rt.Get("/v1/clientas", s.listClientas)
	s.rt.Get("/v1/clientas/{id}", s.getClienta)
	s.rt.Get("/v1/clientas/{id}/cuentas", s.listCuentas)
	s.rt.Post("/v1/clientas/{id}/cuentas", s.openCuenta)
	s.rt.Get("/v1/cuentas/{id}", s.getCuenta)
	s.rt.Post("/v1/cuentas/{id}/reconcile", s.reconcileCuenta)
	// Movements
	s.rt.With(s.idempotent, validateJSON[postMovimientoRequest]()).Post("/v1/cuentas/{id}/movimientos", s.postMovimiento)
	s.rt.Get("/v1/movimientos/{id}", s.getMovimiento)
	s.rt.With(validateJSON[patchMovimientoRequest]()).Patch("/v1/movimientos/{id}", s.patchMovimiento)
	s.rt.Delete("/v1/movimientos/{id}", s.deleteMovimiento)
	// Catalogue
	s.rt.Get("/v1/categorias", s.listCategorias)
	s.rt.With(validateJSON[postCategoriaRequest]()).Post("/v1/categorias", s.postCategoria)
	s.rt.With(validateQuery[optionalRangeQuery]()).Get("/v1/gastos", s.listGastos)
	s.rt.With(validateJSON[postGastoRequest]()).Post("/v1/gastos", s.postGasto)
	// Reports
	s.rt.With(validateJSON[postSemanalRequest]()).Post("/v1/reportes/semanal", s.postSemanal)
	s.rt.With(validateQuery[rangeQuery]()).Get("/v1/reportes/categorias", s.getResumenCategorias)
	s.rt.With(validateQuery[rangeQuery]()).Get("/v1/reportes/balance", s.getBalance)
	s.rt.Get("/v1/reportes", s.listReportes)
	s.rt.Get("/v1/reportes/{id}", s.getReporte)
	s.rt.Get("/v1/reportes/{id}/markdown", s.getReporteMarkdown)
	s.rt.Get("/v1/reportes/{id}/html", s.getReporteHTML)
	// Health and metrics (unversioned)
	s.rt.Get("/healthz", s.healthz)
	s.rt.Get("/readyz", s.readyz)
	s.rt.Handle("/metrics", metricsHandler())
}
