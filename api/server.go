/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Structured request logging (httplog, ECS schema)
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. Metrics:    Prometheus request count and latency
  5. CORS:       Cross-origin requests for a frontend

ROUTE GROUPS:
  /api/days/*           Day records
  /api/months/*         Month views
  /api/leave/*          Leave balance and statement
  /api/settings/*       Leave policy
  /api/clients/*        Clients
  /api/projects/*       Projects
  /api/invoices/*       Invoice lifecycle
  /api/tax/*            Regimes, computation, projection
  /api/tax-payments/*   Tax payments
  /api/admin/*          Manual sweeps
  /healthz              Liveness + storage ping
  /metrics              Prometheus scrape endpoint

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/render"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string

	// Health is called by /healthz; nil means always healthy.
	Health func(ctx context.Context) error
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:8080"}
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))
	r.Use(middleware.Recoverer)
	r.Use(h.Metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if opts.Health != nil {
			if err := opts.Health(r.Context()); err != nil {
				writeError(w, r, http.StatusServiceUnavailable, "Unhealthy", err)
				return
			}
		}
		render.JSON(w, r, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", h.Metrics.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/days", func(r chi.Router) {
			r.Get("/", h.ListDays)
			r.Put("/{date}", h.SaveDay)
			r.Delete("/{date}", h.DeleteDay)
		})

		r.Get("/months/{month}", h.GetMonth)
		r.Get("/holidays", h.ListHolidays)

		r.Route("/leave", func(r chi.Router) {
			r.Get("/balance", h.GetLeaveBalance)
			r.Get("/statement", h.GetLeaveStatement)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/leave-policy", h.GetLeavePolicy)
			r.Put("/leave-policy", h.PutLeavePolicy)
		})

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", h.ListClients)
			r.Post("/", h.CreateClient)
			r.Get("/{id}", h.GetClient)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.ListProjects)
			r.Post("/", h.CreateProject)
			r.Get("/{id}", h.GetProject)
			r.Patch("/{id}", h.UpdateProject)
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", h.ListInvoices)
			r.Post("/", h.DraftInvoice)
			r.Get("/{id}", h.GetInvoice)
			r.Post("/{id}/send", h.SendInvoice)
			r.Post("/{id}/pay", h.PayInvoice)
			r.Post("/{id}/cancel", h.CancelInvoice)
		})

		r.Route("/tax", func(r chi.Router) {
			r.Get("/regimes", h.ListTaxRegimes)
			r.Post("/compute", h.ComputeTax)
			r.Get("/projection", h.GetTaxProjection)
		})

		r.Route("/tax-payments", func(r chi.Router) {
			r.Get("/", h.ListTaxPayments)
			r.Post("/", h.RecordTaxPayment)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/sweep-overdue", h.SweepOverdue)
		})
	})

	return r
}
