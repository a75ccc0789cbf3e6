// Package httpapi exposes the use cases over HTTP.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/spigell/abang/internal/analysis"
	"github.com/spigell/abang/internal/chatbot"
	"github.com/spigell/abang/internal/ingest"
	"github.com/spigell/abang/internal/logger"
	"github.com/spigell/abang/internal/metrics"
	"github.com/spigell/abang/internal/policy"
)

type RiskAnalyzer interface {
	Execute(ctx context.Context, address string) (*analysis.RiskScore, error)
}

type PriceAnalyzer interface {
	Execute(ctx context.Context, q analysis.PriceQuery) (*analysis.PriceScore, error)
}

type CandidateFinder interface {
	Execute(ctx context.Context, cmd policy.Command) (*policy.Result, error)
}

type Ingester interface {
	Execute(ctx context.Context, cmd ingest.Command) (*ingest.Result, error)
}

type PhoneLookup interface {
	Execute(ctx context.Context, userID int64) (string, error)
}

type Chatbot interface {
	Execute(ctx context.Context, req chatbot.Request) (*chatbot.Response, error)
}

// Deps are the handlers' collaborators. A nil Chatbot makes the chatbot
// route answer 503; a nil Metrics disables /metrics.
type Deps struct {
	Risk       RiskAnalyzer
	Price      PriceAnalyzer
	Candidates CandidateFinder
	Ingest     Ingester
	Phone      PhoneLookup
	Chatbot    Chatbot
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
}

type handler struct {
	deps   Deps
	logger *zap.Logger
}

// NewRouter builds the route tree.
func NewRouter(deps Deps) http.Handler {
	h := &handler{deps: deps, logger: logger.Component(deps.Logger, "http")}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(h.requestLogger)
	r.Use(chimw.Recoverer)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
		r.Handle("/metrics", deps.Metrics.Handler())
	}

	r.Get("/healthz", h.health)

	r.Route("/users", func(ur chi.Router) {
		ur.With(authenticated).Get("/phone", h.myPhone)
		ur.Get("/{id}/phone", h.userPhone)
	})

	r.Post("/analysis/risk", h.analyzeRisk)
	r.Post("/analysis/price", h.analyzePrice)
	r.Get("/finder-requests/{id}/candidates", h.candidates)
	r.Post("/house-platforms/zigbang", h.ingestZigbang)
	r.Post("/explanations", h.explain)
	r.Post("/chatbot/recommendations", h.recommendations)

	return r
}
