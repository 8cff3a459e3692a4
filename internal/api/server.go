// Package api exposes the pricing engine over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/l1-pricing/internal/catalog"
	"github.com/sells-group/l1-pricing/internal/config"
	"github.com/sells-group/l1-pricing/internal/dataset"
	"github.com/sells-group/l1-pricing/internal/model"
)

// Predictor prices one product query. *pricing.Engine satisfies it.
type Predictor interface {
	Run(ctx context.Context, q model.ProductQuery) (*model.PricingResult, error)
}

// Server holds the handler dependencies.
type Server struct {
	engine  Predictor
	data    dataset.Source
	cfg     *config.Config
	version string
	now     func() time.Time
}

// NewServer returns a Server pricing with engine against data.
func NewServer(engine Predictor, data dataset.Source, cfg *config.Config, version string) *Server {
	return &Server{
		engine:  engine,
		data:    data,
		cfg:     cfg,
		version: version,
		now:     time.Now,
	}
}

// Handler builds the router with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		MaxAge:         300,
	}))
	r.Use(rateLimit(s.cfg.Server.RateLimitRPS, s.cfg.Server.RateLimitBurst))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Post("/pricing/suggest", s.handlePredict)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/predict", s.handlePredict)
		r.Get("/status", s.handleStatus)
		r.Get("/catalog", s.handleCatalog)
	})
	return r
}

type predictRequest struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "l1-pricing",
		"version": s.version,
		"endpoints": []string{
			"GET /health",
			"POST /api/v1/predict",
			"GET /api/v1/status",
			"GET /api/v1/catalog",
		},
	})
}

type healthResponse struct {
	Status    string          `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
	Datasets  map[string]bool `json:"datasets"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	rep := dataset.Check(r.Context(), s.data)
	status := "healthy"
	if !rep.Healthy() {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    status,
		Timestamp: s.now().UTC(),
		Datasets: map[string]bool{
			dataset.Financial: rep.Financial.Available,
			dataset.Basic:     rep.Basic.Available,
		},
	})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{
			Error:      "invalid_request",
			Message:    "request body must be JSON with product and quantity",
			Suggestion: `send {"product": "...", "quantity": 1}`,
			Timestamp:  s.now().UTC(),
		})
		return
	}

	q := model.ProductQuery{Product: strings.TrimSpace(req.Product), Quantity: req.Quantity}
	res, err := s.engine.Run(r.Context(), q)
	if err != nil {
		writeEngineError(w, err, q.Product, s.now().UTC())
		return
	}
	if res.Empty {
		writeError(w, http.StatusNotFound, errorResponse{
			Error:      "not_found",
			Message:    "no searchable product terms in query",
			Product:    q.Product,
			Suggestion: suggestions[kindEmpty],
			Timestamp:  s.now().UTC(),
		})
		return
	}

	zap.L().Info("api: predicted",
		zap.String("run_id", res.RunID),
		zap.String("product", res.Product),
		zap.Float64("low", res.LowPrice),
		zap.Float64("high", res.HighPrice),
	)
	writeJSON(w, http.StatusOK, res)
}

type statusResponse struct {
	Version   string               `json:"version"`
	Timestamp time.Time            `json:"timestamp"`
	Driver    string               `json:"driver"`
	Datasets  dataset.Report       `json:"datasets"`
	Pricing   config.PricingConfig `json:"pricing"`
	Server    config.ServerConfig  `json:"server"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Version:   s.version,
		Timestamp: s.now().UTC(),
		Driver:    s.cfg.Dataset.Driver,
		Datasets:  dataset.Check(r.Context(), s.data),
		Pricing:   s.cfg.Pricing,
		Server:    s.cfg.Server,
	})
}

type catalogResponse struct {
	Count    int      `json:"count"`
	Products []string `json:"products"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	bids, err := s.data.Bids(r.Context())
	if err != nil {
		zap.L().Warn("api: catalog unavailable", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, errorResponse{
			Error:      "service_unavailable",
			Message:    "historical dataset unavailable",
			Suggestion: suggestions[kindUnavailable],
			Timestamp:  s.now().UTC(),
		})
		return
	}
	products := catalog.Build(bids)
	writeJSON(w, http.StatusOK, catalogResponse{Count: len(products), Products: products})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: encode response", zap.Error(err))
	}
}
