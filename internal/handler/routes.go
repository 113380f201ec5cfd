package handler

import (
	"net/http"

	"github.com/banddevs/backend/internal/metrics"
	"github.com/banddevs/backend/internal/repository"
	"github.com/banddevs/backend/internal/service"
	"github.com/banddevs/backend/pkg/auth"
)

// RoutesConfig carries the process-lifetime dependencies of the API.
type RoutesConfig struct {
	DB             repository.DB
	ContactService service.ContactService
	Metrics        *metrics.Metrics
	FrontendURL    string
	AdminToken     string
	// RateLimiter guards POST /api/contact when non-nil.
	RateLimiter *RateLimiter
}

// Routes builds the full middleware chain and route table.
func Routes(cfg RoutesConfig) http.Handler {
	h := New(cfg.DB, cfg.FrontendURL)
	contactHandler := NewContactHandler(cfg.ContactService, cfg.Metrics)

	var submit http.Handler = http.HandlerFunc(contactHandler.Submit)
	if cfg.RateLimiter != nil {
		submit = cfg.RateLimiter.Middleware(submit)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("GET /api/ready", h.Ready)
	mux.Handle("POST /api/contact", submit)
	mux.Handle("GET /api/admin/contacts", auth.RequireToken(cfg.AdminToken)(http.HandlerFunc(contactHandler.AdminList)))
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}

	return SecurityHeaders(h.CORS(RequestLogger(cfg.Metrics)(mux)))
}
