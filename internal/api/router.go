package api

import (
	"net/http"
	"time"

	"wallbreaker/internal/game"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// EngineInterface defines the engine methods used by the API.
// This interface enables mocking for tests without spinning up the tick loop.
// Keep this minimal - only include methods the API layer actually calls.
type EngineInterface interface {
	// GetSnapshot returns the latest lock-free immutable snapshot (nil before the first tick)
	GetSnapshot() *game.GameSnapshot
	// SetInput latches an input sample for the next tick
	SetInput(in game.InputState)
	// SetAim points the player's aim at a world position
	SetAim(target game.Vec)
	// QueueNet queues a decoded network message; false when the queue is full
	QueueNet(msg game.NetMessage) bool
	// Restart revives the player at the spawn point
	Restart()
	// Stats returns engine counters
	Stats() game.EngineStats
}

// RouterConfig contains all dependencies needed to construct the HTTP router.
// This struct is designed for dependency injection and testability.
//
// Example usage in tests:
//
//	cfg := api.RouterConfig{
//	    Engine: mockEngine,
//	    RateLimitConfig: &api.RateLimitConfig{
//	        RequestsPerSecond: 1000, // High limit for tests
//	        Burst:             1000,
//	    },
//	}
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Engine is the game engine (required)
	Engine EngineInterface

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, a new one will be created using RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is optional configuration for the rate limiter.
	// Only used if RateLimiter is nil. If both are nil, uses DefaultRateLimitConfig.
	RateLimitConfig *RateLimitConfig

	// ControlLimiter budgets the POST control routes. If nil, one is sized
	// from the engine's tick rate with ControlRateLimitConfig.
	ControlLimiter *IPRateLimiter

	// CORSOrigins is an optional list of allowed CORS origins.
	// If nil, local development origins are allowed.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware (useful for benchmarks).
	DisableLogging bool
}

// routerHandlers holds the handler functions for the router.
type routerHandlers struct {
	engine EngineInterface
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// NewRouter starts no network listeners and no workers beyond the rate
// limiters' cleanup loops, so it is safe to use with httptest.NewServer.
// CORS runs on the root mux so preflights reach it for every route; the
// limiters run per route group.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware - Order matters!
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(requestMetrics)

	readLimiter := cfg.RateLimiter
	if readLimiter == nil {
		readCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			readCfg = *cfg.RateLimitConfig
		}
		readLimiter = NewIPRateLimiter(readCfg)
	}
	controlLimiter := cfg.ControlLimiter
	if controlLimiter == nil {
		controlLimiter = NewIPRateLimiter(ControlRateLimitConfig(cfg.Engine.Stats().TickRate))
	}

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	h := &routerHandlers{engine: cfg.Engine}

	r.Route("/api", func(r chi.Router) {
		// Read side
		r.Group(func(r chi.Router) {
			r.Use(readLimiter.Middleware)
			r.Get("/state", h.handleGetState)
			r.Get("/stats", h.handleGetStats)
			r.With(middleware.Timeout(2*time.Second)).Get("/frame.png", h.handleGetFrame)
		})

		// Control, budgeted per tick
		r.Group(func(r chi.Router) {
			r.Use(controlLimiter.Middleware)
			r.Post("/input", h.handleInput)
			r.Post("/aim", h.handleAim)
			r.Post("/restart", h.handleRestart)
			r.Post("/net", h.handleNet)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
