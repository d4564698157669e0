package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"
	"github.com/samirrijal/mygeo/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// permissionTimeout bounds POST /v1/tracking/start, which waits on the device prompt.
const permissionTimeout = 45 * time.Second

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	rateLimit := deps.RateLimit
	if rateLimit <= 0 {
		rateLimit = 120
	}
	limiterCfg := limiter.Config{
		Max:        rateLimit,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}
	if deps.LimiterStorage != nil {
		limiterCfg.Storage = deps.LimiterStorage
	}
	app.Use(limiter.New(limiterCfg))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout)
	app.Get("/v1/health", HealthHandler())
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")
	v1.Get("/map", timeout.NewWithContext(MapHandler(deps), requestTimeout))
	v1.Post("/map/tap", timeout.NewWithContext(TapHandler(deps), requestTimeout))
	v1.Get("/location", timeout.NewWithContext(LocationHandler(deps), requestTimeout))
	v1.Post("/tracking/start", timeout.NewWithContext(StartTrackingHandler(deps), permissionTimeout))
	v1.Post("/tracking/stop", timeout.NewWithContext(StopTrackingHandler(deps), requestTimeout))

	v1.Get("/points", timeout.NewWithContext(ListPointsHandler(deps), requestTimeout))
	v1.Get("/points/nearby", timeout.NewWithContext(NearbyPointsHandler(deps), requestTimeout))
	v1.Post("/points", timeout.NewWithContext(CreatePointHandler(deps), requestTimeout))

	v1.Get("/draft", timeout.NewWithContext(GetDraftHandler(deps), requestTimeout))
	v1.Put("/draft", timeout.NewWithContext(UpdateDraftHandler(deps), requestTimeout))
	v1.Delete("/draft", timeout.NewWithContext(CancelDraftHandler(deps), requestTimeout))
	v1.Post("/draft/commit", timeout.NewWithContext(CommitDraftHandler(deps), requestTimeout))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps)))
}
