package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/samirrijal/mygeo/internal/adapters/valkey"
	"github.com/samirrijal/mygeo/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Map     *usecases.MapService
	Tracker *usecases.LocationTracker
	Points  *usecases.PointService
	NATS    *nats.Conn
	Cache   *valkey.Cache
	// LimiterStorage backs the rate limiter; nil keeps counters in memory.
	LimiterStorage fiber.Storage
	RateLimit      int
}
