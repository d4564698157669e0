package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Version is stamped at build time with -ldflags "-X ...http.Version=...".
var Version = "dev"

// HealthHandler reports liveness and uptime.
func HealthHandler() fiber.Handler {
	startedAt := time.Now()

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"uptime":  time.Since(startedAt).Round(time.Second).String(),
			"version": Version,
		})
	}
}

// probe is one readiness dependency. A nil check means "not configured".
type probe struct {
	name  string
	check func(ctx context.Context) error
}

func readinessProbes(deps *Dependencies) []probe {
	probes := []probe{{name: "nats"}, {name: "cache"}}
	if deps.NATS != nil {
		probes[0].check = func(context.Context) error {
			if !deps.NATS.IsConnected() {
				return errors.New("disconnected")
			}
			return nil
		}
	}
	if deps.Cache != nil {
		probes[1].check = deps.Cache.Ping
	}
	return probes
}

// ReadyHandler runs the readiness probes. The tracker status is reported but
// never fails readiness.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	probes := readinessProbes(deps)

	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		checks := make(map[string]string, len(probes)+1)
		ready := true
		for _, p := range probes {
			switch {
			case p.check == nil:
				checks[p.name] = "not configured"
			case p.check(ctx) != nil:
				checks[p.name] = "error"
				ready = false
			default:
				checks[p.name] = "ok"
			}
		}
		if deps.Tracker != nil {
			checks["tracker"] = string(deps.Tracker.State().Status)
		}

		if !ready {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "not ready", "checks": checks})
		}
		return c.JSON(fiber.Map{"status": "ready", "checks": checks})
	}
}
