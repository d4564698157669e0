package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// cacheRules is matched in order against the request path; exact entries
// end without a trailing '*'.
var cacheRules = []struct {
	path  string
	value string
}{
	{"/v1/health", "public, max-age=10"},
	{"/v1/ready", "public, max-age=10"},
	{"/metrics", "no-cache"},
	// Anything derived from the live position or the open prompt.
	{"/v1/map", "no-store"},
	{"/v1/location", "no-store"},
	{"/v1/draft", "no-store"},
	// Append-only list: revalidate with ETag.
	{"/v1/points*", "private, no-cache"},
	{"/docs*", "public, max-age=3600"},
}

func cacheControlFor(path string) string {
	for _, r := range cacheRules {
		if prefix, ok := strings.CutSuffix(r.path, "*"); ok {
			if strings.HasPrefix(path, prefix) {
				return r.value
			}
		} else if path == r.path {
			return r.value
		}
	}
	return ""
}

// CachingMiddleware sets Cache-Control on GET responses that don't set one.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet || c.GetRespHeader(fiber.HeaderCacheControl) != "" {
			return err
		}
		if v := cacheControlFor(c.Path()); v != "" {
			c.Set(fiber.HeaderCacheControl, v)
		}
		return err
	}
}
