package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const ApiKeyHeaderName = "X-Api-Key"

// ProtectedPrefixes are the operational routes that need the API key.
var ProtectedPrefixes = []string{"/debug/pprof", "/caches"}

// New guards the protected routes with apiKey. An empty key locks them.
func New(apiKey string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		apiKeyNeeded := false
		for _, prefix := range ProtectedPrefixes {
			if strings.HasPrefix(ctx.Path(), prefix) {
				apiKeyNeeded = true
				break
			}
		}

		if apiKeyNeeded && (apiKey == "" || ctx.Get(ApiKeyHeaderName) != apiKey) {
			return ctx.SendStatus(fiber.StatusUnauthorized)
		}

		return ctx.Next()
	}
}
