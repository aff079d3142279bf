package handler

import (
	"encoding/base64"

	"github.com/gofiber/fiber/v2"
)

// 1x1 transparent GIF
var favicon, _ = base64.StdEncoding.DecodeString("R0lGODlhAQABAIAAAAAAAP///ywAAAAAAQABAAACAUwAOw==")

func Favicon(ctx *fiber.Ctx) error {
	ctx.Set(fiber.HeaderContentType, "image/gif")
	ctx.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return ctx.Send(favicon)
}
