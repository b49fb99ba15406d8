package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/andreyxaxa/Photo-QC/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

func buildRequestMessage(ctx *fiber.Ctx, took time.Duration) string {
	var result strings.Builder

	result.WriteString(ctx.IP())
	result.WriteString(" - ")
	result.WriteString(ctx.Method())
	result.WriteString(" ")
	result.WriteString(ctx.OriginalURL())
	result.WriteString(" - ")
	result.WriteString(strconv.Itoa(ctx.Response().StatusCode()))
	result.WriteString(" ")
	result.WriteString(strconv.Itoa(len(ctx.Response().Body())))
	result.WriteString(" - ")
	result.WriteString(took.String())

	return result.String()
}

func Logger(l logger.Interface) func(c *fiber.Ctx) error {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		l.Info(buildRequestMessage(ctx, time.Since(start)))

		return err
	}
}
