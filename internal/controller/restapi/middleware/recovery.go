package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/andreyxaxa/Photo-QC/pkg/logger"
	"github.com/gofiber/fiber/v2"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
)

func logPanic(l logger.Interface) func(c *fiber.Ctx, err interface{}) {
	return func(ctx *fiber.Ctx, err interface{}) {
		l.Error(fmt.Errorf("panic: %v", err), "restapi - middleware - %s %s\n%s",
			ctx.Method(), ctx.OriginalURL(), debug.Stack())
	}
}

func Recovery(l logger.Interface) func(c *fiber.Ctx) error {
	return fiberRecover.New(fiberRecover.Config{
		EnableStackTrace:  true,
		StackTraceHandler: logPanic(l),
	})
}
