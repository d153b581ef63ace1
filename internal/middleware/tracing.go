package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
)

// リクエストごとに span を作る。span 名は "[METHOD] /route/:param"
func Tracing(name string) echo.MiddlewareFunc {
	tracer := otel.Tracer(name)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, span := tracer.Start(c.Request().Context(), fmt.Sprintf("[%s] %s", c.Request().Method, c.Path()))
			defer span.End()

			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
