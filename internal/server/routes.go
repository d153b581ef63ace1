package server

import (
	"net/http"

	"ekathu/internal/handler"
	"ekathu/internal/middleware"
	"ekathu/internal/repository"

	"github.com/labstack/echo/v4"
)

// ルート登録に使うハンドラ一式
type Handlers struct {
	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	Cart         *handler.CartHandler
	Order        *handler.OrderHandler
	Group        *handler.GroupHandler
	AdminProduct *handler.AdminProductHandler
	AdminOrder   *handler.AdminOrderHandler
	AdminUser    *handler.AdminUserHandler
}

func RegisterRoutes(e *echo.Echo, h Handlers, store repository.Store, jwtSecret string, uploadDir string) {
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Ekathu API Running")
	})
	e.GET("/healthz", func(c echo.Context) error {
		if err := store.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if uploadDir != "" {
		e.Static("/uploads", uploadDir)
	}

	h.Auth.RegisterRoutes(e)
	h.Product.RegisterRoutes(e)
	h.Cart.RegisterRoutes(e)
	h.Order.RegisterRoutes(e)
	h.Group.RegisterRoutes(e)

	//管理者API: JWT → role → token_version
	admin := e.Group("/api/admin",
		middleware.AuthJWT(jwtSecret),
		middleware.AdminRoleGuard(),
		middleware.TokenVersionGuard(store.Users()),
	)
	h.AdminProduct.RegisterRoutes(admin)
	h.AdminOrder.RegisterRoutes(admin)
	h.AdminUser.RegisterRoutes(admin)
}
