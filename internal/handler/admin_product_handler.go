package handler

import (
	"net/http"

	"ekathu/internal/middleware"
	"ekathu/internal/usecase"

	"github.com/labstack/echo/v4"
)

// JWTミドルウェアが積んだ user_id を取り出す
func getUserIDFromContext(c echo.Context) (string, bool) {
	v, ok := c.Get(middleware.CtxUserIDKey).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// /api/admin/products
type AdminProductHandler struct {
	uc *usecase.ProductUsecase
}

func NewAdminProductHandler(uc *usecase.ProductUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

func (h *AdminProductHandler) RegisterRoutes(g *echo.Group) {
	g.DELETE("/products/:id", h.delete)
}

func (h *AdminProductHandler) delete(c echo.Context) error {
	actorID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.AdminDelete(c.Request().Context(), actorID, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "Deleted"})
}
