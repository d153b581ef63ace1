package handler

import (
	"net/http"

	repo "ekathu/internal/repository"
	"ekathu/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminUpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// /api/admin/orders
type AdminOrderHandler struct {
	uc *usecase.AdminOrderUsecase
}

func NewAdminOrderHandler(uc *usecase.AdminOrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc}
}

func (h *AdminOrderHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/orders", h.list)
	g.PUT("/orders/:id", h.updateStatus)
	g.DELETE("/orders/:id", h.delete)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context(), repo.OrderListFilter{
		Email:  c.QueryParam("email"),
		Status: c.QueryParam("status"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	actorID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req AdminUpdateOrderStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	o, err := h.uc.UpdateStatus(c.Request().Context(), actorID, c.Param("id"), usecase.AdminUpdateOrderStatusInput{
		Status: req.Status,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *AdminOrderHandler) delete(c echo.Context) error {
	actorID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.Delete(c.Request().Context(), actorID, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "Deleted"})
}
