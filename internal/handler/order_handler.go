package handler

import (
	"net/http"

	"ekathu/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderItemRequest struct {
	ProductID   string `json:"productId" validate:"required"`
	ProductName string `json:"productName"`
	Price       int64  `json:"price" validate:"gte=0"`
	Quantity    int64  `json:"quantity" validate:"gte=1,lte=10000"`
}

type CreateOrderRequest struct {
	CustomerName string             `json:"customerName"`
	Email        string             `json:"email" validate:"required,email"`
	Items        []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Status       string             `json:"status"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// /api/orders と /api/stats
type OrderHandler struct {
	orders *usecase.OrderUsecase
	stats  *usecase.StatsUsecase
}

func NewOrderHandler(orders *usecase.OrderUsecase, stats *usecase.StatsUsecase) *OrderHandler {
	return &OrderHandler{orders: orders, stats: stats}
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/orders", h.list)
	e.POST("/api/orders", h.create)
	e.PUT("/api/orders/:id", h.updateStatus)
	e.GET("/api/stats", h.getStats)
}

func (h *OrderHandler) list(c echo.Context) error {
	out, err := h.orders.List(c.Request().Context(), c.QueryParam("email"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) create(c echo.Context) error {
	var req CreateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	items := make([]usecase.CreateOrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, usecase.CreateOrderItemInput{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Price:       it.Price,
			Quantity:    it.Quantity,
		})
	}

	o, err := h.orders.Create(c.Request().Context(), usecase.CreateOrderInput{
		CustomerName: req.CustomerName,
		Email:        req.Email,
		Items:        items,
		Status:       req.Status,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, o)
}

func (h *OrderHandler) updateStatus(c echo.Context) error {
	var req UpdateOrderStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	o, err := h.orders.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) getStats(c echo.Context) error {
	out, err := h.stats.Get(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
