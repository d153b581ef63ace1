package handler

import (
	"net/http"

	"ekathu/internal/domain/model"
	"ekathu/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CartItemRequest struct {
	Email     string `json:"email" validate:"required"`
	ProductID string `json:"productId" validate:"required"`
}

type CheckoutRequest struct {
	Email string `json:"email" validate:"required"`
}

type AddCartResponse struct {
	Message   string `json:"message"`
	CartCount int64  `json:"cartCount"`
}

type RemoveCartResponse struct {
	Success bool `json:"success"`
}

type CheckoutResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Order   model.Order `json:"order"`
}

// /api/cart
type CartHandler struct {
	cart     *usecase.CartUsecase
	checkout *usecase.CheckoutUsecase
}

func NewCartHandler(cart *usecase.CartUsecase, checkout *usecase.CheckoutUsecase) *CartHandler {
	return &CartHandler{cart: cart, checkout: checkout}
}

func (h *CartHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/cart", h.list)
	e.POST("/api/cart/add", h.add)
	e.POST("/api/cart/remove", h.remove)
	e.POST("/api/cart/checkout", h.doCheckout)
}

func (h *CartHandler) list(c echo.Context) error {
	out, err := h.cart.ListCart(c.Request().Context(), c.QueryParam("email"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) add(c echo.Context) error {
	var req CartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	count, err := h.cart.AddItem(c.Request().Context(), req.Email, req.ProductID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, AddCartResponse{Message: "Added", CartCount: count})
}

func (h *CartHandler) remove(c echo.Context) error {
	var req CartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	if err := h.cart.RemoveItem(c.Request().Context(), req.Email, req.ProductID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, RemoveCartResponse{Success: true})
}

func (h *CartHandler) doCheckout(c echo.Context) error {
	var req CheckoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	order, err := h.checkout.Checkout(c.Request().Context(), req.Email)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, CheckoutResponse{
		Success: true,
		Message: "Checkout Successful!",
		Order:   order,
	})
}
