package handler

import (
	"net/http"

	"ekathu/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CreateGroupRequest struct {
	Email      string `json:"email" validate:"required,email"`
	ProductID  string `json:"productId" validate:"required"`
	MaxMembers *int   `json:"maxMembers" validate:"omitempty,min=1,max=100"`
}

type JoinGroupRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type CreateGroupResponse struct {
	Success bool   `json:"success"`
	GroupID string `json:"groupId"`
}

// /api/groups 共同購入
type GroupHandler struct {
	uc *usecase.GroupUsecase
}

func NewGroupHandler(uc *usecase.GroupUsecase) *GroupHandler {
	return &GroupHandler{uc: uc}
}

func (h *GroupHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/groups", h.create)
	e.GET("/api/groups/:id", h.get)
	e.POST("/api/groups/:id/join", h.join)
}

func (h *GroupHandler) create(c echo.Context) error {
	var req CreateGroupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	id, err := h.uc.Create(c.Request().Context(), usecase.CreateGroupInput{
		ProductID:  req.ProductID,
		Email:      req.Email,
		MaxMembers: req.MaxMembers,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, CreateGroupResponse{Success: true, GroupID: id})
}

func (h *GroupHandler) get(c echo.Context) error {
	out, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *GroupHandler) join(c echo.Context) error {
	var req JoinGroupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Join(c.Request().Context(), c.Param("id"), req.Email)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
