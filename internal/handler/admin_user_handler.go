package handler

import (
	"net/http"
	"strconv"

	"ekathu/internal/domain/model"
	repo "ekathu/internal/repository"
	"ekathu/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/admin/users と監査ログ
type AdminUserHandler struct {
	users *usecase.AdminUserUsecase
	audit *usecase.AuditLogUsecase
}

func NewAdminUserHandler(users *usecase.AdminUserUsecase, audit *usecase.AuditLogUsecase) *AdminUserHandler {
	return &AdminUserHandler{users: users, audit: audit}
}

func (h *AdminUserHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/users", h.list)
	g.DELETE("/users/:id", h.delete)
	g.GET("/audit-logs", h.listAuditLogs)
}

func (h *AdminUserHandler) list(c echo.Context) error {
	out, err := h.users.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminUserHandler) delete(c echo.Context) error {
	actorID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.users.Delete(c.Request().Context(), actorID, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "Deleted"})
}

// GET /api/admin/audit-logs?actor=&action=&resourceType=&resourceId=&limit=&offset=
func (h *AdminUserHandler) listAuditLogs(c echo.Context) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid offset"})
	}

	out, err := h.audit.List(c.Request().Context(), repo.AuditLogFilter{
		ActorUserID:  c.QueryParam("actor"),
		Action:       model.AuditAction(c.QueryParam("action")),
		ResourceType: model.AuditResourceType(c.QueryParam("resourceType")),
		ResourceID:   c.QueryParam("resourceId"),
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 空なら0
func queryInt(c echo.Context, key string) (int, error) {
	v := c.QueryParam(key)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
