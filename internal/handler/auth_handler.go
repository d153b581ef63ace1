package handler

import (
	"errors"
	"net/http"

	"ekathu/internal/domain/model"
	auth "ekathu/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// 登録・ログイン失敗は { success:false, message } で返す
type AuthMessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type LoginResponse struct {
	Success bool       `json:"success"`
	Role    model.Role `json:"role"`
	Name    string     `json:"name"`
	Token   string     `json:"token"`
}

type AuthHandler struct {
	registerUC *auth.RegisterUserUsecase
	loginUC    *auth.LoginUsecase
}

func NewAuthHandler(registerUC *auth.RegisterUserUsecase, loginUC *auth.LoginUsecase) *AuthHandler {
	return &AuthHandler{
		registerUC: registerUC,
		loginUC:    loginUC,
	}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/register", h.Register)
	e.POST("/api/login", h.Login)
}

// POST /api/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, AuthMessageResponse{Success: false, Message: "invalid json"})
	}

	_, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailAlreadyExists):
			return c.JSON(http.StatusConflict, AuthMessageResponse{Success: false, Message: "Email exists"})
		case errors.Is(err, auth.ErrNameRequired):
			return c.JSON(http.StatusBadRequest, AuthMessageResponse{Success: false, Message: "name required"})
		case errors.Is(err, auth.ErrInvalidEmailFormat):
			return c.JSON(http.StatusBadRequest, AuthMessageResponse{Success: false, Message: "invalid email"})
		case errors.Is(err, auth.ErrPasswordTooShort):
			return c.JSON(http.StatusBadRequest, AuthMessageResponse{Success: false, Message: "password too short"})
		default:
			log.Ctx(c.Request().Context()).Error().Err(err).Msg("register")
			return c.JSON(http.StatusInternalServerError, AuthMessageResponse{Success: false, Message: "internal error"})
		}
	}

	return c.JSON(http.StatusOK, AuthMessageResponse{Success: true, Message: "Registered!"})
}

// POST /api/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, AuthMessageResponse{Success: false, Message: "invalid json"})
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, AuthMessageResponse{Success: false, Message: "Invalid"})
		}
		log.Ctx(c.Request().Context()).Error().Err(err).Msg("login")
		return c.JSON(http.StatusInternalServerError, AuthMessageResponse{Success: false, Message: "internal error"})
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Success: true,
		Role:    out.User.Role,
		Name:    out.User.Name,
		Token:   out.Token,
	})
}
