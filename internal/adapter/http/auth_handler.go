package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"tuka-portal/internal/adapter/middleware"
	"tuka-portal/internal/usecase/auth"
)

// Sessions starts and ends a login session.
type Sessions interface {
	Create(c echo.Context, d middleware.SessionData) error
	Destroy(c echo.Context) error
}

type AuthHandler struct {
	uc       *auth.Usecase
	sessions Sessions
}

func NewAuthHandler(uc *auth.Usecase, s Sessions) *AuthHandler {
	return &AuthHandler{uc: uc, sessions: s}
}

type registerReq struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=8"`
}

type loginReq struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	u, err := h.uc.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"message": "Registration successful. Please log in.", "user": u})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	u, err := h.uc.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.sessions.Create(c, middleware.SessionData{UserID: u.ID, Role: u.Role}); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Logged in.", "user": u})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessions.Destroy(c); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out."})
}

func (h *AuthHandler) Me(c echo.Context) error {
	u, err := h.uc.Me(c.Request().Context(), sessionUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

type setActiveReq struct {
	Active *bool `json:"active" form:"active" validate:"required"`
}

// ListUsers serves the super-admin account list.
func (h *AuthHandler) ListUsers(c echo.Context) error {
	users, err := h.uc.ListUsers(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"users": users})
}

// SetActive enables or disables login for one account.
func (h *AuthHandler) SetActive(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badID(c)
	}
	var req setActiveReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	u, err := h.uc.SetActive(c.Request().Context(), sessionUser(c), id, *req.Active)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Account updated.", "user": u})
}
