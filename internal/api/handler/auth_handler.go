package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dsalta/compliance-api/internal/api/middleware"
	"github.com/dsalta/compliance-api/internal/core/domain"
	"github.com/dsalta/compliance-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// loginResponse carries the profile of the authenticated account under
// "principal".
type loginResponse struct {
	Token     string             `json:"token"`
	Principal domain.UserProfile `json:"principal"`
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  Envelope{data=loginResponse}
// @Failure      400   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Login successful", loginResponse{Token: res.Token, Principal: res.User})
}

// Logout revokes the bearer token of the current request.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope
// @Failure      401  {object}  Envelope
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	token, ok := middleware.BearerToken(c.Request())
	if !ok {
		return domain.ErrUnauthenticated
	}
	if err := h.authService.Logout(c.Request().Context(), token); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Logout successful", nil)
}

// ListUsers returns every account. Admin only.
//
// @Summary      List users
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{data=[]domain.User}
// @Failure      401  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Router       /auth/users [get]
func (h *AuthHandler) ListUsers(c echo.Context) error {
	users, err := h.authService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Users retrieved successfully", users)
}
