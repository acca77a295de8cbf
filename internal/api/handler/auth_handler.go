package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dentaflow/clinic-system/internal/api/metrics"
	"github.com/dentaflow/clinic-system/internal/api/middleware"
	"github.com/dentaflow/clinic-system/internal/core/domain"
	"github.com/dentaflow/clinic-system/internal/core/ports"
)

// AuthHandler owns the login/logout and magic-link endpoints, including the
// session cookie contract shared with the route guard.
type AuthHandler struct {
	authService ports.AuthService
	secure      bool
}

// NewAuthHandler creates an AuthHandler. secure controls the cookies' Secure
// flag; true in production.
func NewAuthHandler(authService ports.AuthService, secure bool) *AuthHandler {
	return &AuthHandler{authService: authService, secure: secure}
}

// Login authenticates a phone+password pair and establishes a session.
//
// @Summary      Log in with phone and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	result, err := h.authService.Login(c.Request().Context(), req.Phone, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		if errors.Is(err, domain.ErrUserInactive) {
			return c.JSON(http.StatusForbidden, errorResponse{Error: "access forbidden"})
		}
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.setSessionCookies(c, result)
	return c.JSON(http.StatusOK, authResponse{User: toSessionUser(result.User)})
}

// Logout deletes the server-side session row and expires the cookies.
//
// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      204  "session deleted"
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionTokenCookie); err == nil && cookie.Value != "" {
		if err := h.authService.Logout(c.Request().Context(), cookie.Value); err != nil {
			return err
		}
	}
	h.clearSessionCookies(c)
	return c.NoContent(http.StatusNoContent)
}

// ForgotPassword issues a magic link over WhatsApp. Always answers 202 so
// the endpoint cannot be used to probe which phone numbers have accounts.
//
// @Summary      Request a magic sign-in link
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  forgotPasswordRequest  true  "Account phone"
// @Success      202   "magic link queued if the account exists"
// @Failure      400   {object}  errorResponse
// @Router       /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	if err := h.authService.RequestPasswordReset(c.Request().Context(), req.Phone); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrUserInactive) {
			// Deliberately indistinguishable from success.
			return c.NoContent(http.StatusAccepted)
		}
		return err
	}
	return c.NoContent(http.StatusAccepted)
}

// Verify exchanges a magic-link token for a session.
//
// @Summary      Verify a magic-link token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyRequest  true  "Magic-link token"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/verify [post]
func (h *AuthHandler) Verify(c echo.Context) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	result, err := h.authService.VerifyMagicLink(c.Request().Context(), req.Token)
	if err != nil {
		return err
	}

	h.setSessionCookies(c, result)
	return c.JSON(http.StatusOK, authResponse{User: toSessionUser(result.User)})
}

// ResetPassword sets a new password via a magic-link token and logs in.
//
// @Summary      Reset password with a magic-link token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Token and new password"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	result, err := h.authService.ResetPassword(c.Request().Context(), req.Token, req.Password)
	if err != nil {
		return err
	}

	h.setSessionCookies(c, result)
	return c.JSON(http.StatusOK, authResponse{User: toSessionUser(result.User)})
}

// setSessionCookies writes the three-cookie contract: "session" (claims
// blob, httpOnly), "session_token" (raw token, httpOnly), "user" (display
// blob, client-readable). All share the session's absolute expiry.
func (h *AuthHandler) setSessionCookies(c echo.Context, result *ports.LoginResult) {
	maxAge := int(time.Until(result.Session.ExpiresAt).Seconds())

	c.SetCookie(h.cookie(middleware.SessionCookie, result.Claims.Encode(), maxAge, true))
	c.SetCookie(h.cookie(middleware.SessionTokenCookie, result.Session.Token, maxAge, true))

	// Percent-escape the display JSON: net/http silently drops quote bytes
	// from cookie values, and clients decodeURIComponent this one anyway.
	display, _ := json.Marshal(toSessionUser(result.User))
	c.SetCookie(h.cookie(middleware.UserCookie, url.QueryEscape(string(display)), maxAge, false))
}

func (h *AuthHandler) clearSessionCookies(c echo.Context) {
	c.SetCookie(h.cookie(middleware.SessionCookie, "", -1, true))
	c.SetCookie(h.cookie(middleware.SessionTokenCookie, "", -1, true))
	c.SetCookie(h.cookie(middleware.UserCookie, "", -1, false))
}

func (h *AuthHandler) cookie(name, value string, maxAge int, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func toSessionUser(u *domain.User) sessionUserResponse {
	return sessionUserResponse{
		ID:       u.ID,
		Name:     u.Name,
		Phone:    u.Phone,
		Role:     u.Role,
		ClinicID: u.ClinicIDValue(),
	}
}
