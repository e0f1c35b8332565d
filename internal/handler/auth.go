package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/evrenos/tour-booking/internal/config"
	"github.com/evrenos/tour-booking/internal/model"
	"github.com/evrenos/tour-booking/internal/repository"
	"github.com/evrenos/tour-booking/internal/service"
	"github.com/evrenos/tour-booking/internal/utils"
)

const resetTokenTTL = 10 * time.Minute

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Mailer service.Mailer
}

func NewAuthHandler(cfg config.Config, users *repository.UserRepo, mailer service.Mailer) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Mailer: mailer}
}

// ----- DTOs -----

type signupReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type forgotReq struct {
	Email string `json:"email"`
}
type passwordReq struct {
	Password string `json:"password"`
}
type updatePasswordReq struct {
	CurrentPassword string `json:"current_password"`
	Password        string `json:"password"`
}

type userPart struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// tokenEnvelope matches the API contract: the token rides at the top level
// next to status, with the user under data.
func tokenEnvelope(c echo.Context, code int, token string, u model.User) error {
	return c.JSON(code, echo.Map{
		"status": "success",
		"token":  token,
		"data": echo.Map{
			"user": userPart{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role},
		},
	})
}

// Signup creates a user and returns a token immediately. Roles are
// normalized to lowercase; only guest and agency may be self-assigned.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return fail(c, http.StatusBadRequest, "email, password and name are required")
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role != model.RoleAgency {
		role = model.RoleGuest
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "create user failed")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, hash, req.Name, req.Phone, role)
	if err != nil {
		if err == repository.ErrEmailExists {
			return fail(c, http.StatusConflict, "email already exists")
		}
		return fail(c, http.StatusInternalServerError, "create user failed")
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, uid, role, h.Cfg.JWTTTLMin)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "issue token failed")
	}
	return tokenEnvelope(c, http.StatusCreated, access.Token,
		model.User{ID: uid, Email: req.Email, Name: req.Name, Role: role})
}

// Login verifies credentials and returns a fresh token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "email and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == repository.ErrNotFound {
			return fail(c, http.StatusUnauthorized, "invalid email or password")
		}
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, "invalid email or password")
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.JWTTTLMin)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "issue token failed")
	}
	return tokenEnvelope(c, http.StatusOK, access.Token, u)
}

// ForgotPassword issues a reset token and mails it. Only the sha256 digest
// of the token is stored; the raw value travels solely in the email. When
// the send fails the stored token is rolled back so no orphaned reset
// window stays open.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return fail(c, http.StatusBadRequest, "email is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == repository.ErrNotFound {
			return fail(c, http.StatusNotFound, "there is no user with that email address")
		}
		return fail(c, http.StatusInternalServerError, "query failed")
	}

	raw, err := utils.RandomHex(32)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "issue reset token failed")
	}
	exp := time.Now().UTC().Add(resetTokenTTL)
	if err := h.Users.SetResetToken(ctx, u.ID, utils.HashField(raw), exp); err != nil {
		return fail(c, http.StatusInternalServerError, "save reset token failed")
	}

	resetURL := fmt.Sprintf("%s://%s/api/v1/auth/reset-password/%s",
		c.Scheme(), c.Request().Host, raw)
	body := fmt.Sprintf("Forgot your password? Submit a PATCH request with your new password to: %s\nIf you didn't forget your password, please ignore this email.", resetURL)
	if err := h.Mailer.Send(u.Email, "Your password reset token (valid for 10 min)", body); err != nil {
		_ = h.Users.ClearResetToken(ctx, u.ID)
		return fail(c, http.StatusInternalServerError, "there was an error sending the email, try again later")
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "success", "message": "token sent to email"})
}

// ResetPassword consumes a reset token and sets the new password, logging
// the user in with a fresh access token.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req passwordReq
	if err := c.Bind(&req); err != nil || req.Password == "" {
		return fail(c, http.StatusBadRequest, "password is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByResetToken(ctx, utils.HashField(c.Param("token")))
	if err != nil {
		if err == repository.ErrNotFound {
			return fail(c, http.StatusBadRequest, "token is invalid or has expired")
		}
		return fail(c, http.StatusInternalServerError, "query failed")
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "update password failed")
	}
	if err := h.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return fail(c, http.StatusInternalServerError, "update password failed")
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.JWTTTLMin)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "issue token failed")
	}
	return tokenEnvelope(c, http.StatusOK, access.Token, u)
}

// UpdatePassword lets an authenticated user rotate their password after
// proving the current one.
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	var req updatePasswordReq
	if err := c.Bind(&req); err != nil || req.CurrentPassword == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "current_password and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return failFrom(c, err, "user not found")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.CurrentPassword) {
		return fail(c, http.StatusUnauthorized, "your current password is wrong")
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "update password failed")
	}
	if err := h.Users.UpdatePassword(ctx, uid, hash); err != nil {
		return fail(c, http.StatusInternalServerError, "update password failed")
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.JWTTTLMin)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "issue token failed")
	}
	return tokenEnvelope(c, http.StatusOK, access.Token, u)
}

// Me returns the authenticated identity snapshot from the token.
func (h *AuthHandler) Me(c echo.Context) error {
	return success(c, http.StatusOK, echo.Map{
		"user_id": c.Get("user_id"),
		"role":    c.Get("role"),
	})
}
