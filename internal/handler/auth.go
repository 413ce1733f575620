package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Vamshik07/marketmind/internal/config"
	"github.com/Vamshik07/marketmind/internal/middleware"
	"github.com/Vamshik07/marketmind/internal/model"
	"github.com/Vamshik07/marketmind/internal/repository"
	"github.com/Vamshik07/marketmind/internal/service"
	"github.com/Vamshik07/marketmind/internal/utils"
)

// AuthHandler bundles dependencies for account endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Accounts *service.AccountService
	Tokens   *repository.TokenRepo
	History  *service.HistoryService
}

func NewAuthHandler(cfg config.Config, accounts *service.AccountService, tokens *repository.TokenRepo, hist *service.HistoryService) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Accounts: accounts, Tokens: tokens, History: hist}
}

// ----- DTOs -----

type signupReq struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}
type forgotReq struct {
	Email string `json:"email"`
}
type resetReq struct {
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	IsVerified bool   `json:"is_verified"`
}
type loginResp struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

const genericResetMessage = "If this email is registered, password reset instructions will be sent"

// Signup registers a new account and dispatches the verification
// email. The account is created even when the email cannot be sent;
// that outcome is reported as a degraded success, never rolled back.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Accounts.Signup(ctx, req.Name, req.Email, req.Password, req.PasswordConfirm)
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": ve.Message})
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Email already registered"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "create user failed"})
		}
	}

	if err := h.Accounts.SendVerificationEmail(ctx, uid); err != nil {
		c.Logger().Errorf("signup: verification email for user %d failed: %v", uid, err)
		return c.JSON(http.StatusCreated, echo.Map{
			"success": true,
			"message": "Signup successful, but the verification email could not be sent. Please request a new one later.",
		})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Signup successful. Verification email sent. Please check your inbox.",
	})
}

// VerifyEmail consumes the emailed token and marks the account verified.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	token := c.Param("token")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Accounts.VerifyEmail(ctx, token); err != nil {
		switch {
		case errors.Is(err, utils.ErrTokenExpired):
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Token has expired"})
		case errors.Is(err, utils.ErrTokenInvalid):
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid token"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "verification failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Email verified. You can now log in."})
}

// Login checks credentials, issues an access/refresh token pair and
// records a login history entry. Unknown email and wrong password get
// distinct messages.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Accounts.Login(ctx, req.Email, req.Password)
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve),
			errors.Is(err, service.ErrEmailNotRegistered),
			errors.Is(err, service.ErrInvalidPassword):
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
		}
	}

	access, err := utils.NewAccessToken(h.Cfg.SecretKey, u.ID, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "issue refresh failed"})
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "save refresh failed"})
	}

	if _, err := h.History.Record(ctx, model.HistoryEntry{
		UserID:     u.ID,
		PageURL:    "/login",
		PageTitle:  "User Login",
		ActionType: model.ActionLogin,
		IPAddress:  c.RealIP(),
		UserAgent:  c.Request().UserAgent(),
	}); err != nil {
		c.Logger().Errorf("login: history record for user %d failed: %v", u.ID, err)
	}

	return c.JSON(http.StatusOK, loginResp{
		Success: true,
		Message: "Login successful",
		User:    userPart{ID: u.ID, Name: u.Name, Email: u.Email, IsVerified: u.IsVerified},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	})
}

// Refresh validates a refresh token by hash, revokes it and issues a
// new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid refresh"})
	}
	// A failed revoke leaves the old token alive next to the new one;
	// that must at least be visible in the logs.
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		c.Logger().Errorf("refresh: revoke old token for user %d failed: %v", userID, err)
	}

	u, err := h.Accounts.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "load user failed"})
	}

	access, err := utils.NewAccessToken(h.Cfg.SecretKey, userID, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "issue access failed"})
	}
	newRef, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "issue refresh failed"})
	}
	if err := h.Tokens.StoreRefresh(ctx, userID, utils.HashRefreshRaw(newRef.Raw), newRef.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "save refresh failed"})
	}

	return c.JSON(http.StatusOK, loginResp{
		Success: true,
		Message: "Token refreshed",
		User:    userPart{ID: u.ID, Name: u.Name, Email: u.Email, IsVerified: u.IsVerified},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: newRef.Raw, Expires: newRef.Exp},
	})
}

// Logout revokes all of the current user's refresh tokens and records
// a logout history entry. Requires a valid access token.
func (h *AuthHandler) Logout(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "User not authenticated"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "logout failed"})
	}

	if _, err := h.History.Record(ctx, model.HistoryEntry{
		UserID:     uid,
		PageURL:    "/logout",
		PageTitle:  "User Logout",
		ActionType: model.ActionLogout,
		IPAddress:  c.RealIP(),
		UserAgent:  c.Request().UserAgent(),
	}); err != nil {
		c.Logger().Errorf("logout: history record for user %d failed: %v", uid, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Logged out"})
}

// ForgotPassword always answers with the same generic message so the
// endpoint cannot be used to probe which addresses have accounts.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	h.Accounts.RequestPasswordReset(ctx, req.Email)

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": genericResetMessage})
}

// ResetPassword consumes a password-reset token and applies the new
// password.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	token := c.Param("token")
	var req resetReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Accounts.ResetPassword(ctx, token, req.NewPassword, req.NewPasswordConfirm)
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": ve.Message})
		case errors.Is(err, utils.ErrTokenExpired):
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Token has expired"})
		case errors.Is(err, utils.ErrTokenInvalid):
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid token"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "update password failed"})
		}
	}

	if _, err := h.History.Record(ctx, model.HistoryEntry{
		UserID:     uid,
		PageURL:    "/reset-password",
		PageTitle:  "Password Reset",
		ActionType: model.ActionPasswordReset,
		IPAddress:  c.RealIP(),
		UserAgent:  c.Request().UserAgent(),
	}); err != nil {
		c.Logger().Errorf("reset-password: history record for user %d failed: %v", uid, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Password reset successful. You can now login with your new password.",
	})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "User not authenticated"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Accounts.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "load user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"user":    userPart{ID: u.ID, Name: u.Name, Email: u.Email, IsVerified: u.IsVerified},
	})
}
