package http

import (
	"log/slog"
	"net/http"

	"github.com/prjrating/sellerrating/internal/service"
	"github.com/prjrating/sellerrating/pkg/httputil"
)

// AuthHandler handles HTTP requests for registration, login and password
// maintenance.
type AuthHandler struct {
	service *service.AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// RegisterRequest is the JSON request body for seller registration.
type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
}

// LoginRequest is the JSON request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest is the JSON request body for a password change.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// ForgotPasswordRequest is the JSON request body for requesting a reset code.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is the JSON request body for a password reset. Missing
// fields are reported by the service.
type ResetPasswordRequest struct {
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// --- Handlers ---

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	_, err := h.service.Register(r.Context(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteMessage(w, http.StatusCreated, "User registered successfully. Check your email for the confirmation link.")
}

// Confirm handles GET /api/auth/confirm?code=
func (h *AuthHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		httputil.WriteErrorCode(w, r, http.StatusBadRequest, "INVALID_INPUT", "code is required")
		return
	}

	if err := h.service.Confirm(r.Context(), code); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "Email confirmed successfully")
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.service.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, LoginResponse{
		Token:     result.AccessToken,
		TokenType: "Bearer",
		ExpiresIn: int64(result.ExpiresIn.Seconds()),
		User:      toUserResponse(result.User),
	})
}

// ChangePassword handles PUT /api/auth/{id}/change-password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.service.ChangePassword(r.Context(), id, req.OldPassword, req.NewPassword); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "Password changed successfully")
}

// ForgotPassword handles POST /api/auth/forgot_password
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "Reset code sent to your email")
}

// CheckCode handles GET /api/auth/check_code?code=
func (h *AuthHandler) CheckCode(w http.ResponseWriter, r *http.Request) {
	valid, err := h.service.CheckResetCode(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, CheckCodeResponse{Valid: valid})
}

// ResetPassword handles POST /api/auth/reset
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ok, err := h.service.ResetPassword(r.Context(), req.Code, req.NewPassword)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if !ok {
		httputil.WriteErrorCode(w, r, http.StatusBadRequest, "INVALID_INPUT", "Invalid or expired reset code")
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "Password reset successful")
}
