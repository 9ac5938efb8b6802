package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/foodauth/domain"
	"github.com/you/foodauth/internal/http/middleware"
	"github.com/you/foodauth/internal/logging"
)

// AuthHandlers handles registration, login and profile requests
type AuthHandlers struct {
	authSvc domain.AuthService
	otpSvc  domain.OTPService
	log     logging.Logger
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, otpSvc domain.OTPService, log logging.Logger) *AuthHandlers {
	return &AuthHandlers{
		authSvc: authSvc,
		otpSvc:  otpSvc,
		log:     log.With("component", "auth_handlers"),
	}
}

// RegisterRequest represents registration request. Roles sent by clients
// are not part of the contract and are dropped by the decoder.
type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=64"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,max=72"`
	PhoneNumber string `json:"phone_number" binding:"omitempty,phone"`
	FirstName   string `json:"first_name" binding:"max=100"`
	LastName    string `json:"last_name" binding:"max=100"`
}

// LoginRequest accepts either a username or an email
type LoginRequest struct {
	Username string `json:"username" binding:"required_without=Email"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required"`
}

type SendOTPRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required,phone"`
}

type VerifyOTPRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required,phone"`
	OTP         string `json:"otp" binding:"required"`
}

// UpdateProfileRequest carries optional changes; an empty phone_number
// clears the phone.
type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name" binding:"omitempty,max=100"`
	LastName    *string `json:"last_name" binding:"omitempty,max=100"`
	PhoneNumber *string `json:"phone_number"`
}

func tokenPayload(res *domain.AuthResult) gin.H {
	return gin.H{
		"access_token": res.AccessToken,
		"token_type":   "Bearer",
		"expires_in":   res.ExpiresIn,
		"user":         res.User.Public(),
	}
}

// Register handles user registration
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), domain.RegisterRequest{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.PhoneNumber,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user.Public()})
}

// Login handles password login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}

	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}

	res, err := h.authSvc.Login(c.Request.Context(), identifier, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": tokenPayload(res)})
}

// SendOTP issues a fresh code to the phone
func (h *AuthHandlers) SendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}

	if _, err := h.otpSvc.Send(c.Request.Context(), req.PhoneNumber); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "OTP sent"})
}

// VerifyOTP exchanges a code for an access token bound to the phone
func (h *AuthHandlers) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}

	res, err := h.authSvc.LoginWithOTP(c.Request.Context(), req.PhoneNumber, req.OTP)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "data": tokenPayload(res)})
}

// Me returns the caller's profile
func (h *AuthHandlers) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, h.log, domain.ErrUnauthenticated)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user.Public()})
}

// UpdateMe applies profile changes for the caller
func (h *AuthHandlers) UpdateMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, h.log, domain.ErrUnauthenticated)
		return
	}

	var req UpdateProfileRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}

	updated, err := h.authSvc.UpdateProfile(c.Request.Context(), user.ID, domain.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.PhoneNumber,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": updated.Public()})
}

// AdminOnly greets administrators; the route is gated by RequireRoles
func (h *AuthHandlers) AdminOnly(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, h.log, domain.ErrUnauthenticated)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "welcome admin", "user": user.Username}})
}
