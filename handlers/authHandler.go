package handlers

import (
	"PatientCare/middlewares"
	"PatientCare/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service *services.AuthService
}

func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type resetCodeRequest struct {
	Email string `json:"email"`
}

// Register handles new account registration
func (h *AuthHandler) Register(c *gin.Context) {
	var in services.RegisterInput
	if err := bindJSON(c, &in); err != nil {
		middlewares.RespondError(c, err)
		return
	}

	account, pair, err := h.service.Register(c.Request.Context(), in)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, NewAuthResponse("User registered successfully", account, pair), http.StatusCreated)
}

// Login authenticates the account and returns a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	var in services.LoginInput
	if err := bindJSON(c, &in); err != nil {
		middlewares.RespondError(c, err)
		return
	}

	account, pair, err := h.service.Login(c.Request.Context(), in)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, NewAuthResponse("Login successful", account, pair), http.StatusOK)
}

// RefreshToken issues a new access token for a refresh token
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var in refreshRequest
	if err := bindJSON(c, &in); err != nil {
		middlewares.RespondError(c, err)
		return
	}

	access, err := h.service.Refresh(c.Request.Context(), in.Refresh)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"access": access}, http.StatusOK)
}

// Logout revokes the caller's refresh token
func (h *AuthHandler) Logout(c *gin.Context) {
	var in refreshRequest
	if err := bindJSON(c, &in); err != nil {
		middlewares.RespondError(c, err)
		return
	}

	if err := h.service.Logout(c.Request.Context(), accountID(c), in.Refresh); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"message": "Logout successful"}, http.StatusOK)
}

func (h *AuthHandler) Me(c *gin.Context) {
	account, err := middlewares.AccountFromContext(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, NewAccountResponse(account), http.StatusOK)
}

// SendResetCode emails a password reset code. The response does not reveal
// whether the email belongs to an account.
func (h *AuthHandler) SendResetCode(c *gin.Context) {
	var in resetCodeRequest
	if err := bindJSON(c, &in); err != nil {
		middlewares.RespondError(c, err)
		return
	}

	if err := h.service.SendResetCode(c.Request.Context(), in.Email); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"message": "If the email is registered, a reset code has been sent"}, http.StatusOK)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var in services.PasswordResetInput
	if err := bindJSON(c, &in); err != nil {
		middlewares.RespondError(c, err)
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), in); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"message": "Password has been reset"}, http.StatusOK)
}
