package controllers

import (
	"PatientCare/handlers"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Handler *handlers.AuthHandler
}

// NewAuthController creates a new AuthController with the given AuthHandler
func NewAuthController(authHandler *handlers.AuthHandler) *AuthController {
	return &AuthController{
		Handler: authHandler,
	}
}

// RegisterRoutes mounts the public auth routes on public and the
// token-protected ones on protected.
func (ac *AuthController) RegisterRoutes(public, protected gin.IRoutes) {
	public.POST("/auth/register", ac.Handler.Register)
	public.POST("/auth/login", ac.Handler.Login)
	public.POST("/auth/token/refresh", ac.Handler.RefreshToken)
	public.POST("/auth/password/reset-code", ac.Handler.SendResetCode)
	public.POST("/auth/password/reset", ac.Handler.ResetPassword)

	protected.POST("/auth/logout", ac.Handler.Logout)
	protected.GET("/auth/me", ac.Handler.Me)
}
