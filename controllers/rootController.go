package controllers

import (
	"PatientCare/handlers"
	"net/http"

	"github.com/gin-gonic/gin"
)

// rootHandler handles requests to the root path
func rootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Patient care API"})
}

// SetupRootRoute mounts the root and health routes
func SetupRootRoute(router *gin.Engine, api gin.IRoutes, health *handlers.HealthHandler) {
	router.GET("/", rootHandler)
	api.GET("/health", health.Health)
}
