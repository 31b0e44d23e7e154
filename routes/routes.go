package routes

import (
	"PatientCare/cache"
	"PatientCare/config"
	"PatientCare/controllers"
	"PatientCare/database"
	"PatientCare/handlers"
	"PatientCare/middlewares"
	"PatientCare/repositories"
	"PatientCare/services"
	"PatientCare/utils"
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Services are the dependencies the router dispatches to.
type Services struct {
	Auth     *services.AuthService
	Patients *services.PatientService
	Doctors  *services.DoctorService
	Mappings *services.MappingService
	// Health lists the dependencies checked by /api/health.
	Health map[string]handlers.Pinger
}

// NewRouter builds the gin engine with its middleware chain and all routes.
func NewRouter(cfg *config.AppConfig, svc Services) *gin.Engine {
	router := gin.New()
	// Forwarded headers are only honoured from configured proxies; otherwise
	// ClientIP is the peer address.
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Error().Err(err).Strs("trusted_proxies", cfg.TrustedProxies).Msg("invalid trusted proxies, trusting none")
		_ = router.SetTrustedProxies(nil)
	}

	router.Use(middlewares.RequestID())
	router.Use(middlewares.LoggingMiddleware())
	router.Use(middlewares.Recovery())
	router.Use(middlewares.SecurityHeaders())
	router.Use(middlewares.CorsMiddleware(cfg.CORSOrigins))
	if cfg.RateLimitRPS > 0 {
		router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimitRPS,
			Burst:             cfg.RateLimitBurst,
		}))
	}

	api := router.Group("/api")
	protected := api.Group("", middlewares.TokenAuthMiddleware(svc.Auth))

	authController := controllers.NewAuthController(handlers.NewAuthHandler(svc.Auth))
	authController.RegisterRoutes(api, protected)

	controllers.SetupPatientRoutes(
		protected,
		handlers.NewPatientHandler(svc.Patients),
		handlers.NewDoctorHandler(svc.Doctors),
		handlers.NewMappingHandler(svc.Mappings),
	)

	controllers.SetupRootRoute(router, api, handlers.NewHealthHandler(svc.Health))

	return router
}

// SetupRoutes wires the postgres repositories and the redis cache into the
// services and returns the HTTP handler for the server.
func SetupRoutes(cache *cache.Cache, cfg *config.AppConfig, db *gorm.DB) (http.Handler, error) {
	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens, err := utils.NewTokenMaker(cfg.SymmetricKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create token maker: %w", err)
	}

	accountRepo := repositories.NewAccountRepository(db)
	patientRepo := repositories.NewPatientRepository(db)
	doctorRepo := repositories.NewDoctorRepository(db, cache, cfg.DoctorCacheTTL)
	mappingRepo := repositories.NewMappingRepository(db)

	svc := Services{
		Auth:     services.NewAuthService(accountRepo, tokens, cache, utils.NewMailer(cfg)),
		Patients: services.NewPatientService(patientRepo),
		Doctors:  services.NewDoctorService(doctorRepo),
		Mappings: services.NewMappingService(mappingRepo, patientRepo, doctorRepo),
		Health: map[string]handlers.Pinger{
			"database": handlers.PingFunc(func(ctx context.Context) error { return database.Ping(ctx, db) }),
			"cache":    cache,
		},
	}
	return NewRouter(cfg, svc), nil
}
