package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/verikey/otp-service/internal/api/handler"
	"github.com/verikey/otp-service/internal/api/middleware"
	"github.com/verikey/otp-service/internal/core/domain"
	"github.com/verikey/otp-service/internal/core/ports"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Auth  ports.AuthService
	Otp   ports.OtpService
	Audit ports.AuditService

	JWTSecret string
	Mongo     *mongo.Database
	Redis     *redis.Client // nil when the memory code store is active
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("otp_http"))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth)
	otpHandler := handler.NewOtpHandler(d.Otp)
	adminHandler := handler.NewAdminHandler(d.Audit)
	authMiddleware := middleware.Auth(d.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- OTP routes (bearer auth required) ---
	otp := e.Group("/v1/otp", authMiddleware)
	otp.POST("", otpHandler.Generate)
	otp.POST("/validate", otpHandler.Validate)

	// --- Admin routes ---
	admin := e.Group("/v1/admin", authMiddleware, middleware.RBAC(domain.RoleAdmin))
	admin.GET("/audit", adminHandler.ListAudit)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
