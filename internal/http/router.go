package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/neurulatechnologies/neurula-patient-backend/internal/http/handlers"
	"github.com/neurulatechnologies/neurula-patient-backend/internal/http/middleware"
)

// RouterConfig carries the values the router needs beyond its handlers.
type RouterConfig struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
}

// BuildRouter assembles the gin engine: recovery, request logging and
// CORS on every route, then the public and bearer-protected API groups.
func BuildRouter(cfg RouterConfig, ah *handlers.AuthHandlers, ph *handlers.PatientHandlers, dh *handlers.DoctorHandlers, jwtMW *middleware.AuthMW, casbinMW *middleware.CasbinMW, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))

	corsConfig := cors.Config{
		AllowMethods:  []string{"POST", "GET", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", "Content-Length"},
		ExposeHeaders: []string{"Content-Type", "Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	}
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": cfg.ServiceName,
			"version": cfg.Version,
		})
	})

	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", ah.Register)
	auth.POST("/verify-otp", ah.VerifyOTP)
	auth.POST("/resend-otp", ah.ResendOTP)
	auth.POST("/login", ah.Login)
	auth.POST("/refresh", ah.Refresh)
	auth.POST("/forgot-password", ah.ForgotPassword)
	auth.POST("/reset-password", ah.ResetPassword)

	authed := v1.Group("/auth")
	authed.Use(jwtMW.WithJWT())
	authed.GET("/me", ah.Me)
	authed.POST("/change-password", ah.ChangePassword)
	authed.POST("/logout", ah.Logout)

	patients := v1.Group("/patients")
	// Availability check stays public so clients can validate the form
	// before an account exists.
	patients.POST("/verify-emirates-id", ph.VerifyEmiratesID)

	ownedPatients := patients.Group("")
	ownedPatients.Use(jwtMW.WithJWT(), casbinMW.Enforce())
	ownedPatients.GET("/me", ph.GetMe)
	ownedPatients.PUT("/me", ph.UpdateMe)
	ownedPatients.DELETE("/me", ph.DeleteMe)
	ownedPatients.GET("/:patient_id", ph.GetByID)

	doctors := v1.Group("/doctors")
	doctors.GET("", dh.List)
	doctors.GET("/specialties", dh.Specialties)
	doctors.GET("/:doctor_id", dh.GetByID)

	return r
}
