package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/neurulatechnologies/neurula-patient-backend/domain"
	"github.com/neurulatechnologies/neurula-patient-backend/internal/config"
	"github.com/neurulatechnologies/neurula-patient-backend/internal/http/handlers"
	"github.com/neurulatechnologies/neurula-patient-backend/internal/http/middleware"
	"github.com/neurulatechnologies/neurula-patient-backend/internal/infrastructure/auth"
	"github.com/neurulatechnologies/neurula-patient-backend/internal/infrastructure/database"
	"github.com/neurulatechnologies/neurula-patient-backend/internal/infrastructure/notifications"
	"github.com/neurulatechnologies/neurula-patient-backend/internal/infrastructure/repositories"
	"github.com/neurulatechnologies/neurula-patient-backend/internal/services"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config
	Logger *slog.Logger

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client
	CasbinSvc   *auth.CasbinService

	// Repositories
	UserRepo    domain.UserRepository
	PatientRepo domain.PatientRepository
	DoctorRepo  domain.DoctorRepository

	// Services
	PasswordSvc domain.PasswordService
	TokenSvc    domain.TokenService
	Notifier    domain.NotificationService
	OTPSvc      domain.OTPService
	AuthSvc     domain.AuthService
	PatientSvc  domain.PatientService
	DoctorSvc   domain.DoctorService

	// HTTP layer
	AuthHandlers    *handlers.AuthHandlers
	PatientHandlers *handlers.PatientHandlers
	DoctorHandlers  *handlers.DoctorHandlers
	AuthMW          *middleware.AuthMW
	CasbinMW        *middleware.CasbinMW
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	container := &Container{Config: cfg, Logger: logger}

	// Initialize infrastructure
	if err := container.initDatabase(); err != nil {
		return nil, err
	}
	if err := container.initRedis(); err != nil {
		return nil, err
	}

	// Initialize repositories
	container.initRepositories()

	// Initialize services
	if err := container.initServices(); err != nil {
		return nil, err
	}

	// Initialize HTTP layer
	container.initHTTP()

	return container, nil
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	c.DB = db

	casbinSvc, err := auth.NewCasbinService(db, c.Config.CasbinModelPath)
	if err != nil {
		return fmt.Errorf("failed to initialize casbin: %w", err)
	}
	c.CasbinSvc = casbinSvc
	return nil
}

func (c *Container) initRedis() error {
	rdb := database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx); err != nil {
		return fmt.Errorf("failed to connect to redis at %s: %w", c.Config.RedisAddr, err)
	}

	c.RedisClient = rdb.Client
	return nil
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository(c.DB)
	c.PatientRepo = repositories.NewPatientRepository(c.DB)
	c.DoctorRepo = repositories.NewDoctorRepository(c.DB)
}

func (c *Container) initServices() error {
	c.PasswordSvc = auth.NewPasswordService(c.Config.PasswordMinLength)

	tokenSvc, err := auth.NewJWTService(
		c.Config.JWTSecret,
		c.Config.JWTIssuer,
		c.Config.JWTAlgorithm,
		c.Config.AccessTTL,
		c.Config.RefreshTTL,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}
	c.TokenSvc = tokenSvc

	notifier, err := c.buildNotifier()
	if err != nil {
		return err
	}
	c.Notifier = notifier

	c.OTPSvc = services.NewOTPService(c.RedisClient, services.OTPConfig{
		Length:           c.Config.OTPLength,
		TTL:              c.Config.OTPTTL,
		MaxAttempts:      c.Config.OTPMaxAttempts,
		ResendCooldown:   c.Config.OTPResendCooldown,
		RateLimitPerHour: c.Config.OTPRatePerHour,
	})

	c.AuthSvc = services.NewAuthService(
		c.UserRepo,
		c.PatientRepo,
		c.PasswordSvc,
		c.TokenSvc,
		c.OTPSvc,
		c.Notifier,
		c.Logger,
		c.Config.OTPTTL,
	)
	c.PatientSvc = services.NewPatientService(c.PatientRepo, c.UserRepo)
	c.DoctorSvc = services.NewDoctorService(c.DoctorRepo)

	return nil
}

// buildNotifier picks the delivery backend. "log" keeps codes in the
// application log for development; "live" routes SMS through Twilio and
// email through the SMTP pool.
func (c *Container) buildNotifier() (domain.NotificationService, error) {
	if c.Config.NotificationMode != "live" {
		return notifications.NewLogNotifier(c.Logger), nil
	}

	smtpSvc, err := notifications.NewSMTPService(notifications.SMTPOptions{
		Host:        c.Config.SMTPHost,
		Port:        c.Config.SMTPPort,
		Username:    c.Config.SMTPUsername,
		Password:    c.Config.SMTPPassword,
		From:        c.Config.SMTPFrom,
		MaxConns:    c.Config.SMTPMaxConns,
		SendTimeout: c.Config.SMTPSendTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize smtp sender: %w", err)
	}
	smsSvc := notifications.NewTwilioService(
		c.Config.TwilioSID,
		c.Config.TwilioToken,
		c.Config.TwilioFrom,
	)
	return notifications.NewLiveNotifier(smsSvc, smtpSvc), nil
}

func (c *Container) initHTTP() {
	c.AuthHandlers = handlers.NewAuthHandlers(c.AuthSvc)
	c.PatientHandlers = handlers.NewPatientHandlers(c.PatientSvc, c.PatientRepo)
	c.DoctorHandlers = handlers.NewDoctorHandlers(c.DoctorSvc)
	c.AuthMW = middleware.NewAuthMW(c.TokenSvc)
	c.CasbinMW = middleware.NewCasbinMW(c.CasbinSvc)
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
