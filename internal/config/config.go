package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	Issuer     string `yaml:"issuer"`
	Algorithm  string `yaml:"algorithm"`
	AccessTTL  string `yaml:"access_ttl"`
	RefreshTTL string `yaml:"refresh_ttl"`
}

type OTPConfig struct {
	Length           int    `yaml:"length"`
	TTL              string `yaml:"ttl"`
	MaxAttempts      int    `yaml:"max_attempts"`
	ResendCooldown   string `yaml:"resend_cooldown"`
	RateLimitPerHour int    `yaml:"rate_limit_per_hour"`
}

type PasswordConfig struct {
	MinLength int `yaml:"min_length"`
}

type SMTPConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	From        string `yaml:"from"`
	MaxConns    int    `yaml:"max_conns"`
	SendTimeout string `yaml:"send_timeout"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type NotificationsConfig struct {
	// Mode selects delivery: "log" writes codes to the application log,
	// "live" routes through SMTP and Twilio.
	Mode   string       `yaml:"mode"`
	SMTP   SMTPConfig   `yaml:"smtp"`
	Twilio TwilioConfig `yaml:"twilio"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App           AppConfig           `yaml:"app"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	JWT           JWTConfig           `yaml:"jwt"`
	OTP           OTPConfig           `yaml:"otp"`
	Password      PasswordConfig      `yaml:"password"`
	Notifications NotificationsConfig `yaml:"notifications"`
	CORS          CORSConfig          `yaml:"cors"`
	Logging       LoggingConfig       `yaml:"logging"`
	Casbin        CasbinConfig        `yaml:"casbin"`
}

// Config is the flattened runtime configuration handed to the container.
type Config struct {
	AppName    string
	AppVersion string
	Port       string
	GinMode    string

	DSN           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret    string
	JWTIssuer    string
	JWTAlgorithm string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration

	OTPLength         int
	OTPTTL            time.Duration
	OTPMaxAttempts    int
	OTPResendCooldown time.Duration
	OTPRatePerHour    int

	PasswordMinLength int

	NotificationMode string
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	SMTPFrom         string
	SMTPMaxConns     int
	SMTPSendTimeout  time.Duration
	TwilioSID        string
	TwilioToken      string
	TwilioFrom       string

	CORSAllowedOrigins []string

	LogLevel      string
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool

	CasbinModelPath string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// Load reads the YAML config file, applies environment overrides for
// deploy-time values and secrets, and validates the result.
func Load() (*Config, error) {
	path := env("CONFIG_FILE_PATH", "config/config.yml")
	file, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	accessTTL, err := time.ParseDuration(file.JWT.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT access TTL: %w", err)
	}
	refreshTTL, err := time.ParseDuration(file.JWT.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT refresh TTL: %w", err)
	}
	otpTTL, err := time.ParseDuration(file.OTP.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP TTL: %w", err)
	}
	resendCooldown, err := time.ParseDuration(file.OTP.ResendCooldown)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP resend cooldown: %w", err)
	}
	sendTimeout := 10 * time.Second
	if file.Notifications.SMTP.SendTimeout != "" {
		sendTimeout, err = time.ParseDuration(file.Notifications.SMTP.SendTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP send timeout: %w", err)
		}
	}

	cfg := &Config{
		AppName:    file.App.Name,
		AppVersion: file.App.Version,
		Port:       env("PORT", strconv.Itoa(file.App.Port)),
		GinMode:    env("GIN_MODE", file.App.GinMode),

		DSN:           env("DATABASE_DSN", file.Database.DSN),
		RedisAddr:     env("REDIS_ADDR", file.Redis.Addr),
		RedisPassword: env("REDIS_PASSWORD", file.Redis.Password),
		RedisDB:       envInt("REDIS_DB", file.Redis.DB),

		JWTSecret:    env("JWT_SECRET_KEY", file.JWT.Secret),
		JWTIssuer:    file.JWT.Issuer,
		JWTAlgorithm: file.JWT.Algorithm,
		AccessTTL:    accessTTL,
		RefreshTTL:   refreshTTL,

		OTPLength:         file.OTP.Length,
		OTPTTL:            otpTTL,
		OTPMaxAttempts:    file.OTP.MaxAttempts,
		OTPResendCooldown: resendCooldown,
		OTPRatePerHour:    file.OTP.RateLimitPerHour,

		PasswordMinLength: file.Password.MinLength,

		NotificationMode: env("NOTIFICATION_MODE", file.Notifications.Mode),
		SMTPHost:         file.Notifications.SMTP.Host,
		SMTPPort:         file.Notifications.SMTP.Port,
		SMTPUsername:     file.Notifications.SMTP.Username,
		SMTPPassword:     env("SMTP_PASSWORD", file.Notifications.SMTP.Password),
		SMTPFrom:         file.Notifications.SMTP.From,
		SMTPMaxConns:     file.Notifications.SMTP.MaxConns,
		SMTPSendTimeout:  sendTimeout,
		TwilioSID:        env("TWILIO_ACCOUNT_SID", file.Notifications.Twilio.AccountSID),
		TwilioToken:      env("TWILIO_AUTH_TOKEN", file.Notifications.Twilio.AuthToken),
		TwilioFrom:       env("TWILIO_FROM_NUMBER", file.Notifications.Twilio.FromNumber),

		CORSAllowedOrigins: file.CORS.AllowedOrigins,

		LogLevel:      env("LOG_LEVEL", file.Logging.Level),
		LogFile:       file.Logging.File,
		LogMaxSizeMB:  file.Logging.MaxSizeMB,
		LogMaxBackups: file.Logging.MaxBackups,
		LogMaxAgeDays: file.Logging.MaxAgeDays,
		LogCompress:   file.Logging.Compress,

		CasbinModelPath: file.Casbin.ModelPath,
	}
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.OTPLength == 0 {
		cfg.OTPLength = 6
	}
	if cfg.OTPMaxAttempts == 0 {
		cfg.OTPMaxAttempts = 3
	}
	if cfg.OTPRatePerHour == 0 {
		cfg.OTPRatePerHour = 5
	}
	if cfg.OTPTTL == 0 {
		cfg.OTPTTL = 5 * time.Minute
	}
	if cfg.OTPResendCooldown == 0 {
		cfg.OTPResendCooldown = 30 * time.Second
	}
	if cfg.PasswordMinLength == 0 {
		cfg.PasswordMinLength = 8
	}
	if cfg.JWTAlgorithm == "" {
		cfg.JWTAlgorithm = "HS256"
	}
	if cfg.NotificationMode == "" {
		cfg.NotificationMode = "log"
	}
	if cfg.SMTPMaxConns == 0 {
		cfg.SMTPMaxConns = 4
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.CasbinModelPath == "" {
		cfg.CasbinModelPath = "config/rbac_model.conf"
	}
}

// Validate rejects configurations the service must not start with.
func (c *Config) Validate() error {
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("jwt secret must be at least 32 characters, got %d", len(c.JWTSecret))
	}
	switch c.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported jwt algorithm %q", c.JWTAlgorithm)
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	if c.OTPLength < 4 {
		return fmt.Errorf("otp length must be at least 4, got %d", c.OTPLength)
	}
	if c.OTPTTL <= 0 {
		return fmt.Errorf("otp ttl must be positive")
	}
	if c.OTPMaxAttempts < 1 {
		return fmt.Errorf("otp max attempts must be at least 1")
	}
	if c.OTPRatePerHour < 1 {
		return fmt.Errorf("otp rate limit must be at least 1 per hour")
	}
	if c.PasswordMinLength < 8 {
		return fmt.Errorf("password min length must be at least 8, got %d", c.PasswordMinLength)
	}
	switch c.NotificationMode {
	case "log", "live":
	default:
		return fmt.Errorf("unknown notification mode %q", c.NotificationMode)
	}
	return nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
