package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validYAML = `
app:
  name: neurula-patient-backend
  version: 1.0.0
  port: 8000
  gin_mode: test

database:
  dsn: "file::memory:?cache=shared"

redis:
  addr: "localhost:6379"
  db: 0

jwt:
  secret: "0123456789abcdef0123456789abcdef"
  issuer: neurula
  algorithm: HS256
  access_ttl: 15m
  refresh_ttl: 168h

otp:
  length: 6
  ttl: 5m
  max_attempts: 3
  resend_cooldown: 30s
  rate_limit_per_hour: 5

password:
  min_length: 8

notifications:
  mode: log

logging:
  level: info
`

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoad_ValidFile(t *testing.T) {
	path := writeConfigFile(t, validYAML)
	t.Setenv("CONFIG_FILE_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("expected port 8000, got %s", cfg.Port)
	}
	if cfg.AccessTTL != 15*time.Minute {
		t.Errorf("expected 15m access TTL, got %s", cfg.AccessTTL)
	}
	if cfg.RefreshTTL != 168*time.Hour {
		t.Errorf("expected 168h refresh TTL, got %s", cfg.RefreshTTL)
	}
	if cfg.OTPTTL != 5*time.Minute {
		t.Errorf("expected 5m OTP TTL, got %s", cfg.OTPTTL)
	}
	if cfg.OTPResendCooldown != 30*time.Second {
		t.Errorf("expected 30s resend cooldown, got %s", cfg.OTPResendCooldown)
	}
	if cfg.OTPRatePerHour != 5 {
		t.Errorf("expected rate limit 5, got %d", cfg.OTPRatePerHour)
	}
	if cfg.NotificationMode != "log" {
		t.Errorf("expected log notification mode, got %s", cfg.NotificationMode)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfigFile(t, validYAML)
	t.Setenv("CONFIG_FILE_PATH", path)
	t.Setenv("PORT", "9100")
	t.Setenv("JWT_SECRET_KEY", "ffffffffffffffffffffffffffffffffffff")
	t.Setenv("REDIS_ADDR", "redis.internal:6380")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Port != "9100" {
		t.Errorf("PORT override not applied, got %s", cfg.Port)
	}
	if cfg.JWTSecret != "ffffffffffffffffffffffffffffffffffff" {
		t.Error("JWT_SECRET_KEY override not applied")
	}
	if cfg.RedisAddr != "redis.internal:6380" {
		t.Errorf("REDIS_ADDR override not applied, got %s", cfg.RedisAddr)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE_PATH", "/nonexistent/config.yml")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			JWTSecret:         "0123456789abcdef0123456789abcdef",
			JWTAlgorithm:      "HS256",
			AccessTTL:         15 * time.Minute,
			RefreshTTL:        168 * time.Hour,
			OTPLength:         6,
			OTPTTL:            5 * time.Minute,
			OTPMaxAttempts:    3,
			OTPRatePerHour:    5,
			PasswordMinLength: 8,
			NotificationMode:  "log",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}, wantErr: false},
		{name: "short secret", mutate: func(c *Config) { c.JWTSecret = "tooshort" }, wantErr: true},
		{name: "31 char secret", mutate: func(c *Config) { c.JWTSecret = "0123456789abcdef0123456789abcde" }, wantErr: true},
		{name: "bad algorithm", mutate: func(c *Config) { c.JWTAlgorithm = "RS256" }, wantErr: true},
		{name: "HS512 allowed", mutate: func(c *Config) { c.JWTAlgorithm = "HS512" }, wantErr: false},
		{name: "zero access ttl", mutate: func(c *Config) { c.AccessTTL = 0 }, wantErr: true},
		{name: "otp too short", mutate: func(c *Config) { c.OTPLength = 3 }, wantErr: true},
		{name: "zero attempts", mutate: func(c *Config) { c.OTPMaxAttempts = 0 }, wantErr: true},
		{name: "zero rate limit", mutate: func(c *Config) { c.OTPRatePerHour = 0 }, wantErr: true},
		{name: "weak password floor", mutate: func(c *Config) { c.PasswordMinLength = 4 }, wantErr: true},
		{name: "unknown notification mode", mutate: func(c *Config) { c.NotificationMode = "carrier-pigeon" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %t", err, tt.wantErr)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	if cfg.OTPLength != 6 {
		t.Errorf("default OTP length = %d, want 6", cfg.OTPLength)
	}
	if cfg.OTPMaxAttempts != 3 {
		t.Errorf("default max attempts = %d, want 3", cfg.OTPMaxAttempts)
	}
	if cfg.OTPRatePerHour != 5 {
		t.Errorf("default rate limit = %d, want 5", cfg.OTPRatePerHour)
	}
	if cfg.OTPTTL != 5*time.Minute {
		t.Errorf("default OTP TTL = %s, want 5m", cfg.OTPTTL)
	}
	if cfg.OTPResendCooldown != 30*time.Second {
		t.Errorf("default resend cooldown = %s, want 30s", cfg.OTPResendCooldown)
	}
	if cfg.PasswordMinLength != 8 {
		t.Errorf("default password min length = %d, want 8", cfg.PasswordMinLength)
	}
	if cfg.JWTAlgorithm != "HS256" {
		t.Errorf("default algorithm = %s, want HS256", cfg.JWTAlgorithm)
	}
	if cfg.NotificationMode != "log" {
		t.Errorf("default notification mode = %s, want log", cfg.NotificationMode)
	}
}
