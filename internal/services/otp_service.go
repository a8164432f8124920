package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/neurulatechnologies/neurula-patient-backend/domain"
)

// Key families in the ephemeral store. All are keyed by the delivery
// identifier (email address or phone number) and expire on their own.
const (
	otpKeyPrefix       = "otp:"
	otpAttemptsPrefix  = "otp_attempts:"
	otpResendPrefix    = "otp_resend:"
	otpRateLimitPrefix = "otp_rate_limit:"
)

// rateLimitWindow bounds how many codes one identifier can request.
const rateLimitWindow = time.Hour

// OTPConfig carries the tunables of the OTP lifecycle.
type OTPConfig struct {
	Length           int
	TTL              time.Duration
	MaxAttempts      int
	ResendCooldown   time.Duration
	RateLimitPerHour int
}

// OTPServiceImpl implements domain.OTPService using Redis persistence.
type OTPServiceImpl struct {
	redisClient *redis.Client
	config      OTPConfig
}

var _ domain.OTPService = (*OTPServiceImpl)(nil)

// NewOTPService creates a new Redis-based OTP service.
func NewOTPService(redisClient *redis.Client, config OTPConfig) *OTPServiceImpl {
	return &OTPServiceImpl{
		redisClient: redisClient,
		config:      config,
	}
}

// Generate issues a fresh code for the identifier. The hourly ceiling is
// checked before the resend cooldown, so a rate-limited caller sees the
// rate error even inside a cooldown window. Any previous live code is
// overwritten and its attempts counter reset to zero.
func (s *OTPServiceImpl) Generate(ctx context.Context, identifier string) (*domain.OTPIssue, error) {
	rateKey := otpRateLimitPrefix + identifier

	sent, err := s.redisClient.Get(ctx, rateKey).Int()
	if err != nil && err != redis.Nil {
		return nil, domain.NewStoreError("otp.rate_check", err)
	}
	if sent >= s.config.RateLimitPerHour {
		return nil, domain.ErrOTPRateLimited
	}

	canResend, wait, err := s.CanResend(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if !canResend {
		return nil, &domain.ResendCooldownError{RetryAfter: wait}
	}

	code, err := s.generateSecureCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP code: %w", err)
	}

	if err := s.redisClient.Set(ctx, otpKeyPrefix+identifier, code, s.config.TTL).Err(); err != nil {
		return nil, domain.NewStoreError("otp.store_code", err)
	}
	if err := s.redisClient.Set(ctx, otpAttemptsPrefix+identifier, 0, s.config.TTL).Err(); err != nil {
		return nil, domain.NewStoreError("otp.reset_attempts", err)
	}
	if err := s.redisClient.Set(ctx, otpResendPrefix+identifier, 1, s.config.ResendCooldown).Err(); err != nil {
		return nil, domain.NewStoreError("otp.set_cooldown", err)
	}

	count, err := s.redisClient.Incr(ctx, rateKey).Result()
	if err != nil {
		return nil, domain.NewStoreError("otp.count_send", err)
	}
	if count == 1 {
		if err := s.redisClient.Expire(ctx, rateKey, rateLimitWindow).Err(); err != nil {
			return nil, domain.NewStoreError("otp.expire_rate", err)
		}
	}

	return &domain.OTPIssue{
		Identifier: identifier,
		Code:       code,
		ExpiresAt:  time.Now().Add(s.config.TTL),
	}, nil
}

// Verify checks a submitted code. A code is single-use: both the code
// and its attempts counter are deleted on success and on attempts
// exhaustion, so the next verification requires a fresh resend.
func (s *OTPServiceImpl) Verify(ctx context.Context, identifier, code string) error {
	otpKey := otpKeyPrefix + identifier
	attemptsKey := otpAttemptsPrefix + identifier

	storedCode, err := s.redisClient.Get(ctx, otpKey).Result()
	if err == redis.Nil {
		return domain.ErrOTPNotFound
	}
	if err != nil {
		return domain.NewStoreError("otp.load_code", err)
	}

	// A missing counter counts as zero attempts.
	attempts, err := s.redisClient.Get(ctx, attemptsKey).Result()
	if err != nil && err != redis.Nil {
		return domain.NewStoreError("otp.load_attempts", err)
	}
	used, _ := strconv.Atoi(attempts)
	if used >= s.config.MaxAttempts {
		s.redisClient.Del(ctx, otpKey, attemptsKey)
		return domain.ErrOTPMaxAttempts
	}

	if storedCode != code {
		newCount, err := s.redisClient.Incr(ctx, attemptsKey).Result()
		if err != nil {
			return domain.NewStoreError("otp.count_attempt", err)
		}
		remaining := s.config.MaxAttempts - int(newCount)
		if remaining <= 0 {
			s.redisClient.Del(ctx, otpKey, attemptsKey)
			return domain.ErrOTPMaxAttempts
		}
		return &domain.OTPInvalidError{AttemptsRemaining: remaining}
	}

	if err := s.redisClient.Del(ctx, otpKey, attemptsKey).Err(); err != nil {
		return domain.NewStoreError("otp.consume", err)
	}
	return nil
}

// CanResend reports whether a new code may be requested now and, if
// not, how many seconds remain on the cooldown. It never mutates state.
func (s *OTPServiceImpl) CanResend(ctx context.Context, identifier string) (bool, int64, error) {
	ttl, err := s.redisClient.TTL(ctx, otpResendPrefix+identifier).Result()
	if err != nil {
		return false, 0, domain.NewStoreError("otp.cooldown_check", err)
	}

	// TTL <= 0 means the marker is gone or was never set.
	if ttl <= 0 {
		return true, 0, nil
	}

	wait := int64(ttl.Seconds())
	if wait < 1 {
		wait = 1
	}
	return false, wait, nil
}

// generateSecureCode draws each digit independently from crypto/rand,
// so leading zeros are as likely as any other digit.
func (s *OTPServiceImpl) generateSecureCode() (string, error) {
	digits := make([]byte, s.config.Length)

	for i := 0; i < s.config.Length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}

	return string(digits), nil
}
