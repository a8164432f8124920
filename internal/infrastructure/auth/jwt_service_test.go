package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/neurulatechnologies/neurula-patient-backend/domain"
)

const testSecret = "test-secret-key-with-32-characters!"

func newTestJWTService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService(testSecret, "neurula-test", "HS256", 15*time.Minute, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("NewJWTService returned error: %v", err)
	}
	return svc
}

func TestNewJWTService_RejectsWeakConfig(t *testing.T) {
	tests := []struct {
		name      string
		secret    string
		algorithm string
		wantErr   bool
	}{
		{name: "valid", secret: testSecret, algorithm: "HS256", wantErr: false},
		{name: "short secret", secret: "too-short", algorithm: "HS256", wantErr: true},
		{name: "31 bytes", secret: strings.Repeat("a", 31), algorithm: "HS256", wantErr: true},
		{name: "exactly 32 bytes", secret: strings.Repeat("a", 32), algorithm: "HS256", wantErr: false},
		{name: "HS384", secret: testSecret, algorithm: "HS384", wantErr: false},
		{name: "HS512", secret: testSecret, algorithm: "HS512", wantErr: false},
		{name: "asymmetric refused", secret: testSecret, algorithm: "RS256", wantErr: true},
		{name: "none refused", secret: testSecret, algorithm: "none", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewJWTService(tt.secret, "iss", tt.algorithm, time.Minute, time.Hour)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewJWTService() error = %v, wantErr %t", err, tt.wantErr)
			}
		})
	}
}

func TestGeneratePair_RoundTrip(t *testing.T) {
	svc := newTestJWTService(t)

	pair, err := svc.GeneratePair("user-123", "user@example.com", domain.RolePatient)
	if err != nil {
		t.Fatalf("GeneratePair returned error: %v", err)
	}

	if pair.TokenType != "bearer" {
		t.Errorf("token type = %q, want bearer", pair.TokenType)
	}
	if pair.ExpiresIn != int64((15 * time.Minute).Seconds()) {
		t.Errorf("expires_in = %d, want %d", pair.ExpiresIn, int64((15*time.Minute).Seconds()))
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Error("access and refresh tokens must differ")
	}

	access, err := svc.ValidateAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccessToken returned error: %v", err)
	}
	if access.UserID != "user-123" {
		t.Errorf("access claims user = %q, want user-123", access.UserID)
	}
	if access.Email != "user@example.com" {
		t.Errorf("access claims email = %q, want user@example.com", access.Email)
	}
	if access.Role != domain.RolePatient {
		t.Errorf("access claims role = %q, want patient", access.Role)
	}
	if access.TokenType != "access" {
		t.Errorf("access claims type = %q, want access", access.TokenType)
	}

	refresh, err := svc.ValidateRefreshToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("ValidateRefreshToken returned error: %v", err)
	}
	if refresh.UserID != "user-123" {
		t.Errorf("refresh claims user = %q, want user-123", refresh.UserID)
	}
	if refresh.TokenType != "refresh" {
		t.Errorf("refresh claims type = %q, want refresh", refresh.TokenType)
	}
	if refresh.Email != "" || refresh.Role != "" {
		t.Errorf("refresh token should carry only the subject, got email=%q role=%q", refresh.Email, refresh.Role)
	}
	if refresh.ExpiresAt <= access.ExpiresAt {
		t.Error("refresh token should outlive the access token")
	}
}

func TestValidate_TypeConfusionRejected(t *testing.T) {
	svc := newTestJWTService(t)
	pair, err := svc.GeneratePair("user-123", "user@example.com", domain.RolePatient)
	if err != nil {
		t.Fatalf("GeneratePair returned error: %v", err)
	}

	if _, err := svc.ValidateRefreshToken(pair.AccessToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("access token accepted as refresh, err = %v", err)
	}
	if _, err := svc.ValidateAccessToken(pair.RefreshToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("refresh token accepted as access, err = %v", err)
	}
}

func TestValidate_TamperedTokenRejected(t *testing.T) {
	svc := newTestJWTService(t)
	pair, err := svc.GeneratePair("user-123", "user@example.com", domain.RolePatient)
	if err != nil {
		t.Fatalf("GeneratePair returned error: %v", err)
	}

	tampered := pair.AccessToken[:len(pair.AccessToken)-4] + "XXXX"
	if _, err := svc.ValidateAccessToken(tampered); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("tampered token accepted, err = %v", err)
	}

	if _, err := svc.ValidateAccessToken("not-a-jwt"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("garbage token accepted, err = %v", err)
	}
	if _, err := svc.ValidateAccessToken(""); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("empty token accepted, err = %v", err)
	}
}

func TestValidate_DifferentSecretRejected(t *testing.T) {
	svc := newTestJWTService(t)
	other, err := NewJWTService(strings.Repeat("x", 32), "neurula-test", "HS256", 15*time.Minute, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("NewJWTService returned error: %v", err)
	}

	pair, err := other.GeneratePair("user-123", "user@example.com", domain.RolePatient)
	if err != nil {
		t.Fatalf("GeneratePair returned error: %v", err)
	}

	if _, err := svc.ValidateAccessToken(pair.AccessToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("token signed with another secret accepted, err = %v", err)
	}
}

func TestValidate_ExpiredTokenRejected(t *testing.T) {
	svc, err := NewJWTService(testSecret, "neurula-test", "HS256", -time.Minute, -time.Minute)
	if err != nil {
		t.Fatalf("NewJWTService returned error: %v", err)
	}

	pair, err := svc.GeneratePair("user-123", "user@example.com", domain.RolePatient)
	if err != nil {
		t.Fatalf("GeneratePair returned error: %v", err)
	}

	if _, err := svc.ValidateAccessToken(pair.AccessToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expired token accepted, err = %v", err)
	}
	if _, err := svc.ValidateRefreshToken(pair.RefreshToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expired refresh token accepted, err = %v", err)
	}
}

func TestGeneratePair_TokensAreUnique(t *testing.T) {
	svc := newTestJWTService(t)

	first, err := svc.GeneratePair("user-123", "user@example.com", domain.RolePatient)
	if err != nil {
		t.Fatalf("GeneratePair returned error: %v", err)
	}
	second, err := svc.GeneratePair("user-123", "user@example.com", domain.RolePatient)
	if err != nil {
		t.Fatalf("GeneratePair returned error: %v", err)
	}

	if first.AccessToken == second.AccessToken {
		t.Error("two access tokens for the same user should differ")
	}
	if first.RefreshToken == second.RefreshToken {
		t.Error("two refresh tokens for the same user should differ")
	}
}
