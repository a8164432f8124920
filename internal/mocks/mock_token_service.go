package mocks

import (
	"time"

	"github.com/neurulatechnologies/neurula-patient-backend/domain"
)

// MockTokenService implements domain.TokenService for testing.
type MockTokenService struct {
	GeneratePairFunc         func(userID, email string, role domain.Role) (*domain.TokenPair, error)
	ValidateAccessTokenFunc  func(token string) (*domain.TokenClaims, error)
	ValidateRefreshTokenFunc func(token string) (*domain.TokenClaims, error)
}

// NewMockTokenService creates a new MockTokenService with default behaviors.
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

func (m *MockTokenService) GeneratePair(userID, email string, role domain.Role) (*domain.TokenPair, error) {
	if m.GeneratePairFunc != nil {
		return m.GeneratePairFunc(userID, email, role)
	}
	return &domain.TokenPair{
		AccessToken:  "access_" + userID,
		RefreshToken: "refresh_" + userID,
		TokenType:    "bearer",
		ExpiresIn:    900,
	}, nil
}

func (m *MockTokenService) ValidateAccessToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateAccessTokenFunc != nil {
		return m.ValidateAccessTokenFunc(token)
	}
	if token == "" {
		return nil, domain.ErrTokenInvalid
	}
	now := time.Now().Unix()
	return &domain.TokenClaims{
		UserID:    "user-1",
		Email:     "user@example.com",
		Role:      domain.RolePatient,
		TokenType: "access",
		IssuedAt:  now,
		ExpiresAt: now + 900,
	}, nil
}

func (m *MockTokenService) ValidateRefreshToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateRefreshTokenFunc != nil {
		return m.ValidateRefreshTokenFunc(token)
	}
	if token == "" {
		return nil, domain.ErrTokenInvalid
	}
	now := time.Now().Unix()
	return &domain.TokenClaims{
		UserID:    "user-1",
		TokenType: "refresh",
		IssuedAt:  now,
		ExpiresAt: now + 604800,
	}, nil
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)
