package mocks

import (
	"context"
	"time"

	"github.com/neurulatechnologies/neurula-patient-backend/domain"
)

// MockAuthService implements domain.AuthService for testing.
type MockAuthService struct {
	RegisterFunc       func(ctx context.Context, input domain.RegisterInput) (*domain.RegistrationResult, error)
	VerifyOTPFunc      func(ctx context.Context, identifier, code string) (*domain.AuthResult, error)
	ResendOTPFunc      func(ctx context.Context, identifier string) error
	LoginFunc          func(ctx context.Context, identifier, password string, rememberMe bool) (*domain.AuthResult, error)
	RefreshFunc        func(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	ChangePasswordFunc func(ctx context.Context, userID, oldPassword, newPassword string) error
	ForgotPasswordFunc func(ctx context.Context, email string) error
	ResetPasswordFunc  func(ctx context.Context, email, code, newPassword string) error
	GetProfileFunc     func(ctx context.Context, userID string) (*domain.User, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors.
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func mockTokenPair() *domain.TokenPair {
	return &domain.TokenPair{
		AccessToken:  "mock_access_token",
		RefreshToken: "mock_refresh_token",
		TokenType:    "bearer",
		ExpiresIn:    900,
	}
}

func mockUser() *domain.User {
	return &domain.User{
		ID:            "user-1",
		Email:         "test@example.com",
		Phone:         "+971501234567",
		FullName:      "Test User",
		Role:          domain.RolePatient,
		IsActive:      true,
		IsVerified:    true,
		EmailVerified: true,
		CreatedAt:     time.Now().Add(-24 * time.Hour),
		UpdatedAt:     time.Now(),
	}
}

func (m *MockAuthService) Register(ctx context.Context, input domain.RegisterInput) (*domain.RegistrationResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, input)
	}
	user := mockUser()
	user.Email = input.Email
	user.Phone = input.Phone
	user.FullName = input.FullName
	user.IsVerified = false
	user.EmailVerified = false
	return &domain.RegistrationResult{
		User:    user,
		Patient: &domain.Patient{ID: "patient-1", UserID: user.ID},
		OTPSent: true,
	}, nil
}

func (m *MockAuthService) VerifyOTP(ctx context.Context, identifier, code string) (*domain.AuthResult, error) {
	if m.VerifyOTPFunc != nil {
		return m.VerifyOTPFunc(ctx, identifier, code)
	}
	return &domain.AuthResult{User: mockUser(), Tokens: mockTokenPair()}, nil
}

func (m *MockAuthService) ResendOTP(ctx context.Context, identifier string) error {
	if m.ResendOTPFunc != nil {
		return m.ResendOTPFunc(ctx, identifier)
	}
	return nil
}

func (m *MockAuthService) Login(ctx context.Context, identifier, password string, rememberMe bool) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, identifier, password, rememberMe)
	}
	return &domain.AuthResult{User: mockUser(), Tokens: mockTokenPair()}, nil
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return mockTokenPair(), nil
}

func (m *MockAuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, userID, oldPassword, newPassword)
	}
	return nil
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) error {
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(ctx, email)
	}
	return nil
}

func (m *MockAuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, email, code, newPassword)
	}
	return nil
}

func (m *MockAuthService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, userID)
	}
	user := mockUser()
	user.ID = userID
	return user, nil
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
