package mocks

import (
	"context"
	"time"

	"github.com/neurulatechnologies/neurula-patient-backend/domain"
)

// MockOTPService implements domain.OTPService for testing.
type MockOTPService struct {
	GenerateFunc  func(ctx context.Context, identifier string) (*domain.OTPIssue, error)
	VerifyFunc    func(ctx context.Context, identifier, code string) error
	CanResendFunc func(ctx context.Context, identifier string) (bool, int64, error)
}

// NewMockOTPService creates a new MockOTPService with default behaviors.
func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

func (m *MockOTPService) Generate(ctx context.Context, identifier string) (*domain.OTPIssue, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, identifier)
	}
	return &domain.OTPIssue{
		Identifier: identifier,
		Code:       "123456",
		ExpiresAt:  time.Now().Add(5 * time.Minute),
	}, nil
}

// Verify accepts "123456" unless overridden.
func (m *MockOTPService) Verify(ctx context.Context, identifier, code string) error {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, identifier, code)
	}
	if code != "123456" {
		return &domain.OTPInvalidError{AttemptsRemaining: 2}
	}
	return nil
}

func (m *MockOTPService) CanResend(ctx context.Context, identifier string) (bool, int64, error) {
	if m.CanResendFunc != nil {
		return m.CanResendFunc(ctx, identifier)
	}
	return true, 0, nil
}

// Compile-time interface compliance verification
var _ domain.OTPService = (*MockOTPService)(nil)
