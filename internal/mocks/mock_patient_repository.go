package mocks

import (
	"context"

	"github.com/neurulatechnologies/neurula-patient-backend/domain"
)

// MockPatientRepository implements domain.PatientRepository for testing.
type MockPatientRepository struct {
	FindByUserIDFunc     func(ctx context.Context, userID string) (*domain.Patient, error)
	FindByIDFunc         func(ctx context.Context, id string) (*domain.Patient, error)
	UpdateFunc           func(ctx context.Context, patient *domain.Patient) error
	EmiratesIDExistsFunc func(ctx context.Context, emiratesID string) (bool, error)
}

// NewMockPatientRepository creates a new MockPatientRepository with default behaviors.
func NewMockPatientRepository() *MockPatientRepository {
	return &MockPatientRepository{}
}

func (m *MockPatientRepository) FindByUserID(ctx context.Context, userID string) (*domain.Patient, error) {
	if m.FindByUserIDFunc != nil {
		return m.FindByUserIDFunc(ctx, userID)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockPatientRepository) FindByID(ctx context.Context, id string) (*domain.Patient, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockPatientRepository) Update(ctx context.Context, patient *domain.Patient) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, patient)
	}
	return nil
}

func (m *MockPatientRepository) EmiratesIDExists(ctx context.Context, emiratesID string) (bool, error) {
	if m.EmiratesIDExistsFunc != nil {
		return m.EmiratesIDExistsFunc(ctx, emiratesID)
	}
	return false, nil
}

// Compile-time interface compliance verification
var _ domain.PatientRepository = (*MockPatientRepository)(nil)
