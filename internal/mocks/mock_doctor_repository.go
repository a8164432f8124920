package mocks

import (
	"context"

	"github.com/neurulatechnologies/neurula-patient-backend/domain"
)

// MockDoctorRepository implements domain.DoctorRepository for testing.
type MockDoctorRepository struct {
	FindByIDFunc    func(ctx context.Context, id string) (*domain.Doctor, error)
	ListFunc        func(ctx context.Context, filter domain.DoctorFilter) ([]*domain.Doctor, int64, error)
	SpecialtiesFunc func(ctx context.Context) ([]string, error)
}

// NewMockDoctorRepository creates a new MockDoctorRepository with default behaviors.
func NewMockDoctorRepository() *MockDoctorRepository {
	return &MockDoctorRepository{}
}

func (m *MockDoctorRepository) FindByID(ctx context.Context, id string) (*domain.Doctor, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockDoctorRepository) List(ctx context.Context, filter domain.DoctorFilter) ([]*domain.Doctor, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *MockDoctorRepository) Specialties(ctx context.Context) ([]string, error) {
	if m.SpecialtiesFunc != nil {
		return m.SpecialtiesFunc(ctx)
	}
	return nil, nil
}

// Compile-time interface compliance verification
var _ domain.DoctorRepository = (*MockDoctorRepository)(nil)
