package mocks

import (
	"context"

	"github.com/neurulatechnologies/neurula-patient-backend/domain"
)

// MockDoctorService implements domain.DoctorService for testing.
type MockDoctorService struct {
	GetFunc         func(ctx context.Context, id string) (*domain.Doctor, error)
	SearchFunc      func(ctx context.Context, filter domain.DoctorFilter) ([]*domain.Doctor, int64, error)
	SpecialtiesFunc func(ctx context.Context) ([]string, error)
}

// NewMockDoctorService creates a new MockDoctorService with default behaviors.
func NewMockDoctorService() *MockDoctorService {
	return &MockDoctorService{}
}

func (m *MockDoctorService) Get(ctx context.Context, id string) (*domain.Doctor, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return &domain.Doctor{
		ID:        id,
		UserID:    "user-2",
		FullName:  "Dr. Test",
		Specialty: "Cardiology",
		Verified:  true,
	}, nil
}

func (m *MockDoctorService) Search(ctx context.Context, filter domain.DoctorFilter) ([]*domain.Doctor, int64, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *MockDoctorService) Specialties(ctx context.Context) ([]string, error) {
	if m.SpecialtiesFunc != nil {
		return m.SpecialtiesFunc(ctx)
	}
	return []string{"Cardiology"}, nil
}

// Compile-time interface compliance verification
var _ domain.DoctorService = (*MockDoctorService)(nil)
