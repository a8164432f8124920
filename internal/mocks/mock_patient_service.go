package mocks

import (
	"context"

	"github.com/neurulatechnologies/neurula-patient-backend/domain"
)

// MockPatientService implements domain.PatientService for testing.
type MockPatientService struct {
	GetByUserIDFunc   func(ctx context.Context, userID string) (*domain.Patient, error)
	GetByIDFunc       func(ctx context.Context, requesterID string, requesterRole domain.Role, patientID string) (*domain.Patient, error)
	UpdateProfileFunc func(ctx context.Context, userID string, update domain.PatientUpdate) (*domain.Patient, error)
	DeleteAccountFunc func(ctx context.Context, userID string) error
}

// NewMockPatientService creates a new MockPatientService with default behaviors.
func NewMockPatientService() *MockPatientService {
	return &MockPatientService{}
}

func mockPatient(userID string) *domain.Patient {
	return &domain.Patient{
		ID:     "patient-1",
		UserID: userID,
		Gender: domain.GenderFemale,
	}
}

func (m *MockPatientService) GetByUserID(ctx context.Context, userID string) (*domain.Patient, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	return mockPatient(userID), nil
}

func (m *MockPatientService) GetByID(ctx context.Context, requesterID string, requesterRole domain.Role, patientID string) (*domain.Patient, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, requesterID, requesterRole, patientID)
	}
	p := mockPatient(requesterID)
	p.ID = patientID
	return p, nil
}

func (m *MockPatientService) UpdateProfile(ctx context.Context, userID string, update domain.PatientUpdate) (*domain.Patient, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, userID, update)
	}
	return mockPatient(userID), nil
}

func (m *MockPatientService) DeleteAccount(ctx context.Context, userID string) error {
	if m.DeleteAccountFunc != nil {
		return m.DeleteAccountFunc(ctx, userID)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.PatientService = (*MockPatientService)(nil)
