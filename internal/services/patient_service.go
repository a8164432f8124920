package services

import (
	"context"

	"github.com/neurulatechnologies/neurula-patient-backend/domain"
)

// PatientServiceImpl implements domain.PatientService.
type PatientServiceImpl struct {
	patientRepo domain.PatientRepository
	userRepo    domain.UserRepository
}

var _ domain.PatientService = (*PatientServiceImpl)(nil)

// NewPatientService creates a new patient profile service.
func NewPatientService(patientRepo domain.PatientRepository, userRepo domain.UserRepository) *PatientServiceImpl {
	return &PatientServiceImpl{
		patientRepo: patientRepo,
		userRepo:    userRepo,
	}
}

// GetByUserID returns the profile owned by the given account.
func (s *PatientServiceImpl) GetByUserID(ctx context.Context, userID string) (*domain.Patient, error) {
	return s.patientRepo.FindByUserID(ctx, userID)
}

// GetByID returns a profile by its row ID. Patients may only read their
// own profile; doctors and admins may read any.
func (s *PatientServiceImpl) GetByID(ctx context.Context, requesterID string, requesterRole domain.Role, patientID string) (*domain.Patient, error) {
	patient, err := s.patientRepo.FindByID(ctx, patientID)
	if err != nil {
		return nil, err
	}

	if requesterRole == domain.RolePatient && patient.UserID != requesterID {
		return nil, domain.ErrForbidden
	}
	return patient, nil
}

// UpdateProfile applies the non-nil fields of update to the caller's
// profile and returns the stored result.
func (s *PatientServiceImpl) UpdateProfile(ctx context.Context, userID string, update domain.PatientUpdate) (*domain.Patient, error) {
	patient, err := s.patientRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	applyPatientUpdate(patient, update)

	if err := s.patientRepo.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// DeleteAccount soft-deletes the account and its profile together.
func (s *PatientServiceImpl) DeleteAccount(ctx context.Context, userID string) error {
	return s.userRepo.Delete(ctx, userID)
}

func applyPatientUpdate(p *domain.Patient, u domain.PatientUpdate) {
	if u.DateOfBirth != nil {
		p.DateOfBirth = u.DateOfBirth
	}
	if u.Gender != nil {
		p.Gender = *u.Gender
	}
	if u.Nationality != nil {
		p.Nationality = *u.Nationality
	}
	if u.HeightCM != nil {
		p.HeightCM = *u.HeightCM
	}
	if u.WeightKG != nil {
		p.WeightKG = *u.WeightKG
	}
	if u.BloodGroup != nil {
		p.BloodGroup = *u.BloodGroup
	}
	if u.Emirate != nil {
		p.Emirate = *u.Emirate
	}
	if u.City != nil {
		p.City = *u.City
	}
	if u.Address != nil {
		p.Address = *u.Address
	}
	if u.MedicalConditions != nil {
		p.MedicalConditions = *u.MedicalConditions
	}
	if u.Allergies != nil {
		p.Allergies = *u.Allergies
	}
	if u.Medications != nil {
		p.Medications = *u.Medications
	}
	if u.EmergencyContactName != nil {
		p.EmergencyContactName = *u.EmergencyContactName
	}
	if u.EmergencyContactPhone != nil {
		p.EmergencyContactPhone = *u.EmergencyContactPhone
	}
}
