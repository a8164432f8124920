package services

import (
	"context"

	"github.com/neurulatechnologies/neurula-patient-backend/domain"
)

// DoctorServiceImpl implements domain.DoctorService. The directory is
// read-only; doctor rows are managed out of band.
type DoctorServiceImpl struct {
	doctorRepo domain.DoctorRepository
}

var _ domain.DoctorService = (*DoctorServiceImpl)(nil)

// NewDoctorService creates a new doctor directory service.
func NewDoctorService(doctorRepo domain.DoctorRepository) *DoctorServiceImpl {
	return &DoctorServiceImpl{doctorRepo: doctorRepo}
}

// Get returns one directory entry.
func (s *DoctorServiceImpl) Get(ctx context.Context, id string) (*domain.Doctor, error) {
	return s.doctorRepo.FindByID(ctx, id)
}

// Search lists verified doctors matching the filter.
func (s *DoctorServiceImpl) Search(ctx context.Context, filter domain.DoctorFilter) ([]*domain.Doctor, int64, error) {
	return s.doctorRepo.List(ctx, filter)
}

// Specialties returns the distinct specialties present in the directory.
func (s *DoctorServiceImpl) Specialties(ctx context.Context) ([]string, error) {
	return s.doctorRepo.Specialties(ctx)
}
