package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/neurulatechnologies/neurula-patient-backend/domain"
)

// PatientRepositoryImpl implements domain.PatientRepository using GORM.
type PatientRepositoryImpl struct {
	db *gorm.DB
}

// DBPatient is the database model for Patient. Identification numbers
// are stored as pointers so absent values do not collide on the unique
// indexes.
type DBPatient struct {
	ID                    string  `gorm:"primaryKey;size:36"`
	UserID                string  `gorm:"uniqueIndex;size:36;not null"`
	DateOfBirth           *time.Time
	Gender                string  `gorm:"size:16"`
	Nationality           string  `gorm:"size:100"`
	EmiratesID            *string `gorm:"uniqueIndex;size:20"`
	PassportNumber        *string `gorm:"uniqueIndex;size:50"`
	HeightCM              float64
	WeightKG              float64
	BloodGroup            string `gorm:"size:5"`
	Emirate               string `gorm:"size:100"`
	City                  string `gorm:"size:100"`
	Address               string `gorm:"type:text"`
	MedicalConditions     string `gorm:"type:text"`
	Allergies             string `gorm:"type:text"`
	Medications           string `gorm:"type:text"`
	EmergencyContactName  string `gorm:"size:255"`
	EmergencyContactPhone string `gorm:"size:20"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
	DeletedAt             gorm.DeletedAt `gorm:"index"`
}

func (DBPatient) TableName() string { return "patients" }

// BeforeCreate assigns a UUID primary key when none was provided.
func (p *DBPatient) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// NewPatientRepository creates a new patient repository.
func NewPatientRepository(db *gorm.DB) *PatientRepositoryImpl {
	return &PatientRepositoryImpl{db: db}
}

// FindByUserID implements domain.PatientRepository.
func (r *PatientRepositoryImpl) FindByUserID(ctx context.Context, userID string) (*domain.Patient, error) {
	var dbPatient DBPatient
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&dbPatient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.NewStoreError("patients.find_by_user_id", err)
	}
	return patientToDomain(&dbPatient), nil
}

// FindByID implements domain.PatientRepository.
func (r *PatientRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Patient, error) {
	var dbPatient DBPatient
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbPatient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.NewStoreError("patients.find_by_id", err)
	}
	return patientToDomain(&dbPatient), nil
}

// Update implements domain.PatientRepository.
func (r *PatientRepositoryImpl) Update(ctx context.Context, patient *domain.Patient) error {
	if err := r.db.WithContext(ctx).Save(patientToDB(patient)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateIdentity
		}
		return domain.NewStoreError("patients.update", err)
	}
	return nil
}

// EmiratesIDExists implements domain.PatientRepository. Only rows that
// are not soft-deleted count.
func (r *PatientRepositoryImpl) EmiratesIDExists(ctx context.Context, emiratesID string) (bool, error) {
	if emiratesID == "" {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&DBPatient{}).
		Where("emirates_id = ?", emiratesID).
		Count(&count).Error
	if err != nil {
		return false, domain.NewStoreError("patients.emirates_id_exists", err)
	}
	return count > 0, nil
}

func patientToDB(patient *domain.Patient) *DBPatient {
	return &DBPatient{
		ID:                    patient.ID,
		UserID:                patient.UserID,
		DateOfBirth:           patient.DateOfBirth,
		Gender:                patient.Gender,
		Nationality:           patient.Nationality,
		EmiratesID:            optional(patient.EmiratesID),
		PassportNumber:        optional(patient.PassportNumber),
		HeightCM:              patient.HeightCM,
		WeightKG:              patient.WeightKG,
		BloodGroup:            patient.BloodGroup,
		Emirate:               patient.Emirate,
		City:                  patient.City,
		Address:               patient.Address,
		MedicalConditions:     patient.MedicalConditions,
		Allergies:             patient.Allergies,
		Medications:           patient.Medications,
		EmergencyContactName:  patient.EmergencyContactName,
		EmergencyContactPhone: patient.EmergencyContactPhone,
		CreatedAt:             patient.CreatedAt,
	}
}

func patientToDomain(dbPatient *DBPatient) *domain.Patient {
	return &domain.Patient{
		ID:                    dbPatient.ID,
		UserID:                dbPatient.UserID,
		DateOfBirth:           dbPatient.DateOfBirth,
		Gender:                dbPatient.Gender,
		Nationality:           dbPatient.Nationality,
		EmiratesID:            fromOptional(dbPatient.EmiratesID),
		PassportNumber:        fromOptional(dbPatient.PassportNumber),
		HeightCM:              dbPatient.HeightCM,
		WeightKG:              dbPatient.WeightKG,
		BloodGroup:            dbPatient.BloodGroup,
		Emirate:               dbPatient.Emirate,
		City:                  dbPatient.City,
		Address:               dbPatient.Address,
		MedicalConditions:     dbPatient.MedicalConditions,
		Allergies:             dbPatient.Allergies,
		Medications:           dbPatient.Medications,
		EmergencyContactName:  dbPatient.EmergencyContactName,
		EmergencyContactPhone: dbPatient.EmergencyContactPhone,
		CreatedAt:             dbPatient.CreatedAt,
		UpdatedAt:             dbPatient.UpdatedAt,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func fromOptional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ domain.PatientRepository = (*PatientRepositoryImpl)(nil)
