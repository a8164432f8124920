package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/neurulatechnologies/neurula-patient-backend/domain"
)

// DoctorRepositoryImpl implements domain.DoctorRepository using GORM.
type DoctorRepositoryImpl struct {
	db *gorm.DB
}

// DBDoctor is the database model for Doctor.
type DBDoctor struct {
	ID                  string   `gorm:"primaryKey;size:36"`
	UserID              string   `gorm:"uniqueIndex;size:36;not null"`
	Specialty           string   `gorm:"index;size:255;not null"`
	SubSpecialty        string   `gorm:"size:255"`
	LicenseNumber       string   `gorm:"uniqueIndex;size:100;not null"`
	YearsOfExperience   int
	HospitalAffiliation string   `gorm:"size:255"`
	ClinicName          string   `gorm:"size:255"`
	ClinicAddress       string   `gorm:"type:text"`
	Location            string   `gorm:"index;size:255"`
	ConsultationFee     float64
	Languages           []string `gorm:"serializer:json"`
	Bio                 string   `gorm:"type:text"`
	IsAcceptingPatients bool
	Verified            bool `gorm:"index"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           gorm.DeletedAt `gorm:"index"`
}

func (DBDoctor) TableName() string { return "doctors" }

// BeforeCreate assigns a UUID primary key when none was provided.
func (d *DBDoctor) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// NewDoctorRepository creates a new doctor repository.
func NewDoctorRepository(db *gorm.DB) *DoctorRepositoryImpl {
	return &DoctorRepositoryImpl{db: db}
}

// FindByID implements domain.DoctorRepository.
func (r *DoctorRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Doctor, error) {
	var dbDoctor DBDoctor
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbDoctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.NewStoreError("doctors.find_by_id", err)
	}

	doctor := doctorToDomain(&dbDoctor)
	names, err := r.userNames(ctx, []string{dbDoctor.UserID})
	if err != nil {
		return nil, err
	}
	doctor.FullName = names[dbDoctor.UserID]
	return doctor, nil
}

// List implements domain.DoctorRepository. Only verified directory
// entries are returned, ordered by listing age, newest first.
func (r *DoctorRepositoryImpl) List(ctx context.Context, filter domain.DoctorFilter) ([]*domain.Doctor, int64, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	q := r.db.WithContext(ctx).Model(&DBDoctor{}).Where("verified = ?", true)
	if filter.Specialty != "" {
		q = q.Where("LOWER(specialty) LIKE LOWER(?)", "%"+filter.Specialty+"%")
	}
	if filter.Location != "" {
		q = q.Where("LOWER(location) LIKE LOWER(?)", "%"+filter.Location+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, domain.NewStoreError("doctors.count", err)
	}

	var dbDoctors []DBDoctor
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&dbDoctors).Error
	if err != nil {
		return nil, 0, domain.NewStoreError("doctors.list", err)
	}

	userIDs := make([]string, 0, len(dbDoctors))
	for i := range dbDoctors {
		userIDs = append(userIDs, dbDoctors[i].UserID)
	}
	names, err := r.userNames(ctx, userIDs)
	if err != nil {
		return nil, 0, err
	}

	doctors := make([]*domain.Doctor, 0, len(dbDoctors))
	for i := range dbDoctors {
		doctor := doctorToDomain(&dbDoctors[i])
		doctor.FullName = names[dbDoctors[i].UserID]
		doctors = append(doctors, doctor)
	}
	return doctors, total, nil
}

// Specialties implements domain.DoctorRepository.
func (r *DoctorRepositoryImpl) Specialties(ctx context.Context) ([]string, error) {
	var specialties []string
	err := r.db.WithContext(ctx).Model(&DBDoctor{}).
		Where("verified = ?", true).
		Distinct().
		Order("specialty ASC").
		Pluck("specialty", &specialties).Error
	if err != nil {
		return nil, domain.NewStoreError("doctors.specialties", err)
	}
	return specialties, nil
}

// userNames resolves display names for a set of user IDs in one query.
func (r *DoctorRepositoryImpl) userNames(ctx context.Context, userIDs []string) (map[string]string, error) {
	names := make(map[string]string, len(userIDs))
	if len(userIDs) == 0 {
		return names, nil
	}

	var users []DBUser
	err := r.db.WithContext(ctx).
		Select("id", "full_name").
		Where("id IN ?", userIDs).
		Find(&users).Error
	if err != nil {
		return nil, domain.NewStoreError("doctors.user_names", err)
	}
	for i := range users {
		names[users[i].ID] = users[i].FullName
	}
	return names, nil
}

func doctorToDomain(dbDoctor *DBDoctor) *domain.Doctor {
	return &domain.Doctor{
		ID:                  dbDoctor.ID,
		UserID:              dbDoctor.UserID,
		Specialty:           dbDoctor.Specialty,
		SubSpecialty:        dbDoctor.SubSpecialty,
		LicenseNumber:       dbDoctor.LicenseNumber,
		YearsOfExperience:   dbDoctor.YearsOfExperience,
		HospitalAffiliation: dbDoctor.HospitalAffiliation,
		ClinicName:          dbDoctor.ClinicName,
		ClinicAddress:       dbDoctor.ClinicAddress,
		Location:            dbDoctor.Location,
		ConsultationFee:     dbDoctor.ConsultationFee,
		Languages:           dbDoctor.Languages,
		Bio:                 dbDoctor.Bio,
		IsAcceptingPatients: dbDoctor.IsAcceptingPatients,
		Verified:            dbDoctor.Verified,
		CreatedAt:           dbDoctor.CreatedAt,
		UpdatedAt:           dbDoctor.UpdatedAt,
	}
}

var _ domain.DoctorRepository = (*DoctorRepositoryImpl)(nil)
