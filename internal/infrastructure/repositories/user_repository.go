package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/neurulatechnologies/neurula-patient-backend/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM.
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser is the database model for User.
type DBUser struct {
	ID            string `gorm:"primaryKey;size:36"`
	Email         string `gorm:"uniqueIndex;size:255;not null"`
	Phone         string `gorm:"uniqueIndex;size:20"`
	PasswordHash  string `gorm:"size:255;not null"`
	FullName      string `gorm:"size:255;not null"`
	Role          string `gorm:"index;size:32;not null"`
	IsActive      bool
	IsVerified    bool
	EmailVerified bool
	PhoneVerified bool
	LastLoginAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (DBUser) TableName() string { return "users" }

// BeforeCreate assigns a UUID primary key when none was provided.
func (u *DBUser) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *gorm.DB) *UserRepositoryImpl {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository.
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := userToDB(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		return translateUserErr("users.create", err)
	}
	user.ID = dbUser.ID
	user.CreatedAt = dbUser.CreatedAt
	user.UpdatedAt = dbUser.UpdatedAt
	return nil
}

// CreateWithPatient implements domain.UserRepository. The user and the
// patient profile land in one transaction; a failure on either insert
// rolls back both.
func (r *UserRepositoryImpl) CreateWithPatient(ctx context.Context, user *domain.User, patient *domain.Patient) error {
	dbUser := userToDB(user)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(dbUser).Error; err != nil {
			return err
		}
		if patient != nil {
			dbPatient := patientToDB(patient)
			dbPatient.UserID = dbUser.ID
			if err := tx.Create(dbPatient).Error; err != nil {
				return err
			}
			patient.ID = dbPatient.ID
			patient.UserID = dbUser.ID
			patient.CreatedAt = dbPatient.CreatedAt
			patient.UpdatedAt = dbPatient.UpdatedAt
		}
		return nil
	})
	if err != nil {
		return translateUserErr("users.create_with_patient", err)
	}
	user.ID = dbUser.ID
	user.CreatedAt = dbUser.CreatedAt
	user.UpdatedAt = dbUser.UpdatedAt
	return nil
}

// FindByID implements domain.UserRepository.
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.NewStoreError("users.find_by_id", err)
	}
	return userToDomain(&dbUser), nil
}

// FindByEmail implements domain.UserRepository.
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.NewStoreError("users.find_by_email", err)
	}
	return userToDomain(&dbUser), nil
}

// FindByPhone implements domain.UserRepository.
func (r *UserRepositoryImpl) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.NewStoreError("users.find_by_phone", err)
	}
	return userToDomain(&dbUser), nil
}

// FindByIdentifier implements domain.UserRepository, matching either
// the email or the phone column.
func (r *UserRepositoryImpl) FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).
		Where("email = ? OR phone = ?", identifier, identifier).
		First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.NewStoreError("users.find_by_identifier", err)
	}
	return userToDomain(&dbUser), nil
}

// Update implements domain.UserRepository.
func (r *UserRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Save(userToDB(user)).Error; err != nil {
		return translateUserErr("users.update", err)
	}
	return nil
}

// Delete implements domain.UserRepository. The user and any attached
// patient profile are soft-deleted together.
func (r *UserRepositoryImpl) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&DBPatient{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&DBUser{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return domain.NewStoreError("users.delete", err)
	}
	return nil
}

func translateUserErr(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateIdentity
	}
	return domain.NewStoreError(op, err)
}

func userToDB(user *domain.User) *DBUser {
	return &DBUser{
		ID:            user.ID,
		Email:         user.Email,
		Phone:         user.Phone,
		PasswordHash:  user.PasswordHash,
		FullName:      user.FullName,
		Role:          string(user.Role),
		IsActive:      user.IsActive,
		IsVerified:    user.IsVerified,
		EmailVerified: user.EmailVerified,
		PhoneVerified: user.PhoneVerified,
		LastLoginAt:   user.LastLoginAt,
		CreatedAt:     user.CreatedAt,
	}
}

func userToDomain(dbUser *DBUser) *domain.User {
	return &domain.User{
		ID:            dbUser.ID,
		Email:         dbUser.Email,
		Phone:         dbUser.Phone,
		PasswordHash:  dbUser.PasswordHash,
		FullName:      dbUser.FullName,
		Role:          domain.Role(dbUser.Role),
		IsActive:      dbUser.IsActive,
		IsVerified:    dbUser.IsVerified,
		EmailVerified: dbUser.EmailVerified,
		PhoneVerified: dbUser.PhoneVerified,
		LastLoginAt:   dbUser.LastLoginAt,
		CreatedAt:     dbUser.CreatedAt,
		UpdatedAt:     dbUser.UpdatedAt,
	}
}

var _ domain.UserRepository = (*UserRepositoryImpl)(nil)
