package domain

import (
	"context"
	"time"
)

// UserRepository defines credential store access for user identities.
// Lookups only see rows that are not soft-deleted.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	// CreateWithPatient inserts the user and the patient profile in one
	// transaction; neither row exists unless both inserts succeed.
	CreateWithPatient(ctx context.Context, user *User, patient *Patient) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByPhone(ctx context.Context, phone string) (*User, error)
	// FindByIdentifier matches either the email or the phone column.
	FindByIdentifier(ctx context.Context, identifier string) (*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
}

// PatientRepository defines access to patient profile rows. Profile
// creation and deletion ride along with the owning user row.
type PatientRepository interface {
	FindByUserID(ctx context.Context, userID string) (*Patient, error)
	FindByID(ctx context.Context, id string) (*Patient, error)
	Update(ctx context.Context, patient *Patient) error
	EmiratesIDExists(ctx context.Context, emiratesID string) (bool, error)
}

// DoctorRepository defines read access to the doctor directory.
type DoctorRepository interface {
	FindByID(ctx context.Context, id string) (*Doctor, error)
	List(ctx context.Context, filter DoctorFilter) ([]*Doctor, int64, error)
	Specialties(ctx context.Context) ([]string, error)
}

// AuthService defines the authentication orchestration surface.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*RegistrationResult, error)
	VerifyOTP(ctx context.Context, identifier, code string) (*AuthResult, error)
	ResendOTP(ctx context.Context, identifier string) error
	Login(ctx context.Context, identifier, password string, rememberMe bool) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	GetProfile(ctx context.Context, userID string) (*User, error)
}

// OTPService defines the one-time code lifecycle over the ephemeral store.
type OTPService interface {
	// Generate issues a new code for the identifier after the hourly
	// ceiling and the resend cooldown both allow it.
	Generate(ctx context.Context, identifier string) (*OTPIssue, error)
	// Verify consumes an attempt. A nil return means the code matched
	// and the challenge was destroyed.
	Verify(ctx context.Context, identifier, code string) error
	// CanResend reports whether a new code may be requested now and, if
	// not, how many seconds remain.
	CanResend(ctx context.Context, identifier string) (bool, int64, error)
}

// PasswordService defines password hashing and policy checks.
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
	ValidateStrength(password string) error
}

// TokenService defines signed token issuance and verification.
type TokenService interface {
	GeneratePair(userID, email string, role Role) (*TokenPair, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	ValidateRefreshToken(token string) (*TokenClaims, error)
}

// TokenClaims is the verified content of an access or refresh token.
// Email and Role are only present on access tokens; refresh tokens
// carry nothing but the subject.
type TokenClaims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email,omitempty"`
	Role      Role   `json:"role,omitempty"`
	TokenType string `json:"type"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// NotificationService delivers messages to users over SMS and email.
type NotificationService interface {
	SendSMS(ctx context.Context, to, message string) error
	SendEmail(ctx context.Context, to, subject, body string) error
}

// PatientService defines patient profile operations.
type PatientService interface {
	GetByUserID(ctx context.Context, userID string) (*Patient, error)
	GetByID(ctx context.Context, requesterID string, requesterRole Role, patientID string) (*Patient, error)
	UpdateProfile(ctx context.Context, userID string, update PatientUpdate) (*Patient, error)
	DeleteAccount(ctx context.Context, userID string) error
}

// PatientUpdate lists the profile fields a patient may change. Nil
// pointers leave the stored value untouched.
type PatientUpdate struct {
	DateOfBirth           *time.Time
	Gender                *string
	Nationality           *string
	HeightCM              *float64
	WeightKG              *float64
	BloodGroup            *string
	Emirate               *string
	City                  *string
	Address               *string
	MedicalConditions     *string
	Allergies             *string
	Medications           *string
	EmergencyContactName  *string
	EmergencyContactPhone *string
}

// DoctorService defines read-only doctor directory operations.
type DoctorService interface {
	Get(ctx context.Context, id string) (*Doctor, error)
	Search(ctx context.Context, filter DoctorFilter) ([]*Doctor, int64, error)
	Specialties(ctx context.Context) ([]string, error)
}

// AuthzEnforcer is the policy decision point used by the HTTP layer.
type AuthzEnforcer interface {
	Enforce(rvals ...interface{}) (bool, error)
}
