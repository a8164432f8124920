package domain

import (
	"strings"
	"time"
)

// Role classifies an account. The set is closed; values outside it are
// rejected at the API boundary and must never reach storage.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// Gender values accepted on patient profiles.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// User holds the core identity record shared by all account types.
type User struct {
	ID            string
	Email         string
	Phone         string
	PasswordHash  string
	FullName      string
	Role          Role
	IsActive      bool
	IsVerified    bool
	EmailVerified bool
	PhoneVerified bool
	LastLoginAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Patient extends a User with demographic and medical profile data.
// All profile fields are optional at registration time.
type Patient struct {
	ID                    string
	UserID                string
	DateOfBirth           *time.Time
	Gender                string
	Nationality           string
	EmiratesID            string
	PassportNumber        string
	HeightCM              float64
	WeightKG              float64
	BloodGroup            string
	Emirate               string
	City                  string
	Address               string
	MedicalConditions     string
	Allergies             string
	Medications           string
	EmergencyContactName  string
	EmergencyContactPhone string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Doctor is a directory entry for a practicing doctor. FullName is
// denormalized from the owning user record on reads.
type Doctor struct {
	ID                  string
	UserID              string
	FullName            string
	Specialty           string
	SubSpecialty        string
	LicenseNumber       string
	YearsOfExperience   int
	HospitalAffiliation string
	ClinicName          string
	ClinicAddress       string
	Location            string
	ConsultationFee     float64
	Languages           []string
	Bio                 string
	IsAcceptingPatients bool
	Verified            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// DoctorFilter narrows directory listings. Page is 1-based.
type DoctorFilter struct {
	Specialty string
	Location  string
	Page      int
	Limit     int
}

// TokenPair is the bearer credential set returned by login, OTP
// verification and refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int64
}

// AuthResult carries the authenticated user together with fresh tokens.
type AuthResult struct {
	User   *User
	Tokens *TokenPair
}

// RegistrationResult is returned by Register. OTPSent reports whether a
// verification code was issued for the new identity.
type RegistrationResult struct {
	User    *User
	Patient *Patient
	OTPSent bool
}

// RegisterInput bundles everything needed to create a user and, for
// patients, the attached profile row.
type RegisterInput struct {
	FullName          string
	Email             string
	Phone             string
	Password          string
	Role              Role
	DateOfBirth       *time.Time
	Gender            string
	Nationality       string
	EmiratesID        string
	PassportNumber    string
	HeightCM          float64
	WeightKG          float64
	Emirate           string
	City              string
	Address           string
	MedicalConditions string
}

// OTPIssue describes a freshly generated one-time code.
type OTPIssue struct {
	Identifier string
	Code       string
	ExpiresAt  time.Time
}

// LooksLikeEmail picks the delivery and verification channel for an
// identifier. The check is intentionally naive: anything containing
// "@" is treated as an email address, everything else as a phone number.
func LooksLikeEmail(identifier string) bool {
	return strings.Contains(identifier, "@")
}
