package auth

import (
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	"github.com/neurulatechnologies/neurula-patient-backend/domain"
)

var (
	upperRe   = regexp.MustCompile(`[A-Z]`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	digitRe   = regexp.MustCompile(`\d`)
	specialRe = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// PasswordService implements domain.PasswordService with bcrypt.
type PasswordService struct {
	cost      int
	minLength int
}

// NewPasswordService creates a password service enforcing minLength.
func NewPasswordService(minLength int) *PasswordService {
	return &PasswordService{
		cost:      bcrypt.DefaultCost,
		minLength: minLength,
	}
}

// Hash implements domain.PasswordService.
func (p *PasswordService) Hash(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Verify implements domain.PasswordService.
func (p *PasswordService) Verify(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// ValidateStrength checks the password policy: minimum length plus at
// least one uppercase letter, one lowercase letter, one digit and one
// special character. Failures wrap domain.ErrWeakPassword with the
// first unmet requirement.
func (p *PasswordService) ValidateStrength(password string) error {
	if len(password) < p.minLength {
		return fmt.Errorf("%w: must be at least %d characters long", domain.ErrWeakPassword, p.minLength)
	}
	if !upperRe.MatchString(password) {
		return fmt.Errorf("%w: must contain at least one uppercase letter", domain.ErrWeakPassword)
	}
	if !lowerRe.MatchString(password) {
		return fmt.Errorf("%w: must contain at least one lowercase letter", domain.ErrWeakPassword)
	}
	if !digitRe.MatchString(password) {
		return fmt.Errorf("%w: must contain at least one digit", domain.ErrWeakPassword)
	}
	if !specialRe.MatchString(password) {
		return fmt.Errorf("%w: must contain at least one special character", domain.ErrWeakPassword)
	}
	return nil
}

var _ domain.PasswordService = (*PasswordService)(nil)
