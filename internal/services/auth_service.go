package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/neurulatechnologies/neurula-patient-backend/domain"
)

// AuthServiceImpl implements domain.AuthService. It orchestrates the
// repositories, the OTP engine, the token issuer and the notifier; it
// owns no state of its own.
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	patientRepo domain.PatientRepository
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
	otpSvc      domain.OTPService
	notifier    domain.NotificationService
	logger      *slog.Logger
	otpTTL      time.Duration
}

var _ domain.AuthService = (*AuthServiceImpl)(nil)

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo domain.UserRepository,
	patientRepo domain.PatientRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	otpSvc domain.OTPService,
	notifier domain.NotificationService,
	logger *slog.Logger,
	otpTTL time.Duration,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		patientRepo: patientRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		otpSvc:      otpSvc,
		notifier:    notifier,
		logger:      logger,
		otpTTL:      otpTTL,
	}
}

// Register creates the identity and, for patients, the profile row in
// one transaction, then issues a verification code to the email
// address. A failed delivery does not undo the registration; the user
// can request a resend.
func (s *AuthServiceImpl) Register(ctx context.Context, input domain.RegisterInput) (*domain.RegistrationResult, error) {
	role := input.Role
	if role == "" {
		role = domain.RolePatient
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, input.Role)
	}

	if err := s.passwordSvc.ValidateStrength(input.Password); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", domain.ErrDuplicateIdentity)
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if input.Phone != "" {
		if _, err := s.userRepo.FindByPhone(ctx, input.Phone); err == nil {
			return nil, fmt.Errorf("%w: phone already registered", domain.ErrDuplicateIdentity)
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
	}
	if role == domain.RolePatient && input.EmiratesID != "" {
		taken, err := s.patientRepo.EmiratesIDExists(ctx, input.EmiratesID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: emirates id already registered", domain.ErrDuplicateIdentity)
		}
	}

	hashed, err := s.passwordSvc.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: hashed,
		FullName:     input.FullName,
		Role:         role,
		IsActive:     true,
	}

	var patient *domain.Patient
	if role == domain.RolePatient {
		patient = &domain.Patient{
			DateOfBirth:       input.DateOfBirth,
			Gender:            input.Gender,
			Nationality:       input.Nationality,
			EmiratesID:        input.EmiratesID,
			PassportNumber:    input.PassportNumber,
			HeightCM:          input.HeightCM,
			WeightKG:          input.WeightKG,
			Emirate:           input.Emirate,
			City:              input.City,
			Address:           input.Address,
			MedicalConditions: input.MedicalConditions,
		}
		err = s.userRepo.CreateWithPatient(ctx, user, patient)
	} else {
		err = s.userRepo.Create(ctx, user)
	}
	if err != nil {
		domain.NewAuditEvent(domain.UserRegistrationEvent).
			WithIdentifier(input.Email).WithError(err).Emit(s.logger)
		return nil, err
	}

	otpSent := s.issueAndDeliverOTP(ctx, user.Email) == nil

	domain.NewAuditEvent(domain.UserRegistrationEvent).
		WithUser(user.ID).WithIdentifier(user.Email).Emit(s.logger)

	return &domain.RegistrationResult{
		User:    user,
		Patient: patient,
		OTPSent: otpSent,
	}, nil
}

// VerifyOTP consumes a verification code and, on success, marks the
// matching channel verified and signs the user in. Verification flags
// only ever move from false to true.
func (s *AuthServiceImpl) VerifyOTP(ctx context.Context, identifier, code string) (*domain.AuthResult, error) {
	if err := s.otpSvc.Verify(ctx, identifier, code); err != nil {
		domain.NewAuditEvent(domain.OTPFailureEvent).
			WithIdentifier(identifier).WithError(err).Emit(s.logger)
		return nil, err
	}

	user, err := s.userRepo.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}

	user.IsVerified = true
	if domain.LooksLikeEmail(identifier) {
		user.EmailVerified = true
	} else {
		user.PhoneVerified = true
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	tokens, err := s.tokenSvc.GeneratePair(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	domain.NewAuditEvent(domain.OTPVerifiedEvent).
		WithUser(user.ID).WithIdentifier(identifier).Emit(s.logger)

	return &domain.AuthResult{User: user, Tokens: tokens}, nil
}

// ResendOTP issues a fresh code for a known identity. Cooldown and
// hourly ceiling are enforced by the OTP engine.
func (s *AuthServiceImpl) ResendOTP(ctx context.Context, identifier string) error {
	if _, err := s.userRepo.FindByIdentifier(ctx, identifier); err != nil {
		return err
	}

	if err := s.issueAndDeliverOTP(ctx, identifier); err != nil {
		domain.NewAuditEvent(domain.OTPRequestEvent).
			WithIdentifier(identifier).WithError(err).Emit(s.logger)
		return err
	}

	domain.NewAuditEvent(domain.OTPRequestEvent).
		WithIdentifier(identifier).Emit(s.logger)
	return nil
}

// Login authenticates by email or phone. Unknown identifiers and wrong
// passwords collapse into the same credential error; account-state
// failures stay distinct so the client can prompt accordingly.
// rememberMe is accepted for API compatibility and does not change
// token lifetimes.
func (s *AuthServiceImpl) Login(ctx context.Context, identifier, password string, rememberMe bool) (*domain.AuthResult, error) {
	user, err := s.userRepo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			domain.NewAuditEvent(domain.UserLoginFailureEvent).
				WithIdentifier(identifier).WithError(domain.ErrInvalidCredentials).Emit(s.logger)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		domain.NewAuditEvent(domain.UserLoginFailureEvent).
			WithUser(user.ID).WithIdentifier(identifier).WithError(domain.ErrInvalidCredentials).Emit(s.logger)
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}
	if !user.IsVerified {
		return nil, domain.ErrUserNotVerified
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	tokens, err := s.tokenSvc.GeneratePair(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	domain.NewAuditEvent(domain.UserLoginEvent).
		WithUser(user.ID).WithIdentifier(identifier).Emit(s.logger)

	return &domain.AuthResult{User: user, Tokens: tokens}, nil
}

// Refresh rotates the token pair. The caller gets both a new access
// and a new refresh token; the old refresh token is not tracked, so
// its natural expiry is the only revocation. A vanished or deactivated
// account is reported as an invalid token, not as account state, so
// refresh cannot be used to probe accounts.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.tokenSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrTokenInvalid
	}

	tokens, err := s.tokenSvc.GeneratePair(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	domain.NewAuditEvent(domain.TokenRefreshEvent).WithUser(user.ID).Emit(s.logger)

	return tokens, nil
}

// ChangePassword swaps the password for an authenticated user after
// re-proving the current one.
func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if !s.passwordSvc.Verify(user.PasswordHash, oldPassword) {
		domain.NewAuditEvent(domain.PasswordChangeEvent).
			WithUser(userID).WithError(domain.ErrInvalidCredentials).Emit(s.logger)
		return domain.ErrInvalidCredentials
	}
	if err := s.passwordSvc.ValidateStrength(newPassword); err != nil {
		return err
	}

	hashed, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hashed
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	domain.NewAuditEvent(domain.PasswordChangeEvent).WithUser(userID).Emit(s.logger)
	return nil
}

// ForgotPassword starts the reset flow. Unknown addresses are not
// reported to the caller, so the endpoint cannot be used to probe for
// accounts; cooldown and rate errors still surface for known accounts.
func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, email string) error {
	_, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Info("password reset requested for unknown email",
				slog.String("identifier", email))
			return nil
		}
		return err
	}

	if err := s.issueAndDeliverOTP(ctx, email); err != nil {
		return err
	}

	domain.NewAuditEvent(domain.OTPRequestEvent).WithIdentifier(email).Emit(s.logger)
	return nil
}

// ResetPassword completes the reset flow with the emailed code. The
// strength check runs before the code is consumed, so a weak password
// does not burn a verification attempt.
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if err := s.passwordSvc.ValidateStrength(newPassword); err != nil {
		return err
	}

	if err := s.otpSvc.Verify(ctx, email, code); err != nil {
		domain.NewAuditEvent(domain.OTPFailureEvent).
			WithIdentifier(email).WithError(err).Emit(s.logger)
		return err
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	hashed, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hashed
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	domain.NewAuditEvent(domain.PasswordResetEvent).
		WithUser(user.ID).WithIdentifier(email).Emit(s.logger)
	return nil
}

// GetProfile returns the account backing an access token.
func (s *AuthServiceImpl) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// issueAndDeliverOTP generates a code and pushes it over the channel
// the identifier implies. Generation errors (cooldown, rate limit,
// store loss) are returned; a delivery failure is returned as well so
// callers can decide whether it is fatal.
func (s *AuthServiceImpl) issueAndDeliverOTP(ctx context.Context, identifier string) error {
	issue, err := s.otpSvc.Generate(ctx, identifier)
	if err != nil {
		return err
	}

	minutes := int(s.otpTTL.Minutes())
	if domain.LooksLikeEmail(identifier) {
		subject := "Your verification code"
		body := fmt.Sprintf("<p>Your verification code is <b>%s</b>. It is valid for %d minutes.</p>",
			issue.Code, minutes)
		err = s.notifier.SendEmail(ctx, identifier, subject, body)
	} else {
		message := fmt.Sprintf("Your verification code is: %s. Valid for %d minutes.", issue.Code, minutes)
		err = s.notifier.SendSMS(ctx, identifier, message)
	}
	if err != nil {
		s.logger.Error("otp delivery failed",
			slog.String("identifier", identifier),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}
