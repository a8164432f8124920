package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/neurulatechnologies/neurula-patient-backend/domain"
	"github.com/neurulatechnologies/neurula-patient-backend/internal/http/middleware"
)

// AuthHandlers exposes the authentication flows over HTTP. All business
// rules live in the auth service; handlers only bind, translate errors
// and shape responses.
type AuthHandlers struct {
	authSvc domain.AuthService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService) *AuthHandlers {
	return &AuthHandlers{authSvc: authSvc}
}

// RegisterRequest represents a registration request. Profile fields are
// optional; they seed the patient record created with the account.
// RegistrationMethod records which identification flow the client used;
// it is validated but not stored.
type RegisterRequest struct {
	FullName           string `json:"full_name" binding:"required,min=2,max=255"`
	Email              string `json:"email" binding:"required,email"`
	Phone              string `json:"phone" binding:"required,e164"`
	Password           string `json:"password" binding:"required,min=8"`
	RegistrationMethod string `json:"registration_method" binding:"required,oneof=emirates_id passport manual"`

	Role              string  `json:"role,omitempty"`
	DateOfBirth       string  `json:"date_of_birth,omitempty"`
	Gender            string  `json:"gender,omitempty" binding:"omitempty,oneof=Male Female Other"`
	Nationality       string  `json:"nationality,omitempty"`
	EmiratesID        string  `json:"emirates_id,omitempty"`
	PassportNumber    string  `json:"passport_number,omitempty"`
	Height            float64 `json:"height,omitempty" binding:"omitempty,gt=0,lt=300"`
	Weight            float64 `json:"weight,omitempty" binding:"omitempty,gt=0,lt=500"`
	Emirate           string  `json:"emirate,omitempty"`
	City              string  `json:"city,omitempty"`
	Address           string  `json:"address,omitempty"`
	MedicalConditions string  `json:"medical_conditions,omitempty"`
}

// VerifyOTPRequest carries the code together with the identifier the
// code was issued for. Exactly one of email or phone is expected.
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone" binding:"omitempty"`
	OTP   string `json:"otp" binding:"required,len=6,numeric"`
}

// ResendOTPRequest asks for a fresh code for an email or phone.
type ResendOTPRequest struct {
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone" binding:"omitempty"`
}

// LoginRequest represents a login request. Username accepts an email
// address or a phone number.
type LoginRequest struct {
	Username   string `json:"username" binding:"required,min=3"`
	Password   string `json:"password" binding:"required,min=8"`
	RememberMe bool   `json:"remember_me"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required,min=10"`
}

// ChangePasswordRequest rotates the password of the authenticated user.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required,min=8"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// ForgotPasswordRequest starts the OTP-based reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes the reset flow with the emailed code.
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required,len=6,numeric"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// TokenResponse is the bearer credential set returned to clients.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// UserResponse is the public view of a user record.
type UserResponse struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone,omitempty"`
	FullName      string  `json:"full_name"`
	Role          string  `json:"role"`
	IsActive      bool    `json:"is_active"`
	IsVerified    bool    `json:"is_verified"`
	EmailVerified bool    `json:"email_verified"`
	PhoneVerified bool    `json:"phone_verified"`
	CreatedAt     string  `json:"created_at"`
	LastLogin     *string `json:"last_login,omitempty"`
}

// RegisterResponse confirms account creation.
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	OTPSent bool   `json:"otp_sent"`
}

// OTPVerificationResponse is returned by verify-otp. User and Tokens are
// only present when verification succeeded.
type OTPVerificationResponse struct {
	Message  string         `json:"message"`
	Verified bool           `json:"verified"`
	User     *UserResponse  `json:"user,omitempty"`
	Tokens   *TokenResponse `json:"tokens,omitempty"`
}

// LoginResponse is returned by login.
type LoginResponse struct {
	Message string        `json:"message"`
	User    UserResponse  `json:"user"`
	Tokens  TokenResponse `json:"tokens"`
}

// MessageResponse is the generic acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

func newUserResponse(u *domain.User) UserResponse {
	resp := UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Phone:         u.Phone,
		FullName:      u.FullName,
		Role:          string(u.Role),
		IsActive:      u.IsActive,
		IsVerified:    u.IsVerified,
		EmailVerified: u.EmailVerified,
		PhoneVerified: u.PhoneVerified,
		CreatedAt:     u.CreatedAt.UTC().Format(time.RFC3339),
	}
	if u.LastLoginAt != nil {
		lastLogin := u.LastLoginAt.UTC().Format(time.RFC3339)
		resp.LastLogin = &lastLogin
	}
	return resp
}

func newTokenResponse(t *domain.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		ExpiresIn:    t.ExpiresIn,
	}
}

// Register handles user registration
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	input := domain.RegisterInput{
		FullName:          req.FullName,
		Email:             req.Email,
		Phone:             req.Phone,
		Password:          req.Password,
		Role:              domain.Role(req.Role),
		Gender:            req.Gender,
		Nationality:       req.Nationality,
		PassportNumber:    req.PassportNumber,
		HeightCM:          req.Height,
		WeightKG:          req.Weight,
		Emirate:           req.Emirate,
		City:              req.City,
		Address:           req.Address,
		MedicalConditions: req.MedicalConditions,
	}
	if req.EmiratesID != "" {
		formatted, ok := normalizeEmiratesID(req.EmiratesID)
		if !ok {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid Emirates ID format. Expected: 784-XXXX-XXXXXXX-X"})
			return
		}
		input.EmiratesID = formatted
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid date_of_birth, expected YYYY-MM-DD"})
			return
		}
		input.DateOfBirth = &dob
	}

	result, err := h.authSvc.Register(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRole), errors.Is(err, domain.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrDuplicateIdentity):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrStoreUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, RegisterResponse{
		Message: "Registration successful. Please verify your account with the OTP sent.",
		UserID:  result.User.ID,
		Email:   result.User.Email,
		OTPSent: result.OTPSent,
	})
}

// VerifyOTP handles OTP verification
func (h *AuthHandlers) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	identifier := req.Email
	if identifier == "" {
		identifier = req.Phone
	}
	if identifier == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email or phone number required"})
		return
	}

	result, err := h.authSvc.VerifyOTP(c.Request.Context(), identifier, req.OTP)
	if err != nil {
		var invalidErr *domain.OTPInvalidError
		switch {
		case errors.As(err, &invalidErr):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":              fmt.Sprintf("Invalid OTP code. %d attempts remaining.", invalidErr.AttemptsRemaining),
				"attempts_remaining": invalidErr.AttemptsRemaining,
			})
		case errors.Is(err, domain.ErrOTPMaxAttempts):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Maximum OTP attempts exceeded. Please request a new code."})
		case errors.Is(err, domain.ErrOTPNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "OTP expired or not found. Please request a new code."})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, domain.ErrStoreUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
		}
		return
	}

	user := newUserResponse(result.User)
	tokens := newTokenResponse(result.Tokens)
	c.JSON(http.StatusOK, OTPVerificationResponse{
		Message:  "Verification successful",
		Verified: true,
		User:     &user,
		Tokens:   &tokens,
	})
}

// ResendOTP handles OTP resend requests
func (h *AuthHandlers) ResendOTP(c *gin.Context) {
	var req ResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	identifier := req.Email
	if identifier == "" {
		identifier = req.Phone
	}
	if identifier == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email or phone number required"})
		return
	}

	if err := h.authSvc.ResendOTP(c.Request.Context(), identifier); err != nil {
		h.writeOTPIssueError(c, err, "Failed to resend OTP")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("OTP sent successfully to %s", identifier),
		Status:  "success",
	})
}

// Login handles user login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Username, req.Password, req.RememberMe)
	if err != nil {
		// Account-state failures stay 401 like credential failures, but
		// with their own message: the password already checked out, so
		// naming the reason leaks nothing.
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		case errors.Is(err, domain.ErrUserInactive):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is inactive"})
		case errors.Is(err, domain.ErrUserNotVerified):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Account not verified. Please verify your email or phone first."})
		case errors.Is(err, domain.ErrStoreUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		}
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Message: "Login successful",
		User:    newUserResponse(result.User),
		Tokens:  newTokenResponse(result.Tokens),
	})
}

// Refresh handles token refresh
func (h *AuthHandlers) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	tokens, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenInvalid):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		case errors.Is(err, domain.ErrStoreUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token refresh failed"})
		}
		return
	}

	c.JSON(http.StatusOK, newTokenResponse(tokens))
}

// ChangePassword rotates the password of the authenticated user.
func (h *AuthHandlers) ChangePassword(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Old password is incorrect"})
		case errors.Is(err, domain.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, domain.ErrStoreUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Password change failed"})
		}
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Password changed successfully", Status: "success"})
}

// ForgotPassword starts the OTP reset flow. Unknown emails get the same
// acknowledgement as known ones so the endpoint cannot be used to probe
// which addresses are registered.
func (h *AuthHandlers) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if err := h.authSvc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		h.writeOTPIssueError(c, err, "Failed to send password reset code")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Message: "If the email is registered, a password reset code has been sent.",
		Status:  "success",
	})
}

// ResetPassword completes the OTP reset flow.
func (h *AuthHandlers) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if err := h.authSvc.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		var invalidErr *domain.OTPInvalidError
		switch {
		case errors.Is(err, domain.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.As(err, &invalidErr):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":              fmt.Sprintf("Invalid OTP code. %d attempts remaining.", invalidErr.AttemptsRemaining),
				"attempts_remaining": invalidErr.AttemptsRemaining,
			})
		case errors.Is(err, domain.ErrOTPMaxAttempts):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Maximum OTP attempts exceeded. Please request a new code."})
		case errors.Is(err, domain.ErrOTPNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "OTP expired or not found. Please request a new code."})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, domain.ErrStoreUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Password reset failed"})
		}
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Password reset successfully", Status: "success"})
}

// Me returns the profile of the authenticated user.
func (h *AuthHandlers) Me(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}

	user, err := h.authSvc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, domain.ErrStoreUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user profile"})
		}
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

// Logout acknowledges a logout. Tokens are stateless, so the server has
// nothing to revoke; clients discard their copies.
func (h *AuthHandlers) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, MessageResponse{
		Message: "Logout successful. Please discard your tokens.",
		Status:  "success",
	})
}

// writeOTPIssueError maps failures from OTP generation shared by the
// resend and forgot-password endpoints.
func (h *AuthHandlers) writeOTPIssueError(c *gin.Context, err error, fallback string) {
	var cooldownErr *domain.ResendCooldownError
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, domain.ErrOTPRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "OTP request limit exceeded. Please try again later."})
	case errors.As(err, &cooldownErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":       fmt.Sprintf("Please wait %d seconds before requesting a new OTP.", cooldownErr.RetryAfter),
			"retry_after": cooldownErr.RetryAfter,
		})
	case errors.Is(err, domain.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
