package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/neurulatechnologies/neurula-patient-backend/domain"
	"github.com/neurulatechnologies/neurula-patient-backend/internal/http/middleware"
)

// PatientHandlers exposes patient profile operations. The repository is
// injected for the public Emirates ID availability check, which runs
// before any account exists.
type PatientHandlers struct {
	patientSvc  domain.PatientService
	patientRepo domain.PatientRepository
}

// NewPatientHandlers creates new patient handlers
func NewPatientHandlers(patientSvc domain.PatientService, patientRepo domain.PatientRepository) *PatientHandlers {
	return &PatientHandlers{patientSvc: patientSvc, patientRepo: patientRepo}
}

// PatientUpdateRequest lists the updatable profile fields. Absent fields
// leave the stored values untouched.
type PatientUpdateRequest struct {
	DateOfBirth           *string  `json:"date_of_birth"`
	Gender                *string  `json:"gender" binding:"omitempty,oneof=Male Female Other"`
	Nationality           *string  `json:"nationality"`
	Height                *float64 `json:"height" binding:"omitempty,gt=0,lt=300"`
	Weight                *float64 `json:"weight" binding:"omitempty,gt=0,lt=500"`
	BloodGroup            *string  `json:"blood_group"`
	Emirate               *string  `json:"emirate"`
	City                  *string  `json:"city"`
	Address               *string  `json:"address"`
	MedicalConditions     *string  `json:"medical_conditions"`
	Allergies             *string  `json:"allergies"`
	Medications           *string  `json:"medications"`
	EmergencyContactName  *string  `json:"emergency_contact_name"`
	EmergencyContactPhone *string  `json:"emergency_contact_phone"`
}

// VerifyEmiratesIDRequest asks whether an Emirates ID is free to register.
type VerifyEmiratesIDRequest struct {
	EmiratesID string `json:"emirates_id" binding:"required"`
}

// VerifyEmiratesIDResponse reports Emirates ID availability.
type VerifyEmiratesIDResponse struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
	Exists    bool   `json:"exists"`
}

// PatientResponse is the public view of a patient profile.
type PatientResponse struct {
	ID                    string  `json:"id"`
	UserID                string  `json:"user_id"`
	DateOfBirth           *string `json:"date_of_birth"`
	Gender                string  `json:"gender,omitempty"`
	Nationality           string  `json:"nationality,omitempty"`
	EmiratesID            string  `json:"emirates_id,omitempty"`
	PassportNumber        string  `json:"passport_number,omitempty"`
	Height                float64 `json:"height,omitempty"`
	Weight                float64 `json:"weight,omitempty"`
	BloodGroup            string  `json:"blood_group,omitempty"`
	Emirate               string  `json:"emirate,omitempty"`
	City                  string  `json:"city,omitempty"`
	Address               string  `json:"address,omitempty"`
	MedicalConditions     string  `json:"medical_conditions,omitempty"`
	Allergies             string  `json:"allergies,omitempty"`
	Medications           string  `json:"medications,omitempty"`
	EmergencyContactName  string  `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string  `json:"emergency_contact_phone,omitempty"`
	CreatedAt             string  `json:"created_at"`
	UpdatedAt             string  `json:"updated_at"`
}

func newPatientResponse(p *domain.Patient) PatientResponse {
	resp := PatientResponse{
		ID:                    p.ID,
		UserID:                p.UserID,
		Gender:                p.Gender,
		Nationality:           p.Nationality,
		EmiratesID:            p.EmiratesID,
		PassportNumber:        p.PassportNumber,
		Height:                p.HeightCM,
		Weight:                p.WeightKG,
		BloodGroup:            p.BloodGroup,
		Emirate:               p.Emirate,
		City:                  p.City,
		Address:               p.Address,
		MedicalConditions:     p.MedicalConditions,
		Allergies:             p.Allergies,
		Medications:           p.Medications,
		EmergencyContactName:  p.EmergencyContactName,
		EmergencyContactPhone: p.EmergencyContactPhone,
		CreatedAt:             p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:             p.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if p.DateOfBirth != nil {
		dob := p.DateOfBirth.Format("2006-01-02")
		resp.DateOfBirth = &dob
	}
	return resp
}

// GetMe returns the profile of the authenticated patient.
func (h *PatientHandlers) GetMe(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}

	patient, err := h.patientSvc.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		h.writePatientError(c, err, "Failed to get profile")
		return
	}

	c.JSON(http.StatusOK, newPatientResponse(patient))
}

// GetByID returns a patient profile by its row id. Patients may only
// fetch their own profile; doctors and admins may fetch any.
func (h *PatientHandlers) GetByID(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	role := domain.Role(c.GetString(middleware.ContextUserRole))
	if userID == "" || !role.Valid() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}

	patient, err := h.patientSvc.GetByID(c.Request.Context(), userID, role, c.Param("patient_id"))
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only view your own profile"})
			return
		}
		h.writePatientError(c, err, "Failed to get patient")
		return
	}

	c.JSON(http.StatusOK, newPatientResponse(patient))
}

// UpdateMe applies a partial update to the authenticated patient profile.
func (h *PatientHandlers) UpdateMe(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}

	var req PatientUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	update := domain.PatientUpdate{
		Gender:                req.Gender,
		Nationality:           req.Nationality,
		HeightCM:              req.Height,
		WeightKG:              req.Weight,
		BloodGroup:            req.BloodGroup,
		Emirate:               req.Emirate,
		City:                  req.City,
		Address:               req.Address,
		MedicalConditions:     req.MedicalConditions,
		Allergies:             req.Allergies,
		Medications:           req.Medications,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid date_of_birth, expected YYYY-MM-DD"})
			return
		}
		update.DateOfBirth = &dob
	}

	patient, err := h.patientSvc.UpdateProfile(c.Request.Context(), userID, update)
	if err != nil {
		h.writePatientError(c, err, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, newPatientResponse(patient))
}

// DeleteMe soft-deletes the authenticated patient account.
func (h *PatientHandlers) DeleteMe(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}

	if err := h.patientSvc.DeleteAccount(c.Request.Context(), userID); err != nil {
		h.writePatientError(c, err, "Failed to delete profile")
		return
	}

	c.Status(http.StatusNoContent)
}

// VerifyEmiratesID reports whether an Emirates ID is free to register.
// Public so clients can check before submitting the registration form.
func (h *PatientHandlers) VerifyEmiratesID(c *gin.Context) {
	var req VerifyEmiratesIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	formatted, ok := normalizeEmiratesID(req.EmiratesID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Emirates ID format. Must be 15 digits starting with 784."})
		return
	}

	exists, err := h.patientRepo.EmiratesIDExists(c.Request.Context(), formatted)
	if err != nil {
		h.writePatientError(c, err, "Failed to verify Emirates ID")
		return
	}

	if exists {
		c.JSON(http.StatusOK, VerifyEmiratesIDResponse{
			Available: false,
			Message:   "This Emirates ID is already registered",
			Exists:    true,
		})
		return
	}
	c.JSON(http.StatusOK, VerifyEmiratesIDResponse{
		Available: true,
		Message:   "Emirates ID is available for registration",
		Exists:    false,
	})
}

func (h *PatientHandlers) writePatientError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
	case errors.Is(err, domain.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// normalizeEmiratesID strips separators and formats a valid id as
// 784-XXXX-XXXXXXX-X, the shape stored at registration.
func normalizeEmiratesID(raw string) (string, bool) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) != 15 || !strings.HasPrefix(d, "784") {
		return "", false
	}
	return fmt.Sprintf("%s-%s-%s-%s", d[:3], d[3:7], d[7:14], d[14:]), true
}
