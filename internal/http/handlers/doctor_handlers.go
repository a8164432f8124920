package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/neurulatechnologies/neurula-patient-backend/domain"
)

// DoctorHandlers exposes the read-only doctor directory.
type DoctorHandlers struct {
	doctorSvc domain.DoctorService
}

// NewDoctorHandlers creates new doctor handlers
func NewDoctorHandlers(doctorSvc domain.DoctorService) *DoctorHandlers {
	return &DoctorHandlers{doctorSvc: doctorSvc}
}

// DoctorListItem is the compact directory row returned by the listing.
type DoctorListItem struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Specialty           string   `json:"specialty"`
	YearsOfExperience   int      `json:"years_of_experience"`
	Location            string   `json:"location,omitempty"`
	ConsultationFee     float64  `json:"consultation_fee"`
	Languages           []string `json:"languages,omitempty"`
	IsAcceptingPatients bool     `json:"is_accepting_patients"`
}

// DoctorListResponse is the paginated directory listing.
type DoctorListResponse struct {
	Doctors    []DoctorListItem `json:"doctors"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int64            `json:"total_pages"`
}

// DoctorResponse is the full public profile of a doctor.
type DoctorResponse struct {
	ID                  string   `json:"id"`
	UserID              string   `json:"user_id"`
	FullName            string   `json:"full_name"`
	Specialty           string   `json:"specialty"`
	SubSpecialty        string   `json:"sub_specialty,omitempty"`
	LicenseNumber       string   `json:"license_number"`
	YearsOfExperience   int      `json:"years_of_experience"`
	HospitalAffiliation string   `json:"hospital_affiliation,omitempty"`
	ClinicName          string   `json:"clinic_name,omitempty"`
	ClinicAddress       string   `json:"clinic_address,omitempty"`
	Location            string   `json:"location,omitempty"`
	ConsultationFee     float64  `json:"consultation_fee"`
	Languages           []string `json:"languages,omitempty"`
	Bio                 string   `json:"bio,omitempty"`
	IsAcceptingPatients bool     `json:"is_accepting_patients"`
	Verified            bool     `json:"verified"`
	CreatedAt           string   `json:"created_at"`
}

// SpecialtyResponse lists the distinct specialties in the directory.
type SpecialtyResponse struct {
	Specialties []string `json:"specialties"`
}

// List returns a filtered, paginated page of the doctor directory.
func (h *DoctorHandlers) List(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	filter := domain.DoctorFilter{
		Specialty: c.Query("specialty"),
		Location:  c.Query("location"),
		Page:      page,
		Limit:     limit,
	}

	doctors, total, err := h.doctorSvc.Search(c.Request.Context(), filter)
	if err != nil {
		h.writeDoctorError(c, err, "Failed to search doctors")
		return
	}

	items := make([]DoctorListItem, 0, len(doctors))
	for _, d := range doctors {
		items = append(items, DoctorListItem{
			ID:                  d.ID,
			Name:                d.FullName,
			Specialty:           d.Specialty,
			YearsOfExperience:   d.YearsOfExperience,
			Location:            d.Location,
			ConsultationFee:     d.ConsultationFee,
			Languages:           d.Languages,
			IsAcceptingPatients: d.IsAcceptingPatients,
		})
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)
	c.JSON(http.StatusOK, DoctorListResponse{
		Doctors:    items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	})
}

// GetByID returns the full profile of one doctor.
func (h *DoctorHandlers) GetByID(c *gin.Context) {
	doctor, err := h.doctorSvc.Get(c.Request.Context(), c.Param("doctor_id"))
	if err != nil {
		h.writeDoctorError(c, err, "Failed to get doctor")
		return
	}

	c.JSON(http.StatusOK, DoctorResponse{
		ID:                  doctor.ID,
		UserID:              doctor.UserID,
		FullName:            doctor.FullName,
		Specialty:           doctor.Specialty,
		SubSpecialty:        doctor.SubSpecialty,
		LicenseNumber:       doctor.LicenseNumber,
		YearsOfExperience:   doctor.YearsOfExperience,
		HospitalAffiliation: doctor.HospitalAffiliation,
		ClinicName:          doctor.ClinicName,
		ClinicAddress:       doctor.ClinicAddress,
		Location:            doctor.Location,
		ConsultationFee:     doctor.ConsultationFee,
		Languages:           doctor.Languages,
		Bio:                 doctor.Bio,
		IsAcceptingPatients: doctor.IsAcceptingPatients,
		Verified:            doctor.Verified,
		CreatedAt:           doctor.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// Specialties returns the distinct specialties of verified doctors.
func (h *DoctorHandlers) Specialties(c *gin.Context) {
	specialties, err := h.doctorSvc.Specialties(c.Request.Context())
	if err != nil {
		h.writeDoctorError(c, err, "Failed to get specialties")
		return
	}

	c.JSON(http.StatusOK, SpecialtyResponse{Specialties: specialties})
}

func (h *DoctorHandlers) writeDoctorError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Doctor not found"})
	case errors.Is(err, domain.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
