package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/neurulatechnologies/neurula-patient-backend/domain"
	"github.com/neurulatechnologies/neurula-patient-backend/internal/http/middleware"
	"github.com/neurulatechnologies/neurula-patient-backend/internal/mocks"
)

// runPatientRequest is like performRequest but lets the caller seed the
// context with a role and route params before the handler runs.
func runPatientRequest(t *testing.T, handler gin.HandlerFunc, body interface{}, setup func(*gin.Context)) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	reqBody, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	if setup != nil {
		setup(c)
	}

	handler(c)
	// Flush any status set via c.Status without a body write, the same way
	// gin's engine does after the handler chain finishes.
	c.Writer.WriteHeaderNow()

	var responseBody map[string]interface{}
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &responseBody); err != nil {
			t.Fatalf("failed to unmarshal response body %q: %v", w.Body.String(), err)
		}
	}
	return w, responseBody
}

func asPatient(userID string) func(*gin.Context) {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextUserRole, string(domain.RolePatient))
	}
}

func TestPatientHandlers_GetMe(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns own profile", func(t *testing.T) {
		patientSvc := mocks.NewMockPatientService()
		patientSvc.GetByUserIDFunc = func(ctx context.Context, userID string) (*domain.Patient, error) {
			dob := time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC)
			return &domain.Patient{
				ID:          "patient-9",
				UserID:      userID,
				DateOfBirth: &dob,
				Gender:      domain.GenderFemale,
				EmiratesID:  "784-1990-1234567-1",
				HeightCM:    167,
			}, nil
		}
		handler := NewPatientHandlers(patientSvc, mocks.NewMockPatientRepository())

		w, body := runPatientRequest(t, handler.GetMe, struct{}{}, asPatient("user-7"))

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d (%s)", w.Code, w.Body.String())
		}
		if body["id"] != "patient-9" || body["user_id"] != "user-7" {
			t.Errorf("unexpected profile: %v", body)
		}
		if body["date_of_birth"] != "1990-04-12" {
			t.Errorf("expected date_of_birth 1990-04-12, got %v", body["date_of_birth"])
		}
		if body["height"] != float64(167) {
			t.Errorf("expected height 167, got %v", body["height"])
		}
	})

	t.Run("no profile row", func(t *testing.T) {
		patientSvc := mocks.NewMockPatientService()
		patientSvc.GetByUserIDFunc = func(ctx context.Context, userID string) (*domain.Patient, error) {
			return nil, domain.ErrUserNotFound
		}
		handler := NewPatientHandlers(patientSvc, mocks.NewMockPatientRepository())

		w, body := runPatientRequest(t, handler.GetMe, struct{}{}, asPatient("user-7"))

		if w.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", w.Code)
		}
		if body["error"] != "Patient not found" {
			t.Errorf("unexpected error message: %v", body["error"])
		}
	})

	t.Run("missing auth context", func(t *testing.T) {
		handler := NewPatientHandlers(mocks.NewMockPatientService(), mocks.NewMockPatientRepository())

		w, _ := runPatientRequest(t, handler.GetMe, struct{}{}, nil)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", w.Code)
		}
	})
}

func TestPatientHandlers_GetByID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("doctor may read any profile", func(t *testing.T) {
		patientSvc := mocks.NewMockPatientService()
		var gotRole domain.Role
		patientSvc.GetByIDFunc = func(ctx context.Context, requesterID string, requesterRole domain.Role, patientID string) (*domain.Patient, error) {
			gotRole = requesterRole
			return &domain.Patient{ID: patientID, UserID: "user-3"}, nil
		}
		handler := NewPatientHandlers(patientSvc, mocks.NewMockPatientRepository())

		w, body := runPatientRequest(t, handler.GetByID, struct{}{}, func(c *gin.Context) {
			c.Set(middleware.ContextUserID, "user-2")
			c.Set(middleware.ContextUserRole, string(domain.RoleDoctor))
			c.Params = gin.Params{{Key: "patient_id", Value: "patient-3"}}
		})

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d (%s)", w.Code, w.Body.String())
		}
		if body["id"] != "patient-3" {
			t.Errorf("expected patient-3, got %v", body["id"])
		}
		if gotRole != domain.RoleDoctor {
			t.Errorf("expected doctor role forwarded, got %q", gotRole)
		}
	})

	t.Run("patient reading a foreign profile is rejected", func(t *testing.T) {
		patientSvc := mocks.NewMockPatientService()
		patientSvc.GetByIDFunc = func(ctx context.Context, requesterID string, requesterRole domain.Role, patientID string) (*domain.Patient, error) {
			return nil, domain.ErrForbidden
		}
		handler := NewPatientHandlers(patientSvc, mocks.NewMockPatientRepository())

		w, body := runPatientRequest(t, handler.GetByID, struct{}{}, func(c *gin.Context) {
			c.Set(middleware.ContextUserID, "user-7")
			c.Set(middleware.ContextUserRole, string(domain.RolePatient))
			c.Params = gin.Params{{Key: "patient_id", Value: "patient-3"}}
		})

		if w.Code != http.StatusForbidden {
			t.Errorf("expected status 403, got %d", w.Code)
		}
		if body["error"] != "You can only view your own profile" {
			t.Errorf("unexpected error message: %v", body["error"])
		}
	})

	t.Run("missing role in context", func(t *testing.T) {
		handler := NewPatientHandlers(mocks.NewMockPatientService(), mocks.NewMockPatientRepository())

		w, _ := runPatientRequest(t, handler.GetByID, struct{}{}, func(c *gin.Context) {
			c.Set(middleware.ContextUserID, "user-7")
		})

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", w.Code)
		}
	})
}

func TestPatientHandlers_UpdateMe(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("partial update only touches supplied fields", func(t *testing.T) {
		patientSvc := mocks.NewMockPatientService()
		var gotUpdate domain.PatientUpdate
		patientSvc.UpdateProfileFunc = func(ctx context.Context, userID string, update domain.PatientUpdate) (*domain.Patient, error) {
			gotUpdate = update
			return &domain.Patient{ID: "patient-1", UserID: userID, City: "Dubai", HeightCM: 170}, nil
		}
		handler := NewPatientHandlers(patientSvc, mocks.NewMockPatientRepository())

		city := "Dubai"
		height := 170.0
		w, body := runPatientRequest(t, handler.UpdateMe, PatientUpdateRequest{City: &city, Height: &height}, asPatient("user-7"))

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d (%s)", w.Code, w.Body.String())
		}
		if gotUpdate.City == nil || *gotUpdate.City != "Dubai" {
			t.Errorf("expected city update, got %v", gotUpdate.City)
		}
		if gotUpdate.HeightCM == nil || *gotUpdate.HeightCM != 170 {
			t.Errorf("expected height update, got %v", gotUpdate.HeightCM)
		}
		if gotUpdate.Gender != nil || gotUpdate.Address != nil {
			t.Errorf("expected untouched fields to stay nil: %+v", gotUpdate)
		}
		if body["city"] != "Dubai" {
			t.Errorf("expected updated profile in response, got %v", body)
		}
	})

	t.Run("date of birth is parsed", func(t *testing.T) {
		patientSvc := mocks.NewMockPatientService()
		var gotUpdate domain.PatientUpdate
		patientSvc.UpdateProfileFunc = func(ctx context.Context, userID string, update domain.PatientUpdate) (*domain.Patient, error) {
			gotUpdate = update
			return mockPatientForTest(userID), nil
		}
		handler := NewPatientHandlers(patientSvc, mocks.NewMockPatientRepository())

		dob := "1985-12-01"
		w, _ := runPatientRequest(t, handler.UpdateMe, PatientUpdateRequest{DateOfBirth: &dob}, asPatient("user-7"))

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
		if gotUpdate.DateOfBirth == nil || gotUpdate.DateOfBirth.Format("2006-01-02") != "1985-12-01" {
			t.Errorf("expected parsed date of birth, got %v", gotUpdate.DateOfBirth)
		}
	})

	t.Run("malformed date of birth", func(t *testing.T) {
		handler := NewPatientHandlers(mocks.NewMockPatientService(), mocks.NewMockPatientRepository())

		dob := "01/12/1985"
		w, body := runPatientRequest(t, handler.UpdateMe, PatientUpdateRequest{DateOfBirth: &dob}, asPatient("user-7"))

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("expected status 422, got %d", w.Code)
		}
		if body["error"] != "Invalid date_of_birth, expected YYYY-MM-DD" {
			t.Errorf("unexpected error message: %v", body["error"])
		}
	})

	t.Run("binding rejects out-of-range height", func(t *testing.T) {
		handler := NewPatientHandlers(mocks.NewMockPatientService(), mocks.NewMockPatientRepository())

		height := 450.0
		w, _ := runPatientRequest(t, handler.UpdateMe, PatientUpdateRequest{Height: &height}, asPatient("user-7"))

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("expected status 422, got %d", w.Code)
		}
	})

	t.Run("binding rejects unknown gender", func(t *testing.T) {
		handler := NewPatientHandlers(mocks.NewMockPatientService(), mocks.NewMockPatientRepository())

		gender := "Unknown"
		w, _ := runPatientRequest(t, handler.UpdateMe, PatientUpdateRequest{Gender: &gender}, asPatient("user-7"))

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("expected status 422, got %d", w.Code)
		}
	})

	t.Run("missing auth context", func(t *testing.T) {
		handler := NewPatientHandlers(mocks.NewMockPatientService(), mocks.NewMockPatientRepository())

		w, _ := runPatientRequest(t, handler.UpdateMe, PatientUpdateRequest{}, nil)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", w.Code)
		}
	})
}

func TestPatientHandlers_DeleteMe(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("successful delete returns no content", func(t *testing.T) {
		patientSvc := mocks.NewMockPatientService()
		var gotUserID string
		patientSvc.DeleteAccountFunc = func(ctx context.Context, userID string) error {
			gotUserID = userID
			return nil
		}
		handler := NewPatientHandlers(patientSvc, mocks.NewMockPatientRepository())

		w, _ := runPatientRequest(t, handler.DeleteMe, struct{}{}, asPatient("user-7"))

		if w.Code != http.StatusNoContent {
			t.Errorf("expected status 204, got %d", w.Code)
		}
		if gotUserID != "user-7" {
			t.Errorf("expected context user id to reach the service, got %q", gotUserID)
		}
	})

	t.Run("store down", func(t *testing.T) {
		patientSvc := mocks.NewMockPatientService()
		patientSvc.DeleteAccountFunc = func(ctx context.Context, userID string) error {
			return domain.NewStoreError("patients.delete", fmt.Errorf("dial tcp"))
		}
		handler := NewPatientHandlers(patientSvc, mocks.NewMockPatientRepository())

		w, _ := runPatientRequest(t, handler.DeleteMe, struct{}{}, asPatient("user-7"))

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("expected status 503, got %d", w.Code)
		}
	})
}

func TestPatientHandlers_VerifyEmiratesID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("available id", func(t *testing.T) {
		handler := NewPatientHandlers(mocks.NewMockPatientService(), mocks.NewMockPatientRepository())

		w, body := runPatientRequest(t, handler.VerifyEmiratesID, VerifyEmiratesIDRequest{EmiratesID: "784-1990-1234567-1"}, nil)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
		if body["available"] != true || body["exists"] != false {
			t.Errorf("expected available id, got %v", body)
		}
	})

	t.Run("taken id", func(t *testing.T) {
		patientRepo := mocks.NewMockPatientRepository()
		patientRepo.EmiratesIDExistsFunc = func(ctx context.Context, emiratesID string) (bool, error) {
			return true, nil
		}
		handler := NewPatientHandlers(mocks.NewMockPatientService(), patientRepo)

		w, body := runPatientRequest(t, handler.VerifyEmiratesID, VerifyEmiratesIDRequest{EmiratesID: "784-1990-1234567-1"}, nil)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
		if body["available"] != false || body["exists"] != true {
			t.Errorf("expected taken id, got %v", body)
		}
		if body["message"] != "This Emirates ID is already registered" {
			t.Errorf("unexpected message: %v", body["message"])
		}
	})

	t.Run("lookup uses the canonical format", func(t *testing.T) {
		patientRepo := mocks.NewMockPatientRepository()
		var gotID string
		patientRepo.EmiratesIDExistsFunc = func(ctx context.Context, emiratesID string) (bool, error) {
			gotID = emiratesID
			return false, nil
		}
		handler := NewPatientHandlers(mocks.NewMockPatientService(), patientRepo)

		w, _ := runPatientRequest(t, handler.VerifyEmiratesID, VerifyEmiratesIDRequest{EmiratesID: "784 1990 1234567 1"}, nil)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
		if gotID != "784-1990-1234567-1" {
			t.Errorf("expected canonical id passed to the repository, got %q", gotID)
		}
	})

	invalidIDs := []struct {
		name string
		id   string
	}{
		{"too short", "784-1990-123"},
		{"wrong prefix", "123-1990-1234567-1"},
		{"letters", "784-abcd-1234567-1"},
	}
	for _, tt := range invalidIDs {
		t.Run("invalid: "+tt.name, func(t *testing.T) {
			handler := NewPatientHandlers(mocks.NewMockPatientService(), mocks.NewMockPatientRepository())

			w, body := runPatientRequest(t, handler.VerifyEmiratesID, VerifyEmiratesIDRequest{EmiratesID: tt.id}, nil)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", w.Code)
			}
			if body["error"] != "Invalid Emirates ID format. Must be 15 digits starting with 784." {
				t.Errorf("unexpected error message: %v", body["error"])
			}
		})
	}

	t.Run("missing field", func(t *testing.T) {
		handler := NewPatientHandlers(mocks.NewMockPatientService(), mocks.NewMockPatientRepository())

		w, _ := runPatientRequest(t, handler.VerifyEmiratesID, VerifyEmiratesIDRequest{}, nil)

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("expected status 422, got %d", w.Code)
		}
	})
}

func TestNormalizeEmiratesID(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		formatted string
		ok        bool
	}{
		{"canonical", "784-1990-1234567-1", "784-1990-1234567-1", true},
		{"bare digits", "784199012345671", "784-1990-1234567-1", true},
		{"spaces", "784 1990 1234567 1", "784-1990-1234567-1", true},
		{"too few digits", "78419901234567", "", false},
		{"too many digits", "7841990123456712", "", false},
		{"wrong prefix", "999199012345671", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatted, ok := normalizeEmiratesID(tt.raw)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if formatted != tt.formatted {
				t.Errorf("expected %q, got %q", tt.formatted, formatted)
			}
		})
	}
}

func mockPatientForTest(userID string) *domain.Patient {
	return &domain.Patient{ID: "patient-1", UserID: userID}
}
