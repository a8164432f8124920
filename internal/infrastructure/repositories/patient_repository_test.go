package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/neurulatechnologies/neurula-patient-backend/domain"
)

func seedPatient(t *testing.T, repo *UserRepositoryImpl, email, phone string, patient *domain.Patient) *domain.User {
	t.Helper()
	user := testUser(email, phone)
	if err := repo.CreateWithPatient(context.Background(), user, patient); err != nil {
		t.Fatalf("CreateWithPatient returned error: %v", err)
	}
	return user
}

func TestPatientRepository_FindByUserID(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	repo := NewPatientRepository(db)
	ctx := context.Background()

	user := seedPatient(t, users, "p1@example.com", "+971501111111", &domain.Patient{
		Gender:     domain.GenderMale,
		BloodGroup: "O+",
		City:       "Abu Dhabi",
	})

	found, err := repo.FindByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindByUserID returned error: %v", err)
	}
	if found.BloodGroup != "O+" || found.City != "Abu Dhabi" {
		t.Errorf("unexpected profile: %+v", found)
	}

	if _, err := repo.FindByUserID(ctx, "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestPatientRepository_FindByID(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	repo := NewPatientRepository(db)
	ctx := context.Background()

	user := seedPatient(t, users, "p2@example.com", "+971502222222", &domain.Patient{Emirate: "Dubai"})

	byUser, err := repo.FindByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindByUserID returned error: %v", err)
	}

	byID, err := repo.FindByID(ctx, byUser.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if byID.UserID != user.ID {
		t.Errorf("patient.UserID = %q, want %q", byID.UserID, user.ID)
	}
}

func TestPatientRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	repo := NewPatientRepository(db)
	ctx := context.Background()

	user := seedPatient(t, users, "p3@example.com", "+971503333333", &domain.Patient{
		HeightCM: 170,
		WeightKG: 70,
	})

	patient, err := repo.FindByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindByUserID returned error: %v", err)
	}

	dob := time.Date(1988, 11, 2, 0, 0, 0, 0, time.UTC)
	patient.DateOfBirth = &dob
	patient.WeightKG = 68.5
	patient.Allergies = "penicillin"
	patient.EmergencyContactName = "Sara"
	patient.EmergencyContactPhone = "+971509999999"
	if err := repo.Update(ctx, patient); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	found, err := repo.FindByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindByUserID returned error: %v", err)
	}
	if found.WeightKG != 68.5 {
		t.Errorf("weight = %v, want 68.5", found.WeightKG)
	}
	if found.Allergies != "penicillin" {
		t.Errorf("allergies = %q, want penicillin", found.Allergies)
	}
	if found.DateOfBirth == nil || !found.DateOfBirth.Equal(dob) {
		t.Errorf("date of birth = %v, want %v", found.DateOfBirth, dob)
	}
	if found.CreatedAt.IsZero() {
		t.Error("update must not clobber created_at")
	}
}

func TestPatientRepository_EmiratesIDExists(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	repo := NewPatientRepository(db)
	ctx := context.Background()

	seedPatient(t, users, "p4@example.com", "+971504444444", &domain.Patient{
		EmiratesID: "784-1991-1112223-3",
	})

	tests := []struct {
		name       string
		emiratesID string
		want       bool
	}{
		{name: "existing", emiratesID: "784-1991-1112223-3", want: true},
		{name: "unknown", emiratesID: "784-2000-0000000-0", want: false},
		{name: "empty never matches", emiratesID: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.EmiratesIDExists(ctx, tt.emiratesID)
			if err != nil {
				t.Fatalf("EmiratesIDExists returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("EmiratesIDExists(%q) = %v, want %v", tt.emiratesID, got, tt.want)
			}
		})
	}
}

// Profiles created without an emirates id must not trip the unique
// index; the column is stored as NULL, not "".
func TestPatientRepository_EmptyEmiratesIDsCoexist(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()

	seedPatient(t, users, "p5@example.com", "+971505555555", &domain.Patient{})
	user := testUser("p6@example.com", "+971506666666")
	if err := users.CreateWithPatient(ctx, user, &domain.Patient{}); err != nil {
		t.Fatalf("second profile without emirates id should be accepted, got %v", err)
	}
}
