package auth

import (
	"errors"
	"testing"

	"github.com/neurulatechnologies/neurula-patient-backend/domain"
)

func TestPasswordService_HashAndVerify(t *testing.T) {
	svc := NewPasswordService(8)

	hash, err := svc.Hash("Secret123!")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "Secret123!" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !svc.Verify(hash, "Secret123!") {
		t.Error("Verify should accept the original password")
	}
	if svc.Verify(hash, "Secret123?") {
		t.Error("Verify should reject a different password")
	}
	if svc.Verify(hash, "") {
		t.Error("Verify should reject an empty password")
	}
}

func TestPasswordService_HashesAreSalted(t *testing.T) {
	svc := NewPasswordService(8)

	first, err := svc.Hash("Secret123!")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	second, err := svc.Hash("Secret123!")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}

	if first == second {
		t.Error("two hashes of the same password should differ")
	}
}

func TestPasswordService_ValidateStrength(t *testing.T) {
	svc := NewPasswordService(8)

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "strong", password: "Secret123!", wantErr: false},
		{name: "all classes minimum length", password: "Aa1!aaaa", wantErr: false},
		{name: "too short", password: "Aa1!aaa", wantErr: true},
		{name: "no uppercase", password: "secret123!", wantErr: true},
		{name: "no lowercase", password: "SECRET123!", wantErr: true},
		{name: "no digit", password: "SecretPass!", wantErr: true},
		{name: "no special", password: "Secret12345", wantErr: true},
		{name: "empty", password: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ValidateStrength(tt.password)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateStrength(%q) error = %v, wantErr %t", tt.password, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrWeakPassword) {
				t.Errorf("strength failure should wrap ErrWeakPassword, got %v", err)
			}
		})
	}
}

func TestPasswordService_CustomMinLength(t *testing.T) {
	svc := NewPasswordService(12)

	if err := svc.ValidateStrength("Aa1!aaaa"); !errors.Is(err, domain.ErrWeakPassword) {
		t.Error("8-char password should fail a 12-char policy")
	}
	if err := svc.ValidateStrength("Aa1!aaaaaaaa"); err != nil {
		t.Errorf("12-char password should pass a 12-char policy, got %v", err)
	}
}
