package mocks

import "github.com/neurulatechnologies/neurula-patient-backend/domain"

// MockAuthzEnforcer implements domain.AuthzEnforcer for testing.
type MockAuthzEnforcer struct {
	EnforceFunc func(rvals ...interface{}) (bool, error)
}

// NewMockAuthzEnforcer creates a new MockAuthzEnforcer with default behaviors.
func NewMockAuthzEnforcer() *MockAuthzEnforcer {
	return &MockAuthzEnforcer{}
}

// Enforce mirrors the seeded production policy closely enough for
// middleware tests: admins pass everywhere, patients only on their
// own profile routes.
func (m *MockAuthzEnforcer) Enforce(rvals ...interface{}) (bool, error) {
	if m.EnforceFunc != nil {
		return m.EnforceFunc(rvals...)
	}

	if len(rvals) < 3 {
		return false, nil
	}
	role, ok1 := rvals[0].(string)
	path, ok2 := rvals[1].(string)
	if !ok1 || !ok2 {
		return false, nil
	}

	switch role {
	case "admin":
		return true, nil
	case "patient":
		return path == "/api/v1/patients/me", nil
	}
	return false, nil
}

// Compile-time interface compliance verification
var _ domain.AuthzEnforcer = (*MockAuthzEnforcer)(nil)
