package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"github.com/neurulatechnologies/neurula-patient-backend/domain"
)

// CasbinService wraps the enforcer backed by a gorm policy store.
type CasbinService struct{ E *casbin.Enforcer }

// NewCasbinService loads the RBAC model and persisted policies, seeding
// the default role rules when the store is empty.
func NewCasbinService(db *gorm.DB, modelPath string) (*CasbinService, error) {
	adp, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
	}
	e, err := casbin.NewEnforcer(modelPath, adp)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	if err := e.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("failed to load casbin policy: %w", err)
	}

	svc := &CasbinService{E: e}
	if err := svc.seedDefaultPolicies(); err != nil {
		return nil, err
	}
	return svc, nil
}

// Enforce implements domain.AuthzEnforcer.
func (s *CasbinService) Enforce(rvals ...interface{}) (bool, error) {
	return s.E.Enforce(rvals...)
}

// seedDefaultPolicies installs the baseline role rules on first boot.
// Patients own their profile, doctors and admins may read any patient
// record, admins may manage everything under the API root.
func (s *CasbinService) seedDefaultPolicies() error {
	policies, err := s.E.GetPolicy()
	if err != nil {
		return fmt.Errorf("failed to read casbin policies: %w", err)
	}
	if len(policies) > 0 {
		return nil
	}

	defaults := [][]string{
		{string(domain.RolePatient), "/api/v1/patients/me", "GET"},
		{string(domain.RolePatient), "/api/v1/patients/me", "PUT"},
		{string(domain.RolePatient), "/api/v1/patients/me", "DELETE"},
		// Patients may request any patient id; the service layer rejects
		// reads of profiles they do not own.
		{string(domain.RolePatient), "/api/v1/patients/:patient_id", "GET"},
		{string(domain.RoleDoctor), "/api/v1/patients/:patient_id", "GET"},
		{string(domain.RoleAdmin), "/api/v1/patients/:patient_id", "GET"},
		{string(domain.RoleAdmin), "/api/v1/*", "(GET)|(POST)|(PUT)|(DELETE)"},
	}
	for _, p := range defaults {
		if _, err := s.E.AddPolicy(p[0], p[1], p[2]); err != nil {
			return fmt.Errorf("failed to seed policy %v: %w", p, err)
		}
	}
	if err := s.E.SavePolicy(); err != nil {
		return fmt.Errorf("failed to persist seeded policies: %w", err)
	}
	return nil
}

var _ domain.AuthzEnforcer = (*CasbinService)(nil)
