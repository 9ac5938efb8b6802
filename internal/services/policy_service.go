package services

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"

	"github.com/you/foodauth/domain"
)

// PolicyServiceImpl implements domain.PolicyService using Casbin
type PolicyServiceImpl struct {
	enforcer domain.CasbinEnforcer
}

// NewPolicyService creates a new policy service. *casbin.Enforcer satisfies
// domain.CasbinEnforcer directly.
func NewPolicyService(enforcer *casbin.Enforcer) domain.PolicyService {
	return NewPolicyServiceWithEnforcer(enforcer)
}

// NewPolicyServiceWithEnforcer creates a new policy service with a CasbinEnforcer interface (for testing)
func NewPolicyServiceWithEnforcer(enforcer domain.CasbinEnforcer) domain.PolicyService {
	return &PolicyServiceImpl{enforcer: enforcer}
}

func validRule(sub, obj, act string) error {
	if strings.TrimSpace(sub) == "" || strings.TrimSpace(obj) == "" || strings.TrimSpace(act) == "" {
		return fmt.Errorf("%w: sub, obj and act are required", domain.ErrValidation)
	}
	if !strings.HasPrefix(obj, "/") {
		return fmt.Errorf("%w: obj must be a path", domain.ErrValidation)
	}
	return nil
}

// AddPolicy implements domain.PolicyService. The adapter persists the rule.
func (p *PolicyServiceImpl) AddPolicy(sub, obj, act string) error {
	if err := validRule(sub, obj, act); err != nil {
		return err
	}
	_, err := p.enforcer.AddPolicy(sub, obj, act)
	return err
}

// RemovePolicy implements domain.PolicyService. Removing an unknown rule
// is reported as not found.
func (p *PolicyServiceImpl) RemovePolicy(sub, obj, act string) error {
	if err := validRule(sub, obj, act); err != nil {
		return err
	}
	removed, err := p.enforcer.RemovePolicy(sub, obj, act)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrResourceNotFound
	}
	return nil
}

// CheckPermission implements domain.PolicyService
func (p *PolicyServiceImpl) CheckPermission(sub, obj, act string) (bool, error) {
	return p.enforcer.Enforce(sub, obj, act)
}

// CheckAnyRole reports whether any of roles is allowed act on obj
func (p *PolicyServiceImpl) CheckAnyRole(roles []domain.Role, obj, act string) (bool, error) {
	for _, r := range roles {
		ok, err := p.enforcer.Enforce(r.PolicySubject(), obj, act)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// GetPolicies implements domain.PolicyService
func (p *PolicyServiceImpl) GetPolicies() ([][]string, error) {
	return p.enforcer.GetPolicy()
}
