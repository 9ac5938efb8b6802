package mocks

import "github.com/you/foodauth/domain"

// MockPolicyService implements domain.PolicyService interface for testing
type MockPolicyService struct {
	AddPolicyFunc       func(sub, obj, act string) error
	RemovePolicyFunc    func(sub, obj, act string) error
	CheckPermissionFunc func(sub, obj, act string) (bool, error)
	CheckAnyRoleFunc    func(roles []domain.Role, obj, act string) (bool, error)
	GetPoliciesFunc     func() ([][]string, error)
}

// NewMockPolicyService creates a new MockPolicyService with default behaviors
func NewMockPolicyService() *MockPolicyService {
	return &MockPolicyService{}
}

func (m *MockPolicyService) AddPolicy(sub, obj, act string) error {
	if m.AddPolicyFunc != nil {
		return m.AddPolicyFunc(sub, obj, act)
	}
	return nil
}

func (m *MockPolicyService) RemovePolicy(sub, obj, act string) error {
	if m.RemovePolicyFunc != nil {
		return m.RemovePolicyFunc(sub, obj, act)
	}
	return nil
}

// CheckPermission defaults to allowing role_admin only
func (m *MockPolicyService) CheckPermission(sub, obj, act string) (bool, error) {
	if m.CheckPermissionFunc != nil {
		return m.CheckPermissionFunc(sub, obj, act)
	}
	return sub == domain.RoleAdmin.PolicySubject(), nil
}

// CheckAnyRole defaults to allowing admins only
func (m *MockPolicyService) CheckAnyRole(roles []domain.Role, obj, act string) (bool, error) {
	if m.CheckAnyRoleFunc != nil {
		return m.CheckAnyRoleFunc(roles, obj, act)
	}
	for _, r := range roles {
		if r == domain.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockPolicyService) GetPolicies() ([][]string, error) {
	if m.GetPoliciesFunc != nil {
		return m.GetPoliciesFunc()
	}
	return [][]string{
		{"role_admin", "/admin/*", "(GET|POST|PUT|PATCH|DELETE)"},
	}, nil
}

// Compile-time interface compliance verification
var _ domain.PolicyService = (*MockPolicyService)(nil)
