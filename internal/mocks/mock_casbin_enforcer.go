package mocks

import (
	"sync"

	"github.com/you/foodauth/domain"
)

// MockCasbinEnforcer implements the CasbinEnforcer interface for testing.
// The default Enforce does exact sub/obj/act matching on stored rules.
type MockCasbinEnforcer struct {
	AddPolicyFunc    func(params ...interface{}) (bool, error)
	RemovePolicyFunc func(params ...interface{}) (bool, error)
	EnforceFunc      func(rvals ...interface{}) (bool, error)
	GetPolicyFunc    func() ([][]string, error)

	mu       sync.Mutex
	policies [][]string
}

// Compile-time interface compliance verification
var _ domain.CasbinEnforcer = (*MockCasbinEnforcer)(nil)

// NewMockCasbinEnforcer creates a new MockCasbinEnforcer seeded with rules
func NewMockCasbinEnforcer(rules ...[]string) *MockCasbinEnforcer {
	m := &MockCasbinEnforcer{}
	for _, r := range rules {
		m.policies = append(m.policies, append([]string(nil), r...))
	}
	return m
}

func toStrings(params []interface{}) []string {
	out := make([]string, len(params))
	for i, p := range params {
		if s, ok := p.(string); ok {
			out[i] = s
		}
	}
	return out
}

func (m *MockCasbinEnforcer) indexLocked(rule []string) int {
	for i, p := range m.policies {
		if len(p) != len(rule) {
			continue
		}
		match := true
		for j := range p {
			if p[j] != rule[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// AddPolicy adds a new policy rule; duplicates report false
func (m *MockCasbinEnforcer) AddPolicy(params ...interface{}) (bool, error) {
	if m.AddPolicyFunc != nil {
		return m.AddPolicyFunc(params...)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	rule := toStrings(params)
	if m.indexLocked(rule) >= 0 {
		return false, nil
	}
	m.policies = append(m.policies, rule)
	return true, nil
}

// RemovePolicy removes a policy rule
func (m *MockCasbinEnforcer) RemovePolicy(params ...interface{}) (bool, error) {
	if m.RemovePolicyFunc != nil {
		return m.RemovePolicyFunc(params...)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexLocked(toStrings(params))
	if i < 0 {
		return false, nil
	}
	m.policies = append(m.policies[:i], m.policies[i+1:]...)
	return true, nil
}

// Enforce checks if a request should be allowed
func (m *MockCasbinEnforcer) Enforce(rvals ...interface{}) (bool, error) {
	if m.EnforceFunc != nil {
		return m.EnforceFunc(rvals...)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indexLocked(toStrings(rvals)) >= 0, nil
}

// GetPolicy returns a copy of all policies
func (m *MockCasbinEnforcer) GetPolicy() ([][]string, error) {
	if m.GetPolicyFunc != nil {
		return m.GetPolicyFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([][]string, len(m.policies))
	for i, policy := range m.policies {
		result[i] = append([]string(nil), policy...)
	}
	return result, nil
}
