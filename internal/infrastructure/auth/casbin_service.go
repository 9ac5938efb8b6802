package auth

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

// RBACModel matches role subjects against path patterns (keyMatch2, so
// /admin/users/:id works) and method regexes like (GET|POST).
const RBACModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// DefaultPolicies are seeded when the policy table is empty
var DefaultPolicies = [][]string{
	{"role_admin", "/admin/*", "(GET|POST|PUT|PATCH|DELETE)"},
	{"role_user", "/auth/me", "(GET|PATCH)"},
	{"role_user", "/place/locations", "(GET|POST)"},
	{"role_courier", "/place/locations", "(GET|POST)"},
}

type CasbinService struct{ E *casbin.Enforcer }

// NewCasbinService builds an enforcer persisted in db. A nil db keeps
// policies in memory only.
func NewCasbinService(db *gorm.DB, tablePrefix string) (*CasbinService, error) {
	m, err := model.NewModelFromString(RBACModel)
	if err != nil {
		return nil, fmt.Errorf("casbin model: %w", err)
	}

	var e *casbin.Enforcer
	if db == nil {
		e, err = casbin.NewEnforcer(m)
	} else {
		var adp *gormadapter.Adapter
		// the adapter joins prefix and table with "_"
		adp, err = gormadapter.NewAdapterByDBUseTableName(db, strings.TrimSuffix(tablePrefix, "_"), "casbin_rule")
		if err != nil {
			return nil, fmt.Errorf("casbin adapter: %w", err)
		}
		e, err = casbin.NewEnforcer(m, adp)
	}
	if err != nil {
		return nil, fmt.Errorf("casbin enforcer: %w", err)
	}

	if db != nil {
		if err := e.LoadPolicy(); err != nil {
			return nil, err
		}
	}
	return &CasbinService{E: e}, nil
}

// SeedDefaults adds DefaultPolicies when no policy exists yet. It reports
// whether anything was written.
func (c *CasbinService) SeedDefaults() (bool, error) {
	policies, err := c.E.GetPolicy()
	if err != nil {
		return false, err
	}
	if len(policies) > 0 {
		return false, nil
	}
	for _, p := range DefaultPolicies {
		if _, err := c.E.AddPolicy(p[0], p[1], p[2]); err != nil {
			return false, err
		}
	}
	return true, nil
}
