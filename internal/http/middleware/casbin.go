package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/foodauth/domain"
	"github.com/you/foodauth/internal/logging"
)

// PolicyMW checks the route against Casbin policies for every role the
// caller holds.
type PolicyMW struct {
	policy domain.PolicyService
	audit  domain.AuditLogger
	log    logging.Logger
}

func NewPolicyMW(policy domain.PolicyService, audit domain.AuditLogger, log logging.Logger) *PolicyMW {
	return &PolicyMW{policy: policy, audit: audit, log: log.With("component", "policy_mw")}
}

func callerRoles(u *domain.User) []domain.Role {
	roles := u.Roles.Slice()
	if u.Role != "" && !u.Roles.Has(u.Role) {
		roles = append(roles, u.Role)
	}
	return roles
}

// Enforce returns the casbin authorization middleware. It must run after
// WithJWT.
func (mw *PolicyMW) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		path := c.Request.URL.Path
		method := c.Request.Method

		allowed, err := mw.policy.CheckAnyRole(callerRoles(user), path, method)
		if err != nil {
			mw.log.Error(c.Request.Context(), "policy check failed", "path", path, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Authorization check failed"})
			return
		}
		if !allowed {
			mw.audit.LogEvent(c.Request.Context(), domain.NewAuditEvent(domain.AccessDeniedEvent, user.ID).
				WithUsername(user.Username).
				WithMetadata("path", path).
				WithMetadata("method", method).
				WithError(domain.ErrForbidden))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access Denied"})
			return
		}

		c.Next()
	}
}
