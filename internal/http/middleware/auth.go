package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/foodauth/domain"
	"github.com/you/foodauth/internal/logging"
)

const userKey = "user"

// AuthMW resolves bearer tokens through the auth gate
type AuthMW struct {
	gate  domain.AuthGate
	audit domain.AuditLogger
	log   logging.Logger
}

// NewAuthMW creates new auth middleware wrapper
func NewAuthMW(gate domain.AuthGate, audit domain.AuditLogger, log logging.Logger) *AuthMW {
	return &AuthMW{
		gate:  gate,
		audit: audit,
		log:   log.With("component", "auth_mw"),
	}
}

// WithJWT returns the JWT middleware function
func (mw *AuthMW) WithJWT() gin.HandlerFunc {
	return AuthMiddleware(mw.gate)
}

// RequireRoles lets the request through when the current user holds any of
// roles. It must run after WithJWT.
func (mw *AuthMW) RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := CurrentUser(c)
		if _, err := mw.gate.RequireRole(user, roles...); err != nil {
			if errors.Is(err, domain.ErrForbidden) && user != nil {
				mw.audit.LogEvent(c.Request.Context(), domain.NewAuditEvent(domain.AccessDeniedEvent, user.ID).
					WithUsername(user.Username).
					WithMetadata("path", c.Request.URL.Path).
					WithError(err))
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Not enough permissions"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user stored by WithJWT
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok && user != nil
}

// SetCurrentUser stores user on the request context
func SetCurrentUser(c *gin.Context, user *domain.User) {
	c.Set(userKey, user)
}
