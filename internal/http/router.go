package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/foodauth/domain"
	"github.com/you/foodauth/internal/http/handlers"
	"github.com/you/foodauth/internal/http/middleware"
	"github.com/you/foodauth/internal/logging"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Auth     *handlers.AuthHandlers
	Admin    *handlers.AdminHandlers
	Policy   *handlers.PolicyHandlers
	Location *handlers.LocationHandlers
}

func BuildRouter(h Handlers, authmw *middleware.AuthMW, pmw *middleware.PolicyMW, log logging.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/send-otp", h.Auth.SendOTP)
	auth.POST("/verify-otp", h.Auth.VerifyOTP)

	me := r.Group("/auth", authmw.WithJWT())
	me.GET("/me", h.Auth.Me)
	me.PATCH("/me", h.Auth.UpdateMe)
	me.GET("/admin-only", authmw.RequireRoles(domain.RoleAdmin), h.Auth.AdminOnly)

	place := r.Group("/place", authmw.WithJWT())
	place.GET("/locations", h.Location.List)
	place.POST("/locations", h.Location.Record)

	adm := r.Group("/admin", authmw.WithJWT(), authmw.RequireRoles(domain.RoleAdmin), pmw.Enforce())
	adm.GET("/users", h.Admin.ListUsers)
	adm.GET("/users/:id", h.Admin.GetUser)
	adm.PUT("/users/:id/roles", h.Admin.SetRoles)
	adm.PUT("/users/:id/status", h.Admin.SetStatus)
	adm.GET("/policies", h.Policy.List)
	adm.POST("/policies", h.Policy.Add)
	adm.DELETE("/policies", h.Policy.Remove)

	return r
}
