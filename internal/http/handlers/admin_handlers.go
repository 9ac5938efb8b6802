package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/foodauth/domain"
	"github.com/you/foodauth/internal/logging"
)

// AdminHandlers expose user management to administrators
type AdminHandlers struct {
	svc domain.UserAdminService
	log logging.Logger
}

func NewAdminHandlers(svc domain.UserAdminService, log logging.Logger) *AdminHandlers {
	return &AdminHandlers{svc: svc, log: log.With("component", "admin_handlers")}
}

type listUsersQuery struct {
	Offset int `form:"offset" binding:"omitempty,min=0"`
	Limit  int `form:"limit" binding:"omitempty,min=1"`
}

type setRolesRequest struct {
	Roles []string `json:"roles" binding:"required,min=1,dive,role"`
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active suspended disabled"`
}

func publicUsers(users []*domain.User) []domain.PublicUser {
	out := make([]domain.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out
}

// ListUsers pages through accounts: GET /admin/users?offset=&limit=
func (h *AdminHandlers) ListUsers(c *gin.Context) {
	var q listUsersQuery
	if err := bindQuery(c, &q); err != nil {
		respondError(c, h.log, err)
		return
	}

	users, total, err := h.svc.List(c.Request.Context(), q.Offset, q.Limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":   publicUsers(users),
		"total":  total,
		"offset": q.Offset,
	})
}

func (h *AdminHandlers) GetUser(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	user, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user.Public()})
}

// SetRoles replaces the user's role set
func (h *AdminHandlers) SetRoles(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	var req setRolesRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}

	roles := domain.NewRoleSet()
	for _, name := range req.Roles {
		r, err := domain.ParseRole(name)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		roles.Add(r)
	}

	user, err := h.svc.SetRoles(c.Request.Context(), id, roles)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user.Public()})
}

func (h *AdminHandlers) SetStatus(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	var req setStatusRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}

	user, err := h.svc.SetStatus(c.Request.Context(), id, domain.UserStatus(req.Status))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user.Public()})
}
