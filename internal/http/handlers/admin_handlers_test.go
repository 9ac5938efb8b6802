package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/foodauth/domain"
	"github.com/you/foodauth/internal/logging"
	"github.com/you/foodauth/internal/mocks"
)

func adminRouter(t *testing.T, svc *mocks.MockUserAdminService) *gin.Engine {
	t.Helper()
	r := newTestEngine(t)
	h := NewAdminHandlers(svc, logging.Nop())
	r.GET("/admin/users", h.ListUsers)
	r.GET("/admin/users/:id", h.GetUser)
	r.PUT("/admin/users/:id/roles", h.SetRoles)
	r.PUT("/admin/users/:id/status", h.SetStatus)
	return r
}

func TestAdminHandlers_ListUsers(t *testing.T) {
	svc := mocks.NewMockUserAdminService()
	var gotOffset, gotLimit int
	svc.ListFunc = func(ctx context.Context, offset, limit int) ([]*domain.User, int64, error) {
		gotOffset, gotLimit = offset, limit
		return []*domain.User{testUser()}, 42, nil
	}
	r := adminRouter(t, svc)

	w, body := doJSON(t, r, http.MethodGet, "/admin/users?offset=10&limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 10, gotOffset)
	assert.Equal(t, 5, gotLimit)
	assert.Equal(t, float64(42), body["total"])
	assert.Len(t, body["data"], 1)

	w, _ = doJSON(t, r, http.MethodGet, "/admin/users?offset=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/admin/users?limit=lots", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminHandlers_GetUser(t *testing.T) {
	svc := mocks.NewMockUserAdminService()
	svc.GetFunc = func(ctx context.Context, id uint) (*domain.User, error) {
		if id == 1 {
			return testUser(), nil
		}
		return nil, domain.ErrUserNotFound
	}
	r := adminRouter(t, svc)

	tests := []struct {
		path   string
		status int
	}{
		{"/admin/users/1", http.StatusOK},
		{"/admin/users/2", http.StatusNotFound},
		{"/admin/users/abc", http.StatusBadRequest},
		{"/admin/users/0", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w, _ := doJSON(t, r, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestAdminHandlers_SetRoles(t *testing.T) {
	svc := mocks.NewMockUserAdminService()
	var got domain.RoleSet
	svc.SetRolesFunc = func(ctx context.Context, id uint, roles domain.RoleSet) (*domain.User, error) {
		got = roles
		u := testUser()
		u.Roles = roles
		u.Role = domain.RoleAdmin
		return u, nil
	}
	r := adminRouter(t, svc)

	w, body := doJSON(t, r, http.MethodPut, "/admin/users/1/roles", gin.H{"roles": []string{"admin", "user"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, got.Has(domain.RoleAdmin))
	assert.Equal(t, "admin", body["data"].(map[string]interface{})["role"])

	tests := []struct {
		name string
		body interface{}
	}{
		{name: "unknown role", body: gin.H{"roles": []string{"root"}}},
		{name: "empty set", body: gin.H{"roles": []string{}}},
		{name: "missing", body: gin.H{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := doJSON(t, r, http.MethodPut, "/admin/users/1/roles", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAdminHandlers_SetStatus(t *testing.T) {
	svc := mocks.NewMockUserAdminService()
	svc.SetStatusFunc = func(ctx context.Context, id uint, status domain.UserStatus) (*domain.User, error) {
		u := testUser()
		u.Status = status
		return u, nil
	}
	r := adminRouter(t, svc)

	w, body := doJSON(t, r, http.MethodPut, "/admin/users/1/status", gin.H{"status": "suspended"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "suspended", body["data"].(map[string]interface{})["status"])

	w, _ = doJSON(t, r, http.MethodPut, "/admin/users/1/status", gin.H{"status": "banned"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
