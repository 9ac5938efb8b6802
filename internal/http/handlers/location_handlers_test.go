package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/foodauth/domain"
	"github.com/you/foodauth/internal/infrastructure/repositories"
	"github.com/you/foodauth/internal/logging"
	"github.com/you/foodauth/internal/mocks"
	"github.com/you/foodauth/internal/services"
)

func locationRouter(t *testing.T, user *domain.User) *gin.Engine {
	t.Helper()
	r := newTestEngine(t)
	h := NewLocationHandlers(services.NewLocationService(repositories.NewMemoryLocationRepository()), logging.Nop())
	r.POST("/place/locations", asUser(user), h.Record)
	r.GET("/place/locations", asUser(user), h.List)
	return r
}

func TestLocationHandlers_Record(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{name: "numbers", body: `{"latitude": 52.5, "longitude": 13.4}`, expectedStatus: http.StatusOK},
		{name: "numeric strings", body: `{"latitude": "52.5", "longitude": "13.4"}`, expectedStatus: http.StatusOK},
		{name: "body user_id ignored", body: `{"user_id": 99, "latitude": 1, "longitude": 2}`, expectedStatus: http.StatusOK},
		{name: "not numeric", body: `{"latitude": "north", "longitude": 13.4}`, expectedStatus: http.StatusBadRequest},
		{name: "out of range", body: `{"latitude": 91, "longitude": 0}`, expectedStatus: http.StatusBadRequest},
		{name: "missing longitude", body: `{"latitude": 10}`, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := locationRouter(t, testUser())
			w, body := doJSON(t, r, http.MethodPost, "/place/locations", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedStatus == http.StatusOK {
				data := body["data"].(map[string]interface{})
				assert.Equal(t, float64(1), data["user_id"])
				assert.NotEmpty(t, data["timestamp"])
			}
		})
	}
}

func TestLocationHandlers_List(t *testing.T) {
	r := locationRouter(t, testUser())

	for _, b := range []string{`{"latitude": 1, "longitude": 1}`, `{"latitude": 2, "longitude": 2}`} {
		w, _ := doJSON(t, r, http.MethodPost, "/place/locations", b)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, body := doJSON(t, r, http.MethodGet, "/place/locations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["data"], 2)
}

func TestLocationHandlers_RequiresUser(t *testing.T) {
	r := locationRouter(t, nil)
	w, _ := doJSON(t, r, http.MethodGet, "/place/locations", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLocationHandlers_ServiceFailure(t *testing.T) {
	svc := mocks.NewMockLocationService()
	svc.RecordFunc = func(ctx context.Context, userID uint, latitude, longitude float64) (*domain.Location, error) {
		return nil, errors.New("disk full")
	}
	svc.ListFunc = func(ctx context.Context, userID uint) ([]*domain.Location, error) {
		return nil, errors.New("disk full")
	}

	r := newTestEngine(t)
	h := NewLocationHandlers(svc, logging.Nop())
	r.POST("/place/locations", asUser(testUser()), h.Record)
	r.GET("/place/locations", asUser(testUser()), h.List)

	w, _ := doJSON(t, r, http.MethodPost, "/place/locations", `{"latitude": 1, "longitude": 1}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/place/locations", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
