package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/you/foodauth/domain"
	"github.com/you/foodauth/internal/http/middleware"
	"github.com/you/foodauth/internal/logging"
)

// Coordinate accepts a JSON number or a numeric string
type Coordinate float64

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	raw := bytes.Trim(bytes.TrimSpace(data), `"`)
	v, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return fmt.Errorf("%w: latitude and longitude must be numeric", domain.ErrInvalidCoordinate)
	}
	*c = Coordinate(v)
	return nil
}

type LocationHandlers struct {
	svc domain.LocationService
	log logging.Logger
}

func NewLocationHandlers(svc domain.LocationService, log logging.Logger) *LocationHandlers {
	return &LocationHandlers{svc: svc, log: log.With("component", "location_handlers")}
}

type recordLocationRequest struct {
	Latitude  *Coordinate `json:"latitude" binding:"required"`
	Longitude *Coordinate `json:"longitude" binding:"required"`
}

type locationResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

func toLocationResponse(l *domain.Location) locationResponse {
	return locationResponse{
		ID:        l.ID,
		UserID:    l.UserID,
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		Timestamp: l.RecordedAt,
	}
}

// Record stores a position for the caller. A user_id in the body is
// ignored.
func (h *LocationHandlers) Record(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, h.log, domain.ErrUnauthenticated)
		return
	}

	var req recordLocationRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}

	loc, err := h.svc.Record(c.Request.Context(), user.ID, float64(*req.Latitude), float64(*req.Longitude))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toLocationResponse(loc)})
}

// List returns the caller's locations, newest first
func (h *LocationHandlers) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, h.log, domain.ErrUnauthenticated)
		return
	}

	locs, err := h.svc.List(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	out := make([]locationResponse, 0, len(locs))
	for _, l := range locs {
		out = append(out, toLocationResponse(l))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}
