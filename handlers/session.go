package handlers

import (
	"context"
	"errors"
	"net/http"

	"astrobook/models"
	"astrobook/services/session"
	"astrobook/utils"

	"github.com/gin-gonic/gin"
)

// SessionSupervisor runs metered consultations.
type SessionSupervisor interface {
	Start(ctx context.Context, sess session.Session) error
	Stop(bookingID string) bool
}

// SessionHandler starts and stops live consultations.
type SessionHandler struct {
	Bookings   *BookingHandler
	Supervisor SessionSupervisor
	// Base is the parent context of every session; it outlives the request.
	Base context.Context
}

func NewSessionHandler(bookings *BookingHandler, supervisor SessionSupervisor, base context.Context) *SessionHandler {
	return &SessionHandler{Bookings: bookings, Supervisor: supervisor, Base: base}
}

// StartSession handles POST /api/sessions/:id/start.
func (h *SessionHandler) StartSession(c *gin.Context) {
	item, ok := h.Bookings.visibleItem(c)
	if !ok {
		return
	}
	if !item.IsActive() || item.ProviderStatus != models.ProviderAccepted || item.BookingType != models.BookingOnline {
		utils.JSONCodedError(c, http.StatusConflict, "invalid_state", "Only accepted online consultations can start", "")
		return
	}
	_, endsAt, err := h.Bookings.Engine.SessionWindow(c.Request.Context(), item)
	if err != nil {
		respondError(c, err)
		return
	}

	err = h.Supervisor.Start(h.Base, session.Session{
		BookingID:  item.ID,
		CustomerID: item.CustomerID,
		ProviderID: item.ProviderID,
		EndsAt:     endsAt,
	})
	if errors.Is(err, session.ErrAlreadyRunning) {
		utils.JSONCodedError(c, http.StatusConflict, "session_running", "Session already running", "")
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"bookingId": item.ID, "endsAt": endsAt, "sessionLink": item.SessionLink})
}

// StopSession handles POST /api/sessions/:id/stop.
func (h *SessionHandler) StopSession(c *gin.Context) {
	item, ok := h.Bookings.visibleItem(c)
	if !ok {
		return
	}
	if !h.Supervisor.Stop(item.ID) {
		utils.JSONCodedError(c, http.StatusNotFound, "not_found", "No running session", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookingId": item.ID, "stopped": true})
}
