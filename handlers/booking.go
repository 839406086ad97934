package handlers

import (
	"net/http"
	"strconv"

	"astrobook/middleware"
	"astrobook/models"
	"astrobook/services/booking"
	"astrobook/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the scheduling engine over HTTP.
type BookingHandler struct {
	Engine booking.SchedulingEngine
}

func NewBookingHandler(engine booking.SchedulingEngine) *BookingHandler {
	return &BookingHandler{Engine: engine}
}

// GetAvailability handles GET /api/providers/:providerId/availability.
func (h *BookingHandler) GetAvailability(c *gin.Context) {
	opts := booking.AvailabilityOptions{Offline: c.Query("mode") == string(models.BookingOffline)}
	if d := c.Query("duration"); d != "" {
		minutes, err := strconv.Atoi(d)
		if err != nil {
			utils.JSONCodedError(c, http.StatusBadRequest, "validation_error", "Invalid input", "duration must be a number of minutes")
			return
		}
		opts.DurationMinutes = minutes
	}

	date := c.Query("date")
	slots, err := h.Engine.GetAvailability(c.Request.Context(), c.Param("providerId"), date, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"providerId": c.Param("providerId"),
		"date":       date,
		"slots":      slots,
	})
}

type createBookingInput struct {
	ProviderID  string              `json:"providerId" binding:"required"`
	Date        string              `json:"date" binding:"required"`
	Start       *models.TimeOfDay   `json:"start"`
	End         *models.TimeOfDay   `json:"end"`
	ServiceID   string              `json:"serviceId" binding:"required"`
	BookingType models.BookingType  `json:"bookingType"`
	Customer    models.CustomerInfo `json:"customer"`
}

// CreateBooking handles POST /api/bookings for the authenticated customer.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var input createBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	start, end, err := requiredTimes(input.Start, input.End)
	if err != nil {
		respondError(c, err)
		return
	}
	customerID, _ := middleware.Actor(c)

	item, err := h.Engine.CreateBooking(c.Request.Context(), booking.CreateBookingRequest{
		ProviderID:  input.ProviderID,
		Date:        input.Date,
		Start:       start,
		End:         end,
		ServiceID:   input.ServiceID,
		BookingType: input.BookingType,
		CustomerID:  customerID,
		Customer:    input.Customer,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// requiredTimes dereferences the start and end of a request body. An omitted
// time is a validation error rather than midnight.
func requiredTimes(start, end *models.TimeOfDay) (models.TimeOfDay, models.TimeOfDay, error) {
	if start == nil {
		return 0, 0, &booking.ValidationError{Field: "start", Reason: "is required"}
	}
	if end == nil {
		return 0, 0, &booking.ValidationError{Field: "end", Reason: "is required"}
	}
	return *start, *end, nil
}

// visibleItem loads the item and hides it from callers who are neither its
// customer, its provider nor an admin.
func (h *BookingHandler) visibleItem(c *gin.Context) (*models.BookingItem, bool) {
	item, err := h.Engine.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	actorID, role := middleware.Actor(c)
	switch {
	case role == utils.RoleAdmin,
		role == utils.RoleCustomer && item.CustomerID == actorID,
		role == utils.RoleProvider && item.ProviderID == actorID:
		return item, true
	}
	respondError(c, &booking.NotFoundError{Resource: "booking item", ID: item.ID})
	return nil, false
}

// GetBooking handles GET /api/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	item, ok := h.visibleItem(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, item)
}

type rescheduleInput struct {
	ProviderID string            `json:"providerId"`
	Date       string            `json:"date" binding:"required"`
	Start      *models.TimeOfDay `json:"start"`
	End        *models.TimeOfDay `json:"end"`
}

// Reschedule handles POST /api/bookings/:id/reschedule. The caller's role
// picks the customer or the provider path.
func (h *BookingHandler) Reschedule(c *gin.Context) {
	var input rescheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	start, end, err := requiredTimes(input.Start, input.End)
	if err != nil {
		respondError(c, err)
		return
	}
	item, ok := h.visibleItem(c)
	if !ok {
		return
	}
	actorID, role := middleware.Actor(c)

	moved, err := h.Engine.Reschedule(c.Request.Context(), booking.RescheduleRequest{
		ItemID:        item.ID,
		NewProviderID: input.ProviderID,
		Date:          input.Date,
		Start:         start,
		End:           end,
		ByProvider:    role == utils.RoleProvider,
		RequestedBy:   actorID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, moved)
}

// Accept handles POST /api/bookings/:id/accept for the booked provider.
func (h *BookingHandler) Accept(c *gin.Context) {
	providerID, _ := middleware.Actor(c)
	item, err := h.Engine.Accept(c.Request.Context(), c.Param("id"), providerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Reject handles POST /api/bookings/:id/reject for the booked provider.
func (h *BookingHandler) Reject(c *gin.Context) {
	var input struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	providerID, _ := middleware.Actor(c)
	item, err := h.Engine.Reject(c.Request.Context(), c.Param("id"), providerID, input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Cancel handles POST /api/bookings/:id/cancel.
func (h *BookingHandler) Cancel(c *gin.Context) {
	item, ok := h.visibleItem(c)
	if !ok {
		return
	}
	cancelled, err := h.Engine.Cancel(c.Request.Context(), item.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cancelled)
}
