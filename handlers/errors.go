package handlers

import (
	"errors"
	"net/http"

	"astrobook/database/lock"
	bookingRepo "astrobook/database/repository/booking"
	"astrobook/services/booking"
	"astrobook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps scheduling errors to HTTP statuses and stable codes.
func respondError(c *gin.Context, err error) {
	var (
		validation *booking.ValidationError
		notFound   *booking.NotFoundError
		notAvail   *booking.NotAvailableError
		conflict   *booking.ConflictError
		offline    *booking.OfflineConflictError
		state      *booking.InvalidStateError
	)
	switch {
	case errors.As(err, &validation):
		utils.JSONCodedError(c, http.StatusBadRequest, "validation_error", "Invalid request", err.Error())
	case errors.As(err, &notFound):
		utils.JSONCodedError(c, http.StatusNotFound, "not_found", "Not found", err.Error())
	case errors.As(err, &notAvail):
		utils.JSONCodedError(c, http.StatusUnprocessableEntity, "not_available", "Provider not available", notAvail.Reason)
	case errors.As(err, &conflict):
		utils.JSONCodedError(c, http.StatusConflict, "slot_conflict", "Requested time overlaps an existing booking", err.Error())
	case errors.As(err, &offline):
		utils.JSONCodedError(c, http.StatusConflict, "offline_conflict", "Provider already has an offline booking that day", err.Error())
	case errors.As(err, &state):
		utils.JSONCodedError(c, http.StatusConflict, "invalid_state", "Booking cannot make this transition", err.Error())
	case errors.Is(err, bookingRepo.ErrVersionConflict):
		utils.JSONCodedError(c, http.StatusConflict, "concurrent_update", "Booking changed while processing, try again", "")
	case errors.Is(err, lock.ErrNotAcquired):
		utils.JSONCodedError(c, http.StatusServiceUnavailable, "calendar_busy", "Calendar is busy, try again", "")
	default:
		utils.GetLogger().Error("Unhandled booking error", zap.String("path", c.FullPath()), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func badRequest(c *gin.Context, err error) {
	utils.JSONCodedError(c, http.StatusBadRequest, "validation_error", "Invalid input", err.Error())
}
