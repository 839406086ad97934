package handlers

import (
	"net/http"
	"strings"
	"time"

	providerRepo "astrobook/database/repository/provider"
	"astrobook/models"
	"astrobook/services/booking"
	"astrobook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler serves calendar maintenance for operators.
type AdminHandler struct {
	Engine    booking.SchedulingEngine
	Providers providerRepo.ProviderRepository
}

func NewAdminHandler(engine booking.SchedulingEngine, providers providerRepo.ProviderRepository) *AdminHandler {
	return &AdminHandler{Engine: engine, Providers: providers}
}

type blockInput struct {
	ProviderID string            `json:"providerId" binding:"required"`
	Date       string            `json:"date" binding:"required"`
	Start      *models.TimeOfDay `json:"start"`
	End        *models.TimeOfDay `json:"end"`
	Reason     string            `json:"reason"`
}

// BlockSlot handles POST /api/admin/blocks.
func (h *AdminHandler) BlockSlot(c *gin.Context) {
	var input blockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	if input.Start == nil {
		respondError(c, &booking.ValidationError{Field: "start", Reason: "is required"})
		return
	}
	req := booking.BlockRequest{
		ProviderID: input.ProviderID,
		Date:       input.Date,
		Start:      *input.Start,
		Reason:     input.Reason,
	}
	if input.End != nil {
		req.End = *input.End
	}
	item, err := h.Engine.BlockSlot(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// ReleaseBlock handles DELETE /api/admin/blocks/:id.
func (h *AdminHandler) ReleaseBlock(c *gin.Context) {
	item, err := h.Engine.ReleaseBlock(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// UpsertProvider handles PUT /api/admin/providers/:id, replacing the
// provider's weekly schedule.
func (h *AdminHandler) UpsertProvider(c *gin.Context) {
	var profile models.ProviderProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		badRequest(c, err)
		return
	}
	profile.ID = c.Param("id")
	if msg := validateProfile(&profile); msg != "" {
		utils.JSONCodedError(c, http.StatusBadRequest, "validation_error", "Invalid provider profile", msg)
		return
	}

	ctx := c.Request.Context()
	now := time.Now().UTC()
	profile.CreatedAt = now
	if existing, err := h.Providers.GetByID(ctx, profile.ID); err == nil {
		profile.CreatedAt = existing.CreatedAt
	}
	profile.UpdatedAt = now

	if err := h.Providers.Upsert(ctx, &profile); err != nil {
		utils.GetLogger().Error("Failed to save provider profile", zap.String("providerId", profile.ID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to save provider profile", "")
		return
	}
	c.JSON(http.StatusOK, profile)
}

var weekdays = map[string]bool{
	"sunday": true, "monday": true, "tuesday": true, "wednesday": true,
	"thursday": true, "friday": true, "saturday": true,
}

// validateProfile returns a message describing the first problem, or "".
func validateProfile(p *models.ProviderProfile) string {
	if strings.TrimSpace(p.ID) == "" {
		return "id is required"
	}
	if p.EmployeeType == "" {
		return "employeeType is required"
	}
	if !p.WorkingWindow().Valid() {
		return "startTime must be before endTime"
	}
	for _, d := range p.WorkingDays {
		if !weekdays[strings.ToLower(strings.TrimSpace(d))] {
			return "unknown working day " + d
		}
	}
	if p.MinAdvanceHours < 0 {
		return "minAdvanceHours cannot be negative"
	}
	if p.SlotMinutes < 0 || p.SlotMinutes > 24*60 {
		return "slotMinutes out of range"
	}
	if p.TimeZone != "" {
		if _, err := time.LoadLocation(p.TimeZone); err != nil {
			return "unknown timeZone " + p.TimeZone
		}
	}
	return ""
}
