package controllers

import (
	"errors"
	"net/http"

	"backend/services"

	"github.com/gin-gonic/gin"
)

type UsageController struct {
	Usage     *services.UsageService
	Devices   *services.DeviceService
	Analytics *services.AnalyticsService
}

func NewUsageController(usage *services.UsageService, devices *services.DeviceService, analytics *services.AnalyticsService) *UsageController {
	return &UsageController{Usage: usage, Devices: devices, Analytics: analytics}
}

type recordTodayInput struct {
	HoursUsed *float64 `json:"hours_used" binding:"required"`
}

type recordForDateInput struct {
	Date      string   `json:"date" binding:"required"`
	HoursUsed *float64 `json:"hours_used" binding:"required"`
}

// RecordToday handles PUT /devices/:id/usage — today's entry, overwrite
// semantics.
func (uc *UsageController) RecordToday(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	deviceID, ok := deviceIDFromParam(c)
	if !ok {
		return
	}

	var input recordTodayInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := uc.Usage.RecordToday(userID, deviceID, *input.HoursUsed)
	if err != nil {
		writeUsageError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

// RecordForDate handles POST /devices/:id/usage with an explicit date.
func (uc *UsageController) RecordForDate(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	deviceID, ok := deviceIDFromParam(c)
	if !ok {
		return
	}

	var input recordForDateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := uc.Usage.RecordForDate(userID, deviceID, input.Date, *input.HoursUsed)
	if err != nil {
		writeUsageError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rec)
}

// GetWeekly handles GET /devices/:id/usage — the dense 7-day map plus the
// device metadata the dashboard widget renders alongside it.
func (uc *UsageController) GetWeekly(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	deviceID, ok := deviceIDFromParam(c)
	if !ok {
		return
	}

	dev, err := uc.Devices.FindForUser(userID, deviceID)
	if err != nil {
		writeUsageError(c, err)
		return
	}

	days, err := uc.Analytics.DeviceDailyUsage(c.Request.Context(), userID, deviceID, 7)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"device": dev,
		"usage":  days,
	})
}

func writeUsageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDeviceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
	case errors.Is(err, services.ErrInvalidHours), errors.Is(err, services.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not record usage"})
	}
}
