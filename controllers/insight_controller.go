package controllers

import (
	"net/http"

	"backend/services"

	"github.com/gin-gonic/gin"
)

// insightWindowDays is the trailing window fed to the insight generator.
const insightWindowDays = 30

type InsightController struct {
	Analytics *services.AnalyticsService
	Insights  *services.InsightService
}

func NewInsightController(analytics *services.AnalyticsService, insights *services.InsightService) *InsightController {
	return &InsightController{Analytics: analytics, Insights: insights}
}

// Get handles GET /insights. Only a repository read failure reaches the
// caller as an error; the generative path degrades silently.
func (ic *InsightController) Get(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	summary, err := ic.Analytics.Summary(c.Request.Context(), userID, insightWindowDays)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not read usage data"})
		return
	}

	report := ic.Insights.Generate(c.Request.Context(), summary)

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"insights": report.Text,
		"source":   report.Source,
	})
}
