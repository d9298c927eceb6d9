package handlers

import (
	"errors"
	"net/http"

	"github.com/Masa6314/Tuji-hack/internal/services"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	identity *services.IdentityService
	agg      *services.AggregationService
}

func NewDashboardHandler(identity *services.IdentityService, agg *services.AggregationService) *DashboardHandler {
	return &DashboardHandler{identity: identity, agg: agg}
}

// GetUserDashboard godoc
// @Summary      One respondent's dashboard data, keyed by capability token
// @Tags         dashboard
// @Produce      json
// @Param        token path string true "capability token"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/dashboard/{token} [get]
func (h *DashboardHandler) GetUserDashboard(c *gin.Context) {
	identity, err := h.identity.LookupByToken(c.Param("token"))
	if err != nil {
		if errors.Is(err, services.ErrUnknownToken) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	summary, err := h.agg.LatestSummary(identity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	series, err := h.agg.DailySeries(identity.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	answers, err := h.agg.LatestAnswers(identity.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":        summary,
		"daily_series":   series,
		"latest_answers": answers,
	})
}
