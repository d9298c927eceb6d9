package handlers

import (
	"net/http"
	"strconv"

	"github.com/Masa6314/Tuji-hack/internal/line"
	"github.com/Masa6314/Tuji-hack/internal/services"

	"github.com/gin-gonic/gin"
)

type IdentityHandler struct {
	identity *services.IdentityService
	agg      *services.AggregationService
	client   *line.Client
}

func NewIdentityHandler(identity *services.IdentityService, agg *services.AggregationService, client *line.Client) *IdentityHandler {
	return &IdentityHandler{identity: identity, agg: agg, client: client}
}

// RegisterLineUser godoc
// @Summary      Manually register a LINE user and issue their token
// @Tags         identities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} ErrorResponse
// @Router       /register_line_user [post]
func (h *IdentityHandler) RegisterLineUser(c *gin.Context) {
	var req struct {
		LineUserID string `json:"line_user_id" binding:"required"`
		Name       string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	identity, created, err := h.identity.Register(req.LineUserID, req.Name, h.fetchName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":             true,
		"created":        created,
		"id":             identity.ID,
		"external_token": identity.ExternalToken,
	})
}

// Overview godoc
// @Summary      Latest summary per identity, riskiest first
// @Tags         identities
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} services.Summary
// @Router       /api/v1/overview [get]
func (h *IdentityHandler) Overview(c *gin.Context) {
	summaries, err := h.agg.Overview()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// Ranking godoc
// @Summary      Respondents ranked by distinct active days in a trailing window
// @Tags         identities
// @Produce      json
// @Security     BearerAuth
// @Param        days  query int false "window size in days" default(7)
// @Param        limit query int false "max entries"         default(10)
// @Success      200 {array} services.RankingEntry
// @Router       /api/v1/ranking [get]
func (h *IdentityHandler) Ranking(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid days"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		return
	}

	entries, err := h.agg.ActivityRanking(days, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *IdentityHandler) fetchName(userID string) (string, error) {
	profile, err := h.client.GetProfile(userID)
	if err != nil {
		return "", err
	}
	return profile.DisplayName, nil
}
