package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/Masa6314/Tuji-hack/internal/services"
	"github.com/Masa6314/Tuji-hack/internal/ws"

	"github.com/gin-gonic/gin"
)

type FormWebhookHandler struct {
	ingest   *services.IngestService
	identity *services.IdentityService
	agg      *services.AggregationService
	hub      *ws.Hub
}

func NewFormWebhookHandler(
	ingest *services.IngestService,
	identity *services.IdentityService,
	agg *services.AggregationService,
	hub *ws.Hub,
) *FormWebhookHandler {
	return &FormWebhookHandler{ingest: ingest, identity: identity, agg: agg, hub: hub}
}

// Receive godoc
// @Summary      Receive a Google Form submission
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        X-Webhook-Token header string true "Shared webhook secret"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /api/forms/google [post]
func (h *FormWebhookHandler) Receive(c *gin.Context) {
	var payload services.FormPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body json"})
		return
	}

	resp, err := h.ingest.Ingest(&payload)
	if err != nil {
		var multi *services.MultiSelectError
		var incomplete *services.IncompleteError
		switch {
		case errors.Is(err, services.ErrMissingToken),
			errors.Is(err, services.ErrUnknownToken),
			errors.As(err, &multi),
			errors.As(err, &incomplete):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			// A store failure is ours, not the form provider's, and its
			// text stays out of the response.
			log.Printf("[webhook] ingest failed: %v", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		}
		return
	}

	h.notifyDashboards(resp.IdentityID)
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": resp.ID})
}

// notifyDashboards pushes the refreshed summary to live dashboard viewers.
// Purely best-effort: a failure here never affects the webhook response.
func (h *FormWebhookHandler) notifyDashboards(identityID uint) {
	identity, err := h.identity.Get(identityID)
	if err != nil {
		log.Printf("[webhook] identity reload failed: %v", err)
		return
	}
	summary, err := h.agg.LatestSummary(identity)
	if err != nil {
		log.Printf("[webhook] summary build failed: %v", err)
		return
	}

	msg := ws.WSMessage{Type: "summary_updated", Data: summary}
	h.hub.Broadcast(ws.OverviewChannel, msg)
	h.hub.Broadcast(identity.ExternalToken, msg)
}
