package handlers

import (
	"log"
	"net/http"

	"github.com/Masa6314/Tuji-hack/internal/line"
	"github.com/Masa6314/Tuji-hack/internal/services"

	"github.com/gin-gonic/gin"
)

type LineWebhookHandler struct {
	identity *services.IdentityService
	client   *line.Client
	notifier *line.Notifier
}

func NewLineWebhookHandler(identity *services.IdentityService, client *line.Client, notifier *line.Notifier) *LineWebhookHandler {
	return &LineWebhookHandler{identity: identity, client: client, notifier: notifier}
}

// Callback godoc
// @Summary      Receive LINE platform events
// @Tags         webhooks
// @Accept       json
// @Produce      plain
// @Param        X-Line-Signature header string true "HMAC-SHA256 signature over the raw body"
// @Success      200 {string} string "OK"
// @Failure      400 {object} ErrorResponse
// @Router       /callback [post]
func (h *LineWebhookHandler) Callback(c *gin.Context) {
	var payload line.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body json"})
		return
	}

	for _, ev := range payload.Events {
		// Only 1:1 talk identifies a respondent; group/room events carry
		// no individual to bind.
		if ev.Source.Type != "user" || ev.Source.UserID == "" {
			continue
		}

		identity, err := h.identity.Resolve(ev.Source.UserID, h.fetchName)
		if err != nil {
			log.Printf("[line] resolve failed for %s: %v", ev.Source.UserID, err)
			continue
		}

		// Reply is only trustworthy right after a follow event; other
		// event types go out as a push.
		replyToken := ""
		if ev.Type == "follow" {
			replyToken = ev.ReplyToken
		}
		h.notifier.NotifyLinks(ev.Source.UserID, replyToken, identity.DisplayName, identity.ExternalToken)
	}

	// The platform expects a fast acknowledgement regardless of delivery
	// outcome, and an empty event list still gets a 200.
	c.String(http.StatusOK, "OK")
}

func (h *LineWebhookHandler) fetchName(userID string) (string, error) {
	profile, err := h.client.GetProfile(userID)
	if err != nil {
		return "", err
	}
	return profile.DisplayName, nil
}
