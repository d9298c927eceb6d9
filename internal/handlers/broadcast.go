package handlers

import (
	"net/http"

	"github.com/Masa6314/Tuji-hack/internal/line"

	"github.com/gin-gonic/gin"
)

type BroadcastHandler struct {
	client      *line.Client
	formBaseURL string
}

func NewBroadcastHandler(client *line.Client, formBaseURL string) *BroadcastHandler {
	return &BroadcastHandler{client: client, formBaseURL: formBaseURL}
}

// Send godoc
// @Summary      Broadcast the daily form link to all followers
// @Tags         broadcast
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} MessageResponse
// @Failure      502 {object} ErrorResponse
// @Router       /api/v1/broadcast [post]
func (h *BroadcastHandler) Send(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	// Body is optional; an empty one falls back to the daily form notice.
	_ = c.ShouldBindJSON(&req)

	text := req.Text
	if text == "" {
		if h.formBaseURL == "" {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no text given and FORM_BASE_URL not configured"})
			return
		}
		text = "本日のフォームはこちらです👇\n" + h.formBaseURL
	}

	if err := h.client.BroadcastText(text); err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "broadcast sent"})
}
