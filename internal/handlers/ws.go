package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/Masa6314/Tuji-hack/internal/services"
	"github.com/Masa6314/Tuji-hack/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSHandler struct {
	hub      *ws.Hub
	identity *services.IdentityService
}

func NewWSHandler(hub *ws.Hub, identity *services.IdentityService) *WSHandler {
	return &WSHandler{hub: hub, identity: identity}
}

// HandleDashboard subscribes a client to live summary updates. The channel is
// either "overview" or a respondent's capability token.
func (h *WSHandler) HandleDashboard(c *gin.Context) {
	channel := c.Param("channel")
	if channel != ws.OverviewChannel {
		if _, err := h.identity.LookupByToken(channel); err != nil {
			if errors.Is(err, services.ErrUnknownToken) {
				c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown channel"})
				return
			}
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws: upgrade failed: %v", err)
		return
	}

	h.hub.AddConnection(channel, conn)
	defer h.hub.RemoveConnection(channel, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
