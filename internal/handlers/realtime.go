package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/wardrobify/wardrobify/internal/realtime"
)

// RealtimeHandler bridges the websocket endpoint to the telemetry relay.
type RealtimeHandler struct {
	relay *realtime.Relay
}

func NewRealtimeHandler(relay *realtime.Relay) *RealtimeHandler {
	return &RealtimeHandler{relay: relay}
}

// GET /ws
func (h *RealtimeHandler) Stream(c *gin.Context) {
	h.relay.Serve(currentUserID(c), c.Writer, c.Request)
}
