package controllers

import (
	"net/http"

	"github.com/vivmuk/caloriecounter/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type RealtimeController struct {
	Hub *services.RealtimeHub
}

func NewRealtimeController(hub *services.RealtimeHub) *RealtimeController {
	return &RealtimeController{Hub: hub}
}

var upgrader = websocket.Upgrader{
	// Auth happens in the JWT middleware; the API is origin-agnostic.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GET /ws/analyses
//
// AnalysesWS upgrades the request and streams analysis.completed and
// compare.* events for the authenticated user. The write pump owns the
// connection's outbound side; this handler only reads, and a read error is
// the signal that the peer went away.
func (rc *RealtimeController) AnalysesWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := services.NewWSClient(c.GetUint("userID"), conn)
	rc.Hub.Register(client)
	go client.WritePump()

	defer rc.Hub.Unregister(client)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
