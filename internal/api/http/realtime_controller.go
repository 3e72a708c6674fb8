package http

import (
	"net/http"

	"github.com/codemindhq/codemind/internal/realtime"
	"github.com/codemindhq/codemind/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type RealtimeController struct {
	hub           *realtime.Hub
	collaboration service.CollaborationInteractor
	upgrader      websocket.Upgrader
}

func NewRealtimeController(hub *realtime.Hub, collaboration service.CollaborationInteractor) *RealtimeController {
	return &RealtimeController{
		hub:           hub,
		collaboration: collaboration,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// JoinRoom upgrades the connection and attaches it to the room relay.
// Membership is checked with the same rule the REST surface applies, so a
// non-participant cannot watch the relay.
func (c *RealtimeController) JoinRoom(ctx *gin.Context) {
	roomID, err := uuid.Parse(ctx.Param("roomID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}
	identity, _ := CurrentIdentity(ctx)
	if _, err := c.collaboration.RoleOf(ctx.Request.Context(), roomID, identity.UserID); err != nil {
		status := http.StatusForbidden
		if err != service.ErrNotParticipant {
			status = http.StatusInternalServerError
		}
		ctx.JSON(status, gin.H{"error": err.Error()})
		return
	}

	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		return
	}

	client := realtime.NewClient(c.hub, conn, roomID, identity.UserID)
	c.hub.Register(client)
	c.hub.Broadcast(roomID, realtime.StatusEvent("A reviewer joined"))

	go client.WritePump()
	go client.ReadPump()
}
