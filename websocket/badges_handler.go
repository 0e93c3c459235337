package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var badgeUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// BadgeFeedHandler upgrades the connection and streams badge award events
// until the client disconnects. The feed is read-only; inbound messages are
// drained and ignored.
func BadgeFeedHandler(c *gin.Context) {
	conn, err := badgeUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &BadgeClient{Conn: conn}
	RegisterBadgeClient(client)
	defer UnregisterBadgeClient(client)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
