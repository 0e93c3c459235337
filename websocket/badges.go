package websocket

import (
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/christensenep/openbadger/models"
)

// BadgeClient represents a client connected for badge award updates
type BadgeClient struct {
	Conn    *websocket.Conn
	writeMu sync.Mutex
}

// SafeWriteJSON safely writes JSON data to the client's WebSocket connection
func (bc *BadgeClient) SafeWriteJSON(v interface{}) error {
	bc.writeMu.Lock()
	defer bc.writeMu.Unlock()
	return bc.Conn.WriteJSON(v)
}

// Global badge hub for broadcasting award events to all connected clients
var (
	badgeClients = make(map[*BadgeClient]bool)
	badgeMutex   sync.RWMutex
)

// RegisterBadgeClient registers a client for badge award updates
func RegisterBadgeClient(client *BadgeClient) {
	badgeMutex.Lock()
	defer badgeMutex.Unlock()
	badgeClients[client] = true
	zap.L().Debug("badge client registered", zap.Int("clients", len(badgeClients)))
}

// UnregisterBadgeClient removes a client from badge award updates
func UnregisterBadgeClient(client *BadgeClient) {
	badgeMutex.Lock()
	defer badgeMutex.Unlock()
	delete(badgeClients, client)
	client.Conn.Close()
	zap.L().Debug("badge client unregistered", zap.Int("clients", len(badgeClients)))
}

// BroadcastBadgeEvent broadcasts a badge event to all connected clients.
// Delivery is best effort: a failed client is dropped, the award that
// triggered the event is already durable.
func BroadcastBadgeEvent(event models.BadgeEvent) {
	badgeMutex.RLock()
	clients := make([]*BadgeClient, 0, len(badgeClients))
	for client := range badgeClients {
		clients = append(clients, client)
	}
	badgeMutex.RUnlock()

	for _, client := range clients {
		if err := client.SafeWriteJSON(event); err != nil {
			zap.L().Debug("dropping badge client", zap.Error(err))
			UnregisterBadgeClient(client)
		}
	}
}
