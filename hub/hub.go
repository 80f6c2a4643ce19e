// Package hub pushes order board events to connected admin screens.
package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Event types
const (
	EventOrderCreated   = "order_created"
	EventOrderStatus    = "order_status"
	EventOrderDeleted   = "order_deleted"
	EventProductUpdated = "product_updated"
)

// writeWait bounds a single write so a stalled screen cannot hold the hub.
const writeWait = 10 * time.Second

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds every open admin connection together with its role.
type Hub struct {
	clients   map[*websocket.Conn]string
	mutex     sync.Mutex
	log       *logrus.Logger
	writeWait time.Duration
}

func New(log *logrus.Logger) *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]string),
		log:       log,
		writeWait: writeWait,
	}
}

// Register adds a connection to the broadcast set.
func (h *Hub) Register(conn *websocket.Conn, role string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = role
}

// Unregister drops the connection and closes it.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[conn]; !ok {
		return
	}
	delete(h.clients, conn)
	conn.Close()
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Broadcast sends the event to every client. Clients that fail to receive it
// are dropped. A nil hub discards the event.
func (h *Hub) Broadcast(event string, data interface{}) {
	if h == nil {
		return
	}
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		h.log.Errorf("Error marshaling hub message: %v", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.log.Debugf("Broadcasting %s to %d clients", event, len(h.clients))
	for conn, role := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(h.writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.log.Warnf("Error sending %s to client with role %s: %v", event, role, err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
}
