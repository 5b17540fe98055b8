package websocket

import (
	"math/rand"
	"net/http"
	"time"

	"github.com/mlopezuch/fila-backend/internal/domain"
	"github.com/mlopezuch/fila-backend/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

type WebSocketHandler struct {
	hub domain.ObserverRegistry
	log logger.Logger
}

func NewWebSocketHandler(hub domain.ObserverRegistry, log logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		log: log,
	}
}

func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return
	}

	connectionID := ulid.MustNew(ulid.Now(), ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)).String()
	observer := NewObserverConnection(conn, connectionID)

	h.hub.Register(observer)

	// Start message handling
	go h.handleMessages(observer)
}

// handleMessages drains inbound frames until the peer goes away. Clients only
// listen on this socket, so payloads are discarded; the read loop exists to
// notice the disconnect.
func (h *WebSocketHandler) handleMessages(observer *ObserverConnection) {
	defer func() {
		h.hub.Unregister(observer.ID())
		observer.Close()
	}()

	for {
		if _, _, err := observer.conn.ReadMessage(); err != nil {
			return
		}
	}
}

type ObserverConnection struct {
	conn *websocket.Conn
	id   string
}

func NewObserverConnection(conn *websocket.Conn, id string) *ObserverConnection {
	return &ObserverConnection{
		conn: conn,
		id:   id,
	}
}

func (oc *ObserverConnection) Send(message []byte) error {
	return oc.conn.WriteMessage(websocket.TextMessage, message)
}

func (oc *ObserverConnection) Close() error {
	return oc.conn.Close()
}

func (oc *ObserverConnection) ID() string {
	return oc.id
}
