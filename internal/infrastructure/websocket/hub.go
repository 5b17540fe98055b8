package websocket

import (
	"encoding/json"
	"sync"

	"github.com/mlopezuch/fila-backend/internal/domain"
	"github.com/mlopezuch/fila-backend/pkg/logger"
)

type Hub struct {
	observers map[string]domain.Observer // connection ID -> observer
	mutex     sync.RWMutex
	log       logger.Logger
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		observers: make(map[string]domain.Observer),
		log:       log,
	}
}

func (h *Hub) Register(observer domain.Observer) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.observers[observer.ID()] = observer

	h.log.Info("Observer registered", "connection_id", observer.ID(), "total", len(h.observers))
}

func (h *Hub) Unregister(connectionID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, exists := h.observers[connectionID]; !exists {
		return
	}
	delete(h.observers, connectionID)

	h.log.Info("Observer unregistered", "connection_id", connectionID, "total", len(h.observers))
}

// Broadcast sends the signal to every registered observer. Observers whose
// send fails are treated as gone: they are dropped from the registry and
// closed, and the broadcast carries on to the rest.
func (h *Hub) Broadcast(signal interface{}) {
	messageBytes, err := json.Marshal(signal)
	if err != nil {
		h.log.Error("Failed to marshal broadcast signal", "error", err)
		return
	}

	for _, observer := range h.snapshot() {
		if err := observer.Send(messageBytes); err != nil {
			h.log.Info("Dropping unresponsive observer", "connection_id", observer.ID(), "error", err)
			h.Unregister(observer.ID())
			observer.Close()
		}
	}
}

func (h *Hub) Count() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.observers)
}

func (h *Hub) snapshot() []domain.Observer {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	observers := make([]domain.Observer, 0, len(h.observers))
	for _, observer := range h.observers {
		observers = append(observers, observer)
	}

	return observers
}
