// Package network provides the transport surface of the office server:
// the WebSocket break room dashboard, the REST break desk, and the event
// history export. Everything here funnels into the engine.Manager.
package network

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/chillmcp/server/internal/engine"
	"github.com/chillmcp/server/internal/events"
	"github.com/chillmcp/server/internal/platform/logger"
	"github.com/chillmcp/server/internal/platform/metrics"
)

// Hub maintains the set of active clients and broadcasts office events to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
	manager    *engine.Manager
	logger     *logger.Logger

	clientSendBuffer int
}

// NewHub initializes a new WebSocket Hub. Buffer sizes come from the
// config's concurrency tuning knobs.
func NewHub(manager *engine.Manager, log *logger.Logger, broadcastBuffer, clientSendBuffer int) *Hub {
	if broadcastBuffer <= 0 {
		broadcastBuffer = 256
	}
	if clientSendBuffer <= 0 {
		clientSendBuffer = 64
	}
	return &Hub{
		broadcast:        make(chan []byte, broadcastBuffer),
		register:         make(chan *Client),
		unregister:       make(chan *Client),
		clients:          make(map[*Client]bool),
		manager:          manager,
		logger:           log,
		clientSendBuffer: clientSendBuffer,
	}
}

// Run starts the Hub's main loop to handle client connections and broadcasts.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket Hub shutting down.")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.Get().RecordWSConnection(1)
			h.logger.Info("New break room observer connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.Get().RecordWSConnection(-1)
				h.logger.Info("Break room observer disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					metrics.Get().RecordWSMessage(false)
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastEvent serializes an OfficeEvent to JSON and sends it to all clients.
func (h *Hub) BroadcastEvent(event events.OfficeEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to serialize OfficeEvent for WebSocket broadcast: " + err.Error())
		metrics.Get().RecordWSError()
		return
	}
	h.broadcast <- payload
}

// StartEventPoller spawns a goroutine that polls the EventLog and pushes
// new events to the Hub. This keeps the Hub independent from the engine's
// mutation path while picking up the same events.
func (h *Hub) StartEventPoller(ctx context.Context, eventLog *events.EventLog) {
	go func() {
		pollInterval := time.NewTicker(200 * time.Millisecond)
		defer pollInterval.Stop()

		offset := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-pollInterval.C:
				fresh := eventLog.Since(offset)
				for _, e := range fresh {
					h.BroadcastEvent(e)
				}
				offset += len(fresh)
			}
		}
	}()
}
