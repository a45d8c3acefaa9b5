// Package notify fans committed state changes out to every connected
// dashboard session. It carries no durable state: subscribers are ephemeral
// and a restart drops them all.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Envelope is the wire frame pushed to dashboards.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type Hub struct {
	logger     *slog.Logger
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:     logger,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			h.logger.Info("dashboard connected", slog.Int("clients", len(h.clients)))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Info("dashboard disconnected", slog.Int("clients", len(h.clients)))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer; drop it rather than block the fan-out.
					close(client.send)
					delete(h.clients, client)
					h.logger.Warn("dashboard dropped, send buffer full")
				}
			}
		}
	}
}

// Publish marshals the payload immediately so later mutation of the source
// record never changes an already-queued frame. Delivery is fire-and-forget.
func (h *Hub) Publish(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("publish marshal failed", slog.String("event", event), slog.Any("error", err))
		return
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		h.logger.Error("publish marshal failed", slog.String("event", event), slog.Any("error", err))
		return
	}

	select {
	case h.broadcast <- frame:
	default:
		h.logger.Warn("broadcast queue full, event dropped", slog.String("event", event))
	}
}
