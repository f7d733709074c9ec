package ui

import (
	"context"
	"encoding/json"

	"codeberg.org/nording/hrvctl/internal/logger"
	"codeberg.org/nording/hrvctl/internal/model"
)

// Hub fans model updates out to every connected websocket client and
// routes client commands to the control surface. Clients that cannot
// keep up are dropped rather than allowed to stall the broadcast.
type Hub struct {
	model      *model.Model
	controls   Controls
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	done       chan struct{}
}

func NewHub(m *model.Model, controls Controls) *Hub {
	return &Hub{
		model:      m,
		controls:   controls,
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run(ctx context.Context) {
	// done releases pumps blocked on register/unregister once the hub
	// stops receiving.
	defer close(h.done)

	sub := h.model.Bus().Subscribe(0)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return
		case c := <-h.register:
			h.clients[c] = true
			logger.Debug().
				Str("client", c.id).
				Int("clients", len(h.clients)).
				Msg("websocket client connected")
			h.sendSnapshot(c)
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				logger.Debug().
					Str("client", c.id).
					Int("clients", len(h.clients)).
					Msg("websocket client disconnected")
			}
		case u, ok := <-sub.C:
			if !ok {
				return
			}
			h.broadcast(updateFrame(u))
		}
	}
}

func (h *Hub) broadcast(frame Frame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		logger.Debug().Err(err).Str("field", frame.Field).Msg("frame marshal failed")
		return
	}

	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			delete(h.clients, c)
			close(c.send)
			logger.Debug().Str("client", c.id).Msg("websocket client too slow, dropped")
		}
	}
}

// sendSnapshot primes a fresh client with the current model state so it
// does not have to wait for the next live update of each field.
func (h *Hub) sendSnapshot(c *client) {
	snap := h.model.Snapshot()
	frames := []Frame{
		{Type: "update", Field: string(model.FieldIBIs), Series: h.model.IBIs(), Timestamp: snap.Time},
		{Type: "update", Field: string(model.FieldMeanHRV), Series: h.model.MeanHRV(), Timestamp: snap.Time},
		{Type: "update", Field: string(model.FieldAddresses), Value: h.model.Addresses(), Timestamp: snap.Time},
		{Type: "update", Field: string(model.FieldPacerRate), Value: snap.PacerRate, Timestamp: snap.Time},
		{Type: "update", Field: string(model.FieldHRVTarget), Value: snap.HRVTarget, Timestamp: snap.Time},
		{Type: "update", Field: string(model.FieldBiofeedback), Value: snap.Biofeedback, Timestamp: snap.Time},
		{Type: "update", Field: string(model.FieldConnection), Value: snap.Connection.String(), Timestamp: snap.Time},
	}

	for _, frame := range frames {
		payload, err := json.Marshal(frame)
		if err != nil {
			continue
		}
		select {
		case c.send <- payload:
		default:
			return
		}
	}
}
