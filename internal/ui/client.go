package ui

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"codeberg.org/nording/hrvctl/internal/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 256
)

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	id   string
}

func newClient(hub *Hub, conn *websocket.Conn) *client {
	return &client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		id:   uuid.New().String(),
	}
}

func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				logger.Debug().Err(err).Str("client", c.id).Msg("websocket read failed")
			}
			break
		}

		c.handleCommand(message)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) handleCommand(message []byte) {
	var cmd Command
	if err := json.Unmarshal(message, &cmd); err != nil {
		c.sendError("invalid command format")
		return
	}

	controls := c.hub.controls
	switch cmd.Type {
	case "set_pacer_rate":
		controls.SetPacerRate(cmd.Value)
	case "set_hrv_target":
		controls.SetHRVTarget(int(cmd.Value))
	case "scan":
		c.reportErr(controls.Scan())
	case "connect":
		c.reportErr(controls.Connect(cmd.Address))
	case "disconnect":
		c.reportErr(controls.Disconnect())
	case "start_recording":
		c.reportErr(controls.StartRecording(cmd.Path, cmd.Overwrite))
	case "stop_recording":
		c.reportErr(controls.StopRecording())
	case "annotate":
		controls.Annotate(cmd.Text)
	default:
		c.sendError("unknown command: " + cmd.Type)
	}
}

func (c *client) reportErr(err error) {
	if err != nil {
		c.sendError(err.Error())
	}
}

func (c *client) sendError(msg string) {
	frame := Frame{
		Type:      "error",
		Value:     msg,
		Timestamp: time.Now(),
	}
	if payload, err := json.Marshal(frame); err == nil {
		select {
		case c.send <- payload:
		default:
		}
	}
}
