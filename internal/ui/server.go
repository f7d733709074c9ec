package ui

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"codeberg.org/nording/hrvctl/internal/errors"
	"codeberg.org/nording/hrvctl/internal/logger"
)

const shutdownTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		// Local control surface; clients connect from arbitrary origins.
		return true
	},
}

// Server exposes the hub over a single websocket endpoint.
type Server struct {
	hub    *Hub
	listen string
}

func NewServer(hub *Hub, listen string) *Server {
	return &Server{
		hub:    hub,
		listen: listen,
	}
}

// Run serves until the context is canceled, then drains the listener.
func (s *Server) Run(ctx context.Context) error {
	errFactory := errors.New()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)

	srv := &http.Server{
		Addr:              s.listen,
		Handler:           mux,
		ReadHeaderTimeout: writeWait,
	}

	go s.hub.Run(ctx)

	done := make(chan error, 1)
	go func() {
		logger.Info().Str("listen", s.listen).Msg("websocket server listening")
		done <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errFactory.Wrap(ErrServerShutdown, err)
		}
		return nil
	case err := <-done:
		if err != nil && err != http.ErrServerClosed {
			return errFactory.Wrap(ErrServerFailed, err)
		}
		return nil
	}
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := newClient(s.hub, conn)
	select {
	case s.hub.register <- c:
	case <-s.hub.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}
