package inspect

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/quotely/signal/internal/errors"
)

// Message is one websocket frame: the signal's value after a write.
type Message struct {
	Signal string          `json:"signal"`
	Value  json.RawMessage `json:"value"`
}

// handleStream sends the current value, then one message per
// notification, until the client goes away or the server shuts down.
// The subscription is released when the stream ends.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("signal")
	entry, err := s.registry.Lookup(name)
	if err != nil {
		writeError(w, http.StatusNotFound, errors.FromError(err, "S001"))
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	pending := make(chan []byte, s.config.StreamBuffer)
	cancel := entry.WatchJSON(func(data []byte) {
		select {
		case pending <- data:
		default:
			s.logger.Warn("stream buffer full, dropping value", "signal", name)
		}
	})
	defer cancel()

	// The reader exists only to notice the client closing.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	initial, err := entry.Snapshot()
	if err != nil {
		s.logger.Error("snapshot failed", "signal", name, "error", err)
		return
	}
	if err := s.send(conn, name, initial); err != nil {
		return
	}

	for {
		select {
		case data := <-pending:
			if err := s.send(conn, name, data); err != nil {
				s.logger.Debug("stream write failed", "signal", name, "error", err)
				return
			}
		case <-gone:
			return
		case <-r.Context().Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
				time.Now().Add(time.Second))
			return
		}
	}
}

func (s *Server) send(conn *websocket.Conn, name string, data []byte) error {
	_ = conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	return conn.WriteJSON(Message{Signal: name, Value: data})
}
