package blog

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"Blogroll/internal/core/blog"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = 30 * time.Second
)

// StreamMessage is one frame pushed to the view
type StreamMessage struct {
	State         *StateView          `json:"state,omitempty"`
	Type          string              `json:"type"`
	Notifications []blog.Notification `json:"notifications,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// HandleStream pushes the derived state after every transition and the
// session's error notifications as they arrive
// GET /blog/stream
func (h *Handler) HandleStream(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			h.logger.Debug("failed to close websocket", "error", closeErr)
		}
	}()

	logger := h.logger.With("session_id", s.ID)
	logger.Debug("blog stream opened")

	updates, unsubscribe := s.Store.Subscribe()
	defer unsubscribe()

	// Read loop: the view sends nothing, but reading processes pongs and
	// notices when the peer goes away.
	gone := make(chan struct{})
	if err := conn.SetReadDeadline(time.Now().Add(streamPongWait)); err != nil {
		logger.Warn("failed to set read deadline", "error", err)
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	for {
		var msg *StreamMessage
		select {
		case <-gone:
			logger.Debug("blog stream closed by peer")
			return
		case <-s.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "session ended"),
				time.Now().Add(streamWriteWait))
			return
		case state, open := <-updates:
			if !open {
				return
			}
			view := NewStateView(s, state)
			msg = &StreamMessage{Type: "state", State: &view}
		case <-s.Inbox.Ready():
			notes := s.Inbox.Drain()
			if len(notes) == 0 {
				continue
			}
			msg = &StreamMessage{Type: "notification", Notifications: notes}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				logger.Debug("failed to send ping", "error", err)
				return
			}
			continue
		}

		if err := conn.SetWriteDeadline(time.Now().Add(streamWriteWait)); err != nil {
			logger.Warn("failed to set write deadline", "error", err)
		}
		if err := conn.WriteJSON(msg); err != nil {
			logger.Debug("failed to write stream message", "error", err)
			return
		}
	}
}
