package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second

	// Subscribers ping well inside this window; a silent peer is dropped.
	readWait = 5 * time.Minute
)

// Notification wraps data in a notification event.
func Notification(data interface{}) NotificationEvent {
	return NotificationEvent{Event: EventNotification, Data: data}
}

// Pong is the reply to ActionPing.
func Pong() PongResponse {
	return PongResponse{Event: EventPong}
}

// WriteEvent sends one event frame with a write deadline.
func WriteEvent(conn *websocket.Conn, v interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

// WriteError sends an error event.
func WriteError(conn *websocket.Conn, errMsg string) error {
	return WriteEvent(conn, ErrorResponse{Event: EventError, Error: errMsg})
}

// ReadAction blocks for the next client frame and returns its action.
// Frames that are not valid JSON envelopes end the read loop.
func ReadAction(conn *websocket.Conn) (Action, error) {
	conn.SetReadDeadline(time.Now().Add(readWait))
	var req RequestEnvelope
	if err := conn.ReadJSON(&req); err != nil {
		return "", err
	}
	return req.Action, nil
}
