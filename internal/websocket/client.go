package websocket

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

// Client is a middleman between the websocket connection and a handler.
type Client struct {
	conn   *websocket.Conn
	UserID string
	// Token is the session token the connection was opened with.
	Token string

	// Buffered channel of outbound messages.
	Send chan []byte

	// Closed when WritePump exits.
	done chan struct{}
}

// NewClient wraps conn for userID, authenticated by token.
func NewClient(conn *websocket.Conn, userID, token string) *Client {
	return &Client{conn: conn, UserID: userID, Token: token, Send: make(chan []byte, 16), done: make(chan struct{})}
}

// Enqueue queues message for writing. It reports false once the writer is gone.
func (c *Client) Enqueue(message []byte) bool {
	select {
	case c.Send <- message:
		return true
	case <-c.done:
		return false
	}
}

// ReadPump pumps messages from the connection to handle until the peer goes
// away or handle returns false. It closes Send on return; WritePump flushes
// what is queued, sends a close frame and closes the connection.
func (c *Client) ReadPump(handle func(c *Client, message []byte) bool) {
	defer close(c.Send)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("user_id", c.UserID).Msg("Unexpected websocket close")
			}
			return
		}
		if !handle(c, message) {
			return
		}
	}
}

// WritePump pumps messages from Send to the connection and keeps it alive
// with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(c.done)
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
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
