package chat

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"taskhub/internal/pkg/logx"
)

const (
	// writeWait is the timeout for writing a frame to the WebSocket connection.
	writeWait = 10 * time.Second

	// pongWait is the maximum time the server waits for a Pong from the client.
	pongWait = 60 * time.Second

	// pingPeriod is the server's Ping interval. Must be below pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxFrameBytes is the read limit for a single inbound WebSocket frame.
	maxFrameBytes = 8192

	// MaxTextBytes caps the chat text accepted in a single message event.
	MaxTextBytes = 4096

	// sendChannelBuffer sizes the per-connection outbound queue. A connection
	// that falls this far behind is dropped as a slow consumer.
	sendChannelBuffer = 256
)

// Client represents one live chat connection registered with the Hub.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn

	// send queues outbound frames consumed by WritePump.
	send chan []byte

	// displayName is bound at registration and rebound on join events.
	// Owned by the Hub's Run goroutine.
	displayName string

	closeOnce sync.Once

	logger zerolog.Logger
}

// NewClient constructs a Client for the given connection. A nil conn is
// acceptable for registry-level tests; only the pumps touch the transport.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	id := uuid.New().String()

	return &Client{
		id:          id,
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, sendChannelBuffer),
		displayName: DefaultDisplayName,
		logger:      logx.Logger().With().Str("client_id", id).Logger(),
	}
}

// ID returns the connection identifier the Hub keys this client by.
func (c *Client) ID() string {
	return c.id
}

// Send exposes the outbound frame queue for reading.
func (c *Client) Send() <-chan []byte {
	return c.send
}

// ReadPump reads frames from the WebSocket connection, dispatching join and
// message events to the Hub. It unregisters the client when the transport
// closes for any reason.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxFrameBytes)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frameBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Unexpected close while reading")
			}
			break
		}

		c.processInboundFrame(frameBytes)
	}
}

// cleanupOnDisconnect deregisters the client and closes the transport once the
// read loop ends.
func (c *Client) cleanupOnDisconnect() {
	c.hub.Unregister(c)
	c.closeConn()
}

func (c *Client) processInboundFrame(frameBytes []byte) {
	var frame Frame
	if err := json.Unmarshal(frameBytes, &frame); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid JSON frame")
		return
	}

	switch frame.Type {
	case EventJoin:
		var payload JoinPayload
		if err := json.Unmarshal(frame.Payload, &payload); err != nil {
			c.logger.Warn().Err(err).Msg("Client sent invalid join payload")
			return
		}
		c.hub.Join(c, payload.DisplayName)

	case EventMessage:
		var payload TextPayload
		if err := json.Unmarshal(frame.Payload, &payload); err != nil {
			c.logger.Warn().Err(err).Msg("Client sent invalid message payload")
			return
		}
		if len(payload.Text) > MaxTextBytes {
			c.logger.Warn().Int("text_bytes", len(payload.Text)).Msg("Dropping oversized message")
			return
		}
		c.hub.Message(c, payload.Text)

	default:
		c.logger.Warn().Str("frame_type", string(frame.Type)).Msg("Client sent unsupported frame type")
	}
}

// WritePump writes queued frames to the WebSocket connection and keeps the
// heartbeat alive. It exits when the send channel closes or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.closeConn()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline")
				return
			}

			if !ok {
				if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.logger.Error().Err(err).Msg("Error writing close message")
				}
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.Error().Err(err).Msg("Error writing frame")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
				return
			}

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Error().Err(err).Msg("Error writing ping")
				return
			}
		}
	}
}

// closeSend closes the outbound queue exactly once.
func (c *Client) closeSend() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

func (c *Client) closeConn() {
	if c.conn == nil {
		return
	}

	// Close may run from both pumps; the second call fails harmlessly.
	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close")
	}
}
