package realtime

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/logx"
)

const (
	// timeout for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a message sent by the client.
	maxMessageSize = 8192

	// WsCloseCodeSessionKicked is a custom WebSocket Close Code (4000-4999 range)
	// used to signal the client that the session was replaced by a new connection.
	WsCloseCodeSessionKicked = 4001
)

// ErrSendQueueFull reports a connection whose outbound queue cannot drain. The
// router treats it as a dead connection.
var ErrSendQueueFull = errors.New("session send queue full")

// Session adapts one gorilla WebSocket connection to the Transport interface.
// A single writer goroutine (WritePump) owns the socket's write side; pushes go
// through the buffered send channel to preserve FIFO ordering.
type Session struct {
	conn *websocket.Conn

	send chan []byte

	// onClose runs once when either pump exits, to unregister the connection.
	onClose func()

	closeOnce sync.Once
	logger    zerolog.Logger
}

// NewSession wraps an upgraded WebSocket connection. onClose is invoked exactly
// once when the session tears down.
func NewSession(conn *websocket.Conn, onClose func(), logger zerolog.Logger) *Session {
	return &Session{
		conn:    conn,
		send:    make(chan []byte, 256),
		onClose: onClose,
		logger:  logger,
	}
}

// Push queues one message for delivery. It fails fast when the queue is full
// instead of blocking the caller behind a slow reader.
func (s *Session) Push(message []byte) error {
	select {
	case s.send <- message:
		return nil
	default:
		s.logger.Warn().Int("queue_len", len(s.send)).Msg("Session send channel full, dropping message")
		return ErrSendQueueFull
	}
}

// Kick closes the session with the session-replaced close frame so the client can
// tell a takeover apart from a network failure.
func (s *Session) Kick(reason string) {
	s.logger.Warn().
		Int("close_code", WsCloseCodeSessionKicked).
		Str("reason", reason).
		Msg("Kicking session")

	closeMessage := websocket.FormatCloseMessage(WsCloseCodeSessionKicked, reason)

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(websocket.CloseMessage, closeMessage); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to send kick close frame")
	}

	_ = s.Close()
}

// Close shuts the underlying connection down and runs the teardown hook once.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.conn.Close()
		if s.onClose != nil {
			s.onClose()
		}
	})
	return err
}

// ReadPump drains inbound frames to keep the pong handler serviced. Haven clients
// do not send application data over the socket (all writes go through the HTTP
// API), so any readable frame is discarded.
func (s *Session) ReadPump() {
	defer func() {
		if err := s.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Session close error in ReadPump")
		}
	}()

	s.conn.SetReadLimit(maxMessageSize)

	if err := s.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		s.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Info().Err(err).Msg("Session read loop ended")
			}
			return
		}
	}
}

// WritePump writes queued messages and heartbeat pings to the socket. It is the
// only goroutine allowed to write.
func (s *Session) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		if err := s.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Session close error in WritePump")
		}
	}()

	for {
		select {
		case message, ok := <-s.send:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				s.logger.Error().Err(err).Msg("Failed to set write deadline")
				return
			}

			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				s.logger.Error().Err(err).Msg("Error writing message")
				return
			}

		case <-ticker.C:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				s.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
				return
			}

			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.logger.Error().Err(err).Msg("Error writing ping")
				return
			}
		}
	}
}

// SessionLogger builds the structured logger a session runs with.
func SessionLogger(userID int64, channelID string) zerolog.Logger {
	ctx := logx.Logger().With()
	if userID != 0 {
		ctx = ctx.Int64("user_id", userID)
	}
	if channelID != "" {
		ctx = ctx.Str("channel_id", channelID)
	}
	return ctx.Logger()
}
