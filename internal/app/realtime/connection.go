/*
Package realtime tracks live WebSocket connections and routes events to them.

The Registry maps users and roleplay channels to their connections; the Router
marshals events and pushes them through a Transport. Transports are swappable so
delivery logic is testable without a network.
*/
package realtime

import "time"

// Transport is the write side of a live connection. Push must not block: a full
// outbound queue is reported as an error and the connection is treated as dead.
type Transport interface {
	// Push queues one marshaled event for delivery in FIFO order.
	Push(message []byte) error

	// Kick closes the connection with a session-replaced close frame.
	Kick(reason string)

	// Close shuts the connection down without a reason.
	Close() error
}

// Connection binds an identity to a transport. Exactly one of UserID or ChannelID
// is meaningful, depending on which endpoint accepted the socket.
type Connection struct {
	UserID      int64
	ChannelID   string
	ConnectedAt time.Time
	Transport   Transport
}

// NewUserConnection wraps a transport for the per-user direct message stream.
func NewUserConnection(userID int64, t Transport) *Connection {
	return &Connection{UserID: userID, ConnectedAt: time.Now(), Transport: t}
}

// NewChannelConnection wraps a transport subscribed to one roleplay channel.
func NewChannelConnection(channelID string, t Transport) *Connection {
	return &Connection{ChannelID: channelID, ConnectedAt: time.Now(), Transport: t}
}
