package realtime

import (
	"encoding/json"

	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/logx"
)

// Router delivers marshaled events to live connections through the registry.
// Delivery is best effort: a connection that cannot accept a push is unregistered
// and closed, never retried.
type Router struct {
	registry *Registry
}

// NewRouter returns a router bound to the given registry.
func NewRouter(registry *Registry) *Router {
	return &Router{registry: registry}
}

// DeliverToUser pushes one event to the user's live connection. Returns false when
// the user is offline or the push failed; a failed connection is torn down so the
// caller can treat the recipient as offline.
func (rt *Router) DeliverToUser(userID int64, event any) bool {
	conn := rt.registry.GetUserConnection(userID)
	if conn == nil {
		return false
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logx.Error(err, "Failed to marshal user event", "user_id", userID)
		return false
	}

	if err := conn.Transport.Push(payload); err != nil {
		logx.Warn("User connection rejected push, unregistering",
			"user_id", userID, "error", err.Error())
		rt.registry.UnregisterUser(userID, conn)
		_ = conn.Transport.Close()
		return false
	}

	return true
}

// BroadcastToChannel pushes one event to every subscriber of the channel. The
// payload is marshaled once; a failing subscriber is unregistered without blocking
// delivery to the rest.
func (rt *Router) BroadcastToChannel(channelID string, event any) {
	subs := rt.registry.ChannelConnections(channelID)
	if len(subs) == 0 {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logx.Error(err, "Failed to marshal channel event", "channel_id", channelID)
		return
	}

	var failed int
	for _, conn := range subs {
		if err := conn.Transport.Push(payload); err != nil {
			failed++
			rt.registry.UnregisterChannel(channelID, conn)
			_ = conn.Transport.Close()
		}
	}

	if failed > 0 {
		logx.Warn("Channel broadcast dropped dead subscribers",
			"channel_id", channelID, "failed", failed, "total", len(subs))
	}
}

// IsRecipientOnline reports whether the user has a live personal connection.
func (rt *Router) IsRecipientOnline(userID int64) bool {
	return rt.registry.GetUserConnection(userID) != nil
}
