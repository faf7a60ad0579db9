package realtime

import (
	"sync"

	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/logx"
)

// Registry is the in-memory index of live connections. It is constructed once and
// injected wherever delivery happens; it performs no I/O and its operations never
// fail. All methods are safe for concurrent use.
type Registry struct {
	mu sync.RWMutex

	// users holds at most one connection per user. A new register for the same
	// user replaces the old entry (last connect wins).
	users map[int64]*Connection

	// channels holds every subscriber of a roleplay channel.
	channels map[string][]*Connection
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		users:    make(map[int64]*Connection),
		channels: make(map[string][]*Connection),
	}
}

// RegisterUser installs conn as the user's live connection and returns the
// connection it replaced, if any. The caller is responsible for kicking the
// replaced connection; the registry only swaps the entry.
func (r *Registry) RegisterUser(userID int64, conn *Connection) *Connection {
	r.mu.Lock()
	defer r.mu.Unlock()

	replaced := r.users[userID]
	r.users[userID] = conn

	logx.Info("User connection registered", "user_id", userID, "replaced", replaced != nil)

	return replaced
}

// UnregisterUser removes conn from the user map. It is a no-op when the user's
// current entry is a different connection, so a stale socket that lost a
// last-connect-wins race cannot evict its successor.
func (r *Registry) UnregisterUser(userID int64, conn *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.users[userID] == conn {
		delete(r.users, userID)
	}
}

// GetUserConnection returns the user's live connection, or nil when offline.
func (r *Registry) GetUserConnection(userID int64) *Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.users[userID]
}

// RegisterChannel adds conn to the channel's subscriber list.
func (r *Registry) RegisterChannel(channelID string, conn *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.channels[channelID] = append(r.channels[channelID], conn)

	logx.Info("Channel connection registered",
		"channel_id", channelID, "subscribers", len(r.channels[channelID]))
}

// UnregisterChannel removes conn from the channel's subscriber list. The map entry
// is deleted when the last subscriber leaves so channel keys never dangle.
func (r *Registry) UnregisterChannel(channelID string, conn *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs := r.channels[channelID]
	for i, c := range subs {
		if c == conn {
			subs = append(subs[:i], subs[i+1:]...)
			break
		}
	}

	if len(subs) == 0 {
		delete(r.channels, channelID)
		return
	}
	r.channels[channelID] = subs
}

// ChannelConnections returns a snapshot of the channel's subscribers. The returned
// slice is a copy; callers may iterate it without holding any registry lock.
func (r *Registry) ChannelConnections(channelID string) []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subs := r.channels[channelID]
	if len(subs) == 0 {
		return nil
	}

	out := make([]*Connection, len(subs))
	copy(out, subs)
	return out
}

// Shutdown closes every live connection and resets the maps. Used on server stop.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, conn := range r.users {
		_ = conn.Transport.Close()
	}
	for _, subs := range r.channels {
		for _, conn := range subs {
			_ = conn.Transport.Close()
		}
	}

	r.users = make(map[int64]*Connection)
	r.channels = make(map[string][]*Connection)
}
