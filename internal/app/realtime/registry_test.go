package realtime

import (
	"errors"
	"sync"
	"testing"
)

// fakeTransport records pushes and close calls; failing makes Push return an error.
type fakeTransport struct {
	mu      sync.Mutex
	pushes  [][]byte
	failing bool
	kicked  string
	closed  bool
}

func (f *fakeTransport) Push(message []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("push failed")
	}
	f.pushes = append(f.pushes, message)
	return nil
}

func (f *fakeTransport) Kick(reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kicked = reason
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeTransport) pushCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pushes)
}

func TestRegisterUserLastConnectWins(t *testing.T) {
	reg := NewRegistry()

	first := NewUserConnection(7, &fakeTransport{})
	second := NewUserConnection(7, &fakeTransport{})

	if replaced := reg.RegisterUser(7, first); replaced != nil {
		t.Fatalf("first register replaced %v, want nil", replaced)
	}

	replaced := reg.RegisterUser(7, second)
	if replaced != first {
		t.Fatalf("second register replaced %v, want the first connection", replaced)
	}

	if got := reg.GetUserConnection(7); got != second {
		t.Fatalf("GetUserConnection = %v, want the second connection", got)
	}
}

func TestUnregisterUserIsConnSpecific(t *testing.T) {
	reg := NewRegistry()

	stale := NewUserConnection(7, &fakeTransport{})
	current := NewUserConnection(7, &fakeTransport{})

	reg.RegisterUser(7, stale)
	reg.RegisterUser(7, current)

	// The stale connection's cleanup must not evict its successor.
	reg.UnregisterUser(7, stale)
	if got := reg.GetUserConnection(7); got != current {
		t.Fatalf("stale unregister evicted the current connection")
	}

	reg.UnregisterUser(7, current)
	if got := reg.GetUserConnection(7); got != nil {
		t.Fatalf("GetUserConnection after unregister = %v, want nil", got)
	}

	// Idempotent: unregistering again is a no-op.
	reg.UnregisterUser(7, current)
}

func TestChannelRegisterUnregister(t *testing.T) {
	reg := NewRegistry()

	a := NewChannelConnection("game-1", &fakeTransport{})
	b := NewChannelConnection("game-1", &fakeTransport{})

	reg.RegisterChannel("game-1", a)
	reg.RegisterChannel("game-1", b)

	if got := len(reg.ChannelConnections("game-1")); got != 2 {
		t.Fatalf("subscribers = %d, want 2", got)
	}

	reg.UnregisterChannel("game-1", a)
	if got := len(reg.ChannelConnections("game-1")); got != 1 {
		t.Fatalf("subscribers after unregister = %d, want 1", got)
	}

	reg.UnregisterChannel("game-1", b)
	if got := reg.ChannelConnections("game-1"); got != nil {
		t.Fatalf("empty channel still returns subscribers: %v", got)
	}

	// Map entry must be gone, not an empty slice.
	reg.mu.RLock()
	_, exists := reg.channels["game-1"]
	reg.mu.RUnlock()
	if exists {
		t.Fatal("empty channel entry was not deleted")
	}
}

func TestShutdownClosesEverything(t *testing.T) {
	reg := NewRegistry()

	userT := &fakeTransport{}
	chanT := &fakeTransport{}
	reg.RegisterUser(1, NewUserConnection(1, userT))
	reg.RegisterChannel("game-9", NewChannelConnection("game-9", chanT))

	reg.Shutdown()

	if !userT.closed || !chanT.closed {
		t.Fatalf("shutdown left connections open: user=%v channel=%v", userT.closed, chanT.closed)
	}
	if reg.GetUserConnection(1) != nil || reg.ChannelConnections("game-9") != nil {
		t.Fatal("shutdown did not clear the registry")
	}
}
