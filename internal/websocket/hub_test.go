package websocket

import (
	"testing"
	"time"

	"aia-campus-be/internal/dto"
)

type quietLogger struct{}

func (quietLogger) Debug(module, message string, details map[string]interface{}) {}
func (quietLogger) Info(module, message string, details map[string]interface{})  {}
func (quietLogger) Warn(module, message string, details map[string]interface{})  {}
func (quietLogger) Error(module, message string, details map[string]interface{}) {}
func (quietLogger) Sync() error                                                  { return nil }

func registeredClient(t *testing.T, hub *Hub, userId string, buffer int) *Client {
	t.Helper()
	client := &Client{UserId: userId, Send: make(chan []byte, buffer)}
	hub.register <- client
	waitFor(t, func() bool { return hub.hasClient(userId) })
	return client
}

func (h *Hub) hasClient(userId string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userId]) > 0
}

func waitFor(t *testing.T, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met within a second")
}

func TestHubDeliversToAllConnections(t *testing.T) {
	hub := NewHub(nil, quietLogger{})
	go hub.Run()

	first := registeredClient(t, hub, "student", 4)
	second := registeredClient(t, hub, "student", 4)
	other := registeredClient(t, hub, "other", 4)

	hub.Send("student", dto.NoticePayload{Type: "TEST"})

	for _, client := range []*Client{first, second} {
		select {
		case <-client.Send:
		case <-time.After(time.Second):
			t.Fatal("connection did not receive the notice")
		}
	}
	select {
	case <-other.Send:
		t.Error("notice leaked to another user")
	default:
	}
}

func TestHubDropsSlowClientWithoutPanic(t *testing.T) {
	hub := NewHub(nil, quietLogger{})
	go hub.Run()

	slow := registeredClient(t, hub, "student", 1)

	// Fill the buffer, then keep sending. Repeated overflows queue the same
	// client for removal more than once; the hub must survive that and close
	// the channel exactly once.
	for i := 0; i < 4; i++ {
		hub.Send("student", dto.NoticePayload{Type: "TEST"})
	}
	hub.Broadcast(dto.NoticePayload{Type: "TEST"})

	waitFor(t, func() bool { return !hub.hasClient("student") })

	// A closed Send channel is what tells writePump to hang up.
	waitFor(t, func() bool {
		for {
			select {
			case _, ok := <-slow.Send:
				if !ok {
					return true
				}
			default:
				return false
			}
		}
	})
}
