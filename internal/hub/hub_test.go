package hub

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/hallway-chat/hallway/internal/config"
	"github.com/hallway-chat/hallway/internal/domain"
)

func testHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(config.WebSocketConfig{
		PingInterval:   time.Minute,
		PongWait:       time.Minute,
		WriteWait:      time.Second,
		MaxMessageSize: 4096,
	})
	go h.Run()
	return h
}

func testClient(h *Hub, id string) *Client {
	c := NewClient(id, h, nil, h.config)
	h.Register(c)
	return c
}

func recv(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case data := <-c.Send:
		return data
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func expectNothing(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.Send:
		t.Fatalf("unexpected message: %s", data)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBroadcastToRoom(t *testing.T) {
	h := testHub(t)
	a := testClient(h, "a")
	b := testClient(h, "b")
	outsider := testClient(h, "c")

	h.JoinRoom(a, "r1")
	h.JoinRoom(b, "r1")
	h.JoinRoom(outsider, "r2")

	if err := h.BroadcastToRoom("r1", map[string]string{"event": "ping"}, ""); err != nil {
		t.Fatalf("broadcast: %v", err)
	}

	for _, c := range []*Client{a, b} {
		var m map[string]string
		if err := json.Unmarshal(recv(t, c), &m); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if m["event"] != "ping" {
			t.Fatalf("unexpected payload: %v", m)
		}
	}
	expectNothing(t, outsider)
}

func TestBroadcastExcludes(t *testing.T) {
	h := testHub(t)
	a := testClient(h, "a")
	b := testClient(h, "b")

	h.JoinRoom(a, "r1")
	h.JoinRoom(b, "r1")

	h.BroadcastToRoom("r1", map[string]string{"event": "ping"}, "a")

	recv(t, b)
	expectNothing(t, a)
}

func TestBroadcastOrder(t *testing.T) {
	h := testHub(t)
	a := testClient(h, "a")
	h.JoinRoom(a, "r1")

	for i := 0; i < 10; i++ {
		h.BroadcastToRoom("r1", map[string]int{"n": i}, "")
	}

	for i := 0; i < 10; i++ {
		var m map[string]int
		if err := json.Unmarshal(recv(t, a), &m); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if m["n"] != i {
			t.Fatalf("out of order: got %d, want %d", m["n"], i)
		}
	}
}

func TestLeaveRoomStopsDelivery(t *testing.T) {
	h := testHub(t)
	a := testClient(h, "a")
	b := testClient(h, "b")

	h.JoinRoom(a, "r1")
	h.JoinRoom(b, "r1")
	h.LeaveRoom(b, "r1")

	h.BroadcastToRoom("r1", map[string]string{"event": "ping"}, "")

	recv(t, a)
	expectNothing(t, b)

	if n := h.RoomClientCount("r1"); n != 1 {
		t.Fatalf("expected 1 client, got %d", n)
	}
}

func TestClientInRoom(t *testing.T) {
	h := testHub(t)
	a := testClient(h, "a")
	h.JoinRoom(a, "r1")

	user := domain.NewUser("alice")
	a.Session.Bind("r1", user)

	got, ok := h.ClientInRoom("r1", user.ID)
	if !ok || got.ID != "a" {
		t.Fatalf("expected client a, got %v %v", got, ok)
	}
	if _, ok := h.ClientInRoom("r1", "ghost"); ok {
		t.Fatal("unknown user must not resolve")
	}
}

func TestDropRoom(t *testing.T) {
	h := testHub(t)
	a := testClient(h, "a")
	h.JoinRoom(a, "r1")

	h.DropRoom("r1")

	if n := h.RoomClientCount("r1"); n != 0 {
		t.Fatalf("expected empty room, got %d", n)
	}
	h.BroadcastToRoom("r1", map[string]string{"event": "ping"}, "")
	expectNothing(t, a)
}

func TestSendEventAfterUnregister(t *testing.T) {
	h := testHub(t)
	c := testClient(h, "x")

	h.Unregister(c)
	// Wait for the hub to close the send buffer.
	select {
	case _, ok := <-c.Send:
		if ok {
			t.Fatal("expected closed send buffer")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for unregister")
	}

	// A direct send racing with unregistration is a no-op, not a panic.
	if err := c.SendEvent(map[string]string{"event": "ping"}); err != nil {
		t.Fatalf("send: %v", err)
	}
}

func TestSendEventFullBufferDrops(t *testing.T) {
	h := testHub(t)
	c := NewClient("x", h, nil, h.config)

	for i := 0; i < cap(c.Send); i++ {
		c.Send <- []byte("{}")
	}
	// A full buffer drops rather than blocking.
	if err := c.SendEvent(map[string]string{"event": "ping"}); err != nil {
		t.Fatalf("send: %v", err)
	}
}
