package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/handsign/internal/app"
	"github.com/ayusman/handsign/internal/gesture"
)

func dialHub(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for h.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) app.Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	var e app.Event
	if err := json.Unmarshal(data, &e); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	return e
}

func TestHub_Broadcast(t *testing.T) {
	h := NewHub()
	conn := dialHub(t, h)

	h.Notify(app.Event{Label: gesture.Fist, Fingers: "-----", Changed: true})
	h.Notify(app.Event{Label: gesture.Fist, Fingers: "-----"})

	if e := readEvent(t, conn); e.Label != gesture.Fist || !e.Changed {
		t.Errorf("first event = %+v", e)
	}
	if e := readEvent(t, conn); e.Changed {
		t.Errorf("second event should not be a change: %+v", e)
	}
}

func TestHub_ChangesOnly(t *testing.T) {
	h := NewHub()
	h.ChangesOnly = true
	conn := dialHub(t, h)

	h.Notify(app.Event{Label: gesture.Five})
	h.Notify(app.Event{Label: gesture.OK, Changed: true})

	if e := readEvent(t, conn); e.Label != gesture.OK {
		t.Errorf("expected only the change to OK, got %s", e.Label)
	}
}

func TestHub_DropsForSlowClient(t *testing.T) {
	h := NewHub()
	c := &client{send: make(chan []byte, 1)}
	if !h.register(c) {
		t.Fatal("register() refused client")
	}

	h.Notify(app.Event{Label: gesture.Two})
	h.Notify(app.Event{Label: gesture.Three})
	h.Notify(app.Event{Label: gesture.Four})

	if got := h.Dropped(); got != 2 {
		t.Errorf("Dropped() = %d, want 2", got)
	}
}

func TestHub_Close(t *testing.T) {
	h := NewHub()
	conn := dialHub(t, h)

	h.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("expected normal closure, got %v", err)
	}
	if h.Clients() != 0 {
		t.Errorf("Clients() = %d after Close", h.Clients())
	}
	if h.register(&client{send: make(chan []byte)}) {
		t.Error("register() accepted client after Close")
	}
}
