package stream

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/driftwm/driftwm/internal/wm"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func dialHub(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(h.handleEvents))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing hub: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.ClientCount() == n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("client count = %d, want %d", h.ClientCount(), n)
}

func TestBroadcastReachesSubscriber(t *testing.T) {
	h := NewHub(quietLogger())
	conn := dialHub(t, h)
	waitForClients(t, h, 1)

	sent := wm.NewEvent(wm.EventCreated, 3, nil)
	h.Broadcast(sent)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got wm.Event
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("reading event: %v", err)
	}
	if got.Type != wm.EventCreated || got.Window != 3 || got.Timestamp != sent.Timestamp {
		t.Fatalf("received %+v, want %+v", got, sent)
	}
}

func TestBroadcastFansOut(t *testing.T) {
	h := NewHub(quietLogger())
	a := dialHub(t, h)
	b := dialHub(t, h)
	waitForClients(t, h, 2)

	h.Broadcast(wm.NewEvent(wm.EventMoved, 1, wm.GeometryPayload{}))

	for _, conn := range []*websocket.Conn{a, b} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var got wm.Event
		if err := conn.ReadJSON(&got); err != nil {
			t.Fatalf("reading event: %v", err)
		}
		if got.Type != wm.EventMoved {
			t.Fatalf("event type = %v, want moved", got.Type)
		}
	}
}

func TestDisconnectRemovesClient(t *testing.T) {
	h := NewHub(quietLogger())
	conn := dialHub(t, h)
	waitForClients(t, h, 1)

	conn.Close()
	waitForClients(t, h, 0)
}

func TestStopDisconnectsEveryone(t *testing.T) {
	h := NewHub(quietLogger())
	dialHub(t, h)
	waitForClients(t, h, 1)

	h.Stop()
	if h.ClientCount() != 0 {
		t.Fatalf("client count after stop = %d, want 0", h.ClientCount())
	}
}
