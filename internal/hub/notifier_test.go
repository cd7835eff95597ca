package hub

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/smart-bin/go-controller/internal/waste"
)

func hubServer(t *testing.T, events chan<- Event) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		for {
			var e Event
			if err := conn.ReadJSON(&e); err != nil {
				return
			}
			events <- e
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestPublish(t *testing.T) {
	events := make(chan Event, 1)
	srv := hubServer(t, events)

	n := NewNotifier(Config{
		URL:              wsURL(srv),
		Enabled:          true,
		HandshakeTimeout: time.Second,
	})
	defer n.Close()

	sent := Event{
		ClassificationID: "abc-123",
		Category:         waste.CategoryMetal,
		Confidence:       0.90,
		DisposalLocation: "Metal recycling bin",
		CreatedAt:        time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
	if err := n.Publish(sent); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-events:
		if got.ClassificationID != sent.ClassificationID || got.Category != sent.Category {
			t.Fatalf("received %+v", got)
		}
		if !got.CreatedAt.Equal(sent.CreatedAt) {
			t.Fatalf("created_at = %v", got.CreatedAt)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event not received")
	}
}

func TestPublishReusesConnection(t *testing.T) {
	events := make(chan Event, 2)
	srv := hubServer(t, events)

	n := NewNotifier(Config{URL: wsURL(srv), Enabled: true, HandshakeTimeout: time.Second})
	defer n.Close()

	for i := 0; i < 2; i++ {
		if err := n.Publish(Event{ClassificationID: "id", Category: waste.CategoryPaper}); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 2; i++ {
		select {
		case <-events:
		case <-time.After(2 * time.Second):
			t.Fatalf("event %d not received", i)
		}
	}
}

func TestPublishDisabledIsNoOp(t *testing.T) {
	n := NewNotifier(DefaultConfig())
	if err := n.Publish(Event{Category: waste.CategoryGlass}); err != nil {
		t.Fatal(err)
	}
	if err := n.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestPublishDialFailure(t *testing.T) {
	n := NewNotifier(Config{
		URL:              "ws://127.0.0.1:1/hub",
		Enabled:          true,
		HandshakeTimeout: 200 * time.Millisecond,
	})
	if err := n.Publish(Event{Category: waste.CategoryMetal}); err == nil {
		t.Fatal("expected dial error")
	}
}
