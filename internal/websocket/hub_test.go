package websocket

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"catalog-backend/internal/logging"
	"catalog-backend/internal/models"
)

type fakeVerifier struct{}

func (fakeVerifier) ParseAdmin(token string) (string, error) {
	if token == "good" {
		return "admin", nil
	}
	return "", errors.New("bad token")
}

func newTestHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	// Nothing listens here; subscriptions just keep retrying in the background.
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { rdb.Close() })

	hub := NewHub(rdb, fakeVerifier{}, logging.Discard())
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", query, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForListeners(t *testing.T, hub *Hub, channel string, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.listeners(channel) != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d listeners on %s, got %d", n, channel, hub.listeners(channel))
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHub_PublicClientGetsCatalogUpdatesOnly(t *testing.T) {
	hub, srv := newTestHub(t)
	public := dial(t, srv, "")
	admin := dial(t, srv, "?token=good")

	waitForListeners(t, hub, models.ChannelCatalogUpdates, 2)
	waitForListeners(t, hub, models.ChannelAdminUpdates, 1)

	hub.broadcast(models.ChannelAdminUpdates, []byte(`{"type":"demand_created"}`))
	hub.broadcast(models.ChannelCatalogUpdates, []byte(`{"type":"catalog_updated"}`))

	admin.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, first, err := admin.ReadMessage()
	if err != nil {
		t.Fatalf("admin read: %v", err)
	}
	if !strings.Contains(string(first), "demand_created") {
		t.Errorf("admin expected demand_created first, got %s", first)
	}

	public.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := public.ReadMessage()
	if err != nil {
		t.Fatalf("public read: %v", err)
	}
	if !strings.Contains(string(msg), "catalog_updated") {
		t.Errorf("public client got %s, want only catalog_updated", msg)
	}
}

func TestHub_RejectsBadToken(t *testing.T) {
	_, srv := newTestHub(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?token=forged"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 response, got %+v", resp)
	}
}

func TestHub_UnregisterDropsEmptyChannel(t *testing.T) {
	hub, srv := newTestHub(t)
	conn := dial(t, srv, "?token=good")
	waitForListeners(t, hub, models.ChannelAdminUpdates, 1)

	conn.Close()
	waitForListeners(t, hub, models.ChannelAdminUpdates, 0)
	waitForListeners(t, hub, models.ChannelCatalogUpdates, 0)

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	if len(hub.cancelFuncs) != 0 {
		t.Errorf("expected subscriptions cancelled, %d left", len(hub.cancelFuncs))
	}
}
