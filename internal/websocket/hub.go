package websocket

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"catalog-backend/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// TokenVerifier validates an admin token and returns its subject.
type TokenVerifier interface {
	ParseAdmin(token string) (string, error)
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub fans Redis pub/sub messages out to websocket clients. Every client gets
// catalog updates; clients that connect with an admin token also get admin
// updates. One Redis subscription runs per channel while it has listeners.
type Hub struct {
	mu          sync.RWMutex
	clients     map[string]map[*client]struct{}
	redisClient *redis.Client
	tokens      TokenVerifier
	cancelFuncs map[string]context.CancelFunc
	log         *logrus.Entry
}

func NewHub(redisClient *redis.Client, tokens TokenVerifier, log *logrus.Entry) *Hub {
	return &Hub{
		clients:     make(map[string]map[*client]struct{}),
		redisClient: redisClient,
		tokens:      tokens,
		cancelFuncs: make(map[string]context.CancelFunc),
		log:         log,
	}
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	channels := []string{models.ChannelCatalogUpdates}

	// The token is optional; a bad one is still rejected.
	if tokenStr := r.URL.Query().Get("token"); tokenStr != "" {
		subject, err := h.tokens.ParseAdmin(tokenStr)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		channels = append(channels, models.ChannelAdminUpdates)
		h.log.WithField("subject", subject).Debug("admin websocket client")
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	c := &client{conn: conn}
	h.register(c, channels)

	// Keep connection alive and handle disconnect
	go func() {
		defer h.unregister(c, channels)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (h *Hub) register(c *client, channels []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, channel := range channels {
		set, ok := h.clients[channel]
		if !ok {
			set = make(map[*client]struct{})
			h.clients[channel] = set
		}
		set[c] = struct{}{}

		// Start pub/sub subscription if this is the first listener on the channel
		if len(set) == 1 {
			ctx, cancel := context.WithCancel(context.Background())
			h.cancelFuncs[channel] = cancel
			go h.subscribe(ctx, channel)
		}
	}

	h.log.WithFields(logrus.Fields{
		"channels": channels,
		"total":    len(h.clients[models.ChannelCatalogUpdates]),
	}).Info("websocket connected")
}

func (h *Hub) unregister(c *client, channels []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c.conn.Close()

	for _, channel := range channels {
		set := h.clients[channel]
		delete(set, c)

		// If no more listeners, cancel pub/sub
		if len(set) == 0 {
			delete(h.clients, channel)
			if cancel, ok := h.cancelFuncs[channel]; ok {
				cancel()
				delete(h.cancelFuncs, channel)
			}
		}
	}

	h.log.Info("websocket disconnected")
}

func (h *Hub) subscribe(ctx context.Context, channel string) {
	pubsub := h.redisClient.Subscribe(ctx, channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(channel, []byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(channel string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[channel] {
		if err := c.write(data); err != nil {
			h.log.WithError(err).WithField("channel", channel).Debug("websocket write failed")
		}
	}
}

func (h *Hub) listeners(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[channel])
}
