package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"aia-campus-be/internal/dto"
	"aia-campus-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const clusterChannel = "cluster_events"

// Hub fans notices out to connected clients. Cross-instance delivery goes
// through a Redis pub/sub channel when Redis is configured.
type Hub struct {
	// Registered clients map: UserId -> List of Clients (multi-device)
	clients map[string][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserId] = append(h.clients[client.UserId], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserId})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserId]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserId] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserId]) == 0 {
					delete(h.clients, client.UserId)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": client.UserId})
				}
			}
			h.mu.Unlock()
		}
	}
}

func encodeNotice(notice dto.NoticePayload) []byte {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "notice",
		"data": notice,
	})
	return data
}

func (h *Hub) deliverLocal(data []byte) {
	// Stale clients are collected first: Run needs the write lock to
	// unregister, so the queue send has to happen after the read lock is
	// released. Run's unregister branch is the only place that closes
	// client.Send, closing here too would close the channel twice.
	var stale []*Client
	h.mu.RLock()
	for _, clients := range h.clients {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				stale = append(stale, client)
			}
		}
	}
	h.mu.RUnlock()
	for _, client := range stale {
		h.unregister <- client
	}
}

// Broadcast sends a notice to ALL connected clients.
func (h *Hub) Broadcast(notice dto.NoticePayload) {
	data := encodeNotice(notice)
	h.deliverLocal(data)

	if h.rdb != nil {
		payload, _ := json.Marshal(map[string]interface{}{
			"target_user_id": "*", // wildcard for broadcast
			"message":        json.RawMessage(data),
		})
		h.rdb.Publish(context.Background(), clusterChannel, payload)
	}
}

// Send delivers a notice to every connection of one user.
func (h *Hub) Send(userId string, notice dto.NoticePayload) {
	data := encodeNotice(notice)

	var stale []*Client
	h.mu.RLock()
	for _, client := range h.clients[userId] {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client Send buffer full, dropping message", map[string]interface{}{"user_id": userId})
			stale = append(stale, client)
		}
	}
	h.mu.RUnlock()
	for _, client := range stale {
		h.unregister <- client
	}

	// Always publish so the user's connections on other instances get it too.
	if h.rdb != nil {
		payload, _ := json.Marshal(map[string]interface{}{
			"target_user_id": userId,
			"message":        json.RawMessage(data),
		})
		h.rdb.Publish(context.Background(), clusterChannel, payload)
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			TargetUserId string          `json:"target_user_id"`
			Message      json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		if payload.TargetUserId == "*" {
			h.deliverLocal(payload.Message)
			continue
		}

		var stale []*Client
		h.mu.RLock()
		for _, client := range h.clients[payload.TargetUserId] {
			select {
			case client.Send <- payload.Message:
			default:
				stale = append(stale, client)
			}
		}
		h.mu.RUnlock()
		for _, client := range stale {
			h.unregister <- client
		}
	}
}
