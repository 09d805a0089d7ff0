package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"medichat/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Alert is the payload fanned out to connected alert dashboards.
type Alert struct {
	ConversationId string   `json:"conversation_id"`
	MessageId      string   `json:"message_id"`
	UserId         string   `json:"user_id"`
	Level          string   `json:"level"`
	Confidence     float64  `json:"confidence"`
	Indicators     []string `json:"indicators"`
	OccurredAt     string   `json:"occurred_at"`
}

// clusterMessage is the envelope relayed between instances over redis. Origin
// identifies the publishing instance so it can skip its own messages; local
// clients were already served before the publish.
type clusterMessage struct {
	Origin       string          `json:"origin"`
	TargetUserID string          `json:"target_user_id"`
	Message      json.RawMessage `json:"message"`
}

type Hub struct {
	// Identifies this instance on the redis channel.
	id string

	// Registered clients map: UserID -> List of Clients (multi-device)
	clients map[string][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb *redis.Client

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		id:         uuid.NewString(),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	// Start Redis Subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": client.UserID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends an alert to ALL connected clients, local and on other
// instances via redis.
func (h *Hub) Broadcast(alert Alert) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "emergency_alert",
		"data": alert,
	})

	h.deliverAll(data)
	h.publishCluster("*", data)
}

// Send delivers an alert to one user's connections, local and on other
// instances.
func (h *Hub) Send(userID string, alert Alert) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "emergency_alert",
		"data": alert,
	})

	h.deliverUser(userID, data)
	h.publishCluster(userID, data)
}

// deliverAll pushes data to every local client. Clients whose send buffers
// are full get collected and unregistered after the read lock is released;
// sending to the unregister channel under the lock would deadlock against
// Run, which needs the write lock to process it.
func (h *Hub) deliverAll(data []byte) {
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

	h.dropStale(stale)
}

func (h *Hub) deliverUser(userID string, data []byte) {
	var stale []*Client

	h.mu.RLock()
	for _, client := range h.clients[userID] {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client Send buffer full, dropping message", map[string]interface{}{"user_id": userID})
			stale = append(stale, client)
		}
	}
	h.mu.RUnlock()

	h.dropStale(stale)
}

// dropStale hands dead connections to Run, which closes their send channels
// while holding the write lock.
func (h *Hub) dropStale(stale []*Client) {
	for _, client := range stale {
		h.unregister <- client
	}
}

func (h *Hub) publishCluster(targetUserID string, data []byte) {
	if h.rdb == nil {
		return
	}
	payload, _ := json.Marshal(clusterMessage{
		Origin:       h.id,
		TargetUserID: targetUserID,
		Message:      data,
	})
	h.rdb.Publish(context.Background(), "cluster_events", payload)
}

func (h *Hub) subscribeToRedis() {
	// All instances subscribe to "cluster_events". When a message arrives,
	// deliver it to locally connected targets.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "cluster_events")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.handleClusterMessage([]byte(msg.Payload))
	}
}

func (h *Hub) handleClusterMessage(raw []byte) {
	var payload clusterMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Printf("Redis msg parse error: %v", err)
		return
	}

	// This instance already served its local clients before publishing.
	if payload.Origin == h.id {
		return
	}

	if payload.TargetUserID == "*" {
		h.deliverAll(payload.Message)
		return
	}
	h.deliverUser(payload.TargetUserID, payload.Message)
}
