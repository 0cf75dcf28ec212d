package websocket

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"shelterfund/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	userRoomPrefix   = "user:"
	animalRoomPrefix = "animal:"
)

type Hub struct {
	clients    map[*Client]struct{}
	rooms      map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	mutex      sync.Mutex
	logger     *logger.Logger
}

type Message struct {
	Type      string                 `json:"type"`
	Room      string                 `json:"room,omitempty"`
	Timestamp int64                  `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

func NewHub(logger *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

func UserRoom(userID primitive.ObjectID) string {
	return userRoomPrefix + userID.Hex()
}

func AnimalRoom(animalID primitive.ObjectID) string {
	return animalRoomPrefix + animalID.Hex()
}

// Run owns client registration until ctx is cancelled, then disconnects
// every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.mutex.Lock()
			h.removeLocked(client)
			h.mutex.Unlock()

		case <-ctx.Done():
			h.mutex.Lock()
			for client := range h.clients {
				h.removeLocked(client)
			}
			h.mutex.Unlock()
			return
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.clients[client] = struct{}{}
	h.joinLocked(client, UserRoom(client.UserID))
	h.logger.WithUserID(client.UserID).Debug("WebSocket client registered")

	h.sendLocked(client, newMessage("welcome", "", map[string]interface{}{
		"message": "Connected successfully",
	}))
}

func (h *Hub) removeLocked(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}

	delete(h.clients, client)
	close(client.send)

	for roomID := range client.rooms {
		if room, ok := h.rooms[roomID]; ok {
			delete(room, client)
			if len(room) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}

	h.logger.WithUserID(client.UserID).Debug("WebSocket client unregistered")
}

func (h *Hub) joinLocked(client *Client, roomID string) {
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]struct{})
	}
	h.rooms[roomID][client] = struct{}{}
	client.rooms[roomID] = struct{}{}
}

// sendLocked queues message for client and drops clients whose buffer is
// full.
func (h *Hub) sendLocked(client *Client, message Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.WithError(err).Error("Failed to encode websocket message")
		return
	}

	select {
	case client.send <- data:
	default:
		h.removeLocked(client)
	}
}

func (h *Hub) SendToRoom(roomID string, message Message) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	message.Room = roomID
	for client := range h.rooms[roomID] {
		h.sendLocked(client, message)
	}
}

func (h *Hub) SendToUser(userID primitive.ObjectID, messageType string, data map[string]interface{}) {
	h.SendToRoom(UserRoom(userID), newMessage(messageType, "", data))
}

func (h *Hub) SendToAnimalWatchers(animalID primitive.ObjectID, messageType string, data map[string]interface{}) {
	h.SendToRoom(AnimalRoom(animalID), newMessage(messageType, "", data))
}

func (h *Hub) Subscribe(client *Client, roomID string) bool {
	if !strings.HasPrefix(roomID, animalRoomPrefix) {
		return false
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[client]; !ok {
		return false
	}
	h.joinLocked(client, roomID)
	return true
}

func (h *Hub) Unsubscribe(client *Client, roomID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if room, ok := h.rooms[roomID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, roomID)
		}
	}
	delete(client.rooms, roomID)
}

func (h *Hub) ConnectedClients() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

func newMessage(messageType, room string, data map[string]interface{}) Message {
	return Message{
		Type:      messageType,
		Room:      room,
		Timestamp: time.Now().Unix(),
		Data:      data,
	}
}
