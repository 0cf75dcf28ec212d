package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"shelterfund/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestClient(hub *Hub, userID primitive.ObjectID) *Client {
	return &Client{
		hub:    hub,
		send:   make(chan []byte, sendBuffer),
		UserID: userID,
		rooms:  make(map[string]struct{}),
	}
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case data := <-c.send:
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return Message{}
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(logger.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func TestHub_SendToUser(t *testing.T) {
	hub := startHub(t)

	alice := newTestClient(hub, primitive.NewObjectID())
	bob := newTestClient(hub, primitive.NewObjectID())
	hub.register <- alice
	hub.register <- bob

	assert.Equal(t, "welcome", receive(t, alice).Type)
	assert.Equal(t, "welcome", receive(t, bob).Type)

	hub.SendToUser(alice.UserID, "wallet.updated", map[string]interface{}{"balance": 40.0})

	msg := receive(t, alice)
	assert.Equal(t, "wallet.updated", msg.Type)
	assert.Equal(t, UserRoom(alice.UserID), msg.Room)
	assert.Equal(t, 40.0, msg.Data["balance"])
	assert.Empty(t, bob.send)
}

func TestHub_AnimalSubscriptions(t *testing.T) {
	hub := startHub(t)

	client := newTestClient(hub, primitive.NewObjectID())
	hub.register <- client
	receive(t, client)

	animalID := primitive.NewObjectID()
	assert.False(t, hub.Subscribe(client, "user:someone-else"))
	require.True(t, hub.Subscribe(client, AnimalRoom(animalID)))

	hub.SendToAnimalWatchers(animalID, "animal.updated", map[string]interface{}{"virtual_adopters_count": 3})
	assert.Equal(t, "animal.updated", receive(t, client).Type)

	hub.Unsubscribe(client, AnimalRoom(animalID))
	hub.SendToAnimalWatchers(animalID, "animal.updated", nil)
	assert.Empty(t, client.send)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := startHub(t)

	client := newTestClient(hub, primitive.NewObjectID())
	hub.register <- client
	receive(t, client)
	hub.unregister <- client

	require.Eventually(t, func() bool { return hub.ConnectedClients() == 0 }, time.Second, 10*time.Millisecond)
	_, ok := <-client.send
	assert.False(t, ok)
}
