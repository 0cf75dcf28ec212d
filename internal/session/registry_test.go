package session

import (
	"context"
	"sync"
	"testing"

	"shelterfund/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type change struct {
	userID primitive.ObjectID
	state  State
}

type changeLog struct {
	mu      sync.Mutex
	changes []change
}

func (l *changeLog) record(userID primitive.ObjectID, s Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.changes = append(l.changes, change{userID: userID, state: s.State})
}

func (l *changeLog) all() []change {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]change(nil), l.changes...)
}

func TestRegistry_KeepsStateAcrossResolves(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID()}
	lookup := &fakeLookup{users: map[primitive.ObjectID]*models.User{user.ID: user}}
	log := &changeLog{}
	registry := NewRegistry(lookup, log.record)
	ctx := context.Background()

	snap, err := registry.Resolve(ctx, &user.ID)
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticatedNoCity, snap.State)

	// Same state again: the stored gate suppresses a duplicate change.
	_, err = registry.Resolve(ctx, &user.ID)
	require.NoError(t, err)

	user.City = "İzmir"
	snap, err = registry.Resolve(ctx, &user.ID)
	require.NoError(t, err)
	assert.Equal(t, NavigatorMain, snap.Navigator)
	assert.Equal(t, StateAuthenticatedWithCity, registry.Gate(user.ID).Current().State)

	assert.Equal(t, []change{
		{userID: user.ID, state: StateAuthenticatedNoCity},
		{userID: user.ID, state: StateAuthenticatedWithCity},
	}, log.all())
	assert.Equal(t, 1, registry.Len())
}

func TestRegistry_Anonymous(t *testing.T) {
	log := &changeLog{}
	registry := NewRegistry(&fakeLookup{}, log.record)

	snap, err := registry.Resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.Equal(t, NavigatorAuth, snap.Navigator)
	assert.Empty(t, log.all())
	assert.Zero(t, registry.Len())
}

func TestRegistry_DropsGateForMissingUser(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), City: "Ankara"}
	lookup := &fakeLookup{users: map[primitive.ObjectID]*models.User{user.ID: user}}
	log := &changeLog{}
	registry := NewRegistry(lookup, log.record)
	ctx := context.Background()

	_, err := registry.Resolve(ctx, &user.ID)
	require.NoError(t, err)
	require.Equal(t, 1, registry.Len())

	delete(lookup.users, user.ID)
	snap, err := registry.Resolve(ctx, &user.ID)
	require.NoError(t, err)
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.Zero(t, registry.Len())
	assert.Equal(t, StateUnauthenticated, log.all()[1].state)
}
