package session

import (
	"context"
	"errors"
	"testing"

	"shelterfund/internal/models"
	"shelterfund/internal/repositories/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeLookup struct {
	users map[primitive.ObjectID]*models.User
	err   error
}

func (f *fakeLookup) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return u, nil
}

func TestGate_Transitions(t *testing.T) {
	withCity := &models.User{ID: primitive.NewObjectID(), City: "İzmir"}
	noCity := &models.User{ID: primitive.NewObjectID()}
	missing := primitive.NewObjectID()

	lookup := &fakeLookup{users: map[primitive.ObjectID]*models.User{
		withCity.ID: withCity,
		noCity.ID:   noCity,
	}}

	tests := []struct {
		name      string
		userID    *primitive.ObjectID
		state     State
		navigator Navigator
	}{
		{name: "signed out", userID: nil, state: StateUnauthenticated, navigator: NavigatorAuth},
		{name: "no city", userID: &noCity.ID, state: StateAuthenticatedNoCity, navigator: NavigatorCitySelection},
		{name: "with city", userID: &withCity.ID, state: StateAuthenticatedWithCity, navigator: NavigatorMain},
		{name: "missing user document", userID: &missing, state: StateUnauthenticated, navigator: NavigatorAuth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewGate(lookup)
			assert.Equal(t, StateInitializing, gate.Current().State)

			snap, err := gate.AuthChanged(context.Background(), tt.userID)
			require.NoError(t, err)
			assert.Equal(t, tt.state, snap.State)
			assert.Equal(t, tt.navigator, snap.Navigator)
			assert.Equal(t, tt.state, gate.Current().State)
		})
	}
}

func TestGate_NotifiesSubscribersOnChange(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID()}
	lookup := &fakeLookup{users: map[primitive.ObjectID]*models.User{user.ID: user}}
	gate := NewGate(lookup)
	ctx := context.Background()

	var seen []State
	unsubscribe := gate.Subscribe(func(s Snapshot) { seen = append(seen, s.State) })

	_, err := gate.AuthChanged(ctx, &user.ID)
	require.NoError(t, err)

	user.City = "Ankara"
	_, err = gate.AuthChanged(ctx, &user.ID)
	require.NoError(t, err)

	// Same state again: no notification.
	_, err = gate.AuthChanged(ctx, &user.ID)
	require.NoError(t, err)

	unsubscribe()
	_, err = gate.AuthChanged(ctx, nil)
	require.NoError(t, err)

	assert.Equal(t, []State{StateAuthenticatedNoCity, StateAuthenticatedWithCity}, seen)
}

func TestGate_LookupErrorKeepsState(t *testing.T) {
	id := primitive.NewObjectID()
	gate := NewGate(&fakeLookup{err: errors.New("connection reset")})

	snap, err := gate.AuthChanged(context.Background(), &id)
	require.Error(t, err)
	assert.Equal(t, StateInitializing, snap.State)
}
