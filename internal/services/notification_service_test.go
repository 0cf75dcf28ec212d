package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"shelterfund/internal/models"
	"shelterfund/internal/repositories/memory"
	"shelterfund/internal/utils"
	"shelterfund/pkg/logger"
	"shelterfund/pkg/push"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type published struct {
	room    primitive.ObjectID
	msgType string
	data    map[string]interface{}
}

type fakeRealtime struct {
	mu      sync.Mutex
	user    []published
	animals []published
}

func (f *fakeRealtime) SendToUser(userID primitive.ObjectID, messageType string, data map[string]interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user = append(f.user, published{room: userID, msgType: messageType, data: data})
}

func (f *fakeRealtime) SendToAnimalWatchers(animalID primitive.ObjectID, messageType string, data map[string]interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.animals = append(f.animals, published{room: animalID, msgType: messageType, data: data})
}

type fakePush struct {
	requests []*push.NotificationRequest
	err      error
}

func (f *fakePush) SendNotification(ctx context.Context, request *push.NotificationRequest) (*push.NotificationResponse, error) {
	f.requests = append(f.requests, request)
	if f.err != nil {
		return nil, f.err
	}
	return &push.NotificationResponse{Success: true, MessageID: "m-1", Token: request.Token}, nil
}

func TestNotifyDonationCompleted(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	user := &models.User{DisplayName: "Ayşe", Email: "ayse@example.com", FCMToken: "device-1"}
	require.NoError(t, store.Users().Create(ctx, user))

	realtime := &fakeRealtime{}
	pusher := &fakePush{}
	svc := NewNotificationService(store.Users(), pusher, realtime, logger.NewNop())

	svc.NotifyDonationCompleted(ctx, &models.Donation{
		ID:         primitive.NewObjectID(),
		UserID:     user.ID,
		AnimalID:   primitive.NewObjectID(),
		AnimalName: "Boncuk",
		Amount:     100,
		Currency:   "TRY",
	}, 0)

	require.Len(t, realtime.user, 2)
	assert.Equal(t, utils.EventWalletUpdated, realtime.user[0].msgType)
	assert.Equal(t, utils.EventDonationCompleted, realtime.user[1].msgType)
	assert.Equal(t, user.ID, realtime.user[1].room)

	require.Len(t, pusher.requests, 1)
	assert.Equal(t, "device-1", pusher.requests[0].Token)
	assert.Contains(t, pusher.requests[0].Body, "Boncuk")
}

func TestNotifyAdoptionCreated_UpdatesWatchers(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	user := &models.User{DisplayName: "Ayşe", Email: "ayse@example.com"}
	require.NoError(t, store.Users().Create(ctx, user))

	realtime := &fakeRealtime{}
	pusher := &fakePush{}
	svc := NewNotificationService(store.Users(), pusher, realtime, logger.NewNop())

	animalID := primitive.NewObjectID()
	svc.NotifyAdoptionCreated(ctx, &models.VirtualAdoption{
		ID:         primitive.NewObjectID(),
		UserID:     user.ID,
		AnimalID:   animalID,
		AnimalName: "Boncuk",
	}, 4)

	require.Len(t, realtime.animals, 1)
	assert.Equal(t, animalID, realtime.animals[0].room)
	assert.Equal(t, int64(4), realtime.animals[0].data["virtual_adopters_count"])

	// No device token registered.
	assert.Empty(t, pusher.requests)
}

func TestNotify_PushFailureIsSwallowed(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	user := &models.User{DisplayName: "Ayşe", Email: "ayse@example.com", FCMToken: "device-1"}
	require.NoError(t, store.Users().Create(ctx, user))

	pusher := &fakePush{err: errors.New("fcm unavailable")}
	svc := NewNotificationService(store.Users(), pusher, nil, logger.NewNop())

	svc.NotifyDonationCompleted(ctx, &models.Donation{UserID: user.ID, AnimalName: "Boncuk", Amount: 5, Currency: "TRY"}, 10)

	require.Len(t, pusher.requests, 1)
	stored, err := store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "device-1", stored.FCMToken)
}

func TestNewNotificationService_DefaultsToNoopPush(t *testing.T) {
	svc := NewNotificationService(memory.NewStore().Users(), nil, nil, logger.NewNop())
	assert.NotPanics(t, func() {
		svc.NotifySessionChanged(context.Background(), primitive.NewObjectID(), "unauthenticated", "auth")
	})
}
