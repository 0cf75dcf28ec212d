package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"shelterfund/internal/models"
	"shelterfund/internal/repositories/interfaces"
	"shelterfund/internal/session"
	"shelterfund/internal/utils"
	"shelterfund/pkg/logger"
	"shelterfund/pkg/push"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const pushTimeout = 5 * time.Second

// NewSessionRegistry tracks per-user routing gates and forwards every
// state transition as a session.changed event.
func NewSessionRegistry(users interfaces.UserRepository, notifier NotificationService) *session.Registry {
	return session.NewRegistry(users, func(userID primitive.ObjectID, snapshot session.Snapshot) {
		if snapshot.State == session.StateUnauthenticated {
			return
		}
		notifier.NotifySessionChanged(context.Background(), userID, string(snapshot.State), string(snapshot.Navigator))
	})
}

// NotificationService fans domain events out to push notifications and
// websocket rooms. Delivery is best effort: failures are logged only.
type NotificationService interface {
	NotifyWalletUpdated(ctx context.Context, userID primitive.ObjectID, balance float64, currency string)
	NotifyDonationCompleted(ctx context.Context, donation *models.Donation, balance float64)
	NotifyAdoptionCreated(ctx context.Context, adoption *models.VirtualAdoption, adoptersCount int64)
	NotifySessionChanged(ctx context.Context, userID primitive.ObjectID, state, navigator string)
}

// RealtimePublisher is implemented by the websocket hub.
type RealtimePublisher interface {
	SendToUser(userID primitive.ObjectID, messageType string, data map[string]interface{})
	SendToAnimalWatchers(animalID primitive.ObjectID, messageType string, data map[string]interface{})
}

type notificationService struct {
	userRepo interfaces.UserRepository
	push     push.PushProvider
	realtime RealtimePublisher
	logger   *logger.Logger
}

func NewNotificationService(
	userRepo interfaces.UserRepository,
	pushProvider push.PushProvider,
	realtime RealtimePublisher,
	logger *logger.Logger,
) NotificationService {
	if pushProvider == nil {
		pushProvider = push.NoopProvider{}
	}
	return &notificationService{
		userRepo: userRepo,
		push:     pushProvider,
		realtime: realtime,
		logger:   logger,
	}
}

func (s *notificationService) NotifyWalletUpdated(ctx context.Context, userID primitive.ObjectID, balance float64, currency string) {
	s.publish(userID, utils.EventWalletUpdated, map[string]interface{}{
		"balance":  balance,
		"currency": currency,
	})
}

func (s *notificationService) NotifyDonationCompleted(ctx context.Context, donation *models.Donation, balance float64) {
	s.NotifyWalletUpdated(ctx, donation.UserID, balance, donation.Currency)
	s.publish(donation.UserID, utils.EventDonationCompleted, map[string]interface{}{
		"donation_id": donation.ID.Hex(),
		"animal_id":   donation.AnimalID.Hex(),
		"amount":      donation.Amount,
		"currency":    donation.Currency,
	})

	s.sendPush(ctx, donation.UserID, &push.NotificationRequest{
		Title:     "Thank you!",
		Body:      fmt.Sprintf("Your %.2f %s donation for %s was received.", donation.Amount, donation.Currency, donation.AnimalName),
		ChannelID: "donations",
		Data: map[string]string{
			"type":        utils.EventDonationCompleted,
			"donation_id": donation.ID.Hex(),
			"animal_id":   donation.AnimalID.Hex(),
		},
	})
}

func (s *notificationService) NotifyAdoptionCreated(ctx context.Context, adoption *models.VirtualAdoption, adoptersCount int64) {
	s.publish(adoption.UserID, utils.EventAdoptionCreated, map[string]interface{}{
		"adoption_id": adoption.ID.Hex(),
		"animal_id":   adoption.AnimalID.Hex(),
	})

	if s.realtime != nil {
		s.realtime.SendToAnimalWatchers(adoption.AnimalID, "animal.updated", map[string]interface{}{
			"animal_id":              adoption.AnimalID.Hex(),
			"virtual_adopters_count": adoptersCount,
		})
	}

	s.sendPush(ctx, adoption.UserID, &push.NotificationRequest{
		Title:     "Welcome to the family",
		Body:      fmt.Sprintf("You virtually adopted %s.", adoption.AnimalName),
		ImageURL:  adoption.ImageURL,
		ChannelID: "adoptions",
		Data: map[string]string{
			"type":           utils.EventAdoptionCreated,
			"animal_id":      adoption.AnimalID.Hex(),
			"adopters_count": strconv.FormatInt(adoptersCount, 10),
		},
	})
}

func (s *notificationService) NotifySessionChanged(ctx context.Context, userID primitive.ObjectID, state, navigator string) {
	s.publish(userID, utils.EventSessionChanged, map[string]interface{}{
		"state":     state,
		"navigator": navigator,
	})
}

func (s *notificationService) publish(userID primitive.ObjectID, event string, data map[string]interface{}) {
	if s.realtime == nil {
		return
	}
	s.realtime.SendToUser(userID, event, data)
}

func (s *notificationService) sendPush(ctx context.Context, userID primitive.ObjectID, request *push.NotificationRequest) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pushTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.WithUserID(userID).WithError(err).Warn("Failed to load user for push notification")
		return
	}
	if user.FCMToken == "" {
		return
	}

	request.Token = user.FCMToken
	if _, err := s.push.SendNotification(ctx, request); err != nil {
		log := s.logger.WithUserID(userID).WithError(err)
		if push.IsUnregistered(err) {
			log.Info("Dropping unregistered device token")
			if err := s.userRepo.Update(ctx, userID, map[string]interface{}{"fcm_token": ""}); err != nil {
				s.logger.WithUserID(userID).WithError(err).Warn("Failed to clear device token")
			}
			return
		}
		log.Warn("Push notification failed")
	}
}
