package push

import (
	"context"
	"errors"
)

var ErrNoToken = errors.New("device token is empty")

type PushProvider interface {
	SendNotification(ctx context.Context, request *NotificationRequest) (*NotificationResponse, error)
}

type NotificationRequest struct {
	Token    string            `json:"token"`
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Data     map[string]string `json:"data,omitempty"`
	ImageURL string            `json:"image_url,omitempty"`
	// ChannelID selects the Android notification channel.
	ChannelID string `json:"channel_id,omitempty"`
}

type NotificationResponse struct {
	MessageID string `json:"message_id"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	Token     string `json:"token,omitempty"`
}

// NoopProvider accepts every notification without delivering it. It is used
// when no FCM credentials are configured.
type NoopProvider struct{}

func (NoopProvider) SendNotification(ctx context.Context, request *NotificationRequest) (*NotificationResponse, error) {
	return &NotificationResponse{Success: true, Token: request.Token}, nil
}
