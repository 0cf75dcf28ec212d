package push

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	msg := buildMessage(&NotificationRequest{
		Token:     "tok",
		Title:     "Thank you",
		Body:      "Your donation reached Pamuk",
		Data:      map[string]string{"type": "donation.completed"},
		ChannelID: "donations",
	})

	assert.Equal(t, "tok", msg.Token)
	require.NotNil(t, msg.Notification)
	assert.Equal(t, "Thank you", msg.Notification.Title)
	assert.Equal(t, "donation.completed", msg.Data["type"])
	require.NotNil(t, msg.Android)
	assert.Equal(t, "donations", msg.Android.Notification.ChannelID)
}

func TestBuildMessage_DataOnly(t *testing.T) {
	msg := buildMessage(&NotificationRequest{Token: "tok", Data: map[string]string{"k": "v"}})

	assert.Nil(t, msg.Notification)
	assert.Nil(t, msg.Android)
}

func TestNoopProvider(t *testing.T) {
	resp, err := NoopProvider{}.SendNotification(context.Background(), &NotificationRequest{Token: "tok"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
}
