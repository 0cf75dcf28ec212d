package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"shelterfund/internal/config"
	"shelterfund/internal/session"
	"shelterfund/internal/utils"
	"shelterfund/internal/validators"
	"shelterfund/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newProfileService(t *testing.T, env *testEnv) (ProfileService, *storage.LocalStorage) {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	svc := NewProfileService(
		env.store.Users(),
		env.store.Donations(),
		env.store.Adoptions(),
		local,
		NewSessionRegistry(env.store.Users(), env.notifier),
		&config.StorageConfig{MaxImageSize: 1 << 20, AvatarMaxPixels: 64},
		env.log,
	)
	return svc, local
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestGetProfile_Stats(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, 100)
	ctx := context.Background()
	svc, _ := newProfileService(t, env)

	_, err := env.donationService().Donate(ctx, user.ID, &DonationRequest{
		AnimalID:     env.animal.ID,
		DonationType: "Nakit",
		Amount:       "10",
	})
	require.NoError(t, err)
	_, err = env.adoptionService().Adopt(ctx, user.ID, env.animal.ID)
	require.NoError(t, err)

	profile, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.User.ID)
	assert.Equal(t, int64(1), profile.Stats.DonationCount)
	assert.Equal(t, int64(1), profile.Stats.ActiveAdoptionCount)

	_, err = svc.GetProfile(ctx, primitive.NewObjectID())
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, 0)
	ctx := context.Background()
	svc, _ := newProfileService(t, env)

	updated, err := svc.UpdateProfile(ctx, user.ID, &validators.UpdateProfileRequest{
		DisplayName: "  Ayşe Yılmaz ",
		Age:         31,
		Gender:      "female",
		City:        "Bursa",
		Bio:         "Kedisever",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ayşe Yılmaz", updated.DisplayName)
	assert.Equal(t, 31, updated.Age)
	assert.Equal(t, "Bursa", updated.City)

	// City changed from empty, so the client is routed to main.
	assert.Equal(t, []string{"session"}, env.notifier.kinds())

	_, err = svc.UpdateProfile(ctx, user.ID, &validators.UpdateProfileRequest{DisplayName: "", Age: 200})
	var verrs validators.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.Details(), "display_name")
	assert.Contains(t, verrs.Details(), "age")
}

func TestSelectCity(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, 0)
	ctx := context.Background()
	svc, _ := newProfileService(t, env)

	snapshot, err := svc.SelectCity(ctx, user.ID, " İzmir ")
	require.NoError(t, err)
	assert.Equal(t, session.StateAuthenticatedWithCity, snapshot.State)
	assert.Equal(t, session.NavigatorMain, snapshot.Navigator)
	assert.Equal(t, "İzmir", snapshot.User.City)

	require.Len(t, env.notifier.events, 1)
	assert.Equal(t, "session", env.notifier.events[0].kind)
	assert.Equal(t, "authenticated_with_city", env.notifier.events[0].data["state"])

	_, err = svc.SelectCity(ctx, user.ID, "   ")
	var verrs validators.ValidationErrors
	require.ErrorAs(t, err, &verrs)
}

func TestSelectCity_PublishesOnlyStateTransitions(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, 0)
	ctx := context.Background()
	svc, _ := newProfileService(t, env)

	_, err := svc.SelectCity(ctx, user.ID, "İzmir")
	require.NoError(t, err)

	// Moving between cities keeps the main navigator, so nothing is pushed.
	snapshot, err := svc.SelectCity(ctx, user.ID, "Ankara")
	require.NoError(t, err)
	assert.Equal(t, "Ankara", snapshot.User.City)
	assert.Equal(t, session.NavigatorMain, snapshot.Navigator)

	assert.Equal(t, []string{"session"}, env.notifier.kinds())
}

func TestUploadAvatar(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, 0)
	ctx := context.Background()
	svc, local := newProfileService(t, env)

	updated, err := svc.UploadAvatar(ctx, user.ID, bytes.NewReader(pngBytes(t, 200, 100)), "me.png")
	require.NoError(t, err)

	key := "users/" + user.ID.Hex() + "/profile.png"
	assert.Equal(t, local.PublicURL(key), updated.ProfileImageURL)

	f, err := os.Open(filepath.Join(local.BasePath(), filepath.FromSlash(key)))
	require.NoError(t, err)
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 32, cfg.Height)
}

func TestUploadAvatar_Rejects(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, 0)
	ctx := context.Background()
	svc, _ := newProfileService(t, env)

	_, err := svc.UploadAvatar(ctx, user.ID, bytes.NewReader([]byte("GIF89a")), "me.gif")
	require.ErrorIs(t, err, utils.ErrUnsupportedImage)

	_, err = svc.UploadAvatar(ctx, user.ID, bytes.NewReader([]byte("not an image")), "me.jpg")
	require.ErrorIs(t, err, utils.ErrUnsupportedImage)

	_, err = svc.UploadAvatar(ctx, user.ID, bytes.NewReader(make([]byte, 2<<20)), "big.png")
	require.ErrorIs(t, err, ErrImageTooLarge)
}

func TestRegisterDeviceToken(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, 0)
	ctx := context.Background()
	svc, _ := newProfileService(t, env)

	require.NoError(t, svc.RegisterDeviceToken(ctx, user.ID, "fcm-token-1"))

	stored, err := env.store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "fcm-token-1", stored.FCMToken)

	require.ErrorIs(t, svc.RegisterDeviceToken(ctx, primitive.NewObjectID(), "x"), ErrUserNotFound)
}
