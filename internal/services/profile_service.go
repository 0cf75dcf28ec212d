package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"shelterfund/internal/config"
	"shelterfund/internal/models"
	"shelterfund/internal/repositories/interfaces"
	"shelterfund/internal/session"
	"shelterfund/internal/utils"
	"shelterfund/internal/validators"
	"shelterfund/pkg/logger"
	"shelterfund/pkg/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProfileService interface {
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, request *validators.UpdateProfileRequest) (*models.User, error)
	SelectCity(ctx context.Context, userID primitive.ObjectID, city string) (*session.Snapshot, error)
	UploadAvatar(ctx context.Context, userID primitive.ObjectID, file io.Reader, filename string) (*models.User, error)
	RegisterDeviceToken(ctx context.Context, userID primitive.ObjectID, token string) error
}

type profileService struct {
	userRepo     interfaces.UserRepository
	donationRepo interfaces.DonationRepository
	adoptionRepo interfaces.AdoptionRepository
	storage      storage.Provider
	sessions     *session.Registry
	maxImageSize int64
	avatarPixels uint
	logger       *logger.Logger
}

func NewProfileService(
	userRepo interfaces.UserRepository,
	donationRepo interfaces.DonationRepository,
	adoptionRepo interfaces.AdoptionRepository,
	storageProvider storage.Provider,
	sessions *session.Registry,
	cfg *config.StorageConfig,
	logger *logger.Logger,
) ProfileService {
	return &profileService{
		userRepo:     userRepo,
		donationRepo: donationRepo,
		adoptionRepo: adoptionRepo,
		storage:      storageProvider,
		sessions:     sessions,
		maxImageSize: cfg.MaxImageSize,
		avatarPixels: cfg.AvatarMaxPixels,
		logger:       logger,
	}
}

func (s *profileService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.UserProfile, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	donations, err := s.donationRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count donations: %w", err)
	}
	adoptions, err := s.adoptionRepo.CountActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count adoptions: %w", err)
	}

	return &models.UserProfile{
		User: user,
		Stats: &models.UserStats{
			DonationCount:       donations,
			ActiveAdoptionCount: adoptions,
		},
	}, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, request *validators.UpdateProfileRequest) (*models.User, error) {
	if errs := validators.ValidateUpdateProfile(request); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"display_name":      request.DisplayName,
		"age":               request.Age,
		"gender":            request.Gender,
		"bio":               request.Bio,
		"profile_image_url": request.ProfileImageURL,
		"updated_at":        time.Now().UTC(),
	}
	// An empty city in an edit form keeps the selected one.
	if request.City != "" {
		updates["city"] = request.City
	}

	if err := s.userRepo.Update(ctx, userID, updates); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.LogUserAction(userID, "profile_updated", nil)

	updated, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.City != updated.City {
		s.resolveSession(ctx, updated)
	}
	return updated, nil
}

func (s *profileService) SelectCity(ctx context.Context, userID primitive.ObjectID, city string) (*session.Snapshot, error) {
	request := &validators.SelectCityRequest{City: city}
	if errs := validators.ValidateSelectCity(request); len(errs) > 0 {
		return nil, errs
	}

	if _, err := s.getUser(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, userID, map[string]interface{}{
		"city":       request.City,
		"updated_at": time.Now().UTC(),
	}); err != nil {
		return nil, fmt.Errorf("failed to save city: %w", err)
	}

	s.logger.LogUserAction(userID, "city_selected", map[string]interface{}{"city": request.City})

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	snapshot := s.resolveSession(ctx, user)
	return &snapshot, nil
}

func (s *profileService) UploadAvatar(ctx context.Context, userID primitive.ObjectID, file io.Reader, filename string) (*models.User, error) {
	if !utils.IsValidImageFormat(filename) {
		return nil, utils.ErrUnsupportedImage
	}

	raw, err := io.ReadAll(io.LimitReader(file, s.maxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(raw)) > s.maxImageSize {
		return nil, ErrImageTooLarge
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	data, ext, err := utils.ResizeImage(bytes.NewReader(raw), filename, s.avatarPixels)
	if err != nil {
		return nil, err
	}

	key := avatarKey(userID, ext)
	uploaded, err := s.storage.Upload(ctx, &storage.UploadRequest{
		Key:          key,
		Reader:       bytes.NewReader(data),
		ContentType:  utils.ContentTypeForExt(ext),
		Size:         int64(len(data)),
		CacheControl: "no-cache",
		Metadata:     map[string]string{"user_id": userID.Hex()},
	})
	if err != nil {
		s.logger.WithError(err).WithUserID(userID).Error("Failed to upload avatar")
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	if err := s.userRepo.Update(ctx, userID, map[string]interface{}{
		"profile_image_url": uploaded.URL,
		"updated_at":        time.Now().UTC(),
	}); err != nil {
		return nil, fmt.Errorf("failed to save avatar url: %w", err)
	}

	// Only one avatar is kept per user; a previous upload in the other
	// format would otherwise linger.
	for _, other := range utils.AllowedImageTypes {
		if other == "jpeg" || other == ext {
			continue
		}
		oldKey := avatarKey(userID, other)
		if s.storage.PublicURL(oldKey) != user.ProfileImageURL {
			continue
		}
		if err := s.storage.Delete(ctx, oldKey); err != nil {
			s.logger.WithError(err).WithField("key", oldKey).Warn("Failed to delete previous avatar")
		}
	}

	s.logger.LogUserAction(userID, "avatar_uploaded", map[string]interface{}{"key": uploaded.Key, "size": uploaded.Size})

	return s.getUser(ctx, userID)
}

func (s *profileService) RegisterDeviceToken(ctx context.Context, userID primitive.ObjectID, token string) error {
	request := &validators.DeviceTokenRequest{Token: token}
	if err := validators.Validate(request); err != nil {
		return err
	}

	if _, err := s.getUser(ctx, userID); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, userID, map[string]interface{}{
		"fcm_token":  request.Token,
		"updated_at": time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("failed to save device token: %w", err)
	}
	return nil
}

func (s *profileService) getUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// resolveSession feeds the user's session gate, which publishes the change
// to its subscribers when the routing state moves.
func (s *profileService) resolveSession(ctx context.Context, user *models.User) session.Snapshot {
	snapshot, err := s.sessions.Resolve(ctx, &user.ID)
	if err != nil {
		s.logger.WithUserID(user.ID).WithError(err).Warn("Failed to refresh session state")
		state := session.StateForUser(user)
		return session.Snapshot{State: state, Navigator: state.Navigator(), User: user}
	}
	return snapshot
}

func avatarKey(userID primitive.ObjectID, ext string) string {
	return fmt.Sprintf("users/%s/profile.%s", userID.Hex(), ext)
}
