package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shelterfund/internal/models"
	"shelterfund/internal/repositories/interfaces"
	"shelterfund/pkg/logger"
	"shelterfund/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AdoptionService interface {
	Adopt(ctx context.Context, userID, animalID primitive.ObjectID) (*models.VirtualAdoption, error)
	ListMyAdoptions(ctx context.Context, userID primitive.ObjectID) ([]*models.VirtualAdoption, error)
	HasActiveAdoption(ctx context.Context, userID, animalID primitive.ObjectID) (bool, error)
}

type adoptionService struct {
	animalRepo   interfaces.AnimalRepository
	adoptionRepo interfaces.AdoptionRepository
	notifier     NotificationService
	logger       *logger.Logger
}

func NewAdoptionService(
	animalRepo interfaces.AnimalRepository,
	adoptionRepo interfaces.AdoptionRepository,
	notifier NotificationService,
	logger *logger.Logger,
) AdoptionService {
	return &adoptionService{
		animalRepo:   animalRepo,
		adoptionRepo: adoptionRepo,
		notifier:     notifier,
		logger:       logger,
	}
}

// Adopt records an active virtual adoption and bumps the animal's adopter
// counter. The counter increment is not transactional with the insert: if
// it fails the adoption stays and the error is returned.
func (s *adoptionService) Adopt(ctx context.Context, userID, animalID primitive.ObjectID) (*models.VirtualAdoption, error) {
	animal, err := s.animalRepo.GetByID(ctx, animalID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrAnimalNotFound
		}
		return nil, fmt.Errorf("failed to load animal: %w", err)
	}

	adopted, err := s.HasActiveAdoption(ctx, userID, animalID)
	if err != nil {
		return nil, err
	}
	if adopted {
		return nil, ErrAlreadyAdopted
	}

	adoption := &models.VirtualAdoption{
		ID:           primitive.NewObjectID(),
		UserID:       userID,
		AnimalID:     animal.ID,
		AnimalName:   animal.Name,
		AnimalType:   animal.Type,
		ImageURL:     animal.ImageURL,
		ShelterID:    animal.ShelterID,
		AdoptionDate: time.Now(),
		Status:       models.AdoptionStatusActive,
	}

	if err := s.adoptionRepo.Create(ctx, adoption); err != nil {
		if errors.Is(err, interfaces.ErrDuplicate) {
			return nil, ErrAlreadyAdopted
		}
		return nil, fmt.Errorf("failed to record adoption: %w", err)
	}

	if err := s.animalRepo.IncrementAdopters(ctx, animal.ID, 1); err != nil {
		s.logger.WithUserID(userID).WithError(err).WithField("animal_id", animal.ID.Hex()).
			Error("Adoption recorded but adopter counter was not incremented")
		return nil, fmt.Errorf("failed to increment adopter count: %w", err)
	}

	metrics.RecordAdoption()
	s.logger.LogUserAction(userID, "virtual_adoption", map[string]interface{}{
		"adoption_id": adoption.ID.Hex(),
		"animal_id":   animal.ID.Hex(),
	})

	s.notifier.NotifyAdoptionCreated(ctx, adoption, animal.VirtualAdoptersCount+1)

	return adoption, nil
}

func (s *adoptionService) ListMyAdoptions(ctx context.Context, userID primitive.ObjectID) ([]*models.VirtualAdoption, error) {
	adoptions, err := s.adoptionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list adoptions: %w", err)
	}
	return adoptions, nil
}

func (s *adoptionService) HasActiveAdoption(ctx context.Context, userID, animalID primitive.ObjectID) (bool, error) {
	_, err := s.adoptionRepo.FindActive(ctx, userID, animalID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, interfaces.ErrNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check adoption: %w", err)
}
