package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shelterfund/internal/models"
	"shelterfund/internal/repositories/interfaces"
	"shelterfund/internal/utils"
	"shelterfund/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ShelterService interface {
	ListCities(ctx context.Context) ([]string, error)
	ListShelters(ctx context.Context, city string, limit int) ([]*models.Shelter, error)
	GetShelter(ctx context.Context, id primitive.ObjectID) (*models.Shelter, error)
	ListAnimalTypes(ctx context.Context, shelterID primitive.ObjectID) ([]string, error)
	ListAnimals(ctx context.Context, query *AnimalQuery) ([]*models.Animal, error)
	GetAnimalDetail(ctx context.Context, userID, animalID primitive.ObjectID) (*models.AnimalDetail, error)
}

type AnimalQuery struct {
	ShelterID primitive.ObjectID
	Type      string
	Sort      models.AnimalSort
	// Search is a case-insensitive substring match on the animal name,
	// applied after the store query.
	Search string
}

type shelterService struct {
	shelterRepo interfaces.ShelterRepository
	animalRepo  interfaces.AnimalRepository
	adoptions   AdoptionService
	browseLimit int
	logger      *logger.Logger
}

func NewShelterService(
	shelterRepo interfaces.ShelterRepository,
	animalRepo interfaces.AnimalRepository,
	adoptions AdoptionService,
	browseLimit int,
	logger *logger.Logger,
) ShelterService {
	if browseLimit <= 0 {
		browseLimit = utils.DefaultPageSize
	}
	return &shelterService{
		shelterRepo: shelterRepo,
		animalRepo:  animalRepo,
		adoptions:   adoptions,
		browseLimit: browseLimit,
		logger:      logger,
	}
}

func (s *shelterService) ListCities(ctx context.Context) ([]string, error) {
	cities, err := s.shelterRepo.ListCities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}
	return cities, nil
}

func (s *shelterService) ListShelters(ctx context.Context, city string, limit int) ([]*models.Shelter, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, ErrCityRequired
	}

	switch {
	case limit <= 0:
		limit = s.browseLimit
	case limit > utils.MaxPageSize:
		limit = utils.MaxPageSize
	}

	shelters, err := s.shelterRepo.ListByCity(ctx, city, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list shelters: %w", err)
	}
	return shelters, nil
}

func (s *shelterService) GetShelter(ctx context.Context, id primitive.ObjectID) (*models.Shelter, error) {
	shelter, err := s.shelterRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrShelterNotFound
		}
		return nil, fmt.Errorf("failed to load shelter: %w", err)
	}
	return shelter, nil
}

func (s *shelterService) ListAnimalTypes(ctx context.Context, shelterID primitive.ObjectID) ([]string, error) {
	types, err := s.animalRepo.ListTypes(ctx, shelterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list animal types: %w", err)
	}
	return types, nil
}

func (s *shelterService) ListAnimals(ctx context.Context, query *AnimalQuery) ([]*models.Animal, error) {
	switch query.Sort {
	case models.AnimalSortNone, models.AnimalSortName, models.AnimalSortAge:
	default:
		query.Sort = models.AnimalSortNone
	}

	animals, err := s.animalRepo.List(ctx, &models.AnimalFilter{
		ShelterID: query.ShelterID,
		Type:      strings.TrimSpace(query.Type),
		Sort:      query.Sort,
		Limit:     s.browseLimit,
	})
	if err != nil {
		if errors.Is(err, interfaces.ErrMissingIndex) {
			s.logger.WithError(err).WithField("sort", string(query.Sort)).Error("Animal query needs an index")
		}
		return nil, fmt.Errorf("failed to list animals: %w", err)
	}

	search := strings.ToLower(strings.TrimSpace(query.Search))
	if search == "" {
		return animals, nil
	}

	filtered := make([]*models.Animal, 0, len(animals))
	for _, a := range animals {
		if strings.Contains(strings.ToLower(a.Name), search) {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

func (s *shelterService) GetAnimalDetail(ctx context.Context, userID, animalID primitive.ObjectID) (*models.AnimalDetail, error) {
	animal, err := s.animalRepo.GetByID(ctx, animalID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrAnimalNotFound
		}
		return nil, fmt.Errorf("failed to load animal: %w", err)
	}

	detail := &models.AnimalDetail{Animal: animal}

	shelter, err := s.shelterRepo.GetByID(ctx, animal.ShelterID)
	switch {
	case err == nil:
		detail.Shelter = shelter
	case errors.Is(err, interfaces.ErrNotFound):
		s.logger.WithField("animal_id", animalID.Hex()).Warn("Animal references a missing shelter")
	default:
		return nil, fmt.Errorf("failed to load shelter: %w", err)
	}

	if !userID.IsZero() {
		detail.HasAdopted, err = s.adoptions.HasActiveAdoption(ctx, userID, animalID)
		if err != nil {
			return nil, err
		}
	}

	return detail, nil
}
