package services

import (
	"context"
	"fmt"
	"testing"

	"shelterfund/internal/models"
	"shelterfund/internal/repositories/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAdopt(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, 0)
	ctx := context.Background()
	svc := env.adoptionService()

	adoption, err := svc.Adopt(ctx, user.ID, env.animal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AdoptionStatusActive, adoption.Status)
	assert.Equal(t, "Boncuk", adoption.AnimalName)
	assert.Equal(t, env.shelter.ID, adoption.ShelterID)

	animal, err := env.store.Animals().GetByID(ctx, env.animal.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), animal.VirtualAdoptersCount)

	adopted, err := svc.HasActiveAdoption(ctx, user.ID, env.animal.ID)
	require.NoError(t, err)
	assert.True(t, adopted)

	assert.Equal(t, []string{"adoption"}, env.notifier.kinds())
}

func TestAdopt_SecondAttemptIsRejected(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, 0)
	ctx := context.Background()
	svc := env.adoptionService()

	_, err := svc.Adopt(ctx, user.ID, env.animal.ID)
	require.NoError(t, err)

	_, err = svc.Adopt(ctx, user.ID, env.animal.ID)
	require.ErrorIs(t, err, ErrAlreadyAdopted)

	adoptions, err := svc.ListMyAdoptions(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, adoptions, 1)

	animal, err := env.store.Animals().GetByID(ctx, env.animal.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), animal.VirtualAdoptersCount)
}

func TestAdopt_DifferentUsersShareAnimal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.adoptionService()

	for i := 0; i < 3; i++ {
		user := env.newUser(t, 0)
		_, err := svc.Adopt(ctx, user.ID, env.animal.ID)
		require.NoError(t, err)
	}

	animal, err := env.store.Animals().GetByID(ctx, env.animal.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), animal.VirtualAdoptersCount)
}

func TestAdopt_UnknownAnimal(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, 0)

	_, err := env.adoptionService().Adopt(context.Background(), user.ID, primitive.NewObjectID())
	require.ErrorIs(t, err, ErrAnimalNotFound)
	assert.Empty(t, env.notifier.kinds())
}

// racedAdoptions misses the active adoption on lookup and then hits the
// unique index on insert, as when a concurrent request wins.
type racedAdoptions struct {
	interfaces.AdoptionRepository
}

func (racedAdoptions) FindActive(ctx context.Context, userID, animalID primitive.ObjectID) (*models.VirtualAdoption, error) {
	return nil, fmt.Errorf("find adoption: %w", interfaces.ErrNotFound)
}

func (racedAdoptions) Create(ctx context.Context, adoption *models.VirtualAdoption) error {
	return fmt.Errorf("insert adoption: %w", interfaces.ErrDuplicate)
}

func TestAdopt_DuplicateKeyOnInsert(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, 0)
	ctx := context.Background()
	svc := NewAdoptionService(env.store.Animals(), racedAdoptions{env.store.Adoptions()}, env.notifier, env.log)

	_, err := svc.Adopt(ctx, user.ID, env.animal.ID)
	require.ErrorIs(t, err, ErrAlreadyAdopted)

	animal, err := env.store.Animals().GetByID(ctx, env.animal.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), animal.VirtualAdoptersCount)
	assert.Empty(t, env.notifier.kinds())
}
