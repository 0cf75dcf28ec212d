package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"shelterfund/internal/models"
	"shelterfund/internal/repositories/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	user := &models.User{DisplayName: "Ada", Email: "ada@example.com", WalletBalance: 100}
	require.NoError(t, store.Users().Create(ctx, user))

	boom := errors.New("boom")
	err := store.WithTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, store.Users().CompareAndSetBalance(ctx, user.ID, 100, 40))
		require.NoError(t, store.WalletTransactions().Create(ctx, &models.WalletTransaction{
			UserID: user.ID,
			Type:   models.WalletTransactionDonation,
			Amount: 60,
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.WalletBalance)

	entries, err := store.WalletTransactions().ListByUser(ctx, user.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWithTransaction_Commits(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	user := &models.User{DisplayName: "Ada", Email: "ada@example.com"}
	require.NoError(t, store.Users().Create(ctx, user))

	err := store.WithTransaction(ctx, func(ctx context.Context) error {
		return store.Users().CompareAndSetBalance(ctx, user.ID, 0, 25)
	})
	require.NoError(t, err)

	got, err := store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.0, got.WalletBalance)
}

func TestWithTransaction_OutsideReadersSeeOnlyCommittedState(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	user := &models.User{DisplayName: "Ada", Email: "ada@example.com", WalletBalance: 100}
	require.NoError(t, store.Users().Create(ctx, user))

	written := make(chan struct{})
	release := make(chan struct{})
	txDone := make(chan error, 1)
	go func() {
		txDone <- store.WithTransaction(ctx, func(ctx context.Context) error {
			if err := store.Users().CompareAndSetBalance(ctx, user.ID, 100, 60); err != nil {
				return err
			}
			if err := store.Donations().Create(ctx, &models.Donation{UserID: user.ID, Amount: 40}); err != nil {
				return err
			}
			close(written)
			<-release
			return errors.New("ledger write failed")
		})
	}()
	<-written

	type observed struct {
		balance   float64
		donations int
	}
	reads := make(chan observed, 1)
	go func() {
		u, err := store.Users().GetByID(ctx, user.ID)
		if err != nil {
			reads <- observed{balance: -1}
			return
		}
		donations, _ := store.Donations().ListByUser(ctx, user.ID)
		reads <- observed{balance: u.WalletBalance, donations: len(donations)}
	}()

	select {
	case got := <-reads:
		t.Fatalf("read completed during an open transaction: %+v", got)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.Error(t, <-txDone)

	select {
	case got := <-reads:
		assert.Equal(t, observed{balance: 100, donations: 0}, got)
	case <-time.After(time.Second):
		t.Fatal("read did not complete after the transaction ended")
	}
}

func TestCompareAndSetBalance_Mismatch(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	user := &models.User{DisplayName: "Ada", Email: "ada@example.com", WalletBalance: 10}
	require.NoError(t, store.Users().Create(ctx, user))

	err := store.Users().CompareAndSetBalance(ctx, user.ID, 20, 0)
	assert.ErrorIs(t, err, interfaces.ErrBalanceChanged)
}

func TestUsers_DuplicateEmail(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Users().Create(ctx, &models.User{Email: "a@example.com"}))
	err := store.Users().Create(ctx, &models.User{Email: " A@example.com "})
	assert.ErrorIs(t, err, interfaces.ErrDuplicate)
}

func TestAdoptions_ActivePairIsUnique(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	user := &models.User{Email: "a@example.com"}
	require.NoError(t, store.Users().Create(ctx, user))
	animal := &models.Animal{Name: "Pamuk", Type: "Kedi"}
	require.NoError(t, store.Animals().Upsert(ctx, animal))

	first := &models.VirtualAdoption{UserID: user.ID, AnimalID: animal.ID, Status: models.AdoptionStatusActive}
	require.NoError(t, store.Adoptions().Create(ctx, first))

	second := &models.VirtualAdoption{UserID: user.ID, AnimalID: animal.ID, Status: models.AdoptionStatusActive}
	assert.ErrorIs(t, store.Adoptions().Create(ctx, second), interfaces.ErrDuplicate)

	n, err := store.Adoptions().CountActiveByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestAnimals_ListFiltersAndSorts(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	shelter := &models.Shelter{Name: "Patiler", City: "İzmir"}
	require.NoError(t, store.Shelters().Upsert(ctx, shelter))

	for _, a := range []*models.Animal{
		{Name: "Zeytin", Type: "Köpek", Age: 2, ShelterID: shelter.ID},
		{Name: "Boncuk", Type: "Kedi", Age: 5, ShelterID: shelter.ID},
		{Name: "Aslan", Type: "Köpek", Age: 7, ShelterID: shelter.ID},
	} {
		require.NoError(t, store.Animals().Upsert(ctx, a))
	}

	dogs, err := store.Animals().List(ctx, &models.AnimalFilter{ShelterID: shelter.ID, Type: "Köpek", Sort: models.AnimalSortName})
	require.NoError(t, err)
	require.Len(t, dogs, 2)
	assert.Equal(t, "Aslan", dogs[0].Name)
	assert.Equal(t, "Zeytin", dogs[1].Name)

	byAge, err := store.Animals().List(ctx, &models.AnimalFilter{ShelterID: shelter.ID, Sort: models.AnimalSortAge, Limit: 2})
	require.NoError(t, err)
	require.Len(t, byAge, 2)
	assert.Equal(t, 2, byAge[0].Age)
	assert.Equal(t, 5, byAge[1].Age)

	types, err := store.Animals().ListTypes(ctx, shelter.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kedi", "Köpek"}, types)
}

func TestWalletTransactions_NetAmount(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	user := &models.User{Email: "a@example.com"}
	require.NoError(t, store.Users().Create(ctx, user))

	require.NoError(t, store.WalletTransactions().Create(ctx, &models.WalletTransaction{UserID: user.ID, Type: models.WalletTransactionDeposit, Amount: 100.10}))
	require.NoError(t, store.WalletTransactions().Create(ctx, &models.WalletTransaction{UserID: user.ID, Type: models.WalletTransactionDonation, Amount: 50.05}))

	net, err := store.WalletTransactions().NetAmount(ctx, user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 50.05, net, 1e-9)
}
