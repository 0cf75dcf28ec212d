package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"shelterfund/internal/config"
	"shelterfund/internal/models"
	"shelterfund/internal/repositories/interfaces"
	"shelterfund/internal/repositories/memory"
	"shelterfund/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type notification struct {
	kind   string
	userID primitive.ObjectID
	data   map[string]interface{}
}

// recordingNotifier captures the events services emit.
type recordingNotifier struct {
	mu     sync.Mutex
	events []notification
}

func (n *recordingNotifier) add(kind string, userID primitive.ObjectID, data map[string]interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notification{kind: kind, userID: userID, data: data})
}

func (n *recordingNotifier) NotifyWalletUpdated(ctx context.Context, userID primitive.ObjectID, balance float64, currency string) {
	n.add("wallet", userID, map[string]interface{}{"balance": balance})
}

func (n *recordingNotifier) NotifyDonationCompleted(ctx context.Context, donation *models.Donation, balance float64) {
	n.add("donation", donation.UserID, map[string]interface{}{"amount": donation.Amount, "balance": balance})
}

func (n *recordingNotifier) NotifyAdoptionCreated(ctx context.Context, adoption *models.VirtualAdoption, adoptersCount int64) {
	n.add("adoption", adoption.UserID, map[string]interface{}{"adopters": adoptersCount})
}

func (n *recordingNotifier) NotifySessionChanged(ctx context.Context, userID primitive.ObjectID, state, navigator string) {
	n.add("session", userID, map[string]interface{}{"state": state, "navigator": navigator})
}

func (n *recordingNotifier) kinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.kind)
	}
	return out
}

type testEnv struct {
	store    *memory.Store
	notifier *recordingNotifier
	cfg      *config.DonationConfig
	log      *logger.Logger

	shelter *models.Shelter
	animal  *models.Animal
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctx := context.Background()
	store := memory.NewStore()

	shelter := &models.Shelter{Name: "Pati Evi", City: "İzmir"}
	require.NoError(t, store.Shelters().Upsert(ctx, shelter))

	animal := &models.Animal{Name: "Boncuk", Type: "Kedi", Age: 2, ShelterID: shelter.ID}
	require.NoError(t, store.Animals().Upsert(ctx, animal))

	for itemType, price := range map[string]float64{
		models.DonationTypeFood:     50,
		models.DonationTypeToy:      30,
		models.DonationTypeMedicine: 75,
	} {
		require.NoError(t, store.ItemPrices().Upsert(ctx, &models.DonationItemPrice{
			Type:      itemType,
			UnitPrice: price,
			Currency:  "TRY",
			Active:    true,
		}))
	}

	return &testEnv{
		store:    store,
		notifier: &recordingNotifier{},
		cfg: &config.DonationConfig{
			Currency:       "TRY",
			MaxQuantity:    5,
			MaxAmount:      10000,
			RetryAttempts:  3,
			RetryBaseDelay: time.Millisecond,
			HistoryLimit:   20,
			BrowseLimit:    50,
		},
		log:     logger.NewNop(),
		shelter: shelter,
		animal:  animal,
	}
}

func (e *testEnv) newUser(t *testing.T, balance float64) *models.User {
	t.Helper()
	user := &models.User{
		DisplayName:   "Ayşe",
		Email:         primitive.NewObjectID().Hex() + "@example.com",
		WalletBalance: balance,
	}
	require.NoError(t, e.store.Users().Create(context.Background(), user))
	return user
}

func (e *testEnv) balance(t *testing.T, userID primitive.ObjectID) float64 {
	t.Helper()
	user, err := e.store.Users().GetByID(context.Background(), userID)
	require.NoError(t, err)
	return user.WalletBalance
}

func (e *testEnv) donationService() DonationService {
	return e.donationServiceWith(e.store.Users(), e.store.Donations())
}

func (e *testEnv) donationServiceWith(users interfaces.UserRepository, donations interfaces.DonationRepository) DonationService {
	return NewDonationService(
		users,
		e.store.Animals(),
		e.store.Shelters(),
		donations,
		e.store.ItemPrices(),
		e.store.WalletTransactions(),
		e.store,
		e.notifier,
		e.cfg,
		e.log,
	)
}

func (e *testEnv) walletService() WalletService {
	return NewWalletService(e.store.Users(), e.store.WalletTransactions(), e.store, e.notifier, e.cfg, e.log)
}

func (e *testEnv) adoptionService() AdoptionService {
	return NewAdoptionService(e.store.Animals(), e.store.Adoptions(), e.notifier, e.log)
}

func (e *testEnv) shelterService() ShelterService {
	return NewShelterService(e.store.Shelters(), e.store.Animals(), e.adoptionService(), e.cfg.BrowseLimit, e.log)
}
