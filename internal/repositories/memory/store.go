// Package memory is an in-process implementation of the repository
// interfaces, selected with DATABASE_DRIVER=memory and used by service tests.
package memory

import (
	"context"
	"sync"

	"shelterfund/internal/models"
	"shelterfund/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type txKey struct{}

// Store keeps every collection in maps guarded by mu. Transactions hold txMu
// exclusively and roll back to a snapshot when fn fails. Writes made outside
// a transaction also take txMu exclusively so a rollback cannot discard them,
// and reads outside a transaction share it so they only see committed state.
type Store struct {
	txMu sync.RWMutex
	mu   sync.RWMutex

	users     map[primitive.ObjectID]models.User
	shelters  map[primitive.ObjectID]models.Shelter
	animals   map[primitive.ObjectID]models.Animal
	donations []models.Donation
	adoptions []models.VirtualAdoption
	ledger    []models.WalletTransaction
	prices    map[string]models.DonationItemPrice
}

func NewStore() *Store {
	return &Store{
		users:    make(map[primitive.ObjectID]models.User),
		shelters: make(map[primitive.ObjectID]models.Shelter),
		animals:  make(map[primitive.ObjectID]models.Animal),
		prices:   make(map[string]models.DonationItemPrice),
	}
}

func (s *Store) Users() interfaces.UserRepository {
	return &userRepository{s}
}

func (s *Store) Shelters() interfaces.ShelterRepository {
	return &shelterRepository{s}
}

func (s *Store) Animals() interfaces.AnimalRepository {
	return &animalRepository{s}
}

func (s *Store) Donations() interfaces.DonationRepository {
	return &donationRepository{s}
}

func (s *Store) Adoptions() interfaces.AdoptionRepository {
	return &adoptionRepository{s}
}

func (s *Store) ItemPrices() interfaces.DonationItemPriceRepository {
	return &itemPriceRepository{s}
}

func (s *Store) WalletTransactions() interfaces.WalletTransactionRepository {
	return &walletTransactionRepository{s}
}

// WithTransaction implements interfaces.TxManager. A nested call joins the
// outer transaction.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// lock takes the write lock, plus the transaction lock when ctx is not
// already inside a transaction.
func (s *Store) lock(ctx context.Context) func() {
	if inTx(ctx) {
		s.mu.Lock()
		return s.mu.Unlock
	}

	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

// rlock takes the read lock. Outside a transaction it also shares txMu, so
// an open transaction's uncommitted writes are never observed.
func (s *Store) rlock(ctx context.Context) func() {
	if inTx(ctx) {
		s.mu.RLock()
		return s.mu.RUnlock
	}

	s.txMu.RLock()
	s.mu.RLock()
	return func() {
		s.mu.RUnlock()
		s.txMu.RUnlock()
	}
}

type snapshot struct {
	users     map[primitive.ObjectID]models.User
	shelters  map[primitive.ObjectID]models.Shelter
	animals   map[primitive.ObjectID]models.Animal
	donations []models.Donation
	adoptions []models.VirtualAdoption
	ledger    []models.WalletTransaction
	prices    map[string]models.DonationItemPrice
}

func (s *Store) snapshot() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &snapshot{
		users:     cloneMap(s.users),
		shelters:  cloneMap(s.shelters),
		animals:   cloneMap(s.animals),
		donations: append([]models.Donation(nil), s.donations...),
		adoptions: append([]models.VirtualAdoption(nil), s.adoptions...),
		ledger:    append([]models.WalletTransaction(nil), s.ledger...),
		prices:    cloneMap(s.prices),
	}
}

func (s *Store) restore(snap *snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = snap.users
	s.shelters = snap.shelters
	s.animals = snap.animals
	s.donations = snap.donations
	s.adoptions = snap.adoptions
	s.ledger = snap.ledger
	s.prices = snap.prices
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func notFound(op string) error {
	return wrap(op, interfaces.ErrNotFound)
}
