package memory

import (
	"context"
	"sort"

	"shelterfund/internal/models"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type walletTransactionRepository struct {
	s *Store
}

func (r *walletTransactionRepository) Create(ctx context.Context, entry *models.WalletTransaction) error {
	unlock := r.s.lock(ctx)
	defer unlock()

	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}

	r.s.ledger = append(r.s.ledger, *entry)
	return nil
}

func (r *walletTransactionRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, limit int) ([]*models.WalletTransaction, error) {
	unlock := r.s.rlock(ctx)
	defer unlock()

	entries := []*models.WalletTransaction{}
	for i := len(r.s.ledger) - 1; i >= 0; i-- {
		if e := r.s.ledger[i]; e.UserID == userID {
			entries = append(entries, &e)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date.After(entries[j].Date) })
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (r *walletTransactionRepository) NetAmount(ctx context.Context, userID primitive.ObjectID) (float64, error) {
	unlock := r.s.rlock(ctx)
	defer unlock()

	net := decimal.Zero
	for _, e := range r.s.ledger {
		if e.UserID != userID {
			continue
		}
		amount := decimal.NewFromFloat(e.Amount)
		if e.Type.Credits() {
			net = net.Add(amount)
		} else {
			net = net.Sub(amount)
		}
	}

	f, _ := net.Float64()
	return f, nil
}
