package memory

import (
	"context"
	"sort"
	"time"

	"shelterfund/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type donationRepository struct {
	s *Store
}

func (r *donationRepository) Create(ctx context.Context, donation *models.Donation) error {
	unlock := r.s.lock(ctx)
	defer unlock()

	if donation.ID.IsZero() {
		donation.ID = primitive.NewObjectID()
	}

	r.s.donations = append(r.s.donations, *donation)
	return nil
}

func (r *donationRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Donation, error) {
	unlock := r.s.rlock(ctx)
	defer unlock()

	donations := []*models.Donation{}
	for i := len(r.s.donations) - 1; i >= 0; i-- {
		if d := r.s.donations[i]; d.UserID == userID {
			donations = append(donations, &d)
		}
	}

	sort.SliceStable(donations, func(i, j int) bool {
		return donations[i].DonationDate.After(donations[j].DonationDate)
	})
	return donations, nil
}

func (r *donationRepository) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	unlock := r.s.rlock(ctx)
	defer unlock()

	var n int64
	for _, d := range r.s.donations {
		if d.UserID == userID {
			n++
		}
	}
	return n, nil
}

type itemPriceRepository struct {
	s *Store
}

func (r *itemPriceRepository) Upsert(ctx context.Context, price *models.DonationItemPrice) error {
	unlock := r.s.lock(ctx)
	defer unlock()

	if existing, ok := r.s.prices[price.Type]; ok {
		price.ID = existing.ID
	} else if price.ID.IsZero() {
		price.ID = primitive.NewObjectID()
	}
	price.UpdatedAt = time.Now()

	r.s.prices[price.Type] = *price
	return nil
}

func (r *itemPriceRepository) GetByType(ctx context.Context, itemType string) (*models.DonationItemPrice, error) {
	unlock := r.s.rlock(ctx)
	defer unlock()

	p, ok := r.s.prices[itemType]
	if !ok {
		return nil, notFound("get item price")
	}
	return &p, nil
}

func (r *itemPriceRepository) ListActive(ctx context.Context) ([]*models.DonationItemPrice, error) {
	unlock := r.s.rlock(ctx)
	defer unlock()

	prices := []*models.DonationItemPrice{}
	for _, p := range r.s.prices {
		if p.Active {
			p := p
			prices = append(prices, &p)
		}
	}

	sort.Slice(prices, func(i, j int) bool { return prices[i].Type < prices[j].Type })
	return prices, nil
}
