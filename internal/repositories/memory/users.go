package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"shelterfund/internal/models"
	"shelterfund/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	unlock := r.s.lock(ctx)
	defer unlock()

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return wrap("create user", interfaces.ErrDuplicate)
		}
	}

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	unlock := r.s.rlock(ctx)
	defer unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, notFound("get user")
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	unlock := r.s.rlock(ctx)
	defer unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, notFound("get user by email")
}

// Update accepts the bson field names used by the mongodb repository.
func (r *userRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	unlock := r.s.lock(ctx)
	defer unlock()

	u, ok := r.s.users[id]
	if !ok {
		return notFound("update user")
	}

	for k, v := range updates {
		switch k {
		case "display_name":
			u.DisplayName, _ = v.(string)
		case "age":
			u.Age, _ = v.(int)
		case "gender":
			switch g := v.(type) {
			case models.Gender:
				u.Gender = g
			case string:
				u.Gender = models.Gender(g)
			}
		case "city":
			u.City, _ = v.(string)
		case "bio":
			u.Bio, _ = v.(string)
		case "profile_image_url":
			u.ProfileImageURL, _ = v.(string)
		case "fcm_token":
			u.FCMToken, _ = v.(string)
		case "wallet_balance":
			u.WalletBalance, _ = v.(float64)
		}
	}
	u.UpdatedAt = time.Now()

	r.s.users[id] = u
	return nil
}

func (r *userRepository) CompareAndSetBalance(ctx context.Context, id primitive.ObjectID, expected, newBalance float64) error {
	unlock := r.s.lock(ctx)
	defer unlock()

	u, ok := r.s.users[id]
	if !ok || u.WalletBalance != expected {
		return interfaces.ErrBalanceChanged
	}

	u.WalletBalance = newBalance
	u.UpdatedAt = time.Now()
	r.s.users[id] = u
	return nil
}

func (r *userRepository) ListIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	unlock := r.s.rlock(ctx)
	defer unlock()

	ids := make([]primitive.ObjectID, 0, len(r.s.users))
	for id := range r.s.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Hex() < ids[j].Hex() })
	return ids, nil
}
