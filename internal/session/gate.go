// Package session models the client routing gate: which navigator a client
// should show given its authentication and city selection.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"shelterfund/internal/models"
	"shelterfund/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type State string

const (
	StateInitializing          State = "initializing"
	StateUnauthenticated       State = "unauthenticated"
	StateAuthenticatedNoCity   State = "authenticated_no_city"
	StateAuthenticatedWithCity State = "authenticated_with_city"
)

type Navigator string

const (
	NavigatorNone          Navigator = ""
	NavigatorAuth          Navigator = "auth"
	NavigatorCitySelection Navigator = "city_selection"
	NavigatorMain          Navigator = "main"
)

// Navigator returns the navigator tree shown in state s.
func (s State) Navigator() Navigator {
	switch s {
	case StateUnauthenticated:
		return NavigatorAuth
	case StateAuthenticatedNoCity:
		return NavigatorCitySelection
	case StateAuthenticatedWithCity:
		return NavigatorMain
	}
	return NavigatorNone
}

// StateForUser is the authenticated state implied by a user document.
func StateForUser(user *models.User) State {
	if user == nil {
		return StateUnauthenticated
	}
	if user.HasCity() {
		return StateAuthenticatedWithCity
	}
	return StateAuthenticatedNoCity
}

type Snapshot struct {
	State     State        `json:"state"`
	Navigator Navigator    `json:"navigator"`
	User      *models.User `json:"user,omitempty"`
}

type UserLookup interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Gate is the routing state machine. It starts in StateInitializing and
// moves on every AuthChanged event; subscribers see each transition.
type Gate struct {
	mu          sync.Mutex
	lookup      UserLookup
	current     Snapshot
	subscribers map[int]func(Snapshot)
	nextID      int
}

func NewGate(lookup UserLookup) *Gate {
	return &Gate{
		lookup:      lookup,
		current:     Snapshot{State: StateInitializing},
		subscribers: make(map[int]func(Snapshot)),
	}
}

func (g *Gate) Current() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// Subscribe registers fn for future transitions and returns a function that
// removes it.
func (g *Gate) Subscribe(fn func(Snapshot)) func() {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.nextID
	g.nextID++
	g.subscribers[id] = fn

	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.subscribers, id)
	}
}

// AuthChanged applies an authentication change. A nil userID means signed
// out. For a signed-in user the user document is read; a missing document
// is treated as signed out. Lookup failures leave the state unchanged.
func (g *Gate) AuthChanged(ctx context.Context, userID *primitive.ObjectID) (Snapshot, error) {
	next := Snapshot{State: StateUnauthenticated}

	if userID != nil {
		user, err := g.lookup.GetByID(ctx, *userID)
		switch {
		case err == nil:
			next = Snapshot{State: StateForUser(user), User: user}
		case errors.Is(err, interfaces.ErrNotFound):
		default:
			return g.Current(), fmt.Errorf("failed to read user for session: %w", err)
		}
	}
	next.Navigator = next.State.Navigator()

	g.mu.Lock()
	changed := g.current.State != next.State
	g.current = next
	subscribers := make([]func(Snapshot), 0, len(g.subscribers))
	for _, fn := range g.subscribers {
		subscribers = append(subscribers, fn)
	}
	g.mu.Unlock()

	if changed {
		for _, fn := range subscribers {
			fn(next)
		}
	}

	return next, nil
}
