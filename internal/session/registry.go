package session

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Registry keeps one Gate per signed-in user so state survives between
// requests. onChange is subscribed to every gate the registry creates.
type Registry struct {
	lookup   UserLookup
	onChange func(userID primitive.ObjectID, snapshot Snapshot)

	mu    sync.Mutex
	gates map[primitive.ObjectID]*Gate
}

func NewRegistry(lookup UserLookup, onChange func(userID primitive.ObjectID, snapshot Snapshot)) *Registry {
	return &Registry{
		lookup:   lookup,
		onChange: onChange,
		gates:    make(map[primitive.ObjectID]*Gate),
	}
}

// Gate returns the gate for userID, creating it on first use.
func (r *Registry) Gate(userID primitive.ObjectID) *Gate {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g, ok := r.gates[userID]; ok {
		return g
	}

	g := NewGate(r.lookup)
	if r.onChange != nil {
		g.Subscribe(func(s Snapshot) { r.onChange(userID, s) })
	}
	r.gates[userID] = g
	return g
}

// Resolve feeds an AuthChanged event to the user's gate. Anonymous callers
// get the unauthenticated snapshot without a gate, and a user whose document
// is gone has their gate dropped.
func (r *Registry) Resolve(ctx context.Context, userID *primitive.ObjectID) (Snapshot, error) {
	if userID == nil {
		return Snapshot{State: StateUnauthenticated, Navigator: NavigatorAuth}, nil
	}

	snapshot, err := r.Gate(*userID).AuthChanged(ctx, userID)
	if err != nil {
		return snapshot, err
	}

	if snapshot.State == StateUnauthenticated {
		r.mu.Lock()
		delete(r.gates, *userID)
		r.mu.Unlock()
	}
	return snapshot, nil
}

// Len is the number of tracked gates.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.gates)
}
