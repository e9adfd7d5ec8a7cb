package session

import "context"

// UpdateFunc derives the next state. Returning an error aborts the update,
// nothing is saved and Update returns the stored state with that error.
type UpdateFunc func(State) (State, error)

// Store keeps one State per session id. Update must serialise concurrent
// read-modify-write cycles on the same id; a missing id starts from New(id).
type Store interface {
	Get(ctx context.Context, id string) (State, error)
	Update(ctx context.Context, id string, fn UpdateFunc) (State, error)
}
