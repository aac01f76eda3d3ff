package playerstats

import "context"

// Repository is the read side of the counter store.
type Repository interface {
	ListAll(ctx context.Context) ([]Counters, error)
}
