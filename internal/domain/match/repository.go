package match

import "context"

// Ledger is the set of match ids already folded into the counters.
type Ledger interface {
	HasProcessed(ctx context.Context, matchID string) (bool, error)
}
