// Package snapshot persists final account state to an external store after a
// run, in addition to the CSV emitted on stdout.
package snapshot

import (
	"context"

	"github.com/example/payments-engine/internal/bank"
)

// Sink writes a set of final account snapshots to a backing store.
type Sink interface {
	WriteSnapshot(ctx context.Context, accounts []bank.Account) error
	Close() error
}
