package ports

import (
	"context"

	"github.com/aretw0/fsmview/pkg/domain"
)

// SnapshotStore keeps the latest snapshot of each machine.
// Saving under an existing name replaces the previous snapshot.
type SnapshotStore interface {
	// Save stores the snapshot under the given machine name.
	Save(ctx context.Context, name string, snap *domain.Snapshot) error

	// Load retrieves the snapshot of a machine.
	// Returns domain.ErrMachineNotFound if the machine is unknown.
	Load(ctx context.Context, name string) (*domain.Snapshot, error)

	// Delete forgets a machine. Deleting an unknown machine is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all stored machines, in no particular order.
	List(ctx context.Context) ([]string, error)

	// Clear forgets every machine.
	Clear(ctx context.Context) error
}
