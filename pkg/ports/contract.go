package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/fsmview/pkg/domain"
)

func contractSnapshot(name, current string) *domain.Snapshot {
	return &domain.Snapshot{States: []domain.StateRecord{
		{ID: 0, Name: name, Parent: domain.NoParent, IsFSM: true, CurrentState: 1, Outcomes: []string{"end"}},
		{ID: 1, Name: current, Parent: 0, Outcomes: []string{"end"}},
	}}
}

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore implementation
// adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	name := "contract-machine-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := contractSnapshot(name, "Idle")

		err := store.Save(ctx, name, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap, loaded)
	})

	t.Run("Save Replaces By Name", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, contractSnapshot(name, "Idle")))
		require.NoError(t, store.Save(ctx, name, contractSnapshot(name, "Running")))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, "Running", loaded.States[1].Name)

		names, err := store.List(ctx)
		require.NoError(t, err)
		count := 0
		for _, n := range names {
			if n == name {
				count++
			}
		}
		assert.Equal(t, 1, count, "a machine is listed once no matter how often it is saved")
	})

	t.Run("Stored Copy Is Isolated", func(t *testing.T) {
		snap := contractSnapshot(name, "Idle")
		require.NoError(t, store.Save(ctx, name, snap))

		snap.States[1].Name = "Mutated"
		snap.States[1].Outcomes[0] = "mutated"

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, "Idle", loaded.States[1].Name)
		assert.Equal(t, "end", loaded.States[1].Outcomes[0])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrMachineNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, contractSnapshot(name, "Idle")))

		err := store.Delete(ctx, name)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrMachineNotFound, "Load after Delete should return ErrMachineNotFound")

		assert.NoError(t, store.Delete(ctx, name), "Deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := name + "-1"
		id2 := name + "-2"
		require.NoError(t, store.Save(ctx, id1, contractSnapshot(id1, "Idle")))
		require.NoError(t, store.Save(ctx, id2, contractSnapshot(id2, "Idle")))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id1)
		assert.Contains(t, names, id2)
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, contractSnapshot(name, "Idle")))

		require.NoError(t, store.Clear(ctx))

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, names)

		_, err = store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrMachineNotFound)
	})
}
