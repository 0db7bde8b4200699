package fsm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/fsmview/pkg/domain"
	"github.com/aretw0/fsmview/pkg/fsm"
)

func TestResolveActiveLeaf(t *testing.T) {
	tests := []struct {
		name    string
		snap    *domain.Snapshot
		want    int
		wantErr bool
	}{
		{
			name: "Leaf Root",
			snap: &domain.Snapshot{States: []domain.StateRecord{
				{ID: 0, Name: "Idle", Parent: -1},
			}},
			want: 0,
		},
		{
			name: "Single Level",
			snap: &domain.Snapshot{States: []domain.StateRecord{
				{ID: 0, Name: "M", Parent: -1, IsFSM: true, CurrentState: 1},
				{ID: 1, Name: "Running", Parent: 0},
			}},
			want: 1,
		},
		{
			name: "Nested",
			snap: nestedSnapshot(),
			want: 4,
		},
		{
			name: "Missing Child",
			snap: &domain.Snapshot{States: []domain.StateRecord{
				{ID: 0, Name: "M", Parent: -1, IsFSM: true, CurrentState: 7},
				{ID: 1, Name: "Running", Parent: 0},
			}},
			wantErr: true,
		},
		{
			name: "Cyclic Current States",
			snap: &domain.Snapshot{States: []domain.StateRecord{
				{ID: 0, Name: "M", Parent: -1, IsFSM: true, CurrentState: 1},
				{ID: 1, Name: "A", Parent: 0, IsFSM: true, CurrentState: 2},
				{ID: 2, Name: "B", Parent: 1, IsFSM: true, CurrentState: 1},
			}},
			wantErr: true,
		},
		{
			name: "Self Reference",
			snap: &domain.Snapshot{States: []domain.StateRecord{
				{ID: 0, Name: "M", Parent: -1, IsFSM: true, CurrentState: 0},
			}},
			wantErr: true,
		},
		{
			name:    "Empty",
			snap:    &domain.Snapshot{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fsm.ResolveActiveLeaf(tt.snap)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrUnresolvedActiveState)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestActivePath(t *testing.T) {
	m, diags := fsm.Index(nestedSnapshot())
	require.Empty(t, diags)

	path, err := m.ActivePath()
	require.NoError(t, err)

	names := make([]string, len(path))
	for i, st := range path {
		names[i] = st.Name
	}
	assert.Equal(t, []string{"Demo", "Nested", "Check"}, names)
}
