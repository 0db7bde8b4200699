package fsmview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/fsmview/pkg/adapters/memory"
	"github.com/aretw0/fsmview/pkg/domain"
	"github.com/aretw0/fsmview/pkg/fsm"
	"github.com/aretw0/fsmview/pkg/ports"
)

// AllMachines is the selection entry that stands for every stored machine.
const AllMachines = domain.AllMachines

// DefaultTopic is the channel name snapshots are published on.
const DefaultTopic = "/fsm_viewer"

const graphConcurrency = 8

// Viewer is the high-level entry point of the library.
// It builds graphs from snapshots and keeps the latest snapshot of each machine.
type Viewer struct {
	store     ports.SnapshotStore
	buildOpts []fsm.Option
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Viewer.
type Option func(*Viewer)

// WithStore sets the snapshot store. The default keeps snapshots in memory.
func WithStore(store ports.SnapshotStore) Option {
	return func(v *Viewer) {
		v.store = store
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Viewer) {
		v.logger = logger
	}
}

// WithBuildOptions appends options passed to every graph build.
func WithBuildOptions(opts ...fsm.Option) Option {
	return func(v *Viewer) {
		v.buildOpts = append(v.buildOpts, opts...)
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(v *Viewer) {
		v.hooks = hooks
	}
}

// New creates a Viewer.
func New(opts ...Option) *Viewer {
	v := &Viewer{}
	for _, opt := range opts {
		opt(v)
	}
	if v.store == nil {
		v.store = memory.NewStore()
	}
	if v.logger == nil {
		v.logger = slog.New(slog.DiscardHandler)
	}
	return v
}

// Build converts a snapshot into a graph without storing it.
func (v *Viewer) Build(ctx context.Context, snap *domain.Snapshot) *fsm.Result {
	start := time.Now()
	opts := append([]fsm.Option{fsm.WithLogger(v.logger)}, v.buildOpts...)
	res := fsm.BuildGraph(snap, opts...)

	if v.hooks.OnBuild != nil {
		v.hooks.OnBuild(ctx, &domain.BuildEvent{
			EventBase: domain.EventBase{
				Timestamp: start,
				Type:      domain.EventGraphBuilt,
				Machine:   res.Graph.Machine,
			},
			Nodes:       len(res.Graph.Nodes),
			Edges:       len(res.Graph.Edges),
			Diagnostics: res.Diagnostics,
			Duration:    time.Since(start),
		})
	}
	return res
}

// IngestResult reports what happened to an ingested snapshot.
type IngestResult struct {
	Name        string             `json:"name"`
	Replaced    bool               `json:"replaced"`
	Diagnostics domain.Diagnostics `json:"diagnostics"`
}

// Ingest stores a snapshot under its root name, replacing any previous
// snapshot of the same machine. Structural findings do not prevent storage.
func (v *Viewer) Ingest(ctx context.Context, snap *domain.Snapshot) (*IngestResult, error) {
	name := snap.Name()
	if name == "" {
		return nil, fmt.Errorf("%w: root record has no name", domain.ErrMalformedSnapshot)
	}
	if name == AllMachines {
		return nil, fmt.Errorf("%w: machine name %q is reserved", domain.ErrMalformedSnapshot, AllMachines)
	}

	res := v.Build(ctx, snap)

	_, err := v.store.Load(ctx, name)
	replaced := err == nil
	if err != nil && !errors.Is(err, domain.ErrMachineNotFound) {
		return nil, fmt.Errorf("failed to look up machine %s: %w", name, err)
	}

	if err := v.store.Save(ctx, name, snap); err != nil {
		return nil, fmt.Errorf("failed to save machine %s: %w", name, err)
	}

	v.logger.Debug("snapshot ingested", "machine", name, "replaced", replaced, "diagnostics", len(res.Diagnostics))
	if v.hooks.OnIngest != nil {
		v.hooks.OnIngest(ctx, &domain.MachineEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventSnapshotIngested, Machine: name},
			Replaced:  replaced,
		})
	}

	diags := res.Diagnostics
	if diags == nil {
		diags = domain.Diagnostics{}
	}
	return &IngestResult{Name: name, Replaced: replaced, Diagnostics: diags}, nil
}

// Machines returns the names of the stored machines, sorted.
func (v *Viewer) Machines(ctx context.Context) ([]string, error) {
	names, err := v.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list machines: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	sortNames(names)
	return names, nil
}

// Selection returns the entries a user can pick from: every machine name
// plus AllMachines, sorted together.
func (v *Viewer) Selection(ctx context.Context) ([]string, error) {
	names, err := v.Machines(ctx)
	if err != nil {
		return nil, err
	}
	names = append(names, AllMachines)
	sortNames(names)
	return names, nil
}

// sortNames orders case-insensitively, falling back to byte order on ties.
func sortNames(names []string) {
	sort.Slice(names, func(i, j int) bool {
		a, b := strings.ToLower(names[i]), strings.ToLower(names[j])
		if a != b {
			return a < b
		}
		return names[i] < names[j]
	})
}

// Snapshot returns the stored snapshot of a machine.
func (v *Viewer) Snapshot(ctx context.Context, name string) (*domain.Snapshot, error) {
	return v.store.Load(ctx, name)
}

// Graph builds the graph of a stored machine.
func (v *Viewer) Graph(ctx context.Context, name string) (*fsm.Result, error) {
	snap, err := v.store.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return v.Build(ctx, snap), nil
}

// Graphs builds the graphs for a selection: one machine by name, or every
// stored machine in name order for AllMachines.
func (v *Viewer) Graphs(ctx context.Context, selection string) ([]*fsm.Result, error) {
	if selection != AllMachines {
		res, err := v.Graph(ctx, selection)
		if err != nil {
			return nil, err
		}
		return []*fsm.Result{res}, nil
	}

	names, err := v.Machines(ctx)
	if err != nil {
		return nil, err
	}

	// Each name costs a store round trip; load them concurrently and keep
	// the name order in the result.
	slots := make([]*fsm.Result, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(graphConcurrency)
	for i, name := range names {
		g.Go(func() error {
			res, err := v.Graph(gctx, name)
			if errors.Is(err, domain.ErrMachineNotFound) {
				// Removed or expired between List and Load.
				return nil
			}
			if err != nil {
				return err
			}
			slots[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]*fsm.Result, 0, len(slots))
	for _, res := range slots {
		if res != nil {
			results = append(results, res)
		}
	}
	return results, nil
}

// ActiveState is the resolved active leaf of a machine.
type ActiveState struct {
	Machine string   `json:"machine"`
	ID      int      `json:"id"`
	NodeID  string   `json:"node_id"`
	Path    []string `json:"path"`
}

// Active resolves the active leaf of a snapshot and the names of the states
// leading to it from the root.
func (v *Viewer) Active(snap *domain.Snapshot) (*ActiveState, error) {
	m, _ := fsm.Index(snap)
	path, err := m.ActivePath()
	if err != nil {
		return nil, err
	}

	leaf := path[len(path)-1]
	names := make([]string, len(path))
	for i, st := range path {
		names[i] = st.Name
	}
	return &ActiveState{
		Machine: m.Name,
		ID:      leaf.ID,
		NodeID:  fsm.NodeID(m.Name, leaf.ID),
		Path:    names,
	}, nil
}

// ActiveOf resolves the active leaf of a stored machine.
func (v *Viewer) ActiveOf(ctx context.Context, name string) (*ActiveState, error) {
	snap, err := v.store.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return v.Active(snap)
}

// Remove forgets a machine.
func (v *Viewer) Remove(ctx context.Context, name string) error {
	if err := v.store.Delete(ctx, name); err != nil {
		return fmt.Errorf("failed to remove machine %s: %w", name, err)
	}
	if v.hooks.OnRemove != nil {
		v.hooks.OnRemove(ctx, &domain.MachineEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventMachineRemoved, Machine: name},
		})
	}
	return nil
}

// Clear forgets every machine. Hooks see a single removal of AllMachines.
func (v *Viewer) Clear(ctx context.Context) error {
	if err := v.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear machines: %w", err)
	}
	v.logger.Debug("machines cleared")
	if v.hooks.OnRemove != nil {
		v.hooks.OnRemove(ctx, &domain.MachineEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventMachineRemoved, Machine: AllMachines},
		})
	}
	return nil
}
