package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/fsmview/pkg/domain"
)

// Combine fans every event out to each set of hooks, in order.
func Combine(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnBuild: func(ctx context.Context, e *domain.BuildEvent) {
			for _, h := range hooks {
				if h.OnBuild != nil {
					h.OnBuild(ctx, e)
				}
			}
		},
		OnIngest: func(ctx context.Context, e *domain.MachineEvent) {
			for _, h := range hooks {
				if h.OnIngest != nil {
					h.OnIngest(ctx, e)
				}
			}
		},
		OnRemove: func(ctx context.Context, e *domain.MachineEvent) {
			for _, h := range hooks {
				if h.OnRemove != nil {
					h.OnRemove(ctx, e)
				}
			}
		},
	}
}

// LoggingHooks logs every event at Info level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnBuild: func(ctx context.Context, e *domain.BuildEvent) {
			logger.InfoContext(ctx, "graph built",
				"machine", e.Machine,
				"nodes", e.Nodes,
				"edges", e.Edges,
				"diagnostics", len(e.Diagnostics),
				"duration", e.Duration,
			)
		},
		OnIngest: func(ctx context.Context, e *domain.MachineEvent) {
			logger.InfoContext(ctx, "snapshot ingested", "machine", e.Machine, "replaced", e.Replaced)
		},
		OnRemove: func(ctx context.Context, e *domain.MachineEvent) {
			logger.InfoContext(ctx, "machine removed", "machine", e.Machine)
		},
	}
}
