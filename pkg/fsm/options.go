package fsm

import (
	"io"
	"log/slog"
)

// Option configures BuildGraph.
type Option func(*builder)

// WithLogger sets the structured logger used for debug output and findings.
func WithLogger(logger *slog.Logger) Option {
	return func(b *builder) {
		b.logger = logger
	}
}

// WithDanglingEdges controls whether edges whose target is not a rendered node
// are kept. They are kept by default so every outcome has exactly one edge;
// dropping them is useful for surfaces that reject unknown endpoints.
func WithDanglingEdges(keep bool) Option {
	return func(b *builder) {
		b.keepDangling = keep
	}
}

// WithValidation toggles the structural checks run before building.
func WithValidation(enabled bool) Option {
	return func(b *builder) {
		b.validate = enabled
	}
}

func defaultBuilder() *builder {
	return &builder{
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		keepDangling: true,
		validate:     true,
	}
}
