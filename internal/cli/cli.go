// Package cli implements the fsmview commands on top of the library.
package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/fsmview"
	"github.com/aretw0/fsmview/internal/presentation/export"
	"github.com/aretw0/fsmview/pkg/registry"
)

// Runner executes CLI commands against a Viewer with explicit IO.
type Runner struct {
	Viewer  *fsmview.Viewer
	Formats *registry.Registry
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
}

// NewRunner creates a Runner on the process standard streams.
func NewRunner(viewer *fsmview.Viewer, formats *registry.Registry, logger *slog.Logger) *Runner {
	if formats == nil {
		formats = export.Default()
	}
	return &Runner{
		Viewer:  viewer,
		Formats: formats,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Logger:  logger,
	}
}
