package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/fsmview/internal/presentation/export"
)

var extensions = map[string]string{
	export.FormatJSON:      ".json",
	export.FormatCytoscape: ".cytoscape.json",
	export.FormatMermaid:   ".mmd",
	export.FormatDOT:       ".dot",
	export.FormatD2:        ".d2",
	export.FormatSVG:       ".svg",
}

// RenderOptions selects the inputs and output of Render.
type RenderOptions struct {
	Paths  []string
	Format string
	// Out is a file for a single input, or a directory for several.
	// Empty writes to stdout.
	Out string
}

// Render converts every snapshot file to the requested format.
func (r *Runner) Render(ctx context.Context, opts RenderOptions) error {
	if len(opts.Paths) == 0 {
		return fmt.Errorf("no snapshot files given")
	}
	if _, err := r.Formats.Lookup(opts.Format); err != nil {
		return err
	}

	for _, path := range opts.Paths {
		if err := r.renderOne(ctx, path, opts); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) renderOne(ctx context.Context, path string, opts RenderOptions) error {
	snap, err := LoadSnapshot(path, r.Stdin)
	if err != nil {
		return err
	}

	res := r.Viewer.Build(ctx, snap)
	for _, d := range res.Diagnostics {
		r.Logger.Warn("snapshot finding", "file", path, "code", d.Code(), "err", d)
	}

	out, _, err := r.Formats.Render(ctx, opts.Format, res)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if opts.Out == "" {
		if _, err := r.Stdout.Write(out); err != nil {
			return err
		}
		if len(out) > 0 && out[len(out)-1] != '\n' {
			fmt.Fprintln(r.Stdout)
		}
		return nil
	}

	target := opts.Out
	if len(opts.Paths) > 1 {
		if err := os.MkdirAll(opts.Out, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		name := res.Graph.Machine
		if name == "" {
			name = filepath.Base(path)
		}
		target = filepath.Join(opts.Out, name+extensions[opts.Format])
	}
	if err := os.WriteFile(target, out, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	r.Logger.Info("graph written", "file", target, "format", opts.Format)
	return nil
}
