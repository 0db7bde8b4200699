package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/fsmview/internal/presentation/tui"
)

// ErrFindings is returned by Validate when at least one snapshot has diagnostics.
var ErrFindings = errors.New("snapshots have findings")

// Validate checks snapshot files and writes a markdown report.
// render, when set, formats the markdown for the terminal.
func (r *Runner) Validate(ctx context.Context, paths []string, render func(string) (string, error)) error {
	if len(paths) == 0 {
		return fmt.Errorf("no snapshot files given")
	}

	reports := make([]tui.Report, 0, len(paths))
	findings := 0
	for _, path := range paths {
		snap, err := LoadSnapshot(path, r.Stdin)
		if err != nil {
			return err
		}
		res := r.Viewer.Build(ctx, snap)
		findings += len(res.Diagnostics)
		reports = append(reports, tui.Report{
			Source:      path,
			Machine:     res.Graph.Machine,
			Nodes:       len(res.Graph.Nodes),
			Edges:       len(res.Graph.Edges),
			Diagnostics: res.Diagnostics,
		})
	}

	md := tui.Markdown(reports)
	if render != nil {
		out, err := render(md)
		if err != nil {
			r.Logger.Warn("markdown rendering failed, printing raw", "err", err)
		} else {
			md = out
		}
	}
	fmt.Fprint(r.Stdout, md)

	if findings > 0 {
		return fmt.Errorf("%w: %d", ErrFindings, findings)
	}
	return nil
}
