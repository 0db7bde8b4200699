package cli

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/fsmview/internal/presentation/tui"
	"github.com/aretw0/fsmview/pkg/fsm"
)

// Active prints the active leaf of a snapshot file and its path from the root.
func (r *Runner) Active(path string, asJSON bool) error {
	snap, err := LoadSnapshot(path, r.Stdin)
	if err != nil {
		return err
	}

	if asJSON {
		active, err := r.Viewer.Active(snap)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(r.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(active)
	}

	m, _ := fsm.Index(snap)
	states, err := m.ActivePath()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	tui.PrintActivePath(r.Stdout, states)
	return nil
}
