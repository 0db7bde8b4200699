/*
Package fsmview turns snapshots of hierarchical state machines into graphs.

A snapshot is an ordered list of state records describing one machine at one
instant: record 0 is the root, composite records hold a nested machine and
point at their active child, and every record declares its outcomes and the
transitions they trigger. The Viewer flattens a snapshot into nodes and edges
ready for a layout engine, resolves the active leaf, and keeps the latest
snapshot of every machine it has seen.

# Usage

	v := fsmview.New(fsmview.WithLogger(logger))

	res, err := v.Ingest(ctx, snap)
	if err != nil {
		return err
	}
	for _, d := range res.Diagnostics {
		log.Println(d)
	}

	graphs, err := v.Graphs(ctx, fsmview.AllMachines)

Building never fails: structural problems such as dangling transitions or a
broken chain of current states are reported as diagnostics next to a
best-effort graph. Use pkg/fsm directly for the stateless transformation and
pkg/adapters for Redis storage, the HTTP service and the MCP server.
*/
package fsmview
