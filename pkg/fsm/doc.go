/*
Package fsm transforms hierarchical state machine snapshots into flat graphs.

A snapshot is an arena of records linked by parent ids. Index normalizes it
once into lookup tables; ResolveActiveLeaf follows the current-state chain
down to the executing leaf; BuildGraph emits one node per state, one anchor
node per outcome of every composite state, and one edge per declared outcome.

Edge targets are resolved by an ordered strategy:

  - an explicit transition to a sibling state, matched by name;
  - the same-named (or transition-named) outcome of the parent machine;
  - the outcome of the root machine.

Nothing in this package fails hard on malformed input. Findings are returned
as domain.Diagnostics next to a best-effort graph.
*/
package fsm
