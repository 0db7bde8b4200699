/*
Package domain contains the core models of the fsmview transformation.

It defines the wire snapshot of a hierarchical state machine, the normalized
state records derived from it, and the flat graph handed to layout and
rendering surfaces. This package is kept pure and free of I/O or persistence.

# Key Entities

  - Snapshot: The message describing one machine at one instant (record 0 is the root).
  - State: A normalized record whose Kind is either Simple or Composite.
  - Graph: The flat node/edge collection produced for rendering.
  - Diagnostic: A non-fatal finding about the snapshot or the resulting graph.
*/
package domain
