/*
Package ports defines the driven ports (interfaces) of fsmview.

These interfaces decouple the registry of machines from the storage backend,
allowing the viewer to keep snapshots in memory or share them through Redis.

# Key Interfaces

  - SnapshotStore: Persists the latest snapshot of every machine, keyed by machine name.
*/
package ports
