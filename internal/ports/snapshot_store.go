package ports

import "context"

// SnapshotStore persists one named document per component, rewritten in
// full on every save. Best-effort durability: callers log failures and
// move on, they never roll back in-memory state.
type SnapshotStore interface {
	// Save replaces the named document with doc.
	Save(ctx context.Context, name string, doc any) error
	// Load unmarshals the named document into out. Returns
	// domain.ErrNotFound (wrapped) when the document does not exist.
	Load(ctx context.Context, name string, out any) error
}

// Snapshot document names, one per component.
const (
	SnapshotSessions      = "sessions"
	SnapshotInterruptions = "interruptions"
	SnapshotEnvironment   = "environment"
	SnapshotTrends        = "trends"
)
