package storage

import (
	"context"
	"errors"
)

// Collection keys. Each key holds one complete JSON snapshot: an array for
// the three collections, a single object for the session.
const (
	KeyUsers        = "internhub_users"
	KeyInternships  = "internhub_internships"
	KeyApplications = "internhub_applications"
	KeySession      = "internhub_session"
)

// ErrNotFound reports an absent key. First run is expected to see it for
// every key; callers fall back to their seed dataset.
var ErrNotFound = errors.New("storage: key not found")

// Adapter persists whole-collection snapshots under string keys. Save is
// expected to be atomic per key; writes are full snapshots, never deltas,
// which keeps every store mutation crash-atomic at the cost of O(collection)
// write size. Swapping adapters never changes store logic.
type Adapter interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
