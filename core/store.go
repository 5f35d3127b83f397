package core

import (
	"context"

	"Gin_postgres_redis_material_tracker/models"
)

// Store is the engine's port onto the backing store. Implementations return
// the sentinel errors of this package (ErrNotFound, ErrDuplicateSerial,
// ErrDuplicateRequest, ErrStatusConflict) so the engine stays agnostic of the
// storage technology.
type Store interface {
	// Atomically runs fn inside one transaction: every store call made
	// through the Store handed to fn commits or rolls back as a unit.
	Atomically(ctx context.Context, fn func(Store) error) error

	// Item store.
	CreateItem(ctx context.Context, it *models.Item) error
	FindItemByID(ctx context.Context, id string) (*models.Item, error)
	// LockItemByID reads the item with a row lock when called inside
	// Atomically; it is the per-item serialization point.
	LockItemByID(ctx context.Context, id string) (*models.Item, error)
	UpdateItemFields(ctx context.Context, id string, patch map[string]any, changedBy string) (*models.Item, error)
	// TransitionItemStatus is the only sanctioned status mutation. The
	// update is guarded by fromStatus (compare-and-swap); a concurrent
	// change surfaces as ErrStatusConflict. lastUsedBy is written as given
	// (nil clears it). archivedReason is stamped together with archived_at
	// when toStatus is archived; both are cleared when leaving archived.
	TransitionItemStatus(ctx context.Context, id, fromStatus, toStatus, changedBy string, lastUsedBy, archivedReason *string) (*models.Item, error)

	// Request queue.
	FindRequestByID(ctx context.Context, id string) (*models.PendingRequest, error)
	ListOpenRequestsForItem(ctx context.Context, itemID string) ([]models.PendingRequest, error)
	HasOpenRequest(ctx context.Context, itemID, userID, reqType string) (bool, error)
	EnqueueRequest(ctx context.Context, req *models.PendingRequest) error
	RemoveAllRequestsForItem(ctx context.Context, itemID string) error
	RemoveRequest(ctx context.Context, id string) error

	// History ledger (append-only).
	AppendHistory(ctx context.Context, entry *models.HistoryEntry) error
	ListHistoryForItem(ctx context.Context, itemID string) ([]models.HistoryEntry, error)

	// Users, read-only for display names in audit details.
	FindUserByID(ctx context.Context, id string) (*models.User, error)
}
