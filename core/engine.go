// Package core implements the request-arbitration and item-state-transition
// engine: it validates borrow/return requests, resolves competing requests
// with a single winner, and mutates item status with a paired audit record.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"Gin_postgres_redis_material_tracker/models"
)

type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine { return &Engine{store: store} }

type CreateItemInput struct {
	Material    string
	Description string
	Serial      string
}

type UpdateItemInput struct {
	Material    *string
	Description *string
}

// CreateItem registers a new item as available. Admin/manager only.
func (e *Engine) CreateItem(ctx context.Context, actor Actor, in CreateItemInput) (*models.Item, error) {
	if err := e.gate(actor, true); err != nil {
		return nil, err
	}
	if in.Material == "" || in.Serial == "" {
		return nil, fmt.Errorf("%w: material and serial are required", ErrInvalidState)
	}
	it := &models.Item{
		ID:        uuid.NewString(),
		Serial:    in.Serial,
		Material:  in.Material,
		Status:    models.StatusAvailable,
		ChangedBy: &actor.ID,
	}
	if in.Description != "" {
		it.Description = in.Description
	}
	err := e.store.Atomically(ctx, func(tx Store) error {
		if err := tx.CreateItem(ctx, it); err != nil {
			if errors.Is(err, ErrDuplicateSerial) {
				return err
			}
			return storagef(err, "create item")
		}
		return e.append(ctx, tx, it.ID, models.ActionCreated, actor.ID,
			fmt.Sprintf("created %q (serial %s)", it.Material, it.Serial),
			nil, &it.Status)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("item_id", it.ID).Str("serial", it.Serial).Str("actor", actor.ID).Msg("item created")
	return it, nil
}

// UpdateItem edits material/description. Status is never touched here.
func (e *Engine) UpdateItem(ctx context.Context, actor Actor, itemID string, in UpdateItemInput) (*models.Item, error) {
	if err := e.gate(actor, true); err != nil {
		return nil, err
	}
	patch := map[string]any{}
	if in.Material != nil {
		patch["material"] = *in.Material
	}
	if in.Description != nil {
		patch["description"] = *in.Description
	}
	var out *models.Item
	err := e.store.Atomically(ctx, func(tx Store) error {
		it, err := tx.LockItemByID(ctx, itemID)
		if err != nil {
			return e.loadErr(err, "load item")
		}
		out, err = tx.UpdateItemFields(ctx, it.ID, patch, actor.ID)
		if err != nil {
			return e.loadErr(err, "update item")
		}
		return e.append(ctx, tx, it.ID, models.ActionEdited, actor.ID,
			"item details edited", &it.Status, &it.Status)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitRequest queues a borrow ("use") or return request. Requesting never
// mutates item status; only approval does.
func (e *Engine) SubmitRequest(ctx context.Context, actor Actor, itemID, reqType string) (*models.PendingRequest, error) {
	if err := e.gate(actor, false); err != nil {
		return nil, err
	}
	if reqType != models.RequestTypeUse && reqType != models.RequestTypeReturn {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRequestType, reqType)
	}
	req := &models.PendingRequest{
		ID:          uuid.NewString(),
		ItemID:      itemID,
		Type:        reqType,
		RequestedBy: actor.ID,
		RequestedAt: time.Now().UTC(),
	}
	err := e.store.Atomically(ctx, func(tx Store) error {
		it, err := tx.LockItemByID(ctx, itemID)
		if err != nil {
			return e.loadErr(err, "load item")
		}
		if it.IsArchived() {
			return fmt.Errorf("%w: item is archived", ErrInvalidState)
		}
		switch reqType {
		case models.RequestTypeUse:
			if it.Status != models.StatusAvailable {
				return fmt.Errorf("%w: item is not available", ErrInvalidState)
			}
		case models.RequestTypeReturn:
			if !it.IsUsed() || it.LastUsedBy == nil || *it.LastUsedBy != actor.ID {
				return ErrNotAuthorizedForReturn
			}
		}
		dup, err := tx.HasOpenRequest(ctx, itemID, actor.ID, reqType)
		if err != nil {
			return storagef(err, "check open requests")
		}
		if dup {
			return ErrDuplicateRequest
		}
		if err := tx.EnqueueRequest(ctx, req); err != nil {
			if errors.Is(err, ErrDuplicateRequest) {
				return err
			}
			return storagef(err, "enqueue request")
		}
		action := models.ActionRequestedBorrow
		if reqType == models.RequestTypeReturn {
			action = models.ActionRequestedReturn
		}
		return e.append(ctx, tx, itemID, action, actor.ID,
			fmt.Sprintf("%s requested by %s", reqType, e.displayName(ctx, tx, actor.ID)),
			&it.Status, &it.Status)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("request_id", req.ID).Str("item_id", itemID).
		Str("type", reqType).Str("requested_by", actor.ID).Msg("request submitted")
	return req, nil
}

// ApproveRequest resolves every open request of the target item in one
// transaction: the chosen request wins, the item transitions, and all other
// open requests lose with a rejected audit entry each. The approver's choice
// is authoritative; there is no FIFO among competitors.
func (e *Engine) ApproveRequest(ctx context.Context, actor Actor, requestID string) error {
	if err := e.gate(actor, true); err != nil {
		return err
	}
	err := e.store.Atomically(ctx, func(tx Store) error {
		req, err := tx.FindRequestByID(ctx, requestID)
		if err != nil {
			return e.loadErr(err, "load request")
		}
		it, err := tx.LockItemByID(ctx, req.ItemID)
		if err != nil {
			return e.loadErr(err, "load item")
		}
		// The item lock may have been held by a concurrent approval that
		// already cleared the queue; re-check under the lock.
		if _, err := tx.FindRequestByID(ctx, requestID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return ErrRequestNoLongerPending
			}
			return storagef(err, "recheck request")
		}
		// Archival rejects and clears the queue, so a request still pointing
		// at an archived item is stale imported data. Approving it would pull
		// the item out of archive; only Restore may do that.
		if it.IsArchived() {
			return ErrRequestNoLongerPending
		}

		newStatus := models.StatusAvailable
		var lastUsedBy *string
		winnerAction := models.ActionReturned
		if req.Type == models.RequestTypeUse {
			newStatus = models.StatusUsed
			lastUsedBy = &req.RequestedBy
			winnerAction = models.ActionBorrowed
		}
		prev := it.Status

		if _, err := tx.TransitionItemStatus(ctx, it.ID, prev, newStatus, actor.ID, lastUsedBy, nil); err != nil {
			if errors.Is(err, ErrStatusConflict) {
				return ErrRequestNoLongerPending
			}
			return e.loadErr(err, "transition item")
		}

		winnerName := e.displayName(ctx, tx, req.RequestedBy)
		if err := e.append(ctx, tx, it.ID, winnerAction, actor.ID,
			fmt.Sprintf("%s request by %s approved", req.Type, winnerName),
			&prev, &newStatus); err != nil {
			return err
		}

		// Every other open request of this item loses, regardless of type.
		open, err := tx.ListOpenRequestsForItem(ctx, it.ID)
		if err != nil {
			return storagef(err, "list open requests")
		}
		for _, loser := range open {
			if loser.ID == req.ID {
				continue
			}
			details := fmt.Sprintf("%s request by %s rejected: %s request by %s was approved",
				loser.Type, e.displayName(ctx, tx, loser.RequestedBy), req.Type, winnerName)
			if err := e.append(ctx, tx, it.ID, models.ActionRejected, actor.ID,
				details, &newStatus, &newStatus); err != nil {
				return err
			}
		}
		if err := tx.RemoveAllRequestsForItem(ctx, it.ID); err != nil {
			return storagef(err, "clear request queue")
		}

		log.Info().Str("request_id", req.ID).Str("item_id", it.ID).
			Str("approved_by", actor.ID).Str("new_status", newStatus).
			Int("rejected", len(open)-1).Msg("request approved")
		return nil
	})
	return err
}

// RejectRequest removes a single request. Item status is never touched and
// other open requests for the item stay queued.
func (e *Engine) RejectRequest(ctx context.Context, actor Actor, requestID string) error {
	if err := e.gate(actor, true); err != nil {
		return err
	}
	return e.store.Atomically(ctx, func(tx Store) error {
		req, err := tx.FindRequestByID(ctx, requestID)
		if err != nil {
			return e.loadErr(err, "load request")
		}
		it, err := tx.LockItemByID(ctx, req.ItemID)
		if err != nil {
			return e.loadErr(err, "load item")
		}
		details := fmt.Sprintf("%s request by %s rejected",
			req.Type, e.displayName(ctx, tx, req.RequestedBy))
		if err := e.append(ctx, tx, it.ID, models.ActionRejected, actor.ID,
			details, &it.Status, &it.Status); err != nil {
			return err
		}
		if err := tx.RemoveRequest(ctx, req.ID); err != nil {
			return storagef(err, "remove request")
		}
		log.Info().Str("request_id", req.ID).Str("item_id", it.ID).
			Str("rejected_by", actor.ID).Msg("request rejected")
		return nil
	})
}

// Archive retires an item. An item currently in use cannot be archived; the
// caller must wait for the return. Archived is terminal except for Restore,
// so every open request of the item is rejected and cleared in the same
// transaction; none may win later.
func (e *Engine) Archive(ctx context.Context, actor Actor, itemID, reason string) (*models.Item, error) {
	if err := e.gate(actor, true); err != nil {
		return nil, err
	}
	var out *models.Item
	err := e.store.Atomically(ctx, func(tx Store) error {
		it, err := tx.LockItemByID(ctx, itemID)
		if err != nil {
			return e.loadErr(err, "load item")
		}
		if it.IsUsed() {
			return fmt.Errorf("%w: item is in use", ErrInvalidState)
		}
		if it.IsArchived() {
			return fmt.Errorf("%w: item is already archived", ErrInvalidState)
		}
		prev := it.Status
		archived := models.StatusArchived
		out, err = tx.TransitionItemStatus(ctx, it.ID, prev, archived, actor.ID, nil, &reason)
		if err != nil {
			return e.loadErr(err, "archive item")
		}
		if err := e.append(ctx, tx, it.ID, models.ActionArchived, actor.ID, reason, &prev, &archived); err != nil {
			return err
		}
		open, err := tx.ListOpenRequestsForItem(ctx, it.ID)
		if err != nil {
			return storagef(err, "list open requests")
		}
		for _, loser := range open {
			details := fmt.Sprintf("%s request by %s rejected: item archived",
				loser.Type, e.displayName(ctx, tx, loser.RequestedBy))
			if err := e.append(ctx, tx, it.ID, models.ActionRejected, actor.ID,
				details, &archived, &archived); err != nil {
				return err
			}
		}
		if err := tx.RemoveAllRequestsForItem(ctx, it.ID); err != nil {
			return storagef(err, "clear request queue")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("item_id", itemID).Str("actor", actor.ID).Str("reason", reason).Msg("item archived")
	return out, nil
}

// Restore brings an archived item back to available, clearing borrower and
// archive metadata. This is the only transition out of archived.
func (e *Engine) Restore(ctx context.Context, actor Actor, itemID string) (*models.Item, error) {
	if err := e.gate(actor, true); err != nil {
		return nil, err
	}
	var out *models.Item
	err := e.store.Atomically(ctx, func(tx Store) error {
		it, err := tx.LockItemByID(ctx, itemID)
		if err != nil {
			return e.loadErr(err, "load item")
		}
		if !it.IsArchived() {
			return fmt.Errorf("%w: item is not archived", ErrInvalidState)
		}
		archived := models.StatusArchived
		available := models.StatusAvailable
		out, err = tx.TransitionItemStatus(ctx, it.ID, archived, available, actor.ID, nil, nil)
		if err != nil {
			return e.loadErr(err, "restore item")
		}
		return e.append(ctx, tx, it.ID, models.ActionRestored, actor.ID,
			"item restored from archive", &archived, &available)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("item_id", itemID).Str("actor", actor.ID).Msg("item restored")
	return out, nil
}

// ListHistory returns the item's audit trail, most recent first.
func (e *Engine) ListHistory(ctx context.Context, actor Actor, itemID string) ([]models.HistoryEntry, error) {
	if err := e.gate(actor, false); err != nil {
		return nil, err
	}
	if _, err := e.store.FindItemByID(ctx, itemID); err != nil {
		return nil, e.loadErr(err, "load item")
	}
	hs, err := e.store.ListHistoryForItem(ctx, itemID)
	if err != nil {
		return nil, storagef(err, "list history")
	}
	return hs, nil
}

// ListPendingForItem returns the item's open requests.
func (e *Engine) ListPendingForItem(ctx context.Context, actor Actor, itemID string) ([]models.PendingRequest, error) {
	if err := e.gate(actor, false); err != nil {
		return nil, err
	}
	rs, err := e.store.ListOpenRequestsForItem(ctx, itemID)
	if err != nil {
		return nil, storagef(err, "list open requests")
	}
	return rs, nil
}

// gate rejects deactivated actors on every operation, and non-arbitrating
// roles on operations that mutate items or decide requests.
func (e *Engine) gate(actor Actor, arbitrate bool) error {
	if actor.ID == "" || !actor.active() {
		return ErrUnauthorized
	}
	if arbitrate && !actor.canArbitrate() {
		return fmt.Errorf("%w: role %s may not perform this action", ErrUnauthorized, actor.Role)
	}
	return nil
}

func (e *Engine) append(ctx context.Context, tx Store, itemID, action, performedBy, details string, prev, next *string) error {
	entry := &models.HistoryEntry{
		ID:             uuid.NewString(),
		ItemID:         itemID,
		Action:         action,
		PerformedBy:    performedBy,
		Details:        details,
		PreviousStatus: copyStatus(prev),
		NewStatus:      copyStatus(next),
	}
	if err := tx.AppendHistory(ctx, entry); err != nil {
		return storagef(err, "append history")
	}
	return nil
}

// loadErr keeps sentinel errors intact and wraps everything else as storage.
func (e *Engine) loadErr(err error, msg string) error {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrStatusConflict),
		errors.Is(err, ErrDuplicateSerial):
		return err
	default:
		return storagef(err, msg)
	}
}

func (e *Engine) displayName(ctx context.Context, tx Store, userID string) string {
	u, err := tx.FindUserByID(ctx, userID)
	if err != nil {
		return userID
	}
	return u.Username
}

// copyStatus detaches the stored pointer from the caller's variable; history
// rows must not alias mutable item state.
func copyStatus(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
