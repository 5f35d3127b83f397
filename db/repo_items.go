// db/repo_items.go
package db

import (
	"Gin_postgres_redis_material_tracker/core"
	"Gin_postgres_redis_material_tracker/models"
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Item store

func (r *Repo) CreateItem(ctx context.Context, it *models.Item) error {
	if err := r.DB.WithContext(ctx).Create(it).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return core.ErrDuplicateSerial
		}
		return err
	}
	return nil
}

func (r *Repo) FindItemByID(ctx context.Context, id string) (*models.Item, error) {
	var it models.Item
	if err := r.DB.WithContext(ctx).First(&it, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &it, nil
}

// LockItemByID takes a FOR UPDATE lock on the item row. Inside a transaction
// this serializes all multi-step operations on one item; concurrent approvers
// queue up here and the second one sees the first one's committed state.
func (r *Repo) LockItemByID(ctx context.Context, id string) (*models.Item, error) {
	var it models.Item
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&it, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &it, nil
}

func (r *Repo) UpdateItemFields(ctx context.Context, id string, patch map[string]any, changedBy string) (*models.Item, error) {
	if len(patch) > 0 {
		upd := map[string]any{"changed_by": changedBy, "updated_at": time.Now().UTC()}
		for k, v := range patch {
			upd[k] = v
		}
		res := r.DB.WithContext(ctx).Model(&models.Item{}).
			Where("id = ?", id).
			Updates(upd)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, core.ErrNotFound
		}
	}
	return r.FindItemByID(ctx, id)
}

// TransitionItemStatus is the compare-and-swap at the heart of arbitration:
// the UPDATE only lands when the row still carries fromStatus, so of two
// concurrent approvers exactly one wins the transition.
func (r *Repo) TransitionItemStatus(ctx context.Context, id, fromStatus, toStatus, changedBy string, lastUsedBy, archivedReason *string) (*models.Item, error) {
	now := time.Now().UTC()
	upd := map[string]any{
		"status":       toStatus,
		"last_used_by": lastUsedBy,
		"changed_by":   changedBy,
		"updated_at":   now,
	}
	switch {
	case toStatus == models.StatusArchived:
		upd["archived_reason"] = archivedReason
		upd["archived_at"] = now
	case fromStatus == models.StatusArchived:
		upd["archived_reason"] = nil
		upd["archived_at"] = nil
	}

	res := r.DB.WithContext(ctx).Model(&models.Item{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(upd)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Either the id is unknown or the status moved underneath us.
		if _, err := r.FindItemByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, core.ErrStatusConflict
	}
	return r.FindItemByID(ctx, id)
}

// Read model for item listings: the item joined with the current borrower's
// username. Display-only; the write side holds identifiers exclusively.
type ItemRow struct {
	ID          string  `json:"id"`
	Serial      string  `json:"serial"`
	Material    string  `json:"material"`
	Description string  `json:"description,omitempty"`
	Status      string  `json:"status"`
	LastUsedBy  *string `json:"lastUsedBy,omitempty"`

	BorrowerUsername    *string `json:"borrowerUsername,omitempty"`
	BorrowerDisplayName *string `json:"borrowerDisplayName,omitempty"`

	ArchivedReason *string    `json:"archivedReason,omitempty"`
	ArchivedAt     *time.Time `json:"archivedAt,omitempty"`
	OpenRequests   int64      `json:"openRequests"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type ItemsQuery struct {
	Q      string // substring match on serial/material
	Status string // "", "available", "used", "archived"
	Page   int
	Size   int
}

type PagedItems struct {
	Total int64     `json:"total"`
	Items []ItemRow `json:"items"`
}

func (r *Repo) ListItemRows(ctx context.Context, q ItemsQuery) (*PagedItems, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Size <= 0 || q.Size > 200 {
		q.Size = 20
	}
	offset := (q.Page - 1) * q.Size

	db := r.DB.WithContext(ctx)

	filter := func(tx *gorm.DB) *gorm.DB {
		if s := strings.TrimSpace(q.Q); s != "" {
			pat := "%" + strings.ToLower(s) + "%"
			tx = tx.Where("LOWER(i.serial) LIKE ? OR LOWER(i.material) LIKE ?", pat, pat)
		}
		if q.Status != "" {
			tx = tx.Where("i.status = ?", q.Status)
		}
		return tx
	}

	var total int64
	if err := filter(db.Table(models.ItemTable + " i")).Count(&total).Error; err != nil {
		return nil, err
	}

	qry := db.
		Table(models.ItemTable+" i").
		Select(`
			i.id, i.serial, i.material, i.description, i.status, i.last_used_by,
			i.archived_reason, i.archived_at, i.created_at, i.updated_at,
			u.username     AS borrower_username,
			u.display_name AS borrower_display_name,
			(SELECT COUNT(*) FROM `+models.PendingRequestTable+` pr WHERE pr.item_id = i.id) AS open_requests
		`).
		Joins("LEFT JOIN " + models.UserTable + " u ON u.id = i.last_used_by")
	qry = filter(qry)

	var rows []ItemRow
	if err := qry.
		Order("i.created_at DESC").
		Offset(offset).
		Limit(q.Size).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return &PagedItems{Total: total, Items: rows}, nil
}
