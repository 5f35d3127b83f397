// db/repo_requests.go
package db

import (
	"Gin_postgres_redis_material_tracker/core"
	"Gin_postgres_redis_material_tracker/models"
	"context"
	"errors"

	"gorm.io/gorm"
)

// Request queue. Every row is an open request; approval deletes the whole
// partition for an item, explicit rejection deletes a single row.

func (r *Repo) FindRequestByID(ctx context.Context, id string) (*models.PendingRequest, error) {
	var req models.PendingRequest
	if err := r.DB.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

func (r *Repo) ListOpenRequestsForItem(ctx context.Context, itemID string) ([]models.PendingRequest, error) {
	var reqs []models.PendingRequest
	err := r.DB.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("requested_at ASC").
		Find(&reqs).Error
	return reqs, err
}

func (r *Repo) HasOpenRequest(ctx context.Context, itemID, userID, reqType string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.PendingRequest{}).
		Where("item_id = ? AND requested_by = ? AND type = ?", itemID, userID, reqType).
		Count(&n).Error
	return n > 0, err
}

func (r *Repo) EnqueueRequest(ctx context.Context, req *models.PendingRequest) error {
	if err := r.DB.WithContext(ctx).Create(req).Error; err != nil {
		// The composite unique index backs the one-open-request rule even
		// when two submissions race past HasOpenRequest.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return core.ErrDuplicateRequest
		}
		return err
	}
	return nil
}

func (r *Repo) RemoveAllRequestsForItem(ctx context.Context, itemID string) error {
	return r.DB.WithContext(ctx).
		Where("item_id = ?", itemID).
		Delete(&models.PendingRequest{}).Error
}

func (r *Repo) RemoveRequest(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Delete(&models.PendingRequest{ID: id}).Error
}

// ListRequestsForUser backs the "my requests" view.
func (r *Repo) ListRequestsForUser(ctx context.Context, userID string) ([]models.PendingRequest, error) {
	var reqs []models.PendingRequest
	err := r.DB.WithContext(ctx).
		Where("requested_by = ?", userID).
		Order("requested_at DESC").
		Find(&reqs).Error
	return reqs, err
}
