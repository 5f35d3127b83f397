// db/repo_history.go
package db

import (
	"Gin_postgres_redis_material_tracker/models"
	"context"
	"fmt"
)

// History ledger: durable append only, rows are never updated or deleted.

func (r *Repo) AppendHistory(ctx context.Context, entry *models.HistoryEntry) error {
	if err := r.DB.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	return nil
}

func (r *Repo) ListHistoryForItem(ctx context.Context, itemID string) ([]models.HistoryEntry, error) {
	var hs []models.HistoryEntry
	err := r.DB.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at DESC").
		Find(&hs).Error
	return hs, err
}

// UsernamesByIDs resolves performer ids for display. View assembly only; the
// ledger itself stores identifiers.
func (r *Repo) UsernamesByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}
	var users []models.User
	if err := r.DB.WithContext(ctx).
		Select("id", "username").
		Where("id IN ?", ids).
		Find(&users).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(users))
	for _, u := range users {
		out[u.ID] = u.Username
	}
	return out, nil
}
