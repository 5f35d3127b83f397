// models/item.go
package models

import "time"

const ItemTable = "wmt_items"

// Item lifecycle statuses. Requests never mutate status; only approval,
// archive and restore do.
const (
	StatusAvailable = "available"
	StatusUsed      = "used"
	StatusArchived  = "archived"
)

type Item struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Serial      string `gorm:"size:120;uniqueIndex;not null" json:"serial"`
	Material    string `gorm:"size:200;not null" json:"material"`
	Description string `gorm:"size:500" json:"description,omitempty"`

	Status string `gorm:"size:20;not null;default:'available';index" json:"status"`

	// LastUsedBy is set exactly while Status == used.
	LastUsedBy *string `gorm:"type:uuid;index" json:"lastUsedBy,omitempty"`
	// ChangedBy is the user whose action last touched this row.
	ChangedBy *string `gorm:"type:uuid" json:"changedBy,omitempty"`

	ArchivedReason *string    `gorm:"size:255" json:"archivedReason,omitempty"`
	ArchivedAt     *time.Time `gorm:"index" json:"archivedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Item) TableName() string { return ItemTable }

func (i *Item) IsArchived() bool { return i.Status == StatusArchived }
func (i *Item) IsUsed() bool     { return i.Status == StatusUsed }
