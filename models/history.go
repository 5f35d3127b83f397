// models/history.go
package models

import "time"

const HistoryTable = "wmt_histories"

// History actions. One entry per state-affecting event, including the
// rejections produced as a side effect of an approval.
const (
	ActionCreated         = "created"
	ActionEdited          = "edited"
	ActionBorrowed        = "borrowed"
	ActionReturned        = "returned"
	ActionArchived        = "archived"
	ActionRestored        = "restored"
	ActionRejected        = "rejected"
	ActionRequestedBorrow = "requested_borrow"
	ActionRequestedReturn = "requested_return"
)

// HistoryEntry is append-only: rows are never updated or deleted.
type HistoryEntry struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID      string `gorm:"type:uuid;index;not null" json:"itemId"`
	Action      string `gorm:"size:30;not null" json:"action"`
	PerformedBy string `gorm:"type:uuid;index;not null" json:"performedBy"`

	Details        string  `gorm:"size:500" json:"details,omitempty"`
	PreviousStatus *string `gorm:"size:20" json:"previousStatus,omitempty"`
	NewStatus      *string `gorm:"size:20" json:"newStatus,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (HistoryEntry) TableName() string { return HistoryTable }
