// models/pending_request.go
package models

import "time"

const PendingRequestTable = "wmt_pending_requests"

// Request types.
const (
	RequestTypeUse    = "use"
	RequestTypeReturn = "return"
)

// PendingRequest is an open borrow/return request. Resolved requests are
// deleted, never flagged, so every row in the table is open. A composite
// unique index on (item_id, requested_by, type) backs the one-open-request
// rule (see db.Migrate).
type PendingRequest struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID      string    `gorm:"type:uuid;index;not null" json:"itemId"`
	Type        string    `gorm:"size:10;not null" json:"type"`
	RequestedBy string    `gorm:"type:uuid;index;not null" json:"requestedBy"`
	RequestedAt time.Time `gorm:"index;not null" json:"requestedAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (PendingRequest) TableName() string { return PendingRequestTable }
