package models

import "time"

const UserTable = "wmt_users"

// Roles and account statuses. The core consumes these as given facts from the
// session gate; it never computes them.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"

	UserActive   = "active"
	UserDeactive = "deactive"
)

type User struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Username    string `gorm:"uniqueIndex;size:255;not null" json:"username"`
	DisplayName string `gorm:"size:255;not null" json:"displayName"`
	Role        string `gorm:"size:20;not null;default:'employee';index" json:"role"`
	Status      string `gorm:"size:20;not null;default:'active';index" json:"status"`

	LastLoginAt *time.Time `gorm:"index" json:"lastLoginAt,omitempty"`
	LastSeenAt  *time.Time `gorm:"index" json:"lastSeenAt,omitempty"`
	LoginCount  int64      `gorm:"not null;default:0" json:"loginCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return UserTable }

func (u *User) IsActive() bool { return u.Status == UserActive }

// CanArbitrate reports whether the user may approve/reject requests and
// create, edit, archive or restore items.
func (u *User) CanArbitrate() bool {
	return u.Role == RoleAdmin || u.Role == RoleManager
}
