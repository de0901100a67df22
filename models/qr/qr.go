package qr

import (
	"time"
)

// QRPass is a time-boxed entry pass tied to an access request.
type QRPass struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	AccessID *uint  `gorm:"index" json:"access_id,omitempty"`
	Token    string `gorm:"type:varchar(64);not null;uniqueIndex" json:"token"`

	ValidFrom  time.Time  `gorm:"not null" json:"valid_from"`
	ValidUntil time.Time  `gorm:"not null" json:"valid_until"`
	UsedAt     *time.Time `json:"used_at,omitempty"`
	State      string     `gorm:"type:varchar(20);not null;default:current" json:"state"`

	CreatedBy string     `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedBy string     `gorm:"type:varchar(255)" json:"updated_by,omitempty"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// IsCurrent reports whether the pass can still be redeemed at the given
// instant: current state, never used, inside the validity window.
func (q *QRPass) IsCurrent(at time.Time) bool {
	return q.DeletedAt == nil &&
		q.State == "current" &&
		q.UsedAt == nil &&
		!at.Before(q.ValidFrom) &&
		!at.After(q.ValidUntil)
}
