package access

import (
	"time"
)

// AccessEvent is an append-only snapshot of an Access row, written whenever
// the request is created or its outcome changes.
type AccessEvent struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Many events per access, so no unique constraint here.
	AccessID uint `gorm:"not null;index" json:"access_id"`

	Kind    AccessKind `gorm:"type:varchar(50);not null" json:"kind"`
	Outcome Outcome    `gorm:"type:varchar(30);not null" json:"outcome"`
	Reason  string     `gorm:"type:text;not null" json:"reason"`

	HousingUnitID uint    `gorm:"not null" json:"housing_unit_id"`
	ResidentID    *uint   `json:"resident_id,omitempty"`
	VisitorName   *string `gorm:"type:varchar(255)" json:"visitor_name,omitempty"`
	Note          *string `gorm:"type:text" json:"note,omitempty"`

	// created, twilio_decision, ...
	EventType string `gorm:"type:varchar(50);not null;index" json:"event_type"`

	CreatedBy string    `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
