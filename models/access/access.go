package access

import (
	"time"

	"visit-access/models/housing"
)

// Access represents one access request for a visitor, from creation in a
// pending state until a resident decision lands.
type Access struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	Kind    AccessKind `gorm:"type:varchar(50);not null" json:"kind"`
	Outcome Outcome    `gorm:"type:varchar(30);not null" json:"outcome"`
	Reason  string     `gorm:"type:text;not null" json:"reason"`

	HousingUnitID uint                `gorm:"not null;index" json:"housing_unit_id"`
	HousingUnit   housing.HousingUnit `gorm:"foreignKey:HousingUnitID" json:"housing_unit"`

	ResidentID *uint             `gorm:"index" json:"resident_id,omitempty"`
	Resident   *housing.Resident `gorm:"foreignKey:ResidentID" json:"resident,omitempty"`

	VisitorName   *string `gorm:"type:varchar(255)" json:"visitor_name,omitempty"`
	PlateDetected *string `gorm:"type:varchar(20)" json:"plate_detected,omitempty"`
	BiometricsOK  *bool   `json:"biometrics_ok,omitempty"`
	PlateOK       *bool   `json:"plate_ok,omitempty"`
	Attempts      int     `gorm:"default:0" json:"attempts"`

	// Note is a legacy free-text column reused as a key=value side channel
	// for decision metadata the schema has no columns for.
	Note *string `gorm:"type:text" json:"note,omitempty"`

	CreatedBy string     `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedBy string     `gorm:"type:varchar(255)" json:"updated_by,omitempty"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}
