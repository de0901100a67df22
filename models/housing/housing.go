package housing

import (
	"strings"
	"time"
)

// HousingUnit represents one unit inside the gated community, addressed by
// block and unit number.
type HousingUnit struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Block     string     `gorm:"type:varchar(20);not null;uniqueIndex:idx_housing_block_unit" json:"block"`
	Unit      string     `gorm:"type:varchar(20);not null;uniqueIndex:idx_housing_block_unit" json:"unit"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// Resident represents a person living in a housing unit. A unit may hold
// more than one resident row over time; the active one answers calls.
type Resident struct {
	ID         uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstNames string  `gorm:"type:varchar(255);not null" json:"first_names"`
	LastNames  string  `gorm:"type:varchar(255);not null" json:"last_names"`
	Phone      *string `gorm:"type:varchar(20)" json:"phone,omitempty"`

	HousingUnitID uint        `gorm:"not null;index" json:"housing_unit_id"`
	HousingUnit   HousingUnit `gorm:"foreignKey:HousingUnitID" json:"housing_unit"`

	Status    string     `gorm:"type:varchar(20);not null;default:active" json:"status"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// FullName joins first and last names, trimming when either side is blank.
func (r *Resident) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(r.FirstNames) + " " + strings.TrimSpace(r.LastNames))
}

// IsActive reports whether this resident row is the one currently living
// in the unit.
func (r *Resident) IsActive() bool {
	switch strings.ToLower(strings.TrimSpace(r.Status)) {
	case "active", "current":
		return true
	default:
		return false
	}
}
