package access

import (
	accessModel "visit-access/models/access"
)

// ResidentContact is the narrow resident view the service needs: who to
// call and how.
type ResidentContact struct {
	ResidentID    uint   `json:"residentId"`
	HousingUnitID uint   `json:"housingUnitId"`
	FirstNames    string `json:"firstNames"`
	LastNames     string `json:"lastNames"`
	Phone         string `json:"phone"`
}

// FullName joins the resident's names for the voice prompt.
func (r *ResidentContact) FullName() string {
	name := r.FirstNames
	if r.LastNames != "" {
		if name != "" {
			name += " "
		}
		name += r.LastNames
	}
	return name
}

// Store is the record read/write contract the access service consumes.
// The production implementation lives in the repository package; tests
// swap in an in-memory fake.
type Store interface {
	// GetResidentByHousingUnit resolves the current resident for a unit.
	// Returns (nil, nil) when the unit has none.
	GetResidentByHousingUnit(housingUnitID uint) (*ResidentContact, error)

	// CreateAccess persists a new access row and its creation event.
	CreateAccess(a *accessModel.Access) error

	// GetAccessByID loads a non-deleted access row, (nil, nil) when absent.
	GetAccessByID(id uint) (*accessModel.Access, error)

	// UpdateOutcome writes outcome, note and actor in one atomic row
	// update and snapshots the change. Returns (nil, nil) when the row is
	// missing or soft-deleted.
	UpdateOutcome(id uint, outcome accessModel.Outcome, note, actor string) (*accessModel.Access, error)

	// SupportsPendingOutcome reports whether the physical schema accepts
	// the pending outcome value.
	SupportsPendingOutcome() bool
}
