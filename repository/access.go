package repository

import (
	"errors"
	"sync"
	"time"

	accessModel "visit-access/models/access"
	"visit-access/models/housing"
	accessService "visit-access/services/access"
	"visit-access/services/access_event"

	"gorm.io/gorm"
)

// AccessRepository is the GORM implementation of the access store
// contract.
type AccessRepository struct {
	db *gorm.DB

	probeOnce       sync.Once
	supportsPending bool
}

func NewAccessRepository(db *gorm.DB) *AccessRepository {
	return &AccessRepository{db: db}
}

// SupportsPendingOutcome probes once whether the accesses outcome check
// constraint knows the pending value. Legacy schemas predate it; there the
// service falls back to not_authorized as the physical initial value.
func (r *AccessRepository) SupportsPendingOutcome() bool {
	r.probeOnce.Do(func() {
		if r.db.Dialector.Name() != "postgres" {
			r.supportsPending = false
			return
		}

		var supports bool
		err := r.db.Raw(`
			SELECT EXISTS (
				SELECT 1
				FROM pg_constraint c
				JOIN pg_class t ON t.oid = c.conrelid
				WHERE t.relname = 'accesses'
				  AND c.contype = 'c'
				  AND pg_get_constraintdef(c.oid) ILIKE '%pending%'
			)
		`).Scan(&supports).Error
		if err != nil {
			// An unreadable catalog means we cannot trust the constraint;
			// fall back to the legacy value.
			supports = false
		}
		r.supportsPending = supports
	})
	return r.supportsPending
}

// GetResidentByHousingUnit resolves the resident currently answering for a
// unit: active rows first, most recently updated wins.
func (r *AccessRepository) GetResidentByHousingUnit(housingUnitID uint) (*accessService.ResidentContact, error) {
	var unit housing.HousingUnit
	err := r.db.Where("id = ? AND deleted_at IS NULL", housingUnitID).First(&unit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var residents []housing.Resident
	err = r.db.Where("housing_unit_id = ? AND deleted_at IS NULL", housingUnitID).
		Order("updated_at DESC").
		Order("id DESC").
		Find(&residents).Error
	if err != nil {
		return nil, err
	}
	if len(residents) == 0 {
		return nil, nil
	}

	// The active resident answers; a unit full of former residents falls
	// back to the most recent row.
	resident := residents[0]
	for i := range residents {
		if residents[i].IsActive() {
			resident = residents[i]
			break
		}
	}

	phone := ""
	if resident.Phone != nil {
		phone = *resident.Phone
	}
	return &accessService.ResidentContact{
		ResidentID:    resident.ID,
		HousingUnitID: resident.HousingUnitID,
		FirstNames:    resident.FirstNames,
		LastNames:     resident.LastNames,
		Phone:         phone,
	}, nil
}

// CreateAccess persists the row and its creation snapshot atomically.
func (r *AccessRepository) CreateAccess(a *accessModel.Access) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(a).Error; err != nil {
			return err
		}
		return access_event.SnapshotAccessToEvent(tx, a, "created", a.CreatedBy)
	})
}

// GetAccessByID loads a non-deleted row; (nil, nil) when absent.
func (r *AccessRepository) GetAccessByID(id uint) (*accessModel.Access, error) {
	var a accessModel.Access
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateOutcome applies outcome, note and actor in a single row update and
// snapshots the decision. (nil, nil) when the row is missing or deleted.
func (r *AccessRepository) UpdateOutcome(id uint, outcome accessModel.Outcome, note, actor string) (*accessModel.Access, error) {
	var updated *accessModel.Access
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&accessModel.Access{}).
			Where("id = ? AND deleted_at IS NULL", id).
			Updates(map[string]interface{}{
				"outcome":    outcome,
				"note":       note,
				"updated_by": actor,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		var a accessModel.Access
		if err := tx.Where("id = ?", id).First(&a).Error; err != nil {
			return err
		}
		if err := access_event.SnapshotAccessToEvent(tx, &a, "twilio_decision", actor); err != nil {
			return err
		}
		updated = &a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
