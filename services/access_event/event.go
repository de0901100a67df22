package access_event

import (
	accessModel "visit-access/models/access"

	"gorm.io/gorm"
)

// SnapshotAccessToEvent writes a full snapshot of an Access row into
// AccessEvent with the given event type. Call inside the same transaction
// that mutated the row so the history never diverges from the state.
func SnapshotAccessToEvent(tx *gorm.DB, a *accessModel.Access, eventType string, actor string) error {
	ev := accessModel.AccessEvent{
		AccessID:      a.ID,
		Kind:          a.Kind,
		Outcome:       a.Outcome,
		Reason:        a.Reason,
		HousingUnitID: a.HousingUnitID,
		ResidentID:    a.ResidentID,
		VisitorName:   a.VisitorName,
		Note:          a.Note,
		EventType:     eventType,
		CreatedBy:     actor,
	}

	return tx.Create(&ev).Error
}
