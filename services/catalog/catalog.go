package catalog

import (
	"errors"

	"visit-access/models/housing"
	"visit-access/types"
	"visit-access/utils"

	"gorm.io/gorm"
)

// Service answers the read-only housing catalog queries the guard UI
// needs before creating an access request.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// BlockUnits groups the unit numbers of one block.
type BlockUnits struct {
	Block string   `json:"block"`
	Units []string `json:"units"`
}

// HousingByBlock lists all housing units grouped by block, soft-deleted
// rows excluded.
func (s *Service) HousingByBlock() ([]BlockUnits, *types.ErrorInfo) {
	var units []housing.HousingUnit
	err := s.DB.Where("deleted_at IS NULL").
		Order("block").
		Order("unit").
		Find(&units).Error
	if err != nil {
		return nil, types.NewError("STORE_ERROR", "Failed to load housing catalog").
			WithDetail("error", err.Error())
	}

	grouped := make([]BlockUnits, 0)
	for _, u := range units {
		if n := len(grouped); n > 0 && grouped[n-1].Block == u.Block {
			grouped[n-1].Units = append(grouped[n-1].Units, u.Unit)
			continue
		}
		grouped = append(grouped, BlockUnits{Block: u.Block, Units: []string{u.Unit}})
	}
	return grouped, nil
}

// ResidentContactView is the contact card returned for one unit.
type ResidentContactView struct {
	HousingUnitID uint   `json:"housingUnitId"`
	Block         string `json:"block"`
	Unit          string `json:"unit"`
	ResidentID    uint   `json:"residentId"`
	FullName      string `json:"fullName"`
	Phone         string `json:"phone,omitempty"`
}

// ResidentContact looks up the current resident for a block/unit address,
// with the phone already normalized for dialing.
func (s *Service) ResidentContact(block, unit string) (*ResidentContactView, *types.ErrorInfo) {
	var housingUnit housing.HousingUnit
	err := s.DB.Where("LOWER(TRIM(block)) = LOWER(TRIM(?)) AND LOWER(TRIM(unit)) = LOWER(TRIM(?)) AND deleted_at IS NULL", block, unit).
		First(&housingUnit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, s.residentNotFound(block, unit)
	}
	if err != nil {
		return nil, types.NewError("STORE_ERROR", "Failed to load housing unit").
			WithDetail("error", err.Error())
	}

	var residents []housing.Resident
	err = s.DB.Where("housing_unit_id = ? AND deleted_at IS NULL", housingUnit.ID).
		Order("updated_at DESC").
		Order("id DESC").
		Find(&residents).Error
	if err != nil {
		return nil, types.NewError("STORE_ERROR", "Failed to load resident").
			WithDetail("error", err.Error())
	}
	if len(residents) == 0 {
		return nil, s.residentNotFound(block, unit)
	}

	resident := residents[0]
	for i := range residents {
		if residents[i].IsActive() {
			resident = residents[i]
			break
		}
	}

	phone := ""
	if resident.Phone != nil {
		phone = utils.NormalizePhone(*resident.Phone)
	}
	return &ResidentContactView{
		HousingUnitID: housingUnit.ID,
		Block:         housingUnit.Block,
		Unit:          housingUnit.Unit,
		ResidentID:    resident.ID,
		FullName:      resident.FullName(),
		Phone:         phone,
	}, nil
}

func (s *Service) residentNotFound(block, unit string) *types.ErrorInfo {
	return types.NewError("RESIDENT_NOT_FOUND", "No resident found for the housing unit").
		WithDetail("block", block).
		WithDetail("unit", unit)
}
