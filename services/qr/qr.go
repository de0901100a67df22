package qr

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/now"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	qrModel "visit-access/models/qr"
	"visit-access/types"
)

// Service issues and validates QR entry passes.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// Issue creates a pass for an access request. A zero validity window
// defaults to the whole current day.
func (s *Service) Issue(accessID uint, validFrom, validUntil time.Time, actor string) (*qrModel.QRPass, *types.ErrorInfo) {
	if validFrom.IsZero() || validUntil.IsZero() {
		validFrom = now.BeginningOfDay()
		validUntil = now.EndOfDay()
	}
	if !validUntil.After(validFrom) {
		return nil, types.NewError("QR_INVALID", "Validity window must end after it starts")
	}

	pass := &qrModel.QRPass{
		Token:      uuid.NewString(),
		ValidFrom:  validFrom,
		ValidUntil: validUntil,
		State:      "current",
		CreatedBy:  actor,
	}
	if accessID != 0 {
		pass.AccessID = &accessID
	}

	if err := s.DB.Create(pass).Error; err != nil {
		return nil, types.NewError("STORE_ERROR", "Failed to persist QR pass").
			WithDetail("error", err.Error())
	}
	return pass, nil
}

// Validate checks one pass and optionally burns it.
func (s *Service) Validate(qrID uint, markUsed bool, actor string) (*qrModel.QRPass, *types.ErrorInfo) {
	var pass qrModel.QRPass
	err := s.DB.Where("id = ? AND deleted_at IS NULL", qrID).First(&pass).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NewError("QR_NOT_FOUND", "QR pass does not exist").
			WithDetail("qrId", qrID)
	}
	if err != nil {
		return nil, types.NewError("STORE_ERROR", "Failed to load QR pass").
			WithDetail("error", err.Error())
	}

	at := time.Now()
	if !pass.IsCurrent(at) {
		return nil, types.NewError("QR_INVALID", "QR pass is not currently valid").
			WithDetail("qrId", qrID)
	}

	if markUsed {
		usedAt := at
		pass.UsedAt = &usedAt
		pass.UpdatedBy = actor
		if err := s.DB.Save(&pass).Error; err != nil {
			return nil, types.NewError("STORE_ERROR", "Failed to mark QR pass as used").
				WithDetail("error", err.Error())
		}
	}
	return &pass, nil
}

// Image renders the pass token as a QR PNG.
func (s *Service) Image(qrID uint) ([]byte, *types.ErrorInfo) {
	var pass qrModel.QRPass
	err := s.DB.Where("id = ? AND deleted_at IS NULL", qrID).First(&pass).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NewError("QR_NOT_FOUND", "QR pass does not exist").
			WithDetail("qrId", qrID)
	}
	if err != nil {
		return nil, types.NewError("STORE_ERROR", "Failed to load QR pass").
			WithDetail("error", err.Error())
	}

	png, encErr := qrcode.Encode(pass.Token, qrcode.Medium, 256)
	if encErr != nil {
		return nil, types.NewError("QR_ENCODE_ERROR", "Failed to render QR image").
			WithDetail("error", encErr.Error())
	}
	return png, nil
}
