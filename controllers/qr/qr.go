package qr

import (
	"time"

	"visit-access/logger"
	qrService "visit-access/services/qr"
	"visit-access/types"
	qrTypes "visit-access/types/qr"

	"github.com/gofiber/fiber/v2"
)

// QRController serves the QR pass endpoints.
type QRController struct {
	Service *qrService.Service
}

func NewQRController(service *qrService.Service) *QRController {
	return &QRController{Service: service}
}

// Issue creates a QR pass, defaulting the validity window to today.
func (qc *QRController) Issue(c *fiber.Ctx) error {
	var req qrTypes.IssueRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse QR issue request", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	var validFrom, validUntil time.Time
	if req.ValidFrom != "" && req.ValidUntil != "" {
		var err error
		validFrom, err = time.Parse(time.RFC3339, req.ValidFrom)
		if err == nil {
			validUntil, err = time.Parse(time.RFC3339, req.ValidUntil)
		}
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "Validity bounds must be RFC3339 timestamps",
			})
		}
	}

	pass, errInfo := qc.Service.Issue(req.AccessID, validFrom, validUntil, "system")
	if errInfo != nil {
		return respondError(c, errInfo)
	}

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "QR pass issued",
		Data:    pass,
	})
}

// Validate checks a QR pass and optionally marks it used.
func (qc *QRController) Validate(c *fiber.Ctx) error {
	var req qrTypes.ValidateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse QR validate request", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	pass, errInfo := qc.Service.Validate(req.QRID, req.MarkUsed, "guard")
	if errInfo != nil {
		return respondError(c, errInfo)
	}

	message := "QR pass is valid"
	if req.MarkUsed {
		message = "QR pass marked as used"
	}
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: message,
		Data:    pass,
	})
}

// Image renders the QR pass token as a PNG.
func (qc *QRController) Image(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid QR pass identifier",
		})
	}

	png, errInfo := qc.Service.Image(uint(id))
	if errInfo != nil {
		return respondError(c, errInfo)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Status(fiber.StatusOK).Send(png)
}

func respondError(c *fiber.Ctx, errInfo *types.ErrorInfo) error {
	status := errInfo.HTTPStatus()
	return c.Status(status).JSON(types.ApiResponse{
		Status:  status,
		Message: errInfo.Message,
		Error:   errInfo,
	})
}
