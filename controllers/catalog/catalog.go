package catalog

import (
	catalogService "visit-access/services/catalog"
	"visit-access/types"

	"github.com/gofiber/fiber/v2"
)

// CatalogController serves the read-only housing catalog endpoints.
type CatalogController struct {
	Service *catalogService.Service
}

func NewCatalogController(service *catalogService.Service) *CatalogController {
	return &CatalogController{Service: service}
}

// Housing lists housing units grouped by block.
func (cc *CatalogController) Housing(c *fiber.Ctx) error {
	grouped, errInfo := cc.Service.HousingByBlock()
	if errInfo != nil {
		status := errInfo.HTTPStatus()
		return c.Status(status).JSON(types.ApiResponse{
			Status:  status,
			Message: errInfo.Message,
			Error:   errInfo,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Housing catalog",
		Data:    grouped,
	})
}

// ResidentContact returns the current resident contact for a block/unit.
func (cc *CatalogController) ResidentContact(c *fiber.Ctx) error {
	block := c.Query("block")
	unit := c.Query("unit")
	if block == "" || unit == "" {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "block and unit query parameters are required",
		})
	}

	contact, errInfo := cc.Service.ResidentContact(block, unit)
	if errInfo != nil {
		status := errInfo.HTTPStatus()
		return c.Status(status).JSON(types.ApiResponse{
			Status:  status,
			Message: errInfo.Message,
			Error:   errInfo,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Resident contact found",
		Data:    contact,
	})
}
