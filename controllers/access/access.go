package access

import (
	"visit-access/logger"
	accessService "visit-access/services/access"
	"visit-access/types"
	accessTypes "visit-access/types/access"

	"github.com/gofiber/fiber/v2"
)

// AccessController handles access-request HTTP requests.
type AccessController struct {
	Service *accessService.Service
}

func NewAccessController(service *accessService.Service) *AccessController {
	return &AccessController{Service: service}
}

// Store creates a new access request in the pending state.
func (ac *AccessController) Store(c *fiber.Ctx) error {
	var req accessTypes.CreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse access create request", err)
		return badRequestBody(c)
	}

	result, errInfo := ac.Service.Create(req.HousingUnitID, req.Reason, req.VisitorName, req.Kind)
	if errInfo != nil {
		return respondError(c, errInfo)
	}

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Access request created in pending state",
		Data:    result,
	})
}

// StartCall triggers the authorization call for an access request.
func (ac *AccessController) StartCall(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return invalidID(c)
	}

	// Body is optional: the visitor name can also come from the stored row.
	var req accessTypes.StartCallRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			logger.Error("Failed to parse start call request", err)
			return badRequestBody(c)
		}
	}

	result, errInfo := ac.Service.StartAuthorizationCall(uint(id), req.VisitorName)
	if errInfo != nil {
		return respondError(c, errInfo)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Authorization call started",
		Data:    result,
	})
}

// ApplyDecision persists a decision for a visit, coming either from the
// digit webhook through the notifier or from a direct client call.
func (ac *AccessController) ApplyDecision(c *fiber.Ctx) error {
	var req accessTypes.DecisionRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse decision request", err)
		return badRequestBody(c)
	}

	result, errInfo := ac.Service.ApplyDecision(req.Decision, req.VisitID, req.Digit, req.CallSid)
	if errInfo != nil {
		return respondError(c, errInfo)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Decision applied to access request",
		Data:    result,
	})
}

// PollStatus returns the derived decision state for polling clients.
func (ac *AccessController) PollStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return invalidID(c)
	}

	view, errInfo := ac.Service.PollingStatus(uint(id))
	if errInfo != nil {
		return respondError(c, errInfo)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Access request status",
		Data:    view,
	})
}

// Show returns the raw persisted row.
func (ac *AccessController) Show(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return invalidID(c)
	}

	record, errInfo := ac.Service.GetByID(uint(id))
	if errInfo != nil {
		return respondError(c, errInfo)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Access request found",
		Data:    record,
	})
}

func respondError(c *fiber.Ctx, errInfo *types.ErrorInfo) error {
	status := errInfo.HTTPStatus()
	return c.Status(status).JSON(types.ApiResponse{
		Status:  status,
		Message: errInfo.Message,
		Error:   errInfo,
	})
}

func badRequestBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
		Status:  fiber.StatusBadRequest,
		Message: "Invalid request body",
	})
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
		Status:  fiber.StatusBadRequest,
		Message: "Invalid access request identifier",
	})
}
