package twilio

import (
	"time"

	"visit-access/logger"
	"visit-access/services/callstore"
	twilioService "visit-access/services/twilio"
	"visit-access/types"
	twilioTypes "visit-access/types/twilio"

	"github.com/gofiber/fiber/v2"
)

// TwilioController exposes the call endpoints: the operator-facing call
// trigger, the provider webhooks and the read-only call state lookups.
type TwilioController struct {
	Service *twilioService.Service
	Logger  *logger.AsyncLogger
}

func NewTwilioController(service *twilioService.Service, asyncLogger *logger.AsyncLogger) *TwilioController {
	return &TwilioController{Service: service, Logger: asyncLogger}
}

// Health answers the provider-side reachability probe.
func (tc *TwilioController) Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "ok",
		"service": "twilio",
	})
}

// StartCall places an authorization call directly, without an access
// request backing it. Used by operators to test the voice flow.
func (tc *TwilioController) StartCall(c *fiber.Ctx) error {
	var req twilioTypes.CallRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse call request", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	result, errInfo := tc.Service.StartCall(req.To, req.ResidentName, req.VisitorName, req.VisitID)
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
		Message: "Call started",
		Data:    result,
	})
}

// Voice serves the spoken-menu document when the provider connects the
// call. Twilio fetches it with the query parameters the orchestrator put
// on the callback URL.
func (tc *TwilioController) Voice(c *fiber.Ctx) error {
	doc, err := tc.Service.VoicePrompt(
		c.Query("residentName"),
		c.Query("visitorName"),
		c.Query("visitId"),
	)
	if err != nil {
		logger.Error("Failed to build voice prompt", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return sendTwiML(c, doc)
}

// HandleInput receives the digit the resident pressed, updates the call
// store, pushes the decision best-effort and answers with the response
// menu. This handler must reply within the provider's timeout, so every
// side effect is bounded and failures never propagate here.
func (tc *TwilioController) HandleInput(c *fiber.Ctx) error {
	doc, err := tc.Service.HandleDigitInput(
		c.FormValue("Digits"),
		c.Query("residentName"),
		c.Query("visitorName"),
		c.Query("visitId"),
		c.FormValue("CallSid"),
	)
	if err != nil {
		logger.Error("Failed to build input response", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	tc.logWebhook(c, doc, fiber.StatusOK)
	return sendTwiML(c, doc)
}

// StatusCallback ingests call lifecycle events. Callbacks may arrive
// before registration or out of order; the store copes, so this always
// accepts.
func (tc *TwilioController) StatusCallback(c *fiber.Ctx) error {
	var cb twilioTypes.StatusCallback
	if err := c.BodyParser(&cb); err != nil {
		logger.Error("Failed to parse status callback", err)
		return c.SendStatus(fiber.StatusBadRequest)
	}
	if cb.CallSid == "" {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	record := tc.Service.Calls().UpdateStatus(cb.CallSid, callstore.StatusUpdate{
		VisitID:    c.Query("visitId"),
		CallStatus: cb.CallStatus,
		Duration:   cb.CallDuration,
		AnsweredBy: cb.AnsweredBy,
		From:       cb.From,
		To:         cb.To,
	})
	logger.Info("Call " + record.CallSid + " status " + record.CallStatus)

	tc.logWebhook(c, "", fiber.StatusNoContent)
	return c.SendStatus(fiber.StatusNoContent)
}

// CallStatus looks up live call state by provider call sid.
func (tc *TwilioController) CallStatus(c *fiber.Ctx) error {
	callSid := c.Params("callSid")
	record, ok := tc.Service.Calls().GetByCallSid(callSid)
	if !ok {
		errInfo := types.NewError("CALL_NOT_FOUND", "No tracked call with that sid").
			WithDetail("callSid", callSid)
		return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: errInfo.Message,
			Error:   errInfo,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Call found",
		Data:    record,
	})
}

// VisitStatus looks up live call state by visit identifier.
func (tc *TwilioController) VisitStatus(c *fiber.Ctx) error {
	visitID := c.Params("visitId")
	record, ok := tc.Service.Calls().GetByVisitID(visitID)
	if !ok {
		errInfo := types.NewError("VISIT_NOT_FOUND", "No tracked call for that visit").
			WithDetail("visitId", visitID)
		return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: errInfo.Message,
			Error:   errInfo,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Call found",
		Data:    record,
	})
}

func (tc *TwilioController) logWebhook(c *fiber.Ctx, responseBody string, status int) {
	if tc.Logger == nil {
		return
	}
	tc.Logger.Log(types.LogEntry{
		Source:       "twilio",
		Method:       c.Method(),
		URL:          c.OriginalURL(),
		RequestBody:  string(c.Body()),
		ResponseBody: responseBody,
		StatusCode:   status,
		CreatedAt:    time.Now(),
	})
}

func sendTwiML(c *fiber.Ctx, doc string) error {
	c.Set(fiber.HeaderContentType, "text/xml")
	return c.Status(fiber.StatusOK).SendString(doc)
}
