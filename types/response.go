package types

import "github.com/gofiber/fiber/v2"

// ApiResponse is the envelope returned by every JSON endpoint.
type ApiResponse struct {
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo carries a stable machine-readable error code so clients can
// branch without parsing messages.
type ErrorInfo struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ErrorInfo) Error() string {
	return e.Code + ": " + e.Message
}

// NewError builds an ErrorInfo with the given code and message.
func NewError(code, message string) *ErrorInfo {
	return &ErrorInfo{Code: code, Message: message}
}

// WithDetail attaches one key/value pair to the error details.
func (e *ErrorInfo) WithDetail(key string, value interface{}) *ErrorInfo {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// HTTPStatus maps a service error code to the status code the controllers
// answer with.
func (e *ErrorInfo) HTTPStatus() int {
	switch e.Code {
	case "NOT_FOUND", "RESIDENT_NOT_FOUND", "ACCESS_NOT_FOUND",
		"CALL_NOT_FOUND", "VISIT_NOT_FOUND", "QR_NOT_FOUND":
		return fiber.StatusNotFound
	case "MISSING_CONFIG", "CALL_ERROR", "STORE_ERROR":
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}
