package twilio

import (
	"os"
	"strings"

	decision "visit-access/httpServices/decision"
	"visit-access/logger"
	"visit-access/services/callstore"
	"visit-access/types"
	"visit-access/utils"
)

// Notifier pushes a captured decision to the access backend. Failures are
// the caller's to log and swallow.
type Notifier interface {
	NotifyDecision(payload decision.Payload) error
}

// Config holds the credentials and addressing needed to place calls.
type Config struct {
	AccountSid  string
	AuthToken   string
	PhoneNumber string
	BaseURL     string
}

// ConfigFromEnv reads the Twilio configuration from the environment,
// trimming whitespace so a stray newline in an .env file does not break
// dialing.
func ConfigFromEnv() Config {
	getenv := func(name string) string {
		return strings.TrimSpace(os.Getenv(name))
	}
	return Config{
		AccountSid:  getenv("TWILIO_ACCOUNT_SID"),
		AuthToken:   getenv("TWILIO_AUTH_TOKEN"),
		PhoneNumber: getenv("TWILIO_PHONE_NUMBER"),
		BaseURL:     getenv("BASE_URL"),
	}
}

// MissingKeys lists the unset configuration variables.
func (c Config) MissingKeys() []string {
	var missing []string
	if c.AccountSid == "" {
		missing = append(missing, "TWILIO_ACCOUNT_SID")
	}
	if c.AuthToken == "" {
		missing = append(missing, "TWILIO_AUTH_TOKEN")
	}
	if c.PhoneNumber == "" {
		missing = append(missing, "TWILIO_PHONE_NUMBER")
	}
	if c.BaseURL == "" {
		missing = append(missing, "BASE_URL")
	}
	return missing
}

// StartCallResult is the outcome of a successfully placed call.
type StartCallResult struct {
	CallSid string `json:"callSid"`
	VisitID string `json:"visitId"`
}

// Service orchestrates outbound authorization calls: it validates config,
// normalizes the destination, places the call through the provider and
// registers it in the call store.
type Service struct {
	provider CallProvider
	notifier Notifier
	calls    *callstore.Store
	config   Config
}

func NewService(provider CallProvider, notifier Notifier, calls *callstore.Store, config Config) *Service {
	return &Service{
		provider: provider,
		notifier: notifier,
		calls:    calls,
		config:   config,
	}
}

// Calls exposes the tracking store for read-only lookups.
func (s *Service) Calls() *callstore.Store {
	return s.calls
}

// BaseURL exposes the public base URL webhooks are built against.
func (s *Service) BaseURL() string {
	return s.config.BaseURL
}

// StartCall places the authorization call for one visit. Provider errors
// are wrapped as CALL_ERROR and never retried here; retrying a phone call
// is an operator decision.
func (s *Service) StartCall(to, residentName, visitorName, visitID string) (*StartCallResult, *types.ErrorInfo) {
	if strings.TrimSpace(to) == "" {
		return nil, types.NewError("MISSING_DESTINATION", "Destination number is required")
	}

	if missing := s.config.MissingKeys(); len(missing) > 0 {
		return nil, types.NewError("MISSING_CONFIG", "Twilio configuration is incomplete").
			WithDetail("missing", missing)
	}

	normalizedTo := utils.NormalizePhone(to)
	query := menuQuery(residentName, visitorName, visitID)
	voiceURL := joinURL(s.config.BaseURL, "/twilio/voice", query)
	statusURL := joinURL(s.config.BaseURL, "/twilio/status-callback", menuQuery("", "", visitID))

	callSid, err := s.provider.CreateCall(normalizedTo, s.config.PhoneNumber, voiceURL, statusURL)
	if err != nil {
		logger.Error("Failed to create outbound call", err)
		return nil, types.NewError("CALL_ERROR", "Error creating call").
			WithDetail("error", err.Error())
	}

	s.calls.Register(callSid, visitID, normalizedTo, residentName, visitorName)
	logger.Success("Authorization call started: " + callSid + " visit " + visitID)

	return &StartCallResult{CallSid: callSid, VisitID: visitID}, nil
}

// VoicePrompt builds the TwiML served when the provider fetches the menu.
func (s *Service) VoicePrompt(residentName, visitorName, visitID string) (string, error) {
	return BuildVoicePrompt(residentName, visitorName, visitID, s.config.BaseURL)
}

// HandleDigitInput processes the digit webhook: it normalizes the raw
// payload, records an authorize/reject decision in the call store, pushes
// the decision to the backend best-effort and returns the response TwiML.
// The voice flow must complete no matter what the side effects do.
func (s *Service) HandleDigitInput(rawDigit, residentName, visitorName, visitID, callSid string) (string, error) {
	digit := utils.NormalizeDigit(rawDigit)

	var decided string
	switch digit {
	case "1":
		decided = "authorized"
	case "2":
		decided = "rejected"
	}

	if decided != "" {
		if _, errInfo := s.calls.UpdateDecision(callSid, visitID, decided, digit); errInfo != nil {
			logger.Warning("Digit decision without tracked call: " + errInfo.Error())
		}
		s.notifyDecisionSafe(decision.Payload{
			Decision:     decided,
			ResidentName: residentName,
			VisitorName:  visitorName,
			Digit:        digit,
			VisitID:      visitID,
			CallSid:      callSid,
		})
	}

	return BuildInputResponse(digit, residentName, visitorName, visitID, s.config.BaseURL)
}

// notifyDecisionSafe delivers the decision and swallows every failure.
func (s *Service) notifyDecisionSafe(payload decision.Payload) {
	if s.notifier == nil {
		logger.Warning("No decision notifier configured, dropping decision for visit " + payload.VisitID)
		return
	}
	if err := s.notifier.NotifyDecision(payload); err != nil {
		logger.Error("Decision webhook failed for visit "+payload.VisitID, err)
	}
}
