package access

import (
	"strconv"
	"strings"
	"time"

	accessModel "visit-access/models/access"
	twilioService "visit-access/services/twilio"
	"visit-access/types"
	"visit-access/utils"
)

// Service owns the access request lifecycle: create pending, start the
// authorization call, apply the captured decision and derive the polling
// view.
type Service struct {
	store  Store
	twilio *twilioService.Service
}

func NewService(store Store, twilio *twilioService.Service) *Service {
	return &Service{store: store, twilio: twilio}
}

// CreateResult is the response of creating a pending request. VisitID is
// the request identifier as the string carried through the call webhooks.
type CreateResult struct {
	AccessID              uint   `json:"accessId"`
	VisitID               string `json:"visitId"`
	State                 string `json:"state"`
	PersistedOutcome      string `json:"persistedOutcome"`
	Kind                  string `json:"kind"`
	Reason                string `json:"reason"`
	HousingUnitID         uint   `json:"housingUnitId"`
	ResidentPhone         string `json:"residentPhone,omitempty"`
	SchemaSupportsPending bool   `json:"schemaSupportsPending"`
}

// Create persists a new access request in the logical pending state. When
// the schema has no pending value the row is written as not_authorized and
// pending is derived for clients.
func (s *Service) Create(housingUnitID uint, reason, visitorName, kind string) (*CreateResult, *types.ErrorInfo) {
	normalizedReason := strings.TrimSpace(reason)
	if normalizedReason == "" {
		return nil, types.NewError("MISSING_REASON", "Reason is required")
	}

	normalizedKind := accessModel.AccessKind(strings.TrimSpace(kind))
	if normalizedKind == "" {
		normalizedKind = accessModel.KindVisitWithoutQR
	}
	if !normalizedKind.IsValid() {
		allowed := make([]string, 0)
		for _, k := range accessModel.GetAllAccessKinds() {
			allowed = append(allowed, k.String())
		}
		return nil, types.NewError("INVALID_KIND", "Invalid access kind").
			WithDetail("received", normalizedKind.String()).
			WithDetail("allowed", allowed)
	}

	resident, err := s.store.GetResidentByHousingUnit(housingUnitID)
	if err != nil {
		return nil, types.NewError("STORE_ERROR", "Failed to resolve resident").
			WithDetail("error", err.Error())
	}
	if resident == nil {
		return nil, types.NewError("RESIDENT_NOT_FOUND", "No resident found for the housing unit").
			WithDetail("housingUnitId", housingUnitID)
	}

	supportsPending := s.store.SupportsPendingOutcome()
	initialOutcome := accessModel.OutcomeNotAuthorized
	if supportsPending {
		initialOutcome = accessModel.OutcomePending
	}

	record := &accessModel.Access{
		Kind:          normalizedKind,
		Outcome:       initialOutcome,
		Reason:        normalizedReason,
		HousingUnitID: housingUnitID,
		ResidentID:    &resident.ResidentID,
		CreatedBy:     "system",
	}
	if trimmed := strings.TrimSpace(visitorName); trimmed != "" {
		record.VisitorName = &trimmed
	}

	if err := s.store.CreateAccess(record); err != nil {
		return nil, types.NewError("STORE_ERROR", "Failed to persist access request").
			WithDetail("error", err.Error())
	}

	return &CreateResult{
		AccessID:              record.ID,
		VisitID:               strconv.FormatUint(uint64(record.ID), 10),
		State:                 accessModel.OutcomePending.String(),
		PersistedOutcome:      record.Outcome.String(),
		Kind:                  record.Kind.String(),
		Reason:                record.Reason,
		HousingUnitID:         record.HousingUnitID,
		ResidentPhone:         utils.NormalizePhone(resident.Phone),
		SchemaSupportsPending: supportsPending,
	}, nil
}

// CallStartResult is the response of starting an authorization call.
type CallStartResult struct {
	AccessID uint   `json:"accessId"`
	CallSid  string `json:"callSid"`
	VisitID  string `json:"visitId"`
	State    string `json:"state"`
}

// StartAuthorizationCall phones the resident of the request's housing
// unit, using the request identifier as the visit id correlating all
// asynchronous callbacks. Orchestrator errors pass through unchanged.
func (s *Service) StartAuthorizationCall(id uint, visitorName string) (*CallStartResult, *types.ErrorInfo) {
	record, err := s.store.GetAccessByID(id)
	if err != nil {
		return nil, types.NewError("STORE_ERROR", "Failed to load access request").
			WithDetail("error", err.Error())
	}
	if record == nil {
		return nil, types.NewError("NOT_FOUND", "Access request does not exist").
			WithDetail("accessId", id)
	}

	resident, err := s.store.GetResidentByHousingUnit(record.HousingUnitID)
	if err != nil {
		return nil, types.NewError("STORE_ERROR", "Failed to resolve resident").
			WithDetail("error", err.Error())
	}
	if resident == nil {
		return nil, types.NewError("RESIDENT_NOT_FOUND", "No resident found for the housing unit of the request").
			WithDetail("accessId", id).
			WithDetail("housingUnitId", record.HousingUnitID)
	}

	to := utils.NormalizePhone(resident.Phone)
	if strings.TrimSpace(to) == "" {
		return nil, types.NewError("RESIDENT_PHONE_MISSING", "The resident has no phone number configured").
			WithDetail("accessId", id).
			WithDetail("residentId", resident.ResidentID)
	}

	visitor := strings.TrimSpace(visitorName)
	if visitor == "" && record.VisitorName != nil {
		visitor = *record.VisitorName
	}

	visitID := strconv.FormatUint(uint64(id), 10)
	result, errInfo := s.twilio.StartCall(to, resident.FullName(), visitor, visitID)
	if errInfo != nil {
		return nil, errInfo
	}

	return &CallStartResult{
		AccessID: id,
		CallSid:  result.CallSid,
		VisitID:  result.VisitID,
		State:    accessModel.OutcomePending.String(),
	}, nil
}

// DecisionResult is the flattened row state after applying a decision.
type DecisionResult struct {
	AccessID  uint      `json:"accessId"`
	Outcome   string    `json:"outcome"`
	Note      string    `json:"note"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ApplyDecision writes a captured decision into the durable row. A repeat
// decision overwrites the previous one: guards re-dial when a resident
// wants to correct an answer, so last writer wins by design of the legacy
// flow.
func (s *Service) ApplyDecision(decision, visitID, digit, callSid string) (*DecisionResult, *types.ErrorInfo) {
	var outcome accessModel.Outcome
	switch strings.ToLower(strings.TrimSpace(decision)) {
	case "authorized":
		outcome = accessModel.OutcomeAuthorized
	case "rejected":
		outcome = accessModel.OutcomeRejected
	default:
		return nil, types.NewError("INVALID_DECISION", "Invalid call decision").
			WithDetail("received", decision).
			WithDetail("allowed", []string{"authorized", "rejected"})
	}

	id, err := strconv.ParseUint(strings.TrimSpace(visitID), 10, 32)
	if err != nil {
		return nil, types.NewError("INVALID_VISIT_ID", "visitId is not a valid request identifier").
			WithDetail("visitId", visitID)
	}

	pairs := []utils.NotePair{{Key: "decision_twilio", Value: outcome.String()}}
	if digit != "" {
		pairs = append(pairs, utils.NotePair{Key: "digit", Value: digit})
	}
	if callSid != "" {
		pairs = append(pairs, utils.NotePair{Key: "callSid", Value: callSid})
	}
	note := utils.FormatNote(pairs)

	updated, err := s.store.UpdateOutcome(uint(id), outcome, note, "twilio")
	if err != nil {
		return nil, types.NewError("STORE_ERROR", "Failed to update access request").
			WithDetail("error", err.Error())
	}
	if updated == nil {
		return nil, types.NewError("ACCESS_NOT_FOUND", "No access request to update").
			WithDetail("accessId", id)
	}

	result := &DecisionResult{
		AccessID:  updated.ID,
		Outcome:   updated.Outcome.String(),
		UpdatedAt: updated.UpdatedAt,
	}
	if updated.Note != nil {
		result.Note = *updated.Note
	}
	return result, nil
}

// StatusView is the merged, client-facing decision state of a request.
type StatusView struct {
	AccessID         uint      `json:"accessId"`
	State            string    `json:"state"`
	Finished         bool      `json:"finished"`
	CanProceed       bool      `json:"canProceed"`
	PersistedOutcome string    `json:"persistedOutcome"`
	Reason           string    `json:"reason"`
	Digit            string    `json:"digit,omitempty"`
	CallSid          string    `json:"callSid,omitempty"`
	UpdatedAt        time.Time `json:"updatedAt"`
	UpdatedBy        string    `json:"updatedBy,omitempty"`
}

// PollingStatus derives the logical state for polling clients. The note
// side channel wins over the physical outcome column: on legacy schemas
// the column may still read not_authorized while the decision already
// landed in the note.
func (s *Service) PollingStatus(id uint) (*StatusView, *types.ErrorInfo) {
	record, err := s.store.GetAccessByID(id)
	if err != nil {
		return nil, types.NewError("STORE_ERROR", "Failed to load access request").
			WithDetail("error", err.Error())
	}
	if record == nil {
		return nil, types.NewError("NOT_FOUND", "Access request does not exist").
			WithDetail("accessId", id)
	}

	note := ""
	if record.Note != nil {
		note = *record.Note
	}
	noteData := utils.ParseNote(note)

	state := accessModel.OutcomePending.String()
	switch strings.ToLower(strings.TrimSpace(noteData["decision_twilio"])) {
	case accessModel.OutcomeAuthorized.String():
		state = accessModel.OutcomeAuthorized.String()
	case accessModel.OutcomeRejected.String():
		state = accessModel.OutcomeRejected.String()
	default:
		if record.Outcome.IsDecided() {
			state = record.Outcome.String()
		}
	}

	finished := state == accessModel.OutcomeAuthorized.String() || state == accessModel.OutcomeRejected.String()

	return &StatusView{
		AccessID:         record.ID,
		State:            state,
		Finished:         finished,
		CanProceed:       state == accessModel.OutcomeAuthorized.String(),
		PersistedOutcome: record.Outcome.String(),
		Reason:           record.Reason,
		Digit:            noteData["digit"],
		CallSid:          noteData["callSid"],
		UpdatedAt:        record.UpdatedAt,
		UpdatedBy:        record.UpdatedBy,
	}, nil
}

// GetByID returns the raw persisted row.
func (s *Service) GetByID(id uint) (*accessModel.Access, *types.ErrorInfo) {
	record, err := s.store.GetAccessByID(id)
	if err != nil {
		return nil, types.NewError("STORE_ERROR", "Failed to load access request").
			WithDetail("error", err.Error())
	}
	if record == nil {
		return nil, types.NewError("NOT_FOUND", "Access request does not exist").
			WithDetail("accessId", id)
	}
	return record, nil
}
