package callstore

import (
	"sync"
	"time"

	"visit-access/types"
)

// CallRecord is the live telephony view of one outbound authorization
// call. Records are process-scoped; nothing here survives a restart.
type CallRecord struct {
	CallSid      string     `json:"callSid"`
	VisitID      string     `json:"visitId"`
	To           string     `json:"to"`
	ResidentName string     `json:"residentName"`
	VisitorName  string     `json:"visitorName"`
	CallStatus   string     `json:"callStatus"`
	Decision     string     `json:"decision,omitempty"`
	Digit        string     `json:"digit,omitempty"`
	AnsweredBy   string     `json:"answeredBy,omitempty"`
	Duration     string     `json:"duration,omitempty"`
	From         string     `json:"from,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// StatusUpdate carries the optional fields of a provider status callback.
// Empty strings mean "not sent on this event" and leave the stored value
// alone.
type StatusUpdate struct {
	VisitID    string
	CallStatus string
	Duration   string
	AnsweredBy string
	From       string
	To         string
}

// Store is the single source of truth for live call state: records keyed
// by provider call sid with a secondary visit index used to match
// asynchronous decisions back to their visit. One instance per process,
// injected where needed; tests construct their own.
type Store struct {
	mu          sync.Mutex
	byCallSid   map[string]*CallRecord
	visitToCall map[string]string
}

func New() *Store {
	return &Store{
		byCallSid:   make(map[string]*CallRecord),
		visitToCall: make(map[string]string),
	}
}

// Register creates the record for a freshly placed call. A later call for
// the same visit overwrites the visit mapping.
func (s *Store) Register(callSid, visitID, to, residentName, visitorName string) CallRecord {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()

	record := &CallRecord{
		CallSid:      callSid,
		VisitID:      visitID,
		To:           to,
		ResidentName: residentName,
		VisitorName:  visitorName,
		CallStatus:   "initiated",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.byCallSid[callSid] = record
	if visitID != "" {
		s.visitToCall[visitID] = callSid
	}
	return *record
}

// UpdateStatus applies a provider lifecycle callback. Callbacks may race
// ahead of Register, so a missing record is synthesized rather than
// rejected.
func (s *Store) UpdateStatus(callSid string, update StatusUpdate) CallRecord {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byCallSid[callSid]
	if !ok {
		record = &CallRecord{
			CallSid:    callSid,
			VisitID:    update.VisitID,
			To:         update.To,
			CallStatus: update.CallStatus,
			AnsweredBy: update.AnsweredBy,
			Duration:   update.Duration,
			From:       update.From,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		s.byCallSid[callSid] = record
	} else {
		record.CallStatus = update.CallStatus
		if update.Duration != "" {
			record.Duration = update.Duration
		}
		if update.AnsweredBy != "" {
			record.AnsweredBy = update.AnsweredBy
		}
		if update.From != "" {
			record.From = update.From
		}
		if update.To != "" {
			record.To = update.To
		}
		record.UpdatedAt = now
	}

	if update.VisitID != "" {
		record.VisitID = update.VisitID
		s.visitToCall[update.VisitID] = callSid
	}

	return *record
}

// UpdateDecision records the digit decision, resolving the target by call
// sid first and by visit id as fallback.
func (s *Store) UpdateDecision(callSid, visitID, decision, digit string) (CallRecord, *types.ErrorInfo) {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()

	var record *CallRecord
	if callSid != "" {
		record = s.byCallSid[callSid]
	}
	if record == nil && visitID != "" {
		if mapped, ok := s.visitToCall[visitID]; ok {
			record = s.byCallSid[mapped]
		}
	}
	if record == nil {
		return CallRecord{}, types.NewError("CALL_NOT_FOUND", "No tracked call for the given identifiers").
			WithDetail("callSid", callSid).
			WithDetail("visitId", visitID)
	}

	record.Decision = decision
	record.Digit = digit
	record.UpdatedAt = now
	if visitID != "" {
		record.VisitID = visitID
		s.visitToCall[visitID] = record.CallSid
	}
	return *record, nil
}

// GetByCallSid returns a copy of the record for one call.
func (s *Store) GetByCallSid(callSid string) (CallRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byCallSid[callSid]
	if !ok {
		return CallRecord{}, false
	}
	return *record, true
}

// GetByVisitID returns a copy of the record currently linked to a visit.
func (s *Store) GetByVisitID(visitID string) (CallRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	callSid, ok := s.visitToCall[visitID]
	if !ok {
		return CallRecord{}, false
	}
	record, ok := s.byCallSid[callSid]
	if !ok {
		return CallRecord{}, false
	}
	return *record, true
}
