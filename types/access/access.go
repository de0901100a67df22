package access

// CreateRequest is the payload for creating a pending access request.
type CreateRequest struct {
	HousingUnitID uint   `json:"housingUnitId"`
	Reason        string `json:"reason"`
	VisitorName   string `json:"visitorName"`
	Kind          string `json:"kind"`
}

// StartCallRequest is the payload for starting an authorization call.
type StartCallRequest struct {
	VisitorName string `json:"visitorName"`
}

// DecisionRequest is the payload the decision endpoint receives, either
// from the Twilio digit webhook (through the notifier) or from a direct
// client call.
type DecisionRequest struct {
	Decision     string `json:"decision"`
	VisitID      string `json:"visitId"`
	Digit        string `json:"digit,omitempty"`
	CallSid      string `json:"callSid,omitempty"`
	ResidentName string `json:"residentName,omitempty"`
	VisitorName  string `json:"visitorName,omitempty"`
}
