package httpServices

// Payload is the decision notification pushed to the configured endpoint
// when a resident presses an authorize/reject digit.
type Payload struct {
	Decision     string `json:"decision"`
	ResidentName string `json:"residentName"`
	VisitorName  string `json:"visitorName"`
	Digit        string `json:"digit"`
	VisitID      string `json:"visitId"`
	CallSid      string `json:"callSid,omitempty"`
}
