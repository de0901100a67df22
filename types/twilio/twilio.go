package twilio

// CallRequest is the payload for placing an outbound authorization call
// directly, without going through an access request.
type CallRequest struct {
	To           string `json:"to"`
	ResidentName string `json:"residentName"`
	VisitorName  string `json:"visitorName"`
	VisitID      string `json:"visitId"`
}

// StatusCallback models the form fields Twilio posts on call lifecycle
// events. Fields not sent on a given event arrive empty.
type StatusCallback struct {
	CallSid      string `form:"CallSid"`
	CallStatus   string `form:"CallStatus"`
	CallDuration string `form:"CallDuration"`
	AnsweredBy   string `form:"AnsweredBy"`
	From         string `form:"From"`
	To           string `form:"To"`
}
