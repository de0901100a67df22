package qr

// IssueRequest is the payload for issuing a QR pass.
type IssueRequest struct {
	AccessID   uint   `json:"accessId"`
	ValidFrom  string `json:"validFrom,omitempty"`
	ValidUntil string `json:"validUntil,omitempty"`
}

// ValidateRequest is the payload for validating a QR pass.
type ValidateRequest struct {
	QRID     uint `json:"qrId"`
	MarkUsed bool `json:"markUsed"`
}
