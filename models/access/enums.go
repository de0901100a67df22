package access

// AccessKind tags where an access request originated.
type AccessKind string

const (
	KindQRResident        AccessKind = "qr_resident"
	KindQRVisit           AccessKind = "qr_visit"
	KindVisitWithoutQR    AccessKind = "visit_without_qr"
	KindPedestrianVisit   AccessKind = "pedestrian_visit"
	KindResidentAutomatic AccessKind = "resident_automatic"
	KindManualGuard       AccessKind = "manual_guard"
)

func (k AccessKind) String() string {
	return string(k)
}

func (k AccessKind) IsValid() bool {
	switch k {
	case KindQRResident, KindQRVisit, KindVisitWithoutQR,
		KindPedestrianVisit, KindResidentAutomatic, KindManualGuard:
		return true
	default:
		return false
	}
}

// GetAllAccessKinds returns the fixed allow-list of request origins.
func GetAllAccessKinds() []AccessKind {
	return []AccessKind{
		KindQRResident,
		KindQRVisit,
		KindVisitWithoutQR,
		KindPedestrianVisit,
		KindResidentAutomatic,
		KindManualGuard,
	}
}

// Outcome is the persisted decision state of an access request.
type Outcome string

const (
	OutcomePending    Outcome = "pending"
	OutcomeAuthorized Outcome = "authorized"
	OutcomeRejected   Outcome = "rejected"
	// OutcomeNotAuthorized doubles as the physical initial value on legacy
	// schemas whose check constraint predates the pending state.
	OutcomeNotAuthorized Outcome = "not_authorized"
)

func (o Outcome) String() string {
	return string(o)
}

func (o Outcome) IsValid() bool {
	switch o {
	case OutcomePending, OutcomeAuthorized, OutcomeRejected, OutcomeNotAuthorized:
		return true
	default:
		return false
	}
}

// IsDecided reports whether the outcome is a terminal resident decision.
func (o Outcome) IsDecided() bool {
	return o == OutcomeAuthorized || o == OutcomeRejected
}
