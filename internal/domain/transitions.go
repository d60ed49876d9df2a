package domain

// IsTerminal reports whether the status admits no further transitions.
func IsTerminal(status InquiryStatus) bool {
	return status == InquiryStatusResolved || status == InquiryStatusClosed
}

// NextStatusOnMessage returns the status an inquiry implicitly moves to when
// a message lands on it. A first touch on an OPEN or freshly ASSIGNED inquiry
// moves it to IN_PROGRESS; every other state is left alone.
func NextStatusOnMessage(current InquiryStatus, sender SenderType) InquiryStatus {
	if current == InquiryStatusOpen || current == InquiryStatusAssigned {
		return InquiryStatusInProgress
	}
	return current
}

// ShouldAutoAssign reports whether a staff member touching an unassigned
// inquiry should take it over implicitly.
func ShouldAutoAssign(current InquiryStatus) bool {
	return !IsTerminal(current)
}
