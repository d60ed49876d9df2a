package domain

import "time"

// InquiryStatus enumerates lifecycle states for inquiries.
type InquiryStatus string

const (
	InquiryStatusOpen       InquiryStatus = "OPEN"
	InquiryStatusAssigned   InquiryStatus = "ASSIGNED"
	InquiryStatusInProgress InquiryStatus = "IN_PROGRESS"
	InquiryStatusEscalated  InquiryStatus = "ESCALATED"
	InquiryStatusResolved   InquiryStatus = "RESOLVED"
	InquiryStatusClosed     InquiryStatus = "CLOSED"
)

// InquiryType categorizes the subject area of an inquiry.
type InquiryType string

const (
	InquiryTypePayment   InquiryType = "PAYMENT"
	InquiryTypeOrder     InquiryType = "ORDER"
	InquiryTypeAccount   InquiryType = "ACCOUNT"
	InquiryTypeTechnical InquiryType = "TECHNICAL"
	InquiryTypeGeneral   InquiryType = "GENERAL"
)

// InquiryPriority enumerates urgency.
type InquiryPriority string

const (
	InquiryPriorityLow    InquiryPriority = "LOW"
	InquiryPriorityMedium InquiryPriority = "MEDIUM"
	InquiryPriorityHigh   InquiryPriority = "HIGH"
	InquiryPriorityUrgent InquiryPriority = "URGENT"
)

// Inquiry is the aggregate for customer support requests. Inquiries are never
// hard-deleted; RESOLVED and CLOSED are terminal.
type Inquiry struct {
	ID                string
	ReferenceKey      string
	Type              InquiryType
	Subject           string
	Status            InquiryStatus
	Priority          InquiryPriority
	DepartmentID      string
	CreatedByUserID   string
	AssignedToStaffID *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ValidStatus reports whether s is a known lifecycle state.
func ValidStatus(s InquiryStatus) bool {
	switch s {
	case InquiryStatusOpen, InquiryStatusAssigned, InquiryStatusInProgress,
		InquiryStatusEscalated, InquiryStatusResolved, InquiryStatusClosed:
		return true
	}
	return false
}

// ValidType reports whether t is a known inquiry type.
func ValidType(t InquiryType) bool {
	switch t {
	case InquiryTypePayment, InquiryTypeOrder, InquiryTypeAccount,
		InquiryTypeTechnical, InquiryTypeGeneral:
		return true
	}
	return false
}
